package domain

import (
	"testing"
	"time"
)

func TestCategoryByCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		wantCode CategoryCode
		wantOK   bool
	}{
		{"exact code", "A1", CategoryAssessment, true},
		{"lowercase code", "t1", CategoryTechnical, true},
		{"padded code", "  c1 ", CategoryTeachingClarity, true},
		{"unknown sentinel", "UNK", CategoryUnknown, true},
		{"unassigned code", "Z9", "", false},
		{"empty string", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, ok := CategoryByCode(tt.code)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && cat.Code != tt.wantCode {
				t.Errorf("code = %v, want %v", cat.Code, tt.wantCode)
			}
		})
	}
}

func TestLegacyCategoryCode(t *testing.T) {
	tests := []struct {
		label    string
		wantCode CategoryCode
		wantOK   bool
	}{
		{"clarity", CategoryTeachingClarity, true},
		{"Workload", CategoryAssessment, true},
		{"PLATFORM", CategoryTechnical, true},
		{"other", CategoryUnknown, true},
		{" pacing ", CategoryPacing, true},
		{"something else entirely", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			code, ok := LegacyCategoryCode(tt.label)
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && code != tt.wantCode {
				t.Errorf("code = %v, want %v", code, tt.wantCode)
			}
		})
	}
}

func TestCategoryDisplayName(t *testing.T) {
	if got := CategoryDisplayName(CategoryAssessment); got != "Assessment & Workload Fairness" {
		t.Errorf("name = %v, want Assessment & Workload Fairness", got)
	}
	// Codes outside the taxonomy fall back to the unclassified name.
	if got := CategoryDisplayName(CategoryCode("Z9")); got != "Unclassified" {
		t.Errorf("name = %v, want Unclassified", got)
	}
}

func TestAllCategories(t *testing.T) {
	cats := AllCategories()
	if len(cats) != len(CategoryPriority) {
		t.Fatalf("len = %v, want %v", len(cats), len(CategoryPriority))
	}
	for i, cat := range cats {
		if cat.Code != CategoryPriority[i] {
			t.Errorf("position %d: code = %v, want %v", i, cat.Code, CategoryPriority[i])
		}
		if len(cat.Keywords) == 0 {
			t.Errorf("%v has no keywords", cat.Code)
		}
	}
}

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		raw  string
		want Sentiment
	}{
		{"Positive", SentimentPositive},
		{"positive", SentimentPositive},
		{"NEGATIVE", SentimentNegative},
		{" neutral ", SentimentNeutral},
		{"mixed", SentimentNeutral},
		{"", SentimentNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseSentiment(tt.raw); got != tt.want {
				t.Errorf("ParseSentiment(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestSafeClassification(t *testing.T) {
	now := time.Now().UTC()
	c := SafeClassification(now)

	if c.Sentiment != SentimentNeutral {
		t.Errorf("sentiment = %v, want Neutral", c.Sentiment)
	}
	if c.Urgency != 0 {
		t.Errorf("urgency = %v, want 0", c.Urgency)
	}
	if c.CategoryCode != CategoryUnknown {
		t.Errorf("category = %v, want %v", c.CategoryCode, CategoryUnknown)
	}
	if !c.AnalyzedAt.Equal(now) {
		t.Errorf("analyzedAt = %v, want %v", c.AnalyzedAt, now)
	}
}
