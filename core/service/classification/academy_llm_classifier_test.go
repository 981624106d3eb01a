package classification

import (
	"testing"

	"academy_server/core/domain"
)

// TestSanitize exercises the full validation ladder over a parsed AI
// response: exact code, legacy label mapping, keyword inference, and the
// positive/unknown defaults, plus range clamping.
func TestSanitize(t *testing.T) {
	urgency := func(v float64) *float64 { return &v }
	score := func(v float64) *float64 { return &v }

	tests := []struct {
		name          string
		parsed        *parsedResponse
		input         *Input
		wantCode      domain.CategoryCode
		wantSentiment domain.Sentiment
		wantUrgency   int
		wantScore     float64
	}{
		{
			name: "exact code passes through case-insensitively",
			parsed: &parsedResponse{
				CategoryCode: "t1",
				Sentiment:    "Negative",
				Urgency:      urgency(6),
			},
			input:         &Input{SatisfactionScore: 0.3},
			wantCode:      domain.CategoryTechnical,
			wantSentiment: domain.SentimentNegative,
			wantUrgency:   6,
		},
		{
			name: "legacy label in the code field maps to a code",
			parsed: &parsedResponse{
				CategoryCode: "Workload",
				Sentiment:    "Negative",
				Urgency:      urgency(5),
			},
			input:         &Input{SatisfactionScore: 0.3},
			wantCode:      domain.CategoryAssessment,
			wantSentiment: domain.SentimentNegative,
			wantUrgency:   5,
		},
		{
			name: "legacy label in the issue field maps to a code",
			parsed: &parsedResponse{
				CategoryCode:  "X9",
				IssueCategory: "platform",
				Sentiment:     "Neutral",
			},
			input:         &Input{SatisfactionScore: 0.5},
			wantCode:      domain.CategoryTechnical,
			wantSentiment: domain.SentimentNeutral,
		},
		{
			name: "unmappable label falls to keyword inference on the reason",
			parsed: &parsedResponse{
				CategoryCode: "misc",
				Sentiment:    "Negative",
				Reason:       "complaints about the projector and room noise",
			},
			input:         &Input{SatisfactionScore: 0.3},
			wantCode:      domain.CategoryFacilities,
			wantSentiment: domain.SentimentNegative,
		},
		{
			name: "keyword inference falls back to the student's text",
			parsed: &parsedResponse{
				Sentiment: "Negative",
			},
			input: &Input{
				SatisfactionScore: 0.3,
				FreeText:          "grading feels unfair",
			},
			wantCode:      domain.CategoryAssessment,
			wantSentiment: domain.SentimentNegative,
		},
		{
			name: "positive high satisfaction without signals defaults to C1",
			parsed: &parsedResponse{
				Sentiment: "Positive",
				Urgency:   urgency(1),
			},
			input:         &Input{SatisfactionScore: 0.9},
			wantCode:      domain.CategoryTeachingClarity,
			wantSentiment: domain.SentimentPositive,
			wantUrgency:   1,
		},
		{
			name: "no signal at all lands on UNK with Neutral coercion",
			parsed: &parsedResponse{
				Sentiment: "mixed feelings",
			},
			input:         &Input{SatisfactionScore: 0.5},
			wantCode:      domain.CategoryUnknown,
			wantSentiment: domain.SentimentNeutral,
		},
		{
			name: "out-of-range values are clamped",
			parsed: &parsedResponse{
				CategoryCode:   "C2",
				Sentiment:      "Negative",
				Urgency:        urgency(15),
				SentimentScore: score(-2.5),
			},
			input:         &Input{SatisfactionScore: 0.3},
			wantCode:      domain.CategoryPacing,
			wantSentiment: domain.SentimentNegative,
			wantUrgency:   10,
			wantScore:     -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := sanitize(tt.parsed, tt.input, SourceLLM)

			if result.CategoryCode != tt.wantCode {
				t.Errorf("category = %v, want %v", result.CategoryCode, tt.wantCode)
			}
			if result.Sentiment != tt.wantSentiment {
				t.Errorf("sentiment = %v, want %v", result.Sentiment, tt.wantSentiment)
			}
			if result.Urgency != tt.wantUrgency {
				t.Errorf("urgency = %v, want %v", result.Urgency, tt.wantUrgency)
			}
			if result.SentimentScore != tt.wantScore {
				t.Errorf("sentimentScore = %v, want %v", result.SentimentScore, tt.wantScore)
			}
			if result.CategoryName != domain.CategoryDisplayName(tt.wantCode) {
				t.Errorf("categoryName = %v, want %v", result.CategoryName, domain.CategoryDisplayName(tt.wantCode))
			}
			if result.MainIssue == "" {
				t.Errorf("mainIssue is empty, want category name fallback")
			}
		})
	}
}

// TestSanitizeConfidenceClamp verifies the optional confidence field is
// clamped into [0,1] when present and left nil when absent.
func TestSanitizeConfidenceClamp(t *testing.T) {
	over := 1.5
	result := sanitize(&parsedResponse{
		CategoryCode: "C1",
		Sentiment:    "Positive",
		Confidence:   &over,
	}, &Input{SatisfactionScore: 0.9}, SourceLLM)

	if result.Confidence == nil {
		t.Fatalf("confidence = nil, want clamped value")
	}
	if *result.Confidence != 1 {
		t.Errorf("confidence = %v, want 1", *result.Confidence)
	}

	result = sanitize(&parsedResponse{
		CategoryCode: "C1",
		Sentiment:    "Positive",
	}, &Input{SatisfactionScore: 0.9}, SourceLLM)
	if result.Confidence != nil {
		t.Errorf("confidence = %v, want nil when the AI omitted it", *result.Confidence)
	}
}
