package classification

import (
	"testing"
)

// TestParseResponse tests the AI response parser and its repair chain.
func TestParseResponse(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		wantParsed   bool
		wantRepaired bool
		wantCode     string
		wantUrgency  float64
		hasUrgency   bool
	}{
		{
			name:        "clean JSON object",
			raw:         `{"categoryCode":"C2","sentiment":"Negative","urgency":6,"reason":"lessons move too fast"}`,
			wantParsed:  true,
			wantCode:    "C2",
			wantUrgency: 6,
			hasUrgency:  true,
		},
		{
			name:        "json code fence wrapper",
			raw:         "```json\n{\"categoryCode\":\"M1\",\"sentiment\":\"Neutral\",\"urgency\":2}\n```",
			wantParsed:  true,
			wantCode:    "M1",
			wantUrgency: 2,
			hasUrgency:  true,
		},
		{
			name:       "bare code fence wrapper",
			raw:        "```\n{\"sentiment\":\"Positive\",\"reason\":\"clear explanations\"}\n```",
			wantParsed: true,
		},
		{
			name:        "narrative text around the object",
			raw:         `Here is my analysis: {"sentiment":"Negative","urgency":7} I hope this helps!`,
			wantParsed:  true,
			wantUrgency: 7,
			hasUrgency:  true,
		},
		{
			name:       "snake_case keys are normalized",
			raw:        `{"category_code":"A1","sentiment_score":-0.4,"main_issue":"workload"}`,
			wantParsed: true,
			wantCode:   "A1",
		},
		{
			name:         "trailing comma triggers repair pass",
			raw:          `{"categoryCode":"T1","sentiment":"Negative","urgency":5,}`,
			wantParsed:   true,
			wantRepaired: true,
			wantCode:     "T1",
			wantUrgency:  5,
			hasUrgency:   true,
		},
		{
			name:         "fenced object with a trailing comma",
			raw:          "```json\n{\"categoryCode\":\"C3\",\"sentiment\":\"Neutral\",\"urgency\":4,}\n```",
			wantParsed:   true,
			wantRepaired: true,
			wantCode:     "C3",
			wantUrgency:  4,
			hasUrgency:   true,
		},
		{
			name:       "no JSON object at all",
			raw:        "I'm sorry, I cannot classify this feedback.",
			wantParsed: false,
		},
		{
			name:       "truncated object without closing brace",
			raw:        `{"categoryCode":"C1","sentiment":"Neg`,
			wantParsed: false,
		},
		{
			name:       "empty object carries no signal",
			raw:        `{}`,
			wantParsed: false,
		},
		{
			name:       "empty string",
			raw:        "",
			wantParsed: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, repaired := ParseResponse(tt.raw)

			if !tt.wantParsed {
				if parsed != nil {
					t.Errorf("parsed = %+v, want nil", parsed)
				}
				return
			}

			if parsed == nil {
				t.Errorf("parsed = nil, want non-nil")
				return
			}
			if repaired != tt.wantRepaired {
				t.Errorf("repaired = %v, want %v", repaired, tt.wantRepaired)
			}
			if tt.wantCode != "" && parsed.CategoryCode != tt.wantCode {
				t.Errorf("categoryCode = %v, want %v", parsed.CategoryCode, tt.wantCode)
			}
			if tt.hasUrgency {
				if parsed.Urgency == nil {
					t.Errorf("urgency = nil, want %v", tt.wantUrgency)
				} else if *parsed.Urgency != tt.wantUrgency {
					t.Errorf("urgency = %v, want %v", *parsed.Urgency, tt.wantUrgency)
				}
			}
		})
	}
}

// TestExtractFields tests the last-resort regex field extraction.
func TestExtractFields(t *testing.T) {
	t.Run("extracts fields from broken non-JSON text", func(t *testing.T) {
		raw := `The feedback is clearly negative.
sentiment: negative
urgency: 8
category_code: T1
reason: "the platform kept crashing during the lesson"`

		parsed := ExtractFields(raw)
		if parsed == nil {
			t.Fatalf("parsed = nil, want non-nil")
		}
		if parsed.Sentiment != "negative" {
			t.Errorf("sentiment = %v, want negative", parsed.Sentiment)
		}
		if parsed.Urgency == nil || *parsed.Urgency != 8 {
			t.Errorf("urgency = %v, want 8", parsed.Urgency)
		}
		if parsed.CategoryCode != "T1" {
			t.Errorf("categoryCode = %v, want T1", parsed.CategoryCode)
		}
		if parsed.Reason == "" {
			t.Errorf("reason is empty, want extracted reason")
		}
	})

	t.Run("extracts sentiment score with sign", func(t *testing.T) {
		parsed := ExtractFields(`"sentiment_score": -0.75, "sentiment": "Negative"`)
		if parsed == nil {
			t.Fatalf("parsed = nil, want non-nil")
		}
		if parsed.SentimentScore == nil || *parsed.SentimentScore != -0.75 {
			t.Errorf("sentimentScore = %v, want -0.75", parsed.SentimentScore)
		}
	})

	t.Run("returns nil when nothing matches", func(t *testing.T) {
		if parsed := ExtractFields("hello there, nothing useful here"); parsed != nil {
			t.Errorf("parsed = %+v, want nil", parsed)
		}
	})
}
