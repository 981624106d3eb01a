package classification

import (
	"context"
	"math"
	"testing"

	"academy_server/core/domain"
)

// TestPipelineHeuristicOnly runs the pipeline without an AI client. Every
// input must still produce a complete, in-range verdict.
func TestPipelineHeuristicOnly(t *testing.T) {
	pipeline := NewPipeline(nil, nil)

	tests := []struct {
		name          string
		input         *Input
		wantSentiment domain.Sentiment
		wantUrgency   int
		wantCategory  domain.CategoryCode
	}{
		{
			name: "very unhappy student with no comment",
			input: &Input{
				FeedbackID:        1,
				Answers:           map[int64]int{1: 1, 2: 1, 3: 2},
				SatisfactionScore: 0.1,
			},
			wantSentiment: domain.SentimentNegative,
			wantUrgency:   7,
			wantCategory:  domain.CategoryUnknown,
		},
		{
			name: "happy student gets the praise category",
			input: &Input{
				FeedbackID:        2,
				Answers:           map[int64]int{1: 4, 2: 4, 3: 4},
				SatisfactionScore: 0.9,
				FreeText:          "really enjoyed the course",
			},
			wantSentiment: domain.SentimentPositive,
			wantUrgency:   0,
			wantCategory:  domain.CategoryTeachingClarity,
		},
		{
			name: "mixed ratings without text",
			input: &Input{
				FeedbackID:        3,
				Answers:           map[int64]int{1: 2, 2: 3},
				SatisfactionScore: 0.5,
			},
			wantSentiment: domain.SentimentNeutral,
			wantUrgency:   3,
			wantCategory:  domain.CategoryUnknown,
		},
		{
			name: "decent ratings but the comment reports a malfunction",
			input: &Input{
				FeedbackID:        4,
				Answers:           map[int64]int{1: 3, 2: 3},
				SatisfactionScore: 0.65,
				FreeText:          "the platform keeps crashing with an error message",
			},
			wantSentiment: domain.SentimentNeutral,
			wantUrgency:   5,
			wantCategory:  domain.CategoryTechnical,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, source := pipeline.ClassifyWithSource(context.Background(), tt.input)

			if result == nil {
				t.Fatalf("result = nil, want complete classification")
			}
			if source != SourceHeuristic {
				t.Errorf("source = %v, want %v", source, SourceHeuristic)
			}
			if result.Sentiment != tt.wantSentiment {
				t.Errorf("sentiment = %v, want %v", result.Sentiment, tt.wantSentiment)
			}
			if result.Urgency != tt.wantUrgency {
				t.Errorf("urgency = %v, want %v", result.Urgency, tt.wantUrgency)
			}
			if result.CategoryCode != tt.wantCategory {
				t.Errorf("category = %v, want %v", result.CategoryCode, tt.wantCategory)
			}
			if result.CategoryName == "" {
				t.Errorf("categoryName is empty")
			}
			if result.SentimentScore < -1 || result.SentimentScore > 1 {
				t.Errorf("sentimentScore = %v, want within [-1,1]", result.SentimentScore)
			}
			if result.Confidence == nil {
				t.Errorf("confidence = nil, want heuristic confidence")
			} else if math.Abs(*result.Confidence-0.5) > 1e-9 {
				t.Errorf("confidence = %v, want 0.5", *result.Confidence)
			}
			if result.Reason == "" {
				t.Errorf("reason is empty")
			}
			if result.AnalyzedAt.IsZero() {
				t.Errorf("analyzedAt is zero, want stamped")
			}

			t.Logf("Result: sentiment=%v score=%.2f urgency=%d category=%v source=%s",
				result.Sentiment, result.SentimentScore, result.Urgency, result.CategoryCode, source)
		})
	}
}

// TestPipelineUrgencyRange fuzzes satisfaction across the whole range and
// checks the verdict never leaves its bounds.
func TestPipelineUrgencyRange(t *testing.T) {
	pipeline := NewPipeline(nil, nil)

	for sat := 0.0; sat <= 1.0; sat += 0.05 {
		result := pipeline.Classify(context.Background(), &Input{
			FeedbackID:        99,
			SatisfactionScore: sat,
			FreeText:          "the homework is stressful and the wifi is broken",
		})
		if result.Urgency < 0 || result.Urgency > 10 {
			t.Errorf("satisfaction %.2f: urgency = %v, want within [0,10]", sat, result.Urgency)
		}
		if result.SentimentScore < -1 || result.SentimentScore > 1 {
			t.Errorf("satisfaction %.2f: sentimentScore = %v, want within [-1,1]", sat, result.SentimentScore)
		}
		if result.CategoryCode == "" {
			t.Errorf("satisfaction %.2f: category is empty", sat)
		}
	}
}

// TestHeuristicClassifierPraise verifies that praise is not tagged with an
// issue category just because a friendly word overlaps a keyword set.
func TestHeuristicClassifierPraise(t *testing.T) {
	classifier := NewHeuristicClassifier(0.5)

	result, err := classifier.Classify(context.Background(), &Input{
		FeedbackID:        7,
		SatisfactionScore: 0.95,
		FreeText:          "the instructor was so helpful and supportive",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// "helpful" overlaps the instructor-support keyword set, but the high
	// satisfaction marks this as praise.
	if result.CategoryCode != domain.CategoryTeachingClarity {
		t.Errorf("category = %v, want %v", result.CategoryCode, domain.CategoryTeachingClarity)
	}
	if result.Sentiment != domain.SentimentPositive {
		t.Errorf("sentiment = %v, want Positive", result.Sentiment)
	}
	if result.Source != SourceHeuristic {
		t.Errorf("source = %v, want %v", result.Source, SourceHeuristic)
	}
}
