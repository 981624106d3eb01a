package classification

import (
	"math"
	"testing"

	"academy_server/core/domain"
)

// TestResolveUrgency tests the satisfaction floors, sentiment rules, and
// the negative-keyword floor.
func TestResolveUrgency(t *testing.T) {
	tests := []struct {
		name         string
		aiUrgency    int
		satisfaction float64
		sentiment    domain.Sentiment
		freeText     string
		want         int
	}{
		{
			name:         "very low satisfaction floors to 7",
			aiUrgency:    0,
			satisfaction: 0.1,
			sentiment:    domain.SentimentNegative,
			want:         7,
		},
		{
			name:         "low satisfaction floors to 5",
			aiUrgency:    0,
			satisfaction: 0.3,
			sentiment:    domain.SentimentNegative,
			want:         5,
		},
		{
			name:         "mid satisfaction floors to 3",
			aiUrgency:    0,
			satisfaction: 0.5,
			sentiment:    domain.SentimentNeutral,
			want:         3,
		},
		{
			name:         "negative sentiment alone floors to 4",
			aiUrgency:    0,
			satisfaction: 0.8,
			sentiment:    domain.SentimentNegative,
			want:         4,
		},
		{
			name:         "positive sentiment with high satisfaction caps at 2",
			aiUrgency:    8,
			satisfaction: 0.9,
			sentiment:    domain.SentimentPositive,
			want:         2,
		},
		{
			name:         "positive cap does not raise a low urgency",
			aiUrgency:    0,
			satisfaction: 0.9,
			sentiment:    domain.SentimentPositive,
			want:         0,
		},
		{
			name:         "negative keyword floors to 5 despite good ratings",
			aiUrgency:    0,
			satisfaction: 0.65,
			sentiment:    domain.SentimentNeutral,
			freeText:     "the platform keeps crashing with an error",
			want:         5,
		},
		{
			name:         "AI urgency above all floors passes through",
			aiUrgency:    9,
			satisfaction: 0.8,
			sentiment:    domain.SentimentNeutral,
			want:         9,
		},
		{
			name:         "out-of-range AI urgency clamps to 10",
			aiUrgency:    15,
			satisfaction: 0.5,
			sentiment:    domain.SentimentNeutral,
			want:         10,
		},
		{
			name:         "negative AI urgency clamps to 0",
			aiUrgency:    -3,
			satisfaction: 0.8,
			sentiment:    domain.SentimentNeutral,
			want:         0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveUrgency(tt.aiUrgency, tt.satisfaction, tt.sentiment, tt.freeText)
			if got != tt.want {
				t.Errorf("urgency = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestResolveUrgencyMonotone verifies that urgency never drops as
// satisfaction falls, for a fixed sentiment and text.
func TestResolveUrgencyMonotone(t *testing.T) {
	satisfactions := []float64{1.0, 0.9, 0.7, 0.55, 0.35, 0.2, 0.1, 0.0}

	prev := -1
	for _, sat := range satisfactions {
		got := ResolveUrgency(0, sat, domain.SentimentNeutral, "")
		if got < prev {
			t.Errorf("urgency dropped from %v to %v at satisfaction %.2f", prev, got, sat)
		}
		prev = got
	}
}

// TestHeuristicSentiment tests the satisfaction-to-sentiment bands.
func TestHeuristicSentiment(t *testing.T) {
	tests := []struct {
		name          string
		satisfaction  float64
		wantSentiment domain.Sentiment
		wantScore     float64
	}{
		{"zero satisfaction", 0.0, domain.SentimentNegative, -0.9},
		{"very low satisfaction", 0.1, domain.SentimentNegative, -0.8},
		{"just below negative boundary", 0.39, domain.SentimentNegative, -0.51},
		{"negative boundary is neutral", 0.4, domain.SentimentNeutral, 0},
		{"mid satisfaction", 0.5, domain.SentimentNeutral, 0},
		{"positive boundary is neutral", 0.7, domain.SentimentNeutral, 0},
		{"high satisfaction", 0.9, domain.SentimentPositive, 0.8333333333},
		{"full satisfaction", 1.0, domain.SentimentPositive, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sentiment, score := HeuristicSentiment(tt.satisfaction)
			if sentiment != tt.wantSentiment {
				t.Errorf("sentiment = %v, want %v", sentiment, tt.wantSentiment)
			}
			if math.Abs(score-tt.wantScore) > 1e-6 {
				t.Errorf("score = %v, want %v", score, tt.wantScore)
			}
		})
	}
}

// TestContainsNegativeKeyword tests the negative-signal lexicon.
func TestContainsNegativeKeyword(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"frustration stem covers word forms", "I am so frustrated with this class", true},
		{"workload phrase", "there is TOO MUCH homework every week", true},
		{"malfunction phrase", "the upload link is broken again", true},
		{"stress signal", "the deadlines give me anxiety", true},
		{"plain praise", "great class, learned a lot", false},
		{"empty text", "", false},
		{"whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsNegativeKeyword(tt.text); got != tt.want {
				t.Errorf("ContainsNegativeKeyword(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
