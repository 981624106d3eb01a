package classification

import (
	"strings"

	"academy_server/core/domain"
)

// =============================================================================
// Urgency/Sentiment Resolver
// =============================================================================

// negativeKeywords is a broad lexicon covering comprehension difficulty,
// dissatisfaction, workload, malfunction, stress, and scarcity. Substring
// matched against lowercased text, so stems like "frustrat" cover several
// word forms.
var negativeKeywords = []string{
	// comprehension difficulty
	"don't understand", "dont understand", "do not understand",
	"didn't understand", "didnt understand", "can't follow", "cant follow",
	"confused", "confusing", "unclear", "lost",
	// dissatisfaction
	"disappointed", "disappointing", "frustrat", "unhappy", "terrible",
	"awful", "useless", "waste", "hate", "worst", "bad experience",
	// workload
	"too much", "too many", "overwhelm", "overload", "too hard",
	"too difficult", "difficult for me", "can't keep up", "cant keep up",
	"give up", "struggl",
	// malfunction
	"not working", "doesn't work", "doesnt work", "broken", "crash",
	"keeps failing", "error",
	// stress
	"stress", "anxious", "anxiety", "exhaust", "burn out", "burnout",
	// scarcity
	"not enough", "lack of", "lacking", "no time", "missing",
}

// ContainsNegativeKeyword reports whether text carries a negative signal
// from the lexicon. Case-insensitive.
func ContainsNegativeKeyword(text string) bool {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return false
	}
	for _, keyword := range negativeKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// ResolveUrgency blends the AI-provided urgency with satisfaction-score
// thresholds and negative-keyword detection. Rules are floor-raising and
// ceiling-lowering operations, not overwrites, so urgency stays monotone
// in falling satisfaction for a fixed sentiment.
func ResolveUrgency(aiUrgency int, satisfaction float64, sentiment domain.Sentiment, freeText string) int {
	urgency := aiUrgency

	switch {
	case satisfaction < 0.25:
		urgency = floor(urgency, 7)
	case satisfaction < 0.40:
		urgency = floor(urgency, 5)
	case satisfaction < 0.60:
		urgency = floor(urgency, 3)
	}

	if sentiment == domain.SentimentNegative {
		urgency = floor(urgency, 4)
	}
	if sentiment == domain.SentimentPositive && satisfaction >= 0.70 {
		urgency = ceiling(urgency, 2)
	}

	if urgency < 5 && ContainsNegativeKeyword(freeText) {
		urgency = floor(urgency, 5)
	}

	return clampInt(urgency, 0, 10)
}

// HeuristicSentiment derives sentiment purely from the satisfaction score
// for the no-AI path. The score scales with the distance from the band
// boundary: satisfaction 0 maps to -0.9, 0.4 to -0.5, 0.7 to 0.5, 1.0 to 1.0.
func HeuristicSentiment(satisfaction float64) (domain.Sentiment, float64) {
	switch {
	case satisfaction < 0.4:
		return domain.SentimentNegative, clampFloat(-0.5-(0.4-satisfaction), -1, 1)
	case satisfaction > 0.7:
		return domain.SentimentPositive, clampFloat(0.5+(satisfaction-0.7)/0.3*0.5, -1, 1)
	default:
		return domain.SentimentNeutral, 0
	}
}

func floor(v, min int) int {
	if v < min {
		return min
	}
	return v
}

func ceiling(v, max int) int {
	if v > max {
		return max
	}
	return v
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
