package classification

import (
	"context"
	"fmt"

	"academy_server/core/domain"
)

// =============================================================================
// Heuristic Classifier (no-AI fallback)
// =============================================================================

// HeuristicClassifier derives a complete verdict from the satisfaction
// score and keyword matching alone. It always returns a result, which makes
// the pipeline total regardless of AI availability.
type HeuristicClassifier struct {
	confidence float64
}

func NewHeuristicClassifier(confidence float64) *HeuristicClassifier {
	if confidence == 0 {
		confidence = 0.5
	}
	return &HeuristicClassifier{confidence: confidence}
}

func (c *HeuristicClassifier) Name() string { return "heuristic" }

func (c *HeuristicClassifier) Classify(ctx context.Context, input *Input) (*Result, error) {
	sentiment, score := HeuristicSentiment(input.SatisfactionScore)

	var code domain.CategoryCode
	if sentiment == domain.SentimentPositive && input.SatisfactionScore >= 0.7 {
		// Praise should not be tagged with an issue category just because
		// a word like "helpful" overlaps a keyword set.
		code = domain.CategoryTeachingClarity
	} else if code = ClassifyByKeywords(input.Text()); code == "" {
		code = domain.CategoryUnknown
	}

	name := domain.CategoryDisplayName(code)
	confidence := c.confidence

	return &Result{
		Sentiment:      sentiment,
		SentimentScore: score,
		Urgency:        0, // resolver floors raise this
		CategoryCode:   code,
		CategoryName:   name,
		Confidence:     &confidence,
		Reason:         synthesizeReason(code, sentiment),
		MainIssue:      name,
		Source:         SourceHeuristic,
	}, nil
}

// synthesizeReason builds a generic justification from the category name.
// Never copies the student's text verbatim.
func synthesizeReason(code domain.CategoryCode, sentiment domain.Sentiment) string {
	name := domain.CategoryDisplayName(code)

	switch sentiment {
	case domain.SentimentPositive:
		return fmt.Sprintf("Overall positive feedback; strongest signal relates to %s.", name)
	case domain.SentimentNegative:
		if code == domain.CategoryUnknown {
			return "Low satisfaction ratings without a clearly identifiable issue category."
		}
		return fmt.Sprintf("Low satisfaction ratings with signals pointing to %s.", name)
	default:
		if code == domain.CategoryUnknown {
			return "Mixed ratings without a clearly identifiable issue category."
		}
		return fmt.Sprintf("Mixed ratings with signals pointing to %s.", name)
	}
}
