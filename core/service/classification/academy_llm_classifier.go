package classification

import (
	"context"
	"math"
	"time"

	"academy_server/core/agent/llm"
	"academy_server/core/domain"
)

// =============================================================================
// LLM Classifier (primary AI strategy)
// =============================================================================

// LLMClassifier calls the external AI endpoint and drives the parser and
// repair chain over its output. A nil result means the AI path yielded
// nothing usable and the pipeline should fall through.
type LLMClassifier struct {
	client  *llm.Client
	timeout time.Duration
}

// NewLLMClassifier creates the primary AI classifier. client may be nil
// when no credential is configured; Classify then skips immediately.
func NewLLMClassifier(client *llm.Client, timeout time.Duration) *LLMClassifier {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &LLMClassifier{client: client, timeout: timeout}
}

func (c *LLMClassifier) Name() string { return "llm" }

func (c *LLMClassifier) Classify(ctx context.Context, input *Input) (*Result, error) {
	if c.client == nil {
		return nil, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	raw, err := c.client.ClassifyFeedbackRaw(callCtx, promptFor(input))
	if err != nil {
		return nil, err
	}

	source := SourceLLM
	parsed, repaired := ParseResponse(raw)
	if repaired {
		source = SourceLLMRepaired
	}
	if parsed == nil {
		// Last-resort parse before giving up on the AI output.
		parsed = ExtractFields(raw)
		source = SourceLLMRegex
	}
	if parsed == nil {
		return nil, nil
	}

	return sanitize(parsed, input, source), nil
}

func promptFor(input *Input) *llm.FeedbackPrompt {
	return &llm.FeedbackPrompt{
		Answers:           input.Answers,
		SatisfactionScore: input.SatisfactionScore,
		FreeText:          input.FreeText,
		Transcript:        input.Transcript,
	}
}

// =============================================================================
// Validate & Sanitize
// =============================================================================

// sanitize coerces a parsed AI response into an in-range Result. Invalid
// sentiment becomes Neutral, scores are clamped, and the category code is
// resolved through the validation ladder: exact code, legacy label lookup,
// keyword matching on reason plus free text, then the UNK/C1 default.
func sanitize(parsed *parsedResponse, input *Input, source string) *Result {
	result := &Result{
		Sentiment: domain.ParseSentiment(parsed.Sentiment),
		Reason:    parsed.Reason,
		MainIssue: parsed.MainIssue,
		Source:    source,
	}

	if parsed.SentimentScore != nil {
		result.SentimentScore = clampFloat(*parsed.SentimentScore, -1, 1)
	}
	if parsed.Urgency != nil {
		result.Urgency = clampInt(int(math.Round(*parsed.Urgency)), 0, 10)
	}
	if parsed.Confidence != nil {
		confidence := clampFloat(*parsed.Confidence, 0, 1)
		result.Confidence = &confidence
	}

	result.CategoryCode = resolveCategoryCode(parsed, input, result.Sentiment)
	result.CategoryName = domain.CategoryDisplayName(result.CategoryCode)
	if result.MainIssue == "" {
		result.MainIssue = result.CategoryName
	}

	return result
}

// resolveCategoryCode walks the validation ladder for the category verdict.
func resolveCategoryCode(parsed *parsedResponse, input *Input, sentiment domain.Sentiment) domain.CategoryCode {
	if cat, ok := domain.CategoryByCode(parsed.CategoryCode); ok {
		return cat.Code
	}

	// Legacy free-form labels may land in any of the category fields.
	for _, label := range []string{parsed.CategoryCode, parsed.IssueCategory, parsed.CategoryName} {
		if label == "" {
			continue
		}
		if code, ok := domain.LegacyCategoryCode(label); ok {
			return code
		}
	}

	if code := ClassifyByKeywords(parsed.MainIssue + " " + parsed.Reason + " " + input.Text()); code != "" {
		return code
	}

	// Best-fit positive default: praise with high satisfaction lands on
	// Teaching Clarity rather than Unclassified.
	if sentiment == domain.SentimentPositive && input.SatisfactionScore >= 0.7 {
		return domain.CategoryTeachingClarity
	}
	return domain.CategoryUnknown
}
