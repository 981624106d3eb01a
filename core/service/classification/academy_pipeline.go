package classification

import (
	"context"
	"math"
	"time"

	"academy_server/core/agent/llm"
	"academy_server/core/domain"
	"academy_server/pkg/logger"
)

// =============================================================================
// Classification Pipeline
// =============================================================================

// Pipeline orchestrates the classification strategy chain. Classify is
// total: it never errors to its caller and never produces an out-of-range
// or partial verdict.
type Pipeline struct {
	config    *PipelineConfig
	chain     []Classifier
	llmClient *llm.Client
}

// NewPipeline creates the pipeline. llmClient may be nil when no AI
// credential is configured; the chain then starts at the heuristic tier.
func NewPipeline(llmClient *llm.Client, config *PipelineConfig) *Pipeline {
	if config == nil {
		config = DefaultPipelineConfig()
	}

	chain := make([]Classifier, 0, 2)
	if llmClient != nil {
		chain = append(chain, NewLLMClassifier(llmClient, config.AITimeout))
	}
	chain = append(chain, NewHeuristicClassifier(config.HeuristicConfidence))

	return &Pipeline{
		config:    config,
		chain:     chain,
		llmClient: llmClient,
	}
}

// Classify runs the strategy chain, merges the secondary verdict, resolves
// urgency, and stamps the analysis time. Strategy errors are logged and
// swallowed; the heuristic tier guarantees a result.
func (p *Pipeline) Classify(ctx context.Context, input *Input) *domain.Classification {
	c, _ := p.ClassifyWithSource(ctx, input)
	return c
}

// ClassifyWithSource additionally reports which strategy produced the
// verdict, for logging and the audit trail.
func (p *Pipeline) ClassifyWithSource(ctx context.Context, input *Input) (*domain.Classification, string) {
	var result *Result
	for _, classifier := range p.chain {
		r, err := classifier.Classify(ctx, input)
		if err != nil {
			logger.WithError(err).
				WithField("feedback_id", input.FeedbackID).
				WithField("classifier", classifier.Name()).
				Warn("classifier failed, falling through")
			continue
		}
		if r == nil {
			continue
		}
		result = r
		break
	}

	if result == nil {
		// Unreachable while the heuristic tier is in the chain, but the
		// contract is total either way.
		result = p.defaultResult(input)
	}

	if p.config.EnableSecondary && p.llmClient != nil {
		p.applySecondary(ctx, input, result)
	}

	result.Urgency = ResolveUrgency(result.Urgency, input.SatisfactionScore, result.Sentiment, input.Text())
	result.SentimentScore = clampFloat(result.SentimentScore, -1, 1)

	return &domain.Classification{
		Sentiment:      result.Sentiment,
		SentimentScore: result.SentimentScore,
		Urgency:        result.Urgency,
		CategoryCode:   result.CategoryCode,
		CategoryName:   result.CategoryName,
		Confidence:     result.Confidence,
		Reason:         result.Reason,
		MainIssue:      result.MainIssue,
		AnalyzedAt:     time.Now().UTC(),
	}, result.Source
}

// applySecondary issues the category-focused second AI call. When it
// returns a usable verdict, its category, reason, sentiment, and urgency
// win over the primary result. Failures are silent by contract.
func (p *Pipeline) applySecondary(ctx context.Context, input *Input, result *Result) {
	callCtx, cancel := context.WithTimeout(ctx, p.config.AITimeout)
	defer cancel()

	raw, err := p.llmClient.ClassifyCategoryRaw(callCtx, promptFor(input))
	if err != nil {
		logger.WithError(err).
			WithField("feedback_id", input.FeedbackID).
			Debug("secondary classifier call failed")
		return
	}

	parsed, _ := ParseResponse(raw)
	if parsed == nil {
		parsed = ExtractFields(raw)
	}
	if parsed == nil {
		return
	}

	code, ok := secondaryCategoryCode(parsed)
	if !ok {
		return
	}

	result.CategoryCode = code
	result.CategoryName = domain.CategoryDisplayName(code)
	if parsed.Reason != "" {
		result.Reason = parsed.Reason
	}
	if parsed.Sentiment != "" {
		result.Sentiment = domain.ParseSentiment(parsed.Sentiment)
	}
	if parsed.Urgency != nil {
		result.Urgency = clampInt(int(math.Round(*parsed.Urgency)), 0, 10)
	}
	result.Source = SourceLLMSecondary
}

// secondaryCategoryCode accepts only genuine category verdicts: an exact
// code or a mappable legacy label. Keyword inference is the primary
// result's job, not an override signal.
func secondaryCategoryCode(parsed *parsedResponse) (domain.CategoryCode, bool) {
	if cat, ok := domain.CategoryByCode(parsed.CategoryCode); ok {
		return cat.Code, true
	}
	for _, label := range []string{parsed.CategoryCode, parsed.IssueCategory, parsed.CategoryName} {
		if label == "" {
			continue
		}
		if code, ok := domain.LegacyCategoryCode(label); ok {
			return code, true
		}
	}
	return "", false
}

func (p *Pipeline) defaultResult(input *Input) *Result {
	sentiment, score := HeuristicSentiment(input.SatisfactionScore)
	confidence := p.config.HeuristicConfidence
	return &Result{
		Sentiment:      sentiment,
		SentimentScore: score,
		CategoryCode:   domain.CategoryUnknown,
		CategoryName:   domain.CategoryDisplayName(domain.CategoryUnknown),
		Confidence:     &confidence,
		Reason:         synthesizeReason(domain.CategoryUnknown, sentiment),
		MainIssue:      domain.CategoryDisplayName(domain.CategoryUnknown),
		Source:         SourceDefault,
	}
}
