// Package classification implements the feedback classification pipeline.
//
// Strategy chain (first usable result wins):
//
//	Stage 0: LLM            → external AI call, parsed and repaired
//	Stage 1: Regex extract  → field-by-field pull from unparseable output
//	Stage 2: Heuristic      → satisfaction thresholds + keyword matching
//
// Every path ends in the urgency/sentiment resolver, so the pipeline is
// total: it always produces an in-range verdict, even with no AI configured.
package classification

import (
	"context"
	"time"

	"academy_server/core/domain"
)

// =============================================================================
// Classifier Interface
// =============================================================================

// Input contains everything a classifier strategy may consult.
type Input struct {
	FeedbackID        int64
	Answers           map[int64]int
	SatisfactionScore float64
	FreeText          string
	Transcript        string
}

// Text returns the concatenated free-form text of the submission.
func (in *Input) Text() string {
	if in.Transcript == "" {
		return in.FreeText
	}
	if in.FreeText == "" {
		return in.Transcript
	}
	return in.FreeText + " " + in.Transcript
}

// Result is one strategy's verdict before urgency resolution.
type Result struct {
	Sentiment      domain.Sentiment
	SentimentScore float64
	Urgency        int
	CategoryCode   domain.CategoryCode
	CategoryName   string
	Confidence     *float64
	Reason         string
	MainIssue      string
	Source         string // strategy that produced the verdict
}

// Classifier is the interface for all classification strategies.
type Classifier interface {
	// Name returns the strategy name (for logging).
	Name() string

	// Classify returns a verdict, or nil to skip to the next strategy.
	Classify(ctx context.Context, input *Input) (*Result, error)
}

// =============================================================================
// Pipeline Configuration
// =============================================================================

// PipelineConfig holds configuration for the classification pipeline.
type PipelineConfig struct {
	// AITimeout bounds each outbound AI call. Default: 30s.
	AITimeout time.Duration

	// EnableSecondary issues the category-focused second AI call whose
	// fields win on overlap. Default: true.
	EnableSecondary bool

	// HeuristicConfidence marks non-AI verdicts as low confidence.
	// Default: 0.5.
	HeuristicConfidence float64
}

// DefaultPipelineConfig returns the default configuration.
func DefaultPipelineConfig() *PipelineConfig {
	return &PipelineConfig{
		AITimeout:           30 * time.Second,
		EnableSecondary:     true,
		HeuristicConfidence: 0.5,
	}
}

// =============================================================================
// Source Constants
// =============================================================================

// Source format: "stage:detail".
const (
	SourceLLM          = "llm:classified"
	SourceLLMRepaired  = "llm:repaired"
	SourceLLMRegex     = "llm:regex"
	SourceLLMSecondary = "llm:secondary"
	SourceHeuristic    = "heuristic"
	SourceDefault      = "default"
)
