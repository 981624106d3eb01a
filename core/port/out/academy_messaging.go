package out

import "context"

// MessageProducer defines the outbound port for the analysis job queue.
type MessageProducer interface {
	PublishFeedbackAnalyze(ctx context.Context, job *FeedbackAnalyzeJob) error
}

// FeedbackAnalyzeJob asks the worker to classify one feedback record.
type FeedbackAnalyzeJob struct {
	FeedbackID int64 `json:"feedback_id"`
	// Reanalysis marks operator-triggered re-runs. The processing path is
	// identical; the flag only shows up in logs and the audit trail.
	Reanalysis bool `json:"reanalysis,omitempty"`
}
