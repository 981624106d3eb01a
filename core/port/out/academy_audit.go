package out

import (
	"context"
	"time"
)

// AnalysisAuditEntry is one record of a completed classification run,
// kept for offline inspection of pipeline behavior.
type AnalysisAuditEntry struct {
	FeedbackID        int64     `bson:"feedback_id" json:"feedback_id"`
	ClassID           int64     `bson:"class_id" json:"class_id"`
	Source            string    `bson:"source" json:"source"` // which strategy produced the verdict
	Sentiment         string    `bson:"sentiment" json:"sentiment"`
	Urgency           int       `bson:"urgency" json:"urgency"`
	CategoryCode      string    `bson:"category_code" json:"category_code"`
	Confidence        *float64  `bson:"confidence,omitempty" json:"confidence,omitempty"`
	SatisfactionScore float64   `bson:"satisfaction_score" json:"satisfaction_score"`
	Reanalysis        bool      `bson:"reanalysis" json:"reanalysis"`
	DurationMs        int64     `bson:"duration_ms" json:"duration_ms"`
	AnalyzedAt        time.Time `bson:"analyzed_at" json:"analyzed_at"`
}

// AnalysisAuditRepository stores classification run audit entries. Writes
// are best-effort; failures must never affect the classification itself.
type AnalysisAuditRepository interface {
	Record(ctx context.Context, entry *AnalysisAuditEntry) error
	ListByFeedback(ctx context.Context, feedbackID int64, limit int) ([]*AnalysisAuditEntry, error)
}
