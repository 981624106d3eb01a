package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Feedback - student feedback record with AI classification fields
// =============================================================================

// FeedbackStatus is the lifecycle state of a feedback record.
type FeedbackStatus string

const (
	FeedbackStatusNew       FeedbackStatus = "new"       // persisted, not yet classified
	FeedbackStatusAnalyzing FeedbackStatus = "analyzing" // classification in flight
	FeedbackStatusAnalyzed  FeedbackStatus = "analyzed"  // classification fields written

	// Operator workflow states, disjoint from classification.
	FeedbackStatusAcknowledged FeedbackStatus = "acknowledged"
	FeedbackStatusResolved     FeedbackStatus = "resolved"
)

// Sentiment is the three-value sentiment verdict.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNeutral  Sentiment = "Neutral"
	SentimentNegative Sentiment = "Negative"
)

// ParseSentiment coerces a raw string into the enum. Anything unrecognized
// becomes Neutral.
func ParseSentiment(s string) Sentiment {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(SentimentPositive)):
		return SentimentPositive
	case strings.EqualFold(s, string(SentimentNegative)):
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Feedback is a single student submission plus its classification verdict.
type Feedback struct {
	ID        int64     `json:"id"`
	StudentID uuid.UUID `json:"student_id"`
	ClassID   int64     `json:"class_id"`
	SubjectID int64     `json:"subject_id"`

	// Intake payload. Answers maps question id to a 1..4 Likert rating.
	Answers            map[int64]int `json:"answers"`
	FreeText           string        `json:"free_text,omitempty"`
	FreeTextTranscript string        `json:"free_text_transcript,omitempty"`
	WantsOneToOne      bool          `json:"wants_one_to_one"`

	// Derived once at intake, never recomputed. Always in [0,1].
	SatisfactionScore float64 `json:"satisfaction_score"`

	Status FeedbackStatus `json:"status"`

	// Classification fields, written atomically as a unit.
	Sentiment      Sentiment    `json:"sentiment,omitempty"`
	SentimentScore float64      `json:"sentiment_score"`
	Urgency        int          `json:"urgency"`
	CategoryCode   CategoryCode `json:"category_code,omitempty"`
	CategoryName   string       `json:"category_name,omitempty"`
	Confidence     *float64     `json:"confidence,omitempty"`
	Reason         string       `json:"reason,omitempty"`
	MainIssue      string       `json:"main_issue,omitempty"`
	AnalyzedAt     *time.Time   `json:"analyzed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAnalyzed reports whether classification fields have been written.
func (f *Feedback) IsAnalyzed() bool {
	return f.AnalyzedAt != nil
}

// Classification is the atomic write-back unit produced by the pipeline.
// Either all of these land on the record together or none do.
type Classification struct {
	Sentiment      Sentiment    `json:"sentiment"`
	SentimentScore float64      `json:"sentiment_score"`
	Urgency        int          `json:"urgency"`
	CategoryCode   CategoryCode `json:"category_code"`
	CategoryName   string       `json:"category_name"`
	Confidence     *float64     `json:"confidence,omitempty"`
	Reason         string       `json:"reason,omitempty"`
	MainIssue      string       `json:"main_issue,omitempty"`
	AnalyzedAt     time.Time    `json:"analyzed_at"`
}

// SafeClassification is the terminal state forced onto a record when the
// analysis task itself blows up, so nothing stays unanalyzed forever.
func SafeClassification(now time.Time) *Classification {
	return &Classification{
		Sentiment:      SentimentNeutral,
		SentimentScore: 0,
		Urgency:        0,
		CategoryCode:   CategoryUnknown,
		CategoryName:   CategoryDisplayName(CategoryUnknown),
		MainIssue:      CategoryDisplayName(CategoryUnknown),
		AnalyzedAt:     now,
	}
}

// FeedbackRepository - feedback persistence interface
type FeedbackRepository interface {
	Create(ctx context.Context, f *Feedback) (int64, error)
	GetByID(ctx context.Context, id int64) (*Feedback, error)
	GetByStudentAndClass(ctx context.Context, studentID uuid.UUID, classID int64) (*Feedback, error)
	// UpdateClassification writes all classification fields plus the
	// analyzed status in a single statement.
	UpdateClassification(ctx context.Context, id int64, c *Classification) error
	UpdateStatus(ctx context.Context, id int64, status FeedbackStatus) error
	ListByClass(ctx context.Context, classID int64, limit, offset int) ([]*Feedback, error)
	ListUnanalyzed(ctx context.Context, limit int) ([]*Feedback, error)
}
