package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Notification - instructor alerts (DB-backed)
// =============================================================================

type Notification struct {
	ID           int64                `json:"id"`
	InstructorID uuid.UUID            `json:"instructor_id"`
	Type         NotificationType     `json:"type"`
	Title        string               `json:"title"`
	Body         string               `json:"body,omitempty"`
	FeedbackID   int64                `json:"feedback_id,omitempty"`
	ClassID      int64                `json:"class_id,omitempty"`
	Priority     NotificationPriority `json:"priority"`
	IsRead       bool                 `json:"is_read"`
	ReadAt       *time.Time           `json:"read_at,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
}

type NotificationType string

const (
	NotificationTypeUrgentFeedback NotificationType = "urgent_feedback"
	NotificationTypeSystem         NotificationType = "system"
)

type NotificationPriority string

const (
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"
)

// NotificationFilter - list query filter
type NotificationFilter struct {
	InstructorID uuid.UUID
	Type         *NotificationType
	IsRead       *bool
	Limit        int
	Offset       int
}

// NotificationRepository - notification store interface
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id int64) (*Notification, error)
	List(ctx context.Context, filter *NotificationFilter) ([]*Notification, int, error)
	MarkAsRead(ctx context.Context, id int64) error
	CountUnread(ctx context.Context, instructorID uuid.UUID) (int64, error)
}
