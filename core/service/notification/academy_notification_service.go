// Package notification delivers instructor alerts for urgent feedback.
package notification

import (
	"context"
	"fmt"
	"time"

	"academy_server/core/domain"
	"academy_server/pkg/logger"

	"github.com/google/uuid"
)

// UrgencyThreshold is the minimum urgency that triggers an instructor
// alert.
const UrgencyThreshold = 7

// Service handles notification creation and delivery.
type Service struct {
	notificationRepo domain.NotificationRepository
	classRepo        domain.ClassRepository
}

// NewService creates a new notification service. Either repository may be
// nil; delivery then degrades to a no-op.
func NewService(notificationRepo domain.NotificationRepository, classRepo domain.ClassRepository) *Service {
	return &Service{
		notificationRepo: notificationRepo,
		classRepo:        classRepo,
	}
}

// NotifyUrgent alerts the class instructor when a classified feedback
// crosses the urgency threshold. Delivery failures are logged and
// swallowed; the classification result is already committed and must not
// be rolled back over a notification.
func (s *Service) NotifyUrgent(ctx context.Context, f *domain.Feedback) {
	if f.Urgency < UrgencyThreshold {
		return
	}
	if s.notificationRepo == nil || s.classRepo == nil {
		return
	}

	class, err := s.classRepo.GetByID(ctx, f.ClassID)
	if err != nil {
		logger.WithError(err).WithField("class_id", f.ClassID).Warn("urgent notification skipped: class lookup failed")
		return
	}
	if class == nil {
		logger.WithField("class_id", f.ClassID).Warn("urgent notification skipped: class not found")
		return
	}

	n := &domain.Notification{
		InstructorID: class.InstructorID,
		Type:         domain.NotificationTypeUrgentFeedback,
		Title:        fmt.Sprintf("Urgent feedback in %s", class.Name),
		Body:         urgentBody(f),
		FeedbackID:   f.ID,
		ClassID:      f.ClassID,
		Priority:     domain.NotificationPriorityUrgent,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.notificationRepo.Create(ctx, n); err != nil {
		logger.WithError(err).WithField("feedback_id", f.ID).Warn("urgent notification delivery failed")
		return
	}

	logger.WithFields(map[string]any{
		"feedback_id": f.ID,
		"class_id":    f.ClassID,
		"urgency":     f.Urgency,
	}).Info("urgent feedback notification sent")
}

// urgentBody summarizes the verdict without quoting the student's text.
func urgentBody(f *domain.Feedback) string {
	return fmt.Sprintf("A student reported an issue with %s (urgency %d/10, sentiment %s). Review the feedback for details.",
		f.CategoryName, f.Urgency, f.Sentiment)
}

// SendSystem records a system notification for an instructor.
func (s *Service) SendSystem(ctx context.Context, instructorID uuid.UUID, title, body string) error {
	if s.notificationRepo == nil {
		return nil
	}
	return s.notificationRepo.Create(ctx, &domain.Notification{
		InstructorID: instructorID,
		Type:         domain.NotificationTypeSystem,
		Title:        title,
		Body:         body,
		Priority:     domain.NotificationPriorityNormal,
		CreatedAt:    time.Now().UTC(),
	})
}

// List returns notifications for an instructor.
func (s *Service) List(ctx context.Context, instructorID uuid.UUID, filter *domain.NotificationFilter) ([]*domain.Notification, int, error) {
	if s.notificationRepo == nil {
		return []*domain.Notification{}, 0, nil
	}
	if filter == nil {
		filter = &domain.NotificationFilter{}
	}
	filter.InstructorID = instructorID
	return s.notificationRepo.List(ctx, filter)
}

// MarkAsRead marks notifications as read.
func (s *Service) MarkAsRead(ctx context.Context, ids []int64) error {
	if s.notificationRepo == nil {
		return nil
	}
	for _, id := range ids {
		if err := s.notificationRepo.MarkAsRead(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// CountUnread returns the unread notification count for an instructor.
func (s *Service) CountUnread(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	if s.notificationRepo == nil {
		return 0, nil
	}
	return s.notificationRepo.CountUnread(ctx, instructorID)
}
