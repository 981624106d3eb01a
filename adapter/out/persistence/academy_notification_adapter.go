package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"academy_server/core/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// NotificationAdapter implements domain.NotificationRepository using PostgreSQL.
type NotificationAdapter struct {
	db *sqlx.DB
}

// NewNotificationAdapter creates a new notification adapter.
func NewNotificationAdapter(db *sqlx.DB) *NotificationAdapter {
	return &NotificationAdapter{db: db}
}

// notificationRow represents the database row.
type notificationRow struct {
	ID           int64          `db:"id"`
	InstructorID uuid.UUID      `db:"instructor_id"`
	Type         string         `db:"type"`
	Title        string         `db:"title"`
	Body         sql.NullString `db:"body"`
	FeedbackID   sql.NullInt64  `db:"feedback_id"`
	ClassID      sql.NullInt64  `db:"class_id"`
	Priority     string         `db:"priority"`
	IsRead       bool           `db:"is_read"`
	ReadAt       sql.NullTime   `db:"read_at"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r *notificationRow) toDomain() *domain.Notification {
	n := &domain.Notification{
		ID:           r.ID,
		InstructorID: r.InstructorID,
		Type:         domain.NotificationType(r.Type),
		Title:        r.Title,
		Priority:     domain.NotificationPriority(r.Priority),
		IsRead:       r.IsRead,
		CreatedAt:    r.CreatedAt,
	}

	if r.Body.Valid {
		n.Body = r.Body.String
	}
	if r.FeedbackID.Valid {
		n.FeedbackID = r.FeedbackID.Int64
	}
	if r.ClassID.Valid {
		n.ClassID = r.ClassID.Int64
	}
	if r.ReadAt.Valid {
		n.ReadAt = &r.ReadAt.Time
	}

	return n
}

// Create creates a new notification.
func (a *NotificationAdapter) Create(ctx context.Context, notification *domain.Notification) error {
	query := `
		INSERT INTO notifications (instructor_id, type, title, body, feedback_id, class_id, is_read, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		RETURNING id, created_at
	`

	var body sql.NullString
	var feedbackID, classID sql.NullInt64

	if notification.Body != "" {
		body = sql.NullString{String: notification.Body, Valid: true}
	}
	if notification.FeedbackID != 0 {
		feedbackID = sql.NullInt64{Int64: notification.FeedbackID, Valid: true}
	}
	if notification.ClassID != 0 {
		classID = sql.NullInt64{Int64: notification.ClassID, Valid: true}
	}

	priority := string(notification.Priority)
	if priority == "" {
		priority = string(domain.NotificationPriorityNormal)
	}

	return a.db.QueryRowContext(
		ctx,
		query,
		notification.InstructorID,
		string(notification.Type),
		notification.Title,
		body,
		feedbackID,
		classID,
		notification.IsRead,
		priority,
	).Scan(&notification.ID, &notification.CreatedAt)
}

// GetByID retrieves a notification by ID. Returns nil when not found.
func (a *NotificationAdapter) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	var row notificationRow
	err := a.db.GetContext(ctx, &row, `SELECT * FROM notifications WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// List lists notifications with filter.
func (a *NotificationAdapter) List(ctx context.Context, filter *domain.NotificationFilter) ([]*domain.Notification, int, error) {
	baseQuery := `FROM notifications WHERE instructor_id = $1`
	args := []any{filter.InstructorID}
	argIndex := 2

	if filter.Type != nil {
		baseQuery += fmt.Sprintf(` AND type = $%d`, argIndex)
		args = append(args, string(*filter.Type))
		argIndex++
	}
	if filter.IsRead != nil {
		baseQuery += fmt.Sprintf(` AND is_read = $%d`, argIndex)
		args = append(args, *filter.IsRead)
		argIndex++
	}

	// Count total
	var total int
	if err := a.db.GetContext(ctx, &total, `SELECT COUNT(*) `+baseQuery, args...); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	selectQuery := fmt.Sprintf(`SELECT * %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, baseQuery, argIndex, argIndex+1)
	args = append(args, limit, filter.Offset)

	var rows []notificationRow
	if err := a.db.SelectContext(ctx, &rows, selectQuery, args...); err != nil {
		return nil, 0, err
	}

	notifications := make([]*domain.Notification, len(rows))
	for i := range rows {
		notifications[i] = rows[i].toDomain()
	}
	return notifications, total, nil
}

// MarkAsRead marks a notification as read.
func (a *NotificationAdapter) MarkAsRead(ctx context.Context, id int64) error {
	_, err := a.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = true, read_at = NOW() WHERE id = $1`, id)
	return err
}

// CountUnread returns the count of unread notifications.
func (a *NotificationAdapter) CountUnread(ctx context.Context, instructorID uuid.UUID) (int64, error) {
	var count int64
	err := a.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM notifications WHERE instructor_id = $1 AND is_read = false`, instructorID)
	return count, err
}

// Ensure interface compliance
var _ domain.NotificationRepository = (*NotificationAdapter)(nil)
