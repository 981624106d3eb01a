package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/goccy/go-json"

	"academy_server/core/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// FeedbackAdapter implements domain.FeedbackRepository using PostgreSQL.
type FeedbackAdapter struct {
	db *sqlx.DB
}

// NewFeedbackAdapter creates a new feedback adapter.
func NewFeedbackAdapter(db *sqlx.DB) *FeedbackAdapter {
	return &FeedbackAdapter{db: db}
}

// feedbackRow represents the database row.
type feedbackRow struct {
	ID                 int64           `db:"id"`
	StudentID          uuid.UUID       `db:"student_id"`
	ClassID            int64           `db:"class_id"`
	SubjectID          int64           `db:"subject_id"`
	Answers            []byte          `db:"answers"`
	FreeText           sql.NullString  `db:"free_text"`
	FreeTextTranscript sql.NullString  `db:"free_text_transcript"`
	WantsOneToOne      bool            `db:"wants_one_to_one"`
	SatisfactionScore  float64         `db:"satisfaction_score"`
	Status             string          `db:"status"`
	Sentiment          sql.NullString  `db:"sentiment"`
	SentimentScore     float64         `db:"sentiment_score"`
	Urgency            int             `db:"urgency"`
	CategoryCode       sql.NullString  `db:"category_code"`
	CategoryName       sql.NullString  `db:"category_name"`
	Confidence         sql.NullFloat64 `db:"confidence"`
	Reason             sql.NullString  `db:"reason"`
	MainIssue          sql.NullString  `db:"main_issue"`
	AnalyzedAt         sql.NullTime    `db:"analyzed_at"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
}

func (r *feedbackRow) toDomain() *domain.Feedback {
	f := &domain.Feedback{
		ID:                r.ID,
		StudentID:         r.StudentID,
		ClassID:           r.ClassID,
		SubjectID:         r.SubjectID,
		WantsOneToOne:     r.WantsOneToOne,
		SatisfactionScore: r.SatisfactionScore,
		Status:            domain.FeedbackStatus(r.Status),
		SentimentScore:    r.SentimentScore,
		Urgency:           r.Urgency,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}

	if len(r.Answers) > 0 {
		json.Unmarshal(r.Answers, &f.Answers)
	}
	if r.FreeText.Valid {
		f.FreeText = r.FreeText.String
	}
	if r.FreeTextTranscript.Valid {
		f.FreeTextTranscript = r.FreeTextTranscript.String
	}
	if r.Sentiment.Valid {
		f.Sentiment = domain.Sentiment(r.Sentiment.String)
	}
	if r.CategoryCode.Valid {
		f.CategoryCode = domain.CategoryCode(r.CategoryCode.String)
	}
	if r.CategoryName.Valid {
		f.CategoryName = r.CategoryName.String
	}
	if r.Confidence.Valid {
		c := r.Confidence.Float64
		f.Confidence = &c
	}
	if r.Reason.Valid {
		f.Reason = r.Reason.String
	}
	if r.MainIssue.Valid {
		f.MainIssue = r.MainIssue.String
	}
	if r.AnalyzedAt.Valid {
		t := r.AnalyzedAt.Time
		f.AnalyzedAt = &t
	}

	return f
}

// Create persists a new feedback record and returns its id.
func (a *FeedbackAdapter) Create(ctx context.Context, f *domain.Feedback) (int64, error) {
	answers, err := json.Marshal(f.Answers)
	if err != nil {
		return 0, err
	}

	query := `
		INSERT INTO feedbacks (student_id, class_id, subject_id, answers, free_text, free_text_transcript,
			wants_one_to_one, satisfaction_score, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	var freeText, transcript sql.NullString
	if f.FreeText != "" {
		freeText = sql.NullString{String: f.FreeText, Valid: true}
	}
	if f.FreeTextTranscript != "" {
		transcript = sql.NullString{String: f.FreeTextTranscript, Valid: true}
	}

	status := string(f.Status)
	if status == "" {
		status = string(domain.FeedbackStatusNew)
	}

	var id int64
	err = a.db.QueryRowContext(
		ctx,
		query,
		f.StudentID,
		f.ClassID,
		f.SubjectID,
		answers,
		freeText,
		transcript,
		f.WantsOneToOne,
		f.SatisfactionScore,
		status,
	).Scan(&id, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// GetByID retrieves a feedback by id. Returns nil when not found.
func (a *FeedbackAdapter) GetByID(ctx context.Context, id int64) (*domain.Feedback, error) {
	var row feedbackRow
	err := a.db.GetContext(ctx, &row, `SELECT * FROM feedbacks WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// GetByStudentAndClass returns the submission for a student and class pair,
// or nil when none exists. Backs the one-feedback-per-class rule.
func (a *FeedbackAdapter) GetByStudentAndClass(ctx context.Context, studentID uuid.UUID, classID int64) (*domain.Feedback, error) {
	var row feedbackRow
	err := a.db.GetContext(ctx, &row,
		`SELECT * FROM feedbacks WHERE student_id = $1 AND class_id = $2 LIMIT 1`, studentID, classID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain(), nil
}

// UpdateClassification writes every classification field plus the analyzed
// status in one statement, so concurrent analyses resolve to whichever
// write lands last.
func (a *FeedbackAdapter) UpdateClassification(ctx context.Context, id int64, c *domain.Classification) error {
	query := `
		UPDATE feedbacks SET
			sentiment = $2,
			sentiment_score = $3,
			urgency = $4,
			category_code = $5,
			category_name = $6,
			confidence = $7,
			reason = $8,
			main_issue = $9,
			analyzed_at = $10,
			status = $11,
			updated_at = NOW()
		WHERE id = $1
	`

	var confidence sql.NullFloat64
	if c.Confidence != nil {
		confidence = sql.NullFloat64{Float64: *c.Confidence, Valid: true}
	}
	var reason, mainIssue sql.NullString
	if c.Reason != "" {
		reason = sql.NullString{String: c.Reason, Valid: true}
	}
	if c.MainIssue != "" {
		mainIssue = sql.NullString{String: c.MainIssue, Valid: true}
	}

	result, err := a.db.ExecContext(
		ctx,
		query,
		id,
		string(c.Sentiment),
		c.SentimentScore,
		c.Urgency,
		string(c.CategoryCode),
		c.CategoryName,
		confidence,
		reason,
		mainIssue,
		c.AnalyzedAt,
		string(domain.FeedbackStatusAnalyzed),
	)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateStatus updates the lifecycle status only.
func (a *FeedbackAdapter) UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus) error {
	result, err := a.db.ExecContext(ctx,
		`UPDATE feedbacks SET status = $2, updated_at = NOW() WHERE id = $1`, id, string(status))
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByClass lists feedback for a class, newest first.
func (a *FeedbackAdapter) ListByClass(ctx context.Context, classID int64, limit, offset int) ([]*domain.Feedback, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []feedbackRow
	err := a.db.SelectContext(ctx, &rows,
		`SELECT * FROM feedbacks WHERE class_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		classID, limit, offset)
	if err != nil {
		return nil, err
	}

	feedbacks := make([]*domain.Feedback, len(rows))
	for i := range rows {
		feedbacks[i] = rows[i].toDomain()
	}
	return feedbacks, nil
}

// ListUnanalyzed lists records that never got a classification verdict,
// oldest first so the backlog drains in submission order.
func (a *FeedbackAdapter) ListUnanalyzed(ctx context.Context, limit int) ([]*domain.Feedback, error) {
	if limit <= 0 {
		limit = 500
	}

	var rows []feedbackRow
	err := a.db.SelectContext(ctx, &rows,
		`SELECT * FROM feedbacks WHERE analyzed_at IS NULL ORDER BY created_at ASC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}

	feedbacks := make([]*domain.Feedback, len(rows))
	for i := range rows {
		feedbacks[i] = rows[i].toDomain()
	}
	return feedbacks, nil
}

// Ensure interface compliance
var _ domain.FeedbackRepository = (*FeedbackAdapter)(nil)
