package persistence

import (
	"context"

	"academy_server/core/domain"

	"github.com/jmoiron/sqlx"
)

// QuestionAdapter implements domain.QuestionRepository using PostgreSQL.
type QuestionAdapter struct {
	db *sqlx.DB
}

// NewQuestionAdapter creates a new question adapter.
func NewQuestionAdapter(db *sqlx.DB) *QuestionAdapter {
	return &QuestionAdapter{db: db}
}

type questionRow struct {
	ID       int64  `db:"id"`
	Text     string `db:"text"`
	Ord      int    `db:"ord"`
	IsActive bool   `db:"is_active"`
}

// GetActive returns the active survey questions in display order.
func (a *QuestionAdapter) GetActive(ctx context.Context) ([]*domain.Question, error) {
	var rows []questionRow
	err := a.db.SelectContext(ctx, &rows,
		`SELECT id, text, ord, is_active FROM questions WHERE is_active = true ORDER BY ord ASC`)
	if err != nil {
		return nil, err
	}

	questions := make([]*domain.Question, len(rows))
	for i, row := range rows {
		questions[i] = &domain.Question{
			ID:       row.ID,
			Text:     row.Text,
			Ord:      row.Ord,
			IsActive: row.IsActive,
		}
	}
	return questions, nil
}

// Ensure interface compliance
var _ domain.QuestionRepository = (*QuestionAdapter)(nil)
