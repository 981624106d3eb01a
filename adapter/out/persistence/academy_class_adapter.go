package persistence

import (
	"context"
	"database/sql"
	"errors"

	"academy_server/core/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ClassAdapter implements domain.ClassRepository using PostgreSQL.
type ClassAdapter struct {
	db *sqlx.DB
}

// NewClassAdapter creates a new class adapter.
func NewClassAdapter(db *sqlx.DB) *ClassAdapter {
	return &ClassAdapter{db: db}
}

type classRow struct {
	ID           int64     `db:"id"`
	SubjectID    int64     `db:"subject_id"`
	Name         string    `db:"name"`
	InstructorID uuid.UUID `db:"instructor_id"`
}

// GetByID retrieves a class by id. Returns nil when not found.
func (a *ClassAdapter) GetByID(ctx context.Context, id int64) (*domain.Class, error) {
	var row classRow
	err := a.db.GetContext(ctx, &row,
		`SELECT id, subject_id, name, instructor_id FROM classes WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Class{
		ID:           row.ID,
		SubjectID:    row.SubjectID,
		Name:         row.Name,
		InstructorID: row.InstructorID,
	}, nil
}

// Ensure interface compliance
var _ domain.ClassRepository = (*ClassAdapter)(nil)
