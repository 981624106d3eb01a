package domain

import (
	"context"

	"github.com/google/uuid"
)

// Class is the evaluated teaching context a feedback belongs to.
type Class struct {
	ID           int64     `json:"id"`
	SubjectID    int64     `json:"subject_id"`
	Name         string    `json:"name"`
	InstructorID uuid.UUID `json:"instructor_id"`
}

// ClassRepository - class store interface. The pipeline only needs it to
// resolve the owning instructor for urgent-case notifications.
type ClassRepository interface {
	GetByID(ctx context.Context, id int64) (*Class, error)
}
