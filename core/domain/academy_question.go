package domain

import "context"

// Question is a Likert-scale survey question answered at feedback intake.
// Ratings are integers in [1,4].
type Question struct {
	ID       int64  `json:"id"`
	Text     string `json:"text"`
	Ord      int    `json:"ord"`
	IsActive bool   `json:"is_active"`
}

const (
	RatingMin = 1
	RatingMax = 4
)

// QuestionRepository - survey question store interface
type QuestionRepository interface {
	// GetActive returns active questions ordered by Ord. Used only to
	// validate the answer-set shape at intake.
	GetActive(ctx context.Context) ([]*Question, error)
}
