package persistence

import (
	"context"
	"time"

	"academy_server/core/domain"
	"academy_server/pkg/cache"
	"academy_server/pkg/logger"
)

const (
	activeQuestionsKey = "questions:active"
	questionCacheTTL   = 5 * time.Minute
)

// CachedQuestionRepo wraps a question repository with a Redis cache. The
// active question set changes rarely but is read on every submission.
type CachedQuestionRepo struct {
	inner domain.QuestionRepository
	cache *cache.RedisCache
}

var _ domain.QuestionRepository = (*CachedQuestionRepo)(nil)

// NewCachedQuestionRepo creates the caching decorator.
func NewCachedQuestionRepo(inner domain.QuestionRepository, c *cache.RedisCache) *CachedQuestionRepo {
	return &CachedQuestionRepo{inner: inner, cache: c}
}

// GetActive serves from cache when possible. Cache failures fall through to
// the database.
func (r *CachedQuestionRepo) GetActive(ctx context.Context) ([]*domain.Question, error) {
	var cached []*domain.Question
	hit, err := r.cache.GetJSON(ctx, activeQuestionsKey, &cached)
	if err != nil {
		logger.WithError(err).Debug("question cache read failed")
	}
	if hit && len(cached) > 0 {
		return cached, nil
	}

	questions, err := r.inner.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	if len(questions) > 0 {
		if err := r.cache.SetJSON(ctx, activeQuestionsKey, questions, questionCacheTTL); err != nil {
			logger.WithError(err).Debug("question cache write failed")
		}
	}

	return questions, nil
}

// Invalidate drops the cached question set.
func (r *CachedQuestionRepo) Invalidate(ctx context.Context) error {
	return r.cache.Delete(ctx, activeQuestionsKey)
}
