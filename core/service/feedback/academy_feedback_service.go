// Package feedback implements the intake and scheduling service for
// student feedback.
package feedback

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"academy_server/core/domain"
	"academy_server/core/port/out"
	"academy_server/pkg/apperr"
	"academy_server/pkg/logger"

	"github.com/google/uuid"
)

// MaxFreeTextLength is the intake limit for the free-text comment, in
// characters.
const MaxFreeTextLength = 1200

// Analyzer runs the classification task for one feedback record. The
// worker processor implements it; the service calls it directly when no
// message producer is configured.
type Analyzer interface {
	Analyze(ctx context.Context, feedbackID int64, reanalysis bool) error
}

// SubmitRequest is the intake payload for a new feedback submission.
type SubmitRequest struct {
	StudentID          uuid.UUID     `json:"student_id"`
	ClassID            int64         `json:"class_id"`
	SubjectID          int64         `json:"subject_id"`
	Answers            map[int64]int `json:"answers"`
	FreeText           string        `json:"free_text"`
	FreeTextTranscript string        `json:"free_text_transcript"`
	WantsOneToOne      bool          `json:"wants_one_to_one"`
}

// Service handles feedback intake, retrieval, and analysis scheduling.
type Service struct {
	feedbackRepo domain.FeedbackRepository
	questionRepo domain.QuestionRepository
	producer     out.MessageProducer
	analyzer     Analyzer
}

// NewService creates the feedback service. producer may be nil; analysis
// then runs in-process through analyzer instead of the stream.
func NewService(feedbackRepo domain.FeedbackRepository, questionRepo domain.QuestionRepository, producer out.MessageProducer, analyzer Analyzer) *Service {
	return &Service{
		feedbackRepo: feedbackRepo,
		questionRepo: questionRepo,
		producer:     producer,
		analyzer:     analyzer,
	}
}

// =============================================================================
// Intake
// =============================================================================

// Submit validates and persists a new feedback record, then schedules its
// classification. The satisfaction score is derived here, once, and never
// recomputed afterwards.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest) (*domain.Feedback, error) {
	if err := s.validate(ctx, req); err != nil {
		return nil, err
	}

	existing, err := s.feedbackRepo.GetByStudentAndClass(ctx, req.StudentID, req.ClassID)
	if err != nil {
		return nil, apperr.DatabaseError("check duplicate feedback", err)
	}
	if existing != nil {
		return nil, apperr.AlreadyExists("feedback for this class")
	}

	now := time.Now().UTC()
	f := &domain.Feedback{
		StudentID:          req.StudentID,
		ClassID:            req.ClassID,
		SubjectID:          req.SubjectID,
		Answers:            req.Answers,
		FreeText:           req.FreeText,
		FreeTextTranscript: req.FreeTextTranscript,
		WantsOneToOne:      req.WantsOneToOne,
		SatisfactionScore:  SatisfactionScore(req.Answers),
		Status:             domain.FeedbackStatusNew,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	id, err := s.feedbackRepo.Create(ctx, f)
	if err != nil {
		return nil, apperr.DatabaseError("create feedback", err)
	}
	f.ID = id

	s.scheduleAnalysis(ctx, id, false)
	return f, nil
}

func (s *Service) validate(ctx context.Context, req *SubmitRequest) error {
	if req.StudentID == uuid.Nil {
		return apperr.MissingField("student_id")
	}
	if req.ClassID == 0 {
		return apperr.MissingField("class_id")
	}
	if len(req.Answers) == 0 {
		return apperr.MissingField("answers")
	}
	// Character count, not byte count: non-ASCII comments must not lose
	// half the limit to encoding.
	if utf8.RuneCountInString(req.FreeText) > MaxFreeTextLength {
		return apperr.InvalidInput("free_text", fmt.Sprintf("exceeds %d characters", MaxFreeTextLength))
	}

	for qid, rating := range req.Answers {
		if rating < domain.RatingMin || rating > domain.RatingMax {
			return apperr.InvalidInput("answers",
				fmt.Sprintf("rating %d for question %d is outside %d..%d", rating, qid, domain.RatingMin, domain.RatingMax))
		}
	}

	// The answer set must cover the active questions exactly.
	questions, err := s.questionRepo.GetActive(ctx)
	if err != nil {
		return apperr.DatabaseError("load active questions", err)
	}
	if len(req.Answers) != len(questions) {
		return apperr.ValidationFailed(
			fmt.Sprintf("expected answers for %d questions, got %d", len(questions), len(req.Answers)))
	}
	for _, q := range questions {
		if _, ok := req.Answers[q.ID]; !ok {
			return apperr.ValidationFailed(fmt.Sprintf("missing answer for question %d", q.ID))
		}
	}

	return nil
}

// SatisfactionScore maps the mean rating on the 1..4 scale onto [0,1].
func SatisfactionScore(answers map[int64]int) float64 {
	if len(answers) == 0 {
		return 0
	}
	sum := 0
	for _, rating := range answers {
		sum += rating
	}
	mean := float64(sum) / float64(len(answers))
	score := (mean - 1) / 3
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// =============================================================================
// Retrieval
// =============================================================================

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Feedback, error) {
	f, err := s.feedbackRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.DatabaseError("get feedback", err)
	}
	if f == nil {
		return nil, apperr.NotFound("feedback")
	}
	return f, nil
}

func (s *Service) ListByClass(ctx context.Context, classID int64, limit, offset int) ([]*domain.Feedback, error) {
	if limit <= 0 {
		limit = 50
	}
	list, err := s.feedbackRepo.ListByClass(ctx, classID, limit, offset)
	if err != nil {
		return nil, apperr.DatabaseError("list feedback", err)
	}
	return list, nil
}

// =============================================================================
// Status Workflow
// =============================================================================

// UpdateStatus moves a record through the operator workflow. Only the
// acknowledged and resolved states are reachable this way; classification
// states are owned by the analysis worker.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus) error {
	if status != domain.FeedbackStatusAcknowledged && status != domain.FeedbackStatusResolved {
		return apperr.InvalidInput("status", "must be acknowledged or resolved")
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.feedbackRepo.UpdateStatus(ctx, id, status); err != nil {
		return apperr.DatabaseError("update feedback status", err)
	}
	return nil
}

// =============================================================================
// Re-analysis
// =============================================================================

// Reanalyze schedules classification for an existing record. Concurrent
// re-analysis of the same record is allowed; the later write wins.
func (s *Service) Reanalyze(ctx context.Context, id int64) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	s.scheduleAnalysis(ctx, id, true)
	return nil
}

// ReanalyzeBacklog re-runs classification for every unanalyzed record,
// strictly one at a time, in the background. Returns the number of records
// scheduled.
func (s *Service) ReanalyzeBacklog(ctx context.Context, limit int) (int, error) {
	if limit <= 0 {
		limit = 500
	}
	backlog, err := s.feedbackRepo.ListUnanalyzed(ctx, limit)
	if err != nil {
		return 0, apperr.DatabaseError("list unanalyzed feedback", err)
	}
	if len(backlog) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(backlog))
	for _, f := range backlog {
		ids = append(ids, f.ID)
	}

	go s.runBacklog(ids)
	return len(ids), nil
}

func (s *Service) runBacklog(ids []int64) {
	log := logger.WithField("count", len(ids))
	log.Info("backlog re-analysis started")

	for _, id := range ids {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		err := s.analyzeDirect(ctx, id, true)
		cancel()
		if err != nil {
			logger.WithError(err).WithField("feedback_id", id).Warn("backlog re-analysis item failed")
		}
	}

	log.Info("backlog re-analysis finished")
}

// =============================================================================
// Scheduling
// =============================================================================

// scheduleAnalysis hands the record to the stream when a producer is
// configured, otherwise runs the analyzer in a background goroutine.
// Intake never fails because scheduling did.
func (s *Service) scheduleAnalysis(ctx context.Context, id int64, reanalysis bool) {
	if s.producer != nil {
		job := &out.FeedbackAnalyzeJob{FeedbackID: id, Reanalysis: reanalysis}
		if err := s.producer.PublishFeedbackAnalyze(ctx, job); err != nil {
			logger.WithError(err).WithField("feedback_id", id).Warn("publish analyze job failed, falling back to direct analysis")
		} else {
			return
		}
	}

	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.analyzeDirect(bgCtx, id, reanalysis); err != nil {
			logger.WithError(err).WithField("feedback_id", id).Error("direct analysis failed")
		}
	}()
}

func (s *Service) analyzeDirect(ctx context.Context, id int64, reanalysis bool) error {
	if s.analyzer == nil {
		return fmt.Errorf("no analyzer configured")
	}
	return s.analyzer.Analyze(ctx, id, reanalysis)
}
