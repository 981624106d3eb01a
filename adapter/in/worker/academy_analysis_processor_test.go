package worker

import (
	"context"
	"errors"
	"testing"

	"academy_server/core/domain"
	"academy_server/core/port/out"
	"academy_server/core/service/classification"

	"github.com/google/uuid"
)

type stubFeedbackRepo struct {
	record        *domain.Feedback
	getErr        error
	statusUpdates []domain.FeedbackStatus
	written       *domain.Classification
	writeErr      error
	panicOnWrite  bool
}

func (s *stubFeedbackRepo) Create(ctx context.Context, f *domain.Feedback) (int64, error) {
	return 0, errors.New("not implemented")
}

func (s *stubFeedbackRepo) GetByID(ctx context.Context, id int64) (*domain.Feedback, error) {
	return s.record, s.getErr
}

func (s *stubFeedbackRepo) GetByStudentAndClass(ctx context.Context, studentID uuid.UUID, classID int64) (*domain.Feedback, error) {
	return nil, nil
}

func (s *stubFeedbackRepo) UpdateClassification(ctx context.Context, id int64, c *domain.Classification) error {
	if s.panicOnWrite {
		s.panicOnWrite = false
		panic("write exploded")
	}
	if s.writeErr != nil {
		return s.writeErr
	}
	s.written = c
	return nil
}

func (s *stubFeedbackRepo) UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus) error {
	s.statusUpdates = append(s.statusUpdates, status)
	return nil
}

func (s *stubFeedbackRepo) ListByClass(ctx context.Context, classID int64, limit, offset int) ([]*domain.Feedback, error) {
	return nil, nil
}

func (s *stubFeedbackRepo) ListUnanalyzed(ctx context.Context, limit int) ([]*domain.Feedback, error) {
	return nil, nil
}

type stubAuditRepo struct {
	entries []*out.AnalysisAuditEntry
}

func (s *stubAuditRepo) Record(ctx context.Context, entry *out.AnalysisAuditEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubAuditRepo) ListByFeedback(ctx context.Context, feedbackID int64, limit int) ([]*out.AnalysisAuditEntry, error) {
	return s.entries, nil
}

func unhappyFeedback() *domain.Feedback {
	return &domain.Feedback{
		ID:                42,
		StudentID:         uuid.New(),
		ClassID:           7,
		Answers:           map[int64]int{1: 1, 2: 1},
		SatisfactionScore: 0.1,
		Status:            domain.FeedbackStatusNew,
	}
}

func TestAnalyze(t *testing.T) {
	repo := &stubFeedbackRepo{record: unhappyFeedback()}
	audit := &stubAuditRepo{}
	pipeline := classification.NewPipeline(nil, nil)
	processor := NewAnalysisProcessor(repo, pipeline, audit, nil)

	if err := processor.Analyze(context.Background(), 42, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.statusUpdates) == 0 || repo.statusUpdates[0] != domain.FeedbackStatusAnalyzing {
		t.Errorf("statusUpdates = %v, want analyzing first", repo.statusUpdates)
	}
	if repo.written == nil {
		t.Fatalf("classification was never written")
	}
	if repo.written.Sentiment != domain.SentimentNegative {
		t.Errorf("sentiment = %v, want Negative", repo.written.Sentiment)
	}
	if repo.written.Urgency != 7 {
		t.Errorf("urgency = %v, want 7 for very low satisfaction", repo.written.Urgency)
	}
	if repo.written.AnalyzedAt.IsZero() {
		t.Errorf("analyzedAt is zero, want stamped")
	}

	if len(audit.entries) != 1 {
		t.Fatalf("audit entries = %v, want 1", len(audit.entries))
	}
	entry := audit.entries[0]
	if entry.FeedbackID != 42 {
		t.Errorf("audit feedbackID = %v, want 42", entry.FeedbackID)
	}
	if entry.Source != classification.SourceHeuristic {
		t.Errorf("audit source = %v, want %v", entry.Source, classification.SourceHeuristic)
	}
	if entry.Reanalysis {
		t.Errorf("reanalysis = true, want false")
	}
}

func TestAnalyzeMissingRecord(t *testing.T) {
	repo := &stubFeedbackRepo{record: nil}
	processor := NewAnalysisProcessor(repo, classification.NewPipeline(nil, nil), nil, nil)

	// A vanished record is not retryable.
	if err := processor.Analyze(context.Background(), 42, false); err != nil {
		t.Errorf("err = %v, want nil for missing record", err)
	}
	if repo.written != nil {
		t.Errorf("classification was written for a missing record")
	}
}

func TestAnalyzeLoadError(t *testing.T) {
	repo := &stubFeedbackRepo{getErr: errors.New("connection reset")}
	processor := NewAnalysisProcessor(repo, classification.NewPipeline(nil, nil), nil, nil)

	if err := processor.Analyze(context.Background(), 42, false); err == nil {
		t.Errorf("err = nil, want load error for retry")
	}
}

func TestAnalyzeWriteError(t *testing.T) {
	repo := &stubFeedbackRepo{record: unhappyFeedback(), writeErr: errors.New("deadlock")}
	processor := NewAnalysisProcessor(repo, classification.NewPipeline(nil, nil), nil, nil)

	if err := processor.Analyze(context.Background(), 42, false); err == nil {
		t.Errorf("err = nil, want write error for retry")
	}
}

func TestAnalyzePanicWritesSafeState(t *testing.T) {
	repo := &stubFeedbackRepo{record: unhappyFeedback(), panicOnWrite: true}
	processor := NewAnalysisProcessor(repo, classification.NewPipeline(nil, nil), nil, nil)

	// First write panics; the recovery path must land the safe terminal
	// state and swallow the job error so the message is not redelivered.
	if err := processor.Analyze(context.Background(), 42, false); err != nil {
		t.Fatalf("err = %v, want nil after panic recovery", err)
	}

	if repo.written == nil {
		t.Fatalf("safe classification was never written")
	}
	if repo.written.CategoryCode != domain.CategoryUnknown {
		t.Errorf("category = %v, want %v", repo.written.CategoryCode, domain.CategoryUnknown)
	}
	if repo.written.Sentiment != domain.SentimentNeutral {
		t.Errorf("sentiment = %v, want Neutral", repo.written.Sentiment)
	}
	if repo.written.Urgency != 0 {
		t.Errorf("urgency = %v, want 0", repo.written.Urgency)
	}
}
