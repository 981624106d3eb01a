package feedback

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"academy_server/core/domain"
	"academy_server/pkg/apperr"

	"github.com/google/uuid"
)

// =============================================================================
// In-memory test doubles
// =============================================================================

type mockFeedbackRepo struct {
	records map[int64]*domain.Feedback
	nextID  int64
}

func newMockFeedbackRepo() *mockFeedbackRepo {
	return &mockFeedbackRepo{records: make(map[int64]*domain.Feedback), nextID: 1}
}

func (m *mockFeedbackRepo) Create(ctx context.Context, f *domain.Feedback) (int64, error) {
	id := m.nextID
	m.nextID++
	stored := *f
	stored.ID = id
	m.records[id] = &stored
	return id, nil
}

func (m *mockFeedbackRepo) GetByID(ctx context.Context, id int64) (*domain.Feedback, error) {
	return m.records[id], nil
}

func (m *mockFeedbackRepo) GetByStudentAndClass(ctx context.Context, studentID uuid.UUID, classID int64) (*domain.Feedback, error) {
	for _, f := range m.records {
		if f.StudentID == studentID && f.ClassID == classID {
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockFeedbackRepo) UpdateClassification(ctx context.Context, id int64, c *domain.Classification) error {
	if f, ok := m.records[id]; ok {
		f.Sentiment = c.Sentiment
		f.Urgency = c.Urgency
		f.CategoryCode = c.CategoryCode
		f.Status = domain.FeedbackStatusAnalyzed
		f.AnalyzedAt = &c.AnalyzedAt
	}
	return nil
}

func (m *mockFeedbackRepo) UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus) error {
	if f, ok := m.records[id]; ok {
		f.Status = status
	}
	return nil
}

func (m *mockFeedbackRepo) ListByClass(ctx context.Context, classID int64, limit, offset int) ([]*domain.Feedback, error) {
	var out []*domain.Feedback
	for _, f := range m.records {
		if f.ClassID == classID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *mockFeedbackRepo) ListUnanalyzed(ctx context.Context, limit int) ([]*domain.Feedback, error) {
	var out []*domain.Feedback
	for _, f := range m.records {
		if f.AnalyzedAt == nil {
			out = append(out, f)
		}
	}
	return out, nil
}

type mockQuestionRepo struct {
	questions []*domain.Question
}

func (m *mockQuestionRepo) GetActive(ctx context.Context) ([]*domain.Question, error) {
	return m.questions, nil
}

// mockAnalyzer signals each analysis request on a channel so tests can wait
// for the background goroutine deterministically.
type mockAnalyzer struct {
	calls chan int64
}

func newMockAnalyzer() *mockAnalyzer {
	return &mockAnalyzer{calls: make(chan int64, 16)}
}

func (m *mockAnalyzer) Analyze(ctx context.Context, feedbackID int64, reanalysis bool) error {
	m.calls <- feedbackID
	return nil
}

func (m *mockAnalyzer) waitForCall(t *testing.T) int64 {
	t.Helper()
	select {
	case id := <-m.calls:
		return id
	case <-time.After(2 * time.Second):
		t.Fatalf("analysis was never scheduled")
		return 0
	}
}

func newTestService() (*Service, *mockFeedbackRepo, *mockAnalyzer) {
	repo := newMockFeedbackRepo()
	questions := &mockQuestionRepo{questions: []*domain.Question{
		{ID: 1, Text: "How clear were the explanations?", Ord: 1, IsActive: true},
		{ID: 2, Text: "How was the pace?", Ord: 2, IsActive: true},
		{ID: 3, Text: "How useful were the materials?", Ord: 3, IsActive: true},
	}}
	analyzer := newMockAnalyzer()
	return NewService(repo, questions, nil, analyzer), repo, analyzer
}

func validRequest() *SubmitRequest {
	return &SubmitRequest{
		StudentID: uuid.New(),
		ClassID:   10,
		SubjectID: 20,
		Answers:   map[int64]int{1: 2, 2: 3, 3: 2},
		FreeText:  "the pace is a bit fast for me",
	}
}

// =============================================================================
// Intake
// =============================================================================

func TestSubmit(t *testing.T) {
	svc, repo, analyzer := newTestService()

	f, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.ID == 0 {
		t.Errorf("id = 0, want assigned")
	}
	if f.Status != domain.FeedbackStatusNew {
		t.Errorf("status = %v, want %v", f.Status, domain.FeedbackStatusNew)
	}
	// mean rating 7/3 on the 1..4 scale maps to (7/3-1)/3
	wantScore := (7.0/3.0 - 1) / 3
	if math.Abs(f.SatisfactionScore-wantScore) > 1e-9 {
		t.Errorf("satisfactionScore = %v, want %v", f.SatisfactionScore, wantScore)
	}
	if repo.records[f.ID] == nil {
		t.Errorf("record was not persisted")
	}

	if got := analyzer.waitForCall(t); got != f.ID {
		t.Errorf("analyzed id = %v, want %v", got, f.ID)
	}
}

func TestSubmitDuplicate(t *testing.T) {
	svc, _, analyzer := newTestService()

	req := validRequest()
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	analyzer.waitForCall(t)

	_, err := svc.Submit(context.Background(), req)
	if err == nil {
		t.Fatalf("expected duplicate rejection, got nil")
	}
	if code := apperr.AsAppError(err).Code; code != apperr.CodeAlreadyExists {
		t.Errorf("code = %v, want %v", code, apperr.CodeAlreadyExists)
	}
}

func TestSubmitValidation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*SubmitRequest)
		wantCode string
	}{
		{
			name:     "missing student id",
			mutate:   func(r *SubmitRequest) { r.StudentID = uuid.Nil },
			wantCode: apperr.CodeMissingField,
		},
		{
			name:     "missing class id",
			mutate:   func(r *SubmitRequest) { r.ClassID = 0 },
			wantCode: apperr.CodeMissingField,
		},
		{
			name:     "no answers",
			mutate:   func(r *SubmitRequest) { r.Answers = nil },
			wantCode: apperr.CodeMissingField,
		},
		{
			name:     "rating below range",
			mutate:   func(r *SubmitRequest) { r.Answers[2] = 0 },
			wantCode: apperr.CodeInvalidInput,
		},
		{
			name:     "rating above range",
			mutate:   func(r *SubmitRequest) { r.Answers[2] = 5 },
			wantCode: apperr.CodeInvalidInput,
		},
		{
			name:     "free text too long",
			mutate:   func(r *SubmitRequest) { r.FreeText = strings.Repeat("a", MaxFreeTextLength+1) },
			wantCode: apperr.CodeInvalidInput,
		},
		{
			name:     "multibyte free text too long by character count",
			mutate:   func(r *SubmitRequest) { r.FreeText = strings.Repeat("à", MaxFreeTextLength+1) },
			wantCode: apperr.CodeInvalidInput,
		},
		{
			name:     "answer count mismatch",
			mutate:   func(r *SubmitRequest) { delete(r.Answers, 3) },
			wantCode: apperr.CodeValidationFailed,
		},
		{
			name: "answer for the wrong question",
			mutate: func(r *SubmitRequest) {
				delete(r.Answers, 3)
				r.Answers[99] = 2
			},
			wantCode: apperr.CodeValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService()
			req := validRequest()
			tt.mutate(req)

			_, err := svc.Submit(context.Background(), req)
			if err == nil {
				t.Fatalf("expected validation error, got nil")
			}
			if code := apperr.AsAppError(err).Code; code != tt.wantCode {
				t.Errorf("code = %v, want %v", code, tt.wantCode)
			}
		})
	}
}

// TestSubmitMultibyteFreeText verifies the free-text limit counts
// characters, not bytes. 800 two-byte characters are well under the limit
// even though the byte length exceeds it.
func TestSubmitMultibyteFreeText(t *testing.T) {
	svc, _, analyzer := newTestService()

	req := validRequest()
	req.FreeText = strings.Repeat("à", 800)

	f, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.FreeText != req.FreeText {
		t.Errorf("free text was not stored intact")
	}
	analyzer.waitForCall(t)

	// Exactly at the limit is still accepted.
	req = validRequest()
	req.FreeText = strings.Repeat("à", MaxFreeTextLength)
	if _, err := svc.Submit(context.Background(), req); err != nil {
		t.Errorf("unexpected error at the limit: %v", err)
	}
	analyzer.waitForCall(t)
}

func TestSatisfactionScore(t *testing.T) {
	tests := []struct {
		name    string
		answers map[int64]int
		want    float64
	}{
		{"all lowest ratings", map[int64]int{1: 1, 2: 1, 3: 1}, 0},
		{"all highest ratings", map[int64]int{1: 4, 2: 4, 3: 4}, 1},
		{"mean of 2.5 lands mid-scale", map[int64]int{1: 2, 2: 3}, 0.5},
		{"single low rating", map[int64]int{1: 2}, 1.0 / 3.0},
		{"no answers", map[int64]int{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SatisfactionScore(tt.answers)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("score = %v, want %v", got, tt.want)
			}
		})
	}
}

// =============================================================================
// Status workflow
// =============================================================================

func TestUpdateStatus(t *testing.T) {
	svc, repo, analyzer := newTestService()

	f, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	analyzer.waitForCall(t)

	if err := svc.UpdateStatus(context.Background(), f.ID, domain.FeedbackStatusAcknowledged); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.records[f.ID].Status; got != domain.FeedbackStatusAcknowledged {
		t.Errorf("status = %v, want %v", got, domain.FeedbackStatusAcknowledged)
	}

	// Classification states belong to the worker, not the operator API.
	err = svc.UpdateStatus(context.Background(), f.ID, domain.FeedbackStatusAnalyzing)
	if err == nil {
		t.Fatalf("expected rejection of worker-owned status, got nil")
	}
	if code := apperr.AsAppError(err).Code; code != apperr.CodeInvalidInput {
		t.Errorf("code = %v, want %v", code, apperr.CodeInvalidInput)
	}

	err = svc.UpdateStatus(context.Background(), 9999, domain.FeedbackStatusResolved)
	if err == nil {
		t.Fatalf("expected not-found error, got nil")
	}
	if code := apperr.AsAppError(err).Code; code != apperr.CodeNotFound {
		t.Errorf("code = %v, want %v", code, apperr.CodeNotFound)
	}
}

// =============================================================================
// Re-analysis
// =============================================================================

func TestReanalyze(t *testing.T) {
	svc, _, analyzer := newTestService()

	f, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	analyzer.waitForCall(t)

	if err := svc.Reanalyze(context.Background(), f.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := analyzer.waitForCall(t); got != f.ID {
		t.Errorf("analyzed id = %v, want %v", got, f.ID)
	}

	err = svc.Reanalyze(context.Background(), 9999)
	if err == nil {
		t.Fatalf("expected not-found error, got nil")
	}
	if code := apperr.AsAppError(err).Code; code != apperr.CodeNotFound {
		t.Errorf("code = %v, want %v", code, apperr.CodeNotFound)
	}
}

func TestReanalyzeBacklog(t *testing.T) {
	svc, repo, analyzer := newTestService()

	ids := make([]int64, 0, 3)
	for i := 0; i < 3; i++ {
		req := validRequest()
		f, err := svc.Submit(context.Background(), req)
		if err != nil {
			t.Fatalf("submit %d failed: %v", i, err)
		}
		ids = append(ids, f.ID)
		analyzer.waitForCall(t)
	}

	count, err := svc.ReanalyzeBacklog(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != len(ids) {
		t.Errorf("scheduled = %v, want %v", count, len(ids))
	}

	seen := make(map[int64]bool)
	for range ids {
		seen[analyzer.waitForCall(t)] = true
	}
	for _, id := range ids {
		if !seen[id] {
			t.Errorf("feedback %d was never re-analyzed", id)
		}
	}

	// Nothing unanalyzed left once classification is written.
	now := time.Now().UTC()
	for _, id := range ids {
		_ = repo.UpdateClassification(context.Background(), id, domain.SafeClassification(now))
	}
	count, err = svc.ReanalyzeBacklog(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("scheduled = %v, want 0 for empty backlog", count)
	}
}
