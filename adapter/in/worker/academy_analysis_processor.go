package worker

import (
	"context"
	"fmt"
	"time"

	"academy_server/core/domain"
	"academy_server/core/port/out"
	"academy_server/core/service/classification"
	"academy_server/core/service/notification"
	"academy_server/pkg/logger"
	"academy_server/pkg/metrics"
)

// AnalysisProcessor runs the classification pipeline for one feedback
// record per job and writes the verdict back.
type AnalysisProcessor struct {
	feedbackRepo domain.FeedbackRepository
	pipeline     *classification.Pipeline
	auditRepo    out.AnalysisAuditRepository
	notifier     *notification.Service
}

// NewAnalysisProcessor creates the analysis processor. auditRepo and
// notifier may be nil.
func NewAnalysisProcessor(
	feedbackRepo domain.FeedbackRepository,
	pipeline *classification.Pipeline,
	auditRepo out.AnalysisAuditRepository,
	notifier *notification.Service,
) *AnalysisProcessor {
	return &AnalysisProcessor{
		feedbackRepo: feedbackRepo,
		pipeline:     pipeline,
		auditRepo:    auditRepo,
		notifier:     notifier,
	}
}

// ProcessAnalyze handles a classification job message.
func (p *AnalysisProcessor) ProcessAnalyze(ctx context.Context, msg *Message) error {
	payload, err := ParsePayload[FeedbackAnalyzePayload](msg)
	if err != nil {
		return fmt.Errorf("parse analyze payload: %w", err)
	}
	return p.Analyze(ctx, payload.FeedbackID, payload.Reanalysis)
}

// Analyze loads the record, runs the pipeline, and commits the verdict.
// A panic anywhere in the pipeline is converted into the safe terminal
// state so the record never stays stuck in analyzing.
func (p *AnalysisProcessor) Analyze(ctx context.Context, feedbackID int64, reanalysis bool) (err error) {
	start := time.Now()
	log := logger.WithField("feedback_id", feedbackID)

	f, err := p.feedbackRepo.GetByID(ctx, feedbackID)
	if err != nil {
		return fmt.Errorf("load feedback %d: %w", feedbackID, err)
	}
	if f == nil {
		// Record gone; retrying will not bring it back.
		log.Warn("analysis skipped: feedback not found")
		return nil
	}

	if err := p.feedbackRepo.UpdateStatus(ctx, feedbackID, domain.FeedbackStatusAnalyzing); err != nil {
		log.WithError(err).Warn("failed to mark feedback as analyzing")
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error("analysis panicked: %v", r)
			safe := domain.SafeClassification(time.Now().UTC())
			if writeErr := p.feedbackRepo.UpdateClassification(ctx, feedbackID, safe); writeErr != nil {
				log.WithError(writeErr).Error("failed to write safe classification after panic")
			}
			err = nil
		}
	}()

	input := &classification.Input{
		FeedbackID:        f.ID,
		Answers:           f.Answers,
		SatisfactionScore: f.SatisfactionScore,
		FreeText:          f.FreeText,
		Transcript:        f.FreeTextTranscript,
	}

	result, source := p.pipeline.ClassifyWithSource(ctx, input)

	if err := p.feedbackRepo.UpdateClassification(ctx, feedbackID, result); err != nil {
		return fmt.Errorf("write classification for feedback %d: %w", feedbackID, err)
	}

	metrics.RecordLatency("analysis:"+source, time.Since(start))
	p.recordAudit(ctx, f, result, source, reanalysis, time.Since(start))

	log.WithFields(map[string]any{
		"sentiment": string(result.Sentiment),
		"urgency":   result.Urgency,
		"category":  string(result.CategoryCode),
		"source":    source,
	}).WithDuration(time.Since(start)).Info("feedback classified")

	if p.notifier != nil {
		p.notifyUrgent(ctx, f, result)
	}

	return nil
}

// recordAudit writes the audit entry. Best-effort; the verdict is already
// committed.
func (p *AnalysisProcessor) recordAudit(ctx context.Context, f *domain.Feedback, c *domain.Classification, source string, reanalysis bool, elapsed time.Duration) {
	if p.auditRepo == nil {
		return
	}

	entry := &out.AnalysisAuditEntry{
		FeedbackID:        f.ID,
		ClassID:           f.ClassID,
		Source:            source,
		Sentiment:         string(c.Sentiment),
		Urgency:           c.Urgency,
		CategoryCode:      string(c.CategoryCode),
		Confidence:        c.Confidence,
		SatisfactionScore: f.SatisfactionScore,
		Reanalysis:        reanalysis,
		DurationMs:        elapsed.Milliseconds(),
		AnalyzedAt:        c.AnalyzedAt,
	}

	if err := p.auditRepo.Record(ctx, entry); err != nil {
		logger.WithError(err).WithField("feedback_id", f.ID).Warn("audit record failed")
	}
}

func (p *AnalysisProcessor) notifyUrgent(ctx context.Context, f *domain.Feedback, c *domain.Classification) {
	classified := *f
	classified.Sentiment = c.Sentiment
	classified.SentimentScore = c.SentimentScore
	classified.Urgency = c.Urgency
	classified.CategoryCode = c.CategoryCode
	classified.CategoryName = c.CategoryName
	classified.Status = domain.FeedbackStatusAnalyzed

	p.notifier.NotifyUrgent(ctx, &classified)
}
