package worker

import (
	"context"

	"academy_server/pkg/logger"

	"github.com/goccy/go-json"
)

type Handler struct {
	analysisProcessor *AnalysisProcessor
}

func NewHandler(analysisProcessor *AnalysisProcessor) *Handler {
	return &Handler{
		analysisProcessor: analysisProcessor,
	}
}

func (h *Handler) Process(ctx context.Context, msg *Message) error {
	logger.Debug("Processing message: %s", msg.Type)

	switch msg.Type {
	case JobFeedbackAnalyze, JobFeedbackReanalyze:
		return h.analysisProcessor.ProcessAnalyze(ctx, msg)

	default:
		logger.Warn("Unknown job type: %s", msg.Type)
		return nil
	}
}

func ParsePayload[T any](msg *Message) (*T, error) {
	var payload T
	data, err := json.Marshal(msg.Payload)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
