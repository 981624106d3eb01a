package http

import (
	"strconv"

	"academy_server/core/domain"
	"academy_server/core/port/out"
	"academy_server/core/service/feedback"
	"academy_server/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// FeedbackHandler handles feedback intake, retrieval, and re-analysis.
type FeedbackHandler struct {
	feedbackService *feedback.Service
	auditRepo       out.AnalysisAuditRepository
}

// NewFeedbackHandler creates a new feedback handler. auditRepo may be nil;
// the analyses endpoint then returns an empty list.
func NewFeedbackHandler(feedbackService *feedback.Service, auditRepo out.AnalysisAuditRepository) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		auditRepo:       auditRepo,
	}
}

// Register registers feedback routes.
func (h *FeedbackHandler) Register(router fiber.Router) {
	feedbacks := router.Group("/feedbacks")

	feedbacks.Post("/", h.SubmitFeedback)
	feedbacks.Get("/", h.ListFeedbacks)
	feedbacks.Post("/reanalyze", h.ReanalyzeBacklog)
	feedbacks.Get("/:id", h.GetFeedback)
	feedbacks.Get("/:id/analyses", h.ListAnalyses)
	feedbacks.Post("/:id/reanalyze", h.ReanalyzeFeedback)
	feedbacks.Patch("/:id/status", h.UpdateStatus)
}

// =============================================================================
// Handlers
// =============================================================================

// SubmitFeedback accepts a new survey submission. The authenticated user is
// the submitting student.
func (h *FeedbackHandler) SubmitFeedback(c *fiber.Ctx) error {
	studentID, err := GetUserID(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusUnauthorized, "authentication required")
	}

	var req feedback.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.StudentID = studentID

	f, err := h.feedbackService.Submit(c.Context(), &req)
	if err != nil {
		return AppErrorResponse(c, err)
	}

	return response.Created(c, f)
}

// GetFeedback returns one feedback record with its classification fields.
func (h *FeedbackHandler) GetFeedback(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "invalid feedback ID")
	}

	f, err := h.feedbackService.GetByID(c.Context(), id)
	if err != nil {
		return AppErrorResponse(c, err)
	}

	return response.OK(c, f)
}

// ListFeedbacks lists feedback for a class.
func (h *FeedbackHandler) ListFeedbacks(c *fiber.Ctx) error {
	classID := int64(c.QueryInt("class_id", 0))
	if classID == 0 {
		return ErrorResponse(c, fiber.StatusBadRequest, "class_id is required")
	}

	p := response.GetPagination(c, 50, 200)

	list, err := h.feedbackService.ListByClass(c.Context(), classID, p.Limit, p.Offset)
	if err != nil {
		return AppErrorResponse(c, err)
	}

	return response.OKWithMeta(c, list, &response.Meta{
		Page:     p.Page,
		PageSize: p.PageSize,
	})
}

// ListAnalyses returns the classification audit trail for a record.
func (h *FeedbackHandler) ListAnalyses(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "invalid feedback ID")
	}

	if h.auditRepo == nil {
		return response.OK(c, []*out.AnalysisAuditEntry{})
	}

	entries, err := h.auditRepo.ListByFeedback(c.Context(), id, c.QueryInt("limit", 20))
	if err != nil {
		return InternalErrorResponse(c, err, "list analyses")
	}

	return response.OK(c, entries)
}

// ReanalyzeFeedback schedules classification for one record.
func (h *FeedbackHandler) ReanalyzeFeedback(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "invalid feedback ID")
	}

	if err := h.feedbackService.Reanalyze(c.Context(), id); err != nil {
		return AppErrorResponse(c, err)
	}

	return response.Accepted(c, fiber.Map{"feedback_id": id, "status": "scheduled"})
}

// ReanalyzeBacklog schedules classification for every unanalyzed record.
func (h *FeedbackHandler) ReanalyzeBacklog(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 500)

	count, err := h.feedbackService.ReanalyzeBacklog(c.Context(), limit)
	if err != nil {
		return AppErrorResponse(c, err)
	}

	return response.Accepted(c, fiber.Map{"scheduled": count})
}

// UpdateStatusRequest is the body for the status workflow endpoint.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves a record through the operator workflow.
func (h *FeedbackHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "invalid feedback ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.feedbackService.UpdateStatus(c.Context(), id, domain.FeedbackStatus(req.Status)); err != nil {
		return AppErrorResponse(c, err)
	}

	return response.OK(c, fiber.Map{"feedback_id": id, "status": req.Status})
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
