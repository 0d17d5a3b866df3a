package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sfs-platform/feedback-api/internal/middleware"
	"github.com/sfs-platform/feedback-api/internal/service"
	appErrors "github.com/sfs-platform/feedback-api/pkg/errors"
	"github.com/sfs-platform/feedback-api/pkg/response"
)

// FeedbackHandler wires submission and per-role feedback views to HTTP.
type FeedbackHandler struct {
	feedback *service.FeedbackService
	metrics  *service.MetricsService
}

// NewFeedbackHandler constructs a FeedbackHandler. metrics may be nil.
func NewFeedbackHandler(feedback *service.FeedbackService, metrics *service.MetricsService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback, metrics: metrics}
}

// Submit accepts a student's evaluation of one faculty member.
func (h *FeedbackHandler) Submit(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid feedback payload"))
		return
	}
	submission, err := h.feedback.Submit(c.Request.Context(), claims.AccountID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.CountSubmission()
	}
	response.Created(c, submission)
}

// StudentHistory returns the authenticated student's submissions.
func (h *FeedbackHandler) StudentHistory(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	entries, err := h.feedback.ListByStudent(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

// RatableFaculty returns the faculty roster with rated flags for the
// authenticated student's submission form.
func (h *FeedbackHandler) RatableFaculty(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	faculty, err := h.feedback.RatableFacultyList(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faculty)
}

// FacultyDashboard returns the authenticated faculty member's summary
// statistics.
func (h *FeedbackHandler) FacultyDashboard(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	stats, err := h.feedback.FacultyStats(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// FacultyFeedback returns the authenticated faculty member's received
// submissions with student display data.
func (h *FeedbackHandler) FacultyFeedback(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	entries, err := h.feedback.ListByFaculty(c.Request.Context(), claims.AccountID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries)
}
