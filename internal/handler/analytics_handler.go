package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sfs-platform/feedback-api/internal/service"
	"github.com/sfs-platform/feedback-api/pkg/response"
)

// AnalyticsHandler serves the admin-side system analytics.
type AnalyticsHandler struct {
	feedback *service.FeedbackService
	export   *service.ExportService
}

// NewAnalyticsHandler constructs an AnalyticsHandler.
func NewAnalyticsHandler(feedback *service.FeedbackService, export *service.ExportService) *AnalyticsHandler {
	return &AnalyticsHandler{feedback: feedback, export: export}
}

// Overview returns system-wide counts and the overall mean rating.
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	stats, err := h.feedback.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Summary returns the per-faculty aggregates.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	aggregates, err := h.feedback.AggregateByFaculty(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, aggregates)
}

// Export streams the per-faculty summary as a CSV or PDF download.
func (h *AnalyticsHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", service.FormatCSV))
	result, err := h.export.FacultySummary(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
