package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	appErrors "github.com/sfs-platform/feedback-api/pkg/errors"
	"github.com/sfs-platform/feedback-api/pkg/export"
)

// Export formats accepted by the admin feedback export endpoint.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// ExportResult carries rendered bytes plus HTTP delivery metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the per-faculty feedback summary as a download.
type ExportService struct {
	feedback *FeedbackService
	logger   *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(feedback *FeedbackService, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{feedback: feedback, logger: logger}
}

// FacultySummary renders the aggregated feedback table in the requested
// format.
func (s *ExportService) FacultySummary(ctx context.Context, format string) (*ExportResult, error) {
	aggregates, err := s.feedback.AggregateByFaculty(ctx)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Title:   "Faculty Feedback Summary",
		Headers: []string{"Faculty", "Department", "Subject", "Reviews", "Mean Rating", "Students Reached"},
	}
	for _, aggregate := range aggregates {
		data.Rows = append(data.Rows, []string{
			aggregate.Faculty.Name,
			aggregate.Faculty.Department,
			aggregate.Faculty.Subject,
			strconv.Itoa(aggregate.Count),
			fmt.Sprintf("%.1f", aggregate.MeanRating),
			strconv.Itoa(UniqueStudentCount(aggregate.Entries)),
		})
	}

	switch format {
	case FormatCSV:
		content, err := export.CSV(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Content: content, ContentType: "text/csv", Filename: "feedback-summary.csv"}, nil
	case FormatPDF:
		content, err := export.PDF(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Content: content, ContentType: "application/pdf", Filename: "feedback-summary.pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
