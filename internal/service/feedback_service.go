package service

import (
	"context"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sfs-platform/feedback-api/internal/models"
	"github.com/sfs-platform/feedback-api/internal/repository"
	appErrors "github.com/sfs-platform/feedback-api/pkg/errors"
)

type feedbackRepository interface {
	List(ctx context.Context) ([]models.Submission, error)
	Replace(ctx context.Context, submissions []models.Submission) error
}

type accountLister interface {
	List(ctx context.Context) ([]models.Account, error)
}

// SubmitFeedbackRequest is the payload for a new submission.
type SubmitFeedbackRequest struct {
	FacultyID int            `json:"facultyId" validate:"required,gt=0"`
	Ratings   map[string]int `json:"ratings" validate:"required"`
	Comment   string         `json:"comment" validate:"omitempty,max=2000"`
}

// FacultyFeedbackEntry is a submission joined with student display data
// for faculty-facing views.
type FacultyFeedbackEntry struct {
	models.Submission
	StudentName string `json:"studentName"`
	RollNumber  string `json:"rollNumber,omitempty"`
}

// StudentFeedbackEntry is a submission joined with faculty display data
// for the student history view.
type StudentFeedbackEntry struct {
	models.Submission
	FacultyName       string `json:"facultyName"`
	FacultyDepartment string `json:"facultyDepartment,omitempty"`
	FacultySubject    string `json:"facultySubject,omitempty"`
}

// RatableFaculty is a faculty directory row with the caller's rated flag.
type RatableFaculty struct {
	models.Account
	Rated bool `json:"rated"`
}

// FeedbackService implements submission and aggregation over the
// feedback collection.
type FeedbackService struct {
	feedback feedbackRepository
	accounts accountLister
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(feedback feedbackRepository, accounts accountLister, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{
		feedback: feedback,
		accounts: accounts,
		validate: validate,
		logger:   logger,
		now:      time.Now,
	}
}

// ComputeAverage returns the arithmetic mean over exactly the ten
// recognized criteria. Keys outside the criteria set are ignored, and
// the result does not depend on map iteration order.
func ComputeAverage(ratings map[string]int) float64 {
	sum := 0
	for _, key := range models.Criteria {
		sum += ratings[key]
	}
	return float64(sum) / float64(len(models.Criteria))
}

// Submit validates and appends a new submission for the given student.
// Validation failures never mutate the persisted collection.
func (s *FeedbackService) Submit(ctx context.Context, studentID int, req SubmitFeedbackRequest) (*models.Submission, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	for _, key := range models.Criteria {
		rating, ok := req.Ratings[key]
		if !ok || rating == 0 {
			return nil, appErrors.Clone(appErrors.ErrIncompleteRatings, "")
		}
		if rating < models.MinRating || rating > models.MaxRating {
			return nil, appErrors.Clone(appErrors.ErrValidation, "ratings must be between 1 and 5")
		}
	}

	submissions, err := s.feedback.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}

	for _, existing := range submissions {
		if existing.StudentID == studentID && existing.FacultyID == req.FacultyID {
			return nil, appErrors.Clone(appErrors.ErrDuplicateSubmission, "")
		}
	}

	// Only the recognized criteria are stored; stray keys are dropped.
	ratings := make(map[string]int, len(models.Criteria))
	for _, key := range models.Criteria {
		ratings[key] = req.Ratings[key]
	}

	ids := make([]int, 0, len(submissions))
	for _, existing := range submissions {
		ids = append(ids, existing.ID)
	}

	submission := models.Submission{
		ID:            repository.NextID(ids),
		StudentID:     studentID,
		FacultyID:     req.FacultyID,
		Ratings:       ratings,
		AverageRating: ComputeAverage(ratings),
		Comment:       req.Comment,
		CreatedAt:     s.now(),
	}

	if err := s.feedback.Replace(ctx, append(submissions, submission)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist feedback")
	}

	s.logger.Info("feedback submitted",
		zap.Int("submission_id", submission.ID),
		zap.Int("student_id", studentID),
		zap.Int("faculty_id", req.FacultyID),
	)
	return &submission, nil
}

// AggregateByFaculty groups the whole collection by faculty, joining
// against the account directory. Submissions whose faculty no longer
// resolves are dropped from the grouped view; faculty with zero
// submissions get no entry. The mean is the mean of each submission's
// precomputed average rating, never a flattened per-criterion mean.
func (s *FeedbackService) AggregateByFaculty(ctx context.Context) ([]models.FacultyAggregate, error) {
	submissions, err := s.feedback.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}

	faculty := make(map[int]models.Account)
	for _, account := range accounts {
		if account.Role == models.RoleFaculty {
			faculty[account.ID] = account
		}
	}

	var order []int
	groups := make(map[int]*models.FacultyAggregate)
	totals := make(map[int]float64)
	for _, submission := range submissions {
		member, ok := faculty[submission.FacultyID]
		if !ok {
			continue
		}
		group, seen := groups[submission.FacultyID]
		if !seen {
			group = &models.FacultyAggregate{Faculty: member.Public()}
			groups[submission.FacultyID] = group
			order = append(order, submission.FacultyID)
		}
		group.Entries = append(group.Entries, submission)
		group.Count++
		totals[submission.FacultyID] += submission.AverageRating
	}

	result := make([]models.FacultyAggregate, 0, len(order))
	for _, id := range order {
		group := groups[id]
		group.MeanRating = totals[id] / float64(group.Count)
		result = append(result, *group)
	}
	return result, nil
}

// RatingDistribution buckets submissions by the rounded average rating
// into bins 1..5. Out-of-range rounding results are discarded.
func RatingDistribution(submissions []models.Submission) [5]int {
	var dist [5]int
	for _, submission := range submissions {
		rating := int(math.Round(submission.AverageRating))
		if rating >= models.MinRating && rating <= models.MaxRating {
			dist[rating-1]++
		}
	}
	return dist
}

// MonthlyCount counts submissions created in the given calendar month
// and year, using local calendar fields.
func MonthlyCount(submissions []models.Submission, month time.Month, year int) int {
	count := 0
	for _, submission := range submissions {
		if submission.CreatedAt.Month() == month && submission.CreatedAt.Year() == year {
			count++
		}
	}
	return count
}

// UniqueStudentCount returns the number of distinct students among the
// submissions.
func UniqueStudentCount(submissions []models.Submission) int {
	students := make(map[int]struct{})
	for _, submission := range submissions {
		students[submission.StudentID] = struct{}{}
	}
	return len(students)
}

// FacultyStats computes the dashboard numbers for one faculty member.
func (s *FeedbackService) FacultyStats(ctx context.Context, facultyID int) (*models.FacultyStats, error) {
	submissions, err := s.feedback.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}

	var mine []models.Submission
	for _, submission := range submissions {
		if submission.FacultyID == facultyID {
			mine = append(mine, submission)
		}
	}

	stats := &models.FacultyStats{
		TotalFeedback:      len(mine),
		StudentsReached:    UniqueStudentCount(mine),
		RatingDistribution: RatingDistribution(mine),
	}

	now := s.now()
	stats.MonthlyFeedback = MonthlyCount(mine, now.Month(), now.Year())

	if len(mine) > 0 {
		total := 0.0
		for _, submission := range mine {
			total += submission.AverageRating
		}
		stats.AverageRating = total / float64(len(mine))
	}
	return stats, nil
}

// ListByFaculty returns one faculty member's submissions joined with
// student display data. Students that no longer resolve show as
// "Unknown Student".
func (s *FeedbackService) ListByFaculty(ctx context.Context, facultyID int) ([]FacultyFeedbackEntry, error) {
	submissions, err := s.feedback.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}

	students := make(map[int]models.Account)
	for _, account := range accounts {
		if account.Role == models.RoleStudent {
			students[account.ID] = account
		}
	}

	entries := make([]FacultyFeedbackEntry, 0)
	for _, submission := range submissions {
		if submission.FacultyID != facultyID {
			continue
		}
		entry := FacultyFeedbackEntry{Submission: submission, StudentName: "Unknown Student"}
		if student, ok := students[submission.StudentID]; ok {
			entry.StudentName = student.Name
			entry.RollNumber = student.RollNumber
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ListByStudent returns one student's submission history joined with
// faculty display data. Deleted faculty show as "Unknown Faculty".
func (s *FeedbackService) ListByStudent(ctx context.Context, studentID int) ([]StudentFeedbackEntry, error) {
	submissions, err := s.feedback.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}

	faculty := make(map[int]models.Account)
	for _, account := range accounts {
		if account.Role == models.RoleFaculty {
			faculty[account.ID] = account
		}
	}

	entries := make([]StudentFeedbackEntry, 0)
	for _, submission := range submissions {
		if submission.StudentID != studentID {
			continue
		}
		entry := StudentFeedbackEntry{Submission: submission, FacultyName: "Unknown Faculty"}
		if member, ok := faculty[submission.FacultyID]; ok {
			entry.FacultyName = member.Name
			entry.FacultyDepartment = member.Department
			entry.FacultySubject = member.Subject
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// RatableFacultyList returns the faculty directory with a rated flag
// for the given student, feeding the submission form.
func (s *FeedbackService) RatableFacultyList(ctx context.Context, studentID int) ([]RatableFaculty, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}
	submissions, err := s.feedback.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}

	rated := make(map[int]bool)
	for _, submission := range submissions {
		if submission.StudentID == studentID {
			rated[submission.FacultyID] = true
		}
	}

	result := make([]RatableFaculty, 0)
	for _, account := range accounts {
		if account.Role != models.RoleFaculty {
			continue
		}
		result = append(result, RatableFaculty{Account: account.Public(), Rated: rated[account.ID]})
	}
	return result, nil
}

// Overview computes the admin dashboard statistics.
func (s *FeedbackService) Overview(ctx context.Context) (*models.OverviewStats, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}
	submissions, err := s.feedback.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}

	stats := &models.OverviewStats{FeedbackCount: len(submissions)}
	for _, account := range accounts {
		switch account.Role {
		case models.RoleFaculty:
			stats.FacultyCount++
		case models.RoleStudent:
			stats.StudentCount++
		}
	}
	if len(submissions) > 0 {
		total := 0.0
		for _, submission := range submissions {
			total += submission.AverageRating
		}
		stats.AverageRating = total / float64(len(submissions))
	}
	return stats, nil
}
