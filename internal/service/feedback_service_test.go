package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sfs-platform/feedback-api/internal/models"
	appErrors "github.com/sfs-platform/feedback-api/pkg/errors"
)

type mockFeedbackRepo struct {
	items   []models.Submission
	listErr error
}

func (m *mockFeedbackRepo) List(_ context.Context) ([]models.Submission, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	cp := make([]models.Submission, len(m.items))
	copy(cp, m.items)
	return cp, nil
}

func (m *mockFeedbackRepo) Replace(_ context.Context, submissions []models.Submission) error {
	m.items = submissions
	return nil
}

type mockAccountRepo struct {
	items []models.Account
}

func (m *mockAccountRepo) List(_ context.Context) ([]models.Account, error) {
	cp := make([]models.Account, len(m.items))
	copy(cp, m.items)
	return cp, nil
}

func (m *mockAccountRepo) Replace(_ context.Context, accounts []models.Account) error {
	m.items = accounts
	return nil
}

func allRatings(value int) map[string]int {
	ratings := make(map[string]int, len(models.Criteria))
	for _, key := range models.Criteria {
		ratings[key] = value
	}
	return ratings
}

func seedDirectory() *mockAccountRepo {
	return &mockAccountRepo{items: []models.Account{
		{ID: 1, Email: "admin@college.edu", Role: models.RoleAdmin, Name: "System Administrator"},
		{ID: 2, Email: "john.faculty@college.edu", Role: models.RoleFaculty, Name: "Dr. John Smith", Department: "Computer Science", Subject: "Data Structures"},
		{ID: 7, Email: "ava.patel@college.edu", Role: models.RoleStudent, Name: "Ava Patel", RollNumber: "CS2021001"},
	}}
}

func newFeedbackService(feedback *mockFeedbackRepo, accounts *mockAccountRepo) *FeedbackService {
	return NewFeedbackService(feedback, accounts, validator.New(), zap.NewNop())
}

func TestComputeAverage(t *testing.T) {
	ratings := allRatings(3)
	ratings["teachingQuality"] = 5
	ratings["communication"] = 1

	// (5 + 1 + 8*3) / 10
	assert.InDelta(t, 3.0, ComputeAverage(ratings), 1e-9)
}

func TestComputeAverageIgnoresUnknownKeys(t *testing.T) {
	ratings := allRatings(4)
	ratings["comment"] = 99
	ratings["somethingElse"] = 1

	assert.InDelta(t, 4.0, ComputeAverage(ratings), 1e-9)
}

func TestSubmitAllFives(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := newFeedbackService(repo, seedDirectory())

	submission, err := svc.Submit(context.Background(), 7, SubmitFeedbackRequest{
		FacultyID: 2,
		Ratings:   allRatings(5),
		Comment:   "excellent",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, submission.ID)
	assert.InDelta(t, 5.0, submission.AverageRating, 1e-9)
	assert.Len(t, repo.items, 1)
	assert.False(t, submission.CreatedAt.IsZero())
}

func TestSubmitDropsStrayRatingKeys(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := newFeedbackService(repo, seedDirectory())

	ratings := allRatings(4)
	ratings["comment"] = 3

	submission, err := svc.Submit(context.Background(), 7, SubmitFeedbackRequest{FacultyID: 2, Ratings: ratings})
	require.NoError(t, err)
	assert.Len(t, submission.Ratings, len(models.Criteria))
	_, present := submission.Ratings["comment"]
	assert.False(t, present)
}

func TestSubmitIncompleteRatings(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := newFeedbackService(repo, seedDirectory())

	ratings := allRatings(5)
	ratings["punctuality"] = 0

	_, err := svc.Submit(context.Background(), 7, SubmitFeedbackRequest{FacultyID: 2, Ratings: ratings})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrIncompleteRatings))
	assert.Empty(t, repo.items)

	delete(ratings, "punctuality")
	_, err = svc.Submit(context.Background(), 7, SubmitFeedbackRequest{FacultyID: 2, Ratings: ratings})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrIncompleteRatings))
	assert.Empty(t, repo.items)
}

func TestSubmitOutOfRangeRating(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := newFeedbackService(repo, seedDirectory())

	ratings := allRatings(5)
	ratings["motivation"] = 6

	_, err := svc.Submit(context.Background(), 7, SubmitFeedbackRequest{FacultyID: 2, Ratings: ratings})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.items)
}

func TestSubmitDuplicate(t *testing.T) {
	repo := &mockFeedbackRepo{}
	svc := newFeedbackService(repo, seedDirectory())

	_, err := svc.Submit(context.Background(), 7, SubmitFeedbackRequest{FacultyID: 2, Ratings: allRatings(5)})
	require.NoError(t, err)

	aggregates, err := svc.AggregateByFaculty(context.Background())
	require.NoError(t, err)
	require.Len(t, aggregates, 1)
	assert.Equal(t, 1, aggregates[0].Count)
	assert.InDelta(t, 5.0, aggregates[0].MeanRating, 1e-9)

	_, err = svc.Submit(context.Background(), 7, SubmitFeedbackRequest{FacultyID: 2, Ratings: allRatings(4)})
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrDuplicateSubmission))
	assert.Len(t, repo.items, 1)
}

func TestAggregateByFacultyMeanOfMeans(t *testing.T) {
	repo := &mockFeedbackRepo{items: []models.Submission{
		{ID: 1, StudentID: 7, FacultyID: 2, AverageRating: 4.2},
		{ID: 2, StudentID: 8, FacultyID: 2, AverageRating: 3.6},
		{ID: 3, StudentID: 9, FacultyID: 2, AverageRating: 5.0},
	}}
	svc := newFeedbackService(repo, seedDirectory())

	aggregates, err := svc.AggregateByFaculty(context.Background())
	require.NoError(t, err)
	require.Len(t, aggregates, 1)
	assert.Equal(t, 3, aggregates[0].Count)
	assert.InDelta(t, (4.2+3.6+5.0)/3, aggregates[0].MeanRating, 1e-9)
	assert.Equal(t, "Dr. John Smith", aggregates[0].Faculty.Name)
	assert.Empty(t, aggregates[0].Faculty.Password)
}

func TestAggregateByFacultyDropsOrphans(t *testing.T) {
	repo := &mockFeedbackRepo{items: []models.Submission{
		{ID: 1, StudentID: 7, FacultyID: 2, AverageRating: 4.0},
		{ID: 2, StudentID: 7, FacultyID: 999, AverageRating: 2.0},
	}}
	svc := newFeedbackService(repo, seedDirectory())

	aggregates, err := svc.AggregateByFaculty(context.Background())
	require.NoError(t, err)
	require.Len(t, aggregates, 1)
	assert.Equal(t, 2, aggregates[0].Faculty.ID)

	// The raw collection keeps the orphaned submission.
	assert.Len(t, repo.items, 2)
}

func TestRatingDistribution(t *testing.T) {
	submissions := []models.Submission{
		{AverageRating: 1.0},
		{AverageRating: 4.6},
		{AverageRating: 4.4},
		{AverageRating: 2.5},
	}

	dist := RatingDistribution(submissions)
	assert.Equal(t, [5]int{1, 0, 1, 1, 1}, dist)
}

func TestRatingDistributionDiscardsOutOfRange(t *testing.T) {
	dist := RatingDistribution([]models.Submission{{AverageRating: 0.2}, {AverageRating: 7.0}})
	assert.Equal(t, [5]int{0, 0, 0, 0, 0}, dist)
}

func TestMonthlyCount(t *testing.T) {
	march := time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)
	april := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.Local)
	lastYear := time.Date(2023, time.March, 15, 10, 0, 0, 0, time.Local)

	submissions := []models.Submission{
		{CreatedAt: march},
		{CreatedAt: march.Add(24 * time.Hour)},
		{CreatedAt: april},
		{CreatedAt: lastYear},
	}

	assert.Equal(t, 2, MonthlyCount(submissions, time.March, 2024))
	assert.Equal(t, 1, MonthlyCount(submissions, time.April, 2024))
	assert.Equal(t, 0, MonthlyCount(submissions, time.May, 2024))
}

func TestUniqueStudentCount(t *testing.T) {
	submissions := []models.Submission{
		{StudentID: 7},
		{StudentID: 7},
		{StudentID: 8},
	}
	assert.Equal(t, 2, UniqueStudentCount(submissions))
}

func TestFacultyStats(t *testing.T) {
	now := time.Date(2024, time.June, 20, 12, 0, 0, 0, time.Local)
	repo := &mockFeedbackRepo{items: []models.Submission{
		{ID: 1, StudentID: 7, FacultyID: 2, AverageRating: 5.0, CreatedAt: now},
		{ID: 2, StudentID: 8, FacultyID: 2, AverageRating: 3.0, CreatedAt: now.AddDate(0, -1, 0)},
		{ID: 3, StudentID: 7, FacultyID: 3, AverageRating: 1.0, CreatedAt: now},
	}}
	svc := newFeedbackService(repo, seedDirectory())
	svc.now = func() time.Time { return now }

	stats, err := svc.FacultyStats(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalFeedback)
	assert.InDelta(t, 4.0, stats.AverageRating, 1e-9)
	assert.Equal(t, 1, stats.MonthlyFeedback)
	assert.Equal(t, 2, stats.StudentsReached)
	assert.Equal(t, [5]int{0, 0, 1, 0, 1}, stats.RatingDistribution)
}

func TestFacultyStatsEmpty(t *testing.T) {
	svc := newFeedbackService(&mockFeedbackRepo{}, seedDirectory())

	stats, err := svc.FacultyStats(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalFeedback)
	assert.Zero(t, stats.AverageRating)
}

func TestListByFacultyUnknownStudent(t *testing.T) {
	repo := &mockFeedbackRepo{items: []models.Submission{
		{ID: 1, StudentID: 7, FacultyID: 2, AverageRating: 4.0},
		{ID: 2, StudentID: 404, FacultyID: 2, AverageRating: 3.0},
	}}
	svc := newFeedbackService(repo, seedDirectory())

	entries, err := svc.ListByFaculty(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Ava Patel", entries[0].StudentName)
	assert.Equal(t, "Unknown Student", entries[1].StudentName)
}

func TestListByStudentUnknownFaculty(t *testing.T) {
	repo := &mockFeedbackRepo{items: []models.Submission{
		{ID: 1, StudentID: 7, FacultyID: 2, AverageRating: 4.0},
		{ID: 2, StudentID: 7, FacultyID: 404, AverageRating: 3.0},
	}}
	svc := newFeedbackService(repo, seedDirectory())

	entries, err := svc.ListByStudent(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Dr. John Smith", entries[0].FacultyName)
	assert.Equal(t, "Unknown Faculty", entries[1].FacultyName)
}

func TestRatableFacultyList(t *testing.T) {
	repo := &mockFeedbackRepo{items: []models.Submission{
		{ID: 1, StudentID: 7, FacultyID: 2, AverageRating: 4.0},
	}}
	svc := newFeedbackService(repo, seedDirectory())

	faculty, err := svc.RatableFacultyList(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, faculty, 1)
	assert.True(t, faculty[0].Rated)

	faculty, err = svc.RatableFacultyList(context.Background(), 8)
	require.NoError(t, err)
	require.Len(t, faculty, 1)
	assert.False(t, faculty[0].Rated)
}

func TestOverview(t *testing.T) {
	repo := &mockFeedbackRepo{items: []models.Submission{
		{ID: 1, StudentID: 7, FacultyID: 2, AverageRating: 4.0},
		{ID: 2, StudentID: 8, FacultyID: 2, AverageRating: 2.0},
	}}
	svc := newFeedbackService(repo, seedDirectory())

	stats, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FacultyCount)
	assert.Equal(t, 1, stats.StudentCount)
	assert.Equal(t, 2, stats.FeedbackCount)
	assert.InDelta(t, 3.0, stats.AverageRating, 1e-9)
}
