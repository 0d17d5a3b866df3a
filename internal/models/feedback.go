package models

import "time"

// Criteria are the ten fixed rating dimensions, scored 1-5 each.
// The set is closed; ratings under any other key are ignored.
var Criteria = []string{
	"teachingQuality",
	"communication",
	"courseContent",
	"availability",
	"punctuality",
	"knowledgeLevel",
	"classroomManagement",
	"assignmentFeedback",
	"motivation",
	"overallSatisfaction",
}

// Rating bounds for every criterion.
const (
	MinRating = 1
	MaxRating = 5
)

// Submission is one student's completed evaluation of one faculty
// member. Submissions are immutable once created.
type Submission struct {
	ID            int            `json:"id"`
	StudentID     int            `json:"studentId"`
	FacultyID     int            `json:"facultyId"`
	Ratings       map[string]int `json:"ratings"`
	AverageRating float64        `json:"averageRating"`
	Comment       string         `json:"comment,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// FacultyAggregate is the derived per-faculty summary. Faculty with no
// submissions have no aggregate entry.
type FacultyAggregate struct {
	Faculty    Account      `json:"faculty"`
	Count      int          `json:"count"`
	MeanRating float64      `json:"meanRating"`
	Entries    []Submission `json:"entries"`
}

// FacultyStats backs the faculty dashboard.
type FacultyStats struct {
	TotalFeedback      int     `json:"totalFeedback"`
	AverageRating      float64 `json:"averageRating"`
	MonthlyFeedback    int     `json:"monthlyFeedback"`
	StudentsReached    int     `json:"studentsReached"`
	RatingDistribution [5]int  `json:"ratingDistribution"`
}

// OverviewStats backs the admin dashboard.
type OverviewStats struct {
	FacultyCount  int     `json:"facultyCount"`
	StudentCount  int     `json:"studentCount"`
	FeedbackCount int     `json:"feedbackCount"`
	AverageRating float64 `json:"averageRating"`
}
