package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/sfs-platform/feedback-api/internal/models"
)

// Fixed first-run administrator credentials.
const (
	AdminEmail    = "admin@college.edu"
	AdminPassword = "admin123"
)

// SeedService populates the accounts collection on first run.
type SeedService struct {
	accounts accountCollection
	logger   *zap.Logger
}

// NewSeedService constructs a SeedService.
func NewSeedService(accounts accountCollection, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{accounts: accounts, logger: logger}
}

// Run seeds the administrator account when the collection is empty.
// With demoData set, a demo roster of faculty and students is seeded
// alongside it. A non-empty collection is left untouched.
func (s *SeedService) Run(ctx context.Context, demoData bool) error {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return err
	}
	if len(accounts) > 0 {
		return nil
	}

	seeded := []models.Account{{
		ID:         1,
		Email:      AdminEmail,
		Password:   AdminPassword,
		Role:       models.RoleAdmin,
		Name:       "System Administrator",
		Phone:      "+1234567890",
		Department: "Administration",
	}}

	if demoData {
		seeded = append(seeded, demoAccounts()...)
	}

	if err := s.accounts.Replace(ctx, seeded); err != nil {
		return err
	}
	s.logger.Info("seeded accounts", zap.Int("count", len(seeded)), zap.Bool("demo_data", demoData))
	return nil
}

func demoAccounts() []models.Account {
	return []models.Account{
		{ID: 2, Email: "john.faculty@college.edu", Password: "123456", Role: models.RoleFaculty, Name: "Dr. John Smith", Phone: "+1234567891", Department: "Computer Science", Subject: "Data Structures"},
		{ID: 3, Email: "emma.faculty@college.edu", Password: "123456", Role: models.RoleFaculty, Name: "Dr. Emma Brown", Phone: "+1234567893", Department: "Mathematics", Subject: "Calculus"},
		{ID: 4, Email: "li.faculty@college.edu", Password: "123456", Role: models.RoleFaculty, Name: "Dr. Li Wang", Phone: "+1234567894", Department: "Physics", Subject: "Quantum Mechanics"},
		{ID: 5, Email: "maria.faculty@college.edu", Password: "123456", Role: models.RoleFaculty, Name: "Dr. Maria Garcia", Phone: "+1234567895", Department: "Chemistry", Subject: "Organic Chemistry"},
		{ID: 6, Email: "david.faculty@college.edu", Password: "123456", Role: models.RoleFaculty, Name: "Dr. David Miller", Phone: "+1234567896", Department: "English", Subject: "Literature"},
		{ID: 7, Email: "ava.patel@college.edu", Password: "123456", Role: models.RoleStudent, Name: "Ava Patel", Phone: "+12345679100", Department: "Computer Science", RollNumber: "CS2021001"},
		{ID: 8, Email: "liam.johnson@college.edu", Password: "123456", Role: models.RoleStudent, Name: "Liam Johnson", Phone: "+12345679101", Department: "Mathematics", RollNumber: "CS2021002"},
		{ID: 9, Email: "sophia.lee@college.edu", Password: "123456", Role: models.RoleStudent, Name: "Sophia Lee", Phone: "+12345679102", Department: "Physics", RollNumber: "CS2021003"},
		{ID: 10, Email: "noah.kim@college.edu", Password: "123456", Role: models.RoleStudent, Name: "Noah Kim", Phone: "+12345679103", Department: "Chemistry", RollNumber: "CS2021004"},
		{ID: 11, Email: "mia.chen@college.edu", Password: "123456", Role: models.RoleStudent, Name: "Mia Chen", Phone: "+12345679104", Department: "English", RollNumber: "CS2021005"},
	}
}
