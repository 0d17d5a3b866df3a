package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/sfs-platform/feedback-api/internal/models"
	"github.com/sfs-platform/feedback-api/internal/repository"
	appErrors "github.com/sfs-platform/feedback-api/pkg/errors"
)

// CreateAccountRequest is the admin payload for a new faculty or
// student account.
type CreateAccountRequest struct {
	Email      string      `json:"email" validate:"required,email"`
	Password   string      `json:"password" validate:"required,min=6"`
	Role       models.Role `json:"role" validate:"required"`
	Name       string      `json:"name" validate:"required,max=200"`
	Phone      string      `json:"phone" validate:"omitempty,max=50"`
	Department string      `json:"department" validate:"omitempty,max=200"`
	Subject    string      `json:"subject" validate:"omitempty,max=200"`
	RollNumber string      `json:"rollNumber" validate:"omitempty,max=50"`
}

// UpdateAccountRequest replaces account fields. An empty password keeps
// the stored one.
type UpdateAccountRequest struct {
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"omitempty,min=6"`
	Name       string `json:"name" validate:"required,max=200"`
	Phone      string `json:"phone" validate:"omitempty,max=50"`
	Department string `json:"department" validate:"omitempty,max=200"`
	Subject    string `json:"subject" validate:"omitempty,max=200"`
	RollNumber string `json:"rollNumber" validate:"omitempty,max=50"`
}

// DirectoryService implements administrator CRUD over the account
// directory.
type DirectoryService struct {
	accounts accountCollection
	validate *validator.Validate
	logger   *zap.Logger
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(accounts accountCollection, validate *validator.Validate, logger *zap.Logger) *DirectoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{accounts: accounts, validate: validate, logger: logger}
}

// List returns accounts matching the filter. Admin accounts are always
// excluded from management views.
func (s *DirectoryService) List(ctx context.Context, filter models.AccountFilter) ([]models.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := make([]models.Account, 0)
	for _, account := range accounts {
		if account.Role == models.RoleAdmin {
			continue
		}
		if filter.Role != nil && account.Role != *filter.Role {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(account.Name), search) &&
			!strings.Contains(strings.ToLower(account.Email), search) {
			continue
		}
		result = append(result, account.Public())
	}
	return result, nil
}

// Create appends a new account after checking email uniqueness across
// all roles.
func (s *DirectoryService) Create(ctx context.Context, req CreateAccountRequest) (*models.Account, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid account payload")
	}
	if req.Role != models.RoleFaculty && req.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "role must be faculty or student")
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}

	email := strings.TrimSpace(req.Email)
	for _, existing := range accounts {
		if existing.Email == email {
			return nil, appErrors.Clone(appErrors.ErrDuplicateEmail, "")
		}
	}

	ids := make([]int, 0, len(accounts))
	for _, existing := range accounts {
		ids = append(ids, existing.ID)
	}

	account := models.Account{
		ID:         repository.NextID(ids),
		Email:      email,
		Password:   req.Password,
		Role:       req.Role,
		Name:       strings.TrimSpace(req.Name),
		Phone:      req.Phone,
		Department: req.Department,
		Subject:    req.Subject,
		RollNumber: req.RollNumber,
	}

	if err := s.accounts.Replace(ctx, append(accounts, account)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist accounts")
	}

	s.logger.Info("account created", zap.Int("account_id", account.ID), zap.String("role", string(account.Role)))
	public := account.Public()
	return &public, nil
}

// Update replaces the matching account's fields. The stored password is
// kept when the incoming one is empty.
func (s *DirectoryService) Update(ctx context.Context, id int, req UpdateAccountRequest) (*models.Account, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid account payload")
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}

	for i := range accounts {
		if accounts[i].ID != id {
			continue
		}
		accounts[i].Email = strings.TrimSpace(req.Email)
		accounts[i].Name = strings.TrimSpace(req.Name)
		accounts[i].Phone = req.Phone
		accounts[i].Department = req.Department
		accounts[i].Subject = req.Subject
		accounts[i].RollNumber = req.RollNumber
		if req.Password != "" {
			accounts[i].Password = req.Password
		}

		if err := s.accounts.Replace(ctx, accounts); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist accounts")
		}
		public := accounts[i].Public()
		return &public, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
}

// Delete removes the account. Feedback referencing it is deliberately
// left in place; consumers resolve missing references as "Unknown".
func (s *DirectoryService) Delete(ctx context.Context, id int) error {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}

	remaining := make([]models.Account, 0, len(accounts))
	found := false
	for _, account := range accounts {
		if account.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, account)
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "account not found")
	}

	if err := s.accounts.Replace(ctx, remaining); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist accounts")
	}
	s.logger.Info("account deleted", zap.Int("account_id", id))
	return nil
}
