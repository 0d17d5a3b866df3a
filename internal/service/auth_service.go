package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sfs-platform/feedback-api/internal/models"
	appErrors "github.com/sfs-platform/feedback-api/pkg/errors"
)

type sessionRepository interface {
	Get(ctx context.Context) (*models.Account, error)
	Set(ctx context.Context, account models.Account) error
	Clear(ctx context.Context) error
}

type accountCollection interface {
	List(ctx context.Context) ([]models.Account, error)
	Replace(ctx context.Context, accounts []models.Account) error
}

// AuthConfig defines configuration for the token guard.
type AuthConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
	Issuer      string
}

// LoginRequest carries the credentials plus the role selected at the
// login screen. All three must match one account.
type LoginRequest struct {
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required"`
	Role     models.Role `json:"role" validate:"required"`
}

// LoginResponse returns the authenticated account and its access token.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresIn int64          `json:"expiresIn"`
	Account   models.Account `json:"account"`
}

// UpdateProfileRequest merges the given fields into the current
// identity. Empty fields are left untouched. Email uniqueness is not
// validated here.
type UpdateProfileRequest struct {
	Name       string `json:"name" validate:"omitempty,max=200"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"omitempty,max=50"`
	Department string `json:"department" validate:"omitempty,max=200"`
	Subject    string `json:"subject" validate:"omitempty,max=200"`
	RollNumber string `json:"rollNumber" validate:"omitempty,max=50"`
}

// ChangePasswordRequest verifies the current password before replacing it.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// AuthService owns the session identity: login, logout, resolution,
// and self-service profile mutation. There is no global session
// singleton; everything flows through this service.
type AuthService struct {
	accounts accountCollection
	session  sessionRepository
	validate *validator.Validate
	logger   *zap.Logger
	config   AuthConfig
}

// NewAuthService constructs an AuthService.
func NewAuthService(accounts accountCollection, session sessionRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{accounts: accounts, session: session, validate: validate, logger: logger, config: config}
}

// Login matches email, password, and selected role against the
// accounts collection. On success the account snapshot becomes the
// durable session identity and an access token is issued.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown role")
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}

	var match *models.Account
	for i := range accounts {
		account := accounts[i]
		if account.Email == req.Email && account.Password == req.Password && account.Role == req.Role {
			match = &account
			break
		}
	}
	if match == nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	if err := s.session.Set(ctx, *match); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}

	token, expiresAt, err := s.generateToken(*match)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.logger.Info("login", zap.Int("account_id", match.ID), zap.String("role", string(match.Role)))
	return &LoginResponse{
		Token:     token,
		ExpiresIn: int64(time.Until(expiresAt).Seconds()),
		Account:   match.Public(),
	}, nil
}

// Logout clears the session snapshot unconditionally.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.session.Clear(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	return nil
}

// ResolveSession returns the current identity, re-resolved against the
// authoritative accounts collection so administrator-side edits are
// picked up. When the account no longer exists the stored snapshot is
// returned as-is; with no snapshot at all the caller gets NotFound.
func (s *AuthService) ResolveSession(ctx context.Context) (*models.Account, error) {
	snapshot, err := s.session.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if snapshot == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no active session")
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}
	for i := range accounts {
		account := accounts[i]
		if account.ID == snapshot.ID && account.Role == snapshot.Role {
			if err := s.session.Set(ctx, account); err != nil {
				s.logger.Warn("failed to refresh session snapshot", zap.Error(err))
			}
			return &account, nil
		}
	}
	return snapshot, nil
}

// ResolveAccount looks up the authenticated account by id and role.
// Used by the HTTP layer to turn token claims into the live record.
func (s *AuthService) ResolveAccount(ctx context.Context, id int, role models.Role) (*models.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}
	for i := range accounts {
		if accounts[i].ID == id && accounts[i].Role == role {
			account := accounts[i]
			return &account, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
}

// UpdateProfile merges the request into the identified account, writes
// it through to the accounts collection, and refreshes the session
// snapshot.
func (s *AuthService) UpdateProfile(ctx context.Context, id int, role models.Role, req UpdateProfileRequest) (*models.Account, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}

	for i := range accounts {
		if accounts[i].ID != id || accounts[i].Role != role {
			continue
		}
		if req.Name != "" {
			accounts[i].Name = req.Name
		}
		if req.Email != "" {
			accounts[i].Email = req.Email
		}
		if req.Phone != "" {
			accounts[i].Phone = req.Phone
		}
		if req.Department != "" {
			accounts[i].Department = req.Department
		}
		if req.Subject != "" {
			accounts[i].Subject = req.Subject
		}
		if req.RollNumber != "" {
			accounts[i].RollNumber = req.RollNumber
		}

		if err := s.accounts.Replace(ctx, accounts); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist accounts")
		}
		if err := s.session.Set(ctx, accounts[i]); err != nil {
			s.logger.Warn("failed to refresh session snapshot", zap.Error(err))
		}
		updated := accounts[i]
		return &updated, nil
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "account not found")
}

// ChangePassword verifies the current password before storing the new
// one. New passwords must be at least six characters.
func (s *AuthService) ChangePassword(ctx context.Context, id int, role models.Role, req ChangePasswordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "new password must be at least 6 characters")
	}

	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load accounts")
	}

	for i := range accounts {
		if accounts[i].ID != id || accounts[i].Role != role {
			continue
		}
		if accounts[i].Password != req.CurrentPassword {
			return appErrors.Clone(appErrors.ErrForbidden, "current password is incorrect")
		}
		accounts[i].Password = req.NewPassword

		if err := s.accounts.Replace(ctx, accounts); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist accounts")
		}
		if err := s.session.Set(ctx, accounts[i]); err != nil {
			s.logger.Warn("failed to refresh session snapshot", zap.Error(err))
		}
		return nil
	}
	return appErrors.Clone(appErrors.ErrNotFound, "account not found")
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.TokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) generateToken(account models.Account) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.config.TokenExpiry)
	claims := &models.JWTClaims{
		AccountID: account.ID,
		Role:      account.Role,
		Email:     account.Email,
		Name:      account.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.TokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}
