package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sfs-platform/feedback-api/internal/middleware"
	"github.com/sfs-platform/feedback-api/internal/service"
	appErrors "github.com/sfs-platform/feedback-api/pkg/errors"
	"github.com/sfs-platform/feedback-api/pkg/response"
)

// AuthHandler wires the identity/session service to HTTP routes.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login authenticates email + password + role and returns the account
// with an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}
	result, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Logout clears the durable session snapshot.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Session returns the resolved current identity: the live account
// record when it still exists, otherwise the durable session snapshot.
func (h *AuthHandler) Session(c *gin.Context) {
	if _, ok := middleware.Claims(c); !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	account, err := h.auth.ResolveSession(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, account.Public())
}

// UpdateProfile merges profile fields into the current identity.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid profile payload"))
		return
	}
	account, err := h.auth.UpdateProfile(c.Request.Context(), claims.AccountID, claims.Role, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, account.Public())
}

// ChangePassword verifies the current password and replaces it.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid password payload"))
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), claims.AccountID, claims.Role, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
