package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sfs-platform/feedback-api/internal/models"
	"github.com/sfs-platform/feedback-api/internal/service"
	appErrors "github.com/sfs-platform/feedback-api/pkg/errors"
	"github.com/sfs-platform/feedback-api/pkg/response"
)

// AccountHandler wires the user directory to the admin route tree.
type AccountHandler struct {
	directory *service.DirectoryService
}

// NewAccountHandler constructs an AccountHandler.
func NewAccountHandler(directory *service.DirectoryService) *AccountHandler {
	return &AccountHandler{directory: directory}
}

// List returns faculty and student accounts, optionally filtered by
// role and a name/email search term.
func (h *AccountHandler) List(c *gin.Context) {
	filter := models.AccountFilter{Search: strings.TrimSpace(c.Query("search"))}
	if raw := c.Query("role"); raw != "" {
		role := models.Role(raw)
		if !role.Valid() {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unknown role filter"))
			return
		}
		filter.Role = &role
	}

	accounts, err := h.directory.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, accounts)
}

// Create adds a faculty or student account.
func (h *AccountHandler) Create(c *gin.Context) {
	var req service.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid account payload"))
		return
	}
	account, err := h.directory.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, account)
}

// Update replaces fields of an existing account.
func (h *AccountHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid account id"))
		return
	}
	var req service.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid account payload"))
		return
	}
	account, err := h.directory.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, account)
}

// Delete removes an account without cascading to its feedback.
func (h *AccountHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid account id"))
		return
	}
	if err := h.directory.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
