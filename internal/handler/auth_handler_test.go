package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sfs-platform/feedback-api/internal/middleware"
	"github.com/sfs-platform/feedback-api/internal/models"
	"github.com/sfs-platform/feedback-api/internal/repository"
	"github.com/sfs-platform/feedback-api/internal/service"
	"github.com/sfs-platform/feedback-api/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fixture struct {
	auth      *service.AuthService
	feedback  *service.FeedbackService
	directory *service.DirectoryService
	export    *service.ExportService
}

// newFixture wires the full stack over an in-memory store with the demo
// roster seeded.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	mem := store.NewMemory()
	accounts := repository.NewAccountRepository(mem, "sfs")
	feedback := repository.NewFeedbackRepository(mem, "sfs")
	session := repository.NewSessionRepository(mem, "sfs")

	require.NoError(t, service.NewSeedService(accounts, nil).Run(context.Background(), true))

	authCfg := service.AuthConfig{TokenSecret: "test-secret", TokenExpiry: time.Hour, Issuer: "feedback-api"}
	feedbackSvc := service.NewFeedbackService(feedback, accounts, nil, nil)
	return &fixture{
		auth:      service.NewAuthService(accounts, session, nil, nil, authCfg),
		feedback:  feedbackSvc,
		directory: service.NewDirectoryService(accounts, nil, nil),
		export:    service.NewExportService(feedbackSvc, nil),
	}
}

func performJSON(handlerFn gin.HandlerFunc, method, body string, claims *models.JWTClaims) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	handlerFn(c)
	c.Writer.WriteHeaderNow()
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func studentClaims() *models.JWTClaims {
	return &models.JWTClaims{AccountID: 7, Role: models.RoleStudent, Email: "ava.patel@college.edu", Name: "Ava Patel"}
}

func facultyClaims() *models.JWTClaims {
	return &models.JWTClaims{AccountID: 2, Role: models.RoleFaculty, Email: "john.faculty@college.edu", Name: "Dr. John Smith"}
}

func TestLoginHandler(t *testing.T) {
	fx := newFixture(t)
	h := NewAuthHandler(fx.auth)

	w := performJSON(h.Login, http.MethodPost,
		`{"email":"admin@college.edu","password":"admin123","role":"admin"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])

	account, ok := data["account"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), account["id"])
	_, leaked := account["password"]
	assert.False(t, leaked)
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	fx := newFixture(t)
	h := NewAuthHandler(fx.auth)

	w := performJSON(h.Login, http.MethodPost,
		`{"email":"admin@college.edu","password":"wrong","role":"admin"}`, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	envelope := decodeEnvelope(t, w)
	errBody, ok := envelope["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "INVALID_CREDENTIALS", errBody["code"])
}

func TestLoginHandlerMalformedBody(t *testing.T) {
	fx := newFixture(t)
	h := NewAuthHandler(fx.auth)

	w := performJSON(h.Login, http.MethodPost, `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler(t *testing.T) {
	fx := newFixture(t)
	h := NewAuthHandler(fx.auth)

	_, err := fx.auth.Login(context.Background(), service.LoginRequest{
		Email: "ava.patel@college.edu", Password: "123456", Role: models.RoleStudent,
	})
	require.NoError(t, err)

	w := performJSON(h.Session, http.MethodGet, "", studentClaims())
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Ava Patel", data["name"])
	_, leaked := data["password"]
	assert.False(t, leaked)
}

func TestSessionHandlerAfterAccountDelete(t *testing.T) {
	fx := newFixture(t)
	h := NewAuthHandler(fx.auth)

	_, err := fx.auth.Login(context.Background(), service.LoginRequest{
		Email: "ava.patel@college.edu", Password: "123456", Role: models.RoleStudent,
	})
	require.NoError(t, err)
	require.NoError(t, fx.directory.Delete(context.Background(), 7))

	// The stored snapshot still answers once the account is gone.
	w := performJSON(h.Session, http.MethodGet, "", studentClaims())
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(7), data["id"])
	assert.Equal(t, "Ava Patel", data["name"])
}

func TestSessionHandlerWithoutClaims(t *testing.T) {
	fx := newFixture(t)
	h := NewAuthHandler(fx.auth)

	w := performJSON(h.Session, http.MethodGet, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionHandlerWithoutSession(t *testing.T) {
	fx := newFixture(t)
	h := NewAuthHandler(fx.auth)

	w := performJSON(h.Session, http.MethodGet, "", studentClaims())
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChangePasswordHandler(t *testing.T) {
	fx := newFixture(t)
	h := NewAuthHandler(fx.auth)

	w := performJSON(h.ChangePassword, http.MethodPut,
		`{"currentPassword":"123456","newPassword":"changed-1"}`, studentClaims())
	require.Equal(t, http.StatusNoContent, w.Code)

	// The new password is live immediately.
	_, err := fx.auth.Login(context.Background(), service.LoginRequest{
		Email: "ava.patel@college.edu", Password: "changed-1", Role: models.RoleStudent,
	})
	assert.NoError(t, err)
}

func TestChangePasswordHandlerWrongCurrent(t *testing.T) {
	fx := newFixture(t)
	h := NewAuthHandler(fx.auth)

	w := performJSON(h.ChangePassword, http.MethodPut,
		`{"currentPassword":"nope99","newPassword":"changed-1"}`, studentClaims())
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateProfileHandler(t *testing.T) {
	fx := newFixture(t)
	h := NewAuthHandler(fx.auth)

	w := performJSON(h.UpdateProfile, http.MethodPut,
		`{"phone":"+19998887777"}`, studentClaims())
	require.Equal(t, http.StatusOK, w.Code)

	envelope := decodeEnvelope(t, w)
	data, ok := envelope["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "+19998887777", data["phone"])
	assert.Equal(t, "Ava Patel", data["name"])
}
