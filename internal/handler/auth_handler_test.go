package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Kroplewski-M/student-showcase/internal/filestore"
	"github.com/Kroplewski-M/student-showcase/internal/middleware"
	"github.com/Kroplewski-M/student-showcase/internal/model"
	appErr "github.com/Kroplewski-M/student-showcase/internal/pkg/errors"
	"github.com/Kroplewski-M/student-showcase/internal/service"
)

// fakeBackend implements the service stores in memory for HTTP-level tests.
type fakeBackend struct {
	users         map[string]*model.User
	verifications map[string]string
	resets        map[string]string
	sentTokens    []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users:         make(map[string]*model.User),
		verifications: make(map[string]string),
		resets:        make(map[string]string),
	}
}

func (f *fakeBackend) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeBackend) ExistsVerified(_ context.Context, id string) (bool, error) {
	user, ok := f.users[id]
	return ok && user.Verified, nil
}

func (f *fakeBackend) GetProfile(_ context.Context, id string) (*model.UserProfile, error) {
	user, ok := f.users[id]
	if !ok || !user.Verified {
		return nil, appErr.ErrNotFound
	}
	return &model.UserProfile{ID: id, FirstName: user.FirstName}, nil
}

func (f *fakeBackend) UpdateProfile(_ context.Context, id string, update model.ProfileUpdate) error {
	user, ok := f.users[id]
	if !ok {
		return appErr.ErrNotFound
	}
	user.FirstName = update.FirstName
	return nil
}

func (f *fakeBackend) ReplaceImage(_ context.Context, id string, file *model.File) error {
	if _, ok := f.users[id]; !ok {
		return appErr.ErrNotFound
	}
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	return nil
}

func (f *fakeBackend) GetImage(_ context.Context, id string) (*model.File, error) {
	return nil, appErr.ErrNotFound
}

func (f *fakeBackend) CreateUser(_ context.Context, id string, hash string) (string, error) {
	if _, ok := f.users[id]; ok {
		return "", appErr.ErrConflict
	}
	f.users[id] = &model.User{ID: id, PasswordHash: hash}
	return id, nil
}

func (f *fakeBackend) IssueVerificationToken(_ context.Context, userID string) (string, error) {
	token := uuid.NewString()
	f.verifications = map[string]string{token: userID}
	return token, nil
}

func (f *fakeBackend) IssueResetToken(_ context.Context, userID string) (string, error) {
	user, ok := f.users[userID]
	if !ok || !user.Verified {
		return "", appErr.ErrNotFound
	}
	token := uuid.NewString()
	f.resets = map[string]string{token: userID}
	return token, nil
}

func (f *fakeBackend) ConsumeVerificationToken(_ context.Context, token string) (string, error) {
	userID, ok := f.verifications[token]
	if !ok {
		return "", appErr.ErrNotFound
	}
	delete(f.verifications, token)
	f.users[userID].Verified = true
	return userID, nil
}

func (f *fakeBackend) ResetTokenExists(_ context.Context, token string) (bool, error) {
	_, ok := f.resets[token]
	return ok, nil
}

func (f *fakeBackend) ConsumeResetToken(_ context.Context, token string, hash string) error {
	userID, ok := f.resets[token]
	if !ok {
		return appErr.ErrNotFound
	}
	delete(f.resets, token)
	f.users[userID].PasswordHash = hash
	return nil
}

func (f *fakeBackend) DeleteExpiredTokens(context.Context) (int64, error) { return 0, nil }

func (f *fakeBackend) SendVerification(_ context.Context, _ string, token string) error {
	f.sentTokens = append(f.sentTokens, token)
	return nil
}

func (f *fakeBackend) SendPasswordReset(_ context.Context, _ string, token string) error {
	f.sentTokens = append(f.sentTokens, token)
	return nil
}

func (f *fakeBackend) ListCourses(context.Context) ([]*model.Course, error)     { return nil, nil }
func (f *fakeBackend) ListLinkTypes(context.Context) ([]*model.LinkType, error) { return nil, nil }
func (f *fakeBackend) CourseExists(context.Context, int64) (bool, error)        { return true, nil }

type nullStore struct{}

func (nullStore) Type() string { return "null" }
func (nullStore) Save(context.Context, string, filestore.ReadSeekCloser, int64) error {
	return nil
}
func (nullStore) Open(context.Context, string) (io.ReadCloser, error) {
	return nil, fmt.Errorf("not found")
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeBackend) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	backend := newFakeBackend()

	sessionCfg := middleware.SessionConfig{
		Secret:     []byte("handler-test-secret"),
		CookieName: "token",
		MaxAge:     time.Hour,
	}
	authService := service.NewAuthService(backend, backend, backend)
	userService := service.NewUserService(backend, backend, nullStore{}, 1<<20)

	router := gin.New()
	api := router.Group("/api/v1")
	RegisterRoutes(api, RouterDeps{
		Auth:       NewAuthHandler(authService, sessionCfg),
		Users:      NewUserHandler(userService),
		References: NewReferenceHandler(service.NewReferenceService(backend)),
		Files:      NewFileHandler(nullStore{}),
		Session:    sessionCfg,
		Checker:    authService,
	})
	return router, backend
}

func doJSON(t *testing.T, router *gin.Engine, method string, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	// bad student id
	w := doJSON(t, router, "POST", "/api/v1/auth/register", gin.H{
		"student_id": "12ab567", "password": "secret1", "confirm_password": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// mismatched confirmation
	w = doJSON(t, router, "POST", "/api/v1/auth/register", gin.H{
		"student_id": "1234567", "password": "secret1", "confirm_password": "secret2",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// password too short
	w = doJSON(t, router, "POST", "/api/v1/auth/register", gin.H{
		"student_id": "1234567", "password": "abcd", "confirm_password": "abcd",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterLoginFlow(t *testing.T) {
	router, backend := newTestRouter(t)
	payload := gin.H{"student_id": "1234567", "password": "secret1", "confirm_password": "secret1"}

	w := doJSON(t, router, "POST", "/api/v1/auth/register", payload)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, backend.sentTokens, 1)

	w = doJSON(t, router, "POST", "/api/v1/auth/register", payload)
	require.Equal(t, http.StatusConflict, w.Code)

	login := gin.H{"student_id": "1234567", "password": "secret1"}

	// unverified login re-sends a token and still fails
	w = doJSON(t, router, "POST", "/api/v1/auth/login", login)
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Len(t, backend.sentTokens, 2)

	w = doJSON(t, router, "POST", "/api/v1/auth/validate-user/"+backend.sentTokens[1], nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/auth/login", login)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "token", cookies[0].Name)
	require.NotEmpty(t, cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)

	// wrong password stays a 401
	w = doJSON(t, router, "POST", "/api/v1/auth/login", gin.H{"student_id": "1234567", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// cookie opens the protected surface
	w = doJSON(t, router, "GET", "/api/v1/user/profile", nil, cookies[0])
	require.Equal(t, http.StatusOK, w.Code)

	// logout clears it
	w = doJSON(t, router, "POST", "/api/v1/auth/logout", nil, cookies[0])
	require.Equal(t, http.StatusOK, w.Code)
	logoutCookies := w.Result().Cookies()
	require.Len(t, logoutCookies, 1)
	require.Empty(t, logoutCookies[0].Value)
	require.Negative(t, logoutCookies[0].MaxAge)
}

func TestProfileRequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, "GET", "/api/v1/user/profile", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestForgotAndResetPassword(t *testing.T) {
	router, backend := newTestRouter(t)

	// unknown account looks identical to a known one
	w := doJSON(t, router, "POST", "/api/v1/auth/forgot-password", gin.H{"student_id": "7654321"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, backend.sentTokens)

	register := gin.H{"student_id": "7654321", "password": "secret1", "confirm_password": "secret1"}
	doJSON(t, router, "POST", "/api/v1/auth/register", register)
	doJSON(t, router, "POST", "/api/v1/auth/validate-user/"+backend.sentTokens[0], nil)

	w = doJSON(t, router, "POST", "/api/v1/auth/forgot-password", gin.H{"student_id": "7654321"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, backend.sentTokens, 2)
	resetToken := backend.sentTokens[1]

	w = doJSON(t, router, "GET", "/api/v1/auth/reset-password/"+resetToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/auth/reset-password/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/auth/reset-password", gin.H{
		"token": resetToken, "password": "newpass1", "confirm_password": "newpass1",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// consumed token cannot be replayed
	w = doJSON(t, router, "POST", "/api/v1/auth/reset-password", gin.H{
		"token": resetToken, "password": "another1", "confirm_password": "another1",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "POST", "/api/v1/auth/login", gin.H{"student_id": "7654321", "password": "newpass1"})
	require.Equal(t, http.StatusOK, w.Code)
}
