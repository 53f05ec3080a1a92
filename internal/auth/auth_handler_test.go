package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	autherrors "hrms-payroll/internal/auth/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthService struct {
	loginErr error
	resp     AuthResponse
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	if s.loginErr != nil {
		return "", "", AuthResponse{}, s.loginErr
	}
	return "access-token", "refresh-token", s.resp, nil
}

func (s *stubAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	if refreshToken != "refresh-token" {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}
	return "new-access", "new-refresh", s.resp, nil
}

func (s *stubAuthService) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	if userID != s.resp.ID {
		return nil, autherrors.ErrUserNotFound
	}
	return &s.resp, nil
}

func (s *stubAuthService) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	return AuthResponse{Email: req.Email, Name: req.Name}, nil
}

func newAuthRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/login", NewHandler(svc).Login)
	router.POST("/auth/refresh", NewHandler(svc).RefreshToken)
	return router
}

func TestHandler_Login(t *testing.T) {
	svc := &stubAuthService{resp: AuthResponse{ID: "user-1", Email: "asha@acme.test", Role: "HR"}}
	router := newAuthRouter(svc)

	body, _ := json.Marshal(LoginRequest{Email: "asha@acme.test", Password: "s3cret99"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			AccessToken  string       `json:"access_token"`
			RefreshToken string       `json:"refresh_token"`
			User         AuthResponse `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access-token", resp.Data.AccessToken)
	assert.Equal(t, "asha@acme.test", resp.Data.User.Email)
}

func TestHandler_Login_SetsCookiesForWebClients(t *testing.T) {
	svc := &stubAuthService{resp: AuthResponse{ID: "user-1", Email: "asha@acme.test"}}
	router := newAuthRouter(svc)

	body, _ := json.Marshal(LoginRequest{Email: "asha@acme.test", Password: "s3cret99"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Type", "web")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	names := make(map[string]bool, len(cookies))
	for _, c := range cookies {
		names[c.Name] = true
	}
	assert.True(t, names["access_token"])
	assert.True(t, names["refresh_token"])
}

func TestHandler_Login_BadCredentials(t *testing.T) {
	svc := &stubAuthService{loginErr: errors.New("boom")}
	router := newAuthRouter(svc)

	body, _ := json.Marshal(LoginRequest{Email: "asha@acme.test", Password: "wrong"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_Login_MissingFields(t *testing.T) {
	router := newAuthRouter(&stubAuthService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(`{"email":"asha@acme.test"}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_RefreshToken_FromBody(t *testing.T) {
	svc := &stubAuthService{resp: AuthResponse{ID: "user-1", Email: "asha@acme.test"}}
	router := newAuthRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader([]byte(`{"refresh_token":"refresh-token"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-Type", "mobile")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
