package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/deniz/communityevents/internal/app/models/dto"
)

// stubAuthService records which users logged out everywhere
type stubAuthService struct {
	loggedOutAll []int64
}

func (s *stubAuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	return nil, nil
}

func (s *stubAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	return nil, nil
}

func (s *stubAuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	return nil, nil
}

func (s *stubAuthService) Logout(ctx context.Context, refreshToken string) error {
	return nil
}

func (s *stubAuthService) LogoutAll(ctx context.Context, userID int64) error {
	s.loggedOutAll = append(s.loggedOutAll, userID)
	return nil
}

func TestLogoutAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubAuthService{}
	controller := NewAuthController(svc)

	router := gin.New()
	router.POST("/auth/logout-all",
		func(c *gin.Context) { c.Set("userID", int64(7)) },
		controller.LogoutAll,
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout-all", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int64{7}, svc.loggedOutAll)
}

func TestLogoutAllWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubAuthService{}
	controller := NewAuthController(svc)

	router := gin.New()
	router.POST("/auth/logout-all", controller.LogoutAll)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout-all", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, svc.loggedOutAll)
}
