package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// fakeAdminChecker answers admin checks from a set
type fakeAdminChecker struct {
	admins map[int64]bool
}

func (f *fakeAdminChecker) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	return f.admins[userID], nil
}

func adminTestRouter(checker adminChecker, identity func(c *gin.Context)) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := &AuthMiddleware{authz: checker}
	router := gin.New()
	router.GET("/admin", identity, m.AdminRequired(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAdminRequired(t *testing.T) {
	checker := &fakeAdminChecker{admins: map[int64]bool{1: true}}

	t.Run("admin passes", func(t *testing.T) {
		router := adminTestRouter(checker, func(c *gin.Context) { c.Set("userID", int64(1)) })
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("non admin is forbidden regardless of token claims", func(t *testing.T) {
		router := adminTestRouter(checker, func(c *gin.Context) {
			c.Set("userID", int64(2))
			c.Set("roleType", "ADMIN") // stale claim, the store decides
		})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing identity is unauthorized", func(t *testing.T) {
		router := adminTestRouter(checker, func(c *gin.Context) {})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
