package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomstack/storefront-api/internal/domain/entity"
	repo "github.com/ecomstack/storefront-api/internal/domain/repository"
	"github.com/ecomstack/storefront-api/pkg/helpers"
)

type stubUserRepo struct {
	users map[string]*entity.User
}

func (s *stubUserRepo) Create(context.Context, *entity.User) error { return nil }
func (s *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, repo.ErrNotFound
}
func (s *stubUserRepo) GetByEmail(context.Context, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}
func (s *stubUserRepo) GetByEmailAndAnswer(context.Context, string, string) (*entity.User, error) {
	return nil, repo.ErrNotFound
}
func (s *stubUserRepo) Update(context.Context, *entity.User) error         { return nil }
func (s *stubUserRepo) UpdatePassword(context.Context, string, string) error { return nil }

func serve(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSignIn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)

	invoked := false
	r := gin.New()
	r.GET("/protected", RequireSignIn(jwt), func(c *gin.Context) {
		invoked = true
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString(CtxUserIDKey)})
	})

	t.Run("no token", func(t *testing.T) {
		invoked = false
		w := serve(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, invoked, "handler must not run without a token")
	})

	t.Run("malformed token", func(t *testing.T) {
		invoked = false
		w := serve(r, "Bearer not.a.token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, invoked)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := helpers.NewJWTManager("test-secret", -time.Minute)
		token, _, err := expired.Generate("u-1")
		require.NoError(t, err)
		invoked = false
		w := serve(r, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, invoked)
	})

	t.Run("valid token sets user id", func(t *testing.T) {
		token, _, err := jwt.Generate("u-1")
		require.NoError(t, err)
		invoked = false
		w := serve(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, invoked)
		assert.Contains(t, w.Body.String(), "u-1")
	})
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	users := &stubUserRepo{users: map[string]*entity.User{
		"u-admin": {ID: "u-admin", Role: entity.RoleAdmin},
		"u-plain": {ID: "u-plain", Role: entity.RoleUser},
	}}

	r := gin.New()
	r.GET("/protected", RequireSignIn(jwt), RequireAdmin(users), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	t.Run("admin passes", func(t *testing.T) {
		token, _, err := jwt.Generate("u-admin")
		require.NoError(t, err)
		w := serve(r, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		token, _, err := jwt.Generate("u-plain")
		require.NoError(t, err)
		w := serve(r, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("token for a deleted user forbidden", func(t *testing.T) {
		token, _, err := jwt.Generate("u-gone")
		require.NoError(t, err)
		w := serve(r, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
