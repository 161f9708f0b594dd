package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomstack/storefront-api/config"
	"github.com/ecomstack/storefront-api/internal/application"
	"github.com/ecomstack/storefront-api/internal/domain/entity"
	repo "github.com/ecomstack/storefront-api/internal/domain/repository"
	"github.com/ecomstack/storefront-api/internal/interface/middleware"
	"github.com/ecomstack/storefront-api/pkg/helpers"
	"github.com/ecomstack/storefront-api/pkg/validation"
)

type memUserRepo struct {
	seq   int
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]*entity.User{}} }

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, ex := range m.users {
		if strings.EqualFold(ex.Email, u.Email) {
			return repo.ErrDuplicateEmail
		}
	}
	m.seq++
	u.ID = "u-" + strconv.Itoa(m.seq)
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) GetByEmailAndAnswer(_ context.Context, email, answer string) (*entity.User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) && u.Answer == answer {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (m *memUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := m.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = passwordHash
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *memUserRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	users := newMemUserRepo()
	jwt := helpers.NewJWTManager("test-secret", 7*24*time.Hour)
	svc := application.NewAuthService(users, jwt, nil)
	cfg := &config.Config{AppName: "storefront-api", Env: "test"}
	h := NewAuthHandler(svc, nil, nil, nil, cfg)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/forgot-password", h.ForgotPassword)

	auth := api.Group("/auth")
	auth.Use(middleware.RequireSignIn(jwt))
	auth.GET("/user-auth", h.UserAuth)
	auth.PUT("/profile", h.UpdateProfile)

	admin := api.Group("/auth")
	admin.Use(middleware.RequireSignIn(jwt), middleware.RequireAdmin(users))
	admin.GET("/admin-auth", h.AdminAuth)

	return r, users
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func fullRegisterBody() map[string]string {
	return map[string]string{
		"name":     "Jane",
		"email":    "jane@example.com",
		"password": "secret123",
		"phone":    "0800",
		"address":  "1 Main St",
		"answer":   "blue",
	}
}

func TestRegisterValidationOrder(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		omit string
		want string
	}{
		{"name", "Name is required"},
		{"email", "Email is required"},
		{"password", "Password is required"},
		{"phone", "Phone number is required"},
		{"address", "Address is required"},
		{"answer", "Answer is required"},
	}
	for _, tc := range cases {
		t.Run(tc.omit, func(t *testing.T) {
			body := fullRegisterBody()
			delete(body, tc.omit)
			w := doJSON(t, r, http.MethodPost, "/api/auth/register", body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.want, decode(t, w)["message"])
		})
	}

	t.Run("first failure wins when several fields are missing", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/register", map[string]string{"email": "x@y.z"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Name is required", decode(t, w)["message"])
	})
}

func TestRegisterDuplicateAnswers200(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", fullRegisterBody(), "")
	require.Equal(t, http.StatusCreated, w.Code)
	out := decode(t, w)
	assert.Equal(t, true, out["success"])

	user, ok := out["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "jane@example.com", user["email"])
	// hash and security answer never leave the server
	_, hasPassword := user["password"]
	_, hasAnswer := user["answer"]
	assert.False(t, hasPassword)
	assert.False(t, hasAnswer)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", fullRegisterBody(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	out = decode(t, w)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Already registered, please login", out["message"])
}

func TestLoginContract(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", fullRegisterBody(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("missing fields answer 404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{"email": "jane@example.com"}, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Invalid email or password", decode(t, w)["message"])
	})

	t.Run("unknown email answers 404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "nobody@example.com", "password": "secret123",
		}, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Email is not registered", decode(t, w)["message"])
	})

	t.Run("wrong password answers 200 with success=false", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "jane@example.com", "password": "wrong",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		out := decode(t, w)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, "Invalid password", out["message"])
		_, hasToken := out["token"]
		assert.False(t, hasToken)
	})

	t.Run("success returns token and whitelisted user", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "jane@example.com", "password": "secret123",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		out := decode(t, w)
		assert.Equal(t, true, out["success"])
		assert.NotEmpty(t, out["token"])
		user := out["user"].(map[string]any)
		assert.Equal(t, "Jane", user["name"])
		_, hasPassword := user["password"]
		assert.False(t, hasPassword)
	})
}

func TestForgotPasswordFlow(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", fullRegisterBody(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("missing email short-circuits", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/forgot-password", map[string]string{
			"answer": "blue", "newPassword": "newpass",
		}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Email is required", decode(t, w)["message"])
	})

	t.Run("wrong answer answers 404", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/forgot-password", map[string]string{
			"email": "jane@example.com", "answer": "green", "newPassword": "newpass",
		}, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "Wrong email or answer", decode(t, w)["message"])
	})

	t.Run("reset rotates the password", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/api/auth/forgot-password", map[string]string{
			"email": "jane@example.com", "answer": "blue", "newPassword": "newpass",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "Password reset successfully", decode(t, w)["message"])

		w = doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "jane@example.com", "password": "secret123",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, decode(t, w)["success"])

		w = doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
			"email": "jane@example.com", "password": "newpass",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decode(t, w)["success"])
	})
}

func TestUpdateProfile(t *testing.T) {
	r, _ := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", fullRegisterBody(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "jane@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	t.Run("requires a token", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/auth/profile", map[string]string{"phone": "0900"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("short password rejected", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/auth/profile", map[string]string{"password": "ab"}, token)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Password should be at least 3 characters long", decode(t, w)["message"])
	})

	t.Run("partial update keeps stored values", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPut, "/api/auth/profile", map[string]string{"phone": "0900"}, token)
		assert.Equal(t, http.StatusOK, w.Code)
		out := decode(t, w)
		assert.Equal(t, "Profile updated successfully", out["message"])
		updated := out["updatedUser"].(map[string]any)
		assert.Equal(t, "0900", updated["phone"])
		assert.Equal(t, "Jane", updated["name"])
		assert.Equal(t, "1 Main St", updated["address"])
	})
}

func TestGuardEndpoints(t *testing.T) {
	r, users := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", fullRegisterBody(), "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "jane@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	t.Run("user-auth with bearer prefix", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/auth/user-auth", nil, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, decode(t, w)["ok"])
	})

	t.Run("admin-auth forbidden for regular user", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/api/auth/admin-auth", nil, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin-auth allowed after promotion", func(t *testing.T) {
		// role check reads the store, not the token
		for _, u := range users.users {
			u.Role = entity.RoleAdmin
		}
		w := doJSON(t, r, http.MethodGet, "/api/auth/admin-auth", nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
