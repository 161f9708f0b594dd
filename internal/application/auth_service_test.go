package application

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecomstack/storefront-api/internal/domain/entity"
	repo "github.com/ecomstack/storefront-api/internal/domain/repository"
	"github.com/ecomstack/storefront-api/pkg/helpers"
)

// memUserRepo is an in-memory UserRepository for service tests.
type memUserRepo struct {
	seq   int
	users map[string]*entity.User // by id
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (m *memUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, ex := range m.users {
		if strings.EqualFold(ex.Email, u.Email) {
			return repo.ErrDuplicateEmail
		}
	}
	m.seq++
	u.ID = "u-" + strconv.Itoa(m.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
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
	cp.UpdatedAt = time.Now()
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	u, ok := m.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Password = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

func newAuthService(t *testing.T) (*AuthService, *memUserRepo) {
	t.Helper()
	users := newMemUserRepo()
	jwt := helpers.NewJWTManager("test-secret", 7*24*time.Hour)
	return NewAuthService(users, jwt, nil), users
}

func registerInput() RegisterInput {
	return RegisterInput{
		Name:     "Jane",
		Email:    "jane@example.com",
		Password: "secret123",
		Phone:    "0800",
		Address:  "1 Main St",
		Answer:   "blue",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, users := newAuthService(t)

	u, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	assert.Equal(t, entity.RoleUser, u.Role)

	stored, err := users.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.True(t, helpers.CompareHashAndPassword(stored.Password, "secret123"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerInput())
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	t.Run("success issues 7-day token", func(t *testing.T) {
		u, token, exp, err := svc.Login(ctx, "jane@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", u.Email)
		assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp, 5*time.Second)

		claims, err := svc.JWT.Parse(token)
		require.NoError(t, err)
		assert.Equal(t, u.ID, claims.UserID)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "jane@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestResetPasswordRotatesLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = svc.ResetPassword(ctx, "jane@example.com", "blue", "newpass")
	require.NoError(t, err)

	// Old password no longer works, the new one does.
	_, _, _, err = svc.Login(ctx, "jane@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, _, err = svc.Login(ctx, "jane@example.com", "newpass")
	assert.NoError(t, err)
}

func TestResetPasswordWrongAnswer(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, err = svc.ResetPassword(ctx, "jane@example.com", "green", "newpass")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	u, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	t.Run("partial update keeps stored values", func(t *testing.T) {
		out, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Phone: "0900"})
		require.NoError(t, err)
		assert.Equal(t, "0900", out.Phone)
		assert.Equal(t, "Jane", out.Name)
		assert.Equal(t, "1 Main St", out.Address)
	})

	t.Run("short password rejected", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Password: "ab"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("3-char password accepted and rehashed", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Password: "abc"})
		require.NoError(t, err)
		_, _, _, err = svc.Login(ctx, "jane@example.com", "abc")
		assert.NoError(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, "u-999", UpdateProfileInput{Name: "X"})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
