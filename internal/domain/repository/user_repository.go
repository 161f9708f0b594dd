package repository

import (
	"context"
	"errors"

	"github.com/ecomstack/storefront-api/internal/domain/entity"
)

// Sentinel errors shared by all repository implementations.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByEmailAndAnswer matches both the email and the stored
	// security-question answer (forgot-password flow).
	GetByEmailAndAnswer(ctx context.Context, email, answer string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}
