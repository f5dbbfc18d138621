package repository

import (
	"context"

	"github.com/lingomate/backend/internal/domain/entity"
)

// UpdateUserParams carries a partial update; nil fields are left untouched.
type UpdateUserParams struct {
	FullName         *string
	Bio              *string
	NativeLanguage   *string
	LearningLanguage *string
	Location         *string
	ProfilePic       *string
	IsOnboarded      *bool
}

// UserRepository defines the interface for user-related database operations.
// The store owns credential handling: Create hashes the plaintext password
// before persisting and VerifyPassword compares a candidate against the hash.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateByID(ctx context.Context, id string, p UpdateUserParams) (*entity.User, error)
	VerifyPassword(u *entity.User, candidate string) bool
}
