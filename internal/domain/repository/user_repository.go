package repository

import (
	"context"

	"github.com/profilio/user-hub/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// SetAvatar records the avatar store key on the user row.
	SetAvatar(ctx context.Context, id, key string) error
	// ClearAvatar drops the avatar pointer. The file itself is owned by the
	// avatar store and removed separately.
	ClearAvatar(ctx context.Context, id string) error
}
