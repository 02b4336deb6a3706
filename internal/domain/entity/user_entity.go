package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// AvatarKey points at the object held by the avatar store; it is empty
// when no avatar has been uploaded. Keeping the pointer consistent with
// the store is the caller's job, not the repository's.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarKey string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
