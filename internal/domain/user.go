package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	Name            string         `json:"name" gorm:"size:255;not null"`
	Email           string         `json:"email" gorm:"size:255;not null;uniqueIndex:idx_users_email_active,where:deleted_at IS NULL"`
	PasswordHash    string         `json:"-" gorm:"not null"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// SessionToken is one issued bearer credential. The plaintext is handed to
// the client exactly once at issuance; only its SHA-256 digest is stored, so
// a leaked database cannot be replayed against the API. Revocation keeps the
// row around with RevokedAt set instead of deleting it.
type SessionToken struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primary_key"`
	UserID     uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Name       string     `json:"name" gorm:"size:255;not null"`
	TokenHash  string     `json:"-" gorm:"size:64;uniqueIndex;not null"`
	LastUsedAt *time.Time `json:"last_used_at"`
	RevokedAt  *time.Time `json:"revoked_at" gorm:"index"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Active reports whether the token can still authenticate requests.
func (t *SessionToken) Active() bool {
	return t.RevokedAt == nil
}
