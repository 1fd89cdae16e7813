package postgres

import (
	"context"
	"time"

	"github.com/dom/asset-vault-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *tokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Create(ctx context.Context, token *domain.SessionToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepository) GetActiveByHash(ctx context.Context, hash string) (*domain.SessionToken, error) {
	var token domain.SessionToken
	err := r.db.WithContext(ctx).First(&token, "token_hash = ? AND revoked_at IS NULL", hash).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.SessionToken{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now().UTC()).Error
}

func (r *tokenRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.SessionToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", time.Now().UTC()).Error
}

func (r *tokenRepository) TouchLastUsed(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.SessionToken{}).
		Where("id = ?", id).
		Update("last_used_at", time.Now().UTC()).Error
}
