package repository

import (
	"context"

	"github.com/dom/asset-vault-api/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	// CreateWithToken persists a new user together with their first session
	// token in one transaction, so a failed token insert never leaves an
	// account the caller has no credentials for.
	CreateWithToken(ctx context.Context, user *domain.User, token *domain.SessionToken) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type TokenRepository interface {
	Create(ctx context.Context, token *domain.SessionToken) error
	// GetActiveByHash resolves a token by its stored hash, skipping revoked
	// rows entirely.
	GetActiveByHash(ctx context.Context, hash string) (*domain.SessionToken, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	TouchLastUsed(ctx context.Context, id uuid.UUID) error
}

type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type Repositories struct {
	User  UserRepository
	Token TokenRepository
	Asset AssetRepository
}
