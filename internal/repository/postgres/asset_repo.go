package postgres

import (
	"context"

	"github.com/dom/asset-vault-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type assetRepository struct {
	db *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *assetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *assetRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Asset, error) {
	var asset domain.Asset
	err := r.db.WithContext(ctx).First(&asset, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Asset, error) {
	var assets []*domain.Asset
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&assets).Error
	if err != nil {
		return nil, err
	}
	return assets, nil
}

func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	return r.db.WithContext(ctx).Save(asset).Error
}

func (r *assetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Asset{}, "id = ?", id).Error
}
