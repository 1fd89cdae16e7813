package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dom/asset-vault-api/internal/domain"
	"github.com/dom/asset-vault-api/internal/repository"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AssetService manages a user's asset records. Every operation is scoped to
// the owner: records of other users behave exactly like missing ones.
type AssetService struct {
	assetRepo repository.AssetRepository
}

func NewAssetService(assetRepo repository.AssetRepository) *AssetService {
	return &AssetService{assetRepo: assetRepo}
}

type CreateAssetInput struct {
	Name        string
	Description string
	Category    string
	Metadata    datatypes.JSON
}

// UpdateAssetInput uses pointers so absent fields keep their stored values.
type UpdateAssetInput struct {
	Name        *string
	Description *string
	Category    *string
	Metadata    datatypes.JSON
}

func (s *AssetService) Create(ctx context.Context, userID uuid.UUID, input CreateAssetInput) (*domain.Asset, error) {
	input.Name = strings.TrimSpace(input.Name)

	v := domain.NewValidationError()
	validateName(v, input.Name)
	if v.HasErrors() {
		return nil, v
	}

	asset := &domain.Asset{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Metadata:    input.Metadata,
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}
	return asset, nil
}

func (s *AssetService) Get(ctx context.Context, userID, assetID uuid.UUID) (*domain.Asset, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAssetNotFound
		}
		return nil, fmt.Errorf("loading asset: %w", err)
	}
	if asset.UserID != userID {
		// Same error as a miss so callers cannot enumerate other users' records.
		return nil, domain.ErrAssetNotFound
	}
	return asset, nil
}

func (s *AssetService) List(ctx context.Context, userID uuid.UUID) ([]*domain.Asset, error) {
	assets, err := s.assetRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing assets: %w", err)
	}
	return assets, nil
}

func (s *AssetService) Update(ctx context.Context, userID, assetID uuid.UUID, input UpdateAssetInput) (*domain.Asset, error) {
	asset, err := s.Get(ctx, userID, assetID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		v := domain.NewValidationError()
		validateName(v, trimmed)
		if v.HasErrors() {
			return nil, v
		}
		asset.Name = trimmed
	}
	if input.Description != nil {
		asset.Description = *input.Description
	}
	if input.Category != nil {
		asset.Category = *input.Category
	}
	if input.Metadata != nil {
		asset.Metadata = input.Metadata
	}

	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("updating asset: %w", err)
	}
	return asset, nil
}

func (s *AssetService) Delete(ctx context.Context, userID, assetID uuid.UUID) error {
	asset, err := s.Get(ctx, userID, assetID)
	if err != nil {
		return err
	}
	if err := s.assetRepo.Delete(ctx, asset.ID); err != nil {
		return fmt.Errorf("deleting asset: %w", err)
	}
	return nil
}
