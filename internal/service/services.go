package service

import (
	"github.com/dom/asset-vault-api/internal/repository"
)

type Services struct {
	Auth  *AuthService
	Asset *AssetService
}

func NewServices(repos *repository.Repositories) *Services {
	return &Services{
		Auth:  NewAuthService(repos.User, repos.Token),
		Asset: NewAssetService(repos.Asset),
	}
}
