package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/asset-vault-api/internal/domain"
	"github.com/dom/asset-vault-api/internal/service"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     fmt.Sprintf("Test User %s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "testpassword123",
	}
}

// WithName sets the display name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns it with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// BuildWithToken creates the user plus one active session token directly in
// the database, returning the token plaintext alongside.
func (b *UserBuilder) BuildWithToken(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	user, _ := b.Build(t, db)
	return user, IssueToken(t, db, user.ID)
}

// IssueToken stores a fresh session token row for userID and returns the
// plaintext it was derived from.
func IssueToken(t *testing.T, db *gorm.DB, userID uuid.UUID) string {
	t.Helper()

	plaintext, err := service.GenerateToken()
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	token := &domain.SessionToken{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      "auth-token",
		TokenHash: service.HashToken(plaintext),
		CreatedAt: time.Now().UTC(),
	}
	if err := db.Create(token).Error; err != nil {
		t.Fatalf("failed to create session token: %v", err)
	}

	return plaintext
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
	Token string `json:"token"`
}

// ErrorResponse matches the API error envelopes
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

// BuildAndAuthenticate registers the user through the API and returns it with
// a live bearer token.
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"name":                  b.name,
		"email":                 b.email,
		"password":              b.password,
		"password_confirmation": b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.URL("/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, err := uuid.Parse(authResp.User.ID)
	if err != nil {
		t.Fatalf("failed to parse user id: %v", err)
	}
	user := &domain.User{
		ID:    userID,
		Name:  authResp.User.Name,
		Email: authResp.User.Email,
	}

	return user, authResp.Token
}

// AssetBuilder creates test assets with a builder pattern
type AssetBuilder struct {
	userID      uuid.UUID
	name        string
	description string
	category    string
	metadata    map[string]any
}

// NewAssetBuilder creates a new AssetBuilder with default values
func NewAssetBuilder() *AssetBuilder {
	return &AssetBuilder{
		name:        fmt.Sprintf("Test Asset %s", uuid.New().String()[:8]),
		description: "A test asset",
		category:    "electronics",
	}
}

// WithOwner sets the owning user
func (b *AssetBuilder) WithOwner(userID uuid.UUID) *AssetBuilder {
	b.userID = userID
	return b
}

// WithName sets the asset name
func (b *AssetBuilder) WithName(name string) *AssetBuilder {
	b.name = name
	return b
}

// WithCategory sets the asset category
func (b *AssetBuilder) WithCategory(category string) *AssetBuilder {
	b.category = category
	return b
}

// WithMetadata sets the free-form metadata
func (b *AssetBuilder) WithMetadata(metadata map[string]any) *AssetBuilder {
	b.metadata = metadata
	return b
}

// Build creates the asset in the database
func (b *AssetBuilder) Build(t *testing.T, db *gorm.DB) *domain.Asset {
	t.Helper()

	if b.userID == uuid.Nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.userID = user.ID
	}

	asset := &domain.Asset{
		ID:          uuid.New(),
		UserID:      b.userID,
		Name:        b.name,
		Description: b.description,
		Category:    b.category,
	}
	if b.metadata != nil {
		metaJSON, err := json.Marshal(b.metadata)
		if err != nil {
			t.Fatalf("failed to marshal metadata: %v", err)
		}
		asset.Metadata = datatypes.JSON(metaJSON)
	}

	if err := db.Create(asset).Error; err != nil {
		t.Fatalf("failed to create asset: %v", err)
	}

	return asset
}

// SeedAssets creates count assets owned by userID
func SeedAssets(t *testing.T, db *gorm.DB, userID uuid.UUID, count int) []*domain.Asset {
	t.Helper()

	assets := make([]*domain.Asset, count)
	for i := 0; i < count; i++ {
		assets[i] = NewAssetBuilder().
			WithOwner(userID).
			WithName(fmt.Sprintf("Seed Asset %d", i)).
			Build(t, db)
	}
	return assets
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// DoAuthenticatedRequest builds and executes a request, returning the response
func DoAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Response {
	t.Helper()

	req := CreateAuthenticatedRequest(t, method, url, body, token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
