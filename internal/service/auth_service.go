package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dom/asset-vault-api/internal/domain"
	"github.com/dom/asset-vault-api/internal/logging"
	"github.com/dom/asset-vault-api/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// defaultTokenName labels every token issued through register and login.
const defaultTokenName = "auth-token"

type AuthService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository

	// dummyHash is compared against when login hits an unknown email, so the
	// miss path costs a bcrypt verification just like a wrong password.
	dummyHash []byte
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository) *AuthService {
	dummy, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on invalid cost, which DefaultCost never is.
		panic(fmt.Sprintf("generating dummy password hash: %v", err))
	}
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		dummyHash: dummy,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// AuthResult carries the authenticated user and the token plaintext. The
// plaintext is never persisted, so this is the only place a caller can read
// it.
type AuthResult struct {
	User  *domain.User
	Token string
}

func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)

	v := domain.NewValidationError()
	validateName(v, input.Name)
	validateEmail(v, input.Email)
	validatePassword(v, input.Password)
	if v.HasErrors() {
		return nil, v
	}

	// Pre-check so the common duplicate case reports a field error without
	// touching the constraint; the unique index backstops concurrent
	// registrations below.
	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		v.Add("email", "The email has already been taken.")
		return nil, v
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("checking email uniqueness: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	plaintext, token, err := s.newSessionToken(user.ID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.CreateWithToken(ctx, user, token); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			v.Add("email", "The email has already been taken.")
			return nil, v
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return &AuthResult{User: user, Token: plaintext}, nil
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	input.Email = normalizeEmail(input.Email)

	v := domain.NewValidationError()
	if input.Email == "" {
		v.Add("email", "The email field is required.")
	}
	if input.Password == "" {
		v.Add("password", "The password field is required.")
	}
	if v.HasErrors() {
		return nil, v
	}

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Burn a comparison so an unknown email takes as long as a
			// wrong password.
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(input.Password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	plaintext, token, err := s.newSessionToken(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("storing session token: %w", err)
	}

	return &AuthResult{User: user, Token: plaintext}, nil
}

// CurrentUser resolves a bearer token plaintext to its owner. Unknown,
// revoked and empty tokens all come back as ErrUnauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	record, err := s.resolveToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, record.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("loading token owner: %w", err)
	}

	// Best effort: a failed bookkeeping write must not kill the request.
	if err := s.tokenRepo.TouchLastUsed(ctx, record.ID); err != nil {
		logging.FromContext(ctx).Warn("updating token last_used_at",
			"token_id", record.ID, "error", err)
	}

	return user, nil
}

// Logout revokes the presented token only. Sessions on other devices stay
// live.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	record, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.tokenRepo.Revoke(ctx, record.ID); err != nil {
		return fmt.Errorf("revoking session token: %w", err)
	}
	return nil
}

// LogoutAll revokes every active token of the presented token's owner,
// including the presented one.
func (s *AuthService) LogoutAll(ctx context.Context, token string) error {
	record, err := s.resolveToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.tokenRepo.RevokeAllForUser(ctx, record.UserID); err != nil {
		return fmt.Errorf("revoking session tokens: %w", err)
	}
	return nil
}

func (s *AuthService) resolveToken(ctx context.Context, token string) (*domain.SessionToken, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	record, err := s.tokenRepo.GetActiveByHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolving session token: %w", err)
	}
	return record, nil
}

// newSessionToken mints a fresh opaque token for userID and returns the
// plaintext alongside the persistable record, which holds only the hash.
func (s *AuthService) newSessionToken(userID uuid.UUID) (string, *domain.SessionToken, error) {
	plaintext, err := GenerateToken()
	if err != nil {
		return "", nil, fmt.Errorf("generating session token: %w", err)
	}
	token := &domain.SessionToken{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      defaultTokenName,
		TokenHash: HashToken(plaintext),
		CreatedAt: time.Now().UTC(),
	}
	return plaintext, token, nil
}

// GenerateToken returns 256 bits from crypto/rand in hex form.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashToken derives the storable form of a token plaintext. SHA-256 keeps
// lookups deterministic, which bcrypt would not.
func HashToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(v *domain.ValidationError, name string) {
	if name == "" {
		v.Add("name", "The name field is required.")
		return
	}
	if utf8.RuneCountInString(name) > 255 {
		v.Add("name", "The name field must not be greater than 255 characters.")
	}
}

func validateEmail(v *domain.ValidationError, email string) {
	if email == "" {
		v.Add("email", "The email field is required.")
		return
	}
	if utf8.RuneCountInString(email) > 255 {
		v.Add("email", "The email field must not be greater than 255 characters.")
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		v.Add("email", "The email field must be a valid email address.")
	}
}

func validatePassword(v *domain.ValidationError, password string) {
	if password == "" {
		v.Add("password", "The password field is required.")
		return
	}
	if utf8.RuneCountInString(password) < 8 {
		v.Add("password", "The password field must be at least 8 characters.")
		return
	}
	// bcrypt rejects inputs past 72 bytes.
	if len(password) > 72 {
		v.Add("password", "The password field must not be greater than 72 characters.")
	}
}
