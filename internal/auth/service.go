package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/linenflow/linenflow/internal/shared"
)

// TokenPair is the result of a successful login.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
}

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens TokenConfig
	now    func() time.Time
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens TokenConfig) *Service {
	return &Service{repo: repo, tokens: tokens, now: time.Now}
}

// Login validates credentials and issues an access/refresh token pair.
// The refresh token is persisted so it can be revoked server-side.
func (s *Service) Login(ctx context.Context, email, password string) (*User, TokenPair, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, TokenPair{}, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, TokenPair{}, shared.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, TokenPair{}, shared.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, TokenPair{}, err
	}
	user.LastLoginAt = &now

	access, err := s.tokens.NewAccessToken(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	refresh, err := s.tokens.NewRefreshToken(user)
	if err != nil {
		return nil, TokenPair{}, err
	}
	if err := s.repo.CreateRefreshToken(ctx, RefreshToken{
		ID:        "token-" + uuid.NewString(),
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: now.Add(s.tokens.RefreshTTL),
	}); err != nil {
		return nil, TokenPair{}, err
	}

	return user, TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(s.tokens.AccessTTL.Seconds()),
	}, nil
}

// Refresh exchanges a valid, unrevoked refresh token for a new access
// token. The persisted row is the source of truth: a token that
// verifies cryptographically but was revoked or purged is rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, shared.ErrUnauthorized
	}

	stored, err := s.repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return TokenPair{}, shared.ErrUnauthorized
	}
	now := s.now()
	if stored.RevokedAt != nil || now.After(stored.ExpiresAt) || stored.UserID != claims.Subject {
		return TokenPair{}, shared.ErrUnauthorized
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil || !user.IsActive {
		return TokenPair{}, shared.ErrUnauthorized
	}

	access, err := s.tokens.NewAccessToken(user)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken: access,
		ExpiresIn:   int(s.tokens.AccessTTL.Seconds()),
	}, nil
}

// Logout revokes the presented refresh token. Revoking an unknown
// token is not an error; logout is idempotent.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	err := s.repo.RevokeRefreshToken(ctx, refreshToken, s.now())
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	return err
}

// CurrentUser loads a fresh account record for the given subject.
func (s *Service) CurrentUser(ctx context.Context, userID string) (*User, error) {
	return s.repo.FindByID(ctx, userID)
}

// VerifyAccess validates an access token and loads its account. Used
// by the authentication middleware on every request.
func (s *Service) VerifyAccess(ctx context.Context, rawToken string) (*User, error) {
	claims, err := s.tokens.ParseAccessToken(rawToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, shared.ErrUnauthorized
	}
	return user, nil
}

// PurgeExpiredTokens deletes refresh tokens past their expiry or
// revocation. Invoked by the background worker on a schedule.
func (s *Service) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredRefreshTokens(ctx, s.now())
}
