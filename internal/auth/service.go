// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgeworks/makerspace-backend/internal/core"
	"github.com/forgeworks/makerspace-backend/internal/permission"
	"github.com/forgeworks/makerspace-backend/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
)

// UserProvider is the slice of the user service the auth flow needs.
type UserProvider interface {
	GetByCampusID(ctx context.Context, campusID string) (*user.User, error)
	GetByID(ctx context.Context, id string) (*user.User, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
	PermissionsFor(ctx context.Context, userID string) (permission.Set, error)
	DetailByID(ctx context.Context, id string) (*user.DetailResponse, error)
}

type Service struct {
	jwt   *JWTManager
	users UserProvider
}

func NewService(jwt *JWTManager, users UserProvider) *Service {
	return &Service{jwt: jwt, users: users}
}

// Login verifies credentials and mints an access token. Lookup misses
// still burn an argon2 verification so response timing does not leak
// which campus IDs exist.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*TokenResponse, error) {
	u, err := s.users.GetByCampusID(ctx, req.CampusID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		u.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.users.UpdatePasswordHash(ctx, u.ID, newHash)
	}

	perms, err := s.users.PermissionsFor(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve permissions: %w", err)
	}

	if perms.IsLockedOut() {
		return nil, ErrAccountDisabled
	}

	return s.mintToken(u)
}

// Refresh issues a fresh token for an already-authenticated caller,
// re-checking that the account still exists and is not locked out.
func (s *Service) Refresh(
	ctx context.Context,
	userID string,
) (*TokenResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	perms, err := s.users.PermissionsFor(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve permissions: %w", err)
	}

	if perms.IsLockedOut() {
		return nil, ErrAccountDisabled
	}

	return s.mintToken(u)
}

func (s *Service) Me(
	ctx context.Context,
	userID string,
) (*user.DetailResponse, error) {
	return s.users.DetailByID(ctx, userID)
}

func (s *Service) mintToken(u *user.User) (*TokenResponse, error) {
	data, err := s.jwt.CreateAccessToken(u.ID, u.CampusID)
	if err != nil {
		return nil, fmt.Errorf("create access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: data.Token,
		TokenType:   "Bearer",
		ExpiresAt:   data.ExpiresAt,
	}, nil
}
