package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"mc-exchange-api/internal/cache"
	"mc-exchange-api/internal/identity"
	"mc-exchange-api/internal/model"
	"mc-exchange-api/internal/repository"
)

// tokenCacheTTL bounds how long a verified token skips the identity
// provider round trip. Short on purpose: revocation should bite quickly.
const tokenCacheTTL = 60 * time.Second

// TokenVerifier resolves bearer tokens to identities. Implemented by
// identity.Client.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*identity.Identity, error)
	ListUsers(ctx context.Context, page, perPage int) (*identity.UserPage, error)
}

// AuthService verifies bearer tokens against the external identity provider
// and attaches the locally stored role. Verified tokens are cached briefly.
type AuthService struct {
	verifier TokenVerifier
	users    repository.UserRepository
	cache    cache.Cache
}

// NewAuthService creates a new auth service. users may be nil (accounts DB
// not configured), in which case every caller gets role "other" and admin
// endpoints are effectively closed.
func NewAuthService(verifier TokenVerifier, users repository.UserRepository, c cache.Cache) *AuthService {
	return &AuthService{
		verifier: verifier,
		users:    users,
		cache:    c,
	}
}

func tokenCacheKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:token:" + hex.EncodeToString(sum[:])
}

// Authenticate resolves a bearer token to the calling user, or fails for
// invalid/expired tokens.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.AuthUser, error) {
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}

	key := tokenCacheKey(token)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var user model.AuthUser
			if err := json.Unmarshal(data, &user); err == nil {
				return &user, nil
			}
		}
	}

	id, err := s.verifier.VerifyToken(ctx, token)
	if err != nil {
		return nil, err
	}

	role := model.RoleOther
	if s.users != nil {
		if r, err := s.users.GetRole(ctx, id.ID); err == nil {
			role = r
		}
	}

	user := &model.AuthUser{
		ID:    id.ID,
		Email: id.Email,
		Name:  id.Metadata.Name,
		Role:  role,
	}

	if s.cache != nil {
		if data, err := json.Marshal(user); err == nil {
			_ = s.cache.Set(ctx, key, data, tokenCacheTTL)
		}
	}

	return user, nil
}

// ListUsers returns one page of the identity provider's directory, merged
// with locally stored roles.
func (s *AuthService) ListUsers(ctx context.Context, page, perPage int) ([]model.User, int, error) {
	dir, err := s.verifier.ListUsers(ctx, page, perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	ids := make([]string, len(dir.Users))
	for i, u := range dir.Users {
		ids[i] = u.ID
	}

	roles := map[string]string{}
	if s.users != nil {
		if r, err := s.users.GetRoles(ctx, ids); err == nil {
			roles = r
		}
	}

	users := make([]model.User, len(dir.Users))
	for i, u := range dir.Users {
		role, ok := roles[u.ID]
		if !ok {
			role = model.RoleOther
		}
		users[i] = model.User{
			ID:        u.ID,
			Email:     u.Email,
			Name:      u.Metadata.Name,
			Role:      role,
			CreatedAt: u.CreatedAt,
		}
	}
	return users, dir.Total, nil
}

// SetRole stores a role for a user id. Only known roles are accepted.
func (s *AuthService) SetRole(ctx context.Context, userID, role string) error {
	if role != model.RoleAdmin && role != model.RoleOther {
		return fmt.Errorf("unknown role: %s", role)
	}
	if s.users == nil {
		return fmt.Errorf("accounts database not configured")
	}
	return s.users.SetRole(ctx, userID, role)
}

// UserName returns the stored display name for a user id.
func (s *AuthService) UserName(ctx context.Context, userID string) (string, error) {
	if s.users == nil {
		return "", fmt.Errorf("accounts database not configured")
	}
	return s.users.GetName(ctx, userID)
}
