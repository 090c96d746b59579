package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mc-exchange-api/internal/cache"
	"mc-exchange-api/internal/identity"
	"mc-exchange-api/internal/model"
)

type fakeVerifier struct {
	identities map[string]*identity.Identity
	page       *identity.UserPage
	calls      int
}

func (f *fakeVerifier) VerifyToken(ctx context.Context, token string) (*identity.Identity, error) {
	f.calls++
	if id, ok := f.identities[token]; ok {
		return id, nil
	}
	return nil, errors.New("invalid or expired token")
}

func (f *fakeVerifier) ListUsers(ctx context.Context, page, perPage int) (*identity.UserPage, error) {
	if f.page == nil {
		return nil, errors.New("directory unavailable")
	}
	return f.page, nil
}

type fakeUserRepo struct {
	roles map[string]string
	names map[string]string
}

func (f *fakeUserRepo) GetRole(ctx context.Context, userID string) (string, error) {
	if role, ok := f.roles[userID]; ok {
		return role, nil
	}
	return model.RoleOther, nil
}

func (f *fakeUserRepo) GetRoles(ctx context.Context, userIDs []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, id := range userIDs {
		if role, ok := f.roles[id]; ok {
			out[id] = role
		}
	}
	return out, nil
}

func (f *fakeUserRepo) SetRole(ctx context.Context, userID, role string) error {
	f.roles[userID] = role
	return nil
}

func (f *fakeUserRepo) GetName(ctx context.Context, userID string) (string, error) {
	if name, ok := f.names[userID]; ok {
		return name, nil
	}
	return "", errors.New("user not found")
}

func TestAuthenticateResolvesRole(t *testing.T) {
	verifier := &fakeVerifier{identities: map[string]*identity.Identity{
		"tok-admin": {ID: "u1", Email: "admin@example.com", Metadata: identity.Metadata{Name: "Admin"}},
	}}
	users := &fakeUserRepo{roles: map[string]string{"u1": model.RoleAdmin}}
	svc := NewAuthService(verifier, users, nil)

	user, err := svc.Authenticate(context.Background(), "tok-admin")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, model.RoleAdmin, user.Role)
	assert.True(t, user.IsAdmin())
}

func TestAuthenticateRejectsUnknownToken(t *testing.T) {
	svc := NewAuthService(&fakeVerifier{}, nil, nil)

	_, err := svc.Authenticate(context.Background(), "bogus")
	assert.Error(t, err)
}

func TestAuthenticateDefaultsRoleWithoutAccountsDB(t *testing.T) {
	verifier := &fakeVerifier{identities: map[string]*identity.Identity{
		"tok": {ID: "u1"},
	}}
	svc := NewAuthService(verifier, nil, nil)

	user, err := svc.Authenticate(context.Background(), "tok")
	require.NoError(t, err)
	assert.Equal(t, model.RoleOther, user.Role)
	assert.False(t, user.IsAdmin())
}

func TestAuthenticateCachesVerifiedTokens(t *testing.T) {
	verifier := &fakeVerifier{identities: map[string]*identity.Identity{
		"tok": {ID: "u1"},
	}}
	c := cache.NewMemoryCache()
	defer c.Close()
	svc := NewAuthService(verifier, nil, c)

	_, err := svc.Authenticate(context.Background(), "tok")
	require.NoError(t, err)
	_, err = svc.Authenticate(context.Background(), "tok")
	require.NoError(t, err)

	assert.Equal(t, 1, verifier.calls)
}

func TestListUsersMergesRoles(t *testing.T) {
	verifier := &fakeVerifier{page: &identity.UserPage{
		Users: []identity.Identity{
			{ID: "u1", Email: "a@example.com"},
			{ID: "u2", Email: "b@example.com"},
		},
		Total: 2,
	}}
	users := &fakeUserRepo{roles: map[string]string{"u1": model.RoleAdmin}}
	svc := NewAuthService(verifier, users, nil)

	list, total, err := svc.ListUsers(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, model.RoleAdmin, list[0].Role)
	assert.Equal(t, model.RoleOther, list[1].Role)
}

func TestSetRoleValidation(t *testing.T) {
	users := &fakeUserRepo{roles: map[string]string{}}
	svc := NewAuthService(&fakeVerifier{}, users, nil)

	require.NoError(t, svc.SetRole(context.Background(), "u1", model.RoleAdmin))
	assert.Equal(t, model.RoleAdmin, users.roles["u1"])

	assert.Error(t, svc.SetRole(context.Background(), "u1", "superuser"))
}
