package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/user", r.URL.Path)
		require.Equal(t, "Bearer good-token", r.Header.Get("Authorization"))
		require.Equal(t, "service-key", r.Header.Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"u1","email":"steve@example.com","user_metadata":{"name":"Steve"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-key")
	id, err := c.VerifyToken(context.Background(), "good-token")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)
	assert.Equal(t, "steve@example.com", id.Email)
	assert.Equal(t, "Steve", id.Metadata.Name)
}

func TestVerifyTokenRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-key")
	_, err := c.VerifyToken(context.Background(), "bad-token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid or expired token")
}

func TestVerifyTokenEmptyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-key")
	_, err := c.VerifyToken(context.Background(), "token")
	assert.Error(t, err)
}

func TestListUsers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("page"))
		require.Equal(t, "50", r.URL.Query().Get("per_page"))
		require.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		w.Write([]byte(`{"users":[{"id":"u1"},{"id":"u2"}],"total":2}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-key")
	page, err := c.ListUsers(context.Background(), 1, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	require.Len(t, page.Users, 2)
	assert.Equal(t, "u1", page.Users[0].ID)
}

func TestListUsersClampsPaging(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "1", r.URL.Query().Get("page"))
		require.Equal(t, "50", r.URL.Query().Get("per_page"))
		w.Write([]byte(`{"users":[],"total":0}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-key")
	_, err := c.ListUsers(context.Background(), 0, 5000)
	require.NoError(t, err)
}
