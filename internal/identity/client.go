// Package identity talks to the external auth provider. The provider owns
// accounts and bearer tokens; this service only verifies tokens and reads
// the user directory, it never stores credentials.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Identity is an account as reported by the auth provider.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	Metadata  Metadata  `json:"user_metadata"`
}

// Metadata carries the provider-side profile fields this service reads.
type Metadata struct {
	Name string `json:"name"`
}

// UserPage is one page of the provider's user directory.
type UserPage struct {
	Users []Identity `json:"users"`
	Total int        `json:"total"`
}

// Client is an HTTP client for a GoTrue-style auth API.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient creates an identity client. serviceKey authorizes the admin
// directory endpoints; token verification uses the caller's own bearer token.
func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// VerifyToken resolves a bearer token to the identity it belongs to.
// Invalid or expired tokens come back as an error.
func (c *Client) VerifyToken(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("invalid or expired token")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	if id.ID == "" {
		return nil, fmt.Errorf("identity provider returned empty user id")
	}
	return &id, nil
}

// ListUsers fetches one page of the user directory. Pages are 1-based.
func (c *Client) ListUsers(ctx context.Context, page, perPage int) (*UserPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}

	endpoint := fmt.Sprintf("%s/auth/v1/admin/users?%s", c.baseURL, url.Values{
		"page":     []string{strconv.Itoa(page)},
		"per_page": []string{strconv.Itoa(perPage)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var pageData UserPage
	if err := json.NewDecoder(resp.Body).Decode(&pageData); err != nil {
		return nil, fmt.Errorf("decode user page: %w", err)
	}
	return &pageData, nil
}
