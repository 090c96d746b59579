package model

import "time"

// User roles. Anything that is not admin is treated as "other";
// region ownership is tracked on the region itself, not the role.
const (
	RoleAdmin = "admin"
	RoleOther = "other"
)

// User is an identity-provider account enriched with the locally stored role.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// IsAdmin reports whether the user may hit admin-gated endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthUser is the verified caller attached to a request context.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the caller may hit admin-gated endpoints.
func (u *AuthUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}
