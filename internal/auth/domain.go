package auth

import (
	"time"

	"github.com/linenflow/linenflow/internal/authz"
)

// User is the credential-bearing account record used during
// authentication. Authorization decisions consume the authz.User
// projection instead; PasswordHash never leaves this package.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Role         authz.Role
	BranchID     string
	BranchIDs    []string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// Identity projects the account onto the authorization core's user
// record.
func (u *User) Identity() authz.User {
	return authz.User{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        u.Role,
		BranchID:    u.BranchID,
		BranchIDs:   u.BranchIDs,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// RefreshToken is a persisted long-lived token. Revocation and expiry
// are checked server-side on every refresh.
type RefreshToken struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}
