package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/staffportal/backend/internal/privilege"
)

// Account is one user identity. PasswordHash never leaves the store
// boundary; responses go through the PublicAccount projection.
type Account struct {
	ID           uuid.UUID       `json:"id"`
	Email        string          `json:"email"`
	Username     string          `json:"username"`
	PasswordHash string          `json:"-"`
	Privilege    privilege.Level `json:"privileges"`
	Active       bool            `json:"active"`
	Roles        []string        `json:"roles"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Projection controls which optional fields the public view exposes.
// Which of privilege/roles a deployment returns is policy, not contract.
type Projection struct {
	IncludePrivilege bool
	IncludeRoles     bool
}

// PublicAccount is the client-safe view of an Account. It never carries
// the credential hash.
type PublicAccount struct {
	ID         uuid.UUID       `json:"id"`
	Email      string          `json:"email"`
	Username   string          `json:"username"`
	Privileges privilege.Level `json:"privileges,omitempty"`
	Active     bool            `json:"active"`
	Roles      []string        `json:"roles,omitempty"`
}

// Public projects an Account according to the given policy.
func Public(a *Account, p Projection) *PublicAccount {
	pub := &PublicAccount{
		ID:       a.ID,
		Email:    a.Email,
		Username: a.Username,
		Active:   a.Active,
	}
	if p.IncludePrivilege {
		pub.Privileges = a.Privilege
	}
	if p.IncludeRoles {
		pub.Roles = a.Roles
	}
	return pub
}
