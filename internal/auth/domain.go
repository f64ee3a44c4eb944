package auth

import "time"

// Role tags a principal with its permission grouping. The set is closed per
// deployment but the authorization engine never switches on concrete values.
type Role string

const (
	RoleStudent Role = "STUDENT"
	RoleParent  Role = "PARENT"
)

// Principal describes the authenticated actor for the lifetime of one
// request. It is built fresh by the Resolver and never persisted.
type Principal struct {
	ID              string
	Email           string
	Role            Role
	LinkedStudentID string
}

// Identity is a user account row in the identity store.
type Identity struct {
	ID              string
	Email           string
	PasswordHash    string
	Role            Role
	LinkedStudentID string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Principal converts a stored identity into a request principal.
func (i *Identity) Principal() *Principal {
	return &Principal{
		ID:              i.ID,
		Email:           i.Email,
		Role:            i.Role,
		LinkedStudentID: i.LinkedStudentID,
	}
}
