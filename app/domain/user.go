package domain

import (
	"strings"
)

// Realm roles known to the service. The realm may define more; these are the
// ones the access policy reasons about.
const (
	RoleAdmin    = "admin"
	RoleLecturer = "lecturer"
	RoleStudent  = "student"
)

// DefaultRole is assigned at registration when the caller does not request
// a role explicitly.
const DefaultRole = RoleStudent

// UserAccount mirrors a user record owned by the identity provider. The
// service never persists it; every instance is built from an IdP response or
// from request input on its way to the IdP.
type UserAccount struct {
	ID            string   `json:"id"`
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Enabled       bool     `json:"enabled"`
	EmailVerified bool     `json:"emailVerified"`
	RealmRoles    []string `json:"realmRoles,omitempty"`
}

// UserSummary is the projection returned by role-member listings.
type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserDetail is the full view returned by single-account lookups.
type UserDetail struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UserList wraps an ordered page of summaries.
type UserList struct {
	Users []UserSummary `json:"users"`
}

// CreateUserInput carries a registration request into the orchestrator.
// Password and PasswordConfirm are write-once and never logged.
type CreateUserInput struct {
	Username        string
	Password        string
	PasswordConfirm string
	Email           string
	Role            string
	FirstName       string
	LastName        string
}

// RequestedRole returns the role to assign at creation, lower-cased, falling
// back to the default role when the request left it blank.
func (in *CreateUserInput) RequestedRole() string {
	role := strings.TrimSpace(in.Role)
	if role == "" {
		return DefaultRole
	}
	return strings.ToLower(role)
}

// ProfileUpdateInput carries the mutable profile fields. Username and the
// enabled flag are deliberately absent; updates never touch them.
type ProfileUpdateInput struct {
	FirstName string
	LastName  string
	Email     string
}

// Summary projects an account to its listing shape.
func (a *UserAccount) Summary() UserSummary {
	return UserSummary{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}

// Detail projects an account to its detail shape.
func (a *UserAccount) Detail() UserDetail {
	return UserDetail{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
	}
}
