package domain

import (
	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
)

// Claim layout the realm puts role grants under, and the marker that turns a
// realm role into an authorization role literal.
const (
	RealmAccessClaim = "realm_access"
	RolesClaim       = "roles"
	AuthorityPrefix  = "ROLE_"
)

// Principal is the authenticated caller, built once per request from a
// verified token and discarded at request end.
type Principal struct {
	Subject     string
	Username    string
	Authorities []string
}

// NewPrincipal constructs a principal from verified token claims.
func NewPrincipal(subject, username string, authorities []string) *Principal {
	return &Principal{
		Subject:     subject,
		Username:    username,
		Authorities: authorities,
	}
}

// HasAuthority reports whether the principal holds the given authority.
func (p *Principal) HasAuthority(authority string) bool {
	for _, a := range p.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the principal holds any of the given realm
// roles. Roles are given bare; the authority prefix is applied here.
func (p *Principal) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if p.HasAuthority(AuthorityPrefix + role) {
			return true
		}
	}
	return false
}

// ExtractAuthorities locates realm_access.roles in a verified claim set and
// maps each role to an authorization authority. The claim path must exist and
// hold a list of strings; anything else means the token was not issued the
// way this realm issues tokens, which is an authentication failure, not an
// authorization one.
func ExtractAuthorities(claims map[string]interface{}) ([]string, error) {
	rawAccess, ok := claims[RealmAccessClaim]
	if !ok {
		return nil, apperrors.NewMalformedClaims("realm_access claim missing")
	}

	realmAccess, ok := rawAccess.(map[string]interface{})
	if !ok {
		return nil, apperrors.NewMalformedClaims("realm_access claim is not an object")
	}

	rawRoles, ok := realmAccess[RolesClaim]
	if !ok {
		return nil, apperrors.NewMalformedClaims("realm_access.roles claim missing")
	}

	roleList, ok := rawRoles.([]interface{})
	if !ok {
		return nil, apperrors.NewMalformedClaims("realm_access.roles is not a list")
	}

	authorities := make([]string, 0, len(roleList))
	for _, raw := range roleList {
		role, ok := raw.(string)
		if !ok {
			return nil, apperrors.NewMalformedClaims("realm_access.roles contains a non-string entry")
		}
		authorities = append(authorities, AuthorityPrefix+role)
	}

	return authorities, nil
}
