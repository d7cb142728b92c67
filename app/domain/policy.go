package domain

import (
	"strings"

	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
)

// policyRule authorizes one URL prefix class for a set of realm roles. An
// empty role set means any authenticated principal.
type policyRule struct {
	prefix string
	roles  []string
}

// AccessPolicy decides allow/deny from the request path and the caller's
// granted roles. It runs before the orchestrator so unauthorized callers
// never cause an identity provider call.
type AccessPolicy struct {
	rules []policyRule
}

// NewAccessPolicy builds the service's access policy: storefront resources
// are open to lecturers, students and admins; backoffice resources are
// admin-only; everything else only requires authentication.
func NewAccessPolicy() *AccessPolicy {
	return &AccessPolicy{
		rules: []policyRule{
			{prefix: "/storefront", roles: []string{RoleLecturer, RoleStudent, RoleAdmin}},
			{prefix: "/backoffice", roles: []string{RoleAdmin}},
		},
	}
}

// Authorize returns nil when the principal may access the given path. A nil
// principal fails as unauthenticated, a role mismatch as access denied.
func (p *AccessPolicy) Authorize(path string, principal *Principal) error {
	if principal == nil {
		return apperrors.NewUnauthenticated("no principal associated with request")
	}

	for _, rule := range p.rules {
		if !strings.HasPrefix(path, rule.prefix) {
			continue
		}
		if principal.HasAnyRole(rule.roles...) {
			return nil
		}
		return apperrors.NewAccessDenied("insufficient role for " + rule.prefix + " resources")
	}

	// No rule matched: any authenticated principal is allowed.
	return nil
}
