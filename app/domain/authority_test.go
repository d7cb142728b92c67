package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/online-language-learning-systems/user-service/app/utils/errors"
)

func TestExtractAuthorities(t *testing.T) {
	tests := []struct {
		name        string
		claims      map[string]interface{}
		expected    []string
		expectErr   bool
		errContains string
	}{
		{
			name: "maps realm roles to prefixed authorities",
			claims: map[string]interface{}{
				"realm_access": map[string]interface{}{
					"roles": []interface{}{"lecturer", "student"},
				},
			},
			expected: []string{"ROLE_lecturer", "ROLE_student"},
		},
		{
			name: "empty role list yields empty authorities",
			claims: map[string]interface{}{
				"realm_access": map[string]interface{}{
					"roles": []interface{}{},
				},
			},
			expected: []string{},
		},
		{
			name:        "missing realm_access claim",
			claims:      map[string]interface{}{"sub": "abc"},
			expectErr:   true,
			errContains: "realm_access claim missing",
		},
		{
			name: "realm_access is not an object",
			claims: map[string]interface{}{
				"realm_access": "bogus",
			},
			expectErr:   true,
			errContains: "not an object",
		},
		{
			name: "roles key missing",
			claims: map[string]interface{}{
				"realm_access": map[string]interface{}{},
			},
			expectErr:   true,
			errContains: "roles claim missing",
		},
		{
			name: "roles is not a list",
			claims: map[string]interface{}{
				"realm_access": map[string]interface{}{
					"roles": "admin",
				},
			},
			expectErr:   true,
			errContains: "not a list",
		},
		{
			name: "roles contains a non-string entry",
			claims: map[string]interface{}{
				"realm_access": map[string]interface{}{
					"roles": []interface{}{"admin", 42},
				},
			},
			expectErr:   true,
			errContains: "non-string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authorities, err := ExtractAuthorities(tt.claims)

			if tt.expectErr {
				require.Error(t, err)
				appErr, ok := apperrors.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperrors.ErrCodeMalformedClaims, appErr.Code,
					"malformed claims must surface as an authentication failure")
				assert.Contains(t, appErr.Details, tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, authorities)
		})
	}
}

func TestPrincipal_HasAnyRole(t *testing.T) {
	principal := NewPrincipal("sub-1", "alice", []string{"ROLE_student"})

	assert.True(t, principal.HasAnyRole("student"))
	assert.True(t, principal.HasAnyRole("lecturer", "student"))
	assert.False(t, principal.HasAnyRole("admin"))
	assert.False(t, principal.HasAnyRole())
}

func TestPrincipal_HasAuthority(t *testing.T) {
	principal := NewPrincipal("sub-1", "alice", []string{"ROLE_admin"})

	assert.True(t, principal.HasAuthority("ROLE_admin"))
	// Bare role names are not authorities.
	assert.False(t, principal.HasAuthority("admin"))
}
