package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateUserInput_RequestedRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		expected string
	}{
		{name: "blank role falls back to default", role: "", expected: "student"},
		{name: "whitespace role falls back to default", role: "   ", expected: "student"},
		{name: "role is lower-cased", role: "Lecturer", expected: "lecturer"},
		{name: "already lower role passes through", role: "admin", expected: "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := &CreateUserInput{Role: tt.role}
			assert.Equal(t, tt.expected, input.RequestedRole())
		})
	}
}

func TestUserAccount_Projections(t *testing.T) {
	account := &UserAccount{
		ID:        "id-1",
		Username:  "alice",
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Liddell",
		Enabled:   true,
	}

	summary := account.Summary()
	assert.Equal(t, "id-1", summary.ID)
	assert.Equal(t, "alice", summary.Username)

	detail := account.Detail()
	assert.Equal(t, "alice@example.com", detail.Email)
	assert.Equal(t, "Alice", detail.FirstName)
	assert.Equal(t, "Liddell", detail.LastName)
}
