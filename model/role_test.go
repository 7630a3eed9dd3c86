package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range AssignableRoles {
		parsed, err := ParseRole(string(r))
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	_, err := ParseRole("manager")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRoleCanSubscribe(t *testing.T) {
	assert.True(t, RoleReader.CanSubscribe())
	assert.False(t, RoleEditor.CanSubscribe())
	assert.False(t, RoleJournalist.CanSubscribe())
}

func TestUserHasRole(t *testing.T) {
	u := User{Role: RoleEditor, IsManager: true}
	assert.True(t, u.HasRole(RoleEditor))
	assert.True(t, u.HasRole(RoleManager))
	assert.False(t, u.HasRole(RoleReader))
	assert.Equal(t, RoleManager, u.PrimaryRole())

	u.IsManager = false
	assert.False(t, u.HasRole(RoleManager))
	assert.Equal(t, RoleEditor, u.PrimaryRole())
}
