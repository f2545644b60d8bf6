// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/cinema/internal/platform/sec"
)

/*
TestParseRole checks the closed role set.
*/
func TestParseRole(t *testing.T) {
	role, err := sec.ParseRole("USER")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleUser, role)

	role, err = sec.ParseRole("ADMIN")
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, role)

	for _, raw := range []string{"", "user", "ROLE_ADMIN", "ROOT"} {
		_, err := sec.ParseRole(raw)
		assert.Error(t, err, raw)
		assert.False(t, sec.Role(raw).Valid())
	}
}

/*
TestAuthorize covers anonymous callers and exact role matching.
*/
func TestAuthorize(t *testing.T) {
	user := &sec.Identity{Subject: "a@b.com", Role: sec.RoleUser}
	admin := &sec.Identity{Subject: "root@b.com", Role: sec.RoleAdmin}

	tests := []struct {
		name     string
		identity *sec.Identity
		allowed  []sec.Role
		want     sec.Decision
	}{
		{"anonymous_denied", nil, []sec.Role{sec.RoleUser}, sec.DenyAnonymous},
		{"anonymous_denied_even_without_roles", nil, nil, sec.DenyAnonymous},
		{"user_on_user_action", user, []sec.Role{sec.RoleUser}, sec.Allow},
		{"user_on_admin_action", user, []sec.Role{sec.RoleAdmin}, sec.DenyRole},
		{"admin_on_user_only_action", admin, []sec.Role{sec.RoleUser}, sec.DenyRole},
		{"admin_on_admin_action", admin, []sec.Role{sec.RoleAdmin}, sec.Allow},
		{"admin_on_multi_role_action", admin, []sec.Role{sec.RoleUser, sec.RoleAdmin}, sec.Allow},
		{"no_roles_listed", user, nil, sec.DenyRole},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := sec.Authorize(tt.identity, tt.allowed...)
			assert.Equal(t, tt.want, decision, decision.String())
			assert.Equal(t, tt.want == sec.Allow, decision.Allowed())
		})
	}
}
