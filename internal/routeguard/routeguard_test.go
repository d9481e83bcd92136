package routeguard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	guard := New("/login", "/dashboard", []string{"/dashboard"}, []string{"/login", "/signup"})

	tests := []struct {
		name          string
		target        string
		authenticated bool
		want          Decision
	}{
		{
			name:   "protected while logged out",
			target: "/dashboard",
			want:   Decision{Redirect: "/login", From: "/dashboard"},
		},
		{
			name:   "nested protected path keeps its origin",
			target: "/dashboard/links?page=2",
			want:   Decision{Redirect: "/login", From: "/dashboard/links"},
		},
		{
			name:          "protected while logged in",
			target:        "/dashboard",
			authenticated: true,
			want:          Decision{Allow: true},
		},
		{
			name:   "public path while logged out",
			target: "/auth/verify-email",
			want:   Decision{Allow: true},
		},
		{
			name:   "path sharing a prefix is not covered",
			target: "/dashboards",
			want:   Decision{Allow: true},
		},
		{
			name:          "guest-only while logged in",
			target:        "/login",
			authenticated: true,
			want:          Decision{Redirect: "/dashboard", From: "/login"},
		},
		{
			name:   "guest-only while logged out",
			target: "/signup",
			want:   Decision{Allow: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Check(tt.target, tt.authenticated))
		})
	}
}

func TestClean(t *testing.T) {
	assert.Equal(t, "/dashboard", Clean("dashboard"))
	assert.Equal(t, "/dashboard", Clean("/dashboard/"))
	assert.Equal(t, "/auth/reset-password", Clean("/auth/reset-password?token=abc"))
	assert.Equal(t, "/login", Clean("/login#top"))
	assert.Equal(t, "/", Clean(""))
}
