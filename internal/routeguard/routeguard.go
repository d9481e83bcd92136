// Package routeguard decides whether a view may be entered given the
// current authentication state.
package routeguard

import (
	"path"
	"strings"
)

// Decision is the outcome of a guard check. When Allow is false the
// caller must go to Redirect instead; From is the path that was asked for.
type Decision struct {
	Allow    bool
	Redirect string
	From     string
}

type Guard struct {
	loginPath string
	homePath  string
	protected []string
	guestOnly []string
}

// New returns a guard sending unauthenticated visitors of protected paths
// to loginPath and authenticated visitors of guest-only paths to homePath.
// A path covers itself and everything below it.
func New(loginPath, homePath string, protected, guestOnly []string) *Guard {
	return &Guard{
		loginPath: loginPath,
		homePath:  homePath,
		protected: protected,
		guestOnly: guestOnly,
	}
}

func (g *Guard) Check(target string, authenticated bool) Decision {
	p := Clean(target)

	if !authenticated && g.IsProtected(p) {
		return Decision{Redirect: g.loginPath, From: p}
	}

	if authenticated && covered(g.guestOnly, p) {
		return Decision{Redirect: g.homePath, From: p}
	}

	return Decision{Allow: true}
}

func (g *Guard) IsProtected(target string) bool {
	return covered(g.protected, Clean(target))
}

func covered(prefixes []string, p string) bool {
	for _, prefix := range prefixes {
		if p == prefix || strings.HasPrefix(p, strings.TrimRight(prefix, "/")+"/") {
			return true
		}
	}

	return false
}

// Clean normalises a view path, dropping any query string.
func Clean(target string) string {
	if i := strings.IndexAny(target, "?#"); i >= 0 {
		target = target[:i]
	}
	if !strings.HasPrefix(target, "/") {
		target = "/" + target
	}

	return path.Clean(target)
}
