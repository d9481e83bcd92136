// Package router keeps the client's current view and moves between views,
// consulting the route guard on every navigation.
package router

import (
	"net/url"
	"sync"

	"github.com/patric-chuzhbe/linkdash/internal/routeguard"
)

const (
	PathHome           = "/"
	PathLogin          = "/login"
	PathSignup         = "/signup"
	PathForgotPassword = "/forgot-password"
	PathResetPassword  = "/auth/reset-password"
	PathVerifyEmail    = "/auth/verify-email"
	PathDashboard      = "/dashboard"
)

type Route struct {
	Path      string
	Title     string
	Protected bool
	GuestOnly bool
}

// NotFound is the view shown for paths missing from the route table.
var NotFound = Route{Title: "Not Found"}

// DefaultRoutes is the route table of the client.
func DefaultRoutes() []Route {
	return []Route{
		{Path: PathHome, Title: "Home"},
		{Path: PathLogin, Title: "Log in", GuestOnly: true},
		{Path: PathSignup, Title: "Sign up", GuestOnly: true},
		{Path: PathForgotPassword, Title: "Forgot password"},
		{Path: PathResetPassword, Title: "Reset password"},
		{Path: PathVerifyEmail, Title: "Verify email"},
		{Path: PathDashboard, Title: "Dashboard", Protected: true},
	}
}

// Location is where the client currently is.
type Location struct {
	Path  string
	Query url.Values
	Route Route
}

func (l Location) Found() bool {
	return l.Route.Path != ""
}

type authState interface {
	IsAuthenticated() bool
}

type Router struct {
	mu       sync.Mutex
	routes   map[string]Route
	guard    *routeguard.Guard
	auth     authState
	current  Location
	returnTo string
}

func New(auth authState, routes []Route) *Router {
	var protected, guestOnly []string
	table := make(map[string]Route, len(routes))
	for _, route := range routes {
		table[route.Path] = route
		if route.Protected {
			protected = append(protected, route.Path)
		}
		if route.GuestOnly {
			guestOnly = append(guestOnly, route.Path)
		}
	}

	r := &Router{
		routes: table,
		guard:  routeguard.New(PathLogin, PathDashboard, protected, guestOnly),
		auth:   auth,
	}
	r.current = r.locate(PathHome, nil)

	return r
}

// Navigate moves to target (a path with an optional query string) and
// returns where the client ended up. A protected target visited while
// logged out lands on the login view, and the target is remembered for
// TakeReturnPath until the client leaves the login view.
func (r *Router) Navigate(target string) Location {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, query := split(target)
	authenticated := r.auth.IsAuthenticated()

	decision := r.guard.Check(p, authenticated)
	if !decision.Allow {
		if decision.Redirect == PathLogin {
			r.returnTo = target
		}
		p, query = decision.Redirect, nil
	}
	if p != PathLogin {
		r.returnTo = ""
	}

	r.current = r.locate(p, query)

	return r.current
}

// TakeReturnPath hands out the path remembered by the last guard redirect,
// or fallback, and forgets it.
func (r *Router) TakeReturnPath(fallback string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	target := r.returnTo
	r.returnTo = ""
	if target == "" {
		return fallback
	}

	return target
}

func (r *Router) Current() Location {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current
}

func (r *Router) locate(p string, query url.Values) Location {
	route, found := r.routes[p]
	if !found {
		route = NotFound
	}
	if query == nil {
		query = url.Values{}
	}

	return Location{Path: p, Query: query, Route: route}
}

func split(target string) (string, url.Values) {
	parsed, err := url.Parse(target)
	if err != nil {
		return routeguard.Clean(target), url.Values{}
	}

	return routeguard.Clean(parsed.Path), parsed.Query()
}
