// Package session holds the client-side authentication state: who is
// logged in, with which token, and whether an auth request is in flight.
//
// State changes only through Reduce, a pure function of the current state
// and one of five actions. Store wraps Reduce with the side effects a
// transition implies (persisting or erasing credentials) and hands out
// consistent snapshots to readers.
package session

import (
	"github.com/patric-chuzhbe/linkdash/internal/user"
)

// State is a snapshot of the session. The zero value is the logged-out
// default.
type State struct {
	User            *user.User
	Token           string
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// Action is one of Loading, LoginSuccess, Logout, AuthError and ClearError.
type Action interface {
	isAction()
}

// Loading marks an auth request as started (Active) or settled.
type Loading struct {
	Active bool
}

// LoginSuccess replaces the identity and token wholesale.
type LoginSuccess struct {
	User  user.User
	Token string
}

type Logout struct{}

type AuthError struct {
	Message string
}

type ClearError struct{}

func (Loading) isAction()      {}
func (LoginSuccess) isAction() {}
func (Logout) isAction()       {}
func (AuthError) isAction()    {}
func (ClearError) isAction()   {}

// Reduce computes the state that follows s after a. It never mutates s.
//
// A LoginSuccess without a token or without an identity is ignored so that
// Token, User and IsAuthenticated always agree.
func Reduce(s State, a Action) State {
	switch action := a.(type) {
	case Loading:
		s.IsLoading = action.Active

	case LoginSuccess:
		if action.Token == "" || action.User.IsZero() {
			return s
		}
		usr := action.User
		s.User = &usr
		s.Token = action.Token
		s.IsAuthenticated = true
		s.IsLoading = false
		s.Error = ""

	case Logout:
		s.User = nil
		s.Token = ""
		s.IsAuthenticated = false
		s.IsLoading = false

	case AuthError:
		s.Error = action.Message
		s.IsLoading = false

	case ClearError:
		s.Error = ""
	}

	return s
}

// Clone returns a copy of s that shares nothing with it.
func (s State) Clone() State {
	if s.User != nil {
		usr := *s.User
		s.User = &usr
	}

	return s
}
