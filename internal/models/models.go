// Package models holds the request and response records exchanged with the
// shortening API, along with the client-side validation rules applied to
// form input before any request is sent.
package models

import (
	"time"

	"github.com/patric-chuzhbe/linkdash/internal/user"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type CreateURLRequest struct {
	OriginalURL string `json:"originalUrl" validate:"required,url"`
	CustomAlias string `json:"customAlias,omitempty" validate:"omitempty,alphanum,min=3,max=30"`
}

// MessageResponse is the smallest envelope the API answers with.
// Error bodies use it as well.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthPayload is the `data` object of the auth endpoints: the account
// fields plus, for log-in, the issued token.
type AuthPayload struct {
	user.User
	Token string `json:"token,omitempty"`
}

// AuthResponse accepts both shapes the API is known to use for log-in:
// the token inside `data`, or top-level `token` and `user` fields.
type AuthResponse struct {
	Message string       `json:"message"`
	Data    *AuthPayload `json:"data,omitempty"`
	Token   string       `json:"token,omitempty"`
	User    *user.User   `json:"user,omitempty"`
}

// Credentials extracts the account and token from whichever shape was sent.
// The returned user is nil when the response carries no account.
func (r *AuthResponse) Credentials() (*user.User, string) {
	var (
		usr   *user.User
		token = r.Token
	)

	if r.User != nil && !r.User.IsZero() {
		usr = r.User
	}

	if r.Data != nil {
		if usr == nil && !r.Data.User.IsZero() {
			dataUser := r.Data.User
			usr = &dataUser
		}
		if token == "" {
			token = r.Data.Token
		}
	}

	return usr, token
}

// ShortURL is a shortened link as owned by the API.
type ShortURL struct {
	ID          string    `json:"_id"`
	OriginalURL string    `json:"originalUrl"`
	ShortID     string    `json:"shortId"`
	ShortURL    string    `json:"shortUrl,omitempty"`
	Clicks      int       `json:"clicks,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"`
}

type URLListResponse struct {
	Message string     `json:"message"`
	Data    []ShortURL `json:"data"`
}

type ShortURLResponse struct {
	Message string   `json:"message"`
	Data    ShortURL `json:"data"`
}

const (
	StorageTypeUnknown = iota
	StorageTypeSQLite
	StorageTypeFile
	StorageTypeMemory
)
