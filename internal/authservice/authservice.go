// Package authservice performs the account operations of the shortening
// API: sign-up, log-in, email verification and password reset.
package authservice

import (
	"context"

	"github.com/patric-chuzhbe/linkdash/internal/apiclient"
	"github.com/patric-chuzhbe/linkdash/internal/models"
	"github.com/patric-chuzhbe/linkdash/internal/user"
)

// AuthResult is the normalised answer of sign-up and log-in.
type AuthResult struct {
	StatusCode int
	Message    string

	// User is nil when the answer carried no account.
	User *user.User

	// Token is empty for sign-up.
	Token string
}

// MessageResult is the normalised answer of the message-only endpoints.
type MessageResult struct {
	StatusCode int
	Message    string
}

type Service struct {
	client *apiclient.Client
}

func New(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// Signup registers an account. The API answers 201 on success.
func (s *Service) Signup(ctx context.Context, request models.SignupRequest) (*AuthResult, error) {
	return s.authenticate(ctx, "/auth/sign-up", request)
}

// Login exchanges credentials for a token. The API answers 200 on success.
func (s *Service) Login(ctx context.Context, request models.LoginRequest) (*AuthResult, error) {
	return s.authenticate(ctx, "/auth/log-in", request)
}

func (s *Service) authenticate(ctx context.Context, path string, body interface{}) (*AuthResult, error) {
	result := &models.AuthResponse{}
	resp, err := s.client.R(ctx).
		SetBody(body).
		SetResult(result).
		Post(path)
	if err := apiclient.Check(resp, err); err != nil {
		return nil, err
	}

	usr, token := result.Credentials()

	return &AuthResult{
		StatusCode: resp.StatusCode(),
		Message:    result.Message,
		User:       usr,
		Token:      token,
	}, nil
}

func (s *Service) VerifyEmail(ctx context.Context, request models.VerifyEmailRequest) (*MessageResult, error) {
	return s.post(ctx, "/auth/verify-email", request)
}

// ForgotPassword asks for a reset link. The API answers the same way
// whether or not the address belongs to an account.
func (s *Service) ForgotPassword(ctx context.Context, request models.ForgotPasswordRequest) (*MessageResult, error) {
	return s.post(ctx, "/auth/forgot-password", request)
}

func (s *Service) ResetPassword(ctx context.Context, request models.ResetPasswordRequest) (*MessageResult, error) {
	return s.post(ctx, "/auth/reset-password", request)
}

func (s *Service) post(ctx context.Context, path string, body interface{}) (*MessageResult, error) {
	result := &models.MessageResponse{}
	resp, err := s.client.R(ctx).
		SetBody(body).
		SetResult(result).
		Post(path)
	if err := apiclient.Check(resp, err); err != nil {
		return nil, err
	}

	return &MessageResult{
		StatusCode: resp.StatusCode(),
		Message:    result.Message,
	}, nil
}
