// Package mockservice provides testify mocks of the auth and URL API
// clients consumed by the controller and dashboard packages.
package mockservice

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/patric-chuzhbe/linkdash/internal/authservice"
	"github.com/patric-chuzhbe/linkdash/internal/models"
	"github.com/patric-chuzhbe/linkdash/internal/urlservice"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Signup(ctx context.Context, request models.SignupRequest) (*authservice.AuthResult, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).(*authservice.AuthResult)
	return result, args.Error(1)
}

func (m *AuthServiceMock) Login(ctx context.Context, request models.LoginRequest) (*authservice.AuthResult, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).(*authservice.AuthResult)
	return result, args.Error(1)
}

func (m *AuthServiceMock) VerifyEmail(ctx context.Context, request models.VerifyEmailRequest) (*authservice.MessageResult, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).(*authservice.MessageResult)
	return result, args.Error(1)
}

func (m *AuthServiceMock) ForgotPassword(ctx context.Context, request models.ForgotPasswordRequest) (*authservice.MessageResult, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).(*authservice.MessageResult)
	return result, args.Error(1)
}

func (m *AuthServiceMock) ResetPassword(ctx context.Context, request models.ResetPasswordRequest) (*authservice.MessageResult, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).(*authservice.MessageResult)
	return result, args.Error(1)
}

type URLServiceMock struct {
	mock.Mock
}

func (m *URLServiceMock) List(ctx context.Context) ([]models.ShortURL, error) {
	args := m.Called(ctx)
	links, _ := args.Get(0).([]models.ShortURL)
	return links, args.Error(1)
}

func (m *URLServiceMock) Create(ctx context.Context, request models.CreateURLRequest) (*urlservice.CreateResult, error) {
	args := m.Called(ctx, request)
	result, _ := args.Get(0).(*urlservice.CreateResult)
	return result, args.Error(1)
}

func (m *URLServiceMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
