// Package controller runs the account flows: it validates form input,
// calls the auth API, drives the session store through its transitions,
// notifies the user and moves to the next view.
package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/patric-chuzhbe/linkdash/internal/apiclient"
	"github.com/patric-chuzhbe/linkdash/internal/authservice"
	"github.com/patric-chuzhbe/linkdash/internal/models"
	"github.com/patric-chuzhbe/linkdash/internal/notify"
	"github.com/patric-chuzhbe/linkdash/internal/router"
	"github.com/patric-chuzhbe/linkdash/internal/session"
)

const (
	msgLoginSucceeded     = "Logged in successfully"
	msgInvalidCredentials = "Invalid credentials"
	msgLoginFailed        = "Login failed"
	msgSignupSucceeded    = "Account created successfully! Please check your email to verify your account."
	msgSignupFailed       = "Signup failed"
	msgLoggedOut          = "Logged out successfully"

	msgInvalidVerificationLink = "Invalid verification link."
	msgVerificationFailed      = "Verification failed."
	msgRedirectingToLogin      = "Redirecting to login..."

	msgResetLinkSent = "If an account with this email exists, we have sent instructions to reset your password."

	msgMissingResetToken = "Invalid or missing token. Please request a new password reset link."
	msgPasswordReset     = "Your password has been reset successfully."
	msgResetFailed       = "There was an error resetting your password. The token may be invalid or expired."
)

// ErrMissingCredentials is returned when log-in succeeded but the answer
// carried no token or no account.
var ErrMissingCredentials = errors.New("log-in answer carries no credentials")

// FormError is a failure reported inside a view rather than through the
// session store.
type FormError struct {
	Message string
	Cause   error
}

func (e *FormError) Error() string {
	return e.Message
}

func (e *FormError) Unwrap() error {
	return e.Cause
}

type authClient interface {
	Signup(ctx context.Context, request models.SignupRequest) (*authservice.AuthResult, error)
	Login(ctx context.Context, request models.LoginRequest) (*authservice.AuthResult, error)
	VerifyEmail(ctx context.Context, request models.VerifyEmailRequest) (*authservice.MessageResult, error)
	ForgotPassword(ctx context.Context, request models.ForgotPasswordRequest) (*authservice.MessageResult, error)
	ResetPassword(ctx context.Context, request models.ResetPasswordRequest) (*authservice.MessageResult, error)
}

type navigator interface {
	Navigate(target string) router.Location
	TakeReturnPath(fallback string) string
}

type Controller struct {
	store    *session.Store
	auth     authClient
	notifier notify.Notifier
	nav      navigator
}

func New(
	store *session.Store,
	auth authClient,
	notifier notify.Notifier,
	nav navigator,
) *Controller {
	return &Controller{
		store:    store,
		auth:     auth,
		notifier: notifier,
		nav:      nav,
	}
}

// Login authenticates with email and password. Invalid input is returned
// as *models.ValidationError without touching the session. Otherwise the
// session ends authenticated or carrying an error message, and never
// loading.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	request := models.LoginRequest{Email: email, Password: password}
	if err := models.Validate(request); err != nil {
		return err
	}

	c.store.Dispatch(ctx, session.Loading{Active: true})
	defer c.settle(ctx)

	result, err := c.auth.Login(ctx, request)
	if err == nil && result.StatusCode != http.StatusOK {
		err = &apiclient.ResponseError{StatusCode: result.StatusCode, Message: result.Message}
	}
	if err == nil && (result.User == nil || result.Token == "") {
		err = ErrMissingCredentials
	}
	if err != nil {
		c.fail(ctx, failureMessage(err, msgInvalidCredentials, msgLoginFailed))
		return fmt.Errorf("login: %w", err)
	}

	c.store.Dispatch(ctx, session.LoginSuccess{User: *result.User, Token: result.Token})
	c.notifier.Success(msgLoginSucceeded)
	c.nav.Navigate(c.nav.TakeReturnPath(router.PathDashboard))

	return nil
}

// Signup registers an account. Success does not log the user in: the
// email has to be verified first, so the flow ends on the login view.
func (c *Controller) Signup(ctx context.Context, name, email, password string) error {
	request := models.SignupRequest{Name: name, Email: email, Password: password}
	if err := models.Validate(request); err != nil {
		return err
	}

	c.store.Dispatch(ctx, session.Loading{Active: true})
	defer c.settle(ctx)

	result, err := c.auth.Signup(ctx, request)
	if err == nil && result.StatusCode != http.StatusCreated {
		err = &apiclient.ResponseError{StatusCode: result.StatusCode, Message: result.Message}
	}
	if err != nil {
		c.fail(ctx, failureMessage(err, msgSignupFailed, msgSignupFailed))
		return fmt.Errorf("signup: %w", err)
	}

	c.store.Dispatch(ctx, session.ClearError{})
	c.notifier.Success(msgSignupSucceeded)
	c.nav.Navigate(router.PathLogin)

	return nil
}

// Logout forgets the session locally. No request is made.
func (c *Controller) Logout(ctx context.Context) {
	c.store.Dispatch(ctx, session.Logout{})
	c.notifier.Success(msgLoggedOut)
	c.nav.Navigate(router.PathLogin)
}

// ClearError dismisses the session error.
func (c *Controller) ClearError() {
	c.store.Dispatch(context.Background(), session.ClearError{})
}

func (c *Controller) fail(ctx context.Context, message string) {
	c.store.Dispatch(ctx, session.AuthError{Message: message})
	c.notifier.Error(message)
}

// settle guarantees the session is not left loading, whatever path the
// request took.
func (c *Controller) settle(ctx context.Context) {
	if c.store.Snapshot().IsLoading {
		c.store.Dispatch(ctx, session.Loading{Active: false})
	}
}

// failureMessage prefers the server's message, then rejected for an HTTP
// answer, then unreachable.
func failureMessage(err error, rejected, unreachable string) string {
	if msg := apiclient.MessageOf(err); msg != "" {
		return msg
	}

	if apiclient.StatusOf(err) != 0 {
		return rejected
	}

	return unreachable
}
