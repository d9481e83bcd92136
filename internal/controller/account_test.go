package controller

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/linkdash/internal/apiclient"
	"github.com/patric-chuzhbe/linkdash/internal/authservice"
	"github.com/patric-chuzhbe/linkdash/internal/models"
	"github.com/patric-chuzhbe/linkdash/internal/notify"
	"github.com/patric-chuzhbe/linkdash/internal/router"
)

func TestVerifyEmail(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.auth.On("VerifyEmail", mock.Anything, models.VerifyEmailRequest{Token: "tok"}).
			Return(&authservice.MessageResult{StatusCode: http.StatusOK, Message: "Email verified successfully"}, nil)

		message, err := f.controller.VerifyEmail(f.ctx, "tok")
		require.NoError(t, err)

		assert.Equal(t, "Email verified successfully", message)
		assert.Equal(t, []notify.Notification{
			{Level: notify.LevelSuccess, Message: "Email verified successfully"},
			{Level: notify.LevelInfo, Message: msgRedirectingToLogin},
		}, f.recorder.All())
		assert.Equal(t, router.PathLogin, f.router.Current().Path)
	})

	t.Run("missing token", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.controller.VerifyEmail(f.ctx, "")

		var formErr *FormError
		require.ErrorAs(t, err, &formErr)
		assert.Equal(t, msgInvalidVerificationLink, formErr.Message)
		f.auth.AssertNotCalled(t, "VerifyEmail", mock.Anything, mock.Anything)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newFixture(t)
		cause := &apiclient.ResponseError{StatusCode: http.StatusBadRequest, Message: "Invalid or expired verification token"}
		f.auth.On("VerifyEmail", mock.Anything, mock.Anything).Return(nil, cause)

		_, err := f.controller.VerifyEmail(f.ctx, "old")

		var formErr *FormError
		require.ErrorAs(t, err, &formErr)
		assert.Equal(t, "Invalid or expired verification token", formErr.Message)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, router.PathHome, f.router.Current().Path)
	})

	t.Run("unreachable API", func(t *testing.T) {
		f := newFixture(t)
		f.auth.On("VerifyEmail", mock.Anything, mock.Anything).Return(nil, apiclient.ErrTransport)

		_, err := f.controller.VerifyEmail(f.ctx, "tok")

		assert.EqualError(t, err, msgVerificationFailed)
	})
}

func TestForgotPassword(t *testing.T) {
	t.Run("known or unknown address gets the same answer", func(t *testing.T) {
		f := newFixture(t)
		f.auth.On("ForgotPassword", mock.Anything, models.ForgotPasswordRequest{Email: "ann@example.com"}).
			Return(&authservice.MessageResult{StatusCode: http.StatusOK, Message: "sent"}, nil)
		f.auth.On("ForgotPassword", mock.Anything, models.ForgotPasswordRequest{Email: "bob@example.com"}).
			Return(nil, &apiclient.ResponseError{StatusCode: http.StatusNotFound, Message: "User not found"})

		known, err := f.controller.ForgotPassword(f.ctx, "ann@example.com")
		require.NoError(t, err)
		unknown, err := f.controller.ForgotPassword(f.ctx, "bob@example.com")
		require.NoError(t, err)

		assert.Equal(t, msgResetLinkSent, known)
		assert.Equal(t, known, unknown)
		for _, n := range f.recorder.All() {
			assert.Equal(t, notify.Notification{Level: notify.LevelSuccess, Message: msgResetLinkSent}, n)
		}
	})

	t.Run("invalid address", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.controller.ForgotPassword(f.ctx, "ann")

		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
		f.auth.AssertNotCalled(t, "ForgotPassword", mock.Anything, mock.Anything)
	})
}

func TestResetPassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.auth.On("ResetPassword", mock.Anything, models.ResetPasswordRequest{Token: "tok", NewPassword: "secret2"}).
			Return(&authservice.MessageResult{StatusCode: http.StatusOK, Message: "Password reset successfully"}, nil)

		message, err := f.controller.ResetPassword(f.ctx, "tok", "secret2")
		require.NoError(t, err)

		assert.Equal(t, msgPasswordReset, message)
		assert.Equal(t, router.PathLogin, f.router.Current().Path)
	})

	t.Run("missing token", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.controller.ResetPassword(f.ctx, "", "secret2")

		assert.EqualError(t, err, msgMissingResetToken)
	})

	t.Run("short password", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.controller.ResetPassword(f.ctx, "tok", "123")

		var validationErr *models.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Fields, "newPassword")
	})

	t.Run("rejected token without message", func(t *testing.T) {
		f := newFixture(t)
		f.auth.On("ResetPassword", mock.Anything, mock.Anything).
			Return(nil, &apiclient.ResponseError{StatusCode: http.StatusBadRequest})

		_, err := f.controller.ResetPassword(f.ctx, "tok", "secret2")

		assert.EqualError(t, err, msgResetFailed)
		assert.Equal(t, notify.LevelError, f.lastNotification(t).Level)
	})
}
