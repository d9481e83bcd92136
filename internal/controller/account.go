package controller

import (
	"context"

	"github.com/patric-chuzhbe/linkdash/internal/apiclient"
	"github.com/patric-chuzhbe/linkdash/internal/logger"
	"github.com/patric-chuzhbe/linkdash/internal/models"
	"github.com/patric-chuzhbe/linkdash/internal/router"
)

// VerifyEmail confirms the address of a freshly signed-up account with
// the token from the verification link, then moves to the login view.
func (c *Controller) VerifyEmail(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", &FormError{Message: msgInvalidVerificationLink}
	}

	result, err := c.auth.VerifyEmail(ctx, models.VerifyEmailRequest{Token: token})
	if err != nil {
		message := apiclient.MessageOr(err, msgVerificationFailed)
		c.notifier.Error(message)
		return "", &FormError{Message: message, Cause: err}
	}

	c.notifier.Success(result.Message)
	c.notifier.Info(msgRedirectingToLogin)
	c.nav.Navigate(router.PathLogin)

	return result.Message, nil
}

// ForgotPassword requests a reset link. The answer never reveals whether
// the address is known, so API failures are only logged.
func (c *Controller) ForgotPassword(ctx context.Context, email string) (string, error) {
	request := models.ForgotPasswordRequest{Email: email}
	if err := models.Validate(request); err != nil {
		return "", err
	}

	if _, err := c.auth.ForgotPassword(ctx, request); err != nil {
		logger.Log.Debugln("forgot-password request failed", "error", err)
	}

	c.notifier.Success(msgResetLinkSent)

	return msgResetLinkSent, nil
}

// ResetPassword sets a new password using the token from the reset link,
// then moves to the login view.
func (c *Controller) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	if token == "" {
		return "", &FormError{Message: msgMissingResetToken}
	}

	request := models.ResetPasswordRequest{Token: token, NewPassword: newPassword}
	if err := models.Validate(request); err != nil {
		return "", err
	}

	result, err := c.auth.ResetPassword(ctx, request)
	if err != nil {
		message := apiclient.MessageOr(err, msgResetFailed)
		c.notifier.Error(message)
		return "", &FormError{Message: message, Cause: err}
	}

	if result.Message != "" {
		c.notifier.Success(result.Message)
	}
	c.nav.Navigate(router.PathLogin)

	return msgPasswordReset, nil
}
