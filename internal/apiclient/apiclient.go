// Package apiclient configures the resty client shared by the service
// clients and normalises API failures into Go errors.
package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/patric-chuzhbe/linkdash/internal/logger"
	"github.com/patric-chuzhbe/linkdash/internal/models"
)

// ErrTransport wraps failures where no HTTP answer was received.
var ErrTransport = errors.New("API is unreachable")

// ResponseError is an HTTP answer with a status the caller did not expect.
type ResponseError struct {
	StatusCode int

	// Message is the server-supplied `message`, if any.
	Message string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}

	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

type tokenSource interface {
	Token() string
}

type Client struct {
	resty *resty.Client
}

// New returns a client for the API at baseURL. When tokens yields a
// non-empty token it is sent as a bearer credential on every request.
func New(baseURL string, timeout time.Duration, tokens tokenSource) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json").
		OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			req.SetHeader(logger.RequestIDHeader, uuid.New().String())
			if tokens != nil {
				if token := tokens.Token(); token != "" {
					req.SetAuthToken(token)
				}
			}
			return nil
		}).
		OnAfterResponse(logger.LogRestyResponse).
		OnError(logger.LogRestyError)

	return &Client{resty: client}
}

// R starts a request bound to ctx.
func (c *Client) R(ctx context.Context) *resty.Request {
	return c.resty.R().SetContext(ctx)
}

// Check turns the outcome of a resty call into an error: ErrTransport
// when nothing was received, *ResponseError when the status is not one of
// expected (any 2xx when expected is empty).
func Check(resp *resty.Response, err error, expected ...int) error {
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	if statusExpected(resp.StatusCode(), expected) {
		return nil
	}

	return &ResponseError{
		StatusCode: resp.StatusCode(),
		Message:    serverMessage(resp.Body()),
	}
}

func statusExpected(status int, expected []int) bool {
	if len(expected) == 0 {
		return status >= http.StatusOK && status < http.StatusMultipleChoices
	}

	for _, code := range expected {
		if status == code {
			return true
		}
	}

	return false
}

func serverMessage(body []byte) string {
	var msg models.MessageResponse
	if err := json.Unmarshal(body, &msg); err != nil {
		return ""
	}

	return strings.TrimSpace(msg.Message)
}

// MessageOf returns the server-supplied message carried by err, if any.
func MessageOf(err error) string {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.Message
	}

	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode
	}

	return 0
}

func IsNotFound(err error) bool {
	return StatusOf(err) == http.StatusNotFound
}

// MessageOr returns the server message carried by err, or fallback.
func MessageOr(err error, fallback string) string {
	if msg := MessageOf(err); msg != "" {
		return msg
	}

	return fallback
}
