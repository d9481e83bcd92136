package logger

import (
	"github.com/go-resty/resty/v2"
)

// LogRestyResponse is a resty OnAfterResponse hook that logs every API
// answer the client receives.
func LogRestyResponse(_ *resty.Client, resp *resty.Response) error {
	Log.Debugln(
		"api response",
		"method", resp.Request.Method,
		"url", resp.Request.URL,
		"request_id", resp.Request.Header.Get(RequestIDHeader),
		"status", resp.StatusCode(),
		"duration", resp.Time(),
		"size", resp.Size(),
	)

	return nil
}

// LogRestyError is a resty OnError hook for requests that never got an
// answer (connection refused, timeouts, cancelled contexts).
func LogRestyError(req *resty.Request, err error) {
	Log.Debugln(
		"api request failed",
		"method", req.Method,
		"url", req.URL,
		"request_id", req.Header.Get(RequestIDHeader),
		"error", err,
	)
}
