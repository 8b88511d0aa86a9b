package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrMissingToken is returned before any request is made when the
	// context carries no bearer token.
	ErrMissingToken = errors.New("api: missing bearer token")

	ErrEmptyResponse     = errors.New("api: empty response from server")
	ErrMalformedResponse = errors.New("api: invalid JSON response from server")
	ErrNoInput           = errors.New("api: a prompt, an image or an audio file is required")
	ErrAmbiguousInput    = errors.New("api: only one of prompt, image or audio may be sent")
)

// Error is a failure reported by the backend, either through a non-2xx
// status or a `success: false` envelope.
type Error struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.StatusCode)
}

// IsStatus reports whether err is a backend Error with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// errorFromResponse builds an Error from a non-2xx response. The backend
// sends `{ "message": ... }`; anything else falls back to the raw body.
func errorFromResponse(op, fallback string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		msg = body.Message
		if msg == "" {
			msg = body.Error
		}
	} else {
		msg = fmt.Sprintf("%s: %d %s", fallback, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if msg == "" {
		msg = fallback
	}

	return &Error{Op: op, StatusCode: resp.StatusCode, Message: msg}
}
