// Package apierr classifies notes API failures into the three kinds the
// client reacts to: authentication failures terminate the session,
// validation failures carry a specific inline message, everything else
// is transient and retryable. Centralizing the mapping keeps every
// resource manager on the same taxonomy.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Kind buckets an API failure by how the client must react
type Kind int

const (
	// KindTransient covers network errors and unexpected server errors;
	// local state stays untouched and the action may be retried
	KindTransient Kind = iota

	// KindAuth covers 401/403; the session must be cleared and the
	// caller redirected to login
	KindAuth

	// KindValidation covers 400; the server rejected the payload
	// (duplicate tag name, foreign tag id, blank title)
	KindValidation
)

// APIError is a non-2xx response from the notes API
type APIError struct {
	Kind   Kind
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error: status=%d detail=%s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api error: status=%d", e.Status)
}

// IsAuthFailure reports whether an HTTP status terminates the session
func IsAuthFailure(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}

// classify maps an HTTP status to a failure kind
func classify(status int) Kind {
	switch {
	case IsAuthFailure(status):
		return KindAuth
	case status == http.StatusBadRequest:
		return KindValidation
	default:
		return KindTransient
	}
}

// FromResponse builds an APIError from a non-2xx response, consuming
// the body. The API reports failures as {"detail": "..."}; anything
// else is kept raw for logging.
func FromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	detail := ""
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		detail = payload.Detail
	} else if len(body) > 0 {
		detail = string(body)
	}

	return &APIError{
		Kind:   classify(resp.StatusCode),
		Status: resp.StatusCode,
		Detail: detail,
	}
}

// IsAuth reports whether err is an authentication failure
func IsAuth(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// IsValidation reports whether err is a server-side validation failure
func IsValidation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == KindValidation
}
