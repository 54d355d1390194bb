package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMissingCredential is returned before any request when an admin call has no key
var ErrMissingCredential = errors.New("admin key not provided")

// StatusError is returned when the backend answers with a non-2xx status
type StatusError struct {
	Operation  string
	StatusCode int
	Message    string
}

// Error formats the operation, status and backend message
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend returned status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend returned status %d: %s", e.Operation, e.StatusCode, e.Message)
}

// IsClientError reports whether err is a 4xx answer from the backend
func IsClientError(err error) bool {
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode >= 400 && statusErr.StatusCode < 500
}

// IsNotFound reports whether err is a 404 answer from the backend
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}

// newStatusError extracts {"message": "..."} from the body when the backend sends one
func newStatusError(operation string, status int, body []byte) *StatusError {
	statusErr := &StatusError{Operation: operation, StatusCode: status}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		statusErr.Message = payload.Message
		if statusErr.Message == "" {
			statusErr.Message = payload.Error
		}
		return statusErr
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	statusErr.Message = text
	return statusErr
}
