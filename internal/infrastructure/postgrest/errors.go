package postgrest

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// Postgres error codes surfaced in PostgREST error bodies.
const (
	codeUniqueViolation           = "23505"
	codeInvalidTextRepresentation = "22P02"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	Method     string
	Table      string
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("postgrest %s %s: status %d: %s", e.Method, e.Table, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("postgrest %s %s: status %d", e.Method, e.Table, e.StatusCode)
}

func newAPIError(method, table string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Method:     method,
		Table:      table,
		StatusCode: status,
		Body:       string(body),
	}
	var payload struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Code = payload.Code
		apiErr.Message = payload.Message
	}
	return apiErr
}

// IsUniqueViolation reports whether err is a unique constraint failure
// reported by the backend.
func IsUniqueViolation(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == codeUniqueViolation
}

// IsInvalidInput reports whether the backend rejected a filter value that
// does not parse as the column type, such as a malformed uuid.
func IsInvalidInput(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == codeInvalidTextRepresentation
}
