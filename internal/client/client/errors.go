package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable covers network failures and 5xx answers.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized covers 401/403 answers and the backend's auth codes.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrMalformedResponse means the body was not a valid envelope.
	ErrMalformedResponse = errors.New("malformed server response")
)

// Backend envelope codes. 0 is the only success code.
const (
	CodeSuccess            = 0
	CodeInvalidParams      = 10001
	CodeUnauthorized       = 10002
	CodeForbidden          = 10003
	CodeNotFound           = 10004
	CodeServerError        = 10005
	CodeDuplicate          = 10006
	CodeInvalidCredentials = 10101
	CodeInvalidToken       = 10104
)

// APIError is a domain error reported by the backend in the envelope.
type APIError struct {
	Code       int
	Message    string
	HTTPStatus int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d", e.Code)
	}
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// Is lets errors.Is(err, ErrUnauthorized) match the backend's auth codes.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && (e.Code == CodeUnauthorized || e.Code == CodeInvalidToken)
}

// Message extracts the backend message from err if it carries an APIError,
// otherwise it returns err's text.
func Message(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
