// Package common holds the auth header constants shared by the API client
// and the development backend, plus the backend's token errors. Callers
// match the errors with errors.Is.
package common

import "errors"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
