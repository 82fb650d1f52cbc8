// Package client talks to the study-materials REST backend.
//
// Every response is an envelope {code, message, data}. code 0 is success and
// any other code comes back as *APIError. Transport problems and 5xx answers
// are reported as ErrUnavailable, 401/403 and the backend's auth codes as
// ErrUnauthorized; match them with errors.Is.
//
// The package also bootstraps the local SQLite cache (InitDatabase).
package client
