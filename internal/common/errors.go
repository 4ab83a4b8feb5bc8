// Package common defines shared sentinel errors used across the server
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// repository-level errors
	ErrorNotFound = errors.New("not found")

	// service-level errors
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// validation / conflict errors
	ErrorValidation = errors.New("validation error")
	ErrorConflict   = errors.New("already exists")

	// auth errors (invalid or malformed token)
	ErrInvalidToken = errors.New("invalid token")

	// token lifecycle errors
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)
