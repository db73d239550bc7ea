package domain

import "errors"

// Taxonomia de errores compartida por servicios y repositorios. La capa HTTP
// los traduce a status codes en un solo lugar.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrConflict            = errors.New("conflict")
	ErrNotFound            = errors.New("not found")
	ErrMalformed           = errors.New("malformed")
	ErrExpired             = errors.New("expired")
	ErrRateLimited         = errors.New("rate limited")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
