// Package prom provides a client for the Prometheus HTTP query API.
package prom

import "errors"

var (
	// ErrBackendUnreachable is returned on connection failures and timeouts.
	ErrBackendUnreachable = errors.New("metrics backend unreachable")
	// ErrBackendMalformed is returned when the response cannot be decoded.
	ErrBackendMalformed = errors.New("metrics backend returned malformed response")
	// ErrBackendQueryError is returned when the backend reports a query evaluation error.
	ErrBackendQueryError = errors.New("metrics backend query error")
)
