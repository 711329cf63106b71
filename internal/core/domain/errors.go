package domain

import "errors"

// Transport-facing error taxonomy, mapped from upstream HTTP status codes.
var (
	ErrNetwork    = errors.New("upstream unreachable")
	ErrAuth       = errors.New("authentication rejected")
	ErrForbidden  = errors.New("access forbidden")
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("invalid input")
	ErrServer     = errors.New("upstream server error")
)

// Resolution and session errors.
var (
	ErrPatientNotFound = errors.New("patient not found")
	ErrResolution      = errors.New("patient view unresolvable")
	ErrNoSession       = errors.New("no active session")
	ErrNoPrincipal     = errors.New("no authenticated principal")
)
