package domain

import "fmt"

// Error types for consistent error handling across the service layer.
// The core packages (normalize, anomaly, tax, command) never return these for
// malformed input; they are raised by services, stores and model backends.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in an external collaborator
// (model server, Supabase, sqlite).
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates a validation error (bad request input).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a missing, invalid or expired token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrRateLimited indicates the caller exceeded the allowed request rate.
type ErrRateLimited struct {
	Operation string
}

func (e *ErrRateLimited) Error() string {
	return fmt.Sprintf("rate limit exceeded: %s", e.Operation)
}

// ErrNoMatches indicates a filter produced an empty result.
type ErrNoMatches struct {
	Command string
}

func (e *ErrNoMatches) Error() string {
	return "no transactions match your criteria, please try a different filter"
}
