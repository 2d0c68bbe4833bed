package errors

import (
	"errors"
	"fmt"
)

var (
	// Lookup failures (404-equivalent, not retryable).
	ErrEquipmentNotFound = errors.New("equipment not found")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrNotFound          = errors.New("record not found")

	// State-machine guard failures (409-equivalent). The caller may re-fetch
	// current state and retry with updated intent.
	ErrEquipmentNotAvailable = errors.New("equipment is not available for assignment")
	ErrEquipmentRetired      = errors.New("equipment is retired")
	ErrNoOpenAssignment      = errors.New("equipment has no open assignment")
	ErrOpenAssignmentExists  = errors.New("equipment already has an open assignment")
	ErrIllegalTransition     = errors.New("illegal equipment status transition")
	ErrEmployeeInactive      = errors.New("employee is not active")
	ErrDuplicate             = errors.New("record already exists")

	// Data-integrity failure: more than one open assignment for one equipment.
	// Must never happen while mutations go through the guard; logged at Error
	// and surfaced as an internal error, never hidden.
	ErrInvariantViolation = errors.New("single-holder invariant violated")

	// Lock could not be acquired in time. Retryable with backoff.
	ErrLockTimeout = errors.New("equipment is busy, try again")

	ErrBadRequest = errors.New("bad request")
)

// IsConflict reports whether err belongs to the guard-failure class.
func IsConflict(err error) bool {
	for _, target := range []error{
		ErrEquipmentNotAvailable,
		ErrEquipmentRetired,
		ErrNoOpenAssignment,
		ErrOpenAssignmentExists,
		ErrIllegalTransition,
		ErrEmployeeInactive,
		ErrDuplicate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err is a lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrEquipmentNotFound) ||
		errors.Is(err, ErrEmployeeNotFound)
}

type HttpError struct {
	Code    int
	Message string
	Err     error
	Details map[string]interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, details map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Details: details}
}
