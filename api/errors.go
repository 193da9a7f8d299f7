// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-ring.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the library.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnderflow       = errors.New("ring buffer underflow: buffer is empty")
	ErrWorkerFailure   = errors.New("parallel worker failed")
	ErrNotOpen         = errors.New("log file is not open")
)

// ErrorCode represents specific error conditions in the library.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	ErrCodeInvalidArgument
	ErrCodeUnderflow
	ErrCodeContractViolation
	ErrCodeWorkerFailure
	ErrCodeNotOpen
	ErrCodeInternal
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeUnderflow:
		return "underflow"
	case ErrCodeContractViolation:
		return "contract_violation"
	case ErrCodeWorkerFailure:
		return "worker_failure"
	case ErrCodeNotOpen:
		return "not_open"
	default:
		return "internal"
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (context: %+v)", e.Message, e.Context)
}

// Is matches the sentinel that corresponds to the error code, so
// errors.Is(err, ErrInvalidArgument) holds for a coded *Error too.
func (e *Error) Is(target error) bool {
	switch e.Code {
	case ErrCodeInvalidArgument:
		return target == ErrInvalidArgument
	case ErrCodeUnderflow:
		return target == ErrUnderflow
	case ErrCodeWorkerFailure:
		return target == ErrWorkerFailure
	case ErrCodeNotOpen:
		return target == ErrNotOpen
	}
	return false
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}
