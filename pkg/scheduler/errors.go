package scheduler

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange   = errors.New("start date is after end date")
	ErrRowOutOfRange  = errors.New("assignment row does not exist")
	ErrSelfSwap       = errors.New("cannot swap an assignment with itself")
	ErrDoubleBooking  = errors.New("swap would assign a staff member twice on the same date")
	ErrIneligibleSwap = errors.New("swap would place a staff member on a location they are not eligible for")
)

// ConfigurationError is returned when a run cannot start because of its inputs
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// ConstraintViolation is returned when a swap is rejected
type ConstraintViolation struct {
	RowA   int
	RowB   int
	Detail string
	Err    error
}

func (e *ConstraintViolation) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("swap %d<->%d rejected: %v (%s)", e.RowA, e.RowB, e.Err, e.Detail)
	}
	return fmt.Sprintf("swap %d<->%d rejected: %v", e.RowA, e.RowB, e.Err)
}

func (e *ConstraintViolation) Unwrap() error {
	return e.Err
}
