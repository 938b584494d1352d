package calendar

import (
	"errors"
	"fmt"
)

var (
	ErrUnparseable = errors.New("unparseable date/time value")
	ErrOutOfRange  = errors.New("date/time value out of range")
)

// NormalizationError keeps the raw input that failed so callers can log it.
type NormalizationError struct {
	Raw any
	Err error
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Err.Error(), e.Raw)
}

func (e *NormalizationError) Unwrap() error {
	return e.Err
}

func unparseable(raw any) error {
	return &NormalizationError{Raw: raw, Err: ErrUnparseable}
}

func outOfRange(raw any) error {
	return &NormalizationError{Raw: raw, Err: ErrOutOfRange}
}
