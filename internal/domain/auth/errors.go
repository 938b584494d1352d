package auth

import "errors"

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrHRAccessRequired = errors.New("HR access required")
)
