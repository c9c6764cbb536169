package auth

import "errors"

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrInvalidTTL   = errors.New("token lifetime must be positive")
)
