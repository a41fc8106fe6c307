package auth

import "errors"

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrMissingToken     = errors.New("missing token")
	ErrTooManyRequests  = errors.New("too many requests")
	ErrForbiddenAccount = errors.New("account is not allowed to access this resource")
)
