package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid employee code or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenExpired       = errors.New("token has expired")
	ErrNotAuthenticated   = errors.New("not authenticated")
)
