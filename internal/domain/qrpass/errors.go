package qrpass

import "errors"

var (
	ErrPassNotFound = errors.New("QR pass not found")
	ErrPassExpired  = errors.New("QR pass has expired")
	ErrPassUsed     = errors.New("QR pass has already been used")
)
