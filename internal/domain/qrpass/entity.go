package qrpass

import "time"

// Pass is a single-use QR attendance pass bound to a registered
// location and a work day. The code is an opaque random token; nothing
// about its format is load-bearing.
type Pass struct {
	ID         string
	OrgID      string
	LocationID string
	Code       string
	Date       string // "2006-01-02", org-local
	ExpiresAt  time.Time
	UsedAt     *time.Time
	UsedBy     *string
	CreatedAt  time.Time
}
