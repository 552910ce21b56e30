package auth

import "context"

// Service issues tokens for employees. The attendance engine itself
// never calls this; it only consumes the identity carried in claims.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (TokenResponse, error)
}
