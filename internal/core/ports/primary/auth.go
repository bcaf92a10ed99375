package primary

import "context"

// TokenVerifier validates bearer tokens presented on contest-admin routes
type TokenVerifier interface {
	// VerifyAdminToken checks an HMAC-signed token and the admin role claim
	VerifyAdminToken(ctx context.Context, token string) error
}

// AdminAuthService additionally exchanges the operator API key for a token
type AdminAuthService interface {
	TokenVerifier

	// VerifyAdminKey checks the operator API key against its stored hash
	VerifyAdminKey(ctx context.Context, key string) error

	// GenerateAdminToken mints a short-lived admin token
	GenerateAdminToken(ctx context.Context) (string, error)
}
