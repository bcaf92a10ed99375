package config

import "os"

// AuthConfig carries the secrets guarding contest-admin routes
type AuthConfig struct {
	// JwtSecret signs and verifies admin bearer tokens (HMAC)
	JwtSecret string
	// AdminKeyHash is the bcrypt hash of the operator API key used to mint
	// admin tokens
	AdminKeyHash string
}

func NewAuthConfig() *AuthConfig {
	return &AuthConfig{
		JwtSecret:    os.Getenv("JWT_SECRET"),
		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),
	}
}
