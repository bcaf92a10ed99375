// package crypto verifies the bearer tokens guarding contest-admin routes
package crypto

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"gitlab.com/codetrack/judged/internal/config"
	"gitlab.com/codetrack/judged/internal/core/ports/primary"
)

var _ primary.AdminAuthService = (*TokenService)(nil)

// TokenService implements the TokenVerifier interface with HMAC-signed JWTs
type TokenService struct {
	cfg *config.AuthConfig
}

// NewTokenService creates a new token service
func NewTokenService(cfg *config.AuthConfig) *TokenService {
	return &TokenService{
		cfg: cfg,
	}
}

// VerifyAdminToken checks the signature and the admin role claim
func (s *TokenService) VerifyAdminToken(_ context.Context, tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.JwtSecret), nil
	})
	if err != nil || !token.Valid {
		return fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("invalid token claims")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return fmt.Errorf("missing admin role")
	}

	return nil
}

// GenerateAdminToken mints a short-lived admin token after the operator key
// has been verified
func (s *TokenService) GenerateAdminToken(_ context.Context) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(s.cfg.JwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyAdminKey compares an operator API key against its stored bcrypt hash
func (s *TokenService) VerifyAdminKey(_ context.Context, key string) error {
	if s.cfg.AdminKeyHash == "" {
		return fmt.Errorf("admin key not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminKeyHash), []byte(key)); err != nil {
		return fmt.Errorf("invalid admin key: %w", err)
	}
	return nil
}
