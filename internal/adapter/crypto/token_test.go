package crypto

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"gitlab.com/codetrack/judged/internal/config"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("operator-key"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	return NewTokenService(&config.AuthConfig{
		JwtSecret:    "test-secret",
		AdminKeyHash: string(hash),
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestTokenService(t)
	ctx := context.Background()

	token, err := svc.GenerateAdminToken(ctx)
	if err != nil {
		t.Fatalf("GenerateAdminToken failed: %v", err)
	}
	if err := svc.VerifyAdminToken(ctx, token); err != nil {
		t.Errorf("freshly minted token rejected: %v", err)
	}
}

func TestVerifyAdminTokenRejectsGarbage(t *testing.T) {
	svc := newTestTokenService(t)
	ctx := context.Background()

	if err := svc.VerifyAdminToken(ctx, "not-a-token"); err == nil {
		t.Error("garbage token accepted")
	}

	// A token signed with a different secret must fail verification
	other := NewTokenService(&config.AuthConfig{JwtSecret: "other-secret"})
	token, err := other.GenerateAdminToken(ctx)
	if err != nil {
		t.Fatalf("GenerateAdminToken failed: %v", err)
	}
	if err := svc.VerifyAdminToken(ctx, token); err == nil {
		t.Error("token with wrong signature accepted")
	}
}

func TestVerifyAdminKey(t *testing.T) {
	svc := newTestTokenService(t)
	ctx := context.Background()

	if err := svc.VerifyAdminKey(ctx, "operator-key"); err != nil {
		t.Errorf("correct key rejected: %v", err)
	}
	if err := svc.VerifyAdminKey(ctx, "wrong-key"); err == nil {
		t.Error("wrong key accepted")
	}

	empty := NewTokenService(&config.AuthConfig{JwtSecret: "s"})
	if err := empty.VerifyAdminKey(ctx, "anything"); err == nil {
		t.Error("unconfigured key hash should reject every key")
	}
}
