package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aurelia-jewels/aurelia-backend/pkg/config"
	"github.com/aurelia-jewels/aurelia-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "aurelia-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	accountID := uuid.New()
	now := time.Now()

	signed, err := MintAccessToken(cfg, now, AccessTokenPayload{
		AccountID: accountID,
		Role:      enums.AccountRoleCustomer,
		JTI:       "jti-123",
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	claims, err := ParseAccessToken(cfg, signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.AccountID != accountID {
		t.Fatalf("expected account %s, got %s", accountID, claims.AccountID)
	}
	if claims.Role != enums.AccountRoleCustomer {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.ID != "jti-123" {
		t.Fatalf("expected jti to round-trip, got %q", claims.ID)
	}
}

func TestMintAccessTokenGeneratesJTI(t *testing.T) {
	signed, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		AccountID: uuid.New(),
		Role:      enums.AccountRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	claims, err := ParseAccessToken(testJWTConfig(), signed)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected generated jti")
	}
}

func TestMintAccessTokenRejectsBadRole(t *testing.T) {
	_, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		AccountID: uuid.New(),
		Role:      enums.AccountRole("superuser"),
	})
	if err == nil || !strings.Contains(err.Error(), "invalid account role") {
		t.Fatalf("expected role validation error, got %v", err)
	}
}

func TestParseAccessTokenRejectsWrongIssuer(t *testing.T) {
	signed, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		AccountID: uuid.New(),
		Role:      enums.AccountRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}

	other := testJWTConfig()
	other.Issuer = "someone-else"
	if _, err := ParseAccessToken(other, signed); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}
}

func TestParseAccessTokenRejectsExpired(t *testing.T) {
	signed, err := MintAccessToken(testJWTConfig(), time.Now().Add(-2*time.Hour), AccessTokenPayload{
		AccountID: uuid.New(),
		Role:      enums.AccountRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint failed: %v", err)
	}
	if _, err := ParseAccessToken(testJWTConfig(), signed); err == nil {
		t.Fatal("expected expired token to fail")
	}
}
