package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lumiere-jewels/lumiere-backend/pkg/config"
	"github.com/lumiere-jewels/lumiere-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "secret",
		Issuer:            "lumiere",
		ExpirationMinutes: 30,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		UserID: userID,
		Role:   enums.UserRoleCustomer,
		JTI:    "session-1",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Role != enums.UserRoleCustomer {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.ID != "session-1" {
		t.Fatalf("expected jti session-1, got %s", claims.ID)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v", exp, claims.ExpiresAt)
	}
}

func TestMintAccessTokenGeneratesJTI(t *testing.T) {
	cfg := testJWTConfig()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleAdmin,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.ID == "" {
		t.Fatal("expected a generated jti")
	}
}

func TestMintAccessTokenRejectsBadRole(t *testing.T) {
	if _, err := MintAccessToken(testJWTConfig(), time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRole("superuser"),
	}); err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := testJWTConfig()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature verification to fail")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().Add(-2 * time.Hour)

	token, err := MintAccessToken(cfg, past, AccessTokenPayload{
		UserID: uuid.New(),
		Role:   enums.UserRoleCustomer,
		JTI:    "stale-session",
	})
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}

	// The refresh path still needs the jti out of an expired token.
	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		t.Fatalf("parse expired token: %v", err)
	}
	if claims.ID != "stale-session" {
		t.Fatalf("expected jti stale-session, got %s", claims.ID)
	}
}
