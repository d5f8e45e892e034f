// internal/pkg/jwt/jwt_test.go
package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"
)

func newTestPair(t *testing.T) (*Generator, *Verifier) {
	t.Helper()
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	gen := NewGenerator(priv, "khidma-marketplace", "khidma-users", "test-key", time.Hour)
	ver := NewVerifier(&priv.PublicKey, "khidma-marketplace", "khidma-users")
	return gen, ver
}

func TestAccessTokenRoundTrip(t *testing.T) {
	gen, ver := newTestPair(t)

	token, jti, err := gen.GenerateAccessToken(42, []string{"admin"})
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if jti == "" {
		t.Fatal("token must carry a JTI")
	}

	claims, err := ver.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.IdentityID != 42 {
		t.Fatalf("identity = %d, want 42", claims.IdentityID)
	}
	if claims.ID != jti {
		t.Fatalf("claims JTI %q does not match generated %q", claims.ID, jti)
	}
	if !claims.IsAdmin() {
		t.Fatal("admin role lost in round trip")
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	gen, ver := newTestPair(t)

	token, _, err := gen.GenerateRefreshToken(42)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	if _, err := ver.VerifyAccessToken(token); err == nil {
		t.Fatal("refresh token must not verify as an access token")
	}
	if _, err := ver.VerifyRefreshToken(token); err != nil {
		t.Fatalf("VerifyRefreshToken: %v", err)
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	gen := NewGenerator(priv, "someone-else", "khidma-users", "", time.Hour)
	ver := NewVerifier(&priv.PublicKey, "khidma-marketplace", "khidma-users")

	token, _, err := gen.GenerateAccessToken(1, nil)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ver.Verify(token); err == nil {
		t.Fatal("token from a different issuer must be rejected")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	gen, ver := newTestPair(t)

	token, _, err := gen.GenerateAccessToken(1, nil)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := ver.Verify(tampered); err == nil {
		t.Fatal("tampered token must be rejected")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	// A negative default TTL mints tokens that are already expired
	gen := NewGenerator(priv, "khidma-marketplace", "khidma-users", "", -time.Minute)
	ver := NewVerifier(&priv.PublicKey, "khidma-marketplace", "khidma-users")

	token, _, err := gen.GenerateAccessToken(1, nil)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := ver.Verify(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}
