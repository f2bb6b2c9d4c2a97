package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	expired := signed(t, jwt.MapClaims{"sub": "u1", "exp": now.Add(-time.Hour).Unix()})
	if !TokenExpired(expired, now) {
		t.Fatalf("expected token with past exp to be expired")
	}

	valid := signed(t, jwt.MapClaims{"sub": "u1", "exp": now.Add(time.Hour).Unix()})
	if TokenExpired(valid, now) {
		t.Fatalf("expected token with future exp to be valid")
	}

	noExp := signed(t, jwt.MapClaims{"sub": "u1"})
	if TokenExpired(noExp, now) {
		t.Fatalf("token without exp must not be treated as expired")
	}

	if TokenExpired("opaque-session-token", now) {
		t.Fatalf("opaque token must not be treated as expired")
	}
}

func TestExtractIDFromToken(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"userId": "abc"})
	id, err := ExtractIDFromToken(tok)
	if err != nil {
		t.Fatalf("extract id: %v", err)
	}
	if id != "abc" {
		t.Fatalf("expected abc, got %q", id)
	}

	if _, err := ExtractIDFromToken(signed(t, jwt.MapClaims{"exp": 1})); err == nil {
		t.Fatalf("expected error for token without subject")
	}
}

func TestHashTokenHidesToken(t *testing.T) {
	tok := signed(t, jwt.MapClaims{"sub": "u1"})
	h := HashToken(tok)
	if len(h) != 64 || strings.Contains(h, tok) {
		t.Fatalf("unexpected hash %q", h)
	}
	if HashToken(tok) != h || HashToken(tok+"x") == h {
		t.Fatal("hash must be stable and token specific")
	}
}
