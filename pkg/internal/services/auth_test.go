package services

import (
	"errors"
	"testing"
	"time"

	"github.com/snapit-app/server/pkg/internal/conf"
)

func testConfig() *conf.Config {
	cfg := &conf.Config{}
	cfg.Security.SigningSecret = "test-secret-for-unit-tests"
	cfg.Security.TokenValidHours = 24
	return cfg
}

func TestIssueAndVerifyToken(t *testing.T) {
	cfg := testConfig()

	token, err := IssueToken(cfg, 42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	id, err := VerifyToken(cfg, token)
	if err != nil {
		t.Fatalf("verify token: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected account 42, got %d", id)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	cfg := testConfig()

	token, err := signToken(cfg, 42, time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := VerifyToken(cfg, token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestVerifyTokenStillValidBeforeExpiry(t *testing.T) {
	cfg := testConfig()

	token, err := signToken(cfg, 42, time.Now().Add(time.Minute))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	if _, err := VerifyToken(cfg, token); err != nil {
		t.Fatalf("expected token to verify before expiry, got %v", err)
	}
}

func TestVerifyTokenMissing(t *testing.T) {
	if _, err := VerifyToken(testConfig(), ""); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestVerifyTokenMalformed(t *testing.T) {
	if _, err := VerifyToken(testConfig(), "not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, err := IssueToken(testConfig(), 42)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	other := testConfig()
	other.Security.SigningSecret = "a-different-secret"
	if _, err := VerifyToken(other, token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
