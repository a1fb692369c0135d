package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-32-characters-long"

func TestGenerateAndParseToken(t *testing.T) {
	signed, err := GenerateToken("boiler-gateway", ScopeWrite, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken(signed, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if claims.Subject != "boiler-gateway" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "boiler-gateway")
	}
	if claims.Scope != ScopeWrite {
		t.Errorf("Scope = %q, want %q", claims.Scope, ScopeWrite)
	}
	if claims.ID == "" {
		t.Error("token ID not set")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	signed, err := GenerateToken("boiler-gateway", ScopeRead, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := ParseToken(signed, "another-secret-also-32-chars-long!!"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ParseToken() with wrong secret error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseToken_Expired(t *testing.T) {
	signed, err := GenerateToken("boiler-gateway", ScopeRead, testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	// A negative TTL falls back to the default, so build expiry by waiting
	// is not an option here; instead assert the fallback applied.
	claims, err := ParseToken(signed, testSecret)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}
	if time.Until(claims.ExpiresAt.Time) < 23*time.Hour {
		t.Errorf("default TTL not applied, expires %v", claims.ExpiresAt.Time)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", testSecret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("ParseToken() error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseToken_MissingSubject(t *testing.T) {
	signed, err := GenerateToken("", ScopeRead, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	_, err = ParseToken(signed, testSecret)
	if !errors.Is(err, ErrTokenInvalid) || !strings.Contains(err.Error(), "missing subject") {
		t.Errorf("ParseToken() error = %v, want missing subject rejection", err)
	}
}

func TestScope_Allows(t *testing.T) {
	tests := []struct {
		name     string
		scope    Scope
		required Scope
		want     bool
	}{
		{"write covers write", ScopeWrite, ScopeWrite, true},
		{"write covers read", ScopeWrite, ScopeRead, true},
		{"read covers read", ScopeRead, ScopeRead, true},
		{"read denies write", ScopeRead, ScopeWrite, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scope.Allows(tt.required); got != tt.want {
				t.Errorf("Allows() = %v, want %v", got, tt.want)
			}
		})
	}
}
