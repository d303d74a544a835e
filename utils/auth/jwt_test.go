package auth

import (
	"errors"
	"testing"
	"time"
)

func testManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "varsityrank-test",
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := testManager()

	token, jti, err := m.GenerateAccessToken(42, "student@example.edu", "verified_student")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" || jti == "" {
		t.Fatal("expected token and jti")
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID != 42 || claims.Email != "student@example.edu" || claims.Role != "verified_student" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.TokenType != "access" {
		t.Errorf("expected access token type, got %q", claims.TokenType)
	}
	if claims.ID != jti {
		t.Errorf("jti mismatch: %q vs %q", claims.ID, jti)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m := testManager()
	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour, RefreshExpiry: time.Hour, Issuer: "x"})

	token, _, err := m.GenerateAccessToken(1, "a@b.c", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := other.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	m := NewJWTManager(JWTConfig{Secret: "s", Expiry: -time.Minute, RefreshExpiry: time.Hour, Issuer: "x"})

	token, _, err := m.generateToken(1, "a@b.c", "user", "access", -time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	m := testManager()

	t.Run("refresh token yields new access token", func(t *testing.T) {
		refresh, _, err := m.GenerateRefreshToken(7, "x@y.z", "user")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		access, _, err := m.RefreshAccessToken(refresh)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		claims, err := m.ValidateToken(access)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if claims.TokenType != "access" || claims.UserID != 7 {
			t.Errorf("unexpected claims: %+v", claims)
		}
	})

	t.Run("access token cannot be used as refresh", func(t *testing.T) {
		access, _, err := m.GenerateAccessToken(7, "x@y.z", "user")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, _, err := m.RefreshAccessToken(access); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})
}
