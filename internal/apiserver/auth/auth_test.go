package auth

import (
	"errors"
	"testing"
	"time"
)

var testCfg = Config{
	JWTSecret: "test-secret-key",
	TokenTTL:  time.Hour,
}

// ============================================================================
// 密码哈希
// ============================================================================

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash should not equal plaintext")
	}

	if !CheckPassword("password123", hash) {
		t.Error("CheckPassword with correct password = false, want true")
	}
	if CheckPassword("wrong-password", hash) {
		t.Error("CheckPassword with wrong password = true, want false")
	}
	if CheckPassword("password123", "not-a-bcrypt-hash") {
		t.Error("CheckPassword with garbage hash = true, want false")
	}
}

func TestHashPassword_UniqueSalt(t *testing.T) {
	h1, _ := HashPassword("password123")
	h2, _ := HashPassword("password123")
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

// ============================================================================
// JWT 令牌
// ============================================================================

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testCfg, "usr-001", "customer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(testCfg, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "usr-001" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "usr-001")
	}
	if claims.Role != "customer" {
		t.Errorf("Role = %q, want %q", claims.Role, "customer")
	}
}

func TestParseToken_Expired(t *testing.T) {
	expiredCfg := Config{JWTSecret: testCfg.JWTSecret, TokenTTL: -time.Hour}
	token, err := GenerateToken(expiredCfg, "usr-001", "customer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	_, err = ParseToken(testCfg, token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("ParseToken(expired) error = %v, want ErrTokenExpired", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testCfg, "usr-001", "customer")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	otherCfg := Config{JWTSecret: "other-secret", TokenTTL: time.Hour}
	_, err = ParseToken(otherCfg, token)
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseToken(wrong secret) error = %v, want ErrInvalidToken", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	tests := []string{
		"",
		"not-a-token",
		"aaa.bbb.ccc",
	}
	for _, tok := range tests {
		if _, err := ParseToken(testCfg, tok); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("ParseToken(%q) error = %v, want ErrInvalidToken", tok, err)
		}
	}
}
