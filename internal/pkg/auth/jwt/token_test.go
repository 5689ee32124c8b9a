package jwt

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	payload := &Payload{ID: "u1", Email: "alex@example.com"}

	token, err := GenerateToken(payload, "secret", SessionExpiration)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	parsed, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}

	if parsed.ID != "u1" || parsed.Email != "alex@example.com" {
		t.Errorf("parsed payload = %+v, want ID u1 and Email alex@example.com", parsed)
	}
	if parsed.Issuer != TokenIssuer {
		t.Errorf("issuer = %q, want %q", parsed.Issuer, TokenIssuer)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(&Payload{ID: "u1"}, "secret", SessionExpiration)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Error("ParseToken accepted a token signed with a different secret")
	}
}

func TestParseTokenRejectsExpiredToken(t *testing.T) {
	token, err := GenerateToken(&Payload{ID: "u1"}, "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := ParseToken(token, "secret"); err == nil {
		t.Error("ParseToken accepted an expired token")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("not.a.token", "secret"); err == nil {
		t.Error("ParseToken accepted a malformed token")
	}
}
