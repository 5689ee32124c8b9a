package pow

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
)

// solveChallenge brute-forces a counter whose hash satisfies the difficulty.
func solveChallenge(nonce string, difficulty int) string {
	prefix := strings.Repeat("0", difficulty)

	for i := 0; ; i++ {
		counter := fmt.Sprintf("%d", i)
		hash := sha256.Sum256([]byte(nonce + counter))
		if strings.HasPrefix(hex.EncodeToString(hash[:]), prefix) {
			return counter
		}
	}
}

func TestValidateProofFullFlow(t *testing.T) {
	m := NewManager(1)

	nonce := m.GenerateNonce()
	counter := solveChallenge(nonce, 1)

	token, err := m.ValidateProof(nonce, counter)
	if err != nil {
		t.Fatalf("ValidateProof returned error: %v", err)
	}
	if token == "" {
		t.Fatal("ValidateProof returned empty token")
	}

	r := httptest.NewRequest("POST", "/api/auth/register", nil)
	r.Header.Set(TokenHeaderKey, token)

	if !m.CheckProofToken(r) {
		t.Error("CheckProofToken rejected a freshly issued token")
	}
}

func TestValidateProofRejectsUnknownNonce(t *testing.T) {
	m := NewManager(1)

	if _, err := m.ValidateProof("not-a-nonce", "0"); err == nil {
		t.Error("ValidateProof accepted an unknown nonce")
	}
}

func TestValidateProofRejectsWeakProof(t *testing.T) {
	// Difficulty high enough that a fixed counter practically never satisfies it.
	m := NewManager(10)

	nonce := m.GenerateNonce()

	if _, err := m.ValidateProof(nonce, "0"); err == nil {
		t.Error("ValidateProof accepted a proof below the difficulty requirement")
	}
}

func TestNonceIsSingleUse(t *testing.T) {
	m := NewManager(1)

	nonce := m.GenerateNonce()
	counter := solveChallenge(nonce, 1)

	if _, err := m.ValidateProof(nonce, counter); err != nil {
		t.Fatalf("first ValidateProof returned error: %v", err)
	}
	if _, err := m.ValidateProof(nonce, counter); err == nil {
		t.Error("second ValidateProof accepted a consumed nonce")
	}
}

func TestCheckProofTokenFromQueryParameter(t *testing.T) {
	m := NewManager(1)

	nonce := m.GenerateNonce()
	token, err := m.ValidateProof(nonce, solveChallenge(nonce, 1))
	if err != nil {
		t.Fatalf("ValidateProof returned error: %v", err)
	}

	r := httptest.NewRequest("POST", "/api/auth/register?pow_token="+token, nil)

	if !m.CheckProofToken(r) {
		t.Error("CheckProofToken rejected a token passed as query parameter")
	}
}

func TestCheckProofTokenRejectsMissingOrBogusToken(t *testing.T) {
	m := NewManager(1)

	r := httptest.NewRequest("POST", "/api/auth/register", nil)
	if m.CheckProofToken(r) {
		t.Error("CheckProofToken accepted a request without token")
	}

	r.Header.Set(TokenHeaderKey, "bogus")
	if m.CheckProofToken(r) {
		t.Error("CheckProofToken accepted an unknown token")
	}
}
