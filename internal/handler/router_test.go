package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"aurafeed/internal/pkg/errs"
)

func TestRouterHealthEndpoint(t *testing.T) {
	deps := newTestDeps(&fakeUserStore{}, newFakeFeedService())
	router := Router(deps)

	r := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	code, data := decodeEnvelope(t, rec)
	if code != 0 {
		t.Errorf("response code = %d, want 0", code)
	}
	if data["status"] != "ok" {
		t.Errorf("status field = %v, want ok", data["status"])
	}
}

func TestRouterPowChallengeFlow(t *testing.T) {
	deps := newTestDeps(&fakeUserStore{}, newFakeFeedService())
	router := Router(deps)

	r := httptest.NewRequest("GET", "/api/auth/pow/challenge", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, r)

	code, data := decodeEnvelope(t, rec)
	if code != 0 {
		t.Fatalf("challenge response code = %d, want 0", code)
	}

	nonce, ok := data["nonce"].(string)
	if !ok || nonce == "" {
		t.Fatalf("challenge response missing nonce: %v", data)
	}

	// Zero difficulty: any counter is a valid proof.
	body := `{"nonce":"` + nonce + `","counter":"0"}`
	r = httptest.NewRequest("POST", "/api/auth/pow/verify", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()

	router.ServeHTTP(rec, r)

	code, data = decodeEnvelope(t, rec)
	if code != 0 {
		t.Fatalf("verify response code = %d, want 0", code)
	}
	if token, ok := data["powToken"].(string); !ok || token == "" {
		t.Errorf("verify response missing powToken: %v", data)
	}
}

func TestRouterPowVerifyRejectsBadProof(t *testing.T) {
	deps := newTestDeps(&fakeUserStore{}, newFakeFeedService())
	router := Router(deps)

	body := `{"nonce":"not-issued","counter":"0"}`
	r := httptest.NewRequest("POST", "/api/auth/pow/verify", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, r)

	if code, _ := decodeEnvelope(t, rec); code != errs.ErrPowChallengeInvalid {
		t.Errorf("response code = %d, want %d", code, errs.ErrPowChallengeInvalid)
	}
}

func TestRouterFeedStreamRequiresToken(t *testing.T) {
	deps := newTestDeps(&fakeUserStore{}, newFakeFeedService())
	router := Router(deps)

	r := httptest.NewRequest("GET", "/ws", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, r)

	if code, _ := decodeEnvelope(t, rec); code != errs.ErrUnauthorized {
		t.Errorf("response code = %d, want %d", code, errs.ErrUnauthorized)
	}
}
