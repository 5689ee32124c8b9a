package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"aurafeed/internal/app/directory"
	"aurafeed/internal/pkg/errs"
	"aurafeed/internal/pkg/pow"
)

func TestHandleRegisterSuccess(t *testing.T) {
	var created *directory.User
	users := &fakeUserStore{
		createUserFn: func(ctx context.Context, user directory.User) error {
			created = &user
			return nil
		},
	}

	deps := newTestDeps(users, newFakeFeedService())

	body := `{"email":"alex@example.com","password":"secret123","nickname":"AJ","fullName":"Alex Johnson"}`
	r := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set(pow.TokenHeaderKey, proofToken(t, deps.PowManager))
	rec := httptest.NewRecorder()

	HandleRegister(deps)(rec, r)

	code, data := decodeEnvelope(t, rec)
	if code != 0 {
		t.Fatalf("response code = %d, want 0 (body: %s)", code, rec.Body.String())
	}
	if data["token"] == "" || data["token"] == nil {
		t.Error("response missing session token")
	}

	if created == nil {
		t.Fatal("CreateUser was not called")
	}
	if created.Email != "alex@example.com" {
		t.Errorf("stored email = %q, want alex@example.com", created.Email)
	}
	if created.Metadata.Nickname != "AJ" || created.Metadata.FullName != "Alex Johnson" {
		t.Errorf("stored metadata = %+v, want nickname AJ and full name Alex Johnson", created.Metadata)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret123")); err != nil {
		t.Error("stored password hash does not match the submitted password")
	}

	ident, ok := data["identity"].(map[string]any)
	if !ok {
		t.Fatalf("response missing identity: %v", data)
	}
	if ident["nickname"] != "AJ" || ident["username"] != "alex" {
		t.Errorf("resolved identity = %v, want nickname AJ and username alex", ident)
	}
}

func TestHandleRegisterRequiresProofToken(t *testing.T) {
	deps := newTestDeps(&fakeUserStore{}, newFakeFeedService())

	body := `{"email":"alex@example.com","password":"secret123"}`
	r := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	HandleRegister(deps)(rec, r)

	if code, _ := decodeEnvelope(t, rec); code != errs.ErrPowChallengeRequired {
		t.Errorf("response code = %d, want %d", code, errs.ErrPowChallengeRequired)
	}
}

func TestHandleRegisterInputValidation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "malformed email",
			body:     `{"email":"not-an-email","password":"secret123"}`,
			wantCode: errs.ErrInvalidEmail,
		},
		{
			name:     "short password",
			body:     `{"email":"alex@example.com","password":"12345"}`,
			wantCode: errs.ErrInvalidPassword,
		},
		{
			name:     "malformed username",
			body:     `{"email":"alex@example.com","password":"secret123","username":"Not Valid!"}`,
			wantCode: errs.ErrInvalidUsername,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps(&fakeUserStore{}, newFakeFeedService())

			r := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")
			r.Header.Set(pow.TokenHeaderKey, proofToken(t, deps.PowManager))
			rec := httptest.NewRecorder()

			HandleRegister(deps)(rec, r)

			if code, _ := decodeEnvelope(t, rec); code != tt.wantCode {
				t.Errorf("response code = %d, want %d", code, tt.wantCode)
			}
		})
	}
}

func TestHandleRegisterDuplicateEmail(t *testing.T) {
	users := &fakeUserStore{
		createUserFn: func(ctx context.Context, user directory.User) error {
			return directory.ErrUserExists
		},
	}
	deps := newTestDeps(users, newFakeFeedService())

	body := `{"email":"alex@example.com","password":"secret123"}`
	r := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set(pow.TokenHeaderKey, proofToken(t, deps.PowManager))
	rec := httptest.NewRecorder()

	HandleRegister(deps)(rec, r)

	if code, _ := decodeEnvelope(t, rec); code != errs.ErrUserAlreadyExists {
		t.Errorf("response code = %d, want %d", code, errs.ErrUserAlreadyExists)
	}
}

func TestHandleRegisterRejectsAuthenticatedUser(t *testing.T) {
	deps := newTestDeps(&fakeUserStore{}, newFakeFeedService())

	body := `{"email":"alex@example.com","password":"secret123"}`
	r := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r = authenticate(r, "u1", "alex@example.com")
	rec := httptest.NewRecorder()

	HandleRegister(deps)(rec, r)

	if code, _ := decodeEnvelope(t, rec); code != errs.ErrAlreadyLoggedIn {
		t.Errorf("response code = %d, want %d", code, errs.ErrAlreadyLoggedIn)
	}
}

func TestHandleLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}

	account := &directory.User{
		ID:           "u1",
		Email:        "alex@example.com",
		PasswordHash: string(hash),
	}

	users := &fakeUserStore{
		getByEmailFn: func(ctx context.Context, email string) (*directory.User, error) {
			if email == account.Email {
				return account, nil
			}
			return nil, nil
		},
	}
	deps := newTestDeps(users, newFakeFeedService())

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "valid credentials",
			body:     `{"email":"alex@example.com","password":"secret123"}`,
			wantCode: 0,
		},
		{
			name:     "wrong password",
			body:     `{"email":"alex@example.com","password":"wrong"}`,
			wantCode: errs.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			body:     `{"email":"nobody@example.com","password":"secret123"}`,
			wantCode: errs.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(tt.body))
			r.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()

			HandleLogin(deps)(rec, r)

			code, data := decodeEnvelope(t, rec)
			if code != tt.wantCode {
				t.Fatalf("response code = %d, want %d", code, tt.wantCode)
			}

			if tt.wantCode == 0 {
				if data["token"] == "" || data["token"] == nil {
					t.Error("response missing session token")
				}
				ident, ok := data["identity"].(map[string]any)
				if !ok {
					t.Fatalf("response missing identity: %v", data)
				}
				// No metadata on the account: identity derives from the email.
				if ident["nickname"] != "alex" || ident["username"] != "alex" {
					t.Errorf("resolved identity = %v, want nickname/username alex", ident)
				}
			}
		})
	}
}
