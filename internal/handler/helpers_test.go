package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"aurafeed/internal/app/directory"
	"aurafeed/internal/app/feed"
	"aurafeed/internal/app/identity"
	"aurafeed/internal/configs"
	"aurafeed/internal/pkg/auth/jwt"
	"aurafeed/internal/pkg/pow"
)

// --- fakes ---

type fakeUserStore struct {
	createUserFn func(ctx context.Context, user directory.User) error
	getByEmailFn func(ctx context.Context, email string) (*directory.User, error)
	getByIDFn    func(ctx context.Context, id string) (*directory.User, error)
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user directory.User) error {
	if f.createUserFn != nil {
		return f.createUserFn(ctx, user)
	}
	return nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*directory.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id string) (*directory.User, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, id string) error {
	return nil
}

// stubDirectory backs the resolver with no persisted profiles; creation returns
// the derived identity unchanged.
type stubDirectory struct{}

func (stubDirectory) GetProfile(ctx context.Context, userID string) (*identity.Identity, error) {
	return nil, nil
}

func (stubDirectory) CreateProfile(ctx context.Context, ident identity.Identity) (*identity.Identity, error) {
	return &ident, nil
}

type fakeFeedService struct {
	hub *feed.Hub

	listRecentFn func(ctx context.Context, limit int) ([]feed.Post, error)
	insertFn     func(ctx context.Context, draft feed.PostDraft) (*feed.Post, error)
}

func newFakeFeedService() *fakeFeedService {
	return &fakeFeedService{hub: feed.NewHub()}
}

func (f *fakeFeedService) ListRecent(ctx context.Context, limit int) ([]feed.Post, error) {
	if f.listRecentFn != nil {
		return f.listRecentFn(ctx, limit)
	}
	return nil, nil
}

func (f *fakeFeedService) Insert(ctx context.Context, draft feed.PostDraft) (*feed.Post, error) {
	if f.insertFn != nil {
		return f.insertFn(ctx, draft)
	}
	post := feed.Post{ID: "stored", Content: draft.Content, AuthorID: draft.AuthorID}
	return &post, nil
}

func (f *fakeFeedService) SubscribeInsertions(fn func(feed.Post)) (*feed.Subscription, error) {
	return f.hub.Subscribe(fn)
}

// --- helpers ---

func newTestDeps(users *fakeUserStore, feedService feed.Service) *AppDeps {
	return &AppDeps{
		Config: &configs.AppConfig{
			Environment:  "development",
			Port:         8080,
			JWTSecret:    "test-secret",
			FeedPageSize: 20,
		},
		Users:      users,
		Resolver:   identity.NewResolver(stubDirectory{}),
		Feed:       feedService,
		PowManager: pow.NewManager(0),
	}
}

// proofToken solves a zero-difficulty challenge and returns a valid Proof Token.
func proofToken(t *testing.T, m *pow.Manager) string {
	t.Helper()

	token, err := m.ValidateProof(m.GenerateNonce(), "0")
	if err != nil {
		t.Fatalf("failed to obtain proof token: %v", err)
	}
	return token
}

// authenticate injects a parsed JWT payload into the request context, the way
// IdentityExtractorMiddleware does for a valid token.
func authenticate(r *http.Request, userID, email string) *http.Request {
	payload := &jwt.Payload{ID: userID, Email: email}
	ctx := context.WithValue(r.Context(), jwt.ContextAuthPayloadKey, payload)
	return r.WithContext(ctx)
}

// decodeEnvelope parses the standard JSON response envelope.
func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) (int, map[string]any) {
	t.Helper()

	var envelope struct {
		Code    int            `json:"code"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
	return envelope.Code, envelope.Data
}
