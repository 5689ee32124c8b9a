/*
Package handler provides the HTTP handlers and routing setup for the Aura Feed server.

This file defines the main Router, applying necessary middleware like logging, CORS,
and IP-based rate limiting before delegating requests to specific handlers (API and WebSocket).
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"aurafeed/internal/pkg/auth/jwt"
	"aurafeed/internal/pkg/limiter"
	"aurafeed/internal/pkg/logx"
	"aurafeed/internal/pkg/resp"
)

const (
	RegisterRate  = 0.05
	RegisterBurst = 2
	PostRate      = 0.5
	PostBurst     = 5
	StreamRate    = 0.2
	StreamBurst   = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global and per-route middleware.
func Router(deps *AppDeps) http.Handler {
	registerLimiter := limiter.NewIPRateLimiter(rate.Limit(RegisterRate), RegisterBurst)
	postLimiter := limiter.NewIPRateLimiter(rate.Limit(PostRate), PostBurst)
	streamLimiter := limiter.NewIPRateLimiter(rate.Limit(StreamRate), StreamBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-PoW-Token"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Aura Feed Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.Get("/pow/challenge", HandlePowChallenge(deps))
			auth.Post("/pow/verify", HandlePowVerify(deps))

			rateLimitedRegister := registerLimiter.Middleware(HandleRegister(deps))
			auth.Post("/register", rateLimitedRegister.ServeHTTP)
			auth.Post("/login", HandleLogin(deps))
		})

		api.Get("/profile", HandleGetProfile(deps))

		api.Get("/posts", HandleListPosts(deps))
		rateLimitedCreatePost := postLimiter.Middleware(HandleCreatePost(deps))
		api.Post("/posts", rateLimitedCreatePost.ServeHTTP)
	})

	r.Get("/ws", HandleFeedStream(wsUpgrader, streamLimiter, deps))

	return r
}
