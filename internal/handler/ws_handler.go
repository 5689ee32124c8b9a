/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains the HandleFeedStream function, which is responsible for rate limiting,
authenticating the user, resolving the display identity, upgrading the HTTP connection to
WebSocket, and initiating the feed session lifecycle.
*/
package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"aurafeed/internal/app/feed"
	"aurafeed/internal/app/stream"
	"aurafeed/internal/pkg/auth/jwt"
	"aurafeed/internal/pkg/errs"
	"aurafeed/internal/pkg/limiter"
	"aurafeed/internal/pkg/logx"
	"aurafeed/internal/pkg/resp"
)

// HandleFeedStream creates an HTTP HandlerFunc to process feed stream connection requests.
// Each accepted connection owns a fresh synchronizer: identity is resolved first, the
// initial page is loaded and sent, then live insertions flow until the client disconnects.
func HandleFeedStream(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := limiter.ClientIP(r)

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("Feed stream rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			// Browsers cannot set the Authorization header on WebSocket requests,
			// so the token is also accepted as a query parameter.
			token := r.URL.Query().Get("token")
			if token == "" {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			parsed, err := jwt.ParseToken(token, deps.Config.JWTSecret)
			if err != nil {
				logx.Warn("Feed stream rejected: Invalid token.", "error", err)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}
			payload = parsed
		}

		user, err := deps.Users.GetByID(r.Context(), payload.ID)
		if err != nil {
			logx.Error(err, "feed_stream: user fetch failed", "user_id", payload.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if user == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		ident := deps.Resolver.Resolve(r.Context(), authUserFrom(user))

		logx.Info("Attempting to upgrade connection", "user_id", ident.ID, "username", ident.Username)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		synchronizer := feed.NewSynchronizer(deps.Feed)
		synchronizer.SetIdentity(ident)

		client := stream.NewClient(conn, synchronizer, ident, deps.Config.FeedPageSize)

		go client.WritePump()

		if err := client.Start(r.Context()); err != nil {
			logx.Error(err, "Failed to start feed stream", "user_id", ident.ID)
			client.SendError(errs.NewError(errs.ErrFeedUnavailable))
			synchronizer.Close()
			_ = conn.Close()
			return
		}

		logx.Info("Feed stream established", "user_id", ident.ID)

		client.ReadPump()
	}
}
