/*
Package handler provides HTTP handler functions for reading and creating feed posts.

The REST surface mirrors what the WebSocket stream delivers: GET serves the recent
window for clients without a live connection, and POST submits a new post. A post
created here still reaches every live session through the insertion hub.
*/
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"aurafeed/internal/app/feed"
	"aurafeed/internal/pkg/auth/jwt"
	"aurafeed/internal/pkg/errs"
	"aurafeed/internal/pkg/logx"
	"aurafeed/internal/pkg/req"
	"aurafeed/internal/pkg/resp"
)

// maxListLimit caps the limit query parameter on the recent posts endpoint.
const maxListLimit = 100

// HandleListPosts serves the most recent posts, newest first.
func HandleListPosts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := deps.Config.FeedPageSize

		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			parsed, err := strconv.Atoi(limitStr)
			if err != nil || parsed < 1 || parsed > maxListLimit {
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
				return
			}
			limit = parsed
		}

		posts, err := deps.Feed.ListRecent(r.Context(), limit)
		if err != nil {
			logx.Error(err, "list_posts: feed read failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrFeedUnavailable))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"posts": posts,
		})
	}
}

type CreatePostInput struct {
	Content string `json:"content"`
}

// HandleCreatePost validates and stores a new post authored by the authenticated user.
func HandleCreatePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input CreatePostInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		trimmed, err := feed.ValidateContent(input.Content)
		if err != nil {
			switch {
			case errors.Is(err, feed.ErrEmptyContent):
				resp.RespondError(w, r, errs.NewError(errs.ErrPostContentEmpty))
			case errors.Is(err, feed.ErrContentTooLong):
				resp.RespondError(w, r, errs.NewError(errs.ErrPostContentTooLong, feed.MaxContentLength))
			default:
				resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			}
			return
		}

		user, err := deps.Users.GetByID(r.Context(), payload.ID)
		if err != nil {
			logx.Error(err, "create_post: user fetch failed", "user_id", payload.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if user == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		ident := deps.Resolver.Resolve(r.Context(), authUserFrom(user))

		draft := feed.PostDraft{
			Content:        trimmed,
			AuthorID:       ident.ID,
			AuthorNickname: ident.Nickname,
			AuthorUsername: ident.Username,
		}

		post, err := deps.Feed.Insert(r.Context(), draft)
		if err != nil {
			logx.Error(err, "create_post: insert failed", "user_id", payload.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrFeedUnavailable))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"post": post,
		})
	}
}
