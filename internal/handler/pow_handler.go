/*
Package handler provides HTTP handler functions for the Proof-of-Work registration gate.
*/
package handler

import (
	"net/http"

	"aurafeed/internal/pkg/errs"
	"aurafeed/internal/pkg/req"
	"aurafeed/internal/pkg/resp"
)

// HandlePowChallenge issues a fresh PoW challenge nonce and the current difficulty.
func HandlePowChallenge(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nonce := deps.PowManager.GenerateNonce()

		resp.RespondSuccess(w, r, map[string]any{
			"nonce":      nonce,
			"difficulty": deps.PowManager.Difficulty(),
		})
	}
}

type PowVerifyInput struct {
	Nonce   string `json:"nonce"`
	Counter string `json:"counter"`
}

// HandlePowVerify validates a solved challenge and issues a short-lived Proof Token
// accepted by the registration endpoint.
func HandlePowVerify(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input PowVerifyInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.Nonce == "" || input.Counter == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		token, err := deps.PowManager.ValidateProof(input.Nonce, input.Counter)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrPowChallengeInvalid))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"powToken": token,
		})
	}
}
