package http

import (
	"encoding/json"
	"net/http"

	"github.com/veldtlabs/accounts/internal/accounts/service"
	"github.com/veldtlabs/accounts/pkg/httpx"
)

// AuthenticateHandler handles POST /v1/authenticate: a credential check
// that mints a short-lived bearer token for an activated account.
type AuthenticateHandler struct {
	TokenService *service.TokenService
}

type authenticateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authenticateResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (h *AuthenticateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req authenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Invalid JSON in request body")
		return
	}

	token, err := h.TokenService.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authenticateResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.TokenService.TTL.Seconds()),
	})
}
