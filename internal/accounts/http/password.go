package http

import (
	"encoding/json"
	"net/http"

	"github.com/veldtlabs/accounts/internal/accounts/service"
	"github.com/veldtlabs/accounts/pkg/httpx"
)

// PasswordHandler handles the forgot/reset endpoints.
type PasswordHandler struct {
	ResetService *service.PasswordResetService
}

type forgotRequest struct {
	Email string `json:"email"`
}

type resetResponse struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleForgot handles POST /v1/password/forgot. A 202 only means the
// reset mail was handed to the dispatcher; nothing about the account
// changes until the mailed token is redeemed.
func (h *PasswordHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Invalid JSON in request body")
		return
	}

	if err := h.ResetService.Forget(r.Context(), req.Email); err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.NoCache(w)
	w.WriteHeader(http.StatusAccepted)
}

// HandleReset handles POST /v1/password/reset/{token}. The response carries
// the generated plaintext password, mirroring the confirmation mail.
func (h *PasswordHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	email, password, err := h.ResetService.Reset(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, resetResponse{Email: email, Password: password})
}
