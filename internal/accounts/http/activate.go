package http

import (
	"net/http"

	"github.com/veldtlabs/accounts/internal/accounts/service"
	"github.com/veldtlabs/accounts/pkg/httpx"
)

// ActivateHandler handles GET /v1/activate/{token}. The token arrives in
// the path because activation links are followed straight from the mail
// client. A consumed token answers 404 like an unknown one.
type ActivateHandler struct {
	AccountService *service.AccountService
}

func (h *ActivateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	account, err := h.AccountService.Activate(r.Context(), r.PathValue("token"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}
