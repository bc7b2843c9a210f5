package http

import (
	"encoding/json"
	"net/http"

	"github.com/veldtlabs/accounts/internal/accounts/service"
	"github.com/veldtlabs/accounts/pkg/httpx"
)

// AccountsHandler handles the account CRUD endpoints.
type AccountsHandler struct {
	AccountService *service.AccountService
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister handles POST /v1/accounts. The created account starts
// disabled; activation happens out of band via the mailed token.
func (h *AccountsHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Invalid JSON in request body")
		return
	}

	account, err := h.AccountService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toAccountResponse(account))
}

// HandleList handles GET /v1/accounts. With an ?email= query parameter it
// performs a single-account lookup instead and returns one object, not a
// list.
func (h *AccountsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if email := r.URL.Query().Get("email"); email != "" {
		account, err := h.AccountService.GetByEmail(r.Context(), email)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toAccountResponse(account))
		return
	}

	accounts, err := h.AccountService.List(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		response = append(response, toAccountResponse(a))
	}
	httpx.WriteJSON(w, http.StatusOK, response)
}

// HandleGet handles GET /v1/accounts/{id}.
func (h *AccountsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	account, err := h.AccountService.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}

// HandleUpdate handles PUT /v1/accounts/{id}. Blank fields are left
// untouched, so a partial body only overwrites what it names.
func (h *AccountsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest,
			"invalid_request", "Invalid JSON in request body")
		return
	}

	account, err := h.AccountService.Update(r.Context(), r.PathValue("id"), service.UpdateParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toAccountResponse(account))
}

// HandleDelete handles DELETE /v1/accounts/{id}. Deleting an absent id
// still answers 204, matching the store's no-op semantics.
func (h *AccountsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.AccountService.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
