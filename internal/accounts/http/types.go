package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/veldtlabs/accounts/internal/accounts/domain"
	"github.com/veldtlabs/accounts/internal/accounts/mail"
	"github.com/veldtlabs/accounts/internal/accounts/service"
	"github.com/veldtlabs/accounts/pkg/httpx"
)

// accountResponse is the public projection of an account. The password hash
// and the lifecycle token never leave the service boundary.
type accountResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAccountResponse(a domain.Account) accountResponse {
	return accountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Enabled:   a.Enabled,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// writeServiceError maps the service error taxonomy onto HTTP statuses with
// the uniform {error, error_description} payload.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrMissingFields):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, service.ErrWeakPassword):
		httpx.WriteError(w, http.StatusUnprocessableEntity, "weak_password", err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		httpx.WriteError(w, http.StatusConflict, "email_taken", err.Error())
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrTokenNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, service.ErrBadCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, service.ErrAccountDisabled):
		httpx.WriteError(w, http.StatusForbidden, "account_disabled", err.Error())
	case errors.Is(err, mail.ErrDelivery):
		httpx.WriteError(w, http.StatusBadGateway, "delivery_failed", "Failed to send mail")
	default:
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
	}
}
