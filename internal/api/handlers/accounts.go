package handlers

import (
	"net/http"

	"github.com/payhook/payments-backend/internal/api/httpx"
	"github.com/payhook/payments-backend/internal/middleware"
	"github.com/payhook/payments-backend/internal/services"
)

type AccountsHandler struct {
	accounts *services.AccountService
}

func NewAccountsHandler(accounts *services.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

// Me lists the authenticated user's accounts.
func (h *AccountsHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	accounts, err := h.accounts.ListByUser(r.Context(), u.ID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, accounts)
}
