package handlers

import (
	"net/http"

	"github.com/payhook/payments-backend/internal/api/httpx"
	"github.com/payhook/payments-backend/internal/auth"
	"github.com/payhook/payments-backend/internal/services"
)

type AuthHandler struct {
	users *services.UserService
	tm    *auth.TokenManager
}

func NewAuthHandler(users *services.UserService, tm *auth.TokenManager) *AuthHandler {
	return &AuthHandler{users: users, tm: tm}
}

type tokenResp struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Token handles the password login form: username is the email. Unknown email
// and wrong password produce the same 401.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid form")
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")

	u, err := h.users.Authenticate(r.Context(), email, password)
	if err != nil {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	token, err := h.tm.Issue(u.ID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "token generation failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tokenResp{AccessToken: token, TokenType: "bearer"})
}
