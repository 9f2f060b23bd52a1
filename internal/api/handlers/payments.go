package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/payhook/payments-backend/internal/api/httpx"
	"github.com/payhook/payments-backend/internal/middleware"
	"github.com/payhook/payments-backend/internal/models"
	repo "github.com/payhook/payments-backend/internal/repository"
	"github.com/payhook/payments-backend/internal/services"
)

type PaymentsHandler struct {
	payments *services.PaymentService
}

func NewPaymentsHandler(payments *services.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments}
}

// Webhook ingests a payment notification. Business rejections are 4xx with a
// stable message; storage faults stay 5xx.
func (h *PaymentsHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var payload models.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid body")
		return
	}

	payment, err := h.payments.ProcessPayment(r.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSignature):
			httpx.WriteError(w, http.StatusBadRequest, "invalid_signature", "Invalid signature")
		case errors.Is(err, repo.ErrDuplicateTransaction):
			httpx.WriteError(w, http.StatusBadRequest, "duplicate_transaction", "Transaction already processed")
		case errors.Is(err, repo.ErrNegativeBalance):
			httpx.WriteError(w, http.StatusBadRequest, "negative_balance", "Account balance cannot be negative")
		default:
			httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		}
		return
	}
	httpx.WriteJSON(w, http.StatusOK, payment)
}

// My lists the authenticated user's payments.
func (h *PaymentsHandler) My(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.CurrentUser(r.Context())
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	payments, err := h.payments.ListByUser(r.Context(), u.ID)
	if err != nil {
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	httpx.WriteJSON(w, http.StatusOK, payments)
}
