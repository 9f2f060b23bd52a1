package models

import "time"

// Payment is an immutable record of one processed webhook event.
// TransactionID is the idempotency key: globally unique, one payment per key.
type Payment struct {
	ID            int64     `json:"id" db:"id"`
	TransactionID string    `json:"transaction_id" db:"transaction_id"`
	UserID        int64     `json:"user_id" db:"user_id"`
	AccountID     int64     `json:"account_id" db:"account_id"`
	Amount        Money     `json:"amount" db:"amount"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// WebhookPayload is the inbound payment notification.
type WebhookPayload struct {
	TransactionID string `json:"transaction_id"`
	UserID        int64  `json:"user_id"`
	AccountID     int64  `json:"account_id"`
	Amount        Money  `json:"amount"`
	Signature     string `json:"signature"`
}
