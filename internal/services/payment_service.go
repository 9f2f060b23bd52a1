package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strconv"

	"github.com/payhook/payments-backend/internal/cache"
	"github.com/payhook/payments-backend/internal/metrics"
	"github.com/payhook/payments-backend/internal/models"
	repo "github.com/payhook/payments-backend/internal/repository"
	"github.com/shopspring/decimal"
)

// EventPublisher pushes a processed payment to downstream consumers.
type EventPublisher interface {
	PaymentProcessed(ctx context.Context, p models.Payment) error
}

// Submitter hands side work to the worker pool. Cache population and event
// publishing ride on it so they can never mask a committed write.
type Submitter interface {
	Submit(f func())
}

type PaymentService struct {
	payments      repo.Payments
	accounts      repo.Accounts
	tx            repo.TxRunner
	cache         *cache.Service
	pool          Submitter
	events        EventPublisher // nil when publishing is disabled
	webhookSecret string
	log           *slog.Logger
}

func NewPaymentService(
	payments repo.Payments,
	accounts repo.Accounts,
	tx repo.TxRunner,
	c *cache.Service,
	pool Submitter,
	events EventPublisher,
	webhookSecret string,
	log *slog.Logger,
) *PaymentService {
	return &PaymentService{
		payments:      payments,
		accounts:      accounts,
		tx:            tx,
		cache:         c,
		pool:          pool,
		events:        events,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

// Signature computes the expected webhook signature: the hex sha256 of
// account_id, amount, transaction_id and user_id concatenated in that order
// with the shared secret appended. Integers are base-10, the amount is the
// text the sender put on the wire ("100.50" stays "100.50", never "100.5").
func (s *PaymentService) Signature(p models.WebhookPayload) string {
	data := strconv.FormatInt(p.AccountID, 10) +
		p.Amount.Text() +
		p.TransactionID +
		strconv.FormatInt(p.UserID, 10) +
		s.webhookSecret
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}

func (s *PaymentService) VerifySignature(p models.WebhookPayload) bool {
	return s.Signature(p) == p.Signature
}

// resolveAccount returns the payload account id when the account exists and
// belongs to the payload user. Any other case - account missing or owned by
// someone else - gets a fresh zero-balance account for the payload user; the
// claimed ownership is never trusted blindly.
func (s *PaymentService) resolveAccount(ctx context.Context, accountID, userID int64) (int64, error) {
	a, err := s.accounts.GetByID(ctx, accountID)
	if err == nil && a.UserID == userID {
		return a.ID, nil
	}
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return 0, err
	}
	s.log.Info("creating new account", "user_id", userID)
	created, err := s.accounts.Create(ctx, userID)
	if err != nil {
		return 0, err
	}
	return created.ID, nil
}

// ProcessPayment runs the webhook pipeline: verify the signature, reject
// replayed transaction ids, resolve the target account, then record the
// payment and credit the balance in one database transaction. A credit that
// would drive the balance negative rolls the payment row back with it.
func (s *PaymentService) ProcessPayment(ctx context.Context, payload models.WebhookPayload) (models.Payment, error) {
	log := s.log.With("transaction_id", payload.TransactionID)
	log.Info("processing payment")

	if !s.VerifySignature(payload) {
		log.Error("invalid signature")
		metrics.PaymentsFailed.WithLabelValues("invalid_signature").Inc()
		return models.Payment{}, ErrInvalidSignature
	}

	// Fast path for replays. The unique index on transaction_id is the real
	// guarantee; a concurrent duplicate slipping past this check fails inside
	// the transaction with the same error.
	if _, err := s.payments.GetByTransactionID(ctx, payload.TransactionID); err == nil {
		log.Warn("duplicate transaction")
		metrics.PaymentsFailed.WithLabelValues("duplicate").Inc()
		return models.Payment{}, repo.ErrDuplicateTransaction
	} else if !errors.Is(err, repo.ErrNotFound) {
		return models.Payment{}, err
	}

	var payment models.Payment
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		accountID, err := s.resolveAccount(ctx, payload.AccountID, payload.UserID)
		if err != nil {
			return err
		}
		payment, err = s.payments.Create(ctx, models.Payment{
			TransactionID: payload.TransactionID,
			UserID:        payload.UserID,
			AccountID:     accountID,
			Amount:        payload.Amount,
		})
		if err != nil {
			return err
		}
		_, err = s.accounts.AdjustBalance(ctx, accountID, payload.Amount.Decimal)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicateTransaction):
			metrics.PaymentsFailed.WithLabelValues("duplicate").Inc()
		case errors.Is(err, repo.ErrNegativeBalance):
			metrics.PaymentsFailed.WithLabelValues("negative_balance").Inc()
		default:
			metrics.PaymentsFailed.WithLabelValues("error").Inc()
		}
		return models.Payment{}, err
	}

	metrics.PaymentsProcessed.Inc()
	s.afterCommit(payment)
	log.Info("payment processed", "payment_id", payment.ID)
	return payment, nil
}

// afterCommit runs cache maintenance and event publishing off the request
// path. The request context is gone by the time these run, so they use their
// own.
func (s *PaymentService) afterCommit(payment models.Payment) {
	s.pool.Submit(func() {
		ctx := context.Background()
		s.cache.Set(ctx, cache.PaymentKey(payment.ID), payment)
		s.cache.Invalidate(ctx, cache.PaymentRecorded, payment.UserID)
		if s.events != nil {
			if err := s.events.PaymentProcessed(ctx, payment); err != nil {
				s.log.Error("publish payment event", "payment_id", payment.ID, "err", err)
			}
		}
	})
}

// Get is a read-through on the single-payment cache entry.
func (s *PaymentService) Get(ctx context.Context, id int64) (models.Payment, error) {
	key := cache.PaymentKey(id)

	var cached models.Payment
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	p, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return models.Payment{}, err
	}
	s.cache.Set(ctx, key, p)
	return p, nil
}

func (s *PaymentService) GetByTransactionID(ctx context.Context, transactionID string) (models.Payment, error) {
	return s.payments.GetByTransactionID(ctx, transactionID)
}

// ListByUser is a read-through on the per-user payments list.
func (s *PaymentService) ListByUser(ctx context.Context, userID int64) ([]models.Payment, error) {
	key := cache.UserPaymentsKey(userID)

	var cached []models.Payment
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	payments, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	s.cache.Set(ctx, key, payments)
	return payments, nil
}

// TotalAmount sums every payment of the user.
func (s *PaymentService) TotalAmount(ctx context.Context, userID int64) (decimal.Decimal, error) {
	payments, err := s.ListByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount.Decimal)
	}
	return total, nil
}
