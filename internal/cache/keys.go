package cache

import (
	"context"
	"strconv"
)

func PaymentKey(paymentID int64) string {
	return "payment:" + strconv.FormatInt(paymentID, 10)
}

func UserPaymentsKey(userID int64) string {
	return "payments:user:" + strconv.FormatInt(userID, 10)
}

func UserAccountsKey(userID int64) string {
	return "accounts:user:" + strconv.FormatInt(userID, 10)
}

// WriteOp names a write path that can leave cache entries stale.
type WriteOp int

const (
	AccountCreated WriteOp = iota
	BalanceAdjusted
	PaymentRecorded
)

// invalidations is the single source of truth for invalidate-on-write:
// every write operation maps to the keys it makes stale. New write paths get
// a row here instead of ad-hoc deletes in services.
var invalidations = map[WriteOp]func(userID int64) []string{
	AccountCreated:  func(uid int64) []string { return []string{UserAccountsKey(uid)} },
	BalanceAdjusted: func(uid int64) []string { return []string{UserAccountsKey(uid)} },
	PaymentRecorded: func(uid int64) []string { return []string{UserPaymentsKey(uid), UserAccountsKey(uid)} },
}

// Invalidate drops every cache entry the given write made stale for the user.
func (s *Service) Invalidate(ctx context.Context, op WriteOp, userID int64) {
	keys, ok := invalidations[op]
	if !ok {
		return
	}
	s.Delete(ctx, keys(userID)...)
}
