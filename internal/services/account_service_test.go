package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/payhook/payments-backend/internal/cache"
	repo "github.com/payhook/payments-backend/internal/repository"
	"github.com/shopspring/decimal"
)

func newAccountFixture(t *testing.T) (*AccountService, *mockAccounts, *cache.Service) {
	t.Helper()
	accounts := newMockAccounts()
	c := cache.NewService(cache.NewMemoryStore(), time.Minute, discardLogger())
	return NewAccountService(accounts, c, discardLogger()), accounts, c
}

func TestAdjustBalance(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		delta   string
		want    string
		wantErr error
	}{
		{name: "credit", initial: "0", delta: "100.50", want: "100.50"},
		{name: "debit within balance", initial: "100.50", delta: "-100.00", want: "0.50"},
		{name: "debit to exactly zero", initial: "75.25", delta: "-75.25", want: "0"},
		{name: "overdraw rejected", initial: "10.00", delta: "-10.01", wantErr: repo.ErrNegativeBalance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, accounts, _ := newAccountFixture(t)
			ctx := context.Background()
			acc := accounts.seed(1, decimal.RequireFromString(tt.initial))

			got, err := svc.AdjustBalance(ctx, acc.ID, decimal.RequireFromString(tt.delta))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				after, _ := accounts.GetByID(ctx, acc.ID)
				if !after.Balance.Equal(decimal.RequireFromString(tt.initial)) {
					t.Errorf("rejected adjustment must not write; balance %s", after.Balance)
				}
				return
			}
			if err != nil {
				t.Fatalf("AdjustBalance: %v", err)
			}
			if !got.Balance.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("balance %s, want %s", got.Balance, tt.want)
			}
		})
	}
}

func TestAdjustBalance_UnknownAccount(t *testing.T) {
	svc, _, _ := newAccountFixture(t)
	_, err := svc.AdjustBalance(context.Background(), 42, decimal.NewFromInt(1))
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAdjustBalance_ConcurrentCreditsSerialize(t *testing.T) {
	svc, accounts, _ := newAccountFixture(t)
	ctx := context.Background()
	acc := accounts.seed(1, decimal.Zero)

	const n = 50
	delta := decimal.RequireFromString("1.01")

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.AdjustBalance(ctx, acc.ID, delta); err != nil {
				t.Errorf("AdjustBalance: %v", err)
			}
		}()
	}
	wg.Wait()

	after, _ := accounts.GetByID(ctx, acc.ID)
	want := delta.Mul(decimal.NewFromInt(n))
	if !after.Balance.Equal(want) {
		t.Errorf("lost update: balance %s, want %s", after.Balance, want)
	}
}

func TestListByUser_ReadThrough(t *testing.T) {
	svc, accounts, _ := newAccountFixture(t)
	ctx := context.Background()
	accounts.seed(1, decimal.RequireFromString("10.00"))
	accounts.seed(1, decimal.RequireFromString("20.00"))
	accounts.seed(2, decimal.RequireFromString("99.00"))

	first, err := svc.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(first))
	}

	if _, err := svc.ListByUser(ctx, 1); err != nil {
		t.Fatalf("ListByUser (cached): %v", err)
	}
	if accounts.listCalls != 1 {
		t.Errorf("expected 1 repo list, got %d", accounts.listCalls)
	}
}

func TestAdjustBalance_InvalidatesAccountsList(t *testing.T) {
	svc, accounts, c := newAccountFixture(t)
	ctx := context.Background()
	acc := accounts.seed(1, decimal.RequireFromString("10.00"))

	// Warm the cache, then write.
	if _, err := svc.ListByUser(ctx, 1); err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if _, err := svc.AdjustBalance(ctx, acc.ID, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("AdjustBalance: %v", err)
	}

	var dst any
	if c.Get(ctx, cache.UserAccountsKey(1), &dst) {
		t.Error("stale accounts list left in cache after balance write")
	}

	// The next read reflects the new balance.
	fresh, err := svc.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if !fresh[0].Balance.Equal(decimal.RequireFromString("15.00")) {
		t.Errorf("expected refreshed balance 15.00, got %s", fresh[0].Balance)
	}
}

func TestCreateAccount(t *testing.T) {
	svc, _, c := newAccountFixture(t)
	ctx := context.Background()

	c.Set(ctx, cache.UserAccountsKey(7), []string{"stale"})

	acc, err := svc.Create(ctx, 7)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if acc.UserID != 7 || !acc.Balance.IsZero() {
		t.Errorf("unexpected account: %+v", acc)
	}

	var dst any
	if c.Get(ctx, cache.UserAccountsKey(7), &dst) {
		t.Error("account creation must invalidate the user's accounts list")
	}
}
