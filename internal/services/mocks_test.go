package services

import (
	"context"
	"errors"
	"sync"

	"github.com/payhook/payments-backend/internal/models"
	repo "github.com/payhook/payments-backend/internal/repository"
	"github.com/shopspring/decimal"
)

var errMockStorage = errors.New("mock storage error")

// mockAccounts implements repository.Accounts in memory, serializing
// AdjustBalance the way the real storage layer does.
type mockAccounts struct {
	mu       sync.Mutex
	nextID   int64
	accounts map[int64]models.Account

	createCalls int
	listCalls   int
	failCreate  bool
}

func newMockAccounts() *mockAccounts {
	return &mockAccounts{nextID: 1, accounts: make(map[int64]models.Account)}
}

func (m *mockAccounts) seed(userID int64, balance decimal.Decimal) models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	a := models.Account{ID: m.nextID, UserID: userID, Balance: models.Money{Decimal: balance}}
	m.accounts[a.ID] = a
	m.nextID++
	return a
}

func (m *mockAccounts) Create(_ context.Context, userID int64) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.failCreate {
		return models.Account{}, errMockStorage
	}
	a := models.Account{ID: m.nextID, UserID: userID, Balance: models.Money{Decimal: decimal.Zero}}
	m.accounts[a.ID] = a
	m.nextID++
	return a, nil
}

func (m *mockAccounts) GetByID(_ context.Context, id int64) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return models.Account{}, repo.ErrNotFound
	}
	return a, nil
}

func (m *mockAccounts) ListByUser(_ context.Context, userID int64) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	var out []models.Account
	for id := int64(1); id < m.nextID; id++ {
		if a, ok := m.accounts[id]; ok && a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockAccounts) AdjustBalance(_ context.Context, accountID int64, delta decimal.Decimal) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[accountID]
	if !ok {
		return models.Account{}, repo.ErrNotFound
	}
	next := a.Balance.Add(delta)
	if next.IsNegative() {
		return models.Account{}, repo.ErrNegativeBalance
	}
	a.Balance = models.Money{Decimal: next}
	m.accounts[accountID] = a
	return a, nil
}

func (m *mockAccounts) snapshot() map[int64]models.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make(map[int64]models.Account, len(m.accounts))
	for k, v := range m.accounts {
		cp[k] = v
	}
	return cp
}

func (m *mockAccounts) restore(s map[int64]models.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = s
}

// mockPayments implements repository.Payments with the transaction_id
// uniqueness the real table enforces.
type mockPayments struct {
	mu       sync.Mutex
	nextID   int64
	payments map[int64]models.Payment
	byTxID   map[string]int64

	createCalls int
	listCalls   int
	getCalls    int
}

func newMockPayments() *mockPayments {
	return &mockPayments{
		nextID:   1,
		payments: make(map[int64]models.Payment),
		byTxID:   make(map[string]int64),
	}
}

func (m *mockPayments) Create(_ context.Context, p models.Payment) (models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if _, dup := m.byTxID[p.TransactionID]; dup {
		return models.Payment{}, repo.ErrDuplicateTransaction
	}
	p.ID = m.nextID
	m.payments[p.ID] = p
	m.byTxID[p.TransactionID] = p.ID
	m.nextID++
	return p, nil
}

func (m *mockPayments) GetByID(_ context.Context, id int64) (models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	p, ok := m.payments[id]
	if !ok {
		return models.Payment{}, repo.ErrNotFound
	}
	return p, nil
}

func (m *mockPayments) GetByTransactionID(_ context.Context, txID string) (models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byTxID[txID]
	if !ok {
		return models.Payment{}, repo.ErrNotFound
	}
	return m.payments[id], nil
}

func (m *mockPayments) ListByUser(_ context.Context, userID int64) ([]models.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	var out []models.Payment
	for id := int64(1); id < m.nextID; id++ {
		if p, ok := m.payments[id]; ok && p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockPayments) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.payments)
}

func (m *mockPayments) snapshot() (map[int64]models.Payment, map[string]int64, int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps := make(map[int64]models.Payment, len(m.payments))
	for k, v := range m.payments {
		ps[k] = v
	}
	ids := make(map[string]int64, len(m.byTxID))
	for k, v := range m.byTxID {
		ids[k] = v
	}
	return ps, ids, m.nextID
}

func (m *mockPayments) restoreSnapshot(ps map[int64]models.Payment, ids map[string]int64, next int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = ps
	m.byTxID = ids
	m.nextID = next
}

// mockTx mimics transactional rollback: on error every store is restored to
// its pre-transaction state.
type mockTx struct {
	accounts *mockAccounts
	payments *mockPayments
}

func (m *mockTx) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	accSnap := m.accounts.snapshot()
	ps, ids, next := m.payments.snapshot()
	if err := fn(ctx); err != nil {
		m.accounts.restore(accSnap)
		m.payments.restoreSnapshot(ps, ids, next)
		return err
	}
	return nil
}

// syncPool runs submitted work inline so tests can assert on side effects
// without sleeping.
type syncPool struct{}

func (syncPool) Submit(f func()) { f() }

type mockEvents struct {
	mu        sync.Mutex
	published []models.Payment
	err       error
}

func (m *mockEvents) PaymentProcessed(_ context.Context, p models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, p)
	return nil
}

// mockUsers implements repository.Users in memory with email uniqueness.
type mockUsers struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]models.User
}

func newMockUsers() *mockUsers {
	return &mockUsers{nextID: 1, users: make(map[int64]models.User)}
}

func (m *mockUsers) Create(_ context.Context, email, fullName, hashedPassword string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return models.User{}, repo.ErrEmailTaken
		}
	}
	u := models.User{ID: m.nextID, Email: email, FullName: fullName, HashedPassword: hashedPassword}
	m.users[u.ID] = u
	m.nextID++
	return u, nil
}

func (m *mockUsers) GetByID(_ context.Context, id int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return models.User{}, repo.ErrNotFound
	}
	return u, nil
}

func (m *mockUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (m *mockUsers) ListWithAccounts(_ context.Context) ([]models.UserWithAccounts, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.UserWithAccounts
	for id := int64(1); id < m.nextID; id++ {
		if u, ok := m.users[id]; ok {
			out = append(out, models.UserWithAccounts{User: u, Accounts: []models.Account{}})
		}
	}
	return out, nil
}

func (m *mockUsers) Update(_ context.Context, u models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return repo.ErrNotFound
	}
	m.users[u.ID] = u
	return nil
}

func (m *mockUsers) Delete(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return false, nil
	}
	delete(m.users, id)
	return true, nil
}
