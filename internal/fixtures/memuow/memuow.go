// Package memuow provides an in-memory repository.UnitOfWork for tests.
//
// It reproduces the two store behaviors the ledger engine depends on:
// per-owner row locking (GetByOwnerForUpdate blocks concurrent units of work
// for the same owner until commit or rollback) and all-or-nothing commits
// (writes are staged and applied only when the Do closure returns nil).
// Transient store failures can be injected to exercise retry paths.
package memuow

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ksoliman/banksim/pkg/domain"
	"github.com/ksoliman/banksim/pkg/money"
	"github.com/ksoliman/banksim/pkg/repository"
)

// ErrTransient is returned for injected store failures.
var ErrTransient = errors.New("simulated transient store failure")

var errOutsideUoW = errors.New("repository access outside unit of work")

// Store is the committed state shared by all units of work.
type Store struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*domain.Account // keyed by owner ID
	txs      []*domain.Transaction
	users    map[uuid.UUID]*domain.User
	failed   []*domain.FailedJob

	locks map[uuid.UUID]*sync.Mutex // per-owner row locks

	failAdjusts int // countdown of AdjustBalance calls to fail
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		accounts: make(map[uuid.UUID]*domain.Account),
		users:    make(map[uuid.UUID]*domain.User),
		locks:    make(map[uuid.UUID]*sync.Mutex),
	}
}

// FailNextAdjusts makes the next n AdjustBalance calls fail with
// ErrTransient.
func (s *Store) FailNextAdjusts(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAdjusts = n
}

// SeedAccount installs a committed account with the given balance.
func (s *Store) SeedAccount(ownerID uuid.UUID, balance money.Money) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct := domain.NewAccount(ownerID)
	acct.Balance = balance
	s.accounts[ownerID] = acct
	return acct
}

// Transactions returns a copy of all committed transaction records.
func (s *Store) Transactions() []*domain.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// FailedJobs returns a copy of all recorded permanent failures.
func (s *Store) FailedJobs() []*domain.FailedJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.FailedJob, len(s.failed))
	copy(out, s.failed)
	return out
}

// Balance returns the committed balance for the owner.
func (s *Store) Balance(ownerID uuid.UUID) money.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	if acct, ok := s.accounts[ownerID]; ok {
		return acct.Balance
	}
	return money.Zero()
}

func (s *Store) rowLock(ownerID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[ownerID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[ownerID] = l
	}
	return l
}

// Do implements repository.UnitOfWork. Row locks acquired inside fn are
// released when Do returns, after staged writes are either committed (nil
// return) or discarded.
func (s *Store) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	t := &txn{
		store:    s,
		balances: make(map[uuid.UUID]money.Money),
		locked:   make(map[uuid.UUID]bool),
	}
	defer t.unlockAll()
	if err := fn(t); err != nil {
		return err
	}
	t.commit()
	return nil
}

// Repositories only exist inside a unit of work.
func (s *Store) AccountRepository() (repository.AccountRepository, error) {
	return nil, errOutsideUoW
}

func (s *Store) TransactionRepository() (repository.TransactionRepository, error) {
	return nil, errOutsideUoW
}

func (s *Store) UserRepository() (repository.UserRepository, error) {
	return nil, errOutsideUoW
}

func (s *Store) FailedJobRepository() (repository.FailedJobRepository, error) {
	return nil, errOutsideUoW
}

// txn is one in-flight unit of work: staged writes plus held row locks.
type txn struct {
	store *Store

	newAccounts []*domain.Account
	balances    map[uuid.UUID]money.Money // staged deltas by owner
	newTxs      []*domain.Transaction
	newUsers    []*domain.User
	newFailed   []*domain.FailedJob

	locked map[uuid.UUID]bool
}

// Do joins the current unit of work; nesting does not open a new one.
func (t *txn) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(t)
}

func (t *txn) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{t}, nil
}

func (t *txn) TransactionRepository() (repository.TransactionRepository, error) {
	return &txRepo{t}, nil
}

func (t *txn) UserRepository() (repository.UserRepository, error) {
	return &userRepo{t}, nil
}

func (t *txn) FailedJobRepository() (repository.FailedJobRepository, error) {
	return &failedJobRepo{t}, nil
}

func (t *txn) unlockAll() {
	for ownerID := range t.locked {
		t.store.rowLock(ownerID).Unlock()
	}
	t.locked = make(map[uuid.UUID]bool)
}

func (t *txn) commit() {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range t.newAccounts {
		s.accounts[acct.OwnerID] = acct
	}
	for ownerID, delta := range t.balances {
		if acct, ok := s.accounts[ownerID]; ok {
			sum, _ := acct.Balance.Add(delta)
			acct.Balance = sum
		}
	}
	s.txs = append(s.txs, t.newTxs...)
	for _, u := range t.newUsers {
		s.users[u.ID] = u
	}
	s.failed = append(s.failed, t.newFailed...)
}

// snapshot reads the committed account plus this txn's staged delta.
func (t *txn) snapshot(ownerID uuid.UUID) (*domain.Account, error) {
	s := t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[ownerID]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	balance := acct.Balance
	if delta, ok := t.balances[ownerID]; ok {
		balance, _ = balance.Add(delta)
	}
	return domain.NewAccountFromData(
		acct.ID, acct.OwnerID, balance, acct.CreatedAt, acct.UpdatedAt), nil
}

type accountRepo struct{ t *txn }

func (r *accountRepo) Create(ctx context.Context, acct *domain.Account) error {
	r.t.newAccounts = append(r.t.newAccounts, acct)
	return nil
}

func (r *accountRepo) GetByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error) {
	return r.t.snapshot(ownerID)
}

func (r *accountRepo) GetByOwnerForUpdate(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error) {
	if !r.t.locked[ownerID] {
		r.t.store.rowLock(ownerID).Lock()
		r.t.locked[ownerID] = true
	}
	return r.t.snapshot(ownerID)
}

func (r *accountRepo) AdjustBalance(ctx context.Context, ownerID uuid.UUID, delta money.Money) error {
	s := r.t.store
	s.mu.Lock()
	if s.failAdjusts > 0 {
		s.failAdjusts--
		s.mu.Unlock()
		return ErrTransient
	}
	s.mu.Unlock()
	staged, _ := r.t.balances[ownerID].Add(delta)
	r.t.balances[ownerID] = staged
	return nil
}

type txRepo struct{ t *txn }

func (r *txRepo) Create(ctx context.Context, tx *domain.Transaction) error {
	r.t.newTxs = append(r.t.newTxs, tx)
	return nil
}

func (r *txRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Transaction, error) {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Transaction
	for _, tx := range s.txs {
		if tx.OwnerID == ownerID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type userRepo struct{ t *txn }

func (r *userRepo) Create(ctx context.Context, u *domain.User) error {
	r.t.newUsers = append(r.t.newUsers, u)
	return nil
}

func (r *userRepo) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *userRepo) GetByUsernameOrEmail(ctx context.Context, identity string) (*domain.User, error) {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, identity) || strings.EqualFold(u.Email, identity) {
			return u, nil
		}
	}
	// Staged users are visible within the same unit of work.
	for _, u := range r.t.newUsers {
		if strings.EqualFold(u.Username, identity) || strings.EqualFold(u.Email, identity) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type failedJobRepo struct{ t *txn }

func (r *failedJobRepo) Create(ctx context.Context, job *domain.FailedJob) error {
	r.t.newFailed = append(r.t.newFailed, job)
	return nil
}

func (r *failedJobRepo) List(ctx context.Context) ([]*domain.FailedJob, error) {
	s := r.t.store
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.FailedJob, len(s.failed))
	copy(out, s.failed)
	return out, nil
}

var (
	_ repository.UnitOfWork          = (*Store)(nil)
	_ repository.UnitOfWork          = (*txn)(nil)
	_ repository.AccountRepository   = (*accountRepo)(nil)
	_ repository.TransactionRepository = (*txRepo)(nil)
	_ repository.UserRepository      = (*userRepo)(nil)
	_ repository.FailedJobRepository = (*failedJobRepo)(nil)
)
