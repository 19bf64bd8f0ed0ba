// Package ledger implements the single-currency account ledger: accounts
// with non-negative balances, an administrative freeze lock, atomic
// two-account transfers and an append-only per-account transaction history.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAmount indicates that a deposit, withdrawal or transfer amount is not positive.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrAccountFrozen indicates that the account whose balance is about to change is frozen.
	ErrAccountFrozen = errors.New("account is frozen")
	// ErrInsufficientBalance indicates that the account does not have sufficient balance.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrLockTimeout indicates that the context expired while waiting for an account lock.
	ErrLockTimeout = errors.New("account lock timed out")
)

// Account holds the balance, freeze state and transaction history of one
// ledger participant.
//
// All methods are safe for concurrent use: every state access runs under the
// account's own lock, so the history order of an account always matches the
// order in which its operations committed. Accounts must be created with
// NewAccount and must not be copied.
type Account struct {
	id        uuid.UUID
	name      string
	createdAt time.Time

	// sem serializes all access to the fields below. Mutating operations
	// acquire it with a context so that waiting is bounded; freeze and the
	// read-only queries acquire it unconditionally since they never fail.
	sem chan struct{}

	balance decimal.Decimal
	frozen  bool
	history []Record
}

// NewAccount returns an account with zero balance, empty history and the
// freeze lock cleared. The name is a display label used in history notes
// only; the generated id is the account's identity.
func NewAccount(name string) *Account {
	return &Account{
		id:        uuid.New(),
		name:      name,
		createdAt: time.Now(),
		sem:       make(chan struct{}, 1),
		balance:   decimal.Zero,
	}
}

// ID returns the account's immutable identity.
func (a *Account) ID() uuid.UUID {
	return a.id
}

// Name returns the account's immutable display label.
func (a *Account) Name() string {
	return a.name
}

// CreatedAt returns the account's creation time.
func (a *Account) CreatedAt() time.Time {
	return a.createdAt
}

// lock acquires the account lock, giving up with ErrLockTimeout when ctx
// expires first.
func (a *Account) lock(ctx context.Context) error {
	select {
	case a.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ErrLockTimeout
	}
}

// mustLock acquires the account lock unconditionally. It backs the
// operations that are not allowed to fail.
func (a *Account) mustLock() {
	a.sem <- struct{}{}
}

func (a *Account) unlock() {
	<-a.sem
}

// logTransaction appends a record snapshotting the balance after the event
// and returns it. The caller must hold the account lock.
func (a *Account) logTransaction(kind Kind, amount decimal.Decimal, note string) Record {
	r := Record{
		Kind:         kind,
		Amount:       amount,
		BalanceAfter: a.balance,
		Note:         note,
		CreatedAt:    time.Now(),
	}
	a.history = append(a.history, r)

	return r
}

// Deposit adds amount to the balance and appends a deposit record, which it
// returns.
//
// It fails with ErrAccountFrozen if the account is frozen and with
// ErrInvalidAmount if amount is not positive. On failure the balance and
// history are left exactly as they were.
func (a *Account) Deposit(ctx context.Context, amount decimal.Decimal) (Record, error) {
	l := zerolog.Ctx(ctx)

	if err := a.lock(ctx); err != nil {
		l.Info().Err(err).Send()
		return Record{}, err
	}
	defer a.unlock()

	if a.frozen {
		l.Info().Err(ErrAccountFrozen).Send()
		return Record{}, ErrAccountFrozen
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		l.Info().Err(ErrInvalidAmount).Send()
		return Record{}, ErrInvalidAmount
	}

	a.balance = a.balance.Add(amount)

	return a.logTransaction(KindDeposit, amount, "Deposit successful"), nil
}

// Withdraw subtracts amount from the balance and appends a withdraw record,
// which it returns.
//
// It fails with ErrAccountFrozen if the account is frozen, with
// ErrInvalidAmount if amount is not positive and with ErrInsufficientBalance
// if amount exceeds the balance, so the balance can never go negative. On
// failure the balance and history are left exactly as they were.
func (a *Account) Withdraw(ctx context.Context, amount decimal.Decimal) (Record, error) {
	l := zerolog.Ctx(ctx)

	if err := a.lock(ctx); err != nil {
		l.Info().Err(err).Send()
		return Record{}, err
	}
	defer a.unlock()

	if a.frozen {
		l.Info().Err(ErrAccountFrozen).Send()
		return Record{}, ErrAccountFrozen
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		l.Info().Err(ErrInvalidAmount).Send()
		return Record{}, ErrInvalidAmount
	}

	if amount.GreaterThan(a.balance) {
		l.Info().Err(ErrInsufficientBalance).Send()
		return Record{}, ErrInsufficientBalance
	}

	a.balance = a.balance.Sub(amount)

	return a.logTransaction(KindWithdraw, amount, "Withdrawal successful"), nil
}

// Freeze blocks every subsequent balance-changing operation on the account,
// on both sides of a transfer, until Unfreeze. It never fails and does not
// touch the balance or history.
func (a *Account) Freeze() {
	a.mustLock()
	defer a.unlock()

	a.frozen = true
}

// Unfreeze lifts the freeze lock. It never fails and does not touch the
// balance or history.
func (a *Account) Unfreeze() {
	a.mustLock()
	defer a.unlock()

	a.frozen = false
}

// IsFrozen reports whether the account is frozen.
func (a *Account) IsFrozen() bool {
	a.mustLock()
	defer a.unlock()

	return a.frozen
}

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mustLock()
	defer a.unlock()

	return a.balance
}

// History returns an independent copy of the account's transaction records
// in commit order. Mutating the returned slice does not affect the account.
func (a *Account) History() []Record {
	a.mustLock()
	defer a.unlock()

	out := make([]Record, len(a.history))
	copy(out, a.history)

	return out
}

// Snapshot is a copy of an account's observable state at one point in time.
type Snapshot struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Frozen    bool            `json:"frozen"`
	CreatedAt time.Time       `json:"created_at"`
}

// Snapshot returns a consistent copy of the account's observable state.
func (a *Account) Snapshot() Snapshot {
	a.mustLock()
	defer a.unlock()

	return a.snapshot()
}

// snapshot copies the observable state. The caller must hold the account lock.
func (a *Account) snapshot() Snapshot {
	return Snapshot{
		ID:        a.id,
		Name:      a.name,
		Balance:   a.balance,
		Frozen:    a.frozen,
		CreatedAt: a.createdAt,
	}
}
