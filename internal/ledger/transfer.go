package ledger

import (
	"bytes"
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	// ErrSelfTransfer indicates that the initiator and the counterparty of a transfer are the same account.
	ErrSelfTransfer = errors.New("transfer to the same account")
	// ErrCounterpartyFrozen indicates that the receiving account of a transfer is frozen.
	ErrCounterpartyFrozen = errors.New("counterparty account is frozen")
)

// TransferResult reports both sides of a committed transfer: the updated
// account states and the record appended to each history.
type TransferResult struct {
	FromAccount Snapshot `json:"from_account"`
	ToAccount   Snapshot `json:"to_account"`
	FromEntry   Record   `json:"from_entry"`
	ToEntry     Record   `json:"to_entry"`
}

// TransferTo moves amount from the account to the counterparty as one
// indivisible step: both balances change and both histories grow, or nothing
// does.
//
// It fails with ErrSelfTransfer if to is the account itself, with
// ErrAccountFrozen if the account is frozen, with ErrCounterpartyFrozen if
// the counterparty is frozen, with ErrInvalidAmount if amount is not
// positive and with ErrInsufficientBalance if amount exceeds the account's
// balance. On any failure neither account's balance or history changes.
//
// Both accounts stay locked for the whole operation; the locks are acquired
// in account id order, never call order, so that two opposite transfers
// between the same accounts cannot deadlock each other.
func (a *Account) TransferTo(ctx context.Context, to *Account, amount decimal.Decimal) (TransferResult, error) {
	l := zerolog.Ctx(ctx)

	if a.id == to.id {
		l.Info().Err(ErrSelfTransfer).Send()
		return TransferResult{}, ErrSelfTransfer
	}

	// To avoid deadlocks acquire locks in consistent id order
	first, second := a, to
	if bytes.Compare(to.id[:], a.id[:]) < 0 {
		first, second = to, a
	}

	if err := first.lock(ctx); err != nil {
		l.Info().Err(err).Send()
		return TransferResult{}, err
	}
	defer first.unlock()

	if err := second.lock(ctx); err != nil {
		l.Info().Err(err).Send()
		return TransferResult{}, err
	}
	defer second.unlock()

	if a.frozen {
		l.Info().Err(ErrAccountFrozen).Send()
		return TransferResult{}, ErrAccountFrozen
	}

	if to.frozen {
		l.Info().Err(ErrCounterpartyFrozen).Send()
		return TransferResult{}, ErrCounterpartyFrozen
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		l.Info().Err(ErrInvalidAmount).Send()
		return TransferResult{}, ErrInvalidAmount
	}

	if amount.GreaterThan(a.balance) {
		l.Info().Err(ErrInsufficientBalance).Send()
		return TransferResult{}, ErrInsufficientBalance
	}

	a.balance = a.balance.Sub(amount)
	to.balance = to.balance.Add(amount)

	result := TransferResult{
		FromEntry: a.logTransaction(KindTransferOut, amount, "Transferred to "+to.name),
		ToEntry:   to.logTransaction(KindTransferIn, amount, "Received from "+a.name),
	}
	result.FromAccount = a.snapshot()
	result.ToAccount = to.snapshot()

	return result, nil
}
