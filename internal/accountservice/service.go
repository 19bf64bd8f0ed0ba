// Package accountservice manages business logic layer of accounts.
package accountservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/ledger"
)

// Repo provides data access layer interface needed by account service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package accountservice
type Repo interface {
	Create(ctx context.Context, name string) (*ledger.Account, error)
	Get(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
	List(ctx context.Context, limit, offset int32) ([]*ledger.Account, error)
}

// Service facilitates account service layer logic.
type Service struct {
	repo Repo
}

// New returns account service struct to manage account bussines logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Create creates and returns account for the given holder name.
func (s *Service) Create(ctx context.Context, name string) (ledger.Snapshot, error) {
	account, err := s.repo.Create(ctx, name)
	if err != nil {
		return ledger.Snapshot{}, err
	}

	return account.Snapshot(), nil
}

// Get returns account state for the given account ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (ledger.Snapshot, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return ledger.Snapshot{}, err
	}

	return account.Snapshot(), nil
}

// List returns account states in creation order.
func (s *Service) List(ctx context.Context, pageSize, pageID int32) ([]ledger.Snapshot, error) {
	limit := pageSize
	offset := (pageID - 1) * pageSize

	accounts, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	snapshots := make([]ledger.Snapshot, 0, len(accounts))
	for _, account := range accounts {
		snapshots = append(snapshots, account.Snapshot())
	}

	return snapshots, nil
}

// Deposit adds the given amount to the account balance and returns the logged entry.
func (s *Service) Deposit(ctx context.Context, id uuid.UUID, amount string) (ledger.Record, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return ledger.Record{}, ledger.ErrInvalidAmount
	}

	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return ledger.Record{}, err
	}

	return account.Deposit(ctx, amountDecimal)
}

// Withdraw subtracts the given amount from the account balance and returns the logged entry.
func (s *Service) Withdraw(ctx context.Context, id uuid.UUID, amount string) (ledger.Record, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return ledger.Record{}, ledger.ErrInvalidAmount
	}

	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return ledger.Record{}, err
	}

	return account.Withdraw(ctx, amountDecimal)
}

// Freeze blocks deposits and withdrawals on the account.
func (s *Service) Freeze(ctx context.Context, id uuid.UUID) (ledger.Snapshot, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return ledger.Snapshot{}, err
	}

	account.Freeze()

	return account.Snapshot(), nil
}

// Unfreeze lifts the freeze so the account accepts transactions again.
func (s *Service) Unfreeze(ctx context.Context, id uuid.UUID) (ledger.Snapshot, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return ledger.Snapshot{}, err
	}

	account.Unfreeze()

	return account.Snapshot(), nil
}

// History returns the account transaction log in append order.
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]ledger.Record, error) {
	account, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return account.History(), nil
}
