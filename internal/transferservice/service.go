// Package transferservice manages business logic layer of transfers.
package transferservice

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/pet-ledger/internal/ledger"
)

// Repo provides data access layer interface needed by transfer service layer.
//
//go:generate mockgen -source service.go -destination service_mock.go -package transferservice
type Repo interface {
	Get(ctx context.Context, id uuid.UUID) (*ledger.Account, error)
}

// Service facilitates transfer service layer logic.
type Service struct {
	repo Repo
}

// New return transfer service struct to manage transfer bussines logic.
func New(ar Repo) *Service {
	return &Service{repo: ar}
}

// Transfer moves the given amount from one account to the other and returns
// the resulting state of both sides.
func (s *Service) Transfer(ctx context.Context, fromAccountID, toAccountID uuid.UUID, amount string) (ledger.TransferResult, error) {
	l := zerolog.Ctx(ctx)

	amountDecimal, err := decimal.NewFromString(amount)
	if err != nil {
		l.Info().Err(err).Send()
		return ledger.TransferResult{}, ledger.ErrInvalidAmount
	}

	fromAccount, err := s.repo.Get(ctx, fromAccountID)
	if err != nil {
		return ledger.TransferResult{}, err
	}

	toAccount, err := s.repo.Get(ctx, toAccountID)
	if err != nil {
		return ledger.TransferResult{}, err
	}

	return fromAccount.TransferTo(ctx, toAccount, amountDecimal)
}
