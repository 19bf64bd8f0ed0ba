// Package accountrepo manages the repository layer of accounts.
package accountrepo

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/ledger"
)

// ErrAccountNotFound indicates that the account is not found.
var ErrAccountNotFound = errors.New("account not found")

// RepoMem holds every ledger account owned by the server instance.
//
// Only the collection index is guarded here; each account's state stays
// behind the account's own lock, so holding the index lock never waits on an
// in-flight balance operation.
type RepoMem struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*ledger.Account
	order    []uuid.UUID
}

// NewRepoMem returns an empty account RepoMem.
func NewRepoMem() *RepoMem {
	return &RepoMem{
		accounts: make(map[uuid.UUID]*ledger.Account),
	}
}

// Create creates an account with the given display name and then returns it.
func (r *RepoMem) Create(ctx context.Context, name string) (*ledger.Account, error) {
	account := ledger.NewAccount(name)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.accounts[account.ID()] = account
	r.order = append(r.order, account.ID())

	return account, nil
}

// Get returns the account with the given id.
func (r *RepoMem) Get(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	l := zerolog.Ctx(ctx)

	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		l.Info().Err(ErrAccountNotFound).Send()
		return nil, ErrAccountNotFound
	}

	return account, nil
}

// List returns up to limit accounts in creation order, skipping the first
// offset of them.
func (r *RepoMem) List(ctx context.Context, limit, offset int32) ([]*ledger.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := []*ledger.Account{}

	if offset < 0 {
		return items, nil
	}

	for i := int(offset); i < len(r.order) && len(items) < int(limit); i++ {
		items = append(items, r.accounts[r.order[i]])
	}

	return items, nil
}
