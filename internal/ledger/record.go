package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the type of a committed balance-changing event.
type Kind string

// Constants for all record kinds.
const (
	KindDeposit     Kind = "deposit"
	KindWithdraw    Kind = "withdraw"
	KindTransferOut Kind = "transfer_out"
	KindTransferIn  Kind = "transfer_in"
)

// Record describes one committed balance-changing event of an account.
//
// A record is immutable once appended. It belongs to the history of exactly
// one account; a transfer appends an independent record on each side.
type Record struct {
	Kind         Kind            `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`        // positive magnitude, never the signed delta
	BalanceAfter decimal.Decimal `json:"balance_after"` // owning account's balance right after the event
	Note         string          `json:"note"`
	CreatedAt    time.Time       `json:"created_at"`
}
