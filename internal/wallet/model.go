package wallet

import "time"

// Transaction types. The ledger never stores anything else.
const (
	TypeDeposit = "deposit"
	TypeBooking = "booking"
	TypeRefund  = "refund"
)

type Wallet struct {
	ID        int       `db:"id" json:"id"`
	UserID    int       `db:"user_id" json:"user_id"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is one append-only ledger entry. Amount is signed: negative
// for debits, positive for credits. BalanceAfter is the cached running
// total written in the same database transaction as the entry.
type Transaction struct {
	ID           int       `db:"id" json:"id"`
	UserID       int       `db:"user_id" json:"user_id"`
	Amount       int64     `db:"amount" json:"amount"`
	Type         string    `db:"type" json:"type"`
	Description  string    `db:"description" json:"description"`
	BalanceAfter int64     `db:"balance_after" json:"balance_after"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type RechargeRequest struct {
	Amount     int64  `json:"amount" binding:"required,gt=0"`
	PaymentRef string `json:"payment_ref" binding:"required"`
}

type BalanceResponse struct {
	Balance int64 `json:"balance"`
}
