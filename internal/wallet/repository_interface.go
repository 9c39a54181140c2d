package wallet

import "context"

type Repository interface {
	Debit(ctx context.Context, userID int, amount int64, txType, description string) error
	Credit(ctx context.Context, userID int, amount int64, txType, description string) error
	Balance(ctx context.Context, userID int) (int64, error)
	Transactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error)
}
