package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrUserNotFound        = errors.New("user profile not found")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// Debit appends one negative entry. The amount is a positive magnitude;
// the sign is applied here.
func (r *repository) Debit(ctx context.Context, userID int, amount int64, txType, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return r.addEntry(ctx, userID, -amount, txType, description)
}

// Credit appends one positive entry.
func (r *repository) Credit(ctx context.Context, userID int, amount int64, txType, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	return r.addEntry(ctx, userID, amount, txType, description)
}

// addEntry locks the wallet row, moves the cached balance and appends the
// ledger entry inside one database transaction, so the cached total can
// never drift from the ledger sum.
func (r *repository) addEntry(ctx context.Context, userID int, amount int64, txType, description string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var w Wallet
	err = tx.QueryRowxContext(ctx,
		`SELECT id, user_id, balance, updated_at
		 FROM wallets
		 WHERE user_id = $1
		 FOR UPDATE`,
		userID,
	).StructScan(&w)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		var exists bool
		if err := tx.GetContext(ctx, &exists,
			`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID); err != nil {
			return err
		}
		if !exists {
			return ErrUserNotFound
		}

		err = tx.QueryRowxContext(ctx,
			`INSERT INTO wallets (user_id)
			 VALUES ($1)
			 RETURNING id, user_id, balance, updated_at`,
			userID,
		).StructScan(&w)
		if err != nil {
			return err
		}
	}

	newBalance := w.Balance + amount
	if newBalance < 0 {
		return ErrInsufficientBalance
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance = $1, updated_at = NOW()
		 WHERE id = $2`,
		newBalance, w.ID,
	)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO wallet_transactions (user_id, amount, type, description, balance_after)
		 VALUES ($1, $2, $3, $4, $5)`,
		userID, amount, txType, description, newBalance,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// Balance returns the cached running total. Users without a wallet row yet
// have a zero balance; users without a profile row fail ErrUserNotFound.
func (r *repository) Balance(ctx context.Context, userID int) (int64, error) {
	var balance int64
	err := r.db.GetContext(ctx, &balance,
		`SELECT balance FROM wallets WHERE user_id = $1`, userID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID); err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrUserNotFound
	}

	return 0, nil
}

func (r *repository) Transactions(ctx context.Context, userID int, limit, offset int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var txs []Transaction
	err := r.db.SelectContext(ctx, &txs, `
		SELECT id, user_id, amount, type, description, balance_after, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	return txs, nil
}
