package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrUserNotFound = errors.New("user profile not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, authUID, displayName, phoneNumber, email, passwordHash, role string) (*User, error) {
	query := `
		INSERT INTO users (auth_uid, display_name, phone_number, email, password_hash, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, auth_uid, display_name, phone_number, email, password_hash, role, created_at
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, authUID, displayName, phoneNumber, email, passwordHash, role)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByAuthUID(ctx context.Context, authUID string) (*User, error) {
	query := `
		SELECT id, auth_uid, display_name, phone_number, email, password_hash, role, created_at
		FROM users
		WHERE auth_uid = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, authUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT id, auth_uid, display_name, phone_number, email, password_hash, role, created_at
		FROM users
		WHERE email = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, auth_uid, display_name, phone_number, email, password_hash, role, created_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, email)
	if err != nil {
		return false, err
	}

	return exists, nil
}
