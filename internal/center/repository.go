package center

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrCenterNotFound = errors.New("center not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// newCenterID mints a human-facing center id like CTR-2026-4F9A.
func newCenterID() string {
	frag := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("CTR-%d-%s", time.Now().Year(), frag)
}

func (r *repository) Create(ctx context.Context, id, name, address string, latitude, longitude float64) (*Center, error) {
	if id == "" {
		id = newCenterID()
	}

	query := `
		INSERT INTO centers (id, name, address, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, address, latitude, longitude, created_at
	`

	var c Center
	err := r.db.GetContext(ctx, &c, query, id, name, address, latitude, longitude)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Center, error) {
	query := `
		SELECT id, name, address, latitude, longitude, created_at
		FROM centers
		WHERE id = $1
	`

	var c Center
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCenterNotFound
	}
	if err != nil {
		return nil, err
	}

	return &c, nil
}

func (r *repository) List(ctx context.Context) ([]Center, error) {
	query := `
		SELECT id, name, address, latitude, longitude, created_at
		FROM centers
		ORDER BY name
	`

	var centers []Center
	err := r.db.SelectContext(ctx, &centers, query)
	if err != nil {
		return nil, err
	}

	return centers, nil
}
