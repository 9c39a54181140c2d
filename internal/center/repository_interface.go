package center

import "context"

type Repository interface {
	Create(ctx context.Context, id, name, address string, latitude, longitude float64) (*Center, error)
	GetByID(ctx context.Context, id string) (*Center, error)
	List(ctx context.Context) ([]Center, error)
}
