package user

import "context"

type Repository interface {
	Create(ctx context.Context, authUID, displayName, phoneNumber, email, passwordHash, role string) (*User, error)
	FindByAuthUID(ctx context.Context, authUID string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}
