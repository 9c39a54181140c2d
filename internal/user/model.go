package user

import "time"

// User is the internal profile row. ID is the internal key every other
// table references; AuthUID is the external auth identity it maps from.
type User struct {
	ID           int       `db:"id" json:"id"`
	AuthUID      string    `db:"auth_uid" json:"auth_uid"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	Email        string    `db:"email" json:"email"`
	Role         string    `db:"role" json:"-"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type RegisterRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ProfileResponse is the profile plus the derived wallet balance.
type ProfileResponse struct {
	User    User  `json:"user"`
	Balance int64 `json:"wallet_balance"`
}
