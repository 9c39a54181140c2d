package center

import "time"

// Center is a fitness center row. The core reads it for display and for
// QR payload matching; it never mutates centers outside admin endpoints.
type Center struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateCenterRequest struct {
	ID        string  `json:"id"`
	Name      string  `json:"name" binding:"required"`
	Address   string  `json:"address" binding:"required"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type QRPayloadResponse struct {
	CenterID string `json:"center_id"`
	Payload  string `json:"payload"`
}
