package models

import "time"

// Room status values.
const (
	RoomStatusAvailable = "available"
	RoomStatusOccupied  = "occupied"
	RoomStatusReserved  = "reserved"
	RoomStatusCleaning  = "cleaning"
	RoomStatusInactive  = "inactive"
)

// Room is a karaoke room. Status transitions are caller-driven: saving
// a draft order marks the room occupied, checkout returns it to
// available. Soft deletion (status inactive) preserves sale references.
type Room struct {
	ID              int64     `json:"id" db:"id"`
	RoomNumber      string    `json:"room_number" db:"room_number"`
	RoomName        string    `json:"room_name" db:"room_name" binding:"required"`
	RoomType        string    `json:"room_type" db:"room_type"`
	HourlyRate      int64     `json:"hourly_rate" db:"hourly_rate"`
	Status          string    `json:"status" db:"status"`
	Capacity        int       `json:"capacity" db:"capacity"`
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
	HasPendingOrder bool      `json:"has_pending_order"`
}
