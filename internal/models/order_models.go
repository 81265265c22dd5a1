package models

import "time"

// RoomOrder status values.
const (
	RoomOrderStatusPending   = "pending"
	RoomOrderStatusCompleted = "completed"
	RoomOrderStatusCancelled = "cancelled"
)

// RoomOrder is the mutable draft order for a room. At most one draft
// exists per room (unique constraint on room_id); saving again replaces
// the previous draft, last write wins. The draft is consumed by
// checkout or removed by cancellation.
type RoomOrder struct {
	ID            int64           `json:"id" db:"id"`
	RoomID        int64           `json:"room_id" db:"room_id"`
	Subtotal      int64           `json:"subtotal" db:"subtotal"`
	Tax           int64           `json:"tax" db:"tax"`
	ServiceCharge int64           `json:"service_charge" db:"service_charge"`
	TotalAmount   int64           `json:"total_amount" db:"total_amount"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`
	Items         []RoomOrderItem `json:"items"`
}

// RoomOrderItem is a normalized draft line item. Name and unit price
// are snapshots taken when the line was added; they are not validated
// against the live menu until checkout.
type RoomOrderItem struct {
	ID          int64  `json:"id" db:"id"`
	RoomOrderID int64  `json:"room_order_id" db:"room_order_id"`
	MenuItemID  int64  `json:"menu_item_id" db:"menu_item_id"`
	ItemName    string `json:"item_name" db:"item_name"`
	Quantity    int    `json:"quantity" db:"quantity"`
	UnitPrice   int64  `json:"unit_price" db:"unit_price"`
	Position    int    `json:"position" db:"position"`
}
