package models

import "time"

// Sale payment status values.
const (
	PaymentStatusPaid      = "paid"
	PaymentStatusPending   = "pending"
	PaymentStatusCancelled = "cancelled"
)

// Sale is a finalized transaction record. It is immutable once created;
// its line items are snapshots decoupled from the live menu so later
// menu edits or deletions do not alter past bills.
type Sale struct {
	ID            int64      `json:"id" db:"id"`
	BillNumber    string     `json:"bill_number" db:"bill_number"`
	RoomID        int64      `json:"room_id" db:"room_id"`
	CustomerCount int        `json:"customer_count" db:"customer_count"`
	Subtotal      int64      `json:"subtotal" db:"subtotal"`
	TaxAmount     int64      `json:"tax_amount" db:"tax_amount"`
	ServiceCharge int64      `json:"service_charge" db:"service_charge"`
	Discount      int64      `json:"discount" db:"discount"`
	TotalAmount   int64      `json:"total_amount" db:"total_amount"`
	PaymentMethod string     `json:"payment_method" db:"payment_method"`
	PaymentStatus string     `json:"payment_status" db:"payment_status"`
	StaffID       *int64     `json:"staff_id,omitempty" db:"staff_id"`
	SaleTime      time.Time  `json:"sale_time" db:"sale_time"`
	Notes         *string    `json:"notes,omitempty" db:"notes"`
	RoomName      *string    `json:"room_name,omitempty"`
	StaffName     *string    `json:"staff_name,omitempty"`
	Items         []SaleItem `json:"items,omitempty"`
}

// SaleItem is an immutable snapshot of one sold line.
type SaleItem struct {
	ID         int64  `json:"id" db:"id"`
	SaleID     int64  `json:"sale_id" db:"sale_id"`
	MenuItemID int64  `json:"menu_item_id" db:"menu_item_id"`
	ItemName   string `json:"item_name" db:"item_name"`
	Quantity   int    `json:"quantity" db:"quantity"`
	UnitPrice  int64  `json:"unit_price" db:"unit_price"`
	TotalPrice int64  `json:"total_price" db:"total_price"`
}

// SaleFilters defines the available filters for querying sales.
type SaleFilters struct {
	RoomID   *int64  `form:"room_id"`
	StaffID  *int64  `form:"staff_id"`
	Date     *string `form:"date"` // Expected format YYYY-MM-DD
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}
