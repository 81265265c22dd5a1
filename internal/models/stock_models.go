package models

import "time"

// Stock transaction types.
const (
	StockTxPurchase   = "purchase"
	StockTxSale       = "sale"
	StockTxAdjustment = "adjustment"
	StockTxWastage    = "wastage"
)

// StockTransaction is an append-only audit entry for a stock change.
// Quantity is a signed delta. Current stock lives denormalized on
// MenuItem and is updated alongside, not derived from the ledger.
type StockTransaction struct {
	ID              int64     `json:"id" db:"id"`
	MenuItemID      int64     `json:"menu_item_id" db:"menu_item_id" binding:"required"`
	TransactionType string    `json:"transaction_type" db:"transaction_type" binding:"required"`
	Quantity        int       `json:"quantity" db:"quantity"`
	UnitPrice       int64     `json:"unit_price" db:"unit_price"`
	TotalAmount     int64     `json:"total_amount" db:"total_amount"`
	ReferenceID     *int64    `json:"reference_id,omitempty" db:"reference_id"`
	StaffID         *int64    `json:"staff_id,omitempty" db:"staff_id"`
	Notes           *string   `json:"notes,omitempty" db:"notes"`
	TransactionDate time.Time `json:"transaction_date" db:"transaction_date"`
	ItemName        *string   `json:"item_name,omitempty"`
	StaffName       *string   `json:"staff_name,omitempty"`
}

// StockTransactionFilters defines the available filters for the ledger.
type StockTransactionFilters struct {
	MenuItemID      *int64  `form:"menu_item_id"`
	StaffID         *int64  `form:"staff_id"`
	TransactionType *string `form:"transaction_type"`
	Page            int     `form:"page"`
	PageSize        int     `form:"page_size"`
}
