package models

import "time"

// MenuItem status values.
const (
	MenuItemStatusActive     = "active"
	MenuItemStatusInactive   = "inactive"
	MenuItemStatusOutOfStock = "out_of_stock"
)

// Category groups menu items for the sale page.
type Category struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name" binding:"required"`
	DisplayName *string `json:"display_name,omitempty" db:"display_name"`
	SortOrder   int     `json:"sort_order" db:"sort_order"`
}

// MenuItem is a sellable food/drink entry. All monetary values are
// integers in the smallest currency unit. Stock is only mutated through
// stock transactions (purchase, sale, adjustment, wastage).
type MenuItem struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	CategoryID  *int64    `json:"category_id,omitempty" db:"category_id"`
	SalePrice   int64     `json:"sale_price" db:"sale_price"`
	CostPrice   int64     `json:"cost_price" db:"cost_price"`
	Stock       int       `json:"stock" db:"stock"`
	MinStock    int       `json:"min_stock" db:"min_stock"`
	Unit        string    `json:"unit" db:"unit"`
	Status      string    `json:"status" db:"status"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
	Category    *Category `json:"category,omitempty"`
}
