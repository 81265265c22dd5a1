package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ktv_pos_backend/internal/models"
	"ktv_pos_backend/internal/repositories"
)

// --- Custom Service Errors ---
var (
	ErrValidation       = errors.New("validation error")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInUse    = errors.New("category still has menu items")
	ErrCategoryExists   = errors.New("category name already exists")
	ErrItemNotFound     = errors.New("menu item not found")
	ErrItemInDraftOrder = errors.New("menu item is referenced by a pending room order")
)

// --- Data Transfer Objects (DTOs) ---

type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	DisplayName *string `json:"display_name"`
	SortOrder   int     `json:"sort_order"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"display_name"`
	SortOrder   *int    `json:"sort_order"`
}

type CreateMenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	CategoryID  *int64  `json:"category_id"`
	SalePrice   int64   `json:"sale_price" binding:"required,gte=0"`
	CostPrice   int64   `json:"cost_price" binding:"gte=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	MinStock    int     `json:"min_stock" binding:"gte=0"`
	Unit        string  `json:"unit"`
	Description *string `json:"description"`
}

type UpdateMenuItemRequest struct {
	Name        *string `json:"name"`
	CategoryID  *int64  `json:"category_id"`
	SalePrice   *int64  `json:"sale_price"`
	CostPrice   *int64  `json:"cost_price"`
	Stock       *int    `json:"stock"`
	MinStock    *int    `json:"min_stock"`
	Unit        *string `json:"unit"`
	Status      *string `json:"status"`
	Description *string `json:"description"`
}

// DeleteItemResult reports how a delete request was resolved: items with
// sale history are deactivated rather than removed, so the bill archive
// keeps its references.
type DeleteItemResult struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}

// --- CatalogService Interface ---
type CatalogService interface {
	CreateCategory(req CreateCategoryRequest) (*models.Category, error)
	GetCategories() ([]models.Category, error)
	UpdateCategory(categoryID int64, req UpdateCategoryRequest) (*models.Category, error)
	DeleteCategory(categoryID int64) error

	CreateItem(req CreateMenuItemRequest, staffID *int64) (*models.MenuItem, error)
	GetItems(activeOnly bool, categoryID *int64) ([]models.MenuItem, error)
	GetItemByID(itemID int64) (*models.MenuItem, error)
	UpdateItem(itemID int64, req UpdateMenuItemRequest, staffID *int64) (*models.MenuItem, error)
	DeleteItem(itemID int64) (*DeleteItemResult, error)
}

// --- catalogService Implementation ---
type catalogService struct {
	catalogRepo   repositories.CatalogRepository
	roomOrderRepo repositories.RoomOrderRepository
	saleRepo      repositories.SaleRepository
	stockTxRepo   repositories.StockTransactionRepository
	db            *sql.DB
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(
	cr repositories.CatalogRepository,
	ror repositories.RoomOrderRepository,
	sr repositories.SaleRepository,
	str repositories.StockTransactionRepository,
	db *sql.DB,
) CatalogService {
	return &catalogService{
		catalogRepo:   cr,
		roomOrderRepo: ror,
		saleRepo:      sr,
		stockTxRepo:   str,
		db:            db,
	}
}

// --- Category Methods ---

func (s *catalogService) CreateCategory(req CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	}

	category := models.Category{
		Name:        name,
		DisplayName: req.DisplayName,
		SortOrder:   req.SortOrder,
	}
	if _, err := s.catalogRepo.CreateCategory(s.db, &category); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

func (s *catalogService) GetCategories() ([]models.Category, error) {
	categories, err := s.catalogRepo.GetCategories()
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) UpdateCategory(categoryID int64, req UpdateCategoryRequest) (*models.Category, error) {
	category, err := s.catalogRepo.GetCategoryByID(categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to fetch category for update: %w", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: category name cannot be empty if provided", ErrValidation)
		}
		category.Name = name
	}
	if req.DisplayName != nil {
		category.DisplayName = req.DisplayName
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}

	if err := s.catalogRepo.UpdateCategory(s.db, category); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category. Categories that still hold menu
// items are rejected; items must be moved or removed first.
func (s *catalogService) DeleteCategory(categoryID int64) error {
	count, err := s.catalogRepo.CountItemsInCategory(categoryID)
	if err != nil {
		return fmt.Errorf("failed to check category usage: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: %d item(s) attached", ErrCategoryInUse, count)
	}

	if err := s.catalogRepo.DeleteCategory(s.db, categoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// --- MenuItem Methods ---

// CreateItem creates a menu item. A non-zero opening stock is recorded
// in the stock ledger as a purchase so the ledger reconstructs the
// on-hand quantity from day one.
func (s *catalogService) CreateItem(req CreateMenuItemRequest, staffID *int64) (*models.MenuItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: item name cannot be empty", ErrValidation)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
	}

	if req.CategoryID != nil {
		if _, err := s.catalogRepo.GetCategoryByID(*req.CategoryID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to verify category: %w", err)
		}
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}

	item := models.MenuItem{
		Name:        name,
		CategoryID:  req.CategoryID,
		SalePrice:   req.SalePrice,
		CostPrice:   req.CostPrice,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		Unit:        unit,
		Status:      models.MenuItemStatusActive,
		Description: req.Description,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	itemID, err := s.catalogRepo.CreateItem(tx, &item)
	if err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}

	if req.Stock > 0 {
		opening := models.StockTransaction{
			MenuItemID:      itemID,
			TransactionType: models.StockTxPurchase,
			Quantity:        req.Stock,
			UnitPrice:       req.CostPrice,
			TotalAmount:     req.CostPrice * int64(req.Stock),
			StaffID:         staffID,
			Notes:           strPtr("opening stock"),
			TransactionDate: time.Now(),
		}
		if _, err := s.stockTxRepo.CreateTransaction(tx, &opening); err != nil {
			return nil, fmt.Errorf("failed to record opening stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit menu item transaction: %w", err)
	}
	return s.catalogRepo.GetItemByID(itemID)
}

func (s *catalogService) GetItems(activeOnly bool, categoryID *int64) ([]models.MenuItem, error) {
	items, err := s.catalogRepo.GetItems(activeOnly, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, nil
}

func (s *catalogService) GetItemByID(itemID int64) (*models.MenuItem, error) {
	item, err := s.catalogRepo.GetItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

// UpdateItem applies a partial update. A direct stock edit is treated as
// a manual correction and logged as an adjustment in the ledger.
func (s *catalogService) UpdateItem(itemID int64, req UpdateMenuItemRequest, staffID *int64) (*models.MenuItem, error) {
	item, err := s.catalogRepo.GetItemByID(itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to fetch menu item for update: %w", err)
	}

	previousStock := item.Stock

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: item name cannot be empty if provided", ErrValidation)
		}
		item.Name = name
	}
	if req.CategoryID != nil {
		if _, err := s.catalogRepo.GetCategoryByID(*req.CategoryID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to verify category: %w", err)
		}
		item.CategoryID = req.CategoryID
	}
	if req.SalePrice != nil {
		if *req.SalePrice < 0 {
			return nil, fmt.Errorf("%w: sale price cannot be negative", ErrValidation)
		}
		item.SalePrice = *req.SalePrice
	}
	if req.CostPrice != nil {
		if *req.CostPrice < 0 {
			return nil, fmt.Errorf("%w: cost price cannot be negative", ErrValidation)
		}
		item.CostPrice = *req.CostPrice
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("%w: stock cannot be negative", ErrValidation)
		}
		item.Stock = *req.Stock
	}
	if req.MinStock != nil {
		if *req.MinStock < 0 {
			return nil, fmt.Errorf("%w: minimum stock cannot be negative", ErrValidation)
		}
		item.MinStock = *req.MinStock
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.Status != nil {
		if !isValidMenuItemStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown item status '%s'", ErrValidation, *req.Status)
		}
		item.Status = *req.Status
	}
	if req.Description != nil {
		item.Description = req.Description
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.catalogRepo.UpdateItem(tx, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}

	if req.Stock != nil && *req.Stock != previousStock {
		delta := *req.Stock - previousStock
		adjustment := models.StockTransaction{
			MenuItemID:      itemID,
			TransactionType: models.StockTxAdjustment,
			Quantity:        delta,
			UnitPrice:       item.CostPrice,
			TotalAmount:     item.CostPrice * int64(delta),
			StaffID:         staffID,
			Notes:           strPtr(fmt.Sprintf("manual stock edit: %d -> %d", previousStock, *req.Stock)),
			TransactionDate: time.Now(),
		}
		if _, err := s.stockTxRepo.CreateTransaction(tx, &adjustment); err != nil {
			return nil, fmt.Errorf("failed to record stock adjustment: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit menu item update: %w", err)
	}
	return s.catalogRepo.GetItemByID(itemID)
}

// DeleteItem resolves a delete request against the item's references:
// an item sitting in a pending draft cannot be removed at all, an item
// with sale history is deactivated, and an unreferenced item is removed
// outright.
func (s *catalogService) DeleteItem(itemID int64) (*DeleteItemResult, error) {
	if _, err := s.catalogRepo.GetItemByID(itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to fetch menu item for delete: %w", err)
	}

	inDraft, err := s.roomOrderRepo.ItemReferencedByPendingOrder(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check draft references: %w", err)
	}
	if inDraft {
		return nil, ErrItemInDraftOrder
	}

	saleCount, err := s.saleRepo.CountSaleItemsByMenuItem(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to check sale history: %w", err)
	}
	if saleCount > 0 {
		if err := s.catalogRepo.DeactivateItem(s.db, itemID); err != nil {
			return nil, fmt.Errorf("failed to deactivate menu item: %w", err)
		}
		return &DeleteItemResult{Deactivated: true}, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start menu item delete: %w", err)
	}
	defer tx.Rollback()

	// The stock ledger references the item, so the hard delete takes the
	// item's purchase/adjustment/wastage rows with it. Items with sale
	// history never reach this branch.
	if err := s.stockTxRepo.DeleteTransactionsByMenuItem(tx, itemID); err != nil {
		return nil, fmt.Errorf("failed to clear stock ledger for menu item: %w", err)
	}
	if err := s.catalogRepo.DeleteItem(tx, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to delete menu item: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit menu item delete: %w", err)
	}
	return &DeleteItemResult{Deleted: true}, nil
}

func isValidMenuItemStatus(status string) bool {
	switch status {
	case models.MenuItemStatusActive, models.MenuItemStatusInactive, models.MenuItemStatusOutOfStock:
		return true
	default:
		return false
	}
}

func strPtr(s string) *string { return &s }
