package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ktv_pos_backend/internal/models"
	"ktv_pos_backend/internal/repositories"
)

// --- Custom Service Errors ---
var (
	ErrInvalidStockTxType = errors.New("invalid stock transaction type")
	ErrStockBelowZero     = errors.New("stock change would drop stock below zero")
)

// --- Data Transfer Objects (DTOs) ---

// RecordStockTransactionRequest adds a manual entry to the stock ledger.
// Sales entries are written only by checkout and cannot be created here.
// Purchase and wastage quantities are sent positive (wastage is applied
// as a negative delta); adjustments carry an explicit signed delta.
type RecordStockTransactionRequest struct {
	MenuItemID      int64   `json:"menu_item_id" binding:"required"`
	TransactionType string  `json:"transaction_type" binding:"required"`
	Quantity        int     `json:"quantity" binding:"required"`
	UnitPrice       int64   `json:"unit_price" binding:"gte=0"`
	Notes           *string `json:"notes"`
}

// --- StockService Interface ---
type StockService interface {
	RecordTransaction(req RecordStockTransactionRequest, staffID *int64) (*models.StockTransaction, error)
	GetTransactions(filters models.StockTransactionFilters) ([]models.StockTransaction, int, error)
}

// --- stockService Implementation ---
type stockService struct {
	catalogRepo repositories.CatalogRepository
	stockTxRepo repositories.StockTransactionRepository
	db          *sql.DB
}

// NewStockService creates a new instance of StockService.
func NewStockService(
	cr repositories.CatalogRepository,
	str repositories.StockTransactionRepository,
	db *sql.DB,
) StockService {
	return &stockService{
		catalogRepo: cr,
		stockTxRepo: str,
		db:          db,
	}
}

// RecordTransaction applies a manual stock movement and writes the
// matching ledger entry in one transaction.
func (s *stockService) RecordTransaction(req RecordStockTransactionRequest, staffID *int64) (*models.StockTransaction, error) {
	var delta int
	switch req.TransactionType {
	case models.StockTxPurchase:
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: purchase quantity must be positive", ErrValidation)
		}
		delta = req.Quantity
	case models.StockTxWastage:
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: wastage quantity must be positive", ErrValidation)
		}
		delta = -req.Quantity
	case models.StockTxAdjustment:
		if req.Quantity == 0 {
			return nil, fmt.Errorf("%w: adjustment quantity cannot be zero", ErrValidation)
		}
		delta = req.Quantity
	case models.StockTxSale:
		return nil, fmt.Errorf("%w: sale entries are created by checkout only", ErrInvalidStockTxType)
	default:
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidStockTxType, req.TransactionType)
	}

	if _, err := s.catalogRepo.GetItemByID(req.MenuItemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to verify menu item: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := s.catalogRepo.UpdateStock(tx, req.MenuItemID, delta); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		if errors.Is(err, repositories.ErrNegativeStock) {
			return nil, fmt.Errorf("%w: item ID %d, delta %d", ErrStockBelowZero, req.MenuItemID, delta)
		}
		return nil, fmt.Errorf("failed to apply stock change: %w", err)
	}

	entry := models.StockTransaction{
		MenuItemID:      req.MenuItemID,
		TransactionType: req.TransactionType,
		Quantity:        delta,
		UnitPrice:       req.UnitPrice,
		TotalAmount:     req.UnitPrice * int64(abs(delta)),
		StaffID:         staffID,
		Notes:           req.Notes,
		TransactionDate: time.Now(),
	}
	if _, err := s.stockTxRepo.CreateTransaction(tx, &entry); err != nil {
		return nil, fmt.Errorf("failed to record stock transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock transaction: %w", err)
	}
	return &entry, nil
}

func (s *stockService) GetTransactions(filters models.StockTransactionFilters) ([]models.StockTransaction, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 50
	}
	transactions, totalCount, err := s.stockTxRepo.GetTransactions(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get stock transactions: %w", err)
	}
	return transactions, totalCount, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
