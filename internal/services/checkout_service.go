package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ktv_pos_backend/internal/models"
	"ktv_pos_backend/internal/repositories"

	"github.com/google/uuid"
)

// --- Custom Service Errors ---
var (
	ErrInsufficientStock = errors.New("insufficient stock for item")
	ErrInvalidDiscount   = errors.New("discount exceeds order total")
	ErrDuplicateBill     = errors.New("bill number already exists")
)

// --- Data Transfer Objects (DTOs) ---

// CheckoutRequest settles the pending order for a room. The items and
// totals come from the stored draft, never from the request body.
type CheckoutRequest struct {
	PaymentMethod string  `json:"payment_method" binding:"required"`
	CustomerCount int     `json:"customer_count" binding:"gte=0"`
	Discount      int64   `json:"discount" binding:"gte=0"`
	Notes         *string `json:"notes"`
}

// --- CheckoutService Interface ---
type CheckoutService interface {
	Checkout(roomID int64, req CheckoutRequest, staffID *int64) (*models.Sale, error)
}

// --- checkoutService Implementation ---
type checkoutService struct {
	roomRepo      repositories.RoomRepository
	roomOrderRepo repositories.RoomOrderRepository
	catalogRepo   repositories.CatalogRepository
	saleRepo      repositories.SaleRepository
	stockTxRepo   repositories.StockTransactionRepository
	db            *sql.DB
}

// NewCheckoutService creates a new instance of CheckoutService.
func NewCheckoutService(
	rr repositories.RoomRepository,
	ror repositories.RoomOrderRepository,
	cr repositories.CatalogRepository,
	sr repositories.SaleRepository,
	str repositories.StockTransactionRepository,
	db *sql.DB,
) CheckoutService {
	return &checkoutService{
		roomRepo:      rr,
		roomOrderRepo: ror,
		catalogRepo:   cr,
		saleRepo:      sr,
		stockTxRepo:   str,
		db:            db,
	}
}

// generateBillNumber builds a bill number like SW-20260830-3FA2C1.
func generateBillNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("SW-%s-%s", now.Format("20060102"), suffix)
}

// Checkout settles the room's pending order: the bill, the line-item
// snapshots, the stock decrements, the ledger entries, the draft
// removal, and the room release all commit together or not at all.
// Stock rows are locked before checking quantities so two concurrent
// checkouts against the same item cannot both pass the check.
func (s *checkoutService) Checkout(roomID int64, req CheckoutRequest, staffID *int64) (*models.Sale, error) {
	room, err := s.roomRepo.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to fetch room for checkout: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start checkout transaction: %w", err)
	}
	defer tx.Rollback()

	// The draft is read inside the transaction so a save landing after
	// this point cannot leave checkout settling stale lines.
	order, err := s.roomOrderRepo.GetOrderByRoomID(tx, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to fetch pending order: %w", err)
	}
	if len(order.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	grandTotal := order.TotalAmount - req.Discount
	if grandTotal < 0 {
		return nil, fmt.Errorf("%w: discount %d against total %d", ErrInvalidDiscount, req.Discount, order.TotalAmount)
	}

	now := time.Now()
	sale := models.Sale{
		BillNumber:    generateBillNumber(now),
		RoomID:        roomID,
		CustomerCount: req.CustomerCount,
		Subtotal:      order.Subtotal,
		TaxAmount:     order.Tax,
		ServiceCharge: order.ServiceCharge,
		Discount:      req.Discount,
		TotalAmount:   grandTotal,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusPaid,
		StaffID:       staffID,
		SaleTime:      now,
		Notes:         req.Notes,
	}

	saleID, err := s.saleRepo.CreateSale(tx, &sale)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrDuplicateBill
		}
		return nil, fmt.Errorf("failed to create sale record (room %s): %w", room.RoomNumber, err)
	}

	for _, line := range order.Items {
		stock, itemName, err := s.catalogRepo.GetItemStockForUpdate(tx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s (ID: %d) no longer exists", ErrItemNotFound, line.ItemName, line.MenuItemID)
			}
			return nil, fmt.Errorf("failed to read stock for item %d: %w", line.MenuItemID, err)
		}
		if stock < line.Quantity {
			return nil, fmt.Errorf("%w %s (ID: %d). Requested: %d, Available: %d",
				ErrInsufficientStock, itemName, line.MenuItemID, line.Quantity, stock)
		}

		saleItem := models.SaleItem{
			SaleID:     saleID,
			MenuItemID: line.MenuItemID,
			ItemName:   itemName,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: int64(line.Quantity) * line.UnitPrice,
		}
		if _, err := s.saleRepo.CreateSaleItem(tx, &saleItem); err != nil {
			return nil, fmt.Errorf("failed to create sale item (menu_item_id: %d): %w", line.MenuItemID, err)
		}

		if _, err := s.catalogRepo.UpdateStock(tx, line.MenuItemID, -line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to decrement stock for item %s (ID: %d): %w", itemName, line.MenuItemID, err)
		}

		ledgerEntry := models.StockTransaction{
			MenuItemID:      line.MenuItemID,
			TransactionType: models.StockTxSale,
			Quantity:        -line.Quantity,
			UnitPrice:       line.UnitPrice,
			TotalAmount:     int64(line.Quantity) * line.UnitPrice,
			ReferenceID:     &saleID,
			StaffID:         staffID,
			Notes:           strPtr(fmt.Sprintf("bill %s", sale.BillNumber)),
			TransactionDate: now,
		}
		if _, err := s.stockTxRepo.CreateTransaction(tx, &ledgerEntry); err != nil {
			return nil, fmt.Errorf("failed to record stock ledger entry for item %d: %w", line.MenuItemID, err)
		}
	}

	if _, err := s.roomOrderRepo.DeleteOrderByRoomID(tx, roomID); err != nil {
		return nil, fmt.Errorf("failed to clear pending order: %w", err)
	}
	if err := s.roomRepo.UpdateRoomStatus(tx, roomID, models.RoomStatusAvailable); err != nil {
		return nil, fmt.Errorf("failed to free room after checkout: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout transaction: %w", err)
	}

	return s.saleRepo.GetSaleByID(saleID)
}
