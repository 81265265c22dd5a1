package services

import (
	"database/sql"
	"errors"
	"fmt"

	"ktv_pos_backend/internal/models"
	"ktv_pos_backend/internal/repositories"
)

// --- Custom Service Errors ---
var (
	ErrDraftNotFound   = errors.New("no pending order for room")
	ErrEmptyOrder      = errors.New("order must contain at least one item")
	ErrItemUnavailable = errors.New("menu item is not available for ordering")
)

// --- Data Transfer Objects (DTOs) ---

// SaveOrderItemRequest is one line of a draft order. Prices are never
// taken from the client; they are read from the catalog at save time.
type SaveOrderItemRequest struct {
	MenuItemID int64 `json:"menu_item_id" binding:"required"`
	Quantity   int   `json:"quantity" binding:"required,gt=0"`
}

// SaveOrderRequest replaces the draft for a room in full. The saved
// draft is whatever the client last sent; there is no line-level merge.
type SaveOrderRequest struct {
	Items              []SaveOrderItemRequest `json:"items" binding:"required,dive"`
	ApplyTax           bool                   `json:"apply_tax"`
	ApplyServiceCharge bool                   `json:"apply_service_charge"`
}

// --- RoomOrderService Interface ---
type RoomOrderService interface {
	SaveOrder(roomID int64, req SaveOrderRequest) (*models.RoomOrder, error)
	GetOrderByRoomID(roomID int64) (*models.RoomOrder, error)
	CancelOrder(roomID int64) error
}

// --- roomOrderService Implementation ---
type roomOrderService struct {
	roomRepo      repositories.RoomRepository
	roomOrderRepo repositories.RoomOrderRepository
	catalogRepo   repositories.CatalogRepository
	db            *sql.DB
}

// NewRoomOrderService creates a new instance of RoomOrderService.
func NewRoomOrderService(
	rr repositories.RoomRepository,
	ror repositories.RoomOrderRepository,
	cr repositories.CatalogRepository,
	db *sql.DB,
) RoomOrderService {
	return &roomOrderService{
		roomRepo:      rr,
		roomOrderRepo: ror,
		catalogRepo:   cr,
		db:            db,
	}
}

// SaveOrder creates or overwrites the room's draft and marks the room
// occupied. The draft, its lines, and the room status move together in
// one transaction.
func (s *roomOrderService) SaveOrder(roomID int64, req SaveOrderRequest) (*models.RoomOrder, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	room, err := s.roomRepo.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to fetch room for order: %w", err)
	}
	if room.Status == models.RoomStatusInactive {
		return nil, fmt.Errorf("%w: room %s is inactive", ErrValidation, room.RoomNumber)
	}

	lines := make([]models.RoomOrderItem, 0, len(req.Items))
	priceLines := make([]OrderLine, 0, len(req.Items))
	for _, itemReq := range req.Items {
		if itemReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for item ID %d must be positive", ErrValidation, itemReq.MenuItemID)
		}
		item, err := s.catalogRepo.GetItemByID(itemReq.MenuItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: item ID %d", ErrItemNotFound, itemReq.MenuItemID)
			}
			return nil, fmt.Errorf("failed to fetch menu item %d: %w", itemReq.MenuItemID, err)
		}
		if item.Status != models.MenuItemStatusActive {
			return nil, fmt.Errorf("%w: %s (ID: %d)", ErrItemUnavailable, item.Name, item.ID)
		}
		lines = append(lines, models.RoomOrderItem{
			MenuItemID: item.ID,
			ItemName:   item.Name,
			Quantity:   itemReq.Quantity,
			UnitPrice:  item.SalePrice,
		})
		priceLines = append(priceLines, OrderLine{Quantity: itemReq.Quantity, UnitPrice: item.SalePrice})
	}

	totals := CalculateOrderTotals(priceLines, req.ApplyTax, req.ApplyServiceCharge)

	order := models.RoomOrder{
		RoomID:        roomID,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		ServiceCharge: totals.ServiceCharge,
		TotalAmount:   totals.Total,
		Status:        models.RoomOrderStatusPending,
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	orderID, err := s.roomOrderRepo.UpsertOrder(tx, &order)
	if err != nil {
		return nil, fmt.Errorf("failed to save room order: %w", err)
	}
	if err := s.roomOrderRepo.ReplaceOrderItems(tx, orderID, lines); err != nil {
		return nil, fmt.Errorf("failed to save order items: %w", err)
	}
	if room.Status != models.RoomStatusOccupied {
		if err := s.roomRepo.UpdateRoomStatus(tx, roomID, models.RoomStatusOccupied); err != nil {
			return nil, fmt.Errorf("failed to mark room occupied: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit room order transaction: %w", err)
	}
	return s.roomOrderRepo.GetOrderByRoomID(s.db, roomID)
}

func (s *roomOrderService) GetOrderByRoomID(roomID int64) (*models.RoomOrder, error) {
	if _, err := s.roomRepo.GetRoomByID(roomID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}

	order, err := s.roomOrderRepo.GetOrderByRoomID(s.db, roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get room order: %w", err)
	}
	return order, nil
}

// CancelOrder discards the room's draft and frees the room. Stock is
// untouched because drafts never reserve inventory.
func (s *roomOrderService) CancelOrder(roomID int64) error {
	if _, err := s.roomRepo.GetRoomByID(roomID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrRoomNotFound
		}
		return fmt.Errorf("failed to fetch room for cancel: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	deleted, err := s.roomOrderRepo.DeleteOrderByRoomID(tx, roomID)
	if err != nil {
		return fmt.Errorf("failed to delete room order: %w", err)
	}
	if deleted == 0 {
		return ErrDraftNotFound
	}
	if err := s.roomRepo.UpdateRoomStatus(tx, roomID, models.RoomStatusAvailable); err != nil {
		return fmt.Errorf("failed to free room: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancel transaction: %w", err)
	}
	return nil
}
