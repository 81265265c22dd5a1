package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ktv_pos_backend/internal/models"
)

// RoomOrderRepository defines the interface for draft-order database
// operations. The room_id uniqueness constraint gives each room at most
// one draft; UpsertOrder carries the create-or-replace semantics.
type RoomOrderRepository interface {
	UpsertOrder(executor SQLExecutor, order *models.RoomOrder) (int64, error)
	ReplaceOrderItems(executor SQLExecutor, orderID int64, items []models.RoomOrderItem) error
	GetOrderByRoomID(executor SQLExecutor, roomID int64) (*models.RoomOrder, error)
	DeleteOrderByRoomID(executor SQLExecutor, roomID int64) (int64, error)
	HasPendingOrderForRoom(roomID int64) (bool, error)
	ItemReferencedByPendingOrder(menuItemID int64) (bool, error)
}

type roomOrderRepository struct {
	db *sql.DB
}

// NewRoomOrderRepository creates a new instance of RoomOrderRepository.
func NewRoomOrderRepository(db *sql.DB) RoomOrderRepository {
	return &roomOrderRepository{db: db}
}

func (r *roomOrderRepository) UpsertOrder(executor SQLExecutor, order *models.RoomOrder) (int64, error) {
	query := `INSERT INTO room_orders
	            (room_id, subtotal, tax, service_charge, total_amount, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	          ON CONFLICT (room_id) DO UPDATE SET
	            subtotal = EXCLUDED.subtotal,
	            tax = EXCLUDED.tax,
	            service_charge = EXCLUDED.service_charge,
	            total_amount = EXCLUDED.total_amount,
	            status = EXCLUDED.status,
	            updated_at = EXCLUDED.updated_at
	          RETURNING id`
	err := executor.QueryRow(query,
		order.RoomID, order.Subtotal, order.Tax, order.ServiceCharge,
		order.TotalAmount, order.Status, time.Now(),
	).Scan(&order.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: upserting room order for room ID %d: %v", ErrDatabaseError, order.RoomID, err)
	}
	return order.ID, nil
}

func (r *roomOrderRepository) ReplaceOrderItems(executor SQLExecutor, orderID int64, items []models.RoomOrderItem) error {
	if _, err := executor.Exec(`DELETE FROM room_order_items WHERE room_order_id = $1`, orderID); err != nil {
		return fmt.Errorf("%w: clearing items for room order ID %d: %v", ErrDatabaseError, orderID, err)
	}

	query := `INSERT INTO room_order_items
	            (room_order_id, menu_item_id, item_name, quantity, unit_price, position)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	for i, item := range items {
		if _, err := executor.Exec(query, orderID, item.MenuItemID, item.ItemName, item.Quantity, item.UnitPrice, i); err != nil {
			return fmt.Errorf("%w: inserting item for room order ID %d (menu_item_id: %d): %v", ErrDatabaseError, orderID, item.MenuItemID, err)
		}
	}
	return nil
}

// GetOrderByRoomID reads the room's pending draft. Callers inside a
// transaction pass their *sql.Tx so the read shares its snapshot.
func (r *roomOrderRepository) GetOrderByRoomID(executor SQLExecutor, roomID int64) (*models.RoomOrder, error) {
	order := &models.RoomOrder{}
	query := `SELECT id, room_id, subtotal, tax, service_charge, total_amount, status, created_at, updated_at
	          FROM room_orders
	          WHERE room_id = $1 AND status = $2`
	err := executor.QueryRow(query, roomID, models.RoomOrderStatusPending).Scan(
		&order.ID, &order.RoomID, &order.Subtotal, &order.Tax, &order.ServiceCharge,
		&order.TotalAmount, &order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting room order for room ID %d: %v", ErrDatabaseError, roomID, err)
	}

	items, err := r.getOrderItems(executor, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *roomOrderRepository) getOrderItems(executor SQLExecutor, orderID int64) ([]models.RoomOrderItem, error) {
	items := []models.RoomOrderItem{}
	query := `SELECT id, room_order_id, menu_item_id, item_name, quantity, unit_price, position
	          FROM room_order_items
	          WHERE room_order_id = $1
	          ORDER BY position`
	rows, err := executor.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying items for room order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.RoomOrderItem
		if err := rows.Scan(
			&item.ID, &item.RoomOrderID, &item.MenuItemID, &item.ItemName,
			&item.Quantity, &item.UnitPrice, &item.Position,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning room order item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating room order items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

// DeleteOrderByRoomID removes the room's draft; items cascade.
func (r *roomOrderRepository) DeleteOrderByRoomID(executor SQLExecutor, roomID int64) (int64, error) {
	query := `DELETE FROM room_orders WHERE room_id = $1 AND status = $2`
	result, err := executor.Exec(query, roomID, models.RoomOrderStatusPending)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting room order for room ID %d: %v", ErrDatabaseError, roomID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for room order delete (room ID %d): %v", ErrDatabaseError, roomID, err)
	}
	return rowsAffected, nil
}

func (r *roomOrderRepository) HasPendingOrderForRoom(roomID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM room_orders WHERE room_id = $1 AND status = $2)`
	err := r.db.QueryRow(query, roomID, models.RoomOrderStatusPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking pending order for room ID %d: %v", ErrDatabaseError, roomID, err)
	}
	return exists, nil
}

// ItemReferencedByPendingOrder reports whether any pending draft holds
// a line for the given menu item. Normalized line items make this a
// join instead of a substring match against serialized order data.
func (r *roomOrderRepository) ItemReferencedByPendingOrder(menuItemID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (
	            SELECT 1
	            FROM room_order_items roi
	            JOIN room_orders ro ON roi.room_order_id = ro.id
	            WHERE roi.menu_item_id = $1 AND ro.status = $2)`
	err := r.db.QueryRow(query, menuItemID, models.RoomOrderStatusPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking draft references for menu item ID %d: %v", ErrDatabaseError, menuItemID, err)
	}
	return exists, nil
}
