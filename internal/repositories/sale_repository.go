package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ktv_pos_backend/internal/models"

	"github.com/lib/pq"
)

// SaleRepository defines the interface for sale-related database operations.
// Sales are immutable once written; there are no update or delete methods.
type SaleRepository interface {
	CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error)
	CreateSaleItem(executor SQLExecutor, item *models.SaleItem) (int64, error)
	GetSaleByID(saleID int64) (*models.Sale, error)
	GetSaleItemsBySaleID(saleID int64) ([]models.SaleItem, error)
	GetSales(filters models.SaleFilters) ([]models.Sale, int, error)
	CountSalesByRoom(roomID int64) (int, error)
	CountSaleItemsByMenuItem(menuItemID int64) (int, error)

	// Dashboard aggregates.
	GetTodaySalesTotal() (int64, error)
	GetTodayCustomerCount() (int, error)
	GetRecentSales(limit int) ([]models.Sale, error)
}

type saleRepository struct {
	db *sql.DB
}

// NewSaleRepository creates a new instance of SaleRepository.
func NewSaleRepository(db *sql.DB) SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) CreateSale(executor SQLExecutor, sale *models.Sale) (int64, error) {
	query := `INSERT INTO sales
	            (bill_number, room_id, customer_count, subtotal, tax_amount, service_charge,
	             discount, total_amount, payment_method, payment_status, staff_id, sale_time, notes)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id`

	if sale.SaleTime.IsZero() {
		sale.SaleTime = time.Now()
	}

	err := executor.QueryRow(query,
		sale.BillNumber, sale.RoomID, sale.CustomerCount, sale.Subtotal, sale.TaxAmount,
		sale.ServiceCharge, sale.Discount, sale.TotalAmount, sale.PaymentMethod,
		sale.PaymentStatus, sale.StaffID, sale.SaleTime, sale.Notes,
	).Scan(&sale.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: bill number '%s' already exists (constraint: %s)", ErrDuplicateKey, sale.BillNumber, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating sale: %v", ErrDatabaseError, err)
	}
	return sale.ID, nil
}

func (r *saleRepository) CreateSaleItem(executor SQLExecutor, item *models.SaleItem) (int64, error) {
	query := `INSERT INTO sale_items
	            (sale_id, menu_item_id, item_name, quantity, unit_price, total_price)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	err := executor.QueryRow(query,
		item.SaleID, item.MenuItemID, item.ItemName, item.Quantity, item.UnitPrice, item.TotalPrice,
	).Scan(&item.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating sale item (menu_item_id: %d): %v", ErrDatabaseError, item.MenuItemID, err)
	}
	return item.ID, nil
}

func (r *saleRepository) GetSaleByID(saleID int64) (*models.Sale, error) {
	sale := &models.Sale{}
	var roomName, staffName sql.NullString
	query := `SELECT s.id, s.bill_number, s.room_id, s.customer_count, s.subtotal, s.tax_amount,
	                 s.service_charge, s.discount, s.total_amount, s.payment_method, s.payment_status,
	                 s.staff_id, s.sale_time, s.notes,
	                 rm.room_name, u.full_name as staff_name
	          FROM sales s
	          LEFT JOIN rooms rm ON s.room_id = rm.id
	          LEFT JOIN users u ON s.staff_id = u.id
	          WHERE s.id = $1`
	err := r.db.QueryRow(query, saleID).Scan(
		&sale.ID, &sale.BillNumber, &sale.RoomID, &sale.CustomerCount, &sale.Subtotal, &sale.TaxAmount,
		&sale.ServiceCharge, &sale.Discount, &sale.TotalAmount, &sale.PaymentMethod, &sale.PaymentStatus,
		&sale.StaffID, &sale.SaleTime, &sale.Notes,
		&roomName, &staffName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting sale by ID %d: %v", ErrDatabaseError, saleID, err)
	}
	if roomName.Valid {
		name := roomName.String
		sale.RoomName = &name
	}
	if staffName.Valid {
		name := staffName.String
		sale.StaffName = &name
	}
	return sale, nil
}

func (r *saleRepository) GetSaleItemsBySaleID(saleID int64) ([]models.SaleItem, error) {
	items := []models.SaleItem{}
	query := `SELECT id, sale_id, menu_item_id, item_name, quantity, unit_price, total_price
	          FROM sale_items
	          WHERE sale_id = $1
	          ORDER BY id`
	rows, err := r.db.Query(query, saleID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying sale items for sale ID %d: %v", ErrDatabaseError, saleID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.SaleItem
		if err := rows.Scan(
			&item.ID, &item.SaleID, &item.MenuItemID, &item.ItemName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning sale item for sale ID %d: %v", ErrDatabaseError, saleID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating sale items for sale ID %d: %v", ErrDatabaseError, saleID, err)
	}
	return items, nil
}

func (r *saleRepository) GetSales(filters models.SaleFilters) ([]models.Sale, int, error) {
	sales := []models.Sale{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            s.id, s.bill_number, s.room_id, s.customer_count, s.subtotal, s.tax_amount,
            s.service_charge, s.discount, s.total_amount, s.payment_method, s.payment_status,
            s.staff_id, s.sale_time, s.notes,
            rm.room_name, u.full_name as staff_name,
            COUNT(*) OVER() as total_count
        FROM sales s
        LEFT JOIN rooms rm ON s.room_id = rm.id
        LEFT JOIN users u ON s.staff_id = u.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.RoomID != nil {
		conditions = append(conditions, fmt.Sprintf("s.room_id = $%d", argCounter))
		args = append(args, *filters.RoomID)
		argCounter++
	}
	if filters.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("s.staff_id = $%d", argCounter))
		args = append(args, *filters.StaffID)
		argCounter++
	}
	if filters.Date != nil && *filters.Date != "" {
		parsedDate, err := time.Parse("2006-01-02", *filters.Date)
		if err == nil {
			startOfDay := time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, parsedDate.Location())
			endOfDay := startOfDay.AddDate(0, 0, 1)
			conditions = append(conditions, fmt.Sprintf("s.sale_time >= $%d AND s.sale_time < $%d", argCounter, argCounter+1))
			args = append(args, startOfDay, endOfDay)
			argCounter += 2
		}
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY s.sale_time DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying sales: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Sale
		var roomName, staffName sql.NullString

		if err := rows.Scan(
			&s.ID, &s.BillNumber, &s.RoomID, &s.CustomerCount, &s.Subtotal, &s.TaxAmount,
			&s.ServiceCharge, &s.Discount, &s.TotalAmount, &s.PaymentMethod, &s.PaymentStatus,
			&s.StaffID, &s.SaleTime, &s.Notes,
			&roomName, &staffName,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning sale: %v", ErrDatabaseError, err)
		}

		if roomName.Valid {
			name := roomName.String
			s.RoomName = &name
		}
		if staffName.Valid {
			name := staffName.String
			s.StaffName = &name
		}
		sales = append(sales, s)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating sale rows: %v", ErrDatabaseError, err)
	}
	return sales, totalCount, nil
}

func (r *saleRepository) CountSalesByRoom(roomID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sales WHERE room_id = $1", roomID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting sales for room ID %d: %v", ErrDatabaseError, roomID, err)
	}
	return count, nil
}

func (r *saleRepository) CountSaleItemsByMenuItem(menuItemID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM sale_items WHERE menu_item_id = $1", menuItemID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting sale items for menu item ID %d: %v", ErrDatabaseError, menuItemID, err)
	}
	return count, nil
}

func (r *saleRepository) GetTodaySalesTotal() (int64, error) {
	var total int64
	query := `SELECT COALESCE(SUM(total_amount), 0) FROM sales WHERE sale_time >= CURRENT_DATE`
	err := r.db.QueryRow(query).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("%w: summing today's sales: %v", ErrDatabaseError, err)
	}
	return total, nil
}

func (r *saleRepository) GetTodayCustomerCount() (int, error) {
	var count int
	query := `SELECT COALESCE(SUM(customer_count), 0) FROM sales WHERE sale_time >= CURRENT_DATE`
	err := r.db.QueryRow(query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: summing today's customers: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *saleRepository) GetRecentSales(limit int) ([]models.Sale, error) {
	sales, _, err := r.GetSales(models.SaleFilters{Page: 1, PageSize: limit})
	return sales, err
}
