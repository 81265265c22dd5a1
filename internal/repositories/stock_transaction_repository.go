package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ktv_pos_backend/internal/models"
)

// StockTransactionRepository defines the interface for the append-only
// stock ledger. Entries are never updated after insertion; the only
// delete path is clearing a never-sold item's history when the item
// itself is hard-deleted.
type StockTransactionRepository interface {
	CreateTransaction(executor SQLExecutor, tx *models.StockTransaction) (int64, error)
	GetTransactions(filters models.StockTransactionFilters) ([]models.StockTransaction, int, error)
	DeleteTransactionsByMenuItem(executor SQLExecutor, menuItemID int64) error
}

type stockTransactionRepository struct {
	db *sql.DB
}

// NewStockTransactionRepository creates a new instance of StockTransactionRepository.
func NewStockTransactionRepository(db *sql.DB) StockTransactionRepository {
	return &stockTransactionRepository{db: db}
}

func (r *stockTransactionRepository) CreateTransaction(executor SQLExecutor, tx *models.StockTransaction) (int64, error) {
	query := `INSERT INTO stock_transactions
	            (menu_item_id, transaction_type, quantity, unit_price, total_amount,
	             reference_id, staff_id, notes, transaction_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	if tx.TransactionDate.IsZero() {
		tx.TransactionDate = time.Now()
	}

	err := executor.QueryRow(query,
		tx.MenuItemID, tx.TransactionType, tx.Quantity, tx.UnitPrice, tx.TotalAmount,
		tx.ReferenceID, tx.StaffID, tx.Notes, tx.TransactionDate,
	).Scan(&tx.ID)

	if err != nil {
		return 0, fmt.Errorf("%w: creating stock transaction: %v", ErrDatabaseError, err)
	}
	return tx.ID, nil
}

func (r *stockTransactionRepository) DeleteTransactionsByMenuItem(executor SQLExecutor, menuItemID int64) error {
	query := `DELETE FROM stock_transactions WHERE menu_item_id = $1`
	if _, err := executor.Exec(query, menuItemID); err != nil {
		return fmt.Errorf("%w: deleting stock transactions for menu item ID %d: %v", ErrDatabaseError, menuItemID, err)
	}
	return nil
}

func (r *stockTransactionRepository) GetTransactions(filters models.StockTransactionFilters) ([]models.StockTransaction, int, error) {
	transactions := []models.StockTransaction{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    st.id, st.menu_item_id, st.transaction_type, st.quantity, st.unit_price,
	    st.total_amount, st.reference_id, st.staff_id, st.notes, st.transaction_date,
	    mi.name as item_name,
	    u.full_name as staff_name,
	    COUNT(*) OVER() AS total_count
	  FROM stock_transactions st
	  JOIN menu_items mi ON st.menu_item_id = mi.id
	  LEFT JOIN users u ON st.staff_id = u.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if filters.MenuItemID != nil {
		conditions = append(conditions, fmt.Sprintf("st.menu_item_id = $%d", argCount))
		args = append(args, *filters.MenuItemID)
		argCount++
	}
	if filters.StaffID != nil {
		conditions = append(conditions, fmt.Sprintf("st.staff_id = $%d", argCount))
		args = append(args, *filters.StaffID)
		argCount++
	}
	if filters.TransactionType != nil && *filters.TransactionType != "" {
		conditions = append(conditions, fmt.Sprintf("st.transaction_type = $%d", argCount))
		args = append(args, *filters.TransactionType)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY st.transaction_date DESC, st.id DESC")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, filters.PageSize, (filters.Page-1)*filters.PageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting stock transactions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var tx models.StockTransaction
		var itemName, staffName sql.NullString

		if err := rows.Scan(
			&tx.ID, &tx.MenuItemID, &tx.TransactionType, &tx.Quantity, &tx.UnitPrice,
			&tx.TotalAmount, &tx.ReferenceID, &tx.StaffID, &tx.Notes, &tx.TransactionDate,
			&itemName, &staffName,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning stock transaction: %v", ErrDatabaseError, err)
		}

		if itemName.Valid {
			name := itemName.String
			tx.ItemName = &name
		}
		if staffName.Valid {
			name := staffName.String
			tx.StaffName = &name
		}
		transactions = append(transactions, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating stock transactions: %v", ErrDatabaseError, err)
	}
	return transactions, totalCount, nil
}
