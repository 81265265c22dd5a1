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

// CatalogRepository defines the interface for category and menu item
// database operations.
type CatalogRepository interface {
	// Category methods
	CreateCategory(executor SQLExecutor, category *models.Category) (int64, error)
	GetCategoryByID(id int64) (*models.Category, error)
	GetCategories() ([]models.Category, error)
	UpdateCategory(executor SQLExecutor, category *models.Category) error
	DeleteCategory(executor SQLExecutor, id int64) error
	CountItemsInCategory(categoryID int64) (int, error)

	// MenuItem methods
	CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error)
	GetItemByID(id int64) (*models.MenuItem, error)
	GetItems(activeOnly bool, categoryID *int64) ([]models.MenuItem, error)
	UpdateItem(executor SQLExecutor, item *models.MenuItem) error
	DeleteItem(executor SQLExecutor, id int64) error
	DeactivateItem(executor SQLExecutor, id int64) error
	CountLowStockItems() (int, error)

	// Stock methods used by checkout and the stock ledger. The locking
	// read keeps the check-then-decrement pair isolated from concurrent
	// checkouts against the same item.
	GetItemStockForUpdate(executor SQLExecutor, itemID int64) (stock int, name string, err error)
	UpdateStock(executor SQLExecutor, itemID int64, quantityChange int) (int, error)
}

type catalogRepository struct {
	db *sql.DB
}

// NewCatalogRepository creates a new instance of CatalogRepository.
func NewCatalogRepository(db *sql.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// --- Category Methods ---

func (r *catalogRepository) CreateCategory(executor SQLExecutor, category *models.Category) (int64, error) {
	query := `INSERT INTO categories (name, display_name, sort_order)
	          VALUES ($1, $2, $3)
	          RETURNING id`
	err := executor.QueryRow(query, category.Name, category.DisplayName, category.SortOrder).Scan(&category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: category name '%s' already exists (constraint: %s)", ErrDuplicateKey, category.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating category: %v", ErrDatabaseError, err)
	}
	return category.ID, nil
}

func (r *catalogRepository) GetCategoryByID(id int64) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT id, name, display_name, sort_order FROM categories WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(&category.ID, &category.Name, &category.DisplayName, &category.SortOrder)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting category by ID %d: %v", ErrDatabaseError, id, err)
	}
	return category, nil
}

func (r *catalogRepository) GetCategories() ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT id, name, display_name, sort_order FROM categories ORDER BY sort_order, name`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: getting categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.DisplayName, &category.SortOrder); err != nil {
			return nil, fmt.Errorf("%w: scanning category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, category)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating categories: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

func (r *catalogRepository) UpdateCategory(executor SQLExecutor, category *models.Category) error {
	query := `UPDATE categories SET name = $1, display_name = $2, sort_order = $3 WHERE id = $4`
	result, err := executor.Exec(query, category.Name, category.DisplayName, category.SortOrder, category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: category name '%s' already exists (constraint: %s)", ErrDuplicateKey, category.Name, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating category ID %d: %v", ErrDatabaseError, category.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteCategory(executor SQLExecutor, id int64) error {
	query := `DELETE FROM categories WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		return fmt.Errorf("%w: deleting category ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) CountItemsInCategory(categoryID int64) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM menu_items WHERE category_id = $1", categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting items in category %d: %v", ErrDatabaseError, categoryID, err)
	}
	return count, nil
}

// --- MenuItem Methods ---

func (r *catalogRepository) CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error) {
	query := `INSERT INTO menu_items
	          (name, category_id, sale_price, cost_price, stock, min_stock, unit, status, description, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING id`
	currentTime := time.Now()

	err := executor.QueryRow(query,
		item.Name, item.CategoryID, item.SalePrice, item.CostPrice, item.Stock,
		item.MinStock, item.Unit, item.Status, item.Description, currentTime, currentTime,
	).Scan(&item.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: invalid category reference (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating menu item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *catalogRepository) GetItemByID(id int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	var catID sql.NullInt64
	var catName, catDisplay sql.NullString
	var catSort sql.NullInt64

	query := `SELECT
	            mi.id, mi.name, mi.category_id, mi.sale_price, mi.cost_price, mi.stock,
	            mi.min_stock, mi.unit, mi.status, mi.description, mi.created_at, mi.updated_at,
	            c.id as cat_id, c.name as cat_name, c.display_name as cat_display, c.sort_order as cat_sort
	          FROM menu_items mi
	          LEFT JOIN categories c ON mi.category_id = c.id
	          WHERE mi.id = $1`

	err := r.db.QueryRow(query, id).Scan(
		&item.ID, &item.Name, &item.CategoryID, &item.SalePrice, &item.CostPrice, &item.Stock,
		&item.MinStock, &item.Unit, &item.Status, &item.Description, &item.CreatedAt, &item.UpdatedAt,
		&catID, &catName, &catDisplay, &catSort,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu item by ID %d: %v", ErrDatabaseError, id, err)
	}

	if catID.Valid {
		category := &models.Category{ID: catID.Int64, SortOrder: int(catSort.Int64)}
		if catName.Valid {
			category.Name = catName.String
		}
		if catDisplay.Valid {
			display := catDisplay.String
			category.DisplayName = &display
		}
		item.Category = category
	}
	return item, nil
}

func (r *catalogRepository) GetItems(activeOnly bool, categoryID *int64) ([]models.MenuItem, error) {
	items := []models.MenuItem{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT
	    mi.id, mi.name, mi.category_id, mi.sale_price, mi.cost_price, mi.stock,
	    mi.min_stock, mi.unit, mi.status, mi.description, mi.created_at, mi.updated_at,
	    c.id as cat_id, c.name as cat_name, c.display_name as cat_display, c.sort_order as cat_sort
	  FROM menu_items mi
	  LEFT JOIN categories c ON mi.category_id = c.id`)

	var conditions []string
	var args []interface{}
	argCount := 1

	if activeOnly {
		conditions = append(conditions, fmt.Sprintf("mi.status = $%d", argCount))
		args = append(args, models.MenuItemStatusActive)
		argCount++
	}
	if categoryID != nil {
		conditions = append(conditions, fmt.Sprintf("mi.category_id = $%d", argCount))
		args = append(args, *categoryID)
		argCount++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY c.sort_order, mi.name")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: getting menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		var catID sql.NullInt64
		var catName, catDisplay sql.NullString
		var catSort sql.NullInt64

		if err := rows.Scan(
			&item.ID, &item.Name, &item.CategoryID, &item.SalePrice, &item.CostPrice, &item.Stock,
			&item.MinStock, &item.Unit, &item.Status, &item.Description, &item.CreatedAt, &item.UpdatedAt,
			&catID, &catName, &catDisplay, &catSort,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		if catID.Valid {
			category := &models.Category{ID: catID.Int64, SortOrder: int(catSort.Int64)}
			if catName.Valid {
				category.Name = catName.String
			}
			if catDisplay.Valid {
				display := catDisplay.String
				category.DisplayName = &display
			}
			item.Category = category
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *catalogRepository) UpdateItem(executor SQLExecutor, item *models.MenuItem) error {
	query := `UPDATE menu_items SET
	            name = $1, category_id = $2, sale_price = $3, cost_price = $4, stock = $5,
	            min_stock = $6, unit = $7, status = $8, description = $9, updated_at = $10
	          WHERE id = $11`
	result, err := executor.Exec(query,
		item.Name, item.CategoryID, item.SalePrice, item.CostPrice, item.Stock,
		item.MinStock, item.Unit, item.Status, item.Description, time.Now(), item.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: invalid category reference (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return fmt.Errorf("%w: updating menu item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) DeleteItem(executor SQLExecutor, id int64) error {
	query := `DELETE FROM menu_items WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: menu item ID %d is referenced by other records (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) DeactivateItem(executor SQLExecutor, id int64) error {
	query := `UPDATE menu_items SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, models.MenuItemStatusInactive, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: deactivating menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *catalogRepository) CountLowStockItems() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM menu_items WHERE stock <= min_stock AND status = $1`
	err := r.db.QueryRow(query, models.MenuItemStatusActive).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting low stock items: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *catalogRepository) GetItemStockForUpdate(executor SQLExecutor, itemID int64) (int, string, error) {
	var stock int
	var name string
	query := `SELECT stock, name FROM menu_items WHERE id = $1 FOR UPDATE`
	err := executor.QueryRow(query, itemID).Scan(&stock, &name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", ErrNotFound
		}
		return 0, "", fmt.Errorf("%w: reading stock for item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return stock, name, nil
}

func (r *catalogRepository) UpdateStock(executor SQLExecutor, itemID int64, quantityChange int) (int, error) {
	var newStock int
	query := `UPDATE menu_items
	          SET stock = stock + $1, updated_at = $2
	          WHERE id = $3 AND stock + $1 >= 0
	          RETURNING stock`
	err := executor.QueryRow(query, quantityChange, time.Now(), itemID).Scan(&newStock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			checkErr := executor.QueryRow("SELECT EXISTS (SELECT 1 FROM menu_items WHERE id = $1)", itemID).Scan(&exists)
			if checkErr == nil && !exists {
				return 0, ErrNotFound
			}
			// Item exists but the guard rejected the change: stock would go negative.
			return 0, fmt.Errorf("%w: stock change %d for item ID %d", ErrNegativeStock, quantityChange, itemID)
		}
		return 0, fmt.Errorf("%w: updating stock for item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return newStock, nil
}
