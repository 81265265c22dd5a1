package services

import (
	"fmt"

	"ktv_pos_backend/internal/models"
	"ktv_pos_backend/internal/repositories"
)

// In-memory repository fakes. They ignore the SQLExecutor argument;
// transaction boundaries are asserted separately with sqlmock.

// --- fakeCatalogRepo ---

type fakeCatalogRepo struct {
	categories map[int64]*models.Category
	items      map[int64]*models.MenuItem
	nextID     int64

	stockReads      []int64 // item IDs passed to GetItemStockForUpdate
	stockChanges    map[int64]int
	deactivatedIDs  []int64
	deletedItemIDs  []int64
	updateStockErr  error
	lowStockCount   int
	itemsInCategory map[int64]int
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		categories:      make(map[int64]*models.Category),
		items:           make(map[int64]*models.MenuItem),
		nextID:          1,
		stockChanges:    make(map[int64]int),
		itemsInCategory: make(map[int64]int),
	}
}

func (f *fakeCatalogRepo) addItem(item models.MenuItem) *models.MenuItem {
	if item.ID == 0 {
		item.ID = f.nextID
		f.nextID++
	}
	stored := item
	f.items[stored.ID] = &stored
	return &stored
}

func (f *fakeCatalogRepo) CreateCategory(_ repositories.SQLExecutor, category *models.Category) (int64, error) {
	for _, existing := range f.categories {
		if existing.Name == category.Name {
			return 0, repositories.ErrDuplicateKey
		}
	}
	category.ID = f.nextID
	f.nextID++
	stored := *category
	f.categories[category.ID] = &stored
	return category.ID, nil
}

func (f *fakeCatalogRepo) GetCategoryByID(id int64) (*models.Category, error) {
	category, ok := f.categories[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *category
	return &copied, nil
}

func (f *fakeCatalogRepo) GetCategories() ([]models.Category, error) {
	out := []models.Category{}
	for _, c := range f.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCatalogRepo) UpdateCategory(_ repositories.SQLExecutor, category *models.Category) error {
	if _, ok := f.categories[category.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *category
	f.categories[category.ID] = &stored
	return nil
}

func (f *fakeCatalogRepo) DeleteCategory(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.categories[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCatalogRepo) CountItemsInCategory(categoryID int64) (int, error) {
	return f.itemsInCategory[categoryID], nil
}

func (f *fakeCatalogRepo) CreateItem(_ repositories.SQLExecutor, item *models.MenuItem) (int64, error) {
	item.ID = f.nextID
	f.nextID++
	stored := *item
	f.items[item.ID] = &stored
	return item.ID, nil
}

func (f *fakeCatalogRepo) GetItemByID(id int64) (*models.MenuItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (f *fakeCatalogRepo) GetItems(activeOnly bool, categoryID *int64) ([]models.MenuItem, error) {
	out := []models.MenuItem{}
	for _, item := range f.items {
		if activeOnly && item.Status != models.MenuItemStatusActive {
			continue
		}
		if categoryID != nil && (item.CategoryID == nil || *item.CategoryID != *categoryID) {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeCatalogRepo) UpdateItem(_ repositories.SQLExecutor, item *models.MenuItem) error {
	if _, ok := f.items[item.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *item
	f.items[item.ID] = &stored
	return nil
}

func (f *fakeCatalogRepo) DeleteItem(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.items, id)
	f.deletedItemIDs = append(f.deletedItemIDs, id)
	return nil
}

func (f *fakeCatalogRepo) DeactivateItem(_ repositories.SQLExecutor, id int64) error {
	item, ok := f.items[id]
	if !ok {
		return repositories.ErrNotFound
	}
	item.Status = models.MenuItemStatusInactive
	f.deactivatedIDs = append(f.deactivatedIDs, id)
	return nil
}

func (f *fakeCatalogRepo) CountLowStockItems() (int, error) {
	return f.lowStockCount, nil
}

func (f *fakeCatalogRepo) GetItemStockForUpdate(_ repositories.SQLExecutor, itemID int64) (int, string, error) {
	f.stockReads = append(f.stockReads, itemID)
	item, ok := f.items[itemID]
	if !ok {
		return 0, "", repositories.ErrNotFound
	}
	return item.Stock, item.Name, nil
}

func (f *fakeCatalogRepo) UpdateStock(_ repositories.SQLExecutor, itemID int64, quantityChange int) (int, error) {
	if f.updateStockErr != nil {
		return 0, f.updateStockErr
	}
	item, ok := f.items[itemID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	if item.Stock+quantityChange < 0 {
		return 0, fmt.Errorf("%w: stock change %d for item ID %d", repositories.ErrNegativeStock, quantityChange, itemID)
	}
	item.Stock += quantityChange
	f.stockChanges[itemID] += quantityChange
	return item.Stock, nil
}

// --- fakeRoomRepo ---

type fakeRoomRepo struct {
	rooms         map[int64]*models.Room
	nextID        int64
	statusUpdates map[int64][]string
	deletedRooms  []int64
	createErr     error
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{
		rooms:         make(map[int64]*models.Room),
		nextID:        1,
		statusUpdates: make(map[int64][]string),
	}
}

func (f *fakeRoomRepo) addRoom(room models.Room) *models.Room {
	if room.ID == 0 {
		room.ID = f.nextID
		f.nextID++
	}
	stored := room
	f.rooms[stored.ID] = &stored
	return &stored
}

func (f *fakeRoomRepo) CreateRoom(_ repositories.SQLExecutor, room *models.Room) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	for _, existing := range f.rooms {
		if existing.RoomNumber == room.RoomNumber {
			return 0, repositories.ErrDuplicateKey
		}
	}
	room.ID = f.nextID
	f.nextID++
	stored := *room
	f.rooms[room.ID] = &stored
	return room.ID, nil
}

func (f *fakeRoomRepo) GetRoomByID(id int64) (*models.Room, error) {
	room, ok := f.rooms[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *room
	return &copied, nil
}

func (f *fakeRoomRepo) GetRooms() ([]models.Room, error) {
	out := []models.Room{}
	for _, r := range f.rooms {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRoomRepo) UpdateRoom(_ repositories.SQLExecutor, room *models.Room) error {
	if _, ok := f.rooms[room.ID]; !ok {
		return repositories.ErrNotFound
	}
	stored := *room
	f.rooms[room.ID] = &stored
	return nil
}

func (f *fakeRoomRepo) UpdateRoomStatus(_ repositories.SQLExecutor, roomID int64, status string) error {
	room, ok := f.rooms[roomID]
	if !ok {
		return repositories.ErrNotFound
	}
	room.Status = status
	f.statusUpdates[roomID] = append(f.statusUpdates[roomID], status)
	return nil
}

func (f *fakeRoomRepo) DeleteRoom(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.rooms[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.rooms, id)
	f.deletedRooms = append(f.deletedRooms, id)
	return nil
}

func (f *fakeRoomRepo) CountRooms() (int, error) {
	return len(f.rooms), nil
}

func (f *fakeRoomRepo) CountRoomsByStatus(status string) (int, error) {
	count := 0
	for _, r := range f.rooms {
		if r.Status == status {
			count++
		}
	}
	return count, nil
}

// --- fakeRoomOrderRepo ---

type fakeRoomOrderRepo struct {
	orders       map[int64]*models.RoomOrder // keyed by room ID
	nextID       int64
	draftedItems map[int64]bool // menu item IDs referenced by drafts
	deletedRooms []int64
}

func newFakeRoomOrderRepo() *fakeRoomOrderRepo {
	return &fakeRoomOrderRepo{
		orders:       make(map[int64]*models.RoomOrder),
		nextID:       1,
		draftedItems: make(map[int64]bool),
	}
}

func (f *fakeRoomOrderRepo) addOrder(order models.RoomOrder) *models.RoomOrder {
	if order.ID == 0 {
		order.ID = f.nextID
		f.nextID++
	}
	stored := order
	f.orders[stored.RoomID] = &stored
	return &stored
}

func (f *fakeRoomOrderRepo) UpsertOrder(_ repositories.SQLExecutor, order *models.RoomOrder) (int64, error) {
	if existing, ok := f.orders[order.RoomID]; ok {
		order.ID = existing.ID
	} else {
		order.ID = f.nextID
		f.nextID++
	}
	stored := *order
	f.orders[order.RoomID] = &stored
	return order.ID, nil
}

func (f *fakeRoomOrderRepo) ReplaceOrderItems(_ repositories.SQLExecutor, orderID int64, items []models.RoomOrderItem) error {
	for _, order := range f.orders {
		if order.ID == orderID {
			order.Items = append([]models.RoomOrderItem{}, items...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeRoomOrderRepo) GetOrderByRoomID(_ repositories.SQLExecutor, roomID int64) (*models.RoomOrder, error) {
	order, ok := f.orders[roomID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *order
	copied.Items = append([]models.RoomOrderItem{}, order.Items...)
	return &copied, nil
}

func (f *fakeRoomOrderRepo) DeleteOrderByRoomID(_ repositories.SQLExecutor, roomID int64) (int64, error) {
	if _, ok := f.orders[roomID]; !ok {
		return 0, nil
	}
	delete(f.orders, roomID)
	f.deletedRooms = append(f.deletedRooms, roomID)
	return 1, nil
}

func (f *fakeRoomOrderRepo) HasPendingOrderForRoom(roomID int64) (bool, error) {
	_, ok := f.orders[roomID]
	return ok, nil
}

func (f *fakeRoomOrderRepo) ItemReferencedByPendingOrder(menuItemID int64) (bool, error) {
	return f.draftedItems[menuItemID], nil
}

// --- fakeSaleRepo ---

type fakeSaleRepo struct {
	sales         map[int64]*models.Sale
	saleItems     map[int64][]models.SaleItem
	nextID        int64
	salesByRoom   map[int64]int
	itemSaleCount map[int64]int
	createSaleErr error

	todayTotal    int64
	todayCustomer int
}

func newFakeSaleRepo() *fakeSaleRepo {
	return &fakeSaleRepo{
		sales:         make(map[int64]*models.Sale),
		saleItems:     make(map[int64][]models.SaleItem),
		nextID:        1,
		salesByRoom:   make(map[int64]int),
		itemSaleCount: make(map[int64]int),
	}
}

func (f *fakeSaleRepo) CreateSale(_ repositories.SQLExecutor, sale *models.Sale) (int64, error) {
	if f.createSaleErr != nil {
		return 0, f.createSaleErr
	}
	sale.ID = f.nextID
	f.nextID++
	stored := *sale
	f.sales[sale.ID] = &stored
	return sale.ID, nil
}

func (f *fakeSaleRepo) CreateSaleItem(_ repositories.SQLExecutor, item *models.SaleItem) (int64, error) {
	item.ID = f.nextID
	f.nextID++
	f.saleItems[item.SaleID] = append(f.saleItems[item.SaleID], *item)
	return item.ID, nil
}

func (f *fakeSaleRepo) GetSaleByID(saleID int64) (*models.Sale, error) {
	sale, ok := f.sales[saleID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *sale
	return &copied, nil
}

func (f *fakeSaleRepo) GetSaleItemsBySaleID(saleID int64) ([]models.SaleItem, error) {
	return append([]models.SaleItem{}, f.saleItems[saleID]...), nil
}

func (f *fakeSaleRepo) GetSales(filters models.SaleFilters) ([]models.Sale, int, error) {
	out := []models.Sale{}
	for _, s := range f.sales {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (f *fakeSaleRepo) CountSalesByRoom(roomID int64) (int, error) {
	return f.salesByRoom[roomID], nil
}

func (f *fakeSaleRepo) CountSaleItemsByMenuItem(menuItemID int64) (int, error) {
	return f.itemSaleCount[menuItemID], nil
}

func (f *fakeSaleRepo) GetTodaySalesTotal() (int64, error) {
	return f.todayTotal, nil
}

func (f *fakeSaleRepo) GetTodayCustomerCount() (int, error) {
	return f.todayCustomer, nil
}

func (f *fakeSaleRepo) GetRecentSales(limit int) ([]models.Sale, error) {
	sales, _, err := f.GetSales(models.SaleFilters{Page: 1, PageSize: limit})
	return sales, err
}

// --- fakeStockTxRepo ---

type fakeStockTxRepo struct {
	entries   []models.StockTransaction
	nextID    int64
	createErr error
}

func newFakeStockTxRepo() *fakeStockTxRepo {
	return &fakeStockTxRepo{nextID: 1}
}

func (f *fakeStockTxRepo) CreateTransaction(_ repositories.SQLExecutor, tx *models.StockTransaction) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	tx.ID = f.nextID
	f.nextID++
	f.entries = append(f.entries, *tx)
	return tx.ID, nil
}

func (f *fakeStockTxRepo) DeleteTransactionsByMenuItem(_ repositories.SQLExecutor, menuItemID int64) error {
	kept := f.entries[:0]
	for _, entry := range f.entries {
		if entry.MenuItemID != menuItemID {
			kept = append(kept, entry)
		}
	}
	f.entries = kept
	return nil
}

func (f *fakeStockTxRepo) GetTransactions(filters models.StockTransactionFilters) ([]models.StockTransaction, int, error) {
	return append([]models.StockTransaction{}, f.entries...), len(f.entries), nil
}

func (f *fakeStockTxRepo) entriesOfType(txType string) []models.StockTransaction {
	out := []models.StockTransaction{}
	for _, e := range f.entries {
		if e.TransactionType == txType {
			out = append(out, e)
		}
	}
	return out
}

// --- fakeAuthRepo ---

type fakeAuthRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeAuthRepo) CreateUser(_ repositories.SQLExecutor, user *models.User) (int64, error) {
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return 0, repositories.ErrDuplicateKey
		}
	}
	user.ID = f.nextID
	f.nextID++
	stored := *user
	f.users[user.ID] = &stored
	return user.ID, nil
}

func (f *fakeAuthRepo) FindUserByUsername(username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAuthRepo) FindUserByID(userID int64) (*models.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := *u
	copied.PasswordHash = ""
	return &copied, nil
}
