package services

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"ktv_pos_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type checkoutFixture struct {
	roomRepo      *fakeRoomRepo
	roomOrderRepo *fakeRoomOrderRepo
	catalogRepo   *fakeCatalogRepo
	saleRepo      *fakeSaleRepo
	stockTxRepo   *fakeStockTxRepo
	service       CheckoutService
	mock          sqlmock.Sqlmock
}

// newCheckoutFixture sets up an occupied room with a two-line draft:
// 2x beer (ID 1, price 2000, stock 10) and 1x snacks (ID 2, price 1500,
// stock 3), totals saved with both charges applied.
func newCheckoutFixture(t *testing.T) *checkoutFixture {
	db, mock := newMockDB(t)

	roomRepo := newFakeRoomRepo()
	roomOrderRepo := newFakeRoomOrderRepo()
	catalogRepo := newFakeCatalogRepo()
	saleRepo := newFakeSaleRepo()
	stockTxRepo := newFakeStockTxRepo()

	roomRepo.addRoom(models.Room{ID: 7, RoomNumber: "R007", RoomName: "Lotus", Status: models.RoomStatusOccupied})
	catalogRepo.addItem(models.MenuItem{ID: 1, Name: "Beer", SalePrice: 2000, Stock: 10, Status: models.MenuItemStatusActive})
	catalogRepo.addItem(models.MenuItem{ID: 2, Name: "Snacks", SalePrice: 1500, Stock: 3, Status: models.MenuItemStatusActive})

	totals := CalculateOrderTotals([]OrderLine{{Quantity: 2, UnitPrice: 2000}, {Quantity: 1, UnitPrice: 1500}}, true, true)
	roomOrderRepo.addOrder(models.RoomOrder{
		RoomID:        7,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		ServiceCharge: totals.ServiceCharge,
		TotalAmount:   totals.Total,
		Status:        models.RoomOrderStatusPending,
		Items: []models.RoomOrderItem{
			{MenuItemID: 1, ItemName: "Beer", Quantity: 2, UnitPrice: 2000},
			{MenuItemID: 2, ItemName: "Snacks", Quantity: 1, UnitPrice: 1500},
		},
	})

	return &checkoutFixture{
		roomRepo:      roomRepo,
		roomOrderRepo: roomOrderRepo,
		catalogRepo:   catalogRepo,
		saleRepo:      saleRepo,
		stockTxRepo:   stockTxRepo,
		service:       NewCheckoutService(roomRepo, roomOrderRepo, catalogRepo, saleRepo, stockTxRepo, db),
		mock:          mock,
	}
}

func TestCheckoutSuccess(t *testing.T) {
	f := newCheckoutFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	staffID := int64(42)
	sale, err := f.service.Checkout(7, CheckoutRequest{PaymentMethod: "cash", CustomerCount: 4}, &staffID)
	require.NoError(t, err)
	require.NotNil(t, sale)

	assert.Equal(t, int64(5500), sale.Subtotal)
	assert.Equal(t, int64(275), sale.TaxAmount)
	assert.Equal(t, int64(550), sale.ServiceCharge)
	assert.Equal(t, int64(6325), sale.TotalAmount)
	assert.Equal(t, models.PaymentStatusPaid, sale.PaymentStatus)

	// Stock decremented per line.
	assert.Equal(t, -2, f.catalogRepo.stockChanges[1])
	assert.Equal(t, -1, f.catalogRepo.stockChanges[2])

	// One ledger entry per line, negative quantities, linked to the sale.
	ledger := f.stockTxRepo.entriesOfType(models.StockTxSale)
	require.Len(t, ledger, 2)
	for _, entry := range ledger {
		assert.Negative(t, entry.Quantity)
		require.NotNil(t, entry.ReferenceID)
		assert.Equal(t, sale.ID, *entry.ReferenceID)
	}

	// Line-item snapshots written.
	items, err := f.saleRepo.GetSaleItemsBySaleID(sale.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	// Draft cleared, room freed.
	_, err = f.roomOrderRepo.GetOrderByRoomID(nil, 7)
	assert.Error(t, err)
	room, err := f.roomRepo.GetRoomByID(7)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, room.Status)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	f := newCheckoutFixture(t)

	// Drop snacks below the drafted quantity.
	f.catalogRepo.items[2].Stock = 0

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Checkout(7, CheckoutRequest{PaymentMethod: "cash"}, nil)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Nothing outside the transaction is left behind: the draft and the
	// room state are untouched.
	order, getErr := f.roomOrderRepo.GetOrderByRoomID(nil, 7)
	require.NoError(t, getErr)
	assert.Len(t, order.Items, 2)
	room, getErr := f.roomRepo.GetRoomByID(7)
	require.NoError(t, getErr)
	assert.Equal(t, models.RoomStatusOccupied, room.Status)

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckoutItemDeletedSinceDraft(t *testing.T) {
	f := newCheckoutFixture(t)
	delete(f.catalogRepo.items, 2)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Checkout(7, CheckoutRequest{PaymentMethod: "cash"}, nil)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckoutNoDraft(t *testing.T) {
	f := newCheckoutFixture(t)
	f.roomOrderRepo.orders = map[int64]*models.RoomOrder{}

	// The draft lookup happens inside the transaction, so even the
	// not-found path opens and rolls one back.
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Checkout(7, CheckoutRequest{PaymentMethod: "cash"}, nil)
	assert.ErrorIs(t, err, ErrDraftNotFound)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCheckoutUnknownRoom(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.service.Checkout(999, CheckoutRequest{PaymentMethod: "cash"}, nil)
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestCheckoutDiscount(t *testing.T) {
	f := newCheckoutFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	sale, err := f.service.Checkout(7, CheckoutRequest{PaymentMethod: "card", Discount: 325}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(6000), sale.TotalAmount)
	assert.Equal(t, int64(325), sale.Discount)
}

func TestCheckoutDiscountExceedsTotal(t *testing.T) {
	f := newCheckoutFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.service.Checkout(7, CheckoutRequest{PaymentMethod: "cash", Discount: 100000}, nil)
	assert.ErrorIs(t, err, ErrInvalidDiscount)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestGenerateBillNumberFormat(t *testing.T) {
	now := time.Date(2026, 8, 30, 21, 15, 0, 0, time.UTC)
	pattern := regexp.MustCompile(`^SW-20260830-[0-9A-F]{6}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		bill := generateBillNumber(now)
		assert.Regexp(t, pattern, bill)
		seen[bill] = true
	}
	// UUID-derived suffixes should not repeat across a handful of draws.
	assert.Greater(t, len(seen), 1)
}
