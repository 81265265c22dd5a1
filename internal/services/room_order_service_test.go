package services

import (
	"testing"

	"ktv_pos_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomOrderFixture struct {
	roomRepo      *fakeRoomRepo
	roomOrderRepo *fakeRoomOrderRepo
	catalogRepo   *fakeCatalogRepo
	service       RoomOrderService
}

func newRoomOrderFixture(t *testing.T) *roomOrderFixture {
	db, mock := newMockDB(t)
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 10; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}

	roomRepo := newFakeRoomRepo()
	roomOrderRepo := newFakeRoomOrderRepo()
	catalogRepo := newFakeCatalogRepo()

	roomRepo.addRoom(models.Room{ID: 1, RoomNumber: "R001", RoomName: "Lotus", Status: models.RoomStatusAvailable})
	catalogRepo.addItem(models.MenuItem{ID: 1, Name: "Beer", SalePrice: 2000, Stock: 10, Status: models.MenuItemStatusActive})
	catalogRepo.addItem(models.MenuItem{ID: 2, Name: "Snacks", SalePrice: 1500, Stock: 5, Status: models.MenuItemStatusActive})
	catalogRepo.addItem(models.MenuItem{ID: 3, Name: "Old Whisky", SalePrice: 9000, Stock: 2, Status: models.MenuItemStatusInactive})

	return &roomOrderFixture{
		roomRepo:      roomRepo,
		roomOrderRepo: roomOrderRepo,
		catalogRepo:   catalogRepo,
		service:       NewRoomOrderService(roomRepo, roomOrderRepo, catalogRepo, db),
	}
}

func TestSaveOrderPricesFromCatalogAndOccupiesRoom(t *testing.T) {
	f := newRoomOrderFixture(t)

	order, err := f.service.SaveOrder(1, SaveOrderRequest{
		Items: []SaveOrderItemRequest{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: 2, Quantity: 1},
		},
		ApplyTax:           true,
		ApplyServiceCharge: true,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5500), order.Subtotal)
	assert.Equal(t, int64(275), order.Tax)
	assert.Equal(t, int64(550), order.ServiceCharge)
	assert.Equal(t, int64(6325), order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Beer", order.Items[0].ItemName)
	assert.Equal(t, int64(2000), order.Items[0].UnitPrice)

	room, err := f.roomRepo.GetRoomByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusOccupied, room.Status)

	// Stock is untouched until checkout.
	assert.Empty(t, f.catalogRepo.stockChanges)
}

func TestSaveOrderReplacesExistingDraft(t *testing.T) {
	f := newRoomOrderFixture(t)

	_, err := f.service.SaveOrder(1, SaveOrderRequest{
		Items: []SaveOrderItemRequest{{MenuItemID: 1, Quantity: 2}},
	})
	require.NoError(t, err)

	order, err := f.service.SaveOrder(1, SaveOrderRequest{
		Items: []SaveOrderItemRequest{{MenuItemID: 2, Quantity: 3}},
	})
	require.NoError(t, err)

	// The second save wins wholesale; the beer line is gone.
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(2), order.Items[0].MenuItemID)
	assert.Equal(t, int64(4500), order.Subtotal)
}

func TestSaveOrderRejectsInactiveItem(t *testing.T) {
	f := newRoomOrderFixture(t)

	_, err := f.service.SaveOrder(1, SaveOrderRequest{
		Items: []SaveOrderItemRequest{{MenuItemID: 3, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrItemUnavailable)
}

func TestSaveOrderRejectsUnknownItem(t *testing.T) {
	f := newRoomOrderFixture(t)

	_, err := f.service.SaveOrder(1, SaveOrderRequest{
		Items: []SaveOrderItemRequest{{MenuItemID: 99, Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSaveOrderEmpty(t *testing.T) {
	f := newRoomOrderFixture(t)

	_, err := f.service.SaveOrder(1, SaveOrderRequest{})
	assert.ErrorIs(t, err, ErrEmptyOrder)
}

func TestCancelOrderFreesRoom(t *testing.T) {
	f := newRoomOrderFixture(t)

	_, err := f.service.SaveOrder(1, SaveOrderRequest{
		Items: []SaveOrderItemRequest{{MenuItemID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, f.service.CancelOrder(1))

	_, err = f.service.GetOrderByRoomID(1)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	room, err := f.roomRepo.GetRoomByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusAvailable, room.Status)
}

func TestCancelOrderWithoutDraft(t *testing.T) {
	f := newRoomOrderFixture(t)
	err := f.service.CancelOrder(1)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}
