package services

import (
	"testing"

	"ktv_pos_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomFixture struct {
	roomRepo      *fakeRoomRepo
	roomOrderRepo *fakeRoomOrderRepo
	saleRepo      *fakeSaleRepo
	service       RoomService
}

func newRoomFixture(t *testing.T) *roomFixture {
	db, _ := newMockDB(t)

	roomRepo := newFakeRoomRepo()
	roomOrderRepo := newFakeRoomOrderRepo()
	saleRepo := newFakeSaleRepo()

	return &roomFixture{
		roomRepo:      roomRepo,
		roomOrderRepo: roomOrderRepo,
		saleRepo:      saleRepo,
		service:       NewRoomService(roomRepo, roomOrderRepo, saleRepo, db),
	}
}

func TestCreateRoomAutoNumbering(t *testing.T) {
	f := newRoomFixture(t)

	first, err := f.service.CreateRoom(CreateRoomRequest{RoomName: "Lotus"})
	require.NoError(t, err)
	assert.Equal(t, "R001", first.RoomNumber)
	assert.Equal(t, models.RoomStatusAvailable, first.Status)

	second, err := f.service.CreateRoom(CreateRoomRequest{RoomName: "Orchid"})
	require.NoError(t, err)
	assert.Equal(t, "R002", second.RoomNumber)
}

func TestCreateRoomAutoNumberingSkipsTaken(t *testing.T) {
	f := newRoomFixture(t)
	f.roomRepo.addRoom(models.Room{RoomNumber: "R002", RoomName: "Manual", Status: models.RoomStatusAvailable})

	// Count is 1, so numbering starts at R002 which is taken; the next
	// attempt lands on R003.
	room, err := f.service.CreateRoom(CreateRoomRequest{RoomName: "Lotus"})
	require.NoError(t, err)
	assert.Equal(t, "R003", room.RoomNumber)
}

func TestCreateRoomExplicitNumberConflict(t *testing.T) {
	f := newRoomFixture(t)
	f.roomRepo.addRoom(models.Room{RoomNumber: "K-101", RoomName: "Manual", Status: models.RoomStatusAvailable})

	_, err := f.service.CreateRoom(CreateRoomRequest{RoomNumber: "K-101", RoomName: "Lotus"})
	assert.ErrorIs(t, err, ErrRoomNumberExists)
}

func TestDeleteRoomWithPendingOrderRejected(t *testing.T) {
	f := newRoomFixture(t)
	room := f.roomRepo.addRoom(models.Room{RoomNumber: "R001", RoomName: "Lotus", Status: models.RoomStatusOccupied})
	f.roomOrderRepo.addOrder(models.RoomOrder{RoomID: room.ID, Status: models.RoomOrderStatusPending})

	_, err := f.service.DeleteRoom(room.ID)
	assert.ErrorIs(t, err, ErrRoomHasPendingOrder)
}

func TestDeleteRoomWithSalesHistoryDeactivates(t *testing.T) {
	f := newRoomFixture(t)
	room := f.roomRepo.addRoom(models.Room{RoomNumber: "R001", RoomName: "Lotus", Status: models.RoomStatusAvailable})
	f.saleRepo.salesByRoom[room.ID] = 5

	result, err := f.service.DeleteRoom(room.ID)
	require.NoError(t, err)
	assert.True(t, result.Deactivated)

	stored, err := f.roomRepo.GetRoomByID(room.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusInactive, stored.Status)
}

func TestDeleteRoomUnreferencedHardDeletes(t *testing.T) {
	f := newRoomFixture(t)
	room := f.roomRepo.addRoom(models.Room{RoomNumber: "R001", RoomName: "Lotus", Status: models.RoomStatusAvailable})

	result, err := f.service.DeleteRoom(room.ID)
	require.NoError(t, err)
	assert.True(t, result.Deleted)

	_, err = f.roomRepo.GetRoomByID(room.ID)
	assert.Error(t, err)
}

func TestGetRoomsReportsPendingOrders(t *testing.T) {
	f := newRoomFixture(t)
	busy := f.roomRepo.addRoom(models.Room{RoomNumber: "R001", RoomName: "Lotus", Status: models.RoomStatusOccupied})
	f.roomRepo.addRoom(models.Room{RoomNumber: "R002", RoomName: "Orchid", Status: models.RoomStatusAvailable})
	f.roomOrderRepo.addOrder(models.RoomOrder{RoomID: busy.ID, Status: models.RoomOrderStatusPending})

	rooms, err := f.service.GetRooms()
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	flags := map[string]bool{}
	for _, room := range rooms {
		flags[room.RoomNumber] = room.HasPendingOrder
	}
	assert.True(t, flags["R001"])
	assert.False(t, flags["R002"])
}

func TestUpdateRoomStatusValidation(t *testing.T) {
	f := newRoomFixture(t)
	room := f.roomRepo.addRoom(models.Room{RoomNumber: "R001", RoomName: "Lotus", Status: models.RoomStatusAvailable})

	_, err := f.service.UpdateRoomStatus(room.ID, "party")
	assert.ErrorIs(t, err, ErrInvalidRoomStatus)

	updated, err := f.service.UpdateRoomStatus(room.ID, models.RoomStatusCleaning)
	require.NoError(t, err)
	assert.Equal(t, models.RoomStatusCleaning, updated.Status)
}
