package services

import (
	"testing"

	"ktv_pos_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type saleFixture struct {
	saleRepo    *fakeSaleRepo
	roomRepo    *fakeRoomRepo
	catalogRepo *fakeCatalogRepo
	service     SaleService
}

func newSaleFixture(t *testing.T) *saleFixture {
	saleRepo := newFakeSaleRepo()
	roomRepo := newFakeRoomRepo()
	catalogRepo := newFakeCatalogRepo()
	return &saleFixture{
		saleRepo:    saleRepo,
		roomRepo:    roomRepo,
		catalogRepo: catalogRepo,
		service:     NewSaleService(saleRepo, roomRepo, catalogRepo),
	}
}

func TestGetSaleByIDIncludesItems(t *testing.T) {
	f := newSaleFixture(t)
	saleID, err := f.saleRepo.CreateSale(nil, &models.Sale{BillNumber: "SW-20260830-AB12CD", TotalAmount: 6325})
	require.NoError(t, err)
	_, err = f.saleRepo.CreateSaleItem(nil, &models.SaleItem{SaleID: saleID, ItemName: "Beer", Quantity: 2})
	require.NoError(t, err)

	sale, err := f.service.GetSaleByID(saleID)
	require.NoError(t, err)
	assert.Equal(t, "SW-20260830-AB12CD", sale.BillNumber)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, "Beer", sale.Items[0].ItemName)
}

func TestGetSaleByIDUnknown(t *testing.T) {
	f := newSaleFixture(t)
	_, err := f.service.GetSaleByID(404)
	assert.ErrorIs(t, err, ErrSaleNotFound)
}

func TestGetDashboardSummary(t *testing.T) {
	f := newSaleFixture(t)
	f.saleRepo.todayTotal = 45000
	f.saleRepo.todayCustomer = 17
	f.catalogRepo.lowStockCount = 3
	f.roomRepo.addRoom(models.Room{RoomNumber: "R001", RoomName: "Lotus", Status: models.RoomStatusOccupied})
	f.roomRepo.addRoom(models.Room{RoomNumber: "R002", RoomName: "Orchid", Status: models.RoomStatusAvailable})
	_, err := f.saleRepo.CreateSale(nil, &models.Sale{BillNumber: "SW-20260830-AB12CD", TotalAmount: 6325})
	require.NoError(t, err)

	summary, err := f.service.GetDashboardSummary()
	require.NoError(t, err)
	assert.Equal(t, int64(45000), summary.TodaySalesTotal)
	assert.Equal(t, 17, summary.TodayCustomerCount)
	assert.Equal(t, 1, summary.OccupiedRooms)
	assert.Equal(t, 2, summary.TotalRooms)
	assert.Equal(t, 3, summary.LowStockItems)
	assert.Len(t, summary.RecentSales, 1)
}
