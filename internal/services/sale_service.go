package services

import (
	"errors"
	"fmt"

	"ktv_pos_backend/internal/models"
	"ktv_pos_backend/internal/repositories"
)

// --- Custom Service Errors ---
var (
	ErrSaleNotFound = errors.New("sale not found")
)

// DashboardSummary aggregates today's trading figures for the front
// desk landing screen.
type DashboardSummary struct {
	TodaySalesTotal    int64         `json:"today_sales_total"`
	TodayCustomerCount int           `json:"today_customer_count"`
	OccupiedRooms      int           `json:"occupied_rooms"`
	TotalRooms         int           `json:"total_rooms"`
	LowStockItems      int           `json:"low_stock_items"`
	RecentSales        []models.Sale `json:"recent_sales"`
}

// --- SaleService Interface ---
type SaleService interface {
	GetSales(filters models.SaleFilters) ([]models.Sale, int, error)
	GetSaleByID(saleID int64) (*models.Sale, error)
	GetDashboardSummary() (*DashboardSummary, error)
}

// --- saleService Implementation ---
type saleService struct {
	saleRepo    repositories.SaleRepository
	roomRepo    repositories.RoomRepository
	catalogRepo repositories.CatalogRepository
}

// NewSaleService creates a new instance of SaleService.
func NewSaleService(
	sr repositories.SaleRepository,
	rr repositories.RoomRepository,
	cr repositories.CatalogRepository,
) SaleService {
	return &saleService{
		saleRepo:    sr,
		roomRepo:    rr,
		catalogRepo: cr,
	}
}

func (s *saleService) GetSales(filters models.SaleFilters) ([]models.Sale, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	sales, totalCount, err := s.saleRepo.GetSales(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get sales: %w", err)
	}
	return sales, totalCount, nil
}

func (s *saleService) GetSaleByID(saleID int64) (*models.Sale, error) {
	sale, err := s.saleRepo.GetSaleByID(saleID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}

	items, err := s.saleRepo.GetSaleItemsBySaleID(saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale items: %w", err)
	}
	sale.Items = items
	return sale, nil
}

func (s *saleService) GetDashboardSummary() (*DashboardSummary, error) {
	summary := &DashboardSummary{}

	var err error
	if summary.TodaySalesTotal, err = s.saleRepo.GetTodaySalesTotal(); err != nil {
		return nil, fmt.Errorf("failed to compute today's sales total: %w", err)
	}
	if summary.TodayCustomerCount, err = s.saleRepo.GetTodayCustomerCount(); err != nil {
		return nil, fmt.Errorf("failed to compute today's customer count: %w", err)
	}
	if summary.OccupiedRooms, err = s.roomRepo.CountRoomsByStatus(models.RoomStatusOccupied); err != nil {
		return nil, fmt.Errorf("failed to count occupied rooms: %w", err)
	}
	if summary.TotalRooms, err = s.roomRepo.CountRooms(); err != nil {
		return nil, fmt.Errorf("failed to count rooms: %w", err)
	}
	if summary.LowStockItems, err = s.catalogRepo.CountLowStockItems(); err != nil {
		return nil, fmt.Errorf("failed to count low stock items: %w", err)
	}
	if summary.RecentSales, err = s.saleRepo.GetRecentSales(5); err != nil {
		return nil, fmt.Errorf("failed to fetch recent sales: %w", err)
	}
	return summary, nil
}
