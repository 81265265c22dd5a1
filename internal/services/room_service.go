package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ktv_pos_backend/internal/models"
	"ktv_pos_backend/internal/repositories"
)

// --- Custom Service Errors ---
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomNumberExists    = errors.New("room number already exists")
	ErrRoomHasPendingOrder = errors.New("room has a pending order")
	ErrInvalidRoomStatus   = errors.New("invalid room status")
)

// --- Data Transfer Objects (DTOs) ---

type CreateRoomRequest struct {
	RoomNumber string  `json:"room_number"` // auto-assigned when empty
	RoomName   string  `json:"room_name" binding:"required"`
	RoomType   string  `json:"room_type"`
	HourlyRate int64   `json:"hourly_rate" binding:"gte=0"`
	Capacity   int     `json:"capacity" binding:"gte=0"`
	Notes      *string `json:"notes"`
}

type UpdateRoomRequest struct {
	RoomName   *string `json:"room_name"`
	RoomType   *string `json:"room_type"`
	HourlyRate *int64  `json:"hourly_rate"`
	Capacity   *int    `json:"capacity"`
	Status     *string `json:"status"`
	Notes      *string `json:"notes"`
}

// DeleteRoomResult reports whether the room was removed or only marked
// inactive because its sales history must stay intact.
type DeleteRoomResult struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}

// --- RoomService Interface ---
type RoomService interface {
	CreateRoom(req CreateRoomRequest) (*models.Room, error)
	GetRooms() ([]models.Room, error)
	GetRoomByID(roomID int64) (*models.Room, error)
	UpdateRoom(roomID int64, req UpdateRoomRequest) (*models.Room, error)
	UpdateRoomStatus(roomID int64, status string) (*models.Room, error)
	DeleteRoom(roomID int64) (*DeleteRoomResult, error)
}

// --- roomService Implementation ---
type roomService struct {
	roomRepo      repositories.RoomRepository
	roomOrderRepo repositories.RoomOrderRepository
	saleRepo      repositories.SaleRepository
	db            *sql.DB
}

// NewRoomService creates a new instance of RoomService.
func NewRoomService(
	rr repositories.RoomRepository,
	ror repositories.RoomOrderRepository,
	sr repositories.SaleRepository,
	db *sql.DB,
) RoomService {
	return &roomService{
		roomRepo:      rr,
		roomOrderRepo: ror,
		saleRepo:      sr,
		db:            db,
	}
}

// CreateRoom adds a room. When no room number is supplied one is
// assigned as R001, R002, ... from the current room count; a short
// retry loop skips over numbers taken by manually created rooms.
func (s *roomService) CreateRoom(req CreateRoomRequest) (*models.Room, error) {
	roomName := strings.TrimSpace(req.RoomName)
	if roomName == "" {
		return nil, fmt.Errorf("%w: room name cannot be empty", ErrValidation)
	}

	roomType := req.RoomType
	if roomType == "" {
		roomType = "standard"
	}

	room := models.Room{
		RoomNumber: strings.TrimSpace(req.RoomNumber),
		RoomName:   roomName,
		RoomType:   roomType,
		HourlyRate: req.HourlyRate,
		Status:     models.RoomStatusAvailable,
		Capacity:   req.Capacity,
		Notes:      req.Notes,
	}

	if room.RoomNumber != "" {
		if _, err := s.roomRepo.CreateRoom(s.db, &room); err != nil {
			if errors.Is(err, repositories.ErrDuplicateKey) {
				return nil, ErrRoomNumberExists
			}
			return nil, fmt.Errorf("failed to create room: %w", err)
		}
		return &room, nil
	}

	count, err := s.roomRepo.CountRooms()
	if err != nil {
		return nil, fmt.Errorf("failed to count rooms for numbering: %w", err)
	}
	for attempt := 0; attempt < 5; attempt++ {
		room.RoomNumber = fmt.Sprintf("R%03d", count+1+attempt)
		_, err = s.roomRepo.CreateRoom(s.db, &room)
		if err == nil {
			return &room, nil
		}
		if !errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("failed to create room: %w", err)
		}
	}
	return nil, ErrRoomNumberExists
}

func (s *roomService) GetRooms() ([]models.Room, error) {
	rooms, err := s.roomRepo.GetRooms()
	if err != nil {
		return nil, fmt.Errorf("failed to get rooms: %w", err)
	}
	for i := range rooms {
		hasDraft, err := s.roomOrderRepo.HasPendingOrderForRoom(rooms[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check pending order for room %d: %w", rooms[i].ID, err)
		}
		rooms[i].HasPendingOrder = hasDraft
	}
	return rooms, nil
}

func (s *roomService) GetRoomByID(roomID int64) (*models.Room, error) {
	room, err := s.roomRepo.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

func (s *roomService) UpdateRoom(roomID int64, req UpdateRoomRequest) (*models.Room, error) {
	room, err := s.roomRepo.GetRoomByID(roomID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to fetch room for update: %w", err)
	}

	if req.RoomName != nil {
		name := strings.TrimSpace(*req.RoomName)
		if name == "" {
			return nil, fmt.Errorf("%w: room name cannot be empty if provided", ErrValidation)
		}
		room.RoomName = name
	}
	if req.RoomType != nil {
		room.RoomType = *req.RoomType
	}
	if req.HourlyRate != nil {
		if *req.HourlyRate < 0 {
			return nil, fmt.Errorf("%w: hourly rate cannot be negative", ErrValidation)
		}
		room.HourlyRate = *req.HourlyRate
	}
	if req.Capacity != nil {
		if *req.Capacity < 0 {
			return nil, fmt.Errorf("%w: capacity cannot be negative", ErrValidation)
		}
		room.Capacity = *req.Capacity
	}
	if req.Status != nil {
		if !isValidRoomStatus(*req.Status) {
			return nil, fmt.Errorf("%w: '%s'", ErrInvalidRoomStatus, *req.Status)
		}
		room.Status = *req.Status
	}
	if req.Notes != nil {
		room.Notes = req.Notes
	}

	if err := s.roomRepo.UpdateRoom(s.db, room); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to update room: %w", err)
	}
	return room, nil
}

func (s *roomService) UpdateRoomStatus(roomID int64, status string) (*models.Room, error) {
	if !isValidRoomStatus(status) {
		return nil, fmt.Errorf("%w: '%s'", ErrInvalidRoomStatus, status)
	}
	if err := s.roomRepo.UpdateRoomStatus(s.db, roomID, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to update room status: %w", err)
	}
	return s.GetRoomByID(roomID)
}

// DeleteRoom refuses to touch a room with an open draft, deactivates a
// room that appears on past bills, and removes anything else.
func (s *roomService) DeleteRoom(roomID int64) (*DeleteRoomResult, error) {
	if _, err := s.roomRepo.GetRoomByID(roomID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to fetch room for delete: %w", err)
	}

	hasDraft, err := s.roomOrderRepo.HasPendingOrderForRoom(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending orders: %w", err)
	}
	if hasDraft {
		return nil, ErrRoomHasPendingOrder
	}

	saleCount, err := s.saleRepo.CountSalesByRoom(roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to check sales history: %w", err)
	}
	if saleCount > 0 {
		if err := s.roomRepo.UpdateRoomStatus(s.db, roomID, models.RoomStatusInactive); err != nil {
			return nil, fmt.Errorf("failed to deactivate room: %w", err)
		}
		return &DeleteRoomResult{Deactivated: true}, nil
	}

	if err := s.roomRepo.DeleteRoom(s.db, roomID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to delete room: %w", err)
	}
	return &DeleteRoomResult{Deleted: true}, nil
}

func isValidRoomStatus(status string) bool {
	switch status {
	case models.RoomStatusAvailable, models.RoomStatusOccupied, models.RoomStatusReserved,
		models.RoomStatusCleaning, models.RoomStatusInactive:
		return true
	default:
		return false
	}
}
