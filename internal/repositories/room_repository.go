package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ktv_pos_backend/internal/models"

	"github.com/lib/pq"
)

// RoomRepository defines the interface for room-related database operations.
type RoomRepository interface {
	CreateRoom(executor SQLExecutor, room *models.Room) (int64, error)
	GetRoomByID(id int64) (*models.Room, error)
	GetRooms() ([]models.Room, error)
	UpdateRoom(executor SQLExecutor, room *models.Room) error
	UpdateRoomStatus(executor SQLExecutor, roomID int64, status string) error
	DeleteRoom(executor SQLExecutor, id int64) error
	CountRooms() (int, error)
	CountRoomsByStatus(status string) (int, error)
}

type roomRepository struct {
	db *sql.DB
}

// NewRoomRepository creates a new instance of RoomRepository.
func NewRoomRepository(db *sql.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) CreateRoom(executor SQLExecutor, room *models.Room) (int64, error) {
	query := `INSERT INTO rooms
	          (room_number, room_name, room_type, hourly_rate, status, capacity, notes, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	currentTime := time.Now()

	err := executor.QueryRow(query,
		room.RoomNumber, room.RoomName, room.RoomType, room.HourlyRate,
		room.Status, room.Capacity, room.Notes, currentTime, currentTime,
	).Scan(&room.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: room number '%s' already exists (constraint: %s)", ErrDuplicateKey, room.RoomNumber, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating room: %v", ErrDatabaseError, err)
	}
	return room.ID, nil
}

func (r *roomRepository) GetRoomByID(id int64) (*models.Room, error) {
	room := &models.Room{}
	query := `SELECT id, room_number, room_name, room_type, hourly_rate, status, capacity, notes, created_at, updated_at
	          FROM rooms
	          WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&room.ID, &room.RoomNumber, &room.RoomName, &room.RoomType, &room.HourlyRate,
		&room.Status, &room.Capacity, &room.Notes, &room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting room by ID %d: %v", ErrDatabaseError, id, err)
	}
	return room, nil
}

// GetRooms returns all rooms ordered by room number, each flagged with
// whether a pending draft order exists for it.
func (r *roomRepository) GetRooms() ([]models.Room, error) {
	rooms := []models.Room{}
	query := `SELECT
	            rm.id, rm.room_number, rm.room_name, rm.room_type, rm.hourly_rate,
	            rm.status, rm.capacity, rm.notes, rm.created_at, rm.updated_at,
	            (ro.id IS NOT NULL) as has_pending_order
	          FROM rooms rm
	          LEFT JOIN room_orders ro ON ro.room_id = rm.id AND ro.status = $1
	          ORDER BY rm.room_number`
	rows, err := r.db.Query(query, models.RoomOrderStatusPending)
	if err != nil {
		return nil, fmt.Errorf("%w: querying rooms: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var room models.Room
		if err := rows.Scan(
			&room.ID, &room.RoomNumber, &room.RoomName, &room.RoomType, &room.HourlyRate,
			&room.Status, &room.Capacity, &room.Notes, &room.CreatedAt, &room.UpdatedAt,
			&room.HasPendingOrder,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning room: %v", ErrDatabaseError, err)
		}
		rooms = append(rooms, room)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating room rows: %v", ErrDatabaseError, err)
	}
	return rooms, nil
}

func (r *roomRepository) UpdateRoom(executor SQLExecutor, room *models.Room) error {
	query := `UPDATE rooms SET
	            room_name = $1, room_type = $2, hourly_rate = $3, capacity = $4,
	            status = $5, notes = $6, updated_at = $7
	          WHERE id = $8`
	result, err := executor.Exec(query,
		room.RoomName, room.RoomType, room.HourlyRate, room.Capacity,
		room.Status, room.Notes, time.Now(), room.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating room ID %d: %v", ErrDatabaseError, room.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) UpdateRoomStatus(executor SQLExecutor, roomID int64, status string) error {
	query := `UPDATE rooms SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, status, time.Now(), roomID)
	if err != nil {
		return fmt.Errorf("%w: updating status for room ID %d: %v", ErrDatabaseError, roomID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) DeleteRoom(executor SQLExecutor, id int64) error {
	query := `DELETE FROM rooms WHERE id = $1`
	result, err := executor.Exec(query, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: room ID %d is referenced by other records (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting room ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roomRepository) CountRooms() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM rooms").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting rooms: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *roomRepository) CountRoomsByStatus(status string) (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM rooms WHERE status = $1", status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting rooms with status %s: %v", ErrDatabaseError, status, err)
	}
	return count, nil
}
