package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ktv_pos_backend/internal/models"

	"github.com/lib/pq"
)

// AuthRepository defines the interface for authentication-related database operations.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, user *models.User) (int64, error)
	FindUserByUsername(username string) (*models.User, error)
	FindUserByID(userID int64) (*models.User, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new instance of AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

// CreateUser inserts a new user. The user model must carry the already
// hashed password.
func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User) (int64, error) {
	query := `INSERT INTO users (username, password_hash, full_name, role, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	currentTime := time.Now()

	err := executor.QueryRow(query,
		user.Username, user.PasswordHash, user.FullName, user.Role, currentTime, currentTime,
	).Scan(&user.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: username '%s' already exists (constraint: %s)", ErrDuplicateKey, user.Username, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return user.ID, nil
}

// FindUserByUsername retrieves a user by username, including the
// password hash for credential checks.
func (r *authRepository) FindUserByUsername(username string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, username, password_hash, full_name, role, created_at, updated_at
	          FROM users
	          WHERE username = $1`
	err := r.db.QueryRow(query, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.FullName, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by username %s: %v", ErrDatabaseError, username, err)
	}
	return user, nil
}

// FindUserByID retrieves a user by ID for profile lookups. The password
// hash is not populated.
func (r *authRepository) FindUserByID(userID int64) (*models.User, error) {
	user := &models.User{}
	query := `SELECT id, username, full_name, role, created_at, updated_at
	          FROM users
	          WHERE id = $1`
	err := r.db.QueryRow(query, userID).Scan(
		&user.ID, &user.Username, &user.FullName, &user.Role,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user by ID %d: %v", ErrDatabaseError, userID, err)
	}
	return user, nil
}
