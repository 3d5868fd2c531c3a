package repository

import (
	"database/sql"
	"fmt"

	"task-manager/entity"

	"github.com/jmoiron/sqlx"
)

// UserRepository interface defines user data operations
type UserRepository interface {
	Create(user *entity.User) (*entity.User, error)
	GetByID(id int64) (*entity.User, error)
	GetByMobileNumber(mobileNumber int64) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	ExistsWithEmailOrMobile(email string, mobileNumber int64) (bool, error)
	EmailTaken(email string, excludeID int64) (bool, error)
	MobileTaken(mobileNumber int64, excludeID int64) (bool, error)
	Update(user *entity.User) (*entity.User, error)
	SoftDelete(id int64, now int64) (bool, error)
	List() ([]entity.User, error)
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `id, first_name, last_name, password, mobile_number, email_address, created_at, updated_at, is_active, is_phone_verified`

// Create inserts a new user
func (r *userRepository) Create(user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (first_name, last_name, password, mobile_number, email_address, created_at, updated_at, is_active, is_phone_verified)
		VALUES (:first_name, :last_name, :password, :mobile_number, :email_address, :created_at, :updated_at, :is_active, :is_phone_verified)
		RETURNING ` + userColumns

	rows, err := r.db.NamedQuery(query, user)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("failed to get created user")
	}

	var created entity.User
	if err := rows.StructScan(&created); err != nil {
		return nil, fmt.Errorf("failed to scan created user: %w", err)
	}

	return &created, nil
}

// GetByID retrieves an active user by ID
func (r *userRepository) GetByID(id int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active = TRUE`

	var user entity.User
	err := r.db.Get(&user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &user, nil
}

// GetByMobileNumber retrieves an active user by mobile number
func (r *userRepository) GetByMobileNumber(mobileNumber int64) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE mobile_number = $1 AND is_active = TRUE`

	var user entity.User
	err := r.db.Get(&user, query, mobileNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by mobile number: %w", err)
	}

	return &user, nil
}

// GetByEmail retrieves an active user by email address
func (r *userRepository) GetByEmail(email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email_address = $1 AND is_active = TRUE`

	var user entity.User
	err := r.db.Get(&user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return &user, nil
}

// ExistsWithEmailOrMobile reports whether any user, active or not,
// already holds the email address or the mobile number.
func (r *userRepository) ExistsWithEmailOrMobile(email string, mobileNumber int64) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE email_address = $1 OR mobile_number = $2`

	var count int
	if err := r.db.Get(&count, query, email, mobileNumber); err != nil {
		return false, fmt.Errorf("failed to check for existing user: %w", err)
	}

	return count > 0, nil
}

// EmailTaken reports whether another user already holds the email address
func (r *userRepository) EmailTaken(email string, excludeID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE email_address = $1 AND id <> $2`

	var count int
	if err := r.db.Get(&count, query, email, excludeID); err != nil {
		return false, fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	return count > 0, nil
}

// MobileTaken reports whether another user already holds the mobile number
func (r *userRepository) MobileTaken(mobileNumber int64, excludeID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE mobile_number = $1 AND id <> $2`

	var count int
	if err := r.db.Get(&count, query, mobileNumber, excludeID); err != nil {
		return false, fmt.Errorf("failed to check mobile uniqueness: %w", err)
	}

	return count > 0, nil
}

// Update persists the full user row
func (r *userRepository) Update(user *entity.User) (*entity.User, error) {
	query := `
		UPDATE users
		SET first_name = :first_name, last_name = :last_name, password = :password,
		    mobile_number = :mobile_number, email_address = :email_address,
		    updated_at = :updated_at, is_phone_verified = :is_phone_verified
		WHERE id = :id AND is_active = TRUE
		RETURNING ` + userColumns

	rows, err := r.db.NamedQuery(query, user)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("user not found")
	}

	var updated entity.User
	if err := rows.StructScan(&updated); err != nil {
		return nil, fmt.Errorf("failed to scan updated user: %w", err)
	}

	return &updated, nil
}

// SoftDelete marks a user inactive
func (r *userRepository) SoftDelete(id int64, now int64) (bool, error) {
	query := `UPDATE users SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active = TRUE`

	result, err := r.db.Exec(query, id, now)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// List retrieves all active users
func (r *userRepository) List() ([]entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_active = TRUE ORDER BY created_at DESC`

	var users []entity.User
	if err := r.db.Select(&users, query); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}
