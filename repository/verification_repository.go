package repository

import (
	"database/sql"
	"fmt"

	"task-manager/entity"

	"github.com/jmoiron/sqlx"
)

// VerificationRepository interface defines phone verification data operations
type VerificationRepository interface {
	Create(verification *entity.PhoneVerification) (*entity.PhoneVerification, error)
	GetActive(mobileNumber int64, token string, now int64) (*entity.PhoneVerification, error)
	DeleteByMobileNumber(mobileNumber int64) error
	MarkAsUsed(id int64) error
	DeleteExpired(now int64) (int64, error)
}

// verificationRepository implements VerificationRepository interface
type verificationRepository struct {
	db *sqlx.DB
}

// NewVerificationRepository creates a new verification repository instance
func NewVerificationRepository(db *sqlx.DB) VerificationRepository {
	return &verificationRepository{
		db: db,
	}
}

// Create inserts a new phone verification record
func (r *verificationRepository) Create(verification *entity.PhoneVerification) (*entity.PhoneVerification, error) {
	query := `
		INSERT INTO phone_verifications (mobile_number, verification_token, verified_at, expires_at, is_used)
		VALUES (:mobile_number, :verification_token, :verified_at, :expires_at, :is_used)
		RETURNING id, mobile_number, verification_token, verified_at, expires_at, is_used
	`

	rows, err := r.db.NamedQuery(query, verification)
	if err != nil {
		return nil, fmt.Errorf("failed to create phone verification: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("failed to get created phone verification")
	}

	var created entity.PhoneVerification
	if err := rows.StructScan(&created); err != nil {
		return nil, fmt.Errorf("failed to scan created phone verification: %w", err)
	}

	return &created, nil
}

// GetActive retrieves an unconsumed, unexpired verification matching
// both the mobile number and the token.
func (r *verificationRepository) GetActive(mobileNumber int64, token string, now int64) (*entity.PhoneVerification, error) {
	query := `
		SELECT id, mobile_number, verification_token, verified_at, expires_at, is_used
		FROM phone_verifications
		WHERE mobile_number = $1 AND verification_token = $2 AND is_used = FALSE AND expires_at > $3
	`

	var verification entity.PhoneVerification
	err := r.db.Get(&verification, query, mobileNumber, token, now)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get phone verification: %w", err)
	}

	return &verification, nil
}

// DeleteByMobileNumber removes prior verifications for a number so at
// most one live record exists per number.
func (r *verificationRepository) DeleteByMobileNumber(mobileNumber int64) error {
	query := `DELETE FROM phone_verifications WHERE mobile_number = $1`

	if _, err := r.db.Exec(query, mobileNumber); err != nil {
		return fmt.Errorf("failed to delete phone verifications: %w", err)
	}

	return nil
}

// MarkAsUsed consumes a verification token. The record stays around but
// the token is permanently unusable afterwards.
func (r *verificationRepository) MarkAsUsed(id int64) error {
	query := `UPDATE phone_verifications SET is_used = TRUE WHERE id = $1`

	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to mark phone verification as used: %w", err)
	}

	return nil
}

// DeleteExpired removes verifications past their expiry
func (r *verificationRepository) DeleteExpired(now int64) (int64, error) {
	query := `DELETE FROM phone_verifications WHERE expires_at < $1`

	result, err := r.db.Exec(query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired phone verifications: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}

	return rowsAffected, nil
}
