package repository

import (
	"database/sql"
	"fmt"

	"task-manager/entity"

	"github.com/jmoiron/sqlx"
)

// OTPRepository interface defines OTP data operations
type OTPRepository interface {
	Create(otp *entity.OTP) (*entity.OTP, error)
	GetActiveByMobileNumber(mobileNumber int64, now int64) (*entity.OTP, error)
	IncrementAttempts(id int64) error
	MarkAsUsed(id int64) error
	DeleteByID(id int64) error
	DeleteExpired(now int64) (int64, error)
}

// otpRepository implements OTPRepository interface
type otpRepository struct {
	db *sqlx.DB
}

// NewOTPRepository creates a new OTP repository instance
func NewOTPRepository(db *sqlx.DB) OTPRepository {
	return &otpRepository{
		db: db,
	}
}

// Create inserts a new OTP record
func (r *otpRepository) Create(otp *entity.OTP) (*entity.OTP, error) {
	query := `
		INSERT INTO otp_store (mobile_number, otp_code, created_at, expires_at, is_used, attempts)
		VALUES (:mobile_number, :otp_code, :created_at, :expires_at, :is_used, :attempts)
		RETURNING id, mobile_number, otp_code, created_at, expires_at, is_used, attempts
	`

	rows, err := r.db.NamedQuery(query, otp)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTP: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, fmt.Errorf("failed to get created OTP")
	}

	var created entity.OTP
	if err := rows.StructScan(&created); err != nil {
		return nil, fmt.Errorf("failed to scan created OTP: %w", err)
	}

	return &created, nil
}

// GetActiveByMobileNumber retrieves the newest unused, unexpired OTP
// for a mobile number. Historical records may coexist; only the most
// recent live one counts.
func (r *otpRepository) GetActiveByMobileNumber(mobileNumber int64, now int64) (*entity.OTP, error) {
	query := `
		SELECT id, mobile_number, otp_code, created_at, expires_at, is_used, attempts
		FROM otp_store
		WHERE mobile_number = $1 AND is_used = FALSE AND expires_at > $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	var otp entity.OTP
	err := r.db.Get(&otp, query, mobileNumber, now)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get OTP: %w", err)
	}

	return &otp, nil
}

// IncrementAttempts records a failed verification attempt
func (r *otpRepository) IncrementAttempts(id int64) error {
	query := `UPDATE otp_store SET attempts = attempts + 1 WHERE id = $1`

	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to increment OTP attempts: %w", err)
	}

	return nil
}

// MarkAsUsed marks an OTP as used
func (r *otpRepository) MarkAsUsed(id int64) error {
	query := `UPDATE otp_store SET is_used = TRUE WHERE id = $1`

	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to mark OTP as used: %w", err)
	}

	return nil
}

// DeleteByID removes an OTP record. Used to roll back issuance when the
// SMS dispatch fails so no partial state survives.
func (r *otpRepository) DeleteByID(id int64) error {
	query := `DELETE FROM otp_store WHERE id = $1`

	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to delete OTP: %w", err)
	}

	return nil
}

// DeleteExpired removes expired OTP records
func (r *otpRepository) DeleteExpired(now int64) (int64, error) {
	query := `DELETE FROM otp_store WHERE expires_at < $1`

	result, err := r.db.Exec(query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired OTPs: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}

	return rowsAffected, nil
}
