package entity

// OTP represents a one-time passcode issued for phone verification.
// Records are disposable: a cleanup routine removes expired ones.
type OTP struct {
	ID           int64  `db:"id" json:"id"`
	MobileNumber int64  `db:"mobile_number" json:"mobile_number" validate:"required,mobile_number"`
	OTPCode      string `db:"otp_code" json:"otp_code"`
	CreatedAt    int64  `db:"created_at" json:"created_at"`
	ExpiresAt    int64  `db:"expires_at" json:"expires_at"`
	IsUsed       bool   `db:"is_used" json:"is_used"`
	Attempts     int    `db:"attempts" json:"attempts"`
}

// TableName returns the table name for the OTP entity
func (OTP) TableName() string {
	return "otp_store"
}

// PhoneVerification proves that a mobile number passed OTP verification.
// At most one live record exists per number; the token is single-use.
type PhoneVerification struct {
	ID                int64  `db:"id" json:"id"`
	MobileNumber      int64  `db:"mobile_number" json:"mobile_number"`
	VerificationToken string `db:"verification_token" json:"verification_token"`
	VerifiedAt        int64  `db:"verified_at" json:"verified_at"`
	ExpiresAt         int64  `db:"expires_at" json:"expires_at"`
	IsUsed            bool   `db:"is_used" json:"is_used"`
}

// TableName returns the table name for the PhoneVerification entity
func (PhoneVerification) TableName() string {
	return "phone_verifications"
}

// OTPRequest represents the request to send an OTP
type OTPRequest struct {
	MobileNumber int64 `json:"mobile_number" validate:"required,mobile_number"`
}

// OTPVerifyRequest represents the request to verify an OTP
type OTPVerifyRequest struct {
	MobileNumber int64  `json:"mobile_number" validate:"required,mobile_number"`
	OTPCode      string `json:"otp_code" validate:"required,len=6,numeric"`
}

// OTPResponse represents the OTP issuance response
type OTPResponse struct {
	Message   string `json:"message"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// PhoneVerificationResponse carries the verification token minted on a
// successful OTP check.
type PhoneVerificationResponse struct {
	Message           string `json:"message"`
	MobileNumber      int64  `json:"mobile_number"`
	Verified          bool   `json:"verified"`
	VerificationToken string `json:"verification_token"`
}
