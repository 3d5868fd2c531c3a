package entity

// User represents a registered user. Users are created only through the
// registration gate, never directly; deletion is soft via is_active.
type User struct {
	ID              int64  `db:"id" json:"id"`
	FirstName       string `db:"first_name" json:"first_name"`
	LastName        string `db:"last_name" json:"last_name"`
	Password        string `db:"password" json:"-"`
	MobileNumber    int64  `db:"mobile_number" json:"mobile_number" validate:"required,mobile_number"`
	EmailAddress    string `db:"email_address" json:"email_address" validate:"required,email"`
	CreatedAt       int64  `db:"created_at" json:"created_at"`
	UpdatedAt       *int64 `db:"updated_at" json:"updated_at"`
	IsActive        bool   `db:"is_active" json:"is_active"`
	IsPhoneVerified bool   `db:"is_phone_verified" json:"is_phone_verified"`
}

// TableName returns the table name for the User entity
func (User) TableName() string {
	return "users"
}

// RegisterRequest represents the request to register a user against a
// phone verification token.
type RegisterRequest struct {
	FirstName         string `json:"first_name" validate:"required"`
	LastName          string `json:"last_name" validate:"required"`
	Password          string `json:"password" validate:"required,min=8"`
	MobileNumber      int64  `json:"mobile_number" validate:"required,mobile_number"`
	EmailAddress      string `json:"email_address" validate:"required,email"`
	VerificationToken string `json:"verification_token" validate:"required"`
}

// UserUpdateRequest represents a partial profile update. Nil fields are
// left untouched.
type UserUpdateRequest struct {
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Password     *string `json:"password" validate:"omitempty,min=8"`
	MobileNumber *int64  `json:"mobile_number" validate:"omitempty,mobile_number"`
	EmailAddress *string `json:"email_address" validate:"omitempty,email"`
}

// UserResponse represents the user response
type UserResponse struct {
	ID              int64  `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	MobileNumber    int64  `json:"mobile_number"`
	EmailAddress    string `json:"email_address"`
	CreatedAt       int64  `json:"created_at"`
	UpdatedAt       *int64 `json:"updated_at"`
	IsActive        bool   `json:"is_active"`
	IsPhoneVerified bool   `json:"is_phone_verified"`
}

// LoginRequest represents a credential login. Identifier holds either
// the email address or the 10-digit mobile number, per login_type.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
	LoginType  string `json:"login_type" validate:"required,oneof=email phone"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Message   string       `json:"message"`
	User      UserResponse `json:"user"`
	LoginTime int64        `json:"login_time"`
}

// ToResponse converts a User entity to its response form.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		MobileNumber:    u.MobileNumber,
		EmailAddress:    u.EmailAddress,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
		IsActive:        u.IsActive,
		IsPhoneVerified: u.IsPhoneVerified,
	}
}
