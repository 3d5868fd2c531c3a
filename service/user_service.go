package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"task-manager/entity"
	"task-manager/pkg/apperr"
	"task-manager/pkg/logger"
	"task-manager/pkg/password"
	"task-manager/repository"

	"github.com/lib/pq"
)

// UserService interface defines user business operations
type UserService interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.UserResponse, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error)
	GetByID(ctx context.Context, id int64) (*entity.UserResponse, error)
	Update(ctx context.Context, id int64, req *entity.UserUpdateRequest) (*entity.UserResponse, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]entity.UserResponse, error)
}

// userService implements UserService interface
type userService struct {
	userRepo         repository.UserRepository
	verificationRepo repository.VerificationRepository
	hasher           password.Hasher
	logger           *logger.Logger
}

// NewUserService creates a new user service instance
func NewUserService(
	userRepo repository.UserRepository,
	verificationRepo repository.VerificationRepository,
	hasher password.Hasher,
	logger *logger.Logger,
) UserService {
	return &userService{
		userRepo:         userRepo,
		verificationRepo: verificationRepo,
		hasher:           hasher,
		logger:           logger,
	}
}

// Register creates a user against a live phone verification token. The
// token is consumed after the insert; the duplicate check spans all
// users including soft-deleted ones, so a consumed token cannot be
// replayed for the same identity anyway.
func (s *userService) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.UserResponse, error) {
	now := time.Now().Unix()

	verification, err := s.verificationRepo.GetActive(req.MobileNumber, req.VerificationToken, now)
	if err != nil {
		s.logger.Errorw("Failed to look up verification token", "mobile_number", req.MobileNumber, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to register user", err)
	}
	if verification == nil {
		return nil, apperr.New(apperr.Validation, "Invalid or expired verification token. Please verify your phone number first.")
	}

	exists, err := s.userRepo.ExistsWithEmailOrMobile(req.EmailAddress, req.MobileNumber)
	if err != nil {
		s.logger.Errorw("Failed to check for duplicate user", "mobile_number", req.MobileNumber, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to register user", err)
	}
	if exists {
		return nil, apperr.New(apperr.Conflict, "User with this email or mobile number already exists")
	}

	digest, err := s.hasher.Hash(req.Password)
	if err != nil {
		s.logger.Errorw("Failed to hash password", "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to register user", err)
	}

	created, err := s.userRepo.Create(&entity.User{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        digest,
		MobileNumber:    req.MobileNumber,
		EmailAddress:    req.EmailAddress,
		CreatedAt:       now,
		IsActive:        true,
		IsPhoneVerified: true,
	})
	if err != nil {
		// Two registrations racing past the duplicate check land here;
		// the unique indexes on email and mobile settle the race.
		if isUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "User with this email or mobile number already exists")
		}
		s.logger.Errorw("Failed to create user", "mobile_number", req.MobileNumber, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to register user", err)
	}

	if err := s.verificationRepo.MarkAsUsed(verification.ID); err != nil {
		// Registration already succeeded; the token just stays live
		// until cleanup. Replay is blocked by the duplicate check.
		s.logger.Warnw("Failed to consume verification token", "verification_id", verification.ID, "error", err)
	}

	s.logger.Infow("User registered", "user_id", created.ID, "mobile_number", created.MobileNumber)

	response := created.ToResponse()
	return &response, nil
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Login authenticates by email or mobile number. All failure modes
// return the same message so the response does not leak which part
// was wrong.
func (s *userService) Login(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	var user *entity.User
	var err error

	switch req.LoginType {
	case "email":
		user, err = s.userRepo.GetByEmail(req.Identifier)
	case "phone":
		mobileNumber, parseErr := strconv.ParseInt(req.Identifier, 10, 64)
		if parseErr != nil {
			return nil, apperr.New(apperr.Unauthorized, "Invalid credentials")
		}
		user, err = s.userRepo.GetByMobileNumber(mobileNumber)
	default:
		return nil, apperr.New(apperr.Validation, "login_type must be one of: email, phone")
	}

	if err != nil {
		s.logger.Errorw("Failed to look up user for login", "login_type", req.LoginType, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to log in", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.Unauthorized, "Invalid credentials")
	}

	if !s.hasher.Verify(req.Password, user.Password) {
		return nil, apperr.New(apperr.Unauthorized, "Invalid credentials")
	}

	s.logger.Infow("User logged in", "user_id", user.ID, "login_type", req.LoginType)

	return &entity.LoginResponse{
		Message:   "Login successful",
		User:      user.ToResponse(),
		LoginTime: time.Now().Unix(),
	}, nil
}

// GetByID retrieves an active user
func (s *userService) GetByID(ctx context.Context, id int64) (*entity.UserResponse, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		s.logger.Errorw("Failed to get user", "user_id", id, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to get user", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}

	response := user.ToResponse()
	return &response, nil
}

// Update applies a partial profile update. Changing the mobile number
// drops the phone-verified flag until the new number goes through
// verification again.
func (s *userService) Update(ctx context.Context, id int64, req *entity.UserUpdateRequest) (*entity.UserResponse, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		s.logger.Errorw("Failed to get user for update", "user_id", id, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to update user", err)
	}
	if user == nil {
		return nil, apperr.New(apperr.NotFound, "User not found")
	}

	if req.EmailAddress != nil && *req.EmailAddress != user.EmailAddress {
		taken, err := s.userRepo.EmailTaken(*req.EmailAddress, id)
		if err != nil {
			s.logger.Errorw("Failed to check email uniqueness", "user_id", id, "error", err)
			return nil, apperr.Wrap(apperr.Internal, "Failed to update user", err)
		}
		if taken {
			return nil, apperr.New(apperr.Conflict, "Email address already in use")
		}
		user.EmailAddress = *req.EmailAddress
	}

	if req.MobileNumber != nil && *req.MobileNumber != user.MobileNumber {
		taken, err := s.userRepo.MobileTaken(*req.MobileNumber, id)
		if err != nil {
			s.logger.Errorw("Failed to check mobile uniqueness", "user_id", id, "error", err)
			return nil, apperr.Wrap(apperr.Internal, "Failed to update user", err)
		}
		if taken {
			return nil, apperr.New(apperr.Conflict, "Mobile number already in use")
		}
		user.MobileNumber = *req.MobileNumber
		user.IsPhoneVerified = false
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Password != nil {
		digest, err := s.hasher.Hash(*req.Password)
		if err != nil {
			s.logger.Errorw("Failed to hash password", "user_id", id, "error", err)
			return nil, apperr.Wrap(apperr.Internal, "Failed to update user", err)
		}
		user.Password = digest
	}

	now := time.Now().Unix()
	user.UpdatedAt = &now

	updated, err := s.userRepo.Update(user)
	if err != nil {
		s.logger.Errorw("Failed to update user", "user_id", id, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to update user", err)
	}

	s.logger.Infow("User updated", "user_id", updated.ID)

	response := updated.ToResponse()
	return &response, nil
}

// Delete soft-deletes a user
func (s *userService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.userRepo.SoftDelete(id, time.Now().Unix())
	if err != nil {
		s.logger.Errorw("Failed to delete user", "user_id", id, "error", err)
		return apperr.Wrap(apperr.Internal, "Failed to delete user", err)
	}
	if !deleted {
		return apperr.New(apperr.NotFound, "User not found")
	}

	s.logger.Infow("User deleted", "user_id", id)
	return nil
}

// List retrieves all active users
func (s *userService) List(ctx context.Context) ([]entity.UserResponse, error) {
	users, err := s.userRepo.List()
	if err != nil {
		s.logger.Errorw("Failed to list users", "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to list users", err)
	}

	responses := make([]entity.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}

	return responses, nil
}
