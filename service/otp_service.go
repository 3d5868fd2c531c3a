package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
	"time"

	"task-manager/config"
	"task-manager/entity"
	"task-manager/pkg/apperr"
	"task-manager/pkg/logger"
	"task-manager/pkg/sms"
	"task-manager/repository"
)

// OTPService interface defines the phone verification business operations
type OTPService interface {
	SendOTP(ctx context.Context, mobileNumber int64) (*entity.OTPResponse, error)
	VerifyPhone(ctx context.Context, mobileNumber int64, code string) (*entity.PhoneVerificationResponse, error)
	CleanupExpired() error
}

// otpService implements OTPService interface
type otpService struct {
	otpRepo          repository.OTPRepository
	verificationRepo repository.VerificationRepository
	userRepo         repository.UserRepository
	rateLimitRepo    repository.RateLimitRepository
	smsSender        sms.Sender
	cfg              *config.Config
	logger           *logger.Logger
}

// NewOTPService creates a new OTP service instance
func NewOTPService(
	otpRepo repository.OTPRepository,
	verificationRepo repository.VerificationRepository,
	userRepo repository.UserRepository,
	rateLimitRepo repository.RateLimitRepository,
	smsSender sms.Sender,
	cfg *config.Config,
	logger *logger.Logger,
) OTPService {
	return &otpService{
		otpRepo:          otpRepo,
		verificationRepo: verificationRepo,
		userRepo:         userRepo,
		rateLimitRepo:    rateLimitRepo,
		smsSender:        smsSender,
		cfg:              cfg,
		logger:           logger,
	}
}

// SendOTP issues a one-time passcode for phone verification. A failed
// SMS dispatch rolls the stored record back so no partial state survives.
func (s *otpService) SendOTP(ctx context.Context, mobileNumber int64) (*entity.OTPResponse, error) {
	existing, err := s.userRepo.GetByMobileNumber(mobileNumber)
	if err != nil {
		s.logger.Errorw("Failed to check for existing user", "mobile_number", mobileNumber, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to send OTP", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.Conflict, "User with this mobile number already exists")
	}

	limited, err := s.rateLimitRepo.InCooldown(ctx, mobileNumber)
	if err != nil {
		s.logger.Errorw("Failed to check OTP cooldown", "mobile_number", mobileNumber, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to send OTP", err)
	}
	if limited {
		return nil, apperr.New(apperr.RateLimited, "Please wait before requesting another OTP")
	}

	code, err := s.generateOTPCode()
	if err != nil {
		s.logger.Errorw("Failed to generate OTP code", "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to send OTP", err)
	}

	now := time.Now().Unix()
	expiresIn := int(s.cfg.OTP.ExpirationTime.Seconds())
	created, err := s.otpRepo.Create(&entity.OTP{
		MobileNumber: mobileNumber,
		OTPCode:      code,
		CreatedAt:    now,
		ExpiresAt:    now + int64(expiresIn),
		IsUsed:       false,
		Attempts:     0,
	})
	if err != nil {
		s.logger.Errorw("Failed to store OTP", "mobile_number", mobileNumber, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to send OTP", err)
	}

	if err := s.rateLimitRepo.StartCooldown(ctx, mobileNumber, s.cfg.OTP.CooldownWindow); err != nil {
		s.logger.Errorw("Failed to arm OTP cooldown", "mobile_number", mobileNumber, "error", err)
		// The OTP itself is fine; the window just won't be enforced.
	}

	body := fmt.Sprintf("Your OTP for phone verification is: %s. Valid for %d minutes. Do not share this OTP with anyone.",
		code, int(s.cfg.OTP.ExpirationTime.Minutes()))

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SMS.SendTimeout)
	defer cancel()

	if err := s.smsSender.Send(sendCtx, mobileNumber, body); err != nil {
		s.logger.Errorw("Failed to dispatch OTP SMS", "mobile_number", mobileNumber, "error", err)
		if delErr := s.otpRepo.DeleteByID(created.ID); delErr != nil {
			s.logger.Errorw("Failed to roll back OTP record", "otp_id", created.ID, "error", delErr)
		}
		if clrErr := s.rateLimitRepo.ClearCooldown(ctx, mobileNumber); clrErr != nil {
			s.logger.Errorw("Failed to clear OTP cooldown", "mobile_number", mobileNumber, "error", clrErr)
		}
		return nil, apperr.Wrap(apperr.Delivery, "Failed to send OTP. Please try again.", err)
	}

	s.logger.Infow("OTP issued", "mobile_number", mobileNumber, "expires_at", created.ExpiresAt)

	return &entity.OTPResponse{
		Message:   "OTP sent successfully for phone verification",
		ExpiresIn: expiresIn,
	}, nil
}

// VerifyPhone validates a submitted code against the newest live OTP
// record and mints a verification token on success.
func (s *otpService) VerifyPhone(ctx context.Context, mobileNumber int64, code string) (*entity.PhoneVerificationResponse, error) {
	now := time.Now().Unix()

	record, err := s.otpRepo.GetActiveByMobileNumber(mobileNumber, now)
	if err != nil {
		s.logger.Errorw("Failed to look up OTP", "mobile_number", mobileNumber, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to verify OTP", err)
	}
	if record == nil {
		return nil, apperr.New(apperr.Validation, "Invalid or expired OTP")
	}

	if record.Attempts >= s.cfg.OTP.MaxAttempts {
		// Burn the record so it cannot be retried even with the right code.
		if err := s.otpRepo.MarkAsUsed(record.ID); err != nil {
			s.logger.Errorw("Failed to burn exhausted OTP", "otp_id", record.ID, "error", err)
			return nil, apperr.Wrap(apperr.Internal, "Failed to verify OTP", err)
		}
		return nil, apperr.New(apperr.Validation, "Too many failed attempts. Please request a new OTP.")
	}

	if record.OTPCode != code {
		if err := s.otpRepo.IncrementAttempts(record.ID); err != nil {
			s.logger.Errorw("Failed to record OTP attempt", "otp_id", record.ID, "error", err)
			return nil, apperr.Wrap(apperr.Internal, "Failed to verify OTP", err)
		}
		remaining := s.cfg.OTP.MaxAttempts - (record.Attempts + 1)
		return nil, apperr.Newf(apperr.Validation, "Invalid OTP. %d attempts remaining.", remaining)
	}

	if err := s.otpRepo.MarkAsUsed(record.ID); err != nil {
		s.logger.Errorw("Failed to mark OTP as used", "otp_id", record.ID, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to verify OTP", err)
	}

	token, err := s.generateVerificationToken()
	if err != nil {
		s.logger.Errorw("Failed to generate verification token", "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to verify OTP", err)
	}

	// At most one live verification per number.
	if err := s.verificationRepo.DeleteByMobileNumber(mobileNumber); err != nil {
		s.logger.Errorw("Failed to remove prior verifications", "mobile_number", mobileNumber, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to verify OTP", err)
	}

	_, err = s.verificationRepo.Create(&entity.PhoneVerification{
		MobileNumber:      mobileNumber,
		VerificationToken: token,
		VerifiedAt:        now,
		ExpiresAt:         now + int64(s.cfg.Verification.ExpirationTime.Seconds()),
		IsUsed:            false,
	})
	if err != nil {
		s.logger.Errorw("Failed to store phone verification", "mobile_number", mobileNumber, "error", err)
		return nil, apperr.Wrap(apperr.Internal, "Failed to verify OTP", err)
	}

	s.logger.Infow("Phone number verified", "mobile_number", mobileNumber)

	return &entity.PhoneVerificationResponse{
		Message:           "Phone number verified successfully",
		MobileNumber:      mobileNumber,
		Verified:          true,
		VerificationToken: token,
	}, nil
}

// CleanupExpired removes expired OTP records and stale verifications
func (s *otpService) CleanupExpired() error {
	now := time.Now().Unix()

	otps, err := s.otpRepo.DeleteExpired(now)
	if err != nil {
		return fmt.Errorf("failed to delete expired OTPs: %w", err)
	}

	verifications, err := s.verificationRepo.DeleteExpired(now)
	if err != nil {
		return fmt.Errorf("failed to delete expired verifications: %w", err)
	}

	if otps > 0 || verifications > 0 {
		s.logger.Infow("Expired records cleaned up", "otps", otps, "verifications", verifications)
	}

	return nil
}

// generateOTPCode generates a uniform random numeric code. Leading
// zeros are allowed, so the space is 10^length.
func (s *otpService) generateOTPCode() (string, error) {
	maxValue := big.NewInt(1)
	for i := 0; i < s.cfg.OTP.Length; i++ {
		maxValue.Mul(maxValue, big.NewInt(10))
	}

	randomNumber, err := rand.Int(rand.Reader, maxValue)
	if err != nil {
		return "", fmt.Errorf("failed to generate random number: %w", err)
	}

	format := fmt.Sprintf("%%0%dd", s.cfg.OTP.Length)
	return fmt.Sprintf(format, randomNumber), nil
}

// generateVerificationToken generates an unguessable single-use token
func (s *otpService) generateVerificationToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}

	return "ver_" + base64.RawURLEncoding.EncodeToString(bytes), nil
}
