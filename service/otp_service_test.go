package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"task-manager/config"
	"task-manager/entity"
	"task-manager/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		OTP: config.OTP{
			Length:         6,
			ExpirationTime: 5 * time.Minute,
			CooldownWindow: 60 * time.Second,
			MaxAttempts:    3,
		},
		Verification: config.Verification{
			ExpirationTime: time.Hour,
		},
		SMS: config.SMS{
			SendTimeout: 10 * time.Second,
		},
	}
}

type otpFixture struct {
	service       OTPService
	otpRepo       *fakeOTPRepo
	verifications *fakeVerificationRepo
	users         *fakeUserRepo
	rateLimit     *fakeRateLimitRepo
	sender        *fakeSMSSender
}

func newOTPFixture() *otpFixture {
	f := &otpFixture{
		otpRepo:       &fakeOTPRepo{},
		verifications: &fakeVerificationRepo{},
		users:         &fakeUserRepo{},
		rateLimit:     newFakeRateLimitRepo(),
		sender:        &fakeSMSSender{},
	}
	f.service = NewOTPService(f.otpRepo, f.verifications, f.users, f.rateLimit, f.sender, testConfig(), testLogger())
	return f
}

func TestSendOTP_Success(t *testing.T) {
	f := newOTPFixture()

	response, err := f.service.SendOTP(context.Background(), 9876543210)

	require.NoError(t, err)
	assert.Equal(t, "OTP sent successfully for phone verification", response.Message)
	assert.Equal(t, 300, response.ExpiresIn)

	require.Len(t, f.otpRepo.records, 1)
	record := f.otpRepo.records[0]
	assert.Equal(t, int64(9876543210), record.MobileNumber)
	assert.Len(t, record.OTPCode, 6)
	assert.Equal(t, record.CreatedAt+300, record.ExpiresAt)
	assert.False(t, record.IsUsed)
	assert.Equal(t, 0, record.Attempts)

	assert.True(t, f.rateLimit.cooldowns[9876543210])
	require.Len(t, f.sender.sent, 1)
	assert.Contains(t, f.sender.sent[0], record.OTPCode)
}

func TestSendOTP_ExistingUserRejected(t *testing.T) {
	f := newOTPFixture()
	f.users.Create(&entity.User{MobileNumber: 9876543210, IsActive: true})

	_, err := f.service.SendOTP(context.Background(), 9876543210)

	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Equal(t, "User with this mobile number already exists", apperr.MessageOf(err))
	assert.Empty(t, f.otpRepo.records)
}

func TestSendOTP_CooldownRejected(t *testing.T) {
	f := newOTPFixture()

	_, err := f.service.SendOTP(context.Background(), 9876543210)
	require.NoError(t, err)

	_, err = f.service.SendOTP(context.Background(), 9876543210)
	require.Error(t, err)
	assert.Equal(t, apperr.RateLimited, apperr.KindOf(err))
	assert.Len(t, f.otpRepo.records, 1)
}

func TestSendOTP_CooldownExpiryAllowsReissue(t *testing.T) {
	f := newOTPFixture()

	_, err := f.service.SendOTP(context.Background(), 9876543210)
	require.NoError(t, err)

	// Window elapsed.
	f.rateLimit.ClearCooldown(context.Background(), 9876543210)

	_, err = f.service.SendOTP(context.Background(), 9876543210)
	require.NoError(t, err)
	assert.Len(t, f.otpRepo.records, 2)
}

func TestSendOTP_DispatchFailureRollsBack(t *testing.T) {
	f := newOTPFixture()
	f.sender.fail = true

	_, err := f.service.SendOTP(context.Background(), 9876543210)

	require.Error(t, err)
	assert.Equal(t, apperr.Delivery, apperr.KindOf(err))
	assert.Equal(t, "Failed to send OTP. Please try again.", apperr.MessageOf(err))

	// No partial state survives a failed dispatch.
	assert.Empty(t, f.otpRepo.records)
	assert.False(t, f.rateLimit.cooldowns[9876543210])

	// And the number can immediately retry.
	f.sender.fail = false
	_, err = f.service.SendOTP(context.Background(), 9876543210)
	require.NoError(t, err)
}

func seedOTP(f *otpFixture, mobile int64, code string) *entity.OTP {
	now := time.Now().Unix()
	created, _ := f.otpRepo.Create(&entity.OTP{
		MobileNumber: mobile,
		OTPCode:      code,
		CreatedAt:    now,
		ExpiresAt:    now + 300,
	})
	return created
}

func TestVerifyPhone_Success(t *testing.T) {
	f := newOTPFixture()
	seedOTP(f, 9876543210, "123456")

	response, err := f.service.VerifyPhone(context.Background(), 9876543210, "123456")

	require.NoError(t, err)
	assert.Equal(t, "Phone number verified successfully", response.Message)
	assert.Equal(t, int64(9876543210), response.MobileNumber)
	assert.True(t, response.Verified)
	assert.True(t, strings.HasPrefix(response.VerificationToken, "ver_"))

	assert.True(t, f.otpRepo.records[0].IsUsed)
	require.Len(t, f.verifications.records, 1)
	verification := f.verifications.records[0]
	assert.Equal(t, response.VerificationToken, verification.VerificationToken)
	assert.Equal(t, verification.VerifiedAt+3600, verification.ExpiresAt)
}

func TestVerifyPhone_NoActiveOTP(t *testing.T) {
	f := newOTPFixture()

	_, err := f.service.VerifyPhone(context.Background(), 9876543210, "123456")

	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.Equal(t, "Invalid or expired OTP", apperr.MessageOf(err))
}

func TestVerifyPhone_ExpiredOTP(t *testing.T) {
	f := newOTPFixture()
	record := seedOTP(f, 9876543210, "123456")
	record.ExpiresAt = time.Now().Unix() - 1
	f.otpRepo.records[0] = record

	_, err := f.service.VerifyPhone(context.Background(), 9876543210, "123456")

	require.Error(t, err)
	assert.Equal(t, "Invalid or expired OTP", apperr.MessageOf(err))
}

func TestVerifyPhone_UsedOTPRejected(t *testing.T) {
	f := newOTPFixture()
	seedOTP(f, 9876543210, "123456")

	_, err := f.service.VerifyPhone(context.Background(), 9876543210, "123456")
	require.NoError(t, err)

	// The same code cannot be consumed twice.
	_, err = f.service.VerifyPhone(context.Background(), 9876543210, "123456")
	require.Error(t, err)
	assert.Equal(t, "Invalid or expired OTP", apperr.MessageOf(err))
}

func TestVerifyPhone_WrongCodeCountsDown(t *testing.T) {
	f := newOTPFixture()
	seedOTP(f, 9876543210, "123456")

	_, err := f.service.VerifyPhone(context.Background(), 9876543210, "000000")
	require.Error(t, err)
	assert.Equal(t, "Invalid OTP. 2 attempts remaining.", apperr.MessageOf(err))

	_, err = f.service.VerifyPhone(context.Background(), 9876543210, "000000")
	require.Error(t, err)
	assert.Equal(t, "Invalid OTP. 1 attempts remaining.", apperr.MessageOf(err))

	_, err = f.service.VerifyPhone(context.Background(), 9876543210, "000000")
	require.Error(t, err)
	assert.Equal(t, "Invalid OTP. 0 attempts remaining.", apperr.MessageOf(err))
}

func TestVerifyPhone_AttemptsExhaustedBurnsOTP(t *testing.T) {
	f := newOTPFixture()
	seedOTP(f, 9876543210, "123456")

	for i := 0; i < 3; i++ {
		_, err := f.service.VerifyPhone(context.Background(), 9876543210, "000000")
		require.Error(t, err)
	}

	// Even the correct code is rejected once attempts are exhausted.
	_, err := f.service.VerifyPhone(context.Background(), 9876543210, "123456")
	require.Error(t, err)
	assert.Equal(t, "Too many failed attempts. Please request a new OTP.", apperr.MessageOf(err))
	assert.True(t, f.otpRepo.records[0].IsUsed)
}

func TestVerifyPhone_ReplacesPriorVerification(t *testing.T) {
	f := newOTPFixture()
	seedOTP(f, 9876543210, "111111")

	_, err := f.service.VerifyPhone(context.Background(), 9876543210, "111111")
	require.NoError(t, err)

	seedOTP(f, 9876543210, "222222")
	response, err := f.service.VerifyPhone(context.Background(), 9876543210, "222222")
	require.NoError(t, err)

	// Only the newest verification survives.
	require.Len(t, f.verifications.records, 1)
	assert.Equal(t, response.VerificationToken, f.verifications.records[0].VerificationToken)
}

func TestCleanupExpired(t *testing.T) {
	f := newOTPFixture()
	now := time.Now().Unix()

	f.otpRepo.Create(&entity.OTP{MobileNumber: 9876543210, OTPCode: "111111", CreatedAt: now - 600, ExpiresAt: now - 300})
	f.otpRepo.Create(&entity.OTP{MobileNumber: 9876543211, OTPCode: "222222", CreatedAt: now, ExpiresAt: now + 300})
	f.verifications.Create(&entity.PhoneVerification{MobileNumber: 9876543212, VerificationToken: "ver_stale", VerifiedAt: now - 7200, ExpiresAt: now - 3600})

	err := f.service.CleanupExpired()

	require.NoError(t, err)
	assert.Len(t, f.otpRepo.records, 1)
	assert.Empty(t, f.verifications.records)
}
