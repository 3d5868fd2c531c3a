package validator

import (
	"testing"

	"task-manager/entity"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	v := New()

	assert.NotNil(t, v)
	assert.NotNil(t, v.validator)
}

func TestValidateStruct_ValidOTPRequest(t *testing.T) {
	v := New()

	req := entity.OTPRequest{MobileNumber: 9876543210}

	err := v.ValidateStruct(&req)
	assert.NoError(t, err)
}

func TestValidateStruct_Nil(t *testing.T) {
	v := New()

	err := v.ValidateStruct(nil)
	assert.Error(t, err)
}

func TestValidateMobileNumber(t *testing.T) {
	v := New()

	valid := []int64{
		1_000_000_000,
		9_999_999_999,
		9876543210,
	}
	for _, number := range valid {
		req := entity.OTPRequest{MobileNumber: number}
		err := v.ValidateStruct(&req)
		assert.NoError(t, err, "mobile number %d should be valid", number)
	}

	invalid := []int64{
		999_999_999,    // nine digits
		10_000_000_000, // eleven digits
		123,
		-9876543210,
	}
	for _, number := range invalid {
		req := entity.OTPRequest{MobileNumber: number}
		err := v.ValidateStruct(&req)
		assert.Error(t, err, "mobile number %d should be invalid", number)
		assert.Contains(t, err.Error(), "mobile_number")
	}
}

func TestValidateOTPCode(t *testing.T) {
	v := New()

	req := entity.OTPVerifyRequest{MobileNumber: 9876543210, OTPCode: "123456"}
	assert.NoError(t, v.ValidateStruct(&req))

	tooShort := entity.OTPVerifyRequest{MobileNumber: 9876543210, OTPCode: "123"}
	err := v.ValidateStruct(&tooShort)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "otp_code")

	notDigits := entity.OTPVerifyRequest{MobileNumber: 9876543210, OTPCode: "12a456"}
	err = v.ValidateStruct(&notDigits)
	assert.Error(t, err)
}

func TestValidateRegisterRequest(t *testing.T) {
	v := New()

	req := entity.RegisterRequest{
		FirstName:         "Asha",
		LastName:          "Verma",
		Password:          "correct-horse",
		MobileNumber:      9876543210,
		EmailAddress:      "asha@example.com",
		VerificationToken: "ver_token",
	}
	assert.NoError(t, v.ValidateStruct(&req))

	req.Password = "short"
	err := v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "password")

	req.Password = "correct-horse"
	req.EmailAddress = "not-an-email"
	err = v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "email_address")
}

func TestValidateTaskPriorityAndStatus(t *testing.T) {
	v := New()

	req := entity.TaskCreateRequest{
		Title:         "Write report",
		Description:   "Quarterly report",
		StartTaskTime: "2030-01-01 10:00",
		EndTaskTime:   "2030-01-01 12:00",
		Priority:      "high",
		Status:        "in_progress",
	}
	assert.NoError(t, v.ValidateStruct(&req))

	// Empty priority and status fall back to service defaults.
	req.Priority = ""
	req.Status = ""
	assert.NoError(t, v.ValidateStruct(&req))

	req.Priority = "urgent"
	err := v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "low, medium, high")

	req.Priority = "high"
	req.Status = "done"
	err = v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pending, in_progress, completed, cancelled")
}

func TestValidateLoginRequest(t *testing.T) {
	v := New()

	req := entity.LoginRequest{
		Identifier: "asha@example.com",
		Password:   "correct-horse",
		LoginType:  "email",
	}
	assert.NoError(t, v.ValidateStruct(&req))

	req.LoginType = "sms"
	err := v.ValidateStruct(&req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "login_type")
}
