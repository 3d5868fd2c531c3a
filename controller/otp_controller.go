package controller

import (
	"net/http"

	"task-manager/entity"
	"task-manager/pkg/logger"
	"task-manager/service"
	"task-manager/validator"

	"github.com/labstack/echo/v4"
)

// OTPController handles phone verification HTTP requests
type OTPController struct {
	otpService service.OTPService
	validator  *validator.Validator
	logger     *logger.Logger
}

// NewOTPController creates a new OTP controller instance
func NewOTPController(otpService service.OTPService, validator *validator.Validator, logger *logger.Logger) *OTPController {
	return &OTPController{
		otpService: otpService,
		validator:  validator,
		logger:     logger,
	}
}

// SendOTP handles OTP generation and dispatch
// @Summary Send OTP
// @Description Generate and send an OTP to a mobile number for phone verification
// @Tags Users
// @Accept json
// @Produce json
// @Param request body entity.OTPRequest true "Send OTP Request"
// @Success 200 {object} entity.OTPResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/send_otp [post]
func (c *OTPController) SendOTP(ctx echo.Context) error {
	var req entity.OTPRequest

	if err := ctx.Bind(&req); err != nil {
		c.logger.Errorw("Failed to bind request", "error", err)
		return bindError(ctx, err)
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Validation failed", "request", req, "error", err)
		return validationError(ctx, err)
	}

	response, err := c.otpService.SendOTP(ctx.Request().Context(), req.MobileNumber)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// VerifyPhone handles OTP verification
// @Summary Verify phone number
// @Description Verify an OTP and mint a single-use verification token for registration
// @Tags Users
// @Accept json
// @Produce json
// @Param request body entity.OTPVerifyRequest true "Verify OTP Request"
// @Success 200 {object} entity.PhoneVerificationResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /users/verify_phone [post]
func (c *OTPController) VerifyPhone(ctx echo.Context) error {
	var req entity.OTPVerifyRequest

	if err := ctx.Bind(&req); err != nil {
		c.logger.Errorw("Failed to bind request", "error", err)
		return bindError(ctx, err)
	}

	if err := c.validator.ValidateStruct(&req); err != nil {
		c.logger.Warnw("Validation failed", "request", req, "error", err)
		return validationError(ctx, err)
	}

	response, err := c.otpService.VerifyPhone(ctx.Request().Context(), req.MobileNumber, req.OTPCode)
	if err != nil {
		return serviceError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}
