package repository

import (
	"context"
	"time"
)

// RateLimitRepository tracks the per-number OTP issuance cooldown. The
// cooldown is armed when an OTP record is created and cleared when a
// failed SMS dispatch rolls the record back, so a number is limited
// exactly while a record younger than the window survives.
type RateLimitRepository interface {
	InCooldown(ctx context.Context, mobileNumber int64) (bool, error)
	StartCooldown(ctx context.Context, mobileNumber int64, window time.Duration) error
	ClearCooldown(ctx context.Context, mobileNumber int64) error
}
