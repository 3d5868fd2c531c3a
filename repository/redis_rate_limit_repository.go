package repository

import (
	"context"
	"fmt"
	"time"

	"task-manager/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimitRepository implements the OTP cooldown using Redis TTL
// keys. Expiry is handled entirely by Redis; no cleanup pass is needed.
type RedisRateLimitRepository struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisRateLimitRepository creates a new Redis rate limit repository
func NewRedisRateLimitRepository(client *redis.Client, logger *logger.Logger) RateLimitRepository {
	return &RedisRateLimitRepository{
		client: client,
		logger: logger,
	}
}

func cooldownKey(mobileNumber int64) string {
	return fmt.Sprintf("otp_cooldown:%d", mobileNumber)
}

// InCooldown reports whether the number requested an OTP within the window
func (r *RedisRateLimitRepository) InCooldown(ctx context.Context, mobileNumber int64) (bool, error) {
	exists, err := r.client.Exists(ctx, cooldownKey(mobileNumber)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check OTP cooldown: %w", err)
	}

	return exists > 0, nil
}

// StartCooldown arms the cooldown window for a number
func (r *RedisRateLimitRepository) StartCooldown(ctx context.Context, mobileNumber int64, window time.Duration) error {
	if err := r.client.Set(ctx, cooldownKey(mobileNumber), 1, window).Err(); err != nil {
		return fmt.Errorf("failed to start OTP cooldown: %w", err)
	}

	r.logger.Debugw("OTP cooldown armed", "mobile_number", mobileNumber, "window", window)
	return nil
}

// ClearCooldown releases the window early, used when the OTP record the
// window guards was rolled back.
func (r *RedisRateLimitRepository) ClearCooldown(ctx context.Context, mobileNumber int64) error {
	if err := r.client.Del(ctx, cooldownKey(mobileNumber)).Err(); err != nil {
		return fmt.Errorf("failed to clear OTP cooldown: %w", err)
	}

	return nil
}
