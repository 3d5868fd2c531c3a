package sms

import (
	"context"
	"testing"
	"time"

	"task-manager/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("error", "development")
	require.NoError(t, err)
	return log
}

func TestTwilioSender_CancelledContextReturnsPromptly(t *testing.T) {
	sender := NewTwilioSender("AC00000000000000000000000000000000", "token",
		"+15005550006", "+91", 5*time.Second, testLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := sender.Send(ctx, 9876543210, "Your verification code is 123456")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTwilioSender_DeadlineIsHonored(t *testing.T) {
	sender := NewTwilioSender("AC00000000000000000000000000000000", "token",
		"+15005550006", "+91", 5*time.Second, testLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()

	err := sender.Send(ctx, 9876543210, "Your verification code is 123456")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConsoleSender_AlwaysSucceeds(t *testing.T) {
	sender := NewConsoleSender(testLogger(t))

	err := sender.Send(context.Background(), 9876543210, "Your verification code is 123456")

	assert.NoError(t, err)
}
