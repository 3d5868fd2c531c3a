// Package sms provides the outbound SMS capability used for OTP
// delivery. The concrete transport is Twilio; a console sender exists
// for development so codes are visible without a provider account.
package sms

import (
	"context"
	"fmt"
	"time"

	"task-manager/pkg/logger"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender dispatches a message to a mobile number. Dispatch is
// synchronous; a timeout counts as a failed send.
type Sender interface {
	Send(ctx context.Context, mobileNumber int64, body string) error
}

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client      *twilio.RestClient
	fromNumber  string
	countryCode string
	logger      *logger.Logger
}

// NewTwilioSender creates a Twilio-backed sender. countryCode is the
// E.164 prefix (e.g. "+91") applied to stored 10-digit numbers.
func NewTwilioSender(accountSID, authToken, fromNumber, countryCode string, timeout time.Duration, logger *logger.Logger) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	client.Client.SetTimeout(timeout)

	return &TwilioSender{
		client:      client,
		fromNumber:  fromNumber,
		countryCode: countryCode,
		logger:      logger,
	}
}

// Send dispatches the message. The Twilio client has no context-aware
// call, so the request runs in a goroutine and the ctx deadline is
// enforced here; the buffered channel lets a late result be dropped
// without blocking the goroutine.
func (s *TwilioSender) Send(ctx context.Context, mobileNumber int64, body string) error {
	to := fmt.Sprintf("%s%d", s.countryCode, mobileNumber)

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.fromNumber)
	params.SetBody(body)

	type dispatch struct {
		sid string
		err error
	}
	done := make(chan dispatch, 1)
	go func() {
		msg, err := s.client.Api.CreateMessage(params)
		if err != nil {
			done <- dispatch{err: err}
			return
		}
		sid := ""
		if msg.Sid != nil {
			sid = *msg.Sid
		}
		done <- dispatch{sid: sid}
	}()

	select {
	case <-ctx.Done():
		s.logger.Errorw("SMS dispatch abandoned", "to", to, "error", ctx.Err())
		return fmt.Errorf("failed to send SMS to %s: %w", to, ctx.Err())
	case res := <-done:
		if res.err != nil {
			s.logger.Errorw("Failed to send SMS", "to", to, "error", res.err)
			return fmt.Errorf("failed to send SMS to %s: %w", to, res.err)
		}
		s.logger.Infow("SMS sent", "to", to, "message_sid", res.sid)
		return nil
	}
}

// ConsoleSender prints messages instead of dispatching them. Used in
// development mode.
type ConsoleSender struct {
	logger *logger.Logger
}

func NewConsoleSender(logger *logger.Logger) *ConsoleSender {
	return &ConsoleSender{logger: logger}
}

func (s *ConsoleSender) Send(_ context.Context, mobileNumber int64, body string) error {
	fmt.Printf("SMS to %d: %s\n", mobileNumber, body)
	s.logger.Infow("SMS printed to console", "mobile_number", mobileNumber)
	return nil
}
