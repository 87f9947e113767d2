package sms

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Sender delivers one-time passcodes to a mobile number. A production
// deployment substitutes a real gateway behind this interface without
// touching the OTP lifecycle.
type Sender interface {
	Send(ctx context.Context, mobileNumber, code string) error
}

// LoggerSender is a stub implementation that writes the message to the
// logger instead of a gateway.
type LoggerSender struct {
	logger *slog.Logger
	ttl    time.Duration
}

// NewLoggerSender constructs a logging sender stub. The ttl is the validity
// window quoted in the message text; a non-positive value falls back to ten
// minutes.
func NewLoggerSender(logger *slog.Logger, ttl time.Duration) *LoggerSender {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &LoggerSender{logger: logger, ttl: ttl}
}

// Send logs the passcode message.
func (s *LoggerSender) Send(_ context.Context, mobileNumber, code string) error {
	if s == nil || s.logger == nil {
		return nil
	}
	s.logger.Info("sms dispatched",
		"mobile_number", mobileNumber,
		"body", fmt.Sprintf("Your registration OTP is: %s. Valid for %s.", code, validityText(s.ttl)),
	)
	return nil
}

func validityText(ttl time.Duration) string {
	if ttl < time.Minute {
		return fmt.Sprintf("%d seconds", int(ttl.Seconds()))
	}
	minutes := int(ttl.Round(time.Minute).Minutes())
	if minutes == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", minutes)
}
