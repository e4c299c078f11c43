package account

import (
	"context"
	"io"
	"log"
)

// Sender delivers a verification code to a phone number. The production
// deployment can plug in an SMS gateway; LogSender is the fallback that
// only records the code, mirroring a development setup without a gateway.
type Sender interface {
	Send(ctx context.Context, phoneNumber, code string) error
}

type LogSender struct {
	logger *log.Logger
}

func NewLogSender(logger *log.Logger) *LogSender {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, phoneNumber, code string) error {
	s.logger.Printf("verification code for %s: %s", phoneNumber, code)
	return nil
}
