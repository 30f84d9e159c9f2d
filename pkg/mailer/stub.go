package mailer

import (
	"context"

	"medbook/pkg/logger"
)

// StubSender logs instead of sending. Used when no mail provider is
// configured and in tests.
type StubSender struct {
	log *logger.Logger
}

func NewStubSender(log *logger.Logger) *StubSender {
	return &StubSender{log: log}
}

func (s *StubSender) Send(ctx context.Context, msg Message) error {
	s.log.Info("Stub mail sender: would send email", "to", msg.To, "subject", msg.Subject)
	return nil
}
