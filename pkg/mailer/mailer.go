// Package mailer delivers patient-facing email. Delivery is best-effort:
// Notifier.Notify absorbs every failure, so a mail outage can never roll back
// a booking mutation.
package mailer

import (
	"context"

	"medbook/pkg/logger"
)

// Message is a single outbound email.
type Message struct {
	To      string
	ToName  string
	Subject string
	HTML    string
}

// Sender performs the actual delivery and may fail.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier is the contract the engines depend on: fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, msg Message)
}

type notifier struct {
	sender Sender
	log    *logger.Logger
}

func NewNotifier(sender Sender, log *logger.Logger) Notifier {
	return &notifier{sender: sender, log: log}
}

func (n *notifier) Notify(ctx context.Context, msg Message) {
	if msg.To == "" {
		n.log.Debug("Skipping notification without recipient", "subject", msg.Subject)
		return
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		n.log.Error("Failed to send notification",
			"to", msg.To,
			"subject", msg.Subject,
			"error", err,
		)
		return
	}
	n.log.Info("Notification sent", "to", msg.To, "subject", msg.Subject)
}
