// Package notification defines the outbound notification port. The engine
// only composes messages; delivery belongs to the collaborator behind the
// Notifier interface.
package notification

import (
	"context"
	"errors"
)

// ErrEmptyRecipient is returned when a message has no recipient address.
var ErrEmptyRecipient = errors.New("notification: recipient cannot be empty")

// Message is one outbound notification.
type Message struct {
	// Recipient is the destination address, e.g. a student or parent email.
	Recipient string

	// Subject is the message subject line.
	Subject string

	// Body is the plain-text message body.
	Body string

	// StudentID ties the message to a student, for auditing.
	StudentID string
}

// Validate checks the message for delivery.
func (m Message) Validate() error {
	if m.Recipient == "" {
		return ErrEmptyRecipient
	}
	return nil
}

// Notifier delivers messages. Implementations must be safe for concurrent
// use. Delivery failures are the caller's to log; they never fail a
// processing run.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
