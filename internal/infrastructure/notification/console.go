// Package notification provides Notifier implementations. Actual mail
// delivery is out of scope; these implementations exist so the engine can be
// wired end to end and tested.
package notification

import (
	"context"
	"sync"

	"github.com/edutrack-pro/assessment-engine/internal/domain/notification"
	"github.com/edutrack-pro/assessment-engine/pkg/logger"
)

// ConsoleNotifier writes each message to the structured log instead of
// delivering it.
type ConsoleNotifier struct {
	log *logger.Logger
}

// NewConsoleNotifier creates a new ConsoleNotifier.
func NewConsoleNotifier(log *logger.Logger) *ConsoleNotifier {
	if log == nil {
		log = logger.Default()
	}
	return &ConsoleNotifier{log: log.With(logger.Component("notifier"))}
}

// Send implements notification.Notifier.
func (n *ConsoleNotifier) Send(_ context.Context, msg notification.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	n.log.Info("notification",
		logger.String("recipient", msg.Recipient),
		logger.String("subject", msg.Subject),
		logger.StudentID(msg.StudentID),
	)
	return nil
}

// NullNotifier accepts and records messages without emitting anything.
// Used in tests and when notifications are disabled.
type NullNotifier struct {
	mu   sync.Mutex
	sent []notification.Message
}

// NewNullNotifier creates a new NullNotifier.
func NewNullNotifier() *NullNotifier {
	return &NullNotifier{}
}

// Send implements notification.Notifier.
func (n *NullNotifier) Send(_ context.Context, msg notification.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (n *NullNotifier) Sent() []notification.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notification.Message, len(n.sent))
	copy(out, n.sent)
	return out
}
