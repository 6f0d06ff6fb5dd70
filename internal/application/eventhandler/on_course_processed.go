// Package eventhandler contains the event-driven reactions of the engine.
// Handlers subscribe to the in-process bus and run synchronously after the
// publishing command completes its own work.
package eventhandler

import (
	"context"
	"fmt"

	"github.com/edutrack-pro/assessment-engine/internal/domain/notification"
	"github.com/edutrack-pro/assessment-engine/internal/domain/shared"
	"github.com/edutrack-pro/assessment-engine/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON COURSE PROCESSED
// Forwards a run summary to the notification port after each processing run.
// ══════════════════════════════════════════════════════════════════════════════

// CourseProcessedHandler reacts to CourseProcessedEvent.
type CourseProcessedHandler struct {
	notifier notification.Notifier
	log      *logger.Logger

	// coordinatorAddress receives run summaries. Empty disables them.
	coordinatorAddress string
}

// NewCourseProcessedHandler creates a new handler.
func NewCourseProcessedHandler(notifier notification.Notifier, coordinatorAddress string, log *logger.Logger) *CourseProcessedHandler {
	if log == nil {
		log = logger.Default()
	}
	return &CourseProcessedHandler{
		notifier:           notifier,
		coordinatorAddress: coordinatorAddress,
		log:                log.With(logger.Component("on_course_processed")),
	}
}

// Register subscribes the handler on the bus.
func (h *CourseProcessedHandler) Register(bus shared.EventBus) error {
	return bus.Subscribe(shared.EventCourseProcessed, h.Handle)
}

// Handle processes one event. Unknown event shapes are ignored.
func (h *CourseProcessedHandler) Handle(event shared.Event) error {
	processed, ok := event.(shared.CourseProcessedEvent)
	if !ok {
		return nil
	}

	h.log.Info("processing run completed",
		logger.RunID(processed.RunID),
		logger.Semester(processed.Semester),
		logger.CourseCode(processed.CourseCode),
		logger.CohortSize(processed.StudentCount),
		logger.Bool("persisted", processed.Persisted),
	)

	if h.notifier == nil || h.coordinatorAddress == "" {
		return nil
	}

	msg := notification.Message{
		Recipient: h.coordinatorAddress,
		Subject:   fmt.Sprintf("Results processed: %s %s", processed.Semester, processed.CourseCode),
		Body: fmt.Sprintf(
			"Run %s processed %d students (%d rows skipped). Persisted: %t.",
			processed.RunID, processed.StudentCount, processed.SkippedRows, processed.Persisted,
		),
	}
	if err := h.notifier.Send(context.Background(), msg); err != nil {
		return fmt.Errorf("on_course_processed: notify: %w", err)
	}
	return nil
}
