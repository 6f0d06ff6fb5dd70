// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that
// happened during a processing run.
const (
	// Course processing events
	EventCourseProcessed  EventType = "course.processed"
	EventCourseSaveFailed EventType = "course.save_failed"

	// Notification events
	EventNotificationSent   EventType = "notification.sent"
	EventNotificationFailed EventType = "notification.failed"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// EventHandler processes a single published event.
type EventHandler func(event Event) error

// EventPublisher publishes domain events to interested handlers.
type EventPublisher interface {
	Publish(event Event) error
}

// EventBus is a publisher that also manages subscriptions.
type EventBus interface {
	EventPublisher

	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error

	// Close releases bus resources.
	Close() error
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   time.Now(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Course Processing Events
// ═══════════════════════════════════════════════════════════════════════════

// CourseProcessedEvent is emitted after a processing run completes. It is
// published even when the persistence save failed: the in-memory result is
// still valid, and Persisted reflects the save outcome.
type CourseProcessedEvent struct {
	BaseEvent
	RunID        string `json:"run_id"`
	Semester     string `json:"semester"`
	CourseCode   string `json:"course_code"`
	StudentCount int    `json:"student_count"`
	SkippedRows  int    `json:"skipped_rows"`
	Persisted    bool   `json:"persisted"`
}

// Payload implements Event interface.
func (e CourseProcessedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"run_id":        e.RunID,
		"semester":      e.Semester,
		"course_code":   e.CourseCode,
		"student_count": e.StudentCount,
		"skipped_rows":  e.SkippedRows,
		"persisted":     e.Persisted,
	}
}

// NewCourseProcessedEvent creates a new CourseProcessedEvent.
func NewCourseProcessedEvent(runID, semester, courseCode string, studentCount, skippedRows int, persisted bool) CourseProcessedEvent {
	return CourseProcessedEvent{
		BaseEvent:    NewBaseEvent(EventCourseProcessed, runID),
		RunID:        runID,
		Semester:     semester,
		CourseCode:   courseCode,
		StudentCount: studentCount,
		SkippedRows:  skippedRows,
		Persisted:    persisted,
	}
}

// CourseSaveFailedEvent is emitted when persisting a run's result fails.
type CourseSaveFailedEvent struct {
	BaseEvent
	RunID      string `json:"run_id"`
	Semester   string `json:"semester"`
	CourseCode string `json:"course_code"`
	Reason     string `json:"reason"`
}

// Payload implements Event interface.
func (e CourseSaveFailedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"run_id":      e.RunID,
		"semester":    e.Semester,
		"course_code": e.CourseCode,
		"reason":      e.Reason,
	}
}

// NewCourseSaveFailedEvent creates a new CourseSaveFailedEvent.
func NewCourseSaveFailedEvent(runID, semester, courseCode, reason string) CourseSaveFailedEvent {
	return CourseSaveFailedEvent{
		BaseEvent:  NewBaseEvent(EventCourseSaveFailed, runID),
		RunID:      runID,
		Semester:   semester,
		CourseCode: courseCode,
		Reason:     reason,
	}
}
