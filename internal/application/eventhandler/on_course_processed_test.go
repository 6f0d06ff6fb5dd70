package eventhandler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack-pro/assessment-engine/internal/domain/shared"
	"github.com/edutrack-pro/assessment-engine/internal/infrastructure/notification"
)

func TestHandleSendsRunSummary(t *testing.T) {
	notifier := notification.NewNullNotifier()
	handler := NewCourseProcessedHandler(notifier, "coordinator@edu.example", nil)

	event := shared.NewCourseProcessedEvent("run-1", "2024-1", "EEE-305", 5, 1, true)
	require.NoError(t, handler.Handle(event))

	sent := notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "coordinator@edu.example", sent[0].Recipient)
	assert.Contains(t, sent[0].Subject, "EEE-305")
	assert.Contains(t, sent[0].Body, "run-1")
	assert.Contains(t, sent[0].Body, "5 students")
}

func TestHandleWithoutCoordinatorOnlyLogs(t *testing.T) {
	notifier := notification.NewNullNotifier()
	handler := NewCourseProcessedHandler(notifier, "", nil)

	event := shared.NewCourseProcessedEvent("run-1", "2024-1", "EEE-305", 5, 0, true)
	require.NoError(t, handler.Handle(event))
	assert.Empty(t, notifier.Sent())
}

func TestHandleIgnoresOtherEventShapes(t *testing.T) {
	notifier := notification.NewNullNotifier()
	handler := NewCourseProcessedHandler(notifier, "coordinator@edu.example", nil)

	event := shared.NewCourseSaveFailedEvent("run-1", "2024-1", "EEE-305", "boom")
	require.NoError(t, handler.Handle(event))
	assert.Empty(t, notifier.Sent())
}
