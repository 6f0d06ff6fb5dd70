package messaging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutrack-pro/assessment-engine/internal/domain/shared"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	defer bus.Close()

	var received []shared.Event
	require.NoError(t, bus.Subscribe(shared.EventCourseProcessed, func(e shared.Event) error {
		received = append(received, e)
		return nil
	}))

	event := shared.NewCourseProcessedEvent("run-1", "2024-1", "EEE-305", 5, 0, true)
	require.NoError(t, bus.Publish(event))

	require.Len(t, received, 1)
	assert.Equal(t, "run-1", received[0].AggregateID())
}

func TestPublishSkipsUnrelatedTypes(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	defer bus.Close()

	calls := 0
	require.NoError(t, bus.Subscribe(shared.EventCourseSaveFailed, func(shared.Event) error {
		calls++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewCourseProcessedEvent("run-1", "2024-1", "EEE-305", 5, 0, true)))
	assert.Zero(t, calls)
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	defer bus.Close()

	var types []shared.EventType
	require.NoError(t, bus.SubscribeAll(func(e shared.Event) error {
		types = append(types, e.EventType())
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewCourseProcessedEvent("run-1", "2024-1", "EEE-305", 5, 0, true)))
	require.NoError(t, bus.Publish(shared.NewCourseSaveFailedEvent("run-1", "2024-1", "EEE-305", "boom")))

	assert.Equal(t, []shared.EventType{shared.EventCourseProcessed, shared.EventCourseSaveFailed}, types)
}

func TestHandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	defer bus.Close()

	require.NoError(t, bus.Subscribe(shared.EventCourseProcessed, func(shared.Event) error {
		return errors.New("handler exploded")
	}))
	second := false
	require.NoError(t, bus.Subscribe(shared.EventCourseProcessed, func(shared.Event) error {
		second = true
		return nil
	}))

	assert.NoError(t, bus.Publish(shared.NewCourseProcessedEvent("run-1", "2024-1", "EEE-305", 5, 0, true)))
	assert.True(t, second)
}

func TestClosedBusRejectsOperations(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	require.NoError(t, bus.Close())

	err := bus.Subscribe(shared.EventCourseProcessed, func(shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Publish(shared.NewCourseProcessedEvent("run-1", "2024-1", "EEE-305", 5, 0, true))
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestSubscribeNilHandler(t *testing.T) {
	bus := NewInMemoryEventBus(nil)
	defer bus.Close()

	assert.ErrorIs(t, bus.Subscribe(shared.EventCourseProcessed, nil), ErrNilHandler)
	assert.ErrorIs(t, bus.SubscribeAll(nil), ErrNilHandler)
}
