package messaging

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elronom/academy-ledger/internal/domain/shared"
)

func syncBusConfig() InMemoryEventBusConfig {
	cfg := DefaultInMemoryEventBusConfig()
	cfg.AsyncMode = false
	return cfg
}

func TestInMemoryEventBus_PublishToSubscriber(t *testing.T) {
	bus := NewInMemoryEventBus(syncBusConfig())
	defer bus.Close()

	var received atomic.Int32
	err := bus.Subscribe(shared.EventQuestCreated, func(event shared.Event) error {
		received.Add(1)
		assert.Equal(t, shared.EventQuestCreated, event.EventType())
		return nil
	})
	require.NoError(t, err)

	event := shared.NewQuestCreatedEvent(1, "daily", 3, 500, time.Now().UTC())
	require.NoError(t, bus.Publish(event))

	assert.Equal(t, int32(1), received.Load())
}

func TestInMemoryEventBus_TypeFiltering(t *testing.T) {
	bus := NewInMemoryEventBus(syncBusConfig())
	defer bus.Close()

	var questEvents, allEvents atomic.Int32
	require.NoError(t, bus.Subscribe(shared.EventQuestCreated, func(shared.Event) error {
		questEvents.Add(1)
		return nil
	}))
	require.NoError(t, bus.SubscribeAll(func(shared.Event) error {
		allEvents.Add(1)
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewQuestCreatedEvent(1, "daily", 3, 500, time.Now().UTC())))
	require.NoError(t, bus.Publish(shared.NewLevelUpEvent("0xuser", 2, time.Now().UTC())))

	assert.Equal(t, int32(1), questEvents.Load())
	assert.Equal(t, int32(2), allEvents.Load())
}

func TestInMemoryEventBus_ClosedBusRejectsPublish(t *testing.T) {
	bus := NewInMemoryEventBus(syncBusConfig())
	require.NoError(t, bus.Close())

	err := bus.Publish(shared.NewLevelUpEvent("0xuser", 2, time.Now().UTC()))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventLevelUp, func(shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestInMemoryEventBus_Metrics(t *testing.T) {
	bus := NewInMemoryEventBus(syncBusConfig())
	defer bus.Close()

	require.NoError(t, bus.SubscribeAll(func(shared.Event) error { return nil }))
	require.NoError(t, bus.Publish(shared.NewLevelUpEvent("0xuser", 2, time.Now().UTC())))
	require.NoError(t, bus.Publish(shared.NewLevelUpEvent("0xuser", 3, time.Now().UTC())))

	snapshot := bus.Metrics().Snapshot()
	assert.Equal(t, int64(2), snapshot.TotalPublished)
	assert.Equal(t, int64(2), snapshot.TotalHandlerExecs)
	assert.Equal(t, float64(1), snapshot.HandlerSuccessRate)
}

func TestAuditTrail_RecordsPublishedEvents(t *testing.T) {
	bus := NewInMemoryEventBus(syncBusConfig())
	defer bus.Close()

	trail := NewAuditTrail()
	require.NoError(t, trail.Attach(bus))

	at := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, bus.Publish(shared.NewQuestCompletedEvent("0xuser", 7, 500, 90, at)))
	require.NoError(t, bus.Publish(shared.NewLevelUpEvent("0xuser", 2, at)))

	require.Equal(t, 2, trail.Len())

	entries := trail.Entries()
	assert.Equal(t, shared.EventQuestCompleted, entries[0].Type)
	assert.Equal(t, shared.EventLevelUp, entries[1].Type)
	assert.NotEmpty(t, entries[0].ID)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}
