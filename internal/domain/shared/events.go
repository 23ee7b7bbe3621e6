// Package shared contains common domain types, errors, events, and value objects
// that are used across all domain packages.
package shared

import (
	"encoding/json"
	"strconv"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each one is an audit record of a committed mutation;
// the engine publishes them after the owning store has been updated.
const (
	// Quest events
	EventQuestCreated   EventType = "quest.created"
	EventQuestCompleted EventType = "quest.completed"

	// Progress events
	EventLevelUp EventType = "progress.level_up"

	// Credential events
	EventCredentialMinted EventType = "credential.minted"

	// Leaderboard events
	EventLeaderboardUpdated EventType = "leaderboard.updated"
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

// BaseEvent provides common event functionality.
type BaseEvent struct {
	Type          EventType `json:"type"`
	Timestamp     time.Time `json:"timestamp"`
	AggregateId   string    `json:"aggregate_id"`
	Version       int       `json:"version"`
	CorrelationID string    `json:"correlation_id,omitempty"`
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
func NewBaseEvent(eventType EventType, aggregateID string, at time.Time) BaseEvent {
	return BaseEvent{
		Type:        eventType,
		Timestamp:   at,
		AggregateId: aggregateID,
		Version:     1,
	}
}

// WithCorrelationID sets the correlation ID for tracing.
func (e BaseEvent) WithCorrelationID(id string) BaseEvent {
	e.CorrelationID = id
	return e
}

// ═══════════════════════════════════════════════════════════════════════════
// Quest Events
// ═══════════════════════════════════════════════════════════════════════════

// QuestCreatedEvent is emitted when the owner creates a new quest.
type QuestCreatedEvent struct {
	BaseEvent
	QuestID    uint64 `json:"quest_id"`
	QuestType  string `json:"quest_type"`
	Difficulty uint8  `json:"difficulty"`
	XPReward   uint32 `json:"xp_reward"`
}

// Payload implements Event interface.
func (e QuestCreatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"quest_id":   e.QuestID,
		"quest_type": e.QuestType,
		"difficulty": e.Difficulty,
		"xp_reward":  e.XPReward,
	}
}

// NewQuestCreatedEvent creates a new QuestCreatedEvent.
func NewQuestCreatedEvent(questID uint64, questType string, difficulty uint8, xpReward uint32, at time.Time) QuestCreatedEvent {
	return QuestCreatedEvent{
		BaseEvent:  NewBaseEvent(EventQuestCreated, questAggregateID(questID), at),
		QuestID:    questID,
		QuestType:  questType,
		Difficulty: difficulty,
		XPReward:   xpReward,
	}
}

// QuestCompletedEvent is emitted when a user completes a quest.
type QuestCompletedEvent struct {
	BaseEvent
	User          Address `json:"user"`
	QuestID       uint64  `json:"quest_id"`
	XPEarned      uint32  `json:"xp_earned"`
	AccuracyScore uint8   `json:"accuracy_score"`
}

// Payload implements Event interface.
func (e QuestCompletedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user":           e.User.String(),
		"quest_id":       e.QuestID,
		"xp_earned":      e.XPEarned,
		"accuracy_score": e.AccuracyScore,
	}
}

// NewQuestCompletedEvent creates a new QuestCompletedEvent.
func NewQuestCompletedEvent(user Address, questID uint64, xpEarned uint32, accuracyScore uint8, at time.Time) QuestCompletedEvent {
	return QuestCompletedEvent{
		BaseEvent:     NewBaseEvent(EventQuestCompleted, user.String(), at),
		User:          user,
		QuestID:       questID,
		XPEarned:      xpEarned,
		AccuracyScore: accuracyScore,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Progress Events
// ═══════════════════════════════════════════════════════════════════════════

// LevelUpEvent is emitted when a user's derived level increases.
type LevelUpEvent struct {
	BaseEvent
	User     Address `json:"user"`
	NewLevel uint8   `json:"new_level"`
}

// Payload implements Event interface.
func (e LevelUpEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user":      e.User.String(),
		"new_level": e.NewLevel,
	}
}

// NewLevelUpEvent creates a new LevelUpEvent.
func NewLevelUpEvent(user Address, newLevel uint8, at time.Time) LevelUpEvent {
	return LevelUpEvent{
		BaseEvent: NewBaseEvent(EventLevelUp, user.String(), at),
		User:      user,
		NewLevel:  newLevel,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Credential Events
// ═══════════════════════════════════════════════════════════════════════════

// CredentialMintedEvent is emitted when an educator issues a credential.
type CredentialMintedEvent struct {
	BaseEvent
	User           Address `json:"user"`
	CredentialID   uint64  `json:"credential_id"`
	CourseID       uint64  `json:"course_id"`
	CredentialType string  `json:"credential_type"`
}

// Payload implements Event interface.
func (e CredentialMintedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user":            e.User.String(),
		"credential_id":   e.CredentialID,
		"course_id":       e.CourseID,
		"credential_type": e.CredentialType,
	}
}

// NewCredentialMintedEvent creates a new CredentialMintedEvent.
func NewCredentialMintedEvent(user Address, credentialID, courseID uint64, credentialType string, at time.Time) CredentialMintedEvent {
	return CredentialMintedEvent{
		BaseEvent:      NewBaseEvent(EventCredentialMinted, user.String(), at),
		User:           user,
		CredentialID:   credentialID,
		CourseID:       courseID,
		CredentialType: credentialType,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Leaderboard Events
// ═══════════════════════════════════════════════════════════════════════════

// LeaderboardUpdatedEvent is emitted when an educator overwrites a score.
type LeaderboardUpdatedEvent struct {
	BaseEvent
	UserID   uint64 `json:"user_id"`
	NewScore uint32 `json:"new_score"`
}

// Payload implements Event interface.
func (e LeaderboardUpdatedEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"user_id":   e.UserID,
		"new_score": e.NewScore,
	}
}

// NewLeaderboardUpdatedEvent creates a new LeaderboardUpdatedEvent.
func NewLeaderboardUpdatedEvent(userID uint64, newScore uint32, at time.Time) LeaderboardUpdatedEvent {
	return LeaderboardUpdatedEvent{
		BaseEvent: NewBaseEvent(EventLeaderboardUpdated, leaderboardAggregateID(userID), at),
		UserID:    userID,
		NewScore:  newScore,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Envelope (for serialization and transport)
// ═══════════════════════════════════════════════════════════════════════════

// EventEnvelope wraps an event for transport/storage.
type EventEnvelope struct {
	ID            string          `json:"id"`
	Type          EventType       `json:"type"`
	AggregateID   string          `json:"aggregate_id"`
	Timestamp     time.Time       `json:"timestamp"`
	Version       int             `json:"version"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish sends an event to subscribers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for an event type.
	Subscribe(eventType EventType, handler EventHandler) error

	// SubscribeAll registers a handler for all events.
	SubscribeAll(handler EventHandler) error
}

// EventBus combines publishing and subscribing with lifecycle control.
type EventBus interface {
	EventPublisher
	EventSubscriber

	// Close shuts the bus down, waiting for in-flight handlers.
	Close() error
}

// Helpers for aggregate id formatting.

func questAggregateID(id uint64) string {
	return "quest:" + strconv.FormatUint(id, 10)
}

func leaderboardAggregateID(id uint64) string {
	return "score:" + strconv.FormatUint(id, 10)
}
