// Package events publishes ledger changes to other systems.
package events

import (
	"context"
	"time"
)

// Type is the routing key of an event.
type Type string

const (
	ExpenseCreated      Type = "expense.created"
	ExpenseUpdated      Type = "expense.updated"
	ExpenseDeleted      Type = "expense.deleted"
	SettlementRecorded  Type = "settlement.recorded"
	SettlementCompleted Type = "settlement.completed"
)

// Event describes one change to a group's ledger.
type Event struct {
	Type       Type      `json:"type"`
	GroupID    string    `json:"group_id"`
	EntityID   string    `json:"entity_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data,omitempty"`
}

// New returns an event stamped with the current time.
func New(t Type, groupID, entityID, actorID string, data any) Event {
	return Event{
		Type:       t,
		GroupID:    groupID,
		EntityID:   entityID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Publisher delivers events. Implementations must be safe for concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error {
	return nil
}

func (NopPublisher) Close() error {
	return nil
}
