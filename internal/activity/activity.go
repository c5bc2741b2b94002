// Package activity publishes a record of every write the application makes.
package activity

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventCreated       = "document.created"
	EventUpdated       = "document.updated"
	EventStatusChanged = "document.status_changed"
	EventSignedIn      = "user.signed_in"
	EventRegistered    = "user.registered"
)

type Event struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	ActorUID   string          `json:"actor_uid"`
	Collection string          `json:"collection,omitempty"`
	DocumentID string          `json:"document_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// NewEvent stamps an event id and time. payload may be nil.
func NewEvent(eventType, actorUID, collection, documentID string, payload any) Event {
	ev := Event{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		ActorUID:   actorUID,
		Collection: collection,
		DocumentID: documentID,
		OccurredAt: time.Now().UTC(),
	}
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			ev.Payload = b
		}
	}
	return ev
}

// Publisher must not block the caller or report failures to it.
type Publisher interface {
	Publish(ctx context.Context, ev Event)
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) {}
