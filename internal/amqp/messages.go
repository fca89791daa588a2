package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"ledger/internal/core"
)

// EventMessage is the wire envelope for a ledger event. It carries the full
// record so consumers never read back from the producer's store.
type EventMessage struct {
	MessageID string     `json:"messageId"`
	Event     core.Event `json:"event"`
	Timestamp time.Time  `json:"timestamp"`
}

func NewEventMessage(ev core.Event) *EventMessage {
	return &EventMessage{
		MessageID: core.NewID(),
		Event:     ev,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EventMessageFromJSON decodes and sanity-checks a message body.
func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.Event.Kind == "" {
		return nil, fmt.Errorf("event kind is missing")
	}
	if msg.Event.Category == nil && msg.Event.Transaction == nil {
		return nil, fmt.Errorf("event %s carries no record", msg.Event.Kind)
	}
	return &msg, nil
}
