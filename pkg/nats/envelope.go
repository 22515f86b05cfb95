package nats

import (
	"encoding/json"
	"fmt"
	"time"

	"bookapp-ai-be/pkg/events"
)

// envelope is the wire form of an event on the bus.
type envelope struct {
	ID         string                 `json:"id"`
	Type       string                 `json:"type"`
	OccurredAt time.Time              `json:"occurred_at"`
	Data       map[string]interface{} `json:"data"`
}

func encodeEvent(event events.Event) ([]byte, error) {
	data, err := json.Marshal(envelope{
		ID:         event.EventID(),
		Type:       event.EventType(),
		OccurredAt: event.Timestamp(),
		Data:       event.Payload(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	return data, nil
}

// decodeEvent accepts enveloped events and bare payload maps published by
// other services; the latter take their type from the subject.
func decodeEvent(subject string, raw []byte) (events.Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event data: %w", err)
	}

	if env.Type != "" && env.Data != nil {
		if env.OccurredAt.IsZero() {
			env.OccurredAt = time.Now().UTC()
		}
		return events.BaseEvent{ID: env.ID, Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}, nil
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event data: %w", err)
	}
	return events.BaseEvent{
		Type:       typeFromSubject(subject),
		Data:       payload,
		OccurredAt: time.Now().UTC(),
	}, nil
}

func typeFromSubject(subject string) string {
	const prefix = "events."
	if len(subject) > len(prefix) && subject[:len(prefix)] == prefix {
		return subject[len(prefix):]
	}
	return subject
}
