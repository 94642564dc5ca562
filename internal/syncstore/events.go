// Package syncstore bridges the local database to the shared realtime
// document bus. Every local write is broadcast as a DocumentEvent; events
// from other clients are applied back through the repositories.
package syncstore

import (
	"encoding/json"
	"fmt"
	"time"
)

// DocumentEvent is one document change on the bus.
type DocumentEvent struct {
	Kind    string          `json:"kind"` // reservation | menu_item | prepayment
	Op      string          `json:"op"`   // upsert | delete
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Origin  string          `json:"origin"` // client instance that produced the event
	At      time.Time       `json:"at"`
}

// Subject maps a document kind to its bus subject.
func Subject(prefix, kind string) string {
	return prefix + "." + kind + "s"
}

func encodeEvent(ev DocumentEvent) ([]byte, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return data, nil
}

func decodeEvent(data []byte) (DocumentEvent, error) {
	var ev DocumentEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return DocumentEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if ev.Kind == "" || ev.Op == "" || ev.ID == "" {
		return DocumentEvent{}, fmt.Errorf("event missing kind, op or id")
	}
	return ev, nil
}
