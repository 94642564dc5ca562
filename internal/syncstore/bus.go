package syncstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// Bus is the NATS-backed document bus. One Bus per process; its origin id
// distinguishes this client's own events from everyone else's.
type Bus struct {
	conn   *nats.Conn
	prefix string
	origin string
}

// Connect dials the bus. An empty URL is a configuration error here; callers
// decide whether sync is enabled before connecting.
func Connect(url, prefix string) (*Bus, error) {
	conn, err := nats.Connect(url, nats.Name("takeaway"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect to sync bus: %w", err)
	}
	return &Bus{conn: conn, prefix: prefix, origin: uuid.NewString()}, nil
}

// Origin returns this client's instance id.
func (b *Bus) Origin() string { return b.origin }

// Publish broadcasts one document change.
func (b *Bus) Publish(kind, op, id string, doc interface{}) error {
	ev := DocumentEvent{Kind: kind, Op: op, ID: id, Origin: b.origin, At: time.Now().UTC()}
	if doc != nil {
		payload, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		ev.Payload = payload
	}
	data, err := encodeEvent(ev)
	if err != nil {
		return err
	}
	return b.conn.Publish(Subject(b.prefix, kind), data)
}

// Subscribe delivers remote document changes of one kind to handler. This
// client's own events are dropped so local writes are not applied twice.
func (b *Bus) Subscribe(kind string, handler func(DocumentEvent)) error {
	_, err := b.conn.Subscribe(Subject(b.prefix, kind), func(msg *nats.Msg) {
		ev, err := decodeEvent(msg.Data)
		if err != nil {
			return
		}
		if ev.Origin == b.origin {
			return
		}
		handler(ev)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", kind, err)
	}
	return nil
}

// Close drains the connection.
func (b *Bus) Close() {
	if b.conn != nil {
		b.conn.Close()
	}
}
