// Package notify is the in-process "new aggregate available" channel. The
// recorder publishes a snapshot after a successful write; delivery is
// fire-and-forget, at-most-once, and unordered across concurrent writers.
// Subscribers are expected to re-query the API rather than treat the payload
// as authoritative.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Message is one broadcast. The payload is a plain data structure; the wire
// format belongs to whatever transport a subscriber renders it on.
type Message struct {
	ID      string    `json:"id"`
	Topic   string    `json:"topic"`
	SentAt  time.Time `json:"sentAt"`
	Payload any       `json:"payload"`
}

// Publisher is the outbound side handed to recorders.
type Publisher interface {
	Publish(topic string, payload any)
}

// Broadcaster fans messages out to subscribers. A subscriber that cannot keep
// up loses messages instead of blocking the publisher.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[string]map[uint64]chan Message
	next uint64
}

// NewBroadcaster builds an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[string]map[uint64]chan Message)}
}

// Subscribe registers interest in a topic. The returned cancel func must be
// called to release the subscription; after it returns the channel is closed.
func (b *Broadcaster) Subscribe(topic string, buffer int) (<-chan Message, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Message, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]chan Message)
	}
	b.subs[topic][id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if sub, ok := b.subs[topic][id]; ok {
			delete(b.subs[topic], id)
			close(sub)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish sends to every current subscriber of the topic without blocking.
// Messages to full subscriber buffers are dropped.
func (b *Broadcaster) Publish(topic string, payload any) {
	msg := Message{
		ID:      uuid.New().String(),
		Topic:   topic,
		SentAt:  time.Now().UTC(),
		Payload: payload,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- msg:
		default:
		}
	}
}
