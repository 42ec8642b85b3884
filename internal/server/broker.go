package server

import (
	"encoding/json"
	"sync"
)

// SSEEvent is the payload published to a player's subscribers.
type SSEEvent struct {
	Type         string           `json:"type"`
	CheckpointID int64            `json:"checkpointId,omitempty"`
	Session      *SessionResponse `json:"session,omitempty"`
}

// Broker is an in-process pub/sub for SSE events, keyed by player.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded SSE events for the given player.
func (b *Broker) Subscribe(player string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[player] == nil {
		b.subs[player] = make(map[chan []byte]struct{})
	}
	b.subs[player][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the player's subscribers.
func (b *Broker) Unsubscribe(player string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[player], ch)
	if len(b.subs[player]) == 0 {
		delete(b.subs, player)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given player.
func (b *Broker) Publish(player string, event SSEEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[player] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
