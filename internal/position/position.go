// Package position caches the latest observed coordinate of each player so
// rankings can be served without the client resending its location.
package position

import (
	"context"
	"sync"
	"time"

	"github.com/playperu/geohunt/internal/geo"
)

// Fix is one position report.
type Fix struct {
	Coordinate geo.Coordinate `json:"coordinate"`
	At         time.Time      `json:"at"`
}

// Store holds the latest fix per player. Get reports ok=false when the
// player has no fix or it has expired.
type Store interface {
	Put(ctx context.Context, player string, fix Fix) error
	Get(ctx context.Context, player string) (fix Fix, ok bool, err error)
}

// Memory is an in-process Store used when no Redis is configured.
type Memory struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	fixes map[string]Fix
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{ttl: ttl, now: time.Now, fixes: make(map[string]Fix)}
}

func (m *Memory) Put(_ context.Context, player string, fix Fix) error {
	if err := fix.Coordinate.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	m.fixes[player] = fix
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, player string) (Fix, bool, error) {
	m.mu.RLock()
	fix, ok := m.fixes[player]
	m.mu.RUnlock()
	if !ok {
		return Fix{}, false, nil
	}
	if m.ttl > 0 && m.now().Sub(fix.At) > m.ttl {
		m.mu.Lock()
		if cur, ok := m.fixes[player]; ok && cur.At.Equal(fix.At) {
			delete(m.fixes, player)
		}
		m.mu.Unlock()
		return Fix{}, false, nil
	}
	return fix, true, nil
}
