package server

import (
	"sync"

	"github.com/playperu/geohunt/internal/hunt"
)

// Registry holds one game per player, created on first use.
type Registry struct {
	newGame func(player string) *hunt.Game
	mu      sync.RWMutex
	games   map[string]*hunt.Game
}

func NewRegistry(newGame func(player string) *hunt.Game) *Registry {
	return &Registry{
		newGame: newGame,
		games:   make(map[string]*hunt.Game),
	}
}

// Get returns the player's game, creating it in the Lobby if needed.
func (r *Registry) Get(player string) *hunt.Game {
	r.mu.RLock()
	g, ok := r.games[player]
	r.mu.RUnlock()
	if ok {
		return g
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock.
	if g, ok := r.games[player]; ok {
		return g
	}
	g = r.newGame(player)
	r.games[player] = g
	return g
}

// Lookup returns the player's game without creating one.
func (r *Registry) Lookup(player string) (*hunt.Game, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.games[player]
	return g, ok
}

// Close stops every game's countdown.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for player, g := range r.games {
		g.Stop()
		delete(r.games, player)
	}
}
