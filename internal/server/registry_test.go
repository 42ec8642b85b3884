package server

import (
	"sync"
	"testing"

	"github.com/playperu/geohunt/internal/hunt"
)

func TestRegistry(t *testing.T) {
	var (
		mu      sync.Mutex
		created []string
	)
	reg := NewRegistry(func(player string) *hunt.Game {
		mu.Lock()
		created = append(created, player)
		mu.Unlock()
		return hunt.NewGame(hunt.GameConfig{})
	})

	if _, ok := reg.Lookup("ana"); ok {
		t.Fatal("lookup created a game")
	}

	var wg sync.WaitGroup
	games := make([]*hunt.Game, 8)
	for i := range games {
		wg.Add(1)
		go func() {
			defer wg.Done()
			games[i] = reg.Get("ana")
		}()
	}
	wg.Wait()

	for _, g := range games {
		if g != games[0] {
			t.Fatal("concurrent Get returned different games")
		}
	}
	if len(created) != 1 {
		t.Errorf("created %d games, want 1", len(created))
	}
	if got, ok := reg.Lookup("ana"); !ok || got != games[0] {
		t.Error("lookup did not find the created game")
	}
	if reg.Get("ben") == games[0] {
		t.Error("players share a game")
	}

	reg.Close()
	if _, ok := reg.Lookup("ana"); ok {
		t.Error("close kept games")
	}
}
