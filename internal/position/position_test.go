package position

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/geo"
)

func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         "localhost:1",
		DialTimeout:  10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		WriteTimeout: 10 * time.Millisecond,
		MaxRetries:   0,
	})
}

func TestMemory_PutGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(time.Minute)

	_, ok, err := m.Get(ctx, "ana")
	require.NoError(t, err)
	assert.False(t, ok)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	fix := Fix{Coordinate: geo.Coordinate{Lat: 45, Lng: -87}, At: now}
	require.NoError(t, m.Put(ctx, "ana", fix))

	got, ok, err := m.Get(ctx, "ana")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, fix, got)

	_, ok, _ = m.Get(ctx, "ben")
	assert.False(t, ok)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(30 * time.Second)
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := start
	m.now = func() time.Time { return now }

	require.NoError(t, m.Put(ctx, "ana", Fix{Coordinate: geo.Coordinate{Lat: 1, Lng: 1}, At: start}))

	now = start.Add(30 * time.Second)
	_, ok, _ := m.Get(ctx, "ana")
	assert.True(t, ok)

	now = start.Add(31 * time.Second)
	_, ok, _ = m.Get(ctx, "ana")
	assert.False(t, ok)
	assert.Empty(t, m.fixes)
}

func TestMemory_RejectsInvalidCoordinate(t *testing.T) {
	m := NewMemory(time.Minute)
	err := m.Put(context.Background(), "ana", Fix{Coordinate: geo.Coordinate{Lat: 0, Lng: 200}})
	ae, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, "lng", ae.Field)
}

func TestRedis_Unreachable(t *testing.T) {
	ctx := context.Background()
	r := NewRedis(deadRedis(), time.Minute)

	err := r.Put(ctx, "ana", Fix{Coordinate: geo.Coordinate{Lat: 1, Lng: 1}, At: time.Now()})
	assert.Error(t, err)

	_, ok, err := r.Get(ctx, "ana")
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, r.Check(ctx))
}

func TestRedis_ValidatesBeforeWriting(t *testing.T) {
	r := NewRedis(deadRedis(), time.Minute)
	err := r.Put(context.Background(), "ana", Fix{Coordinate: geo.Coordinate{Lat: -91}})
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))
}
