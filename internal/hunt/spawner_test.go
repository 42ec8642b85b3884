package hunt_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/geo"
	"github.com/playperu/geohunt/internal/hunt"
)

func TestSpawn_PlacesCheckpointsInsideRadius(t *testing.T) {
	origin := geo.Coordinate{Lat: 45.0, Lng: -87.0}
	sp := hunt.NewSpawner(newFakeSupply(10), seeded())

	cps, err := sp.Spawn(context.Background(), origin, 500, 5)
	require.NoError(t, err)
	require.Len(t, cps, 5)

	for i, cp := range cps {
		assert.Equal(t, int64(i+1), cp.ID, "checkpoints are ordered by id")
		assert.False(t, cp.Collected)
		assert.LessOrEqual(t, geo.DistanceMeters(origin, cp.Position), 505.0)
		assert.Equal(t, 10*(i+1), cp.Points)
		assert.Contains(t, cp.Options, "Au")
	}
}

func TestSpawn_Shortfall(t *testing.T) {
	sp := hunt.NewSpawner(newFakeSupply(2), seeded())

	cps, err := sp.Spawn(context.Background(), geo.Coordinate{Lat: 10, Lng: 10}, 300, 8)
	require.NoError(t, err)
	assert.Len(t, cps, 2)
}

func TestSpawn_SkipsDuplicateQuestions(t *testing.T) {
	supply := newFakeSupply(3)
	supply.questions = append(supply.questions, supply.questions[0])
	sp := hunt.NewSpawner(supply, seeded())

	cps, err := sp.Spawn(context.Background(), geo.Coordinate{Lat: 10, Lng: 10}, 300, 4)
	require.NoError(t, err)
	require.Len(t, cps, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{cps[0].ID, cps[1].ID, cps[2].ID})
}

func TestSpawn_RejectsBadInput(t *testing.T) {
	supply := newFakeSupply(3)
	sp := hunt.NewSpawner(supply, seeded())

	_, err := sp.Spawn(context.Background(), geo.Coordinate{Lat: 95, Lng: 0}, 300, 2)
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))

	_, err = sp.Spawn(context.Background(), geo.Coordinate{Lat: 10, Lng: 0}, 300, 0)
	assert.Equal(t, apperr.CodeInvalidInput, apperr.CodeOf(err))

	assert.Zero(t, supply.calls, "supply must not be queried for invalid input")
}

func TestSpawn_CopiesOptions(t *testing.T) {
	supply := newFakeSupply(1)
	sp := hunt.NewSpawner(supply, seeded())

	cps, err := sp.Spawn(context.Background(), geo.Coordinate{Lat: 10, Lng: 10}, 300, 1)
	require.NoError(t, err)
	cps[0].Options[0] = "changed"
	assert.Equal(t, "Au", supply.questions[0].Options[0])
}

type fakeCustom []hunt.CustomCheckpoint

func (f fakeCustom) CustomCheckpoints(context.Context) ([]hunt.CustomCheckpoint, error) {
	return f, nil
}

func TestSpawn_UsesCustomCheckpointsInRange(t *testing.T) {
	origin := geo.Coordinate{Lat: 45.0, Lng: -87.0}
	supply := newFakeSupply(5)
	near := geo.Coordinate{Lat: 45.001, Lng: -87.0}
	far := geo.Coordinate{Lat: 46.0, Lng: -87.0}

	sp := hunt.NewSpawner(supply, seeded())
	sp.Custom = fakeCustom{
		{ID: 1, Position: far, Question: supply.questions[3]},
		{ID: 2, Position: near, Question: supply.questions[1]},
	}

	cps, err := sp.Spawn(context.Background(), origin, 500, 3)
	require.NoError(t, err)
	require.Len(t, cps, 3)

	byID := map[int64]hunt.Checkpoint{}
	for _, cp := range cps {
		byID[cp.ID] = cp
	}
	pinned, ok := byID[2]
	require.True(t, ok, "custom checkpoint in range is included")
	assert.True(t, pinned.Custom)
	assert.Equal(t, near, pinned.Position)

	_, ok = byID[4]
	assert.False(t, ok, "custom checkpoint out of range is skipped")
	for id, cp := range byID {
		if id != 2 {
			assert.False(t, cp.Custom)
		}
	}
}

func TestSpawn_CustomCheckpointsCapAtCount(t *testing.T) {
	origin := geo.Coordinate{Lat: 10, Lng: 10}
	supply := newFakeSupply(3)
	sp := hunt.NewSpawner(supply, seeded())
	sp.Custom = fakeCustom{
		{ID: 1, Position: origin, Question: supply.questions[0]},
		{ID: 2, Position: origin, Question: supply.questions[0]},
		{ID: 3, Position: origin, Question: supply.questions[2]},
	}

	cps, err := sp.Spawn(context.Background(), origin, 100, 2)
	require.NoError(t, err)
	require.Len(t, cps, 2)
	assert.Equal(t, []int64{1, 3}, []int64{cps[0].ID, cps[1].ID})
	assert.Zero(t, supply.calls, "a full custom set needs no random draw")
}

func TestSpawn_AssignsPhotoSubjects(t *testing.T) {
	supply := newFakeSupply(4)
	supply.questions[0].Subject = "Park Bench"
	sp := hunt.NewSpawner(supply, seeded())

	cps, err := sp.Spawn(context.Background(), geo.Coordinate{Lat: 10, Lng: 10}, 300, 4)
	require.NoError(t, err)
	require.Len(t, cps, 4)

	assert.Equal(t, "Park Bench", cps[0].Subject)
	catalog := map[string]bool{}
	for _, item := range hunt.PhotoCatalog {
		catalog[item.Name] = true
	}
	seen := map[string]bool{}
	for _, cp := range cps[1:] {
		assert.True(t, catalog[cp.Subject], "subject %q comes from the catalog", cp.Subject)
		assert.False(t, seen[cp.Subject], "subjects are distinct")
		seen[cp.Subject] = true
	}
}
