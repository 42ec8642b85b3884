package hunt

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/geo"
)

// QuestionSupply is the question store as seen by the engine.
type QuestionSupply interface {
	// RandomQuestions returns up to count questions with distinct ids.
	// Fewer are returned when the pool is small.
	RandomQuestions(ctx context.Context, count int) ([]Question, error)
	// Question returns the question with id or an apperr NotFound error.
	Question(ctx context.Context, id int64) (Question, error)
}

// CustomSupply lists player-placed checkpoints.
type CustomSupply interface {
	CustomCheckpoints(ctx context.Context) ([]CustomCheckpoint, error)
}

// Spawner places one checkpoint per supplied question inside a disk.
// Custom checkpoints within the disk are used first, nearest first.
type Spawner struct {
	Supply QuestionSupply
	Custom CustomSupply
	Source geo.Source
}

func NewSpawner(supply QuestionSupply, src geo.Source) *Spawner {
	if src == nil {
		src = geo.DefaultSource
	}
	return &Spawner{Supply: supply, Source: src}
}

// Spawn returns the session's checkpoint set ordered by id. A supply that
// returns fewer than count questions is not an error; the set is simply
// smaller.
func (s *Spawner) Spawn(ctx context.Context, origin geo.Coordinate, radiusMeters float64, count int) ([]Checkpoint, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}
	if count < 1 {
		return nil, apperr.InvalidInput("count", "must be at least 1")
	}

	seen := make(map[int64]bool, count)
	checkpoints := make([]Checkpoint, 0, count)

	custom, err := s.customInRange(ctx, origin, radiusMeters)
	if err != nil {
		return nil, err
	}
	for _, c := range custom {
		if len(checkpoints) == count {
			break
		}
		if seen[c.Question.ID] {
			continue
		}
		seen[c.Question.ID] = true
		cp := checkpointFor(c.Question, c.Position)
		cp.Custom = true
		checkpoints = append(checkpoints, cp)
	}

	if len(checkpoints) < count {
		// A full count still fills the set when some draws repeat custom ones.
		questions, err := s.Supply.RandomQuestions(ctx, count)
		if err != nil {
			return nil, fmt.Errorf("fetching questions: %w", err)
		}
		for _, q := range questions {
			if len(checkpoints) == count {
				break
			}
			if seen[q.ID] {
				continue
			}
			seen[q.ID] = true

			pos, err := geo.SamplePointInDisk(origin, radiusMeters, s.Source)
			if err != nil {
				return nil, err
			}
			checkpoints = append(checkpoints, checkpointFor(q, pos))
		}
	}

	s.drawSubjects(checkpoints)
	slices.SortFunc(checkpoints, func(a, b Checkpoint) int { return cmp.Compare(a.ID, b.ID) })
	return checkpoints, nil
}

func (s *Spawner) customInRange(ctx context.Context, origin geo.Coordinate, radiusMeters float64) ([]CustomCheckpoint, error) {
	if s.Custom == nil {
		return nil, nil
	}
	all, err := s.Custom.CustomCheckpoints(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching custom checkpoints: %w", err)
	}
	dist := make(map[int64]float64, len(all))
	inRange := make([]CustomCheckpoint, 0, len(all))
	for _, c := range all {
		d := geo.DistanceMeters(origin, c.Position)
		if d > radiusMeters {
			continue
		}
		dist[c.ID] = d
		inRange = append(inRange, c)
	}
	slices.SortFunc(inRange, func(a, b CustomCheckpoint) int {
		if c := cmp.Compare(dist[a.ID], dist[b.ID]); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return inRange, nil
}

// drawSubjects hands catalog items to checkpoints without a subject,
// distinct until the catalog runs out.
func (s *Spawner) drawSubjects(checkpoints []Checkpoint) {
	order := make([]int, len(PhotoCatalog))
	for i := range order {
		order[i] = i
	}
	for i := len(order) - 1; i > 0; i-- {
		j := int(s.Source.Float64() * float64(i+1))
		order[i], order[j] = order[j], order[i]
	}
	next := 0
	for i := range checkpoints {
		if checkpoints[i].Subject != "" {
			continue
		}
		checkpoints[i].Subject = PhotoCatalog[order[next%len(order)]].Name
		next++
	}
}

func checkpointFor(q Question, pos geo.Coordinate) Checkpoint {
	return Checkpoint{
		ID:       q.ID,
		Position: pos,
		Prompt:   q.Prompt,
		Options:  slices.Clone(q.Options),
		Points:   q.Points,
		Subject:  q.Subject,
	}
}
