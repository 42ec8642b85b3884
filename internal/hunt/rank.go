package hunt

import (
	"cmp"
	"slices"

	"github.com/playperu/geohunt/internal/geo"
)

// NearThresholdMeters is the distance under which an uncollected checkpoint
// is flagged as near. The flag is presentation metadata only.
const NearThresholdMeters = 50.0

// Ranked is a checkpoint with its live distance from the observer.
type Ranked struct {
	Checkpoint     Checkpoint
	DistanceMeters float64
	Near           bool
}

// Rank orders checkpoints for an observer: uncollected first, then by
// ascending distance, ties by ascending id. Duplicate ids keep the last
// occurrence. A nil observer (position unknown) yields an empty list.
func Rank(observer *geo.Coordinate, checkpoints []Checkpoint) []Ranked {
	if observer == nil {
		return []Ranked{}
	}

	idx := make(map[int64]int, len(checkpoints))
	ranked := make([]Ranked, 0, len(checkpoints))
	for _, cp := range checkpoints {
		d := geo.DistanceMeters(*observer, cp.Position)
		r := Ranked{
			Checkpoint:     cp,
			DistanceMeters: d,
			Near:           !cp.Collected && d < NearThresholdMeters,
		}
		if i, ok := idx[cp.ID]; ok {
			ranked[i] = r
			continue
		}
		idx[cp.ID] = len(ranked)
		ranked = append(ranked, r)
	}

	slices.SortFunc(ranked, func(a, b Ranked) int {
		if a.Checkpoint.Collected != b.Checkpoint.Collected {
			if a.Checkpoint.Collected {
				return 1
			}
			return -1
		}
		if c := cmp.Compare(a.DistanceMeters, b.DistanceMeters); c != 0 {
			return c
		}
		return cmp.Compare(a.Checkpoint.ID, b.Checkpoint.ID)
	})
	return ranked
}

// Nearest returns the closest uncollected checkpoint, if any.
func Nearest(ranked []Ranked) (Ranked, bool) {
	if len(ranked) == 0 || ranked[0].Checkpoint.Collected {
		return Ranked{}, false
	}
	return ranked[0], true
}
