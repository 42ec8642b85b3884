// Package geo holds the coordinate arithmetic used to place and rank
// checkpoints. Everything here is pure; randomness comes in through Source.
package geo

import (
	"math"
	"math/rand/v2"

	"github.com/playperu/geohunt/internal/apperr"
)

const (
	// MetersPerDegree is the flat approximation of one degree of latitude.
	MetersPerDegree = 111_000.0

	earthRadiusMeters = 6_371_008.8
)

// Coordinate is a WGS84 position in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Validate reports a field-qualified InvalidInput error when c lies outside
// the valid latitude/longitude ranges.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || c.Lat < -90 || c.Lat > 90 {
		return apperr.InvalidInput("lat", "must be between -90 and 90")
	}
	if math.IsNaN(c.Lng) || c.Lng < -180 || c.Lng > 180 {
		return apperr.InvalidInput("lng", "must be between -180 and 180")
	}
	return nil
}

// Source supplies uniform draws in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource draws from the goroutine-safe top-level math/rand/v2 generator.
var DefaultSource Source = globalSource{}

// SamplePointInDisk returns a point distributed uniformly by area inside the
// disk of radiusMeters around origin. A non-positive radius yields origin.
func SamplePointInDisk(origin Coordinate, radiusMeters float64, src Source) (Coordinate, error) {
	if err := origin.Validate(); err != nil {
		return Coordinate{}, err
	}
	if math.Abs(origin.Lat) >= 90 {
		return Coordinate{}, apperr.InvalidInput("lat", "longitude scaling is undefined at the poles")
	}
	if radiusMeters <= 0 {
		return origin, nil
	}
	if src == nil {
		src = DefaultSource
	}

	r := radiusMeters / MetersPerDegree
	w := r * math.Sqrt(src.Float64())
	t := 2 * math.Pi * src.Float64()

	dLat := w * math.Cos(t)
	dLng := w * math.Sin(t) / math.Cos(origin.Lat*math.Pi/180)

	return reflectPole(origin.Lat+dLat, origin.Lng+dLng), nil
}

// reflectPole folds a latitude that ran past a pole back onto the sphere,
// continuing on the opposite meridian.
func reflectPole(lat, lng float64) Coordinate {
	switch {
	case lat > 90:
		lat = 180 - lat
		lng += 180
	case lat < -90:
		lat = -180 - lat
		lng += 180
	}
	return Coordinate{Lat: lat, Lng: wrapLongitude(lng)}
}

// DistanceMeters is the haversine great-circle distance between a and b.
func DistanceMeters(a, b Coordinate) float64 {
	if a == b {
		return 0
	}
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h a hair outside [0,1] for antipodal points.
	h = math.Min(1, math.Max(0, h))
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

func wrapLongitude(lng float64) float64 {
	for lng > 180 {
		lng -= 360
	}
	for lng < -180 {
		lng += 360
	}
	return lng
}
