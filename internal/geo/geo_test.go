package geo_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/geo"
)

func TestSamplePointInDisk_StaysInsideRadius(t *testing.T) {
	origins := []geo.Coordinate{
		{Lat: 45.0, Lng: -87.0},
		{Lat: -12.046, Lng: -77.043},
		{Lat: 60.17, Lng: 24.94},
		{Lat: 0, Lng: 179.999},
	}
	radii := []float64{10, 500, 2000}

	rng := rand.New(rand.NewPCG(7, 11))
	for _, o := range origins {
		for _, r := range radii {
			eps := r*0.01 + 0.5
			for i := 0; i < 10_000; i++ {
				p, err := geo.SamplePointInDisk(o, r, rng)
				require.NoError(t, err)
				d := geo.DistanceMeters(o, p)
				if d > r+eps {
					t.Fatalf("origin %+v radius %v: sample %+v at %.2fm", o, r, p, d)
				}
			}
		}
	}
}

func TestSamplePointInDisk_UniformByArea(t *testing.T) {
	origin := geo.Coordinate{Lat: 45.0, Lng: -87.0}
	const (
		radius  = 500.0
		samples = 10_000
		bins    = 10
	)

	rng := rand.New(rand.NewPCG(42, 99))
	var counts [bins]int
	for i := 0; i < samples; i++ {
		p, err := geo.SamplePointInDisk(origin, radius, rng)
		require.NoError(t, err)

		// Equal-area rings: ring k spans radius*sqrt(k/bins)..radius*sqrt((k+1)/bins).
		frac := math.Pow(geo.DistanceMeters(origin, p)/radius, 2)
		k := int(frac * bins)
		if k >= bins {
			k = bins - 1
		}
		counts[k]++
	}

	for k, c := range counts {
		assert.InDelta(t, samples/bins, c, 200, "ring %d holds %d samples", k, c)
	}
	assert.Less(t, counts[0], samples*12/100, "inner 10%% of the area is over-represented")
}

func TestSamplePointInDisk_DegenerateRadius(t *testing.T) {
	origin := geo.Coordinate{Lat: 12.5, Lng: 99.25}
	for _, r := range []float64{0, -10} {
		p, err := geo.SamplePointInDisk(origin, r, nil)
		require.NoError(t, err)
		assert.Equal(t, origin, p)
	}
}

func TestSamplePointInDisk_RejectsPolesAndBadOrigins(t *testing.T) {
	tests := []struct {
		name   string
		origin geo.Coordinate
		field  string
	}{
		{"north pole", geo.Coordinate{Lat: 90, Lng: 0}, "lat"},
		{"south pole", geo.Coordinate{Lat: -90, Lng: 10}, "lat"},
		{"latitude out of range", geo.Coordinate{Lat: 91, Lng: 0}, "lat"},
		{"longitude out of range", geo.Coordinate{Lat: 10, Lng: 181}, "lng"},
		{"nan", geo.Coordinate{Lat: math.NaN(), Lng: 0}, "lat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := geo.SamplePointInDisk(tt.origin, 100, nil)
			require.Error(t, err)
			e, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.CodeInvalidInput, e.Code)
			assert.Equal(t, tt.field, e.Field)
		})
	}
}

func TestSamplePointInDisk_NearPoleStaysValid(t *testing.T) {
	src := rand.New(rand.NewPCG(7, 8))
	for _, origin := range []geo.Coordinate{
		{Lat: 89.9999, Lng: 10},
		{Lat: -89.9999, Lng: -170},
	} {
		for i := 0; i < 1000; i++ {
			p, err := geo.SamplePointInDisk(origin, 2000, src)
			require.NoError(t, err)
			require.NoError(t, p.Validate(), "sample %d around %v: %+v", i, origin, p)
		}
	}
}

func TestDistanceMeters(t *testing.T) {
	a := geo.Coordinate{Lat: 45.0, Lng: -87.0}
	b := geo.Coordinate{Lat: 45.001, Lng: -87.002}
	c := geo.Coordinate{Lat: 44.99, Lng: -86.99}

	assert.Zero(t, geo.DistanceMeters(a, a))
	assert.Equal(t, geo.DistanceMeters(a, b), geo.DistanceMeters(b, a))
	assert.Greater(t, geo.DistanceMeters(a, b), 0.0)
	assert.LessOrEqual(t, geo.DistanceMeters(a, c), geo.DistanceMeters(a, b)+geo.DistanceMeters(b, c)+1e-9)

	// One degree of latitude along a meridian.
	assert.InDelta(t, 111_195, geo.DistanceMeters(geo.Coordinate{Lat: 0, Lng: 0}, geo.Coordinate{Lat: 1, Lng: 0}), 5)

	// Antipodal points are half the circumference apart.
	half := geo.DistanceMeters(geo.Coordinate{Lat: 0, Lng: 0}, geo.Coordinate{Lat: 0, Lng: 180})
	assert.InDelta(t, math.Pi*6_371_008.8, half, 1)
}

func TestCoordinateValidate(t *testing.T) {
	assert.NoError(t, geo.Coordinate{Lat: -90, Lng: 180}.Validate())
	assert.NoError(t, geo.Coordinate{Lat: 90, Lng: -180}.Validate())
	assert.Error(t, geo.Coordinate{Lat: 0, Lng: -180.5}.Validate())
}
