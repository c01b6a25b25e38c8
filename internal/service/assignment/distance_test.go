package assignment

import (
	"math"
	"testing"
)

func TestHaversineDistance_ZeroForSamePoint(t *testing.T) {
	got := HaversineDistance(51.5074, -0.1278, 51.5074, -0.1278)
	if got != 0 {
		t.Fatalf("expected 0 distance for identical points, got %f", got)
	}
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	a := HaversineDistance(28.6139, 77.2090, 19.0760, 72.8777)
	b := HaversineDistance(19.0760, 72.8777, 28.6139, 77.2090)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("distance not symmetric: %f vs %f", a, b)
	}
}

func TestHaversineDistance_OneDegreeLongitudeAtEquator(t *testing.T) {
	// One degree of longitude on the equator subtends R * pi / 180.
	want := EarthRadiusKm * math.Pi / 180
	got := HaversineDistance(0, 0, 0, 1)
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("expected %f km, got %f km", want, got)
	}
}

func TestHaversineDistance_KnownCityPair(t *testing.T) {
	// Delhi to Mumbai is roughly 1150 km great-circle.
	got := HaversineDistance(28.6139, 77.2090, 19.0760, 72.8777)
	if got < 1100 || got > 1200 {
		t.Fatalf("Delhi-Mumbai distance out of expected band: %f km", got)
	}
}

func TestHaversineDistance_NonNegative(t *testing.T) {
	points := [][4]float64{
		{-90, 0, 90, 0},
		{0, -180, 0, 180},
		{45.0, 45.0, -45.0, -45.0},
	}
	for _, p := range points {
		if d := HaversineDistance(p[0], p[1], p[2], p[3]); d < 0 {
			t.Fatalf("negative distance %f for %v", d, p)
		}
	}
}
