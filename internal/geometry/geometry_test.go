package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestHaversineDistanceKM_KnownCities(t *testing.T) {
	// Hannover to Berlin, roughly 250km.
	hannover := Point{Lat: 52.3759, Lon: 9.7320}
	berlin := Point{Lat: 52.5200, Lon: 13.4050}

	got := HaversineDistanceKM(hannover, berlin)
	if got < 240 || got > 260 {
		t.Errorf("expected ~250km, got %.1fkm", got)
	}
}

func TestDistance_Dispatch(t *testing.T) {
	a := Point{Lat: 0, Lon: 0}
	b := Point{Lat: 1, Lon: 1}

	tests := []struct {
		metric string
	}{
		{"euclidean"}, {"haversine"}, {"manhattan"},
	}
	for _, tc := range tests {
		t.Run(tc.metric, func(t *testing.T) {
			d := Distance(tc.metric, a, b)
			if d <= 0 {
				t.Errorf("expected positive distance for metric %s, got %f", tc.metric, d)
			}
		})
	}
}

func TestCentroid(t *testing.T) {
	points := []Point{
		{Lat: 0, Lon: 0},
		{Lat: 2, Lon: 0},
		{Lat: 1, Lon: 2},
	}
	c := Centroid(points)
	if !almostEqual(c.Lat, 1, 1e-9) || !almostEqual(c.Lon, 2.0/3.0, 1e-9) {
		t.Errorf("unexpected centroid: %+v", c)
	}
}

func TestOrbRoundTrip(t *testing.T) {
	p := Point{Lat: 52.1, Lon: 9.5}
	got := FromOrb(p.Orb())
	if got != p {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, p)
	}
}

func TestPolarAngleAndCrossProduct(t *testing.T) {
	origin := Point{Lat: 0, Lon: 0}
	east := Point{Lat: 0, Lon: 1}
	angle := PolarAngle(origin, east)
	if !almostEqual(angle, 0, 1e-9) {
		t.Errorf("expected angle 0 for due-east point, got %f", angle)
	}

	north := Point{Lat: 1, Lon: 0}
	cross := CrossProduct2D(origin, east, north)
	if cross <= 0 {
		t.Errorf("expected positive cross product for counter-clockwise turn, got %f", cross)
	}
}

func TestRadiusToEpsilon(t *testing.T) {
	eps := RadiusToEpsilon("euclidean", 1.0)
	if eps <= 0 {
		t.Errorf("expected positive epsilon for 1km radius, got %f", eps)
	}

	epsHaversine := RadiusToEpsilon("haversine", 1.0)
	if epsHaversine <= 0 {
		t.Errorf("expected positive epsilon for haversine 1km radius, got %f", epsHaversine)
	}
}
