package geo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	klax = Point{Lat: 33.9425, Lon: -118.4081}
	ksfo = Point{Lat: 37.6189, Lon: -122.3750}
)

func TestDistanceNM(t *testing.T) {
	// KLAX-KSFO is about 293nm.
	d := DistanceNM(klax, ksfo)
	assert.InDelta(t, 293, d, 5)

	assert.Zero(t, DistanceNM(klax, klax))
	assert.InDelta(t, DistanceNM(klax, ksfo), DistanceNM(ksfo, klax), 1e-9)
}

func TestPointInPolygon(t *testing.T) {
	square := []Point{
		{Lat: 30, Lon: -100},
		{Lat: 30, Lon: -90},
		{Lat: 40, Lon: -90},
		{Lat: 40, Lon: -100},
	}

	assert.True(t, PointInPolygon(Point{Lat: 35, Lon: -95}, square))
	assert.False(t, PointInPolygon(Point{Lat: 45, Lon: -95}, square))
	assert.False(t, PointInPolygon(Point{Lat: 35, Lon: -85}, square))
}

func TestPointInPolygon_rotationInvariant(t *testing.T) {
	pentagon := []Point{
		{Lat: 30, Lon: -100},
		{Lat: 32, Lon: -92},
		{Lat: 38, Lon: -90},
		{Lat: 42, Lon: -96},
		{Lat: 36, Lon: -102},
	}
	inside := Point{Lat: 35, Lon: -96}
	outside := Point{Lat: 45, Lon: -96}

	// Containment must not depend on which vertex the ring starts at.
	for shift := 0; shift < len(pentagon); shift++ {
		rotated := append(append([]Point{}, pentagon[shift:]...), pentagon[:shift]...)
		assert.True(t, PointInPolygon(inside, rotated), "shift %d", shift)
		assert.False(t, PointInPolygon(outside, rotated), "shift %d", shift)
	}
}

func TestPointInPolygon_degenerate(t *testing.T) {
	assert.False(t, PointInPolygon(Point{Lat: 35, Lon: -95}, nil))
	assert.False(t, PointInPolygon(Point{Lat: 35, Lon: -95}, []Point{{Lat: 30, Lon: -100}, {Lat: 40, Lon: -90}}))

	// All vertices on one horizontal line must not panic or contain.
	flat := []Point{{Lat: 30, Lon: -100}, {Lat: 30, Lon: -95}, {Lat: 30, Lon: -90}}
	assert.False(t, PointInPolygon(Point{Lat: 30, Lon: -95}, flat))
}

func TestInterpolatePoints_spacing(t *testing.T) {
	points := InterpolatePoints(klax, ksfo, 50)

	// ~293nm at 50nm spacing gives floor(293/50)+1 = 6 points.
	require.Len(t, points, 6)
	assert.Equal(t, klax, points[0])
	assert.Equal(t, ksfo, points[len(points)-1])

	// Consecutive points are evenly spaced in lat/lon.
	dLat := points[1].Lat - points[0].Lat
	for i := 1; i < len(points); i++ {
		assert.InDelta(t, dLat, points[i].Lat-points[i-1].Lat, 1e-9)
	}
}

func TestInterpolatePoints_identicalEndpoints(t *testing.T) {
	points := InterpolatePoints(klax, klax, 50)

	require.Len(t, points, 2)
	assert.Equal(t, klax, points[0])
	assert.Equal(t, klax, points[1])
}

func TestCorrelateHazards_threshold(t *testing.T) {
	route := InterpolatePoints(klax, ksfo, 50)
	mid := route[len(route)/2]

	// One degree of latitude is 60nm; 49/60 and 51/60 degrees put the hazard
	// just inside and just outside the 50nm threshold.
	near := HazardPoint{Lat: mid.Lat + 49.0/60.0, Lon: mid.Lon, Raw: "UA /OV LAX /TB MOD"}
	far := HazardPoint{Lat: mid.Lat + 51.0/60.0, Lon: mid.Lon, Raw: "UA /OV SFO /TB SEV"}

	got := CorrelateHazards([]Point{mid}, []HazardPoint{near, far}, 50, nil)

	require.Len(t, got, 1)
	assert.Equal(t, near.Raw, got[0].PirepRaw)
	assert.LessOrEqual(t, got[0].DistanceToPirepNM, 50.0)
	assert.Equal(t, near.Lat, got[0].Lat)
	assert.Equal(t, near.Lon, got[0].Lon)
}

func TestCorrelateHazards_idempotentDedupe(t *testing.T) {
	route := InterpolatePoints(klax, ksfo, 50)
	hz := HazardPoint{Lat: route[2].Lat, Lon: route[2].Lon, Raw: "UA /OV SBA /IC LGT"}

	// Duplicate hazard entries collapse to one record per route point.
	first := CorrelateHazards(route, []HazardPoint{hz, hz}, 50, nil)
	second := CorrelateHazards(route, []HazardPoint{hz, hz}, 50, nil)

	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.NotEqual(t, first[i-1], first[i])
	}
}

func TestCorrelateHazards_summaryAndFallback(t *testing.T) {
	pt := Point{Lat: 35, Lon: -100}
	hazards := []HazardPoint{{Lat: 35.1, Lon: -100, Raw: ""}}

	got := CorrelateHazards([]Point{pt}, hazards, 50, func(raw string) string {
		return "summary of " + raw
	})

	require.Len(t, got, 1)
	assert.Equal(t, "No raw PIREP available", got[0].PirepRaw)
	assert.Equal(t, "summary of ", got[0].Summary)
}

func TestTrueCourse(t *testing.T) {
	assert.InDelta(t, 0, TrueCourse(Point{Lat: 30, Lon: -100}, Point{Lat: 40, Lon: -100}), 1e-9)
	assert.InDelta(t, 90, TrueCourse(Point{Lat: 0, Lon: -100}, Point{Lat: 0, Lon: -90}), 1e-9)
	assert.InDelta(t, 180, TrueCourse(Point{Lat: 40, Lon: -100}, Point{Lat: 30, Lon: -100}), 1e-9)
}

func TestRouteLegs(t *testing.T) {
	date := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	legs := RouteLegs([]Point{klax, ksfo}, 10500, date)

	require.Len(t, legs, 1)
	assert.Equal(t, klax, legs[0].From)
	assert.Equal(t, ksfo, legs[0].To)
	assert.InDelta(t, 293, legs[0].DistanceNM, 5)
	assert.GreaterOrEqual(t, legs[0].MagneticCourse, 0.0)
	assert.Less(t, legs[0].MagneticCourse, 360.0)

	assert.Empty(t, RouteLegs([]Point{klax}, 10500, date))
}

func TestRouteLegs_declinationAtMidpoint(t *testing.T) {
	date := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	legs := RouteLegs([]Point{klax, ksfo}, 10500, date)
	require.Len(t, legs, 1)

	mid := Point{Lat: (klax.Lat + ksfo.Lat) / 2, Lon: (klax.Lon + ksfo.Lon) / 2}
	want := legs[0].TrueCourse - MagneticVariation(mid, 10500, date)
	if want < 0 {
		want += 360
	}
	if want >= 360 {
		want -= 360
	}
	assert.InDelta(t, want, legs[0].MagneticCourse, 1e-9)
}
