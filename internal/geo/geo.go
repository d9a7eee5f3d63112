// Package geo provides the route geometry used for hazard correlation:
// great-circle distances, route interpolation, and polygon containment.
package geo

import "math"

const earthRadiusNM = 3440.065

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// DistanceNM returns the great-circle distance between two points in nautical
// miles, using the haversine formula.
func DistanceNM(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusNM * math.Asin(math.Sqrt(h))
}

// PointInPolygon reports whether p lies inside the polygon using even-odd
// ray casting over the ordered vertex list. The polygon is closed implicitly.
// Fewer than 3 vertices never contain anything.
func PointInPolygon(p Point, polygon []Point) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := polygon[i], polygon[j]
		if (vi.Lon > p.Lon) != (vj.Lon > p.Lon) {
			// Epsilon keeps a degenerate horizontal edge from dividing by zero.
			intersect := (vj.Lat-vi.Lat)*(p.Lon-vi.Lon)/(vj.Lon-vi.Lon+1e-12) + vi.Lat
			if p.Lat < intersect {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// InterpolatePoints generates route points between start and end at roughly
// intervalNM spacing, by linear interpolation in latitude/longitude space.
// Both endpoints are always included and at least 2 points are produced, so a
// zero-length route yields the same point twice.
func InterpolatePoints(start, end Point, intervalNM float64) []Point {
	if intervalNM <= 0 {
		intervalNM = 50
	}

	total := DistanceNM(start, end)
	steps := int(total/intervalNM) + 1
	if steps < 2 {
		steps = 2
	}

	points := make([]Point, steps)
	for i := 0; i < steps; i++ {
		t := float64(i) / float64(steps-1)
		points[i] = Point{
			Lat: start.Lat + (end.Lat-start.Lat)*t,
			Lon: start.Lon + (end.Lon-start.Lon)*t,
		}
	}
	return points
}
