package geo

import (
	"math"
	"time"

	"github.com/westphae/geomag/pkg/egm96"
	"github.com/westphae/geomag/pkg/wmm"
)

// RouteLeg describes one segment of a planned route between two waypoints.
type RouteLeg struct {
	From           Point   `json:"from"`
	To             Point   `json:"to"`
	DistanceNM     float64 `json:"distance_nm"`
	TrueCourse     float64 `json:"true_course_deg"`
	MagneticCourse float64 `json:"magnetic_course_deg"`
}

// TrueCourse returns the initial great-circle bearing from a to b in degrees,
// normalized to [0, 360).
func TrueCourse(a, b Point) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	bearing := math.Atan2(y, x) * 180 / math.Pi

	if bearing < 0 {
		bearing += 360
	}
	return bearing
}

// MagneticVariation computes the magnetic declination at a position and
// altitude for the given date. Degrees, +East -West. Returns 0 when the model
// cannot evaluate the position.
func MagneticVariation(p Point, altFt float64, date time.Time) float64 {
	loc := egm96.NewLocationGeodetic(p.Lat, p.Lon, altFt*0.3048)
	mag, err := wmm.CalculateWMMMagneticField(loc, date)
	if err != nil {
		return 0.0
	}
	return mag.D()
}

// RouteLegs builds the leg list for an ordered waypoint sequence. The
// magnetic course of each leg applies the declination at the leg midpoint.
// Fewer than 2 waypoints yield no legs.
func RouteLegs(waypoints []Point, altFt float64, date time.Time) []RouteLeg {
	if len(waypoints) < 2 {
		return nil
	}

	legs := make([]RouteLeg, 0, len(waypoints)-1)
	for i := 0; i < len(waypoints)-1; i++ {
		from, to := waypoints[i], waypoints[i+1]
		mid := Point{Lat: (from.Lat + to.Lat) / 2, Lon: (from.Lon + to.Lon) / 2}
		tc := TrueCourse(from, to)
		mc := tc - MagneticVariation(mid, altFt, date)
		if mc < 0 {
			mc += 360
		}
		if mc >= 360 {
			mc -= 360
		}
		legs = append(legs, RouteLeg{
			From:           from,
			To:             to,
			DistanceNM:     DistanceNM(from, to),
			TrueCourse:     tc,
			MagneticCourse: mc,
		})
	}
	return legs
}
