package geo

import "math"

// HazardPoint is a located hazard observation, typically a PIREP, to test
// against a route.
type HazardPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Raw string  `json:"raw"`
}

// HazardCorrelation records one hazard found within threshold distance of a
// route point. Field names follow the published briefing document format.
type HazardCorrelation struct {
	DistanceToPirepNM float64 `json:"distance_to_pirep_nm"`
	PirepRaw          string  `json:"pirep_raw"`
	Summary           string  `json:"summary"`
	Lat               float64 `json:"lat"`
	Lon               float64 `json:"lon"`
}

// correlationKey identifies a route-point/hazard pairing for de-duplication.
// Coordinates are rounded to 4 decimal places so float noise does not defeat
// the uniqueness check.
type correlationKey struct {
	routeLat, routeLon   float64
	hazardLat, hazardLon float64
	raw                  string
}

// CorrelateHazards finds every hazard within thresholdNM nautical miles of
// any route point. Each unique (route point, hazard) pairing produces one
// record with the distance rounded to one decimal; summarize renders the
// hazard's raw text into the record's summary. The result set is rebuilt from
// scratch on every call, so recorrelating identical inputs is idempotent.
func CorrelateHazards(routePoints []Point, hazards []HazardPoint, thresholdNM float64, summarize func(string) string) []HazardCorrelation {
	seen := make(map[correlationKey]struct{})
	var warnings []HazardCorrelation

	for _, pt := range routePoints {
		for _, hz := range hazards {
			distance := DistanceNM(pt, Point{Lat: hz.Lat, Lon: hz.Lon})
			if distance > thresholdNM {
				continue
			}

			key := correlationKey{
				routeLat:  round4(pt.Lat),
				routeLon:  round4(pt.Lon),
				hazardLat: round4(hz.Lat),
				hazardLon: round4(hz.Lon),
				raw:       hz.Raw,
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			raw := hz.Raw
			if raw == "" {
				raw = "No raw PIREP available"
			}
			summary := ""
			if summarize != nil {
				summary = summarize(hz.Raw)
			}
			warnings = append(warnings, HazardCorrelation{
				DistanceToPirepNM: math.Round(distance*10) / 10,
				PirepRaw:          raw,
				Summary:           summary,
				Lat:               hz.Lat,
				Lon:               hz.Lon,
			})
		}
	}

	return warnings
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
