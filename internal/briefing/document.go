package briefing

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/skybrief/skybrief/internal/geo"
)

// pirepsDocument is the published hazard document format.
type pirepsDocument struct {
	Pireps []geo.HazardCorrelation `json:"pireps"`
}

// HazardsJSON renders the correlated hazards as the {"pireps": [...]} document
// consumed by the map front end. An empty correlation set still produces a
// document with an empty list.
func HazardsJSON(hazards []geo.HazardCorrelation) ([]byte, error) {
	doc := pirepsDocument{Pireps: hazards}
	if doc.Pireps == nil {
		doc.Pireps = []geo.HazardCorrelation{}
	}
	return json.MarshalIndent(doc, "", "  ")
}

// composeDocument assembles the full human-readable briefing text from the
// per-airport reports, advisories, hazards and route samples.
func composeDocument(b *Briefing) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Flight Briefing: %s -> %s\n", b.Departure, b.Destination)
	fmt.Fprintf(&sb, "Planned Altitude: %.0f ft\n", b.AltitudeFt)
	fmt.Fprintf(&sb, "Overall Flight Category: %s\n", b.Category)

	for _, leg := range b.Legs {
		fmt.Fprintf(&sb, "Leg %s -> %s: %.0f nm, true course %03.0f°, magnetic course %03.0f°\n",
			b.Departure, b.Destination, leg.DistanceNM, leg.TrueCourse, leg.MagneticCourse)
	}

	for _, ap := range b.Airports {
		fmt.Fprintf(&sb, "\n=== %s (%s) ===\n", ap.Code, ap.Category)
		sb.WriteString(ap.METARText)
		if !strings.HasSuffix(ap.METARText, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString(ap.TAFText)
		if !strings.HasSuffix(ap.TAFText, "\n") {
			sb.WriteString("\n")
		}
	}

	if len(b.Advisories) > 0 {
		sb.WriteString("\n=== Advisories ===\n")
		for _, adv := range b.Advisories {
			sb.WriteString(adv.Text)
			sb.WriteString("\n")
			if adv.AffectsRoute {
				fmt.Fprintf(&sb, ">> This advisory area contains: %s\n", strings.Join(adv.AffectedCodes, ", "))
			}
		}
	}

	if len(b.Hazards) > 0 {
		sb.WriteString("\n=== Route Hazards (PIREPs) ===\n")
		for _, hz := range b.Hazards {
			fmt.Fprintf(&sb, "- %.1f nm from route: %s\n", hz.DistanceToPirepNM, hz.Summary)
		}
	} else {
		sb.WriteString("\nNo PIREP hazards within range of the planned route.\n")
	}

	if len(b.RouteSamples) > 0 {
		sb.WriteString("\n=== Severe Weather Along Route ===\n")
		for _, s := range b.RouteSamples {
			if s.Error != "" {
				fmt.Fprintf(&sb, "- point %d (%.4f, %.4f): sample unavailable (%s)\n", s.PointIndex, s.Lat, s.Lon, s.Error)
				continue
			}
			fmt.Fprintf(&sb, "- point %d (%.4f, %.4f): %s, %.1f°C, wind %.1f km/h\n",
				s.PointIndex, s.Lat, s.Lon, s.Description, s.Temperature, s.Windspeed)
		}
	}

	return sb.String()
}
