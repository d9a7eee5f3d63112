package decode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	tafIssueRegex = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})Z$`)
	tafValidRegex = regexp.MustCompile(`^(\d{2})(\d{2})/(\d{2})(\d{2})$`)
	tafFMRegex    = regexp.MustCompile(`^FM(\d{2})(\d{2})(\d{2})$`)
	tafWindRegex  = regexp.MustCompile(`^(\d{3})(\d{2,3})(G\d{2,3})?KT$`)
	tafVisRegex   = regexp.MustCompile(`^(\d{4})SM$`)
	tafCloudRegex = regexp.MustCompile(`^([A-Z]{3})(\d{3})$`)
)

// ForecastSegment is one forecast period of a TAF: an opening change-group
// label (empty for the implicit base forecast) and the rendered phrases that
// belong to it, in source order.
type ForecastSegment struct {
	Label   string   `json:"label,omitempty"`
	Phrases []string `json:"phrases"`
}

// TAF is a decoded Terminal Aerodrome Forecast.
type TAF struct {
	Raw         string            `json:"raw"`
	Station     string            `json:"station"`
	Issued      string            `json:"issued,omitempty"`
	ValidPeriod string            `json:"valid_period,omitempty"`
	Segments    []ForecastSegment `json:"segments"`
}

// DecodeTAF decodes raw TAF text for the given station.
func DecodeTAF(station, raw string) *TAF {
	return decodeTAF(station, raw, time.Now().UTC())
}

// decodeTAF performs a single left-to-right scan over whitespace tokens. A
// change-group marker (FM+6digits, TEMPO, BECMG, PROBnn) closes the current
// segment and opens a new one; recognized tokens append a phrase to the open
// segment; unrecognized tokens are dropped. A TAF with no markers yields one
// base segment.
func decodeTAF(station, raw string, now time.Time) *TAF {
	t := &TAF{Raw: raw, Station: strings.ToUpper(station)}

	var segments []ForecastSegment
	current := ForecastSegment{}

	flush := func() {
		if current.Label != "" || len(current.Phrases) > 0 {
			segments = append(segments, current)
		}
	}

	for _, word := range strings.Fields(raw) {
		if m := tafIssueRegex.FindStringSubmatch(word); m != nil {
			t.Issued = tafIssuedTime(m, now)
			continue
		}

		if m := tafValidRegex.FindStringSubmatch(word); m != nil {
			period := fmt.Sprintf("From %sth at %sZ to %sth at %sZ", m[1], m[2], m[3], m[4])
			if t.ValidPeriod == "" {
				// First validity group covers the whole forecast.
				t.ValidPeriod = period
			} else {
				// Later ones are change-group sub-windows.
				current.Phrases = append(current.Phrases, "Valid "+period)
			}
			continue
		}

		if m := tafFMRegex.FindStringSubmatch(word); m != nil {
			flush()
			current = ForecastSegment{Label: fmt.Sprintf("From %sth at %s:%sZ", m[1], m[2], m[3])}
			continue
		}

		if word == "TEMPO" || word == "BECMG" || strings.HasPrefix(word, "PROB") {
			flush()
			label := word
			if phrase, ok := tafCodes[word]; ok {
				label = phrase
			} else if word == "BECMG" {
				label = "Becoming"
			}
			current = ForecastSegment{Label: label}
			continue
		}

		if phrase, ok := tafCodes[word]; ok {
			current.Phrases = append(current.Phrases, phrase)
			continue
		}

		if m := tafWindRegex.FindStringSubmatch(word); m != nil {
			spd, _ := strconv.Atoi(m[2])
			wind := fmt.Sprintf("Wind from %s° at %d knots", m[1], spd)
			if m[3] != "" {
				g, _ := strconv.Atoi(m[3][1:])
				wind += fmt.Sprintf(" with gusts to %d knots", g)
			}
			current.Phrases = append(current.Phrases, wind)
			continue
		}

		if m := tafVisRegex.FindStringSubmatch(word); m != nil {
			v, _ := strconv.Atoi(m[1])
			current.Phrases = append(current.Phrases, fmt.Sprintf("Visibility: %g statute miles", float64(v)/100.0))
			continue
		}

		if m := tafCloudRegex.FindStringSubmatch(word); m != nil {
			meaning := m[1]
			if phrase, ok := tafCodes[m[1]]; ok {
				meaning = phrase
			}
			alt, _ := strconv.Atoi(m[2])
			current.Phrases = append(current.Phrases, fmt.Sprintf("%s at %d ft", meaning, alt*100))
			continue
		}
	}

	flush()
	t.Segments = segments
	return t
}

// tafIssuedTime resolves a DDHHMMZ issuance group against the current year
// and month.
func tafIssuedTime(m []string, now time.Time) string {
	day, _ := strconv.Atoi(m[1])
	hour, _ := strconv.Atoi(m[2])
	minute, _ := strconv.Atoi(m[3])

	issued := time.Date(now.Year(), now.Month(), day, hour, minute, 0, 0, time.UTC)
	if issued.Day() != day {
		// Day did not exist in this month; fall back to the raw group.
		return fmt.Sprintf("%sth at %s:%sZ", m[1], m[2], m[3])
	}
	return issued.Format("2006-01-02 15:04Z")
}

// Render formats the TAF as readable lines in the briefing document layout.
func (t *TAF) Render() string {
	lines := []string{"Decoded TAF Forecast:", "- Station: " + t.Station}
	if t.Issued != "" {
		lines = append(lines, "- Issued: "+t.Issued)
	}
	if t.ValidPeriod != "" {
		lines = append(lines, "- Valid Period: "+t.ValidPeriod)
	}
	lines = append(lines, "- Forecast Segments:")
	for _, seg := range t.Segments {
		if seg.Label != "" {
			lines = append(lines, "  • "+seg.Label)
		}
		for _, phrase := range seg.Phrases {
			lines = append(lines, "  – "+phrase)
		}
	}
	return strings.Join(lines, "\n")
}
