package decode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	metarTimeRegex = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})Z$`)
	metarWxRegex   = regexp.MustCompile(`^[-+A-Z]{2,}$`)
	metarWindRegex = regexp.MustCompile(`^(\d{3}|VRB)(\d{2,3})(G\d{2,3})?KT$`)
	metarSkyRegex  = regexp.MustCompile(`^(FEW|SCT|BKN|OVC)(\d{3})$`)
	metarTempRegex = regexp.MustCompile(`^(M?)(\d{2,3})/(M?)(\d{2,3})$`)
	metarAltRegex  = regexp.MustCompile(`^A(\d{4})$`)
	metarQnhRegex  = regexp.MustCompile(`^Q(\d{4})$`)
	slpRegex       = regexp.MustCompile(`^SLP(\d{3})$`)
	tGroupRegex    = regexp.MustCompile(`^T([01])(\d{3})([01])(\d{3})$`)
)

// DecodeMETAR decodes a raw METAR token string into an ordered Report.
//
// Groups are recognized positionally in the standard ICAO order: report type,
// station, time, wind, visibility, present weather, sky condition,
// temperature/dewpoint, altimeter, then RMK sub-groups. A missing group shifts
// classification of later tokens; the cursor advances past the wind and time
// slots whether or not they match, which preserves the output of existing
// consumers on well-formed reports.
func DecodeMETAR(raw string) *Report {
	r := &Report{Raw: raw}
	parts := strings.Fields(raw)
	if len(parts) < 2 {
		return r
	}

	i := 0
	if parts[i] == "METAR" || parts[i] == "SPECI" {
		if parts[i] == "METAR" {
			r.Add("Type", "Routine METAR report")
		} else {
			r.Add("Type", "Special METAR report")
		}
		i++
	} else {
		r.Add("Type", "METAR")
	}

	if i >= len(parts) {
		return r
	}
	r.Add("Station", parts[i])
	i++

	// Observation time: DDHHMMZ. The slot is consumed even on mismatch.
	if i < len(parts) {
		if m := metarTimeRegex.FindStringSubmatch(parts[i]); m != nil {
			r.Add("Time", fmt.Sprintf("%sth at %s:%s UTC", m[1], m[2], m[3]))
		}
		i++
	}

	// Wind: dddssKT, dddssGssKT, VRB variants. Slot consumed even on mismatch.
	if i < len(parts) {
		if m := metarWindRegex.FindStringSubmatch(parts[i]); m != nil {
			r.Add("Wind", renderWind(m[1], m[2], m[3]))
		}
		i++
	}

	// Visibility in statute miles.
	if i < len(parts) && strings.HasSuffix(parts[i], "SM") {
		r.Add("Visibility", strings.TrimSuffix(parts[i], "SM")+" statute miles")
		i++
	}

	// Present weather. Any letters-only token is consumed here, falling back
	// to the raw code when the phrase dictionary has no entry, so codes like
	// CLR or TSRA cannot stall the cursor and swallow the groups after them.
	// Sky layers carry digits and are left for the layer loop below.
	if i < len(parts) && metarWxRegex.MatchString(parts[i]) {
		if phrase, ok := metarWeather[parts[i]]; ok {
			r.Add("Weather", phrase)
		} else {
			r.Add("Weather", parts[i])
		}
		i++
	}

	// Sky condition layers: CCChhh, repeated.
	var layers []string
	for i < len(parts) {
		m := metarSkyRegex.FindStringSubmatch(parts[i])
		if m == nil {
			break
		}
		alt, _ := strconv.Atoi(m[2])
		cover := skyCover[m[1]]
		layers = append(layers, fmt.Sprintf("%s at %d feet", cover, alt*100))
		i++
	}
	if len(layers) > 0 {
		r.Add("Sky", strings.Join(layers, "; "))
	}

	// Temperature/dewpoint: TT/DD with M prefix meaning negative.
	if i < len(parts) {
		if m := metarTempRegex.FindStringSubmatch(parts[i]); m != nil {
			r.Add("Temperature", renderCelsius(m[1], m[2]))
			r.Add("Dewpoint", renderCelsius(m[3], m[4]))
			i++
		}
	}

	// Altimeter: Ahhhh in inHg or Qnnnn in hPa.
	if i < len(parts) {
		if m := metarAltRegex.FindStringSubmatch(parts[i]); m != nil {
			r.Add("Altimeter", fmt.Sprintf("%s.%s inHg", m[1][:2], m[1][2:]))
			i++
		} else if m := metarQnhRegex.FindStringSubmatch(parts[i]); m != nil {
			r.Add("Altimeter", fmt.Sprintf("%s hPa", strings.TrimLeft(m[1], "0")))
			i++
		}
	}

	// Remarks: SLPppp and TsnnnSnnn sub-groups after the RMK marker.
	decodeRemarks(r, parts)

	return r
}

// RenderMETAR decodes the raw text and renders it as readable lines.
func RenderMETAR(raw string) string {
	return DecodeMETAR(raw).Render("\nDecoded METAR Report:\n")
}

func renderWind(dir, speed, gust string) string {
	dirText := dir + "°"
	if dir == "VRB" {
		dirText = "Variable"
	}
	spd, _ := strconv.Atoi(speed)
	desc := fmt.Sprintf("%s at %d knots", dirText, spd)
	if gust != "" {
		g, _ := strconv.Atoi(gust[1:])
		desc += fmt.Sprintf(" with gusts to %d knots", g)
	}
	return desc
}

func renderCelsius(sign, digits string) string {
	v, _ := strconv.Atoi(digits)
	if sign == "M" {
		v = -v
	}
	return fmt.Sprintf("%d°C", v)
}

func decodeRemarks(r *Report, parts []string) {
	rmkIndex := -1
	for i, part := range parts {
		if part == "RMK" {
			rmkIndex = i
			break
		}
	}
	if rmkIndex == -1 {
		return
	}

	for _, part := range parts[rmkIndex+1:] {
		if m := slpRegex.FindStringSubmatch(part); m != nil {
			r.Add("Sea Level Pressure", fmt.Sprintf("%s hPa", m[1]))
			continue
		}
		if m := tGroupRegex.FindStringSubmatch(part); m != nil {
			r.Add("Exact Temperature", renderTenths(m[1], m[2]))
			r.Add("Exact Dewpoint", renderTenths(m[3], m[4]))
		}
	}
}

// renderTenths decodes one half of a remarks T-group: a sign digit (1 means
// negative) followed by the value in tenths of a degree.
func renderTenths(sign, digits string) string {
	v, _ := strconv.Atoi(digits)
	val := float64(v) / 10.0
	if sign == "1" {
		val = -val
	}
	return fmt.Sprintf("%.1f°C", val)
}
