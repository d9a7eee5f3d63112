package decode

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	pirepUrgentRegex = regexp.MustCompile(`\bUUA\b`)
	pirepFLRegex     = regexp.MustCompile(`/FL(\d+)`)
	pirepTypeRegex   = regexp.MustCompile(`/TP\s*([A-Z0-9\-]+)`)
	pirepTopsRegex   = regexp.MustCompile(`TOPS\s+(\d+)`)
	pirepBasesRegex  = regexp.MustCompile(`BASES\s+(\d+)`)
	pirepOverRegex   = regexp.MustCompile(`/OV\s+([A-Z0-9]+)`)
	pirepTimeRegex   = regexp.MustCompile(`/TM\s+(\d{4})`)
	pirepTurbRegex   = regexp.MustCompile(`/TB\s+([^/]+)`)
	pirepIceRegex    = regexp.MustCompile(`/IC\s+([^/]+)`)
	pirepWxRegex     = regexp.MustCompile(`/WX\s+([\w\s\-]+)`)
)

// SummarizePIREP condenses raw slash-delimited pilot-report text into one
// semicolon-joined sentence. Each known field code is extracted independently;
// clause order is a fixed priority (urgency, altitude, type, clouds, location,
// time, turbulence, icing, weather), not source order. Unknown codes are
// ignored.
func SummarizePIREP(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "No PIREP information available."
	}

	var summary []string

	if pirepUrgentRegex.MatchString(raw) {
		summary = append(summary, "Urgent PIREP issued: hazardous conditions reported")
	}

	if m := pirepFLRegex.FindStringSubmatch(raw); m != nil {
		fl, _ := strconv.Atoi(m[1])
		summary = append(summary, fmt.Sprintf("Altitude: %d ft", fl*100))
	}

	if m := pirepTypeRegex.FindStringSubmatch(raw); m != nil {
		summary = append(summary, "Aircraft type: "+m[1])
	}

	tops := pirepTopsRegex.FindStringSubmatch(raw)
	bases := pirepBasesRegex.FindStringSubmatch(raw)
	switch {
	case tops != nil && bases != nil:
		summary = append(summary, fmt.Sprintf("Cloud tops at %d ft, bases at %d ft", hundreds(tops[1]), hundreds(bases[1])))
	case tops != nil:
		summary = append(summary, fmt.Sprintf("Cloud tops at %d ft", hundreds(tops[1])))
	case bases != nil:
		summary = append(summary, fmt.Sprintf("Cloud bases at %d ft", hundreds(bases[1])))
	}

	if m := pirepOverRegex.FindStringSubmatch(raw); m != nil {
		summary = append(summary, "Reported over: "+m[1])
	}

	if m := pirepTimeRegex.FindStringSubmatch(raw); m != nil {
		summary = append(summary, "Report time: "+m[1]+" Z")
	}

	if m := pirepTurbRegex.FindStringSubmatch(raw); m != nil {
		summary = append(summary, "Turbulence reported: "+strings.TrimSpace(m[1]))
	}

	if m := pirepIceRegex.FindStringSubmatch(raw); m != nil {
		summary = append(summary, "Icing reported: "+strings.TrimSpace(m[1]))
	}

	if m := pirepWxRegex.FindStringSubmatch(raw); m != nil {
		summary = append(summary, "Weather: "+strings.TrimSpace(m[1]))
	}

	if len(summary) == 0 {
		return "Unable to summarize PIREP."
	}
	return strings.Join(summary, "; ")
}

func hundreds(digits string) int {
	v, _ := strconv.Atoi(digits)
	return v * 100
}
