package decode

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	sigmetIDRegex       = regexp.MustCompile(`CONVECTIVE SIGMET (\d+[A-Z])`)
	sigmetValidRegex    = regexp.MustCompile(`VALID UNTIL (\d{4})Z`)
	sigmetMovRegex      = regexp.MustCompile(`MOV FROM (\d{3})(\d{2})KT`)
	sigmetTopsRegex     = regexp.MustCompile(`TOPS TO FL(\d+)`)
	sigmetAreaRegex     = regexp.MustCompile(`(?s)FROM (.+?)DMSHG`)
	sigmetOutlookRegex  = regexp.MustCompile(`OUTLOOK VALID (\d{6})-(\d{6})`)
	sigmetOutAreaRegex  = regexp.MustCompile(`(?s)OUTLOOK VALID.*?FROM (.+?)WST`)
	sigmetClosingLine   = "Additional SIGMETs may be issued. Refer to SPC for updates."
	sigmetHazardsByLen  []string
)

func init() {
	for code := range sigmetHazards {
		sigmetHazardsByLen = append(sigmetHazardsByLen, code)
	}
	// Longest code first so compound hazards win over their prefixes.
	sort.Slice(sigmetHazardsByLen, func(i, j int) bool {
		if len(sigmetHazardsByLen[i]) != len(sigmetHazardsByLen[j]) {
			return len(sigmetHazardsByLen[i]) > len(sigmetHazardsByLen[j])
		}
		return sigmetHazardsByLen[i] < sigmetHazardsByLen[j]
	})
}

// Advisory is a decoded SIGMET bulletin. Constructed once per fetched
// bulletin and immutable thereafter.
type Advisory struct {
	Raw           string   `json:"raw"`
	ID            string   `json:"id,omitempty"`
	ValidUntil    string   `json:"valid_until,omitempty"`
	Hazard        string   `json:"hazard,omitempty"`
	Movement      string   `json:"movement,omitempty"`
	CloudTops     string   `json:"cloud_tops,omitempty"`
	AreaPoints    []string `json:"area_points,omitempty"`
	OutlookPeriod string   `json:"outlook_period,omitempty"`
	OutlookPoints []string `json:"outlook_points,omitempty"`
}

// DecodeSIGMET decodes raw SIGMET bulletin text. Bulletins are free text, so
// each field is extracted by an independent pattern search; a missing field
// simply omits its narrative line.
func DecodeSIGMET(text string) *Advisory {
	a := &Advisory{Raw: text}

	if m := sigmetIDRegex.FindStringSubmatch(text); m != nil {
		a.ID = m[1]
	}
	if m := sigmetValidRegex.FindStringSubmatch(text); m != nil {
		a.ValidUntil = m[1] + " UTC"
	}
	if m := sigmetAreaRegex.FindStringSubmatch(text); m != nil {
		a.AreaPoints = splitPolygonPoints(m[1])
	}
	a.Hazard = findHazard(text)
	// Direction and speed render verbatim, zero padding included.
	if m := sigmetMovRegex.FindStringSubmatch(text); m != nil {
		a.Movement = fmt.Sprintf("From %s° at %s knots", m[1], m[2])
	}
	if m := sigmetTopsRegex.FindStringSubmatch(text); m != nil {
		fl, _ := strconv.Atoi(m[1])
		a.CloudTops = fmt.Sprintf("Up to FL%s (approx. %d ft)", m[1], fl*100)
	}
	if m := sigmetOutlookRegex.FindStringSubmatch(text); m != nil {
		a.OutlookPeriod = fmt.Sprintf("%s UTC to %s UTC", m[1], m[2])
	}
	if m := sigmetOutAreaRegex.FindStringSubmatch(text); m != nil {
		a.OutlookPoints = splitPolygonPoints(m[1])
	}

	return a
}

// findHazard matches the bulletin against the hazard phrase dictionary,
// longest code first. A DMSHG prefix marks the hazard as diminishing.
func findHazard(text string) string {
	for _, code := range sigmetHazardsByLen {
		if strings.Contains(text, "DMSHG "+code) {
			return sigmetHazards[code] + " (diminishing)"
		}
		if strings.Contains(text, code) {
			return sigmetHazards[code]
		}
	}
	return ""
}

func splitPolygonPoints(area string) []string {
	area = strings.ReplaceAll(strings.TrimSpace(area), "\n", " ")
	var points []string
	for _, p := range strings.Split(area, "-") {
		p = strings.TrimSpace(p)
		if p != "" {
			points = append(points, p)
		}
	}
	return points
}

// Render formats the advisory as narrative lines. Present fields contribute
// independent lines; the closing boilerplate is always appended.
func (a *Advisory) Render() string {
	var lines []string

	if a.ID != "" {
		lines = append(lines, fmt.Sprintf("SIGMET ID: %s (Convective)", a.ID))
	}
	if a.ValidUntil != "" {
		lines = append(lines, "Valid Until: "+a.ValidUntil)
	}
	if len(a.AreaPoints) > 0 {
		lines = append(lines, "", "Affected Area (polygon points):")
		for _, p := range a.AreaPoints {
			lines = append(lines, " - "+p)
		}
	}
	if a.Hazard != "" {
		lines = append(lines, "", "Weather: "+a.Hazard)
	}
	if a.Movement != "" {
		lines = append(lines, "Movement: "+a.Movement)
	}
	if a.CloudTops != "" {
		lines = append(lines, "Cloud Tops: "+a.CloudTops)
	}
	if a.OutlookPeriod != "" && len(a.OutlookPoints) > 0 {
		lines = append(lines, "", "Outlook Forecast Time: "+a.OutlookPeriod, "Forecast Area:")
		for _, p := range a.OutlookPoints {
			lines = append(lines, " - "+p)
		}
	}

	lines = append(lines, "", sigmetClosingLine)
	return strings.Join(lines, "\n")
}
