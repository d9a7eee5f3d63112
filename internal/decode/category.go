package decode

import (
	"strconv"
	"strings"
)

// FlightCategory is a categorical flight-rule severity derived from ceiling
// and visibility.
type FlightCategory string

const (
	CategoryVFR     FlightCategory = "VFR"
	CategoryMFR     FlightCategory = "MFR"
	CategoryIFR     FlightCategory = "IFR"
	CategoryLIFR    FlightCategory = "LIFR"
	CategoryUnknown FlightCategory = "UNKNOWN"
)

// categoryRanks orders categories from best to worst conditions.
var categoryRanks = map[FlightCategory]int{
	CategoryVFR:     1,
	CategoryMFR:     2,
	CategoryIFR:     3,
	CategoryLIFR:    4,
	CategoryUnknown: 5,
}

// Rank returns the severity rank of the category (VFR=1 ... UNKNOWN=5).
func (c FlightCategory) Rank() int {
	if r, ok := categoryRanks[c]; ok {
		return r
	}
	return categoryRanks[CategoryUnknown]
}

// WorstCategory returns the highest-severity category among the given ones,
// or UNKNOWN when the list is empty.
func WorstCategory(categories ...FlightCategory) FlightCategory {
	if len(categories) == 0 {
		return CategoryUnknown
	}
	worst := categories[0]
	for _, c := range categories[1:] {
		if c.Rank() > worst.Rank() {
			worst = c
		}
	}
	return worst
}

// Classify derives a flight category from an optional ceiling (feet) and an
// optional visibility (statute miles). Nil means the value could not be
// determined; both nil yields UNKNOWN.
func Classify(ceilingFt *float64, visibilitySM *float64) FlightCategory {
	if ceilingFt == nil && visibilitySM == nil {
		return CategoryUnknown
	}

	ceiling := 1e9
	if ceilingFt != nil {
		ceiling = *ceilingFt
	}
	visibility := 1e9
	if visibilitySM != nil {
		visibility = *visibilitySM
	}

	switch {
	case ceiling < 500 || visibility < 1:
		return CategoryLIFR
	case ceiling < 1000 || visibility < 3:
		return CategoryIFR
	case ceiling <= 3000 || visibility <= 5:
		return CategoryMFR
	default:
		return CategoryVFR
	}
}

var ceilingPrefixes = []string{"SKC", "CLR", "NSC", "NCD", "FEW", "SCT", "BKN", "OVC"}

// ExtractConditions performs a read-only pass over a raw METAR and extracts
// the worst visibility (statute miles) and the lowest ceiling (feet). Only
// BKN and OVC layers constitute a ceiling. Either value may be nil when no
// matching group was found.
func ExtractConditions(rawMETAR string) (ceilingFt *float64, visibilitySM *float64) {
	parts := strings.Fields(strings.TrimSpace(rawMETAR))

	for i, part := range parts {
		if strings.HasSuffix(part, "SM") {
			if v, ok := parseVisibility(parts, i); ok {
				if visibilitySM == nil || v < *visibilitySM {
					vv := v
					visibilitySM = &vv
				}
			}
		}

		for _, prefix := range ceilingPrefixes {
			if strings.HasPrefix(part, prefix) && len(part) > len(prefix) {
				heightStr := part[len(prefix):]
				if h, err := strconv.Atoi(heightStr); err == nil {
					if prefix == "BKN" || prefix == "OVC" {
						height := float64(h * 100)
						if ceilingFt == nil || height < *ceilingFt {
							ceilingFt = &height
						}
					}
				}
			}
		}
	}

	return ceilingFt, visibilitySM
}

// parseVisibility parses the visibility group ending at parts[i], handling
// whole numbers, fractions, and the split whole-plus-fraction form
// ("1 1/2SM"). P and M prefixes are stripped.
func parseVisibility(parts []string, i int) (float64, bool) {
	visStr := strings.TrimSuffix(parts[i], "SM")
	visStr = strings.TrimPrefix(visStr, "P")
	visStr = strings.TrimPrefix(visStr, "M")

	v, ok := parseMiles(visStr)
	if !ok {
		return 0, false
	}

	// Split form: a bare whole number immediately before a fraction token.
	if strings.Contains(visStr, "/") && i > 0 {
		if whole, err := strconv.ParseFloat(parts[i-1], 64); err == nil {
			v += whole
		}
	}

	return v, true
}

func parseMiles(s string) (float64, bool) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}
	if num, denom, found := strings.Cut(s, "/"); found {
		n, err1 := strconv.ParseFloat(num, 64)
		d, err2 := strconv.ParseFloat(denom, 64)
		if err1 == nil && err2 == nil && d != 0 {
			return n / d, true
		}
	}
	return 0, false
}

// ClassifyMETAR extracts conditions from a raw METAR and classifies them.
func ClassifyMETAR(rawMETAR string) FlightCategory {
	ceiling, visibility := ExtractConditions(rawMETAR)
	return Classify(ceiling, visibility)
}
