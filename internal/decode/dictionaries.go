package decode

// Static code dictionaries used by the decoders. Loaded once at process start,
// never mutated.

// sigmetAbbreviations maps SIGMET shorthand to plain language.
var sigmetAbbreviations = map[string]string{
	"ABV":   "above",
	"CNL":   "cancelled",
	"CTA":   "control area",
	"FCST":  "forecast",
	"FIR":   "Flight Information Region",
	"FL":    "flight level",
	"FT":    "feet",
	"INTSF": "intensifying",
	"KT":    "knots",
	"KMH":   "kilometres per hour",
	"M":     "meters",
	"MOV":   "moving",
	"NC":    "no change",
	"NM":    "nautical miles",
	"OBS":   "observed",
	"SFC":   "surface",
	"STNR":  "stationary",
	"TOP":   "top of cloud",
	"WI":    "within",
	"WKN":   "weakening",
	"Z":     "UTC",
}

// sigmetHazards maps SIGMET hazard groups to readable phrases.
var sigmetHazards = map[string]string{
	"AREA TS":        "Area-wide thunderstorms",
	"LINE TS":        "Thunderstorm line",
	"EMBD TS":        "Embedded thunderstorms",
	"TDO":            "Tornado",
	"FC":             "Funnel Cloud",
	"WTSPT":          "Waterspout",
	"HVY GR":         "Heavy hail",
	"OBSC TS":        "Obscured thunderstorms",
	"EMBD TSGR":      "Embedded thunderstorms with hail",
	"FRQ TS":         "Frequent thunderstorms",
	"SQL TS":         "Squall line thunderstorms",
	"FRQ TSGR":       "Frequent thunderstorms with hail",
	"SQL TSGR":       "Squall line thunderstorms with hail",
	"SEV TURB":       "Severe turbulence",
	"SEV ICE":        "Severe icing",
	"SEV ICE (FZRA)": "Severe icing due to freezing rain",
	"SEV MTW":        "Severe mountain wave",
	"HVY DS":         "Heavy duststorm",
	"HVY SS":         "Heavy sandstorm",
	"RDOACT CLD":     "Radioactive cloud",
}

// tafCodes maps TAF group codes to readable phrases.
var tafCodes = map[string]string{
	"SKC":    "Sky clear",
	"NSC":    "No significant clouds",
	"FEW":    "Few clouds (1/8 - 2/8)",
	"SCT":    "Scattered clouds (3/8 - 4/8)",
	"BKN":    "Broken clouds (5/8 - 7/8)",
	"OVC":    "Overcast (8/8)",
	"SN":     "Snow",
	"RA":     "Rain",
	"BR":     "Mist",
	"FG":     "Fog",
	"HZ":     "Haze",
	"-":      "Light",
	"+":      "Heavy",
	"VC":     "In the vicinity",
	"SH":     "Showers",
	"TS":     "Thunderstorms",
	"DZ":     "Drizzle",
	"FM":     "From",
	"TEMPO":  "Temporary",
	"PROB30": "30% probability",
	"PROB40": "40% probability",
	"P6SM":   "Visibility greater than 6 statute miles",
	"VV///":  "Vertical visibility unknown",
}

// metarWeather maps METAR present-weather groups to readable phrases.
var metarWeather = map[string]string{
	"-SN": "Light snow",
	"SN":  "Moderate snow",
	"+SN": "Heavy snow",
	"RA":  "Rain",
	"-RA": "Light rain",
	"+RA": "Heavy rain",
	"BR":  "Mist",
	"FG":  "Fog",
	"HZ":  "Haze",
}

// skyCover maps METAR/TAF sky-cover codes to readable phrases.
var skyCover = map[string]string{
	"FEW": "Few clouds",
	"SCT": "Scattered clouds",
	"BKN": "Broken clouds",
	"OVC": "Overcast",
}

// OpenMeteoCodes maps Open-Meteo numeric weather codes to descriptions.
var OpenMeteoCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snowfall",
	73: "Moderate snowfall",
	75: "Heavy snowfall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm: Slight or moderate",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// SevereOpenMeteoCodes is the set of Open-Meteo codes treated as severe for
// route hazard sampling.
var SevereOpenMeteoCodes = map[int]struct{}{
	3: {}, 45: {}, 48: {}, 51: {}, 53: {}, 55: {}, 56: {}, 57: {},
	61: {}, 63: {}, 65: {}, 66: {}, 67: {}, 71: {}, 73: {}, 75: {},
	77: {}, 80: {}, 81: {}, 82: {}, 85: {}, 86: {}, 95: {}, 96: {}, 99: {},
}

// OpenMeteoDescription returns the readable description for a numeric
// Open-Meteo weather code.
func OpenMeteoDescription(code int) string {
	if desc, ok := OpenMeteoCodes[code]; ok {
		return desc
	}
	return "Unknown weather code"
}

// IsSevereOpenMeteoCode reports whether the given code is in the severe set.
func IsSevereOpenMeteoCode(code int) bool {
	_, ok := SevereOpenMeteoCodes[code]
	return ok
}
