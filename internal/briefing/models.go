package briefing

import (
	"time"

	"github.com/skybrief/skybrief/internal/decode"
	"github.com/skybrief/skybrief/internal/geo"
	"github.com/skybrief/skybrief/internal/weather"
)

// AirportReport is the decoded weather picture for one airport on the route.
type AirportReport struct {
	Code       string                `json:"code"`
	Category   decode.FlightCategory `json:"category"`
	METARText  string                `json:"metar_text"`
	TAFText    string                `json:"taf_text"`
	RawMETAR   string                `json:"raw_metar,omitempty"`
	RawTAF     string                `json:"raw_taf,omitempty"`
	Lat        float64               `json:"lat"`
	Lon        float64               `json:"lon"`
	FetchNotes []string              `json:"fetch_notes,omitempty"`
}

// AdvisoryReport is one decoded SIGMET plus its relationship to the route.
type AdvisoryReport struct {
	Advisory      *decode.Advisory `json:"advisory"`
	Text          string           `json:"text"`
	Polygon       []geo.Point      `json:"polygon,omitempty"`
	AffectsRoute  bool             `json:"affects_route"`
	AffectedCodes []string         `json:"affected_airports,omitempty"`
}

// Briefing is one assembled flight briefing for a departure/destination pair.
type Briefing struct {
	ID           int64                   `json:"id,omitempty"`
	Departure    string                  `json:"departure"`
	Destination  string                  `json:"destination"`
	AltitudeFt   float64                 `json:"altitude_ft"`
	Category     decode.FlightCategory   `json:"category"`
	Airports     []AirportReport         `json:"airports"`
	Advisories   []AdvisoryReport        `json:"advisories"`
	Hazards      []geo.HazardCorrelation `json:"hazards"`
	RouteSamples []weather.RouteSample   `json:"route_samples,omitempty"`
	Legs         []geo.RouteLeg          `json:"legs"`
	Document     string                  `json:"document"`
	Summary      string                  `json:"summary,omitempty"`
	GeneratedAt  time.Time               `json:"generated_at"`
}

// Config is the briefing service configuration.
type Config struct {
	HazardThresholdNM float64 `toml:"hazard_threshold_nm"`
	DefaultAltitudeFt float64 `toml:"default_altitude_ft"`
	LLMEnabled        bool    `toml:"llm_enabled"`
	LLMModel          string  `toml:"llm_model"`
	LLMTemperature    float64 `toml:"llm_temperature"`
	LLMMaxTokens      int     `toml:"llm_max_tokens"`
	SystemPrompt      string  `toml:"system_prompt"`
}

// DefaultConfig returns the default briefing configuration.
func DefaultConfig() Config {
	return Config{
		HazardThresholdNM: 50,
		DefaultAltitudeFt: 10500,
		LLMEnabled:        false,
		LLMModel:          "gemini-2.0-flash",
		LLMTemperature:    0.3,
		LLMMaxTokens:      1024,
		SystemPrompt:      "You are an aviation weather briefer. Summarize the following flight briefing for a general aviation pilot in plain language, leading with the overall flight category and any hazards.",
	}
}
