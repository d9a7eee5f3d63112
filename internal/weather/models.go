package weather

import (
	"fmt"
	"sync"
	"time"
)

// METARResponse is one observation record from the aviationweather.gov
// /metar endpoint.
type METARResponse struct {
	ICAOID     string  `json:"icaoId"`
	RawOb      string  `json:"rawOb"`
	ReportTime string  `json:"reportTime,omitempty"`
	Temp       float64 `json:"temp,omitempty"`
	Dewp       float64 `json:"dewp,omitempty"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Name       string  `json:"name,omitempty"`
}

// TAFResponse is one forecast record from the /taf endpoint.
type TAFResponse struct {
	ICAOID    string  `json:"icaoId"`
	RawTAF    string  `json:"rawTAF"`
	IssueTime string  `json:"issueTime,omitempty"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// PIREPResponse is one pilot report record from the /pirep endpoint.
type PIREPResponse struct {
	RawOb   string  `json:"rawOb"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	ObsTime int64   `json:"obsTime,omitempty"`
	AcType  string  `json:"acType,omitempty"`
}

// SigmetCoord is one vertex of an advisory polygon.
type SigmetCoord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// AirSigmetResponse is one advisory record from the /airsigmet endpoint.
type AirSigmetResponse struct {
	RawText    string        `json:"rawAirSigmet"`
	Hazard     string        `json:"hazard,omitempty"`
	Severity   int           `json:"severity,omitempty"`
	AltitudeHi int           `json:"altitudeHi1,omitempty"`
	AltitudeLo int           `json:"altitudeLow1,omitempty"`
	Coords     []SigmetCoord `json:"coords,omitempty"`
}

// AirportInfo is one station record from the /airport endpoint.
type AirportInfo struct {
	ICAOID string  `json:"icaoId"`
	Name   string  `json:"name,omitempty"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Elev   float64 `json:"elev,omitempty"`
}

// Data is the complete fetched weather picture for one airport.
type Data struct {
	METAR       *METARResponse  `json:"metar,omitempty"`
	TAF         *TAFResponse    `json:"taf,omitempty"`
	PIREPs      []PIREPResponse `json:"pireps,omitempty"`
	LastUpdated time.Time       `json:"last_updated"`
	FetchErrors []string        `json:"fetch_errors,omitempty"`
}

// Config is the weather service configuration.
type Config struct {
	RefreshIntervalMinutes int     `toml:"refresh_interval_minutes"`
	APIBaseURL             string  `toml:"api_base_url"`
	OpenMeteoBaseURL       string  `toml:"open_meteo_base_url"`
	RequestTimeoutSeconds  int     `toml:"request_timeout_seconds"`
	MaxRetries             int     `toml:"max_retries"`
	FetchMETAR             bool    `toml:"fetch_metar"`
	FetchTAF               bool    `toml:"fetch_taf"`
	FetchPIREPs            bool    `toml:"fetch_pireps"`
	FetchSIGMETs           bool    `toml:"fetch_sigmets"`
	CacheExpiryMinutes     int     `toml:"cache_expiry_minutes"`
	RouteSampleIntervalNM  float64 `toml:"route_sample_interval_nm"`
	RouteSampleThrottleMS  int     `toml:"route_sample_throttle_ms"`
}

// Type tags one kind of fetched weather product.
type Type string

const (
	TypeMETAR  Type = "metar"
	TypeTAF    Type = "taf"
	TypePIREP  Type = "pirep"
	TypeSIGMET Type = "sigmet"
)

// FetchResult is the outcome of fetching one weather product.
type FetchResult struct {
	Type Type
	Data any
	Err  error
}

// dataCache holds one airport's weather data with an expiry time.
type dataCache struct {
	Data      *Data
	ExpiresAt time.Time
	mu        sync.RWMutex
}

func (dc *dataCache) IsExpired() bool {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return time.Now().After(dc.ExpiresAt)
}

func (dc *dataCache) Get() *Data {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return dc.Data
}

func (dc *dataCache) Set(data *Data, expiryDuration time.Duration) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.Data = data
	dc.ExpiresAt = time.Now().Add(expiryDuration)
}

// DefaultConfig returns the default weather configuration.
func DefaultConfig() Config {
	return Config{
		RefreshIntervalMinutes: 10,
		APIBaseURL:             "https://aviationweather.gov/api/data",
		OpenMeteoBaseURL:       "https://api.open-meteo.com/v1/forecast",
		RequestTimeoutSeconds:  10,
		MaxRetries:             2,
		FetchMETAR:             true,
		FetchTAF:               true,
		FetchPIREPs:            true,
		FetchSIGMETs:           true,
		CacheExpiryMinutes:     15,
		RouteSampleIntervalNM:  50,
		RouteSampleThrottleMS:  500,
	}
}

// ValidateConfig validates the weather service configuration.
func ValidateConfig(config Config) error {
	if config.RefreshIntervalMinutes <= 0 {
		return fmt.Errorf("refresh_interval_minutes must be greater than 0")
	}
	if config.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be greater than 0")
	}
	if config.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be 0 or greater")
	}
	if config.CacheExpiryMinutes <= 0 {
		return fmt.Errorf("cache_expiry_minutes must be greater than 0")
	}
	if config.APIBaseURL == "" {
		return fmt.Errorf("api_base_url cannot be empty")
	}
	if config.RouteSampleIntervalNM <= 0 {
		return fmt.Errorf("route_sample_interval_nm must be greater than 0")
	}
	if !config.FetchMETAR && !config.FetchTAF && !config.FetchPIREPs && !config.FetchSIGMETs {
		return fmt.Errorf("at least one weather product must be enabled (fetch_metar, fetch_taf, fetch_pireps, or fetch_sigmets)")
	}
	return nil
}
