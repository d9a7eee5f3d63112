package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the main application configuration structure
// containing all configuration sections
type Config struct {
	Server   ServerConfig   `toml:"server"`   // HTTP server settings
	Logging  LoggingConfig  `toml:"logging"`  // Application logging settings
	Storage  StorageConfig  `toml:"storage"`  // Data persistence settings
	Weather  WeatherConfig  `toml:"wx"`       // Weather data fetching and caching settings
	Briefing BriefingConfig `toml:"briefing"` // Briefing assembly settings
	Gemini   GeminiConfig   `toml:"gemini"`   // Gemini summarization settings
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port               int      `toml:"port"`                  // Primary HTTP port for the server
	Host               string   `toml:"host"`                  // Host address to bind to (e.g., 127.0.0.1 for localhost only, 0.0.0.0 for all interfaces)
	CORSAllowedOrigins []string `toml:"cors_allowed_origins"`  // List of origins allowed for CORS requests (use ["*"] for all origins)
	ReadTimeoutSecs    int      `toml:"read_timeout_seconds"`  // Maximum duration for reading the entire request (0 = no timeout)
	WriteTimeoutSecs   int      `toml:"write_timeout_seconds"` // Maximum duration for writing the response (0 = no timeout)
	IdleTimeoutSecs    int      `toml:"idle_timeout_seconds"`  // Maximum duration to wait for the next request when keep-alives are enabled
	AdditionalPorts    []int    `toml:"additional_ports"`      // Additional HTTP ports to listen on (useful for multiple interfaces)
	StaticFilesDir     string   `toml:"static_files_dir"`      // Directory to serve static files from (e.g., "www")
}

// LoggingConfig contains application logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`  // Log level: "debug", "info", "warn", or "error"
	Format string `toml:"format"` // Log format: "json" (structured) or "console" (human-readable)
}

// StorageConfig contains data persistence configuration
type StorageConfig struct {
	Type           string `toml:"type"`             // Storage backend type (currently only "sqlite" is supported)
	SQLiteBasePath string `toml:"sqlite_base_path"` // Base path for SQLite database files (actual filename will be generated as skybrief-YYYY-MM-DD.db)
}

// WeatherConfig contains weather data source configuration
type WeatherConfig struct {
	RefreshIntervalMinutes int      `toml:"refresh_interval_minutes"` // How often to refresh cached weather data
	APIBaseURL             string   `toml:"api_base_url"`             // Base URL for the aviation weather API
	RequestTimeoutSeconds  int      `toml:"request_timeout_seconds"`  // HTTP timeout for weather API requests
	MaxRetries             int      `toml:"max_retries"`              // Maximum retry attempts for failed fetches
	FetchMETAR             bool     `toml:"fetch_metar"`              // Fetch METARs for the configured airports
	FetchTAF               bool     `toml:"fetch_taf"`                // Fetch TAFs for the configured airports
	FetchPIREPs            bool     `toml:"fetch_pireps"`             // Fetch PIREPs near the configured airports
	FetchSIGMETs           bool     `toml:"fetch_sigmets"`            // Fetch convective SIGMETs
	Airports               []string `toml:"airports"`                 // ICAO codes to keep warm in the cache
	CacheExpiryMinutes     int      `toml:"cache_expiry_minutes"`     // Minutes before cached data is considered stale
	OpenMeteoBaseURL       string   `toml:"open_meteo_base_url"`      // Base URL for the Open-Meteo point forecast API
	RouteSampleIntervalNM  float64  `toml:"route_sample_interval_nm"` // Spacing of route sample points in nautical miles
	RouteSampleThrottleMS  int      `toml:"route_sample_throttle_ms"` // Delay between Open-Meteo requests in milliseconds
}

// BriefingConfig contains briefing assembly configuration
type BriefingConfig struct {
	HazardThresholdNM float64 `toml:"hazard_threshold_nm"` // Max distance from route for a PIREP to count as a hazard
	DefaultAltitudeFt float64 `toml:"default_altitude_ft"` // Planned altitude used when the request omits one
	LLMEnabled        bool    `toml:"llm_enabled"`         // Enable plain-language summarization of briefings
	LLMModel          string  `toml:"llm_model"`           // Model name for summarization (e.g., "gemini-2.0-flash")
	LLMTemperature    float64 `toml:"llm_temperature"`     // Sampling temperature for summarization
	LLMMaxTokens      int     `toml:"llm_max_tokens"`      // Maximum output tokens for the summary
	SystemPromptPath  string  `toml:"system_prompt_path"`  // Optional path to a file overriding the built-in system prompt
}

// GeminiConfig contains Gemini API settings
type GeminiConfig struct {
	APIKey string `toml:"api_key"` // Gemini API key (empty disables summarization)
}

// Load loads the configuration from the specified file path
func Load(path string) (*Config, error) {
	var config Config

	// Check if the file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	// Read the config file
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &config, nil
}

// LoadWithFallback loads the configuration by checking multiple locations in order of preference
func LoadWithFallback(preferredPath string) (*Config, error) {
	// List of paths to check in order of preference
	searchPaths := []string{
		preferredPath,         // User-specified path (if provided)
		"configs/config.toml", // configs/ folder
		"config.toml",         // Root directory
	}

	// Remove duplicates while preserving order
	uniquePaths := make([]string, 0, len(searchPaths))
	seen := make(map[string]bool)
	for _, path := range searchPaths {
		if path != "" && !seen[path] {
			uniquePaths = append(uniquePaths, path)
			seen[path] = true
		}
	}

	var lastErr error
	for _, path := range uniquePaths {
		if _, err := os.Stat(path); err == nil {
			// File exists, try to load it
			config, err := Load(path)
			if err != nil {
				lastErr = fmt.Errorf("failed to load config from %s: %w", path, err)
				continue
			}
			return config, nil
		}
		lastErr = fmt.Errorf("config file not found: %s", path)
	}

	return nil, fmt.Errorf("config file not found in any of the expected locations: %v. Last error: %w", uniquePaths, lastErr)
}

// Validate validates the configuration and fills in defaults for optional fields
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	// Validate AdditionalPorts
	portsSeen := make(map[int]bool)
	portsSeen[c.Server.Port] = true
	for _, p := range c.Server.AdditionalPorts {
		if p <= 0 || p > 65535 {
			return fmt.Errorf("invalid additional server port: %d", p)
		}
		if portsSeen[p] {
			return fmt.Errorf("duplicate port configured: %d (primary or additional)", p)
		}
		portsSeen[p] = true
	}

	// Validate logging config
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		// Valid log level
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	switch c.Logging.Format {
	case "json", "console":
		// Valid log format
	default:
		return fmt.Errorf("invalid log format: %s", c.Logging.Format)
	}

	// Validate storage config
	if c.Storage.Type != "sqlite" {
		return fmt.Errorf("invalid storage type: %s (only 'sqlite' is supported)", c.Storage.Type)
	}
	if c.Storage.SQLiteBasePath == "" {
		return fmt.Errorf("sqlite_base_path is required when storage type is sqlite")
	}

	// Validate weather config
	if c.Weather.RefreshIntervalMinutes <= 0 {
		return fmt.Errorf("invalid weather refresh interval: %d", c.Weather.RefreshIntervalMinutes)
	}
	if c.Weather.APIBaseURL == "" {
		return fmt.Errorf("weather api_base_url is required")
	}
	if c.Weather.RequestTimeoutSeconds <= 0 {
		c.Weather.RequestTimeoutSeconds = 30
	}
	if c.Weather.MaxRetries < 0 {
		return fmt.Errorf("invalid weather max_retries: %d", c.Weather.MaxRetries)
	}
	if len(c.Weather.Airports) == 0 {
		return fmt.Errorf("at least one airport code is required in wx.airports")
	}
	for i, code := range c.Weather.Airports {
		code = strings.ToUpper(strings.TrimSpace(code))
		if len(code) != 4 {
			return fmt.Errorf("invalid airport code in wx.airports: %q", c.Weather.Airports[i])
		}
		c.Weather.Airports[i] = code
	}
	if c.Weather.RouteSampleIntervalNM <= 0 {
		c.Weather.RouteSampleIntervalNM = 50
	}
	if c.Weather.RouteSampleThrottleMS < 0 {
		return fmt.Errorf("invalid route_sample_throttle_ms: %d", c.Weather.RouteSampleThrottleMS)
	}

	// Validate briefing config
	if c.Briefing.HazardThresholdNM <= 0 {
		c.Briefing.HazardThresholdNM = 50
	}
	if c.Briefing.DefaultAltitudeFt <= 0 {
		c.Briefing.DefaultAltitudeFt = 10500
	}
	if c.Briefing.LLMEnabled {
		if c.Briefing.LLMModel == "" {
			return fmt.Errorf("llm_model is required when llm_enabled is true")
		}
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini api_key is required when llm_enabled is true")
		}
	}

	return nil
}
