package weather

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/skybrief/skybrief/pkg/logger"
)

// Client handles HTTP requests to the aviation weather API.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a new weather API client.
func NewClient(config Config, logger *logger.Logger) *Client {
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.RequestTimeoutSeconds) * time.Second,
		},
		logger: logger.Named("weather-client"),
	}
}

// FetchMETAR fetches the latest METAR observation for the specified airport.
func (c *Client) FetchMETAR(airportCode string) (*METARResponse, error) {
	url := fmt.Sprintf("%s/metar?ids=%s&format=json", c.config.APIBaseURL, airportCode)

	var result []METARResponse // API returns an array
	err := c.fetchWithRetry(url, TypeMETAR, airportCode, &result)
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, fmt.Errorf("no METAR data found for %s", airportCode)
	}

	// First entry is the latest observation
	return &result[0], nil
}

// FetchTAF fetches the latest TAF forecast for the specified airport.
func (c *Client) FetchTAF(airportCode string) (*TAFResponse, error) {
	url := fmt.Sprintf("%s/taf?ids=%s&format=json", c.config.APIBaseURL, airportCode)

	var result []TAFResponse
	err := c.fetchWithRetry(url, TypeTAF, airportCode, &result)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no TAF data found for %s", airportCode)
	}
	return &result[0], nil
}

// FetchPIREPs fetches recent pilot reports near the specified airport.
func (c *Client) FetchPIREPs(airportCode string) ([]PIREPResponse, error) {
	url := fmt.Sprintf("%s/pirep?ids=%s&format=json", c.config.APIBaseURL, airportCode)

	var result []PIREPResponse
	err := c.fetchWithRetry(url, TypePIREP, airportCode, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FetchSIGMETs fetches all current SIGMET/AIRMET advisories. Advisories are
// not airport-scoped; containment against a route is decided downstream.
func (c *Client) FetchSIGMETs() ([]AirSigmetResponse, error) {
	url := fmt.Sprintf("%s/airsigmet?format=json", c.config.APIBaseURL)

	var result []AirSigmetResponse
	err := c.fetchWithRetry(url, TypeSIGMET, "", &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FetchAirport fetches station information for the specified airport.
func (c *Client) FetchAirport(airportCode string) (*AirportInfo, error) {
	url := fmt.Sprintf("%s/airport?ids=%s&format=json", c.config.APIBaseURL, airportCode)

	var result []AirportInfo
	err := c.fetchWithRetry(url, "airport", airportCode, &result)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no airport data found for %s", airportCode)
	}
	return &result[0], nil
}

// fetchWithRetry performs an HTTP request with retry logic and exponential backoff.
func (c *Client) fetchWithRetry(url string, weatherType Type, airportCode string, target interface{}) error {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff between retries
			backoffDuration := time.Duration(500*(1<<uint(attempt-1))) * time.Millisecond
			c.logger.Info("Retrying weather data fetch",
				logger.String("type", string(weatherType)),
				logger.String("airport", airportCode),
				logger.Int("attempt", attempt),
				logger.String("backoff", backoffDuration.String()))
			time.Sleep(backoffDuration)
		}

		resp, err := c.httpClient.Get(url)
		if err != nil {
			lastErr = fmt.Errorf("error making request to weather API: %w", err)
			c.logger.Warn("Weather API request failed, may retry",
				logger.String("type", string(weatherType)),
				logger.String("airport", airportCode),
				logger.Error(err),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.config.MaxRetries+1))
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
			c.logger.Warn("Weather API returned non-OK status, may retry",
				logger.String("type", string(weatherType)),
				logger.String("airport", airportCode),
				logger.Int("status_code", resp.StatusCode),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.config.MaxRetries+1))
			continue
		}

		err = json.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("error decoding weather data: %w", err)
			c.logger.Warn("Failed to decode weather data, may retry",
				logger.String("type", string(weatherType)),
				logger.String("airport", airportCode),
				logger.Error(err),
				logger.Int("attempt", attempt+1),
				logger.Int("max_attempts", c.config.MaxRetries+1))
			continue
		}

		if attempt > 0 {
			c.logger.Info("Successfully fetched weather data after retries",
				logger.String("type", string(weatherType)),
				logger.String("airport", airportCode),
				logger.Int("attempts_needed", attempt+1))
		}
		return nil
	}

	c.logger.Error("All attempts to fetch weather data failed",
		logger.String("type", string(weatherType)),
		logger.String("airport", airportCode),
		logger.Error(lastErr),
		logger.Int("max_attempts", c.config.MaxRetries+1))
	return lastErr
}

// FetchAll fetches all enabled weather products for one airport concurrently.
func (c *Client) FetchAll(airportCode string) []FetchResult {
	results := make(chan FetchResult, 3)
	var fetchCount int

	if c.config.FetchMETAR {
		fetchCount++
		go func() {
			data, err := c.FetchMETAR(airportCode)
			results <- FetchResult{Type: TypeMETAR, Data: data, Err: err}
		}()
	}

	if c.config.FetchTAF {
		fetchCount++
		go func() {
			data, err := c.FetchTAF(airportCode)
			results <- FetchResult{Type: TypeTAF, Data: data, Err: err}
		}()
	}

	if c.config.FetchPIREPs {
		fetchCount++
		go func() {
			data, err := c.FetchPIREPs(airportCode)
			results <- FetchResult{Type: TypePIREP, Data: data, Err: err}
		}()
	}

	var fetchResults []FetchResult
	for i := 0; i < fetchCount; i++ {
		fetchResults = append(fetchResults, <-results)
	}

	return fetchResults
}
