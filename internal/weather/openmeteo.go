package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/skybrief/skybrief/internal/decode"
	"github.com/skybrief/skybrief/internal/geo"
	"github.com/skybrief/skybrief/pkg/logger"
)

// RouteSample is the current-weather observation at one interpolated route
// point. Only severe samples are kept; a failed point records its error
// instead so one bad sample never aborts the sweep.
type RouteSample struct {
	PointIndex  int     `json:"point_index"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Code        int     `json:"code,omitempty"`
	Description string  `json:"description,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	Windspeed   float64 `json:"windspeed,omitempty"`
	IsSevere    bool    `json:"is_severe,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// openMeteoResponse is the relevant slice of the Open-Meteo forecast payload.
type openMeteoResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		Windspeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

// OpenMeteoClient samples current weather along a route from the Open-Meteo
// point-forecast API.
type OpenMeteoClient struct {
	config     Config
	httpClient *http.Client
	logger     *logger.Logger
}

// NewOpenMeteoClient creates a new route weather sampler.
func NewOpenMeteoClient(config Config, logger *logger.Logger) *OpenMeteoClient {
	return &OpenMeteoClient{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.RequestTimeoutSeconds) * time.Second,
		},
		logger: logger.Named("openmeteo-client"),
	}
}

// SampleRoute queries current weather at each route point in order, throttled
// between requests, and returns the severe samples plus per-point errors.
// Cancelling the context stops the sweep and returns what was collected.
func (c *OpenMeteoClient) SampleRoute(ctx context.Context, routePoints []geo.Point) []RouteSample {
	throttle := time.Duration(c.config.RouteSampleThrottleMS) * time.Millisecond

	var samples []RouteSample
	for i, pt := range routePoints {
		if ctx.Err() != nil {
			c.logger.Warn("Route weather sampling cancelled",
				logger.Int("sampled_points", i),
				logger.Int("total_points", len(routePoints)))
			return samples
		}

		sample, err := c.samplePoint(ctx, i, pt)
		if err != nil {
			samples = append(samples, RouteSample{
				PointIndex: i,
				Lat:        pt.Lat,
				Lon:        pt.Lon,
				Error:      err.Error(),
			})
			continue
		}
		if sample.IsSevere {
			samples = append(samples, sample)
		}

		if i < len(routePoints)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(throttle):
			}
		}
	}

	c.logger.Info("Route weather sampling completed",
		logger.Int("total_points", len(routePoints)),
		logger.Int("flagged_samples", len(samples)))
	return samples
}

func (c *OpenMeteoClient) samplePoint(ctx context.Context, index int, pt geo.Point) (RouteSample, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(pt.Lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(pt.Lon, 'f', -1, 64))
	params.Set("current_weather", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.OpenMeteoBaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return RouteSample{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return RouteSample{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return RouteSample{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var payload openMeteoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return RouteSample{}, fmt.Errorf("error decoding point forecast: %w", err)
	}

	code := payload.CurrentWeather.WeatherCode
	return RouteSample{
		PointIndex:  index,
		Lat:         pt.Lat,
		Lon:         pt.Lon,
		Code:        code,
		Description: decode.OpenMeteoDescription(code),
		Temperature: payload.CurrentWeather.Temperature,
		Windspeed:   payload.CurrentWeather.Windspeed,
		IsSevere:    decode.IsSevereOpenMeteoCode(code),
	}, nil
}
