package weather

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/skybrief/skybrief/internal/geo"
	"github.com/skybrief/skybrief/pkg/logger"
)

// Service manages weather data fetching and caching for the airports of a
// planned route, plus the shared advisory picture.
type Service struct {
	config          Config
	airportCodes    []string
	client          *Client
	openMeteoClient *OpenMeteoClient
	cache           *Cache
	logger          *logger.Logger

	// Service lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
	mu      sync.RWMutex

	// Shared advisories, refreshed with the airports
	sigmets          []AirSigmetResponse
	sigmetsFetchedAt time.Time

	// Station info, fetched once per airport
	stations map[string]*AirportInfo

	// Initial data readiness
	initialDataReady chan struct{}
	initialDataOnce  sync.Once
}

// NewService creates a new weather service for the given airports.
func NewService(config Config, airportCodes []string, logger *logger.Logger) *Service {
	ctx, cancel := context.WithCancel(context.Background())

	return &Service{
		config:           config,
		airportCodes:     airportCodes,
		client:           NewClient(config, logger),
		openMeteoClient:  NewOpenMeteoClient(config, logger),
		cache:            NewCache(config, logger),
		logger:           logger.Named("weather-service"),
		ctx:              ctx,
		cancel:           cancel,
		stations:         make(map[string]*AirportInfo),
		initialDataReady: make(chan struct{}),
	}
}

// Start begins the weather service background operations.
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil // Already started
	}

	s.logger.Info("Starting weather service",
		logger.Int("airports", len(s.airportCodes)),
		logger.Int("refresh_interval_minutes", s.config.RefreshIntervalMinutes))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.performInitialFetch()
	}()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.backgroundRefresh()
	}()

	s.started = true
	return nil
}

// Stop gracefully shuts down the weather service.
func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil // Already stopped
	}

	s.logger.Info("Stopping weather service")

	s.cancel()
	s.wg.Wait()

	s.started = false
	s.logger.Info("Weather service stopped")
	return nil
}

// IsStarted returns whether the service is currently running.
func (s *Service) IsStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// GetWeatherData returns the cached weather data for one airport, waiting for
// the initial fetch to complete when the service has just started.
func (s *Service) GetWeatherData(airportCode string) *Data {
	select {
	case <-s.initialDataReady:
	case <-time.After(30 * time.Second):
		s.logger.Warn("Timeout waiting for initial weather data",
			logger.String("airport", airportCode))
		return &Data{
			LastUpdated: time.Now(),
			FetchErrors: []string{"Weather data is still being fetched, please try again in a moment"},
		}
	}

	data := s.cache.Get(airportCode)
	if data == nil {
		// On-demand airport outside the configured route
		s.logger.Info("Fetching weather for uncached airport",
			logger.String("airport", airportCode))
		results := s.client.FetchAll(airportCode)
		s.cache.Update(airportCode, results)
		data = s.cache.Get(airportCode)
	}
	if data == nil {
		return &Data{
			LastUpdated: time.Now(),
			FetchErrors: []string{"Weather data temporarily unavailable"},
		}
	}
	return data
}

// GetSIGMETs returns the current advisory list.
func (s *Service) GetSIGMETs() []AirSigmetResponse {
	select {
	case <-s.initialDataReady:
	case <-time.After(30 * time.Second):
		s.logger.Warn("Timeout waiting for initial advisory data")
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sigmets
}

// GetAirportInfo returns station information for an airport, fetching and
// memoizing it on first use.
func (s *Service) GetAirportInfo(airportCode string) (*AirportInfo, error) {
	s.mu.RLock()
	info, ok := s.stations[airportCode]
	s.mu.RUnlock()
	if ok {
		return info, nil
	}

	info, err := s.client.FetchAirport(airportCode)
	if err != nil {
		return nil, fmt.Errorf("fetching airport info for %s: %w", airportCode, err)
	}

	s.mu.Lock()
	s.stations[airportCode] = info
	s.mu.Unlock()
	return info, nil
}

// SampleRoute samples current weather along interpolated route points.
func (s *Service) SampleRoute(ctx context.Context, routePoints []geo.Point) []RouteSample {
	return s.openMeteoClient.SampleRoute(ctx, routePoints)
}

// RouteSampleInterval returns the configured route sampling interval in
// nautical miles.
func (s *Service) RouteSampleInterval() float64 {
	return s.config.RouteSampleIntervalNM
}

// RefreshNow triggers an immediate refresh of all airports.
func (s *Service) RefreshNow() {
	s.logger.Info("Manual weather refresh triggered")
	go s.fetchAndUpdateCache()
}

// GetCacheStats returns cache statistics.
func (s *Service) GetCacheStats() map[string]interface{} {
	return s.cache.GetStats()
}

// performInitialFetch performs the first weather data fetch on service start.
func (s *Service) performInitialFetch() {
	s.logger.Info("Performing initial weather data fetch",
		logger.Int("airports", len(s.airportCodes)))

	s.fetchAndUpdateCache()

	s.initialDataOnce.Do(func() {
		close(s.initialDataReady)
		s.logger.Info("Initial weather data fetch completed")
	})
}

// backgroundRefresh runs the periodic weather data refresh.
func (s *Service) backgroundRefresh() {
	refreshInterval := time.Duration(s.config.RefreshIntervalMinutes) * time.Minute
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	s.logger.Info("Background weather refresh started",
		logger.String("interval", refreshInterval.String()))

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("Background weather refresh stopped")
			return
		case <-ticker.C:
			s.logger.Debug("Periodic weather refresh triggered")
			s.fetchAndUpdateCache()
		}
	}
}

// fetchAndUpdateCache fetches weather data for every configured airport plus
// the shared advisory list and updates the caches.
func (s *Service) fetchAndUpdateCache() {
	startTime := time.Now()

	for _, airportCode := range s.airportCodes {
		results := s.client.FetchAll(airportCode)
		s.cache.Update(airportCode, results)
	}

	if s.config.FetchSIGMETs {
		sigmets, err := s.client.FetchSIGMETs()
		if err != nil {
			s.logger.Warn("Failed to fetch advisories", logger.Error(err))
		} else {
			s.mu.Lock()
			s.sigmets = sigmets
			s.sigmetsFetchedAt = time.Now()
			s.mu.Unlock()
		}
	}

	s.logger.Info("Weather data fetch completed",
		logger.Int("airports", len(s.airportCodes)),
		logger.String("duration", time.Since(startTime).String()))
}
