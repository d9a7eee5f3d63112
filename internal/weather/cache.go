package weather

import (
	"fmt"
	"sync"
	"time"

	"github.com/skybrief/skybrief/pkg/logger"
)

// Cache manages per-airport weather data with thread-safe operations.
type Cache struct {
	airports map[string]*dataCache
	config   Config
	logger   *logger.Logger
	mu       sync.RWMutex
}

// NewCache creates a new weather cache manager.
func NewCache(config Config, logger *logger.Logger) *Cache {
	return &Cache{
		airports: make(map[string]*dataCache),
		config:   config,
		logger:   logger.Named("weather-cache"),
	}
}

// Get returns the cached weather data for an airport, or nil when nothing has
// been fetched for it yet.
func (c *Cache) Get(airportCode string) *Data {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.airports[airportCode]
	if !ok {
		return nil
	}

	data := entry.Get()
	if data == nil {
		return nil
	}
	if data.METAR == nil && data.TAF == nil && len(data.PIREPs) == 0 && len(data.FetchErrors) == 0 {
		return nil
	}
	return data
}

// IsExpired reports whether the airport's cached data has expired. Unknown
// airports count as expired.
func (c *Cache) IsExpired(airportCode string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.airports[airportCode]
	if !ok {
		return true
	}
	return entry.IsExpired()
}

// Update merges new fetch results into the airport's cache entry. Products
// that failed keep their previous value and record a fetch error.
func (c *Cache) Update(airportCode string, results []FetchResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.airports[airportCode]
	if !ok {
		entry = &dataCache{}
		c.airports[airportCode] = entry
	}

	currentData := entry.Get()
	if currentData == nil {
		currentData = &Data{}
	}

	newData := &Data{
		METAR:       currentData.METAR,
		TAF:         currentData.TAF,
		PIREPs:      currentData.PIREPs,
		LastUpdated: time.Now(),
		FetchErrors: []string{},
	}

	for _, result := range results {
		switch result.Type {
		case TypeMETAR:
			if result.Err != nil {
				newData.FetchErrors = append(newData.FetchErrors, fmt.Sprintf("METAR: %s", result.Err.Error()))
				c.logger.Warn("Failed to fetch METAR data",
					logger.String("airport", airportCode),
					logger.Error(result.Err))
			} else if metarData, ok := result.Data.(*METARResponse); ok {
				newData.METAR = metarData
			}

		case TypeTAF:
			if result.Err != nil {
				newData.FetchErrors = append(newData.FetchErrors, fmt.Sprintf("TAF: %s", result.Err.Error()))
				c.logger.Warn("Failed to fetch TAF data",
					logger.String("airport", airportCode),
					logger.Error(result.Err))
			} else if tafData, ok := result.Data.(*TAFResponse); ok {
				newData.TAF = tafData
			}

		case TypePIREP:
			if result.Err != nil {
				newData.FetchErrors = append(newData.FetchErrors, fmt.Sprintf("PIREP: %s", result.Err.Error()))
				c.logger.Warn("Failed to fetch PIREP data",
					logger.String("airport", airportCode),
					logger.Error(result.Err))
			} else if pireps, ok := result.Data.([]PIREPResponse); ok {
				newData.PIREPs = pireps
			}
		}
	}

	expiryDuration := time.Duration(c.config.CacheExpiryMinutes) * time.Minute
	entry.Set(newData, expiryDuration)

	successCount := len(results) - len(newData.FetchErrors)
	c.logger.Info("Weather cache updated",
		logger.String("airport", airportCode),
		logger.Int("successful_fetches", successCount),
		logger.Int("failed_fetches", len(newData.FetchErrors)),
		logger.Time("expires_at", time.Now().Add(expiryDuration)))
}

// Invalidate clears all cached airports.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.airports = make(map[string]*dataCache)
	c.logger.Info("Weather cache invalidated")
}

// GetStats returns cache statistics.
func (c *Cache) GetStats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := map[string]interface{}{
		"airport_count": len(c.airports),
	}

	perAirport := make(map[string]interface{}, len(c.airports))
	for code, entry := range c.airports {
		data := entry.Get()
		airportStats := map[string]interface{}{
			"has_data":   data != nil,
			"is_expired": entry.IsExpired(),
		}
		if data != nil {
			airportStats["error_count"] = len(data.FetchErrors)
			airportStats["last_updated"] = data.LastUpdated
			airportStats["has_metar"] = data.METAR != nil
			airportStats["has_taf"] = data.TAF != nil
			airportStats["pirep_count"] = len(data.PIREPs)
		}
		perAirport[code] = airportStats
	}
	stats["airports"] = perAirport

	return stats
}
