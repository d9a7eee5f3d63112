package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybrief/skybrief/internal/geo"
	"github.com/skybrief/skybrief/pkg/logger"
)

func openMeteoConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.OpenMeteoBaseURL = baseURL
	cfg.RouteSampleThrottleMS = 0
	cfg.RequestTimeoutSeconds = 2
	return cfg
}

func TestSampleRoute_keepsOnlySevere(t *testing.T) {
	// Code by latitude: 95 (severe thunderstorm) at the first point, 0 (clear)
	// at the second.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		code := 0
		if r.URL.Query().Get("latitude") == "35" {
			code = 95
		}
		fmt.Fprintf(w, `{"current_weather":{"temperature":21.5,"windspeed":14.2,"weathercode":%d}}`, code)
	}))
	defer srv.Close()

	c := NewOpenMeteoClient(openMeteoConfig(srv.URL), logger.NewNop())
	samples := c.SampleRoute(context.Background(), []geo.Point{
		{Lat: 35, Lon: -100},
		{Lat: 36, Lon: -100},
	})

	require.Len(t, samples, 1)
	assert.Equal(t, 0, samples[0].PointIndex)
	assert.Equal(t, 95, samples[0].Code)
	assert.Equal(t, "Thunderstorm: Slight or moderate", samples[0].Description)
	assert.True(t, samples[0].IsSevere)
	assert.InDelta(t, 21.5, samples[0].Temperature, 1e-9)
}

func TestSampleRoute_pointErrorContained(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"current_weather":{"temperature":10,"windspeed":5,"weathercode":65}}`)
	}))
	defer srv.Close()

	c := NewOpenMeteoClient(openMeteoConfig(srv.URL), logger.NewNop())
	samples := c.SampleRoute(context.Background(), []geo.Point{
		{Lat: 35, Lon: -100},
		{Lat: 36, Lon: -100},
	})

	// First point records its error, second still gets sampled.
	require.Len(t, samples, 2)
	assert.NotEmpty(t, samples[0].Error)
	assert.Equal(t, 65, samples[1].Code)
	assert.True(t, samples[1].IsSevere)
}

func TestSampleRoute_cancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewOpenMeteoClient(openMeteoConfig("http://127.0.0.1:0"), logger.NewNop())
	samples := c.SampleRoute(ctx, []geo.Point{{Lat: 35, Lon: -100}})

	assert.Empty(t, samples)
}
