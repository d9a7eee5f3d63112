package weather

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybrief/skybrief/pkg/logger"
)

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.APIBaseURL = baseURL
	cfg.MaxRetries = 1
	cfg.RequestTimeoutSeconds = 2
	return cfg
}

func TestClientFetchMETAR(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/metar", r.URL.Path)
		assert.Equal(t, "KLAX", r.URL.Query().Get("ids"))
		w.Write([]byte(`[{"icaoId":"KLAX","rawOb":"KLAX 211853Z 25010KT 10SM FEW025 22/14 A3001","lat":33.94,"lon":-118.41}]`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	metar, err := c.FetchMETAR("KLAX")

	require.NoError(t, err)
	assert.Equal(t, "KLAX", metar.ICAOID)
	assert.Contains(t, metar.RawOb, "25010KT")
	assert.InDelta(t, 33.94, metar.Lat, 1e-9)
}

func TestClientFetchMETAR_emptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	_, err := c.FetchMETAR("ZZZZ")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no METAR data found")
}

func TestClientFetchWithRetry_recoversAfterFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"icaoId":"KBOS","rawTAF":"TAF KBOS 211730Z 2118/2224 18015KT"}]`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	taf, err := c.FetchTAF("KBOS")

	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "KBOS", taf.ICAOID)
}

func TestClientFetchSIGMETs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/airsigmet", r.URL.Path)
		w.Write([]byte(`[{"rawAirSigmet":"CONVECTIVE SIGMET 1C","hazard":"CONVECTIVE","coords":[{"lat":37.1,"lon":-97.2},{"lat":37.5,"lon":-96.8},{"lat":36.9,"lon":-96.5}]}]`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	sigmets, err := c.FetchSIGMETs()

	require.NoError(t, err)
	require.Len(t, sigmets, 1)
	assert.Len(t, sigmets[0].Coords, 3)
}

func TestClientFetchAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/metar":
			w.Write([]byte(`[{"icaoId":"KLAX","rawOb":"KLAX 211853Z"}]`))
		case "/taf":
			w.Write([]byte(`[]`))
		case "/pirep":
			w.Write([]byte(`[{"rawOb":"UA /OV LAX","lat":34.0,"lon":-118.0}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL), logger.NewNop())
	results := c.FetchAll("KLAX")

	require.Len(t, results, 3)
	byType := make(map[Type]FetchResult)
	for _, r := range results {
		byType[r.Type] = r
	}

	assert.NoError(t, byType[TypeMETAR].Err)
	assert.Error(t, byType[TypeTAF].Err) // empty array is treated as missing
	assert.NoError(t, byType[TypePIREP].Err)
}
