package briefing

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skybrief/skybrief/internal/ai"
	"github.com/skybrief/skybrief/internal/decode"
	"github.com/skybrief/skybrief/internal/geo"
	"github.com/skybrief/skybrief/internal/storage/sqlite"
	"github.com/skybrief/skybrief/internal/weather"
	"github.com/skybrief/skybrief/internal/websocket"
	"github.com/skybrief/skybrief/pkg/logger"
)

type fakeWeather struct {
	data     map[string]*weather.Data
	sigmets  []weather.AirSigmetResponse
	airports map[string]*weather.AirportInfo
	samples  []weather.RouteSample
}

func (f *fakeWeather) GetWeatherData(code string) *weather.Data { return f.data[code] }
func (f *fakeWeather) GetSIGMETs() []weather.AirSigmetResponse  { return f.sigmets }
func (f *fakeWeather) GetAirportInfo(code string) (*weather.AirportInfo, error) {
	if info, ok := f.airports[code]; ok {
		return info, nil
	}
	return nil, assert.AnError
}
func (f *fakeWeather) SampleRoute(ctx context.Context, pts []geo.Point) []weather.RouteSample {
	return f.samples
}
func (f *fakeWeather) RouteSampleInterval() float64 { return 50 }

type fakeStorage struct {
	stored  *sqlite.BriefingRecord
	hazards []sqlite.HazardRecord
}

func (f *fakeStorage) StoreBriefing(record *sqlite.BriefingRecord, hazards []sqlite.HazardRecord) (int64, error) {
	f.stored = record
	f.hazards = hazards
	return 42, nil
}
func (f *fakeStorage) GetLatestBriefing(dep, dest string) (*sqlite.BriefingRecord, error) {
	return f.stored, nil
}
func (f *fakeStorage) GetBriefings(limit, offset int) ([]*sqlite.BriefingRecord, error) {
	if f.stored == nil {
		return nil, nil
	}
	return []*sqlite.BriefingRecord{f.stored}, nil
}
func (f *fakeStorage) GetHazards(id int64) ([]sqlite.HazardRecord, error) { return f.hazards, nil }

type fakeBroadcaster struct {
	messages []*websocket.Message
}

func (f *fakeBroadcaster) Broadcast(m *websocket.Message) { f.messages = append(f.messages, m) }

type fakeChat struct {
	reply string
}

func (f *fakeChat) ChatCompletion(ctx context.Context, messages []ai.ChatMessage, config ai.ChatConfig) (string, error) {
	return f.reply, nil
}

func routeWeather() *fakeWeather {
	klax := &weather.AirportInfo{ICAOID: "KLAX", Lat: 33.9425, Lon: -118.4081}
	ksfo := &weather.AirportInfo{ICAOID: "KSFO", Lat: 37.6189, Lon: -122.3750}

	// PIREP close to the route midpoint.
	midLat := (klax.Lat + ksfo.Lat) / 2
	midLon := (klax.Lon + ksfo.Lon) / 2

	return &fakeWeather{
		airports: map[string]*weather.AirportInfo{"KLAX": klax, "KSFO": ksfo},
		data: map[string]*weather.Data{
			"KLAX": {
				METAR: &weather.METARResponse{ICAOID: "KLAX", RawOb: "KLAX 211853Z 25010KT 10SM FEW025 22/14 A3001"},
				TAF:   &weather.TAFResponse{ICAOID: "KLAX", RawTAF: "TAF KLAX 211730Z 2118/2224 25010KT P6SM SCT025"},
				PIREPs: []weather.PIREPResponse{
					{RawOb: "UA /OV FIM /TM 1755 /FL085 /TP C172 /TB MOD", Lat: midLat, Lon: midLon},
				},
			},
			"KSFO": {
				METAR: &weather.METARResponse{ICAOID: "KSFO", RawOb: "KSFO 211856Z 28012KT 1/2SM BKN003 16/12 A3010"},
				TAF:   &weather.TAFResponse{ICAOID: "KSFO", RawTAF: "TAF KSFO 211730Z 2118/2224 28012KT"},
			},
		},
		sigmets: []weather.AirSigmetResponse{
			{
				RawText: "CONVECTIVE SIGMET 3W\nVALID UNTIL 2255Z\nFROM 30NNW LAX-20ESE LAX-30SSE LAX\nDMSHG AREA TS MOV FROM 27035KT. TOPS TO FL450.",
				Coords: []weather.SigmetCoord{
					// Box around KLAX only.
					{Lat: 33.0, Lon: -119.5}, {Lat: 33.0, Lon: -117.5},
					{Lat: 35.0, Lon: -117.5}, {Lat: 35.0, Lon: -119.5},
				},
			},
		},
	}
}

func TestGenerate_assemblesFullBriefing(t *testing.T) {
	fw := routeWeather()
	fs := &fakeStorage{}
	fb := &fakeBroadcaster{}

	svc := NewService(DefaultConfig(), fw, fs, fb, nil, logger.NewNop())
	b, err := svc.Generate(context.Background(), "KLAX", "KSFO", 10500)
	require.NoError(t, err)

	// Worst of VFR (KLAX) and LIFR (KSFO, 300ft/0.5sm).
	assert.Equal(t, decode.CategoryLIFR, b.Category)
	require.Len(t, b.Airports, 2)
	assert.Equal(t, decode.CategoryVFR, b.Airports[0].Category)
	assert.Equal(t, decode.CategoryLIFR, b.Airports[1].Category)
	assert.Contains(t, b.Airports[0].METARText, "Wind 250° at 10 knots")

	// The advisory polygon contains only the departure airport.
	require.Len(t, b.Advisories, 1)
	assert.True(t, b.Advisories[0].AffectsRoute)
	assert.Equal(t, []string{"KLAX"}, b.Advisories[0].AffectedCodes)

	// The midpoint PIREP correlates within the 50nm threshold.
	require.NotEmpty(t, b.Hazards)
	assert.Contains(t, b.Hazards[0].Summary, "Turbulence reported: MOD")
	assert.LessOrEqual(t, b.Hazards[0].DistanceToPirepNM, 50.0)

	require.Len(t, b.Legs, 1)
	assert.InDelta(t, 293, b.Legs[0].DistanceNM, 5)

	assert.Contains(t, b.Document, "Flight Briefing: KLAX -> KSFO")
	assert.Contains(t, b.Document, "Overall Flight Category: LIFR")
	assert.Contains(t, b.Document, "=== Advisories ===")

	// Persisted and announced.
	assert.Equal(t, int64(42), b.ID)
	require.NotNil(t, fs.stored)
	assert.Equal(t, "LIFR", fs.stored.Category)
	assert.Len(t, fs.hazards, len(b.Hazards))

	require.NotEmpty(t, fb.messages)
	assert.Equal(t, websocket.MessageTypeBriefingUpdate, fb.messages[0].Type)
}

func TestGenerate_missingProductsDegrade(t *testing.T) {
	fw := routeWeather()
	fw.data["KSFO"] = nil // nothing fetched at all

	svc := NewService(DefaultConfig(), fw, nil, nil, nil, logger.NewNop())
	b, err := svc.Generate(context.Background(), "KLAX", "KSFO", 0)
	require.NoError(t, err)

	assert.Equal(t, "No METAR data available for airport 'KSFO'.", b.Airports[1].METARText)
	assert.Equal(t, "No TAF data available for airport 'KSFO'.", b.Airports[1].TAFText)
	assert.Equal(t, decode.CategoryUnknown, b.Airports[1].Category)

	// UNKNOWN outranks every determinate category.
	assert.Equal(t, decode.CategoryUnknown, b.Category)

	// Zero altitude falls back to the configured default.
	assert.Equal(t, DefaultConfig().DefaultAltitudeFt, b.AltitudeFt)
}

func TestGenerate_unknownAirportFails(t *testing.T) {
	svc := NewService(DefaultConfig(), &fakeWeather{airports: map[string]*weather.AirportInfo{}}, nil, nil, nil, logger.NewNop())

	_, err := svc.Generate(context.Background(), "ZZZZ", "KSFO", 10500)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "departure airport")
}

func TestGenerate_llmSummary(t *testing.T) {
	fw := routeWeather()
	cfg := DefaultConfig()
	cfg.LLMEnabled = true

	svc := NewService(cfg, fw, nil, nil, &fakeChat{reply: "Expect low IFR at KSFO."}, logger.NewNop())
	b, err := svc.Generate(context.Background(), "KLAX", "KSFO", 10500)

	require.NoError(t, err)
	assert.Equal(t, "Expect low IFR at KSFO.", b.Summary)
}

func TestHazardsJSON(t *testing.T) {
	data, err := HazardsJSON([]geo.HazardCorrelation{
		{DistanceToPirepNM: 12.3, PirepRaw: "UA /OV FIM", Summary: "Reported over: FIM", Lat: 35.0, Lon: -119.0},
	})
	require.NoError(t, err)

	var doc map[string][]geo.HazardCorrelation
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc["pireps"], 1)
	assert.Equal(t, 12.3, doc["pireps"][0].DistanceToPirepNM)

	empty, err := HazardsJSON(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"pireps":[]}`, string(empty))
}
