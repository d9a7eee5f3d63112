package briefing

import (
	"context"
	"fmt"
	"time"

	"github.com/skybrief/skybrief/internal/ai"
	"github.com/skybrief/skybrief/internal/decode"
	"github.com/skybrief/skybrief/internal/geo"
	"github.com/skybrief/skybrief/internal/storage/sqlite"
	"github.com/skybrief/skybrief/internal/weather"
	"github.com/skybrief/skybrief/internal/websocket"
	"github.com/skybrief/skybrief/pkg/logger"
)

// WeatherProvider is the weather data surface the assembler consumes.
type WeatherProvider interface {
	GetWeatherData(airportCode string) *weather.Data
	GetSIGMETs() []weather.AirSigmetResponse
	GetAirportInfo(airportCode string) (*weather.AirportInfo, error)
	SampleRoute(ctx context.Context, routePoints []geo.Point) []weather.RouteSample
	RouteSampleInterval() float64
}

// Storage persists generated briefings.
type Storage interface {
	StoreBriefing(record *sqlite.BriefingRecord, hazards []sqlite.HazardRecord) (int64, error)
	GetLatestBriefing(departure, destination string) (*sqlite.BriefingRecord, error)
	GetBriefings(limit, offset int) ([]*sqlite.BriefingRecord, error)
	GetHazards(briefingID int64) ([]sqlite.HazardRecord, error)
}

// Broadcaster pushes briefing updates to connected clients.
type Broadcaster interface {
	Broadcast(message *websocket.Message)
}

// Service assembles flight briefings from decoded weather products, route
// geometry and hazard correlation.
type Service struct {
	config      Config
	weather     WeatherProvider
	storage     Storage
	broadcaster Broadcaster
	chat        ai.ChatProvider
	logger      *logger.Logger
}

// NewService creates a new briefing service. storage, broadcaster and chat
// may be nil; the corresponding steps are skipped.
func NewService(config Config, weather WeatherProvider, storage Storage, broadcaster Broadcaster, chat ai.ChatProvider, logger *logger.Logger) *Service {
	return &Service{
		config:      config,
		weather:     weather,
		storage:     storage,
		broadcaster: broadcaster,
		chat:        chat,
		logger:      logger.Named("briefing"),
	}
}

// Generate assembles a complete briefing for the route. Missing products
// degrade to placeholder lines; only a route whose endpoints cannot be
// located fails outright.
func (s *Service) Generate(ctx context.Context, departure, destination string, altitudeFt float64) (*Briefing, error) {
	startTime := time.Now()
	if altitudeFt <= 0 {
		altitudeFt = s.config.DefaultAltitudeFt
	}

	b := &Briefing{
		Departure:   departure,
		Destination: destination,
		AltitudeFt:  altitudeFt,
		GeneratedAt: time.Now().UTC(),
	}

	depInfo, err := s.weather.GetAirportInfo(departure)
	if err != nil {
		return nil, fmt.Errorf("locating departure airport: %w", err)
	}
	destInfo, err := s.weather.GetAirportInfo(destination)
	if err != nil {
		return nil, fmt.Errorf("locating destination airport: %w", err)
	}

	depPoint := geo.Point{Lat: depInfo.Lat, Lon: depInfo.Lon}
	destPoint := geo.Point{Lat: destInfo.Lat, Lon: destInfo.Lon}
	waypoints := []geo.Point{depPoint, destPoint}

	// Per-airport decoded reports and categories
	var categories []decode.FlightCategory
	var allPIREPs []weather.PIREPResponse
	for i, code := range []string{departure, destination} {
		report := s.buildAirportReport(code, waypoints[i])
		b.Airports = append(b.Airports, report)
		categories = append(categories, report.Category)

		if data := s.weather.GetWeatherData(code); data != nil {
			allPIREPs = append(allPIREPs, data.PIREPs...)
		}
	}
	b.Category = decode.WorstCategory(categories...)

	// Route geometry
	b.Legs = geo.RouteLegs(waypoints, altitudeFt, b.GeneratedAt)
	routePoints := geo.InterpolatePoints(depPoint, destPoint, s.weather.RouteSampleInterval())

	// Advisories vs. route airports
	b.Advisories = s.buildAdvisories(waypoints, []string{departure, destination})

	// PIREP hazard correlation along the route
	hazardPoints := make([]geo.HazardPoint, 0, len(allPIREPs))
	for _, p := range allPIREPs {
		hazardPoints = append(hazardPoints, geo.HazardPoint{Lat: p.Lat, Lon: p.Lon, Raw: p.RawOb})
	}
	b.Hazards = geo.CorrelateHazards(routePoints, hazardPoints, s.config.HazardThresholdNM, decode.SummarizePIREP)

	// Severe point weather along the route
	b.RouteSamples = s.weather.SampleRoute(ctx, routePoints)

	b.Document = composeDocument(b)
	s.summarize(ctx, b)
	s.persist(b)
	s.announce(b)

	s.logger.Info("Briefing generated",
		logger.String("departure", departure),
		logger.String("destination", destination),
		logger.String("category", string(b.Category)),
		logger.Int("hazards", len(b.Hazards)),
		logger.String("duration", time.Since(startTime).String()))

	return b, nil
}

// buildAirportReport decodes one airport's METAR and TAF. A missing product
// yields its placeholder line instead of failing the briefing.
func (s *Service) buildAirportReport(code string, location geo.Point) AirportReport {
	report := AirportReport{
		Code:     code,
		Category: decode.CategoryUnknown,
		Lat:      location.Lat,
		Lon:      location.Lon,
	}

	data := s.weather.GetWeatherData(code)
	if data != nil {
		report.FetchNotes = data.FetchErrors
	}

	if data != nil && data.METAR != nil && data.METAR.RawOb != "" {
		report.RawMETAR = data.METAR.RawOb
		report.METARText = decode.RenderMETAR(data.METAR.RawOb)
		report.Category = decode.ClassifyMETAR(data.METAR.RawOb)
	} else {
		report.METARText = fmt.Sprintf("No METAR data available for airport '%s'.", code)
	}

	if data != nil && data.TAF != nil && data.TAF.RawTAF != "" {
		report.RawTAF = data.TAF.RawTAF
		report.TAFText = decode.DecodeTAF(code, data.TAF.RawTAF).Render()
	} else {
		report.TAFText = fmt.Sprintf("No TAF data available for airport '%s'.", code)
	}

	return report
}

// buildAdvisories decodes every current SIGMET and tests the route airports
// for containment in its polygon.
func (s *Service) buildAdvisories(waypoints []geo.Point, codes []string) []AdvisoryReport {
	var advisories []AdvisoryReport

	for _, raw := range s.weather.GetSIGMETs() {
		if raw.RawText == "" {
			continue
		}

		adv := AdvisoryReport{
			Advisory: decode.DecodeSIGMET(raw.RawText),
		}
		adv.Text = adv.Advisory.Render()

		for _, c := range raw.Coords {
			adv.Polygon = append(adv.Polygon, geo.Point{Lat: c.Lat, Lon: c.Lon})
		}

		for i, wp := range waypoints {
			if geo.PointInPolygon(wp, adv.Polygon) {
				adv.AffectsRoute = true
				adv.AffectedCodes = append(adv.AffectedCodes, codes[i])
			}
		}

		advisories = append(advisories, adv)
	}

	return advisories
}

// summarize asks the chat provider for a plain-language summary of the
// briefing document. Failure leaves the briefing unsummarized.
func (s *Service) summarize(ctx context.Context, b *Briefing) {
	if !s.config.LLMEnabled || s.chat == nil {
		return
	}

	messages := []ai.ChatMessage{
		{Role: "system", Content: s.config.SystemPrompt},
		{Role: "user", Content: b.Document},
	}
	chatConfig := ai.ChatConfig{
		Model:       s.config.LLMModel,
		Temperature: s.config.LLMTemperature,
		MaxTokens:   s.config.LLMMaxTokens,
	}

	summary, err := s.chat.ChatCompletion(ctx, messages, chatConfig)
	if err != nil {
		s.logger.Warn("Briefing summarization failed", logger.Error(err))
		return
	}
	b.Summary = summary
}

// persist stores the briefing and its hazards.
func (s *Service) persist(b *Briefing) {
	if s.storage == nil {
		return
	}

	record := &sqlite.BriefingRecord{
		Departure:   b.Departure,
		Destination: b.Destination,
		Category:    string(b.Category),
		Summary:     b.Summary,
		Document:    b.Document,
		CreatedAt:   b.GeneratedAt,
	}

	hazards := make([]sqlite.HazardRecord, 0, len(b.Hazards))
	for _, hz := range b.Hazards {
		hazards = append(hazards, sqlite.HazardRecord{
			DistanceNM: hz.DistanceToPirepNM,
			PirepRaw:   hz.PirepRaw,
			Summary:    hz.Summary,
			Lat:        hz.Lat,
			Lon:        hz.Lon,
		})
	}

	id, err := s.storage.StoreBriefing(record, hazards)
	if err != nil {
		s.logger.Error("Failed to persist briefing", logger.Error(err))
		return
	}
	b.ID = id
}

// announce pushes the new briefing to connected clients.
func (s *Service) announce(b *Briefing) {
	if s.broadcaster == nil {
		return
	}

	s.broadcaster.Broadcast(&websocket.Message{
		Type: websocket.MessageTypeBriefingUpdate,
		Data: map[string]any{
			"id":          b.ID,
			"departure":   b.Departure,
			"destination": b.Destination,
			"category":    string(b.Category),
			"hazards":     len(b.Hazards),
		},
	})

	if len(b.Hazards) > 0 {
		s.broadcaster.Broadcast(&websocket.Message{
			Type: websocket.MessageTypeHazardAlert,
			Data: map[string]any{
				"departure":   b.Departure,
				"destination": b.Destination,
				"hazards":     b.Hazards,
			},
		})
	}
}

// History returns stored briefings, most recent first.
func (s *Service) History(limit, offset int) ([]*sqlite.BriefingRecord, error) {
	if s.storage == nil {
		return nil, fmt.Errorf("briefing storage not configured")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.storage.GetBriefings(limit, offset)
}

// Hazards recomputes the PIREP correlation for a route without assembling a
// full briefing.
func (s *Service) Hazards(departure, destination string) ([]geo.HazardCorrelation, error) {
	depInfo, err := s.weather.GetAirportInfo(departure)
	if err != nil {
		return nil, fmt.Errorf("locating departure airport: %w", err)
	}
	destInfo, err := s.weather.GetAirportInfo(destination)
	if err != nil {
		return nil, fmt.Errorf("locating destination airport: %w", err)
	}

	routePoints := geo.InterpolatePoints(
		geo.Point{Lat: depInfo.Lat, Lon: depInfo.Lon},
		geo.Point{Lat: destInfo.Lat, Lon: destInfo.Lon},
		s.weather.RouteSampleInterval())

	var hazardPoints []geo.HazardPoint
	for _, code := range []string{departure, destination} {
		if data := s.weather.GetWeatherData(code); data != nil {
			for _, p := range data.PIREPs {
				hazardPoints = append(hazardPoints, geo.HazardPoint{Lat: p.Lat, Lon: p.Lon, Raw: p.RawOb})
			}
		}
	}

	return geo.CorrelateHazards(routePoints, hazardPoints, s.config.HazardThresholdNM, decode.SummarizePIREP), nil
}

// Latest returns the most recently persisted briefing for a route along with
// its stored hazards, or nil when none exists.
func (s *Service) Latest(departure, destination string) (*sqlite.BriefingRecord, []sqlite.HazardRecord, error) {
	if s.storage == nil {
		return nil, nil, fmt.Errorf("briefing storage not configured")
	}

	record, err := s.storage.GetLatestBriefing(departure, destination)
	if err != nil {
		return nil, nil, err
	}
	if record == nil {
		return nil, nil, nil
	}

	hazards, err := s.storage.GetHazards(record.ID)
	if err != nil {
		return nil, nil, err
	}
	return record, hazards, nil
}
