package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/skybrief/skybrief/internal/briefing"
	"github.com/skybrief/skybrief/internal/config"
	"github.com/skybrief/skybrief/internal/decode"
	"github.com/skybrief/skybrief/internal/geo"
	"github.com/skybrief/skybrief/internal/storage/sqlite"
	"github.com/skybrief/skybrief/internal/weather"
	"github.com/skybrief/skybrief/internal/websocket"
	"github.com/skybrief/skybrief/pkg/logger"
)

// Handler contains the API handlers
type Handler struct {
	briefingService *briefing.Service
	weatherService  *weather.Service
	config          *config.Config
	logger          *logger.Logger
	wsServer        *websocket.Server
}

// NewHandler creates a new API handler
func NewHandler(briefingService *briefing.Service, weatherService *weather.Service, config *config.Config, logger *logger.Logger, wsServer *websocket.Server) *Handler {
	return &Handler{
		briefingService: briefingService,
		weatherService:  weatherService,
		config:          config,
		logger:          logger.Named("api-handler"),
		wsServer:        wsServer,
	}
}

// GenerateBriefing assembles a fresh briefing for the requested route
func (h *Handler) GenerateBriefing(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req struct {
		Departure   string  `json:"departure"`
		Destination string  `json:"destination"`
		AltitudeFt  float64 `json:"altitude_ft"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to parse briefing request", logger.Error(err))
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	departure, ok := normalizeICAO(req.Departure)
	if !ok {
		http.Error(w, "Invalid departure airport code", http.StatusBadRequest)
		return
	}
	destination, ok := normalizeICAO(req.Destination)
	if !ok {
		http.Error(w, "Invalid destination airport code", http.StatusBadRequest)
		return
	}
	if req.AltitudeFt < 0 || req.AltitudeFt > 60000 {
		http.Error(w, "Invalid altitude (0-60000 ft)", http.StatusBadRequest)
		return
	}

	b, err := h.briefingService.Generate(r.Context(), departure, destination, req.AltitudeFt)
	if err != nil {
		h.logger.Error("Failed to generate briefing",
			logger.String("departure", departure),
			logger.String("destination", destination),
			logger.Error(err))
		http.Error(w, fmt.Sprintf("Failed to generate briefing: %v", err), http.StatusBadGateway)
		return
	}

	h.logger.Debug("Briefing request completed",
		logger.String("departure", departure),
		logger.String("destination", destination),
		logger.Duration("duration", time.Since(start)))

	WriteJSON(w, http.StatusOK, b)
}

// GetLatestBriefing returns the most recently stored briefing for a route
func (h *Handler) GetLatestBriefing(w http.ResponseWriter, r *http.Request) {
	departure, ok := normalizeICAO(r.URL.Query().Get("departure"))
	if !ok {
		http.Error(w, "Missing or invalid departure query parameter", http.StatusBadRequest)
		return
	}
	destination, ok := normalizeICAO(r.URL.Query().Get("destination"))
	if !ok {
		http.Error(w, "Missing or invalid destination query parameter", http.StatusBadRequest)
		return
	}

	record, hazards, err := h.briefingService.Latest(departure, destination)
	if err != nil {
		h.logger.Error("Failed to load stored briefing", logger.Error(err))
		http.Error(w, "Failed to load stored briefing", http.StatusInternalServerError)
		return
	}
	if record == nil {
		http.Error(w, "No briefing found for route", http.StatusNotFound)
		return
	}

	response := struct {
		Briefing interface{} `json:"briefing"`
		Hazards  interface{} `json:"hazards"`
	}{
		Briefing: record,
		Hazards:  hazards,
	}
	WriteJSON(w, http.StatusOK, response)
}

// GetBriefingHistory returns stored briefings, most recent first
func (h *Handler) GetBriefingHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	records, err := h.briefingService.History(limit, offset)
	if err != nil {
		h.logger.Error("Failed to load briefing history", logger.Error(err))
		http.Error(w, "Failed to load briefing history", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*sqlite.BriefingRecord{}
	}

	WriteJSON(w, http.StatusOK, records)
}

// GetAirportWeather returns raw and decoded weather products for one airport
func (h *Handler) GetAirportWeather(w http.ResponseWriter, r *http.Request) {
	code, ok := normalizeICAO(chi.URLParam(r, "id"))
	if !ok {
		http.Error(w, "Missing or invalid airport ID", http.StatusBadRequest)
		return
	}

	data := h.weatherService.GetWeatherData(code)
	if data == nil {
		http.Error(w, "No weather data available for airport", http.StatusNotFound)
		return
	}

	response := struct {
		Code        string                `json:"code"`
		Category    decode.FlightCategory `json:"category"`
		METAR       interface{}           `json:"metar,omitempty"`
		METARText   string                `json:"metar_text,omitempty"`
		TAF         interface{}           `json:"taf,omitempty"`
		TAFText     string                `json:"taf_text,omitempty"`
		PIREPs      interface{}           `json:"pireps,omitempty"`
		LastUpdated time.Time             `json:"last_updated"`
		FetchErrors []string              `json:"fetch_errors,omitempty"`
	}{
		Code:        code,
		Category:    decode.CategoryUnknown,
		LastUpdated: data.LastUpdated,
		FetchErrors: data.FetchErrors,
	}

	if data.METAR != nil && data.METAR.RawOb != "" {
		response.METAR = data.METAR
		response.METARText = decode.RenderMETAR(data.METAR.RawOb)
		response.Category = decode.ClassifyMETAR(data.METAR.RawOb)
	}
	if data.TAF != nil && data.TAF.RawTAF != "" {
		response.TAF = data.TAF
		response.TAFText = decode.DecodeTAF(code, data.TAF.RawTAF).Render()
	}
	if len(data.PIREPs) > 0 {
		response.PIREPs = data.PIREPs
	}

	WriteJSON(w, http.StatusOK, response)
}

// GetAdvisories returns all current SIGMETs in raw and decoded form
func (h *Handler) GetAdvisories(w http.ResponseWriter, r *http.Request) {
	type advisoryResponse struct {
		Advisory *decode.Advisory `json:"advisory"`
		Text     string           `json:"text"`
		Polygon  []geo.Point      `json:"polygon,omitempty"`
	}

	advisories := make([]advisoryResponse, 0)
	for _, raw := range h.weatherService.GetSIGMETs() {
		if raw.RawText == "" {
			continue
		}
		adv := advisoryResponse{Advisory: decode.DecodeSIGMET(raw.RawText)}
		adv.Text = adv.Advisory.Render()
		for _, c := range raw.Coords {
			adv.Polygon = append(adv.Polygon, geo.Point{Lat: c.Lat, Lon: c.Lon})
		}
		advisories = append(advisories, adv)
	}

	WriteJSON(w, http.StatusOK, advisories)
}

// GetRouteHazards returns the PIREP hazard document for a route
func (h *Handler) GetRouteHazards(w http.ResponseWriter, r *http.Request) {
	departure, ok := normalizeICAO(r.URL.Query().Get("departure"))
	if !ok {
		http.Error(w, "Missing or invalid departure query parameter", http.StatusBadRequest)
		return
	}
	destination, ok := normalizeICAO(r.URL.Query().Get("destination"))
	if !ok {
		http.Error(w, "Missing or invalid destination query parameter", http.StatusBadRequest)
		return
	}

	hazards, err := h.briefingService.Hazards(departure, destination)
	if err != nil {
		h.logger.Error("Failed to correlate route hazards", logger.Error(err))
		http.Error(w, fmt.Sprintf("Failed to correlate route hazards: %v", err), http.StatusBadGateway)
		return
	}

	doc, err := briefing.HazardsJSON(hazards)
	if err != nil {
		http.Error(w, "Failed to encode hazards", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(doc)
}

// GetRoute returns the route geometry between two airports
func (h *Handler) GetRoute(w http.ResponseWriter, r *http.Request) {
	departure, ok := normalizeICAO(r.URL.Query().Get("departure"))
	if !ok {
		http.Error(w, "Missing or invalid departure query parameter", http.StatusBadRequest)
		return
	}
	destination, ok := normalizeICAO(r.URL.Query().Get("destination"))
	if !ok {
		http.Error(w, "Missing or invalid destination query parameter", http.StatusBadRequest)
		return
	}

	depInfo, err := h.weatherService.GetAirportInfo(departure)
	if err != nil {
		http.Error(w, "Departure airport not found", http.StatusNotFound)
		return
	}
	destInfo, err := h.weatherService.GetAirportInfo(destination)
	if err != nil {
		http.Error(w, "Destination airport not found", http.StatusNotFound)
		return
	}

	altitudeFt := h.config.Briefing.DefaultAltitudeFt
	if altStr := r.URL.Query().Get("altitude_ft"); altStr != "" {
		alt, err := strconv.ParseFloat(altStr, 64)
		if err != nil || alt < 0 || alt > 60000 {
			http.Error(w, "Invalid altitude_ft (0-60000)", http.StatusBadRequest)
			return
		}
		altitudeFt = alt
	}
	waypoints := []geo.Point{
		{Lat: depInfo.Lat, Lon: depInfo.Lon},
		{Lat: destInfo.Lat, Lon: destInfo.Lon},
	}

	response := struct {
		Departure   string         `json:"departure"`
		Destination string         `json:"destination"`
		Legs        []geo.RouteLeg `json:"legs"`
		Points      []geo.Point    `json:"points"`
	}{
		Departure:   departure,
		Destination: destination,
		Legs:        geo.RouteLegs(waypoints, altitudeFt, time.Now().UTC()),
		Points:      geo.InterpolatePoints(waypoints[0], waypoints[1], h.weatherService.RouteSampleInterval()),
	}

	WriteJSON(w, http.StatusOK, response)
}

// GetCacheStats returns per-airport weather cache statistics
func (h *Handler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.weatherService.GetCacheStats())
}

// RefreshWeather forces an immediate refresh of all cached weather data
func (h *Handler) RefreshWeather(w http.ResponseWriter, r *http.Request) {
	h.weatherService.RefreshNow()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "refresh started",
	})
}

// normalizeICAO uppercases and validates a 4-letter station identifier
func normalizeICAO(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 4 {
		return "", false
	}
	for _, c := range code {
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return "", false
		}
	}
	return code, true
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
