package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/skybrief/skybrief/internal/briefing"
	"github.com/skybrief/skybrief/internal/config"
	"github.com/skybrief/skybrief/internal/weather"
	"github.com/skybrief/skybrief/internal/websocket"
	"github.com/skybrief/skybrief/pkg/logger"
)

// Router wires the API handlers, WebSocket endpoint and static files into a
// single HTTP handler
type Router struct {
	handler  *Handler
	config   *config.Config
	logger   *logger.Logger
	wsServer *websocket.Server
}

// NewRouter creates a new API router
func NewRouter(briefingService *briefing.Service, weatherService *weather.Service, config *config.Config, logger *logger.Logger, wsServer *websocket.Server) *Router {
	return &Router{
		handler:  NewHandler(briefingService, weatherService, config, logger, wsServer),
		config:   config,
		logger:   logger.Named("api-router"),
		wsServer: wsServer,
	}
}

// Routes returns the full route tree
func (rt *Router) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(rt.corsMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/briefing", rt.handler.GetLatestBriefing)
		r.Get("/briefings", rt.handler.GetBriefingHistory)
		r.Post("/briefing/generate", rt.handler.GenerateBriefing)
		r.Get("/airports/{id}/weather", rt.handler.GetAirportWeather)
		r.Get("/advisories", rt.handler.GetAdvisories)
		r.Get("/hazards", rt.handler.GetRouteHazards)
		r.Get("/route", rt.handler.GetRoute)
		r.Get("/cache/stats", rt.handler.GetCacheStats)
		r.Post("/wx/refresh", rt.handler.RefreshWeather)
	})

	r.Get("/ws", rt.wsServer.HandleConnection)

	if rt.config.Server.StaticFilesDir != "" {
		staticHandler := NewStaticFileHandler(rt.config.Server.StaticFilesDir, rt.logger)
		r.NotFound(staticHandler.ServeHTTP)
	}

	return r
}

// corsMiddleware applies the configured CORS policy
func (rt *Router) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && rt.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rt *Router) originAllowed(origin string) bool {
	for _, allowed := range rt.config.Server.CORSAllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
