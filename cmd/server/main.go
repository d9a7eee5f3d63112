package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/skybrief/skybrief/internal/ai"
	"github.com/skybrief/skybrief/internal/ai/gemini"
	"github.com/skybrief/skybrief/internal/api"
	"github.com/skybrief/skybrief/internal/briefing"
	"github.com/skybrief/skybrief/internal/config"
	"github.com/skybrief/skybrief/internal/storage/sqlite"
	"github.com/skybrief/skybrief/internal/weather"
	"github.com/skybrief/skybrief/internal/websocket"
	"github.com/skybrief/skybrief/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	flag.Parse()

	// Load configuration with fallback logic
	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Create logger
	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting SkyBrief server",
		logger.String("version", Version),
		logger.String("config_path", *configPath),
	)

	// Generate today's database filename
	today := time.Now().Format("2006-01-02")
	dbFilename := fmt.Sprintf("skybrief-%s.db", today)
	dbPath := filepath.Join(cfg.Storage.SQLiteBasePath, dbFilename)

	// Ensure the directory exists
	if err := os.MkdirAll(cfg.Storage.SQLiteBasePath, 0755); err != nil {
		log.Error("Failed to create database directory", logger.Error(err), logger.String("path", cfg.Storage.SQLiteBasePath))
		os.Exit(1)
	}

	log.Info("Using daily database", logger.String("path", dbPath))

	briefingStorage, err := sqlite.NewBriefingStorage(dbPath, log)
	if err != nil {
		log.Error("Failed to create SQLite storage", logger.Error(err))
		os.Exit(1)
	}
	defer briefingStorage.Close()

	// Create WebSocket server
	wsServer := websocket.NewServer(log)
	go wsServer.Run()

	// Create weather service
	weatherConfig := weather.Config{
		RefreshIntervalMinutes: cfg.Weather.RefreshIntervalMinutes,
		APIBaseURL:             cfg.Weather.APIBaseURL,
		OpenMeteoBaseURL:       cfg.Weather.OpenMeteoBaseURL,
		RequestTimeoutSeconds:  cfg.Weather.RequestTimeoutSeconds,
		MaxRetries:             cfg.Weather.MaxRetries,
		FetchMETAR:             cfg.Weather.FetchMETAR,
		FetchTAF:               cfg.Weather.FetchTAF,
		FetchPIREPs:            cfg.Weather.FetchPIREPs,
		FetchSIGMETs:           cfg.Weather.FetchSIGMETs,
		CacheExpiryMinutes:     cfg.Weather.CacheExpiryMinutes,
		RouteSampleIntervalNM:  cfg.Weather.RouteSampleIntervalNM,
		RouteSampleThrottleMS:  cfg.Weather.RouteSampleThrottleMS,
	}
	if weatherConfig.OpenMeteoBaseURL == "" {
		weatherConfig.OpenMeteoBaseURL = weather.DefaultConfig().OpenMeteoBaseURL
	}
	weatherService := weather.NewService(weatherConfig, cfg.Weather.Airports, log)

	if err := weatherService.Start(); err != nil {
		log.Error("Failed to start weather service", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create Gemini chat client if summarization is enabled
	var chatProvider ai.ChatProvider
	if cfg.Briefing.LLMEnabled && cfg.Gemini.APIKey != "" {
		geminiClient, err := gemini.NewClient(ctx, cfg.Gemini.APIKey, log)
		if err != nil {
			log.Error("Failed to create Gemini client, continuing without summarization", logger.Error(err))
		} else {
			chatProvider = geminiClient
			log.Info("Gemini summarization enabled", logger.String("model", cfg.Briefing.LLMModel))
		}
	} else {
		log.Info("Briefing summarization disabled in configuration")
	}

	// Create briefing service
	briefingConfig := briefing.DefaultConfig()
	briefingConfig.HazardThresholdNM = cfg.Briefing.HazardThresholdNM
	briefingConfig.DefaultAltitudeFt = cfg.Briefing.DefaultAltitudeFt
	briefingConfig.LLMEnabled = cfg.Briefing.LLMEnabled && chatProvider != nil
	if cfg.Briefing.LLMModel != "" {
		briefingConfig.LLMModel = cfg.Briefing.LLMModel
	}
	if cfg.Briefing.LLMTemperature > 0 {
		briefingConfig.LLMTemperature = cfg.Briefing.LLMTemperature
	}
	if cfg.Briefing.LLMMaxTokens > 0 {
		briefingConfig.LLMMaxTokens = cfg.Briefing.LLMMaxTokens
	}
	if cfg.Briefing.SystemPromptPath != "" {
		prompt, err := os.ReadFile(cfg.Briefing.SystemPromptPath)
		if err != nil {
			log.Error("Failed to read system prompt file, using built-in prompt",
				logger.Error(err),
				logger.String("path", cfg.Briefing.SystemPromptPath))
		} else {
			briefingConfig.SystemPrompt = string(prompt)
		}
	}

	briefingService := briefing.NewService(briefingConfig, weatherService, briefingStorage, wsServer, chatProvider, log)

	// Route briefing requests arriving over WebSocket to the briefing service
	wsHandler := briefing.NewWebSocketHandler(briefingService, log)
	wsServer.SetMessageHandler(wsHandler)

	// Create API router
	router := api.NewRouter(briefingService, weatherService, cfg, log, wsServer)

	// --- Setup for multiple HTTP servers ---
	var servers []*http.Server
	allPorts := []int{cfg.Server.Port}
	if len(cfg.Server.AdditionalPorts) > 0 {
		allPorts = append(allPorts, cfg.Server.AdditionalPorts...)
	}

	log.Info("Configured listener ports", logger.Any("ports", allPorts))

	for _, port := range allPorts {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, port)
		server := &http.Server{
			Addr:         addr,
			Handler:      router.Routes(), // All servers use the same main router
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSecs) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSecs) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSecs) * time.Second,
		}
		servers = append(servers, server)

		go func(s *http.Server) {
			log.Info("Starting HTTP server", logger.String("addr", s.Addr))
			if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("HTTP server error on startup", logger.String("addr", s.Addr), logger.Error(err))
			}
		}(server)
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down server...")

	// Stop background services first
	log.Info("Stopping weather service...")
	if err := weatherService.Stop(); err != nil {
		log.Error("Error stopping weather service", logger.Error(err))
	}
	log.Info("Weather service stopped.")

	// Cancel the main context
	cancel()

	// Shutdown all HTTP servers
	log.Info("Shutting down HTTP servers...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	var wg sync.WaitGroup
	for _, s := range servers {
		wg.Add(1)
		go func(srv *http.Server) {
			defer wg.Done()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("HTTP server shutdown error", logger.String("addr", srv.Addr), logger.Error(err))
			} else {
				log.Info("HTTP server shutdown complete", logger.String("addr", srv.Addr))
			}
		}(s)
	}
	wg.Wait()

	log.Info("Server fully stopped")
}
