package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	httpapi "github.com/i474232898/weather-alert-relay/internal/api/http"
	"github.com/i474232898/weather-alert-relay/internal/config"
	"github.com/i474232898/weather-alert-relay/internal/observability"
	"github.com/i474232898/weather-alert-relay/internal/puck"
	"github.com/i474232898/weather-alert-relay/internal/scheduler"
	"github.com/i474232898/weather-alert-relay/internal/weather"
	"github.com/i474232898/weather-alert-relay/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	weatherbit := providers.NewWeatherbitProvider(httpClient, cfg.WeatherbitAPIKey, cfg.Country, metrics)
	if cfg.WeatherbitAPIKey == "" {
		logger.Warn("WEATHERBIT_API_KEY is not set; every report will fail")
	}

	var (
		alerts   weather.AlertProvider
		resolver weather.RegionResolver
	)
	switch cfg.AlertProvider {
	case config.AlertProviderWeatherbit:
		alerts = weatherbit
		resolver = weather.PostalCodeResolver{}
	default:
		nws := providers.NewNWSProvider(httpClient, cfg.NWSUserAgent, metrics)
		var coords weather.CoordinateLookup = providers.NewZippopotamLookup(httpClient, cfg.Country, metrics)
		if cfg.GoogleGeocoderAPIKey != "" {
			coords = providers.NewGoogleLookup(cfg.GoogleGeocoderAPIKey, cfg.Country, metrics)
			logger.Info("google geocoding enabled")
		}
		alerts = nws
		resolver = weather.NewGeoResolver(coords, nws)
	}
	logger.Info("alert provider configured", "provider", alerts.Name(), "vocabulary", alerts.Vocabulary())

	var relay *weather.DeviceRelay
	if cfg.PuckEnabled() {
		device := puck.NewClient(cfg.PuckURL, &http.Client{Timeout: cfg.PuckTimeout})
		relay = weather.NewDeviceRelay(device, clockwork.NewRealClock(), cfg.PuckTimeout, cfg.PuckLEDClearAfter, logger, metrics)
		logger.Info("puck relay enabled", "url", cfg.PuckURL, "led_clear_after", cfg.PuckLEDClearAfter)
	} else {
		logger.Info("puck relay disabled")
	}

	// Core service orchestrating providers and the device relay.
	service := weather.NewService(weatherbit, resolver, alerts, relay, logger, metrics)

	// Background refresh for watched postal codes.
	var watched []weather.Request
	for _, pc := range cfg.WatchPostalCodes {
		watched = append(watched, weather.Request{
			PostalCode:        pc,
			SeverityThreshold: cfg.WatchSeverity,
			ColorPreference:   cfg.WatchColor,
		})
	}
	sched := scheduler.New(watched, cfg.RefreshInterval, 4*cfg.HTTPTimeout, service, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := httpapi.NewApp(service)

	go func() {
		logger.Info("http server starting", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
	}
	if relay != nil {
		relay.Wait()
	}
}
