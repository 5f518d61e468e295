package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Alert providers.
const (
	AlertProviderNWS        = "nws"
	AlertProviderWeatherbit = "weatherbit"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration // per outbound call

	// Country is the ISO country code postal codes belong to.
	Country string

	WeatherbitAPIKey     string
	AlertProvider        string
	NWSUserAgent         string
	GoogleGeocoderAPIKey string // optional; zippopotam.us is used when empty

	// Puck. An empty PuckURL disables device pushes.
	PuckURL           string
	PuckTimeout       time.Duration
	PuckLEDClearAfter time.Duration

	// Postal codes refreshed in the background, pushing to the Puck each time.
	WatchPostalCodes []string
	WatchSeverity    int
	WatchColor       string
	RefreshInterval  time.Duration

	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Country = strings.ToUpper(getenvDefault("COUNTRY", "US"))
	cfg.WeatherbitAPIKey = os.Getenv("WEATHERBIT_API_KEY")
	cfg.NWSUserAgent = getenvDefault("NWS_USER_AGENT", "weather-alert-relay (https://github.com/i474232898/weather-alert-relay)")
	cfg.GoogleGeocoderAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	cfg.AlertProvider = strings.ToLower(getenvDefault("ALERT_PROVIDER", AlertProviderNWS))
	switch cfg.AlertProvider {
	case AlertProviderNWS, AlertProviderWeatherbit:
	default:
		return nil, fmt.Errorf("invalid ALERT_PROVIDER %q: want %s or %s", cfg.AlertProvider, AlertProviderNWS, AlertProviderWeatherbit)
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "5s"); err != nil {
		return nil, err
	}

	cfg.PuckURL = os.Getenv("PUCK_URL")
	if cfg.PuckTimeout, err = getenvDuration("PUCK_TIMEOUT", "3s"); err != nil {
		return nil, err
	}
	if cfg.PuckLEDClearAfter, err = getenvDuration("PUCK_LED_CLEAR_AFTER", "30s"); err != nil {
		return nil, err
	}

	cfg.WatchPostalCodes = splitList(os.Getenv("WATCH_POSTAL_CODES"))
	cfg.WatchSeverity = getenvInt("WATCH_SEVERITY", 1)
	cfg.WatchColor = os.Getenv("WATCH_COLOR")
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	cfg.LogLevel = getenvDefault("LOG_LEVEL", "info")
	cfg.LogFormat = getenvDefault("LOG_FORMAT", "json")

	return cfg, nil
}

// PuckEnabled reports whether device pushes are configured.
func (c *AppConfig) PuckEnabled() bool {
	return c.PuckURL != ""
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: negative duration", key)
	}
	return d, nil
}
