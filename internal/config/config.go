package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream API configuration.
	NominatimURL    string
	GeocoderCountry string
	NWSURL          string
	UserAgent       string
	RequestTimeout  time.Duration // 0 disables the timeout

	// Number of forecast cards visible at once; 0 shows all.
	WindowSize int

	// Lookup event publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s", false)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", "10s", true)
	if err != nil {
		return nil, err
	}

	windowSize, err := parseWindowSize()
	if err != nil {
		return nil, err
	}

	brokers := parseBrokers(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NominatimURL:    envOrDefault("NOMINATIM_URL", "https://nominatim.openstreetmap.org/search"),
		GeocoderCountry: envOrDefault("GEOCODER_COUNTRY", "USA"),
		NWSURL:          strings.TrimRight(envOrDefault("NWS_URL", "https://api.weather.gov"), "/"),
		UserAgent:       envOrDefault("USER_AGENT", "zip-forecast/1.0"),
		RequestTimeout:  requestTimeout,

		WindowSize: windowSize,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: brokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "forecast-lookups"),
	}

	if cfg.NominatimURL == "" {
		return nil, errors.New("NOMINATIM_URL is required")
	}
	if cfg.NWSURL == "" {
		return nil, errors.New("NWS_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when publishing is enabled")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

// parseDuration reads a positive duration. When allowZero is set, "0"
// is accepted and means "no limit".
func parseDuration(key, fallback string, allowZero bool) (time.Duration, error) {
	s := envOrDefault(key, fallback)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 || (d == 0 && !allowZero) {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func parseWindowSize() (int, error) {
	s := envOrDefault("CAROUSEL_WINDOW", "3")
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid CAROUSEL_WINDOW %q", s)
	}
	return n, nil
}

func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
