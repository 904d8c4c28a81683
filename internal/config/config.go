package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/recruit-map-etl/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// City resolution.
	UnresolvedPolicy domain.Policy
	Fallback         domain.Geo

	// Dashboard settings.
	MapCenter         domain.Geo
	ClusterResolution int
	SessionTTL        time.Duration
	MaxUploadBytes    int64

	// Optional Kafka record sink; disabled when KafkaBrokers is empty.
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// SinkEnabled reports whether records should be published to Kafka.
func (c *Config) SinkEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first; variables already set
// in the environment take precedence.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	policy, err := domain.ParsePolicy(strings.ToLower(sharedcfg.EnvOrDefault("UNRESOLVED_CITY_POLICY", string(domain.PolicyDrop))))
	if err != nil {
		return nil, fmt.Errorf("invalid UNRESOLVED_CITY_POLICY: %w", err)
	}

	fallback, err := parseGeo("FALLBACK_LAT", "FALLBACK_LON", domain.DefaultFallback)
	if err != nil {
		return nil, err
	}

	center, err := parseGeo("MAP_CENTER_LAT", "MAP_CENTER_LON", domain.Geo{Lat: 21.7679, Lon: 78.8718})
	if err != nil {
		return nil, err
	}

	resolution, err := strconv.Atoi(sharedcfg.EnvOrDefault("CLUSTER_RESOLUTION", "4"))
	if err != nil || resolution < 0 || resolution > 15 {
		return nil, errors.New("invalid CLUSTER_RESOLUTION: must be an integer between 0 and 15")
	}

	sessionTTL, err := time.ParseDuration(sharedcfg.EnvOrDefault("SESSION_TTL", "30m"))
	if err != nil || sessionTTL <= 0 {
		return nil, errors.New("invalid SESSION_TTL")
	}

	maxUpload, err := strconv.ParseInt(sharedcfg.EnvOrDefault("MAX_UPLOAD_BYTES", "33554432"), 10, 64)
	if err != nil || maxUpload <= 0 {
		return nil, errors.New("invalid MAX_UPLOAD_BYTES")
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		UnresolvedPolicy: policy,
		Fallback:         fallback,

		MapCenter:         center,
		ClusterResolution: resolution,
		SessionTTL:        sessionTTL,
		MaxUploadBytes:    maxUpload,

		KafkaBrokers:   sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "candidate-records"),
	}

	if cfg.SinkEnabled() && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

func parseGeo(latKey, lonKey string, def domain.Geo) (domain.Geo, error) {
	g := def
	if s := os.Getenv(latKey); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < -90 || v > 90 {
			return domain.Geo{}, fmt.Errorf("invalid %s", latKey)
		}
		g.Lat = v
	}
	if s := os.Getenv(lonKey); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < -180 || v > 180 {
			return domain.Geo{}, fmt.Errorf("invalid %s", lonKey)
		}
		g.Lon = v
	}
	return g, nil
}
