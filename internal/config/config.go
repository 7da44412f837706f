package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

const (
	defaultRecruitsURL = "https://raw.githubusercontent.com/BenDavis71/ImGonnaCroot500Miles/master/recruits-lat-long.csv"
	defaultTeamsURL    = "https://raw.githubusercontent.com/BenDavis71/ImGonnaCroot500Miles/master/teams-lat-long.csv"
	defaultTeams       = "USC,Nebraska,Texas,Alabama,Ohio State"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	RecruitsURL        string
	TeamsURL           string
	FetchTimeout       time.Duration
	DatasetTTL         time.Duration // 0 keeps the first load for the process lifetime
	OrphanCommitPolicy string
	DefaultTeams       []string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Mapbox geocoding configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Kafka connection publishing.
	KafkaEnabled          bool
	KafkaBrokers          []string
	KafkaConnectionsTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	ttl, err := time.ParseDuration(sharedcfg.EnvOrDefault("DATASET_TTL", "0s"))
	if err != nil || ttl < 0 {
		return nil, errors.New("invalid DATASET_TTL: must be a non-negative duration")
	}

	policy := strings.ToLower(sharedcfg.EnvOrDefault("ORPHAN_COMMIT_POLICY", "warn"))
	switch policy {
	case "warn", "drop", "reject":
	default:
		return nil, fmt.Errorf("invalid ORPHAN_COMMIT_POLICY %q: must be warn, drop or reject", policy)
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		RecruitsURL:        sharedcfg.EnvOrDefault("RECRUITS_URL", defaultRecruitsURL),
		TeamsURL:           sharedcfg.EnvOrDefault("TEAMS_URL", defaultTeamsURL),
		FetchTimeout:       fetchTimeout,
		DatasetTTL:         ttl,
		OrphanCommitPolicy: policy,
		DefaultTeams:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("DEFAULT_TEAMS", defaultTeams)), // same comma-list rules

		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		KafkaEnabled:          os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:          sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaConnectionsTopic: sharedcfg.EnvOrDefault("KAFKA_CONNECTIONS_TOPIC", "recruiting-connections"),
	}

	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func parsePositiveDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive duration", key)
	}
	return d, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
