package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/artcc-atlas/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all viewer settings, populated from environment variables.
type Config struct {
	// Data sources: local paths or http(s) URLs.
	AttributeSource string
	RegionSource    string
	OverlaySources  []string
	PointSource     string
	LoadTimeout     time.Duration

	// Dataset layout.
	Attributes      []string
	KeyField        string
	NameField       string
	ExternalIDField string
	PointNameField  string

	// Classification.
	ClassCount  int
	Palette     []string
	NoDataColor string

	ActivateURL string

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	LogFile         string
	ShutdownTimeout time.Duration

	// Interaction event publishing.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from the environment, applying defaults where unset.
// Variables from ENV_FILE (default ".env") fill in anything not already set;
// a missing file is ignored.
func Load() (*Config, error) {
	if err := loadEnvFile(sharedcfg.EnvOrDefault("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	loadTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("LOAD_TIMEOUT", "30s"))
	if err != nil || loadTimeout <= 0 {
		return nil, errors.New("invalid LOAD_TIMEOUT")
	}

	classCount, err := parseClassCount()
	if err != nil {
		return nil, err
	}

	palette, err := parsePalette(classCount)
	if err != nil {
		return nil, err
	}

	var brokers []string
	if raw := os.Getenv("KAFKA_BROKERS"); strings.TrimSpace(raw) != "" {
		brokers = sharedcfg.ParseBrokers(raw)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		AttributeSource: sharedcfg.EnvOrDefault("ATTRIBUTE_SOURCE", "data/ARTCCData.csv"),
		RegionSource:    sharedcfg.EnvOrDefault("REGION_SOURCE", "data/ARTCCs.geojson"),
		OverlaySources:  splitList(optionalSource("OVERLAY_SOURCES", "data/CONUS.geojson,data/BackgroundCountries.geojson")),
		PointSource:     optionalSource("POINT_SOURCE", "data/points.geojson"),
		LoadTimeout:     loadTimeout,

		Attributes:      parseAttributes(),
		KeyField:        sharedcfg.EnvOrDefault("KEY_FIELD", "IDENT"),
		NameField:       sharedcfg.EnvOrDefault("NAME_FIELD", "NAME"),
		ExternalIDField: sharedcfg.EnvOrDefault("EXTERNAL_ID_FIELD", "ICAO_ID"),
		PointNameField:  sharedcfg.EnvOrDefault("POINT_NAME_FIELD", "cityName"),

		ClassCount:  classCount,
		Palette:     palette,
		NoDataColor: sharedcfg.EnvOrDefault("NO_DATA_COLOR", domain.DefaultNoDataColor),

		ActivateURL: sharedcfg.EnvOrDefault("ACTIVATE_URL", "https://www.airnav.com/airport/"),

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		LogFile:         sharedcfg.EnvOrDefault("LOG_FILE", DefaultLogFile()),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers: brokers,
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "artcc-interactions"),
		KafkaEnabled: kafkaEnabled,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) validate() error {
	if cfg.AttributeSource == "" {
		return errors.New("ATTRIBUTE_SOURCE is required")
	}
	if cfg.RegionSource == "" {
		return errors.New("REGION_SOURCE is required")
	}
	if len(cfg.Attributes) == 0 {
		return errors.New("ATTRIBUTES must name at least one attribute")
	}
	if cfg.KeyField == "" {
		return errors.New("KEY_FIELD is required")
	}
	if !isHexColor(cfg.NoDataColor) {
		return fmt.Errorf("invalid NO_DATA_COLOR %q", cfg.NoDataColor)
	}
	u, err := url.Parse(cfg.ActivateURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid ACTIVATE_URL %q", cfg.ActivateURL)
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required")
	}
	return nil
}

// DefaultLogFile returns the log path used when LOG_FILE is unset.
func DefaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "artcc-atlas", "artccmap.log")
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load ENV_FILE %s: %w", path, err)
	}
	return nil
}

func parseAttributes() []string {
	if v := os.Getenv("ATTRIBUTES"); v != "" {
		return splitList(v)
	}
	return append([]string(nil), domain.DefaultAttributes...)
}

func parseClassCount() (int, error) {
	s := sharedcfg.EnvOrDefault("CLASS_COUNT", strconv.Itoa(domain.DefaultClassCount))
	n, err := strconv.Atoi(s)
	if err != nil || n < 3 || n > 9 {
		return 0, fmt.Errorf("invalid CLASS_COUNT %q: must be between 3 and 9", s)
	}
	return n, nil
}

func parsePalette(classes int) ([]string, error) {
	raw := os.Getenv("PALETTE")
	if raw == "" {
		colors, _ := domain.GnBu(classes)
		return colors, nil
	}
	colors := splitList(raw)
	if len(colors) != classes {
		return nil, fmt.Errorf("PALETTE has %d colours, CLASS_COUNT is %d", len(colors), classes)
	}
	for _, c := range colors {
		if !isHexColor(c) {
			return nil, fmt.Errorf("invalid PALETTE colour %q", c)
		}
	}
	return colors, nil
}

// optionalSource returns the default only when key is unset. Setting key to
// an empty value disables the source.
func optionalSource(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(v)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isHexColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(s[1:], 16, 32)
	return err == nil
}
