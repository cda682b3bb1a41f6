// Package config loads planner settings from a YAML file, environment
// variables and built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration settings for the planner.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
	Calendar CalendarConfig `yaml:"calendar"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig points at the SQLite file.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds JWT settings.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	Issuer    string        `yaml:"issuer"`
	Audience  string        `yaml:"audience"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// LoggingConfig mirrors logging.Config in file form.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	FilePath   string `yaml:"file_path"`
	JSON       bool   `yaml:"json"`
	Console    bool   `yaml:"console"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// CalendarConfig shapes the month grid.
type CalendarConfig struct {
	// WeekStart is the first column of the grid (sunday, monday, ...)
	WeekStart string `yaml:"week_start"`

	// Timezone decides what "today" is (IANA name, "Local" or "UTC")
	Timezone string `yaml:"timezone"`
}

// SnapshotConfig locates the on-disk key-value snapshot store.
type SnapshotConfig struct {
	Dir string `yaml:"dir"`
}

// Default configuration values
const (
	DefaultPort         = 8008
	DefaultDatabasePath = "calendar-planner.db"
	DefaultJWTSecret    = "development-insecure-secret-change-me"
	DefaultIssuer       = "calendar-planner-api"
	DefaultAudience     = "calendar-planner-clients"
	DefaultTokenTTL     = 24 * time.Hour
	DefaultLogLevel     = "info"
	DefaultWeekStart    = "sunday"
	DefaultTimezone     = "Local"
	DefaultSnapshotDir  = "planner-snapshots"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server:   ServerConfig{Port: DefaultPort},
		Database: DatabaseConfig{Path: DefaultDatabasePath},
		Auth: AuthConfig{
			JWTSecret: DefaultJWTSecret,
			Issuer:    DefaultIssuer,
			Audience:  DefaultAudience,
			TokenTTL:  DefaultTokenTTL,
		},
		Logging: LoggingConfig{
			Level:      DefaultLogLevel,
			Console:    true,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     7,
			Compress:   true,
		},
		Calendar: CalendarConfig{
			WeekStart: DefaultWeekStart,
			Timezone:  DefaultTimezone,
		},
		Snapshot: SnapshotConfig{Dir: DefaultSnapshotDir},
	}
}

// Load reads configuration.
// Priority (highest to lowest):
// 1. Environment variables (PLANNER_*)
// 2. The YAML file at path, when path is not empty
// 3. Hardcoded defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if _, err := cfg.WeekStart(); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvOverrides() {
	if val := os.Getenv("PLANNER_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Server.Port = port
		}
	}
	if val := os.Getenv("PLANNER_DB_PATH"); val != "" {
		c.Database.Path = val
	}

	// JWT settings (the bare names are kept for existing deployments)
	if val := firstEnv("PLANNER_JWT_SECRET", "JWT_SECRET"); val != "" {
		c.Auth.JWTSecret = val
	}
	if val := firstEnv("PLANNER_JWT_ISSUER", "JWT_ISSUER"); val != "" {
		c.Auth.Issuer = val
	}
	if val := firstEnv("PLANNER_JWT_AUDIENCE", "JWT_AUDIENCE"); val != "" {
		c.Auth.Audience = val
	}
	if val := os.Getenv("PLANNER_TOKEN_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.Auth.TokenTTL = d
		}
	}

	if val := os.Getenv("PLANNER_LOG_LEVEL"); val != "" {
		c.Logging.Level = val
	}
	if val := os.Getenv("PLANNER_LOG_FILE"); val != "" {
		c.Logging.FilePath = val
	}
	if val := os.Getenv("PLANNER_LOG_JSON"); val != "" {
		c.Logging.JSON = val == "true" || val == "1" || val == "yes"
	}

	if val := os.Getenv("PLANNER_WEEK_START"); val != "" {
		c.Calendar.WeekStart = val
	}
	if val := os.Getenv("PLANNER_TIMEZONE"); val != "" {
		c.Calendar.Timezone = val
	}
	if val := os.Getenv("PLANNER_SNAPSHOT_DIR"); val != "" {
		c.Snapshot.Dir = val
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// WeekStart parses Calendar.WeekStart.
func (c *Config) WeekStart() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(c.Calendar.WeekStart))
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.ToLower(d.String()) == name {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid week_start %q", c.Calendar.WeekStart)
}

// Location resolves Calendar.Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Calendar.Timezone, err)
	}
	return loc, nil
}
