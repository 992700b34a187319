package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `json:"server" yaml:"server"`
	Feed     FeedConfig     `json:"feed" yaml:"feed"`
	Display  DisplayConfig  `json:"display" yaml:"display"`
	Sessions SessionsConfig `json:"sessions" yaml:"sessions"`
}

// ServerConfig for HTTP server settings
type ServerConfig struct {
	Port         string `json:"port" yaml:"port" validate:"required,numeric"`
	ReadTimeout  int    `json:"read_timeout_seconds" yaml:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeout int    `json:"write_timeout_seconds" yaml:"write_timeout_seconds" validate:"gte=0"`
}

// FeedConfig points at the upstream events API
type FeedConfig struct {
	URL       string `json:"url" yaml:"url" validate:"required,http_url"`
	UserAgent string `json:"user_agent" yaml:"user_agent"`
	// Zero disables the client-side timeout.
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds" validate:"gte=0"`
}

// DisplayConfig for rendering fallbacks and the map viewport
type DisplayConfig struct {
	Timezone         string  `json:"timezone" yaml:"timezone" validate:"required"`
	DefaultLocation  string  `json:"default_location" yaml:"default_location" validate:"required"`
	DefaultLatitude  float64 `json:"default_latitude" yaml:"default_latitude" validate:"latitude"`
	DefaultLongitude float64 `json:"default_longitude" yaml:"default_longitude" validate:"longitude"`
	MapZoom          int     `json:"map_zoom" yaml:"map_zoom" validate:"min=1,max=19"`
	FocusZoom        int     `json:"focus_zoom" yaml:"focus_zoom" validate:"min=1,max=19"`
	TileURL          string  `json:"tile_url" yaml:"tile_url" validate:"required"`
}

// SessionsConfig bounds the per-page-load widget sessions
type SessionsConfig struct {
	IdleTTLMinutes int `json:"idle_ttl_minutes" yaml:"idle_ttl_minutes" validate:"gt=0"`
	MaxSessions    int `json:"max_sessions" yaml:"max_sessions" validate:"gt=0"`
}

// Load reads configuration from file and environment variables.
// Files ending in .yaml/.yml are YAML, anything else is JSON.
// Environment variables override file values using the pattern EVENTSWIDGET_SECTION_KEY
func Load(configPath string) (*Config, error) {
	config := &Config{}

	// Load from file if it exists
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := decode(configPath, data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Apply defaults
	applyDefaults(config)

	// Override with environment variables
	applyEnvOverrides(config)

	return config, nil
}

func decode(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	default:
		return json.Unmarshal(data, config)
	}
}

func applyDefaults(config *Config) {
	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Server.ReadTimeout == 0 {
		config.Server.ReadTimeout = 30
	}
	if config.Server.WriteTimeout == 0 {
		config.Server.WriteTimeout = 30
	}
	if config.Feed.URL == "" {
		config.Feed.URL = "http://127.0.0.1:5000/api/events"
	}
	if config.Feed.UserAgent == "" {
		config.Feed.UserAgent = "EventsWidget/1.0"
	}
	if config.Display.Timezone == "" {
		config.Display.Timezone = "Europe/London"
	}
	if config.Display.DefaultLocation == "" {
		config.Display.DefaultLocation = "London"
	}
	if config.Display.DefaultLatitude == 0 && config.Display.DefaultLongitude == 0 {
		config.Display.DefaultLatitude = 51.5074
		config.Display.DefaultLongitude = -0.1278
	}
	if config.Display.MapZoom == 0 {
		config.Display.MapZoom = 13
	}
	if config.Display.FocusZoom == 0 {
		config.Display.FocusZoom = 15
	}
	if config.Display.TileURL == "" {
		config.Display.TileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	}
	if config.Sessions.IdleTTLMinutes == 0 {
		config.Sessions.IdleTTLMinutes = 30
	}
	if config.Sessions.MaxSessions == 0 {
		config.Sessions.MaxSessions = 1000
	}
}

func applyEnvOverrides(config *Config) {
	// Server overrides
	if v := os.Getenv("EVENTSWIDGET_SERVER_PORT"); v != "" {
		config.Server.Port = v
	}

	// Feed overrides
	if v := os.Getenv("EVENTSWIDGET_FEED_URL"); v != "" {
		config.Feed.URL = v
	}
	if v := os.Getenv("EVENTSWIDGET_FEED_USER_AGENT"); v != "" {
		config.Feed.UserAgent = v
	}
	if v := os.Getenv("EVENTSWIDGET_FEED_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Feed.TimeoutSeconds = n
		}
	}

	// Display overrides
	if v := os.Getenv("EVENTSWIDGET_DISPLAY_TIMEZONE"); v != "" {
		config.Display.Timezone = v
	}
	if v := os.Getenv("EVENTSWIDGET_DISPLAY_DEFAULT_LOCATION"); v != "" {
		config.Display.DefaultLocation = v
	}

	// Session overrides
	if v := os.Getenv("EVENTSWIDGET_SESSIONS_IDLE_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Sessions.IdleTTLMinutes = n
		}
	}
}

// Timeout is the upstream request timeout; zero means none.
func (c *FeedConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// IdleTTL is how long an untouched widget session is kept.
func (c *SessionsConfig) IdleTTL() time.Duration {
	return time.Duration(c.IdleTTLMinutes) * time.Minute
}

// LoadLocation resolves the display timezone
func (c *DisplayConfig) LoadLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid display timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks if required configurations are present and well formed
func (c *Config) Validate() error {
	var problems []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("failed to validate config: %w", err)
		}
		for _, fe := range verrs {
			problems = append(problems, fmt.Sprintf("%s (%s)", fieldPath(fe.Namespace()), fe.Tag()))
		}
	}

	if _, err := c.Display.LoadLocation(); err != nil {
		problems = append(problems, "display.timezone (unknown zone)")
	}

	if c.Display.FocusZoom < c.Display.MapZoom {
		problems = append(problems, "display.focus_zoom (must not be below map_zoom)")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, ", "))
	}

	return nil
}

// fieldPath turns "Config.display.map_zoom" into "display.map_zoom".
func fieldPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
