package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultSourceURL is the published survey workbook.
const DefaultSourceURL = "https://raw.githubusercontent.com/hermecp/mapacuestionario/main/Encuesta%20DHA.xlsx"

// Config holds the full application configuration.
type Config struct {
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	Survey   SurveyConfig   `yaml:"survey" mapstructure:"survey"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Map      MapConfig      `yaml:"map" mapstructure:"map"`
	Export   ExportConfig   `yaml:"export" mapstructure:"export"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// SourceConfig locates the survey workbook.
type SourceConfig struct {
	Kind        string `yaml:"kind" mapstructure:"kind"`
	Location    string `yaml:"location" mapstructure:"location"`
	SheetIndex  int    `yaml:"sheet_index" mapstructure:"sheet_index"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBytes    int64  `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// Timeout returns the fetch timeout.
func (s SourceConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// SurveyConfig describes the survey shape.
type SurveyConfig struct {
	LatitudeColumn  string   `yaml:"latitude_column" mapstructure:"latitude_column"`
	LongitudeColumn string   `yaml:"longitude_column" mapstructure:"longitude_column"`
	ExcludedColumns []string `yaml:"excluded_columns" mapstructure:"excluded_columns"`
	Profile         string   `yaml:"profile" mapstructure:"profile"`
}

// AnalysisConfig configures frequency tables.
type AnalysisConfig struct {
	Order string `yaml:"order" mapstructure:"order"`
}

// MapConfig configures the interactive map.
type MapConfig struct {
	CenterLat    float64 `yaml:"center_lat" mapstructure:"center_lat"`
	CenterLon    float64 `yaml:"center_lon" mapstructure:"center_lon"`
	Zoom         int     `yaml:"zoom" mapstructure:"zoom"`
	MarkerRadius int     `yaml:"marker_radius" mapstructure:"marker_radius"`
	TileURL      string  `yaml:"tile_url" mapstructure:"tile_url"`
	Attribution  string  `yaml:"attribution" mapstructure:"attribution"`
}

// ExportConfig configures downloads.
type ExportConfig struct {
	ImagesEnabled bool `yaml:"images_enabled" mapstructure:"images_enabled"`
	DPI           int  `yaml:"dpi" mapstructure:"dpi"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	SessionTTLMins int      `yaml:"session_ttl_mins" mapstructure:"session_ttl_mins"`
	MaxSessions    int      `yaml:"max_sessions" mapstructure:"max_sessions"`
	RenderRPS      float64  `yaml:"render_rps" mapstructure:"render_rps"`
	RenderBurst    int      `yaml:"render_burst" mapstructure:"render_burst"`
	CORSOrigins    []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// SessionTTL returns the idle session lifetime.
func (s ServerConfig) SessionTTL() time.Duration {
	return time.Duration(s.SessionTTLMins) * time.Minute
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MAPA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("source.kind", "remote")
	v.SetDefault("source.location", DefaultSourceURL)
	v.SetDefault("source.sheet_index", 1)
	v.SetDefault("source.timeout_secs", 30)
	v.SetDefault("source.user_agent", "mapacuestionario/1.0")
	v.SetDefault("source.max_bytes", 64<<20)
	v.SetDefault("survey.latitude_column", "_start-geopoint_latitude")
	v.SetDefault("survey.longitude_column", "_start-geopoint_longitude")
	v.SetDefault("survey.excluded_columns", []string{
		"start", "end", "start-geopoint",
		"_start-geopoint_latitude", "_start-geopoint_longitude",
		"_start-geopoint_altitude", "_start-geopoint_precision",
	})
	v.SetDefault("survey.profile", "")
	v.SetDefault("analysis.order", "label")
	v.SetDefault("map.center_lat", 17.0257)
	v.SetDefault("map.center_lon", -96.7353)
	v.SetDefault("map.zoom", 15)
	v.SetDefault("map.marker_radius", 6)
	v.SetDefault("map.tile_url", "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png")
	v.SetDefault("map.attribution", "&copy; OpenStreetMap contributors")
	v.SetDefault("export.images_enabled", true)
	v.SetDefault("export.dpi", 300)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.session_ttl_mins", 60)
	v.SetDefault("server.max_sessions", 32)
	v.SetDefault("server.render_rps", 2.0)
	v.SetDefault("server.render_burst", 4)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.ApplyProfile(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the fields a command mode depends on. Every problem is
// reported in one error.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Server.MaxSessions < 1 {
			errs = append(errs, "server.max_sessions must be >= 1")
		}
		if c.Server.RenderRPS <= 0 {
			errs = append(errs, "server.render_rps must be > 0")
		}
		if c.Map.Zoom < 0 || c.Map.Zoom > 22 {
			errs = append(errs, "map.zoom must be between 0 and 22")
		}
	case "columns", "export":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Source.Kind {
	case "remote", "local":
	default:
		errs = append(errs, `source.kind must be "remote" or "local"`)
	}
	if strings.TrimSpace(c.Source.Location) == "" {
		errs = append(errs, "source.location is required")
	}
	if c.Source.SheetIndex < 0 {
		errs = append(errs, "source.sheet_index must be >= 0")
	}
	if c.Survey.LatitudeColumn == "" || c.Survey.LongitudeColumn == "" {
		errs = append(errs, "survey.latitude_column and survey.longitude_column are required")
	}
	switch c.Analysis.Order {
	case "label", "first_seen":
	default:
		errs = append(errs, `analysis.order must be "label" or "first_seen"`)
	}
	if c.Export.ImagesEnabled && c.Export.DPI <= 0 {
		errs = append(errs, "export.dpi must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
