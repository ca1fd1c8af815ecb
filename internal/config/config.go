// Package config provides Viper-based configuration loading for the dungeon generator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/cory-johannsen/dungeonmap/internal/game/dungeon"
)

// GenerationConfig holds the default generation parameters and map size.
type GenerationConfig struct {
	Size         string `mapstructure:"size"`
	Density      int    `mapstructure:"density"`
	Algorithm    string `mapstructure:"algorithm"`
	Theme        string `mapstructure:"theme"`
	DungeonLevel int    `mapstructure:"dungeon_level"`
	// Seed fixes the random source; 0 draws from crypto randomness.
	Seed        uint64 `mapstructure:"seed"`
	GridCols    int    `mapstructure:"grid_cols"`
	GridRows    int    `mapstructure:"grid_rows"`
	MinRoomSize int    `mapstructure:"min_room_size"`
	MaxRoomSize int    `mapstructure:"max_room_size"`
}

// Params converts the section into generation parameters.
//
// Postcondition: the result is not validated; call Validate on it or on Config.
func (g GenerationConfig) Params() dungeon.Params {
	return dungeon.Params{
		Size:         dungeon.Size(g.Size),
		Density:      g.Density,
		Algorithm:    dungeon.Algorithm(g.Algorithm),
		Theme:        dungeon.Theme(g.Theme),
		DungeonLevel: g.DungeonLevel,
		MinRoomSize:  g.MinRoomSize,
		MaxRoomSize:  g.MaxRoomSize,
	}
}

// Grid returns the configured map dimensions.
func (g GenerationConfig) Grid() dungeon.Grid {
	return dungeon.Grid{Cols: g.GridCols, Rows: g.GridRows}
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogFileConfig configures the optional rotated log file.
type LogFileConfig struct {
	// Path is the log file location; empty disables file output.
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string        `mapstructure:"format"`
	File   LogFileConfig `mapstructure:"file"`
}

// Config is the top-level application configuration.
type Config struct {
	Generation GenerationConfig `mapstructure:"generation"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Database   DatabaseConfig   `mapstructure:"database"`
}

// Validate checks every section and reports all violations at once.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	errs = append(errs, c.Generation.violations()...)
	errs = append(errs, c.Logging.violations()...)
	errs = append(errs, c.Database.violations()...)
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (g GenerationConfig) violations() []string {
	var errs []string
	if err := g.Params().Validate(); err != nil {
		errs = append(errs, "generation: "+err.Error())
	}
	if g.GridCols < minGridSide || g.GridRows < minGridSide {
		errs = append(errs, fmt.Sprintf("generation grid must be at least %dx%d, got %dx%d",
			minGridSide, minGridSide, g.GridCols, g.GridRows))
	}
	return errs
}

// minGridSide leaves room for a one-cell border around a one-cell room.
const minGridSide = 3

func (l LoggingConfig) violations() []string {
	var errs []string
	switch l.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level must be one of [debug, info, warn, error], got %q", l.Level))
	}
	switch l.Format {
	case "json", "console":
	default:
		errs = append(errs, fmt.Sprintf("logging.format must be one of [json, console], got %q", l.Format))
	}
	if l.File.Path != "" && min(l.File.MaxSizeMB, l.File.MaxBackups, l.File.MaxAgeDays) < 0 {
		errs = append(errs, "logging.file limits must not be negative")
	}
	return errs
}

func (d DatabaseConfig) violations() []string {
	var errs []string
	for _, f := range [][2]string{{"host", d.Host}, {"user", d.User}, {"name", d.Name}} {
		if f[1] == "" {
			errs = append(errs, "database."+f[0]+" must not be empty")
		}
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	switch d.SSLMode {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	switch {
	case d.MaxConns < 1:
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	case d.MinConns < 0:
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	case d.MinConns > d.MaxConns:
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	return errs
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with DUNGEON_ prefix
	v.SetEnvPrefix("DUNGEON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := dungeon.DefaultParams()
	v.SetDefault("generation.size", string(def.Size))
	v.SetDefault("generation.density", def.Density)
	v.SetDefault("generation.algorithm", string(def.Algorithm))
	v.SetDefault("generation.theme", string(def.Theme))
	v.SetDefault("generation.dungeon_level", def.DungeonLevel)
	v.SetDefault("generation.seed", 0)
	v.SetDefault("generation.grid_cols", dungeon.DefaultGrid.Cols)
	v.SetDefault("generation.grid_rows", dungeon.DefaultGrid.Rows)
	v.SetDefault("generation.min_room_size", 0)
	v.SetDefault("generation.max_room_size", 0)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.file.path", "")
	v.SetDefault("logging.file.max_size_mb", 100)
	v.SetDefault("logging.file.max_backups", 3)
	v.SetDefault("logging.file.max_age_days", 28)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "dungeon")
	v.SetDefault("database.password", "dungeon")
	v.SetDefault("database.name", "dungeon")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")
}
