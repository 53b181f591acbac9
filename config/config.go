// Package config loads arena and engine settings from an optional
// arena.yaml file and ARENA_-prefixed environment variables.
package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config carries every tunable for the arena driver and the engines it
// spawns.
type Config struct {
	// Games is the number of games per arena run.
	Games int `mapstructure:"games"`
	// MoveTimeMs is the per-move budget in milliseconds.
	MoveTimeMs int `mapstructure:"move_time_ms"`
	// MaxMoves aborts a game as drawn after this many full moves.
	MaxMoves int `mapstructure:"max_moves"`
	// OpeningPlies is how many random opening half-moves each game
	// starts with, to diversify otherwise deterministic play.
	OpeningPlies int `mapstructure:"opening_plies"`

	// MaxDepth bounds each engine's iterative deepening.
	MaxDepth int `mapstructure:"max_depth"`
	// TTSizeMB is the per-engine transposition table size.
	TTSizeMB int `mapstructure:"tt_size_mb"`

	// LogLevel is a zerolog level name (debug, info, warn, ...).
	LogLevel string `mapstructure:"log_level"`
}

// Load reads arena.yaml from path (or the working directory when path is
// empty) and applies ARENA_* environment overrides. A missing file is
// fine; the defaults stand.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("arena")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("games", 1)
	v.SetDefault("move_time_ms", 1000)
	v.SetDefault("max_moves", 300)
	v.SetDefault("opening_plies", 0)
	v.SetDefault("max_depth", 64)
	v.SetDefault("tt_size_mb", 64)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && path == "" {
			return nil, err
		}
		if path != "" {
			// An explicit path that cannot be read is an error.
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
