package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matryer/is"
)

func TestLoadDefaults(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	cwd, err := os.Getwd()
	is.NoErr(err)
	is.NoErr(os.Chdir(dir))
	defer os.Chdir(cwd)

	cfg, err := Load("")
	is.NoErr(err)
	is.Equal(cfg.Games, 1)
	is.Equal(cfg.MoveTimeMs, 1000)
	is.Equal(cfg.MaxDepth, 64)
	is.Equal(cfg.TTSizeMB, 64)
	is.Equal(cfg.LogLevel, "info")
}

func TestLoadFromFile(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	is.NoErr(os.WriteFile(path, []byte("games: 10\nmove_time_ms: 250\nlog_level: debug\n"), 0o644))

	cfg, err := Load(path)
	is.NoErr(err)
	is.Equal(cfg.Games, 10)
	is.Equal(cfg.MoveTimeMs, 250)
	is.Equal(cfg.LogLevel, "debug")
	is.Equal(cfg.MaxDepth, 64) // untouched default
}

func TestLoadEnvOverride(t *testing.T) {
	is := is.New(t)
	t.Setenv("ARENA_GAMES", "7")
	t.Setenv("ARENA_TT_SIZE_MB", "16")

	dir := t.TempDir()
	cwd, err := os.Getwd()
	is.NoErr(err)
	is.NoErr(os.Chdir(dir))
	defer os.Chdir(cwd)

	cfg, err := Load("")
	is.NoErr(err)
	is.Equal(cfg.Games, 7)
	is.Equal(cfg.TTSizeMB, 16)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("explicit missing config file should error")
	}
}
