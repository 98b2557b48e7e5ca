// Package config loads labyrinth settings.
//
// Settings come from three layers, later layers winning:
//
//  1. Built-in defaults ([Default])
//  2. A TOML file, by default $XDG_CONFIG_HOME/labyrinth/config.toml
//  3. LABYRINTH_* environment variables, optionally seeded from a .env file
//
// A missing file is not an error. Unknown keys in the file are, so typos
// don't silently fall back to defaults.
//
// Example config.toml:
//
//	[render]
//	resolution = 12
//	accent = "#00aa88"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[archive]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/labyrinth/pkg/archive"
	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
	"github.com/matzehuels/labyrinth/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// AppName names the config and cache directories.
	AppName = "labyrinth"

	// FileName is the config file name inside the config directory.
	FileName = "config.toml"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "LABYRINTH_"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Archive backends.
const (
	ArchiveMemory = "memory"
	ArchiveMongo  = "mongo"
	ArchiveNone   = "none"
)

// =============================================================================
// Config
// =============================================================================

// Config holds every configurable setting.
type Config struct {
	Render  RenderConfig  `toml:"render"`
	Cache   CacheConfig   `toml:"cache"`
	Archive ArchiveConfig `toml:"archive"`
	Server  ServerConfig  `toml:"server"`
}

// RenderConfig holds defaults for generated mazes and their images.
// Command-line flags and query parameters override them.
type RenderConfig struct {
	Width         int      `toml:"width"`
	Height        int      `toml:"height"`
	Resolution    int      `toml:"resolution"`
	Scale         int      `toml:"scale"`
	Formats       []string `toml:"formats"`
	Background    string   `toml:"background"`
	Wall          string   `toml:"wall"`
	Accent        string   `toml:"accent"`
	NoOriginMark  bool     `toml:"no_origin_mark"`
	NoDeepestMark bool     `toml:"no_deepest_mark"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend       string `toml:"backend"` // file, redis or none
	Dir           string `toml:"dir"`     // file backend; empty uses the XDG cache dir
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// ArchiveConfig selects and configures the generation history.
type ArchiveConfig struct {
	Backend    string `toml:"backend"` // memory, mongo or none
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Capacity   int    `toml:"capacity"` // memory backend
}

// ServerConfig configures `labyrinth serve`.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	MaxCells int    `toml:"max_cells"`
}

// Default returns the built-in settings.
func Default() *Config {
	bg, wall, accent := render.DefaultPalette().Hex()
	return &Config{
		Render: RenderConfig{
			Width:      pipeline.DefaultWidth,
			Height:     pipeline.DefaultHeight,
			Resolution: pipeline.DefaultResolution,
			Scale:      pipeline.DefaultScale,
			Formats:    []string{pipeline.FormatPNG},
			Background: bg,
			Wall:       wall,
			Accent:     accent,
		},
		Cache: CacheConfig{
			Backend:     CacheFile,
			RedisAddr:   "localhost:6379",
			RedisPrefix: AppName + ":",
		},
		Archive: ArchiveConfig{
			Backend:    ArchiveMemory,
			Database:   archive.DefaultMongoDatabase,
			Collection: archive.DefaultMongoCollection,
			Capacity:   archive.DefaultMemoryCapacity,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			MaxCells: errors.MaxCells,
		},
	}
}

// =============================================================================
// Paths
// =============================================================================

// Dir returns the config directory using XDG standard (~/.config/labyrinth/).
func Dir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// CacheDir returns the cache directory using XDG standard (~/.cache/labyrinth/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the config file at path and applies environment overrides.
// Variables in envFile are used only where the real environment has no
// value. Either path may be empty to skip that layer.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	}

	dotenv := map[string]string{}
	if envFile != "" {
		m, err := godotenv.Read(envFile)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
		if m != nil {
			dotenv = m
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// envBinding maps one environment variable onto a config field.
type envBinding struct {
	name string
	str  *string
	num  *int
	flag *bool
}

func (c *Config) envBindings() []envBinding {
	return []envBinding{
		{name: "WIDTH", num: &c.Render.Width},
		{name: "HEIGHT", num: &c.Render.Height},
		{name: "RESOLUTION", num: &c.Render.Resolution},
		{name: "SCALE", num: &c.Render.Scale},
		{name: "BACKGROUND", str: &c.Render.Background},
		{name: "WALL", str: &c.Render.Wall},
		{name: "ACCENT", str: &c.Render.Accent},
		{name: "NO_ORIGIN_MARK", flag: &c.Render.NoOriginMark},
		{name: "NO_DEEPEST_MARK", flag: &c.Render.NoDeepestMark},
		{name: "CACHE_BACKEND", str: &c.Cache.Backend},
		{name: "CACHE_DIR", str: &c.Cache.Dir},
		{name: "REDIS_ADDR", str: &c.Cache.RedisAddr},
		{name: "REDIS_PASSWORD", str: &c.Cache.RedisPassword},
		{name: "REDIS_DB", num: &c.Cache.RedisDB},
		{name: "REDIS_PREFIX", str: &c.Cache.RedisPrefix},
		{name: "ARCHIVE_BACKEND", str: &c.Archive.Backend},
		{name: "MONGO_URI", str: &c.Archive.MongoURI},
		{name: "MONGO_DATABASE", str: &c.Archive.Database},
		{name: "MONGO_COLLECTION", str: &c.Archive.Collection},
		{name: "SERVER_ADDR", str: &c.Server.Addr},
		{name: "MAX_CELLS", num: &c.Server.MaxCells},
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	for _, b := range c.envBindings() {
		key := EnvPrefix + b.name
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		switch {
		case b.str != nil:
			*b.str = v
		case b.num != nil:
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", key, v)
			}
			*b.num = n
		case b.flag != nil:
			f, err := strconv.ParseBool(v)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "%s must be a boolean, got %q", key, v)
			}
			*b.flag = f
		}
	}
	return nil
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks backends and render defaults.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache backend must be %s, %s or %s, got %q",
			CacheFile, CacheRedis, CacheNone, c.Cache.Backend)
	}
	switch c.Archive.Backend {
	case ArchiveMemory, ArchiveMongo, ArchiveNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "archive backend must be %s, %s or %s, got %q",
			ArchiveMemory, ArchiveMongo, ArchiveNone, c.Archive.Backend)
	}
	if c.Archive.Backend == ArchiveMongo && c.Archive.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "archive backend mongo needs mongo_uri")
	}
	if c.Server.MaxCells < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_cells must not be negative, got %d", c.Server.MaxCells)
	}

	opts := c.PipelineOptions()
	return opts.ValidateAndSetDefaults()
}

// PipelineOptions converts the render section into pipeline options.
// Callers override individual fields from flags or query parameters.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Width:         c.Render.Width,
		Height:        c.Render.Height,
		Resolution:    c.Render.Resolution,
		Scale:         c.Render.Scale,
		Formats:       append([]string(nil), c.Render.Formats...),
		Background:    c.Render.Background,
		Wall:          c.Render.Wall,
		Accent:        c.Render.Accent,
		NoOriginMark:  c.Render.NoOriginMark,
		NoDeepestMark: c.Render.NoDeepestMark,
	}
}

// Encode writes the config as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
