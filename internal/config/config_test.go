package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/labyrinth/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Render.Accent != "#fc035e" {
		t.Errorf("default accent = %q, want #fc035e", cfg.Render.Accent)
	}
	if cfg.Cache.Backend != CacheFile || cfg.Archive.Backend != ArchiveMemory {
		t.Errorf("default backends = %s/%s", cfg.Cache.Backend, cfg.Archive.Backend)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "absent.toml"), filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Render.Resolution != Default().Render.Resolution {
		t.Errorf("Resolution = %d, want default", cfg.Render.Resolution)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, `
[render]
resolution = 12
accent = "#00aa88"
formats = ["svg", "txt"]

[cache]
backend = "none"

[server]
addr = "127.0.0.1:9000"
max_cells = 5000
`)

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Render.Resolution != 12 {
		t.Errorf("Resolution = %d, want 12", cfg.Render.Resolution)
	}
	if cfg.Render.Accent != "#00aa88" {
		t.Errorf("Accent = %q", cfg.Render.Accent)
	}
	if cfg.Render.Wall != Default().Render.Wall {
		t.Errorf("unset Wall should keep its default, got %q", cfg.Render.Wall)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("Cache.Backend = %q", cfg.Cache.Backend)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.MaxCells != 5000 {
		t.Errorf("Server = %+v", cfg.Server)
	}

	opts := cfg.PipelineOptions()
	if opts.Resolution != 12 || len(opts.Formats) != 2 || opts.Accent != "#00aa88" {
		t.Errorf("PipelineOptions() = %+v", opts)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[render]\nresolutoin = 3\n", "render.resolutoin"},
		{"malformed", "[render\n", "parse"},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", "cache backend"},
		{"mongo without uri", "[archive]\nbackend = \"mongo\"\n", "mongo_uri"},
		{"bad resolution", "[render]\nresolution = 1\n", "resolution"},
		{"bad color", "[render]\nwall = \"nope\"\n", "wall color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), FileName, tt.content)
			_, err := Load(path, "")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if !errors.IsInvalid(err) {
				t.Errorf("IsInvalid(%v) = false", err)
			}
		})
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, FileName, "[render]\nresolution = 12\n")
	t.Setenv("LABYRINTH_RESOLUTION", "20")
	t.Setenv("LABYRINTH_CACHE_BACKEND", "redis")
	t.Setenv("LABYRINTH_REDIS_DB", "3")
	t.Setenv("LABYRINTH_NO_ORIGIN_MARK", "true")

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Render.Resolution != 20 {
		t.Errorf("Resolution = %d, want 20", cfg.Render.Resolution)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisDB != 3 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if !cfg.Render.NoOriginMark {
		t.Error("NoOriginMark should be set from the environment")
	}
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := writeFile(t, dir, ".env", "LABYRINTH_ACCENT=#00ff00\nLABYRINTH_RESOLUTION=9\n")
	t.Setenv("LABYRINTH_RESOLUTION", "7")

	cfg, err := Load("", envFile)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Render.Accent != "#00ff00" {
		t.Errorf("Accent = %q, want value from .env", cfg.Render.Accent)
	}
	if cfg.Render.Resolution != 7 {
		t.Errorf("Resolution = %d, want the real environment to win over .env", cfg.Render.Resolution)
	}
	if _, ok := os.LookupEnv("LABYRINTH_ACCENT"); ok {
		t.Error(".env values must not leak into the process environment")
	}
}

func TestEnvInvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"LABYRINTH_RESOLUTION", "big"},
		{"LABYRINTH_NO_DEEPEST_MARK", "maybe"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("", "")
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("Load() error = %v, want mention of %s", err, tt.key)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	if got, _ := Path(); got != "/tmp/xdg-config/labyrinth/config.toml" {
		t.Errorf("Path() = %q", got)
	}
	if got, _ := CacheDir(); got != "/tmp/xdg-cache/labyrinth" {
		t.Errorf("CacheDir() = %q", got)
	}
}

func TestEncodeReadsBack(t *testing.T) {
	cfg := Default()
	cfg.Render.Resolution = 11
	cfg.Archive.Backend = ArchiveNone

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode() = %v", err)
	}

	var back Config
	if _, err := toml.Decode(buf.String(), &back); err != nil {
		t.Fatalf("decode encoded config: %v\n%s", err, buf.String())
	}
	if back.Render.Resolution != 11 || back.Archive.Backend != ArchiveNone {
		t.Errorf("read back %+v", back)
	}
}
