package cli

import (
	"bytes"
	"image"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labyrinth/pkg/errors"
	mazeio "github.com/matzehuels/labyrinth/pkg/io"
	"github.com/matzehuels/labyrinth/pkg/pipeline"
)

// execute runs the root command with args in an isolated XDG environment
// and returns what the command wrote to its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"png", []string{"png"}},
		{"png,svg", []string{"png", "svg"}},
		{" PNG , svg ,", []string{"png", "svg"}},
		{"txt,txt,json", []string{"txt", "json"}},
		{"", nil},
		{",,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		format   string
		multiple bool
		want     string
	}{
		{"fallback", "", "png", false, "maze-42.png"},
		{"explicit file", "out.png", "png", false, "out.png"},
		{"explicit name keeps its extension", "picture.img", "png", false, "picture.img"},
		{"base without extension", "out/maze", "svg", false, "out/maze.svg"},
		{"multiple replaces extension", "out/maze.png", "txt", true, "out/maze.txt"},
		{"tree diagram", "", "tree", true, "maze-42.tree.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, "maze-42", tt.format, tt.multiple); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"127.0.0.1:9000": "http://127.0.0.1:9000",
	}
	for addr, want := range tests {
		if got := localURL(addr); got != want {
			t.Errorf("localURL(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestGenerateWritesFiles(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "maze")

	_, err := execute(t, "generate", "--seed", "42", "--width", "5", "--height", "4",
		"-r", "8", "-f", "png,txt,json", "-o", base, "--no-cache")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	f, err := os.Open(base + ".png")
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if format != "png" || cfg.Width != 40 || cfg.Height != 32 {
		t.Errorf("png = %s %dx%d, want png 40x32", format, cfg.Width, cfg.Height)
	}

	text, err := os.ReadFile(base + ".txt")
	if err != nil {
		t.Fatalf("read txt: %v", err)
	}
	if lines := strings.Count(string(text), "\n"); lines != 2*4+1 {
		t.Errorf("text has %d lines, want %d", lines, 2*4+1)
	}

	m, err := mazeio.ImportJSON(base + ".json")
	if err != nil {
		t.Fatalf("import json: %v", err)
	}
	if m.Seed() != 42 || m.Width() != 5 || m.Height() != 4 {
		t.Errorf("imported maze = seed %d %dx%d, want seed 42 5x4", m.Seed(), m.Width(), m.Height())
	}
}

func TestGenerateFillsCache(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(home, "cache"))

	out := filepath.Join(t.TempDir(), "maze.png")
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs([]string{"generate", "--seed", "9", "--width", "3", "--height", "3", "-o", out})
	if err := root.Execute(); err != nil {
		t.Fatalf("generate: %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(home, "cache", "labyrinth"))
	if err != nil {
		t.Fatalf("read cache dir: %v", err)
	}
	if len(entries) == 0 {
		t.Error("seeded generate should populate the cache")
	}
}

func TestGenerateInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"negative width", []string{"--width=-3"}, errors.ErrCodeInvalidDimensions},
		{"unknown format", []string{"-f", "webp"}, errors.ErrCodeInvalidFormat},
		{"bad color", []string{"--wall", "#zzz"}, errors.ErrCodeInvalidColor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"generate", "--no-cache", "-o", filepath.Join(t.TempDir(), "m")}, tt.args...)
			_, err := execute(t, args...)
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRenderFromJSON(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "maze-7.json")
	if _, err := execute(t, "generate", "--seed", "7", "--width", "4", "--height", "3",
		"-f", "json", "-o", doc, "--no-cache"); err != nil {
		t.Fatalf("generate: %v", err)
	}

	out := filepath.Join(dir, "again.svg")
	if _, err := execute(t, "render", doc, "-f", "svg", "-o", out, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg output starts with %q", svg[:min(20, len(svg))])
	}
}

func TestRenderMissingFile(t *testing.T) {
	_, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.json"), "--no-cache")
	if err == nil {
		t.Fatal("render of a missing file should fail")
	}
}

func TestConfigPath(t *testing.T) {
	out, err := execute(t, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), filepath.Join("config", "labyrinth", "config.toml")) {
		t.Errorf("config path = %q", out)
	}

	explicit := filepath.Join(t.TempDir(), "custom.toml")
	out, err = execute(t, "--config", explicit, "config", "path")
	if err != nil {
		t.Fatalf("config path --config: %v", err)
	}
	if strings.TrimSpace(out) != explicit {
		t.Errorf("config path = %q, want %q", out, explicit)
	}
}

func TestConfigShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nwidth = 31\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	for _, want := range []string{"[render]", "width = 31", "[cache]", "[server]"} {
		if !strings.Contains(out, want) {
			t.Errorf("config show missing %q:\n%s", want, out)
		}
	}
}

func TestConfigInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[render]\nwidht = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "--config", path, "config", "show"); !errors.IsInvalid(err) {
		t.Errorf("err = %v, want invalid input", err)
	}
}

func TestCachePath(t *testing.T) {
	out, err := execute(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), filepath.Join("cache", "labyrinth")) {
		t.Errorf("cache path = %q", out)
	}
}

func TestCacheClear(t *testing.T) {
	if _, err := execute(t, "cache", "clear"); err != nil {
		t.Fatalf("cache clear on empty cache: %v", err)
	}
}

func TestHistoryNeedsMongo(t *testing.T) {
	_, err := execute(t, "history")
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "labyrinth") {
		t.Error("bash completion should mention the command name")
	}

	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should be rejected")
	}
}

func TestCompleteFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"t", []string{"tiff", "tree", "txt"}},
		{"J", []string{"jpg", "json"}},
		{"png,s", []string{"png,svg"}},
		{"png,t", []string{"png,tiff", "png,tree", "png,txt"}},
		{"png,svg,p", nil},
		{"webp", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, directive := completeFormats(nil, nil, tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("completeFormats(%q) = %v, want %v", tt.in, got, tt.want)
			}
			if directive&cobra.ShellCompDirectiveNoSpace == 0 {
				t.Error("format completion should leave room for another comma")
			}
		})
	}

	all, _ := completeFormats(nil, nil, "")
	if len(all) != len(pipeline.SupportedFormats()) {
		t.Errorf("empty prefix completes %d formats, want %d", len(all), len(pipeline.SupportedFormats()))
	}
}

func TestCompletionRequests(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"format flag", []string{"generate", "--format", "png,s"}, []string{"png,svg"}},
		{"accent flag", []string{"render", "maze.json", "--accent", ""}, []string{"#fc035e"}},
		{"maze document", []string{"render", ""}, []string{"json", ":8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{cobra.ShellCompRequestCmd}, tt.args...)...)
			if err != nil {
				t.Fatalf("complete: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("completion output missing %q:\n%s", want, out)
				}
			}
		})
	}
}
