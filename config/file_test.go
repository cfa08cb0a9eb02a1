package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfigFile_YAML(t *testing.T) {
	path := writeFile(t, "vidplan.yaml", `
tools:
  ffmpeg: /opt/ffmpeg/bin/ffmpeg
  neroaacenc: /opt/nero/neroAacEnc
targets_dir: /srv/targets
preset: slow
keep_work_dir: true
logging:
  level: debug
  format: json
  modules:
    planner: warn
metrics_file: /var/lib/node_exporter/vidplan.prom
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("Expected ffmpeg '/opt/ffmpeg/bin/ffmpeg', got '%s'", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.NeroAacEnc != "/opt/nero/neroAacEnc" {
		t.Errorf("Expected neroAacEnc '/opt/nero/neroAacEnc', got '%s'", cfg.Tools.NeroAacEnc)
	}
	if cfg.TargetsDir != "/srv/targets" {
		t.Errorf("Expected targets dir '/srv/targets', got '%s'", cfg.TargetsDir)
	}
	if cfg.Preset != "slow" {
		t.Errorf("Expected preset 'slow', got '%s'", cfg.Preset)
	}
	if !cfg.KeepWorkDir {
		t.Error("Expected keep_work_dir to be true")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Expected debug/json logging, got %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
	if cfg.Logging.Modules["planner"] != "warn" {
		t.Errorf("Expected planner level 'warn', got '%s'", cfg.Logging.Modules["planner"])
	}
	if cfg.MetricsFile != "/var/lib/node_exporter/vidplan.prom" {
		t.Errorf("Unexpected metrics file '%s'", cfg.MetricsFile)
	}

	// Unset keys keep their defaults
	if cfg.Tools.MediaInfo != "mediainfo" {
		t.Errorf("Expected default mediainfo, got '%s'", cfg.Tools.MediaInfo)
	}
	if cfg.AudioCodec != "aac" {
		t.Errorf("Expected default audio codec 'aac', got '%s'", cfg.AudioCodec)
	}
}

func TestLoadConfigFile_TOML(t *testing.T) {
	path := writeFile(t, "vidplan.toml", `
audio_codec = "libfdk_aac"
dry_run = true

[tools]
mplayer = "/usr/local/bin/mplayer"

[logging]
level = "warn"
format = "text"
`)

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.AudioCodec != "libfdk_aac" {
		t.Errorf("Expected audio codec 'libfdk_aac', got '%s'", cfg.AudioCodec)
	}
	if !cfg.DryRun {
		t.Error("Expected dry_run to be true")
	}
	if cfg.Tools.Mplayer != "/usr/local/bin/mplayer" {
		t.Errorf("Expected mplayer '/usr/local/bin/mplayer', got '%s'", cfg.Tools.Mplayer)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" {
		t.Errorf("Expected default ffmpeg, got '%s'", cfg.Tools.FFmpeg)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Expected log level 'warn', got '%s'", cfg.Logging.Level)
	}
}

func TestLoadConfigFile_Errors(t *testing.T) {
	tests := []struct {
		name      string
		path      func(t *testing.T) string
		errorText string
	}{
		{
			name:      "missing file",
			path:      func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") },
			errorText: "failed to read config file",
		},
		{
			name:      "unsupported extension",
			path:      func(t *testing.T) string { return writeFile(t, "vidplan.ini", "preset=slow") },
			errorText: `unsupported config file extension ".ini"`,
		},
		{
			name:      "invalid yaml",
			path:      func(t *testing.T) string { return writeFile(t, "bad.yaml", "tools: [unclosed") },
			errorText: "failed to parse config file",
		},
		{
			name:      "invalid toml",
			path:      func(t *testing.T) string { return writeFile(t, "bad.toml", "preset = ") },
			errorText: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFile(tt.path(t))
			if err == nil || !strings.Contains(err.Error(), tt.errorText) {
				t.Errorf("Expected error containing '%s', got: %v", tt.errorText, err)
			}
		})
	}
}

func TestSaveConfigFile(t *testing.T) {
	for _, name := range []string{"saved.yaml", "saved.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)

			cfg := DefaultConfig()
			cfg.Preset = "veryslow"
			cfg.Tools.FFprobe = "/opt/ffprobe"
			if err := SaveConfigFile(cfg, path); err != nil {
				t.Fatalf("Failed to save config: %v", err)
			}

			loaded, err := LoadConfigFile(path)
			if err != nil {
				t.Fatalf("Failed to load saved config: %v", err)
			}
			if loaded.Preset != "veryslow" || loaded.Tools.FFprobe != "/opt/ffprobe" {
				t.Errorf("Saved values lost: preset=%s ffprobe=%s", loaded.Preset, loaded.Tools.FFprobe)
			}
		})
	}
}
