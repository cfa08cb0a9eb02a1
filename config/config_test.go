package config

import (
	"os"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("NEROAAC_DIR", "")
	cfg := DefaultConfig()

	if cfg.Tools.MediaInfo != "mediainfo" {
		t.Errorf("Expected mediainfo 'mediainfo', got '%s'", cfg.Tools.MediaInfo)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" {
		t.Errorf("Expected ffmpeg 'ffmpeg', got '%s'", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.NeroAacEnc != "neroAacEnc" {
		t.Errorf("Expected neroAacEnc on PATH, got '%s'", cfg.Tools.NeroAacEnc)
	}
	if cfg.AudioCodec != "aac" {
		t.Errorf("Expected audio codec 'aac', got '%s'", cfg.AudioCodec)
	}
	if cfg.Preset != "" {
		t.Errorf("Expected no default preset, got '%s'", cfg.Preset)
	}
	if cfg.WorkDir != os.TempDir() {
		t.Errorf("Expected work dir '%s', got '%s'", os.TempDir(), cfg.WorkDir)
	}
	if cfg.KeepWorkDir || cfg.DryRun {
		t.Error("Expected keep-workdir and dry-run to be off")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Expected info/text logging, got %s/%s", cfg.Logging.Level, cfg.Logging.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid, got: %v", err)
	}
}

func TestDefaultConfig_NeroAacDir(t *testing.T) {
	t.Setenv("NEROAAC_DIR", "/opt/nero")

	if got := DefaultConfig().Tools.NeroAacEnc; got != "/opt/nero/neroAacEnc" {
		t.Errorf("Expected '/opt/nero/neroAacEnc', got '%s'", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		modify      func(*Config)
		expectError bool
		errorText   string
	}{
		{
			name:        "valid config",
			modify:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "valid preset",
			modify:      func(c *Config) { c.Preset = "slow" },
			expectError: false,
		},
		{
			name:        "invalid preset",
			modify:      func(c *Config) { c.Preset = "turbo" },
			expectError: true,
			errorText:   "invalid preset 'turbo'",
		},
		{
			name:        "missing audio codec",
			modify:      func(c *Config) { c.AudioCodec = "" },
			expectError: true,
			errorText:   "audio codec is required",
		},
		{
			name:        "missing tool",
			modify:      func(c *Config) { c.Tools.FFmpeg = " " },
			expectError: true,
			errorText:   "tools config: ffmpeg path is required",
		},
		{
			name:        "missing work dir",
			modify:      func(c *Config) { c.WorkDir = "" },
			expectError: true,
			errorText:   "work directory is required",
		},
		{
			name:        "invalid log level",
			modify:      func(c *Config) { c.Logging.Level = "loud" },
			expectError: true,
			errorText:   "invalid log level 'loud'",
		},
		{
			name:        "invalid module log level",
			modify:      func(c *Config) { c.Logging.Modules = map[string]string{"planner": "chatty"} },
			expectError: true,
			errorText:   "for module planner",
		},
		{
			name:        "invalid log format",
			modify:      func(c *Config) { c.Logging.Format = "xml" },
			expectError: true,
			errorText:   "invalid log format 'xml'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()

			if tt.expectError && err == nil {
				t.Errorf("Expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
			if tt.expectError && err != nil && !strings.Contains(err.Error(), tt.errorText) {
				t.Errorf("Expected error containing '%s', got: %v", tt.errorText, err)
			}
		})
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AudioCodec = ""
	cfg.Logging.Format = "xml"
	cfg.Tools.Mplayer = ""
	cfg.Tools.NeroAacEnc = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	msg := err.Error()
	if !strings.HasPrefix(msg, "configuration validation failed:\n  - ") {
		t.Errorf("Unexpected error header: %q", msg)
	}
	if strings.Count(msg, "\n  - ") != 3 {
		t.Errorf("Expected 3 problems, got: %q", msg)
	}
	if !strings.Contains(msg, "neroaacenc path is required, mplayer path is required") {
		t.Errorf("Expected tool problems joined on one line, got: %q", msg)
	}
}

func TestCopy(t *testing.T) {
	original := DefaultConfig()
	original.Logging.Modules = map[string]string{"planner": "debug"}

	copied := original.Copy()
	copied.Tools.FFmpeg = "/opt/ffmpeg"
	copied.Logging.Modules["planner"] = "error"

	if original.Tools.FFmpeg != "ffmpeg" {
		t.Errorf("Modifying copy changed original tools: %s", original.Tools.FFmpeg)
	}
	if original.Logging.Modules["planner"] != "debug" {
		t.Errorf("Modifying copy changed original module levels: %s", original.Logging.Modules["planner"])
	}
}

func TestIsValidPreset(t *testing.T) {
	for _, preset := range PresetValues() {
		if !IsValidPreset(preset) {
			t.Errorf("Expected %s to be valid", preset)
		}
	}
	if IsValidPreset("") || IsValidPreset("Medium") {
		t.Error("Expected empty and miscased presets to be invalid")
	}
}
