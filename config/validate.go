package config

import (
	"fmt"
	"strings"

	"vidplan/internal/logging"
)

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errors []string

	if err := c.Tools.Validate(); err != nil {
		errors = append(errors, fmt.Sprintf("tools config: %v", err))
	}

	if c.AudioCodec == "" {
		errors = append(errors, "audio codec is required")
	}

	if c.Preset != "" && !IsValidPreset(c.Preset) {
		errors = append(errors, fmt.Sprintf("invalid preset '%s', must be one of: %s",
			c.Preset, strings.Join(PresetValues(), ", ")))
	}

	if c.WorkDir == "" {
		errors = append(errors, "work directory is required")
	}

	if !logging.ValidLevel(c.Logging.Level) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s', must be one of: debug, info, warn, error",
			c.Logging.Level))
	}
	for module, level := range c.Logging.Modules {
		if !logging.ValidLevel(level) {
			errors = append(errors, fmt.Sprintf("invalid log level '%s' for module %s", level, module))
		}
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s', must be text or json", c.Logging.Format))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// Validate checks every tool has an executable set
func (tc *ToolsConfig) Validate() error {
	var errors []string

	tools := []struct {
		name string
		path string
	}{
		{"mediainfo", tc.MediaInfo},
		{"ffmpeg", tc.FFmpeg},
		{"ffprobe", tc.FFprobe},
		{"neroaacenc", tc.NeroAacEnc},
		{"mplayer", tc.Mplayer},
		{"mplayer2", tc.Mplayer2},
	}
	for _, tool := range tools {
		if strings.TrimSpace(tool.path) == "" {
			errors = append(errors, tool.name+" path is required")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, ", "))
	}

	return nil
}
