package config

import (
	"os"
	"path/filepath"
	"slices"

	"vidplan/internal/logging"
)

// Config holds all vidplan configuration options
type Config struct {
	// External tools
	Tools ToolsConfig `yaml:"tools" toml:"tools"`

	// Directory searched for <name>.target and <name>.toml profiles
	TargetsDir string `yaml:"targets_dir" toml:"targets_dir"`

	// Encode settings
	AudioCodec string `yaml:"audio_codec" toml:"audio_codec"` // inline encode codec, e.g. "aac"
	Preset     string `yaml:"preset" toml:"preset"`           // default x264 preset, empty = encoder default

	// Work directory handling
	WorkDir     string `yaml:"work_dir" toml:"work_dir"` // parent of per-job work dirs
	KeepWorkDir bool   `yaml:"keep_work_dir" toml:"keep_work_dir"`

	Logging     logging.Config `yaml:"logging" toml:"logging"`
	MetricsFile string         `yaml:"metrics_file" toml:"metrics_file"` // Prometheus textfile, empty = off

	DryRun bool `yaml:"dry_run" toml:"dry_run"` // Print commands without running them
}

// ToolsConfig holds the executables vidplan drives
type ToolsConfig struct {
	MediaInfo  string `yaml:"mediainfo" toml:"mediainfo"`
	FFmpeg     string `yaml:"ffmpeg" toml:"ffmpeg"`
	FFprobe    string `yaml:"ffprobe" toml:"ffprobe"`
	NeroAacEnc string `yaml:"neroaacenc" toml:"neroaacenc"`
	Mplayer    string `yaml:"mplayer" toml:"mplayer"`
	Mplayer2   string `yaml:"mplayer2" toml:"mplayer2"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tools: ToolsConfig{
			MediaInfo:  "mediainfo",
			FFmpeg:     "ffmpeg",
			FFprobe:    "ffprobe",
			NeroAacEnc: defaultNeroAacEnc(),
			Mplayer:    "mplayer",
			Mplayer2:   "mplayer2",
		},

		TargetsDir: defaultTargetsDir(),
		AudioCodec: "aac",
		Preset:     "",

		WorkDir:     os.TempDir(),
		KeepWorkDir: false,

		Logging: logging.Config{
			Level:  "info",
			Format: "text",
		},
		MetricsFile: "",
		DryRun:      false,
	}
}

// neroAacEnc lives in $NEROAAC_DIR when set, otherwise on PATH.
func defaultNeroAacEnc() string {
	return filepath.Join(os.Getenv("NEROAAC_DIR"), "neroAacEnc")
}

func defaultTargetsDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "targets"
	}
	return filepath.Join(home, ".vidplan", "targets")
}

// Copy creates a deep copy of the config
func (c *Config) Copy() *Config {
	copy := *c
	if c.Logging.Modules != nil {
		copy.Logging.Modules = make(map[string]string, len(c.Logging.Modules))
		for k, v := range c.Logging.Modules {
			copy.Logging.Modules[k] = v
		}
	}
	return &copy
}

// PresetValues returns the x264 preset names
func PresetValues() []string {
	return []string{
		"ultrafast", "superfast", "veryfast", "faster", "fast",
		"medium", "slow", "slower", "veryslow", "placebo",
	}
}

// IsValidPreset checks if preset is an x264 preset
func IsValidPreset(preset string) bool {
	return slices.Contains(PresetValues(), preset)
}
