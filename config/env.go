package config

import (
	"fmt"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override, e.g. VIDPLAN_FFMPEG.
const EnvPrefix = "VIDPLAN_"

// LookupFunc reports the value of an environment variable; os.LookupEnv fits.
type LookupFunc func(key string) (string, bool)

// envStrings maps environment keys (without prefix) to the string fields
// they override.
func (c *Config) envStrings() map[string]*string {
	return map[string]*string{
		"MEDIAINFO":    &c.Tools.MediaInfo,
		"FFMPEG":       &c.Tools.FFmpeg,
		"FFPROBE":      &c.Tools.FFprobe,
		"NEROAACENC":   &c.Tools.NeroAacEnc,
		"MPLAYER":      &c.Tools.Mplayer,
		"MPLAYER2":     &c.Tools.Mplayer2,
		"TARGETS_DIR":  &c.TargetsDir,
		"AUDIO_CODEC":  &c.AudioCodec,
		"PRESET":       &c.Preset,
		"WORK_DIR":     &c.WorkDir,
		"LOG_LEVEL":    &c.Logging.Level,
		"LOG_FORMAT":   &c.Logging.Format,
		"METRICS_FILE": &c.MetricsFile,
	}
}

func (c *Config) envBools() map[string]*bool {
	return map[string]*bool{
		"KEEP_WORK_DIR": &c.KeepWorkDir,
		"DRY_RUN":       &c.DryRun,
	}
}

// MergeFromEnv overrides fields with the VIDPLAN_* variables that are set.
// Empty values are ignored; a malformed boolean is an error.
func (c *Config) MergeFromEnv(lookup LookupFunc) error {
	for key, field := range c.envStrings() {
		if value, ok := lookup(EnvPrefix + key); ok && value != "" {
			*field = value
		}
	}

	var errors []string
	for key, field := range c.envBools() {
		value, ok := lookup(EnvPrefix + key)
		if !ok || value == "" {
			continue
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s%s: invalid boolean %q", EnvPrefix, key, value))
			continue
		}
		*field = b
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errors, ", "))
	}
	return nil
}
