package config

import (
	"github.com/spf13/pflag"
)

// Flag names shared by every command.
const (
	FlagConfig      = "config"
	FlagLogLevel    = "log-level"
	FlagLogFormat   = "log-format"
	FlagDryRun      = "dry-run"
	FlagMetricsFile = "metrics-file"
	FlagTargetsDir  = "targets-dir"
	FlagWorkDir     = "work-dir"
	FlagKeepWorkDir = "keep-workdir"
)

// BindFlags registers the configuration flags on fs. Their defaults are only
// for help output; MergeFromFlags applies a flag only when it was set.
func BindFlags(fs *pflag.FlagSet) {
	defaults := DefaultConfig()

	fs.String(FlagConfig, "", "Path to config file (default: search standard locations)")
	fs.String(FlagLogLevel, defaults.Logging.Level, "Log level: debug, info, warn, error")
	fs.String(FlagLogFormat, defaults.Logging.Format, "Log format: text or json")
	fs.Bool(FlagDryRun, false, "Print the commands without running them")
	fs.String(FlagMetricsFile, "", "Write Prometheus metrics to this textfile")
	fs.String(FlagTargetsDir, defaults.TargetsDir, "Directory holding target profiles")
	fs.String(FlagWorkDir, defaults.WorkDir, "Parent directory of job work directories")
	fs.Bool(FlagKeepWorkDir, false, "Keep the job work directory after the run")
}

// MergeFromFlags overrides config values with the flags of fs that were set
// on the command line.
func (c *Config) MergeFromFlags(fs *pflag.FlagSet) error {
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case FlagLogLevel:
			c.Logging.Level = f.Value.String()
		case FlagLogFormat:
			c.Logging.Format = f.Value.String()
		case FlagMetricsFile:
			c.MetricsFile = f.Value.String()
		case FlagTargetsDir:
			c.TargetsDir = f.Value.String()
		case FlagWorkDir:
			c.WorkDir = f.Value.String()
		case FlagDryRun:
			c.DryRun, err = fs.GetBool(FlagDryRun)
		case FlagKeepWorkDir:
			c.KeepWorkDir, err = fs.GetBool(FlagKeepWorkDir)
		}
	})
	return err
}
