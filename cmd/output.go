package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Output formats of probe and plan.
const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	valueStyle   = color.New(color.Bold)
	successStyle = color.New(color.FgGreen)
	warningStyle = color.New(color.FgYellow)
	failureStyle = color.New(color.FgRed)
)

func validFormat(format string) error {
	switch format {
	case FormatText, FormatYAML, FormatJSON:
		return nil
	}
	return fmt.Errorf("invalid format '%s', must be one of: text, yaml, json", format)
}

// writeStructured encodes v as YAML or JSON.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
	return validFormat(format)
}

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		warningStyle.Fprintf(w, "warning: %s\n", msg)
	}
}

// field prints an aligned "label: value" line.
func field(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %-12s ", label+":")
	valueStyle.Fprintf(w, "%v\n", value)
}
