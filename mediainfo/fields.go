package mediainfo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value returns the value part of a "label : value" report line: everything
// after the first colon, minus the single separator space.
func Value(line string) string {
	_, value, found := strings.Cut(line, ":")
	if !found {
		return ""
	}
	return strings.TrimPrefix(value, " ")
}

// Tokenize splits a value on runs of spaces.
func Tokenize(value string) []string {
	return strings.Fields(value)
}

// CollapseThousands joins a thousands-grouped number back together.
//
// The last token is taken as the unit, everything before it as digit groups:
// "1 920 pixels" yields ("1920", "pixels"). A single token is returned as the
// number with an empty unit.
func CollapseThousands(value string) (number, unit string) {
	tokens := Tokenize(value)
	switch len(tokens) {
	case 0:
		return "", ""
	case 1:
		return tokens[0], ""
	default:
		return strings.Join(tokens[:len(tokens)-1], ""), tokens[len(tokens)-1]
	}
}

// BitrateKbps converts a magnitude and unit to whole Kbps. Mbps values are
// scaled by 1024. Any unit other than "Kbps" or "Mbps" is an error.
func BitrateKbps(magnitude, unit string) (int, error) {
	v, err := strconv.ParseFloat(magnitude, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bit rate %q", magnitude)
	}

	switch unit {
	case "Kbps":
	case "Mbps":
		v *= 1024
	default:
		return 0, fmt.Errorf("unknown bit rate unit %q", unit)
	}
	return RoundToInt(v), nil
}

// RoundToInt rounds half away from zero, the way the bit rate and sample
// rate readings are reported as integers.
func RoundToInt(v float64) int {
	return int(math.Round(v))
}

// leadingInt parses the first token of a value as an integer.
func leadingInt(value string) (int, error) {
	tokens := Tokenize(value)
	if len(tokens) == 0 {
		return 0, fmt.Errorf("empty value")
	}
	n, err := strconv.Atoi(tokens[0])
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", tokens[0])
	}
	return n, nil
}

// leadingFloat parses the first token of a value as a float.
func leadingFloat(value string) (float64, error) {
	tokens := Tokenize(value)
	if len(tokens) == 0 {
		return 0, fmt.Errorf("empty value")
	}
	f, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", tokens[0])
	}
	return f, nil
}

// groupedInt parses a possibly thousands-grouped integer such as "1 920 pixels".
func groupedInt(value string) (int, error) {
	number, _ := CollapseThousands(value)
	n, err := strconv.Atoi(number)
	if err != nil {
		return 0, fmt.Errorf("invalid integer %q", number)
	}
	return n, nil
}

// sampleRateHz reads "48.0 KHz" or "44100 Hz" style values as whole Hz.
// Only the leading number is parsed; a KHz unit scales it to Hz so profiles
// and target sample rates share one unit.
func sampleRateHz(value string) (int, error) {
	rate, err := leadingFloat(value)
	if err != nil {
		return 0, err
	}
	tokens := Tokenize(value)
	if len(tokens) > 1 && strings.EqualFold(tokens[1], "KHz") {
		rate *= 1000
	}
	return RoundToInt(rate), nil
}

// bitrate parses a grouped bit rate value such as "5 000 Kbps".
func bitrate(value string) (int, error) {
	number, unit := CollapseThousands(value)
	return BitrateKbps(number, unit)
}
