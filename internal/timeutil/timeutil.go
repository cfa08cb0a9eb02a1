// Package timeutil converts between seconds and the clock notation used by
// ffmpeg time options and progress output.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatSeconds converts seconds to HH:MM:SS.MS for ffmpeg -ss and -t.
//
//	FormatSeconds(90)    // "00:01:30.00"
//	FormatSeconds(3661)  // "01:01:01.00"
func FormatSeconds(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%05.2f", hours, minutes, secs)
}

// ParseClock reads a position given as plain seconds ("75.5"), MM:SS or
// HH:MM:SS with optional fractional seconds. Negative values are rejected.
func ParseClock(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty time value")
	}

	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid time value '%s'", value)
	}

	var total float64
	for i, part := range parts {
		n, err := strconv.ParseFloat(part, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time value '%s'", value)
		}
		// Only the last field may carry a fraction or exceed 59.
		if i < len(parts)-1 && (n != float64(int(n)) || (i > 0 && n >= 60)) {
			return 0, fmt.Errorf("invalid time value '%s'", value)
		}
		total = total*60 + n
	}
	return total, nil
}
