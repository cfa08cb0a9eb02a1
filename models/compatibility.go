package models

import "fmt"

// DiffCompatible is the diff text reported for two compatible profiles.
const DiffCompatible = "compatible"

// Compare checks whether two profiles can be concatenated byte for byte.
//
// Attributes are compared in a fixed order and the first mismatch is
// reported: frame rate, width, height, scan type, video codec, audio codec,
// audio channel count, audio sample rate. Bit rates are not compared.
// The returned diff is DiffCompatible when the profiles match.
func Compare(a, b *MediaProfile) (bool, string) {
	checks := []struct {
		label       string
		equal       bool
		left, right string
	}{
		{"FPS", equalFloat(a.Video.FPS, b.Video.FPS), formatFloat(a.Video.FPS), formatFloat(b.Video.FPS)},
		{"width", equalInt(a.Video.Width, b.Video.Width), formatInt(a.Video.Width), formatInt(b.Video.Width)},
		{"height", equalInt(a.Video.Height, b.Video.Height), formatInt(a.Video.Height), formatInt(b.Video.Height)},
		{"interlace setting", a.Video.Scan == b.Video.Scan, a.Video.Scan.String(), b.Video.Scan.String()},
		{"video codec", a.Video.Codec == b.Video.Codec, a.Video.Codec.String(), b.Video.Codec.String()},
		{"audio codec", equalString(a.Audio.CodecID, b.Audio.CodecID), formatString(a.Audio.CodecID), formatString(b.Audio.CodecID)},
		{"audio channel count", equalInt(a.Audio.Channels, b.Audio.Channels), formatInt(a.Audio.Channels), formatInt(b.Audio.Channels)},
		{"audio sample rate", equalInt(a.Audio.SampleRateHz, b.Audio.SampleRateHz), formatInt(a.Audio.SampleRateHz), formatInt(b.Audio.SampleRateHz)},
	}

	for _, c := range checks {
		if !c.equal {
			return false, fmt.Sprintf("Differing %s: %s != %s", c.label, c.left, c.right)
		}
	}
	return true, DiffCompatible
}

// CompatibleWith is shorthand for Compare(p, other).
func (p *MediaProfile) CompatibleWith(other *MediaProfile) (bool, string) {
	return Compare(p, other)
}

func equalInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
