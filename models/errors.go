package models

import "fmt"

// Mandatory profile field names reported by ParseError.
const (
	FieldFrameRate     = "frame rate"
	FieldWidth         = "video width"
	FieldHeight        = "video height"
	FieldScanType      = "scan type"
	FieldVideoCodec    = "video codec"
	FieldAudioCodec    = "audio codec"
	FieldAudioChannels = "audio channel count"
	FieldSampleRate    = "audio sample rate"
	FieldBitrate       = "bit rate"
)

// ParseError reports a probe report that could not be turned into a profile:
// either a mandatory field is missing or a value could not be understood.
type ParseError struct {
	Path   string
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("failed to parse media report: %s", e.Reason)
	}
	return fmt.Sprintf("failed to parse media report for '%s': %s", e.Path, e.Reason)
}

// CompatibilityError reports two files of a group that cannot be concatenated.
type CompatibilityError struct {
	First string
	Other string
	Diff  string
}

func (e *CompatibilityError) Error() string {
	return fmt.Sprintf("files '%s' and '%s' are incompatible: %s", e.First, e.Other, e.Diff)
}

// PlanningError reports a source/target combination no plan can be built for.
type PlanningError struct {
	Path   string
	Reason string
}

func (e *PlanningError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("cannot plan encode: %s", e.Reason)
	}
	return fmt.Sprintf("cannot plan encode for '%s': %s", e.Path, e.Reason)
}
