// Package planner derives encode parameters from a source profile and a
// device target profile.
package planner

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"vidplan/internal/logging"
	"vidplan/internal/metrics"
	"vidplan/models"
)

// AudioLadder is the descending list of standard audio bit rates in Kbps.
var AudioLadder = []int{320, 256, 192, 160, 128, 112, 96, 64, 0}

// Branch names the scaling rule that produced an output size.
type Branch string

const (
	BranchFits               Branch = "fits"
	BranchWidth              Branch = "width"
	BranchHeight             Branch = "height"
	BranchWidthBrokenAspect  Branch = "width_broken_aspect"
	BranchHeightBrokenAspect Branch = "height_broken_aspect"
)

// Scaling is the outcome of the resolution and video bit rate computation.
type Scaling struct {
	Width, Height int
	BitrateKbps   int
	Branch        Branch
}

// Scaled reports whether the output size differs from the source size.
func (s Scaling) Scaled() bool {
	return s.Branch != BranchFits
}

// Scale fits a source size into the target bounds, preserving the aspect
// ratio where possible, and allocates a bit rate proportional to the output
// area. effKbps is the effective maximum bit rate.
//
// The scaled dimension is rounded to the nearest integer and then up to an
// even number. When that still exceeds the other bound the aspect ratio is
// dropped: the output is the full target size at effKbps.
func Scale(srcW, srcH, maxW, maxH, effKbps int) Scaling {
	area := func(w, h int) int {
		return int(int64(effKbps) * int64(w) * int64(h) / (int64(maxW) * int64(maxH)))
	}

	switch {
	case srcW > maxW:
		h := roundUpEven(float64(srcH) * float64(maxW) / float64(srcW))
		if h <= maxH {
			return Scaling{Width: maxW, Height: h, BitrateKbps: area(maxW, h), Branch: BranchWidth}
		}
		return Scaling{Width: maxW, Height: maxH, BitrateKbps: effKbps, Branch: BranchWidthBrokenAspect}

	case srcH > maxH:
		w := roundUpEven(float64(srcW) * float64(maxH) / float64(srcH))
		if w <= maxW {
			return Scaling{Width: w, Height: maxH, BitrateKbps: area(w, maxH), Branch: BranchHeight}
		}
		return Scaling{Width: maxW, Height: maxH, BitrateKbps: effKbps, Branch: BranchHeightBrokenAspect}

	default:
		return Scaling{Width: srcW, Height: srcH, BitrateKbps: area(srcW, srcH), Branch: BranchFits}
	}
}

func roundUpEven(v float64) int {
	n := int(math.Round(v))
	if n%2 != 0 {
		n++
	}
	return n
}

// QuantizeAudioBitrate caps the source audio bit rate at the target maximum.
// A value below the maximum snaps down to the nearest AudioLadder step; the
// maximum itself is kept as is.
func QuantizeAudioBitrate(sourceKbps, maxKbps int) int {
	candidate := min(sourceKbps, maxKbps)
	if candidate >= maxKbps {
		return candidate
	}
	for _, step := range AudioLadder {
		if step <= candidate {
			return step
		}
	}
	return 0
}

// H264Settings returns the H.264 profile and level for the encode.
//
// In match-source mode the source format profile ("High@L4.1") is split on
// "@": the left side lower-cased is the profile, the right side without dots
// and "L" is the level. Otherwise the target's values are used.
func H264Settings(source *models.MediaProfile, target *models.TargetProfile) (profile, level string, err error) {
	if !target.MatchSource() {
		return strings.ToLower(target.H264Profile), strings.ReplaceAll(target.H264Level, ".", ""), nil
	}

	if source.Video.FormatProfile == nil || *source.Video.FormatProfile == "" {
		return "", "", &models.PlanningError{
			Path:   source.Path,
			Reason: "same H.264 profile/level as input requested, but no format profile found in input file",
		}
	}
	left, right, _ := strings.Cut(*source.Video.FormatProfile, "@")
	level = strings.NewReplacer(".", "", "L", "").Replace(right)
	return strings.ToLower(left), level, nil
}

// FrameRateOverride returns the explicit output rate used for interlaced
// sources: 23.976 and 29.970 map to their exact NTSC fractions, any other
// rate is passed through. A missing rate yields no override.
func FrameRateOverride(fps *float64) string {
	if fps == nil {
		return ""
	}
	switch *fps {
	case 23.976:
		return "24000/1001"
	case 29.970:
		return "30000/1001"
	default:
		return strconv.FormatFloat(*fps, 'f', -1, 64)
	}
}

// Plan computes the encode plan for source on target. It is deterministic
// and performs no I/O besides logging.
func Plan(source *models.MediaProfile, target *models.TargetProfile, overrides models.Overrides) (*models.EncodePlan, error) {
	logger := logging.GetLogger("planner")

	if err := target.Validate(); err != nil {
		return nil, err
	}
	v := source.Video
	if v.Width == nil || v.Height == nil {
		return nil, &models.PlanningError{Path: source.Path, Reason: "no video width/height information"}
	}
	if v.BitrateKbps == nil {
		return nil, &models.PlanningError{Path: source.Path, Reason: "no video bit rate information"}
	}

	plan := &models.EncodePlan{
		AudioChannels:   target.AudioChannels,
		AudioSampleRate: target.AudioSampleRate,
		TwoPass:         overrides.TwoPass,
		Preset:          overrides.Preset,
	}
	warn := func(msg string) {
		plan.Warnings = append(plan.Warnings, msg)
		logger.Warn(msg, "path", source.Path, "target", target.Name)
	}

	// Video size and bit rate
	eff := min(target.MaxVideoBitrate, *v.BitrateKbps)
	s := Scale(*v.Width, *v.Height, target.MaxWidth, target.MaxHeight, eff)
	plan.Scaled = s.Scaled()
	plan.Width, plan.Height = s.Width, s.Height
	plan.VideoBitrateKbps = s.BitrateKbps

	profile, level, err := H264Settings(source, target)
	if err != nil {
		return nil, err
	}
	plan.H264Profile, plan.H264Level = profile, level

	// Audio
	if source.Audio.BitrateKbps == nil {
		warn(fmt.Sprintf("no audio bit rate information, using %d Kbps", target.MaxAudioBitrate))
		plan.AudioBitrateKbps = target.MaxAudioBitrate
	} else {
		plan.AudioBitrateKbps = QuantizeAudioBitrate(*source.Audio.BitrateKbps, target.MaxAudioBitrate)
	}

	// Interlacing
	switch {
	case v.Interlaced() && target.Interlaced:
		plan.Interlace = models.InterlaceEncode
		plan.FrameRate = FrameRateOverride(v.FPS)
	case v.Interlaced():
		plan.Interlace = models.InterlaceDeinterlace
		plan.FrameRate = FrameRateOverride(v.FPS)
	default:
		plan.Interlace = models.InterlaceNone
		if target.Interlaced {
			warn("interlaced output for progressive input not supported")
		}
	}

	metrics.PlanBuilt(string(s.Branch))
	logger.Debug("Plan computed",
		"path", source.Path,
		"branch", string(s.Branch),
		"width", plan.Width,
		"height", plan.Height,
		"video_kbps", plan.VideoBitrateKbps,
		"audio_kbps", plan.AudioBitrateKbps,
		"interlace", string(plan.Interlace))
	return plan, nil
}
