package planner

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidplan/models"
)

func source(t *testing.T, w, h, kbps int, modify func(b *models.ProfileBuilder)) *models.MediaProfile {
	t.Helper()
	b := models.NewProfileBuilder("source.mkv").
		SetVideoFormat("AVC").SetVideoFormatProfile("High@L4.1").
		SetVideoFPS(23.976).SetVideoWidth(w).SetVideoHeight(h).SetVideoBitrate(kbps).
		SetVideoScan(models.ScanProgressive).
		SetAudioCodecID("A_AC3").SetAudioChannels(6).SetAudioSampleRate(48000).SetAudioBitrate(448)
	if modify != nil {
		modify(b)
	}
	p, err := b.Build()
	require.NoError(t, err)
	return p
}

func target(w, h, kbps int) *models.TargetProfile {
	return &models.TargetProfile{
		Name:            "device",
		MaxWidth:        w,
		MaxHeight:       h,
		MaxVideoBitrate: kbps,
		H264Profile:     "High",
		H264Level:       "4.1",
		MaxAudioBitrate: 320,
		AudioSampleRate: 48000,
		AudioChannels:   2,
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		name            string
		srcW, srcH      int
		maxW, maxH, eff int
		expected        Scaling
	}{
		{
			name: "width bound",
			srcW: 1920, srcH: 800, maxW: 1280, maxH: 720, eff: 4000,
			// round(533.33) = 533, up to even 534; 4000*1280*534/(1280*720)
			expected: Scaling{Width: 1280, Height: 534, BitrateKbps: 2966, Branch: BranchWidth},
		},
		{
			name: "width bound exact",
			srcW: 1920, srcH: 1080, maxW: 1280, maxH: 720, eff: 4000,
			expected: Scaling{Width: 1280, Height: 720, BitrateKbps: 4000, Branch: BranchWidth},
		},
		{
			name: "width bound breaks aspect",
			srcW: 1920, srcH: 1080, maxW: 1280, maxH: 600, eff: 4000,
			expected: Scaling{Width: 1280, Height: 600, BitrateKbps: 4000, Branch: BranchWidthBrokenAspect},
		},
		{
			name: "width checked before height",
			srcW: 1440, srcH: 1080, maxW: 1280, maxH: 720, eff: 3000,
			expected: Scaling{Width: 1280, Height: 720, BitrateKbps: 3000, Branch: BranchWidthBrokenAspect},
		},
		{
			name: "height bound",
			srcW: 720, srcH: 1080, maxW: 1280, maxH: 720, eff: 4000,
			// 720*720/1080 = 480; 4000*480*720/(1280*720) = 1500
			expected: Scaling{Width: 480, Height: 720, BitrateKbps: 1500, Branch: BranchHeight},
		},
		{
			name: "height bound rounds width up to even",
			srcW: 1003, srcH: 1500, maxW: 1280, maxH: 720, eff: 4000,
			// round(481.44) = 481, up to even 482; 4000*482*720/(1280*720)
			expected: Scaling{Width: 482, Height: 720, BitrateKbps: 1506, Branch: BranchHeight},
		},
		{
			name: "height bound breaks aspect after even rounding",
			srcW: 101, srcH: 1001, maxW: 101, maxH: 1000, eff: 800,
			// round(100.9) = 101, up to even 102 > 101
			expected: Scaling{Width: 101, Height: 1000, BitrateKbps: 800, Branch: BranchHeightBrokenAspect},
		},
		{
			name: "fits within bounds",
			srcW: 640, srcH: 480, maxW: 1280, maxH: 720, eff: 1500,
			// 1500*640*480/(1280*720) = 500
			expected: Scaling{Width: 640, Height: 480, BitrateKbps: 500, Branch: BranchFits},
		},
		{
			name: "fits exactly",
			srcW: 1280, srcH: 720, maxW: 1280, maxH: 720, eff: 4000,
			expected: Scaling{Width: 1280, Height: 720, BitrateKbps: 4000, Branch: BranchFits},
		},
		{
			name: "large values do not overflow",
			srcW: 7680, srcH: 4320, maxW: 3840, maxH: 2160, eff: 2000000,
			expected: Scaling{Width: 3840, Height: 2160, BitrateKbps: 2000000, Branch: BranchWidth},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scale(tt.srcW, tt.srcH, tt.maxW, tt.maxH, tt.eff)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expected.Branch != BranchFits, got.Scaled())
		})
	}
}

func TestScale_Invariants(t *testing.T) {
	sizes := [][2]int{
		{320, 240}, {640, 480}, {704, 576}, {720, 480}, {720, 576}, {853, 480},
		{1280, 544}, {1280, 720}, {1440, 1080}, {1920, 800}, {1920, 1080},
		{1998, 1080}, {2048, 858}, {3840, 1600}, {3840, 2160}, {480, 854}, {1081, 1921},
	}
	bounds := [][2]int{{320, 240}, {640, 480}, {720, 576}, {1024, 768}, {1280, 720}, {1920, 1080}, {853, 480}}

	for _, src := range sizes {
		for _, max := range bounds {
			s := Scale(src[0], src[1], max[0], max[1], 5000)

			assert.LessOrEqual(t, s.Width, max[0], "width over bound for %v into %v", src, max)
			assert.LessOrEqual(t, s.Height, max[1], "height over bound for %v into %v", src, max)
			assert.LessOrEqual(t, s.BitrateKbps, 5000)

			switch s.Branch {
			case BranchWidth:
				assert.Zero(t, s.Height%2, "odd scaled height for %v into %v", src, max)
				want := float64(src[1]) * float64(max[0]) / float64(src[0])
				assert.LessOrEqual(t, math.Abs(float64(s.Height)-want), 1.5, "aspect drift for %v into %v", src, max)
			case BranchHeight:
				assert.Zero(t, s.Width%2, "odd scaled width for %v into %v", src, max)
				want := float64(src[0]) * float64(max[1]) / float64(src[1])
				assert.LessOrEqual(t, math.Abs(float64(s.Width)-want), 1.5, "aspect drift for %v into %v", src, max)
			case BranchFits:
				assert.Equal(t, src[0], s.Width)
				assert.Equal(t, src[1], s.Height)
			}
		}
	}
}

func TestQuantizeAudioBitrate(t *testing.T) {
	tests := []struct {
		name     string
		source   int
		max      int
		expected int
	}{
		{"snaps down to the step below", 300, 320, 256},
		{"source at maximum is kept", 320, 320, 320},
		{"source above maximum keeps maximum", 448, 320, 320},
		{"non-ladder maximum kept", 400, 384, 384},
		{"non-ladder maximum, lower source", 300, 384, 256},
		{"exact step", 192, 320, 192},
		{"between steps", 150, 320, 128},
		{"between low steps", 100, 160, 96},
		{"below lowest step", 50, 160, 0},
		{"zero", 0, 160, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, QuantizeAudioBitrate(tt.source, tt.max))
		})
	}
}

func TestQuantizeAudioBitrate_LadderMembership(t *testing.T) {
	for _, max := range []int{96, 128, 160, 192, 256, 320, 384, 448} {
		for src := 0; src <= 512; src++ {
			got := QuantizeAudioBitrate(src, max)
			if src >= max {
				assert.Equal(t, max, got, "source %d max %d", src, max)
				continue
			}
			assert.True(t, slices.Contains(AudioLadder, got), "source %d max %d gave %d", src, max, got)
			assert.LessOrEqual(t, got, src)
		}
	}
}

func TestH264Settings(t *testing.T) {
	tests := []struct {
		name           string
		formatProfile  *string
		targetProfile  string
		targetLevel    string
		profile, level string
		planningError  bool
	}{
		{name: "target values", targetProfile: "High", targetLevel: "4.1", profile: "high", level: "41"},
		{name: "target level without dot", targetProfile: "Main", targetLevel: "31", profile: "main", level: "31"},
		{name: "same as source", formatProfile: ptr("High@L4.1"), targetProfile: "same", targetLevel: "same", profile: "high", level: "41"},
		{name: "same on level only", formatProfile: ptr("Main@L3.0"), targetProfile: "High", targetLevel: "SAME", profile: "main", level: "30"},
		{name: "source without level", formatProfile: ptr("Baseline"), targetProfile: "same", targetLevel: "3", profile: "baseline", level: ""},
		{name: "source without profile string", targetProfile: "same", targetLevel: "same", planningError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := source(t, 1280, 720, 4000, nil)
			src.Video.FormatProfile = tt.formatProfile
			tgt := target(1920, 1080, 8000)
			tgt.H264Profile, tgt.H264Level = tt.targetProfile, tt.targetLevel

			profile, level, err := H264Settings(src, tgt)
			if tt.planningError {
				var perr *models.PlanningError
				require.True(t, errors.As(err, &perr), "expected *PlanningError, got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.profile, profile)
			assert.Equal(t, tt.level, level)
		})
	}
}

func TestFrameRateOverride(t *testing.T) {
	assert.Equal(t, "", FrameRateOverride(nil))
	assert.Equal(t, "24000/1001", FrameRateOverride(ptrF(23.976)))
	assert.Equal(t, "30000/1001", FrameRateOverride(ptrF(29.970)))
	assert.Equal(t, "25", FrameRateOverride(ptrF(25)))
	assert.Equal(t, "59.94", FrameRateOverride(ptrF(59.94)))
}

func TestPlan_ScenarioA(t *testing.T) {
	plan, err := Plan(source(t, 1920, 800, 6000, nil), target(1280, 720, 4000), models.Overrides{})
	require.NoError(t, err)

	assert.True(t, plan.Scaled)
	assert.Equal(t, 1280, plan.Width)
	assert.Equal(t, 534, plan.Height)
	assert.Equal(t, 2966, plan.VideoBitrateKbps)
	assert.Equal(t, "high", plan.H264Profile)
	assert.Equal(t, "41", plan.H264Level)
	assert.Equal(t, 320, plan.AudioBitrateKbps)
	assert.Equal(t, 2, plan.AudioChannels)
	assert.Equal(t, 48000, plan.AudioSampleRate)
	assert.Equal(t, models.InterlaceNone, plan.Interlace)
	assert.Empty(t, plan.FrameRate)
	assert.Empty(t, plan.Warnings)
}

func TestPlan_EffectiveBitrateUsesLowerSource(t *testing.T) {
	plan, err := Plan(source(t, 1920, 1080, 3000, nil), target(1920, 1080, 8000), models.Overrides{})
	require.NoError(t, err)
	assert.False(t, plan.Scaled)
	assert.Equal(t, 3000, plan.VideoBitrateKbps)
}

func TestPlan_AudioScenarioB(t *testing.T) {
	src := source(t, 1280, 720, 4000, func(b *models.ProfileBuilder) { b.SetAudioBitrate(300) })
	plan, err := Plan(src, target(1280, 720, 4000), models.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 256, plan.AudioBitrateKbps)
}

func TestPlan_MissingAudioBitrateWarns(t *testing.T) {
	src := source(t, 1280, 720, 4000, nil)
	src.Audio.BitrateKbps = nil

	plan, err := Plan(src, target(1280, 720, 4000), models.Overrides{})
	require.NoError(t, err)
	assert.Equal(t, 320, plan.AudioBitrateKbps)
	require.Len(t, plan.Warnings, 1)
	assert.Contains(t, plan.Warnings[0], "no audio bit rate")
}

func TestPlan_Interlace(t *testing.T) {
	tests := []struct {
		name            string
		scan            models.ScanType
		fps             float64
		targetInterlace bool
		mode            models.InterlaceMode
		frameRate       string
		warnings        int
	}{
		{"interlaced to interlaced", models.ScanInterlaced, 29.970, true, models.InterlaceEncode, "30000/1001", 0},
		{"interlaced to progressive", models.ScanInterlaced, 23.976, false, models.InterlaceDeinterlace, "24000/1001", 0},
		{"interlaced PAL", models.ScanInterlaced, 25, false, models.InterlaceDeinterlace, "25", 0},
		{"progressive to progressive", models.ScanProgressive, 29.970, false, models.InterlaceNone, "", 0},
		{"progressive to interlaced warns", models.ScanProgressive, 29.970, true, models.InterlaceNone, "", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := source(t, 1920, 1080, 12000, func(b *models.ProfileBuilder) {
				b.SetVideoScan(tt.scan).SetVideoFPS(tt.fps)
			})
			tgt := target(1920, 1080, 15000)
			tgt.Interlaced = tt.targetInterlace

			plan, err := Plan(src, tgt, models.Overrides{})
			require.NoError(t, err)
			assert.Equal(t, tt.mode, plan.Interlace)
			assert.Equal(t, tt.frameRate, plan.FrameRate)
			assert.Len(t, plan.Warnings, tt.warnings)
		})
	}
}

func TestPlan_Overrides(t *testing.T) {
	plan, err := Plan(source(t, 1280, 720, 4000, nil), target(1280, 720, 4000),
		models.Overrides{TwoPass: true, Preset: "slow"})
	require.NoError(t, err)
	assert.True(t, plan.TwoPass)
	assert.Equal(t, "slow", plan.Preset)
}

func TestPlan_Errors(t *testing.T) {
	t.Run("missing video bitrate", func(t *testing.T) {
		src := source(t, 1280, 720, 4000, nil)
		src.Video.BitrateKbps = nil
		_, err := Plan(src, target(1280, 720, 4000), models.Overrides{})
		var perr *models.PlanningError
		require.True(t, errors.As(err, &perr))
		assert.Contains(t, perr.Reason, "bit rate")
	})

	t.Run("missing dimensions", func(t *testing.T) {
		src := source(t, 1280, 720, 4000, nil)
		src.Video.Height = nil
		_, err := Plan(src, target(1280, 720, 4000), models.Overrides{})
		var perr *models.PlanningError
		require.True(t, errors.As(err, &perr))
	})

	t.Run("match source without format profile", func(t *testing.T) {
		src := source(t, 1280, 720, 4000, nil)
		src.Video.FormatProfile = nil
		tgt := target(1280, 720, 4000)
		tgt.H264Level = "same"
		_, err := Plan(src, tgt, models.Overrides{})
		var perr *models.PlanningError
		require.True(t, errors.As(err, &perr))
	})

	t.Run("incomplete target", func(t *testing.T) {
		tgt := target(1280, 720, 4000)
		tgt.AudioChannels = 0
		_, err := Plan(source(t, 1280, 720, 4000, nil), tgt, models.Overrides{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no audio channel count")
	})
}

func TestPlan_Deterministic(t *testing.T) {
	src := source(t, 1920, 800, 6000, nil)
	tgt := target(1280, 720, 4000)

	first, err := Plan(src, tgt, models.Overrides{TwoPass: true})
	require.NoError(t, err)
	second, err := Plan(src, tgt, models.Overrides{TwoPass: true})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func ptr(s string) *string    { return &s }
func ptrF(f float64) *float64 { return &f }
