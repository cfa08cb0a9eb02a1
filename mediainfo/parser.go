// Package mediainfo turns the text report of the mediainfo tool into a
// models.MediaProfile.
package mediainfo

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"vidplan/models"
)

// Section is the report section the scanner is currently in.
type Section int

const (
	SectionNone Section = iota
	SectionVideo
	SectionAudio
	SectionText
)

func (s Section) String() string {
	switch s {
	case SectionVideo:
		return "Video"
	case SectionAudio:
		return "Audio"
	case SectionText:
		return "Text"
	default:
		return "None"
	}
}

// sectionHeaders maps exact header lines to sections.
var sectionHeaders = map[string]Section{
	"Video":    SectionVideo,
	"Video #1": SectionVideo,
	"Audio":    SectionAudio,
	"Audio #1": SectionAudio,
	"Text":     SectionText,
}

// FieldRule binds a label prefix to the profile field it fills.
type FieldRule struct {
	Prefix string
	Field  string
	apply  func(b *models.ProfileBuilder, value string) error
}

// Labels are padded to a fixed column, so the trailing spaces in a prefix
// tell "Format  " apart from "Format profile" and "Bit rate  " apart from
// "Bit rate mode". "Codec ID " must be tested before "ID ".
var videoRules = []FieldRule{
	{"Format  ", "video format", func(b *models.ProfileBuilder, v string) error {
		b.SetVideoFormat(v)
		return nil
	}},
	{"Format profile ", "video format profile", func(b *models.ProfileBuilder, v string) error {
		b.SetVideoFormatProfile(v)
		return nil
	}},
	{"Codec ID ", "video codec id", func(b *models.ProfileBuilder, v string) error {
		b.SetVideoCodecID(v)
		return nil
	}},
	{"ID ", "video stream id", func(b *models.ProfileBuilder, v string) error {
		id, err := leadingInt(v)
		if err == nil {
			b.SetVideoStreamID(id)
		}
		return err
	}},
	{"Scan type ", models.FieldScanType, func(b *models.ProfileBuilder, v string) error {
		b.SetVideoScan(models.ParseScanType(v))
		return nil
	}},
	{"Width ", models.FieldWidth, func(b *models.ProfileBuilder, v string) error {
		w, err := groupedInt(v)
		if err == nil {
			b.SetVideoWidth(w)
		}
		return err
	}},
	{"Height ", models.FieldHeight, func(b *models.ProfileBuilder, v string) error {
		h, err := groupedInt(v)
		if err == nil {
			b.SetVideoHeight(h)
		}
		return err
	}},
	{"Bit rate  ", "video " + models.FieldBitrate, func(b *models.ProfileBuilder, v string) error {
		kbps, err := bitrate(v)
		if err == nil {
			b.SetVideoBitrate(kbps)
		}
		return err
	}},
	{"Frame rate  ", models.FieldFrameRate, func(b *models.ProfileBuilder, v string) error {
		fps, err := leadingFloat(v)
		if err == nil {
			b.SetVideoFPS(fps)
		}
		return err
	}},
}

var audioRules = []FieldRule{
	{"Format  ", "audio format", func(b *models.ProfileBuilder, v string) error {
		b.SetAudioFormat(v)
		return nil
	}},
	{"Codec ID ", models.FieldAudioCodec, func(b *models.ProfileBuilder, v string) error {
		b.SetAudioCodecID(v)
		return nil
	}},
	{"ID ", "audio stream id", func(b *models.ProfileBuilder, v string) error {
		id, err := leadingInt(v)
		if err == nil {
			b.SetAudioStreamID(id)
		}
		return err
	}},
	{"Bit rate  ", "audio " + models.FieldBitrate, func(b *models.ProfileBuilder, v string) error {
		kbps, err := bitrate(v)
		if err == nil {
			b.SetAudioBitrate(kbps)
		}
		return err
	}},
	{"Sampling rate ", models.FieldSampleRate, func(b *models.ProfileBuilder, v string) error {
		hz, err := sampleRateHz(v)
		if err == nil {
			b.SetAudioSampleRate(hz)
		}
		return err
	}},
	{"Channel(s) ", models.FieldAudioChannels, func(b *models.ProfileBuilder, v string) error {
		n, err := leadingInt(v)
		if err == nil {
			b.SetAudioChannels(n)
		}
		return err
	}},
}

// Rules returns the ordered label rules applied inside a section.
// Sections other than Video and Audio have none.
func Rules(s Section) []FieldRule {
	switch s {
	case SectionVideo:
		return videoRules
	case SectionAudio:
		return audioRules
	default:
		return nil
	}
}

// Match returns the first rule whose prefix starts line, if any.
func Match(s Section, line string) (FieldRule, bool) {
	for _, rule := range Rules(s) {
		if strings.HasPrefix(line, rule.Prefix) {
			return rule, true
		}
	}
	return FieldRule{}, false
}

// maxLineSize bounds a single report line. Tag and encoder settings lines
// can exceed the bufio default of 64 KiB.
const maxLineSize = 16 << 20

// Parse scans one mediainfo text report and builds the profile of path.
//
// Any other section title ("General", "Menu", "Audio #2", ...) stops field
// extraction until the next known header, so a second audio track never
// overwrites the first.
func Parse(path string, report io.Reader) (*models.MediaProfile, error) {
	b := models.NewProfileBuilder(path)
	section := SectionNone

	scanner := bufio.NewScanner(report)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")

		if s, ok := sectionHeaders[line]; ok {
			section = s
			continue
		}
		if isSectionTitle(line) {
			section = SectionNone
			continue
		}

		rule, ok := Match(section, line)
		if !ok {
			continue
		}
		if err := rule.apply(b, Value(line)); err != nil {
			return nil, &models.ParseError{
				Path:   path,
				Field:  rule.Field,
				Reason: fmt.Sprintf("invalid %s: %v", rule.Field, err),
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read media report for '%s': %w", path, err)
	}

	return b.Build()
}

// ParseString is Parse over an in-memory report.
func ParseString(path, report string) (*models.MediaProfile, error) {
	return Parse(path, strings.NewReader(report))
}

// isSectionTitle reports whether line opens a report section: a bare title
// with no "label : value" separator.
func isSectionTitle(line string) bool {
	return line != "" && !strings.Contains(line, ":") && !strings.HasPrefix(line, " ")
}
