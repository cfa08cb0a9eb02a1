// Package mixing selects the streams muxed into the final output when the
// audio track is encoded separately.
package mixing

import "vidplan/models"

// StreamMap holds the ffmpeg -map specifiers for the video stream of the
// first input and the AAC track of the second input.
type StreamMap struct {
	Video string
	Audio string
}

// Type specifiers used when stream ids cannot order the source streams.
var byType = StreamMap{Video: "0:v:0", Audio: "1:a:0"}

// MapStreams derives the mapping from the source stream ids.
//
// When audio follows video in the source, video is the first stream of input
// 0. When audio comes first, video is the second one. The external AAC file
// only has one stream. Equal or unknown ids fall back to type specifiers.
func MapStreams(profile *models.MediaProfile) StreamMap {
	videoID, audioID := profile.Video.StreamID, profile.Audio.StreamID
	if videoID == nil || audioID == nil {
		return byType
	}

	switch {
	case *audioID > *videoID:
		return StreamMap{Video: "0:0", Audio: "1:0"}
	case *audioID < *videoID:
		return StreamMap{Video: "0:1", Audio: "1:0"}
	default:
		return byType
	}
}

// Args returns the -map options in output order, video first.
func (m StreamMap) Args() []string {
	if m.Video == "" || m.Audio == "" {
		return nil
	}
	return []string{"-map", m.Video, "-map", m.Audio}
}
