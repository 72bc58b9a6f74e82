package ipcam

import (
	"fmt"
	"strings"
)

// VideoCodec selects the video track of an RTSP stream
type VideoCodec string

// AudioCodec selects the audio track of an RTSP stream
type AudioCodec string

const (
	VideoJPEG VideoCodec = "jpeg"
	VideoH264 VideoCodec = "h264"

	AudioULaw AudioCodec = "ulaw"
	AudioALaw AudioCodec = "alaw"
	AudioPCM  AudioCodec = "pcm"
	AudioOpus AudioCodec = "opus"
	AudioAAC  AudioCodec = "aac"

	// DefaultVideoCodec and DefaultAudioCodec are the developer-recommended pair
	DefaultVideoCodec = VideoH264
	DefaultAudioCodec = AudioOpus
)

// VideoCodecs lists every supported RTSP video codec
var VideoCodecs = []VideoCodec{VideoJPEG, VideoH264}

// AudioCodecs lists every supported RTSP audio codec
var AudioCodecs = []AudioCodec{AudioULaw, AudioALaw, AudioPCM, AudioOpus, AudioAAC}

// AllowedOrientations lists the values accepted by SetOrientation
var AllowedOrientations = []string{"landscape", "upsidedown", "portrait", "upsidedown_portrait"}

// ValidateOrientation checks an orientation against AllowedOrientations
func ValidateOrientation(orientation string) error {
	for _, allowed := range AllowedOrientations {
		if orientation == allowed {
			return nil
		}
	}
	return NewValidationError(fmt.Sprintf("invalid orientation %q (allowed: %s)",
		orientation, strings.Join(AllowedOrientations, ", ")))
}

// ValidateSceneMode checks a scene mode against the allow-list the camera reported.
// An empty allow-list rejects every value.
func ValidateSceneMode(sceneMode string, available []Value) error {
	if len(available) == 0 {
		return NewValidationError(fmt.Sprintf("invalid scene mode %q (no scene modes known, refresh status first)", sceneMode))
	}
	if !ContainsValue(available, ParseValue(sceneMode)) {
		names := make([]string, len(available))
		for i, v := range available {
			names[i] = v.String()
		}
		return NewValidationError(fmt.Sprintf("invalid scene mode %q (allowed: %s)",
			sceneMode, strings.Join(names, ", ")))
	}
	return nil
}

// ValidateVideoCodec checks a video codec name
func ValidateVideoCodec(codec VideoCodec) error {
	for _, c := range VideoCodecs {
		if codec == c {
			return nil
		}
	}
	return NewValidationError(fmt.Sprintf("invalid video codec %q", codec))
}

// ValidateAudioCodec checks an audio codec name
func ValidateAudioCodec(codec AudioCodec) error {
	for _, c := range AudioCodecs {
		if codec == c {
			return nil
		}
	}
	return NewValidationError(fmt.Sprintf("invalid audio codec %q", codec))
}

// ValidateQuality checks a JPEG/stream quality percentage
func ValidateQuality(quality int) error {
	if quality < 0 || quality > 100 {
		return NewValidationError(fmt.Sprintf("quality must be 0-100, got %d", quality))
	}
	return nil
}
