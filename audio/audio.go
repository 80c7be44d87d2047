// Package audio holds small helpers shared by the transcription clients.
package audio

import (
	"mime"
	"strings"
)

const defaultBaseName = "voice"

// NormalizeMimeType strips parameters such as "; codecs=opus" and lowercases the result.
func NormalizeMimeType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		if idx := strings.Index(contentType, ";"); idx != -1 {
			contentType = contentType[:idx]
		}
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return mediaType
}

// FileName returns a file name whose extension the transcription APIs recognise.
// WhatsApp voice notes arrive as "audio/ogg; codecs=opus" and are sent as voice.ogg.
func FileName(contentType string) string {
	return defaultBaseName + Extension(contentType)
}

// Extension maps a content type to a file extension, ".ogg" when unknown.
func Extension(contentType string) string {
	switch NormalizeMimeType(contentType) {
	case "audio/mpeg", "audio/mp3":
		return ".mp3"
	case "audio/wav", "audio/wave", "audio/x-wav":
		return ".wav"
	case "audio/ogg", "audio/opus":
		return ".ogg"
	case "audio/aac":
		return ".aac"
	case "audio/flac":
		return ".flac"
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return ".m4a"
	case "audio/amr":
		return ".amr"
	case "audio/webm", "video/webm":
		return ".webm"
	case "video/mp4":
		return ".mp4"
	default:
		return ".ogg"
	}
}

// IsAudioContent checks if the content type represents audio or video
func IsAudioContent(contentType string) bool {
	contentType = NormalizeMimeType(contentType)
	return strings.HasPrefix(contentType, "audio/") ||
		strings.HasPrefix(contentType, "video/")
}
