package elevenlabs

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/NextMind-AI/voicenote-go/audio"
)

var ErrEmptyAudio = errors.New("audio payload is empty")

// Transcribe sends a downloaded voice note to speech-to-text and returns the plain text.
// Audio event tags such as "(laughter)" are disabled since the text is sent back verbatim.
func (c *Client) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyAudio
	}

	tagAudioEvents := false
	result, err := c.SpeechToText(ctx, SpeechToTextRequest{
		ModelID:        c.ModelID,
		LanguageCode:   c.LanguageCode,
		TagAudioEvents: &tagAudioEvents,
		File:           bytes.NewReader(data),
		FileName:       audio.FileName(mimeType),
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(result.Text), nil
}
