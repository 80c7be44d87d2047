package openai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NextMind-AI/voicenote-go/audio"

	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"
)

var ErrEmptyAudio = errors.New("audio payload is empty")

// Transcribe sends the audio bytes to the transcription endpoint and returns the text.
// An empty transcript is returned as "" with a nil error.
func (c *Client) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyAudio
	}

	contentType := audio.NormalizeMimeType(mimeType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fileName := audio.FileName(mimeType)

	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(c.transcriptionModel),
		File:  openai.File(bytes.NewReader(data), fileName, contentType),
	}
	if c.language != "" {
		params.Language = openai.String(c.language)
	}

	log.Debug().
		Str("model", c.transcriptionModel).
		Str("file_name", fileName).
		Int("size", len(data)).
		Msg("Sending audio to OpenAI for transcription")

	start := time.Now()
	transcription, err := c.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai transcription failed: %w", err)
	}

	text := strings.TrimSpace(transcription.Text)

	log.Info().
		Str("model", c.transcriptionModel).
		Int("transcript_length", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Audio transcribed")

	return text, nil
}
