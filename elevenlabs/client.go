// Package elevenlabs provides a client for the ElevenLabs speech-to-text API.
//
// It is an alternative transcription backend to OpenAI, selected with
// TRANSCRIPTION_PROVIDER=elevenlabs.
//
// Basic usage:
//
//	client := elevenlabs.NewClient(apiKey, elevenlabs.DefaultModel, "", http.Client{})
//	text, err := client.Transcribe(ctx, audioBytes, "audio/ogg; codecs=opus")
package elevenlabs

import (
	"net/http"
)

const (
	DefaultBaseURL   = "https://api.elevenlabs.io/v1"
	DefaultModel     = "scribe_v1"
	SpeechToTextPath = "/speech-to-text"
)

type Client struct {
	APIKey       string
	ModelID      string
	LanguageCode string
	BaseURL      string
	HTTPClient   *http.Client
}

// NewClient creates a new ElevenLabs client.
// An empty languageCode lets the model detect the language.
func NewClient(apiKey string, modelID string, languageCode string, httpClient http.Client) Client {
	if modelID == "" {
		modelID = DefaultModel
	}
	return Client{
		APIKey:       apiKey,
		ModelID:      modelID,
		LanguageCode: languageCode,
		BaseURL:      DefaultBaseURL,
		HTTPClient:   &httpClient,
	}
}
