package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"
)

var ErrMissingFile = errors.New("speech-to-text request has no file")

// SpeechToText converts audio to text using ElevenLabs API
func (c *Client) SpeechToText(ctx context.Context, req SpeechToTextRequest) (*SpeechToTextResponse, error) {
	if req.File == nil {
		return nil, ErrMissingFile
	}
	if req.ModelID == "" {
		req.ModelID = DefaultModel
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("model_id", req.ModelID); err != nil {
		return nil, fmt.Errorf("failed to write model_id field: %w", err)
	}

	if req.LanguageCode != "" {
		if err := writer.WriteField("language_code", req.LanguageCode); err != nil {
			return nil, fmt.Errorf("failed to write language_code field: %w", err)
		}
	}

	if req.TagAudioEvents != nil {
		if err := writer.WriteField("tag_audio_events", strconv.FormatBool(*req.TagAudioEvents)); err != nil {
			return nil, fmt.Errorf("failed to write tag_audio_events field: %w", err)
		}
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = "audio_file"
	}

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := io.Copy(part, req.File); err != nil {
		return nil, fmt.Errorf("failed to copy file data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	url := c.BaseURL + SpeechToTextPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("xi-api-key", c.APIKey)

	log.Debug().
		Str("url", url).
		Str("model_id", req.ModelID).
		Str("file_name", fileName).
		Msg("Making speech-to-text request to ElevenLabs")

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp.StatusCode, respBody)
	}

	var result SpeechToTextResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response JSON: %w", err)
	}

	log.Info().
		Str("language_code", result.LanguageCode).
		Float64("language_probability", result.LanguageProbability).
		Int("word_count", len(result.Words)).
		Msg("Successfully transcribed audio")

	return &result, nil
}
