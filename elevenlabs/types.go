package elevenlabs

import (
	"encoding/json"
	"fmt"
	"io"
)

type SpeechToTextRequest struct {
	ModelID        string
	LanguageCode   string
	TagAudioEvents *bool
	File           io.Reader
	FileName       string
}

type Word struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Type  string  `json:"type"`
}

type SpeechToTextResponse struct {
	LanguageCode        string  `json:"language_code"`
	LanguageProbability float64 `json:"language_probability"`
	Text                string  `json:"text"`
	Words               []Word  `json:"words,omitempty"`
}

type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ElevenLabs API error (status %d): %s - %s", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("ElevenLabs API error (status %d): %s", e.StatusCode, e.Message)
}

// parseAPIError reads both error shapes the API returns:
// {"detail": "text"} and {"detail": {"status": "...", "message": "..."}}.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		apiErr.Message = string(body)
		return apiErr
	}

	var detailText string
	if err := json.Unmarshal(envelope.Detail, &detailText); err == nil {
		apiErr.Message = detailText
		return apiErr
	}

	var detail struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil && detail.Message != "" {
		apiErr.Message = detail.Message
		apiErr.Detail = detail.Status
		return apiErr
	}

	apiErr.Message = string(body)
	return apiErr
}
