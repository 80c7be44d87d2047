package openai

import (
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Config holds the OpenAI settings used for transcription and the optional refinement pass.
type Config struct {
	APIKey             string
	BaseURL            string
	TranscriptionModel string
	Language           string
	RefineModel        string
	RefinePrompt       string
}

// Client wraps the OpenAI client for speech-to-text and transcript cleanup.
type Client struct {
	client             *openai.Client
	transcriptionModel string
	language           string
	refineModel        string
	refinePrompt       string
}

// NewClient creates a new OpenAI client wrapper with the specified config and HTTP client.
// SDK retries are disabled: every upstream call is a single attempt.
func NewClient(cfg Config, httpClient http.Client, opts ...option.RequestOption) Client {
	requestOptions := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&httpClient),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		// the SDK joins paths onto the base URL and expects a trailing slash
		requestOptions = append(requestOptions, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	requestOptions = append(requestOptions, opts...)

	client := openai.NewClient(requestOptions...)

	model := cfg.TranscriptionModel
	if model == "" {
		model = string(openai.AudioModelWhisper1)
	}

	return Client{
		client:             &client,
		transcriptionModel: model,
		language:           cfg.Language,
		refineModel:        cfg.RefineModel,
		refinePrompt:       cfg.RefinePrompt,
	}
}

// RefineEnabled reports whether a refine model was configured.
func (c *Client) RefineEnabled() bool {
	return c.refineModel != ""
}
