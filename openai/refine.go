package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"
)

var (
	ErrRefineDisabled  = errors.New("refine model not configured")
	ErrEmptyRefinement = errors.New("refine model returned no text")
)

// Refine asks the chat model to clean up punctuation in a raw transcript.
// The caller is expected to fall back to the raw transcript on error.
func (c *Client) Refine(ctx context.Context, transcript string) (string, error) {
	if !c.RefineEnabled() {
		return "", ErrRefineDisabled
	}

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(c.refinePrompt),
		openai.UserMessage(transcript),
	}

	chatCompletion, err := c.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: messages,
			Model:    openai.ChatModel(c.refineModel),
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: createSchemaParam()},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai refine failed: %w", err)
	}

	if len(chatCompletion.Choices) == 0 {
		return "", ErrEmptyRefinement
	}

	var refined RefinedTranscript
	if err := json.Unmarshal([]byte(chatCompletion.Choices[0].Message.Content), &refined); err != nil {
		return "", fmt.Errorf("failed to parse refined transcript: %w", err)
	}

	text := strings.TrimSpace(refined.Text)
	if text == "" {
		return "", ErrEmptyRefinement
	}

	log.Info().
		Str("model", c.refineModel).
		Int("raw_length", len(transcript)).
		Int("refined_length", len(text)).
		Msg("Transcript refined")

	return text, nil
}
