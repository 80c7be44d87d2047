package openai

import (
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
)

// RefinedTranscript is the structured output requested from the refine model.
type RefinedTranscript struct {
	Text string `json:"text" jsonschema_description:"The cleaned up transcript, same language as the input"`
}

// GenerateSchema creates a JSON schema for the given type T.
// The schema disallows additional properties and inlines definitions,
// which is what strict structured output expects.
func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	schema := reflector.Reflect(v)
	return schema
}

var RefinedTranscriptSchema = GenerateSchema[RefinedTranscript]()

func createSchemaParam() openai.ResponseFormatJSONSchemaJSONSchemaParam {
	return openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "refined_transcript",
		Description: openai.String("A cleaned up voice message transcript"),
		Schema:      RefinedTranscriptSchema,
		Strict:      openai.Bool(true),
	}
}
