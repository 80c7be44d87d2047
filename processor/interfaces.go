package processor

import (
	"context"

	"github.com/NextMind-AI/voicenote-go/whatsapp"
)

// MediaResolver turns a WhatsApp media id into audio bytes.
type MediaResolver interface {
	FetchAudio(ctx context.Context, mediaID string) (*whatsapp.Audio, error)
}

// Transcriber converts audio bytes to text. An empty string is a valid result.
type Transcriber interface {
	Transcribe(ctx context.Context, data []byte, mimeType string) (string, error)
}

// MessageSender delivers a text message to a WhatsApp user.
type MessageSender interface {
	SendTextMessage(ctx context.Context, toNumber, text string) (*whatsapp.MessageResponse, error)
}

type TranscriptRefiner interface {
	Refine(ctx context.Context, transcript string) (string, error)
}

// DeduplicationStore reports whether a message id is seen for the first time.
type DeduplicationStore interface {
	MarkProcessed(ctx context.Context, messageID string) (bool, error)
}

type ReadMarker interface {
	MarkMessageAsRead(ctx context.Context, messageID string) error
}
