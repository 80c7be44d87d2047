package processor

import (
	"fmt"

	"github.com/NextMind-AI/voicenote-go/whatsapp"
)

// ExtractInboundMessage picks the first message of the first change of the first entry
// and checks that it is an audio message with a sender and a media id.
// Anything else returns a *ValidationError.
func ExtractInboundMessage(payload *whatsapp.WebhookPayload) (*InboundMessage, error) {
	if payload == nil || len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return nil, &ValidationError{Err: ErrNoMessage}
	}

	value := payload.Entry[0].Changes[0].Value
	if len(value.Messages) == 0 {
		return nil, &ValidationError{Err: ErrNoMessage}
	}

	message := value.Messages[0]
	if message.Type != whatsapp.MessageTypeAudio {
		return nil, &ValidationError{
			MessageID: message.ID,
			Err:       fmt.Errorf("%w: %q", ErrUnsupportedType, message.Type),
		}
	}

	if message.From == "" {
		return nil, &ValidationError{MessageID: message.ID, Err: ErrMissingSender}
	}

	if message.Audio == nil || message.Audio.ID == "" {
		return nil, &ValidationError{MessageID: message.ID, Err: ErrMissingMedia}
	}

	return &InboundMessage{
		MessageID:   message.ID,
		From:        message.From,
		Type:        message.Type,
		MediaID:     message.Audio.ID,
		MimeType:    message.Audio.MimeType,
		Voice:       message.Audio.Voice,
		Timestamp:   message.Timestamp,
		ProfileName: profileName(value.Contacts, message.From),
	}, nil
}

func profileName(contacts []whatsapp.WebhookContact, waID string) string {
	for _, contact := range contacts {
		if contact.WaID == waID {
			return contact.Profile.Name
		}
	}
	if len(contacts) > 0 {
		return contacts[0].Profile.Name
	}
	return ""
}
