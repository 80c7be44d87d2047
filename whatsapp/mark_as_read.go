package whatsapp

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
)

func (c *Client) MarkMessageAsRead(ctx context.Context, messageID string) error {
	log.Debug().Str("message_id", messageID).Msg("Marking message as read")

	payload := MarkAsReadPayload{
		MessagingProduct: "whatsapp",
		Status:           "read",
		MessageID:        messageID,
	}

	_, err := c.sendRequest(ctx, http.MethodPost, c.messagesURL(), payload)
	return err
}
