package whatsapp

import (
	"context"
	"net/http"
)

func (c *Client) SendTextMessage(ctx context.Context, toNumber, text string) (*MessageResponse, error) {
	message := c.createTextMessage(toNumber, text)
	return c.sendMessageRequest(ctx, http.MethodPost, c.messagesURL(), message)
}

func (c *Client) createTextMessage(toNumber, text string) TextMessage {
	return TextMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               toNumber,
		Type:             MessageTypeText,
		Text: Text{
			Body: text,
		},
	}
}
