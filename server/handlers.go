package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NextMind-AI/voicenote-go/processor"
	"github.com/NextMind-AI/voicenote-go/whatsapp"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

func (s *Server) healthCheckHandler(c fiber.Ctx) error {
	return c.JSON(StatusResponse{Status: healthStatus})
}

// verifyWebhookHandler answers Meta's subscription handshake.
// The challenge is echoed only when the verify token matches.
func (s *Server) verifyWebhookHandler(c fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		log.Warn().
			Str("request_id", requestID(c)).
			Msg("Webhook verification missing mode or token")
		return c.Status(fiber.StatusBadRequest).SendString("Invalid request")
	}

	if mode == "subscribe" && subtle.ConstantTimeCompare([]byte(token), []byte(s.verifyToken)) == 1 {
		log.Info().Msg("Webhook verified")
		return c.Status(fiber.StatusOK).SendString(challenge)
	}

	log.Warn().
		Str("request_id", requestID(c)).
		Str("mode", mode).
		Msg("Webhook verification failed")
	return c.Status(fiber.StatusForbidden).SendString("Invalid verify token")
}

// inboundWebhookHandler processes the event before acknowledging it.
// Any JSON body is answered with 200 so Meta does not redeliver it.
func (s *Server) inboundWebhookHandler(c fiber.Ctx) error {
	body := c.Body()

	if s.appSecret != "" && !whatsapp.VerifySignature(s.appSecret, body, c.Get(whatsapp.SignatureHeader)) {
		log.Warn().
			Str("request_id", requestID(c)).
			Msg("Rejected webhook with invalid signature")
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{Error: "invalid signature"})
	}

	if !json.Valid(body) {
		log.Error().
			Str("request_id", requestID(c)).
			Int("body_size", len(body)).
			Msg("Webhook body is not JSON")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid JSON body"})
	}

	// A field of the wrong type fails the whole decode; such a payload carries no usable
	// message and is handed on as nil so it is acknowledged as ignored.
	payload := &whatsapp.WebhookPayload{}
	if err := json.Unmarshal(body, payload); err != nil {
		log.Debug().
			Err(err).
			Str("request_id", requestID(c)).
			Msg("Webhook payload does not match the expected shape")
		payload = nil
	}

	outcome, err := s.handleWebhook(payload)

	var validationErr *processor.ValidationError
	if errors.As(err, &validationErr) {
		log.Debug().
			Err(err).
			Str("request_id", requestID(c)).
			Msg("Webhook carries no voice message")
	}

	log.Info().
		Str("request_id", requestID(c)).
		Str("outcome", string(outcome)).
		Msg("Webhook acknowledged")

	return c.Status(fiber.StatusOK).JSON(StatusResponse{Status: string(outcome)})
}

// handleWebhook turns a panic in processing into a failed outcome so the event is
// still acknowledged and Meta does not redeliver it.
func (s *Server) handleWebhook(payload *whatsapp.WebhookPayload) (outcome processor.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Msg("Recovered panic while processing webhook")
			outcome = processor.OutcomeFailed
			err = fmt.Errorf("panic while processing webhook: %v", r)
		}
	}()

	return s.processor.HandleWebhook(payload)
}
