package server

import (
	"context"

	"github.com/NextMind-AI/voicenote-go/processor"
	"github.com/NextMind-AI/voicenote-go/whatsapp"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// WebhookProcessor handles one decoded webhook payload synchronously.
type WebhookProcessor interface {
	HandleWebhook(payload *whatsapp.WebhookPayload) (processor.Outcome, error)
}

type Config struct {
	VerifyToken string
	// AppSecret enables X-Hub-Signature-256 checks when non-empty.
	AppSecret string
}

type Server struct {
	app         *fiber.App
	processor   WebhookProcessor
	verifyToken string
	appSecret   string
	gatherer    prometheus.Gatherer
}

func New(webhookProcessor WebhookProcessor, cfg Config, gatherer prometheus.Gatherer) *Server {
	app := fiber.New()

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	server := &Server{
		app:         app,
		processor:   webhookProcessor,
		verifyToken: cfg.VerifyToken,
		appSecret:   cfg.AppSecret,
		gatherer:    gatherer,
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// App exposes the underlying fiber app, mainly for app.Test in tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start(port string) error {
	log.Info().Str("port", port).Msg("Starting voice note transcription server")

	return s.app.Listen(":"+port, fiber.ListenConfig{
		DisableStartupMessage: true,
	})
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down server")
	return s.app.ShutdownWithContext(ctx)
}
