// Package voicenote wires the WhatsApp webhook server to a speech-to-text provider.
package voicenote

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/NextMind-AI/voicenote-go/config"
	"github.com/NextMind-AI/voicenote-go/elevenlabs"
	"github.com/NextMind-AI/voicenote-go/metrics"
	"github.com/NextMind-AI/voicenote-go/openai"
	"github.com/NextMind-AI/voicenote-go/processor"
	"github.com/NextMind-AI/voicenote-go/redis"
	"github.com/NextMind-AI/voicenote-go/server"
	"github.com/NextMind-AI/voicenote-go/whatsapp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Bot represents the running transcription bridge
type Bot struct {
	config      *config.Config
	server      *server.Server
	redisClient *redis.Client
}

// New builds every client from cfg. It exits the process if Redis is configured but unreachable.
func New(cfg *config.Config) *Bot {
	httpClient := http.Client{Timeout: cfg.HTTPTimeout}

	whatsappClient := whatsapp.NewClient(
		cfg.WhatsAppToken,
		cfg.PhoneNumberID,
		cfg.GraphAPIBaseURL,
		cfg.GraphAPIVersion,
		cfg.MaxAudioBytes,
		httpClient,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	opts := processor.Options{
		Metrics:              metrics.NewVoiceNoteMetrics(registry),
		ReplyPrefix:          cfg.ReplyPrefix,
		EmptyTranscriptReply: cfg.EmptyTranscriptReply,
		FailureNotice:        cfg.FailureNotice,
		Timeout:              cfg.ProcessTimeout,
	}

	if cfg.MarkAsRead {
		opts.ReadMarker = &whatsappClient
	}

	var redisClient *redis.Client
	if cfg.DedupEnabled() {
		client := redis.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.DedupTTL)
		redisClient = &client
		opts.Dedup = redisClient
	}

	var openAIClient *openai.Client
	if cfg.OpenAIKey != "" {
		client := openai.NewClient(openai.Config{
			APIKey:             cfg.OpenAIKey,
			BaseURL:            cfg.OpenAIBaseURL,
			TranscriptionModel: cfg.OpenAITranscriptionModel,
			Language:           cfg.TranscriptionLanguage,
			RefineModel:        cfg.OpenAIRefineModel,
			RefinePrompt:       cfg.OpenAIRefinePrompt,
		}, httpClient)
		openAIClient = &client

		if openAIClient.RefineEnabled() {
			opts.Refiner = openAIClient
		}
	}

	var transcriber processor.Transcriber
	switch cfg.TranscriptionProvider {
	case config.ProviderElevenLabs:
		elevenLabsClient := elevenlabs.NewClient(
			cfg.ElevenLabsAPIKey,
			cfg.ElevenLabsModel,
			cfg.TranscriptionLanguage,
			httpClient,
		)
		if cfg.ElevenLabsBaseURL != "" {
			elevenLabsClient.BaseURL = cfg.ElevenLabsBaseURL
		}
		transcriber = &elevenLabsClient
	default:
		transcriber = openAIClient
	}

	messageProcessor := processor.NewMessageProcessor(
		&whatsappClient,
		transcriber,
		&whatsappClient,
		opts,
	)

	srv := server.New(messageProcessor, server.Config{
		VerifyToken: cfg.VerifyToken,
		AppSecret:   cfg.AppSecret,
	}, registry)

	log.Info().
		Str("provider", cfg.TranscriptionProvider).
		Bool("refine", opts.Refiner != nil).
		Bool("dedup", opts.Dedup != nil).
		Bool("mark_as_read", cfg.MarkAsRead).
		Bool("signature_check", cfg.AppSecret != "").
		Msg("Voice note bot configured")

	return &Bot{
		config:      cfg,
		server:      srv,
		redisClient: redisClient,
	}
}

// Start blocks serving HTTP on the configured port.
func (b *Bot) Start() error {
	return b.server.Start(b.config.Port)
}

func (b *Bot) Shutdown(ctx context.Context) error {
	err := b.server.Shutdown(ctx)
	if b.redisClient != nil {
		if closeErr := b.redisClient.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Error closing Redis connection")
		}
	}
	return err
}

// SetupLogger configures the global zerolog logger.
// format "console" switches to human readable output; anything else logs JSON.
func SetupLogger(level, format string) {
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		parsedLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsedLevel)
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.EqualFold(format, "console") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
