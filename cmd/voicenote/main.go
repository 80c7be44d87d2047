package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NextMind-AI/voicenote-go"
	"github.com/NextMind-AI/voicenote-go/config"

	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	voicenote.SetupLogger(cfg.LogLevel, cfg.LogFormat)

	bot := voicenote.New(cfg)

	go func() {
		if err := bot.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := bot.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
}
