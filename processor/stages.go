package processor

import (
	"context"
	"strings"
	"time"

	"github.com/NextMind-AI/voicenote-go/whatsapp"

	"github.com/rs/zerolog/log"
)

// observe times one outbound call and wraps its error with the stage name.
func (mp *MessageProcessor) observe(stage Stage, call func() error) error {
	start := time.Now()
	err := call()
	mp.metrics.ObserveStageLatency(string(stage), time.Since(start).Seconds())
	mp.metrics.ObserveUpstream(string(stage), err)
	if err != nil {
		return &UpstreamError{Stage: stage, Err: err}
	}
	return nil
}

func (mp *MessageProcessor) fetchAudio(ctx context.Context, message InboundMessage) (*whatsapp.Audio, error) {
	var audio *whatsapp.Audio
	err := mp.observe(StageFetch, func() error {
		var err error
		audio, err = mp.resolver.FetchAudio(ctx, message.MediaID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if audio.MimeType == "" {
		audio.MimeType = message.MimeType
	}
	return audio, nil
}

func (mp *MessageProcessor) transcribe(ctx context.Context, message InboundMessage, audio *whatsapp.Audio) (string, error) {
	var transcript string
	err := mp.observe(StageTranscribe, func() error {
		var err error
		transcript, err = mp.transcriber.Transcribe(ctx, audio.Data, audio.MimeType)
		return err
	})
	if err != nil {
		return "", err
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		log.Info().
			Str("message_id", message.MessageID).
			Msg("Transcription returned no speech")
	}
	return transcript, nil
}

// refine returns the refined transcript, or the raw one when refining is off or fails.
func (mp *MessageProcessor) refine(ctx context.Context, message InboundMessage, transcript string) string {
	if mp.refiner == nil || transcript == "" {
		return transcript
	}

	var refined string
	err := mp.observe(StageRefine, func() error {
		var err error
		refined, err = mp.refiner.Refine(ctx, transcript)
		return err
	})
	refined = strings.TrimSpace(refined)
	if err != nil || refined == "" {
		log.Warn().
			Err(err).
			Str("message_id", message.MessageID).
			Msg("Transcript refinement failed, using raw transcript")
		return transcript
	}
	return refined
}

func (mp *MessageProcessor) reply(ctx context.Context, message InboundMessage, text string) error {
	return mp.observe(StageReply, func() error {
		resp, err := mp.sender.SendTextMessage(ctx, message.From, text)
		if err != nil {
			return err
		}
		log.Debug().
			Str("message_id", message.MessageID).
			Str("reply_id", resp.MessageID()).
			Msg("Reply accepted by WhatsApp")
		return nil
	})
}

func (mp *MessageProcessor) markMessageAsRead(ctx context.Context, messageID string) {
	if mp.readMarker == nil || messageID == "" {
		return
	}
	if err := mp.readMarker.MarkMessageAsRead(ctx, messageID); err != nil {
		log.Error().
			Err(err).
			Str("message_id", messageID).
			Msg("Error marking message as read")
	}
}
