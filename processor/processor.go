package processor

import (
	"context"
	"errors"
	"time"

	"github.com/NextMind-AI/voicenote-go/metrics"
	"github.com/NextMind-AI/voicenote-go/whatsapp"

	"github.com/rs/zerolog/log"
)

type MessageProcessor struct {
	resolver    MediaResolver
	transcriber Transcriber
	sender      MessageSender
	refiner     TranscriptRefiner
	dedup       DeduplicationStore
	readMarker  ReadMarker
	metrics     *metrics.VoiceNoteMetrics

	replyPrefix          string
	emptyTranscriptReply string
	failureNotice        string
	timeout              time.Duration
}

func NewMessageProcessor(resolver MediaResolver, transcriber Transcriber, sender MessageSender, opts Options) *MessageProcessor {
	emptyReply := opts.EmptyTranscriptReply
	if emptyReply == "" {
		emptyReply = DefaultEmptyTranscriptReply
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &MessageProcessor{
		resolver:             resolver,
		transcriber:          transcriber,
		sender:               sender,
		refiner:              opts.Refiner,
		dedup:                opts.Dedup,
		readMarker:           opts.ReadMarker,
		metrics:              opts.Metrics,
		replyPrefix:          opts.ReplyPrefix,
		emptyTranscriptReply: emptyReply,
		failureNotice:        opts.FailureNotice,
		timeout:              timeout,
	}
}

// HandleWebhook extracts the inbound voice message from payload and processes it.
// Payloads without a usable voice message return OutcomeIgnored and the *ValidationError.
func (mp *MessageProcessor) HandleWebhook(payload *whatsapp.WebhookPayload) (Outcome, error) {
	message, err := ExtractInboundMessage(payload)
	if err != nil {
		mp.metrics.ObserveWebhook(string(OutcomeIgnored))
		return OutcomeIgnored, err
	}
	return mp.ProcessMessage(*message)
}

// ProcessMessage runs fetch, transcribe and reply strictly in sequence.
// Upstream failures return OutcomeFailed with an *UpstreamError; nothing is retried.
func (mp *MessageProcessor) ProcessMessage(message InboundMessage) (Outcome, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mp.timeout)
	defer cancel()

	log.Info().
		Str("message_id", message.MessageID).
		Str("from", message.From).
		Str("profile_name", message.ProfileName).
		Str("sent_at", message.Timestamp).
		Str("media_id", message.MediaID).
		Bool("voice", message.Voice).
		Msg("Processing voice message")

	if mp.alreadyProcessed(ctx, message.MessageID) {
		mp.metrics.ObserveWebhook(string(OutcomeDuplicate))
		return OutcomeDuplicate, nil
	}

	mp.markMessageAsRead(ctx, message.MessageID)

	audio, err := mp.fetchAudio(ctx, message)
	if err != nil {
		mp.sendFailureNotice(ctx, message)
		return mp.fail(message, err)
	}

	transcript, err := mp.transcribe(ctx, message, audio)
	if err != nil {
		mp.sendFailureNotice(ctx, message)
		return mp.fail(message, err)
	}

	transcript = mp.refine(ctx, message, transcript)

	if err := mp.reply(ctx, message, mp.composeReply(transcript)); err != nil {
		return mp.fail(message, err)
	}

	log.Info().
		Str("message_id", message.MessageID).
		Str("from", message.From).
		Int("transcript_length", len(transcript)).
		Msg("Transcript sent")

	mp.metrics.ObserveWebhook(string(OutcomeReplied))
	return OutcomeReplied, nil
}

func (mp *MessageProcessor) composeReply(transcript string) string {
	if transcript == "" {
		return mp.emptyTranscriptReply
	}
	return mp.replyPrefix + transcript
}

func (mp *MessageProcessor) fail(message InboundMessage, err error) (Outcome, error) {
	event := log.Error().
		Err(err).
		Str("message_id", message.MessageID).
		Str("from", message.From)

	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		event = event.Str("stage", string(upstreamErr.Stage))
	}
	var apiErr *whatsapp.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsPermissionError():
			event = event.Bool("permission_error", true)
		case apiErr.IsAuthError():
			event = event.Bool("auth_error", true)
		case apiErr.IsRateLimitError():
			event = event.Bool("rate_limited", true)
		}
	}
	event.Msg("Voice message processing failed")

	mp.metrics.ObserveWebhook(string(OutcomeFailed))
	return OutcomeFailed, err
}

func (mp *MessageProcessor) alreadyProcessed(ctx context.Context, messageID string) bool {
	if mp.dedup == nil || messageID == "" {
		return false
	}

	firstSeen, err := mp.dedup.MarkProcessed(ctx, messageID)
	if err != nil {
		log.Warn().
			Err(err).
			Str("message_id", messageID).
			Msg("Deduplication check failed, processing anyway")
		return false
	}

	if !firstSeen {
		log.Info().
			Str("message_id", messageID).
			Msg("Skipping redelivered message")
	}
	return !firstSeen
}

// sendFailureNotice runs on its own deadline: ctx may already have expired when the
// failure was a timeout.
func (mp *MessageProcessor) sendFailureNotice(ctx context.Context, message InboundMessage) {
	if mp.failureNotice == "" {
		return
	}

	noticeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), FailureNoticeTimeout)
	defer cancel()

	if _, err := mp.sender.SendTextMessage(noticeCtx, message.From, mp.failureNotice); err != nil {
		log.Error().
			Err(err).
			Str("message_id", message.MessageID).
			Msg("Error sending failure notice")
	}
}
