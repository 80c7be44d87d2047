package processor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NextMind-AI/voicenote-go/metrics"
	"github.com/NextMind-AI/voicenote-go/whatsapp"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testHarness struct {
	recorder    *callRecorder
	resolver    *fakeResolver
	transcriber *fakeTranscriber
	sender      *fakeSender
}

func newHarness(transcript string) *testHarness {
	recorder := &callRecorder{}
	return &testHarness{
		recorder: recorder,
		resolver: &fakeResolver{
			recorder: recorder,
			audio:    &whatsapp.Audio{Data: []byte("<wav-bytes>"), MimeType: "audio/ogg; codecs=opus"},
		},
		transcriber: &fakeTranscriber{recorder: recorder, transcript: transcript},
		sender:      &fakeSender{recorder: recorder},
	}
}

func (h *testHarness) processor(opts Options) *MessageProcessor {
	return NewMessageProcessor(h.resolver, h.transcriber, h.sender, opts)
}

func voiceMessage() InboundMessage {
	return InboundMessage{
		MessageID: "wamid.IN1",
		From:      "15551234567",
		Type:      "audio",
		MediaID:   "MID123",
		MimeType:  "audio/ogg; codecs=opus",
		Voice:     true,
	}
}

func TestProcessMessageEndToEnd(t *testing.T) {
	h := newHarness("hello world")
	mp := h.processor(Options{})

	outcome, err := mp.ProcessMessage(voiceMessage())
	require.NoError(t, err)
	assert.Equal(t, OutcomeReplied, outcome)

	assert.Equal(t, []string{"fetch", "transcribe", "send"}, h.recorder.Calls())
	assert.Equal(t, []string{"MID123"}, h.resolver.mediaIDs)
	require.Len(t, h.transcriber.received, 1)
	assert.Equal(t, []byte("<wav-bytes>"), h.transcriber.received[0].data)
	assert.Equal(t, "audio/ogg; codecs=opus", h.transcriber.received[0].mimeType)
	assert.Equal(t, []sentMessage{{to: "15551234567", text: "hello world"}}, h.sender.sent)
}

func TestHandleWebhookIgnoresPayloadsWithoutVoiceMessage(t *testing.T) {
	payloads := map[string]*whatsapp.WebhookPayload{
		"nil payload":    nil,
		"no entries":     {Object: "whatsapp_business_account"},
		"status update":  {Entry: []whatsapp.WebhookEntry{{Changes: []whatsapp.WebhookChange{{Value: whatsapp.WebhookValue{Statuses: []whatsapp.WebhookStatus{{ID: "wamid.OUT", Status: "read"}}}}}}}},
		"text message":   {Entry: []whatsapp.WebhookEntry{{Changes: []whatsapp.WebhookChange{{Value: whatsapp.WebhookValue{Messages: []whatsapp.WebhookMessage{{From: "1555", ID: "wamid.T", Type: "text"}}}}}}}},
		"audio no media": {Entry: []whatsapp.WebhookEntry{{Changes: []whatsapp.WebhookChange{{Value: whatsapp.WebhookValue{Messages: []whatsapp.WebhookMessage{{From: "1555", ID: "wamid.A", Type: "audio"}}}}}}}},
	}

	for name, payload := range payloads {
		t.Run(name, func(t *testing.T) {
			h := newHarness("unused")
			mp := h.processor(Options{FailureNotice: "sorry"})

			outcome, err := mp.HandleWebhook(payload)
			assert.Equal(t, OutcomeIgnored, outcome)

			var validationErr *ValidationError
			assert.True(t, errors.As(err, &validationErr))
			assert.Empty(t, h.recorder.Calls())
		})
	}
}

func TestProcessMessageFetchFailure(t *testing.T) {
	h := newHarness("never")
	h.resolver.err = &whatsapp.APIError{StatusCode: 404, Message: "media not found"}
	mp := h.processor(Options{})

	outcome, err := mp.ProcessMessage(voiceMessage())
	assert.Equal(t, OutcomeFailed, outcome)

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, StageFetch, upstreamErr.Stage)

	var apiErr *whatsapp.APIError
	assert.True(t, errors.As(err, &apiErr))

	assert.Equal(t, []string{"fetch"}, h.recorder.Calls())
	assert.Empty(t, h.transcriber.received)
	assert.Empty(t, h.sender.sent)
}

func TestProcessMessageTranscribeFailure(t *testing.T) {
	h := newHarness("")
	h.transcriber.err = errors.New("model unavailable")
	mp := h.processor(Options{})

	outcome, err := mp.ProcessMessage(voiceMessage())
	assert.Equal(t, OutcomeFailed, outcome)

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, StageTranscribe, upstreamErr.Stage)
	assert.Empty(t, h.sender.sent)
}

func TestProcessMessageReplyFailure(t *testing.T) {
	h := newHarness("hello world")
	h.sender.err = &whatsapp.APIError{StatusCode: 403, Code: whatsapp.ErrorCodePermission, Message: "no permission"}
	mp := h.processor(Options{FailureNotice: "Sorry, I could not transcribe that."})

	outcome, err := mp.ProcessMessage(voiceMessage())
	assert.Equal(t, OutcomeFailed, outcome)

	var upstreamErr *UpstreamError
	require.True(t, errors.As(err, &upstreamErr))
	assert.Equal(t, StageReply, upstreamErr.Stage)
	assert.Len(t, h.sender.sent, 1, "no notice after a failed send")
}

func TestProcessMessageFailureNotice(t *testing.T) {
	notice := "Sorry, I could not transcribe that."

	t.Run("after fetch failure", func(t *testing.T) {
		h := newHarness("")
		h.resolver.err = errors.New("expired")
		mp := h.processor(Options{FailureNotice: notice})

		outcome, _ := mp.ProcessMessage(voiceMessage())
		assert.Equal(t, OutcomeFailed, outcome)
		assert.Equal(t, []string{"fetch", "send"}, h.recorder.Calls())
		assert.Equal(t, []sentMessage{{to: "15551234567", text: notice}}, h.sender.sent)
	})

	t.Run("after transcribe failure", func(t *testing.T) {
		h := newHarness("")
		h.transcriber.err = errors.New("timeout")
		mp := h.processor(Options{FailureNotice: notice})

		outcome, _ := mp.ProcessMessage(voiceMessage())
		assert.Equal(t, OutcomeFailed, outcome)
		assert.Equal(t, []sentMessage{{to: "15551234567", text: notice}}, h.sender.sent)
	})

	t.Run("after processing timeout", func(t *testing.T) {
		h := newHarness("")
		h.transcriber.block = true
		mp := h.processor(Options{FailureNotice: notice, Timeout: 50 * time.Millisecond})

		outcome, err := mp.ProcessMessage(voiceMessage())
		assert.Equal(t, OutcomeFailed, outcome)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		assert.Equal(t, []sentMessage{{to: "15551234567", text: notice}}, h.sender.sent)
		assert.Equal(t, []error{nil}, h.sender.ctxErrs, "notice is sent on a live context")
	})
}

func TestProcessMessageEmptyTranscript(t *testing.T) {
	for _, transcript := range []string{"", "   \n"} {
		h := newHarness(transcript)
		mp := h.processor(Options{ReplyPrefix: "Transcription: "})

		for i := 0; i < 2; i++ {
			outcome, err := mp.ProcessMessage(voiceMessage())
			require.NoError(t, err)
			assert.Equal(t, OutcomeReplied, outcome)
		}

		assert.Equal(t, []sentMessage{
			{to: "15551234567", text: DefaultEmptyTranscriptReply},
			{to: "15551234567", text: DefaultEmptyTranscriptReply},
		}, h.sender.sent)
	}
}

func TestProcessMessageCustomEmptyReply(t *testing.T) {
	h := newHarness("")
	mp := h.processor(Options{EmptyTranscriptReply: "[silence]"})

	_, err := mp.ProcessMessage(voiceMessage())
	require.NoError(t, err)
	assert.Equal(t, "[silence]", h.sender.sent[0].text)
}

func TestProcessMessageReplyPrefix(t *testing.T) {
	h := newHarness("hello world")
	mp := h.processor(Options{ReplyPrefix: "Transcription: "})

	_, err := mp.ProcessMessage(voiceMessage())
	require.NoError(t, err)
	assert.Equal(t, "Transcription: hello world", h.sender.sent[0].text)
}

func TestProcessMessageMimeTypeFallback(t *testing.T) {
	h := newHarness("hi")
	h.resolver.audio = &whatsapp.Audio{Data: []byte("x")}
	mp := h.processor(Options{})

	_, err := mp.ProcessMessage(voiceMessage())
	require.NoError(t, err)
	assert.Equal(t, "audio/ogg; codecs=opus", h.transcriber.received[0].mimeType)
}

func TestProcessMessageRefine(t *testing.T) {
	t.Run("refined text is sent", func(t *testing.T) {
		h := newHarness("hello world")
		refiner := &fakeRefiner{recorder: h.recorder, refined: "Hello, world."}
		mp := h.processor(Options{Refiner: refiner})

		_, err := mp.ProcessMessage(voiceMessage())
		require.NoError(t, err)
		assert.Equal(t, []string{"fetch", "transcribe", "refine", "send"}, h.recorder.Calls())
		assert.Equal(t, "Hello, world.", h.sender.sent[0].text)
	})

	t.Run("refine failure falls back to raw transcript", func(t *testing.T) {
		h := newHarness("hello world")
		refiner := &fakeRefiner{recorder: h.recorder, err: errors.New("rate limited")}
		mp := h.processor(Options{Refiner: refiner})

		outcome, err := mp.ProcessMessage(voiceMessage())
		require.NoError(t, err)
		assert.Equal(t, OutcomeReplied, outcome)
		assert.Equal(t, "hello world", h.sender.sent[0].text)
	})

	t.Run("empty transcript skips refine", func(t *testing.T) {
		h := newHarness("")
		refiner := &fakeRefiner{recorder: h.recorder, refined: "invented"}
		mp := h.processor(Options{Refiner: refiner})

		_, err := mp.ProcessMessage(voiceMessage())
		require.NoError(t, err)
		assert.NotContains(t, h.recorder.Calls(), "refine")
		assert.Equal(t, DefaultEmptyTranscriptReply, h.sender.sent[0].text)
	})
}

func TestProcessMessageDeduplication(t *testing.T) {
	h := newHarness("hello world")
	mp := h.processor(Options{Dedup: &fakeDedup{}})

	outcome, err := mp.ProcessMessage(voiceMessage())
	require.NoError(t, err)
	assert.Equal(t, OutcomeReplied, outcome)

	outcome, err = mp.ProcessMessage(voiceMessage())
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)

	assert.Equal(t, []string{"fetch", "transcribe", "send"}, h.recorder.Calls())
}

func TestProcessMessageDeduplicationFailsOpen(t *testing.T) {
	h := newHarness("hello world")
	mp := h.processor(Options{Dedup: &fakeDedup{err: errors.New("connection refused")}})

	outcome, err := mp.ProcessMessage(voiceMessage())
	require.NoError(t, err)
	assert.Equal(t, OutcomeReplied, outcome)
	assert.Len(t, h.sender.sent, 1)
}

func TestProcessMessageMarksAsRead(t *testing.T) {
	h := newHarness("hello world")
	marker := &fakeReadMarker{recorder: h.recorder, err: errors.New("ignored")}
	mp := h.processor(Options{ReadMarker: marker})

	outcome, err := mp.ProcessMessage(voiceMessage())
	require.NoError(t, err)
	assert.Equal(t, OutcomeReplied, outcome)
	assert.Equal(t, []string{"read", "fetch", "transcribe", "send"}, h.recorder.Calls())
	assert.Equal(t, []string{"wamid.IN1"}, marker.ids)
}

func TestProcessMessageRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := newHarness("hello world")
	mp := h.processor(Options{Metrics: metrics.NewVoiceNoteMetrics(reg)})

	_, err := mp.ProcessMessage(voiceMessage())
	require.NoError(t, err)
	_, _ = mp.HandleWebhook(nil)

	count, err := testutil.GatherAndCount(reg, "voicenote_webhook_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count, "one series each for replied and ignored")

	count, err = testutil.GatherAndCount(reg, "voicenote_upstream_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
