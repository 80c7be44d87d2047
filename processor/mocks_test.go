package processor

import (
	"context"
	"sync"

	"github.com/NextMind-AI/voicenote-go/whatsapp"
)

// callRecorder keeps the order of calls across all fakes of one test.
type callRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *callRecorder) record(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, name)
}

func (r *callRecorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeResolver struct {
	recorder *callRecorder
	audio    *whatsapp.Audio
	err      error
	mediaIDs []string
}

func (f *fakeResolver) FetchAudio(ctx context.Context, mediaID string) (*whatsapp.Audio, error) {
	f.recorder.record("fetch")
	f.mediaIDs = append(f.mediaIDs, mediaID)
	if f.err != nil {
		return nil, f.err
	}
	audio := *f.audio
	return &audio, nil
}

type transcribeCall struct {
	data     []byte
	mimeType string
}

type fakeTranscriber struct {
	recorder   *callRecorder
	transcript string
	err        error
	received   []transcribeCall
	// block waits for ctx to expire, like an upstream that never answers
	block bool
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, data []byte, mimeType string) (string, error) {
	f.recorder.record("transcribe")
	f.received = append(f.received, transcribeCall{data: data, mimeType: mimeType})
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.transcript, nil
}

type sentMessage struct {
	to   string
	text string
}

type fakeSender struct {
	recorder *callRecorder
	err      error
	sent     []sentMessage
	ctxErrs  []error
}

func (f *fakeSender) SendTextMessage(ctx context.Context, toNumber, text string) (*whatsapp.MessageResponse, error) {
	f.recorder.record("send")
	f.sent = append(f.sent, sentMessage{to: toNumber, text: text})
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	if f.err != nil {
		return nil, f.err
	}
	return &whatsapp.MessageResponse{
		MessagingProduct: "whatsapp",
		Messages:         []whatsapp.SentMessage{{ID: "wamid.reply"}},
	}, nil
}

type fakeRefiner struct {
	recorder *callRecorder
	refined  string
	err      error
}

func (f *fakeRefiner) Refine(ctx context.Context, transcript string) (string, error) {
	f.recorder.record("refine")
	if f.err != nil {
		return "", f.err
	}
	return f.refined, nil
}

// fakeDedup behaves like SET NX: the first call per id returns true.
type fakeDedup struct {
	seen map[string]bool
	err  error
}

func (f *fakeDedup) MarkProcessed(ctx context.Context, messageID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	if f.seen[messageID] {
		return false, nil
	}
	f.seen[messageID] = true
	return true, nil
}

type fakeReadMarker struct {
	recorder *callRecorder
	err      error
	ids      []string
}

func (f *fakeReadMarker) MarkMessageAsRead(ctx context.Context, messageID string) error {
	f.recorder.record("read")
	f.ids = append(f.ids, messageID)
	return f.err
}
