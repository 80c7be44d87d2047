package processor

import (
	"time"

	"github.com/NextMind-AI/voicenote-go/metrics"
)

const (
	DefaultEmptyTranscriptReply = "(no speech detected)"
	DefaultTimeout              = 60 * time.Second
	FailureNoticeTimeout        = 10 * time.Second
)

// InboundMessage is the single voice message extracted from a webhook payload.
type InboundMessage struct {
	MessageID   string `json:"message_id"`
	From        string `json:"from"`
	Type        string `json:"type"`
	MediaID     string `json:"media_id"`
	MimeType    string `json:"mime_type"`
	Voice       bool   `json:"voice"`
	Timestamp   string `json:"timestamp"`
	ProfileName string `json:"profile_name,omitempty"`
}

// Outcome is reported back to the webhook caller in the acknowledgement body.
type Outcome string

const (
	OutcomeIgnored   Outcome = "ignored"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeReplied   Outcome = "replied"
	OutcomeFailed    Outcome = "failed"
)

// Options carries the optional collaborators and reply settings.
// Nil collaborators disable the matching feature.
type Options struct {
	Refiner    TranscriptRefiner
	Dedup      DeduplicationStore
	ReadMarker ReadMarker
	Metrics    *metrics.VoiceNoteMetrics

	ReplyPrefix          string
	EmptyTranscriptReply string
	FailureNotice        string
	Timeout              time.Duration
}
