package processor

import (
	"errors"
	"fmt"
)

var (
	ErrNoMessage       = errors.New("payload contains no message")
	ErrUnsupportedType = errors.New("unsupported message type")
	ErrMissingSender   = errors.New("message has no sender")
	ErrMissingMedia    = errors.New("audio message has no media id")
)

// ValidationError means the payload was understood but carries nothing to transcribe.
// It is never reported to Meta as a failure.
type ValidationError struct {
	MessageID string
	Err       error
}

func (e *ValidationError) Error() string {
	if e.MessageID == "" {
		return fmt.Sprintf("validation: %v", e.Err)
	}
	return fmt.Sprintf("validation: message %s: %v", e.MessageID, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

type Stage string

const (
	StageFetch      Stage = "fetch"
	StageTranscribe Stage = "transcribe"
	StageRefine     Stage = "refine"
	StageReply      Stage = "reply"
)

// UpstreamError wraps a failure of one of the outbound calls.
type UpstreamError struct {
	Stage Stage
	Err   error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
