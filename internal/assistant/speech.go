package assistant

import (
	"context"
	"errors"
)

var (
	ErrSpeechUnavailable = errors.New("speech recognition not available")
	ErrSpeechDenied      = errors.New("microphone permission denied")
)

// Transcriber captures a single utterance and returns its transcript. Only
// the assistant bridge depends on it; the stores and the billing calculator
// never touch platform capabilities.
type Transcriber interface {
	Available() bool
	Transcribe(ctx context.Context) (string, error)
}

// UnavailableTranscriber is the default when no speech capability is wired.
// The bridge turns its error into static guidance text.
type UnavailableTranscriber struct{}

func (UnavailableTranscriber) Available() bool { return false }

func (UnavailableTranscriber) Transcribe(context.Context) (string, error) {
	return "", ErrSpeechUnavailable
}
