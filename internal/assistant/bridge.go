// Package assistant bridges free-text shopkeeper queries to an external
// text-generation service and keeps the conversation transcript. Any failure
// of the outbound call collapses to a single canned reply; nothing here ever
// surfaces a transport error to the shopkeeper.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/abinashpathak707-web/kishore-general-store/internal/domain"
	"github.com/google/uuid"
)

const (
	greeting      = "Namaste! Main Babu Rao. Aaj dhanda kaisa hai re baba? Kya help karoon?"
	fallbackReply = "Arre baba, kuch gadbad ho gayi! Thodi der baad phir se poochna."

	speechUnavailableGuidance = "Voice input available nahi hai re baba! Type karke poocho."
	speechDeniedGuidance      = "Mike ki permission chahiye re baba! Mic allow karke phir try karo."
)

var (
	ErrBusy       = errors.New("a request is already in flight")
	ErrEmptyQuery = errors.New("empty query")
)

// TextGenerator is the one-shot prompt-in, reply-out capability the bridge
// forwards queries to.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Bridge owns the assistant conversation. One request may be outstanding at
// a time: a second send is rejected, not queued, and the busy flag clears
// unconditionally when the call returns. The bridge can see the store
// collections through its owner but does not thread them into the outbound
// query.
type Bridge struct {
	mu       sync.Mutex
	busy     bool
	gen      TextGenerator
	speech   Transcriber
	logger   *slog.Logger
	messages []domain.ChatMessage
}

func NewBridge(gen TextGenerator, speech Transcriber, logger *slog.Logger) *Bridge {
	return &Bridge{
		gen:    gen,
		speech: speech,
		logger: logger,
		messages: []domain.ChatMessage{
			{ID: uuid.NewString(), Role: domain.ChatRoleModel, Text: greeting},
		},
	}
}

// Messages returns a copy of the transcript in order.
func (b *Bridge) Messages() []domain.ChatMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.ChatMessage, len(b.messages))
	copy(out, b.messages)
	return out
}

// Send forwards text to the generator and appends both turns to the
// transcript. Generator failure becomes the canned fallback reply.
func (b *Bridge) Send(ctx context.Context, text string) (domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, ErrEmptyQuery
	}

	b.mu.Lock()
	if b.busy {
		b.mu.Unlock()
		return domain.ChatMessage{}, ErrBusy
	}
	b.busy = true
	b.messages = append(b.messages, domain.ChatMessage{
		ID:   uuid.NewString(),
		Role: domain.ChatRoleUser,
		Text: text,
	})
	b.mu.Unlock()

	replyText, err := b.gen.Generate(ctx, text)
	if err != nil || strings.TrimSpace(replyText) == "" {
		b.logger.Warn("assistant call failed", "err", err)
		replyText = fallbackReply
	}

	reply := domain.ChatMessage{
		ID:   uuid.NewString(),
		Role: domain.ChatRoleModel,
		Text: replyText,
	}

	b.mu.Lock()
	b.busy = false
	b.messages = append(b.messages, reply)
	b.mu.Unlock()

	return reply, nil
}

// SendVoice captures one utterance and routes the transcript through the
// same send path. An unavailable or denied speech capability returns
// advisory guidance text instead of an error; the listening state always
// resets to idle.
func (b *Bridge) SendVoice(ctx context.Context) (domain.ChatMessage, string, error) {
	transcript, err := b.speech.Transcribe(ctx)
	switch {
	case errors.Is(err, ErrSpeechUnavailable):
		return domain.ChatMessage{}, speechUnavailableGuidance, nil
	case errors.Is(err, ErrSpeechDenied):
		return domain.ChatMessage{}, speechDeniedGuidance, nil
	case err != nil:
		b.logger.Warn("speech recognition failed", "err", err)
		return domain.ChatMessage{}, speechUnavailableGuidance, nil
	}

	reply, err := b.Send(ctx, transcript)
	return reply, "", err
}
