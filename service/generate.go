package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// ContentGenerator issues one generation call. Implemented by the Gemini
// chat session in production and by fakes in tests.
type ContentGenerator interface {
	Generate(ctx context.Context, parts ...genai.Part) (string, error)
}

// Resetter discards accumulated conversational state. Generators that keep
// no state may omit it.
type Resetter interface {
	Reset()
}

// geminiGenerator sends every request through a chat session on the
// configured model, so conversational context accumulates until Reset.
type geminiGenerator struct {
	model *genai.GenerativeModel
	mu    sync.Mutex
	chat  *genai.ChatSession
}

func newGeminiGenerator(model *genai.GenerativeModel) *geminiGenerator {
	return &geminiGenerator{model: model, chat: model.StartChat()}
}

func (g *geminiGenerator) Generate(ctx context.Context, parts ...genai.Part) (string, error) {
	g.mu.Lock()
	chat := g.chat
	g.mu.Unlock()

	resp, err := chat.SendMessage(ctx, parts...)
	if err != nil {
		return "", err
	}
	return flattenResponse(resp), nil
}

// Reset starts a fresh chat session; prior context is discarded
// deterministically.
func (g *geminiGenerator) Reset() {
	g.mu.Lock()
	g.chat = g.model.StartChat()
	g.mu.Unlock()
}

func flattenResponse(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	return sb.String()
}

// Orchestrator wraps a generator with readiness verification and
// exponential-backoff retries. Retries are strictly sequential; the sleep
// between attempts honors context cancellation so a timed-out request does
// not leak the loop.
type Orchestrator struct {
	gen        ContentGenerator
	docs       *DocumentManager
	maxRetries int
	delay      time.Duration
	logger     *zap.Logger

	// sleep is swapped out by tests to observe backoff without waiting.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewOrchestrator builds an orchestrator. docs may be nil when the caller
// runs the chunked path with no File API attachments to verify.
func NewOrchestrator(gen ContentGenerator, docs *DocumentManager, maxRetries int, initialDelay time.Duration, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		gen:        gen,
		docs:       docs,
		maxRetries: maxRetries,
		delay:      initialDelay,
		logger:     logger,
		sleep:      sleepContext,
	}
}

// Generate runs the call with up to maxRetries attempts. Before each
// attempt the document pair is re-verified; a readiness failure consumes an
// attempt exactly like a generation failure. The backoff delay doubles
// after each failed attempt and is only slept between attempts, never after
// the last. Content ordering is preserved exactly as given: attachments
// must precede instruction text in parts.
func (o *Orchestrator) Generate(ctx context.Context, parts ...genai.Part) (string, error) {
	var lastErr error
	delay := o.delay

	for attempt := 0; attempt < o.maxRetries; attempt++ {
		if attempt > 0 {
			if err := o.sleep(ctx, delay); err != nil {
				return "", err
			}
			delay *= 2
		}

		if o.docs != nil {
			if err := o.docs.VerifyActive(ctx); err != nil {
				lastErr = err
				o.logger.Warn("generation attempt aborted, documents not ready",
					zap.Int("attempt", attempt+1), zap.Error(err))
				continue
			}
		}

		text, err := o.gen.Generate(ctx, parts...)
		if err != nil {
			lastErr = err
			o.logger.Warn("generation attempt failed",
				zap.Int("attempt", attempt+1), zap.Error(err))
			continue
		}
		if text == "" {
			lastErr = ErrEmptyResponse
			o.logger.Warn("generation attempt returned empty content",
				zap.Int("attempt", attempt+1))
			continue
		}
		return text, nil
	}

	return "", fmt.Errorf("%w after %d attempts: %v", ErrGenerationFailed, o.maxRetries, lastErr)
}

// GenerateText is Generate with a single text part.
func (o *Orchestrator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return o.Generate(ctx, genai.Text(prompt))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
