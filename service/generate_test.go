package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	calls     int
	replies   []string
	errs      []error
	lastParts []genai.Part
}

func (f *fakeGenerator) Generate(_ context.Context, parts ...genai.Part) (string, error) {
	i := f.calls
	f.calls++
	f.lastParts = parts

	var reply string
	var err error
	if i < len(f.replies) {
		reply = f.replies[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return reply, err
}

// recordedSleeps swaps the orchestrator's sleep for one that only records.
func recordedSleeps(o *Orchestrator) *[]time.Duration {
	var slept []time.Duration
	o.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return &slept
}

func TestOrchestrator_SucceedsFirstAttempt(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"jawaban"}}
	o := NewOrchestrator(gen, nil, 3, time.Second, nil)
	slept := recordedSleeps(o)

	text, err := o.GenerateText(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "jawaban", text)
	assert.Equal(t, 1, gen.calls)
	assert.Empty(t, *slept)
}

func TestOrchestrator_ExhaustsRetriesWithExponentialBackoff(t *testing.T) {
	boom := errors.New("boom")
	gen := &fakeGenerator{errs: []error{boom, boom, boom}}
	initial := 250 * time.Millisecond
	o := NewOrchestrator(gen, nil, 3, initial, nil)
	slept := recordedSleeps(o)

	_, err := o.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)

	// Exactly 3 underlying calls, sleeps only between attempts.
	assert.Equal(t, 3, gen.calls)
	require.Equal(t, []time.Duration{initial, 2 * initial}, *slept)

	var total time.Duration
	for _, d := range *slept {
		total += d
	}
	assert.Equal(t, initial+2*initial, total)
}

func TestOrchestrator_EmptyPayloadIsRetryable(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"", "isi"}}
	o := NewOrchestrator(gen, nil, 3, time.Second, nil)
	recordedSleeps(o)

	text, err := o.GenerateText(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "isi", text)
	assert.Equal(t, 2, gen.calls)
}

func TestOrchestrator_RecoversAfterFailure(t *testing.T) {
	gen := &fakeGenerator{
		replies: []string{"", "jawaban"},
		errs:    []error{errors.New("transient"), nil},
	}
	o := NewOrchestrator(gen, nil, 2, 10*time.Millisecond, nil)
	slept := recordedSleeps(o)

	text, err := o.GenerateText(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "jawaban", text)
	assert.Equal(t, []time.Duration{10 * time.Millisecond}, *slept)
}

func TestOrchestrator_CancellationStopsRetryLoop(t *testing.T) {
	gen := &fakeGenerator{errs: []error{errors.New("boom"), errors.New("boom")}}
	o := NewOrchestrator(gen, nil, 5, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.GenerateText(ctx, "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	// One attempt ran, the cancelled sleep stopped the loop.
	assert.Equal(t, 1, gen.calls)
}

func TestOrchestrator_DocumentNotReadyConsumesAttempts(t *testing.T) {
	fs := newFakeFileService()
	docs, _ := newTestDocumentManager(t, fs)
	require.NoError(t, docs.UploadAll(context.Background()))

	// Remote files stay in the processing state, so every attempt aborts
	// before the generator is reached.
	gen := &fakeGenerator{}
	o := NewOrchestrator(gen, docs, 3, time.Second, nil)
	slept := recordedSleeps(o)

	_, err := o.GenerateText(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorContains(t, err, "not active")
	assert.Equal(t, 0, gen.calls)
	assert.Len(t, *slept, 2)
}

func TestOrchestrator_PreservesPartOrdering(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"ok"}}
	o := NewOrchestrator(gen, nil, 1, time.Second, nil)

	attachment := genai.FileData{URI: "uri://doc", MIMEType: "application/pdf"}
	instruction := genai.Text("prompt")

	_, err := o.Generate(context.Background(), attachment, instruction)
	require.NoError(t, err)
	require.Len(t, gen.lastParts, 2)
	assert.Equal(t, attachment, gen.lastParts[0])
	assert.Equal(t, instruction, gen.lastParts[1])
}
