package service

import (
	"context"
	"fmt"
	"sync"

	"kuhp-analyzer-backend/models"
	"kuhp-analyzer-backend/parser"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
)

// AnalyzerService wires the document manager, relevance gate, retrieval
// path and generation orchestrator into the per-query analysis flow. One
// instance is constructed in main and shared by all handlers; it holds no
// hidden globals.
type AnalyzerService struct {
	cfg       Config
	client    *genai.Client
	docs      *DocumentManager
	orch      *Orchestrator
	gen       ContentGenerator
	relevance RelevanceChecker
	splitter  Splitter
	logger    *zap.Logger

	chunkMu sync.RWMutex
	chunks  []models.TextChunk
}

// AnalyzerOption is a functional option for AnalyzerService.
type AnalyzerOption func(*AnalyzerService)

// WithGeminiClient sets the Gemini client used for uploads and generation.
func WithGeminiClient(client *genai.Client) AnalyzerOption {
	return func(s *AnalyzerService) {
		s.client = client
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) AnalyzerOption {
	return func(s *AnalyzerService) {
		s.logger = logger
	}
}

// WithGenerator overrides the content generator; used by tests to avoid
// real model calls.
func WithGenerator(gen ContentGenerator) AnalyzerOption {
	return func(s *AnalyzerService) {
		s.gen = gen
	}
}

// WithRelevanceChecker overrides the relevance strategy chosen from config.
func WithRelevanceChecker(rc RelevanceChecker) AnalyzerOption {
	return func(s *AnalyzerService) {
		s.relevance = rc
	}
}

// WithFileService overrides the File API client; used by tests.
func WithFileService(fs FileService) AnalyzerOption {
	return func(s *AnalyzerService) {
		s.docs = NewDocumentManager(fs, s.cfg.OldDocumentPath, s.cfg.NewDocumentPath, s.logger)
	}
}

// NewAnalyzerService builds the service from configuration. Initialize must
// be called before serving queries.
func NewAnalyzerService(cfg Config, opts ...AnalyzerOption) (*AnalyzerService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &AnalyzerService{cfg: cfg, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	if s.docs == nil {
		if s.client == nil {
			return nil, fmt.Errorf("gemini client not set")
		}
		s.docs = NewDocumentManager(s.client, cfg.OldDocumentPath, cfg.NewDocumentPath, s.logger)
	}

	if s.gen == nil {
		model := s.client.GenerativeModel(cfg.ModelName)
		model.SetTemperature(cfg.Temperature)
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(SystemInstruction)}}
		s.gen = newGeminiGenerator(model)
	}

	// The chunked path never attaches File API handles, so readiness
	// verification only applies in file mode.
	verifyDocs := s.docs
	if cfg.RetrievalMode == RetrievalChunks {
		verifyDocs = nil
	}
	s.orch = NewOrchestrator(s.gen, verifyDocs, cfg.MaxRetries, cfg.InitialBackoff, s.logger)

	if s.relevance == nil {
		switch cfg.RelevanceStrategy {
		case RelevanceModel:
			s.relevance = NewModelRelevance(s.orch, s.logger)
		default:
			keywords, err := LoadKeywords(cfg.KeywordsPath)
			if err != nil {
				return nil, err
			}
			s.relevance = NewKeywordRelevance(keywords)
		}
	}

	var err error
	s.splitter, err = NewSlidingWindowSplitter(cfg.ChunkSize, cfg.Overlap)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Initialize prepares the configured retrieval path. In file mode both
// documents are uploaded and polled until active (a timeout is logged, not
// fatal). The chunked path is used when full-document attachment is
// unavailable, so it only extracts and splits the local text.
func (s *AnalyzerService) Initialize(ctx context.Context) error {
	if s.cfg.RetrievalMode == RetrievalChunks {
		return s.rebuildChunks()
	}
	if err := s.docs.UploadAll(ctx); err != nil {
		return err
	}
	return s.docs.WaitUntilActive(ctx, s.cfg.UploadMaxWait, s.cfg.UploadPollInterval)
}

// rebuildChunks regenerates the chunk sequences for both documents from
// their local text. Existing chunks are invalidated wholesale.
func (s *AnalyzerService) rebuildChunks() error {
	oldText, err := parser.ExtractText(s.cfg.OldDocumentPath)
	if err != nil {
		return fmt.Errorf("extract %s: %w", models.VersionOld, err)
	}
	newText, err := parser.ExtractText(s.cfg.NewDocumentPath)
	if err != nil {
		return fmt.Errorf("extract %s: %w", models.VersionNew, err)
	}

	chunks := s.splitter.Split(models.VersionOld, oldText)
	chunks = append(chunks, s.splitter.Split(models.VersionNew, newText)...)

	s.chunkMu.Lock()
	s.chunks = chunks
	s.chunkMu.Unlock()

	s.logger.Info("document chunks rebuilt", zap.Int("total", len(chunks)))
	return nil
}

// Analyze runs the full flow for one query: relevance gate, context
// selection, generation with retry, structured extraction. Parse failure is
// invisible to the caller beyond a null comparison object.
func (s *AnalyzerService) Analyze(ctx context.Context, query string) (*models.AnalysisResult, error) {
	if !s.relevance.IsRelevant(ctx, query) {
		return &models.AnalysisResult{
			Response:   RejectionMessage,
			IsRelevant: false,
		}, nil
	}

	var parts []genai.Part
	chunksUsed := 0

	if s.cfg.RetrievalMode == RetrievalChunks {
		s.chunkMu.RLock()
		all := s.chunks
		s.chunkMu.RUnlock()

		relevant := FindRelevantChunks(query, all, s.cfg.MaxChunks)
		if len(relevant) == 0 {
			return &models.AnalysisResult{
				Response:   NoContextMessage,
				IsRelevant: true,
			}, nil
		}
		chunksUsed = len(relevant)
		parts = []genai.Part{genai.Text(BuildChunkAnalysisPrompt(query, relevant))}
	} else {
		// Attachments strictly precede the instruction text; the service
		// is sensitive to this ordering.
		parts = append(s.docs.AttachmentParts(), genai.Text(BuildAnalysisPrompt(query)))
		chunksUsed = 2
	}

	raw, err := s.orch.Generate(ctx, parts...)
	if err != nil {
		return nil, err
	}

	result := &models.AnalysisResult{
		Response:          raw,
		IsRelevant:        true,
		ComparisonData:    ExtractComparison(raw),
		ContextChunksUsed: chunksUsed,
	}
	if result.ComparisonData == nil {
		s.logger.Debug("no structured comparison extracted, returning raw text only")
	}
	return result, nil
}

// Reload replaces both remote handles, resets the model session and, in
// chunked mode, rebuilds the chunk sequences. Idempotent at the handle
// level.
func (s *AnalyzerService) Reload(ctx context.Context) error {
	if s.cfg.RetrievalMode == RetrievalChunks {
		s.ResetSession()
		return s.rebuildChunks()
	}
	if err := s.docs.Reload(ctx, s.cfg.UploadMaxWait, s.cfg.UploadPollInterval); err != nil {
		return err
	}
	s.ResetSession()
	return nil
}

// ResetSession discards any accumulated conversational context.
func (s *AnalyzerService) ResetSession() {
	if r, ok := s.gen.(Resetter); ok {
		r.Reset()
		s.logger.Info("model session reset")
	}
}

// Status describes the analyzer for monitoring endpoints.
type Status struct {
	ModelName     string                  `json:"model_name"`
	RetrievalMode RetrievalMode           `json:"retrieval_mode"`
	FilesUploaded bool                    `json:"files_uploaded"`
	Documents     []models.SourceDocument `json:"documents"`
	ChunkCounts   map[string]int          `json:"chunk_counts,omitempty"`
}

// Status returns a snapshot of document readiness and configuration.
func (s *AnalyzerService) Status() Status {
	st := Status{
		ModelName:     s.cfg.ModelName,
		RetrievalMode: s.cfg.RetrievalMode,
		FilesUploaded: s.docs.AllActive(),
		Documents:     s.docs.Snapshot(),
	}

	if s.cfg.RetrievalMode == RetrievalChunks {
		s.chunkMu.RLock()
		counts := make(map[string]int)
		for _, c := range s.chunks {
			counts[string(c.Version)]++
		}
		s.chunkMu.RUnlock()
		st.ChunkCounts = counts
	}
	return st
}

// Config exposes the active configuration for the debug endpoint.
func (s *AnalyzerService) Config() Config {
	return s.cfg
}
