package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// RejectionMessage is returned verbatim whenever a query falls outside the
// KUHP domain. It is a static asset, never generated per call.
const RejectionMessage = "Maaf, saya hanya dapat membantu menganalisis perbedaan dalam dokumen KUHP. " +
	"Silakan ajukan pertanyaan yang berkaitan dengan pasal atau topik dalam KUHP."

// NoContextMessage is returned when the chunked retrieval path finds no
// chunk matching the query.
const NoContextMessage = "Maaf, tidak ditemukan informasi yang relevan dalam dokumen KUHP untuk " +
	"pertanyaan Anda. Coba gunakan kata kunci yang lebih spesifik."

// RelevanceChecker decides whether a query is in-domain before any
// generation call is spent on it.
type RelevanceChecker interface {
	IsRelevant(ctx context.Context, query string) bool
}

// DefaultKeywords is the built-in KUHP vocabulary for the keyword strategy.
func DefaultKeywords() []string {
	return []string{
		"kuhp", "pidana", "pasal", "sanksi", "hukum", "hukuman",
		"kejahatan", "pelanggaran", "denda", "penjara", "korupsi",
		"pencurian", "penipuan", "pembunuhan", "penganiayaan",
		"undang-undang", "delik", "terdakwa", "tersangka", "vonis",
	}
}

// KeywordRelevance classifies a query as relevant when it contains any word
// of the domain vocabulary. Fast, synchronous, no external call.
type KeywordRelevance struct {
	keywords []string
}

func NewKeywordRelevance(keywords []string) *KeywordRelevance {
	if len(keywords) == 0 {
		keywords = DefaultKeywords()
	}
	lowered := make([]string, len(keywords))
	for i, kw := range keywords {
		lowered[i] = strings.ToLower(kw)
	}
	return &KeywordRelevance{keywords: lowered}
}

func (k *KeywordRelevance) IsRelevant(_ context.Context, query string) bool {
	q := strings.ToLower(query)
	for _, kw := range k.keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// ModelRelevance asks the model itself for a YA/TIDAK classification. The
// round-trip goes through the orchestrator and is subject to its retry
// policy. Any failure or ambiguous reply classifies as not relevant: a
// wasted rejection is cheaper than a wasted generation call.
type ModelRelevance struct {
	orch   *Orchestrator
	logger *zap.Logger
}

func NewModelRelevance(orch *Orchestrator, logger *zap.Logger) *ModelRelevance {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelRelevance{orch: orch, logger: logger}
}

func (m *ModelRelevance) IsRelevant(ctx context.Context, query string) bool {
	reply, err := m.orch.GenerateText(ctx, BuildRelevancePrompt(query))
	if err != nil {
		m.logger.Warn("relevance classification failed, treating query as not relevant",
			zap.Error(err))
		return false
	}
	return strings.Contains(strings.ToUpper(reply), "YA")
}
