package models

// AnalysisResult aggregates the outcome of one analyzed query. Constructed
// fresh per request and never persisted.
type AnalysisResult struct {
	Response          string          `json:"response"`
	IsRelevant        bool            `json:"is_relevant"`
	ComparisonData    *ComparisonData `json:"comparison_data"`
	ContextChunksUsed int             `json:"context_chunks_used"`
}
