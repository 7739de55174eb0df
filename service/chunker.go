package service

import (
	"fmt"
	"strings"

	"kuhp-analyzer-backend/models"
)

// Splitter produces ordered text chunks from a document's text. The chunked
// retrieval path depends only on this capability, so alternate splitting
// schemes can be swapped in by configuration.
type Splitter interface {
	Split(version models.DocumentVersion, text string) []models.TextChunk
}

// SlidingWindowSplitter advances a window of ChunkSize bytes with a stride
// of ChunkSize-Overlap, so consecutive chunks share Overlap bytes. The final
// chunk may be shorter than ChunkSize.
type SlidingWindowSplitter struct {
	ChunkSize int
	Overlap   int
}

// NewSlidingWindowSplitter validates the window parameters up front;
// chunkSize > overlap >= 0 must hold or splitting could never terminate.
func NewSlidingWindowSplitter(chunkSize, overlap int) (*SlidingWindowSplitter, error) {
	if chunkSize <= overlap || overlap < 0 {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunkConfig, chunkSize, overlap)
	}
	return &SlidingWindowSplitter{ChunkSize: chunkSize, Overlap: overlap}, nil
}

// Split breaks text into overlapping chunks tagged with the owning document
// version and a sequential index.
func (s *SlidingWindowSplitter) Split(version models.DocumentVersion, text string) []models.TextChunk {
	if text == "" {
		return nil
	}

	stride := s.ChunkSize - s.Overlap
	chunks := make([]models.TextChunk, 0, len(text)/stride+1)

	for start, index := 0, 0; start < len(text); start, index = start+stride, index+1 {
		end := start + s.ChunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, models.TextChunk{
			Version: version,
			Index:   index,
			Text:    text[start:end],
		})
		if end == len(text) {
			break
		}
	}

	return chunks
}

// FindRelevantChunks returns up to limit chunks whose text contains at least
// one token of the query, keeping the original chunk order. Matching is
// case-insensitive and recall-oriented; an empty result means the caller has
// no grounding for this query and must not invoke generation.
func FindRelevantChunks(query string, chunks []models.TextChunk, limit int) []models.TextChunk {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 || limit <= 0 {
		return nil
	}

	var relevant []models.TextChunk
	for _, chunk := range chunks {
		content := strings.ToLower(chunk.Text)
		for _, tok := range tokens {
			if strings.Contains(content, tok) {
				relevant = append(relevant, chunk)
				break
			}
		}
		if len(relevant) == limit {
			break
		}
	}
	return relevant
}
