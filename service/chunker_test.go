package service

import (
	"strings"
	"testing"

	"kuhp-analyzer-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSlidingWindowSplitter_RejectsInvalidConfig(t *testing.T) {
	cases := []struct {
		name      string
		size      int
		overlap   int
		wantError bool
	}{
		{"valid", 1000, 200, false},
		{"zero overlap", 100, 0, false},
		{"overlap equals size", 100, 100, true},
		{"overlap exceeds size", 100, 150, true},
		{"negative overlap", 100, -1, true},
		{"zero size", 0, 0, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSlidingWindowSplitter(tc.size, tc.overlap)
			if tc.wantError {
				assert.ErrorIs(t, err, ErrInvalidChunkConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSplit_ReconstructsOriginalText(t *testing.T) {
	texts := []string{
		"short",
		strings.Repeat("pasal tentang tindak pidana ", 40),
		strings.Repeat("x", 1000),
		strings.Repeat("x", 1001),
	}
	configs := []struct{ size, overlap int }{
		{10, 3},
		{5, 0},
		{7, 6},
		{100, 20},
		{2000, 500},
	}

	for _, cfg := range configs {
		splitter, err := NewSlidingWindowSplitter(cfg.size, cfg.overlap)
		require.NoError(t, err)

		for _, text := range texts {
			chunks := splitter.Split(models.VersionOld, text)
			require.NotEmpty(t, chunks)

			var sb strings.Builder
			sb.WriteString(chunks[0].Text)
			for _, c := range chunks[1:] {
				sb.WriteString(c.Text[cfg.overlap:])
			}
			assert.Equal(t, text, sb.String(),
				"size=%d overlap=%d len=%d", cfg.size, cfg.overlap, len(text))
		}
	}
}

func TestSplit_ChunkShapes(t *testing.T) {
	splitter, err := NewSlidingWindowSplitter(10, 4)
	require.NoError(t, err)

	text := strings.Repeat("a", 25)
	chunks := splitter.Split(models.VersionNew, text)

	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, models.VersionNew, c.Version)
		if i < len(chunks)-1 {
			assert.Len(t, c.Text, 10)
		} else {
			assert.LessOrEqual(t, len(c.Text), 10)
		}
	}
	// Consecutive chunks share the configured overlap.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1].Text
		assert.Equal(t, prev[len(prev)-4:], chunks[i].Text[:4])
	}
}

func TestSplit_EmptyText(t *testing.T) {
	splitter, err := NewSlidingWindowSplitter(10, 2)
	require.NoError(t, err)
	assert.Empty(t, splitter.Split(models.VersionOld, ""))
}

func TestFindRelevantChunks(t *testing.T) {
	chunks := []models.TextChunk{
		{Version: models.VersionOld, Index: 0, Text: "Pasal 362 tentang pencurian"},
		{Version: models.VersionOld, Index: 1, Text: "Pasal 338 tentang pembunuhan"},
		{Version: models.VersionNew, Index: 0, Text: "Pasal 476 tentang pencurian"},
		{Version: models.VersionNew, Index: 1, Text: "Pasal 458 tentang pembunuhan"},
	}

	t.Run("matches and preserves original order", func(t *testing.T) {
		got := FindRelevantChunks("sanksi pencurian", chunks, 10)
		require.Len(t, got, 2)
		assert.Equal(t, models.VersionOld, got[0].Version)
		assert.Equal(t, models.VersionNew, got[1].Version)
	})

	t.Run("never exceeds limit", func(t *testing.T) {
		got := FindRelevantChunks("pasal", chunks, 3)
		assert.Len(t, got, 3)
		// Surviving chunks keep their relative order.
		assert.Equal(t, chunks[0].Text, got[0].Text)
		assert.Equal(t, chunks[1].Text, got[1].Text)
		assert.Equal(t, chunks[2].Text, got[2].Text)
	})

	t.Run("no match yields empty result, not an error", func(t *testing.T) {
		got := FindRelevantChunks("cuaca", chunks, 5)
		assert.Empty(t, got)
	})

	t.Run("case-insensitive", func(t *testing.T) {
		got := FindRelevantChunks("PENCURIAN", chunks, 5)
		assert.Len(t, got, 2)
	})
}
