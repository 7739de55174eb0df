package handlers

import (
	"net/http"
	"strings"

	"kuhp-analyzer-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AnalyzerHandler exposes the analyzer over HTTP.
type AnalyzerHandler struct {
	analyzer *service.AnalyzerService
	logger   *zap.Logger
}

// NewAnalyzerHandler creates a new analyzer handler.
func NewAnalyzerHandler(analyzer *service.AnalyzerService, logger *zap.Logger) *AnalyzerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyzerHandler{analyzer: analyzer, logger: logger}
}

// AnalyzeRequest represents the request body for POST /analyze.
type AnalyzeRequest struct {
	Query string `json:"query"`
}

// Analyze handles POST /analyze.
func (h *AnalyzerHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_QUERY",
				"message": "Query tidak boleh kosong",
			},
		})
		return
	}

	requestID := uuid.New()
	h.logger.Info("processing query",
		zap.String("request_id", requestID.String()),
		zap.String("query", query))

	result, err := h.analyzer.Analyze(c.Request.Context(), query)
	if err != nil {
		h.logger.Error("analysis failed",
			zap.String("request_id", requestID.String()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_FAILED",
				"message": "Terjadi kesalahan saat memproses analisis. Silakan coba lagi.",
			},
		})
		return
	}

	cfg := h.analyzer.Config()
	c.JSON(http.StatusOK, gin.H{
		"response":        result.Response,
		"is_relevant":     result.IsRelevant,
		"comparison_data": result.ComparisonData,
		"analyzer_info": gin.H{
			"request_id":          requestID.String(),
			"model":               cfg.ModelName,
			"method":              string(cfg.RetrievalMode),
			"context_chunks_used": result.ContextChunksUsed,
		},
	})
}

// Status handles GET /analyzer/status.
func (h *AnalyzerHandler) Status(c *gin.Context) {
	status := h.analyzer.Status()

	health := "healthy"
	if !status.FilesUploaded && status.RetrievalMode == service.RetrievalFile {
		health = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "active",
		"health":        health,
		"analyzer_info": status,
	})
}

// Reload handles POST /analyzer/reload.
func (h *AnalyzerHandler) Reload(c *gin.Context) {
	if err := h.analyzer.Reload(c.Request.Context()); err != nil {
		h.logger.Error("reload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RELOAD_FAILED",
				"message": "Gagal memuat ulang dokumen",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Dokumen berhasil direload",
	})
}

// Health handles GET /health, the composite liveness probe for the hosting
// platform.
func (h *AnalyzerHandler) Health(c *gin.Context) {
	status := h.analyzer.Status()

	components := gin.H{
		"server":   "healthy",
		"analyzer": "healthy",
		"files":    "healthy",
	}
	overall := "healthy"
	if !status.FilesUploaded && status.RetrievalMode == service.RetrievalFile {
		components["files"] = "degraded"
		overall = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     overall,
		"service":    "kuhp-analyzer",
		"components": components,
		"analyzer_info": gin.H{
			"model":     status.ModelName,
			"documents": documentNames(status),
		},
	})
}

// Root handles GET /, the service banner.
func (h *AnalyzerHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "KUHP Analyzer",
		"description": "AI analyzer untuk menganalisis perbedaan KUHP lama dan baru",
		"status":      "initialized",
	})
}

// Docs handles GET /docs/analyzer, a configuration snapshot for debugging.
func (h *AnalyzerHandler) Docs(c *gin.Context) {
	cfg := h.analyzer.Config()
	status := h.analyzer.Status()

	c.JSON(http.StatusOK, gin.H{
		"analyzer_config": gin.H{
			"model":          cfg.ModelName,
			"temperature":    cfg.Temperature,
			"retrieval_mode": string(cfg.RetrievalMode),
			"old_kuhp_path":  cfg.OldDocumentPath,
			"new_kuhp_path":  cfg.NewDocumentPath,
			"chunk_size":     cfg.ChunkSize,
			"chunk_overlap":  cfg.Overlap,
		},
		"file_status": gin.H{
			"files_uploaded": status.FilesUploaded,
			"documents":      status.Documents,
		},
	})
}

// CORSMiddleware permits cross-origin requests from any origin, matching
// the frontend deployment model.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func documentNames(status service.Status) []string {
	names := make([]string, 0, len(status.Documents))
	for _, doc := range status.Documents {
		names = append(names, doc.DisplayName)
	}
	return names
}
