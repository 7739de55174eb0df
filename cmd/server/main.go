package main

import (
	"context"
	"log"
	"os"
	"strings"

	"kuhp-analyzer-backend/handlers"
	"kuhp-analyzer-backend/service"
	"kuhp-analyzer-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	cfg := service.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}

	ctx := context.Background()

	// Stage remote documents locally when a non-local source is configured.
	if keys := os.Getenv("DOCUMENT_SOURCE_KEYS"); keys != "" {
		if err := stageDocuments(ctx, cfg, keys); err != nil {
			log.Fatal("Failed to stage documents:", err)
		}
	}

	geminiClient, err := initGemini(ctx)
	if err != nil {
		log.Fatal("Failed to initialize Gemini:", err)
	}
	defer geminiClient.Close()

	analyzer, err := service.NewAnalyzerService(cfg,
		service.WithGeminiClient(geminiClient),
		service.WithLogger(logger),
	)
	if err != nil {
		log.Fatal("Failed to build analyzer:", err)
	}

	if err := analyzer.Initialize(ctx); err != nil {
		// Start anyway: /analyzer/reload can recover once the documents
		// are in place.
		logger.Error("analyzer initialization failed, starting degraded", zap.Error(err))
	}

	if cfg.WatchDocuments {
		watcher, err := service.NewDocumentWatcher(analyzer, logger)
		if err != nil {
			logger.Warn("document watcher unavailable", zap.Error(err))
		} else {
			go watcher.Run(ctx)
			logger.Info("watching source documents for changes")
		}
	}

	analyzerHandler := handlers.NewAnalyzerHandler(analyzer, logger)

	r := gin.Default()
	r.Use(handlers.CORSMiddleware())

	r.GET("/", analyzerHandler.Root)
	r.GET("/health", analyzerHandler.Health)
	r.POST("/analyze", analyzerHandler.Analyze)
	r.GET("/analyzer/status", analyzerHandler.Status)
	r.POST("/analyzer/reload", analyzerHandler.Reload)
	r.GET("/docs/analyzer", analyzerHandler.Docs)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func initGemini(ctx context.Context) (*genai.Client, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	log.Println("Gemini client initialized")
	return client, nil
}

// stageDocuments pulls the two KUHP files from the configured storage
// backend into the local document paths. keys holds "oldKey,newKey".
func stageDocuments(ctx context.Context, cfg service.Config, keys string) error {
	store, err := storage.NewStorageFromEnv()
	if err != nil {
		return err
	}

	oldKey, newKey, found := strings.Cut(keys, ",")
	if !found {
		newKey = oldKey
	}
	if err := storage.Materialize(ctx, store, oldKey, cfg.OldDocumentPath); err != nil {
		return err
	}
	return storage.Materialize(ctx, store, newKey, cfg.NewDocumentPath)
}
