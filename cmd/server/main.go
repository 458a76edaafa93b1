package main

import (
	"context"
	"log"
	"os"

	"clauselens-backend/embedding"
	"clauselens-backend/handlers"
	"clauselens-backend/index"
	"clauselens-backend/llm"
	"clauselens-backend/repository"
	"clauselens-backend/service"
	"clauselens-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file from project root (relative to cmd/server/)
	// Try current directory first, then project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	logger, err := newLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	// Postgres is only needed when the pgvector index backend is
	// selected; the default in-memory index runs without it.
	db, err := index.ConnectFromEnv(ctx)
	if err != nil {
		logger.Fatal("failed to initialize Postgres", zap.Error(err))
	}
	if db != nil {
		defer db.Close()
		logger.Info("Postgres connection established")
	}

	fileStorage, err := storage.NewStorageFromEnv()
	if err != nil {
		logger.Fatal("failed to initialize storage", zap.Error(err))
	}

	contractRepo, err := repository.NewContractRepositoryFromEnv()
	if err != nil {
		logger.Fatal("failed to initialize contract repository", zap.Error(err))
	}

	embedder, err := embedding.NewEmbedderFromEnv(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize embedder", zap.Error(err))
	}

	if db != nil {
		if err := index.EnsureSchema(ctx, db, embedder.Dimension()); err != nil {
			logger.Fatal("failed to ensure index schema", zap.Error(err))
		}
	}

	idx, err := index.NewIndexFromEnv(embedder, db, logger)
	if err != nil {
		logger.Fatal("failed to initialize semantic index", zap.Error(err))
	}

	llmClient, err := llm.NewClientFromEnv(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize LLM client", zap.Error(err))
	}

	analysisService := service.NewAnalysisService(
		service.WithContractRepository(contractRepo),
		service.WithIndex(idx),
		service.WithLLMClient(llmClient),
		service.WithLogger(logger),
		service.WithLLMEnhancement(os.Getenv("LLM_ENHANCE_UPLOADS") == "true"),
	)

	chatService := service.NewChatService(
		service.ChatWithContractRepository(contractRepo),
		service.ChatWithIndex(idx),
		service.ChatWithLLMClient(llmClient),
		service.ChatWithLogger(logger),
	)

	uploadHandler := handlers.NewUploadHandler(analysisService, fileStorage, logger)
	contractHandler := handlers.NewContractHandler(analysisService, contractRepo, logger)
	chatHandler := handlers.NewChatHandler(chatService, logger)

	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		api.POST("/contracts/upload", uploadHandler.UploadContract)
		api.GET("/contracts", contractHandler.ListContracts)
		api.GET("/contracts/:id", contractHandler.GetContract)
		api.DELETE("/contracts/:id", contractHandler.DeleteContract)
		api.GET("/contracts/:id/risk", contractHandler.GetRiskSummary)
		api.GET("/contracts/:id/analysis", contractHandler.GetAnalysis)
		api.POST("/contracts/:id/clauses/:clauseId/analyze", contractHandler.AnalyzeClause)
		api.POST("/contracts/:id/chat", chatHandler.Chat)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
