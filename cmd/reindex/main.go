package main

import (
	"context"
	"fmt"
	"log"

	"clauselens-backend/embedding"
	"clauselens-backend/index"
	"clauselens-backend/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Rebuilds the semantic index from the stored contract files. Useful
// after switching embedding providers or index backends, since the
// contract JSON on disk is the source of truth.
func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	contractRepo, err := repository.NewContractRepositoryFromEnv()
	if err != nil {
		logger.Fatal("failed to initialize contract repository", zap.Error(err))
	}

	embedder, err := embedding.NewEmbedderFromEnv(ctx, logger)
	if err != nil {
		logger.Fatal("failed to initialize embedder", zap.Error(err))
	}

	db, err := index.ConnectFromEnv(ctx)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if db != nil {
		defer db.Close()
		if err := index.EnsureSchema(ctx, db, embedder.Dimension()); err != nil {
			logger.Fatal("failed to ensure index schema", zap.Error(err))
		}
	}

	idx, err := index.NewIndexFromEnv(embedder, db, logger)
	if err != nil {
		logger.Fatal("failed to initialize semantic index", zap.Error(err))
	}

	summaries, err := contractRepo.List()
	if err != nil {
		logger.Fatal("failed to list contracts", zap.Error(err))
	}

	total := 0
	for _, summary := range summaries {
		contract, err := contractRepo.Load(summary.ID)
		if err != nil {
			logger.Warn("skipping unreadable contract",
				zap.String("contract_id", summary.ID), zap.Error(err))
			continue
		}
		if contract == nil {
			continue
		}

		if err := idx.DeleteContract(ctx, contract.ID); err != nil {
			logger.Warn("failed to clear old index entries",
				zap.String("contract_id", contract.ID), zap.Error(err))
		}
		if err := idx.Upsert(ctx, contract.ID, contract.Clauses); err != nil {
			logger.Fatal("failed to index contract",
				zap.String("contract_id", contract.ID), zap.Error(err))
		}

		total += len(contract.Clauses)
		logger.Info("indexed contract",
			zap.String("contract_id", contract.ID),
			zap.String("title", contract.Title),
			zap.Int("clauses", len(contract.Clauses)))
	}

	fmt.Printf("✅ Reindexed %d contracts (%d clauses) with %s embeddings\n",
		len(summaries), total, embedder.Name())
}
