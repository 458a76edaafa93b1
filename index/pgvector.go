package index

import (
	"context"
	"fmt"
	"strings"

	"clauselens-backend/embedding"
	"clauselens-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pgvector is an Index backed by Postgres with the pgvector extension.
// Entries live in the clause_embeddings table; nearest-neighbor search
// uses the cosine distance operator.
type Pgvector struct {
	db       *pgxpool.Pool
	embedder embedding.Embedder
}

// NewPgvector creates a pgvector-backed index over the given embedder.
// The clause_embeddings table must exist with a vector column matching
// the embedder's dimension (see cmd/create-schema).
func NewPgvector(db *pgxpool.Pool, embedder embedding.Embedder) *Pgvector {
	return &Pgvector{db: db, embedder: embedder}
}

// EnsureSchema creates the pgvector extension and the
// clause_embeddings table for the given vector dimension.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool, dimension int) error {
	if _, err := db.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create pgvector extension: %w", err)
	}

	_, err := db.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS clause_embeddings (
			id           TEXT PRIMARY KEY,
			contract_id  TEXT NOT NULL,
			clause_type  TEXT NOT NULL,
			clause_index INT NOT NULL,
			risk_level   TEXT NOT NULL,
			clause_text  TEXT NOT NULL,
			embedding    vector(%d) NOT NULL
		)`, dimension))
	if err != nil {
		return fmt.Errorf("failed to create clause_embeddings table: %w", err)
	}

	_, err = db.Exec(ctx, "CREATE INDEX IF NOT EXISTS clause_embeddings_contract_idx ON clause_embeddings (contract_id)")
	if err != nil {
		return fmt.Errorf("failed to create contract index: %w", err)
	}
	return nil
}

// formatVector formats an embedding vector as a pgvector literal.
func formatVector(embedding []float32) string {
	if len(embedding) == 0 {
		return "[]"
	}
	parts := make([]string, len(embedding))
	for i, v := range embedding {
		parts[i] = fmt.Sprintf("%.6f", v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func (p *Pgvector) Upsert(ctx context.Context, contractID string, clauses []models.Clause) error {
	if len(clauses) == 0 {
		return nil
	}

	texts := make([]string, len(clauses))
	for i := range clauses {
		texts[i] = clauses[i].Text
	}
	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed clauses: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range clauses {
		if len(vectors[i]) != p.embedder.Dimension() {
			return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(vectors[i]), p.embedder.Dimension())
		}
		meta := entryMetadata(&clauses[i])
		batch.Queue(`
			INSERT INTO clause_embeddings (id, contract_id, clause_type, clause_index, risk_level, clause_text, embedding)
			VALUES ($1, $2, $3, $4, $5, $6, $7::vector)
			ON CONFLICT (id) DO UPDATE SET
				contract_id  = EXCLUDED.contract_id,
				clause_type  = EXCLUDED.clause_type,
				clause_index = EXCLUDED.clause_index,
				risk_level   = EXCLUDED.risk_level,
				clause_text  = EXCLUDED.clause_text,
				embedding    = EXCLUDED.embedding`,
			clauses[i].ID, meta.ContractID, string(meta.ClauseType), meta.Index, meta.RiskLevel,
			clauses[i].Text, formatVector(vectors[i]))
	}

	results := p.db.SendBatch(ctx, batch)
	defer results.Close()
	for range clauses {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert clause embedding: %w", err)
		}
	}
	return nil
}

func (p *Pgvector) Search(ctx context.Context, contractID, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = 5
	}

	queryVec, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	rows, err := p.db.Query(ctx, `
		SELECT
			id,
			clause_text,
			contract_id,
			clause_type,
			clause_index,
			risk_level,
			embedding <=> $1::vector AS distance
		FROM clause_embeddings
		WHERE contract_id = $2
		ORDER BY embedding <=> $1::vector
		LIMIT $3`,
		formatVector(queryVec), contractID, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query clause embeddings: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var clauseType string
		if err := rows.Scan(&r.ID, &r.Text, &r.Metadata.ContractID, &clauseType,
			&r.Metadata.Index, &r.Metadata.RiskLevel, &r.Distance); err != nil {
			return nil, fmt.Errorf("failed to scan clause embedding: %w", err)
		}
		r.Metadata.ClauseType = models.NormalizeClauseType(clauseType)
		results = append(results, r)
	}
	return results, rows.Err()
}

func (p *Pgvector) DeleteContract(ctx context.Context, contractID string) error {
	_, err := p.db.Exec(ctx, "DELETE FROM clause_embeddings WHERE contract_id = $1", contractID)
	if err != nil {
		return fmt.Errorf("failed to delete contract embeddings: %w", err)
	}
	return nil
}

func (p *Pgvector) GetByID(ctx context.Context, id string) (*Result, error) {
	var r Result
	var clauseType string
	err := p.db.QueryRow(ctx, `
		SELECT id, clause_text, contract_id, clause_type, clause_index, risk_level
		FROM clause_embeddings
		WHERE id = $1`, id).Scan(
		&r.ID, &r.Text, &r.Metadata.ContractID, &clauseType, &r.Metadata.Index, &r.Metadata.RiskLevel)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clause embedding: %w", err)
	}
	r.Metadata.ClauseType = models.NormalizeClauseType(clauseType)
	return &r, nil
}
