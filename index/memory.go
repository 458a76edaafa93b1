package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"clauselens-backend/embedding"
	"clauselens-backend/models"
)

type memoryEntry struct {
	id       string
	text     string
	vector   []float32
	metadata Metadata
}

// Memory is an in-memory Index using brute-force cosine distance. Each
// entry is replaced atomically under the lock, so concurrent readers
// never observe a partial overwrite.
type Memory struct {
	mu       sync.RWMutex
	embedder embedding.Embedder
	entries  map[string]*memoryEntry
}

// NewMemory creates an empty in-memory index over the given embedder.
func NewMemory(embedder embedding.Embedder) *Memory {
	return &Memory{
		embedder: embedder,
		entries:  make(map[string]*memoryEntry),
	}
}

func (m *Memory) Upsert(ctx context.Context, contractID string, clauses []models.Clause) error {
	if len(clauses) == 0 {
		return nil
	}

	texts := make([]string, len(clauses))
	for i := range clauses {
		texts[i] = clauses[i].Text
	}
	vectors, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed clauses: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range clauses {
		if len(vectors[i]) != m.embedder.Dimension() {
			return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(vectors[i]), m.embedder.Dimension())
		}
		m.entries[clauses[i].ID] = &memoryEntry{
			id:       clauses[i].ID,
			text:     clauses[i].Text,
			vector:   vectors[i],
			metadata: entryMetadata(&clauses[i]),
		}
	}
	return nil
}

func (m *Memory) Search(ctx context.Context, contractID, query string, k int) ([]Result, error) {
	if k <= 0 {
		k = 5
	}

	queryVec, err := m.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	m.mu.RLock()
	results := make([]Result, 0, len(m.entries))
	for _, entry := range m.entries {
		if entry.metadata.ContractID != contractID {
			continue
		}
		results = append(results, Result{
			ID:       entry.id,
			Text:     entry.text,
			Metadata: entry.metadata,
			Distance: cosineDistance(queryVec, entry.vector),
		})
	}
	m.mu.RUnlock()

	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].ID < results[j].ID
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (m *Memory) DeleteContract(ctx context.Context, contractID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, entry := range m.entries {
		if entry.metadata.ContractID == contractID {
			delete(m.entries, id)
		}
	}
	return nil
}

func (m *Memory) GetByID(ctx context.Context, id string) (*Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	return &Result{ID: entry.id, Text: entry.text, Metadata: entry.metadata}, nil
}

// cosineDistance is 1 - cosine similarity: 0 for identical direction,
// growing as vectors diverge.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 1.0
	}
	return 1.0 - dot/denom
}
