package embedding

import (
	"context"
	"crypto/sha256"
	"math"
	"strings"
)

// DefaultLocalDimension is the vector size of the local embedder.
const DefaultLocalDimension = 256

// commonWords are frequency features with some signal for legal text.
// The list is fixed: changing it changes every vector, which would
// require rebuilding any index built with this embedder.
var commonWords = []string{
	"agreement", "party", "parties", "shall", "may", "must", "not",
	"terminate", "termination", "notice", "liability", "liable",
	"indemnify", "damages", "payment", "pay", "fee", "compensation",
	"confidential", "disclosure", "proprietary", "property",
	"intellectual", "copyright", "patent", "invention", "compete",
	"solicit", "covenant", "breach", "obligation", "right", "rights",
	"term", "period", "days", "months", "years", "written", "consent",
	"waive", "perpetual", "irrevocable", "exclusive", "assign",
	"assignment", "employee", "employer", "contractor", "company",
	"services", "work", "cause", "immediately", "limited", "unlimited",
	"cap", "salary", "invoice", "interest", "law", "court", "dispute",
	"arbitration",
}

// LocalEmbedder is a pure fallback vectorizer with no external model
// dependency. Vectors are built from character-frequency features,
// common-word frequency features, and a sha256-derived numeric tail,
// then L2-normalized. Identical input always produces an identical
// vector, so the semantic index works without any provider setup.
type LocalEmbedder struct {
	dimension int
}

// NewLocalEmbedder creates a local embedder producing vectors of the
// given dimension. Non-positive dimensions fall back to the default.
func NewLocalEmbedder(dimension int) *LocalEmbedder {
	if dimension <= 0 {
		dimension = DefaultLocalDimension
	}
	return &LocalEmbedder{dimension: dimension}
}

func (e *LocalEmbedder) Name() string   { return "local" }
func (e *LocalEmbedder) Dimension() int { return e.dimension }

func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	features := make([]float32, 0, e.dimension)
	features = append(features, charFrequencies(text)...)
	features = append(features, wordFrequencies(text)...)

	// Fill the remaining positions from a hash-derived stream so the
	// full dimensionality carries text-specific signal.
	if len(features) < e.dimension {
		features = append(features, hashTail(text, e.dimension-len(features))...)
	}
	features = features[:e.dimension]

	normalize(features)
	return features, nil
}

func (e *LocalEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors[i] = vec
	}
	return vectors, nil
}

// charFrequencies returns the relative frequency of each ASCII letter
// and digit, 36 features.
func charFrequencies(text string) []float32 {
	counts := make([]float32, 36)
	total := 0
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			counts[r-'a']++
			total++
		case r >= '0' && r <= '9':
			counts[26+r-'0']++
			total++
		}
	}
	if total > 0 {
		for i := range counts {
			counts[i] /= float32(total)
		}
	}
	return counts
}

// wordFrequencies returns the relative frequency of each common word,
// one feature per entry in commonWords.
func wordFrequencies(text string) []float32 {
	fields := strings.Fields(strings.ToLower(text))
	counts := make(map[string]int, len(fields))
	for _, f := range fields {
		counts[strings.Trim(f, ".,;:()[]\"'")]++
	}

	features := make([]float32, len(commonWords))
	if len(fields) == 0 {
		return features
	}
	for i, word := range commonWords {
		features[i] = float32(counts[word]) / float32(len(fields))
	}
	return features
}

// hashTail derives n values in [0,1) from repeated sha256 hashing of
// the text, giving distinct texts well-spread tails.
func hashTail(text string, n int) []float32 {
	out := make([]float32, 0, n)
	block := sha256.Sum256([]byte(text))
	for len(out) < n {
		for _, b := range block {
			out = append(out, float32(b)/256.0)
			if len(out) == n {
				break
			}
		}
		block = sha256.Sum256(block[:])
	}
	return out
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
