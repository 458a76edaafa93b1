package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalEmbedder_Deterministic(t *testing.T) {
	e := NewLocalEmbedder(0)
	text := "Either party may terminate this agreement upon thirty days written notice."

	v1, err := e.Embed(context.Background(), text)
	require.NoError(t, err)
	v2, err := e.Embed(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, v1, v2)
}

func TestLocalEmbedder_Dimension(t *testing.T) {
	e := NewLocalEmbedder(0)
	assert.Equal(t, DefaultLocalDimension, e.Dimension())

	v, err := e.Embed(context.Background(), "some contract text")
	require.NoError(t, err)
	assert.Len(t, v, DefaultLocalDimension)

	small := NewLocalEmbedder(64)
	v, err = small.Embed(context.Background(), "some contract text")
	require.NoError(t, err)
	assert.Len(t, v, 64)
}

func TestLocalEmbedder_UnitNorm(t *testing.T) {
	e := NewLocalEmbedder(128)
	v, err := e.Embed(context.Background(), "The Contractor shall indemnify the Company against all claims.")
	require.NoError(t, err)

	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-4)
}

func TestLocalEmbedder_DistinctTexts(t *testing.T) {
	e := NewLocalEmbedder(0)

	v1, err := e.Embed(context.Background(), "Payment is due within thirty days of invoice receipt.")
	require.NoError(t, err)
	v2, err := e.Embed(context.Background(), "The Employee shall keep all trade secrets confidential.")
	require.NoError(t, err)

	assert.NotEqual(t, v1, v2)
}

func TestLocalEmbedder_EmbedBatch(t *testing.T) {
	e := NewLocalEmbedder(0)
	texts := []string{
		"Either party may terminate this agreement upon notice.",
		"Liability is limited to fees paid in the prior year.",
	}

	vectors, err := e.EmbedBatch(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, vectors, 2)

	single, err := e.Embed(context.Background(), texts[0])
	require.NoError(t, err)
	assert.Equal(t, single, vectors[0])
}

func TestLocalEmbedder_EmptyText(t *testing.T) {
	e := NewLocalEmbedder(0)
	v, err := e.Embed(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, v, DefaultLocalDimension)
}
