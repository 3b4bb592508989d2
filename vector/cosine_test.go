package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors score one", func(t *testing.T) {
		a := []float32{0.3, 0.5, 0.9}
		assert.InDelta(t, 1.0, CosineSimilarity(a, a), 1e-6)
	})

	t.Run("symmetric", func(t *testing.T) {
		a := []float32{0.1, 0.7, 0.2}
		b := []float32{0.9, 0.0, 0.4}
		assert.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-9)
	})

	t.Run("orthogonal vectors score zero", func(t *testing.T) {
		a := []float32{1, 0}
		b := []float32{0, 1}
		assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
	})

	t.Run("zero norm scores zero", func(t *testing.T) {
		a := []float32{0, 0, 0}
		b := []float32{0.5, 0.5, 0.5}
		assert.Equal(t, 0.0, CosineSimilarity(a, b))
		assert.Equal(t, 0.0, CosineSimilarity(b, a))
	})

	t.Run("length mismatch panics", func(t *testing.T) {
		assert.Panics(t, func() {
			CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
		})
	})
}

func TestNormalize(t *testing.T) {
	t.Run("unit length output", func(t *testing.T) {
		v := Normalize([]float32{3, 4})
		assert.InDelta(t, 0.6, float64(v[0]), 1e-6)
		assert.InDelta(t, 0.8, float64(v[1]), 1e-6)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		v := Normalize([]float32{0, 0})
		assert.Equal(t, []float32{0, 0}, v)
	})
}

func TestChunkID(t *testing.T) {
	assert.Equal(t, "doc-1_chunk_0", ChunkID("doc-1", 0))
	assert.Equal(t, "doc-1_chunk_7", ChunkID("doc-1", 7))
}
