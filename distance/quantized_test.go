package distance

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecmem/quantization"
)

func TestQuantizedCosine_MatchesExact(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	a := randomVector(rng, 384)
	b := randomVector(rng, 384)

	exact, err := Cosine(a, b)
	require.NoError(t, err)

	approx, err := QuantizedCosine(quantization.Quantize(a), quantization.Quantize(b))
	require.NoError(t, err)

	assert.InDelta(t, float64(exact), float64(approx), 0.01)
}

// For 384-dim vectors with components in [-1, 1], the approximate cosine must
// stay within 0.01 of the exact value for at least 99% of random pairs.
func TestQuantizedCosine_Fidelity(t *testing.T) {
	rng := rand.New(rand.NewSource(99))

	const pairs = 500
	within := 0
	for i := 0; i < pairs; i++ {
		a := randomVector(rng, 384)
		b := randomVector(rng, 384)

		exact, err := Cosine(a, b)
		require.NoError(t, err)
		approx, err := QuantizedCosine(quantization.Quantize(a), quantization.Quantize(b))
		require.NoError(t, err)

		if math.Abs(float64(exact)-float64(approx)) < 0.01 {
			within++
		}
	}

	assert.GreaterOrEqual(t, within, int(0.99*pairs),
		"approximate cosine drifted beyond 0.01 on too many pairs")
}

func TestQuantizedCosine_Symmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	qa := quantization.Quantize(randomVector(rng, 128))
	qb := quantization.Quantize(randomVector(rng, 128))

	ab, err := QuantizedCosine(qa, qb)
	require.NoError(t, err)
	ba, err := QuantizedCosine(qb, qa)
	require.NoError(t, err)
	assert.Equal(t, ab, ba)
}

func TestQuantizedCosine_ZeroNormSentinel(t *testing.T) {
	zero := quantization.Quantize(make([]float32, 16))
	other := quantization.Quantize([]float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})

	d, err := QuantizedCosine(zero, other)
	require.NoError(t, err)
	assert.Equal(t, float32(1), d, "quantized path uses 1.0 as the zero-norm sentinel")
	assert.False(t, math.IsNaN(float64(d)))
}

func TestQuantizedCosine_DimensionMismatch(t *testing.T) {
	qa := quantization.Quantize([]float32{1, 2, 3})
	qb := quantization.Quantize([]float32{1, 2})

	_, err := QuantizedCosine(qa, qb)
	var dm *ErrDimensionMismatch
	require.ErrorAs(t, err, &dm)
}

func TestQuantizedCosine_IdenticalVectors(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	v := randomVector(rng, 384)
	q := quantization.Quantize(v)

	d, err := QuantizedCosine(q, q)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, float64(d), 1e-6, "self distance must be ~0")
	assert.GreaterOrEqual(t, d, float32(0), "clamp keeps similarity inside [-1,1]")
}

func BenchmarkQuantizedCosine(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	qa := quantization.Quantize(randomVector(rng, 384))
	qb := quantization.Quantize(randomVector(rng, 384))

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = QuantizedCosine(qa, qb)
	}
}
