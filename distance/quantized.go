package distance

import (
	"math"

	"github.com/hupe1980/vecmem/quantization"
)

// QuantizedCosine calculates the approximate cosine distance between two SQ8
// vectors without dequantizing them.
//
// A single pass accumulates five integer sums over the raw codes; the dot
// product and norms are then reconstructed algebraically from each vector's
// (min, max) codebook:
//
//	dot    = n·aMin·bMin + aMin·bScale·sumB + bMin·aScale·sumA + aScale·bScale·sumAB
//	|a|²   = n·aMin² + 2·aMin·aScale·sumA + aScale²·sumAA
//	|b|²   = n·bMin² + 2·bMin·bScale·sumB + bScale²·sumBB
//
// Similarity is clamped to [-1, 1] to guard against floating round-off.
// Zero-norm vectors return the sentinel distance 1.0 (not 2.0 as in the
// exact path): the approximate path only ranks candidates, and a neutral
// mid-range value keeps degenerate vectors from dominating either end of
// the candidate list.
func QuantizedCosine(a, b quantization.QuantizedVector) (float32, error) {
	n := len(a.Data)
	if n != len(b.Data) {
		return 0, &ErrDimensionMismatch{Expected: n, Actual: len(b.Data)}
	}
	if n == 0 {
		return 1, nil
	}

	var sumA, sumB, sumAB, sumAA, sumBB uint64
	for i := 0; i < n; i++ {
		ca := uint64(a.Data[i])
		cb := uint64(b.Data[i])
		sumA += ca
		sumB += cb
		sumAB += ca * cb
		sumAA += ca * ca
		sumBB += cb * cb
	}

	aMin := float64(a.Min)
	bMin := float64(b.Min)
	aScale := float64(a.Max-a.Min) / 255.0
	bScale := float64(b.Max-b.Min) / 255.0
	nf := float64(n)

	dot := nf*aMin*bMin +
		aMin*bScale*float64(sumB) +
		bMin*aScale*float64(sumA) +
		aScale*bScale*float64(sumAB)
	normA2 := nf*aMin*aMin + 2*aMin*aScale*float64(sumA) + aScale*aScale*float64(sumAA)
	normB2 := nf*bMin*bMin + 2*bMin*bScale*float64(sumB) + bScale*bScale*float64(sumBB)

	if normA2 <= 0 || normB2 <= 0 {
		return 1, nil
	}

	sim := dot / (math.Sqrt(normA2) * math.Sqrt(normB2))
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}

	return float32(1 - sim), nil
}
