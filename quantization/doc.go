// Package quantization provides per-vector 8-bit scalar quantization (SQ8).
//
// Each vector carries its own (min, max) codebook, so no training phase and
// no shared state is required: a vector is quantized the moment it is
// committed to the index and re-quantized wholesale if it changes.
//
//	q := quantization.Quantize(vec)          // 384 floats -> 384 bytes + 8 byte codebook
//	back := quantization.Dequantize(q)       // lossy inverse
//	blob, _ := q.MarshalBinary()             // 8 + dim bytes, stable wire format
//
// # Precision
//
// Per-element reconstruction error is bounded by half a quantization step:
// (max-min)/510. For normalized embeddings (values in [-1, 1]) that is at
// most ~0.004 per component, which the approximate distance path in package
// distance recovers from via exact reranking.
//
// # Wire format
//
// The serialized form is consumed by storage backends and must stay
// bit-exact:
//
//	[0, 4)        min, IEEE-754 float32, little-endian
//	[4, 8)        max, IEEE-754 float32, little-endian
//	[8, 8+dim)    quantized codes, one byte per dimension
//
// Constant vectors (min == max) quantize to the midpoint byte 128 in every
// position; dequantization maps them back to the constant exactly.
package quantization
