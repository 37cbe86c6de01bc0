// Package distance provides exact and quantized-approximate vector distance
// calculations.
//
// The exact functions operate on float32 vectors and fail fast on dimension
// mismatch; that is a caller contract violation, not a transient condition.
// QuantizedCosine operates directly on two SQ8 vectors without materializing
// a dequantized copy, which keeps the index search hot path to integer/byte
// arithmetic.
//
// # Reranking
//
// Approximate distances lose precision to quantization. Callers ranking
// candidates with QuantizedCosine should over-retrieve by a configurable
// multiplier and re-score the final candidate set with the exact functions
// before returning results. With that rerank pass, recall@100 >= 99% versus
// an unquantized index is typical for normalized embedding distributions.
package distance
