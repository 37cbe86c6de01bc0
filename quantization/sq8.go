package quantization

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// headerSize is the serialized codebook size: min and max as float32.
const headerSize = 8

// midpoint is the sentinel code for zero-range (constant) vectors.
const midpoint = 128

// ErrMalformedQuantizedVector is returned when a serialized buffer cannot be
// decoded: shorter than the 8-byte codebook header, or a code-array length
// that does not match the expected dimension.
var ErrMalformedQuantizedVector = errors.New("malformed quantized vector")

// QuantizedVector is an SQ8-compressed vector with its per-vector codebook.
//
// Invariants: len(Data) equals the source dimension, Min <= Max, and if
// Min == Max every code is the midpoint byte 128. A QuantizedVector is
// immutable after construction; callers must not modify Data.
type QuantizedVector struct {
	Data []byte
	Min  float32
	Max  float32
}

// Quantize compresses a float32 vector to 8-bit codes with a per-vector
// (min, max) codebook. Each component is linearly mapped from [min, max] to
// [0, 255] and rounded to nearest; the mapping clamps by construction.
//
// A zero-range vector (max == min) fills every code with the midpoint 128 so
// no division by zero occurs.
func Quantize(v []float32) QuantizedVector {
	q := QuantizedVector{Data: make([]byte, len(v))}
	if len(v) == 0 {
		return q
	}

	minVal, maxVal := v[0], v[0]
	for _, val := range v[1:] {
		if val < minVal {
			minVal = val
		}
		if val > maxVal {
			maxVal = val
		}
	}
	q.Min, q.Max = minVal, maxVal

	if maxVal == minVal {
		for i := range q.Data {
			q.Data[i] = midpoint
		}
		return q
	}

	scale := 255.0 / (maxVal - minVal)
	for i, val := range v {
		q.Data[i] = uint8((val-minVal)*scale + 0.5) // Round to nearest
	}

	return q
}

// Dequantize reconstructs a float32 vector from its quantized form.
// For zero-range vectors every component is Min exactly.
func Dequantize(q QuantizedVector) []float32 {
	out := make([]float32, len(q.Data))
	DequantizeInto(q, out)
	return out
}

// DequantizeInto reconstructs into a pre-allocated destination slice.
// This is the zero-allocation path for bulk reranking; dst must have
// length >= q.Dimension().
func DequantizeInto(q QuantizedVector, dst []float32) {
	if q.Max == q.Min {
		for i := range q.Data {
			dst[i] = q.Min
		}
		return
	}

	invScale := (q.Max - q.Min) / 255.0
	for i, code := range q.Data {
		dst[i] = q.Min + float32(code)*invScale
	}
}

// Dimension returns the number of vector components.
func (q QuantizedVector) Dimension() int {
	return len(q.Data)
}

// SerializedSize returns the wire size in bytes: 8 + dimension.
func (q QuantizedVector) SerializedSize() int {
	return headerSize + len(q.Data)
}

// CompressionRatio returns the memory compression ratio versus float32
// storage, ignoring the fixed 8-byte codebook.
func (q QuantizedVector) CompressionRatio() float64 {
	return 4.0 // float32 (4 bytes) -> uint8 (1 byte)
}

// MaxReconstructionError returns the per-element error bound: half a
// quantization step, (max-min)/510.
func (q QuantizedVector) MaxReconstructionError() float32 {
	return (q.Max - q.Min) / 510.0
}

// MarshalBinary implements encoding.BinaryMarshaler.
// Format (little-endian): [min:float32][max:float32][codes:dimension bytes].
func (q QuantizedVector) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize+len(q.Data))
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(q.Min))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(q.Max))
	copy(buf[headerSize:], q.Data)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// Buffers shorter than the 8-byte header fail with
// ErrMalformedQuantizedVector; the remainder becomes the code array.
func (q *QuantizedVector) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize {
		return fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedQuantizedVector, len(data), headerSize)
	}

	q.Min = math.Float32frombits(binary.LittleEndian.Uint32(data[0:4]))
	q.Max = math.Float32frombits(binary.LittleEndian.Uint32(data[4:8]))
	q.Data = make([]byte, len(data)-headerSize)
	copy(q.Data, data[headerSize:])
	return nil
}

// UnmarshalBinaryExact decodes like UnmarshalBinary but additionally rejects
// buffers whose code-array length does not match the expected dimension.
// Use it whenever the index dimension is known up front.
func (q *QuantizedVector) UnmarshalBinaryExact(data []byte, dimension int) error {
	if len(data) != headerSize+dimension {
		return fmt.Errorf("%w: %d bytes, want %d for dimension %d",
			ErrMalformedQuantizedVector, len(data), headerSize+dimension, dimension)
	}
	return q.UnmarshalBinary(data)
}
