package distance

import (
	"fmt"
	"math"
)

// ErrDimensionMismatch indicates two vectors of different lengths were
// compared.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func checkDimensions(a, b []float32) error {
	if len(a) != len(b) {
		return &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}
	return nil
}

// Dot calculates the dot product of two vectors.
func Dot(a, b []float32) (float32, error) {
	if err := checkDimensions(a, b); err != nil {
		return 0, err
	}
	var dot float32
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot, nil
}

// Euclidean calculates the L2 distance between two vectors.
func Euclidean(a, b []float32) (float32, error) {
	if err := checkDimensions(a, b); err != nil {
		return 0, err
	}
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return float32(math.Sqrt(float64(sum))), nil
}

// Cosine calculates the cosine distance 1 - (a·b)/(|a||b|).
// Returns 2 (maximum distance) when either vector has zero norm, never NaN.
func Cosine(a, b []float32) (float32, error) {
	if err := checkDimensions(a, b); err != nil {
		return 0, err
	}
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 2, nil
	}
	sim := float64(dot) / (math.Sqrt(float64(normA)) * math.Sqrt(float64(normB)))
	return float32(1 - sim), nil
}

// Manhattan calculates the L1 distance between two vectors.
func Manhattan(a, b []float32) (float32, error) {
	if err := checkDimensions(a, b); err != nil {
		return 0, err
	}
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		if d < 0 {
			d = -d
		}
		sum += d
	}
	return sum, nil
}

// DotProductDistance calculates -(a·b), so that higher raw similarity maps
// to a lower (better) distance.
func DotProductDistance(a, b []float32) (float32, error) {
	dot, err := Dot(a, b)
	if err != nil {
		return 0, err
	}
	return -dot, nil
}

// Metric represents the distance metric used for vector comparison.
type Metric int

const (
	MetricEuclidean Metric = iota
	MetricCosine
	MetricManhattan
	MetricDot
)

func (m Metric) String() string {
	switch m {
	case MetricEuclidean:
		return "Euclidean"
	case MetricCosine:
		return "Cosine"
	case MetricManhattan:
		return "Manhattan"
	case MetricDot:
		return "Dot"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Func is a function type for exact distance calculation.
type Func func(a, b []float32) (float32, error)

// Provider returns the exact distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricEuclidean:
		return Euclidean, nil
	case MetricCosine:
		return Cosine, nil
	case MetricManhattan:
		return Manhattan, nil
	case MetricDot:
		return DotProductDistance, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
