package memory

// Precision is the numeric precision the embedding engine loads its weights
// in. It selects the fixed memory reservation subtracted before cache sizing.
type Precision string

const (
	PrecisionF32 Precision = "f32"
	PrecisionQ8  Precision = "q8"
)

// ModelBreakdown splits a model memory estimate into its components.
type ModelBreakdown struct {
	Weights   uint64
	Runtime   uint64
	Workspace uint64
}

// ModelEstimate is the fixed memory reserved for the embedding engine.
// It is a policy constant, not a runtime measurement: the engine's resident
// size is dominated by its weights, which are known per precision.
type ModelEstimate struct {
	Bytes     uint64
	Precision Precision
	Breakdown ModelBreakdown
}

const mib = 1 << 20

// DetectModelMemory returns the reservation for the embedding engine at the
// given precision. The f32 figures match a MiniLM-class sentence transformer
// (~90MB of float32 weights plus inference runtime and tokenizer/tensor
// workspace); q8 shrinks the weights 4x. Unknown precisions use the f32
// estimate, the conservative choice.
func DetectModelMemory(precision Precision) ModelEstimate {
	var bd ModelBreakdown
	switch precision {
	case PrecisionQ8:
		bd = ModelBreakdown{Weights: 24 * mib, Runtime: 30 * mib, Workspace: 10 * mib}
	default:
		precision = PrecisionF32
		bd = ModelBreakdown{Weights: 90 * mib, Runtime: 30 * mib, Workspace: 20 * mib}
	}

	return ModelEstimate{
		Bytes:     bd.Weights + bd.Runtime + bd.Workspace,
		Precision: precision,
		Breakdown: bd,
	}
}
