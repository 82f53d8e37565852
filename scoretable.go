package langident

import "math"

// ScoreTable is the process-wide (here: per-Context) monotone mapping
// from a stored raw_score to its base double score. It is initialised
// once — either from a default generator or from the table appended
// to a model file — and is immutable for the life of the Context.
type ScoreTable struct {
	values []float64
}

// DefaultScoreTable builds the built-in monotone generator used when a
// model file carries no explicit table: values[0] == 0, values[n] ==
// log2(n+1) for n >= 1. This keeps raw counts monotone without
// requiring a trained table for simple/synthetic models (see the
// identifier tests).
func DefaultScoreTable(size int) *ScoreTable {
	if size < 1 {
		size = 1
	}
	v := make([]float64, size)
	for i := 1; i < size; i++ {
		v[i] = math.Log2(float64(i) + 1)
	}
	return &ScoreTable{values: v}
}

// NewScoreTable wraps an explicit, already-monotone table, e.g. one
// read from a model file's trailer.
func NewScoreTable(values []float64) *ScoreTable {
	return &ScoreTable{values: append([]float64(nil), values...)}
}

// Lookup returns the base double score for a cleared raw_score,
// clamping to the last entry if raw is out of the table's trained
// range (a truncated or hand-built model should not panic a scoring
// pass).
func (t *ScoreTable) Lookup(raw uint32) float64 {
	if len(t.values) == 0 {
		return 0
	}
	if int(raw) >= len(t.values) {
		return t.values[len(t.values)-1]
	}
	return t.values[raw]
}

func (t *ScoreTable) Len() int { return len(t.values) }
