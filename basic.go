package langident

// Basic types and related constants shared by the trie, score vector,
// and scoring engine.

import (
	"math"
)

// NodeIndex is an index into the packed trie's node pool. Index 0 is
// both the root and the "no such child" sentinel.
type NodeIndex uint32

const NULL_INDEX NodeIndex = 0
const ROOT_INDEX NodeIndex = 0

// LangID is a small integer index into the language metadata table.
// It follows the same "small newtype with a reserved sentinel"
// convention as word.Id: valid ids are dense from 0, and LANG_NIL
// marks "unknown language".
type LangID uint16

const LANG_NIL LangID = ^LangID(0)

// Score is the floating point type used for accumulated language
// scores. Unlike the trained per-n-gram weight (stored as a scaled
// 32-bit integer on disk), scores in memory are always float64: the
// accumulation sums many small contributions and float32 rounding
// would be visible after a few thousand additions.
type Score float64

// ZERO_SCORE is the smallest score treated as meaningful: Filter never
// keeps an entry below it (except as the sole fallback survivor), and
// LambdaCombineWithPrior only folds scores at or above it into the prior.
const ZERO_SCORE Score = 1e-5

// Alignment values: an n-gram of a given language may only legally
// start at an offset whose modulus divides evenly by its alignment.
const (
	ALIGN_1 = 1
	ALIGN_2 = 2
	ALIGN_4 = 4
)

// maxAlignmentByOffset maps start-offset-mod-4 to the largest
// alignment class that may start there.
var maxAlignmentByOffset = [4]int{4, 1, 2, 1}

// TRIE_SCALE_FACTOR is the inherited on-disk fixed-point scale for
// per-n-gram scores; raw stored scores are divided by
// 100*TRIE_SCALE_FACTOR to normalise to the working Score range.
const TRIE_SCALE_FACTOR = 1e9

// defaultStopGramPenalty is the multiplier applied to a stop-gram's
// base score. It is negative by convention: stop-grams subtract.
const defaultStopGramPenalty Score = -9.0

// lengthFactorBase/lengthFactorExponent implement the super-linear
// length reward factor(k) = 270 * k^0.75 (k >= 2).
const lengthFactorBase = 270.0
const lengthFactorExponent = 0.75

// LengthFactors returns the length-factor table for n-grams of order
// 0..maxOrder, i.e. LengthFactors(n)[k] is the weight applied to a
// match of length k. bigramWeight scales the k==2 entry; pass 1.0 for
// the unweighted table.
func LengthFactors(maxOrder int, bigramWeight float64) []float64 {
	f := make([]float64, maxOrder+1)
	for k := 2; k <= maxOrder && k < len(f); k++ {
		v := lengthFactorBase * math.Pow(float64(k), lengthFactorExponent)
		if k == 2 {
			v *= bigramWeight
		}
		f[k] = v
	}
	return f
}

// MaxAlignmentAt returns the largest n-gram alignment class allowed
// to start scoring at buffer offset start.
func MaxAlignmentAt(start int) int {
	return maxAlignmentByOffset[start&3]
}

// IdentifyOptions control a single Identify call.
type IdentifyOptions struct {
	// IgnoreWhitespace skips ASCII space/tab/LF/CR bytes while
	// descending the trie, so models keyed on non-whitespace runs
	// still match across incidental whitespace in the buffer.
	IgnoreWhitespace bool
	// ApplyStopGrams enables negative contributions from n-grams
	// flagged as stop-grams for a language.
	ApplyStopGrams bool
	// EnforceAlignment restricts matches to positions compatible with
	// each language's declared alignment; disabling it uses the
	// all-ones unaligned table instead.
	EnforceAlignment bool
	// Normalizer overrides the length normaliser N (default: len(buf)).
	// Zero means "use len(buf)".
	Normalizer int
}

// LoadOptions control Load.
type LoadOptions struct {
	// CharsetPath, if non-empty, names a companion charset->script
	// table file (see charset.go). The mapping itself is the trivial,
	// out-of-scope heuristic; only the file's parsing lives here.
	CharsetPath string
	// Create, when true and the database path does not exist, returns
	// an empty Identifier instead of failing.
	Create  bool
	Verbose bool
}
