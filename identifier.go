package langident

import (
	"math"
	"os"

	"github.com/golang/glog"
)

// Identifier is the top-level facade: one loaded model plus the
// derived per-language tables the scoring engine and Finish need.
// A *Identifier is immutable after Load and safe for concurrent
// Identify/Similarity calls from multiple goroutines, each supplying
// its own *Context and output ScoreVector.
type Identifier struct {
	languages *LanguageTable
	trie      *PackedTrie
	mapped    *MappedModelFile // nil for an empty/Create-only identifier

	alignments    []int     // per-language declared alignment
	unaligned     []int     // all-ones, used when EnforceAlignment is false
	adjustments   []float64 // per-language coverage adjustment, applied in Finish
	lengthFactors []float64
	maxOrder      int
	haveBigrams   bool
}

// maxModelOrder bounds the length-factor table; n-grams longer than
// this are scored with the last table entry's weight.
const maxModelOrder = 8

// Load reads a model file from databasePath and computes the derived
// tables used by Identify/Finish. If databasePath does not exist and
// opts.Create is set, Load returns an empty Identifier with zero
// languages instead of failing.
func Load(databasePath string, opts LoadOptions) (*Identifier, error) {
	md, mm, err := LoadModelFile(databasePath)
	if err != nil {
		if opts.Create && os.IsNotExist(err) {
			glog.Warningf("langident: model file %s not found, creating empty identifier", databasePath)
			return newEmptyIdentifier(), nil
		}
		return nil, err
	}

	if opts.CharsetPath != "" {
		if _, err := LoadCharsetTable(opts.CharsetPath); err != nil {
			mm.Close()
			return nil, err
		}
	}

	id := &Identifier{
		languages:   md.Languages,
		trie:        md.Trie,
		mapped:      mm,
		haveBigrams: md.HaveBigrams,
		maxOrder:    maxModelOrder,
	}
	id.computeDerivedTables(opts.Verbose)
	glog.Infof("langident: loaded %s: %d languages, %d trie nodes", databasePath, id.languages.Len(), id.trie.NumNodes())
	return id, nil
}

func newEmptyIdentifier() *Identifier {
	id := &Identifier{
		languages: NewLanguageTable(nil),
		maxOrder:  maxModelOrder,
	}
	id.computeDerivedTables(false)
	return id
}

// computeDerivedTables builds the alignment/adjustment/length-factor
// tables from the loaded per-language metadata (§3's "derived state,
// not part of the on-disk format" note). When verbose is set (from
// LoadOptions.Verbose) each language's computed adjustment is traced
// at glog.V(1); this is a one-shot load-time pass, not the per-byte
// scoring hot loop, so it is safe to log per language.
func (id *Identifier) computeDerivedTables(verbose bool) {
	n := id.languages.Len()
	id.alignments = make([]int, n)
	id.unaligned = make([]int, n)
	id.adjustments = make([]float64, n)
	bigramWeight := 0.0
	if id.haveBigrams {
		bigramWeight = 1.0
	}
	for i := 0; i < n; i++ {
		meta := id.languages.At(LangID(i))
		align := meta.Alignment
		if align != ALIGN_1 && align != ALIGN_2 && align != ALIGN_4 {
			glog.Warningf("langident: language %q has invalid alignment %d, defaulting to ALIGN_1", meta.Language(), align)
			align = ALIGN_1
		}
		id.alignments[i] = align
		id.unaligned[i] = ALIGN_1

		if meta.MatchFactor > 0 {
			id.adjustments[i] = float64(align) / math.Pow(meta.MatchFactor, 0.25)
		} else {
			id.adjustments[i] = 1.0
		}
		if verbose {
			glog.V(1).Infof("langident: %q: alignment=%d matchFactor=%g adjustment=%g",
				meta.Language(), align, meta.MatchFactor, id.adjustments[i])
		}
	}
	id.lengthFactors = LengthFactors(id.maxOrder, bigramWeight)
}

// Close releases the underlying mmap, if any.
func (id *Identifier) Close() error {
	if id.mapped != nil {
		return id.mapped.Close()
	}
	return nil
}

// Languages returns the loaded language metadata table.
func (id *Identifier) Languages() *LanguageTable { return id.languages }

// Identify scores buf against every loaded language and returns the
// raw, dense, unsorted per-language ScoreVector; callers typically
// follow with Finish.
func (id *Identifier) Identify(ctx *Context, buf []byte, opts IdentifyOptions) *ScoreVector {
	out := NewScoreVector(id.languages.Len())
	if id.trie == nil {
		return out
	}
	alignments := id.alignments
	if !opts.EnforceAlignment {
		alignments = id.unaligned
	}
	RunScoringEngine(id.trie, buf, alignments, id.lengthFactors, ctx, opts, out)
	return out
}

// Finish optionally applies each language's coverage adjustment, then
// filters and sorts scores descending by cutoffRatio, truncating to
// topN (topN <= 0 means unlimited).
//
// applyCoverageFactor is the named, documented toggle §9's open
// question requires: when true, id.adjustments (computed in
// computeDerivedTables as alignment/matchFactor^0.25) is applied to
// each score before sorting; when false, scores are ranked unadjusted.
// matchFactor was chosen over the language record's other two
// candidate normalisers — coverageFactor and countedCoverage — because
// it is the one §4.6 stores specifically to offset differences in
// per-language model density, which is the distortion this adjustment
// exists to correct; the other two describe training-corpus coverage
// itself rather than a score-comparability correction, so applying
// them here would conflate two different statistics. See DESIGN.md.
func (id *Identifier) Finish(scores *ScoreVector, topN int, cutoffRatio float64, applyCoverageFactor bool) {
	if applyCoverageFactor {
		for i := 0; i < scores.Len(); i++ {
			lang, _ := scores.At(i)
			scores.ScaleAt(i, id.adjustments[lang])
		}
	}
	scores.SortTopN(cutoffRatio, topN)
}

// Similarity returns the cosine-similarity ScoreVector of every loaded
// language against pivot (§4.4).
func (id *Identifier) Similarity(ctx *Context, pivot LangID) *ScoreVector {
	return Similarity(id.trie, ctx, id.languages.Len(), pivot)
}
