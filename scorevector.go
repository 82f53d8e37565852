package langident

import (
	"math"
	"sort"
)

// ScoreVector is an ordered sequence of (language-id, score) pairs.
// It is built dense (one slot per language, in id order) so the
// scoring engine can accumulate directly by index; post-processing
// (Filter/Sort/dedupe) then reshapes it into a shorter, meaningful
// sequence. Every operation preserves 0 <= Len() <= numLanguages.
type ScoreVector struct {
	ids    []LangID
	scores []Score
	sorted bool
	active LangID
}

// NewScoreVector returns a dense vector with one zero-score slot per
// language id in [0, numLanguages).
func NewScoreVector(numLanguages int) *ScoreVector {
	sv := &ScoreVector{
		ids:    make([]LangID, numLanguages),
		scores: make([]Score, numLanguages),
		active: LANG_NIL,
	}
	for i := range sv.ids {
		sv.ids[i] = LangID(i)
	}
	return sv
}

// Clear resets the vector back to its initial dense, all-zero,
// unsorted state without reallocating.
func (sv *ScoreVector) Clear() {
	n := cap(sv.ids)
	if len(sv.ids) != n {
		sv.ids = sv.ids[:n]
		sv.scores = sv.scores[:n]
	}
	for i := range sv.ids {
		sv.ids[i] = LangID(i)
		sv.scores[i] = 0
	}
	sv.sorted = false
}

func (sv *ScoreVector) Len() int { return len(sv.ids) }

// At returns the (language-id, score) pair at position i.
func (sv *ScoreVector) At(i int) (LangID, Score) { return sv.ids[i], sv.scores[i] }

func (sv *ScoreVector) Sorted() bool { return sv.sorted }

func (sv *ScoreVector) Active() LangID     { return sv.active }
func (sv *ScoreVector) SetActive(l LangID) { sv.active = l }

// AddAt accumulates delta into the slot for lang. Only valid while
// the vector is still dense (before the first Filter/Sort call),
// which is the invariant the scoring engine relies on.
func (sv *ScoreVector) AddAt(lang LangID, delta Score) {
	sv.scores[lang] += delta
}

// ScaleAt multiplies a single slot, used by Identifier.Finish to
// apply per-language coverage adjustments before sorting.
func (sv *ScoreVector) ScaleAt(i int, factor float64) {
	sv.scores[i] = Score(float64(sv.scores[i]) * factor)
}

// Scale multiplies every score by s.
func (sv *ScoreVector) Scale(s float64) {
	for i := range sv.scores {
		sv.scores[i] = Score(float64(sv.scores[i]) * s)
	}
}

// Sqrt replaces each score by sqrt(max(0, score)).
func (sv *ScoreVector) Sqrt() {
	for i, s := range sv.scores {
		if s < 0 {
			s = 0
		}
		sv.scores[i] = Score(math.Sqrt(float64(s)))
	}
}

func minLen(a, b *ScoreVector) int {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}
	return n
}

// Add adds other*w into sv, positionally, up to min(len, other.len).
// Mismatched lengths truncate rather than failing.
func (sv *ScoreVector) Add(other *ScoreVector, w Score) {
	n := minLen(sv, other)
	for i := 0; i < n; i++ {
		sv.scores[i] += other.scores[i] * w
	}
}

// Sub subtracts other*w into sv, positionally.
func (sv *ScoreVector) Sub(other *ScoreVector, w Score) {
	n := minLen(sv, other)
	for i := 0; i < n; i++ {
		sv.scores[i] -= other.scores[i] * w
	}
}

// AddThresholded adds other*w into sv for positions where other's
// score is >= t.
func (sv *ScoreVector) AddThresholded(other *ScoreVector, t, w Score) {
	n := minLen(sv, other)
	for i := 0; i < n; i++ {
		if other.scores[i] >= t {
			sv.scores[i] += other.scores[i] * w
		}
	}
}

// LambdaCombineWithPrior folds sv's current scores into prior (scaled
// by sigma) and then interpolates sv towards the updated prior by
// lambda, in place: for i with cur >= ZERO_SCORE, prior[i] +=
// cur*sigma; then cur = lambda*cur + (1-lambda)*prior[i].
func (sv *ScoreVector) LambdaCombineWithPrior(prior *ScoreVector, lambda, sigma Score) {
	n := minLen(sv, prior)
	for i := 0; i < n; i++ {
		cur := sv.scores[i]
		if cur >= ZERO_SCORE {
			prior.scores[i] += cur * sigma
		}
		sv.scores[i] = lambda*cur + (1-lambda)*prior.scores[i]
	}
}

// Filter drops entries whose score is below max(ZERO_SCORE, r *
// highest). If that would drop everything, the single highest-scoring
// entry is kept instead.
func (sv *ScoreVector) Filter(r float64) {
	if sv.Len() == 0 {
		return
	}
	highest := sv.scores[0]
	highestIdx := 0
	for i, s := range sv.scores {
		if s > highest {
			highest = s
			highestIdx = i
		}
	}
	threshold := Score(r) * highest
	if threshold < ZERO_SCORE {
		threshold = ZERO_SCORE
	}
	var ids []LangID
	var scores []Score
	for i, s := range sv.scores {
		if s >= threshold {
			ids = append(ids, sv.ids[i])
			scores = append(scores, s)
		}
	}
	if len(ids) == 0 {
		ids = []LangID{sv.ids[highestIdx]}
		scores = []Score{sv.scores[highestIdx]}
	}
	sv.ids, sv.scores = ids, scores
	sv.sorted = false
}

func (sv *ScoreVector) sortDescending() {
	idx := make([]int, sv.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return sv.scores[idx[i]] > sv.scores[idx[j]] })
	ids := make([]LangID, sv.Len())
	scores := make([]Score, sv.Len())
	for i, j := range idx {
		ids[i] = sv.ids[j]
		scores[i] = sv.scores[j]
	}
	sv.ids, sv.scores = ids, scores
	sv.sorted = true
}

// Sort filters with cutoff ratio r, then sorts descending by score.
func (sv *ScoreVector) Sort(r float64) {
	sv.Filter(r)
	sv.sortDescending()
}

// SortTopN filters with cutoff ratio r, sorts descending, then
// truncates to the top k entries.
func (sv *ScoreVector) SortTopN(r float64, k int) {
	sv.Sort(r)
	if k > 0 && sv.Len() > k {
		sv.ids = sv.ids[:k]
		sv.scores = sv.scores[:k]
	}
}

// SortByName stable-sorts by language name (ascending, friendly alias
// ignored), using meta to resolve each slot's LangID to a name.
func (sv *ScoreVector) SortByName(meta *LanguageTable) {
	idx := make([]int, sv.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return meta.At(sv.ids[idx[i]]).Language() < meta.At(sv.ids[idx[j]]).Language()
	})
	ids := make([]LangID, sv.Len())
	scores := make([]Score, sv.Len())
	for i, j := range idx {
		ids[i] = sv.ids[j]
		scores[i] = sv.scores[j]
	}
	sv.ids, sv.scores = ids, scores
	sv.sorted = false
}

// MergeDuplicateNamesAndSort sorts by name (as SortByName) then folds
// adjacent entries sharing a language name, summing their scores.
func (sv *ScoreVector) MergeDuplicateNamesAndSort(meta *LanguageTable) {
	sv.SortByName(meta)
	var ids []LangID
	var scores []Score
	for i := 0; i < sv.Len(); i++ {
		name := meta.At(sv.ids[i]).Language()
		if len(ids) > 0 && meta.At(ids[len(ids)-1]).Language() == name {
			scores[len(scores)-1] += sv.scores[i]
			continue
		}
		ids = append(ids, sv.ids[i])
		scores = append(scores, sv.scores[i])
	}
	sv.ids, sv.scores = ids, scores
}

// FilterDuplicates retains only the first occurrence of each distinct
// (language[, region], encoding) triple, preserving relative order.
func (sv *ScoreVector) FilterDuplicates(meta *LanguageTable, ignoreRegion bool) {
	type key struct {
		lang, region, encoding string
	}
	seen := make(map[key]bool, sv.Len())
	var ids []LangID
	var scores []Score
	for i := 0; i < sv.Len(); i++ {
		m := meta.At(sv.ids[i])
		k := key{m.Language(), m.Region, m.Encoding}
		if ignoreRegion {
			k.region = ""
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		ids = append(ids, sv.ids[i])
		scores = append(scores, sv.scores[i])
	}
	sv.ids, sv.scores = ids, scores
}
