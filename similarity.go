package langident

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Similarity computes cosine similarity of every language's trained
// score profile against the pivot language (§4.4). It walks every
// trie leaf once: for each non-stop-gram record of language L2 in
// that leaf, weight[L2] accumulates p2^2; if the same leaf also
// carries a non-stop-gram record for the pivot with probability p1,
// score[L2] accumulates p1*p2. The final pass divides by the L2 norms
// (weight, sqrt'd) of both profiles.
func Similarity(trie *PackedTrie, ctx *Context, numLanguages int, pivot LangID) *ScoreVector {
	weight := make([]float64, numLanguages)
	accum := make([]float64, numLanguages)

	for node := 0; node < trie.NumNodes(); node++ {
		n := NodeIndex(node)
		if !trie.IsLeaf(n) {
			continue
		}
		records := trie.Frequencies(n)
		var p1 float64
		havePivot := false
		for _, f := range records {
			if f.IsStop {
				continue
			}
			if f.Lang == pivot {
				p1 = MappedScore(ctx, f)
				havePivot = true
				break
			}
		}
		for _, f := range records {
			if f.IsStop || int(f.Lang) >= numLanguages {
				continue
			}
			p2 := MappedScore(ctx, f)
			weight[f.Lang] += p2 * p2
			if havePivot {
				accum[f.Lang] += p1 * p2
			}
		}
	}

	for i := range weight {
		weight[i] = math.Sqrt(weight[i])
	}

	denom := make([]float64, numLanguages)
	copy(denom, weight)
	floats.Scale(weight[pivot], denom)

	result := make([]float64, numLanguages)
	for i := range result {
		if denom[i] != 0 {
			result[i] = accum[i] / denom[i]
		}
	}
	out := NewScoreVector(numLanguages)
	for i, s := range result {
		out.scores[i] = Score(s)
	}
	out.SetActive(pivot)
	return out
}
