package langident

// The scoring engine: the hot loop that slides a trie walker across
// every buffer offset, emitting per-language contributions into a
// caller-owned ScoreVector. Purely CPU-bound; no suspension points.
// Multiple goroutines may call RunScoringEngine concurrently on the
// same *PackedTrie provided each passes its own *ScoreVector (the
// trie and ctx are read-only here).

// RunScoringEngine accumulates contributions from buf into out. out
// must already be sized/cleared for the language count the alignments
// slice indexes into. normalizer is the length normaliser N (use
// len(buf) when zero).
func RunScoringEngine(trie *PackedTrie, buf []byte, alignments []int, lengthFactors []float64, ctx *Context, opts IdentifyOptions, out *ScoreVector) {
	l := len(buf)
	normalizer := opts.Normalizer
	if normalizer == 0 {
		normalizer = l
	}
	if normalizer == 0 {
		return
	}

	minHist := 2
	if len(lengthFactors) > 2 && lengthFactors[2] != 0 {
		minHist = 1
	}
	if l < minHist {
		return
	}

	for start := 0; start <= l-minHist; start++ {
		node := trie.Extend(trie.Root(), buf[start], opts.IgnoreWhitespace)
		if node == NULL_INDEX {
			continue
		}
		if minHist == 2 {
			node = trie.Extend(node, buf[start+1], opts.IgnoreWhitespace)
			if node == NULL_INDEX {
				continue
			}
		}
		maxAlign := MaxAlignmentAt(start)
		for j := start + minHist; j < l; j++ {
			node = trie.Extend(node, buf[j], opts.IgnoreWhitespace)
			if node == NULL_INDEX {
				break
			}
			if !trie.IsLeaf(node) {
				continue
			}
			length := j - start + 1
			var factor float64
			if nf := len(lengthFactors); nf > 0 {
				if length >= nf {
					length = nf - 1
				}
				factor = lengthFactors[length] / float64(normalizer)
			}
			records := trie.Frequencies(node)
			for _, f := range records {
				if alignmentOf(alignments, f.Lang) > maxAlign {
					continue
				}
				s := MappedScore(ctx, f)
				if !opts.ApplyStopGrams && s <= 0 {
					// Stop-grams sort last within a leaf's list; once
					// we hit a non-positive, non-applied score every
					// remaining record in this leaf is also a
					// stop-gram, so it is safe to stop scanning.
					break
				}
				out.AddAt(f.Lang, Score(s*factor))
			}
		}
	}
}

func alignmentOf(alignments []int, lang LangID) int {
	if int(lang) >= len(alignments) {
		return 1<<31 - 1 // past the last real id: sentinel so the check fails
	}
	return alignments[lang]
}
