package langident

import (
	"math"
	"testing"
)

// probeTable builds a tiny *ScoreTable keyed by small, even raw
// indices (the low bit of a stored raw_score is the stop-gram flag,
// per freq.go's packRaw/unpackRaw, so an odd index would not survive
// a builder round-trip unchanged), with values[raws[i]] ==
// ps[i]*100*TRIE_SCALE_FACTOR — so MappedScore(raws[i]) == ps[i]
// exactly (MappedScore divides back out by the same 100*TRIE_SCALE_FACTOR).
func probeTable(ps ...float64) (table *ScoreTable, raws []uint32) {
	v := make([]float64, 2*len(ps)+2)
	raws = make([]uint32, len(ps))
	for i, p := range ps {
		idx := 2 * (i + 1)
		v[idx] = p * 100 * TRIE_SCALE_FACTOR
		raws[i] = uint32(idx)
	}
	return &ScoreTable{values: v}, raws
}

// TestScoringEngineS1TrivialTrigram is scenario S1: en-trigram "the"
// at 0.8 beats fr-trigram "les" at 0.7 on input "the".
func TestScoringEngineS1TrivialTrigram(t *testing.T) {
	const en, fr = LangID(0), LangID(1)
	table, raws := probeTable(0.8, 0.7)
	b := NewTrieBuilder(4)
	b.AddNgram([]byte("the"), en, raws[0], false)
	b.AddNgram([]byte("les"), fr, raws[1], false)
	trie, err := b.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}

	ctx := &Context{Table: table, penalty: defaultStopGramPenalty}
	lengthFactors := LengthFactors(8, 1.0)
	alignments := []int{ALIGN_1, ALIGN_1}

	out := NewScoreVector(2)
	buf := []byte("the")
	RunScoringEngine(trie, buf, alignments, lengthFactors, ctx, IdentifyOptions{EnforceAlignment: true}, out)

	_, enScore := out.At(0)
	_, frScore := out.At(1)
	if enScore <= frScore {
		t.Fatalf("expected en (%v) > fr (%v)", enScore, frScore)
	}
	expected := 0.8 * 270.0 * math.Pow(3, 0.75) / 3
	if math.Abs(float64(enScore)-expected) > 1e-9 {
		t.Fatalf("expected en score ~%v, got %v", expected, enScore)
	}
}

// TestScoringEngineS2BigramTieBreak is scenario S2: with no trigrams
// loaded, the bigram-weighted contributions still separate en from fr.
func TestScoringEngineS2BigramTieBreak(t *testing.T) {
	const en, fr = LangID(0), LangID(1)
	table, raws := probeTable(0.5, 0.5)
	b := NewTrieBuilder(4)
	b.AddNgram([]byte("he"), en, raws[0], false)
	b.AddNgram([]byte("es"), fr, raws[1], false)
	trie, err := b.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}

	ctx := &Context{Table: table, penalty: defaultStopGramPenalty}
	lengthFactors := LengthFactors(8, 0.15)
	alignments := []int{ALIGN_1, ALIGN_1}

	out := NewScoreVector(2)
	RunScoringEngine(trie, []byte("he"), alignments, lengthFactors, ctx, IdentifyOptions{EnforceAlignment: true}, out)
	_, enScore := out.At(0)
	_, frScore := out.At(1)
	if enScore <= frScore+ZERO_SCORE {
		t.Fatalf("expected en (%v) to beat fr (%v) by at least %v", enScore, frScore, ZERO_SCORE)
	}
}

// TestScoringEngineS3Alignment is scenario S3: a 4-gram starting at an
// offset incompatible with language A's declared alignment must be
// skipped for A while still scoring for unaligned language B.
func TestScoringEngineS3Alignment(t *testing.T) {
	const langA, langB = LangID(0), LangID(1)
	ngram := []byte("\x00a\x00b")
	table, raws := probeTable(0.9, 0.9)
	b := NewTrieBuilder(4)
	b.AddNgram(ngram, langA, raws[0], false)
	b.AddNgram(ngram, langB, raws[1], false)
	trie, err := b.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}

	ctx := &Context{Table: table, penalty: defaultStopGramPenalty}
	lengthFactors := LengthFactors(8, 1.0)
	alignments := []int{ALIGN_2, ALIGN_1}

	out := NewScoreVector(2)
	buf := append([]byte("x"), ngram...) // shifts the match to start at offset 1
	RunScoringEngine(trie, buf, alignments, lengthFactors, ctx, IdentifyOptions{EnforceAlignment: true}, out)

	_, scoreA := out.At(0)
	_, scoreB := out.At(1)
	if scoreA != 0 {
		t.Fatalf("expected language A (alignment 2) to receive zero at a misaligned offset, got %v", scoreA)
	}
	if scoreB <= 0 {
		t.Fatalf("expected language B (alignment 1) to still score, got %v", scoreB)
	}
}

// TestScoringEngineS4StopGram is scenario S4: a stop-gram's
// contribution is only applied when ApplyStopGrams is set, and the
// default penalty keeps it non-positive.
func TestScoringEngineS4StopGram(t *testing.T) {
	const langC = LangID(0)
	table, raws := probeTable(0.3)
	b := NewTrieBuilder(4)
	b.AddNgram([]byte("xyz"), langC, raws[0], true)
	trie, err := b.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}

	ctx := &Context{Table: table, penalty: defaultStopGramPenalty}
	lengthFactors := LengthFactors(8, 1.0)
	alignments := []int{ALIGN_1}

	applied := NewScoreVector(1)
	RunScoringEngine(trie, []byte("xyz"), alignments, lengthFactors, ctx, IdentifyOptions{EnforceAlignment: true, ApplyStopGrams: true}, applied)
	_, s := applied.At(0)
	if s > 0 {
		t.Fatalf("expected a non-positive score with the stop-gram penalty applied, got %v", s)
	}

	notApplied := NewScoreVector(1)
	RunScoringEngine(trie, []byte("xyz"), alignments, lengthFactors, ctx, IdentifyOptions{EnforceAlignment: true, ApplyStopGrams: false}, notApplied)
	_, s2 := notApplied.At(0)
	if s2 != 0 {
		t.Fatalf("expected score 0 with stop-grams not applied, got %v", s2)
	}
}
