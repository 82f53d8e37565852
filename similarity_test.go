package langident

import (
	"math"
	"testing"
)

func TestSimilarityIdenticalProfilesScoreOne(t *testing.T) {
	const langA, langB = LangID(0), LangID(1)
	table, raws := probeTable(0.5, 0.25)
	b := NewTrieBuilder(4)
	b.AddNgram([]byte("aaa"), langA, raws[0], false)
	b.AddNgram([]byte("aaa"), langB, raws[0], false)
	b.AddNgram([]byte("bbb"), langA, raws[1], false)
	b.AddNgram([]byte("bbb"), langB, raws[1], false)
	trie, err := b.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}

	ctx := &Context{Table: table, penalty: defaultStopGramPenalty}
	sim := Similarity(trie, ctx, 2, langA)

	_, selfScore := sim.At(int(langA))
	if math.Abs(float64(selfScore)-1.0) > 1e-9 {
		t.Fatalf("expected self-similarity 1.0, got %v", selfScore)
	}
	_, otherScore := sim.At(int(langB))
	if math.Abs(float64(otherScore)-1.0) > 1e-9 {
		t.Fatalf("expected identical profiles to have similarity 1.0, got %v", otherScore)
	}
}

func TestSimilarityOrthogonalProfilesScoreZero(t *testing.T) {
	const langA, langB = LangID(0), LangID(1)
	table, raws := probeTable(0.5, 0.5)
	b := NewTrieBuilder(4)
	b.AddNgram([]byte("aaa"), langA, raws[0], false)
	b.AddNgram([]byte("bbb"), langB, raws[1], false)
	trie, err := b.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}

	ctx := &Context{Table: table, penalty: defaultStopGramPenalty}
	sim := Similarity(trie, ctx, 2, langA)

	_, otherScore := sim.At(int(langB))
	if otherScore != 0 {
		t.Fatalf("expected similarity 0 for disjoint n-gram sets, got %v", otherScore)
	}
}
