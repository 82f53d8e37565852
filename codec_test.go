package langident

import (
	"bytes"
	"testing"
)

func buildSmallModel(t *testing.T) (*LanguageTable, *PackedTrie, *ScoreTable) {
	t.Helper()
	langs := NewLanguageTable([]LanguageMeta{
		{Name: "English=en", Region: "US", Encoding: "UTF-8", Source: "wikipedia", Script: "Latin",
			Alignment: ALIGN_1, CoverageFactor: 0.9, CountedCoverage: 12, FreqCoverage: 80, MatchFactor: 2, TrainingBytes: 1 << 20},
		{Name: "French", Region: "FR", Encoding: "UTF-8", Source: "wikipedia", Script: "Latin",
			Alignment: ALIGN_1, CoverageFactor: 0.8, CountedCoverage: 10, FreqCoverage: 70, MatchFactor: 1.5, TrainingBytes: 1 << 18},
	})

	b := NewTrieBuilder(4)
	b.AddNgram([]byte("the"), 0, 12344, false)
	b.AddNgram([]byte("les"), 1, 6789, true)
	trie, err := b.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}

	table := DefaultScoreTable(1 << 10)
	return langs, trie, table
}

func TestModelFileRoundTrip(t *testing.T) {
	langs, trie, table := buildSmallModel(t)

	var buf bytes.Buffer
	if err := WriteModelFile(&buf, langs, trie, table, true); err != nil {
		t.Fatalf("WriteModelFile: %v", err)
	}

	md, err := decodeModel(buf.Bytes())
	if err != nil {
		t.Fatalf("decodeModel: %v", err)
	}

	if md.Languages.Len() != langs.Len() {
		t.Fatalf("expected %d languages, got %d", langs.Len(), md.Languages.Len())
	}
	for i := 0; i < langs.Len(); i++ {
		want, got := langs.At(LangID(i)), md.Languages.At(LangID(i))
		if want.Name != got.Name || want.Region != got.Region || want.Encoding != got.Encoding {
			t.Fatalf("language %d mismatch: want %+v, got %+v", i, want, got)
		}
		if want.Alignment != got.Alignment {
			t.Fatalf("language %d alignment mismatch: want %d, got %d", i, want.Alignment, got.Alignment)
		}
	}

	if !md.HaveBigrams {
		t.Fatal("expected HaveBigrams to round-trip true")
	}

	node := md.Trie.Root()
	for _, c := range []byte("the") {
		node = md.Trie.Extend(node, c, false)
		if node == NULL_INDEX {
			t.Fatalf("decoded trie lost the \"the\" path at byte %q", c)
		}
	}
	if !md.Trie.IsLeaf(node) {
		t.Fatal("expected decoded trie to have a leaf at \"the\"")
	}
	freqs := md.Trie.Frequencies(node)
	if len(freqs) != 1 || freqs[0].Raw != 12344 || freqs[0].IsStop {
		t.Fatalf("unexpected decoded frequency record: %+v", freqs)
	}
}

func TestDecodeModelRejectsBadSignature(t *testing.T) {
	_, err := decodeModel([]byte("not a model file at all"))
	if err != ErrBadSignature {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
}

func TestDecodeModelRejectsTruncation(t *testing.T) {
	langs, trie, table := buildSmallModel(t)
	var buf bytes.Buffer
	if err := WriteModelFile(&buf, langs, trie, table, false); err != nil {
		t.Fatalf("WriteModelFile: %v", err)
	}
	truncated := buf.Bytes()[:buf.Len()-10]
	if _, err := decodeModel(truncated); err == nil {
		t.Fatal("expected an error decoding a truncated model file")
	}
}

func TestCoverageEncodeDecodeRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.25, 0.5, 1.0} {
		enc := encodeCoverage(v, 1)
		dec := decodeCoverage(enc, 1)
		if diff := dec - v; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("coverage %v round-tripped to %v", v, dec)
		}
	}
}
