package langident

import "testing"

func TestFreqMapSetAndOverwrite(t *testing.T) {
	m := newFreqMap()
	m.set(3, 10, false)
	m.set(3, 20, false) // overwrite
	m.set(7, 30, true)

	entries := m.entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 distinct entries, got %d", len(entries))
	}
	var gotRaw uint32
	for _, e := range entries {
		if e.lang == 3 {
			gotRaw = e.raw
		}
	}
	if gotRaw != 20 {
		t.Fatalf("expected overwritten raw 20, got %d", gotRaw)
	}
}

func TestFreqMapGrowsAcrossManyEntries(t *testing.T) {
	m := newFreqMap()
	const n = 200
	for i := 0; i < n; i++ {
		m.set(LangID(i), uint32(i*2), false)
	}
	if m.numEntries != n {
		t.Fatalf("expected %d entries, got %d", n, m.numEntries)
	}
	entries := m.entries()
	seen := make(map[LangID]bool, n)
	for _, e := range entries {
		if seen[e.lang] {
			t.Fatalf("duplicate entry for lang %d after growth", e.lang)
		}
		seen[e.lang] = true
		if e.raw != uint32(e.lang)*2 {
			t.Fatalf("lang %d: expected raw %d, got %d", e.lang, uint32(e.lang)*2, e.raw)
		}
	}
}

func TestAddNgramOverwritesSameLanguage(t *testing.T) {
	b := NewTrieBuilder(4)
	b.AddNgram([]byte("ab"), 1, 10, false)
	b.AddNgram([]byte("ab"), 1, 20, false)
	trie, err := b.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	node := trie.Root()
	node = trie.Extend(node, 'a', false)
	node = trie.Extend(node, 'b', false)
	freqs := trie.Frequencies(node)
	if len(freqs) != 1 || freqs[0].Raw != 20 {
		t.Fatalf("expected a single overwritten record with raw 20, got %+v", freqs)
	}
}

func TestCompactOrdersNonStopBeforeStop(t *testing.T) {
	b := NewTrieBuilder(4)
	b.AddNgram([]byte("ab"), 5, 10, true)  // stop
	b.AddNgram([]byte("ab"), 1, 20, false) // non-stop
	b.AddNgram([]byte("ab"), 3, 30, false) // non-stop
	trie, err := b.Compact()
	if err != nil {
		t.Fatalf("Compact: %v", err)
	}
	node := trie.Root()
	node = trie.Extend(node, 'a', false)
	node = trie.Extend(node, 'b', false)
	freqs := trie.Frequencies(node)
	if len(freqs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(freqs))
	}
	if freqs[0].IsStop || freqs[1].IsStop {
		t.Fatalf("expected the two non-stop records first, got %+v", freqs)
	}
	if !freqs[2].IsStop {
		t.Fatalf("expected the stop record last, got %+v", freqs)
	}
	if freqs[0].Lang != 1 || freqs[1].Lang != 3 {
		t.Fatalf("expected non-stop records sorted by ascending lang, got %+v", freqs[:2])
	}
}
