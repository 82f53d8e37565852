package langident

// Open-addressing map from LangID to a staged frequency accumulator,
// used by TrieBuilder while a leaf is still being assembled. One of
// these lives per in-progress leaf; it is compacted away into a
// sorted FrequencyList by TrieBuilder.Compact.
//
// The probing scheme (linear probing over a power-of-two bucket
// array, grow-by-doubling on overflow) is the same one the n-gram
// model's transition table uses for (word -> state,weight), just
// re-keyed on LangID instead of word.Id.

type freqEntry struct {
	lang   LangID
	raw    uint32
	isStop bool
}

type freqMap struct {
	buckets               []freqEntry
	numEntries, threshold int
}

func newFreqMap() *freqMap {
	const initBuckets = 4
	return &freqMap{
		buckets:    freqInitBuckets(initBuckets),
		threshold:  3,
		numEntries: 0,
	}
}

func freqInitBuckets(n int) []freqEntry {
	b := make([]freqEntry, n)
	for i := range b {
		b[i].lang = LANG_NIL
	}
	return b
}

func freqHash(l LangID) uint {
	h := uint64(l)
	h ^= h >> 23
	h *= 0x2127599bf4325c37
	h ^= h >> 47
	return uint(h)
}

func (m *freqMap) start(l LangID) int {
	return int(freqHash(l) % uint(len(m.buckets)))
}

// set records (or overwrites) the entry for lang.
func (m *freqMap) set(lang LangID, raw uint32, isStop bool) {
	e := m.findEntry(lang)
	if e.lang == LANG_NIL {
		if m.numEntries >= m.threshold {
			m.resize(len(m.buckets) * 2)
			e = m.findEntry(lang)
		}
		e.lang = lang
		m.numEntries++
	}
	e.raw = raw
	e.isStop = isStop
}

func (m *freqMap) findEntry(lang LangID) *freqEntry {
	i := m.start(lang)
	for {
		e := &m.buckets[i]
		if e.lang == lang || e.lang == LANG_NIL {
			return e
		}
		i++
		if i == len(m.buckets) {
			i = 0
		}
	}
}

func (m *freqMap) resize(n int) {
	if n < m.numEntries+1 {
		n = m.numEntries + 1
	}
	old := m.buckets
	m.buckets = freqInitBuckets(n)
	oldThreshold, oldLen := m.threshold, len(old)
	for _, e := range old {
		if e.lang != LANG_NIL {
			dst := m.findEntry(e.lang)
			*dst = e
		}
	}
	m.threshold = oldThreshold * n / oldLen
	if m.threshold < m.numEntries {
		m.threshold = m.numEntries
	}
}

// entries returns the staged entries, unordered.
func (m *freqMap) entries() []freqEntry {
	out := make([]freqEntry, 0, m.numEntries)
	for _, e := range m.buckets {
		if e.lang != LANG_NIL {
			out = append(out, e)
		}
	}
	return out
}
