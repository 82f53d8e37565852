package langident

import "strings"

// LanguageMeta is a per-language descriptor as read from (or written
// to) a model file's language-record section. Name may carry a
// friendly alias joined by "=" (e.g. "English=en"); Language and
// FriendlyName split it apart.
type LanguageMeta struct {
	Name            string
	Region          string
	Encoding        string
	Source          string
	Script          string
	Alignment       int     // 1, 2, or 4
	CoverageFactor  float64 // (0,1]
	CountedCoverage float64 // [0,32]
	FreqCoverage    float64 // [0,100]
	MatchFactor     float64 // [0,16]
	TrainingBytes   uint64
}

// Language returns the language name without its friendly alias.
func (m LanguageMeta) Language() string {
	if i := strings.IndexByte(m.Name, '='); i >= 0 {
		return m.Name[:i]
	}
	return m.Name
}

// FriendlyName returns the alias after "=", or "" if none was given.
func (m LanguageMeta) FriendlyName() string {
	if i := strings.IndexByte(m.Name, '='); i >= 0 {
		return m.Name[i+1:]
	}
	return ""
}

// LanguageTable holds every language's metadata, indexed densely by
// LangID starting at 0 — the same "small dense index, copy for
// independent mutation" convention Vocab uses for words.
type LanguageTable struct {
	langs []LanguageMeta
	byName map[string]LangID
}

// NewLanguageTable wraps an already-built slice of per-language
// metadata, one entry per LangID in order.
func NewLanguageTable(langs []LanguageMeta) *LanguageTable {
	t := &LanguageTable{langs: langs}
	t.reindex()
	return t
}

func (t *LanguageTable) reindex() {
	t.byName = make(map[string]LangID, len(t.langs))
	for i, l := range t.langs {
		if _, ok := t.byName[l.Language()]; !ok {
			t.byName[l.Language()] = LangID(i)
		}
	}
}

// Len returns the number of languages.
func (t *LanguageTable) Len() int { return len(t.langs) }

// At returns the metadata for id. Only safe for id < Len().
func (t *LanguageTable) At(id LangID) LanguageMeta { return t.langs[id] }

// IdOf looks up a language by its bare name (without friendly alias).
// Returns LANG_NIL if not present.
func (t *LanguageTable) IdOf(name string) LangID {
	if id, ok := t.byName[name]; ok {
		return id
	}
	return LANG_NIL
}

// Copy returns an independently-modifiable copy.
func (t *LanguageTable) Copy() *LanguageTable {
	langs := make([]LanguageMeta, len(t.langs))
	copy(langs, t.langs)
	return NewLanguageTable(langs)
}

// fixedStringLen is the on-disk width of each of the five per-language
// string fields (§4.6): language, region, encoding, source, script.
const fixedStringLen = 64

// encodeFixed64 NUL-pads (or truncates) s to fixedStringLen bytes.
func encodeFixed64(s string) [fixedStringLen]byte {
	var out [fixedStringLen]byte
	n := copy(out[:], s)
	_ = n
	return out
}

// decodeFixed64 trims trailing NULs from a fixed-width field.
func decodeFixed64(b [fixedStringLen]byte) string {
	i := 0
	for i < len(b) && b[i] != 0 {
		i++
	}
	return string(b[:i])
}
