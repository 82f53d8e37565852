package langident

// Frequency records: a leaf's per-language (language, scaled-score)
// list, packed into the model's flat frequency-record pool.
//
// On disk a record is a 32-bit raw_score (low bit doubling as the
// stop-gram flag) paired with a 16-bit LangID; in the in-memory pool it
// is decoded into a FrequencyRecord with the flag split out. Within a
// list non-stop records precede stop records and each sub-group is
// sorted by ascending LangID.

// FrequencyRecord is one (language, scaled-score) entry of a leaf's
// frequency list.
type FrequencyRecord struct {
	Lang   LangID
	Raw    uint32 // raw_score with the stop-flag already cleared
	IsStop bool
	Last   bool // true for the final record of the list
}

func packRaw(raw uint32, isStop bool) uint32 {
	raw &^= 1
	if isStop {
		raw |= 1
	}
	return raw
}

func unpackRaw(stored uint32) (raw uint32, isStop bool) {
	return stored &^ 1, stored&1 != 0
}

// MappedScore converts a frequency record to its effective,
// normalised Score using ctx's score table and stop-gram penalty. The
// table's values track the same fixed-point scale a raw_score is
// packed at (100*TRIE_SCALE_FACTOR, per §4.2 step 4), which this
// divides back out.
func MappedScore(ctx *Context, f FrequencyRecord) Score {
	base := ctx.Table.Lookup(f.Raw)
	if f.IsStop {
		base *= float64(ctx.StopGramPenalty())
	}
	return Score(base / (100 * TRIE_SCALE_FACTOR))
}

// byFrequencyOrder sorts staged entries the way the packed format
// requires: all non-stop records first (ascending LangID), then all
// stop records (ascending LangID).
type byFrequencyOrder []freqEntry

func (s byFrequencyOrder) Len() int { return len(s) }
func (s byFrequencyOrder) Less(i, j int) bool {
	if s[i].isStop != s[j].isStop {
		return !s[i].isStop // non-stop first
	}
	return s[i].lang < s[j].lang
}
func (s byFrequencyOrder) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
