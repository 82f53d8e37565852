package langident

import "fmt"

// PackedTrie is a static, read-mostly index of byte-string n-grams.
// Nodes live in one contiguous pool addressed by NodeIndex; each node
// has 2^B child slots (a byte is consumed in 8/B nibble steps, high
// nibble first) and, if it is a leaf, an offset into a shared
// frequency-record pool.
//
// Once built (by TrieBuilder.Compact, or by Load from a model file)
// a PackedTrie is immutable and safe for concurrent read access from
// multiple goroutines, each scoring into its own ScoreVector.
type PackedTrie struct {
	bits     int // B: bits consumed per child-slot step
	slots    int // 1<<B
	steps    int // 8/B nibble steps per byte
	children []NodeIndex // flat pool, len == numNodes*slots
	leaf     []bool
	freqAt   []int32 // index into freqPool for node i, or -1
	freqPool []FrequencyRecord
}

func isWhitespaceByte(b byte) bool {
	switch b {
	case 0x20, 0x09, 0x0A, 0x0D:
		return true
	}
	return false
}

// NewPackedTrie wires up a trie from its already-compacted pools. Used
// by TrieBuilder.Compact and the model codec.
func NewPackedTrie(bits int, children []NodeIndex, leaf []bool, freqAt []int32, freqPool []FrequencyRecord) (*PackedTrie, error) {
	switch bits {
	case 2, 3, 4:
	default:
		return nil, fmt.Errorf("langident: packed trie bits must be 2, 3, or 4, got %d", bits)
	}
	slots := 1 << uint(bits)
	if len(children)%slots != 0 {
		return nil, fmt.Errorf("langident: child pool length %d not a multiple of %d slots", len(children), slots)
	}
	numNodes := len(children) / slots
	if len(leaf) != numNodes || len(freqAt) != numNodes {
		return nil, fmt.Errorf("langident: leaf/freqAt length mismatch with node count %d", numNodes)
	}
	return &PackedTrie{
		bits:     bits,
		slots:    slots,
		steps:    8 / bits,
		children: children,
		leaf:     leaf,
		freqAt:   freqAt,
		freqPool: freqPool,
	}, nil
}

// Root returns the root sentinel. NULL_INDEX == ROOT_INDEX == 0 is the
// inherited convention and must be preserved for model-file
// compatibility.
func (t *PackedTrie) Root() NodeIndex { return ROOT_INDEX }

func (t *PackedTrie) NumNodes() int { return len(t.leaf) }

// Extend descends 8/B child slots using successive B-bit nibbles of b
// (high nibble first), returning NULL_INDEX if any intermediate child
// is absent. When ignoreWhitespace is set, ASCII whitespace bytes are
// skipped (the node is returned unchanged) instead of being consumed.
func (t *PackedTrie) Extend(node NodeIndex, b byte, ignoreWhitespace bool) NodeIndex {
	if ignoreWhitespace && isWhitespaceByte(b) {
		return node
	}
	n := int(node)
	shift := uint(8 - t.bits)
	mask := NodeIndex(t.slots - 1)
	for s := 0; s < t.steps; s++ {
		nibble := NodeIndex(b>>shift) & mask
		shift -= uint(t.bits)
		child := t.children[n*t.slots+int(nibble)]
		if child == NULL_INDEX {
			return NULL_INDEX
		}
		n = int(child)
	}
	return NodeIndex(n)
}

func (t *PackedTrie) IsLeaf(node NodeIndex) bool {
	return t.leaf[node]
}

// Frequencies returns the leaf's frequency list, or nil if the node
// carries none (a degenerate but legal state per §3).
func (t *PackedTrie) Frequencies(node NodeIndex) []FrequencyRecord {
	at := t.freqAt[node]
	if at < 0 {
		return nil
	}
	i := int(at)
	for j := i; ; j++ {
		if t.freqPool[j].Last {
			return t.freqPool[i : j+1]
		}
	}
}
