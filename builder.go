package langident

import "sort"

// TrieBuilder stages a mutable trie while n-grams are being inserted,
// then performs the one-shot compaction into an immutable PackedTrie
// (§3: "training-time builds an unpacked mutable trie, then one-shot
// compacts it to the packed form before writing"). Counting/pruning
// n-grams from raw corpora is the out-of-scope training pipeline;
// this builder only owns the trie shape once n-gram/score/language
// triples are already decided.
type TrieBuilder struct {
	bits  int
	slots int
	steps int
	// nodes[i].children holds 1<<bits slot values (0 == absent, or a
	// staging index into nodes). leaf/freq populate once the node
	// becomes a registered n-gram's terminal node.
	nodes []builderNode
}

type builderNode struct {
	children []int32
	leaf     bool
	freq     *freqMap
}

// NewTrieBuilder starts a builder with B bits per child-slot step (B
// in {2,3,4}); the root occupies node 0.
func NewTrieBuilder(bits int) *TrieBuilder {
	slots := 1 << uint(bits)
	b := &TrieBuilder{bits: bits, slots: slots, steps: 8 / bits}
	b.nodes = append(b.nodes, builderNode{children: make([]int32, slots)})
	return b
}

// AddNgram registers that the given byte string is an n-gram for
// lang, with the given scaled raw score and stop-gram flag. Calling
// AddNgram again for the same (ngram, lang) pair overwrites the
// previous score for that language.
func (b *TrieBuilder) AddNgram(ngram []byte, lang LangID, raw uint32, isStop bool) {
	node := int32(0)
	for _, bt := range ngram {
		node = b.descend(node, bt)
	}
	n := &b.nodes[node]
	n.leaf = true
	if n.freq == nil {
		n.freq = newFreqMap()
	}
	n.freq.set(lang, raw, isStop)
}

// descend walks (creating as needed) the 8/bits nibble steps for one
// input byte, mirroring PackedTrie.Extend's consumption order.
func (b *TrieBuilder) descend(node int32, bt byte) int32 {
	shift := uint(8 - b.bits)
	mask := int32(b.slots - 1)
	for s := 0; s < b.steps; s++ {
		nibble := (int32(bt) >> shift) & mask
		shift -= uint(b.bits)
		child := b.nodes[node].children[nibble]
		if child == 0 {
			b.nodes = append(b.nodes, builderNode{children: make([]int32, b.slots)})
			child = int32(len(b.nodes) - 1)
			b.nodes[node].children[nibble] = child
		}
		node = child
	}
	return node
}

// Compact flattens the staged trie into an immutable PackedTrie. It
// invalidates the builder's internal state; subsequent AddNgram calls
// have undefined behaviour.
func (b *TrieBuilder) Compact() (*PackedTrie, error) {
	numNodes := len(b.nodes)
	children := make([]NodeIndex, numNodes*b.slots)
	leaf := make([]bool, numNodes)
	freqAt := make([]int32, numNodes)
	var freqPool []FrequencyRecord

	for i, n := range b.nodes {
		for s, c := range n.children {
			children[i*b.slots+s] = NodeIndex(c)
		}
		leaf[i] = n.leaf
		if n.freq == nil {
			freqAt[i] = -1
			continue
		}
		entries := n.freq.entries()
		sort.Sort(byFrequencyOrder(entries))
		freqAt[i] = int32(len(freqPool))
		for j, e := range entries {
			raw, isStop := unpackRaw(packRaw(e.raw, e.isStop))
			freqPool = append(freqPool, FrequencyRecord{
				Lang:   e.lang,
				Raw:    raw,
				IsStop: isStop,
				Last:   j == len(entries)-1,
			})
		}
	}
	b.nodes = nil
	return NewPackedTrie(b.bits, children, leaf, freqAt, freqPool)
}
