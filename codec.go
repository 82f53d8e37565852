package langident

// Model file codec: a signature-checked binary format with fixed-size
// string fields and explicit little-endian integers (§4.6). The file
// is opened with a real mmap (the teacher's OpenMappedFile/MappedFile
// pattern) so that Load avoids a full read() of what can be a
// multi-hundred-MB trie; the mmap'd bytes are then decoded into plain
// Go slices, since PackedTrie's fields are ordinary growable slices
// rather than the teacher's flat-unsafe-cast arrays.
//
// Record packing (§4.2 describes a "32-bit word containing both
// raw_score... and a 16-bit language_id" without pinning down the
// exact bit layout of the terminator flag within that word): this
// codec stores each frequency record as two 32-bit little-endian
// words — rawWithStop (raw_score, low bit = stop flag, matching
// freq.go's in-memory packing exactly) and a second word holding the
// 16-bit language id plus a "last" bit in its top bit. This is an
// explicit, documented resolution of that ambiguity (see DESIGN.md),
// not a guess smuggled into the format.

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"syscall"
)

const modelSignature = "Language Identification Database\r\n\x1A\x04\x00"

const (
	ModelVersion    byte = 3
	MinModelVersion byte = 1
)

var (
	ErrBadSignature       = errors.New("langident: bad model file signature")
	ErrUnsupportedVersion = errors.New("langident: unsupported model file version")
	ErrTruncated          = errors.New("langident: truncated model file")
	ErrCorrupt            = errors.New("langident: corrupt model file")
)

// headerReservedTotal is the have_bigrams byte plus reserved padding
// separating numLanguages from the back-patched score-table offset
// (§4.6 step 3). decodeModel/WriteModelFile locate that offset by
// tracking a running position rather than a hardcoded literal, so a
// change here can't silently desync reader and writer.
const headerReservedTotal = 63

// MappedModelFile is an open, memory-mapped model file. Close must be
// called exactly once to release both the mapping and the descriptor.
type MappedModelFile struct {
	file *os.File
	data []byte
}

func openMappedModelFile(path string) (*MappedModelFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() == 0 {
		f.Close()
		return nil, fmt.Errorf("langident: empty model file %s: %w", path, ErrTruncated)
	}
	data, err := syscall.Mmap(int(f.Fd()), 0, int(st.Size()), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &MappedModelFile{file: f, data: data}, nil
}

func (m *MappedModelFile) Close() error {
	err1 := syscall.Munmap(m.data)
	err2 := m.file.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// modelData is the fully decoded content of a model file.
type modelData struct {
	Languages   *LanguageTable
	Trie        *PackedTrie
	Table       *ScoreTable
	HaveBigrams bool
}

// LoadModelFile reads and decodes a model file by path, via mmap.
// The returned MappedModelFile must be closed once the caller no
// longer needs to retain a live reference into the file (practically:
// never, for an Identifier's lifetime — but callers that only wanted
// the decoded data may close it immediately since decoding already
// copied everything out of the mapping).
func LoadModelFile(path string) (*modelData, *MappedModelFile, error) {
	mm, err := openMappedModelFile(path)
	if err != nil {
		return nil, nil, err
	}
	md, err := decodeModel(mm.data)
	if err != nil {
		mm.Close()
		return nil, nil, err
	}
	return md, mm, nil
}

func decodeModel(raw []byte) (*modelData, error) {
	n := len(modelSignature)
	if len(raw) < n {
		n = len(raw)
	}
	if string(raw[:n]) != modelSignature[:n] {
		return nil, ErrBadSignature
	}
	if len(raw) < len(modelSignature)+1 {
		return nil, ErrTruncated
	}
	off := len(modelSignature)
	version := raw[off]
	off++
	if version < MinModelVersion {
		return nil, ErrUnsupportedVersion
	}

	if off+4 > len(raw) {
		return nil, ErrTruncated
	}
	numLangs := int(binary.LittleEndian.Uint32(raw[off:]))
	off += 4

	if off >= len(raw) {
		return nil, ErrTruncated
	}
	haveBigrams := raw[off] != 0
	off += headerReservedTotal // have_bigrams byte + reserved padding

	if off+8 > len(raw) {
		return nil, ErrTruncated
	}
	scoreTableOffset := binary.LittleEndian.Uint64(raw[off:])
	off += 8

	langs := make([]LanguageMeta, numLangs)
	for i := 0; i < numLangs; i++ {
		lm, next, err := decodeLanguageRecord(raw, off)
		if err != nil {
			return nil, err
		}
		langs[i] = lm
		off = next
	}

	trie, next, err := decodeTrieBlock(raw, off)
	if err != nil {
		return nil, err
	}
	off = next

	if off+4 > len(raw) {
		return nil, ErrTruncated
	}
	sentinel := binary.LittleEndian.Uint32(raw[off:])
	if sentinel != 0xFFFFFFFF {
		return nil, fmt.Errorf("langident: missing trie-end sentinel: %w", ErrCorrupt)
	}
	off += 4

	var table *ScoreTable
	if scoreTableOffset != 0 {
		if int(scoreTableOffset) > len(raw) {
			return nil, ErrTruncated
		}
		t, err := decodeScoreTable(raw[scoreTableOffset:])
		if err != nil {
			return nil, err
		}
		table = t
	} else {
		table = DefaultScoreTable(1 << 16)
	}

	return &modelData{
		Languages:   NewLanguageTable(langs),
		Trie:        trie,
		Table:       table,
		HaveBigrams: haveBigrams,
	}, nil
}

const languageRecordFixedLen = 5*fixedStringLen + 8 + 1 + 3 + 4*4

func decodeLanguageRecord(raw []byte, off int) (LanguageMeta, int, error) {
	if off+languageRecordFixedLen > len(raw) {
		return LanguageMeta{}, 0, ErrTruncated
	}
	var lm LanguageMeta
	readField := func() string {
		var b [fixedStringLen]byte
		copy(b[:], raw[off:off+fixedStringLen])
		off += fixedStringLen
		return decodeFixed64(b)
	}
	lm.Name = readField()
	lm.Region = readField()
	lm.Encoding = readField()
	lm.Source = readField()
	lm.Script = readField()

	lm.TrainingBytes = binary.LittleEndian.Uint64(raw[off:])
	off += 8
	lm.Alignment = int(raw[off])
	off++
	off += 3 // reserved

	lm.CoverageFactor = decodeCoverage(binary.LittleEndian.Uint32(raw[off:]), 1)
	off += 4
	lm.CountedCoverage = decodeCoverage(binary.LittleEndian.Uint32(raw[off:]), 32)
	off += 4
	lm.FreqCoverage = decodeCoverage(binary.LittleEndian.Uint32(raw[off:]), 100)
	off += 4
	lm.MatchFactor = decodeCoverage(binary.LittleEndian.Uint32(raw[off:]), 16)
	off += 4

	return lm, off, nil
}

func decodeCoverage(v uint32, max float64) float64 {
	return float64(v) / float64(math.MaxUint32) * max
}

func encodeCoverage(v, max float64) uint32 {
	if max == 0 {
		return 0
	}
	return uint32(math.Round(v / max * float64(math.MaxUint32)))
}

func decodeTrieBlock(raw []byte, off int) (*PackedTrie, int, error) {
	if off+1+4 > len(raw) {
		return nil, 0, ErrTruncated
	}
	bits := int(raw[off])
	off++
	numNodes := int(binary.LittleEndian.Uint32(raw[off:]))
	off += 4
	if bits != 2 && bits != 3 && bits != 4 {
		return nil, 0, fmt.Errorf("langident: invalid trie bits %d: %w", bits, ErrCorrupt)
	}
	slots := 1 << uint(bits)

	childLen := numNodes * slots
	if off+childLen*4 > len(raw) {
		return nil, 0, ErrTruncated
	}
	children := make([]NodeIndex, childLen)
	for i := 0; i < childLen; i++ {
		children[i] = NodeIndex(binary.LittleEndian.Uint32(raw[off:]))
		off += 4
	}

	leafBytes := (numNodes + 7) / 8
	if off+leafBytes > len(raw) {
		return nil, 0, ErrTruncated
	}
	leaf := make([]bool, numNodes)
	for i := 0; i < numNodes; i++ {
		byteVal := raw[off+i/8]
		leaf[i] = byteVal&(1<<uint(i%8)) != 0
	}
	off += leafBytes

	if off+numNodes*4 > len(raw) {
		return nil, 0, ErrTruncated
	}
	freqAt := make([]int32, numNodes)
	for i := 0; i < numNodes; i++ {
		freqAt[i] = int32(binary.LittleEndian.Uint32(raw[off:]))
		off += 4
	}

	if off+4 > len(raw) {
		return nil, 0, ErrTruncated
	}
	numFreq := int(binary.LittleEndian.Uint32(raw[off:]))
	off += 4
	if off+numFreq*8 > len(raw) {
		return nil, 0, ErrTruncated
	}
	freqPool := make([]FrequencyRecord, numFreq)
	for i := 0; i < numFreq; i++ {
		rawWithStop := binary.LittleEndian.Uint32(raw[off:])
		off += 4
		langAndLast := binary.LittleEndian.Uint32(raw[off:])
		off += 4
		r, isStop := unpackRaw(rawWithStop)
		freqPool[i] = FrequencyRecord{
			Lang:   LangID(langAndLast & 0xFFFF),
			Raw:    r,
			IsStop: isStop,
			Last:   langAndLast&0x80000000 != 0,
		}
	}

	trie, err := NewPackedTrie(bits, children, leaf, freqAt, freqPool)
	if err != nil {
		return nil, 0, err
	}
	return trie, off, nil
}

func decodeScoreTable(raw []byte) (*ScoreTable, error) {
	if len(raw) < 4 {
		return nil, ErrTruncated
	}
	n := int(binary.LittleEndian.Uint32(raw))
	raw = raw[4:]
	if len(raw) < n*8 {
		return nil, ErrTruncated
	}
	values := make([]float64, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint64(raw[i*8:])
		values[i] = math.Float64frombits(bits)
	}
	return NewScoreTable(values), nil
}

// WriteModelFile encodes a full model to w. The header's reserved
// offset slot is filled with the true score-table offset after the
// trie block is written, matching §9's guidance to avoid a backward seek
// on streaming output when possible — here the writer buffers to
// bytes.Buffer first (models are loaded wholesale anyway) and only
// does the conceptual "backpatch" in memory before a single write.
func WriteModelFile(w io.Writer, langs *LanguageTable, trie *PackedTrie, table *ScoreTable, haveBigrams bool) error {
	var buf bytes.Buffer
	buf.WriteString(modelSignature)
	buf.WriteByte(ModelVersion)

	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], uint32(langs.Len()))
	buf.Write(tmp4[:])

	if haveBigrams {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	buf.Write(make([]byte, headerReservedTotal-1))

	backpatchPos := buf.Len()
	buf.Write(make([]byte, 8)) // placeholder, filled in below

	for i := 0; i < langs.Len(); i++ {
		encodeLanguageRecord(&buf, langs.At(LangID(i)))
	}

	encodeTrieBlock(&buf, trie)

	binary.LittleEndian.PutUint32(tmp4[:], 0xFFFFFFFF)
	buf.Write(tmp4[:])

	scoreTableOffset := uint64(buf.Len())
	encodeScoreTable(&buf, table)

	out := buf.Bytes()
	binary.LittleEndian.PutUint64(out[backpatchPos:], scoreTableOffset)

	_, err := w.Write(out)
	return err
}

func encodeLanguageRecord(buf *bytes.Buffer, lm LanguageMeta) {
	writeField := func(s string) {
		f := encodeFixed64(s)
		buf.Write(f[:])
	}
	writeField(lm.Name)
	writeField(lm.Region)
	writeField(lm.Encoding)
	writeField(lm.Source)
	writeField(lm.Script)

	var tmp8 [8]byte
	binary.LittleEndian.PutUint64(tmp8[:], lm.TrainingBytes)
	buf.Write(tmp8[:])
	buf.WriteByte(byte(lm.Alignment))
	buf.Write(make([]byte, 3))

	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], encodeCoverage(lm.CoverageFactor, 1))
	buf.Write(tmp4[:])
	binary.LittleEndian.PutUint32(tmp4[:], encodeCoverage(lm.CountedCoverage, 32))
	buf.Write(tmp4[:])
	binary.LittleEndian.PutUint32(tmp4[:], encodeCoverage(lm.FreqCoverage, 100))
	buf.Write(tmp4[:])
	binary.LittleEndian.PutUint32(tmp4[:], encodeCoverage(lm.MatchFactor, 16))
	buf.Write(tmp4[:])
}

func encodeTrieBlock(buf *bytes.Buffer, trie *PackedTrie) {
	buf.WriteByte(byte(trie.bits))
	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], uint32(trie.NumNodes()))
	buf.Write(tmp4[:])

	for _, c := range trie.children {
		binary.LittleEndian.PutUint32(tmp4[:], uint32(c))
		buf.Write(tmp4[:])
	}

	leafBytes := make([]byte, (trie.NumNodes()+7)/8)
	for i, isLeaf := range trie.leaf {
		if isLeaf {
			leafBytes[i/8] |= 1 << uint(i%8)
		}
	}
	buf.Write(leafBytes)

	for _, at := range trie.freqAt {
		binary.LittleEndian.PutUint32(tmp4[:], uint32(at))
		buf.Write(tmp4[:])
	}

	binary.LittleEndian.PutUint32(tmp4[:], uint32(len(trie.freqPool)))
	buf.Write(tmp4[:])
	for _, f := range trie.freqPool {
		rawWithStop := packRaw(f.Raw, f.IsStop)
		binary.LittleEndian.PutUint32(tmp4[:], rawWithStop)
		buf.Write(tmp4[:])
		langAndLast := uint32(f.Lang)
		if f.Last {
			langAndLast |= 0x80000000
		}
		binary.LittleEndian.PutUint32(tmp4[:], langAndLast)
		buf.Write(tmp4[:])
	}
}

func encodeScoreTable(buf *bytes.Buffer, table *ScoreTable) {
	var tmp4 [4]byte
	binary.LittleEndian.PutUint32(tmp4[:], uint32(table.Len()))
	buf.Write(tmp4[:])
	var tmp8 [8]byte
	for i := 0; i < table.Len(); i++ {
		binary.LittleEndian.PutUint64(tmp8[:], math.Float64bits(table.values[i]))
		buf.Write(tmp8[:])
	}
}
