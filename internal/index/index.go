// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package index builds and searches a suffix-array representation of a
// subject sequence store, supporting exact and Hamming-budgeted approximate
// seed lookup (spec §4.B "Index" and §4.E "Index searcher"). The FMIndex
// Kind is declared, but no FM-index is built or searched.
package index

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/edsrzf/mmap-go"

	"github.com/kortschak/gophast/internal/alphabet"
	"github.com/kortschak/gophast/internal/seqstore"
)

// Kind selects the on-disk index representation (spec §6: "DB.<alph>.sa"
// for a suffix array, "DB.<alph>.fm" for an FM-index).
type Kind int

const (
	SuffixArray Kind = iota
	FMIndex
)

const magic = "GPHSTIDX"

// IndexMissing and IndexIncompatible are the index-loading sentinel errors
// named in spec §7.
var (
	ErrIndexMissing      = fmt.Errorf("index: file not found")
	ErrIndexIncompatible = fmt.Errorf("index: incompatible format or version")
)

// Index is a read-only, optionally memory-mapped suffix array over a
// seqstore.Store's concatenated residues.
type Index struct {
	store *seqstore.Store
	sa    []int32
	mapped mmap.MMap
	file   *os.File
	kind   Kind
}

// Build constructs an in-memory suffix array index over store. It is used
// by the indexer binary; the searcher always loads a prebuilt index from
// disk (spec §1: "the searcher never builds an index itself").
func Build(store *seqstore.Store) *Index {
	n := len(store.Concat)
	sa := make([]int32, n)
	for i := range sa {
		sa[i] = int32(i)
	}
	concat := store.Concat
	sort.Slice(sa, func(i, j int) bool {
		return lessSuffix(concat, sa[i], sa[j])
	})
	return &Index{store: store, sa: sa, kind: SuffixArray}
}

func lessSuffix(concat []alphabet.Code, a, b int32) bool {
	for {
		ca, oka := byteAt(concat, a)
		cb, okb := byteAt(concat, b)
		if !oka || !okb {
			return !oka && okb
		}
		if ca != cb {
			return ca < cb
		}
		a++
		b++
	}
}

func byteAt(concat []alphabet.Code, i int32) (alphabet.Code, bool) {
	if int(i) >= len(concat) {
		return 0, false
	}
	return concat[i], true
}

// Write serialises the index to w in the on-disk layout read by Open:
// an 8-byte magic, a version byte, the suffix array length, then the
// int32 suffix array itself, little-endian throughout.
func (x *Index) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(magic); err != nil {
		return err
	}
	if err := bw.WriteByte(1); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, int64(len(x.sa))); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, x.sa); err != nil {
		return err
	}
	return bw.Flush()
}

// Open loads a suffix array index from path, memory-mapping the file
// read-only. A failed mapping is returned as an error; there is no
// buffered-read fallback.
func Open(path string, store *seqstore.Store) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrIndexMissing, path)
		}
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("index: mmap %s: %w", path, err)
	}
	if len(m) < len(magic)+1+8 || string(m[:len(magic)]) != magic {
		m.Unmap()
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrIndexIncompatible, path)
	}
	off := len(magic)
	version := m[off]
	off++
	if version != 1 {
		m.Unmap()
		f.Close()
		return nil, fmt.Errorf("%w: version %d", ErrIndexIncompatible, version)
	}
	n := int64(binary.LittleEndian.Uint64(m[off : off+8]))
	off += 8
	want := off + int(n)*4
	if want > len(m) {
		m.Unmap()
		f.Close()
		return nil, fmt.Errorf("%w: truncated suffix array in %s", ErrIndexIncompatible, path)
	}
	sa := make([]int32, n)
	for i := range sa {
		sa[i] = int32(binary.LittleEndian.Uint32(m[off+i*4 : off+i*4+4]))
	}
	return &Index{store: store, sa: sa, mapped: m, file: f, kind: SuffixArray}, nil
}

// Close releases the memory mapping and underlying file, if any.
func (x *Index) Close() error {
	var err error
	if x.mapped != nil {
		err = x.mapped.Unmap()
		x.mapped = nil
	}
	if x.file != nil {
		if cerr := x.file.Close(); err == nil {
			err = cerr
		}
		x.file = nil
	}
	return err
}

// Hit is a single exact or approximate match position reported by Search.
type Hit struct {
	// Pos is the flat offset into the store's concat buffer where the
	// seed's first residue aligns.
	Pos int64
	// Mismatches is the number of Hamming mismatches against the query
	// seed at this position (0 for exact matches).
	Mismatches int
}

// Search finds every position in the index whose residues equal seed with
// at most budget Hamming mismatches, branching on the mismatch budget as it
// descends. Search always walks the SA range recursively, one seed position
// per level, pruning ranges that cannot yield a prefix match within budget;
// budget==0 collapses that walk to a single matching branch per level, which
// is equivalent to but implemented the same way as the approximate case.
func (x *Index) Search(seed []alphabet.Code, budget int) []Hit {
	lo, hi := 0, len(x.sa)
	var hits []Hit
	x.walk(seed, 0, lo, hi, budget, &hits)
	return hits
}

func (x *Index) walk(seed []alphabet.Code, depth int, lo, hi, budget int, hits *[]Hit) {
	if depth == len(seed) {
		for i := lo; i < hi; i++ {
			*hits = append(*hits, Hit{Pos: int64(x.sa[i])})
		}
		return
	}
	// Partition [lo,hi) by residue at this depth, one bucket per symbol
	// that occurs, then recurse into the bucket matching seed[depth]
	// exactly (no mismatch charged) and, budget permitting, every other
	// bucket (one mismatch charged).
	buckets := x.partition(lo, hi, depth)
	for code, rng := range buckets {
		cost := 0
		if alphabet.Code(code) != seed[depth] {
			if budget <= 0 {
				continue
			}
			cost = 1
		}
		x.walkCounting(seed, depth, rng.lo, rng.hi, budget, cost, hits)
	}
}

func (x *Index) walkCounting(seed []alphabet.Code, depth, lo, hi, budget, cost int, hits *[]Hit) {
	if depth+1 == len(seed) {
		for i := lo; i < hi; i++ {
			*hits = append(*hits, Hit{Pos: int64(x.sa[i]), Mismatches: cost})
		}
		return
	}
	buckets := x.partition(lo, hi, depth+1)
	for code, rng := range buckets {
		step := cost
		if alphabet.Code(code) != seed[depth+1] {
			if budget-cost <= 0 {
				continue
			}
			step = cost + 1
		}
		x.walkCounting(seed, depth+1, rng.lo, rng.hi, budget, step, hits)
	}
}

type saRange struct{ lo, hi int }

// partition splits [lo,hi) of the suffix array into contiguous runs that
// share the same residue at position depth past each suffix's start.
func (x *Index) partition(lo, hi, depth int) map[byte]saRange {
	out := make(map[byte]saRange)
	i := lo
	for i < hi {
		c, ok := byteAt(x.store.Concat, x.sa[i]+int32(depth))
		if !ok {
			i++
			continue
		}
		j := i + 1
		for j < hi {
			c2, ok2 := byteAt(x.store.Concat, x.sa[j]+int32(depth))
			if !ok2 || c2 != c {
				break
			}
			j++
		}
		out[byte(c)] = saRange{lo: i, hi: j}
		i = j
	}
	return out
}
