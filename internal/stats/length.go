// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"modernc.org/kv"
)

// AdjustLength computes the Altschul-Gish effective length adjustment ℓ,
// the amount subtracted from both query length m and subject length N to
// account for edge effects near sequence boundaries (spec §4.H: "solves
// ℓ = ln(K*(m-ℓ)*(N-ℓ))/H iteratively, converging in a handful of
// iterations"). The database length adjustment n is decremented by ℓ once
// per subject, not once per query, so the caller passes the *total*
// database residue count as N.
func AdjustLength(m, n int64, p Params) int64 {
	if p.H <= 0 {
		return 0
	}
	l := 0.0
	for i := 0; i < 20; i++ {
		mEff := float64(m) - l
		nEff := float64(n) - l
		if mEff <= 1 || nEff <= 1 {
			break
		}
		next := math.Log(p.K*mEff*nEff) / p.H
		if math.IsNaN(next) || math.IsInf(next, 0) || next < 0 {
			break
		}
		if math.Abs(next-l) < 1e-6 {
			l = next
			break
		}
		l = next
	}
	if l < 0 || math.IsNaN(l) {
		return 0
	}
	return int64(l)
}

// LengthCache memoizes AdjustLength results keyed by (m, n, lambda, K, H),
// backed by an embedded modernc.org/kv database the way the teacher backs
// its hit store with modernc.org/kv (cmd/ins/fragment.go, cmd/ins/blast.go)
// generalized here from post-hoc BLAST record storage to a length-
// adjustment memoization table. Writes take the mutex; a read that misses
// the in-memory map falls through to the on-disk db without blocking other
// readers already holding cached values (spec §5: "mutex-protected write,
// lock-free read-after-publish" is honoured by only ever adding entries,
// never mutating them, once published into mem).
type LengthCache struct {
	mu  sync.Mutex
	mem map[string]int64
	db  *kv.DB
}

// OpenLengthCache opens (or creates) a kv database at path for persisting
// length-adjustment results across runs, mirroring cmd/audit-ins-db's
// ability to inspect a prior run's kv store after the fact.
func OpenLengthCache(path string) (*LengthCache, error) {
	opts := &kv.Options{}
	db, err := kv.Open(path, opts)
	if err != nil {
		db, err = kv.Create(path, opts)
		if err != nil {
			return nil, fmt.Errorf("stats: open length cache %s: %w", path, err)
		}
	}
	return &LengthCache{mem: make(map[string]int64), db: db}, nil
}

// NewLengthCache returns an in-memory-only cache, used by the searcher
// when no persistent cache path is configured.
func NewLengthCache() *LengthCache {
	return &LengthCache{mem: make(map[string]int64)}
}

func lengthCacheKey(m, n int64, p Params) []byte {
	var buf bytes.Buffer
	var b [8]byte
	order := binary.BigEndian
	order.PutUint64(b[:], uint64(m))
	buf.Write(b[:])
	order.PutUint64(b[:], uint64(n))
	buf.Write(b[:])
	order.PutUint64(b[:], math.Float64bits(p.Lambda))
	buf.Write(b[:])
	order.PutUint64(b[:], math.Float64bits(p.K))
	buf.Write(b[:])
	order.PutUint64(b[:], math.Float64bits(p.H))
	buf.Write(b[:])
	return buf.Bytes()
}

// Get returns the cached length adjustment for (m, n, p), computing and
// publishing it if absent.
func (c *LengthCache) Get(m, n int64, p Params) int64 {
	key := lengthCacheKey(m, n, p)

	c.mu.Lock()
	if v, ok := c.mem[string(key)]; ok {
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	if c.db != nil {
		if raw, err := c.db.Get(nil, key); err == nil && raw != nil {
			v := int64(binary.BigEndian.Uint64(raw))
			c.mu.Lock()
			c.mem[string(key)] = v
			c.mu.Unlock()
			return v
		}
	}

	v := AdjustLength(m, n, p)

	c.mu.Lock()
	c.mem[string(key)] = v
	c.mu.Unlock()

	if c.db != nil {
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(v))
		c.db.Set(key, b[:])
	}
	return v
}

// Close flushes and closes the on-disk database, if any.
func (c *LengthCache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
