// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seqstore holds a concat-direct sequence set: every sequence in a
// subject or translated-query database concatenated into one buffer, with an
// offsets table delimiting each entry. This avoids a per-sequence slice
// header and allocation, and lets the index address any residue by a single
// flat coordinate.
package seqstore

import (
	"fmt"

	"github.com/kortschak/gophast/internal/alphabet"
)

// Store is a concat-direct sequence set (spec §3 "Sequence store"). Residue
// i of entry k lives at Concat[Limits[k]+i]. Limits has len(entries)+1
// elements; Limits[0] is always 0 and Limits[len(Limits)-1] equals
// len(Concat).
type Store struct {
	Concat []alphabet.Code
	Limits []int64
	Names  []string
}

// New builds an empty Store ready for Append calls.
func New() *Store {
	return &Store{Limits: []int64{0}}
}

// Append adds a named sequence to the store and returns its index.
func (s *Store) Append(name string, codes []alphabet.Code) int {
	s.Concat = append(s.Concat, codes...)
	s.Limits = append(s.Limits, int64(len(s.Concat)))
	s.Names = append(s.Names, name)
	return len(s.Names) - 1
}

// Len returns the number of sequences held.
func (s *Store) Len() int { return len(s.Names) }

// TotalLen returns the number of residues across all sequences.
func (s *Store) TotalLen() int64 {
	if len(s.Limits) == 0 {
		return 0
	}
	return s.Limits[len(s.Limits)-1]
}

// Bounds returns the half-open [start,end) flat range occupied by entry i.
func (s *Store) Bounds(i int) (start, end int64) {
	return s.Limits[i], s.Limits[i+1]
}

// Sequence returns the residues of entry i without copying.
func (s *Store) Sequence(i int) []alphabet.Code {
	start, end := s.Bounds(i)
	return s.Concat[start:end]
}

// At returns the residue at flat offset pos.
func (s *Store) At(pos int64) alphabet.Code {
	return s.Concat[pos]
}

// EntryAt returns the index of the entry containing flat offset pos, using
// binary search over Limits. Panics if pos is out of range; callers that
// derive pos from index lookups are guaranteed an in-range value.
func (s *Store) EntryAt(pos int64) int {
	lo, hi := 0, len(s.Names)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if s.Limits[mid] <= pos {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	if lo < 0 || pos < s.Limits[lo] || pos >= s.Limits[lo+1] {
		panic(fmt.Sprintf("seqstore: offset %d out of range", pos))
	}
	return lo
}

// Validate checks the invariants spec §3 requires of a Store's Limits table:
// Limits[0]==0, monotonic non-decreasing, and len(Limits)==len(Names)+1.
func (s *Store) Validate() error {
	if len(s.Limits) != len(s.Names)+1 {
		return fmt.Errorf("seqstore: limits table has %d entries, want %d", len(s.Limits), len(s.Names)+1)
	}
	if len(s.Limits) == 0 || s.Limits[0] != 0 {
		return fmt.Errorf("seqstore: limits[0] = %v, want 0", s.Limits)
	}
	for i := 1; i < len(s.Limits); i++ {
		if s.Limits[i] < s.Limits[i-1] {
			return fmt.Errorf("seqstore: limits not monotonic at %d: %d < %d", i, s.Limits[i], s.Limits[i-1])
		}
	}
	if s.Limits[len(s.Limits)-1] != int64(len(s.Concat)) {
		return fmt.Errorf("seqstore: final limit %d does not match concat length %d", s.Limits[len(s.Limits)-1], len(s.Concat))
	}
	return nil
}
