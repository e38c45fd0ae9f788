// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seqstore

import (
	"log"

	"github.com/biogo/store/interval"
)

// Mask is a single masked interval within one subject entry's local
// coordinates: [Start,End) residues inside which a seed hit is discarded
// (spec §3 "Masking intervals", §4.E "a seed hit landing entirely within a
// masked interval is discarded"). Only seed containment is checked; the
// extension engine does not consult masks and may extend across them.
type Mask struct {
	Entry      int
	Start, End int64
}

// maskedInterval adapts a Mask to interval.IntTree's IntInterface, following
// the teacher's subjectInterval pattern (cmd/ins/main.go, cmd/cull/main.go):
// Overlap reports containment of the query range, not mere intersection,
// since a seed must fall entirely inside a masked region to be discarded.
type maskedInterval struct {
	uid uintptr
	Mask
}

func (m maskedInterval) ID() uintptr { return m.uid }

func (m maskedInterval) Range() interval.IntRange {
	return interval.IntRange{Start: int(m.Start), End: int(m.End)}
}

// Overlap is called by IntTree.Get on the query value (the seed span m)
// with each stored or subtree range b, and reports whether b completely
// contains m, i.e. whether the seed hit falls entirely inside the masked
// interval (spec §4.E: the seed, not the mask, must be the contained range).
func (m maskedInterval) Overlap(b interval.IntRange) bool {
	return b.Start <= int(m.Start) && int(m.End) <= b.End
}

// MaskTree holds, per subject entry, an interval.IntTree of masked ranges
// so a seed hit's subject span can be tested for full containment in O(log
// n + k) time rather than a linear scan.
type MaskTree struct {
	trees map[int]*interval.IntTree
}

// NewMaskTree builds a MaskTree from a flat list of masks, grouping by
// entry and calling AdjustRanges once per entry's tree (required by
// interval.IntTree before any Get call).
func NewMaskTree(masks []Mask) *MaskTree {
	mt := &MaskTree{trees: make(map[int]*interval.IntTree)}
	var next uintptr
	for _, m := range masks {
		t, ok := mt.trees[m.Entry]
		if !ok {
			t = &interval.IntTree{}
			mt.trees[m.Entry] = t
		}
		if err := t.Insert(maskedInterval{uid: next, Mask: m}, true); err != nil {
			log.Printf("seqstore: discarding malformed mask %+v: %v", m, err)
			continue
		}
		next++
	}
	for _, t := range mt.trees {
		t.AdjustRanges()
	}
	return mt
}

// Contains reports whether [start,end) in entry's local coordinates falls
// entirely within a masked interval.
func (mt *MaskTree) Contains(entry int, start, end int64) bool {
	t, ok := mt.trees[entry]
	if !ok {
		return false
	}
	q := maskedInterval{Mask: Mask{Entry: entry, Start: start, End: end}}
	return len(t.Get(q)) > 0
}
