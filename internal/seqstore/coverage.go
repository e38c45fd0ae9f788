// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seqstore

import "github.com/biogo/store/step"

// Coverage tracks, for one subject entry, which residues have been
// touched by at least one surviving Match, using a step.Vector the way
// cmd/cmpint/main.go tracks per-base annotation agreement. Nothing in the
// searcher feeds Coverage into the statistics stage: the length adjustment
// in cmd/gophast uses the raw concatenated database length as N.
type Coverage struct {
	v *step.Vector
}

type covered struct{ hit bool }

func (c covered) Equal(e step.Equaler) bool {
	o, ok := e.(covered)
	return ok && o.hit == c.hit
}

// NewCoverage creates a coverage tracker over [0,length).
func NewCoverage(length int64) (*Coverage, error) {
	v, err := step.New(0, int(length), covered{})
	if err != nil {
		return nil, err
	}
	v.Relaxed = true
	return &Coverage{v: v}, nil
}

// Mark records that [start,end) was touched by a match.
func (c *Coverage) Mark(start, end int64) error {
	return c.v.ApplyRange(int(start), int(end), func(step.Equaler) step.Equaler {
		return covered{hit: true}
	})
}

// Covered returns the total number of residues marked by at least one
// Mark call.
func (c *Coverage) Covered() int64 {
	var total int64
	c.v.Do(func(start, end int, e step.Equaler) {
		if e.(covered).hit {
			total += int64(end - start)
		}
	})
	return total
}
