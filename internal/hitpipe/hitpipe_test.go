// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hitpipe

import "testing"

func TestSortOrdersBySubjectDiagonalPosition(t *testing.T) {
	matches := []Match{
		{SubjectID: 1, Diagonal: 5, SubjectStart: 20},
		{SubjectID: 0, Diagonal: 2, SubjectStart: 10},
		{SubjectID: 1, Diagonal: 1, SubjectStart: 3},
	}
	Sort(matches)
	if matches[0].SubjectID != 0 {
		t.Fatalf("expected subject 0 first, got %+v", matches[0])
	}
	if matches[1].Diagonal != 1 || matches[2].Diagonal != 5 {
		t.Fatalf("expected diagonals ordered within subject 1, got %+v", matches)
	}
}

func TestMergeCombinesColinearMatchesWithoutOverlap(t *testing.T) {
	matches := []Match{
		{SubjectID: 0, Diagonal: 0, SubjectStart: 0, Length: 10, QueryStart: 0},
		{SubjectID: 0, Diagonal: 0, SubjectStart: 12, Length: 10, QueryStart: 12},
		{SubjectID: 0, Diagonal: 0, SubjectStart: 100, Length: 5, QueryStart: 100},
	}
	Sort(matches)
	merged := Merge(matches, 5)
	if len(merged) != 2 {
		t.Fatalf("Merge produced %d groups, want 2: %+v", len(merged), merged)
	}
	if merged[0].Length != 22 {
		t.Errorf("merged[0].Length = %d, want 22 (0..22)", merged[0].Length)
	}
	// Non-overlap invariant: merged regions on the same diagonal never overlap.
	for i := 1; i < len(merged); i++ {
		prevEnd := merged[i-1].SubjectStart + merged[i-1].Length
		if merged[i].SubjectStart < prevEnd {
			t.Errorf("merged regions overlap: %+v then %+v", merged[i-1], merged[i])
		}
	}
}

func TestAbundanceFilterDropsHighCountSubjects(t *testing.T) {
	var matches []Match
	for i := 0; i < 20; i++ {
		matches = append(matches, Match{SubjectID: 0})
	}
	matches = append(matches, Match{SubjectID: 1})
	filtered := AbundanceFilter(matches, 1.0)
	for _, m := range filtered {
		if m.SubjectID == 0 {
			t.Fatal("expected subject 0's matches to be capped by the abundance filter")
		}
	}
}

func TestStatsCounts(t *testing.T) {
	var st Stats
	st.Count(Extended)
	st.Count(Extended)
	st.Count(EValueFail)
	if st.Get(Extended) != 2 {
		t.Errorf("Get(Extended) = %d, want 2", st.Get(Extended))
	}
	if st.Get(EValueFail) != 1 {
		t.Errorf("Get(EValueFail) = %d, want 1", st.Get(EValueFail))
	}
}
