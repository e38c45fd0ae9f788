// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package index

import (
	"testing"

	"github.com/kortschak/gophast/internal/alphabet"
	"github.com/kortschak/gophast/internal/seqstore"
)

func encode(s string) []alphabet.Code {
	out := make([]alphabet.Code, len(s))
	for i := range s {
		out[i] = alphabet.EncodeNt(s[i])
	}
	return out
}

func TestSearchExactFindsAllOccurrences(t *testing.T) {
	store := seqstore.New()
	store.Append("s1", encode("ACGTACGTNNNACGT"))
	idx := Build(store)

	hits := idx.Search(encode("ACGT"), 0)
	if len(hits) != 3 {
		t.Fatalf("exact search for ACGT found %d hits, want 3", len(hits))
	}
	for _, h := range hits {
		if h.Mismatches != 0 {
			t.Errorf("exact search reported a mismatch: %+v", h)
		}
	}
}

func TestSearchApproximateRespectsBudget(t *testing.T) {
	store := seqstore.New()
	store.Append("s1", encode("ACGTTCGT"))
	idx := Build(store)

	hitsExact := idx.Search(encode("ACGT"), 0)
	if len(hitsExact) != 1 {
		t.Fatalf("exact search found %d hits, want 1", len(hitsExact))
	}

	hitsApprox := idx.Search(encode("ACGT"), 1)
	found := false
	for _, h := range hitsApprox {
		if h.Pos == 4 {
			found = true
		}
	}
	if !found {
		t.Errorf("budget=1 search should find the TCGT occurrence at position 4 with 1 mismatch: %+v", hitsApprox)
	}
}
