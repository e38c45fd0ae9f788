// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extend

import (
	"testing"

	"github.com/kortschak/gophast/internal/alphabet"
)

func encode(s string) []alphabet.Code {
	out := make([]alphabet.Code, len(s))
	for i := range s {
		out[i] = alphabet.EncodeNt(s[i])
	}
	return out
}

func TestExtendGrowsPerfectMatchToFullLength(t *testing.T) {
	query := encode("AAAAACGTACGTAAAAA")
	subject := encode("TTTTTCGTACGTTTTTT")
	sc := Scoring{Match: 2, Mismatch: -3, Gap: -5, XDrop: 10}
	res := Extend(query, subject, 5, 5, 8, sc, Policy{Band: 4})
	if res.Score <= 0 {
		t.Fatalf("expected a positive score, got %d", res.Score)
	}
	if res.QueryEnd <= res.QueryStart {
		t.Fatalf("expected a non-empty extension, got [%d,%d)", res.QueryStart, res.QueryEnd)
	}
}

func TestExtendStopsAtXDrop(t *testing.T) {
	// Flanking sequence is all mismatches past the seed, so with a tight
	// X-drop the extension should not run past the seed boundary.
	query := encode("TTTTTACGTACGTTTTTT")
	subject := encode("GGGGGACGTACGTGGGGG")
	sc := Scoring{Match: 2, Mismatch: -3, Gap: -5, XDrop: 1}
	res := Extend(query, subject, 5, 5, 8, sc, Policy{Band: 4})
	if res.QueryStart != 5 || res.QueryEnd != 13 {
		t.Errorf("expected extension confined to the seed [5,13), got [%d,%d)", res.QueryStart, res.QueryEnd)
	}
}

func encodeAa(s string) []alphabet.Code {
	out := make([]alphabet.Code, len(s))
	for i := range s {
		out[i] = alphabet.EncodeAa(s[i])
	}
	return out
}

func TestExtendFullDPHandlesProteinAlphabet(t *testing.T) {
	query := encodeAa("AAAAMKLVQAAAA")
	subject := encodeAa("CCCCMKLVQCCCC")
	sc := Scoring{Match: 2, Mismatch: -1, Gap: -5, XDrop: 10, Protein: true}
	res := Extend(query, subject, 4, 4, 5, sc, Policy{Band: -1})
	if res.Score <= 0 {
		t.Fatalf("expected a positive score for the shared protein motif, got %d", res.Score)
	}
	if res.Matches+res.Mismatches != res.AlignLen {
		t.Errorf("Matches(%d)+Mismatches(%d) should equal AlignLen(%d) for an ungapped motif", res.Matches, res.Mismatches, res.AlignLen)
	}
}

func TestExtendSeedMismatchIsScoredNotAssumed(t *testing.T) {
	// The seed region itself carries one mismatch, as an approximate
	// (Hamming-budgeted) hit would. seedScore must reflect that instead of
	// assuming seedLen*Match.
	query := encode("AAAACGTGAAAA")
	subject := encode("TTTTCGTCTTTT")
	sc := Scoring{Match: 2, Mismatch: -3, Gap: -5, XDrop: 1}
	res := Extend(query, subject, 4, 4, 4, sc, Policy{Band: 4})
	if res.Mismatches != 1 {
		t.Fatalf("expected exactly the seed's one mismatch, got %d", res.Mismatches)
	}
	if res.Matches != 3 {
		t.Fatalf("expected 3 matches in the 4-base seed, got %d", res.Matches)
	}
	wantScore := 3*sc.Match + 1*sc.Mismatch
	if res.Score != wantScore {
		t.Errorf("Score = %d, want %d (seed scored directly, not assumed all-match)", res.Score, wantScore)
	}
}

func TestExtendBandedFindsGappedAlignment(t *testing.T) {
	// subject carries one inserted residue relative to query past the
	// seed; only a banded DP with band >= 1 can route around it.
	query := encode("AACGTACGT")
	subject := encode("AACTGTACGT")

	sc := Scoring{Match: 2, Mismatch: -3, Gap: -5, XDrop: 20}

	gapped := Extend(query, subject, 0, 0, 1, sc, Policy{Band: 1})
	if gapped.GapOpens < 1 {
		t.Errorf("band=1 should find the gapped path around the insertion, got GapOpens=%d", gapped.GapOpens)
	}
	if gapped.Matches != 9 {
		t.Errorf("band=1 gapped alignment should recover all 9 matches (1 seed + 8 extended), got %d", gapped.Matches)
	}
	if gapped.QueryEnd != 9 || gapped.SubjectEnd != 10 {
		t.Errorf("band=1 should consume both sequences fully, got query end %d, subject end %d", gapped.QueryEnd, gapped.SubjectEnd)
	}

	diagOnly := Extend(query, subject, 0, 0, 1, sc, Policy{Band: 0})
	if diagOnly.GapOpens != 0 {
		t.Errorf("band=0 must stay purely diagonal, got GapOpens=%d", diagOnly.GapOpens)
	}
	if diagOnly.Score >= gapped.Score {
		t.Errorf("ungapped band=0 score (%d) should be worse than the gapped band=1 score (%d)", diagOnly.Score, gapped.Score)
	}
}

func TestPolicyResolvesBandWidths(t *testing.T) {
	sc := Scoring{Match: 2, Mismatch: -3, Gap: -5, XDrop: 30}
	if got := (Policy{Band: -1}).resolve(11, sc); got != -1 {
		t.Errorf("band -1 should resolve to full DP sentinel -1, got %d", got)
	}
	if got := (Policy{Band: -2}).resolve(11, sc); got != 11 {
		t.Errorf("band -2 should resolve to the seed length, got %d", got)
	}
	if got := (Policy{Band: 7}).resolve(11, sc); got != 7 {
		t.Errorf("literal band should pass through unchanged, got %d", got)
	}
}
