// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seed

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

func TestGenerateProducesFixedStrideWindows(t *testing.T) {
	codes := encode("ACGTACGTACGT") // length 12
	seeds := Generate(codes, 4, 4, alphabet.DNA5)
	if len(seeds) != 3 {
		t.Fatalf("Generate produced %d seeds, want 3", len(seeds))
	}
	for i, s := range seeds {
		if s.Offset != i*4 {
			t.Errorf("seed %d offset = %d, want %d", i, s.Offset, i*4)
		}
		if len(s.Codes) != 4 {
			t.Errorf("seed %d length = %d, want 4", i, len(s.Codes))
		}
	}
}

func TestGenerateDiscardsTrailingShortWindow(t *testing.T) {
	codes := encode("ACGTACGTA") // length 9, stride 4, length 4 -> windows at 0,4; 8 is short
	seeds := Generate(codes, 4, 4, alphabet.DNA5)
	if len(seeds) != 2 {
		t.Fatalf("Generate produced %d seeds, want 2 (trailing short window dropped)", len(seeds))
	}
}

func TestGenerateReturnsNilWhenFrameShorterThanSeed(t *testing.T) {
	codes := encode("ACG")
	if seeds := Generate(codes, 11, 1, alphabet.DNA5); seeds != nil {
		t.Fatalf("expected no seeds for a frame shorter than the seed length, got %v", seeds)
	}
}

func TestGenerateAppliesReductionScheme(t *testing.T) {
	codes := []alphabet.Code{alphabet.AaI, alphabet.AaL, alphabet.AaV}
	seeds := Generate(codes, 3, 1, alphabet.Murphy10)
	if len(seeds) != 1 {
		t.Fatalf("Generate produced %d seeds, want 1", len(seeds))
	}
	for i, c := range seeds[0].Codes {
		want := alphabet.Reduce(codes[i], alphabet.Murphy10)
		if c != want {
			t.Errorf("seed code %d = %v, want reduced code %v", i, c, want)
		}
	}
}

func TestGenerateRejectsNonPositiveParameters(t *testing.T) {
	codes := encode("ACGTACGT")
	if seeds := Generate(codes, 0, 1, alphabet.DNA5); seeds != nil {
		t.Error("expected nil seeds for zero length")
	}
	if seeds := Generate(codes, 4, 0, alphabet.DNA5); seeds != nil {
		t.Error("expected nil seeds for zero stride")
	}
}
