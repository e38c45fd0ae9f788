// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alphabet

import "testing"

func TestEncodeDecodeNt(t *testing.T) {
	for _, b := range []byte{'A', 'C', 'G', 'T', 'a', 'c', 'g', 't'} {
		c := EncodeNt(b)
		got := DecodeNt(c)
		want := b
		if want >= 'a' {
			want -= 'a' - 'A'
		}
		if got != want {
			t.Errorf("EncodeNt(%q) roundtrip = %q, want %q", b, got, want)
		}
	}
	if EncodeNt('X') != NtN {
		t.Errorf("EncodeNt('X') = %v, want NtN", EncodeNt('X'))
	}
}

func TestReverseComplement(t *testing.T) {
	seq := []Code{NtA, NtC, NtG, NtT}
	rc := ReverseComplement(seq)
	want := []Code{NtA, NtC, NtG, NtT} // ACGT -> revcomp -> ACGT (palindrome)
	for i := range want {
		if rc[i] != want[i] {
			t.Fatalf("ReverseComplement(%v) = %v, want %v", seq, rc, want)
		}
	}
	// Double reverse complement is the identity.
	rc2 := ReverseComplement(rc)
	for i := range seq {
		if rc2[i] != seq[i] {
			t.Errorf("ReverseComplement twice did not return identity: got %v, want %v", rc2, seq)
		}
	}
}

func TestTranslateStandard(t *testing.T) {
	cases := []struct {
		codon [3]byte
		want  byte
	}{
		{[3]byte{'A', 'T', 'G'}, 'M'},
		{[3]byte{'T', 'A', 'A'}, 0}, // stop -> StopSymbol
		{[3]byte{'T', 'T', 'T'}, 'F'},
		{[3]byte{'G', 'G', 'G'}, 'G'},
	}
	for _, c := range cases {
		got := Translate(EncodeNt(c.codon[0]), EncodeNt(c.codon[1]), EncodeNt(c.codon[2]), StandardCode)
		if c.want == 0 {
			if got != StopSymbol {
				t.Errorf("Translate(%s) = %v, want StopSymbol", c.codon, got)
			}
			continue
		}
		if DecodeAa(got) != c.want {
			t.Errorf("Translate(%s) = %q, want %q", c.codon, DecodeAa(got), c.want)
		}
	}
}

func TestTranslateVertebrateMito(t *testing.T) {
	// AGA is a stop in vertebrate mitochondrial code, Ser in standard code isn't
	// relevant here -- standard AGA is Arg.
	std := Translate(EncodeNt('A'), EncodeNt('G'), EncodeNt('A'), StandardCode)
	if DecodeAa(std) != 'R' {
		t.Fatalf("standard AGA = %q, want R", DecodeAa(std))
	}
	vert := Translate(EncodeNt('A'), EncodeNt('G'), EncodeNt('A'), VertebrateMitochondrial)
	if vert != StopSymbol {
		t.Fatalf("vertebrate mitochondrial AGA = %v, want StopSymbol", vert)
	}
}

func TestReduceMurphy10(t *testing.T) {
	if Reduce(AaL, Murphy10) != Reduce(AaV, Murphy10) {
		t.Errorf("Murphy10 should group L and V together")
	}
	if Reduce(AaK, Murphy10) == Reduce(AaH, Murphy10) {
		t.Errorf("Murphy10 should not group K and H together")
	}
	if Reduce(AaL, DNA5) != AaL {
		t.Errorf("Reduce with DNA5 scheme should be identity")
	}
}
