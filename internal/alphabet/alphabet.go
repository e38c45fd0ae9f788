// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alphabet maps between nucleotide and amino acid residues, applies
// NCBI genetic codes for translation, and reduces the amino acid alphabet to
// a smaller tag set for seeding.
package alphabet

import "fmt"

// Code is a residue encoded as a small integer. Its meaning depends on the
// Alphabet it was produced from.
type Code byte

// Alphabet identifies a closed residue set used by one leg of a BLAST
// program (spec §3 "Alphabet").
type Alphabet int

const (
	DNA5 Alphabet = iota
	AA
	Murphy10
)

// Size returns the number of bits required to hold a Code in this alphabet.
func (a Alphabet) Size() int {
	switch a {
	case DNA5:
		return 3
	case AA:
		return 5
	case Murphy10:
		return 4
	default:
		panic("alphabet: unknown alphabet")
	}
}

// Nucleotide residues. N is the ambiguity symbol; unknown input bases are
// mapped to it and score as a mismatch against every base, including itself.
const (
	NtA Code = iota
	NtC
	NtG
	NtT
	NtN
)

var ntByByte = map[byte]Code{
	'A': NtA, 'a': NtA,
	'C': NtC, 'c': NtC,
	'G': NtG, 'g': NtG,
	'T': NtT, 't': NtT,
	'U': NtT, 'u': NtT,
}

// EncodeNt maps an ASCII nucleotide byte to a Code, returning NtN for any
// byte outside {A,C,G,T,U} (ambiguity codes included).
func EncodeNt(b byte) Code {
	if c, ok := ntByByte[b]; ok {
		return c
	}
	return NtN
}

var ntLetter = [...]byte{NtA: 'A', NtC: 'C', NtG: 'G', NtT: 'T', NtN: 'N'}

// DecodeNt maps a nucleotide Code back to its ASCII letter.
func DecodeNt(c Code) byte {
	if int(c) >= len(ntLetter) {
		return 'N'
	}
	return ntLetter[c]
}

var complement = [...]Code{NtA: NtT, NtT: NtA, NtC: NtG, NtG: NtC, NtN: NtN}

// Complement returns the Watson-Crick complement of a nucleotide Code.
func Complement(c Code) Code {
	if int(c) >= len(complement) {
		return NtN
	}
	return complement[c]
}

// ReverseComplement returns the reverse complement of a nucleotide sequence
// given as raw Codes. The input is not modified.
func ReverseComplement(seq []Code) []Code {
	out := make([]Code, len(seq))
	n := len(seq)
	for i, c := range seq {
		out[n-1-i] = Complement(c)
	}
	return out
}

// Amino acid residues, in the 20-letter IUPAC order plus a stop/ambiguity
// symbol (X) used both for untranslatable codons and unknown residues.
const (
	AaA Code = iota
	AaR
	AaN
	AaD
	AaC
	AaQ
	AaE
	AaG
	AaH
	AaI
	AaL
	AaK
	AaM
	AaF
	AaP
	AaS
	AaT
	AaW
	AaY
	AaV
	AaX // ambiguity / stop
)

var aaLetters = "ARNDCQEGHILKMFPSTWYVX"

var aaByByte [256]Code

func init() {
	for i := range aaByByte {
		aaByByte[i] = AaX
	}
	for i := 0; i < len(aaLetters); i++ {
		c := aaLetters[i]
		aaByByte[c] = Code(i)
		if c >= 'A' && c <= 'Z' {
			aaByByte[c-'A'+'a'] = Code(i)
		}
	}
}

// EncodeAa maps an ASCII amino acid byte to a Code, returning AaX for any
// unrecognised byte.
func EncodeAa(b byte) Code {
	return aaByByte[b]
}

// DecodeAa maps an amino acid Code back to its ASCII letter.
func DecodeAa(c Code) byte {
	if int(c) >= len(aaLetters) {
		return 'X'
	}
	return aaLetters[c]
}

// GeneticCode is one of the NCBI genetic code tables (spec §6 "-g INT").
// The standard code and the vertebrate and invertebrate mitochondrial codes
// are provided; additional tables can be added to the codonTables map
// without touching the translation logic.
type GeneticCode int

const (
	StandardCode             GeneticCode = 1
	VertebrateMitochondrial  GeneticCode = 2
	InvertebrateMitochondrial GeneticCode = 5
)

// codon is a 3-letter string key ("ATG") into a translation table.
type codon = string

func codonKey(c0, c1, c2 Code) (codon, bool) {
	if c0 > NtT || c1 > NtT || c2 > NtT {
		return "", false
	}
	b := [3]byte{DecodeNt(c0), DecodeNt(c1), DecodeNt(c2)}
	return string(b[:]), true
}

// codonTables maps each supported genetic code to its 64-entry translation
// table, keyed by codon string.
var codonTables = map[GeneticCode]map[codon]byte{
	StandardCode:              standardCodonTable(),
	VertebrateMitochondrial:   vertMitoCodonTable(),
	InvertebrateMitochondrial: invertMitoCodonTable(),
}

// StopSymbol is the amino acid Code assigned to stop codons. It scores as a
// mismatch against every residue, including itself, same as AaX.
const StopSymbol = AaX

// Translate maps a single codon to an amino acid Code under the given
// genetic code. Codons containing an ambiguous base, or three bases that do
// not form a complete codon, translate to StopSymbol.
func Translate(c0, c1, c2 Code, code GeneticCode) Code {
	table, ok := codonTables[code]
	if !ok {
		table = codonTables[StandardCode]
	}
	key, ok := codonKey(c0, c1, c2)
	if !ok {
		return StopSymbol
	}
	letter, ok := table[key]
	if !ok || letter == '*' {
		return StopSymbol
	}
	return EncodeAa(letter)
}

// buildTable parses a whitespace-separated list of "CODON:AA" pairs into a
// lookup table, panicking on malformed input (a programmer error, always
// caught by the package's own tests).
func buildTable(spec string) map[codon]byte {
	t := make(map[codon]byte, 64)
	fields := splitFields(spec)
	for _, f := range fields {
		if len(f) != 5 || f[3] != ':' && f[3] != '=' {
			panic(fmt.Sprintf("alphabet: malformed codon table entry %q", f))
		}
		t[f[:3]] = f[4]
	}
	if len(t) != 64 {
		panic(fmt.Sprintf("alphabet: codon table must have 64 entries, got %d", len(t)))
	}
	return t
}

func splitFields(s string) []string {
	var out []string
	start := -1
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\n' || s[i] == '\t' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// standardCodonTable is NCBI genetic code table 1.
func standardCodonTable() map[codon]byte {
	return buildTable(`
		TTT:F TTC:F TTA:L TTG:L CTT:L CTC:L CTA:L CTG:L
		ATT:I ATC:I ATA:I ATG:M GTT:V GTC:V GTA:V GTG:V
		TCT:S TCC:S TCA:S TCG:S CCT:P CCC:P CCA:P CCG:P
		ACT:T ACC:T ACA:T ACG:T GCT:A GCC:A GCA:A GCG:A
		TAT:Y TAC:Y TAA:* TAG:* CAT:H CAC:H CAA:Q CAG:Q
		AAT:N AAC:N AAA:K AAG:K GAT:D GAC:D GAA:E GAG:E
		TGT:C TGC:C TGA:* TGG:W CGT:R CGC:R CGA:R CGG:R
		AGT:S AGC:S AGA:R AGG:R GGT:G GGC:G GGA:G GGG:G
	`)
}

// vertMitoCodonTable is NCBI genetic code table 2 (vertebrate mitochondrial):
// AGA/AGG are stops, ATA is Met, TGA is Trp relative to the standard code.
func vertMitoCodonTable() map[codon]byte {
	t := standardCodonTable()
	t["AGA"] = '*'
	t["AGG"] = '*'
	t["ATA"] = 'M'
	t["TGA"] = 'W'
	return t
}

// invertMitoCodonTable is NCBI genetic code table 5 (invertebrate
// mitochondrial): ATA is Met, TGA is Trp, AGA/AGG are Ser relative to the
// standard code.
func invertMitoCodonTable() map[codon]byte {
	t := standardCodonTable()
	t["ATA"] = 'M'
	t["TGA"] = 'W'
	t["AGA"] = 'S'
	t["AGG"] = 'S'
	return t
}

// Murphy10 reduces the 20-letter amino acid alphabet to 10 groups (Murphy et
// al. 2000), with AaX as an eleventh tag of its own, used only during
// seeding (spec §3: "it affects only seeding, never scoring").
var murphy10Group = [...]Code{
	AaL: 0, AaV: 0, AaI: 0, AaM: 0, // L
	AaC: 1, // C
	AaA: 2, // A
	AaG: 10, // G
	AaS: 3, AaT: 3, // S
	AaP: 4, // P
	AaF: 5, AaY: 5, AaW: 5, // F
	AaE: 6, AaD: 6, AaN: 6, AaQ: 6, // E
	AaK: 7, AaR: 7, // K
	AaH: 8, // H
	AaX: 9, // X (ambiguity/stop groups with itself)
}

// Reduce maps an amino acid Code to its reduced-alphabet tag under scheme.
// For DNA5 (nucleotide seeding), Reduce is the identity, per spec §4.A.
func Reduce(c Code, scheme Alphabet) Code {
	switch scheme {
	case Murphy10:
		if int(c) < len(murphy10Group) {
			return murphy10Group[c]
		}
		return murphy10Group[AaX]
	default:
		return c
	}
}
