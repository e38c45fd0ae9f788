// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package extend grows a seed Match in both directions using a banded,
// X-drop-terminated Smith-Waterman recurrence (spec §4.G "Extension
// engine"). A band width of -1 requests full, unbanded dynamic
// programming, delegated to biogo/biogo/align.SW the way
// cmd/catch/catch.go in the example corpus builds and drives it.
package extend

import (
	"github.com/biogo/biogo/align"
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	gphalpha "github.com/kortschak/gophast/internal/alphabet"
)

// Scoring holds the substitution scores and gap penalty used by the
// extension engine (spec §3 "Scoring scheme"). Protein selects which biogo
// alphabet and decode table the full-DP branch (band -1) builds its
// substitution matrix over: false for nucleotide Codes (BlastN), true for
// amino acid Codes (BlastP/BlastX/TBlastN/TBlastX), since the two alphabets
// have disjoint Code encodings and letter tables (internal/alphabet's
// DecodeNt vs DecodeAa).
type Scoring struct {
	Match, Mismatch, Gap int
	XDrop                int
	Protein              bool
}

// Result is the outward extension of a seed into a local alignment. Matches,
// Mismatches, GapOpens and AlignLen describe the alignment's composition
// over its full length (seed plus both outward extensions) so callers can
// compute percent identity and the tabular mismatch/gapopen columns (spec
// §4.H, §4.I) without re-walking the sequences.
type Result struct {
	QueryStart, QueryEnd     int64
	SubjectStart, SubjectEnd int64
	Score                    int
	Matches, Mismatches      int
	GapOpens                 int
	AlignLen                 int
}

// Policy selects how extend computes the band width for a query/subject
// pair, following spec §4.G's "-3/-2/-1/literal" band width option:
//   - a literal band is used as-is;
//   - -1 requests full (unbanded) dynamic programming;
//   - -2 derives a band proportional to the seed length;
//   - -3 derives a band from the X-drop score and gap penalty.
type Policy struct {
	Band int
}

func (p Policy) resolve(seedLen int, sc Scoring) int {
	switch p.Band {
	case -1:
		return -1
	case -2:
		return seedLen
	case -3:
		if sc.Gap == 0 {
			return seedLen
		}
		return sc.XDrop/(-sc.Gap) + 1
	default:
		return p.Band
	}
}

// Extend grows a seed anchored at (queryPos, subjectPos) of length
// seedLen, scanning outward in both directions under the band/X-drop
// recurrence, or dispatching to full DP when the resolved band is -1.
//
// The seed span itself is scored directly from the sequences rather than
// assumed to be a run of matches: seed search is Hamming-only (spec §4.E,
// "insertions/deletions are not considered at the seed stage"), so the span
// is ungapped by construction, but an approximate hit may carry mismatches
// within it.
func Extend(query, subject []gphalpha.Code, queryPos, subjectPos int64, seedLen int, sc Scoring, pol Policy) Result {
	band := pol.resolve(seedLen, sc)
	if band < 0 {
		return fullDP(query, subject, queryPos, subjectPos, seedLen, sc)
	}

	seedQ := query[queryPos : queryPos+int64(seedLen)]
	seedS := subject[subjectPos : subjectPos+int64(seedLen)]
	seedMatches, seedMismatches, seedScore := scoreRegion(seedQ, seedS, sc)

	right := bandedExtend(query[queryPos+int64(seedLen):], subject[subjectPos+int64(seedLen):], sc, band)
	lq := reverseCodes(query[:queryPos])
	ls := reverseCodes(subject[:subjectPos])
	left := bandedExtend(lq, ls, sc, band)

	return Result{
		QueryStart:   queryPos - int64(left.qLen),
		QueryEnd:     queryPos + int64(seedLen) + int64(right.qLen),
		SubjectStart: subjectPos - int64(left.sLen),
		SubjectEnd:   subjectPos + int64(seedLen) + int64(right.sLen),
		Score:        seedScore + left.score + right.score,
		Matches:      seedMatches + left.matches + right.matches,
		Mismatches:   seedMismatches + left.mismatches + right.mismatches,
		GapOpens:     left.gapOpens + right.gapOpens,
		AlignLen:     seedLen + left.alignLen + right.alignLen,
	}
}

// scoreRegion scores an ungapped region of equal-length query/subject
// residues, reporting the match/mismatch composition alongside the score.
func scoreRegion(q, s []gphalpha.Code, sc Scoring) (matches, mismatches, score int) {
	for i := range q {
		if q[i] == s[i] {
			matches++
			score += sc.Match
		} else {
			mismatches++
			score += sc.Mismatch
		}
	}
	return matches, mismatches, score
}

func reverseCodes(s []gphalpha.Code) []gphalpha.Code {
	out := make([]gphalpha.Code, len(s))
	for i, c := range s {
		out[len(s)-1-i] = c
	}
	return out
}

// extension is the outcome of a one-directional bandedExtend call: how far
// it advanced into each sequence, the score it accumulated, and the
// alignment composition of that span.
type extension struct {
	qLen, sLen          int
	score               int
	matches, mismatches int
	gapOpens, alignLen  int
}

// direction codes for the traceback grid.
const (
	dirNone byte = iota
	dirDiag
	dirUp   // consumes a query residue against a subject gap
	dirLeft // consumes a subject residue against a query gap
)

// bandedExtend runs a banded, gapped Smith-Waterman-style recurrence
// anchored at (0,0) — the boundary of the seed — scanning forward through
// q and s (spec §4.G "Outward extension"). Unlike a from-scratch local
// alignment, the running score is never floored at zero: the alignment
// must stay contiguous with the seed, and X-drop alone decides where it
// ends. The band restricts column j to within band of the diagonal i==j,
// following spec §4.G's banded-SW branch of the extension engine.
func bandedExtend(q, s []gphalpha.Code, sc Scoring, band int) extension {
	n, m := len(q), len(s)
	if n == 0 || m == 0 {
		return extension{}
	}
	if band < 0 {
		band = 0
	}
	width := 2*band + 1

	prev := make([]int, width)
	for d := range prev {
		prev[d] = minInt
	}
	// H[0][j] = j*Gap for the cells the band actually covers at row 0.
	for j := 0; j <= band && j <= m; j++ {
		prev[j+band] = j * sc.Gap
	}

	var dirs [][]byte
	best, bestI, bestD := 0, 0, 0

	for i := 1; i <= n; i++ {
		cur := make([]int, width)
		dirRow := make([]byte, width)
		anyValid := false
		for d := -band; d <= band; d++ {
			j := i + d
			if j < 0 || j > m {
				cur[d+band] = minInt
				continue
			}
			var val int
			var dir byte
			if j >= 1 && prev[d+band] != minInt {
				val = prev[d+band] + matchScore(q[i-1], s[j-1], sc)
				dir = dirDiag
			} else {
				val = minInt
			}
			if d+1 <= band && prev[d+1+band] != minInt {
				if up := prev[d+1+band] + sc.Gap; dir == dirNone || up > val {
					val, dir = up, dirUp
				}
			}
			if j >= 1 && d-1 >= -band && cur[d-1+band] != minInt {
				if left := cur[d-1+band] + sc.Gap; dir == dirNone || left > val {
					val, dir = left, dirLeft
				}
			}
			if dir == dirNone {
				val = minInt
			}
			cur[d+band] = val
			dirRow[d+band] = dir
			if val != minInt {
				anyValid = true
				if val > best {
					best, bestI, bestD = val, i, d
				}
			}
		}
		dirs = append(dirs, dirRow)
		if !anyValid {
			break
		}
		rowBest := minInt
		for _, v := range cur {
			if v > rowBest {
				rowBest = v
			}
		}
		if rowBest != minInt && best-rowBest > sc.XDrop {
			break
		}
		prev = cur
	}

	if bestI == 0 {
		return extension{}
	}

	i, j := bestI, bestI+bestD
	var matches, mismatches, gapOpens, alignLen int
	lastDir := dirNone
	for i > 0 || j > 0 {
		d := j - i
		dir := dirs[i-1][d+band]
		switch dir {
		case dirDiag:
			if q[i-1] == s[j-1] {
				matches++
			} else {
				mismatches++
			}
			i--
			j--
		case dirUp:
			if lastDir != dirUp {
				gapOpens++
			}
			i--
		case dirLeft:
			if lastDir != dirLeft {
				gapOpens++
			}
			j--
		default:
			i, j = 0, 0
			continue
		}
		lastDir = dir
		alignLen++
	}

	return extension{
		qLen: bestI, sLen: bestI + bestD,
		score: best, matches: matches, mismatches: mismatches,
		gapOpens: gapOpens, alignLen: alignLen,
	}
}

const minInt = -1 << 30

func matchScore(a, b gphalpha.Code, sc Scoring) int {
	if a == b {
		return sc.Match
	}
	return sc.Mismatch
}

// fullDP performs unbanded Smith-Waterman via biogo/biogo/align.SW,
// generalizing cmd/catch/catch.go's makeTable helper from a fixed
// DNAgapped match/mismatch/gap matrix to the caller's Scoring.
func fullDP(query, subject []gphalpha.Code, queryPos, subjectPos int64, seedLen int, sc Scoring) Result {
	qSeq := toLetters(query, sc.Protein)
	sSeq := toLetters(subject, sc.Protein)

	sw := makeTable(sc)
	aln, err := sw.Align(qSeq, sSeq)
	if err != nil {
		seedQ := query[queryPos : queryPos+int64(seedLen)]
		seedS := subject[subjectPos : subjectPos+int64(seedLen)]
		seedMatches, seedMismatches, seedScore := scoreRegion(seedQ, seedS, sc)
		return Result{
			QueryStart: queryPos, QueryEnd: queryPos + int64(seedLen),
			SubjectStart: subjectPos, SubjectEnd: subjectPos + int64(seedLen),
			Score: seedScore, Matches: seedMatches, Mismatches: seedMismatches,
			AlignLen: seedLen,
		}
	}

	var qStart, qEnd, sStart, sEnd int
	var score, matches, mismatches, gapOpens, alignLen int
	type scorer interface{ Score() int }
	for i, seg := range aln {
		feats := seg.Features()
		if i == 0 {
			qStart, sStart = feats[0].Start(), feats[1].Start()
		}
		qEnd, sEnd = feats[0].End(), feats[1].End()
		if sr, ok := seg.(scorer); ok {
			score += sr.Score()
		}
		qLen := feats[0].End() - feats[0].Start()
		sLen := feats[1].End() - feats[1].Start()
		switch {
		case qLen == 0 && sLen == 0:
		case qLen == sLen:
			for k := 0; k < qLen; k++ {
				if qSeq.Seq[feats[0].Start()+k] == sSeq.Seq[feats[1].Start()+k] {
					matches++
				} else {
					mismatches++
				}
			}
			alignLen += qLen
		default:
			gapOpens++
			gapLen := qLen
			if sLen > gapLen {
				gapLen = sLen
			}
			alignLen += gapLen
		}
	}
	return Result{
		QueryStart: int64(qStart), QueryEnd: int64(qEnd),
		SubjectStart: int64(sStart), SubjectEnd: int64(sEnd),
		Score: score, Matches: matches, Mismatches: mismatches,
		GapOpens: gapOpens, AlignLen: alignLen,
	}
}

func toLetters(codes []gphalpha.Code, protein bool) *linear.Seq {
	letters := make(alphabet.Letters, len(codes))
	for i, c := range codes {
		if protein {
			letters[i] = alphabet.Letter(gphalpha.DecodeAa(c))
		} else {
			letters[i] = alphabet.Letter(gphalpha.DecodeNt(c))
		}
	}
	alpha := alphabet.Alphabet(alphabet.DNAgapped)
	if protein {
		alpha = alphabet.Protein
	}
	return linear.NewSeq("", letters, alpha)
}

func makeTable(sc Scoring) align.SW {
	alpha := alphabet.Alphabet(alphabet.DNAgapped)
	if sc.Protein {
		alpha = alphabet.Protein
	}
	sw := make(align.SW, alpha.Len())
	for i := range sw {
		row := make([]int, alpha.Len())
		for j := range row {
			row[j] = sc.Mismatch
		}
		row[i] = sc.Match
		sw[i] = row
	}
	for i := range sw {
		sw[0][i] = sc.Gap
		sw[i][0] = sc.Gap
	}
	return sw
}
