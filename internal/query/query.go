// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package query ingests FASTA/FASTQ query sequences and produces the
// translated frame set a given BLAST program operates over (spec §4.C
// "Query preparer"): BlastN searches both strands of the raw nucleotide
// sequence, BlastX/TBlastX search all six reading frames translated to
// amino acid, and BlastP/TBlastN search the sequence (or its translation)
// as given.
package query

import (
	"fmt"
	"io"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/io/seqio/fastq"
	"github.com/biogo/biogo/seq/linear"

	gphalpha "github.com/kortschak/gophast/internal/alphabet"
)

// Program selects which frame set a query is prepared into.
type Program int

const (
	BlastN Program = iota
	BlastP
	BlastX
	TBlastN
	TBlastX
)

// Frame is one translated or strand-adjusted view of a query record,
// carried alongside enough bookkeeping to map a hit position found in
// frame coordinates back to the original, untranslated query coordinates
// (spec §4.C, §4.I "coordinates are always reported in original query
// space").
type Frame struct {
	FrameNum int8 // +1,+2,+3,-1,-2,-3 for six-frame; +1,-1 for BlastN; 0 for untranslated
	Codes    []gphalpha.Code
}

// Record is one query entry prepared into every frame its Program
// requires.
type Record struct {
	ID     string
	Desc   string
	Length int // length of the untranslated, original-strand sequence
	Frames []Frame
}

// Store holds every prepared Record for a run, in input order and indexed
// by ID for O(1) Lookup (spec §4.C "ID store").
type Store struct {
	byID    map[string]*Record
	records []*Record
}

func NewStore() *Store {
	return &Store{byID: make(map[string]*Record)}
}

func (s *Store) add(r *Record) {
	s.byID[r.ID] = r
	s.records = append(s.records, r)
}

// Lookup returns the record with the given ID, or nil if absent.
func (s *Store) Lookup(id string) *Record { return s.byID[id] }

// Records returns every record added so far, in input order.
func (s *Store) Records() []*Record { return s.records }

// Read ingests every record from r in the given format ("fasta" or
// "fastq") and prepares it under prog, appending to store.
func Read(r io.Reader, format string, prog Program, code gphalpha.GeneticCode, store *Store) error {
	var sc seqio.Scanner
	switch format {
	case "fasta":
		sc = seqio.NewScanner(fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant)))
	case "fastq":
		sc = seqio.NewScanner(fastq.NewReader(r, linear.NewQSeq("", nil, alphabet.DNAredundant, alphabet.Sanger)))
	default:
		return fmt.Errorf("query: unknown format %q", format)
	}
	for sc.Next() {
		seq, ok := sc.Seq().(interface {
			Name() string
			Description() string
		})
		if !ok {
			return fmt.Errorf("query: unexpected sequence type %T", sc.Seq())
		}
		raw, err := residues(sc.Seq())
		if err != nil {
			return err
		}
		rec := &Record{ID: seq.Name(), Desc: seq.Description(), Length: len(raw)}
		rec.Frames = prepare(raw, prog, code)
		store.add(rec)
	}
	if err := sc.Error(); err != nil {
		return fmt.Errorf("query: read: %w", err)
	}
	return nil
}

// residues extracts raw nucleotide codes from a biogo sequence, independent
// of its concrete letter type.
func residues(s seqio.Sequence) ([]gphalpha.Code, error) {
	seq, ok := s.(*linear.Seq)
	if !ok {
		qseq, ok := s.(*linear.QSeq)
		if !ok {
			return nil, fmt.Errorf("query: unsupported sequence type %T", s)
		}
		out := make([]gphalpha.Code, len(qseq.Seq))
		for i, l := range qseq.Seq {
			out[i] = gphalpha.EncodeNt(byte(l.L))
		}
		return out, nil
	}
	out := make([]gphalpha.Code, len(seq.Seq))
	for i, l := range seq.Seq {
		out[i] = gphalpha.EncodeNt(byte(l))
	}
	return out, nil
}

func prepare(raw []gphalpha.Code, prog Program, code gphalpha.GeneticCode) []Frame {
	switch prog {
	case BlastN:
		return []Frame{
			{FrameNum: 1, Codes: raw},
			{FrameNum: -1, Codes: gphalpha.ReverseComplement(raw)},
		}
	case BlastP:
		return []Frame{{FrameNum: 0, Codes: raw}}
	case BlastX, TBlastX:
		return sixFrames(raw, code)
	case TBlastN:
		return []Frame{{FrameNum: 0, Codes: raw}}
	default:
		return []Frame{{FrameNum: 0, Codes: raw}}
	}
}

// sixFrames translates raw in all three forward reading frames and all
// three reverse-complement reading frames (spec §4.C "six-frame
// translation").
func sixFrames(raw []gphalpha.Code, code gphalpha.GeneticCode) []Frame {
	rc := gphalpha.ReverseComplement(raw)
	frames := make([]Frame, 0, 6)
	for f := 0; f < 3; f++ {
		frames = append(frames, Frame{FrameNum: int8(f + 1), Codes: translateFrame(raw, f, code)})
	}
	for f := 0; f < 3; f++ {
		frames = append(frames, Frame{FrameNum: int8(-(f + 1)), Codes: translateFrame(rc, f, code)})
	}
	return frames
}

func translateFrame(nt []gphalpha.Code, offset int, code gphalpha.GeneticCode) []gphalpha.Code {
	n := (len(nt) - offset) / 3
	if n < 0 {
		n = 0
	}
	out := make([]gphalpha.Code, n)
	for i := 0; i < n; i++ {
		base := offset + i*3
		out[i] = gphalpha.Translate(nt[base], nt[base+1], nt[base+2], code)
	}
	return out
}

// ToOriginal maps a position within a translated/strand-adjusted frame
// back to a 0-based offset in the original, untranslated query sequence,
// following the spec §4.C/§4.I invariant that reported coordinates are
// always in original query space.
func ToOriginal(framePos int, frameNum int8, queryLen int) int {
	switch {
	case frameNum == 1:
		return framePos
	case frameNum == -1:
		return queryLen - 1 - framePos
	case frameNum > 0:
		return int(frameNum-1) + framePos*3
	default:
		ntPos := int(-frameNum-1) + framePos*3
		return queryLen - 1 - ntPos
	}
}
