// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config declares the flat Options struct and flag.FlagSet wiring
// shared by the three gophast binaries, following the teacher's
// cmd/ins/main.go style of collecting a flat set of flag.* declarations
// into one struct rather than a nested configuration object (spec §6
// "External interfaces: CLI surface").
package config

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/kortschak/gophast/internal/alphabet"
)

// Program names the five supported BLAST programs (spec §6 "-p
// {blastn,blastp,blastx,tblastn,tblastx}").
type Program string

const (
	BlastN  Program = "blastn"
	BlastP  Program = "blastp"
	BlastX  Program = "blastx"
	TBlastN Program = "tblastn"
	TBlastX Program = "tblastx"
)

// Options holds every searcher flag, the gophast analogue of the
// teacher's blastnModes/blast.Nucleic preset maps, but populated directly
// from flags since gophast has no external blastn process to configure.
type Options struct {
	Query    string
	Database string
	Program  Program

	SeedLength int
	Stride     int
	MaxDist    int // Hamming budget for approximate seed search
	IndexKind  string // "sa" or "fm", spec §6 "-di {sa,fm}"

	Match, Mismatch, Gap int
	XDrop                 int
	Band                  int // literal band width, or -1/-2/-3 per spec §4.G

	EValueCutoff   float64
	PctIdentMin    float64
	MaxMatches     int
	AbundanceLimit float64

	GeneticCode alphabet.GeneticCode

	OutFormat  string // "m8", "m9", "m0"
	Out        string
	Threads    int
	QueryPart  int // double-indexing query block count, spec SPEC_FULL §4
	CachePath  string
	Verbosity  int
}

// sliceValue is a repeatable string flag, taken directly from the
// teacher's cmd/ins/main.go sliceValue type.
type sliceValue []string

func (s *sliceValue) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func (s *sliceValue) String() string {
	return fmt.Sprintf("%q", []string(*s))
}

// Parse builds an Options from args using a flag.FlagSet named prog,
// following the teacher's flat-flags-plus-custom-Usage pattern.
func Parse(prog string, args []string) (*Options, error) {
	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	opt := &Options{}

	fs.StringVar(&opt.Query, "query", "", "query sequence file (required)")
	fs.StringVar(&opt.Database, "db", "", "gophast database prefix (required)")
	program := fs.String("p", "blastn", "program: blastn, blastp, blastx, tblastn, tblastx")

	fs.IntVar(&opt.SeedLength, "word_size", 11, "seed length")
	fs.IntVar(&opt.Stride, "stride", 1, "seed stride")
	fs.IntVar(&opt.MaxDist, "max_dist", 0, "seed Hamming mismatch budget")
	fs.StringVar(&opt.IndexKind, "di", "sa", "index kind: sa or fm")

	fs.IntVar(&opt.Match, "reward", 2, "match score")
	fs.IntVar(&opt.Mismatch, "penalty", -3, "mismatch score")
	fs.IntVar(&opt.Gap, "gapopen", -5, "gap penalty")
	fs.IntVar(&opt.XDrop, "xdrop_gap", 30, "X-drop threshold")
	fs.IntVar(&opt.Band, "band", -3, "extension band width, or -1 (full DP), -2, -3 (derived)")

	fs.Float64Var(&opt.EValueCutoff, "evalue", 10, "E-value cutoff")
	fs.Float64Var(&opt.PctIdentMin, "perc_identity", 0, "minimum percent identity")
	fs.IntVar(&opt.MaxMatches, "max_target_seqs", 500, "maximum matches per query")
	fs.Float64Var(&opt.AbundanceLimit, "abundance_factor", 0, "putative-abundance cap factor (0 disables)")

	geneticCode := fs.Int("g", 1, "NCBI genetic code for translation")

	fs.StringVar(&opt.OutFormat, "outfmt", "m8", "output format: m8, m9, m0")
	fs.StringVar(&opt.Out, "out", "", "output file (default stdout)")
	fs.IntVar(&opt.Threads, "num_threads", runtime.NumCPU(), "worker count (<=0 uses all cores)")
	fs.IntVar(&opt.QueryPart, "qp", 1, "double-indexing query partition count")
	fs.StringVar(&opt.CachePath, "cache", "", "length-adjustment kv cache path (default in-memory only)")
	fs.IntVar(&opt.Verbosity, "v", 0, "log verbosity 0, 1, or 2")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage of %s:\n", prog)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opt.Program = Program(*program)
	opt.GeneticCode = alphabet.GeneticCode(*geneticCode)

	if opt.Query == "" || opt.Database == "" {
		fs.Usage()
		return nil, fmt.Errorf("config: -query and -db are required")
	}
	switch opt.Program {
	case BlastN, BlastP, BlastX, TBlastN, TBlastX:
	default:
		return nil, fmt.Errorf("config: unknown program %q", opt.Program)
	}
	switch opt.IndexKind {
	case "sa", "fm":
	default:
		return nil, fmt.Errorf("config: unknown index kind %q", opt.IndexKind)
	}
	if opt.Threads <= 0 {
		opt.Threads = runtime.NumCPU()
	}
	return opt, nil
}

// ExitUsage prints a usage error and exits with the code spec §6 assigns
// to invalid invocation (2), matching the teacher's os.Exit(2)-on-bad-
// input convention.
func ExitUsage(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(2)
}
