// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gophast-index builds the on-disk database a gophast searcher
// loads: a concat-direct sequence store, a suffix array index, and a
// masking interval file, which holds intervals from an external
// low-complexity masker when one is given and succeeds and is empty
// otherwise (spec §1 Non-goals: "the indexer is a thin, separate tool").
package main

import (
	"bufio"
	"encoding/gob"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	gphalpha "github.com/kortschak/gophast/internal/alphabet"
	"github.com/kortschak/gophast/internal/index"
	"github.com/kortschak/gophast/internal/seqstore"

	"github.com/kortschak/gophast/blastfmt"
)

func main() {
	in := flag.String("in", "", "input FASTA file (required)")
	out := flag.String("out", "", "output database prefix (required)")
	alpha := flag.String("alpha", "nt", "subject residue alphabet: nt or aa")
	maskBin := flag.String("masker", "", "external low-complexity masker binary (empty disables masking)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage of %s:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}
	var protein bool
	switch *alpha {
	case "nt":
	case "aa":
		protein = true
	default:
		log.Fatalf("unknown -alpha %q: want nt or aa", *alpha)
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatalf("opening input: %v", err)
	}
	defer f.Close()

	bioAlpha := alphabet.Alphabet(alphabet.DNAredundant)
	if protein {
		bioAlpha = alphabet.Protein
	}
	store := seqstore.New()
	sc := seqio.NewScanner(fasta.NewReader(f, linear.NewSeq("", nil, bioAlpha)))
	for sc.Next() {
		seq := sc.Seq().(*linear.Seq)
		codes := make([]gphalpha.Code, len(seq.Seq))
		for i, l := range seq.Seq {
			if protein {
				codes[i] = gphalpha.EncodeAa(byte(l))
			} else {
				codes[i] = gphalpha.EncodeNt(byte(l))
			}
		}
		store.Append(seq.Name(), codes)
	}
	if err := sc.Error(); err != nil {
		log.Fatalf("reading fasta: %v", err)
	}
	if err := store.Validate(); err != nil {
		log.Fatalf("invalid sequence store: %v", err)
	}

	sf, err := os.Create(*out + ".gob")
	if err != nil {
		log.Fatalf("creating subject store: %v", err)
	}
	if err := gob.NewEncoder(sf).Encode(store); err != nil {
		log.Fatalf("encoding subject store: %v", err)
	}
	sf.Close()

	idx := index.Build(store)
	suffix := "nt"
	if protein {
		suffix = "aa"
	}
	saf, err := os.Create(*out + "." + suffix + ".sa")
	if err != nil {
		log.Fatalf("creating suffix array: %v", err)
	}
	bw := bufio.NewWriter(saf)
	if err := idx.Write(bw); err != nil {
		log.Fatalf("writing suffix array: %v", err)
	}
	bw.Flush()
	saf.Close()

	var masks []seqstore.Mask
	if *maskBin != "" {
		masks = runMasker(*maskBin, *in, *out, store.Names)
	}
	mf, err := os.Create(*out + ".masks")
	if err != nil {
		log.Fatalf("creating masks artifact: %v", err)
	}
	if err := gob.NewEncoder(mf).Encode(masks); err != nil {
		log.Fatalf("encoding masks artifact: %v", err)
	}
	mf.Close()

	log.Printf("indexed %d sequences, %d residues, %d masked intervals", store.Len(), store.TotalLen(), len(masks))
}

// runMasker invokes an external low-complexity masker to produce masking
// intervals, the construction-time external collaborator named in spec
// §1, and parses its interval output back into Mask values. The database
// always carries a masks artifact (spec §6: its absence is IndexMissing at
// search time); failure to run or parse the masker is logged and yields no
// masks rather than aborting indexing, mirroring the teacher's pattern of
// treating masking as an optional refinement rather than a required step.
func runMasker(bin, in, out string, names []string) []seqstore.Mask {
	rawPath := out + ".masks.raw"
	cmd := blastfmt.MaskCmd{Cmd: bin, In: in, Out: rawPath, OutFormat: "interval"}
	c, err := cmd.BuildCommand()
	if err != nil {
		log.Printf("masker: %v (continuing with no masks)", err)
		return nil
	}
	if err := c.Run(); err != nil {
		log.Printf("masker run failed: %v (continuing with no masks)", err)
		return nil
	}
	raw, err := os.Open(rawPath)
	if err != nil {
		log.Printf("opening masker output: %v (continuing with no masks)", err)
		return nil
	}
	defer raw.Close()
	masks, err := blastfmt.ParseIntervalMasks(raw, names)
	if err != nil {
		log.Printf("parsing masker output: %v (continuing with no masks)", err)
		return nil
	}
	log.Printf("parsed %d masked intervals from %s", len(masks), rawPath)
	return masks
}
