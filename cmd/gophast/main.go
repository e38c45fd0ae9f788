// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command gophast searches a query sequence file against a prebuilt
// gophast database, reporting local alignments in BLAST tabular or
// pairwise format (spec §6 "External interfaces").
package main

import (
	"context"
	"encoding/gob"
	"fmt"
	"log"
	"os"

	"github.com/kortschak/gophast/internal/alphabet"
	"github.com/kortschak/gophast/internal/config"
	"github.com/kortschak/gophast/internal/extend"
	"github.com/kortschak/gophast/internal/hitpipe"
	"github.com/kortschak/gophast/internal/index"
	"github.com/kortschak/gophast/internal/orchestrator"
	"github.com/kortschak/gophast/internal/query"
	"github.com/kortschak/gophast/internal/report"
	"github.com/kortschak/gophast/internal/seed"
	"github.com/kortschak/gophast/internal/seqstore"
	"github.com/kortschak/gophast/internal/stats"

	"github.com/kortschak/gophast/blastfmt"
)

// exit codes, spec §6.
const (
	exitOK           = 0
	exitUsage        = 2
	exitIndexMissing = 3
	exitRuntime      = 1
)

func main() {
	opt, err := config.Parse("gophast", os.Args[1:])
	if err != nil {
		config.ExitUsage(err)
	}

	logger := log.New(os.Stderr, "gophast: ", log.LstdFlags)

	store, err := loadSubjectStore(opt.Database)
	if err != nil {
		logger.Printf("%v", err)
		os.Exit(exitIndexMissing)
	}

	if opt.IndexKind == "fm" {
		logger.Print("fm index kind requested but not built by gophast-index; falling back to sa")
	}
	idx, err := index.Open(opt.Database+"."+alphKind(opt)+".sa", store)
	if err != nil {
		logger.Printf("%v", err)
		os.Exit(exitIndexMissing)
	}
	defer idx.Close()

	masks, err := loadMasks(opt.Database)
	if err != nil {
		logger.Printf("%v", err)
		os.Exit(exitIndexMissing)
	}

	qf, err := os.Open(opt.Query)
	if err != nil {
		logger.Printf("error opening query: %v", err)
		os.Exit(exitRuntime)
	}
	defer qf.Close()

	qStore := query.NewStore()
	prog := programFor(opt.Program)
	if err := query.Read(qf, "fasta", prog, opt.GeneticCode, qStore); err != nil {
		logger.Printf("error reading query: %v", err)
		os.Exit(exitRuntime)
	}

	out := os.Stdout
	if opt.Out != "" {
		f, err := os.Create(opt.Out)
		if err != nil {
			logger.Printf("error creating output: %v", err)
			os.Exit(exitRuntime)
		}
		defer f.Close()
		out = f
	}
	var format report.Format
	switch opt.OutFormat {
	case "m8":
		format = report.Tabular
	case "m9":
		format = report.Commented
	case "m0":
		format = report.Pairwise
	default:
		logger.Printf("unknown output format %q", opt.OutFormat)
		os.Exit(exitUsage)
	}
	writer := report.NewWriter(out, format)

	var cache *stats.LengthCache
	if opt.CachePath != "" {
		cache, err = stats.OpenLengthCache(opt.CachePath)
		if err != nil {
			logger.Printf("%v", err)
			os.Exit(exitRuntime)
		}
		defer cache.Close()
	} else {
		cache = stats.NewLengthCache()
	}

	holder := &searchHolder{
		store:  store,
		idx:    idx,
		masks:  masks,
		opt:    opt,
		cache:  cache,
		karlin: estimateParams(opt),
	}

	work := func(ctx context.Context, h orchestrator.Holder, rec *query.Record, w *report.Writer, st *orchestrator.Stats) {
		hd := h.(*searchHolder)
		searchOne(hd, rec, w, st)
	}

	orchestrator.Run(opt.Threads, qStore.Records(), holder, writer, logger, work)

	os.Exit(exitOK)
}

type searchHolder struct {
	store  *seqstore.Store
	idx    *index.Index
	masks  *seqstore.MaskTree
	opt    *config.Options
	cache  *stats.LengthCache
	karlin stats.Params
}

func alphKind(opt *config.Options) string {
	switch opt.Program {
	case config.BlastP, config.BlastX, config.TBlastN, config.TBlastX:
		return "aa"
	default:
		return "nt"
	}
}

func programFor(p config.Program) query.Program {
	switch p {
	case config.BlastP:
		return query.BlastP
	case config.BlastX:
		return query.BlastX
	case config.TBlastN:
		return query.TBlastN
	case config.TBlastX:
		return query.TBlastX
	default:
		return query.BlastN
	}
}

func loadSubjectStore(dbPrefix string) (*seqstore.Store, error) {
	f, err := os.Open(dbPrefix + ".gob")
	if err != nil {
		return nil, fmt.Errorf("opening subject store: %w", err)
	}
	defer f.Close()
	s := seqstore.New()
	if err := gob.NewDecoder(f).Decode(s); err != nil {
		return nil, fmt.Errorf("decoding subject store: %w", err)
	}
	return s, nil
}

// loadMasks loads the masking intervals artifact. Per spec §6, "DB.binseg_s
// and DB.binseg_e" (here a single "DB.masks" gob) are required database
// artifacts: their absence is an IndexMissing failure, not a silent
// unmasked run.
func loadMasks(dbPrefix string) (*seqstore.MaskTree, error) {
	f, err := os.Open(dbPrefix + ".masks")
	if err != nil {
		return nil, fmt.Errorf("%w: %s.masks", index.ErrIndexMissing, dbPrefix)
	}
	defer f.Close()
	var masks []seqstore.Mask
	if err := gob.NewDecoder(f).Decode(&masks); err != nil {
		return nil, fmt.Errorf("%w: decoding %s.masks: %v", index.ErrIndexIncompatible, dbPrefix, err)
	}
	return seqstore.NewMaskTree(masks), nil
}

func estimateParams(opt *config.Options) stats.Params {
	dist := stats.ScoreDist{
		Scores: []int{opt.Match, opt.Mismatch},
		Probs:  []float64{0.25, 0.75},
	}
	lambda := stats.SolveLambda(dist)
	return stats.ComputeKH(lambda, dist)
}

func searchOne(h *searchHolder, rec *query.Record, w *report.Writer, st *orchestrator.Stats) {
	out := blastfmt.BlastRecord{QueryID: rec.ID}
	scoring := extend.Scoring{Match: h.opt.Match, Mismatch: h.opt.Mismatch, Gap: h.opt.Gap, XDrop: h.opt.XDrop, Protein: alphKind(h.opt) == "aa"}
	policy := extend.Policy{Band: h.opt.Band}

	for _, fr := range rec.Frames {
		seeds := seed.Generate(fr.Codes, h.opt.SeedLength, h.opt.Stride, seedScheme(h.opt))
		var matches []hitpipe.Match
		for _, s := range seeds {
			hits := h.idx.Search(s.Codes, h.opt.MaxDist)
			for _, hit := range hits {
				entry := h.store.EntryAt(hit.Pos)
				start, _ := h.store.Bounds(entry)
				local := hit.Pos - start
				if h.masks.Contains(entry, local, local+int64(h.opt.SeedLength)) {
					continue
				}
				matches = append(matches, hitpipe.Match{
					QueryID: rec.ID, FrameNum: fr.FrameNum, SubjectID: entry,
					QueryStart: int64(s.Offset), SubjectStart: local,
					Length: int64(h.opt.SeedLength), Mismatches: hit.Mismatches,
					Diagonal: local - int64(s.Offset),
				})
			}
		}
		if len(matches) == 0 {
			continue
		}
		hitpipe.Sort(matches)
		matches = hitpipe.Merge(matches, int64(h.opt.SeedLength))
		matches = hitpipe.AbundanceFilter(matches, h.opt.AbundanceLimit)

		for _, m := range matches {
			subjectSeq := h.store.Sequence(m.SubjectID)
			res := extend.Extend(fr.Codes, subjectSeq, m.QueryStart, m.SubjectStart, int(m.Length), scoring, policy)
			if res.Score <= 0 {
				st.AddMatches(0)
				continue
			}
			// Altschul-Gish length adjustment (spec §4.H): ell is computed
			// once per (m, N, n) triple, then m' = m - ell and n' = n -
			// numSubjects*ell, each floored at 1.
			ell := h.cache.Get(int64(rec.Length), h.store.TotalLen(), h.karlin)
			effM := int64(rec.Length) - ell
			if effM < 1 {
				effM = 1
			}
			effN := h.store.TotalLen() - int64(h.store.Len())*ell
			if effN < 1 {
				effN = 1
			}
			ev := stats.EValue(res.Score, effM, effN, h.karlin)
			if ev > h.opt.EValueCutoff {
				st.AddMatches(0)
				continue
			}
			pctIdentity := 0.0
			if res.AlignLen > 0 {
				pctIdentity = 100 * float64(res.Matches) / float64(res.AlignLen)
			}
			if pctIdentity < h.opt.PctIdentMin {
				st.AddMatches(0)
				continue
			}
			bs := stats.BitScore(res.Score, h.karlin)
			qStart := query.ToOriginal(int(res.QueryStart), fr.FrameNum, rec.Length)
			qEnd := query.ToOriginal(int(res.QueryEnd)-1, fr.FrameNum, rec.Length)
			out.Matches = append(out.Matches, blastfmt.BlastMatch{
				QueryID: rec.ID, SubjectID: h.store.Names[m.SubjectID],
				PctIdentity:     pctIdentity,
				AlignmentLength: res.AlignLen,
				Mismatches:      res.Mismatches,
				GapOpens:        res.GapOpens,
				QueryStart:      qStart, QueryEnd: qEnd,
				SubjectStart: int(res.SubjectStart), SubjectEnd: int(res.SubjectEnd),
				EValue: ev, BitScore: bs,
			})
			st.AddMatches(1)
		}
	}
	if len(out.Matches) > h.opt.MaxMatches {
		report.Order(out.Matches)
		out.Matches = out.Matches[:h.opt.MaxMatches]
	}
	if len(out.Matches) > 0 {
		w.WriteRecord(out)
	}
}

func seedScheme(opt *config.Options) alphabet.Alphabet {
	switch opt.Program {
	case config.BlastP, config.BlastX, config.TBlastN, config.TBlastX:
		return alphabet.Murphy10
	default:
		return alphabet.DNA5
	}
}
