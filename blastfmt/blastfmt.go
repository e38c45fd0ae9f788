// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blastfmt defines the BlastMatch/BlastRecord report types and
// (de)serializes them to and from the BLAST tabular formats (spec §4.I
// "Reporter", §6 ".m8"/".m9"), generalizing the teacher's blast.Record and
// blast.ParseTabular (blast/blast.go) from a post-hoc parser of an
// external blastn process's output into this project's own report writer
// and a compatibility reader for round-tripping .m8 files.
package blastfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// BlastMatch is a single reported alignment, the closed column set named
// in spec §4.I.
type BlastMatch struct {
	QueryID         string
	SubjectID       string
	PctIdentity     float64
	AlignmentLength int
	Mismatches      int
	GapOpens        int
	QueryStart      int
	QueryEnd        int
	SubjectStart    int
	SubjectEnd      int
	EValue          float64
	BitScore        float64
}

// BlastRecord groups every BlastMatch produced for one query, the unit
// the .m9 format's per-query comment blocks are written around.
type BlastRecord struct {
	QueryID string
	Matches []BlastMatch
}

// Columns is the fixed column order of the tabular (.m8/.m9) format.
var Columns = [...]string{
	"qseqid", "sseqid", "pident", "length", "mismatch", "gapopen",
	"qstart", "qend", "sstart", "send", "evalue", "bitscore",
}

// WriteTabular writes matches in BLAST tabular format 6 (.m8: no header or
// comments) or format 7 (.m9: a "# Fields:" comment block per query) to w.
func WriteTabular(w io.Writer, records []BlastRecord, commented bool) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if commented {
			fmt.Fprintf(bw, "# Query: %s\n", rec.QueryID)
			fmt.Fprintf(bw, "# Fields: %s\n", strings.Join(Columns[:], ", "))
			fmt.Fprintf(bw, "# %d hits found\n", len(rec.Matches))
		}
		for _, m := range rec.Matches {
			fmt.Fprintf(bw, "%s\t%s\t%.2f\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%.2g\t%.1f\n",
				m.QueryID, m.SubjectID, m.PctIdentity, m.AlignmentLength,
				m.Mismatches, m.GapOpens, m.QueryStart, m.QueryEnd,
				m.SubjectStart, m.SubjectEnd, m.EValue, m.BitScore)
		}
	}
	return bw.Flush()
}

// ParseTabular reads a .m8/.m9 stream back into BlastMatch values,
// skipping comment lines, generalized from blast.ParseTabular's column
// layout and error handling (blast/blast.go) to this project's own field
// names. It is a compatibility reader for WriteTabular's output; none of
// the gophast binaries call it.
func ParseTabular(r io.Reader) ([]BlastMatch, error) {
	const numFields = 12
	var out []BlastMatch
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != numFields {
			return nil, fmt.Errorf("blastfmt: bad record (%d fields): %q", len(fields), line)
		}
		m, err := parseFields(fields)
		if err != nil {
			return nil, fmt.Errorf("blastfmt: %w: %q", err, line)
		}
		out = append(out, m)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("blastfmt: scan: %w", err)
	}
	return out, nil
}

func parseFields(f []string) (BlastMatch, error) {
	var m BlastMatch
	var err error
	m.QueryID = f[0]
	m.SubjectID = f[1]
	if m.PctIdentity, err = strconv.ParseFloat(f[2], 64); err != nil {
		return m, err
	}
	if m.AlignmentLength, err = strconv.Atoi(f[3]); err != nil {
		return m, err
	}
	if m.Mismatches, err = strconv.Atoi(f[4]); err != nil {
		return m, err
	}
	if m.GapOpens, err = strconv.Atoi(f[5]); err != nil {
		return m, err
	}
	if m.QueryStart, err = strconv.Atoi(f[6]); err != nil {
		return m, err
	}
	if m.QueryEnd, err = strconv.Atoi(f[7]); err != nil {
		return m, err
	}
	if m.SubjectStart, err = strconv.Atoi(f[8]); err != nil {
		return m, err
	}
	if m.SubjectEnd, err = strconv.Atoi(f[9]); err != nil {
		return m, err
	}
	if m.EValue, err = strconv.ParseFloat(f[10], 64); err != nil {
		return m, err
	}
	if m.BitScore, err = strconv.ParseFloat(f[11], 64); err != nil {
		return m, err
	}
	return m, nil
}
