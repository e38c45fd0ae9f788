// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blastfmt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/biogo/external"

	"github.com/kortschak/gophast/internal/seqstore"
)

// MaskCmd invokes an external low-complexity masker (a dustmasker/
// segmasker-style binary) to produce the interval data that gophast-index
// stores in the DB.masks artifact, generalizing the teacher's MakeDB/
// Nucleic struct-tag command builders (blast/blast.go) from a BLAST+
// wrapper to this project's indexer-construction masker wrapper. Index
// construction is the one place spec §1 allows shelling out to an
// external collaborator.
type MaskCmd struct {
	// Usage: <masker> -in <file> -outfmt interval -out <file>
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}dustmasker{{end}}"`

	In        string `buildarg:"{{with .}}-in{{split}}{{.}}{{end}}"`
	Out       string `buildarg:"{{with .}}-out{{split}}{{.}}{{end}}"`
	OutFormat string `buildarg:"{{if .}}-outfmt{{split}}{{.}}{{end}}"`
	Window    int    `buildarg:"{{if .}}-window{{split}}{{.}}{{end}}"`
	Level     int    `buildarg:"{{if .}}-level{{split}}{{.}}{{end}}"`

	// ExtraFlags is passed through to the masker binary as additional
	// flags.
	ExtraFlags string
}

// BuildCommand constructs the *exec.Cmd for this invocation using
// biogo/external's struct-tag reflection, the same mechanism the
// teacher's MakeDB/Nucleic types use.
func (m MaskCmd) BuildCommand() (*exec.Cmd, error) {
	if m.In == "" {
		return nil, errors.New("masker: missing input filename")
	}
	if m.Out == "" {
		return nil, errors.New("masker: missing output filename")
	}
	cl := external.Must(external.Build(m))
	return exec.Command(cl[0], cl[1:]...), nil
}

// ParseIntervalMasks parses a dustmasker/segmasker "-outfmt interval"
// stream — ">seqid" header lines followed by "start - end" interval lines,
// one block per sequence — into Mask values addressed by the sequence's
// position in names, the order gophast-index appended entries to the
// subject store.
func ParseIntervalMasks(r io.Reader, names []string) ([]seqstore.Mask, error) {
	index := make(map[string]int, len(names))
	for i, n := range names {
		index[n] = i
	}

	var out []seqstore.Mask
	entry := -1
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			name := strings.TrimSpace(strings.TrimPrefix(line, ">"))
			id, ok := index[name]
			if !ok {
				return nil, fmt.Errorf("blastfmt: masker interval output names unknown sequence %q", name)
			}
			entry = id
			continue
		}
		if entry < 0 {
			return nil, fmt.Errorf("blastfmt: masker interval line before any >seqid header: %q", line)
		}
		fields := strings.Fields(line)
		if len(fields) != 3 || fields[1] != "-" {
			return nil, fmt.Errorf("blastfmt: malformed masker interval line: %q", line)
		}
		start, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("blastfmt: masker interval start: %w", err)
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("blastfmt: masker interval end: %w", err)
		}
		out = append(out, seqstore.Mask{Entry: entry, Start: start, End: end + 1})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("blastfmt: scan masker interval output: %w", err)
	}
	return out, nil
}
