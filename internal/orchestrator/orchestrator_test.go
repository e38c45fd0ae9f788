// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package orchestrator

import (
	"bytes"
	"context"
	"io/ioutil"
	"log"
	"sync/atomic"
	"testing"

	"github.com/kortschak/gophast/internal/query"
	"github.com/kortschak/gophast/internal/report"
)

func records(n int) []*query.Record {
	recs := make([]*query.Record, n)
	for i := range recs {
		recs[i] = &query.Record{ID: string(rune('a' + i))}
	}
	return recs
}

func TestRunProcessesEveryRecordExactlyOnce(t *testing.T) {
	var buf bytes.Buffer
	w := report.NewWriter(&buf, report.Tabular)
	logger := log.New(ioutil.Discard, "", 0)

	var seen int64
	fn := func(ctx context.Context, h Holder, rec *query.Record, w *report.Writer, st *Stats) {
		atomic.AddInt64(&seen, 1)
	}

	st := Run(4, records(50), nil, w, logger, fn)
	if seen != 50 {
		t.Fatalf("processed %d records, want 50", seen)
	}
	if st.Processed != 50 {
		t.Fatalf("Stats.Processed = %d, want 50", st.Processed)
	}
}

func TestRunDefaultsNonPositiveWorkersToOne(t *testing.T) {
	var buf bytes.Buffer
	w := report.NewWriter(&buf, report.Tabular)
	logger := log.New(ioutil.Discard, "", 0)

	fn := func(ctx context.Context, h Holder, rec *query.Record, w *report.Writer, st *Stats) {
		st.AddMatches(1)
	}
	st := Run(0, records(3), nil, w, logger, fn)
	if st.Matches != 3 {
		t.Fatalf("Stats.Matches = %d, want 3", st.Matches)
	}
}

func TestLeveledGatesOnVerbosity(t *testing.T) {
	var buf bytes.Buffer
	base := log.New(&buf, "", 0)
	l := &Leveled{Logger: base, Level: 1}

	l.Printf(2, "should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected no output at level 2 with Level=1, got %q", buf.String())
	}
	l.Printf(1, "should appear")
	if buf.Len() == 0 {
		t.Fatal("expected output at level 1 with Level=1")
	}
}
