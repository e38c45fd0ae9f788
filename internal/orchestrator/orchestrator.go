// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package orchestrator runs the seed-find-extend pipeline over a query
// set using a bounded worker pool whose workers write results directly
// through the shared, mutex-serialized report.Writer, and flushes partial
// output on SIGINT (spec §4.J
// "Orchestrator", §5 "Concurrency & resource model").
package orchestrator

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"

	"github.com/kortschak/gophast/internal/query"
	"github.com/kortschak/gophast/internal/report"
)

// Holder is a read-only view shared by every worker: the subject index,
// store, and masking intervals loaded once for the whole run (spec §4.J
// "a single global read-only holder is shared by every worker; a small
// per-worker local holder caches recently used index pages"). It is
// intentionally left as an opaque interface{} here: orchestrator knows
// nothing about its contents, only that it is handed unchanged to Work.
type Holder = interface{}

// Work is one unit of pipeline work: search, extend, and score a single
// query record (every one of its frames) against the shared holder, then
// report results through w.
type Work func(ctx context.Context, holder Holder, rec *query.Record, w *report.Writer, st *Stats)

// Stats accumulates run-wide progress counters, returned by Run to its
// caller (cmd/gophast does not log them), generalizing the teacher's
// log.Printf-based progress lines (cmd/ins/fragment.go's "begin tx for %d")
// into atomic counters safe for concurrent workers.
type Stats struct {
	Processed int64
	Matches   int64
}

func (s *Stats) addProcessed(n int64) { atomic.AddInt64(&s.Processed, n) }
func (s *Stats) AddMatches(n int64)   { atomic.AddInt64(&s.Matches, n) }

// Run launches up to workers goroutines consuming records, each calling
// fn with the shared holder, and returns once every record has been
// processed or the run is interrupted. SIGINT causes Run to stop
// dispatching new records, let in-flight workers finish their current
// record (so output is never written mid-record), flush w, and return
// early rather than losing already-computed results — the spec §4.J
// "flush-and-exit" behavior, grounded on the teacher's sigChan/os.Exit
// pattern (compress/main.go) but adapted to return cleanly instead of
// exiting the process, so callers can still close resources.
func Run(workers int, records []*query.Record, holder Holder, w *report.Writer, logger *log.Logger, fn Work) *Stats {
	if workers <= 0 {
		workers = 1
	}
	st := &Stats{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Print("interrupt received, finishing in-flight work and flushing output")
			cancel()
		case <-ctx.Done():
		}
	}()

	jobs := make(chan *query.Record)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for rec := range jobs {
				fn(ctx, holder, rec, w, st)
				st.addProcessed(1)
			}
		}()
	}

dispatch:
	for _, rec := range records {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- rec:
		}
	}
	close(jobs)
	wg.Wait()

	if err := w.Flush(); err != nil {
		logger.Printf("error flushing output: %v", err)
	}
	return st
}

// Leveled wraps logger so callers can gate messages behind the -v
// verbosity levels named in spec §6 without swapping logging libraries,
// following the teacher's plain *log.Logger usage throughout cmd/ins.
type Leveled struct {
	*log.Logger
	Level int
}

// Printf logs msg only if Level >= at.
func (l *Leveled) Printf(at int, format string, args ...interface{}) {
	if l.Level >= at {
		l.Logger.Printf(format, args...)
	}
}
