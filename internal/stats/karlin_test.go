// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stats

import (
	"math"
	"testing"
)

func TestSolveLambdaSatisfiesEquation(t *testing.T) {
	d := ScoreDist{Scores: []int{2, -3}, Probs: []float64{0.25, 0.75}}
	lambda := SolveLambda(d)
	if lambda <= 0 {
		t.Fatalf("SolveLambda returned non-positive lambda: %v", lambda)
	}
	sum := 0.0
	for i, s := range d.Scores {
		sum += d.Probs[i] * math.Exp(lambda*float64(s))
	}
	if diff := sum - 1; diff > 1e-2 || diff < -1e-2 {
		t.Errorf("lambda=%.4f does not approximately satisfy sum p(s)e^(lambda s) = 1: got %.4f", lambda, sum)
	}
}

func TestBitScoreAndEValueFormulas(t *testing.T) {
	p := Params{Lambda: 0.2, K: 0.1, H: 0.5}
	raw := 50
	bs := BitScore(raw, p)
	want := (p.Lambda*float64(raw) - math.Log(p.K)) / math.Ln2
	if math.Abs(bs-want) > 1e-9 {
		t.Errorf("BitScore = %.12f, want %.12f", bs, want)
	}

	ev := EValue(raw, 1000, 100000, p)
	wantEV := p.K * 1000 * 100000 * math.Exp(-p.Lambda*float64(raw))
	if math.Abs(ev-wantEV) > 1e-9*math.Max(1, math.Abs(wantEV)) {
		t.Errorf("EValue = %.6g, want %.6g", ev, wantEV)
	}
}

func TestAdjustLengthConverges(t *testing.T) {
	p := Params{Lambda: 0.2, K: 0.1, H: 0.5}
	l := AdjustLength(1000, 1000000, p)
	if l < 0 {
		t.Errorf("AdjustLength returned negative adjustment: %d", l)
	}
	if l >= 1000 {
		t.Errorf("AdjustLength(%d) = %d, expected an adjustment smaller than the query length", 1000, l)
	}
}

func TestLengthCacheMemoizes(t *testing.T) {
	c := NewLengthCache()
	p := Params{Lambda: 0.2, K: 0.1, H: 0.5}
	a := c.Get(1000, 1000000, p)
	b := c.Get(1000, 1000000, p)
	if a != b {
		t.Errorf("LengthCache.Get not stable across calls: %d != %d", a, b)
	}
}
