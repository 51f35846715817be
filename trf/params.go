// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trf

import (
	"fmt"
	"math"

	"github.com/emer/mtrf/cov"
	"github.com/emer/mtrf/eval"
	"github.com/emer/mtrf/lags"
	"github.com/emer/mtrf/reg"
)

// Params are the parameters of a TRF run.  They are validated once, in
// full, before any covariance work is done, and are read-only thereafter.
type Params struct {
	SRate      float64         `def:"128" min:"0" desc:"sampling rate of all signals, in Hz"`
	TMin       float64         `def:"0" desc:"minimum time lag, in msec"`
	TMax       float64         `def:"250" desc:"maximum time lag, in msec -- must be >= TMin"`
	Dir        lags.Directions `desc:"Forward predicts the response from the stimulus, Backward reconstructs the stimulus from the response"`
	Lambdas    []float64       `desc:"regularization strengths to cross-validate -- all must be >= 0"`
	ObsDim     int             `def:"1" min:"1" max:"2" desc:"dimension of the trial matrices that indexes observations: 1 = rows, 2 = columns (matrices are transposed on input)"`
	Method     reg.Methods     `desc:"regularization method -- OLS forces every lambda to 0"`
	Type       cov.ModelTypes  `desc:"MultiLag fits one model over all lags, SingleLag fits one model per lag"`
	Acc        eval.AccMetrics `desc:"accuracy metric for predictions"`
	Err        eval.ErrMetrics `desc:"error metric for predictions"`
	Split      int             `def:"1" min:"1" desc:"number of contiguous segments each trial is divided into -- each segment is a cross-validation fold"`
	ZeroPad    bool            `def:"true" desc:"zero-pad the edges of each trial, preserving the observation count -- otherwise edge rows are truncated"`
	Strategy   cov.Strategies  `desc:"Eager stores the covariance of every segment (fast, more memory), Lazy recomputes left-out segments (slower, less memory)"`
	NThreads   int             `def:"1" min:"1" desc:"number of parallel threads (go routines) over folds"`
	LSFallback bool            `def:"false" desc:"use a least-squares solution for singular systems instead of marking the cell NaN"`
	Verbose    bool            `def:"false" desc:"log progress and covariance memory use"`
}

func (pr *Params) Defaults() {
	pr.SRate = 128
	pr.TMin = 0
	pr.TMax = 250
	pr.Dir = lags.Forward
	pr.Lambdas = []float64{1}
	pr.ObsDim = 1
	pr.Method = reg.Ridge
	pr.Type = cov.MultiLag
	pr.Acc = eval.Pearson
	pr.Err = eval.MSE
	pr.Split = 1
	pr.ZeroPad = true
	pr.Strategy = cov.Eager
	pr.NThreads = 1
	pr.LSFallback = false
	pr.Verbose = false
}

// Update fills in derived defaults
func (pr *Params) Update() {
	if pr.NThreads < 1 {
		pr.NThreads = 1
	}
	if pr.ObsDim == 0 {
		pr.ObsDim = 1
	}
}

// Edge returns the lag embedding edge policy
func (pr *Params) Edge() lags.Edges {
	if pr.ZeroPad {
		return lags.ZeroPad
	}
	return lags.Truncate
}

// LagSet returns the lag set in samples
func (pr *Params) LagSet() []int {
	return lags.FromWindow(pr.TMin, pr.TMax, pr.SRate, pr.Dir)
}

// Config returns the covariance configuration shared by every segment
func (pr *Params) Config() *cov.Config {
	return &cov.Config{Lags: pr.LagSet(), Type: pr.Type, Edge: pr.Edge()}
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("trf: "+format+": %w", append(args, ErrInvalidParameter)...)
}

// Validate returns an error wrapping ErrInvalidParameter if any parameter is out of range
func (pr *Params) Validate() error {
	if !(pr.SRate > 0) || math.IsInf(pr.SRate, 0) {
		return invalid("sampling rate %g must be > 0", pr.SRate)
	}
	if math.IsNaN(pr.TMin) || math.IsNaN(pr.TMax) || pr.TMin > pr.TMax {
		return invalid("tmin %g must be <= tmax %g", pr.TMin, pr.TMax)
	}
	if len(pr.Lambdas) == 0 {
		return invalid("no regularization strengths")
	}
	for i, l := range pr.Lambdas {
		if !(l >= 0) || math.IsInf(l, 0) {
			return invalid("lambda %d = %g must be finite and >= 0", i, l)
		}
	}
	if pr.ObsDim != 1 && pr.ObsDim != 2 {
		return invalid("observation dimension %d must be 1 or 2", pr.ObsDim)
	}
	if pr.Dir < 0 || pr.Dir >= lags.DirectionsN {
		return invalid("direction %d", int(pr.Dir))
	}
	if pr.Method < 0 || pr.Method >= reg.MethodsN {
		return fmt.Errorf("trf: method %d: %w: %w", int(pr.Method), ErrInvalidParameter, reg.ErrInvalidMethod)
	}
	if pr.Type < 0 || pr.Type >= cov.ModelTypesN {
		return invalid("model type %d", int(pr.Type))
	}
	if pr.Acc < 0 || pr.Acc >= eval.AccMetricsN {
		return invalid("accuracy metric %d", int(pr.Acc))
	}
	if pr.Err < 0 || pr.Err >= eval.ErrMetricsN {
		return invalid("error metric %d", int(pr.Err))
	}
	if pr.Strategy < 0 || pr.Strategy >= cov.StrategiesN {
		return invalid("accumulation strategy %d", int(pr.Strategy))
	}
	if pr.Split < 1 {
		return invalid("split %d must be >= 1", pr.Split)
	}
	if pr.NThreads < 1 {
		return invalid("threads %d must be >= 1", pr.NThreads)
	}
	return nil
}
