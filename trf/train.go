// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trf

import (
	"fmt"

	"github.com/emer/mtrf/cov"
	"github.com/emer/mtrf/fit"
	"github.com/emer/mtrf/lags"
	"github.com/emer/mtrf/reg"
	"gonum.org/v1/gonum/mat"
)

// Model is a TRF fit over all trials of one stimulus / response pairing.
// W has one weight matrix per lag configuration: a single
// (1 + lags*inputs) x outputs matrix for MultiLag models, and one
// (1 + inputs) x outputs matrix per lag for SingleLag models.
// Row 0 of each weight matrix is the bias.
type Model struct {
	W      []*mat.Dense    `desc:"weights per lag configuration, bias in row 0"`
	Lags   []int           `desc:"lag set in samples"`
	T      []float64       `desc:"lag axis in msec"`
	Lambda float64         `desc:"regularization strength used (0 for OLS)"`
	Dir    lags.Directions `desc:"direction the model maps"`
	ObsDim int             `desc:"observation dimension of the inputs to Predict"`
	NIn    int             `desc:"number of input variables"`
	NOut   int             `desc:"number of output variables"`
	Cfg    *cov.Config     `desc:"lag embedding configuration"`
}

// Train fits a forward (stim -> resp) or backward (resp -> stim) model
// over all trials using the first value of pr.Lambdas.  Unlike AddCrossVal,
// there is no additive combination and the weights are not doubled.
func Train(stim, resp []*mat.Dense, pr *Params) (*Model, error) {
	pr.Update()
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	dt := (&Data{Stim: stim, Resp: resp}).Oriented(pr.ObsDim)
	if len(dt.Stim) == 0 {
		return nil, mismatch("no trials")
	}
	ns := make([]int, len(dt.Stim))
	for i, s := range dt.Stim {
		if s == nil {
			return nil, mismatch("stimulus trial %d is nil", i)
		}
		ns[i], _ = s.Dims()
	}
	if _, err := checkFamily("stimulus", dt.Stim, ns); err != nil {
		return nil, err
	}
	if _, err := checkFamily("response", dt.Resp, ns); err != nil {
		return nil, err
	}

	cfg := pr.Config()
	if len(cfg.Lags) == 0 {
		return nil, invalid("empty lag window %g..%g msec", pr.TMin, pr.TMax)
	}
	st := &cov.Stream{X: dt.Stim, Y: dt.Resp}
	if pr.Dir == lags.Backward {
		st = &cov.Stream{X: dt.Resp, Y: dt.Stim}
	}
	_, nv := st.X[0].Dims()
	_, no := st.Y[0].Dims()
	tot := cov.Total(st, Folds(ns, 1), cfg)

	M, err := reg.Operator(cfg.NFeatures(nv), 1/pr.SRate, pr.Method)
	if err != nil {
		return nil, fmt.Errorf("trf: %w: %w", ErrInvalidParameter, err)
	}
	lam := reg.Lambdas(pr.Method, pr.Lambdas[:1])[0]
	md := &Model{Lags: cfg.Lags, T: lags.Times(cfg.Lags, pr.SRate, pr.Dir), Lambda: lam,
		Dir: pr.Dir, ObsDim: pr.ObsDim, NIn: nv, NOut: no, Cfg: cfg}
	md.W = make([]*mat.Dense, tot.Len())
	for ci := range md.W {
		w, err := fit.Solve(tot.Cxx[ci], tot.Cxy[ci], lam, M)
		if err != nil {
			if !pr.LSFallback {
				return nil, fmt.Errorf("trf: Train lag config %d: %w", ci, err)
			}
			if w, err = fit.SolveLS(tot.Cxx[ci], tot.Cxy[ci], lam, M); err != nil {
				return nil, fmt.Errorf("trf: Train lag config %d: %w", ci, err)
			}
		}
		md.W[ci] = w
	}
	return md, nil
}

// Predict applies a MultiLag model to each input trial.  Inputs follow the
// model's ObsDim orientation, predictions always have observations along rows.
// With truncated edges, only the rows that have every lag are predicted.
func (md *Model) Predict(x []*mat.Dense) ([]*mat.Dense, error) {
	if len(md.W) != 1 {
		return nil, invalid("Predict on a SingleLag model, use PredictLag")
	}
	return md.PredictLag(x, 0)
}

// PredictLag applies the weights of lag configuration ci to each input trial
func (md *Model) PredictLag(x []*mat.Dense, ci int) ([]*mat.Dense, error) {
	if ci < 0 || ci >= len(md.W) {
		return nil, invalid("lag config %d out of range [0, %d)", ci, len(md.W))
	}
	xs := (&Data{Stim: x}).Oriented(md.ObsDim).Stim
	preds := make([]*mat.Dense, len(xs))
	for i, xt := range xs {
		if xt == nil {
			return nil, mismatch("input trial %d is nil", i)
		}
		n, c := xt.Dims()
		if c != md.NIn {
			return nil, mismatch("input trial %d has %d variables, model has %d", i, c, md.NIn)
		}
		ds, _ := cov.Design(xt, md.Cfg, 0, n)
		if ds == nil {
			preds[i] = nil
			continue
		}
		preds[i] = fit.Predict(ds[ci], md.W[ci])
	}
	return preds, nil
}
