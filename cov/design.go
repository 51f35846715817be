// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cov

import (
	"github.com/emer/mtrf/lags"
	"github.com/goki/ki/kit"
	"gonum.org/v1/gonum/mat"
)

// ModelTypes are the ways the lag set is combined into models
type ModelTypes int

//go:generate stringer -type=ModelTypes

var KiT_ModelTypes = kit.Enums.AddEnum(ModelTypesN, kit.NotBitFlag, nil)

func (ev ModelTypes) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ModelTypes) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// MultiLag fits one model over all lags jointly
	MultiLag ModelTypes = iota

	// SingleLag fits a separate model for each individual lag
	SingleLag

	ModelTypesN
)

// Config is the embedding configuration shared by every segment of a run
type Config struct {
	Lags []int
	Type ModelTypes
	Edge lags.Edges
}

// NConfigs returns the number of lag configurations (models) per fit
func (cf *Config) NConfigs() int {
	if cf.Type == SingleLag {
		return len(cf.Lags)
	}
	return 1
}

// NFeatures returns the design matrix column count, including the bias,
// for nv input variables
func (cf *Config) NFeatures(nv int) int {
	if cf.Type == SingleLag {
		return nv + 1
	}
	return nv*len(cf.Lags) + 1
}

// Design returns the biased design matrices for rows [start, end) of trial x,
// one per lag configuration, plus the trial rows they are aligned to.
// Returns nil matrices if no rows survive the edge policy.
func Design(x mat.Matrix, cfg *Config, start, end int) ([]*mat.Dense, []int) {
	xl, idx := lags.EmbedRows(x, cfg.Lags, cfg.Edge, start, end)
	if xl == nil {
		return nil, idx
	}
	if cfg.Type == MultiLag {
		return []*mat.Dense{lags.AddBias(xl)}, idx
	}
	_, nv := x.Dims()
	r, _ := xl.Dims()
	ds := make([]*mat.Dense, len(cfg.Lags))
	for li := range cfg.Lags {
		ds[li] = lags.AddBias(xl.Slice(0, r, li*nv, (li+1)*nv))
	}
	return ds, idx
}

// Target returns the output rows of y aligned with Design over [start, end)
func Target(y mat.Matrix, cfg *Config, start, end int) *mat.Dense {
	n, _ := y.Dims()
	return lags.Rows(y, lags.ValidRows(n, cfg.Lags, cfg.Edge, start, end))
}

// Compute returns the covariance pair of rows [start, end) of input x
// against output y.  Segments with no valid rows contribute a zero pair.
func Compute(x, y mat.Matrix, cfg *Config, start, end int) Pair {
	_, nv := x.Dims()
	_, no := y.Dims()
	p := NewPair(cfg, nv, no)
	ds, _ := Design(x, cfg, start, end)
	if ds == nil {
		return p
	}
	yt := Target(y, cfg, start, end)
	for i, d := range ds {
		p.Cxx[i].Mul(d.T(), d)
		p.Cxy[i].Mul(d.T(), yt)
	}
	return p
}
