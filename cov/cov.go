// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package cov accumulates the covariance statistics that regularized TRF
models are solved from: Cxx = X'X over the biased lag-embedded design
matrix X, and Cxy = X'Y against the aligned output rows Y.

Covariances are additive over rows, so the covariance of a trial is the sum
of the covariances of its segments, and the training covariance for a
left-out segment is the grand total minus that segment's own pair.  Two
Strategy implementations trade memory for compute in getting there:
Eager stores every segment's pair, and Lazy stores only the total and
recomputes the left-out segment on demand.
*/
package cov

import (
	"gonum.org/v1/gonum/mat"
)

// Pair holds input-input (Cxx) and input-output (Cxy) covariance matrices,
// with one entry per lag configuration: a single entry spanning all lags for
// MultiLag models, or one entry per lag for SingleLag models.
type Pair struct {
	Cxx []*mat.Dense
	Cxy []*mat.Dense
}

// NewPair returns a zero pair for nv input variables and no output variables
func NewPair(cfg *Config, nv, no int) Pair {
	nc := cfg.NConfigs()
	nf := cfg.NFeatures(nv)
	p := Pair{Cxx: make([]*mat.Dense, nc), Cxy: make([]*mat.Dense, nc)}
	for i := 0; i < nc; i++ {
		p.Cxx[i] = mat.NewDense(nf, nf, nil)
		p.Cxy[i] = mat.NewDense(nf, no, nil)
	}
	return p
}

// Len returns the number of lag configurations
func (p Pair) Len() int { return len(p.Cxx) }

// Clone returns a deep copy
func (p Pair) Clone() Pair {
	c := Pair{Cxx: make([]*mat.Dense, len(p.Cxx)), Cxy: make([]*mat.Dense, len(p.Cxy))}
	for i := range p.Cxx {
		c.Cxx[i] = mat.DenseCopyOf(p.Cxx[i])
		c.Cxy[i] = mat.DenseCopyOf(p.Cxy[i])
	}
	return c
}

// Add adds o into p in place
func (p Pair) Add(o Pair) {
	for i := range p.Cxx {
		p.Cxx[i].Add(p.Cxx[i], o.Cxx[i])
		p.Cxy[i].Add(p.Cxy[i], o.Cxy[i])
	}
}

// Sub subtracts o from p in place
func (p Pair) Sub(o Pair) {
	for i := range p.Cxx {
		p.Cxx[i].Sub(p.Cxx[i], o.Cxx[i])
		p.Cxy[i].Sub(p.Cxy[i], o.Cxy[i])
	}
}

// Scale multiplies Cxx by sxx and Cxy by sxy in place
func (p Pair) Scale(sxx, sxy float64) {
	for i := range p.Cxx {
		p.Cxx[i].Scale(sxx, p.Cxx[i])
		p.Cxy[i].Scale(sxy, p.Cxy[i])
	}
}

// Bytes returns the memory held by the matrix values
func (p Pair) Bytes() int {
	n := 0
	for i := range p.Cxx {
		r, c := p.Cxx[i].Dims()
		n += r * c
		r, c = p.Cxy[i].Dims()
		n += r * c
	}
	return n * 8
}

// EqualApprox reports whether every matrix of p is within tol of o
func (p Pair) EqualApprox(o Pair, tol float64) bool {
	if p.Len() != o.Len() {
		return false
	}
	for i := range p.Cxx {
		if !mat.EqualApprox(p.Cxx[i], o.Cxx[i], tol) || !mat.EqualApprox(p.Cxy[i], o.Cxy[i], tol) {
			return false
		}
	}
	return true
}
