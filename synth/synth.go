// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package synth generates synthetic multisensory trials for exercising and
testing TRF cross-validation.  The stimulus is multivariate white Gaussian
noise, the combined response is the stimulus convolved with a known kernel
plus Gaussian noise, and each unisensory response is half of the combined
response, so that an additive model is exactly right.
*/
package synth

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// Params control the generated data
type Params struct {
	NTrials int       `def:"4" min:"1" desc:"number of trials"`
	NObs    int       `def:"512" min:"1" desc:"number of observations per trial"`
	NIn     int       `def:"1" min:"1" desc:"number of stimulus variables -- the response sums the filtered inputs"`
	Kernel  []float64 `desc:"response kernel in samples, starting at lag 0"`
	Noise   float64   `def:"0.5" min:"0" desc:"standard deviation of the Gaussian response noise"`
	Seed    int64     `def:"1" desc:"random seed -- the same seed always generates the same data"`
}

func (sp *Params) Defaults() {
	sp.NTrials = 4
	sp.NObs = 512
	sp.NIn = 1
	sp.Kernel = []float64{0, 1, 0.6, 0.2, -0.3, -0.2, -0.1}
	sp.Noise = 0.5
	sp.Seed = 1
}

// Set is one generated data set, with observations along rows
type Set struct {
	Stim  []*mat.Dense
	Resp  []*mat.Dense
	RespA []*mat.Dense
	RespB []*mat.Dense
}

// Gen returns a new data set generated from sp
func Gen(sp *Params) *Set {
	rnd := rand.New(rand.NewSource(uint64(sp.Seed)))
	mu := make([]float64, sp.NIn)
	sigma := mat.NewSymDense(sp.NIn, nil)
	for i := 0; i < sp.NIn; i++ {
		sigma.SetSym(i, i, 1)
	}
	stimDist, ok := distmv.NewNormal(mu, sigma, rnd)
	if !ok {
		panic("synth: identity covariance is not positive definite")
	}
	noise := distuv.Normal{Mu: 0, Sigma: sp.Noise, Src: rnd}

	st := &Set{}
	for tr := 0; tr < sp.NTrials; tr++ {
		x := mat.NewDense(sp.NObs, sp.NIn, nil)
		for t := 0; t < sp.NObs; t++ {
			x.SetRow(t, stimDist.Rand(nil))
		}
		y := Convolve(x, sp.Kernel)
		if sp.Noise > 0 {
			for t := 0; t < sp.NObs; t++ {
				y.Set(t, 0, y.At(t, 0)+noise.Rand())
			}
		}
		half := mat.DenseCopyOf(y)
		half.Scale(0.5, half)
		st.Stim = append(st.Stim, x)
		st.Resp = append(st.Resp, y)
		st.RespA = append(st.RespA, half)
		st.RespB = append(st.RespB, mat.DenseCopyOf(half))
	}
	return st
}

// Convolve returns the single-column response to x filtered by kernel h,
// summed over input variables, with zeros before the first observation.
func Convolve(x mat.Matrix, h []float64) *mat.Dense {
	n, nv := x.Dims()
	y := mat.NewDense(n, 1, nil)
	for t := 0; t < n; t++ {
		sum := 0.0
		for k, hk := range h {
			if t-k < 0 {
				break
			}
			for v := 0; v < nv; v++ {
				sum += hk * x.At(t-k, v)
			}
		}
		y.Set(t, 0, sum)
	}
	return y
}
