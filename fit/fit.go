// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fit solves the regularized normal equations of a TRF model
// and applies the resulting weights.
package fit

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular is returned when Cxx + lambda M cannot be solved reliably
var ErrSingular = errors.New("fit: singular or ill-conditioned system")

// AdditiveGain compensates for training on the sum of two unisensory
// covariances instead of the covariance of their sum: under superposition
// the weights solved from the combined pair are half of the additive model.
const AdditiveGain = 2

// RankTol is the relative singular value cutoff used by SolveLS
const RankTol = 1e-12

func system(cxx *mat.Dense, lambda float64, M *mat.Dense) *mat.Dense {
	var a mat.Dense
	a.Scale(lambda, M)
	a.Add(cxx, &a)
	return &a
}

// Solve returns the weights w solving (Cxx + lambda M) w = Cxy by LU
// factorization.  A singular or ill-conditioned system returns an error
// wrapping ErrSingular, and no weights.
func Solve(cxx, cxy *mat.Dense, lambda float64, M *mat.Dense) (*mat.Dense, error) {
	a := system(cxx, lambda, M)
	var w mat.Dense
	if err := w.Solve(a, cxy); err != nil {
		return nil, fmt.Errorf("Solve lambda %g: %w: %v", lambda, ErrSingular, err)
	}
	return &w, nil
}

// SolveLS returns the minimum-norm least-squares solution of
// (Cxx + lambda M) w = Cxy by SVD, discarding singular values below
// RankTol relative to the largest.  This is the degraded solution to use
// when Solve reports ErrSingular.
func SolveLS(cxx, cxy *mat.Dense, lambda float64, M *mat.Dense) (*mat.Dense, error) {
	a := system(cxx, lambda, M)
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("SolveLS lambda %g: SVD factorization failed: %w", lambda, ErrSingular)
	}
	_, no := cxy.Dims()
	_, nf := a.Dims()
	var w mat.Dense
	rank := svd.Rank(RankTol)
	if rank == 0 {
		return mat.NewDense(nf, no, nil), nil
	}
	svd.SolveTo(&w, cxy, rank)
	return &w, nil
}

// Double scales w in place by AdditiveGain and returns it
func Double(w *mat.Dense) *mat.Dense {
	w.Scale(AdditiveGain, w)
	return w
}

// Predict returns x * w
func Predict(x mat.Matrix, w *mat.Dense) *mat.Dense {
	var p mat.Dense
	p.Mul(x, w)
	return &p
}
