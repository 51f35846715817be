// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fit

import (
	"errors"
	"math"
	"testing"

	"github.com/emer/mtrf/reg"
	"gonum.org/v1/gonum/mat"
)

const difTol = 1.0e-9

// design returns a biased design matrix with two smooth regressors
func design(n int) *mat.Dense {
	x := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		x.Set(i, 1, math.Sin(0.3*float64(i)))
		x.Set(i, 2, math.Cos(0.17*float64(i))+0.01*float64(i))
	}
	return x
}

func normal(x, y *mat.Dense) (*mat.Dense, *mat.Dense) {
	var cxx, cxy mat.Dense
	cxx.Mul(x.T(), x)
	cxy.Mul(x.T(), y)
	return &cxx, &cxy
}

func TestSolveRecovers(t *testing.T) {
	x := design(80)
	wt := mat.NewDense(3, 2, []float64{0.5, -1, 2, 0, -0.25, 3})
	y := Predict(x, wt)
	cxx, cxy := normal(x, y)
	M, _ := reg.Operator(3, 1, reg.Ridge)
	w, err := Solve(cxx, cxy, 0, M)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.EqualApprox(w, wt, difTol) {
		t.Errorf("weights:\n%v\nwant:\n%v", mat.Formatted(w), mat.Formatted(wt))
	}
	wl, err := SolveLS(cxx, cxy, 0, M)
	if err != nil {
		t.Fatal(err)
	}
	if !mat.EqualApprox(wl, wt, 1e-6) {
		t.Errorf("least-squares weights:\n%v", mat.Formatted(wl))
	}
}

func TestRidgeShrinks(t *testing.T) {
	x := design(80)
	wt := mat.NewDense(3, 1, []float64{1, 2, -3})
	cxx, cxy := normal(x, Predict(x, wt))
	M, _ := reg.Operator(3, 1, reg.Ridge)
	w0, _ := Solve(cxx, cxy, 0, M)
	w1, _ := Solve(cxx, cxy, 100, M)
	n0 := math.Hypot(w0.At(1, 0), w0.At(2, 0))
	n1 := math.Hypot(w1.At(1, 0), w1.At(2, 0))
	if n1 >= n0 {
		t.Errorf("ridge penalty did not shrink weights: %v >= %v", n1, n0)
	}
}

func TestZeroLambdaMethods(t *testing.T) {
	x := design(60)
	y := mat.NewDense(60, 1, nil)
	for i := 0; i < 60; i++ {
		y.Set(i, 0, math.Sin(0.05*float64(i*i)))
	}
	cxx, cxy := normal(x, y)
	var ws []*mat.Dense
	for _, m := range []reg.Methods{reg.Ridge, reg.Tikhonov, reg.OLS} {
		M, _ := reg.Operator(3, 0.01, m)
		lam := reg.Lambdas(m, []float64{0})[0]
		w, err := Solve(cxx, cxy, lam, M)
		if err != nil {
			t.Fatal(err)
		}
		ws = append(ws, w)
	}
	if !mat.EqualApprox(ws[0], ws[2], difTol) || !mat.EqualApprox(ws[1], ws[2], difTol) {
		t.Errorf("lambda 0 weights differ across methods")
	}
}

func TestSingular(t *testing.T) {
	cxx := mat.NewDense(3, 3, nil)
	cxy := mat.NewDense(3, 1, []float64{1, 2, 3})
	M, _ := reg.Operator(3, 1, reg.Ridge)
	if _, err := Solve(cxx, cxy, 0, M); !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
	// the bias is never penalized, so the system stays singular for any lambda
	if _, err := Solve(cxx, cxy, 1, M); !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular with unpenalized bias, got %v", err)
	}
	w, err := SolveLS(cxx, cxy, 0, M)
	if err != nil {
		t.Fatal(err)
	}
	if mat.Norm(w, 2) != 0 {
		t.Errorf("least-squares solution of a zero system should be zero")
	}
}

func TestDouble(t *testing.T) {
	w := mat.NewDense(2, 1, []float64{0.5, -1})
	Double(w)
	if w.At(0, 0) != 1 || w.At(1, 0) != -2 {
		t.Errorf("doubled weights: %v", mat.Formatted(w))
	}
}
