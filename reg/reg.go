// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package reg builds the regularization operator M that penalizes TRF weights
in the normal equations (Cxx + lambda M) w = Cxy.

Row and column 0 of M always correspond to the bias term, which is never
penalized.
*/
package reg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goki/ki/kit"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidMethod is returned for a regularization method that is not one of Methods
	ErrInvalidMethod = errors.New("reg: invalid regularization method")

	// ErrBadSize is returned for a non-positive feature count or sampling interval
	ErrBadSize = errors.New("reg: invalid operator size")
)

// Methods are the regularization methods
type Methods int

//go:generate stringer -type=Methods

var KiT_Methods = kit.Enums.AddEnum(MethodsN, kit.NotBitFlag, nil)

func (ev Methods) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Methods) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Ridge penalizes the squared magnitude of the weights
	Ridge Methods = iota

	// Tikhonov penalizes the squared first difference of adjacent weights (smoothness)
	Tikhonov

	// OLS applies no penalty: every lambda is forced to 0
	OLS

	MethodsN
)

// ParseMethod returns the method with the given name, ignoring case
func ParseMethod(s string) (Methods, error) {
	for m := Ridge; m < MethodsN; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return Ridge, fmt.Errorf("%q: %w", s, ErrInvalidMethod)
}

// Operator returns the mvar x mvar regularization matrix for the given
// method, including the unpenalized bias in row / column 0, scaled by
// 1 / delta (the sampling interval) so that lambda values are comparable
// across sampling rates.
func Operator(mvar int, delta float64, m Methods) (*mat.Dense, error) {
	if m < Ridge || m >= MethodsN {
		return nil, fmt.Errorf("Operator: method %d: %w", int(m), ErrInvalidMethod)
	}
	if mvar < 1 || delta <= 0 {
		return nil, fmt.Errorf("Operator: mvar %d, delta %g: %w", mvar, delta, ErrBadSize)
	}
	M := mat.NewDense(mvar, mvar, nil)
	for i := 1; i < mvar; i++ {
		M.Set(i, i, 1)
	}
	if m == Tikhonov && mvar >= 2 {
		for i := 1; i < mvar-1; i++ {
			M.Set(i, i+1, -0.5)
			M.Set(i+1, i, -0.5)
		}
		// boundary coefficients, including a single coefficient
		M.Set(1, 1, 0.5)
		M.Set(mvar-1, mvar-1, 0.5)
	}
	M.Scale(1/delta, M)
	return M, nil
}

// Lambdas returns the regularization strengths actually used for method m:
// OLS forces every value to 0, other methods return a copy.
func Lambdas(m Methods, lambdas []float64) []float64 {
	lm := make([]float64, len(lambdas))
	if m != OLS {
		copy(lm, lambdas)
	}
	return lm
}
