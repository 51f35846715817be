// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package eval scores model predictions against observed outputs, computing
one accuracy (correlation) and one error value per output variable.
*/
package eval

import (
	"errors"
	"fmt"
	"strings"

	"github.com/emer/etable/metric"
	"github.com/goki/ki/kit"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrDimensionMismatch is returned when predicted and observed shapes differ
	ErrDimensionMismatch = errors.New("eval: prediction and observation dimensions differ")

	// ErrInvalidMetric is returned for an unknown metric name
	ErrInvalidMetric = errors.New("eval: invalid metric")
)

// AccMetrics are the prediction accuracy metrics
type AccMetrics int

//go:generate stringer -type=AccMetrics

var KiT_AccMetrics = kit.Enums.AddEnum(AccMetricsN, kit.NotBitFlag, nil)

func (ev AccMetrics) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *AccMetrics) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Pearson is the standard linear correlation coefficient
	Pearson AccMetrics = iota

	// Spearman is the correlation of the rank-transformed values
	Spearman

	AccMetricsN
)

// ErrMetrics are the prediction error metrics
type ErrMetrics int

//go:generate stringer -type=ErrMetrics

var KiT_ErrMetrics = kit.Enums.AddEnum(ErrMetricsN, kit.NotBitFlag, nil)

func (ev ErrMetrics) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ErrMetrics) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// MSE is the mean squared error
	MSE ErrMetrics = iota

	// MAE is the mean absolute error
	MAE

	ErrMetricsN
)

// ParseAcc returns the accuracy metric with the given name, ignoring case
func ParseAcc(s string) (AccMetrics, error) {
	for m := Pearson; m < AccMetricsN; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return Pearson, fmt.Errorf("accuracy %q: %w", s, ErrInvalidMetric)
}

// ParseErr returns the error metric with the given name, ignoring case
func ParseErr(s string) (ErrMetrics, error) {
	for m := MSE; m < ErrMetricsN; m++ {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return MSE, fmt.Errorf("error %q: %w", s, ErrInvalidMetric)
}

func checkDims(pred, y mat.Matrix) (int, int, error) {
	pr, pc := pred.Dims()
	yr, yc := y.Dims()
	if pr != yr || pc != yc {
		return 0, 0, fmt.Errorf("predicted %dx%d, observed %dx%d: %w", pr, pc, yr, yc, ErrDimensionMismatch)
	}
	return pr, pc, nil
}

// Accuracy returns the correlation between predicted and observed values for
// each output variable (column).  A column with zero variance yields NaN.
func Accuracy(pred, y mat.Matrix, m AccMetrics) ([]float64, error) {
	nr, nc, err := checkDims(pred, y)
	if err != nil {
		return nil, err
	}
	acc := make([]float64, nc)
	pv := make([]float64, nr)
	yv := make([]float64, nr)
	for c := 0; c < nc; c++ {
		mat.Col(pv, c, pred)
		mat.Col(yv, c, y)
		if m == Spearman {
			acc[c] = stat.Correlation(Ranks(pv), Ranks(yv), nil)
		} else {
			acc[c] = stat.Correlation(pv, yv, nil)
		}
	}
	return acc, nil
}

// Error returns the mean squared or mean absolute error of each output variable
func Error(pred, y mat.Matrix, m ErrMetrics) ([]float64, error) {
	nr, nc, err := checkDims(pred, y)
	if err != nil {
		return nil, err
	}
	er := make([]float64, nc)
	pv := make([]float64, nr)
	yv := make([]float64, nr)
	for c := 0; c < nc; c++ {
		mat.Col(pv, c, pred)
		mat.Col(yv, c, y)
		if m == MAE {
			er[c] = metric.Abs64(pv, yv) / float64(nr)
		} else {
			er[c] = metric.SumSquares64(pv, yv) / float64(nr)
		}
	}
	return er, nil
}

// Ranks returns the 1-based ranks of x, with tied values sharing the
// average of the ranks they span
func Ranks(x []float64) []float64 {
	n := len(x)
	srt := make([]float64, n)
	copy(srt, x)
	idx := make([]int, n)
	floats.Argsort(srt, idx)
	rk := make([]float64, n)
	for i := 0; i < n; {
		j := i + 1
		for j < n && srt[j] == srt[i] {
			j++
		}
		avg := float64(i+j+1) / 2 // mean of ranks i+1 .. j
		for k := i; k < j; k++ {
			rk[idx[k]] = avg
		}
		i = j
	}
	return rk
}
