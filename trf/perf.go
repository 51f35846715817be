// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trf

import (
	"math"
	"strconv"

	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
	"github.com/emer/mtrf/cov"
)

// LogPrec is precision for saving float values in tables
const LogPrec = 6

// Cell identifies one fit of the performance tensors
type Cell struct {
	Fold   int   `desc:"fold index"`
	Lambda int   `desc:"lambda index"`
	Lag    int   `desc:"lag index for SingleLag models, 0 otherwise"`
	Err    error `desc:"the reason the cell could not be fit"`
}

// Perf is the result of a cross-validation run.  Acc and Err are shaped
// (folds x lambdas x output variables) for MultiLag models and
// (folds x lambdas x output variables x lags) for SingleLag models.
type Perf struct {
	Acc      *etensor.Float64 `desc:"prediction accuracy per fold, lambda, output variable [, lag]"`
	Err      *etensor.Float64 `desc:"prediction error per fold, lambda, output variable [, lag]"`
	T        []float64        `desc:"lag axis in msec"`
	Lags     []int            `desc:"lag set in samples"`
	Lambdas  []float64        `desc:"regularization strengths actually used (all 0 for OLS)"`
	Folds    []cov.Segment    `desc:"trial segment left out in each fold"`
	Singular []Cell           `desc:"cells whose system was singular, in fold, lambda, lag order"`
}

// NewPerf allocates NaN-filled tensors for the given run dimensions
func NewPerf(folds []cov.Segment, lambdas []float64, nout int, lg []int, singleLag bool) *Perf {
	shp := []int{len(folds), len(lambdas), nout}
	nms := []string{"Fold", "Lambda", "Var"}
	if singleLag {
		shp = append(shp, len(lg))
		nms = append(nms, "Lag")
	}
	pf := &Perf{Lags: lg, Lambdas: lambdas, Folds: folds}
	pf.Acc = etensor.NewFloat64(shp, nil, nms)
	pf.Err = etensor.NewFloat64(shp, nil, nms)
	for i := range pf.Acc.Values {
		pf.Acc.Values[i] = math.NaN()
		pf.Err.Values[i] = math.NaN()
	}
	return pf
}

// SingleLag returns true if the tensors have a lag dimension
func (pf *Perf) SingleLag() bool { return pf.Acc.NumDims() == 4 }

// NFolds returns the number of folds
func (pf *Perf) NFolds() int { return pf.Acc.Dim(0) }

// NVars returns the number of output variables
func (pf *Perf) NVars() int { return pf.Acc.Dim(2) }

func (pf *Perf) index(fold, lambda, vr, lag int) []int {
	if pf.SingleLag() {
		return []int{fold, lambda, vr, lag}
	}
	return []int{fold, lambda, vr}
}

// Set records the accuracy and error of one output variable of one fit
func (pf *Perf) Set(fold, lambda, vr, lag int, acc, er float64) {
	ix := pf.index(fold, lambda, vr, lag)
	pf.Acc.Set(ix, acc)
	pf.Err.Set(ix, er)
}

// Value returns the accuracy and error of one output variable of one fit
func (pf *Perf) Value(fold, lambda, vr, lag int) (acc, er float64) {
	ix := pf.index(fold, lambda, vr, lag)
	return pf.Acc.Value(ix), pf.Err.Value(ix)
}

// Table returns the tensors in long format, one row per cell, for reporting
func (pf *Perf) Table() *etable.Table {
	sch := etable.Schema{
		{"Fold", etensor.INT64, nil, nil},
		{"Trial", etensor.INT64, nil, nil},
		{"Segment", etensor.INT64, nil, nil},
		{"Lambda", etensor.FLOAT64, nil, nil},
		{"Var", etensor.INT64, nil, nil},
	}
	nlag := 1
	if pf.SingleLag() {
		nlag = len(pf.Lags)
		sch = append(sch, etable.Column{"Lag", etensor.INT64, nil, nil}, etable.Column{"LagMs", etensor.FLOAT64, nil, nil})
	}
	sch = append(sch, etable.Column{"Acc", etensor.FLOAT64, nil, nil}, etable.Column{"Err", etensor.FLOAT64, nil, nil})

	nv := pf.NVars()
	dt := &etable.Table{}
	dt.SetMetaData("name", "TRFPerf")
	dt.SetMetaData("desc", "cross-validated accuracy and error per fold, lambda and output variable")
	dt.SetMetaData("precision", strconv.Itoa(LogPrec))
	dt.SetFromSchema(sch, pf.NFolds()*len(pf.Lambdas)*nv*nlag)
	row := 0
	for fi, sg := range pf.Folds {
		for li, lam := range pf.Lambdas {
			for vi := 0; vi < nv; vi++ {
				for gi := 0; gi < nlag; gi++ {
					dt.SetCellFloat("Fold", row, float64(fi))
					dt.SetCellFloat("Trial", row, float64(sg.Trial))
					dt.SetCellFloat("Segment", row, float64(sg.Index))
					dt.SetCellFloat("Lambda", row, lam)
					dt.SetCellFloat("Var", row, float64(vi))
					if pf.SingleLag() {
						dt.SetCellFloat("Lag", row, float64(pf.Lags[gi]))
						dt.SetCellFloat("LagMs", row, pf.T[gi])
					}
					acc, er := pf.Value(fi, li, vi, gi)
					dt.SetCellFloat("Acc", row, acc)
					dt.SetCellFloat("Err", row, er)
					row++
				}
			}
		}
	}
	return dt
}
