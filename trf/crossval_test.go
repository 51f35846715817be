// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trf

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/emer/mtrf/cov"
	"github.com/emer/mtrf/lags"
	"github.com/emer/mtrf/reg"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// difTol is the tolerance for values computed along different paths
const difTol = 1.0e-8

func noiseTrials(ntr, n, nv int, seed uint64) []*mat.Dense {
	rnd := rand.New(rand.NewSource(seed))
	ts := make([]*mat.Dense, ntr)
	for i := range ts {
		ts[i] = mat.NewDense(n, nv, nil)
		for t := 0; t < n; t++ {
			for v := 0; v < nv; v++ {
				ts[i].Set(t, v, rnd.NormFloat64())
			}
		}
	}
	return ts
}

// convolve sums the inputs of each trial filtered by kernel h,
// with zero history before the trial starts.
func convolve(xs []*mat.Dense, h []float64) []*mat.Dense {
	ys := make([]*mat.Dense, len(xs))
	for i, x := range xs {
		n, nv := x.Dims()
		ys[i] = mat.NewDense(n, 1, nil)
		for t := 0; t < n; t++ {
			sum := 0.0
			for k, hk := range h {
				if t-k < 0 {
					continue
				}
				for v := 0; v < nv; v++ {
					sum += hk * x.At(t-k, v)
				}
			}
			ys[i].Set(t, 0, sum)
		}
	}
	return ys
}

func scaled(ts []*mat.Dense, s float64) []*mat.Dense {
	out := make([]*mat.Dense, len(ts))
	for i, t := range ts {
		out[i] = mat.DenseCopyOf(t)
		out[i].Scale(s, out[i])
	}
	return out
}

// additiveData returns stimulus-driven data in which each unisensory
// response is exactly half of the combined response.
func additiveData(ntr, n int, noise float64) *Data {
	stim := noiseTrials(ntr, n, 1, 1)
	resp := convolve(stim, []float64{1, 0.5, -0.25})
	if noise > 0 {
		ns := noiseTrials(ntr, n, 1, 2)
		for i := range resp {
			ns[i].Scale(noise, ns[i])
			resp[i].Add(resp[i], ns[i])
		}
	}
	half := scaled(resp, 0.5)
	return &Data{Stim: stim, Resp: resp, RespA: half, RespB: half}
}

func testParams() *Params {
	pr := &Params{}
	pr.Defaults()
	pr.SRate = 1000
	pr.TMin = 0
	pr.TMax = 2
	pr.Lambdas = []float64{0, 1}
	return pr
}

func cmprPerf(a, b *Perf, msg string, t *testing.T) {
	t.Helper()
	if len(a.Acc.Values) != len(b.Acc.Values) {
		t.Fatalf("%v: sizes differ: %v vs %v", msg, len(a.Acc.Values), len(b.Acc.Values))
	}
	for i := range a.Acc.Values {
		for _, pair := range [][2]float64{{a.Acc.Values[i], b.Acc.Values[i]}, {a.Err.Values[i], b.Err.Values[i]}} {
			x, y := pair[0], pair[1]
			if math.IsNaN(x) && math.IsNaN(y) {
				continue
			}
			if math.Abs(x-y) > difTol {
				t.Errorf("%v: cell %d: %v vs %v", msg, i, x, y)
			}
		}
	}
}

func TestCrossValShapes(t *testing.T) {
	dt := additiveData(3, 100, 0.5)
	pr := testParams()
	pf, err := AddCrossVal(context.Background(), dt, pr)
	if err != nil {
		t.Fatal(err)
	}
	shp := pf.Acc.Shapes()
	if len(shp) != 3 || shp[0] != 3 || shp[1] != 2 || shp[2] != 1 {
		t.Fatalf("acc shape: %v", shp)
	}
	if len(pf.Singular) != 0 {
		t.Errorf("unexpected singular cells: %v", pf.Singular)
	}
	for i, r := range pf.Acc.Values {
		if math.IsNaN(r) || r < -1 || r > 1 {
			t.Errorf("acc %d out of range: %v", i, r)
		}
		if e := pf.Err.Values[i]; math.IsNaN(e) || e < 0 {
			t.Errorf("err %d out of range: %v", i, e)
		}
	}
	if len(pf.T) != 3 || pf.T[2] != 2 {
		t.Errorf("lag axis: %v", pf.T)
	}
}

func TestCrossValSplit(t *testing.T) {
	dt := additiveData(1, 100, 0.5)
	pr := testParams()
	pr.Split = 4
	pf, err := AddCrossVal(context.Background(), dt, pr)
	if err != nil {
		t.Fatal(err)
	}
	if pf.NFolds() != 4 {
		t.Fatalf("folds: %v", pf.NFolds())
	}
	tot := 0
	for _, sg := range pf.Folds {
		tot += sg.Len()
	}
	if tot != 100 {
		t.Errorf("segment lengths sum to %v", tot)
	}
}

func TestCrossValDoubling(t *testing.T) {
	dt := additiveData(3, 100, 0)
	pr := testParams()
	pr.Lambdas = []float64{0}
	pf, err := AddCrossVal(context.Background(), dt, pr)
	if err != nil {
		t.Fatal(err)
	}
	for fi := 0; fi < pf.NFolds(); fi++ {
		acc, er := pf.Value(fi, 0, 0, 0)
		if acc < 0.99 {
			t.Errorf("fold %d: accuracy %v, want > 0.99", fi, acc)
		}
		if er > difTol {
			t.Errorf("fold %d: error %v, want ~0", fi, er)
		}
	}
}

func TestCrossValDirections(t *testing.T) {
	stim := noiseTrials(3, 80, 1, 3)
	dt := &Data{Stim: stim, Resp: scaled(stim, 2), RespA: stim, RespB: stim}
	pr := testParams()
	pr.TMax = 0
	pr.Lambdas = []float64{0}
	var accs [2]float64
	for di, dir := range []lags.Directions{lags.Forward, lags.Backward} {
		pr.Dir = dir
		pf, err := AddCrossVal(context.Background(), dt, pr)
		if err != nil {
			t.Fatal(err)
		}
		for fi := 0; fi < pf.NFolds(); fi++ {
			acc, _ := pf.Value(fi, 0, 0, 0)
			accs[di] += acc / float64(pf.NFolds())
		}
	}
	if math.Abs(accs[0]-1) > 1e-6 || math.Abs(accs[1]-1) > 1e-6 {
		t.Errorf("forward %v and backward %v accuracy should both be 1", accs[0], accs[1])
	}
}

func TestCrossValStrategies(t *testing.T) {
	dt := additiveData(3, 120, 0.5)
	pr := testParams()
	pr.Split = 2
	pr.Lambdas = []float64{0.1, 1, 10}
	eg, err := AddCrossVal(context.Background(), dt, pr)
	if err != nil {
		t.Fatal(err)
	}
	pr.Strategy = cov.Lazy
	lz, err := AddCrossVal(context.Background(), dt, pr)
	if err != nil {
		t.Fatal(err)
	}
	cmprPerf(eg, lz, "eager vs lazy", t)

	pr.NThreads = 4
	th, err := AddCrossVal(context.Background(), dt, pr)
	if err != nil {
		t.Fatal(err)
	}
	cmprPerf(lz, th, "1 vs 4 threads", t)
}

func TestCrossValSingleLag(t *testing.T) {
	dt := additiveData(3, 100, 0.5)
	pr := testParams()
	pr.Type = cov.SingleLag
	pr.ZeroPad = false
	pf, err := AddCrossVal(context.Background(), dt, pr)
	if err != nil {
		t.Fatal(err)
	}
	shp := pf.Acc.Shapes()
	if len(shp) != 4 || shp[0] != 3 || shp[1] != 2 || shp[2] != 1 || shp[3] != 3 {
		t.Fatalf("acc shape: %v", shp)
	}
	// the lag-0 model captures the largest kernel weight
	a0, _ := pf.Value(0, 0, 0, 0)
	a2, _ := pf.Value(0, 0, 0, 2)
	if a0 <= a2 {
		t.Errorf("lag 0 accuracy %v should exceed lag 2 accuracy %v", a0, a2)
	}
}

func TestCrossValObsDim(t *testing.T) {
	dt := additiveData(3, 90, 0.5)
	pr := testParams()
	rows, err := AddCrossVal(context.Background(), dt, pr)
	if err != nil {
		t.Fatal(err)
	}
	tr := func(ts []*mat.Dense) []*mat.Dense {
		out := make([]*mat.Dense, len(ts))
		for i, m := range ts {
			out[i] = mat.DenseCopyOf(m.T())
		}
		return out
	}
	tdt := &Data{Stim: tr(dt.Stim), Resp: tr(dt.Resp), RespA: tr(dt.RespA), RespB: tr(dt.RespB)}
	pr.ObsDim = 2
	cols, err := AddCrossVal(context.Background(), tdt, pr)
	if err != nil {
		t.Fatal(err)
	}
	cmprPerf(rows, cols, "obs dim 1 vs 2", t)
}

func TestCrossValSingular(t *testing.T) {
	// one trial, one fold: the training set is empty
	dt := additiveData(1, 50, 0)
	pr := testParams()
	pr.Lambdas = []float64{1}
	pf, err := AddCrossVal(context.Background(), dt, pr)
	if err != nil {
		t.Fatal(err)
	}
	if len(pf.Singular) != 1 || !IsSingular(pf.Singular[0].Err) {
		t.Fatalf("singular cells: %v", pf.Singular)
	}
	if pf.NaNCells() != 1 {
		t.Errorf("NaN cells: %v", pf.NaNCells())
	}

	pr.LSFallback = true
	pf, err = AddCrossVal(context.Background(), dt, pr)
	if err != nil {
		t.Fatal(err)
	}
	if _, er := pf.Value(0, 0, 0, 0); math.IsNaN(er) || er <= 0 {
		t.Errorf("fallback error should be the output power, got %v", er)
	}
}

func TestCrossValErrors(t *testing.T) {
	ctx := context.Background()
	dt := additiveData(3, 60, 0.5)

	bad := *dt
	bad.RespB = bad.RespB[:2]
	if _, err := AddCrossVal(ctx, &bad, testParams()); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("trial count: %v", err)
	}
	bad = *dt
	bad.Resp = []*mat.Dense{dt.Resp[0], dt.Resp[1], mat.NewDense(59, 1, nil)}
	if _, err := AddCrossVal(ctx, &bad, testParams()); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("observation count: %v", err)
	}

	pr := testParams()
	pr.Lambdas = []float64{1, -1}
	if _, err := AddCrossVal(ctx, dt, pr); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("negative lambda: %v", err)
	}
	pr = testParams()
	pr.TMin, pr.TMax = 5, 1
	if _, err := AddCrossVal(ctx, dt, pr); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("tmin > tmax: %v", err)
	}
	pr = testParams()
	pr.Method = reg.MethodsN + 2
	_, err := AddCrossVal(ctx, dt, pr)
	if !errors.Is(err, ErrInvalidParameter) || !errors.Is(err, reg.ErrInvalidMethod) {
		t.Errorf("method: %v", err)
	}
	pr = testParams()
	pr.Split = 30
	pr.ZeroPad = false
	if _, err := AddCrossVal(ctx, dt, pr); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("segment without valid rows: %v", err)
	}
}

func TestCrossValCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := AddCrossVal(ctx, additiveData(3, 60, 0.5), testParams())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPerfTable(t *testing.T) {
	pr := testParams()
	pf, err := AddCrossVal(context.Background(), additiveData(3, 60, 0.5), pr)
	if err != nil {
		t.Fatal(err)
	}
	dt := pf.Table()
	if dt.Rows != 3*2*1 {
		t.Fatalf("rows: %v", dt.Rows)
	}
	for _, nm := range []string{"Fold", "Trial", "Segment", "Lambda", "Var", "Acc", "Err"} {
		if dt.ColByName(nm) == nil {
			t.Errorf("missing column %v", nm)
		}
	}
	if lam := dt.CellFloat("Lambda", 1); lam != 1 {
		t.Errorf("row 1 lambda: %v", lam)
	}
	acc, _ := pf.Value(2, 1, 0, 0)
	if got := dt.CellFloat("Acc", 5); got != acc {
		t.Errorf("row 5 acc: %v, want %v", got, acc)
	}
}

// distinctData returns data whose unisensory responses differ from each
// other and from a scaled copy of the combined response.
func distinctData(ntr, n int) *Data {
	dt := additiveData(ntr, n, 0.5)
	dt.RespA = scaled(dt.Resp, 0.3)
	dt.RespB = scaled(dt.Resp, 0.7)
	na := noiseTrials(ntr, n, 1, 11)
	nb := noiseTrials(ntr, n, 1, 12)
	for i := range dt.Resp {
		na[i].Scale(0.2, na[i])
		nb[i].Scale(0.4, nb[i])
		dt.RespA[i].Add(dt.RespA[i], na[i])
		dt.RespB[i].Add(dt.RespB[i], nb[i])
	}
	return dt
}

func TestCrossValBackwardStreams(t *testing.T) {
	dt := distinctData(3, 90)
	for _, strat := range []cov.Strategies{cov.Eager, cov.Lazy} {
		pr := testParams()
		pr.Dir = lags.Backward
		pr.TMin, pr.TMax = 0, 3
		pr.Split = 2
		pr.Strategy = strat
		cv, err := setupCrossVal(dt, pr)
		if err != nil {
			t.Fatal(err)
		}
		cv.accumulate()
		for fi := range cv.folds {
			// each stream's leave-one-out sum, from its own response and the stimulus
			da := cov.NewPair(cv.cfg, 1, 1)
			db := cov.NewPair(cv.cfg, 1, 1)
			for g, sg := range cv.folds {
				if g == fi {
					continue
				}
				da.Add(cov.Compute(dt.RespA[sg.Trial], dt.Stim[sg.Trial], cv.cfg, sg.Start, sg.End))
				db.Add(cov.Compute(dt.RespB[sg.Trial], dt.Stim[sg.Trial], cv.cfg, sg.Start, sg.End))
			}
			want := cov.Combine(lags.Backward, da, db)
			if !cv.train(fi).EqualApprox(want, difTol) {
				t.Errorf("%v fold %d: training covariance differs from the direct per-stream sum", strat, fi)
			}
		}
	}

	pr := testParams()
	pr.Dir = lags.Backward
	pr.Split = 2
	eg, err := AddCrossVal(context.Background(), dt, pr)
	if err != nil {
		t.Fatal(err)
	}
	pr.Strategy = cov.Lazy
	lz, err := AddCrossVal(context.Background(), dt, pr)
	if err != nil {
		t.Fatal(err)
	}
	cmprPerf(eg, lz, "backward eager vs lazy", t)
	if eg.NaNCells() != 0 {
		t.Errorf("backward run has %d NaN cells", eg.NaNCells())
	}
}
