// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trf

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"

	"github.com/c2h5oh/datasize"
	"github.com/emer/mtrf/cov"
	"github.com/emer/mtrf/eval"
	"github.com/emer/mtrf/fit"
	"github.com/emer/mtrf/lags"
	"github.com/emer/mtrf/reg"
	"gonum.org/v1/gonum/mat"
)

// crossVal is the read-only state shared by all folds of one run,
// plus the mutex-guarded singular cell list and first fatal error.
type crossVal struct {
	pr      *Params
	cfg     *cov.Config
	folds   []cov.Segment
	lambdas []float64
	M       *mat.Dense
	in      []*mat.Dense
	out     []*mat.Dense
	stA     *cov.Stream
	stB     *cov.Stream
	sa      cov.Strategy
	sb      cov.Strategy
	perf    *Perf

	mu       sync.Mutex
	singular []Cell
	err      error
}

// AddCrossVal cross-validates an additive multisensory TRF model by leaving
// out one trial segment at a time.  For each fold, the model is trained on
// the combined unisensory covariances of all other segments and tested
// against the combined response (Forward) or the stimulus (Backward) of the
// left-out segment, for every lambda and, for SingleLag models, every lag.
//
// Shape and parameter errors are returned before any covariance is computed.
// A singular system only invalidates its own cell (NaN, listed in
// Perf.Singular) unless Params.LSFallback is set.  ctx is checked between
// folds, never during a solve.
func AddCrossVal(ctx context.Context, data *Data, pr *Params) (*Perf, error) {
	cv, err := setupCrossVal(data, pr)
	if err != nil {
		return nil, err
	}
	cv.accumulate()
	if err := cv.run(ctx); err != nil {
		return nil, err
	}
	return cv.assemble(), nil
}

// setupCrossVal validates everything and fixes the run constants
func setupCrossVal(data *Data, pr *Params) (*crossVal, error) {
	pr.Update()
	if err := pr.Validate(); err != nil {
		return nil, err
	}
	dt := data.Oriented(pr.ObsDim)
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	cv := &crossVal{pr: pr, cfg: pr.Config()}
	if len(cv.cfg.Lags) == 0 {
		return nil, invalid("empty lag window %g..%g msec", pr.TMin, pr.TMax)
	}
	ns := dt.Obs()
	cv.folds = Folds(ns, pr.Split)
	for fi, sg := range cv.folds {
		if len(lags.ValidRows(ns[sg.Trial], cv.cfg.Lags, cv.cfg.Edge, sg.Start, sg.End)) == 0 {
			return nil, invalid("fold %d (trial %d segment %d, %d observations) has no rows after %v with %d lags",
				fi, sg.Trial, sg.Index, sg.Len(), cv.cfg.Edge, len(cv.cfg.Lags))
		}
	}

	if pr.Dir == lags.Forward {
		cv.stA = &cov.Stream{X: dt.Stim, Y: dt.RespA}
		cv.stB = &cov.Stream{X: dt.Stim, Y: dt.RespB}
		cv.in, cv.out = dt.Stim, dt.Resp
	} else {
		cv.stA = &cov.Stream{X: dt.RespA, Y: dt.Stim}
		cv.stB = &cov.Stream{X: dt.RespB, Y: dt.Stim}
		cv.in, cv.out = dt.Resp, dt.Stim
	}
	_, nv := cv.in[0].Dims()
	_, no := cv.out[0].Dims()
	M, err := reg.Operator(cv.cfg.NFeatures(nv), 1/pr.SRate, pr.Method)
	if err != nil {
		return nil, fmt.Errorf("trf: %w: %w", ErrInvalidParameter, err)
	}
	cv.M = M
	cv.lambdas = reg.Lambdas(pr.Method, pr.Lambdas)
	cv.perf = NewPerf(cv.folds, cv.lambdas, no, cv.cfg.Lags, pr.Type == cov.SingleLag)
	cv.perf.T = lags.Times(cv.cfg.Lags, pr.SRate, pr.Dir)
	return cv, nil
}

// accumulate computes the unisensory covariance sets with the selected strategy
func (cv *crossVal) accumulate() {
	cv.sa = cov.New(cv.pr.Strategy, cv.stA, cv.folds, cv.cfg)
	cv.sb = cov.New(cv.pr.Strategy, cv.stB, cv.folds, cv.cfg)
	if cv.pr.Verbose {
		mem := datasize.ByteSize(cv.sa.Bytes() + cv.sb.Bytes())
		log.Printf("trf: %v covariance store for %d folds x %d lag configs: %v\n",
			cv.pr.Strategy, len(cv.folds), cv.cfg.NConfigs(), mem.HumanReadable())
	}
}

// run dispatches folds over NThreads worker go routines
func (cv *crossVal) run(ctx context.Context) error {
	fch := make(chan int)
	var wg sync.WaitGroup
	for th := 0; th < cv.pr.NThreads; th++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for fi := range fch {
				cv.fold(fi)
			}
		}()
	}
	var err error
	for fi := range cv.folds {
		if err = ctx.Err(); err != nil {
			break
		}
		if err = cv.fatal(); err != nil {
			break
		}
		fch <- fi
	}
	close(fch)
	wg.Wait()
	if err != nil {
		return err
	}
	return cv.fatal()
}

func (cv *crossVal) fatal() error {
	cv.mu.Lock()
	defer cv.mu.Unlock()
	return cv.err
}

func (cv *crossVal) setFatal(err error) {
	cv.mu.Lock()
	if cv.err == nil {
		cv.err = err
	}
	cv.mu.Unlock()
}

func (cv *crossVal) addSingular(c Cell) {
	cv.mu.Lock()
	cv.singular = append(cv.singular, c)
	cv.mu.Unlock()
}

// train returns the additive training covariance for fold fi
func (cv *crossVal) train(fi int) cov.Pair {
	return cov.Combine(cv.pr.Dir, cv.sa.Train(fi), cv.sb.Train(fi))
}

// fold fits and scores every lambda (and lag) for one left-out segment.
// It only writes the tensor cells of its own fold.
func (cv *crossVal) fold(fi int) {
	sg := cv.folds[fi]
	if cv.pr.Verbose {
		log.Printf("trf: fold %d/%d: trial %d segment %d rows %d..%d\n",
			fi+1, len(cv.folds), sg.Trial, sg.Index, sg.Start, sg.End)
	}
	ds, _ := cov.Design(cv.in[sg.Trial], cv.cfg, sg.Start, sg.End)
	yt := cov.Target(cv.out[sg.Trial], cv.cfg, sg.Start, sg.End)
	tr := cv.train(fi)
	for li, lam := range cv.lambdas {
		for ci := 0; ci < tr.Len(); ci++ {
			w, err := fit.Solve(tr.Cxx[ci], tr.Cxy[ci], lam, cv.M)
			if err != nil {
				cv.addSingular(Cell{Fold: fi, Lambda: li, Lag: ci, Err: err})
				if !cv.pr.LSFallback {
					continue
				}
				if w, err = fit.SolveLS(tr.Cxx[ci], tr.Cxy[ci], lam, cv.M); err != nil {
					continue
				}
			}
			pred := fit.Predict(ds[ci], fit.Double(w))
			acc, err := eval.Accuracy(pred, yt, cv.pr.Acc)
			if err != nil {
				cv.setFatal(err)
				return
			}
			er, err := eval.Error(pred, yt, cv.pr.Err)
			if err != nil {
				cv.setFatal(err)
				return
			}
			for vi := range acc {
				cv.perf.Set(fi, li, vi, ci, acc[vi], er[vi])
			}
		}
	}
}

// assemble finalizes the Perf record
func (cv *crossVal) assemble() *Perf {
	sort.Slice(cv.singular, func(i, j int) bool {
		a, b := cv.singular[i], cv.singular[j]
		if a.Fold != b.Fold {
			return a.Fold < b.Fold
		}
		if a.Lambda != b.Lambda {
			return a.Lambda < b.Lambda
		}
		return a.Lag < b.Lag
	})
	cv.perf.Singular = cv.singular
	if cv.pr.Verbose && len(cv.singular) > 0 {
		log.Printf("trf: %d of %d fits were singular\n", len(cv.singular), len(cv.folds)*len(cv.lambdas)*cv.cfg.NConfigs())
	}
	return cv.perf
}

// IsSingular returns true if err reports a singular system
func IsSingular(err error) bool { return errors.Is(err, fit.ErrSingular) }

// NaNCells returns the number of NaN accuracy values in pf
func (pf *Perf) NaNCells() int {
	n := 0
	for _, v := range pf.Acc.Values {
		if math.IsNaN(v) {
			n++
		}
	}
	return n
}
