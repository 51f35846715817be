// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package trf

import (
	"fmt"

	"github.com/emer/mtrf/cov"
	"gonum.org/v1/gonum/mat"
)

// Data holds the four parallel trial families of a multisensory experiment.
// Trials may differ in length, but within a trial every family must have
// the same number of observations.  Data is never modified.
type Data struct {
	Stim  []*mat.Dense `desc:"stimulus trials"`
	Resp  []*mat.Dense `desc:"combined (multisensory) response trials"`
	RespA []*mat.Dense `desc:"unisensory response trials for the first modality"`
	RespB []*mat.Dense `desc:"unisensory response trials for the second modality"`
}

// NTrials returns the number of trials
func (dt *Data) NTrials() int { return len(dt.Stim) }

// Obs returns the number of observations in each trial
func (dt *Data) Obs() []int {
	ns := make([]int, len(dt.Stim))
	for i, s := range dt.Stim {
		ns[i], _ = s.Dims()
	}
	return ns
}

// Oriented returns the data with observations along rows: matrices are
// transposed when obsDim is 2, and returned as-is otherwise.
func (dt *Data) Oriented(obsDim int) *Data {
	if obsDim != 2 {
		return dt
	}
	tr := func(ts []*mat.Dense) []*mat.Dense {
		out := make([]*mat.Dense, len(ts))
		for i, t := range ts {
			if t != nil {
				out[i] = mat.DenseCopyOf(t.T())
			}
		}
		return out
	}
	return &Data{Stim: tr(dt.Stim), Resp: tr(dt.Resp), RespA: tr(dt.RespA), RespB: tr(dt.RespB)}
}

func mismatch(format string, args ...any) error {
	return fmt.Errorf("trf: "+format+": %w", append(args, ErrShapeMismatch)...)
}

func checkFamily(name string, ts []*mat.Dense, ns []int) (int, error) {
	if len(ts) != len(ns) {
		return 0, mismatch("%s has %d trials, stimulus has %d", name, len(ts), len(ns))
	}
	nv := 0
	for i, t := range ts {
		if t == nil {
			return 0, mismatch("%s trial %d is nil", name, i)
		}
		r, c := t.Dims()
		if r != ns[i] {
			return 0, mismatch("%s trial %d has %d observations, stimulus has %d", name, i, r, ns[i])
		}
		if i == 0 {
			nv = c
		} else if c != nv {
			return 0, mismatch("%s trial %d has %d variables, trial 0 has %d", name, i, c, nv)
		}
	}
	return nv, nil
}

// Validate checks that all four families have the same number of trials,
// matching observation counts within each trial, and consistent variable
// counts, returning an error wrapping ErrShapeMismatch otherwise.
func (dt *Data) Validate() error {
	if len(dt.Stim) == 0 {
		return mismatch("no trials")
	}
	for i, s := range dt.Stim {
		if s == nil {
			return mismatch("stimulus trial %d is nil", i)
		}
	}
	ns := dt.Obs()
	if _, err := checkFamily("stimulus", dt.Stim, ns); err != nil {
		return err
	}
	nr, err := checkFamily("response", dt.Resp, ns)
	if err != nil {
		return err
	}
	na, err := checkFamily("response A", dt.RespA, ns)
	if err != nil {
		return err
	}
	nb, err := checkFamily("response B", dt.RespB, ns)
	if err != nil {
		return err
	}
	if na != nr || nb != nr {
		return mismatch("response variables: combined %d, A %d, B %d", nr, na, nb)
	}
	return nil
}

// Folds divides trials of the given lengths into split contiguous segments
// each, trial-major, with the last segment of a trial absorbing the remainder.
func Folds(ns []int, split int) []cov.Segment {
	if split < 1 {
		split = 1
	}
	segs := make([]cov.Segment, 0, len(ns)*split)
	for ti, n := range ns {
		sz := n / split
		for s := 0; s < split; s++ {
			ed := (s + 1) * sz
			if s == split-1 {
				ed = n
			}
			segs = append(segs, cov.Segment{Trial: ti, Index: s, Start: s * sz, End: ed})
		}
	}
	return segs
}
