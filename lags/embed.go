// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lags

import (
	"github.com/goki/ki/ints"
	"github.com/goki/ki/kit"
	"gonum.org/v1/gonum/mat"
)

// Edges determines how rows that reference samples outside of the trial are handled
type Edges int

//go:generate stringer -type=Edges

var KiT_Edges = kit.Enums.AddEnum(EdgesN, kit.NotBitFlag, nil)

func (ev Edges) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Edges) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// ZeroPad fills out-of-range samples with zeros, preserving the observation count
	ZeroPad Edges = iota

	// Truncate drops the rows at the edges that any lag would push out of range
	Truncate

	EdgesN
)

// ValidRange returns the half-open range [lo, hi) of rows of an n-row trial
// that survive the edge policy for the given lag set.
func ValidRange(n int, lags []int, edge Edges) (lo, hi int) {
	if edge == ZeroPad {
		return 0, n
	}
	mn, mx := MinMax(lags)
	lo = ints.MaxInt(0, mx)
	hi = n + ints.MinInt(0, mn)
	if hi < lo {
		hi = lo
	}
	return
}

// ValidRows returns the trial rows in [start, end) that survive the edge policy
func ValidRows(n int, lags []int, edge Edges, start, end int) []int {
	lo, hi := ValidRange(n, lags, edge)
	st := ints.MaxInt(start, lo)
	ed := ints.MinInt(end, hi)
	if ed <= st {
		return nil
	}
	idx := make([]int, ed-st)
	for i := range idx {
		idx[i] = st + i
	}
	return idx
}

// Embed returns the lag embedding of the whole trial x (observations x variables)
// as an (M x V*L) matrix where column block l holds x shifted by lags[l],
// along with the rows of x that each output row is aligned to.
// With ZeroPad M = N, and with Truncate M = N - max(0, maxlag) - max(0, -minlag).
// Returns a nil matrix if no rows survive.
func Embed(x mat.Matrix, lags []int, edge Edges) (*mat.Dense, []int) {
	n, _ := x.Dims()
	return EmbedRows(x, lags, edge, 0, n)
}

// EmbedRows returns rows [start, end) of the whole-trial embedding of x.
// Lagged samples are drawn from anywhere in the trial, so the rows of
// contiguous segments stacked together are identical to Embed over the trial.
// Returns a nil matrix if no rows survive.
func EmbedRows(x mat.Matrix, lags []int, edge Edges, start, end int) (*mat.Dense, []int) {
	n, nv := x.Dims()
	idx := ValidRows(n, lags, edge, start, end)
	if len(idx) == 0 || len(lags) == 0 || nv == 0 {
		return nil, idx
	}
	out := mat.NewDense(len(idx), nv*len(lags), nil)
	for ri, t := range idx {
		for li, l := range lags {
			src := t - l
			if src < 0 || src >= n {
				continue
			}
			off := li * nv
			for vi := 0; vi < nv; vi++ {
				out.Set(ri, off+vi, x.At(src, vi))
			}
		}
	}
	return out, idx
}

// AddBias returns x with a leading column of ones
func AddBias(x mat.Matrix) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c+1, nil)
	for i := 0; i < r; i++ {
		out.Set(i, 0, 1)
	}
	if c > 0 {
		out.Slice(0, r, 1, c+1).(*mat.Dense).Copy(x)
	}
	return out
}

// Rows returns the given rows of y as a new matrix, aligned with an embedding
func Rows(y mat.Matrix, idx []int) *mat.Dense {
	_, c := y.Dims()
	if len(idx) == 0 || c == 0 {
		return nil
	}
	out := mat.NewDense(len(idx), c, nil)
	for ri, t := range idx {
		for ci := 0; ci < c; ci++ {
			out.Set(ri, ci, y.At(t, ci))
		}
	}
	return out
}
