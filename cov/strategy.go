// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cov

import (
	"github.com/emer/mtrf/lags"
	"github.com/goki/ki/kit"
	"gonum.org/v1/gonum/mat"
)

// Segment is a contiguous row range [Start, End) of one trial, the unit
// that is left out in cross-validation.
type Segment struct {
	Trial int `desc:"index of the trial the segment belongs to"`
	Index int `desc:"index of the segment within its trial"`
	Start int `desc:"first row of the segment"`
	End   int `desc:"one past the last row of the segment"`
}

// Len returns the number of rows in the segment
func (sg Segment) Len() int { return sg.End - sg.Start }

// Stream is one input / output pairing of parallel trials: X[i] and Y[i]
// must have the same number of rows.
type Stream struct {
	X []*mat.Dense
	Y []*mat.Dense
}

// Compute returns the covariance pair of segment sg
func (st *Stream) Compute(cfg *Config, sg Segment) Pair {
	return Compute(st.X[sg.Trial], st.Y[sg.Trial], cfg, sg.Start, sg.End)
}

// Strategies are the covariance accumulation strategies
type Strategies int

//go:generate stringer -type=Strategies

var KiT_Strategies = kit.Enums.AddEnum(StrategiesN, kit.NotBitFlag, nil)

func (ev Strategies) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Strategies) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Eager stores one covariance pair per segment: cheap per-fold assembly, high memory
	Eager Strategies = iota

	// Lazy stores only the running total and recomputes the left-out segment at fold time
	Lazy

	StrategiesN
)

// Strategy provides leave-one-segment-out training covariances.
// Implementations are safe for concurrent Train calls.
type Strategy interface {
	// NFolds returns the number of segments (folds)
	NFolds() int

	// Total returns the covariance summed over all segments (shared, do not modify)
	Total() Pair

	// Train returns a new pair equal to Total minus the contribution of segment fold
	Train(fold int) Pair

	// Bytes returns the memory held in stored covariance matrices
	Bytes() int
}

// New returns the Strategy of the given type over the segments of a stream
func New(typ Strategies, st *Stream, segs []Segment, cfg *Config) Strategy {
	if typ == Lazy {
		return NewLazy(st, segs, cfg)
	}
	return NewEager(st, segs, cfg)
}

func zeroFor(st *Stream, cfg *Config) Pair {
	_, nv := st.X[0].Dims()
	_, no := st.Y[0].Dims()
	return NewPair(cfg, nv, no)
}

//////////////////////////////////////////////////////////////////////
//  Eager

// EagerCov stores every segment's covariance pair along with their total
type EagerCov struct {
	Segs []Pair
	Sum  Pair
}

// NewEager computes and stores the covariance of every segment
func NewEager(st *Stream, segs []Segment, cfg *Config) *EagerCov {
	ec := &EagerCov{Segs: make([]Pair, len(segs)), Sum: zeroFor(st, cfg)}
	for i, sg := range segs {
		ec.Segs[i] = st.Compute(cfg, sg)
		ec.Sum.Add(ec.Segs[i])
	}
	return ec
}

func (ec *EagerCov) NFolds() int { return len(ec.Segs) }
func (ec *EagerCov) Total() Pair { return ec.Sum }

func (ec *EagerCov) Train(fold int) Pair {
	tr := ec.Sum.Clone()
	tr.Sub(ec.Segs[fold])
	return tr
}

func (ec *EagerCov) Bytes() int {
	n := ec.Sum.Bytes()
	for _, p := range ec.Segs {
		n += p.Bytes()
	}
	return n
}

//////////////////////////////////////////////////////////////////////
//  Lazy

// LazyCov stores only the total, recomputing left-out segments from the stream
type LazyCov struct {
	Stream *Stream
	Segs   []Segment
	Cfg    *Config
	Sum    Pair
}

// NewLazy accumulates the total covariance without keeping per-segment pairs
func NewLazy(st *Stream, segs []Segment, cfg *Config) *LazyCov {
	return &LazyCov{Stream: st, Segs: segs, Cfg: cfg, Sum: Total(st, segs, cfg)}
}

// Total returns the covariance pair summed over segs
func Total(st *Stream, segs []Segment, cfg *Config) Pair {
	sum := zeroFor(st, cfg)
	for _, sg := range segs {
		sum.Add(st.Compute(cfg, sg))
	}
	return sum
}

func (lc *LazyCov) NFolds() int { return len(lc.Segs) }
func (lc *LazyCov) Total() Pair { return lc.Sum }
func (lc *LazyCov) Bytes() int  { return lc.Sum.Bytes() }

func (lc *LazyCov) Train(fold int) Pair {
	tr := lc.Sum.Clone()
	tr.Sub(lc.Stream.Compute(lc.Cfg, lc.Segs[fold]))
	return tr
}

//////////////////////////////////////////////////////////////////////
//  Combine

// Combine merges two unisensory training pairs into the additive-model pair.
// Forward models share the stimulus as input, so its covariance is doubled
// and the two cross-covariances are summed.  Backward models sum both
// unisensory input covariances and their respective cross-covariances.
func Combine(dir lags.Directions, a, b Pair) Pair {
	c := a.Clone()
	if dir == lags.Forward {
		for i := range c.Cxx {
			c.Cxx[i].Scale(2, c.Cxx[i])
			c.Cxy[i].Add(c.Cxy[i], b.Cxy[i])
		}
		return c
	}
	c.Add(b)
	return c
}
