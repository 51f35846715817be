// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package lags builds time-lag embeddings of continuous signals, the design
matrices that a temporal response function (TRF) is fit over.

A lag set is an ordered range of integer sample offsets derived from a
[tmin, tmax] window in milliseconds.  Row t of the block for lag l holds
the input at sample t - l, so positive lags look back in time (the response
follows the stimulus), and negative lags look ahead.  In the Backward
(decoding) direction the window is sign-flipped, because the stimulus is
reconstructed from a response that follows it.
*/
package lags

import (
	"math"

	"github.com/goki/ki/kit"
)

// Directions are the modeling directions of a TRF
type Directions int

//go:generate stringer -type=Directions

var KiT_Directions = kit.Enums.AddEnum(DirectionsN, kit.NotBitFlag, nil)

func (ev Directions) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Directions) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

const (
	// Forward models predict the response from the stimulus (encoding)
	Forward Directions = iota

	// Backward models reconstruct the stimulus from the response (decoding)
	Backward

	DirectionsN
)

// Sign returns +1 for Forward and -1 for Backward
func (ev Directions) Sign() int {
	if ev == Backward {
		return -1
	}
	return 1
}

// Samples converts a [tmin, tmax] window in msec into the lowest and highest
// lag in samples, at sampling rate srate (Hz).  The window is rounded outward
// so that it is never narrower than requested.
func Samples(tmin, tmax, srate float64, dir Directions) (lo, hi int) {
	spm := srate / 1000
	if dir == Backward {
		tmin, tmax = -tmax, -tmin
	}
	lo = int(math.Floor(tmin*spm + 1e-9))
	hi = int(math.Ceil(tmax*spm - 1e-9))
	return
}

// Range returns the ordered lag set lo..hi inclusive
func Range(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	lg := make([]int, hi-lo+1)
	for i := range lg {
		lg[i] = lo + i
	}
	return lg
}

// FromWindow is Samples followed by Range
func FromWindow(tmin, tmax, srate float64, dir Directions) []int {
	return Range(Samples(tmin, tmax, srate, dir))
}

// Times returns the lag axis in msec, in the same order as lags.
// Backward lags are reported in the stimulus-relative frame (sign restored).
func Times(lags []int, srate float64, dir Directions) []float64 {
	t := make([]float64, len(lags))
	sg := float64(dir.Sign())
	for i, l := range lags {
		t[i] = sg * float64(l) * 1000 / srate
	}
	return t
}

// MinMax returns the smallest and largest lag in the set
func MinMax(lags []int) (mn, mx int) {
	if len(lags) == 0 {
		return 0, 0
	}
	mn, mx = lags[0], lags[0]
	for _, l := range lags[1:] {
		if l < mn {
			mn = l
		}
		if l > mx {
			mx = l
		}
	}
	return
}
