// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package trf cross-validates multisensory additive temporal response function
(TRF) models.

An additive model predicts the response to a combined (e.g., audiovisual)
stimulus as the sum of the two unisensory models.  AddCrossVal trains on the
summed covariances of the two unisensory recordings (RespA, RespB) and tests
each left-out trial segment against the recorded combined response (Resp),
for every regularization strength in Params.Lambdas.

	var pr trf.Params
	pr.Defaults()
	pr.SRate = 128
	pr.TMin, pr.TMax = -100, 400
	pr.Lambdas = []float64{0.1, 1, 10, 100}
	perf, err := trf.AddCrossVal(ctx, data, &pr)

The result is a Perf record of accuracy and error tensors indexed by fold,
lambda and output variable (and lag, for SingleLag models).  Choosing the
best lambda is left to the caller.

Train and Model.Predict fit and apply an ordinary (non cross-validated)
forward or backward model over all trials.
*/
package trf

import "errors"

var (
	// ErrShapeMismatch is returned when trial families disagree in trial,
	// observation or variable counts.
	ErrShapeMismatch = errors.New("trf: shape mismatch")

	// ErrInvalidParameter is returned for an out-of-range parameter
	ErrInvalidParameter = errors.New("trf: invalid parameter")
)
