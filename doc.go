// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package mtrf is the overall repository for multisensory temporal response
function (TRF) modeling in the Go language (golang).

This top-level of the repository has no functional code -- everything is organized
into the following sub-packages:

* lags: converts time windows into lag sets and builds time-lagged design
matrices, with zero-padded or truncated trial edges.

* cov: per-segment input and cross covariance, with Eager (stored) and
Lazy (recomputed) leave-one-out accumulation, and the additive combination
of two unisensory covariance sets.

* reg: the Ridge, Tikhonov and OLS regularization operators.

* fit: solves the regularized normal equations and applies the weights.

* eval: Pearson / Spearman accuracy and MSE / MAE error per output variable.

* trf: AddCrossVal, the additive-model cross-validation engine, plus
Train and Predict for ordinary forward and backward models.

* kfold: contiguous k-fold row partitioning.

* synth: synthetic multisensory trials with a known response kernel.

* examples: examples/addcv compiles into a runnable program that
cross-validates an additive model on synthetic data over a range of
regularization strengths.
*/
package mtrf
