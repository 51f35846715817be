// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kfold partitions the rows of a matrix into contiguous folds.
package kfold

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrBadFolds is returned for a fold count or test index out of range
var ErrBadFolds = errors.New("kfold: invalid fold count or index")

// Bounds returns the [start, end) row ranges of k contiguous partitions
// of n rows.  The first n mod k partitions get one extra row.
func Bounds(n, k int) [][2]int {
	sz, ex := n/k, n%k
	bd := make([][2]int, k)
	st := 0
	for i := range bd {
		ed := st + sz
		if i < ex {
			ed++
		}
		bd[i] = [2]int{st, ed}
		st = ed
	}
	return bd
}

// Partition splits the rows of x into k contiguous near-equal partitions.
// If test >= 0, that partition is removed from train and returned as held;
// test = -1 holds out nothing.  Partitions are views on x.
func Partition(x *mat.Dense, k, test int) (train []*mat.Dense, held *mat.Dense, err error) {
	n, c := x.Dims()
	if k < 1 || k > n {
		return nil, nil, fmt.Errorf("Partition: %d folds of %d rows: %w", k, n, ErrBadFolds)
	}
	if test < -1 || test >= k {
		return nil, nil, fmt.Errorf("Partition: test fold %d of %d: %w", test, k, ErrBadFolds)
	}
	for i, b := range Bounds(n, k) {
		p := x.Slice(b[0], b[1], 0, c).(*mat.Dense)
		if i == test {
			held = p
			continue
		}
		train = append(train, p)
	}
	return train, held, nil
}
