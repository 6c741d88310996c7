// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simstat

// consensusZ is the standard normal quantile of a two-sided 95%
// interval.
const consensusZ = 1.96

// BuildConsensusMatrix combines several same-shaped matrices, such as
// independent bootstrap runs or independent splits of the data, into
// one.
//
// Cell (i, j) of the result has the mean and standard deviation of
// the Shared values of cell (i, j) across ms. Its interval is the
// normal approximation of the sampling distribution of that mean,
// mean ∓ 1.96·stddev/√len(ms). The result takes its Keys from ms[0].
func BuildConsensusMatrix(ms []*Matrix) (*Matrix, error) {
	if len(ms) == 0 {
		return nil, ErrEmptyInput
	}
	size := ms[0].Size()
	for i, m := range ms[1:] {
		if m.Size() != size {
			return nil, &ShapeMismatchError{Index: i + 1, Want: size, Got: m.Size()}
		}
	}

	out := NewMatrixSize(size)
	if ms[0].Keys != nil {
		out.Keys = append([]string(nil), ms[0].Keys...)
	}
	for i := range size {
		for j := i; j < size; j++ {
			vals := make([]float64, len(ms))
			for k, m := range ms {
				vals[k] = m.At(i, j).Shared
			}
			dist, err := NewDistribution(vals, DistributionOptions{})
			if err != nil {
				return nil, err
			}
			lo, hi := dist.NormalCI(consensusZ)
			out.Set(i, j, Cell{Shared: dist.Mean, StdDev: dist.StdDev, Low: lo, High: hi})
		}
	}
	return out, nil
}
