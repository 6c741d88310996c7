// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simstat computes bootstrap similarity statistics between
// categories of profiles.
//
// A profile is any per-sample feature record that a Comparer can
// normalize and compare. Comparing a list of profiles yields the
// fraction of features they do not share; the amount shared is one
// minus that.
//
// Bootstrap estimates the amount shared by a list of profiles along
// with a percentile-bootstrap confidence interval.
// BuildSimilarityMatrix applies Bootstrap within each category and
// between each pair of categories to build a symmetric Matrix.
// BuildConsensusMatrix combines several matrices into one, using a
// normal-approximation interval of each cell's mean. IsDiagonal
// detects matrices whose categories share nothing with each other.
package simstat
