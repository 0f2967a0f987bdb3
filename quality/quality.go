// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package quality implements C7: Phred-scaled per-sample quality scores and
// the conditional de-novo quality score for probands.
package quality

import (
	"math"

	"github.com/grailbio/cnv/joint"
	"github.com/grailbio/cnv/transition"
)

// refCN is the reference (expected) copy number the de-novo formula tests
// against. The source hard-codes diploid regardless of a sample's actual
// expected ploidy; this is a known approximation on sex chromosomes,
// preserved here rather than corrected.
const refCN = 2

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SampleQS is the Phred-scaled per-sample quality score: given an
// unnormalized likelihood vector v and the chosen copy number c (capped at
// len(v)-1), QS = -10*log10((sum(v) - v[c]) / sum(v)), clipped to
// [0, maxQScore].
func SampleQS(v []float64, c int, maxQScore float64) float64 {
	if c >= len(v) {
		c = len(v) - 1
	}
	if c < 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	if sum <= 0 {
		return maxQScore
	}
	frac := (sum - v[c]) / sum
	if frac <= 0 {
		return maxQScore
	}
	return clip(-10*math.Log10(frac), 0, maxQScore)
}

// MarginalQS is C7's pedigree variant of SampleQS: marginalize dist over
// every axis but axis, then apply the same formula.
func MarginalQS(dist *joint.Distribution, axis, c int, maxQScore float64) float64 {
	return SampleQS(dist.Marginal(axis), c, maxQScore)
}

// ProbandContext bundles the per-proband facts DeNovoQS needs to decide
// whether the conditional de-novo formula applies to a sibling proband, and
// (for the proband being scored) to compute it.
type ProbandContext struct {
	Axis      int     // this proband's axis index in dist
	CN        int     // chosen CN
	QS        float64 // this proband's SampleQS/MarginalQS
	CommonCNV bool    // shares an allele set with a parent at the same ploidy
}

// IsCommonCNV reports whether a proband's called genotype shares its allele
// set with a parent called at the same copy number -- spec §4.7's "common
// CNV" test, approximated via MCC equality at matching CN since both were
// derived from the same genotype table.
func IsCommonCNV(childCN int, childMCC *int, parentCN int, parentMCC *int) bool {
	if childMCC == nil || parentMCC == nil {
		return false
	}
	return childCN == parentCN && *childMCC == *parentMCC
}

// DeNovoQS computes the conditional de-novo QS for proband `this`, or
// returns nil when the gating conditions are not met: this proband must be
// non-reference; either both parents are reference-CN, or this proband's
// call is not a common CNV; every other proband must be reference-CN or
// not a common CNV; and all three of parent1, parent2, and this proband's
// QS must exceed qualityFilterThreshold. siblingAxes are the axes of every
// other proband besides `this` (fixed to refCN in the numerator, per
// spec §4.7).
func DeNovoQS(
	dist *joint.Distribution,
	parent1Axis, parent2Axis, parent1CN, parent2CN int,
	parent1QS, parent2QS float64,
	this ProbandContext,
	otherProbands []ProbandContext,
	siblingAxes []int,
	qualityFilterThreshold, maxQScore float64,
) *float64 {
	if this.CN == refCN {
		return nil
	}
	refParents := parent1CN == refCN && parent2CN == refCN
	if !refParents && this.CommonCNV {
		return nil
	}
	for _, o := range otherProbands {
		if o.CN != refCN && o.CommonCNV {
			return nil
		}
	}
	if parent1QS <= qualityFilterThreshold || parent2QS <= qualityFilterThreshold || this.QS <= qualityFilterThreshold {
		return nil
	}

	fixed := map[int]int{this.Axis: this.CN, parent1Axis: refCN, parent2Axis: refCN}
	for _, ax := range siblingAxes {
		fixed[ax] = refCN
	}
	numerator := dist.SumWhere(fixed)
	denominator := dist.SumWhere(map[int]int{this.Axis: this.CN})
	if denominator <= 0 {
		return nil
	}

	margin := dist.Marginal(this.Axis)
	altDenom := margin[this.CN] + margin[refCN]
	if altDenom <= 0 {
		return nil
	}
	probandMargAlt := margin[this.CN] / altDenom

	deNovo := (1 - numerator/denominator) * (1 - probandMargAlt)
	if deNovo < transition.DeNovoRate {
		deNovo = transition.DeNovoRate
	}
	dqs := clip(-10*math.Log10(deNovo), 0, maxQScore)
	return &dqs
}
