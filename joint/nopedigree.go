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
package joint

import "github.com/grailbio/cnv/segment"

// NoPedigreeResult is C5's output for one segment: the winning copy-number
// combination and, per sample, the depth-likelihood vector restricted to
// that combination's entries (all other entries zero) -- exactly the vector
// package quality's SampleQS expects.
type NoPedigreeResult struct {
	Combination         []int
	PerSampleLikelihood [][]float64
}

// InferNoPedigree is C5: pick the copy-number combination maximizing the
// summed best-per-sample depth likelihood, then assign each sample the
// element of that combination maximizing its own likelihood (ties broken
// toward the lowest CN). ms.PerSample must be ordered the same as samples.
//
// With a single sample, the combination search is skipped and the sample is
// assigned its unconstrained per-CN argmax directly (spec §4.5's edge case).
func InferNoPedigree(maxCN int, combos [][]int, samples []*segment.Sample, ms *segment.MultiSample, trimBins int) *NoPedigreeResult {
	likelihoods := make([][]float64, len(samples))
	for i, s := range samples {
		likelihoods[i] = s.DepthModel.DepthLikelihood(s.CappedCoverage(ms.PerSample[i].Coverage(trimBins)), maxCN)
	}

	if len(samples) == 1 {
		best := argmaxLowestTie(likelihoods[0])
		ms.PerSample[0].CN = best
		restricted := make([]float64, maxCN)
		restricted[best] = likelihoods[0][best]
		return &NoPedigreeResult{Combination: []int{best}, PerSampleLikelihood: [][]float64{restricted}}
	}

	var bestCombo []int
	bestTotal := negInf
	for _, c := range combos {
		total := 0.0
		for _, l := range likelihoods {
			total += maxOverSet(l, c)
		}
		if total > bestTotal {
			bestTotal = total
			bestCombo = c
		}
	}

	perSample := make([][]float64, len(samples))
	for i, l := range likelihoods {
		restricted := make([]float64, maxCN)
		bestCN, bestVal := bestCombo[0], negInf
		for _, cn := range bestCombo {
			restricted[cn] = l[cn]
			if l[cn] > bestVal || (l[cn] == bestVal && cn < bestCN) {
				bestVal = l[cn]
				bestCN = cn
			}
		}
		ms.PerSample[i].CN = bestCN
		perSample[i] = restricted
	}

	return &NoPedigreeResult{Combination: bestCombo, PerSampleLikelihood: perSample}
}

const negInf = -1e308

func maxOverSet(l []float64, set []int) float64 {
	best := negInf
	for _, cn := range set {
		if l[cn] > best {
			best = l[cn]
		}
	}
	return best
}

func argmaxLowestTie(l []float64) int {
	best := 0
	for cn := 1; cn < len(l); cn++ {
		if l[cn] > l[best] {
			best = cn
		}
	}
	return best
}
