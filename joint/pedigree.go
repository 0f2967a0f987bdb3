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

import (
	"github.com/grailbio/cnv/genotype"
	"github.com/grailbio/cnv/segment"
	"github.com/grailbio/cnv/transition"
)

// InferPedigree is C4: for one segment (ms), enumerate parental copy
// numbers and capped offspring-genotype vectors, score each combination
// under trans and the samples' depth models, and record the maximum-
// likelihood tuple as the segment's CN call for every sample. ms.PerSample
// must be ordered [parent1, parent2, child_0, ..., child_{k-1}], matching
// children.
//
// offspringGenotypes is the (possibly subsampled; see genotype.OffspringGenotypes)
// list of candidate k-vectors of offspring genotypes. trimBins feeds
// segment.Segment.Coverage's bin trimming.
func InferPedigree(
	maxCN int,
	trans transition.Matrix,
	offspringGenotypes [][]genotype.Genotype,
	parent1, parent2 *segment.Sample,
	children []*segment.Sample,
	ms *segment.MultiSample,
	trimBins int,
) *Distribution {
	k := len(children)
	numAxes := 2 + k

	// Reset CN = 2 for all samples at this segment before the sweep, per
	// spec §4.4.
	for _, s := range ms.PerSample {
		s.CN = 2
	}

	p1Seg, p2Seg := ms.PerSample[0], ms.PerSample[1]
	lp1 := parent1.DepthModel.DepthLikelihood(parent1.CappedCoverage(p1Seg.Coverage(trimBins)), maxCN)
	lp2 := parent2.DepthModel.DepthLikelihood(parent2.CappedCoverage(p2Seg.Coverage(trimBins)), maxCN)

	lchild := make([][]float64, k)
	for i, c := range children {
		childSeg := ms.PerSample[2+i]
		lchild[i] = c.DepthModel.DepthLikelihood(c.CappedCoverage(childSeg.Coverage(trimBins)), maxCN)
	}

	dist := NewDistribution(maxCN, numAxes)
	idx := make([]int, numAxes)

	for cn1 := 0; cn1 < maxCN; cn1++ {
		for cn2 := 0; cn2 < maxCN; cn2++ {
			base := lp1[cn1] * lp2[cn2]
			for _, o := range offspringGenotypes {
				l := base
				for i, g := range o {
					childCN := g.A + g.B
					if childCN > maxCN-1 {
						childCN = maxCN - 1
					}
					l *= trans[cn1][g.A] * trans[cn2][g.B] * lchild[i][childCN]
					idx[2+i] = childCN
				}
				idx[0], idx[1] = cn1, cn2
				dist.Update(idx, l)
			}
		}
	}

	_, argmax := dist.Peak()
	p1Seg.CN = argmax[0]
	p2Seg.CN = argmax[1]
	for i := range children {
		ms.PerSample[2+i].CN = argmax[2+i]
	}
	return dist
}
