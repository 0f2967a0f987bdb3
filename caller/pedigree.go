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
package caller

import (
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"

	"github.com/grailbio/cnv/haplotype"
	"github.com/grailbio/cnv/joint"
	"github.com/grailbio/cnv/mcc"
	"github.com/grailbio/cnv/params"
	"github.com/grailbio/cnv/quality"
	"github.com/grailbio/cnv/segment"
)

// RunPedigree is C9's pedigree-mode entry point: it partitions sets into
// disjoint worker ranges, runs C4 (joint inference) -> C7 (quality) -> C6
// (MCC) per segment-set in strict sequence on each worker, and finally
// performs C10's cross-sample merge. parent1, parent2 and children must be
// ordered consistently with every ms.PerSample in sets (see
// pedigree.Trio); the full inference-order sample list is
// [parent1, parent2, children...].
func RunPedigree(p params.Params, parent1, parent2 *segment.Sample, children []*segment.Sample, sets []*segment.SegmentSet) ([]segment.CallSet, error) {
	if parent1 == nil || parent2 == nil {
		return nil, errors.E(errors.Invalid, "caller: pedigree mode requires two parent samples")
	}
	for _, ss := range sets {
		if err := ss.Validate(); err != nil {
			return nil, err
		}
	}

	tables := NewPedigreeTables(p, len(children))
	workers := WorkerCount(p.MaxCoreNumber)
	ranges := PartitionRanges(len(sets), workers)

	log.Debug.Printf("caller: pedigree pass starting, %d segment set(s), %d worker(s)", len(sets), len(ranges))

	if err := traverse.Each(len(ranges), func(i int) error {
		r := ranges[i]
		for idx := r.Lo; idx <= r.Hi; idx++ {
			callPedigreeSet(p, tables, parent1, parent2, children, sets[idx])
		}
		return nil
	}); err != nil {
		return nil, errors.E(err, "caller: pedigree pass failed")
	}

	samples := allSamples(parent1, parent2, children)
	return mergeCalls(p, samples, sets)
}

// callPedigreeSet runs the full C4->C7->C6 sequence for one SegmentSet,
// first scoring both haplotypes (when both are present) so C8 can pick a
// winner, then finalizing quality and MCC only for the winning haplotype's
// segments.
func callPedigreeSet(p params.Params, tables *Tables, parent1, parent2 *segment.Sample, children []*segment.Sample, ss *segment.SegmentSet) {
	dists := make(map[*segment.MultiSample]*joint.Distribution)

	score := func(ms *segment.MultiSample) float64 {
		dist := joint.InferPedigree(p.MaxCN, tables.Transition, tables.OffspringGenotypes, parent1, parent2, children, ms, p.NumberOfTrimmedBins)
		dists[ms] = dist
		peak, _ := dist.Peak()
		return peak
	}

	for _, ms := range ss.HaplotypeA {
		score(ms)
	}
	for _, ms := range ss.HaplotypeB {
		score(ms)
	}
	haplotype.Select(ss, score)

	for _, ms := range ss.Selection() {
		dist := dists[ms]
		finalizePedigreeSegment(p, tables, parent1, parent2, children, ms, dist)
	}
}

// finalizePedigreeSegment applies C7 (quality, including conditional de-novo
// QS) and then C6 (MCC) to one already-called segment.
func finalizePedigreeSegment(p params.Params, tables *Tables, parent1, parent2 *segment.Sample, children []*segment.Sample, ms *segment.MultiSample, dist *joint.Distribution) {
	p1Seg, p2Seg := ms.PerSample[0], ms.PerSample[1]
	p1Seg.QS = quality.MarginalQS(dist, 0, p1Seg.CN, p.MaxQScore)
	p2Seg.QS = quality.MarginalQS(dist, 1, p2Seg.CN, p.MaxQScore)
	applyQualityFilter(p1Seg, p.QualityFilterThreshold)
	applyQualityFilter(p2Seg, p.QualityFilterThreshold)

	type probandInfo struct {
		seg       *segment.Segment
		axis      int
		commonCNV bool
	}
	probands := make([]probandInfo, len(children))
	for i := range children {
		axis := 2 + i
		childSeg := ms.PerSample[axis]
		childSeg.QS = quality.MarginalQS(dist, axis, childSeg.CN, p.MaxQScore)
		applyQualityFilter(childSeg, p.QualityFilterThreshold)
		// Common-CNV test per glossary: the proband's CN is non-reference and
		// matches one of its parents' CN. This only needs the CN calls already
		// written by C4, not C6's allele split, so it can run before MCC.
		common := childSeg.CN != 2 && (childSeg.CN == p1Seg.CN || childSeg.CN == p2Seg.CN)
		probands[i] = probandInfo{seg: childSeg, axis: axis, commonCNV: common}
	}

	for i, pi := range probands {
		var siblingAxes []int
		var others []quality.ProbandContext
		for j, other := range probands {
			if j == i {
				continue
			}
			siblingAxes = append(siblingAxes, other.axis)
			others = append(others, quality.ProbandContext{
				Axis: other.axis, CN: other.seg.CN, QS: other.seg.QS, CommonCNV: other.commonCNV,
			})
		}
		this := quality.ProbandContext{Axis: pi.axis, CN: pi.seg.CN, QS: pi.seg.QS, CommonCNV: pi.commonCNV}
		dqs := quality.DeNovoQS(dist, 0, 1, p1Seg.CN, p2Seg.CN, p1Seg.QS, p2Seg.QS, this, others, siblingAxes, p.QualityFilterThreshold, p.MaxQScore)
		pi.seg.DQS = dqs
	}

	mcc.AssignPedigree(tables.GenotypesByCN, parent1, parent2, children, ms, p.DefaultReadCountsThreshold, p.DefaultAlleleDensityThreshold, p.DefaultPerSegmentAlleleMaxCounts)
}

func allSamples(parent1, parent2 *segment.Sample, children []*segment.Sample) []*segment.Sample {
	out := make([]*segment.Sample, 0, 2+len(children))
	out = append(out, parent1, parent2)
	out = append(out, children...)
	return out
}
