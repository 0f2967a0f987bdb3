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

// RunNoPedigree is C9's no-pedigree entry point: C5's independent per-sample
// CN assignment in place of C4, otherwise the same C7->C6 sequence and C10
// merge as RunPedigree.
func RunNoPedigree(p params.Params, samples []*segment.Sample, sets []*segment.SegmentSet) ([]segment.CallSet, error) {
	if len(samples) == 0 {
		return nil, errors.E(errors.Invalid, "caller: no-pedigree mode requires at least one sample")
	}
	for _, ss := range sets {
		if err := ss.Validate(); err != nil {
			return nil, err
		}
	}

	tables := NewNoPedigreeTables(p)
	workers := WorkerCount(p.MaxCoreNumber)
	ranges := PartitionRanges(len(sets), workers)

	log.Debug.Printf("caller: no-pedigree pass starting, %d segment set(s), %d worker(s)", len(sets), len(ranges))

	if err := traverse.Each(len(ranges), func(i int) error {
		r := ranges[i]
		for idx := r.Lo; idx <= r.Hi; idx++ {
			callNoPedigreeSet(p, tables, samples, sets[idx])
		}
		return nil
	}); err != nil {
		return nil, errors.E(err, "caller: no-pedigree pass failed")
	}

	return mergeCalls(p, samples, sets)
}

func callNoPedigreeSet(p params.Params, tables *Tables, samples []*segment.Sample, ss *segment.SegmentSet) {
	results := make(map[*segment.MultiSample]*joint.NoPedigreeResult)

	score := func(ms *segment.MultiSample) float64 {
		res := joint.InferNoPedigree(p.MaxCN, tables.Combinations, samples, ms, p.NumberOfTrimmedBins)
		results[ms] = res
		var total float64
		for _, v := range res.PerSampleLikelihood {
			var best float64
			for _, x := range v {
				if x > best {
					best = x
				}
			}
			total += best
		}
		return total
	}

	for _, ms := range ss.HaplotypeA {
		score(ms)
	}
	for _, ms := range ss.HaplotypeB {
		score(ms)
	}
	haplotype.Select(ss, score)

	for _, ms := range ss.Selection() {
		res := results[ms]
		for i := range samples {
			seg := ms.PerSample[i]
			seg.QS = quality.SampleQS(res.PerSampleLikelihood[i], seg.CN, p.MaxQScore)
			applyQualityFilter(seg, p.QualityFilterThreshold)
		}
		mcc.AssignNoPedigree(tables.GenotypesByCN, samples, ms)
	}
}
