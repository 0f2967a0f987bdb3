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
package cnvio

import (
	"github.com/grailbio/base/errors"

	"github.com/grailbio/cnv/segment"
)

// BuildSegmentSets assembles the joint per-sample segmentation into
// SegmentSets ready for caller.RunPedigree/RunNoPedigree. sampleSegments[i]
// is sample i's segments (see LoadSegments); every sample is required to
// share identical breakpoints in identical order, the upstream-segmentation
// contract spec §1 takes as given ("reading ... the upstream segmentation"
// is out of scope for this module).
//
// When common is non-nil, runs of consecutive segments that fall entirely
// inside one common-CNV region are additionally offered as a single merged
// span (HaplotypeB), so C8 can choose between the finer upstream split
// (HaplotypeA) and treating the whole recurrent region as one event. This
// resolves spec §6's otherwise-unspecified "alternative ... haplotype
// partitioning" by merging on recurrence rather than, say, allele phase,
// since only coverage+SNV data (not phased reads) is available to this
// module. Segments outside any common-CNV region get a HaplotypeA-only
// SegmentSet.
func BuildSegmentSets(sampleSegments [][]*segment.Segment, common *CommonCNVRegions) ([]*segment.SegmentSet, error) {
	contains := func(string, int64) bool { return false }
	if common != nil {
		contains = common.Contains
	}
	return buildSegmentSetsWithContains(sampleSegments, contains)
}

// buildSegmentSetsWithContains is BuildSegmentSets with the common-CNV
// lookup injected, so tests can exercise the merging logic without a BED
// file on disk.
func buildSegmentSetsWithContains(sampleSegments [][]*segment.Segment, contains func(chrom string, pos int64) bool) ([]*segment.SegmentSet, error) {
	if len(sampleSegments) == 0 {
		return nil, errors.E(errors.Invalid, "cnvio: no samples given")
	}
	n := len(sampleSegments[0])
	for i, segs := range sampleSegments {
		if len(segs) != n {
			return nil, errors.E(errors.Precondition, "cnvio: sample", i, "has", len(segs), "segments, want", n)
		}
	}

	atoms := make([]*segment.MultiSample, n)
	for j := 0; j < n; j++ {
		perSample := make([]*segment.Segment, len(sampleSegments))
		for i, segs := range sampleSegments {
			if segs[j].Chrom != sampleSegments[0][j].Chrom ||
				segs[j].Begin != sampleSegments[0][j].Begin ||
				segs[j].End != sampleSegments[0][j].End {
				return nil, errors.E(errors.Precondition, "cnvio: sample", i, "segment", j,
					"span disagrees with sample 0's segment", j)
			}
			perSample[i] = segs[j]
		}
		atoms[j] = &segment.MultiSample{
			Begin:     sampleSegments[0][j].Begin,
			End:       sampleSegments[0][j].End,
			PerSample: perSample,
		}
	}

	var sets []*segment.SegmentSet
	i := 0
	for i < n {
		chrom := sampleSegments[0][i].Chrom
		if !contains(chrom, atoms[i].Begin) {
			sets = append(sets, &segment.SegmentSet{Chrom: chrom, HaplotypeA: atoms[i : i+1]})
			i++
			continue
		}
		j := i + 1
		for j < n && sampleSegments[0][j].Chrom == chrom && contains(chrom, atoms[j].Begin) && atoms[j].Begin == atoms[j-1].End {
			j++
		}
		run := atoms[i:j]
		if len(run) == 1 {
			sets = append(sets, &segment.SegmentSet{Chrom: chrom, HaplotypeA: run})
		} else {
			sets = append(sets, &segment.SegmentSet{
				Chrom:      chrom,
				HaplotypeA: run,
				HaplotypeB: []*segment.MultiSample{mergeRun(run)},
			})
		}
		i = j
	}
	return sets, nil
}

// mergeRun collapses a contiguous run of atomic MultiSamples into one,
// concatenating each sample's evidence across the run.
func mergeRun(run []*segment.MultiSample) *segment.MultiSample {
	numSamples := len(run[0].PerSample)
	merged := &segment.MultiSample{
		Begin:     run[0].Begin,
		End:       run[len(run)-1].End,
		PerSample: make([]*segment.Segment, numSamples),
	}
	for s := 0; s < numSamples; s++ {
		base := run[0].PerSample[s]
		out := &segment.Segment{Chrom: base.Chrom, Begin: merged.Begin, End: merged.End}
		for _, ms := range run {
			seg := ms.PerSample[s]
			out.BinDepths = append(out.BinDepths, seg.BinDepths...)
			out.Alleles = append(out.Alleles, seg.Alleles...)
		}
		merged.PerSample[s] = out
	}
	return merged
}
