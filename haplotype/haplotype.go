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

// Package haplotype implements C8: choosing, for a SegmentSet with two
// candidate segmentations, which one downstream calling reads from.
package haplotype

import "github.com/grailbio/cnv/segment"

// ScoreFunc returns one segment's maximum joint likelihood (C4's
// Distribution.Peak) or maximum summed per-sample likelihood (C5's
// NoPedigreeResult), already computed by the caller's inference pass over
// that haplotype's segment list.
type ScoreFunc func(ms *segment.MultiSample) float64

// Select is C8: for a SegmentSet carrying both haplotype lists, compute the
// average score (via score) over each list's segments and write the
// higher-averaging haplotype into ss.Selected. A SegmentSet with only one
// haplotype list present selects it unconditionally without invoking score.
//
// Select is idempotent: called twice with the same inputs it writes the
// same Selected value both times.
func Select(ss *segment.SegmentSet, score ScoreFunc) {
	switch {
	case ss.HaplotypeA != nil && ss.HaplotypeB == nil:
		ss.Selected = segment.HaplotypeA
		return
	case ss.HaplotypeB != nil && ss.HaplotypeA == nil:
		ss.Selected = segment.HaplotypeB
		return
	}

	avgA := average(ss.HaplotypeA, score)
	avgB := average(ss.HaplotypeB, score)
	if avgA >= avgB {
		ss.Selected = segment.HaplotypeA
	} else {
		ss.Selected = segment.HaplotypeB
	}
}

func average(list []*segment.MultiSample, score ScoreFunc) float64 {
	if len(list) == 0 {
		return 0
	}
	var sum float64
	for _, ms := range list {
		sum += score(ms)
	}
	return sum / float64(len(list))
}
