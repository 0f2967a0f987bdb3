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
	"github.com/grailbio/cnv/params"
	"github.com/grailbio/cnv/segment"
)

// mergeCalls is the tail of C9's control flow: once every SegmentSet has a
// selected haplotype with final per-sample call state, flatten the selected
// MultiSamples into CallSets (one per segment-set, PerSample already ordered
// identically to `samples`) and hand them to C10's adjacency merge.
func mergeCalls(p params.Params, samples []*segment.Sample, sets []*segment.SegmentSet) ([]segment.CallSet, error) {
	var calls []segment.CallSet
	for _, ss := range sets {
		for _, ms := range ss.Selection() {
			calls = append(calls, segment.CallSet{
				Chrom:     ss.Chrom,
				Begin:     ms.Begin,
				End:       ms.End,
				PerSample: ms.PerSample,
			})
		}
	}
	return segment.MergeAdjacent(calls, p.MaxMergeGap, p.MinimumCallSize), nil
}
