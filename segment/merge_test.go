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
package segment

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func seg(cn int, qs float64) *Segment { return &Segment{CN: cn, QS: qs} }

func TestMergeAdjacentCollapsesIdenticalCN(t *testing.T) {
	calls := []CallSet{
		{Chrom: "chr1", Begin: 0, End: 1000, PerSample: []*Segment{seg(3, 10), seg(2, 20)}},
		{Chrom: "chr1", Begin: 1000, End: 2000, PerSample: []*Segment{seg(3, 20), seg(2, 30)}},
		{Chrom: "chr1", Begin: 2000, End: 3000, PerSample: []*Segment{seg(3, 30), seg(2, 10)}},
	}
	merged := MergeAdjacent(calls, 10000, 100)
	expect.EQ(t, len(merged), 1)
	expect.EQ(t, merged[0].Begin, int64(0))
	expect.EQ(t, merged[0].End, int64(3000))
	expect.EQ(t, merged[0].PerSample[0].QS, 20.0)
	expect.EQ(t, merged[0].PerSample[1].QS, 20.0)
}

func TestMergeAdjacentRespectsCNDifference(t *testing.T) {
	calls := []CallSet{
		{Chrom: "chr1", Begin: 0, End: 1000, PerSample: []*Segment{seg(2, 50)}},
		{Chrom: "chr1", Begin: 1000, End: 2000, PerSample: []*Segment{seg(3, 50)}},
	}
	merged := MergeAdjacent(calls, 10000, 100)
	expect.EQ(t, len(merged), 2)
}

func TestMergeAdjacentRespectsGap(t *testing.T) {
	calls := []CallSet{
		{Chrom: "chr1", Begin: 0, End: 1000, PerSample: []*Segment{seg(3, 50)}},
		{Chrom: "chr1", Begin: 20000, End: 21000, PerSample: []*Segment{seg(3, 50)}},
	}
	merged := MergeAdjacent(calls, 10000, 100)
	expect.EQ(t, len(merged), 2)
}

func TestMergeAdjacentDropsTinyReferenceCalls(t *testing.T) {
	calls := []CallSet{
		{Chrom: "chr1", Begin: 0, End: 50, PerSample: []*Segment{seg(2, 50)}},
	}
	merged := MergeAdjacent(calls, 10000, 1000)
	expect.EQ(t, len(merged), 0)

	nonRef := []CallSet{
		{Chrom: "chr1", Begin: 0, End: 50, PerSample: []*Segment{seg(3, 50)}},
	}
	merged = MergeAdjacent(nonRef, 10000, 1000)
	expect.EQ(t, len(merged), 1)
}

func TestMergeAdjacentIsStable(t *testing.T) {
	calls := []CallSet{
		{Chrom: "chr1", Begin: 0, End: 1000, PerSample: []*Segment{seg(3, 10)}},
		{Chrom: "chr1", Begin: 1000, End: 2000, PerSample: []*Segment{seg(3, 30)}},
		{Chrom: "chr2", Begin: 0, End: 500, PerSample: []*Segment{seg(1, 5)}},
	}
	first := MergeAdjacent(calls, 10000, 100)
	second := MergeAdjacent(first, 10000, 100)
	expect.EQ(t, len(first), len(second))
	for i := range first {
		expect.EQ(t, first[i].Begin, second[i].Begin)
		expect.EQ(t, first[i].End, second[i].End)
		expect.EQ(t, first[i].Chrom, second[i].Chrom)
	}
}
