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
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"

	"github.com/grailbio/cnv/segment"
)

func seg(chrom string, begin, end int64) *segment.Segment {
	return &segment.Segment{Chrom: chrom, Begin: begin, End: end, BinDepths: []float64{30, 30}}
}

func TestBuildSegmentSetsNoCommonCNV(t *testing.T) {
	sampleSegments := [][]*segment.Segment{
		{seg("chr1", 0, 100), seg("chr1", 100, 200)},
		{seg("chr1", 0, 100), seg("chr1", 100, 200)},
	}
	sets, err := BuildSegmentSets(sampleSegments, nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, len(sets) == 2)
	for _, ss := range sets {
		assert.True(t, ss.HaplotypeB == nil)
		assert.True(t, len(ss.HaplotypeA) == 1)
	}
}

func TestBuildSegmentSetsMergesCommonCNVRun(t *testing.T) {
	sampleSegments := [][]*segment.Segment{
		{seg("chr1", 0, 100), seg("chr1", 100, 200), seg("chr1", 200, 300)},
	}
	sets, err := buildSegmentSetsWithContains(sampleSegments, func(chrom string, pos int64) bool {
		return pos == 0 || pos == 100
	})
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, len(sets) == 2)
	expect.EQ(t, len(sets[0].HaplotypeA), 2)
	expect.EQ(t, len(sets[0].HaplotypeB), 1)
	expect.EQ(t, sets[0].HaplotypeB[0].Begin, int64(0))
	expect.EQ(t, sets[0].HaplotypeB[0].End, int64(200))
	expect.EQ(t, len(sets[0].HaplotypeB[0].PerSample[0].BinDepths), 4)
}

func TestBuildSegmentSetsDisagreeingSpansError(t *testing.T) {
	sampleSegments := [][]*segment.Segment{
		{seg("chr1", 0, 100)},
		{seg("chr1", 0, 150)},
	}
	_, err := BuildSegmentSets(sampleSegments, nil)
	assert.True(t, err != nil)
}
