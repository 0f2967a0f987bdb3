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
	"strings"
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestPloidyMapDefault(t *testing.T) {
	var p *PloidyMap
	expect.EQ(t, p.Ploidy("chrX", 100), 2)

	p = NewPloidyMap([]PloidyInterval{{Chrom: "chrY", Begin: 0, End: 1000, Ploidy: 1}})
	expect.EQ(t, p.Ploidy("chrY", 500), 1)
	expect.EQ(t, p.Ploidy("chrY", 1500), 2)
	expect.EQ(t, p.Ploidy("chr1", 500), 2)
}

func TestSampleCappedCoverage(t *testing.T) {
	s := &Sample{MeanCoverage: 30, MaxCoverageCap: 90}
	expect.EQ(t, s.CappedCoverage(45), 45.0)
	expect.EQ(t, s.CappedCoverage(200), 90.0)
}

func TestSegmentCoverageTrims(t *testing.T) {
	seg := &Segment{BinDepths: []float64{1, 30, 31, 29, 30, 100}}
	// Trim the single lowest (1) and single highest (100); mean of the rest.
	got := seg.Coverage(1)
	expect.EQ(t, got, (30.0+31.0+29.0+30.0)/4.0)
}

func TestSegmentSetValidate(t *testing.T) {
	good := &SegmentSet{
		Chrom:      "chr1",
		HaplotypeA: []*MultiSample{{Begin: 0, End: 100}},
		HaplotypeB: []*MultiSample{{Begin: 0, End: 50}, {Begin: 50, End: 100}},
	}
	assert.NoError(t, good.Validate())

	mismatched := &SegmentSet{
		Chrom:      "chr1",
		HaplotypeA: []*MultiSample{{Begin: 0, End: 90}},
		HaplotypeB: []*MultiSample{{Begin: 0, End: 100}},
	}
	assert.True(t, strings.Contains(mismatched.Validate().Error(), "different spans"))

	empty := &SegmentSet{Chrom: "chr1"}
	assert.True(t, strings.Contains(empty.Validate().Error(), "neither haplotype"))
}

func TestSegmentSetSelection(t *testing.T) {
	onlyA := &SegmentSet{HaplotypeA: []*MultiSample{{Begin: 0, End: 10}}}
	expect.EQ(t, len(onlyA.Selection()), 1)

	both := &SegmentSet{
		HaplotypeA: []*MultiSample{{Begin: 0, End: 10}},
		HaplotypeB: []*MultiSample{{Begin: 0, End: 5}, {Begin: 5, End: 10}},
		Selected:   HaplotypeB,
	}
	expect.EQ(t, len(both.Selection()), 2)
}
