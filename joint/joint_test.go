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
	"testing"

	"github.com/grailbio/cnv/depthmodel"
	"github.com/grailbio/cnv/genotype"
	"github.com/grailbio/cnv/segment"
	"github.com/grailbio/cnv/transition"
	"github.com/grailbio/testutil/expect"
)

func newSample(name string, mean float64) *segment.Sample {
	return &segment.Sample{
		Name:           name,
		MeanCoverage:   mean,
		MaxCoverageCap: 3 * mean,
		DepthModel:     depthmodel.NewGaussianModel(mean),
	}
}

func newSeg(cov float64) *segment.Segment {
	return &segment.Segment{BinDepths: []float64{cov, cov, cov, cov}}
}

func TestInferPedigreeTrioAllDiploid(t *testing.T) {
	maxCN := 5
	p1, p2, child := newSample("p1", 30), newSample("p2", 30), newSample("child", 30)
	trans := transition.NewMatrix(maxCN)
	parents := genotype.ParentalGenotypes(maxCN)
	og := genotype.OffspringGenotypes(parents, 1, 500, 1)

	ms := &segment.MultiSample{
		Begin: 0, End: 1000,
		PerSample: []*segment.Segment{newSeg(30), newSeg(30), newSeg(30)},
	}
	dist := InferPedigree(maxCN, trans, og, p1, p2, []*segment.Sample{child}, ms, 0)
	expect.EQ(t, ms.PerSample[0].CN, 2)
	expect.EQ(t, ms.PerSample[1].CN, 2)
	expect.EQ(t, ms.PerSample[2].CN, 2)

	peak, argmax := dist.Peak()
	assertFloatClose(t, dist.At(argmax), peak)
}

func TestInferPedigreeDeNovoDeletion(t *testing.T) {
	maxCN := 5
	p1, p2, child := newSample("p1", 30), newSample("p2", 30), newSample("child", 30)
	trans := transition.NewMatrix(maxCN)
	parents := genotype.ParentalGenotypes(maxCN)
	og := genotype.OffspringGenotypes(parents, 1, 500, 1)

	ms := &segment.MultiSample{
		Begin: 0, End: 1000,
		PerSample: []*segment.Segment{newSeg(30), newSeg(30), newSeg(15)},
	}
	InferPedigree(maxCN, trans, og, p1, p2, []*segment.Sample{child}, ms, 0)
	expect.EQ(t, ms.PerSample[0].CN, 2)
	expect.EQ(t, ms.PerSample[1].CN, 2)
	expect.EQ(t, ms.PerSample[2].CN, 1)
}

func TestInferPedigreeInheritedDuplication(t *testing.T) {
	maxCN := 5
	p1, p2, child := newSample("p1", 30), newSample("p2", 30), newSample("child", 30)
	trans := transition.NewMatrix(maxCN)
	parents := genotype.ParentalGenotypes(maxCN)
	og := genotype.OffspringGenotypes(parents, 1, 500, 1)

	ms := &segment.MultiSample{
		Begin: 0, End: 1000,
		PerSample: []*segment.Segment{newSeg(45), newSeg(30), newSeg(45)},
	}
	InferPedigree(maxCN, trans, og, p1, p2, []*segment.Sample{child}, ms, 0)
	expect.EQ(t, ms.PerSample[0].CN, 3)
	expect.EQ(t, ms.PerSample[1].CN, 2)
	expect.EQ(t, ms.PerSample[2].CN, 3)
}

func TestInferPedigreeZeroChildrenFactors(t *testing.T) {
	maxCN := 5
	p1, p2 := newSample("p1", 30), newSample("p2", 30)
	trans := transition.NewMatrix(maxCN)
	og := genotype.OffspringGenotypes(nil, 0, 500, 1)

	ms := &segment.MultiSample{
		Begin: 0, End: 1000,
		PerSample: []*segment.Segment{newSeg(30), newSeg(15)},
	}
	InferPedigree(maxCN, trans, og, p1, p2, nil, ms, 0)
	expect.EQ(t, ms.PerSample[0].CN, 2)
	expect.EQ(t, ms.PerSample[1].CN, 1)
}

func TestInferNoPedigreeUniformLoss(t *testing.T) {
	maxCN := 5
	samples := []*segment.Sample{
		newSample("s1", 30), newSample("s2", 30), newSample("s3", 30), newSample("s4", 30),
	}
	combos := genotype.CopyNumberCombinations(maxCN, 2)
	ms := &segment.MultiSample{
		Begin: 0, End: 1000,
		PerSample: []*segment.Segment{newSeg(15), newSeg(15), newSeg(15), newSeg(15)},
	}
	InferNoPedigree(maxCN, combos, samples, ms, 0)
	for _, seg := range ms.PerSample {
		expect.EQ(t, seg.CN, 1)
	}
}

func TestInferNoPedigreeSingleSample(t *testing.T) {
	maxCN := 5
	samples := []*segment.Sample{newSample("s1", 30)}
	ms := &segment.MultiSample{PerSample: []*segment.Segment{newSeg(45)}}
	InferNoPedigree(maxCN, nil, samples, ms, 0)
	expect.EQ(t, ms.PerSample[0].CN, 3)
}

func assertFloatClose(t *testing.T, a, b float64) {
	t.Helper()
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	if diff > 1e-9*(1+absFloat(b)) {
		t.Fatalf("expected %v ~= %v", a, b)
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
