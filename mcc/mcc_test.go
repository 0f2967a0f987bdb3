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
package mcc

import (
	"testing"

	"github.com/grailbio/cnv/depthmodel"
	"github.com/grailbio/cnv/genotype"
	"github.com/grailbio/cnv/segment"
	"github.com/grailbio/testutil/expect"
)

func hetObs(n int) []segment.AlleleObservation {
	out := make([]segment.AlleleObservation, n)
	for i := range out {
		out[i] = segment.AlleleObservation{ACount: 15, BCount: 15}
	}
	return out
}

func TestUseMafInformationGatesOnLowestSample(t *testing.T) {
	segs := []*segment.Segment{
		{Alleles: hetObs(20)},
		{Alleles: hetObs(2)},
	}
	expect.EQ(t, UseMafInformation(segs, 10, 0, 1<<30), false)

	segs2 := []*segment.Segment{
		{Alleles: hetObs(20)},
		{Alleles: hetObs(20)},
	}
	expect.EQ(t, UseMafInformation(segs2, 10, 0, 1<<30), true)
}

func TestAssignPedigreeSkippedWithoutAlleleEvidence(t *testing.T) {
	genotypesByCN := genotype.GenotypesByCN(5)
	p1 := &segment.Sample{DepthModel: depthmodel.NewGaussianModel(30)}
	p2 := &segment.Sample{DepthModel: depthmodel.NewGaussianModel(30)}
	child := &segment.Sample{DepthModel: depthmodel.NewGaussianModel(30)}
	ms := &segment.MultiSample{PerSample: []*segment.Segment{
		{CN: 2}, {CN: 2}, {CN: 2},
	}}
	AssignPedigree(genotypesByCN, p1, p2, []*segment.Sample{child}, ms, 10, 0, 1<<30)
	for _, s := range ms.PerSample {
		expect.EQ(t, s.MCC == nil, true)
	}
}

func TestAssignPedigreeSetsMCCWithEvidence(t *testing.T) {
	genotypesByCN := genotype.GenotypesByCN(5)
	p1 := &segment.Sample{DepthModel: depthmodel.NewGaussianModel(30)}
	p2 := &segment.Sample{DepthModel: depthmodel.NewGaussianModel(30)}
	child := &segment.Sample{DepthModel: depthmodel.NewGaussianModel(30)}
	ms := &segment.MultiSample{PerSample: []*segment.Segment{
		{CN: 3, Alleles: hetObs(20)},
		{CN: 2, Alleles: hetObs(20)},
		{CN: 3, Alleles: hetObs(20)},
	}}
	AssignPedigree(genotypesByCN, p1, p2, []*segment.Sample{child}, ms, 10, 0, 1<<30)
	for _, s := range ms.PerSample {
		expect.EQ(t, s.MCC == nil, false)
	}
	// CN=2 reference parent always gets MCC=1.
	expect.EQ(t, *ms.PerSample[1].MCC, 1)
}

func TestAssignNoPedigreeLowCN(t *testing.T) {
	genotypesByCN := genotype.GenotypesByCN(5)
	s := &segment.Sample{DepthModel: depthmodel.NewGaussianModel(30)}
	ms := &segment.MultiSample{PerSample: []*segment.Segment{{CN: 2}}}
	AssignNoPedigree(genotypesByCN, []*segment.Sample{s}, ms)
	expect.EQ(t, *ms.PerSample[0].MCC, 1)

	ms2 := &segment.MultiSample{PerSample: []*segment.Segment{{CN: 0}}}
	AssignNoPedigree(genotypesByCN, []*segment.Sample{s}, ms2)
	expect.EQ(t, *ms2.PerSample[0].MCC, 0)
}

func TestAssignNoPedigreeHighCN(t *testing.T) {
	genotypesByCN := genotype.GenotypesByCN(5)
	s := &segment.Sample{DepthModel: depthmodel.NewGaussianModel(30)}
	ms := &segment.MultiSample{PerSample: []*segment.Segment{
		{CN: 4, Alleles: []segment.AlleleObservation{{ACount: 0, BCount: 30}}},
	}}
	AssignNoPedigree(genotypesByCN, []*segment.Sample{s}, ms)
	expect.EQ(t, *ms.PerSample[0].MCC, 4) // all-B evidence favors (0,4): MCC=4.
}
