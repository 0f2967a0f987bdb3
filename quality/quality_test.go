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
package quality

import (
	"testing"

	"github.com/grailbio/cnv/joint"
	"github.com/grailbio/testutil/expect"
)

func TestSampleQSPerfectCallClipsToMax(t *testing.T) {
	v := []float64{0, 0, 1.0, 0, 0}
	qs := SampleQS(v, 2, 60)
	expect.EQ(t, qs, 60.0)
}

func TestSampleQSSplitEvidence(t *testing.T) {
	v := []float64{0, 0, 0.9, 0.1, 0}
	qs := SampleQS(v, 2, 60)
	if qs <= 0 || qs >= 60 {
		t.Fatalf("expected QS strictly between 0 and 60, got %v", qs)
	}
}

func TestSampleQSCapsIndexAtMaxCN(t *testing.T) {
	v := []float64{0, 0, 1.0}
	qs := SampleQS(v, 10, 60) // c beyond len(v) caps to len(v)-1.
	expect.EQ(t, qs, 60.0)
}

func TestDeNovoQSNilWhenReference(t *testing.T) {
	dist := joint.NewDistribution(5, 3)
	this := ProbandContext{Axis: 2, CN: 2, QS: 50}
	dqs := DeNovoQS(dist, 0, 1, 2, 2, 50, 50, this, nil, nil, 7, 60)
	expect.EQ(t, dqs == nil, true)
}

func TestDeNovoQSNilWhenParentQSBelowThreshold(t *testing.T) {
	dist := joint.NewDistribution(5, 3)
	dist.Update([]int{2, 2, 1}, 1.0)
	this := ProbandContext{Axis: 2, CN: 1, QS: 50}
	dqs := DeNovoQS(dist, 0, 1, 2, 2, 3 /* below threshold */, 50, this, nil, nil, 7, 60)
	expect.EQ(t, dqs == nil, true)
}

func TestDeNovoQSComputesScoreForCleanDeNovo(t *testing.T) {
	dist := joint.NewDistribution(5, 3)
	// All mass at parents=ref, proband=deletion: de-novo signal should be
	// near-maximal (numerator == denominator, but proband's own marginal
	// favors CN=1 strongly so probandMargAlt ~ 1 and deNovo floors near 0;
	// only assert the call is non-nil and within range).
	dist.Update([]int{2, 2, 1}, 1.0)
	this := ProbandContext{Axis: 2, CN: 1, QS: 50}
	dqs := DeNovoQS(dist, 0, 1, 2, 2, 50, 50, this, nil, nil, 7, 60)
	expect.EQ(t, dqs == nil, false)
	if *dqs < 0 || *dqs > 60 {
		t.Fatalf("DQS out of range: %v", *dqs)
	}
}

func TestIsCommonCNV(t *testing.T) {
	mA, mB := 2, 2
	expect.EQ(t, IsCommonCNV(3, &mA, 3, &mB), true)
	mC := 1
	expect.EQ(t, IsCommonCNV(3, &mA, 3, &mC), false)
	expect.EQ(t, IsCommonCNV(3, &mA, 2, &mB), false)
	expect.EQ(t, IsCommonCNV(3, nil, 3, &mB), false)
}
