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
package genotype

import (
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestParentalGenotypes(t *testing.T) {
	got := ParentalGenotypes(3)
	expect.EQ(t, got, []Genotype{
		{0, 0},
		{0, 1}, {1, 0},
		{0, 2}, {1, 1}, {2, 0},
	})
	expect.EQ(t, len(ParentalGenotypes(5)), 5*6/2)
}

func TestGenotypesByCN(t *testing.T) {
	byCN := GenotypesByCN(4)
	for cn := 0; cn < 4; cn++ {
		expect.EQ(t, len(byCN[cn]), cn+1)
	}
	expect.EQ(t, byCN[2], []Genotype{{0, 2}, {1, 1}, {2, 0}})
}

func TestCNAlleleSet(t *testing.T) {
	expect.EQ(t, CNAlleleSet(0), []int{0})
	expect.EQ(t, CNAlleleSet(1), []int{0, 1})
	expect.EQ(t, CNAlleleSet(3), []int{1, 2, 3})
}

func TestCopyNumberCombinations(t *testing.T) {
	combos := CopyNumberCombinations(3, 2)
	seen := map[string]bool{}
	for _, c := range combos {
		seen[comboKey(c)] = true
	}
	for cn := 0; cn < 3; cn++ {
		assert.True(t, seen[comboKey([]int{cn})])
	}
	// No duplicates.
	expect.EQ(t, len(seen), len(combos))
}

func TestOffspringGenotypesExhaustive(t *testing.T) {
	parents := ParentalGenotypes(2) // 3 entries
	got := OffspringGenotypes(parents, 2, 500, 1)
	expect.EQ(t, len(got), 9)
	// Deterministic nested-loop order: last child varies fastest.
	expect.EQ(t, got[0], []Genotype{parents[0], parents[0]})
	expect.EQ(t, got[1], []Genotype{parents[0], parents[1]})
	expect.EQ(t, got[3], []Genotype{parents[1], parents[0]})
}

func TestOffspringGenotypesZeroChildren(t *testing.T) {
	parents := ParentalGenotypes(5)
	got := OffspringGenotypes(parents, 0, 500, 1)
	expect.EQ(t, len(got), 1)
	expect.EQ(t, len(got[0]), 0)
}

func TestOffspringGenotypesSubsamplingReproducible(t *testing.T) {
	parents := ParentalGenotypes(5) // 15 entries, 15^6 >> cap
	a := OffspringGenotypes(parents, 6, 50, 42)
	b := OffspringGenotypes(parents, 6, 50, 42)
	expect.EQ(t, len(a), 50)
	expect.EQ(t, a, b)

	c := OffspringGenotypes(parents, 6, 50, 43)
	// Different seed is allowed (not required) to produce a different sample;
	// what matters is that it's still exactly the cap and reproducible.
	expect.EQ(t, len(c), 50)
}
