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

// Package caller implements C9, the parallel driver that wires every other
// package (genotype, transition, joint, mcc, quality, haplotype, segment)
// into one calling pass over a pedigree's (or sample set's) segment sets.
package caller

import (
	"github.com/grailbio/cnv/genotype"
	"github.com/grailbio/cnv/params"
	"github.com/grailbio/cnv/transition"
)

// Tables bundles the lookup tables built once per run from params.Params and
// shared read-only across every worker goroutine: C3's transition matrix and
// C1's genotype enumerations. None of these depend on any sample's data, so
// building them once up front and handing the same *Tables to every worker
// is safe per spec §5's shared-resource policy.
type Tables struct {
	Transition      transition.Matrix
	ParentGenotypes []genotype.Genotype
	GenotypesByCN   map[int][]genotype.Genotype

	// OffspringGenotypes is the offspring-genotype list for the pedigree's
	// (fixed) number of children; it is built for that one count only since
	// a single run's pedigree shape never changes mid-pass.
	OffspringGenotypes [][]genotype.Genotype

	// Combinations is C1's copy_number_combinations table, used only by the
	// no-pedigree driver.
	Combinations [][]int
}

// NewPedigreeTables builds the tables a pedigree-mode run needs for a
// pedigree with numChildren probands.
func NewPedigreeTables(p params.Params, numChildren int) *Tables {
	parents := genotype.ParentalGenotypes(p.MaxCN)
	return &Tables{
		Transition:         transition.NewMatrix(p.MaxCN),
		ParentGenotypes:    parents,
		GenotypesByCN:      genotype.GenotypesByCN(p.MaxCN),
		OffspringGenotypes: genotype.OffspringGenotypes(parents, numChildren, p.MaxNumOffspringGenotypes, p.OffspringGenotypeSeed),
	}
}

// NewNoPedigreeTables builds the tables a no-pedigree run needs.
func NewNoPedigreeTables(p params.Params) *Tables {
	return &Tables{
		GenotypesByCN: genotype.GenotypesByCN(p.MaxCN),
		Combinations:  genotype.CopyNumberCombinations(p.MaxCN, p.MaxAlleles),
	}
}
