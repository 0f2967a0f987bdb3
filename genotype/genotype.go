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

// Package genotype enumerates the genotype and copy-number search spaces the
// joint-inference kernels (package joint) sweep over. Every function here is
// pure and depends only on its arguments, so the tables it returns are
// computed once per run and shared read-only across C9's worker goroutines.
package genotype

import (
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/combin"
)

// Genotype is an ordered pair of allele counts (countsA, countsB). The sum is
// the copy number it realizes.
type Genotype struct {
	A, B int
}

// CN returns the copy number this genotype realizes.
func (g Genotype) CN() int { return g.A + g.B }

// ParentalGenotypes returns every (a, b) with a, b >= 0 and a+b < maxCN, in
// deterministic order: ascending total t = a+b, then ascending a within each
// total. Its length is maxCN*(maxCN+1)/2.
func ParentalGenotypes(maxCN int) []Genotype {
	out := make([]Genotype, 0, maxCN*(maxCN+1)/2)
	for t := 0; t < maxCN; t++ {
		for a := 0; a <= t; a++ {
			out = append(out, Genotype{A: a, B: t - a})
		}
	}
	return out
}

// OffspringGenotypes returns the k-fold Cartesian product of parentSet,
// i.e. one entry per possible vector of k offspring genotypes. When the
// product's size exceeds maxCombos, the result is uniformly subsampled
// without replacement to exactly maxCombos entries using a seeded,
// deterministic RNG so repeated runs over the same input are reproducible.
//
// seed should be held fixed across a run (see params.Params.OffspringGenotypeSeed);
// varying it changes which combinations are sampled when subsampling kicks in,
// but never changes the result when the product is small enough to enumerate
// exhaustively.
func OffspringGenotypes(parentSet []Genotype, k int, maxCombos int, seed uint64) [][]Genotype {
	if k == 0 {
		return [][]Genotype{{}}
	}
	n := int64(len(parentSet))
	total := int64(1)
	overflowed := false
	for i := 0; i < k; i++ {
		total *= n
		if total <= 0 || (maxCombos > 0 && total > int64(maxCombos)*1000000) {
			// Cartesian space is large enough that we'll certainly subsample;
			// stop multiplying to avoid integer overflow for large k.
			overflowed = true
			break
		}
	}

	if !overflowed && (maxCombos <= 0 || total <= int64(maxCombos)) {
		out := make([][]Genotype, total)
		for idx := int64(0); idx < total; idx++ {
			out[idx] = decodeCartesianIndex(idx, parentSet, k)
		}
		return out
	}

	// Subsample maxCombos distinct indices into the (possibly astronomically
	// large) Cartesian space without ever materializing it.
	rng := rand.New(rand.NewSource(seed))
	chosen := make(map[uint64]struct{}, maxCombos)
	indices := make([]uint64, 0, maxCombos)
	for len(indices) < maxCombos {
		idx := randomCartesianIndex(rng, n, k)
		if _, ok := chosen[idx]; ok {
			continue
		}
		chosen[idx] = struct{}{}
		indices = append(indices, idx)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	out := make([][]Genotype, len(indices))
	for i, idx := range indices {
		out[i] = decodeCartesianIndex(int64(idx), parentSet, k)
	}
	return out
}

// decodeCartesianIndex decodes idx (0 <= idx < len(parentSet)^k) into the
// k-tuple it denotes under mixed-radix counting where the last element varies
// fastest. This matches the nested-loop order of an exhaustive Cartesian
// product enumeration.
func decodeCartesianIndex(idx int64, parentSet []Genotype, k int) []Genotype {
	n := int64(len(parentSet))
	out := make([]Genotype, k)
	for i := k - 1; i >= 0; i-- {
		out[i] = parentSet[idx%n]
		idx /= n
	}
	return out
}

// randomCartesianIndex draws a uniformly random index in [0, n^k) by drawing
// each digit independently, avoiding the need to construct n^k as a single
// (possibly overflowing) integer.
func randomCartesianIndex(rng *rand.Rand, n int64, k int) uint64 {
	var idx uint64
	for i := 0; i < k; i++ {
		idx = idx*uint64(n) + uint64(rng.Int63n(n))
	}
	return idx
}

// CopyNumberCombinations returns the union, over r in [1, maxAlleles], of all
// r-element subsets of {0, ..., maxCN-1}. The result contains no duplicate
// subsets (subsets are compared as sorted int slices) and always contains
// every singleton {c} for c < maxCN.
func CopyNumberCombinations(maxCN, maxAlleles int) [][]int {
	universe := make([]int, maxCN)
	for i := range universe {
		universe[i] = i
	}

	seen := make(map[string]struct{})
	var out [][]int
	for r := 1; r <= maxAlleles && r <= maxCN; r++ {
		for _, combo := range combin.Combinations(maxCN, r) {
			key := comboKey(combo)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			realized := make([]int, len(combo))
			for i, c := range combo {
				realized[i] = universe[c]
			}
			out = append(out, realized)
		}
	}
	return out
}

func comboKey(combo []int) string {
	b := make([]byte, 0, len(combo)*4)
	for _, c := range combo {
		b = append(b, byte(c>>24), byte(c>>16), byte(c>>8), byte(c))
	}
	return string(b)
}

// CNAlleleSet returns the set of allele counts consistent with total copy
// number cn: {0} for cn=0, {0,1} for cn=1, otherwise {1, ..., cn}.
func CNAlleleSet(cn int) []int {
	switch cn {
	case 0:
		return []int{0}
	case 1:
		return []int{0, 1}
	default:
		out := make([]int, cn)
		for i := range out {
			out[i] = i + 1
		}
		return out
	}
}

// GenotypesByCN returns, for every copy number cn in [0, maxCN), the list of
// genotypes (a, cn-a) for a in [0, cn]. len(result[cn]) == cn+1.
func GenotypesByCN(maxCN int) map[int][]Genotype {
	out := make(map[int][]Genotype, maxCN)
	for cn := 0; cn < maxCN; cn++ {
		gs := make([]Genotype, cn+1)
		for a := 0; a <= cn; a++ {
			gs[a] = Genotype{A: a, B: cn - a}
		}
		out[cn] = gs
	}
	return out
}
