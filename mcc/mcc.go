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

// Package mcc implements C6: given a final copy-number assignment per
// sample, pick the per-sample (A, B) allele split consistent with parental
// inheritance (pedigree mode) or the maximum allele-count likelihood
// (no-pedigree mode), and derive the major chromosome count from it.
package mcc

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/cnv/genotype"
	"github.com/grailbio/cnv/segment"
)

// alleleEvidence is the richer picture the source computes when deciding
// whether allele evidence is usable: heterozygous-observation count, a
// rough density (observations per called base), and the single largest
// per-segment allele count seen. Only the heterozygous-count check actually
// gates the decision (see UseMafInformation); the rest is retained for
// diagnostics logging, matching the source's behavior of computing more than
// it ultimately acts on.
type alleleEvidence struct {
	hetCount int
	density  float64
	maxCount int
}

func evidenceFor(s *segment.Segment) alleleEvidence {
	var ev alleleEvidence
	span := float64(s.End - s.Begin)
	for _, o := range s.Alleles {
		if o.Heterozygous() {
			ev.hetCount++
		}
		if c := o.ACount + o.BCount; c > ev.maxCount {
			ev.maxCount = c
		}
	}
	if span > 0 {
		ev.density = float64(len(s.Alleles)) / span
	}
	return ev
}

// UseMafInformation is C6's allele-evidence gate: it returns false (skip MCC
// assignment for this segment) if any sample has fewer than
// readCountsThreshold heterozygous SNV observations. densityThreshold and
// maxCountsThreshold are evaluated and logged but, matching the source, do
// not independently veto the call.
func UseMafInformation(segs []*segment.Segment, readCountsThreshold int, densityThreshold float64, maxCountsThreshold int) bool {
	ok := true
	for _, s := range segs {
		ev := evidenceFor(s)
		if ev.hetCount < readCountsThreshold {
			ok = false
		}
		if ev.density < densityThreshold || ev.maxCount > maxCountsThreshold {
			log.Debug.Printf("mcc: segment %s:%d-%d has low allele density (%.4f) or high max count (%d); not independently gating", s.Chrom, s.Begin, s.End, ev.density, ev.maxCount)
		}
	}
	return ok
}

func consistent(gc, gp genotype.Genotype) bool {
	return gp.A == gc.A || gp.A == gc.B || gp.B == gc.A || gp.B == gc.B
}

func mccForCN(cn int, g genotype.Genotype) int {
	if cn > 2 {
		if g.A > g.B {
			return g.A
		}
		return g.B
	}
	if cn == 2 {
		return 1
	}
	return cn
}

func setMCC(s *segment.Segment, mcc int) {
	m := mcc
	s.MCC = &m
}

// AssignPedigree is C6's pedigree variant. genotypesByCN is C1's
// genotype.GenotypesByCN(maxCN) table. ms.PerSample must be ordered
// [parent1, parent2, child_0, ..., child_{k-1}].
//
// It is a no-op (segments' MCC left untouched) when UseMafInformation
// vetoes the segment.
func AssignPedigree(genotypesByCN map[int][]genotype.Genotype, parent1, parent2 *segment.Sample, children []*segment.Sample, ms *segment.MultiSample, readCountsThreshold int, densityThreshold float64, maxCountsThreshold int) {
	if !UseMafInformation(ms.PerSample, readCountsThreshold, densityThreshold, maxCountsThreshold) {
		return
	}

	p1Seg, p2Seg := ms.PerSample[0], ms.PerSample[1]
	cnP1, cnP2 := p1Seg.CN, p2Seg.CN

	type assignment struct {
		gp1, gp2      genotype.Genotype
		childGenotype []genotype.Genotype
		likelihood    float64
	}
	var best *assignment

	for _, gp1 := range genotypesByCN[cnP1] {
		lgp1 := parent1.DepthModel.AlleleLikelihood(p1Seg.Alleles, gp1.A, gp1.B)
		for _, gp2 := range genotypesByCN[cnP2] {
			lgp2 := parent2.DepthModel.AlleleLikelihood(p2Seg.Alleles, gp2.A, gp2.B)
			total := lgp1 * lgp2
			childGenotype := make([]genotype.Genotype, len(children))
			feasible := true
			for i, child := range children {
				childSeg := ms.PerSample[2+i]
				candidates := genotypesByCN[childSeg.CN]
				inherited := childSeg.DQS == nil
				if inherited {
					var filtered []genotype.Genotype
					for _, gc := range candidates {
						if consistent(gc, gp1) && consistent(gc, gp2) {
							filtered = append(filtered, gc)
						}
					}
					if len(filtered) == 0 {
						feasible = false
						break
					}
					candidates = filtered
				}
				bestIdx, _ := child.DepthModel.BestAlleleScore(childSeg.Alleles, toStructSlice(candidates))
				g := candidates[bestIdx]
				total *= child.DepthModel.AlleleLikelihood(childSeg.Alleles, g.A, g.B)
				childGenotype[i] = g
			}
			if !feasible {
				continue
			}
			if best == nil || total > best.likelihood {
				best = &assignment{gp1: gp1, gp2: gp2, childGenotype: childGenotype, likelihood: total}
			}
		}
	}
	if best == nil {
		return
	}

	setMCC(p1Seg, mccForCN(cnP1, best.gp1))
	setMCC(p2Seg, mccForCN(cnP2, best.gp2))
	for i := range children {
		childSeg := ms.PerSample[2+i]
		setMCC(childSeg, mccForCN(childSeg.CN, best.childGenotype[i]))
	}
}

// AssignNoPedigree is C6's no-pedigree variant: for each sample
// independently, CN>2 picks the allele-count-likelihood argmax genotype
// among genotypesByCN[CN]; CN<=2 uses the fixed formula directly.
func AssignNoPedigree(genotypesByCN map[int][]genotype.Genotype, samples []*segment.Sample, ms *segment.MultiSample) {
	for i, s := range samples {
		seg := ms.PerSample[i]
		if seg.CN <= 2 {
			if seg.CN == 2 {
				setMCC(seg, 1)
			} else {
				setMCC(seg, seg.CN)
			}
			continue
		}
		candidates := genotypesByCN[seg.CN]
		bestIdx, _ := s.DepthModel.BestAlleleScore(seg.Alleles, toStructSlice(candidates))
		setMCC(seg, mccForCN(seg.CN, candidates[bestIdx]))
	}
}

func toStructSlice(gs []genotype.Genotype) []struct{ A, B int } {
	out := make([]struct{ A, B int }, len(gs))
	for i, g := range gs {
		out[i] = struct{ A, B int }{A: g.A, B: g.B}
	}
	return out
}
