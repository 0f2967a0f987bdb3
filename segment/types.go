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

// Package segment holds the CNV caller's shared data model: samples,
// per-sample segments, the two-haplotype SegmentSet, and the final
// cross-sample merge (C10). Every other package in this module (genotype,
// depthmodel, transition, joint, mcc, quality, haplotype, caller) operates on
// these types without owning them.
package segment

import "github.com/grailbio/base/errors"

// Kin classifies a Sample's role in a pedigree.
type Kin int

// The three kinds of pedigree membership recognized by C10's pedigree-file
// interpretation.
const (
	Other Kin = iota
	Parent
	Proband
)

func (k Kin) String() string {
	switch k {
	case Parent:
		return "parent"
	case Proband:
		return "proband"
	default:
		return "other"
	}
}

// PloidyInterval overrides the default ploidy of 2 over [Begin, End) on Chrom.
type PloidyInterval struct {
	Chrom      string
	Begin, End int64
	Ploidy     int
}

// PloidyMap answers ploidy queries for a sample, built from a ploidy-BED.
// A nil *PloidyMap, or a query that hits no interval, yields the default
// ploidy of 2 (e.g. autosomes for any sample, or sex chromosomes for an
// unspecified sample).
type PloidyMap struct {
	// intervals is kept in input order and Ploidy scans it linearly;
	// ploidy-BEDs are tiny (a handful of sex-chromosome overrides).
	intervals []PloidyInterval
}

// NewPloidyMap builds a PloidyMap from the ploidy-BED intervals. Overlapping
// or unordered input is accepted; lookups simply use the first match found.
func NewPloidyMap(intervals []PloidyInterval) *PloidyMap {
	return &PloidyMap{intervals: intervals}
}

// Ploidy returns the expected ploidy at (chrom, pos), defaulting to 2.
func (p *PloidyMap) Ploidy(chrom string, pos int64) int {
	if p == nil {
		return 2
	}
	for _, iv := range p.intervals {
		if iv.Chrom == chrom && pos >= iv.Begin && pos < iv.End {
			return iv.Ploidy
		}
	}
	return 2
}

// Sample is the immutable identity and derived metadata for one pedigree
// member. DepthModel is an opaque per-sample depth-likelihood model (C2);
// callers construct it once from the sample's observed coverage profile and
// never mutate it during the calling pass.
type Sample struct {
	Name         string
	Kin          Kin
	Ploidy       *PloidyMap
	MeanCoverage float64
	// MaxCoverageCap is the coverage ceiling the depth model is evaluated at;
	// per spec this is always 3*MeanCoverage, but is stored explicitly so
	// tests can exercise values without recomputing the constant inline.
	MaxCoverageCap float64
	DepthModel     DepthModel
}

// ExpectedPloidy returns the sample's expected (reference) ploidy at the
// given position, using the sample's ploidy map if present.
func (s *Sample) ExpectedPloidy(chrom string, pos int64) int {
	return s.Ploidy.Ploidy(chrom, pos)
}

// CappedCoverage returns x clamped to the sample's MaxCoverageCap, per
// spec §4.4's "coverage capped at 3*meanCoverage".
func (s *Sample) CappedCoverage(x float64) float64 {
	if x > s.MaxCoverageCap {
		return s.MaxCoverageCap
	}
	return x
}

// DepthModel is the C2 contract: an injected collaborator mapping observed
// coverage, and observed allele counts, to likelihood vectors. Concrete
// implementations live in package depthmodel.
type DepthModel interface {
	// DepthLikelihood returns L[0..maxCN-1], an unnormalized likelihood vector
	// for each candidate total copy number given scalar coverage x.
	DepthLikelihood(x float64, maxCN int) []float64

	// AlleleLikelihood returns a scalar likelihood that the observed allele
	// counts arose from genotype (a, b).
	AlleleLikelihood(obs []AlleleObservation, a, b int) float64

	// BestAlleleScore reports, among candidates, the index of the best-fitting
	// genotype and a Phred-like score for that choice.
	BestAlleleScore(obs []AlleleObservation, candidates []struct{ A, B int }) (bestIdx int, score float64)
}

// AlleleObservation is one SNV's observed (A-count, B-count) read support.
type AlleleObservation struct {
	ACount, BCount int
}

// Heterozygous reports whether this observation carries evidence for both
// alleles, the condition C6's allele-evidence gate counts.
func (o AlleleObservation) Heterozygous() bool {
	return o.ACount > 0 && o.BCount > 0
}

// Segment is one sample's evidence and call state over a genomic span. It is
// mutated only by the inference pass for its own sample.
type Segment struct {
	Chrom      string
	Begin, End int64

	// BinDepths holds the per-bin median read-depth counts backing this
	// segment's coverage estimate.
	BinDepths []float64

	// Alleles holds this sample's SNV observations within the span, or nil if
	// none were retained.
	Alleles []AlleleObservation

	// Call state, written by the inference pass.
	CN     int
	MCC    *int
	QS     float64
	DQS    *float64
	Filter *string
}

// Coverage returns the segment's representative coverage: the mean of
// BinDepths after trimming the trim extreme values from each end (see
// params.Params.NumberOfTrimmedBins). When trimming would leave no bin, no
// bins are trimmed and the mean of all of them is returned.
func (s *Segment) Coverage(trim int) float64 {
	if len(s.BinDepths) == 0 {
		return 0
	}
	sorted := append([]float64(nil), s.BinDepths...)
	sortFloat64s(sorted)
	lo, hi := trim, len(sorted)-trim
	if hi-lo < 1 {
		lo, hi = 0, len(sorted)
	}
	var sum float64
	for _, v := range sorted[lo:hi] {
		sum += v
	}
	return sum / float64(hi-lo)
}

func sortFloat64s(a []float64) {
	// Simple insertion sort: segments' BinDepths are small (tens to low
	// hundreds of bins), so avoiding a sort.Sort interface allocation here
	// is worth the reduced asymptotic elegance.
	for i := 1; i < len(a); i++ {
		v := a[i]
		j := i - 1
		for j >= 0 && a[j] > v {
			a[j+1] = a[j]
			j--
		}
		a[j+1] = v
	}
}

// Haplotype identifies which alternative segmentation a SegmentSet realized.
type Haplotype int

// The haplotype choices a SegmentSet's Selected field can take. HaplotypeNone
// means C8 has not yet run for this set.
const (
	HaplotypeNone Haplotype = iota
	HaplotypeA
	HaplotypeB
)

func (h Haplotype) String() string {
	switch h {
	case HaplotypeA:
		return "A"
	case HaplotypeB:
		return "B"
	default:
		return "none"
	}
}

// MultiSample is "a segment" in the sense C4/C5/C6/C7 use the word: one
// genomic span, realized as one Segment per sample, all samples ordered
// identically (see pedigree.Trio).
type MultiSample struct {
	Begin, End int64
	PerSample  []*Segment
}

// SegmentSet is two alternative segmentations (HaplotypeA, HaplotypeB) of the
// same genomic span; one is selected by C8 to realize the final call. Either
// list may be absent (nil), but not both.
type SegmentSet struct {
	Chrom       string
	HaplotypeA  []*MultiSample
	HaplotypeB  []*MultiSample
	Selected    Haplotype
}

// Validate checks the SegmentSet invariants from spec §3: at least one
// haplotype list present, and (when both present) that they cover the same
// genomic extent.
func (ss *SegmentSet) Validate() error {
	if ss.HaplotypeA == nil && ss.HaplotypeB == nil {
		return errors.E(errors.Invalid, "segment set has neither haplotype A nor B")
	}
	if ss.HaplotypeA == nil || ss.HaplotypeB == nil {
		return nil
	}
	beginA, endA := spanOf(ss.HaplotypeA)
	beginB, endB := spanOf(ss.HaplotypeB)
	if beginA != beginB || endA != endB {
		return errors.E(errors.Invalid, "segment set haplotypes cover different spans",
			ss.Chrom)
	}
	return nil
}

func spanOf(ms []*MultiSample) (begin, end int64) {
	if len(ms) == 0 {
		return 0, 0
	}
	begin = ms[0].Begin
	end = ms[0].End
	for _, m := range ms[1:] {
		if m.Begin < begin {
			begin = m.Begin
		}
		if m.End > end {
			end = m.End
		}
	}
	return begin, end
}

// Selection returns the chosen haplotype's segment list. A set with only one
// haplotype list returns that list regardless of Selected; a set with both
// returns nil until C8 has set Selected.
func (ss *SegmentSet) Selection() []*MultiSample {
	switch {
	case ss.HaplotypeA != nil && ss.HaplotypeB == nil:
		return ss.HaplotypeA
	case ss.HaplotypeB != nil && ss.HaplotypeA == nil:
		return ss.HaplotypeB
	case ss.Selected == HaplotypeA:
		return ss.HaplotypeA
	case ss.Selected == HaplotypeB:
		return ss.HaplotypeB
	default:
		return nil
	}
}
