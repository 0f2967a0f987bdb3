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

// Package params holds the tunable parameters shared by the genotype,
// depthmodel, transition, joint, mcc, quality, haplotype and caller
// packages. Every CNV-calling component reads the same Params value so a
// single flag set (see cmd/cnv-call) can configure the whole pipeline.
package params

// Params collects every tunable named in the calling pipeline's interface
// contract. Zero value is not meaningful; use Default to get a usable set.
type Params struct {
	// MaxCN is the exclusive upper bound on copy number: calls range over
	// [0, MaxCN-1].
	MaxCN int

	// MaxAlleles bounds the number of distinct CN values considered together
	// in a no-pedigree copy-number combination (C1's copy_number_combinations).
	MaxAlleles int

	// MaxCoreNumber caps the number of C9 worker goroutines regardless of
	// runtime.NumCPU().
	MaxCoreNumber int

	// MaxNumOffspringGenotypes caps the Cartesian product enumerated by C1's
	// offspring_genotypes; above this the result is uniformly subsampled.
	MaxNumOffspringGenotypes int

	// OffspringGenotypeSeed seeds the deterministic subsampling RNG (see
	// genotype.OffspringGenotypes). The source this spec is drawn from shuffles
	// with an unspecified seed; fixing one here is an intentional correction.
	OffspringGenotypeSeed uint64

	// DefaultReadCountsThreshold is the minimum number of heterozygous SNV
	// observations a sample must have in a segment for C6's allele evidence
	// gate (UseMafInformation) to fire.
	DefaultReadCountsThreshold int

	// DefaultAlleleDensityThreshold and DefaultPerSegmentAlleleMaxCounts feed
	// the richer allele-evidence gate the source evaluates but does not let
	// override the low-count decision (see mcc.UseMafInformation).
	DefaultAlleleDensityThreshold    float64
	DefaultPerSegmentAlleleMaxCounts int

	// MedianCoverageThreshold is a minimum per-bin median coverage. No package
	// reads it; segments are called regardless of their coverage.
	MedianCoverageThreshold float64

	// MaxQScore is the ceiling every QS/DQS value is clipped to.
	MaxQScore float64

	// QualityFilterThreshold is the QS below which a segment is marked with
	// filter label "q<threshold>".
	QualityFilterThreshold float64

	// DeNovoQualityFilterThreshold is the DQS threshold for de-novo calls. No
	// package reads it; DQS values are written and reported without a filter.
	DeNovoQualityFilterThreshold float64

	// DeNovoRate is the small constant de-novo probability. No package reads
	// this field: transition.NewMatrix has no de-novo term, and
	// quality.DeNovoQS floors its de-novo probability at the package constant
	// transition.DeNovoRate instead.
	DeNovoRate float64

	// MinimumCallSize is the minimum span (bp) of a call in which every
	// sample is at reference CN; the final merge (C10) drops shorter such
	// calls and keeps shorter calls that have a non-reference sample.
	MinimumCallSize int64

	// MaxMergeGap is the largest gap (bp) between adjacent segments with
	// identical per-sample CN that C10 will still merge across.
	MaxMergeGap int64

	// NumberOfTrimmedBins is the count of extreme per-bin depth outliers
	// trimmed from each end before a segment's mean depth is computed.
	NumberOfTrimmedBins int
}

// Default returns the tunables named in the pipeline's external contract,
// using the defaults called out there.
func Default() Params {
	return Params{
		MaxCN:                            5,
		MaxAlleles:                        2,
		MaxCoreNumber:                     16,
		MaxNumOffspringGenotypes:          500,
		OffspringGenotypeSeed:             0x5bd1e995,
		DefaultReadCountsThreshold:        10,
		DefaultAlleleDensityThreshold:     0.1,
		DefaultPerSegmentAlleleMaxCounts:  1000,
		MedianCoverageThreshold:           4,
		MaxQScore:                         60,
		QualityFilterThreshold:            7,
		DeNovoQualityFilterThreshold:      20,
		DeNovoRate:                        1e-6,
		MinimumCallSize:                   1000,
		MaxMergeGap:                       10000,
		NumberOfTrimmedBins:               2,
	}
}
