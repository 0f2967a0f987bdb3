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

// Package cnvio gives concrete Go shapes to the external-collaborator
// interfaces spec §6 names (segmentation input with its per-segment
// variant-frequency observations, ploidy-BED, common-CNV BED, output VCF) and
// a JSON/BED reference implementation of each, so cmd/cnv-call is a runnable
// program. The pedigree file is parsed by package pedigree, not here.
// None of the core inference packages (genotype, depthmodel, transition,
// joint, mcc, quality, haplotype, segment, caller) import this package --
// the dependency runs the other way, matching spec §1's "these are treated
// as byte-stream producers/consumers feeding the core data model."
package cnvio

// SegmentRecord is one sample's view of one candidate genomic segment, the
// JSON shape a segmentation file's array elements take.
type SegmentRecord struct {
	Chrom     string    `json:"chrom"`
	Begin     int64     `json:"begin"`
	End       int64     `json:"end"`
	BinDepths []float64 `json:"bin_depths"`
	Alleles   []Allele  `json:"alleles,omitempty"`
}

// Allele is one SNV's observed (A-count, B-count) read support, the JSON
// shape spec §6's variant-frequency input takes per segment.
type Allele struct {
	ACount int `json:"a_count"`
	BCount int `json:"b_count"`
}

// PloidyRecord is one row of a ploidy-BED: (chrom, start, end, ploidy).
type PloidyRecord struct {
	Chrom  string
	Begin  int64
	End    int64
	Ploidy int
}

// SampleManifestEntry associates a sample name with its mean coverage, its
// segmentation file (which also carries the allele observations) and an
// optional ploidy-BED, the unit cmd/cnv-call's manifest file lists one of per
// pedigree member.
type SampleManifestEntry struct {
	Name         string  `json:"name"`
	MeanCoverage float64 `json:"mean_coverage"`
	SegmentsPath string  `json:"segments_path"`
	PloidyBED    string  `json:"ploidy_bed,omitempty"`
}
