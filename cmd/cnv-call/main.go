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

// cnv-call is the CLI entry point for the pedigree-aware copy-number caller:
// it reads a sample manifest and an optional pedigree file, loads each
// sample's upstream segmentation, runs the pedigree or no-pedigree calling
// pass, merges adjacent identical calls, and writes a VCF.
package main

import (
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"

	"github.com/grailbio/cnv/caller"
	"github.com/grailbio/cnv/cnvio"
	"github.com/grailbio/cnv/depthmodel"
	"github.com/grailbio/cnv/params"
	"github.com/grailbio/cnv/pedigree"
	"github.com/grailbio/cnv/segment"
)

func main() {
	manifestPath := flag.String("manifest", "", "Path to a JSON array of cnvio.SampleManifestEntry, one per sample.")
	pedigreePath := flag.String("pedigree", "", "Path to a pedigree TSV. If empty, samples are called independently (no-pedigree mode).")
	commonCNVPath := flag.String("common-cnv-bed", "", "Path to a BED of recurrent CNV regions, used to offer an alternative (merged) haplotype for C8.")
	outputPath := flag.String("output", "", "Path to the output VCF. (default stdout)")
	maxCoreNumber := flag.Int("max-core-number", params.Default().MaxCoreNumber, "Upper bound on C9 worker goroutines.")

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	manifest, err := loadManifest(*manifestPath)
	if err != nil {
		log.Fatal(err)
	}
	p := params.Default()
	p.MaxCoreNumber = *maxCoreNumber

	samples, sampleSegments, err := loadSamples(manifest)
	if err != nil {
		log.Fatal(err)
	}

	var common *cnvio.CommonCNVRegions
	if *commonCNVPath != "" {
		if common, err = cnvio.LoadCommonCNVBED(*commonCNVPath); err != nil {
			log.Fatal(err)
		}
	}
	sets, err := cnvio.BuildSegmentSets(sampleSegments, common)
	if err != nil {
		log.Fatal(err)
	}

	var calls []segment.CallSet
	if *pedigreePath != "" {
		calls, err = runPedigree(p, *pedigreePath, samples, manifest, sets)
	} else {
		calls, err = caller.RunNoPedigree(p, samples, sets)
	}
	if err != nil {
		log.Fatal(err)
	}

	out := os.Stdout
	if *outputPath != "" {
		f, err := file.Create(ctx, *outputPath)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close(ctx) // nolint: errcheck
		if err := cnvio.WriteVCF(f.Writer(ctx), sampleNames(manifest), calls, time.Now()); err != nil {
			log.Fatal(err)
		}
		return
	}
	if err := cnvio.WriteVCF(out, sampleNames(manifest), calls, time.Now()); err != nil {
		log.Fatal(err)
	}
}

func runPedigree(p params.Params, pedigreePath string, samples []*segment.Sample, manifest []cnvio.SampleManifestEntry, sets []*segment.SegmentSet) ([]segment.CallSet, error) {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, pedigreePath)
	if err != nil {
		return nil, errors.E(err, "cnv-call: opening pedigree file")
	}
	defer f.Close(ctx) // nolint: errcheck

	members, err := pedigree.Parse(f.Reader(ctx))
	if err != nil {
		return nil, err
	}
	parent1Member, parent2Member, childMembers, err := pedigree.Trio(members)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*segment.Sample, len(samples))
	for _, s := range samples {
		byName[s.Name] = s
	}
	parent1, ok1 := byName[parent1Member.ID]
	parent2, ok2 := byName[parent2Member.ID]
	if !ok1 || !ok2 {
		return nil, errors.E(errors.Invalid, "cnv-call: pedigree parent not found in manifest")
	}
	children := make([]*segment.Sample, len(childMembers))
	for i, m := range childMembers {
		child, ok := byName[m.ID]
		if !ok {
			return nil, errors.E(errors.Invalid, "cnv-call: pedigree child not found in manifest:", m.ID)
		}
		children[i] = child
	}

	return caller.RunPedigree(p, parent1, parent2, children, sets)
}

func loadManifest(path string) ([]cnvio.SampleManifestEntry, error) {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "cnv-call: opening manifest")
	}
	defer f.Close(ctx) // nolint: errcheck

	var manifest []cnvio.SampleManifestEntry
	if err := json.NewDecoder(f.Reader(ctx)).Decode(&manifest); err != nil {
		return nil, errors.E(err, "cnv-call: decoding manifest")
	}
	return manifest, nil
}

func loadSamples(manifest []cnvio.SampleManifestEntry) ([]*segment.Sample, [][]*segment.Segment, error) {
	samples := make([]*segment.Sample, len(manifest))
	sampleSegments := make([][]*segment.Segment, len(manifest))
	for i, m := range manifest {
		segs, err := cnvio.LoadSegments(m.SegmentsPath)
		if err != nil {
			return nil, nil, err
		}
		var ploidy *segment.PloidyMap
		if m.PloidyBED != "" {
			if ploidy, err = cnvio.LoadPloidyBED(m.PloidyBED); err != nil {
				return nil, nil, err
			}
		}
		samples[i] = &segment.Sample{
			Name:           m.Name,
			Ploidy:         ploidy,
			MeanCoverage:   m.MeanCoverage,
			MaxCoverageCap: 3 * m.MeanCoverage,
			DepthModel:     depthmodel.NewGaussianModel(m.MeanCoverage),
		}
		sampleSegments[i] = segs
	}
	return samples, sampleSegments, nil
}

func sampleNames(manifest []cnvio.SampleManifestEntry) []string {
	names := make([]string, len(manifest))
	for i, m := range manifest {
		names[i] = m.Name
	}
	return names
}
