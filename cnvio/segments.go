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
package cnvio

import (
	"encoding/json"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/pkg/errors"

	"github.com/grailbio/cnv/segment"
)

// LoadSegments reads one sample's segmentation (and, if present, its SNV
// support) from a JSON array of SegmentRecord, spec §6's "segmentation
// already computed upstream" input. The returned segments are in file order;
// callers are responsible for aligning them against sibling samples' segments
// before building a MultiSample (see BuildSegmentSets).
func LoadSegments(path string) ([]*segment.Segment, error) {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "cnvio: opening segmentation file %s", path)
	}
	defer f.Close(ctx) // nolint: errcheck

	var records []SegmentRecord
	if err := json.NewDecoder(f.Reader(ctx)).Decode(&records); err != nil {
		return nil, errors.Wrapf(err, "cnvio: decoding segmentation file %s", path)
	}

	segs := make([]*segment.Segment, len(records))
	for i, r := range records {
		segs[i] = &segment.Segment{
			Chrom:     r.Chrom,
			Begin:     r.Begin,
			End:       r.End,
			BinDepths: r.BinDepths,
			Alleles:   toAlleleObservations(r.Alleles),
		}
	}
	return segs, nil
}

func toAlleleObservations(alleles []Allele) []segment.AlleleObservation {
	if len(alleles) == 0 {
		return nil
	}
	out := make([]segment.AlleleObservation, len(alleles))
	for i, a := range alleles {
		out[i] = segment.AlleleObservation{ACount: a.ACount, BCount: a.BCount}
	}
	return out
}
