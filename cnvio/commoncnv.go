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
	"github.com/pkg/errors"

	"github.com/grailbio/cnv/interval"
)

// CommonCNVRegions wraps a BED of recurrent/common CNV regions, the optional
// collaborator spec §6 allows for producing alternative SegmentSet A/B
// haplotype partitionings. Lookups use interval.BEDUnion's name-based
// containment check.
type CommonCNVRegions struct {
	union interval.BEDUnion
}

// LoadCommonCNVBED reads a 3-column BED of common-CNV regions.
func LoadCommonCNVBED(path string) (*CommonCNVRegions, error) {
	union, err := interval.NewBEDUnionFromPath(path, interval.NewBEDOpts{})
	if err != nil {
		return nil, errors.Wrapf(err, "cnvio: loading common-CNV BED %s", path)
	}
	return &CommonCNVRegions{union: union}, nil
}

// Contains reports whether (chrom, pos) falls inside a common-CNV region.
func (c *CommonCNVRegions) Contains(chrom string, pos int64) bool {
	if c == nil {
		return false
	}
	return c.union.ContainsByName(chrom, interval.PosType(pos))
}
