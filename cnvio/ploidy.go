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
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/vcontext"
	"github.com/pkg/errors"

	"github.com/grailbio/cnv/segment"
)

// LoadPloidyBED reads a 4-column BED (chrom, start, end, ploidy) describing
// the sex-chromosome (or other) ploidy overrides spec §6 names, and returns
// it as a segment.PloidyMap. Unlike the common-CNV BED, a ploidy-BED carries
// a value per interval rather than a presence/absence flag, so this does not
// build on interval.BEDUnion.
func LoadPloidyBED(path string) (*segment.PloidyMap, error) {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.Wrapf(err, "cnvio: opening ploidy BED %s", path)
	}
	defer f.Close(ctx) // nolint: errcheck

	intervals, err := parsePloidyBED(f.Reader(ctx))
	if err != nil {
		return nil, errors.Wrapf(err, "cnvio: parsing ploidy BED %s", path)
	}
	return segment.NewPloidyMap(intervals), nil
}

func parsePloidyBED(r io.Reader) ([]segment.PloidyInterval, error) {
	scanner := bufio.NewScanner(r)
	var intervals []segment.PloidyInterval
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "track") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, errors.Errorf("ploidy BED line %d: want >= 4 columns, got %d", lineNo, len(fields))
		}
		begin, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "ploidy BED line %d: bad start", lineNo)
		}
		end, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "ploidy BED line %d: bad end", lineNo)
		}
		ploidy, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, errors.Wrapf(err, "ploidy BED line %d: bad ploidy value", lineNo)
		}
		intervals = append(intervals, segment.PloidyInterval{
			Chrom: fields[0], Begin: begin, End: end, Ploidy: ploidy,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return intervals, nil
}
