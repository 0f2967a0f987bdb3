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

// Package pedigree implements C10's pedigree-file parsing and sample
// ordering: reading the TSV describing family structure, classifying each
// row as Parent or Proband, and exposing the two orderings the rest of the
// module needs (the pedigree's natural working order, and the fixed
// [parent1, parent2, child...] order package joint and package mcc require
// for axis stability).
package pedigree

import (
	"bufio"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/cnv/segment"
)

// Member is one row of a pedigree file.
type Member struct {
	ID       string
	Maternal string
	Paternal string
	Kin      segment.Kin
}

// Parse reads a pedigree TSV: columns 1..6, where column 2 is the sample
// id, 3 maternal id, 4 paternal id, 6 the proband flag ("affected").
//
// A row is classified Parent when maternal == paternal == "0"; else Proband
// when column 6 == "affected"; otherwise it is skipped with a warning,
// matching the source's "ignored (warning only)" rule.
func Parse(r io.Reader) ([]*Member, error) {
	var members []*Member
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 6 {
			return nil, errors.E(errors.Invalid, "pedigree: line", lineNo, "has fewer than 6 columns")
		}
		id, maternal, paternal, probandFlag := cols[1], cols[2], cols[3], cols[5]

		switch {
		case maternal == "0" && paternal == "0":
			members = append(members, &Member{ID: id, Maternal: maternal, Paternal: paternal, Kin: segment.Parent})
		case probandFlag == "affected":
			members = append(members, &Member{ID: id, Maternal: maternal, Paternal: paternal, Kin: segment.Proband})
		default:
			log.Error.Printf("pedigree: line %d (sample %s) is neither a parent nor a proband; ignoring", lineNo, id)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "pedigree: read failed")
	}
	return members, nil
}

// WorkingOrder returns members reordered with every Proband first, every
// Parent last; relative order within each group is preserved (stable sort).
func WorkingOrder(members []*Member) []*Member {
	out := make([]*Member, 0, len(members))
	for _, m := range members {
		if m.Kin == segment.Proband {
			out = append(out, m)
		}
	}
	for _, m := range members {
		if m.Kin == segment.Parent {
			out = append(out, m)
		}
	}
	return out
}

// Trio extracts exactly two parents and the remaining probands from
// members, returning them in the [parent1, parent2, child...] order that
// package joint's InferPedigree and package mcc's AssignPedigree require.
// Parent order is the order parents appear in members; child order is the
// order probands appear in members.
func Trio(members []*Member) (parent1, parent2 *Member, children []*Member, err error) {
	var parents []*Member
	for _, m := range members {
		switch m.Kin {
		case segment.Parent:
			parents = append(parents, m)
		case segment.Proband:
			children = append(children, m)
		}
	}
	if len(parents) != 2 {
		return nil, nil, nil, errors.E(errors.Invalid, "pedigree: expected exactly 2 parents, got", len(parents))
	}
	return parents[0], parents[1], children, nil
}
