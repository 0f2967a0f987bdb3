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
package segment

import "github.com/biogo/store/llrb"

// CallSet is one genomic span's final, merged per-sample call, keyed the same
// way MultiSample is during inference: PerSample is ordered by the pedigree's
// inference order.
type CallSet struct {
	Chrom      string
	Begin, End int64
	PerSample  []*Segment
}

// mergeKey orders CallSets by (Chrom, Begin) using an llrb.Tree, the same
// ordered-map idiom encoding/bampair's ShardInfo uses to index shards by
// (refID, start).
type mergeKey struct {
	chrom string
	begin int64
	call  *CallSet
}

func (k mergeKey) Compare(c2 llrb.Comparable) int {
	o := c2.(mergeKey)
	if k.chrom != o.chrom {
		if k.chrom < o.chrom {
			return -1
		}
		return 1
	}
	if diff := k.begin - o.begin; diff != 0 {
		if diff < 0 {
			return -1
		}
		return 1
	}
	return 0
}

// MergeAdjacent concatenates the selected-haplotype segment lists of every
// SegmentSet (already flattened into calls, one CallSet per genomic span,
// PerSample ordered consistently across spans), sorts them by (chromosome,
// begin) and merges adjacent spans when every sample shares an identical CN
// at both spans and the gap between them is at most maxMergeGap. Each merged
// sample's QS is the mean QS of the calls merged into it. After merging,
// calls shorter than minimumCallSize are dropped when every sample is at
// reference CN (2); shorter calls with any non-reference sample are kept.
//
// Running MergeAdjacent twice over its own output is a no-op: when dropping a
// short reference call leaves neighbors that satisfy the merge predicate, the
// merge is run again before returning, so no output CallSet satisfies the
// merge predicate against its neighbors (tested in merge_test.go).
func MergeAdjacent(calls []CallSet, maxMergeGap, minimumCallSize int64) []CallSet {
	if len(calls) == 0 {
		return nil
	}

	// Build an ordered tree keyed by (chrom, begin), the same llrb idiom
	// encoding/bampair's ShardInfo uses to index shards by (refID, start), and
	// walk it in order to get calls sorted for the adjacency sweep below.
	tree := &llrb.Tree{}
	for i := range calls {
		tree.Insert(mergeKey{chrom: calls[i].Chrom, begin: calls[i].Begin, call: &calls[i]})
	}
	ordered := make([]*CallSet, 0, len(calls))
	tree.Do(func(c llrb.Comparable) bool {
		ordered = append(ordered, c.(mergeKey).call)
		return false
	})

	out := make([]CallSet, 0, len(ordered))
	cur := *ordered[0]
	n := 1 // number of input calls merged into cur
	for _, next := range ordered[1:] {
		if cur.Chrom == next.Chrom &&
			next.Begin-cur.End <= maxMergeGap &&
			sameCN(cur.PerSample, next.PerSample) {
			cur = mergeTwo(cur, *next, n)
			n++
			continue
		}
		out = append(out, cur)
		cur = *next
		n = 1
	}
	out = append(out, cur)

	// MinimumCallSize suppresses tiny reference-CN fragments left over from
	// merging (e.g. a single-bin gap between two real events); it never drops
	// a non-reference call regardless of size.
	filtered := out[:0]
	for _, c := range out {
		if c.End-c.Begin < minimumCallSize && allReferenceCN(c.PerSample) {
			continue
		}
		filtered = append(filtered, c)
	}
	if len(filtered) < len(out) {
		// A dropped call may have separated two mergeable neighbors.
		return MergeAdjacent(filtered, maxMergeGap, minimumCallSize)
	}
	return filtered
}

func allReferenceCN(segs []*Segment) bool {
	for _, s := range segs {
		if s.CN != 2 {
			return false
		}
	}
	return true
}

func sameCN(a, b []*Segment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].CN != b[i].CN {
			return false
		}
	}
	return true
}

// mergeTwo merges b into a, where a already stands for na merged input calls,
// so a's QS is weighted na times against b's.
func mergeTwo(a, b CallSet, na int) CallSet {
	merged := CallSet{
		Chrom: a.Chrom,
		Begin: a.Begin,
		End:   b.End,
	}
	merged.PerSample = make([]*Segment, len(a.PerSample))
	for i := range a.PerSample {
		sa, sb := a.PerSample[i], b.PerSample[i]
		ms := &Segment{
			Chrom: a.Chrom,
			Begin: a.Begin,
			End:   b.End,
			CN:    sa.CN,
			QS:    (sa.QS*float64(na) + sb.QS) / float64(na+1),
		}
		if sa.MCC != nil && sb.MCC != nil && *sa.MCC == *sb.MCC {
			mcc := *sa.MCC
			ms.MCC = &mcc
		}
		if sa.DQS != nil && sb.DQS != nil {
			dqs := (*sa.DQS + *sb.DQS) / 2
			ms.DQS = &dqs
		} else if sa.DQS != nil {
			dqs := *sa.DQS
			ms.DQS = &dqs
		} else if sb.DQS != nil {
			dqs := *sb.DQS
			ms.DQS = &dqs
		}
		merged.PerSample[i] = ms
	}
	return merged
}
