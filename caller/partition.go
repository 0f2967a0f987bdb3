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
package caller

import "runtime"

// Range is an inclusive [Lo, Hi] index range into a segment-set slice.
type Range struct {
	Lo, Hi int
}

// PartitionRanges implements spec §4.9's partitioning rule: step = n/workers;
// ranges are [0,step], [step+1, 2*step+1], ... each of width step+1, with the
// final range closed at n-1 regardless of what the arithmetic would otherwise
// produce. Unlike the source this is drawn from -- which leaves an off-by-one
// near the last range (spec §9) -- every range here is derived from the
// previous range's end, so the returned ranges always partition [0, n) into
// disjoint, contiguous, gap-free spans; only the final range's length can
// differ from step+1.
func PartitionRanges(n, workers int) []Range {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	step := n / workers

	ranges := make([]Range, 0, workers)
	start := 0
	for i := 0; i < workers; i++ {
		end := start + step
		if i == workers-1 || end > n-1 {
			end = n - 1
		}
		ranges = append(ranges, Range{Lo: start, Hi: end})
		start = end + 1
		if start > n-1 {
			break
		}
	}
	return ranges
}

// WorkerCount returns min(runtime.NumCPU(), maxCoreNumber), the worker count
// spec §4.9 specifies. maxCoreNumber <= 0 is treated as "no cap".
func WorkerCount(maxCoreNumber int) int {
	n := runtime.NumCPU()
	if maxCoreNumber > 0 && maxCoreNumber < n {
		return maxCoreNumber
	}
	return n
}
