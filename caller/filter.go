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

import (
	"fmt"

	"github.com/grailbio/cnv/segment"
)

// applyQualityFilter writes spec §6's `q<threshold>` filter label onto s
// when its QS falls below threshold, clearing any previously-set label
// otherwise (a segment re-called on a later pass should not keep a stale
// filter from an earlier, lower-quality call).
func applyQualityFilter(s *segment.Segment, threshold float64) {
	if s.QS < threshold {
		label := fmt.Sprintf("q%v", threshold)
		s.Filter = &label
		return
	}
	s.Filter = nil
}
