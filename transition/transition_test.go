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
package transition

import (
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestRowZeroIsDegenerate(t *testing.T) {
	m := NewMatrix(5)
	expect.EQ(t, m[0], []float64{1, 0, 0, 0, 0})
}

func TestRowsSumNearOne(t *testing.T) {
	m := NewMatrix(5)
	for cn := 1; cn < 5; cn++ {
		var sum float64
		for _, p := range m[cn] {
			sum += p
		}
		// The row is truncated to maxCN outcomes, so mass is <= 1, and close to
		// 1 for small lambda.
		assert.True(t, sum > 0 && sum <= 1.0001)
	}
}

func TestRowTwoPeaksNearOne(t *testing.T) {
	m := NewMatrix(5)
	// CN=2 -> lambda=1, Poisson(1) peaks at g=0 and g=1 equally; both should
	// dominate g=3,4.
	assert.True(t, m[2][1] > m[2][3])
	assert.True(t, m[2][0] > m[2][4])
}
