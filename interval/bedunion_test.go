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
package interval

import (
	"strings"
	"testing"

	"github.com/grailbio/testutil/assert"
)

func TestBEDUnionContainsByName(t *testing.T) {
	bed := "chr1\t100\t200\nchr1\t300\t400\nchr2\t50\t60\n"
	u, err := NewBEDUnion(strings.NewReader(bed), NewBEDOpts{})
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, u.ContainsByName("chr1", 150))
	assert.True(t, !u.ContainsByName("chr1", 250))
	assert.True(t, u.ContainsByName("chr1", 350))
	assert.True(t, u.ContainsByName("chr2", 55))
	assert.True(t, !u.ContainsByName("chr3", 55))
}

func TestBEDUnionContainsByNameMergesOverlapping(t *testing.T) {
	bed := "chr1\t100\t200\nchr1\t150\t300\n"
	u, err := NewBEDUnion(strings.NewReader(bed), NewBEDOpts{})
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, u.ContainsByName("chr1", 250))
}
