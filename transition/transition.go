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

// Package transition implements C3: the parent-CN to offspring-allele-count
// transition matrix used by the pedigree joint-inference kernel (package
// joint) to weight how likely an offspring is to inherit g copies of an
// allele given one parent carries copy number cn.
package transition

import "gonum.org/v1/gonum/stat/distuv"

// Matrix is a dense [maxCN][maxCN] table; Matrix[cn][g] is
// P(offspring_allele_count = g | parent_cn = cn).
type Matrix [][]float64

// NewMatrix builds the transition matrix for copy numbers in [0, maxCN).
// Row cn (cn > 0) is Poisson(lambda = max(cn/2, 0.1)).PMF(g) for g in
// [0, maxCN); row 0 is the fixed distribution T[0][0]=1, T[0][g>0]=0, since a
// deleted parental allele can't be transmitted.
func NewMatrix(maxCN int) Matrix {
	m := make(Matrix, maxCN)
	for cn := 0; cn < maxCN; cn++ {
		m[cn] = make([]float64, maxCN)
		if cn == 0 {
			m[cn][0] = 1
			continue
		}
		lambda := float64(cn) / 2
		if lambda < 0.1 {
			lambda = 0.1
		}
		pois := distuv.Poisson{Lambda: lambda}
		for g := 0; g < maxCN; g++ {
			m[cn][g] = pois.Prob(float64(g))
		}
	}
	return m
}

// DeNovoRate is the floor quality.DeNovoQS clamps its de-novo probability to,
// so a clean de-novo call never reports an unbounded QS.
const DeNovoRate = 1e-6
