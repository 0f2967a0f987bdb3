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

// Package depthmodel implements the C2 depth-likelihood contract
// (segment.DepthModel): mapping observed per-segment coverage to a
// likelihood vector over copy-number states, and observed allele counts to a
// genotype likelihood. It is the one injected collaborator the joint,
// quality and mcc packages never construct themselves -- callers build a
// GaussianModel once per sample from its observed coverage profile and hand
// it to segment.Sample.
package depthmodel

import (
	"math"

	"github.com/grailbio/cnv/segment"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

var _ segment.DepthModel = (*GaussianModel)(nil)

// GaussianModel is a concrete segment.DepthModel: copy number cn's expected
// coverage is cn/2 * meanCoverage (so CN=2 centers on meanCoverage), and
// observed coverage is treated as Gaussian around that expectation with
// standard deviation proportional to sqrt(expected) (Poisson-like read-depth
// noise) floored at MinSigma to stay well-defined at CN=0.
type GaussianModel struct {
	// MeanCoverage is the sample's overall mean coverage (CN=2 baseline).
	MeanCoverage float64
	// NoiseFraction scales the per-CN standard deviation; 0.15-0.25 is a
	// typical WGS bin-level value.
	NoiseFraction float64
	// MinSigma floors the standard deviation so CN=0's likelihood doesn't
	// degenerate.
	MinSigma float64
}

// NewGaussianModel returns a GaussianModel with the noise defaults this
// package ships.
func NewGaussianModel(meanCoverage float64) *GaussianModel {
	return &GaussianModel{
		MeanCoverage:  meanCoverage,
		NoiseFraction: 0.2,
		MinSigma:      0.5,
	}
}

func (m *GaussianModel) expectedCoverage(cn int) float64 {
	return float64(cn) / 2 * m.MeanCoverage
}

func (m *GaussianModel) sigma(expected float64) float64 {
	s := m.NoiseFraction * math.Sqrt(math.Max(expected, 1))
	if s < m.MinSigma {
		return m.MinSigma
	}
	return s
}

// DepthLikelihood returns L[0..maxCN-1], the Gaussian density of x under each
// candidate copy number's expected coverage.
func (m *GaussianModel) DepthLikelihood(x float64, maxCN int) []float64 {
	l := make([]float64, maxCN)
	for cn := 0; cn < maxCN; cn++ {
		expected := m.expectedCoverage(cn)
		sigma := m.sigma(expected)
		z := (x - expected) / sigma
		l[cn] = math.Exp(-0.5*z*z) / (sigma * math.Sqrt(2*math.Pi))
		if math.IsNaN(l[cn]) || math.IsInf(l[cn], 0) {
			l[cn] = 0
		}
	}
	return l
}

// AlleleLikelihood returns the binomial likelihood of the observed allele
// counts given genotype (a, b): each SNV's B-allele count is treated as a
// Binomial(n, p) draw with p = b/(a+b) (or 0.5 when a+b==0, i.e. CN=0, which
// never actually has allele observations worth scoring).
func (m *GaussianModel) AlleleLikelihood(obs []segment.AlleleObservation, a, b int) float64 {
	if len(obs) == 0 {
		return 1
	}
	p := 0.5
	if a+b > 0 {
		p = float64(b) / float64(a+b)
	}
	logL := 0.0
	for _, o := range obs {
		n := o.ACount + o.BCount
		if n == 0 {
			continue
		}
		logL += binomialLogPMF(o.BCount, n, p)
	}
	l := math.Exp(logL)
	if math.IsNaN(l) || math.IsInf(l, 0) {
		return 0
	}
	return l
}

// BestAlleleScore reports the index of the candidate genotype with the
// highest AlleleLikelihood, and a Phred-like score (-10*log10 of the
// normalized complement of its likelihood mass) for that choice.
func (m *GaussianModel) BestAlleleScore(obs []segment.AlleleObservation, candidates []struct{ A, B int }) (int, float64) {
	if len(candidates) == 0 {
		return -1, 0
	}
	likelihoods := make([]float64, len(candidates))
	for i, c := range candidates {
		likelihoods[i] = m.AlleleLikelihood(obs, c.A, c.B)
	}
	best := floats.MaxIdx(likelihoods)
	total := floats.Sum(likelihoods)
	if total <= 0 {
		return best, 0
	}
	frac := (total - likelihoods[best]) / total
	score := -10 * math.Log10(math.Max(frac, 1e-300))
	return best, score
}

// binomialLogPMF returns log(C(n,k) p^k (1-p)^(n-k)) using distuv.Binomial,
// coercing the degenerate p in {0,1} cases to avoid NaN from log(0)*0.
func binomialLogPMF(k, n int, p float64) float64 {
	if n == 0 {
		return 0
	}
	if p <= 0 {
		if k == 0 {
			return 0
		}
		return math.Inf(-1)
	}
	if p >= 1 {
		if k == n {
			return 0
		}
		return math.Inf(-1)
	}
	b := distuv.Binomial{N: float64(n), P: p}
	lp := b.LogProb(float64(k))
	if math.IsNaN(lp) {
		return math.Inf(-1)
	}
	return lp
}
