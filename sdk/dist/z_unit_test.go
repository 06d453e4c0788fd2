// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package dist

import (
	"math"
	"testing"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/bitgen"
)

func newCore(seed uint32) *bitgen.Core {
	return bitgen.MustNew(bitgen.NewXorShift128(seed))
}

func TestNilCoreRejected(t *testing.T) {
	if _, err := NewBernoulli(nil, 0.5); !errs.IsKind(err, errs.NullArgument) {
		t.Fatalf("expected NullArgument, got %v", err)
	}
	if _, err := NewCategorical(nil, []float64{1}); !errs.IsKind(err, errs.NullArgument) {
		t.Fatalf("expected NullArgument, got %v", err)
	}
}

func TestBinomialValidation(t *testing.T) {
	c := newCore(1)
	if _, err := NewBinomial(c, 1.5, 10); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("alpha=1.5: expected InvalidParameter, got %v", err)
	}
	if _, err := NewBinomial(c, 0.5, -1); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("beta=-1: expected InvalidParameter, got %v", err)
	}

	d, err := NewBinomial(c, 0.3, 20)
	if err != nil {
		t.Fatalf("NewBinomial: %v", err)
	}
	// 被拒絕的 setter 不得改動既有參數
	if err := d.SetAlpha(-0.1); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("expected InvalidParameter, got %v", err)
	}
	if err := d.SetBeta(-5); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("expected InvalidParameter, got %v", err)
	}
	if d.Alpha() != 0.3 || d.Beta() != 20 {
		t.Fatalf("rejected setter mutated params: alpha=%v beta=%d", d.Alpha(), d.Beta())
	}
}

func TestBinomialRange(t *testing.T) {
	d, _ := NewBinomial(newCore(2), 0.4, 30)
	for i := 0; i < 10_000; i++ {
		v := d.Next()
		if v < 0 || v > 30 {
			t.Fatalf("binomial sample %d outside [0,30]", v)
		}
	}

	// 退化參數：alpha=0 全失敗、alpha=1 全成功、beta=0 永遠為 0
	z, _ := NewBinomial(newCore(3), 0, 10)
	for i := 0; i < 100; i++ {
		if z.Next() != 0 {
			t.Fatalf("alpha=0 produced a success")
		}
	}
	o, _ := NewBinomial(newCore(3), 1, 10)
	for i := 0; i < 100; i++ {
		if o.Next() != 10 {
			t.Fatalf("alpha=1 produced a failure")
		}
	}
	e, _ := NewBinomial(newCore(3), 0.5, 0)
	for i := 0; i < 100; i++ {
		if e.Next() != 0 {
			t.Fatalf("beta=0 produced nonzero count")
		}
	}
}

func TestGeometricValidation(t *testing.T) {
	c := newCore(4)
	if _, err := NewGeometric(c, 0); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("alpha=0: expected InvalidParameter, got %v", err)
	}
	if _, err := NewGeometric(c, 1.1); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("alpha=1.1: expected InvalidParameter, got %v", err)
	}

	d, err := NewGeometric(c, 0.25)
	if err != nil {
		t.Fatalf("NewGeometric: %v", err)
	}
	if err := d.SetAlpha(0); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("expected InvalidParameter, got %v", err)
	}
	if d.Alpha() != 0.25 {
		t.Fatalf("rejected setter mutated alpha: %v", d.Alpha())
	}
	for i := 0; i < 10_000; i++ {
		if d.Next() < 1 {
			t.Fatalf("geometric sample below 1")
		}
	}
}

func TestPoissonMode(t *testing.T) {
	d, _ := NewPoisson(newCore(5), 1.0)
	m, err := d.Mode()
	if err != nil {
		t.Fatalf("Mode: %v", err)
	}
	if len(m) != 2 || m[0] != 0 || m[1] != 1 {
		t.Fatalf("lambda=1 mode = %v, want [0 1]", m)
	}

	d.SetLambda(2.5)
	m, _ = d.Mode()
	if len(m) != 1 || m[0] != 2 {
		t.Fatalf("lambda=2.5 mode = %v, want [2]", m)
	}

	if _, err := NewPoisson(newCore(5), -1); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("lambda=-1: expected InvalidParameter, got %v", err)
	}
	if _, err := d.Median(); !errs.IsKind(err, errs.UnsupportedMoment) {
		t.Fatalf("expected UnsupportedMoment, got %v", err)
	}
}

func TestCategoricalCDFCache(t *testing.T) {
	d, err := NewCategorical(newCore(6), []float64{1, 2, 1})
	if err != nil {
		t.Fatalf("NewCategorical: %v", err)
	}

	cdf := d.CDF()
	want := []float64{1, 3, 4}
	for i := range want {
		if cdf[i] != want[i] {
			t.Fatalf("cdf = %v, want %v", cdf, want)
		}
	}
	if d.WeightsSum() != 4 {
		t.Fatalf("weights sum = %v, want 4", d.WeightsSum())
	}

	norm := d.Weights()
	wantNorm := []float64{0.25, 0.5, 0.25}
	for i := range wantNorm {
		if norm[i] != wantNorm[i] {
			t.Fatalf("normalized weights = %v, want %v", norm, wantNorm)
		}
	}

	for i := 0; i < 10_000; i++ {
		v := d.Next()
		if v < 0 || v > 2 {
			t.Fatalf("categorical sample %d outside index range", v)
		}
	}

	// 零權重類別不可被抽中
	z, _ := NewCategorical(newCore(6), []float64{1, 0, 1})
	for i := 0; i < 10_000; i++ {
		if z.Next() == 1 {
			t.Fatalf("zero-weight category sampled")
		}
	}
}

func TestCategoricalValidation(t *testing.T) {
	c := newCore(7)
	if _, err := NewCategorical(c, nil); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("empty weights: expected InvalidParameter, got %v", err)
	}
	if _, err := NewCategorical(c, []float64{0, 0, 0}); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("all-zero weights: expected InvalidParameter, got %v", err)
	}
	if _, err := NewCategorical(c, []float64{1, -1}); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("negative weight: expected InvalidParameter, got %v", err)
	}
	if _, err := NewCategorical(c, []float64{1, math.NaN()}); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("NaN weight: expected InvalidParameter, got %v", err)
	}

	d, _ := NewCategorical(c, []float64{1, 2, 1})
	if err := d.SetWeights([]float64{0, 0}); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("expected InvalidParameter, got %v", err)
	}
	// 被拒絕的 SetWeights 不得動既有快取
	cdf := d.CDF()
	if len(cdf) != 3 || cdf[2] != 4 {
		t.Fatalf("rejected SetWeights mutated cache: %v", cdf)
	}
}

func TestCategoricalMoments(t *testing.T) {
	d, _ := NewCategorical(newCore(8), []float64{1, 2, 1})
	mean, _ := d.Mean()
	if mean != 1 {
		t.Fatalf("mean = %v, want 1", mean)
	}
	variance, _ := d.Variance()
	if variance != 0.5 {
		t.Fatalf("variance = %v, want 0.5", variance)
	}
	mode, _ := d.Mode()
	if len(mode) != 1 || mode[0] != 1 {
		t.Fatalf("mode = %v, want [1]", mode)
	}
	median, _ := d.Median()
	if median != 1 {
		t.Fatalf("median = %v, want 1", median)
	}
}

func TestDiscreteUniformRange(t *testing.T) {
	d, err := NewDiscreteUniform(newCore(9), -3, 7)
	if err != nil {
		t.Fatalf("NewDiscreteUniform: %v", err)
	}
	seen := map[int32]bool{}
	for i := 0; i < 10_000; i++ {
		v := d.Next()
		if v < -3 || v > 7 {
			t.Fatalf("sample %d outside [-3,7]", v)
		}
		seen[v] = true
	}
	if len(seen) != 11 {
		t.Fatalf("10k draws covered %d of 11 values", len(seen))
	}

	if _, err := NewDiscreteUniform(newCore(9), 5, 2); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("alpha>beta: expected InvalidParameter, got %v", err)
	}
}

func TestContinuousDistributions(t *testing.T) {
	u, err := NewContinuousUniform(newCore(10), -1.5, 2.5)
	if err != nil {
		t.Fatalf("NewContinuousUniform: %v", err)
	}
	for i := 0; i < 10_000; i++ {
		v := u.NextDouble()
		if v < -1.5 || v >= 2.5 {
			t.Fatalf("uniform sample out of range: %v", v)
		}
	}

	e, err := NewExponential(newCore(10), 2)
	if err != nil {
		t.Fatalf("NewExponential: %v", err)
	}
	for i := 0; i < 10_000; i++ {
		v := e.NextDouble()
		if v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			t.Fatalf("exponential sample invalid: %v", v)
		}
	}

	n, err := NewNormal(newCore(10), 5, 0.5)
	if err != nil {
		t.Fatalf("NewNormal: %v", err)
	}
	for i := 0; i < 10_000; i++ {
		v := n.NextDouble()
		if math.IsInf(v, 0) || math.IsNaN(v) {
			t.Fatalf("normal sample invalid: %v", v)
		}
	}
	if _, err := NewNormal(newCore(10), 0, 0); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("sigma=0: expected InvalidParameter, got %v", err)
	}
}

func TestSamplerDeterminism(t *testing.T) {
	build := func(seed uint32) []DiscreteDistribution {
		c := newCore(seed)
		b, _ := NewBinomial(c, 0.4, 12)
		g, _ := NewGeometric(c, 0.3)
		p, _ := NewPoisson(c, 4.5)
		k, _ := NewCategorical(c, []float64{3, 1, 2, 4})
		u, _ := NewDiscreteUniform(c, 0, 99)
		return []DiscreteDistribution{b, g, p, k, u}
	}
	a := build(1337)
	b := build(1337)
	for i := 0; i < 2000; i++ {
		for j := range a {
			if a[j].Next() != b[j].Next() {
				t.Fatalf("sampler %d diverged at draw %d", j, i)
			}
		}
	}
}

// 經驗平均落在理論平均 ±20% 內（平均值非零的情況）。
func TestEmpiricalMean(t *testing.T) {
	const draws = 50_000
	cases := []struct {
		name string
		d    DiscreteDistribution
	}{
		{"binomial", func() DiscreteDistribution { d, _ := NewBinomial(newCore(42), 0.5, 20); return d }()},
		{"geometric", func() DiscreteDistribution { d, _ := NewGeometric(newCore(42), 0.2); return d }()},
		{"poisson", func() DiscreteDistribution { d, _ := NewPoisson(newCore(42), 6); return d }()},
		{"categorical", func() DiscreteDistribution { d, _ := NewCategorical(newCore(42), []float64{1, 2, 3}); return d }()},
		{"uniform", func() DiscreteDistribution { d, _ := NewDiscreteUniform(newCore(42), 1, 9); return d }()},
	}
	for _, cs := range cases {
		want, err := cs.d.Mean()
		if err != nil {
			t.Fatalf("%s: Mean: %v", cs.name, err)
		}
		sum := 0.0
		for i := 0; i < draws; i++ {
			sum += cs.d.NextDouble()
		}
		got := sum / draws
		if math.Abs(got-want) > 0.2*math.Abs(want) {
			t.Fatalf("%s: empirical mean %v too far from %v", cs.name, got, want)
		}
	}
}
