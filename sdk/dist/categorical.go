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

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/bitgen"
)

// Categorical 依非負權重在索引 {0..n-1} 上取樣。
//
// 快取不變量（效能關鍵）：每次權重被重新指派時重建
//   - cdf[i] = Σ weights[0..i]（未正規化累積和）
//   - weightsSum = cdf[n-1]
//
// 取樣必須是 O(log n) 的 cdf 二分搜尋，不是 O(n) 線性掃描。
// 四個動差也在同一趟重建中預先算好，查詢為 O(1)。
type Categorical struct {
	binding
	weights []float64

	// rebuild 時一併更新
	cdf        []float64
	weightsSum float64
	mean       float64
	variance   float64
	mode       float64
	median     float64
}

// IsValidCategoricalWeights 為權重的純合法性判定：
// 非空、全部 ≥ 0、無 NaN/Inf、總和 > 0。
func IsValidCategoricalWeights(weights []float64) bool {
	if len(weights) == 0 {
		return false
	}
	sum := 0.0
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return false
		}
		sum += w
	}
	return sum > 0 && !math.IsInf(sum, 0)
}

// NewCategorical 建立 Categorical 分布。
func NewCategorical(gen *bitgen.Core, weights []float64) (*Categorical, error) {
	b, err := newBinding(gen)
	if err != nil {
		return nil, err
	}
	d := &Categorical{binding: b}
	if err := d.SetWeights(weights); err != nil {
		return nil, err
	}
	return d, nil
}

// NewCategoricalUniform 建立 n 個等權類別的 Categorical。
func NewCategoricalUniform(gen *bitgen.Core, n int) (*Categorical, error) {
	if n <= 0 {
		return nil, errs.InvalidParamf("dist: categorical category count %d must be > 0", n)
	}
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return NewCategorical(gen, w)
}

// Weights 回傳「正規化後」的權重複本（總和為 1）。
func (d *Categorical) Weights() []float64 {
	out := make([]float64, len(d.weights))
	for i, w := range d.weights {
		out[i] = w / d.weightsSum
	}
	return out
}

// RawWeights 回傳未正規化的原始權重複本。
func (d *Categorical) RawWeights() []float64 {
	return append([]float64(nil), d.weights...)
}

// CDF 回傳未正規化累積和快取的複本。
func (d *Categorical) CDF() []float64 {
	return append([]float64(nil), d.cdf...)
}

// WeightsSum 回傳權重總和。
func (d *Categorical) WeightsSum() float64 { return d.weightsSum }

// SetWeights 重新指派權重並重建快取。
// 驗證失敗時回傳 InvalidParameter 且不動既有權重與快取。
func (d *Categorical) SetWeights(weights []float64) error {
	if !IsValidCategoricalWeights(weights) {
		return errs.NewInvalidParam("dist: categorical weights must be non-empty, >= 0, finite, with positive sum")
	}
	d.weights = append([]float64(nil), weights...)
	d.rebuild()
	return nil
}

// rebuild 重建 cdf 快取並在同一趟預先算好四個動差。
func (d *Categorical) rebuild() {
	n := len(d.weights)
	d.cdf = make([]float64, n)

	sum := 0.0
	meanAcc := 0.0
	maxW := math.Inf(-1)
	maxIdx := 0
	for i, w := range d.weights {
		sum += w
		d.cdf[i] = sum
		meanAcc += w * float64(i+1)
		if w > maxW {
			maxW = w
			maxIdx = i
		}
	}
	d.weightsSum = sum
	d.mean = meanAcc/sum - 1
	d.mode = float64(maxIdx)

	// variance 與 median 同一趟：variance 需要 mean，所以走第二個迴圈，
	// median 取第一個累積值跨過半總和的索引
	varAcc := 0.0
	half := sum / 2
	median := -1
	for i, w := range d.weights {
		diff := float64(i+1) - d.mean
		varAcc += w * diff * diff
		if median < 0 && d.cdf[i] >= half {
			median = i
		}
	}
	d.variance = varAcc/sum - 1
	d.median = float64(median)
}

// Next 取樣：u = Float64N(weightsSum)，於 cdf 上二分搜尋
// 「最小的 i 使 cdf[i] ≥ u」，命中精確相等時直接短路回傳。
func (d *Categorical) Next() int32 {
	u, _ := d.gen.Float64N(d.weightsSum)

	lo, hi := 0, len(d.cdf)-1
	for lo < hi {
		mid := lo + (hi-lo)/2
		switch {
		case d.cdf[mid] == u:
			return int32(mid)
		case d.cdf[mid] < u:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return int32(lo)
}

func (d *Categorical) NextDouble() float64 { return float64(d.Next()) }

func (d *Categorical) Mean() (float64, error) { return d.mean, nil }

// Median 回傳預先算好的中位數：最小的索引使累積權重 ≥ 半總和。
func (d *Categorical) Median() (float64, error) { return d.median, nil }

func (d *Categorical) Variance() (float64, error) { return d.variance, nil }

// Mode 回傳第一個最大權重的索引。
func (d *Categorical) Mode() ([]float64, error) {
	return []float64{d.mode}, nil
}

var _ DiscreteDistribution = (*Categorical)(nil)
