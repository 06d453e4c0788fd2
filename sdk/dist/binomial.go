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

// Binomial 計 beta 次獨立 Bernoulli 試驗中的成功次數，成功機率 alpha。
//
// 取樣為逐次試驗計數（O(beta)）：每次試驗消耗一個 Float64。
type Binomial struct {
	binding
	alpha float64
	beta  int32
}

// IsValidBinomialAlpha 為 alpha 的純合法性判定：0 ≤ alpha ≤ 1。
func IsValidBinomialAlpha(alpha float64) bool {
	return alpha >= 0 && alpha <= 1
}

// IsValidBinomialBeta 為試驗次數的純合法性判定：beta ≥ 0。
func IsValidBinomialBeta(beta int32) bool {
	return beta >= 0
}

// NewBinomial 建立 Binomial 分布。
func NewBinomial(gen *bitgen.Core, alpha float64, beta int32) (*Binomial, error) {
	b, err := newBinding(gen)
	if err != nil {
		return nil, err
	}
	d := &Binomial{binding: b}
	if err := d.SetAlpha(alpha); err != nil {
		return nil, err
	}
	if err := d.SetBeta(beta); err != nil {
		return nil, err
	}
	return d, nil
}

// Alpha 回傳成功機率。
func (d *Binomial) Alpha() float64 { return d.alpha }

// Beta 回傳試驗次數。
func (d *Binomial) Beta() int32 { return d.beta }

// SetAlpha 更新成功機率；驗證失敗時回傳 InvalidParameter 且不動既有參數。
func (d *Binomial) SetAlpha(alpha float64) error {
	if !IsValidBinomialAlpha(alpha) {
		return errs.InvalidParamf("dist: binomial alpha %v must be in [0,1]", alpha)
	}
	d.alpha = alpha
	return nil
}

// SetBeta 更新試驗次數；驗證失敗時回傳 InvalidParameter 且不動既有參數。
func (d *Binomial) SetBeta(beta int32) error {
	if !IsValidBinomialBeta(beta) {
		return errs.InvalidParamf("dist: binomial beta %d must be >= 0", beta)
	}
	d.beta = beta
	return nil
}

// Next 取樣：beta 次試驗中 Float64() < alpha 的次數。
func (d *Binomial) Next() int32 {
	var successes int32
	for i := int32(0); i < d.beta; i++ {
		if d.gen.Float64() < d.alpha {
			successes++
		}
	}
	return successes
}

func (d *Binomial) NextDouble() float64 { return float64(d.Next()) }

func (d *Binomial) Mean() (float64, error) {
	return d.alpha * float64(d.beta), nil
}

// Median 在一般參數下無封閉定義，回傳 UnsupportedMoment。
func (d *Binomial) Median() (float64, error) {
	return 0, unsupportedMoment("binomial", "median")
}

func (d *Binomial) Variance() (float64, error) {
	return d.alpha * (1 - d.alpha) * float64(d.beta), nil
}

func (d *Binomial) Mode() ([]float64, error) {
	return []float64{math.Floor(d.alpha * float64(d.beta+1))}, nil
}

var _ DiscreteDistribution = (*Binomial)(nil)
