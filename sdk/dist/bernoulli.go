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
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/bitgen"
)

// Bernoulli 單次成功/失敗試驗，成功機率 alpha。
type Bernoulli struct {
	binding
	alpha float64
}

// IsValidBernoulliAlpha 為 alpha 的純合法性判定：0 ≤ alpha ≤ 1。
func IsValidBernoulliAlpha(alpha float64) bool {
	return alpha >= 0 && alpha <= 1
}

// NewBernoulli 建立 Bernoulli 分布。
func NewBernoulli(gen *bitgen.Core, alpha float64) (*Bernoulli, error) {
	b, err := newBinding(gen)
	if err != nil {
		return nil, err
	}
	d := &Bernoulli{binding: b}
	if err := d.SetAlpha(alpha); err != nil {
		return nil, err
	}
	return d, nil
}

// Alpha 回傳成功機率。
func (d *Bernoulli) Alpha() float64 { return d.alpha }

// SetAlpha 更新成功機率；驗證失敗時回傳 InvalidParameter 且不動既有參數。
func (d *Bernoulli) SetAlpha(alpha float64) error {
	if !IsValidBernoulliAlpha(alpha) {
		return errs.InvalidParamf("dist: bernoulli alpha %v must be in [0,1]", alpha)
	}
	d.alpha = alpha
	return nil
}

// Next 取樣：成功回傳 1，失敗回傳 0。
func (d *Bernoulli) Next() int32 {
	if d.gen.Float64() < d.alpha {
		return 1
	}
	return 0
}

func (d *Bernoulli) NextDouble() float64 { return float64(d.Next()) }

func (d *Bernoulli) Mean() (float64, error) { return d.alpha, nil }

func (d *Bernoulli) Median() (float64, error) {
	return 0, unsupportedMoment("bernoulli", "median")
}

func (d *Bernoulli) Variance() (float64, error) {
	return d.alpha * (1 - d.alpha), nil
}

// Mode 回傳眾數：alpha < 0.5 時為 {0}，> 0.5 時為 {1}，恰為 0.5 時兩者並列。
func (d *Bernoulli) Mode() ([]float64, error) {
	switch {
	case d.alpha < 0.5:
		return []float64{0}, nil
	case d.alpha > 0.5:
		return []float64{1}, nil
	default:
		return []float64{0, 1}, nil
	}
}

var _ DiscreteDistribution = (*Bernoulli)(nil)
