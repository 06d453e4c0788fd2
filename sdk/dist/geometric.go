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

// Geometric 計「直到第一次成功為止」的試驗次數（含成功那次，最小值 1）。
//
// 取樣為逐次試驗（rejection 形式）：一直抽到 Float64() < alpha 為止。
// alpha = 0 被驗證排除，否則迴圈不會終止。
type Geometric struct {
	binding
	alpha float64
}

// IsValidGeometricAlpha 為 alpha 的純合法性判定：0 < alpha ≤ 1。
func IsValidGeometricAlpha(alpha float64) bool {
	return alpha > 0 && alpha <= 1
}

// NewGeometric 建立 Geometric 分布。
func NewGeometric(gen *bitgen.Core, alpha float64) (*Geometric, error) {
	b, err := newBinding(gen)
	if err != nil {
		return nil, err
	}
	d := &Geometric{binding: b}
	if err := d.SetAlpha(alpha); err != nil {
		return nil, err
	}
	return d, nil
}

// Alpha 回傳單次成功機率。
func (d *Geometric) Alpha() float64 { return d.alpha }

// SetAlpha 更新成功機率；驗證失敗時回傳 InvalidParameter 且不動既有參數。
func (d *Geometric) SetAlpha(alpha float64) error {
	if !IsValidGeometricAlpha(alpha) {
		return errs.InvalidParamf("dist: geometric alpha %v must be in (0,1]", alpha)
	}
	d.alpha = alpha
	return nil
}

// Next 取樣：回傳第一次成功發生在第幾次試驗（≥ 1）。
func (d *Geometric) Next() int32 {
	trials := int32(1)
	for d.gen.Float64() >= d.alpha {
		trials++
	}
	return trials
}

func (d *Geometric) NextDouble() float64 { return float64(d.Next()) }

func (d *Geometric) Mean() (float64, error) {
	return 1 / d.alpha, nil
}

func (d *Geometric) Median() (float64, error) {
	return 0, unsupportedMoment("geometric", "median")
}

func (d *Geometric) Variance() (float64, error) {
	return (1 - d.alpha) / (d.alpha * d.alpha), nil
}

// Mode 固定為 {1}：首次試驗永遠是最可能的成功時點。
func (d *Geometric) Mode() ([]float64, error) {
	return []float64{1}, nil
}

var _ DiscreteDistribution = (*Geometric)(nil)
