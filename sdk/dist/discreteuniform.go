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

// DiscreteUniform 在整數閉區間 [alpha, beta] 上等機率取樣。
type DiscreteUniform struct {
	binding
	alpha int32
	beta  int32
}

// IsValidDiscreteUniformRange 為區間的純合法性判定：alpha ≤ beta 且
// beta < MaxInt32（閉區間上界需可表示成半開區間的 beta+1）。
func IsValidDiscreteUniformRange(alpha, beta int32) bool {
	return alpha <= beta && beta < math.MaxInt32
}

// NewDiscreteUniform 建立 DiscreteUniform 分布。
func NewDiscreteUniform(gen *bitgen.Core, alpha, beta int32) (*DiscreteUniform, error) {
	b, err := newBinding(gen)
	if err != nil {
		return nil, err
	}
	d := &DiscreteUniform{binding: b}
	if err := d.SetRange(alpha, beta); err != nil {
		return nil, err
	}
	return d, nil
}

// Alpha 回傳區間下界（含）。
func (d *DiscreteUniform) Alpha() int32 { return d.alpha }

// Beta 回傳區間上界（含）。
func (d *DiscreteUniform) Beta() int32 { return d.beta }

// SetRange 更新區間；驗證失敗時回傳 InvalidParameter 且不動既有參數。
// 兩個端點一起設定，避免逐一 setter 造成的暫時不合法狀態。
func (d *DiscreteUniform) SetRange(alpha, beta int32) error {
	if !IsValidDiscreteUniformRange(alpha, beta) {
		return errs.InvalidParamf("dist: discrete uniform range [%d,%d] must satisfy alpha <= beta < MaxInt32", alpha, beta)
	}
	d.alpha = alpha
	d.beta = beta
	return nil
}

// Next 取樣：委派給 Core 的半開區間整數抽樣 [alpha, beta+1)。
func (d *DiscreteUniform) Next() int32 {
	v, _ := d.gen.NextRange(d.alpha, d.beta+1)
	return v
}

func (d *DiscreteUniform) NextDouble() float64 { return float64(d.Next()) }

func (d *DiscreteUniform) Mean() (float64, error) {
	return (float64(d.alpha) + float64(d.beta)) / 2, nil
}

func (d *DiscreteUniform) Median() (float64, error) {
	return (float64(d.alpha) + float64(d.beta)) / 2, nil
}

func (d *DiscreteUniform) Variance() (float64, error) {
	n := float64(d.beta) - float64(d.alpha) + 1
	return (n*n - 1) / 12, nil
}

// Mode 僅在退化區間（alpha == beta）有單一眾數；其餘情況所有值並列，
// 視為未定義。
func (d *DiscreteUniform) Mode() ([]float64, error) {
	if d.alpha == d.beta {
		return []float64{float64(d.alpha)}, nil
	}
	return nil, unsupportedMoment("discrete uniform", "mode")
}

var _ DiscreteDistribution = (*DiscreteUniform)(nil)
