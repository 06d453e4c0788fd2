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

// poissonStep 為乘法式取樣的分段常數。
// lambda 很大時 exp(-lambda) 會 underflow 到 0，因此把 exp(lambda) 拆成
// 每 500 一段逐步乘回累積器；常數 500 與「與 e 比較」的判準是演算法的
// 一部分，不可改動（改動需重新驗證動差測試）。
const poissonStep = 500.0

// Poisson 事件計數分布，速率參數 lambda。
//
// 取樣採乘法式（Knuth）方法：以非零均勻亂數連乘累積器，
// 配合 poissonStep 分段避免浮點 underflow，期望消耗 O(lambda) 次抽樣。
type Poisson struct {
	binding
	lambda float64
}

// IsValidPoissonLambda 為 lambda 的純合法性判定：lambda > 0 且有限。
func IsValidPoissonLambda(lambda float64) bool {
	return lambda > 0 && !math.IsInf(lambda, 0) && !math.IsNaN(lambda)
}

// NewPoisson 建立 Poisson 分布。
func NewPoisson(gen *bitgen.Core, lambda float64) (*Poisson, error) {
	b, err := newBinding(gen)
	if err != nil {
		return nil, err
	}
	d := &Poisson{binding: b}
	if err := d.SetLambda(lambda); err != nil {
		return nil, err
	}
	return d, nil
}

// Lambda 回傳速率參數。
func (d *Poisson) Lambda() float64 { return d.lambda }

// SetLambda 更新速率參數；驗證失敗時回傳 InvalidParameter 且不動既有參數。
func (d *Poisson) SetLambda(lambda float64) error {
	if !IsValidPoissonLambda(lambda) {
		return errs.InvalidParamf("dist: poisson lambda %v must be > 0 and finite", lambda)
	}
	d.lambda = lambda
	return nil
}

// Next 取樣。
//
// 演算法：p 初始為 1，每輪乘上一個非零均勻亂數並計數；
// 當 p 掉到 e 以下且 lambda 還有餘額時，一次補乘 exp(min(lambda,500))
// 並從餘額扣除，直到 p ≤ 1 為止；回傳計數減一。
func (d *Poisson) Next() int32 {
	var count int32
	p := 1.0
	left := d.lambda
	for {
		count++
		p *= d.nextNonzero()
		for p < math.E && left > 0 {
			if left > poissonStep {
				p *= math.Exp(poissonStep)
				left -= poissonStep
			} else {
				p *= math.Exp(left)
				left = 0
			}
		}
		if p <= 1 {
			return count - 1
		}
	}
}

func (d *Poisson) NextDouble() float64 { return float64(d.Next()) }

func (d *Poisson) Mean() (float64, error) { return d.lambda, nil }

func (d *Poisson) Median() (float64, error) {
	return 0, unsupportedMoment("poisson", "median")
}

func (d *Poisson) Variance() (float64, error) { return d.lambda, nil }

// Mode 回傳眾數：lambda 為整數時 {lambda-1, lambda} 並列，否則 {floor(lambda)}。
func (d *Poisson) Mode() ([]float64, error) {
	if d.lambda == math.Floor(d.lambda) {
		return []float64{d.lambda - 1, d.lambda}, nil
	}
	return []float64{math.Floor(d.lambda)}, nil
}

var _ DiscreteDistribution = (*Poisson)(nil)
