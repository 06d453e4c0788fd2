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

// Package dist 提供以 bitgen.Core 為底的機率分布取樣器。
//
// 設計約定（全包一致）：
//   - 每個分布綁定一個 Core（獨佔持有或外部注入），取樣會推進該 Core 的狀態。
//   - 參數驗證是 eager 的：建構子與 setter 當場驗證，驗證失敗回傳
//     InvalidParameter 且「不動任何既有狀態」；熱路徑（Next/NextDouble）
//     因此完全不驗證、不回傳 error。
//   - 每條驗證規則同時以純函數（IsValidXxx）導出，供外部預先檢查。
//   - 動差（Mean/Median/Variance/Mode）為推導值；數學上未定義的動差回傳
//     UnsupportedMoment，屬可預期錯誤，呼叫端應視為正常流程。
package dist

import (
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/bitgen"
)

// Distribution 是所有分布共同的動差與連續取樣介面。
type Distribution interface {
	// Mean 回傳期望值；未定義時回傳 UnsupportedMoment。
	Mean() (float64, error)
	// Median 回傳中位數；未定義時回傳 UnsupportedMoment。
	Median() (float64, error)
	// Variance 回傳變異數；未定義時回傳 UnsupportedMoment。
	Variance() (float64, error)
	// Mode 回傳眾數集合；未定義時回傳 UnsupportedMoment。
	Mode() ([]float64, error)
	// NextDouble 取一個樣本並以 float64 表示。
	NextDouble() float64
}

// DiscreteDistribution 在 Distribution 之上增加整數取樣。
type DiscreteDistribution interface {
	Distribution
	// Next 取一個整數樣本。
	Next() int32
}

// Gen 回傳分布綁定的 Core；所有分布都內嵌 binding。
type binding struct {
	gen *bitgen.Core
}

func newBinding(gen *bitgen.Core) (binding, error) {
	if gen == nil {
		return binding{}, errs.NewNullArg("dist: nil generator core")
	}
	return binding{gen: gen}, nil
}

// Gen 暴露底層 Core（例如供呼叫端 Reset 以重播樣本序列）。
func (b binding) Gen() *bitgen.Core { return b.gen }

// nextNonzero 回傳 (0,1) 的均勻亂數（排除 0，重抽政策）。
func (b binding) nextNonzero() float64 {
	for {
		u := b.gen.Float64()
		if u != 0 {
			return u
		}
	}
}

func unsupportedMoment(dist, moment string) error {
	return errs.NewUnsupportedMoment("dist: " + dist + " has no defined " + moment)
}
