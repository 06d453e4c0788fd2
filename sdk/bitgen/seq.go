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

// Lazy sequence 操作：每個 scalar 操作對應一個無限的 pull-based 序列。
//
// 合約：
//   - 序列是無限的，取消消費的唯一方式就是停止迭代（break）。
//   - 每產出一個元素，底層產生器狀態恰好推進一次（與對應 scalar 呼叫等量），
//     因此序列第 n 個元素 == 同種子產生器第 n 次 scalar 呼叫的結果。
//   - 序列本身無緩衝、不可回捲；要重播請 Reset 底層產生器後重新建立序列。
//   - 共用同一個產生器的多條序列，交錯讀取必須嚴格循序（不得併發）；
//     除「狀態推進總順序 == 呼叫順序」外不提供任何跨序列順序保證。
//   - bounded 變體在「建立序列時」做一次參數驗證（eager，不進熱迴圈）。

package bitgen

import (
	"iter"
	"math"

	"github.com/zintix-labs/randlab/errs"
)

// Integers 回傳 Next 的無限序列（[0, MaxInt32) 排除上界）。
func (c *Core) Integers() iter.Seq[int32] {
	return func(yield func(int32) bool) {
		for yield(c.Next()) {
		}
	}
}

// IntegersN 回傳 NextN(max) 的無限序列；max < 0 回傳 InvalidRange。
func (c *Core) IntegersN(max int32) (iter.Seq[int32], error) {
	return c.IntegersRange(0, max)
}

// IntegersRange 回傳 NextRange(min,max) 的無限序列；max < min 回傳 InvalidRange。
func (c *Core) IntegersRange(min, max int32) (iter.Seq[int32], error) {
	if max < min {
		return nil, errs.InvalidRangef("bitgen: integer sequence range [%d,%d): max < min", min, max)
	}
	return func(yield func(int32) bool) {
		for {
			v, _ := c.NextRange(min, max)
			if !yield(v) {
				return
			}
		}
	}, nil
}

// Doubles 回傳 Float64 的無限序列（[0,1)）。
func (c *Core) Doubles() iter.Seq[float64] {
	return func(yield func(float64) bool) {
		for yield(c.Float64()) {
		}
	}
}

// DoublesN 回傳 Float64N(max) 的無限序列；邊界驗證同 Float64N。
func (c *Core) DoublesN(max float64) (iter.Seq[float64], error) {
	if _, err := validateFloatBound(max); err != nil {
		return nil, err
	}
	return func(yield func(float64) bool) {
		for {
			v, _ := c.Float64N(max)
			if !yield(v) {
				return
			}
		}
	}, nil
}

// DoublesRange 回傳 Float64Range(min,max) 的無限序列；邊界驗證同 Float64Range。
func (c *Core) DoublesRange(min, max float64) (iter.Seq[float64], error) {
	// 以一次 dry-run 的驗證邏輯確認參數，避免熱迴圈內重複檢查。
	if err := validateFloatRange(min, max); err != nil {
		return nil, err
	}
	return func(yield func(float64) bool) {
		for {
			v, _ := c.Float64Range(min, max)
			if !yield(v) {
				return
			}
		}
	}, nil
}

// Booleans 回傳 NextBool 的無限序列。
func (c *Core) Booleans() iter.Seq[bool] {
	return func(yield func(bool) bool) {
		for yield(c.NextBool()) {
		}
	}
}

// Bytes 回傳均勻隨機位元組的無限序列。
//
// 與 FillBytes 同樣 4:1 攤提：一次 Uint32 服務 4 個位元組（little-endian 順序），
// 耗盡後才向底層再抽一次。
func (c *Core) Bytes() iter.Seq[byte] {
	return func(yield func(byte) bool) {
		for {
			w := c.Uint32()
			for i := 0; i < 4; i++ {
				if !yield(byte(w)) {
					return
				}
				w >>= 8
			}
		}
	}
}

// Choices 回傳從 items 均勻抽取的無限序列（放回抽樣）。
// items 為 nil 或空時回傳 NullArgument。
func Choices[T any](c *Core, items []T) (iter.Seq[T], error) {
	if len(items) == 0 {
		return nil, errs.NewNullArg("bitgen: choices on nil or empty collection")
	}
	return func(yield func(T) bool) {
		for yield(items[c.intn(len(items))]) {
		}
	}, nil
}

func validateFloatBound(max float64) (float64, error) {
	// 與 Float64N 共用同一套規則，只是不消耗底層狀態。
	if isNotFinite(max) {
		return 0, errs.NewInfiniteBound("bitgen: float64 bound is not finite")
	}
	if max < 0 {
		return 0, errs.InvalidRangef("bitgen: float64 bound %v is negative", max)
	}
	return max, nil
}

func validateFloatRange(min, max float64) error {
	if isNotFinite(min) || isNotFinite(max) {
		return errs.NewInfiniteBound("bitgen: float64 range bound is not finite")
	}
	if max < min {
		return errs.InvalidRangef("bitgen: float64 range [%v,%v): max < min", min, max)
	}
	if isNotFinite(max - min) {
		return errs.NewInfiniteBound("bitgen: float64 range width overflows to infinity")
	}
	return nil
}

func isNotFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}
