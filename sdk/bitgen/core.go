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

package bitgen

import (
	"encoding/binary"
	"math"

	"github.com/zintix-labs/randlab/errs"
)

// Core 包裝 BitGenerator，提供所有衍生取樣操作。
//
// 「實作 4 個原語，免費得到其餘全部」：任何滿足 BitGenerator 的演算法
// 經 Core 包裝後即擁有 bounded 整數/浮點、布林位元緩衝、位元組填充、
// lazy sequence 與 Choice/Shuffle 等能力。
//
// 布林位元緩衝：NextBool 一次向底層要一個 u32，之後每次呼叫只消耗一個位元，
// 共可服務 31 次（31:1 攤提底層呼叫）。緩衝內容屬於 Core 狀態，
// Reset 會先清空緩衝再重設底層演算法。
type Core struct {
	BitGenerator
	bitBuffer uint32 // 尚未消耗的位元
	bitCount  uint32 // bitBuffer 中剩餘可用位元數
}

// New 以外部提供的 BitGenerator 建立 Core。
// gen 為 nil 時回傳 NullArgument。
func New(gen BitGenerator) (*Core, error) {
	if gen == nil {
		return nil, errs.NewNullArg("bitgen: nil generator")
	}
	return &Core{BitGenerator: gen}, nil
}

// MustNew 與 New 相同，但 gen 為 nil 時 panic。組裝階段使用。
func MustNew(gen BitGenerator) *Core {
	c, err := New(gen)
	if err != nil {
		panic(err)
	}
	return c
}

// Reset 清空位元緩衝後重設底層演算法。
//
// 必須透過 Core.Reset（而非直接呼叫底層）重設，否則緩衝中殘留的位元
// 會讓 NextBool 序列偏離「新建產生器」的序列，破壞再現性合約。
func (c *Core) Reset(seed uint32) bool {
	c.bitBuffer = 0
	c.bitCount = 0
	return c.BitGenerator.Reset(seed)
}

// ---------------------------------------
// 整數衍生操作
// ---------------------------------------

// Next 回傳 [0, math.MaxInt32) 的非負整數（排除上界）。
// 抽到 MaxInt32 時重抽（rejection policy），因此永不回傳 MaxInt32。
func (c *Core) Next() int32 {
	for {
		v := c.Int32InclusiveMax()
		if v != math.MaxInt32 {
			return v
		}
	}
}

// Uint32 回傳 [0, math.MaxUint32) 的無號整數（排除上界）。
// 抽到 MaxUint32 時重抽，因此永不回傳 MaxUint32。
func (c *Core) Uint32() uint32 {
	for {
		v := c.Uint32InclusiveMax()
		if v != math.MaxUint32 {
			return v
		}
	}
}

// NextN 回傳 [0, max) 的整數；max < 0 回傳 InvalidRange。
// max == 0 屬退化但合法的呼叫，回傳 0。
func (c *Core) NextN(max int32) (int32, error) {
	return c.NextRange(0, max)
}

// NextRange 回傳 [min, max) 的整數，計算式為 min + floor(Float64()*(max-min))。
//
//   - max < min  : InvalidRange
//   - max == min : 回傳 min（退化但合法；仍消耗一次底層抽樣，
//     使 scalar 與 sequence 形式的狀態推進保持一致）
func (c *Core) NextRange(min, max int32) (int32, error) {
	if max < min {
		return 0, errs.InvalidRangef("bitgen: next range [%d,%d): max < min", min, max)
	}
	// 寬度以 float64 計算：int32 相減在整個 int32 跨距（如 [MinInt32, MaxInt32)）
	// 會溢位成負值。
	width := float64(max) - float64(min)
	return int32(int64(min) + int64(c.Float64()*width)), nil
}

// ---------------------------------------
// 浮點衍生操作
// ---------------------------------------

// Float64N 回傳 [0, max) 的浮點亂數。
//
//   - max < 0        : InvalidRange
//   - max 為 ±Inf/NaN : InfiniteBound
func (c *Core) Float64N(max float64) (float64, error) {
	if math.IsInf(max, 0) || math.IsNaN(max) {
		return 0, errs.NewInfiniteBound("bitgen: float64 bound is not finite")
	}
	if max < 0 {
		return 0, errs.InvalidRangef("bitgen: float64 bound %v is negative", max)
	}
	return c.Float64() * max, nil
}

// Float64Range 回傳 [min, max) 的浮點亂數（線性縮放）。
//
//   - max < min        : InvalidRange
//   - max - min 為 Inf : InfiniteBound（兩個有限端點也可能相差無限）
func (c *Core) Float64Range(min, max float64) (float64, error) {
	if math.IsNaN(min) || math.IsNaN(max) || math.IsInf(min, 0) || math.IsInf(max, 0) {
		return 0, errs.NewInfiniteBound("bitgen: float64 range bound is not finite")
	}
	if max < min {
		return 0, errs.InvalidRangef("bitgen: float64 range [%v,%v): max < min", min, max)
	}
	diff := max - min
	if math.IsInf(diff, 0) {
		return 0, errs.NewInfiniteBound("bitgen: float64 range width overflows to infinity")
	}
	return min + c.Float64()*diff, nil
}

// ---------------------------------------
// 位元/位元組衍生操作
// ---------------------------------------

// NextBool 回傳一個均勻隨機布林值。
//
// 一次 Uint32 服務 31 個位元：緩衝耗盡才會再向底層抽一次。
func (c *Core) NextBool() bool {
	if c.bitCount == 0 {
		c.bitBuffer = c.Uint32()
		c.bitCount = 31
	}
	b := c.bitBuffer&1 == 1
	c.bitBuffer >>= 1
	c.bitCount--
	return b
}

// FillBytes 以連續的 Uint32 填滿 buf（little-endian，每字 4 bytes）。
// 長度非 4 的倍數時，最後一個字僅取低位元組，未用的高位元組直接丟棄。
// buf 為 nil 回傳 NullArgument。
func (c *Core) FillBytes(buf []byte) error {
	if buf == nil {
		return errs.NewNullArg("bitgen: nil byte buffer")
	}
	i := 0
	for ; i+4 <= len(buf); i += 4 {
		binary.LittleEndian.PutUint32(buf[i:i+4], c.Uint32())
	}
	if i < len(buf) {
		w := c.Uint32()
		for ; i < len(buf); i++ {
			buf[i] = byte(w)
			w >>= 8
		}
	}
	return nil
}

// ---------------------------------------
// 集合衍生操作
// ---------------------------------------

// intn 回傳 [0,n) 的索引；僅供內部已驗證 n > 0 的路徑使用。
func (c *Core) intn(n int) int {
	return int(c.Float64() * float64(n))
}

// Shuffle 使用 Fisher-Yates 就地隨機重排 src。
//
// 所有 N! 種排列出現機率嚴格相等；O(N) 時間、零配置。
func (c *Core) Shuffle(src []int) {
	if len(src) <= 1 {
		return
	}
	for i := len(src) - 1; i > 0; i-- {
		j := c.intn(i + 1)
		src[i], src[j] = src[j], src[i]
	}
}

// Choice 從非空集合中均勻抽取一個元素。
// items 為 nil 或空時回傳 NullArgument。
func Choice[T any](c *Core, items []T) (T, error) {
	var zero T
	if len(items) == 0 {
		return zero, errs.NewNullArg("bitgen: choice on nil or empty collection")
	}
	return items[c.intn(len(items))], nil
}
