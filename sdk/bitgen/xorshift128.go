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

const (
	xorShiftSeedX uint64 = 521288629
	xorShiftSeedY uint64 = 4101842887655102017
)

// XorShift128 為兩個 64-bit 狀態字的 xorshift128+ 產生器。
//
// 每一步產出 64 bits；32-bit 介面一次只取低半字，未用的高半字會被快取，
// 於下一次呼叫直接吐出（不丟熵）。週期 2^128-1。
type XorShift128 struct {
	x, y        uint64
	buffered    uint32 // 上一步尚未消耗的高 32 bits
	hasBuffered bool
	seed        uint32
}

// NewXorShift128 以指定 seed 建立 XorShift128。
func NewXorShift128(seed uint32) *XorShift128 {
	g := &XorShift128{}
	g.Reset(seed)
	return g
}

// NewXorShift128Auto 以作業系統亂數來源下種。
func NewXorShift128Auto() *XorShift128 {
	return NewXorShift128(DefaultSeed())
}

// Reset 重建內部狀態。
//
// x = SeedX + seed、y = SeedY * (seed << 32)，接著棄抽一步（draw-and-discard）
// 讓種子位元先行混合；半字快取必須一併清空，否則會把舊序列殘值帶進新序列。
func (g *XorShift128) Reset(seed uint32) bool {
	g.seed = seed
	g.x = xorShiftSeedX + uint64(seed)
	g.y = xorShiftSeedY * (uint64(seed) << 32)
	g.buffered = 0
	g.hasBuffered = false
	g.nextUint64()
	return true
}

func (g *XorShift128) CanReset() bool { return true }
func (g *XorShift128) Seed() uint32   { return g.seed }

// Uint32InclusiveMax 回傳 [0, MaxUint32] 的原始 32-bit 字。
// 交替呼叫輪流吃同一個 64-bit 步進的低、高半字。
func (g *XorShift128) Uint32InclusiveMax() uint32 {
	if g.hasBuffered {
		g.hasBuffered = false
		return g.buffered
	}
	w := g.nextUint64()
	g.buffered = uint32(w >> 32)
	g.hasBuffered = true
	return uint32(w)
}

// Int32InclusiveMax 回傳 [0, MaxInt32] 的非負整數（遮掉符號位）。
func (g *XorShift128) Int32InclusiveMax() int32 {
	return int32(g.Uint32InclusiveMax() &^ (1 << 31))
}

// Float64 回傳 [0,1) 的浮點亂數（53-bit 精度）。
//
// 獨立走一個完整 64-bit 步進並取 53-bit mantissa，不經過半字快取。
func (g *XorShift128) Float64() float64 {
	return float64(g.nextUint64()>>11) / (1 << 53)
}

// nextUint64 執行一步 xorshift128+：
// x ^= x<<23; x ^= x>>17; x ^= y ^ (y>>26)，然後 (x,y) ← (y, newX)。
func (g *XorShift128) nextUint64() uint64 {
	tx := g.x
	ty := g.y
	g.x = ty
	tx ^= tx << 23
	tx ^= tx >> 17
	tx ^= ty ^ (ty >> 26)
	g.y = tx
	return tx + ty
}

// Snapshot 取得當下內部狀態。
func (g *XorShift128) Snapshot() ([]byte, error) {
	b := make([]byte, 0, 8+8+4+1+4)
	b = AppendUint64(b, g.x)
	b = AppendUint64(b, g.y)
	b = AppendUint32(b, g.buffered)
	b = AppendBool(b, g.hasBuffered)
	b = AppendUint32(b, g.seed)
	return b, nil
}

// Restore 依 Snapshot 還原內部狀態。
func (g *XorShift128) Restore(data []byte) error {
	d := &stateDec{b: data}
	x := d.u64()
	y := d.u64()
	buffered := d.u32()
	hasBuffered := d.bool()
	seed := d.u32()
	if err := d.done(); err != nil {
		return err
	}
	g.x, g.y = x, y
	g.buffered, g.hasBuffered = buffered, hasBuffered
	g.seed = seed
	return nil
}

var _ BitGenerator = (*XorShift128)(nil)
