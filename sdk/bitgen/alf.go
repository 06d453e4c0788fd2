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

import "github.com/zintix-labs/randlab/errs"

const (
	alfDefaultShortLag = 418
	alfDefaultLongLag  = 1279
)

// ALF 為加法式 lagged-Fibonacci 產生器 x[n] = x[n-short] + x[n-long] (mod 2^32)。
//
// 模運算由 uint32 溢位自然完成。狀態陣列以「同種子的 MT19937」整批填滿——
// 一個產生器替另一個產生器開機。產出採 block 模式：游標走完整個 longLag
// 陣列後一次重算整塊。
type ALF struct {
	x        []uint32
	i        int
	shortLag int
	longLag  int
	seed     uint32
}

// NewALF 以指定 seed 與預設 lag (418/1279) 建立 ALF。
func NewALF(seed uint32) *ALF {
	g := &ALF{shortLag: alfDefaultShortLag, longLag: alfDefaultLongLag}
	g.Reset(seed)
	return g
}

// NewALFAuto 以作業系統亂數來源下種。
func NewALFAuto() *ALF {
	return NewALF(DefaultSeed())
}

// NewALFWithLags 以自訂 lag 建立 ALF。
// 驗證規則：shortLag > 0 且 longLag > shortLag，違反時回傳 InvalidParameter。
func NewALFWithLags(seed uint32, shortLag, longLag int) (*ALF, error) {
	if !IsValidShortLag(shortLag) {
		return nil, errs.InvalidParamf("bitgen: alf short lag %d must be > 0", shortLag)
	}
	if !IsValidLongLag(shortLag, longLag) {
		return nil, errs.InvalidParamf("bitgen: alf long lag %d must be > short lag %d", longLag, shortLag)
	}
	g := &ALF{shortLag: shortLag, longLag: longLag}
	g.Reset(seed)
	return g, nil
}

// IsValidShortLag 為 short lag 的純合法性判定。
func IsValidShortLag(shortLag int) bool { return shortLag > 0 }

// IsValidLongLag 為 long lag 的純合法性判定（須大於 short lag）。
func IsValidLongLag(shortLag, longLag int) bool { return longLag > shortLag }

// Reset 重建內部狀態：以同 seed 的 MT19937 整批填滿 longLag 長度的陣列，
// 游標設為 longLag，第一次取值時觸發首次 block fill。
func (g *ALF) Reset(seed uint32) bool {
	g.seed = seed
	boot := NewMT19937(seed)
	g.x = make([]uint32, g.longLag)
	for j := range g.x {
		g.x[j] = boot.Uint32InclusiveMax()
	}
	g.i = g.longLag
	return true
}

func (g *ALF) CanReset() bool { return true }
func (g *ALF) Seed() uint32   { return g.seed }

// ShortLag 回傳目前的 short lag。
func (g *ALF) ShortLag() int { return g.shortLag }

// LongLag 回傳目前的 long lag。
func (g *ALF) LongLag() int { return g.longLag }

// SetShortLag 更新 short lag 並強制 Reset（沿用現有 seed）。
// 驗證失敗時回傳 InvalidParameter 且不動任何狀態；short lag 必須
// 同時滿足 > 0 且 < 現有 long lag（兩個 lag 成對成立才是合法組態）。
func (g *ALF) SetShortLag(shortLag int) error {
	if !IsValidShortLag(shortLag) {
		return errs.InvalidParamf("bitgen: alf short lag %d must be > 0", shortLag)
	}
	if !IsValidLongLag(shortLag, g.longLag) {
		return errs.InvalidParamf("bitgen: alf short lag %d must be < long lag %d", shortLag, g.longLag)
	}
	g.shortLag = shortLag
	g.Reset(g.seed)
	return nil
}

// SetLongLag 更新 long lag 並強制 Reset（沿用現有 seed）。
// 驗證失敗時回傳 InvalidParameter 且不動任何狀態。
func (g *ALF) SetLongLag(longLag int) error {
	if !IsValidLongLag(g.shortLag, longLag) {
		return errs.InvalidParamf("bitgen: alf long lag %d must be > short lag %d", longLag, g.shortLag)
	}
	g.longLag = longLag
	g.Reset(g.seed)
	return nil
}

// Uint32InclusiveMax 回傳 [0, MaxUint32] 的狀態字；陣列耗盡時整塊重算。
func (g *ALF) Uint32InclusiveMax() uint32 {
	if g.i >= g.longLag {
		g.fill()
	}
	v := g.x[g.i]
	g.i++
	return v
}

// Int32InclusiveMax 回傳 [0, MaxInt32] 的非負整數。
func (g *ALF) Int32InclusiveMax() int32 {
	return int32(g.Uint32InclusiveMax() &^ (1 << 31))
}

// Float64 回傳 [0,1) 的浮點亂數（32-bit 精度）。
func (g *ALF) Float64() float64 {
	return float64(g.Uint32InclusiveMax()) * mtFloat64Unit
}

// fill 整塊重算：前 shortLag 個元素取自上一塊尾端，其餘在塊內遞推。
func (g *ALF) fill() {
	for j := 0; j < g.shortLag; j++ {
		g.x[j] += g.x[j+g.longLag-g.shortLag]
	}
	for j := g.shortLag; j < g.longLag; j++ {
		g.x[j] += g.x[j-g.shortLag]
	}
	g.i = 0
}

// Snapshot 取得當下內部狀態（lag 設定 + 游標 + 整個狀態陣列 + 種子）。
func (g *ALF) Snapshot() ([]byte, error) {
	b := make([]byte, 0, 4*4+len(g.x)*4+4)
	b = AppendUint32(b, uint32(g.shortLag))
	b = AppendUint32(b, uint32(g.longLag))
	b = AppendUint32(b, uint32(g.i))
	b = AppendUint32(b, uint32(len(g.x)))
	for _, w := range g.x {
		b = AppendUint32(b, w)
	}
	b = AppendUint32(b, g.seed)
	return b, nil
}

// Restore 依 Snapshot 還原內部狀態。
func (g *ALF) Restore(data []byte) error {
	d := &stateDec{b: data}
	shortLag := int(d.u32())
	longLag := int(d.u32())
	cursor := int(d.u32())
	n := int(d.u32())
	if d.err != nil {
		return d.err
	}
	if !IsValidShortLag(shortLag) || !IsValidLongLag(shortLag, longLag) || n != longLag || cursor < 0 || cursor > longLag {
		return errs.NewInternal("bitgen: alf snapshot is inconsistent")
	}
	x := make([]uint32, n)
	for i := range x {
		x[i] = d.u32()
	}
	seed := d.u32()
	if err := d.done(); err != nil {
		return err
	}
	g.shortLag, g.longLag = shortLag, longLag
	g.x = x
	g.i = cursor
	g.seed = seed
	return nil
}

var _ BitGenerator = (*ALF)(nil)
