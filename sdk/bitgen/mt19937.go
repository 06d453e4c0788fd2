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

// MT19937 的演算法來自 Matsumoto & Nishimura 的參考實作；
// 所有常數（遞迴乘數、tempering mask、seed-array 混合乘數）皆為演算法固定值。

package bitgen

import "github.com/zintix-labs/randlab/errs"

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   uint32 = 0x9908b0df
	mtUpperMask uint32 = 0x80000000 // 最高位元
	mtLowerMask uint32 = 0x7fffffff // 低 31 位元
	mtTemperB   uint32 = 0x9d2c5680
	mtTemperC   uint32 = 0xefc60000

	mtInitMul      uint32 = 1812433253
	mtKeyInitSeed  uint32 = 19650218
	mtKeyMixMul1   uint32 = 1664525
	mtKeyMixMul2   uint32 = 1566083941
	mtFloat64Unit         = 1.0 / (1 << 32)
)

// MT19937 為經典 Mersenne Twister（32-bit 輸出、624 字狀態、週期 2^19937-1）。
//
// 狀態字採批次再生：游標走到 624 時一次重算整個狀態陣列，
// 之後的每次輸出只做 tempering。
type MT19937 struct {
	mt   [mtN]uint32
	mti  int
	seed uint32
	key  []uint32 // 非 nil 表示最近一次是以 seed array 下種
}

// NewMT19937 以單一 32-bit seed 建立 MT19937。
func NewMT19937(seed uint32) *MT19937 {
	g := &MT19937{}
	g.Reset(seed)
	return g
}

// NewMT19937Auto 以作業系統亂數來源下種。
func NewMT19937Auto() *MT19937 {
	return NewMT19937(DefaultSeed())
}

// NewMT19937Key 以 seed array 建立 MT19937（參考演算法的 init_by_array 路徑）。
// key 為 nil 或空時回傳 InvalidParameter。
func NewMT19937Key(key []uint32) (*MT19937, error) {
	g := &MT19937{}
	if err := g.ResetKey(key); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset 以單一 seed 重建整個狀態陣列（init_genrand 遞迴）。
func (g *MT19937) Reset(seed uint32) bool {
	g.seed = seed
	g.key = nil
	g.initGenrand(seed)
	return true
}

// ResetKey 以 seed array 重建狀態；失敗（空 key）時不動任何狀態。
//
// 先以固定 seed 19650218 初始化，再跑兩趟非線性混合（乘數 1664525 / 1566083941），
// 最後強制 mt[0] 的最高位元為 1，確保狀態不會落在全零不動點。
func (g *MT19937) ResetKey(key []uint32) error {
	if len(key) == 0 {
		return errs.NewInvalidParam("bitgen: mt19937 seed array must not be empty")
	}
	g.initGenrand(mtKeyInitSeed)

	i, j := 1, 0
	k := mtN
	if len(key) > k {
		k = len(key)
	}
	for ; k > 0; k-- {
		g.mt[i] = (g.mt[i] ^ ((g.mt[i-1] ^ (g.mt[i-1] >> 30)) * mtKeyMixMul1)) + key[j] + uint32(j)
		i++
		j++
		if i >= mtN {
			g.mt[0] = g.mt[mtN-1]
			i = 1
		}
		if j >= len(key) {
			j = 0
		}
	}
	for k = mtN - 1; k > 0; k-- {
		g.mt[i] = (g.mt[i] ^ ((g.mt[i-1] ^ (g.mt[i-1] >> 30)) * mtKeyMixMul2)) - uint32(i)
		i++
		if i >= mtN {
			g.mt[0] = g.mt[mtN-1]
			i = 1
		}
	}
	g.mt[0] = mtUpperMask

	g.seed = key[0]
	g.key = append([]uint32(nil), key...)
	g.mti = mtN
	return nil
}

func (g *MT19937) CanReset() bool { return true }
func (g *MT19937) Seed() uint32   { return g.seed }

// Uint32InclusiveMax 回傳 [0, MaxUint32] 的 tempered 狀態字。
func (g *MT19937) Uint32InclusiveMax() uint32 {
	if g.mti >= mtN {
		g.generateNUint32s()
	}
	y := g.mt[g.mti]
	g.mti++

	// tempering
	y ^= y >> 11
	y ^= (y << 7) & mtTemperB
	y ^= (y << 15) & mtTemperC
	y ^= y >> 18
	return y
}

// Int32InclusiveMax 回傳 [0, MaxInt32] 的非負整數。
func (g *MT19937) Int32InclusiveMax() int32 {
	return int32(g.Uint32InclusiveMax() &^ (1 << 31))
}

// Float64 回傳 [0,1) 的浮點亂數（32-bit 精度）。
func (g *MT19937) Float64() float64 {
	return float64(g.Uint32InclusiveMax()) * mtFloat64Unit
}

func (g *MT19937) initGenrand(seed uint32) {
	g.mt[0] = seed
	for i := 1; i < mtN; i++ {
		g.mt[i] = mtInitMul*(g.mt[i-1]^(g.mt[i-1]>>30)) + uint32(i)
	}
	g.mti = mtN
}

// generateNUint32s 一次重算全部 624 個狀態字。
func (g *MT19937) generateNUint32s() {
	var y uint32
	mag01 := [2]uint32{0, mtMatrixA}

	var kk int
	for kk = 0; kk < mtN-mtM; kk++ {
		y = (g.mt[kk] & mtUpperMask) | (g.mt[kk+1] & mtLowerMask)
		g.mt[kk] = g.mt[kk+mtM] ^ (y >> 1) ^ mag01[y&1]
	}
	for ; kk < mtN-1; kk++ {
		y = (g.mt[kk] & mtUpperMask) | (g.mt[kk+1] & mtLowerMask)
		g.mt[kk] = g.mt[kk+(mtM-mtN)] ^ (y >> 1) ^ mag01[y&1]
	}
	y = (g.mt[mtN-1] & mtUpperMask) | (g.mt[0] & mtLowerMask)
	g.mt[mtN-1] = g.mt[mtM-1] ^ (y >> 1) ^ mag01[y&1]

	g.mti = 0
}

// Snapshot 取得當下內部狀態（整個狀態陣列 + 游標 + 種子）。
func (g *MT19937) Snapshot() ([]byte, error) {
	b := make([]byte, 0, mtN*4+4+4)
	for _, w := range g.mt {
		b = AppendUint32(b, w)
	}
	b = AppendUint32(b, uint32(g.mti))
	b = AppendUint32(b, g.seed)
	return b, nil
}

// Restore 依 Snapshot 還原內部狀態。
func (g *MT19937) Restore(data []byte) error {
	d := &stateDec{b: data}
	var mt [mtN]uint32
	for i := range mt {
		mt[i] = d.u32()
	}
	mti := d.u32()
	seed := d.u32()
	if err := d.done(); err != nil {
		return err
	}
	if mti > mtN {
		return errs.NewInternal("bitgen: mt19937 snapshot cursor out of range")
	}
	g.mt = mt
	g.mti = int(mti)
	g.seed = seed
	g.key = nil
	return nil
}

var _ BitGenerator = (*MT19937)(nil)
