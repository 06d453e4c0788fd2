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
	nr3SeedU1 uint64 = 2862933555777941757
	nr3SeedU2 uint64 = 7046029254386353087
	nr3SeedU3 uint64 = 4294957665
	nr3SeedV  uint64 = 4101842887655102017
	nr3SeedW  uint64 = 1
)

// NR3 為 "Numerical Recipes" 第三版的組合式產生器。
//
// 四個 64-bit 狀態字 (u,v,w,x)：u 走 LCG、v 走 xorshift、w 走 multiply-with-carry，
// 三路以 XOR/加法組合輸出。每一步產出 64 bits，未用的高半字與 XorShift128 相同方式快取。
type NR3 struct {
	u, v, w, x  uint64
	buffered    uint32
	hasBuffered bool
	seed        uint32
}

// NewNR3 以指定 seed 建立 NR3。
func NewNR3(seed uint32) *NR3 {
	g := &NR3{}
	g.Reset(seed)
	return g
}

// NewNR3Auto 以作業系統亂數來源下種。
func NewNR3Auto() *NR3 {
	return NewNR3(DefaultSeed())
}

// Reset 重建內部狀態。
//
// 先固定 v、w，u = seed ^ v，之後三次暖身步進依序回填 v、w，
// 把種子位元擴散到全部狀態字。半字快取一併清空。
func (g *NR3) Reset(seed uint32) bool {
	g.seed = seed
	g.v = nr3SeedV
	g.w = nr3SeedW
	g.buffered = 0
	g.hasBuffered = false

	g.u = uint64(seed) ^ g.v
	g.nextUint64()
	g.v = g.u
	g.nextUint64()
	g.w = g.v
	g.nextUint64()
	return true
}

func (g *NR3) CanReset() bool { return true }
func (g *NR3) Seed() uint32   { return g.seed }

// Uint32InclusiveMax 回傳 [0, MaxUint32] 的原始 32-bit 字，交替吃低、高半字。
func (g *NR3) Uint32InclusiveMax() uint32 {
	if g.hasBuffered {
		g.hasBuffered = false
		return g.buffered
	}
	w := g.nextUint64()
	g.buffered = uint32(w >> 32)
	g.hasBuffered = true
	return uint32(w)
}

// Int32InclusiveMax 回傳 [0, MaxInt32] 的非負整數。
func (g *NR3) Int32InclusiveMax() int32 {
	return int32(g.Uint32InclusiveMax() &^ (1 << 31))
}

// Float64 回傳 [0,1) 的浮點亂數（53-bit 精度，獨立步進）。
func (g *NR3) Float64() float64 {
	return float64(g.nextUint64()>>11) / (1 << 53)
}

func (g *NR3) nextUint64() uint64 {
	g.u = g.u*nr3SeedU1 + nr3SeedU2
	g.v ^= g.v >> 17
	g.v ^= g.v << 31
	g.v ^= g.v >> 8
	g.w = nr3SeedU3*(g.w&0xffffffff) + (g.w >> 32)
	x := g.u ^ (g.u << 21)
	x ^= x >> 35
	x ^= x << 4
	g.x = x
	return (x + g.v) ^ g.w
}

// Snapshot 取得當下內部狀態。
func (g *NR3) Snapshot() ([]byte, error) {
	b := make([]byte, 0, 4*8+4+1+4)
	b = AppendUint64(b, g.u)
	b = AppendUint64(b, g.v)
	b = AppendUint64(b, g.w)
	b = AppendUint64(b, g.x)
	b = AppendUint32(b, g.buffered)
	b = AppendBool(b, g.hasBuffered)
	b = AppendUint32(b, g.seed)
	return b, nil
}

// Restore 依 Snapshot 還原內部狀態。
func (g *NR3) Restore(data []byte) error {
	d := &stateDec{b: data}
	u := d.u64()
	v := d.u64()
	w := d.u64()
	x := d.u64()
	buffered := d.u32()
	hasBuffered := d.bool()
	seed := d.u32()
	if err := d.done(); err != nil {
		return err
	}
	g.u, g.v, g.w, g.x = u, v, w, x
	g.buffered, g.hasBuffered = buffered, hasBuffered
	g.seed = seed
	return nil
}

var _ BitGenerator = (*NR3)(nil)
