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
	r2 "math/rand/v2"
)

// SysRand 為平台內建產生器（math/rand/v2 的 PCG）的薄包裝，
// 供便利使用與與自家演算法對照。
//
// 32-bit 介面以「抽 4 個原始位元組再組回 u32（little-endian）」的方式導出。
type SysRand struct {
	rng  *r2.Rand
	src  *r2.PCG
	seed uint32
}

// NewSysRand 以指定 seed 建立 SysRand。
func NewSysRand(seed uint32) *SysRand {
	g := &SysRand{}
	g.Reset(seed)
	return g
}

// NewSysRandAuto 以作業系統亂數來源下種。
func NewSysRandAuto() *SysRand {
	return NewSysRand(DefaultSeed())
}

// Reset 以 splitmix64 把 32-bit seed 擴展成 PCG 需要的兩個 64-bit 狀態字。
func (g *SysRand) Reset(seed uint32) bool {
	g.seed = seed
	x := uint64(seed) ^ 0x9e3779b97f4a7c15
	hi := splitmix64(x)
	lo := splitmix64(x ^ 0xDA942042E4DD58B5)
	g.src = r2.NewPCG(hi, lo)
	g.rng = r2.New(g.src)
	return true
}

func (g *SysRand) CanReset() bool { return true }
func (g *SysRand) Seed() uint32   { return g.seed }

// Uint32InclusiveMax 抽 4 個原始位元組並以 little-endian 重組為 u32。
func (g *SysRand) Uint32InclusiveMax() uint32 {
	var v uint32
	for i := 0; i < 4; i++ {
		v |= uint32(byte(g.rng.UintN(256))) << (8 * i)
	}
	return v
}

// Int32InclusiveMax 回傳 [0, MaxInt32] 的非負整數。
func (g *SysRand) Int32InclusiveMax() int32 {
	return int32(g.Uint32InclusiveMax() &^ (1 << 31))
}

// Float64 直接委派給平台產生器（53-bit 精度）。
func (g *SysRand) Float64() float64 {
	return g.rng.Float64()
}

// Snapshot 取得底層 PCG 狀態（標準庫的二進位編碼）加上種子。
func (g *SysRand) Snapshot() ([]byte, error) {
	st, err := g.src.MarshalBinary()
	if err != nil {
		return nil, err
	}
	b := make([]byte, 0, 4+len(st))
	b = AppendUint32(b, g.seed)
	b = append(b, st...)
	return b, nil
}

// Restore 依 Snapshot 還原底層 PCG 狀態。
func (g *SysRand) Restore(data []byte) error {
	d := &stateDec{b: data}
	seed := d.u32()
	if d.err != nil {
		return d.err
	}
	src := r2.NewPCG(0, 0)
	if err := src.UnmarshalBinary(data[4:]); err != nil {
		return err
	}
	g.seed = seed
	g.src = src
	g.rng = r2.New(src)
	return nil
}

// splitmix64 將輸入值混洗成新的 64-bit 狀態，用於種子展開。
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

var _ BitGenerator = (*SysRand)(nil)
