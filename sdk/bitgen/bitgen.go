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

// Package bitgen 提供 randlab 的位元流產生器抽象與五種內建演算法。
//
// 分層設計：
//   - BitGenerator：每個演算法「必須」實作的最小原語介面（實作 4 個，其餘免費）。
//   - Core：包裝 BitGenerator，提供 bounded 整數/浮點、布林位元緩衝、
//     填充位元組、lazy sequence 等衍生操作（只實作一次，所有演算法共用）。
//
// 所有產生器皆為單執行緒、有狀態物件：本包不提供任何內部鎖，
// 需要併發串流的呼叫端請每條執行緒各建一個實例（各自獨立下種，避免輸出相關）。
package bitgen

import (
	"crypto/rand"
	"math"
	"math/big"
)

// BitGenerator 定義每個位元流演算法必須提供的原語。
//
// 為什麼是這 4 個方法（Uint32InclusiveMax / Int32InclusiveMax / Float64 / Reset），
// 而不是只要求一個 raw word？
//
//  1. Float64 的生成方式應由演算法決定：
//     64-bit 核心的演算法（XorShift128、NR3）一步產出 64 bits，
//     Float64 直接取 53-bit mantissa 比「先取 u32 再縮放」精度更高也更快；
//     32-bit 核心（MT19937、ALF）則用 u32 縮放。把 Float64 交給演算法自己，
//     能明確表達精度與效能的取捨。
//  2. InclusiveMax 是最原始的萃取：回傳值涵蓋整個字寬 [0, Max]，
//     exclusive 版本（排除 Max 的重抽）由 Core 統一實作，不汙染演算法本體。
type BitGenerator interface {
	// Reset 以 seed 決定性地重建所有內部狀態。
	//
	// 合約（整個庫的再現性不變量）：Reset(s) 之後的輸出序列，
	// 必須與「以 s 新建」的產生器輸出序列完全一致（bit-for-bit）。
	// 回傳 false 僅當演算法不支援重設（內建五種皆支援）。
	Reset(seed uint32) bool

	// CanReset 回報演算法是否支援 Reset（靜態能力，內建五種皆為 true）。
	CanReset() bool

	// Seed 回傳最近一次 Reset 使用的種子。
	Seed() uint32

	// Uint32InclusiveMax 回傳 [0, math.MaxUint32] 的原始 32-bit 字（含上界）。
	Uint32InclusiveMax() uint32

	// Int32InclusiveMax 回傳 [0, math.MaxInt32] 的非負整數（含上界）。
	Int32InclusiveMax() int32

	// Float64 回傳 [0,1) 的浮點亂數。
	Float64() float64

	Restorable
}

// Restorable 定義可快照與還原的狀態介面。
//
// 內部狀態以明確的 state record 序列化（而非反射式物件圖），
// 讓產生器狀態可以被保存、傳輸、回放。
type Restorable interface {
	// Snapshot 回傳可用於還原的序列化狀態。
	Snapshot() ([]byte, error)
	// Restore 依序列化狀態還原產生器內部狀態。
	Restore([]byte) error
}

// Factory 以指定 seed 建立新的 BitGenerator。
//
// 合約：在同一個實作與同一個版本下，New(seed) 必須是決定性的——
// 相同的 seed 必須產生相同的初始內部狀態與輸出序列。
// randlab 的再現性（審計/回放/併發模擬的子種子派生）都建立在這個合約上。
type Factory interface {
	New(seed uint32) BitGenerator
}

// FactoryFunc 讓一般函數滿足 Factory。
type FactoryFunc func(seed uint32) BitGenerator

func (f FactoryFunc) New(seed uint32) BitGenerator { return f(seed) }

// DefaultSeed 以作業系統亂數來源產生一個預設種子。
//
// 外部未指定 seed 時使用；只保證「併發建立的產生器彼此撞種子的機率極低」，
// 不保證任何密碼學性質。
func DefaultSeed() uint32 {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxUint32))
	if err != nil {
		// crypto/rand 失敗極罕見；此處不可回傳 error（呼叫端是便利建構子），
		// 以固定值退場並交由呼叫端自行下種。
		return 0
	}
	return uint32(n.Int64())
}
