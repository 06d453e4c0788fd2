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

package dto

import (
	"github.com/zintix-labs/randlab/corefmt"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/bitgen"
	"github.com/zintix-labs/randlab/sdk/dist"
	"github.com/zintix-labs/randlab/spec"
	"github.com/zintix-labs/randlab/stats"
)

// DrawResult 為對外輸出的一批原始抽樣。
type DrawResult struct {
	Algo   spec.AlgoKey `json:"algo"`             // 演算法
	Seed   uint32       `json:"seed"`             // 初始種子
	Kind   string       `json:"kind"`             // 數值型別 (int/float/bool)
	Ints   []int        `json:"ints,omitempty"`   // 整數樣本
	Floats []float64    `json:"floats,omitempty"` // 浮點樣本
	Bools  []bool       `json:"bools,omitempty"`  // 布林樣本
	State  DrawState    `json:"draw_state"`       // 產生器狀態
}

// SampleResult 為對外輸出的一批分布取樣。
type SampleResult struct {
	Algo    spec.AlgoKey    `json:"algo"`
	Seed    uint32          `json:"seed"`
	Sampler spec.SamplerKey `json:"sampler"`
	Values  []float64       `json:"values"`
	Moments MomentsDTO      `json:"moments"`
	State   DrawState       `json:"draw_state"`
}

// MomentsDTO 各動差；未定義的動差以 null 表示。
type MomentsDTO struct {
	Mean     *float64  `json:"mean,omitempty"`
	Median   *float64  `json:"median,omitempty"`
	Variance *float64  `json:"variance,omitempty"`
	Mode     []float64 `json:"mode,omitempty"`
}

// SimResult 為對外輸出的模擬結果。
type SimResult struct {
	SuiteName string               `json:"suite"`
	SuiteID   spec.SID             `json:"suite_id"`
	UsedMs    int64                `json:"used_ms"`
	Report    *stats.DrawReport    `json:"report"`
	Runs      *stats.EstimatorRuns `json:"runs,omitempty"`
}

// DrawState 承載產生器快照（Base64URL），供回放/續抽。
type DrawState struct {
	StartSnapB64U string `json:"start_b64u"` // 必回
	AfterSnapB64U string `json:"after_b64u"` // 必回
}

// NewDrawState 由前後快照組出 DrawState。
func NewDrawState(start, after []byte) DrawState {
	return DrawState{
		StartSnapB64U: corefmt.EncodeBase64URL(start),
		AfterSnapB64U: corefmt.EncodeBase64URL(after),
	}
}

// NewMomentsDTO 由分布取得各動差，未定義者留空。
func NewMomentsDTO(d dist.Distribution) MomentsDTO {
	var m MomentsDTO
	if v, err := d.Mean(); err == nil {
		m.Mean = &v
	}
	if v, err := d.Median(); err == nil {
		m.Median = &v
	}
	if v, err := d.Variance(); err == nil {
		m.Variance = &v
	}
	if v, err := d.Mode(); err == nil {
		m.Mode = v
	}
	return m
}

// SnapshotState 對 Core 取快照；呼叫端在抽樣前後各取一次，
// 再以 NewDrawState 組成回應用的 DrawState。
func SnapshotState(c *bitgen.Core) (start []byte, err error) {
	if c == nil {
		return nil, errs.NewNullArg("dto: nil core")
	}
	snap, err := c.Snapshot()
	if err != nil {
		return nil, errs.Wrap(err, "dto: snapshot failed")
	}
	return snap, nil
}
