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

package recorder

import (
	"math"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/stats"
)

// DrawRecorder 取樣紀錄員
//
// DrawRecorder 負責紀錄取樣結果，並透過Done輸出統計報表
type DrawRecorder struct {
	Algo    string
	Sampler string
	Seed    uint32
	Unit    int
	Basic   *BasicRecord
	Hist    *HistRecord
}

// BasicRecord 基本取樣資料紀錄
type BasicRecord struct {
	Draws     int
	Sum       float64
	SqSum     float64 // 平方和
	Min       float64
	Max       float64
	TheoryMu  float64 // 理論平均；無定義時為 NaN
	TheoryVar float64 // 理論變異數；無定義時為 NaN
}

// HistRecord 樣本值區間落點統計
//
// 紀錄時只累積 int 計數
type HistRecord struct {
	Bucket  *stats.SampleBucket
	Collect []int
}

func NewDrawRecorder(algo string, sampler string, seed uint32, unit int) (*DrawRecorder, error) {
	r := new(DrawRecorder)

	if algo == "" {
		return r, errs.NewInvalidParam("recorder: empty algo name")
	}
	if unit <= 0 {
		return r, errs.InvalidParamf("recorder: unit must be positive, got %d", unit)
	}

	// 通過valid
	r.Algo = algo
	r.Sampler = sampler
	r.Seed = seed
	r.Unit = unit
	r.Basic = &BasicRecord{
		Min:       math.Inf(1),
		Max:       math.Inf(-1),
		TheoryMu:  math.NaN(),
		TheoryVar: math.NaN(),
	}
	r.Hist = newHistRecord(unit)

	return r, nil
}

// SetTheory 設定理論動差對照值；無定義的動差傳入 NaN。
func (r *DrawRecorder) SetTheory(mean, variance float64) {
	r.Basic.TheoryMu = mean
	r.Basic.TheoryVar = variance
}

func MergeDrawRecorder(rs []*DrawRecorder) (*DrawRecorder, error) {
	if len(rs) == 0 {
		return nil, errs.NewInvalidParam("recorder: nothing to merge")
	}
	r0 := rs[0]
	m, err := NewDrawRecorder(r0.Algo, r0.Sampler, r0.Seed, r0.Unit)
	if err != nil {
		return m, err
	}
	m.Basic.TheoryMu = r0.Basic.TheoryMu
	m.Basic.TheoryVar = r0.Basic.TheoryVar

	for _, v := range rs {
		if v.Algo != r0.Algo {
			return m, errs.NewInvalidParam("recorder: merge err : different algo")
		}
		if v.Sampler != r0.Sampler {
			return m, errs.NewInvalidParam("recorder: merge err : different sampler")
		}
		if v.Unit != r0.Unit {
			return m, errs.NewInvalidParam("recorder: merge err : different unit")
		}
		m.Basic.Draws += v.Basic.Draws
		m.Basic.Sum += v.Basic.Sum
		m.Basic.SqSum += v.Basic.SqSum
		if v.Basic.Min < m.Basic.Min {
			m.Basic.Min = v.Basic.Min
		}
		if v.Basic.Max > m.Basic.Max {
			m.Basic.Max = v.Basic.Max
		}

		// 整合Hist
		for i := range v.Hist.Collect {
			m.Hist.Collect[i] += v.Hist.Collect[i]
		}
	}
	return m, nil
}

// Record 以單一樣本更新統計；熱路徑，不驗證、不回傳 error。
func (r *DrawRecorder) Record(v float64) {
	b := r.Basic
	b.Draws++
	b.Sum += v
	b.SqSum += v * v
	if v < b.Min {
		b.Min = v
	}
	if v > b.Max {
		b.Max = v
	}
	r.Hist.Collect[r.Hist.Bucket.Index(int(v))]++
}

// RecordInt 整數樣本版本。
func (r *DrawRecorder) RecordInt(v int32) {
	r.Record(float64(v))
}

func (r *DrawRecorder) Done() *stats.DrawReport {
	minV, maxV := r.Basic.Min, r.Basic.Max
	if r.Basic.Draws == 0 {
		minV, maxV = 0, 0
	}

	report := &stats.DrawReport{
		Summary: &stats.SummaryReport{
			Algo:    r.Algo,
			Sampler: r.Sampler,
			Seed:    r.Seed,
			Draws:   r.Basic.Draws,
			Min:     minV,
			Max:     maxV,
		},
		Moment: &stats.MomentReport{
			Sum:        r.Basic.Sum,
			SqSum:      r.Basic.SqSum,
			TheoryMean: r.Basic.TheoryMu,
			TheoryVar:  r.Basic.TheoryVar,
		},
		Hist: &stats.HistReport{
			Bucket:  stats.Buckets.Labels(),
			Collect: r.Hist.Collect,
		},
	}

	report.Done()
	return report
}

func newHistRecord(unit int) *HistRecord {
	h := new(HistRecord)
	h.Bucket = stats.Buckets.GetBucketByUnit(unit)
	h.Collect = make([]int, len(stats.Buckets.Labels()))
	return h
}
