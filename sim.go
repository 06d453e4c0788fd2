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

package randlab

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/recorder"
	"github.com/zintix-labs/randlab/sdk/bitgen"
	"github.com/zintix-labs/randlab/sdk/dist"
	"github.com/zintix-labs/randlab/spec"
	"github.com/zintix-labs/randlab/stats"
)

const capPrepare int = 100

// Simulator 用於批次取樣，可建立多顆 Core 並平行紀錄統計。
type Simulator struct {
	SuiteName string             // 套組名稱
	SuiteId   spec.SID           // 套組編號
	ss        *spec.SuiteSetting // 方便重用建立取樣器
	reg       *FactoryRegistry   // 演算法註冊表
	initSeed  uint32             // 初始下的種子
	seedmaker *seedMaker         // 種子生成器
	gBuf      []*bitgen.Core     // 併發執行 Core 實例
	rBuf      []*recorder.DrawRecorder
	sBuf      []*stats.DrawReport // 併發統計結果報表(僅Runs需要)
}

func newSimulator(ss *spec.SuiteSetting, reg *FactoryRegistry) (*Simulator, error) {
	return newSimulatorWithSeed(ss, reg, ss.Seed)
}

func newSimulatorWithSeed(ss *spec.SuiteSetting, reg *FactoryRegistry, seed uint32) (*Simulator, error) {
	s := &Simulator{
		SuiteName: ss.SuiteName,
		SuiteId:   ss.SuiteID,
		ss:        ss,
		reg:       reg,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
		gBuf:      make([]*bitgen.Core, 1, capPrepare),
		rBuf:      make([]*recorder.DrawRecorder, 0, capPrepare),
		sBuf:      make([]*stats.DrawReport, 0, capPrepare),
	}
	g, err := reg.Build(ss.AlgoKey, seed)
	if err != nil {
		return nil, err
	}
	s.gBuf[0] = g
	return s, nil
}

// Samplers 回傳套組宣告的取樣器設定（複本）。
func (s *Simulator) Samplers() []spec.SamplerSetting {
	return append([]spec.SamplerSetting(nil), s.ss.SamplerSettings...)
}

// Sim 單線模擬器：以一顆 Core 連續取指定 draws 個樣本並回傳統計結果與用時
func (s *Simulator) Sim(samplerMode int, draws int, showpb bool) (*stats.DrawReport, time.Duration, error) {
	defer s.reset()
	if samplerMode < 0 || samplerMode >= len(s.ss.SamplerSettings) {
		return nil, 0, errs.NewInvalidParam("sampler mode err: must >= 0 and < len(sampler_settings)")
	}
	if draws < 1 {
		return nil, 0, errs.NewInvalidParam("draws must > 0")
	}
	cfg := s.ss.SamplerSettings[samplerMode]
	if len(s.rBuf) == 0 {
		r, err := s.newRecorder(cfg)
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}
	r := s.rBuf[0]
	d, err := BuildSampler(cfg, s.gBuf[0])
	if err != nil {
		return nil, 0, err
	}
	r.SetTheory(theoryMoments(d))

	bar := pb.StartNew(draws)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < draws; i++ {
		r.Record(d.NextDouble())
		bar.Increment()
	}
	used := time.Since(bar.StartTime())
	bar.Finish()
	result := r.Done()

	return result, used, nil
}

// SimMP 平行執行多顆 Core，總計 draws*mp 次取樣，合併統計結果後 回傳統計結果與用時
func (s *Simulator) SimMP(samplerMode int, draws int, mp int, showpb bool) (*stats.DrawReport, time.Duration, error) {
	defer s.reset()
	if mp <= 0 {
		return nil, 0, errs.NewInvalidParam("workers must > 0")
	}
	if samplerMode < 0 || samplerMode >= len(s.ss.SamplerSettings) {
		return nil, 0, errs.NewInvalidParam("sampler mode err: must >= 0 and < len(sampler_settings)")
	}
	if draws < 1 {
		return nil, 0, errs.NewInvalidParam("draws must > 0")
	}
	cfg := s.ss.SamplerSettings[samplerMode]
	for len(s.gBuf) < mp {
		g, err := s.reg.Build(s.ss.AlgoKey, s.seedmaker.next())
		if err != nil {
			return nil, 0, err
		}
		s.gBuf = append(s.gBuf, g)
	}

	for len(s.rBuf) < mp {
		r, err := s.newRecorder(cfg)
		if err != nil {
			return nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}

	// 取樣器不可跨 goroutine 共用（含內部快取狀態），每個 worker 各建一個
	samplers := make([]dist.Distribution, mp)
	for i := 0; i < mp; i++ {
		d, err := BuildSampler(cfg, s.gBuf[i])
		if err != nil {
			return nil, 0, err
		}
		samplers[i] = d
		s.rBuf[i].SetTheory(theoryMoments(d))
	}

	wg := new(sync.WaitGroup)
	wg.Add(mp)
	bar := pb.StartNew(draws * mp)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < mp; i++ {
		go func(i int) {
			defer wg.Done()
			d := samplers[i]
			st := s.rBuf[i]
			for r := 0; r < draws; r++ {
				st.Record(d.NextDouble())
				bar.Increment()
			}
		}(i)
	}
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	st, err := recorder.MergeDrawRecorder(s.rBuf)
	if err != nil {
		return nil, 0, err
	}
	result := st.Done()

	return result, used, nil
}

// SimRuns 模擬多個獨立 run 的取樣歷程，並產出合併報表與 run 彙整報表。
//
// 每個 run 取 draws 個樣本；runs 個 run 由 mp 個 worker 消化。
func (s *Simulator) SimRuns(samplerMode int, draws int, runs int, mp int, showpb bool) (*stats.DrawReport, *stats.EstimatorRuns, time.Duration, error) {
	defer s.reset()
	if runs < 1 || draws < 1 || mp < 1 || samplerMode < 0 || samplerMode >= len(s.ss.SamplerSettings) {
		return nil, nil, 0, errs.NewInvalidParam("invalid param")
	}
	cfg := s.ss.SamplerSettings[samplerMode]

	// 準備並行 Core
	for len(s.gBuf) < mp {
		g, err := s.reg.Build(s.ss.AlgoKey, s.seedmaker.next())
		if err != nil {
			return nil, nil, 0, err
		}
		s.gBuf = append(s.gBuf, g)
	}

	// 準備 run 紀錄員
	s.sBuf = make([]*stats.DrawReport, runs)
	for len(s.rBuf) < runs {
		r, err := s.newRecorder(cfg)
		if err != nil {
			return nil, nil, 0, err
		}
		s.rBuf = append(s.rBuf, r)
	}

	samplers := make([]dist.Distribution, mp)
	for i := 0; i < mp; i++ {
		d, err := BuildSampler(cfg, s.gBuf[i])
		if err != nil {
			return nil, nil, 0, err
		}
		samplers[i] = d
	}
	mean, variance := theoryMoments(samplers[0])
	for _, r := range s.rBuf {
		r.SetTheory(mean, variance)
	}

	// 作一個2048大小的緩衝channel 使 run 依序處理
	jobs := make(chan *recorder.DrawRecorder, 2048)

	wg := new(sync.WaitGroup)
	wg.Add(mp) // 併發 worker

	bar := pb.StartNew(runs)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	// 併發執行
	for w := 0; w < mp; w++ {
		go sim(wg, samplers[w], jobs, draws, bar)
	}

	// 塞進 run，開始模擬
	for _, j := range s.rBuf {
		jobs <- j
	}
	close(jobs) // run 送完處理完畢關閉通道 通知所有 worker 不會再有新資料
	wg.Wait()   // 等待 worker 都執行完任務
	used := time.Since(bar.StartTime())
	bar.Finish()

	// 合併基準報表
	record, err := recorder.MergeDrawRecorder(s.rBuf)
	if err != nil {
		return nil, nil, 0, err
	}
	st := record.Done()

	// run 彙整報表
	for i, r := range s.rBuf {
		s.sBuf[i] = r.Done()
	}
	est := stats.EstimatorRunExp(s.sBuf)
	return st, est, used, nil
}

func sim(wg *sync.WaitGroup, d dist.Distribution, jobs chan *recorder.DrawRecorder, draws int, bar *pb.ProgressBar) {
	defer wg.Done()
	for j := range jobs { // j := <- jobs
		for range draws {
			j.Record(d.NextDouble())
		}
		bar.Increment()
	}
}

func (s *Simulator) newRecorder(cfg spec.SamplerSetting) (*recorder.DrawRecorder, error) {
	return recorder.NewDrawRecorder(string(s.ss.AlgoKey), string(cfg.Kind), s.initSeed, 1)
}

func (s *Simulator) reset() {
	s.rBuf = s.rBuf[:0]
	s.sBuf = s.sBuf[:0]
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed uint32) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// state 走全週期（不重複），再用可逆 mix63 打散
//
// 注意：此方法可能在併發環境下被多 goroutines 同時呼叫（例如 SimMP / SimRuns）。
// 因此 state 的推進必須是原子的：
//   - 使用 CAS（Compare-And-Swap）迴圈確保每次呼叫都會取得唯一的下一個 state。
//   - 回傳值使用推進後的 state 經 mix63 打散後的結果。
func (s *seedMaker) next() uint32 {
	for {
		old := s.state.Load()                                            // always masked
		next := (old*6364136223846793005 + 1442695040888963407) & mask63 // full-period LCG mod 2^63
		if s.state.CompareAndSwap(old, next) {
			return uint32(mix63(next) >> 16)
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63 // 乘奇數 ⇒ mod 2^63 可逆
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
