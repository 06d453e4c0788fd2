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

package stats

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// ============================================================
// ** 結構宣告 **
// ============================================================

// 多 run 彙整評估
type EstimatorRuns struct {
	MeanStat   MeanStat
	BucketStat BucketStat
}

// 各 run 樣本平均的敘事
type MeanStat struct {
	Median PointStat // run 平均的中位數
	Perc   MeanPerc  // run 平均的分位數
}

/// 用分位數視角看各 run: 最低10%的 run 平均、最低33%的 run 平均 ...
type MeanPerc struct {
	P10 PointStat
	P33 PointStat
	P67 PointStat
	P90 PointStat
}

// PointStat 點估計 回傳 估計值 以及信賴區間
type PointStat struct {
	Hat float64
	CI  CI
}

// 對應分桶的統計
type BucketStat struct {
	BucketLabel []string    // 分桶標籤
	BucketHit   []PointStat // 各桶至少命中一次的 run 比例
}

// ============================================================
// ** 對外 : 多 run 彙整評估 **
// ============================================================

// EstimatorRunExp 多 run 彙整評估
//
// 1. Mean 敘事 : 描述各 run 樣本平均的分布
//
// 2. Bucket 敘事 : 描述各 run 命中某些值區間的機率
func EstimatorRunExp(rs []*DrawReport) *EstimatorRuns {
	// 0. 防禦：空輸入
	n := len(rs)
	out := &EstimatorRuns{}
	if n == 0 {
		return out
	}

	// ------------------------------------------------------------
	// 1) Mean 敘事：收集每個 run 的平均並做分位/CI
	// ------------------------------------------------------------
	means := make([]float64, n)
	for i, r := range rs {
		means[i] = r.Mean()
	}

	// 中位數 (點估計 + 95% CI)
	medHat := quantilePoint(means, 0.5)
	medLo, medHi := quantileCI(means, 0.5, 0.95)

	// P10, P33, P67, P90 (點估計 + 95% CI)
	p10Hat := quantilePoint(means, 0.10)
	p10Lo, p10Hi := quantileCI(means, 0.10, 0.95)

	p33Hat := quantilePoint(means, 1.0/3.0)
	p33Lo, p33Hi := quantileCI(means, 1.0/3.0, 0.95)

	p67Hat := quantilePoint(means, 2.0/3.0)
	p67Lo, p67Hi := quantileCI(means, 2.0/3.0, 0.95)

	p90Hat := quantilePoint(means, 0.90)
	p90Lo, p90Hi := quantileCI(means, 0.90, 0.95)

	out.MeanStat = MeanStat{
		Median: PointStat{Hat: medHat, CI: CI{Lo: medLo, Hi: medHi}},
		Perc: MeanPerc{
			P10: PointStat{Hat: p10Hat, CI: CI{Lo: p10Lo, Hi: p10Hi}},
			P33: PointStat{Hat: p33Hat, CI: CI{Lo: p33Lo, Hi: p33Hi}},
			P67: PointStat{Hat: p67Hat, CI: CI{Lo: p67Lo, Hi: p67Hi}},
			P90: PointStat{Hat: p90Hat, CI: CI{Lo: p90Lo, Hi: p90Hi}},
		},
	}

	// ------------------------------------------------------------
	// 2) Bucket 敘事：各桶至少命中一次的 run 比例（CP 95% CI）
	// ------------------------------------------------------------
	labels := Buckets.Labels()
	L := len(labels)
	out.BucketStat = BucketStat{BucketLabel: labels, BucketHit: make([]PointStat, L)}

	for bi := 0; bi < L; bi++ {
		k := 0
		for _, r := range rs {
			if bi < len(r.Hist.Collect) && r.Hist.Collect[bi] > 0 {
				k++
			}
		}
		hat, ci := proportionCICP(k, n, 0.95)
		out.BucketStat.BucketHit[bi] = PointStat{Hat: hat, CI: ci}
	}

	return out
}

// ============================================================
// ** 內部統計函數 **
// ============================================================

// Clopper–Pearson exact CI for binomial proportion (k successes out of n)
func proportionCICP(k int, n int, confidence float64) (pHat float64, ci CI) {
	if n == 0 {
		return 0, CI{0, 1}
	}
	alpha := 1 - confidence
	pHat = float64(k) / float64(n)

	// Beta PPF 映射，處理邊界
	if k == 0 {
		ci.Lo = 0
	} else {
		b := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
		ci.Lo = b.Quantile(alpha / 2)
	}
	if k == n {
		ci.Hi = 1
	} else {
		b := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
		ci.Hi = b.Quantile(1 - alpha/2)
	}
	return
}

// 想估「第 q 分位」的上下界。做法：把 order statistic 的秩視為二項→Beta 反推 p 範圍，再把 p 轉回樣本索引。
// 回傳 (loValue, hiValue)
func quantileCI(data []float64, q, confidence float64) (float64, float64) {
	n := len(data)
	if n == 0 {
		return 0, 0
	}
	cp := make([]float64, n)
	copy(cp, data)
	sort.Float64s(cp)

	alpha := 1 - confidence
	k := int(q * float64(n))
	if k < 1 {
		k = 1
	} else if k > n-1 {
		k = n - 1
	}

	// 以 CP 思想反推 p 範圍
	bLo := distuv.Beta{Alpha: float64(k), Beta: float64(n - k + 1)}
	bHi := distuv.Beta{Alpha: float64(k + 1), Beta: float64(n - k)}
	pLo := bLo.Quantile(alpha / 2)
	pHi := bHi.Quantile(1 - alpha/2)

	li := int(pLo * float64(n))
	ui := int(pHi * float64(n))
	if ui > 0 {
		ui -= 1
	}
	if li < 0 {
		li = 0
	}
	if li > n-1 {
		li = n - 1
	}
	if ui < 0 {
		ui = 0
	}
	if ui > n-1 {
		ui = n - 1
	}
	return cp[li], cp[ui]
}

// quantilePoint returns the empirical quantile point estimate at q.
func quantilePoint(data []float64, q float64) float64 {
	n := len(data)
	if n == 0 {
		return 0
	}
	cp := make([]float64, n)
	copy(cp, data)
	sort.Float64s(cp)
	// 最近秩法
	idx := int(q * float64(n))
	if idx < 0 {
		idx = 0
	}
	if idx > n-1 {
		idx = n - 1
	}
	return cp[idx]
}

// ============================================================
// ** 輸出函數 **
// ============================================================

func (est *EstimatorRuns) Out() {
	// 1) Run means
	fmt.Println("=== Run Means ===")
	meanKeys := []string{
		"Median",
		"P10",
		"P33",
		"P67",
		"P90",
	}
	meanMsg := map[string]string{
		"Median": fmtHatCI(est.MeanStat.Median.Hat, est.MeanStat.Median.CI),
		"P10":    fmtHatCI(est.MeanStat.Perc.P10.Hat, est.MeanStat.Perc.P10.CI),
		"P33":    fmtHatCI(est.MeanStat.Perc.P33.Hat, est.MeanStat.Perc.P33.CI),
		"P67":    fmtHatCI(est.MeanStat.Perc.P67.Hat, est.MeanStat.Perc.P67.CI),
		"P90":    fmtHatCI(est.MeanStat.Perc.P90.Hat, est.MeanStat.Perc.P90.CI),
	}
	printTable("Run Means", meanKeys, meanMsg)

	// 2) Buckets: runs with at least one hit
	fmt.Println("\n=== Buckets: runs with at least one hit ===")
	for i, label := range est.BucketStat.BucketLabel {
		ps := est.BucketStat.BucketHit[i]
		fmt.Printf("%-14s : %s\n", label, fmtHatCIpct01(ps.Hat, ps.CI))
	}
}

func printTable(title string, keys []string, msg map[string]string) {
	fmt.Println(title)
	maxKeyLen := 0
	for _, k := range keys {
		if len(k) > maxKeyLen {
			maxKeyLen = len(k)
		}
	}
	for _, k := range keys {
		fmt.Printf("  %-*s : %s\n", maxKeyLen, k, msg[k])
	}
}

func fmtPct01(x float64) string {
	return fmt.Sprintf("%.2f%%", x*100)
}

func fmtHatCIpct01(hat float64, ci CI) string {
	return fmt.Sprintf("%s [%s, %s]", fmtPct01(hat), fmtPct01(ci.Lo), fmtPct01(ci.Hi))
}

func fmtHatCI(hat float64, ci CI) string {
	return fmt.Sprintf("%.4f [%.4f, %.4f]", hat, ci.Lo, ci.Hi)
}
