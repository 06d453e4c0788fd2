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

package stats_test

import (
	"math"
	"testing"

	"github.com/zintix-labs/randlab/stats"
)

// buildDrawReport constructs a DrawReport from a list of sample values
// with bucket unit 1.
func buildDrawReport(samples []float64) *stats.DrawReport {
	L := len(stats.Buckets.Labels())
	bucket := stats.Buckets.GetBucketByUnit(1)
	collect := make([]int, L)

	var sum, sqSum float64
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, v := range samples {
		collect[bucket.Index(int(v))]++
		sum += v
		sqSum += v * v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	report := &stats.DrawReport{
		Summary: &stats.SummaryReport{
			Algo:  "xorshift128",
			Seed:  42,
			Draws: len(samples),
			Min:   minV,
			Max:   maxV,
		},
		Moment: &stats.MomentReport{
			Sum:        sum,
			SqSum:      sqSum,
			TheoryMean: math.NaN(),
			TheoryVar:  math.NaN(),
		},
		Hist: &stats.HistReport{
			Bucket:  stats.Buckets.Labels(),
			Collect: collect,
		},
	}
	report.Done()
	return report
}

func TestDrawReportCoreMetrics(t *testing.T) {
	rep := buildDrawReport([]float64{1, 2})

	wantMean := 1.5
	if got := rep.Mean(); math.Abs(got-wantMean) > 1e-12 {
		t.Fatalf("Mean got %.12f want %.12f", got, wantMean)
	}

	variance := ((1.0 + 4.0) - 3.0*3.0/2) / (2 - 1)
	wantStd := math.Sqrt(variance)
	if got := rep.Std(); math.Abs(got-wantStd) > 1e-12 {
		t.Fatalf("Std got %.12f want %.12f", got, wantStd)
	}

	wantCV := wantStd / wantMean
	if got := rep.Cv(); math.Abs(got-wantCV) > 1e-12 {
		t.Fatalf("CV got %.12f want %.12f", got, wantCV)
	}

	ci := rep.MeanCi()
	if ci.Lo > wantMean || ci.Hi < wantMean {
		t.Fatalf("mean CI [%v,%v] does not cover mean", ci.Lo, ci.Hi)
	}

	// Histogram lengths and sums
	if len(rep.Hist.Collect) != len(rep.Hist.Bucket) {
		t.Fatalf("bucket length mismatch")
	}
	total := 0
	for _, c := range rep.Hist.Collect {
		total += c
	}
	if total != rep.Summary.Draws {
		t.Fatalf("histogram total %d != draws %d", total, rep.Summary.Draws)
	}

	rep.Done() // idempotent
	if rep.Mean() != wantMean {
		t.Fatalf("Mean changed after second Done")
	}
}

func TestBucketIndex(t *testing.T) {
	b := stats.Buckets.GetBucketByUnit(1)
	cases := []struct {
		v    int
		want string
	}{
		{-3, "[<0]"},
		{0, "[0,1)"},
		{1, "[1,2)"},
		{4, "[2,5)"},
		{150, "[100,300)"},
		{1999, "[1000,2000)"},
		{5000, "[2000,10000)"},
		{20000, "[10000,+inf)"},
	}
	labels := stats.Buckets.Labels()
	for _, cs := range cases {
		if got := labels[b.Index(cs.v)]; got != cs.want {
			t.Fatalf("Index(%d) -> %s, want %s", cs.v, got, cs.want)
		}
	}
}

func TestEstimatorRunMeans(t *testing.T) {
	// 100 reports with means 0..99
	reports := make([]*stats.DrawReport, 0, 100)
	for i := 0; i < 100; i++ {
		reports = append(reports, buildDrawReport([]float64{float64(i)}))
	}

	est := stats.EstimatorRunExp(reports)
	if math.Abs(est.MeanStat.Median.Hat-50) > 5 {
		t.Fatalf("median mean expected ~50, got %.3f", est.MeanStat.Median.Hat)
	}
	if math.Abs(est.MeanStat.Perc.P90.Hat-90) > 5 {
		t.Fatalf("P90 mean expected ~90, got %.3f", est.MeanStat.Perc.P90.Hat)
	}

	// every report has exactly one sample in some bucket; the [0,1) bucket
	// is hit by exactly one report
	zeroHit := est.BucketStat.BucketHit[1]
	if math.Abs(zeroHit.Hat-0.01) > 1e-12 {
		t.Fatalf("[0,1) hit rate got %.4f want 0.01", zeroHit.Hat)
	}
	if zeroHit.CI.Lo < 0 || zeroHit.CI.Hi > 1 || zeroHit.CI.Lo > zeroHit.CI.Hi {
		t.Fatalf("invalid CI %+v", zeroHit.CI)
	}

	if est2 := stats.EstimatorRunExp(nil); est2 == nil {
		t.Fatalf("empty input must still return a struct")
	}
}
