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

package recorder_test

import (
	"bytes"
	"math"
	"testing"

	"github.com/zintix-labs/randlab/recorder"
)

func TestDrawRecorderBasic(t *testing.T) {
	r, err := recorder.NewDrawRecorder("mt19937", "poisson", 7, 1)
	if err != nil {
		t.Fatalf("NewDrawRecorder: %v", err)
	}
	for _, v := range []float64{0, 1, 2, 3, 4} {
		r.Record(v)
	}
	rep := r.Done()

	if rep.Summary.Draws != 5 {
		t.Fatalf("draws = %d, want 5", rep.Summary.Draws)
	}
	if rep.Summary.Mean != 2 {
		t.Fatalf("mean = %v, want 2", rep.Summary.Mean)
	}
	if rep.Summary.Min != 0 || rep.Summary.Max != 4 {
		t.Fatalf("min/max = %v/%v, want 0/4", rep.Summary.Min, rep.Summary.Max)
	}
	if rep.Summary.Algo != "mt19937" || rep.Summary.Sampler != "poisson" || rep.Summary.Seed != 7 {
		t.Fatalf("identity fields lost: %+v", rep.Summary)
	}

	total := 0
	for _, c := range rep.Hist.Collect {
		total += c
	}
	if total != 5 {
		t.Fatalf("histogram total %d, want 5", total)
	}
}

func TestDrawRecorderValidation(t *testing.T) {
	if _, err := recorder.NewDrawRecorder("", "", 0, 1); err == nil {
		t.Fatalf("empty algo accepted")
	}
	if _, err := recorder.NewDrawRecorder("nr3", "", 0, 0); err == nil {
		t.Fatalf("non-positive unit accepted")
	}
}

func TestMergeDrawRecorder(t *testing.T) {
	mk := func(vals ...float64) *recorder.DrawRecorder {
		r, err := recorder.NewDrawRecorder("alf", "binomial", 3, 1)
		if err != nil {
			t.Fatalf("NewDrawRecorder: %v", err)
		}
		for _, v := range vals {
			r.Record(v)
		}
		return r
	}

	a := mk(1, 2, 3)
	b := mk(4, 5)
	m, err := recorder.MergeDrawRecorder([]*recorder.DrawRecorder{a, b})
	if err != nil {
		t.Fatalf("MergeDrawRecorder: %v", err)
	}
	rep := m.Done()
	if rep.Summary.Draws != 5 {
		t.Fatalf("merged draws = %d, want 5", rep.Summary.Draws)
	}
	if rep.Summary.Mean != 3 {
		t.Fatalf("merged mean = %v, want 3", rep.Summary.Mean)
	}
	if rep.Summary.Min != 1 || rep.Summary.Max != 5 {
		t.Fatalf("merged min/max = %v/%v", rep.Summary.Min, rep.Summary.Max)
	}

	// Mismatched identities must refuse to merge
	other, _ := recorder.NewDrawRecorder("nr3", "binomial", 3, 1)
	if _, err := recorder.MergeDrawRecorder([]*recorder.DrawRecorder{a, other}); err == nil {
		t.Fatalf("merge across algos accepted")
	}
	if _, err := recorder.MergeDrawRecorder(nil); err == nil {
		t.Fatalf("empty merge accepted")
	}
}

func TestDumpLoadRoundTrip(t *testing.T) {
	r, err := recorder.NewDrawRecorder("xorshift128", "normal", 42, 1)
	if err != nil {
		t.Fatalf("NewDrawRecorder: %v", err)
	}
	r.SetTheory(0, 1)
	for _, v := range []float64{-1.5, 0, 0.5, 2, 3.25} {
		r.Record(v)
	}

	buf := new(bytes.Buffer)
	if err := r.Dump(buf); err != nil {
		t.Fatalf("Dump: %v", err)
	}

	got, err := recorder.LoadDrawRecorder(buf)
	if err != nil {
		t.Fatalf("LoadDrawRecorder: %v", err)
	}

	// 載回後可繼續記錄並出報表
	got.Record(1)
	rep := got.Done()
	if rep.Summary.Draws != 6 {
		t.Fatalf("draws after reload = %d, want 6", rep.Summary.Draws)
	}
	if rep.Summary.Algo != "xorshift128" || rep.Summary.Sampler != "normal" || rep.Summary.Seed != 42 {
		t.Fatalf("identity fields lost: %+v", rep.Summary)
	}
	if rep.Summary.Min != -1.5 || rep.Summary.Max != 3.25 {
		t.Fatalf("min/max lost: %v/%v", rep.Summary.Min, rep.Summary.Max)
	}
	if rep.Moment.TheoryVar != 1 {
		t.Fatalf("theory var lost: %v", rep.Moment.TheoryVar)
	}
	total := 0
	for _, c := range rep.Hist.Collect {
		total += c
	}
	if total != 6 {
		t.Fatalf("histogram total %d, want 6", total)
	}

	// 載回的紀錄員可參與合併
	other, _ := recorder.NewDrawRecorder("xorshift128", "normal", 42, 1)
	other.Record(7)
	if _, err := recorder.MergeDrawRecorder([]*recorder.DrawRecorder{got, other}); err != nil {
		t.Fatalf("merge reloaded recorder: %v", err)
	}

	// 未設理論動差、零樣本的紀錄員也要能落地（NaN / ±Inf 欄位）
	empty, _ := recorder.NewDrawRecorder("nr3", "", 1, 1)
	eb := new(bytes.Buffer)
	if err := empty.Dump(eb); err != nil {
		t.Fatalf("Dump empty: %v", err)
	}
	back, err := recorder.LoadDrawRecorder(eb)
	if err != nil {
		t.Fatalf("LoadDrawRecorder empty: %v", err)
	}
	back.Record(5)
	if rep := back.Done(); rep.Summary.Min != 5 || rep.Summary.Max != 5 {
		t.Fatalf("empty reload lost min/max sentinels: %+v", rep.Summary)
	}

	// 毀損的 frame 必須被拒絕
	if _, err := recorder.LoadDrawRecorder(bytes.NewReader([]byte{0x02, 0x7b})); err == nil {
		t.Fatalf("truncated frame accepted")
	}
	if _, err := recorder.LoadDrawRecorder(nil); err == nil {
		t.Fatalf("nil reader accepted")
	}
}

func TestTheoryMoments(t *testing.T) {
	r, _ := recorder.NewDrawRecorder("sysrand", "geometric", 1, 1)
	r.SetTheory(4, 12)
	for i := 0; i < 10; i++ {
		r.Record(4)
	}
	rep := r.Done()
	if math.Abs(rep.Moment.MeanErr-0) > 1e-12 {
		t.Fatalf("mean err = %v, want 0", rep.Moment.MeanErr)
	}
	if rep.Moment.TheoryVar != 12 {
		t.Fatalf("theory var lost: %v", rep.Moment.TheoryVar)
	}
}
