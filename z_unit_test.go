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

package randlab_test

import (
	"math"
	"testing"
	"testing/fstest"

	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/spec"
)

const suiteYAML = `
suite_name: demo_suite
suite_id: 1001
algo_key: xorshift128
seed: 42
draws: 1000
workers: 2
sampler_settings:
  - kind: binomial
    alpha: 0.5
    beta: 10
  - kind: categorical
    weights: [1, 2, 1]
  - kind: uniform
    alpha: -1
    beta: 1
`

func newTestLab(t *testing.T) *randlab.Randlab {
	t.Helper()
	cfgFS := fstest.MapFS{
		"demo_suite.yaml": &fstest.MapFile{Data: []byte(suiteYAML)},
	}
	lab, err := randlab.NewAuto(randlab.Configs(cfgFS), randlab.Factories(randlab.BuiltinFactories()))
	if err != nil {
		t.Fatalf("NewAuto: %v", err)
	}
	return lab
}

func TestLabAssembly(t *testing.T) {
	lab := newTestLab(t)

	if _, ok := lab.EntryByName("demo_suite"); !ok {
		t.Fatalf("registered suite not found by name")
	}
	if _, ok := lab.EntryById(spec.SID(1001)); !ok {
		t.Fatalf("registered suite not found by id")
	}

	sums, err := lab.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(sums) != 1 || sums[0].AlgoKey != spec.AlgoXorShift128 || sums[0].Draws != 1000 {
		t.Fatalf("unexpected summary: %+v", sums)
	}

	if got := len(lab.Algos()); got != 5 {
		t.Fatalf("builtin algo count = %d, want 5", got)
	}
}

func TestLabRejectsUnknownAlgo(t *testing.T) {
	bad := fstest.MapFS{
		"bad.yaml": &fstest.MapFile{Data: []byte(`
suite_name: bad
suite_id: 1
algo_key: nosuch
seed: 0
draws: 10
sampler_settings:
  - kind: bernoulli
    alpha: 0.5
`)},
	}
	if _, err := randlab.NewAuto(randlab.Configs(bad), randlab.Factories(randlab.BuiltinFactories())); err == nil {
		t.Fatalf("unknown algo accepted")
	}
}

func TestSimDeterminism(t *testing.T) {
	lab := newTestLab(t)

	s1, err := lab.NewSimulatorWithSeed(1001, 7)
	if err != nil {
		t.Fatalf("NewSimulatorWithSeed: %v", err)
	}
	s2, _ := lab.NewSimulatorWithSeed(1001, 7)

	r1, _, err := s1.Sim(0, 5000, false)
	if err != nil {
		t.Fatalf("Sim: %v", err)
	}
	r2, _, _ := s2.Sim(0, 5000, false)

	if r1.Summary.Mean != r2.Summary.Mean {
		t.Fatalf("same seed produced different means: %v vs %v", r1.Summary.Mean, r2.Summary.Mean)
	}
	if r1.Summary.Draws != 5000 {
		t.Fatalf("draws = %d, want 5000", r1.Summary.Draws)
	}
	// binomial(0.5, 10) mean = 5
	if math.Abs(r1.Summary.Mean-5) > 1 {
		t.Fatalf("binomial empirical mean %v too far from 5", r1.Summary.Mean)
	}
	if math.Abs(r1.Moment.TheoryMean-5) > 1e-12 {
		t.Fatalf("theory mean = %v, want 5", r1.Moment.TheoryMean)
	}
}

func TestSimValidation(t *testing.T) {
	lab := newTestLab(t)
	s, _ := lab.NewSimulator(1001)

	if _, _, err := s.Sim(99, 100, false); err == nil {
		t.Fatalf("out of range sampler mode accepted")
	}
	if _, _, err := s.Sim(0, 0, false); err == nil {
		t.Fatalf("zero draws accepted")
	}
	if _, _, err := s.SimMP(0, 100, 0, false); err == nil {
		t.Fatalf("zero workers accepted")
	}
}

func TestSimMP(t *testing.T) {
	lab := newTestLab(t)
	s, _ := lab.NewSimulatorWithSeed(1001, 99)

	rep, _, err := s.SimMP(1, 2000, 4, false)
	if err != nil {
		t.Fatalf("SimMP: %v", err)
	}
	if rep.Summary.Draws != 8000 {
		t.Fatalf("merged draws = %d, want 8000", rep.Summary.Draws)
	}
	// categorical [1,2,1] mean = 1
	if math.Abs(rep.Summary.Mean-1) > 0.2 {
		t.Fatalf("categorical empirical mean %v too far from 1", rep.Summary.Mean)
	}
}

func TestSimRuns(t *testing.T) {
	lab := newTestLab(t)
	s, _ := lab.NewSimulatorWithSeed(1001, 3)

	rep, est, _, err := s.SimRuns(2, 500, 20, 4, false)
	if err != nil {
		t.Fatalf("SimRuns: %v", err)
	}
	if rep.Summary.Draws != 500*20 {
		t.Fatalf("merged draws = %d, want %d", rep.Summary.Draws, 500*20)
	}
	// uniform [-1,1) run means concentrate near 0
	if math.Abs(est.MeanStat.Median.Hat) > 0.2 {
		t.Fatalf("median run mean %v too far from 0", est.MeanStat.Median.Hat)
	}
}

func TestNewCoreWithSeed(t *testing.T) {
	lab := newTestLab(t)
	c1, err := lab.NewCoreWithSeed(spec.AlgoMT19937, 123)
	if err != nil {
		t.Fatalf("NewCoreWithSeed: %v", err)
	}
	c2, _ := lab.NewCoreWithSeed(spec.AlgoMT19937, 123)
	for i := 0; i < 1000; i++ {
		if c1.Next() != c2.Next() {
			t.Fatalf("same algo+seed diverged at %d", i)
		}
	}
	if _, err := lab.NewCoreWithSeed("nosuch", 1); err == nil {
		t.Fatalf("unknown algo accepted")
	}
}
