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
	"math"
	"testing"

	"github.com/zintix-labs/randlab/errs"
)

func allGenerators(seed uint32) map[string]BitGenerator {
	return map[string]BitGenerator{
		"xorshift128": NewXorShift128(seed),
		"mt19937":     NewMT19937(seed),
		"alf":         NewALF(seed),
		"nr3":         NewNR3(seed),
		"sysrand":     NewSysRand(seed),
	}
}

func TestDeterminismSameSeed(t *testing.T) {
	a := allGenerators(7)
	b := allGenerators(7)
	for name, g1 := range a {
		g2 := b[name]
		for i := 0; i < 1000; i++ {
			if g1.Uint32InclusiveMax() != g2.Uint32InclusiveMax() {
				t.Fatalf("%s: mismatch at draw %d", name, i)
			}
		}
		if g1.Float64() != g2.Float64() {
			t.Fatalf("%s: float64 mismatch", name)
		}
	}
}

func TestResetAfterManyRand(t *testing.T) {
	for name, g := range allGenerators(1234) {
		want := make([]uint32, 64)
		for i := range want {
			want[i] = g.Uint32InclusiveMax()
		}
		// 推進一大段後 Reset，必須從頭精確重現
		for i := 0; i < 10_000; i++ {
			g.Uint32InclusiveMax()
		}
		if !g.Reset(1234) {
			t.Fatalf("%s: reset refused", name)
		}
		for i, w := range want {
			if got := g.Uint32InclusiveMax(); got != w {
				t.Fatalf("%s: after reset draw %d = %d, want %d", name, i, got, w)
			}
		}
	}
}

func TestResetIdempotent(t *testing.T) {
	for name, g := range allGenerators(99) {
		g.Reset(99)
		g.Reset(99)
		twin := allGenerators(99)[name]
		for i := 0; i < 100; i++ {
			if g.Uint32InclusiveMax() != twin.Uint32InclusiveMax() {
				t.Fatalf("%s: double reset diverged at %d", name, i)
			}
		}
	}
}

func TestResetAfterOneRand(t *testing.T) {
	for name, g := range allGenerators(5) {
		first := g.Uint32InclusiveMax()
		g.Reset(5)
		if got := g.Uint32InclusiveMax(); got != first {
			t.Fatalf("%s: reset after one draw: got %d want %d", name, got, first)
		}
	}
}

func TestCanReset(t *testing.T) {
	for name, g := range allGenerators(1) {
		if !g.CanReset() {
			t.Fatalf("%s: built-in generator must support reset", name)
		}
	}
}

func TestNoMaxValue(t *testing.T) {
	for name, g := range allGenerators(77) {
		c := MustNew(g)
		for i := 0; i < 200_000; i++ {
			if c.Uint32() == math.MaxUint32 {
				t.Fatalf("%s: Uint32 returned MaxUint32", name)
			}
		}
		for i := 0; i < 200_000; i++ {
			if c.Next() == math.MaxInt32 {
				t.Fatalf("%s: Next returned MaxInt32", name)
			}
		}
	}
}

func TestBoundedRange(t *testing.T) {
	c := MustNew(NewXorShift128(3))
	cases := [][2]int32{{0, 1}, {0, 10}, {-5, 5}, {100, 1000}, {-1000, -999}}
	for _, cs := range cases {
		for i := 0; i < 10_000; i++ {
			v, err := c.NextRange(cs[0], cs[1])
			if err != nil {
				t.Fatalf("NextRange(%d,%d): %v", cs[0], cs[1], err)
			}
			if v < cs[0] || v >= cs[1] {
				t.Fatalf("NextRange(%d,%d) = %d out of range", cs[0], cs[1], v)
			}
		}
	}

	// 退化區間 min == max 固定回傳 min
	for i := 0; i < 100; i++ {
		v, err := c.NextRange(42, 42)
		if err != nil {
			t.Fatalf("degenerate range: %v", err)
		}
		if v != 42 {
			t.Fatalf("degenerate range returned %d", v)
		}
	}

	// min > max 必須回 InvalidRange 錯誤，不可靜默 clamp
	if _, err := c.NextRange(10, 5); !errs.IsKind(err, errs.InvalidRange) {
		t.Fatalf("expected InvalidRange, got %v", err)
	}

	// 全 int32 跨距：寬度超過 2^31，int32 相減會溢位成負值，
	// 必須仍均勻覆蓋整個區間
	seenPos, seenNeg := false, false
	for i := 0; i < 10_000; i++ {
		v, err := c.NextRange(math.MinInt32, math.MaxInt32)
		if err != nil {
			t.Fatalf("full span: %v", err)
		}
		if v == math.MaxInt32 {
			t.Fatalf("full span returned excluded upper bound")
		}
		if v > 0 {
			seenPos = true
		}
		if v < 0 {
			seenNeg = true
		}
	}
	if !seenPos || !seenNeg {
		t.Fatalf("full span draws stuck in one half (pos=%v neg=%v)", seenPos, seenNeg)
	}
}

func TestBoundedFloat(t *testing.T) {
	c := MustNew(NewNR3(8))
	for i := 0; i < 10_000; i++ {
		v, err := c.Float64Range(-2.5, 7.5)
		if err != nil {
			t.Fatalf("Float64Range: %v", err)
		}
		if v < -2.5 || v >= 7.5 {
			t.Fatalf("Float64Range out of range: %v", v)
		}
	}
	if _, err := c.Float64N(-1); !errs.IsKind(err, errs.InvalidRange) {
		t.Fatalf("negative bound: expected InvalidRange, got %v", err)
	}
	if _, err := c.Float64N(math.Inf(1)); !errs.IsKind(err, errs.InfiniteBound) {
		t.Fatalf("infinite bound: expected InfiniteBound, got %v", err)
	}
	if _, err := c.Float64Range(-math.MaxFloat64, math.MaxFloat64); !errs.IsKind(err, errs.InfiniteBound) {
		t.Fatalf("infinite width: expected InfiniteBound, got %v", err)
	}
	if _, err := c.Float64Range(3, 1); !errs.IsKind(err, errs.InvalidRange) {
		t.Fatalf("reversed range: expected InvalidRange, got %v", err)
	}
}

func TestSequenceMatchesScalar(t *testing.T) {
	c1 := MustNew(NewMT19937(2024))
	c2 := MustNew(NewMT19937(2024))

	i := 0
	for v := range c1.Integers() {
		if v != c2.Next() {
			t.Fatalf("Integers element %d diverged from scalar Next", i)
		}
		i++
		if i >= 500 {
			break
		}
	}

	s1, err := c1.IntegersRange(-3, 9)
	if err != nil {
		t.Fatalf("IntegersRange: %v", err)
	}
	i = 0
	for v := range s1 {
		w, _ := c2.NextRange(-3, 9)
		if v != w {
			t.Fatalf("IntegersRange element %d diverged from scalar", i)
		}
		i++
		if i >= 500 {
			break
		}
	}

	i = 0
	for v := range c1.Booleans() {
		if v != c2.NextBool() {
			t.Fatalf("Booleans element %d diverged from scalar", i)
		}
		i++
		if i >= 200 {
			break
		}
	}
}

func TestSequenceValidation(t *testing.T) {
	c := MustNew(NewALF(6))
	if _, err := c.IntegersRange(5, 1); !errs.IsKind(err, errs.InvalidRange) {
		t.Fatalf("expected InvalidRange, got %v", err)
	}
	if _, err := c.DoublesN(math.Inf(1)); !errs.IsKind(err, errs.InfiniteBound) {
		t.Fatalf("expected InfiniteBound, got %v", err)
	}
	if _, err := Choices(c, []int(nil)); !errs.IsKind(err, errs.NullArgument) {
		t.Fatalf("expected NullArgument, got %v", err)
	}
}

func TestBoolBufferResetSafety(t *testing.T) {
	c1 := MustNew(NewXorShift128(11))
	c2 := MustNew(NewXorShift128(11))

	// 消耗部分位元緩衝後 Reset，序列必須與新建者一致
	for i := 0; i < 7; i++ {
		c1.NextBool()
	}
	c1.Reset(11)
	for i := 0; i < 100; i++ {
		if c1.NextBool() != c2.NextBool() {
			t.Fatalf("bool sequence diverged at %d after reset", i)
		}
	}
}

func TestFillBytes(t *testing.T) {
	c1 := MustNew(NewNR3(21))
	c2 := MustNew(NewNR3(21))

	buf := make([]byte, 10) // 非 4 的倍數，驗證尾端處理
	if err := c1.FillBytes(buf); err != nil {
		t.Fatalf("FillBytes: %v", err)
	}

	// 與逐字抽取對齊：前兩個完整字 + 尾端一字的低 2 bytes
	w0 := c2.Uint32()
	w1 := c2.Uint32()
	w2 := c2.Uint32()
	want := []byte{
		byte(w0), byte(w0 >> 8), byte(w0 >> 16), byte(w0 >> 24),
		byte(w1), byte(w1 >> 8), byte(w1 >> 16), byte(w1 >> 24),
		byte(w2), byte(w2 >> 8),
	}
	for i := range buf {
		if buf[i] != want[i] {
			t.Fatalf("FillBytes byte %d = %#x, want %#x", i, buf[i], want[i])
		}
	}

	if err := c1.FillBytes(nil); !errs.IsKind(err, errs.NullArgument) {
		t.Fatalf("nil buffer: expected NullArgument, got %v", err)
	}
}

func TestChoice(t *testing.T) {
	c := MustNew(NewMT19937(9))
	items := []string{"a", "b", "c"}
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		v, err := Choice(c, items)
		if err != nil {
			t.Fatalf("Choice: %v", err)
		}
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Fatalf("choice over 1000 draws did not cover all items: %v", seen)
	}
	if _, err := Choice(c, []string{}); !errs.IsKind(err, errs.NullArgument) {
		t.Fatalf("empty collection: expected NullArgument, got %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	for name, g := range allGenerators(31) {
		// 推進到序列中段再快照
		for i := 0; i < 777; i++ {
			g.Uint32InclusiveMax()
		}
		snap, err := g.Snapshot()
		if err != nil {
			t.Fatalf("%s: snapshot: %v", name, err)
		}

		want := make([]uint32, 32)
		for i := range want {
			want[i] = g.Uint32InclusiveMax()
		}

		fresh := allGenerators(0)[name]
		if err := fresh.Restore(snap); err != nil {
			t.Fatalf("%s: restore: %v", name, err)
		}
		for i, w := range want {
			if got := fresh.Uint32InclusiveMax(); got != w {
				t.Fatalf("%s: restored draw %d = %d, want %d", name, i, got, w)
			}
		}

		if err := fresh.Restore(snap[:3]); err == nil {
			t.Fatalf("%s: truncated snapshot accepted", name)
		}
	}
}

func TestALFLagValidation(t *testing.T) {
	g := NewALF(13)
	twin := NewALF(13)

	if err := g.SetShortLag(0); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("short lag 0: expected InvalidParameter, got %v", err)
	}
	if err := g.SetShortLag(1500); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("short lag >= long lag: expected InvalidParameter, got %v", err)
	}
	if err := g.SetLongLag(10); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("long lag <= short lag: expected InvalidParameter, got %v", err)
	}

	// 被拒絕的設定不得影響輸出序列
	for i := 0; i < 200; i++ {
		if g.Uint32InclusiveMax() != twin.Uint32InclusiveMax() {
			t.Fatalf("rejected lag mutation changed output at %d", i)
		}
	}

	if _, err := NewALFWithLags(1, 0, 100); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("expected InvalidParameter, got %v", err)
	}
	if g.ShortLag() != alfDefaultShortLag || g.LongLag() != alfDefaultLongLag {
		t.Fatalf("lags mutated by rejected setters: %d/%d", g.ShortLag(), g.LongLag())
	}
}

func TestALFLagMutationForcesReset(t *testing.T) {
	g := NewALF(55)
	for i := 0; i < 100; i++ {
		g.Uint32InclusiveMax()
	}
	if err := g.SetLongLag(2281); err != nil {
		t.Fatalf("SetLongLag: %v", err)
	}
	want, err := NewALFWithLags(55, g.ShortLag(), 2281)
	if err != nil {
		t.Fatalf("NewALFWithLags: %v", err)
	}
	for i := 0; i < 200; i++ {
		if g.Uint32InclusiveMax() != want.Uint32InclusiveMax() {
			t.Fatalf("lag mutation did not reset cleanly at %d", i)
		}
	}
}

func TestMT19937SeedArray(t *testing.T) {
	key := []uint32{0x123, 0x234, 0x345, 0x456}
	g1, err := NewMT19937Key(key)
	if err != nil {
		t.Fatalf("NewMT19937Key: %v", err)
	}
	g2, _ := NewMT19937Key(key)
	for i := 0; i < 1000; i++ {
		if g1.Uint32InclusiveMax() != g2.Uint32InclusiveMax() {
			t.Fatalf("seed array init not deterministic at %d", i)
		}
	}

	if _, err := NewMT19937Key(nil); !errs.IsKind(err, errs.InvalidParameter) {
		t.Fatalf("empty key: expected InvalidParameter, got %v", err)
	}

	// seed array 與單一 seed 必須產生不同序列
	g3 := NewMT19937(key[0])
	same := true
	for i := 0; i < 16; i++ {
		if g1.Uint32InclusiveMax() != g3.Uint32InclusiveMax() {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("seed array path identical to single seed path")
	}
}

func TestEndToEndXorShiftSeed42(t *testing.T) {
	g := NewXorShift128(42)
	first := make([]uint32, 5)
	for i := range first {
		first[i] = g.Uint32InclusiveMax()
	}
	g.Reset(42)
	for i := 0; i < 5; i++ {
		if got := g.Uint32InclusiveMax(); got != first[i] {
			t.Fatalf("draw %d after reset = %d, want %d", i, got, first[i])
		}
	}
}

func TestFloat64Unit(t *testing.T) {
	for name, g := range allGenerators(17) {
		for i := 0; i < 100_000; i++ {
			v := g.Float64()
			if v < 0 || v >= 1 {
				t.Fatalf("%s: Float64 out of [0,1): %v", name, v)
			}
		}
	}
}
