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
	"encoding/binary"
	"io"
	"math"

	"github.com/zintix-labs/randlab/corefmt"
	"github.com/zintix-labs/randlab/errs"
)

// 單個 dump 的配置上限；一份紀錄遠小於此值。
const dumpMaxBytes uint64 = 1 << 20

// Dump 將紀錄員目前的累積狀態寫入 w（blob frame 外框 + 固定順序二進位欄位）。
//
// 浮點欄位以 IEEE-754 bits 編碼，NaN（無理論動差）與 ±Inf（尚無樣本的
// min/max）都能原樣還原。用途：長時間模擬的中途落地。
func (r *DrawRecorder) Dump(w io.Writer) error {
	if w == nil {
		return errs.NewNullArg("recorder: nil writer")
	}
	b := make([]byte, 0, 64+len(r.Algo)+len(r.Sampler)+len(r.Hist.Collect)*8)
	b = appendDumpString(b, r.Algo)
	b = appendDumpString(b, r.Sampler)
	b = binary.BigEndian.AppendUint32(b, r.Seed)
	b = binary.BigEndian.AppendUint64(b, uint64(r.Unit))
	b = binary.BigEndian.AppendUint64(b, uint64(r.Basic.Draws))
	b = appendDumpFloat(b, r.Basic.Sum)
	b = appendDumpFloat(b, r.Basic.SqSum)
	b = appendDumpFloat(b, r.Basic.Min)
	b = appendDumpFloat(b, r.Basic.Max)
	b = appendDumpFloat(b, r.Basic.TheoryMu)
	b = appendDumpFloat(b, r.Basic.TheoryVar)
	b = binary.BigEndian.AppendUint64(b, uint64(len(r.Hist.Collect)))
	for _, c := range r.Hist.Collect {
		b = binary.BigEndian.AppendUint64(b, uint64(c))
	}
	return corefmt.WriteBlobFrame(w, b)
}

// LoadDrawRecorder 自 rd 讀回一個 Dump 寫出的紀錄員。
//
// 載回的紀錄員可以繼續 Record、參與 Merge 或直接 Done 出報表。
func LoadDrawRecorder(rd io.Reader) (*DrawRecorder, error) {
	if rd == nil {
		return nil, errs.NewNullArg("recorder: nil reader")
	}
	payload, err := corefmt.ReadBlobFrame(rd, dumpMaxBytes)
	if err != nil {
		return nil, err
	}

	d := &dumpDec{b: payload}
	algo := d.str()
	sampler := d.str()
	seed := d.u32()
	unit := int(d.u64())
	draws := int(d.u64())
	sum := d.f64()
	sqSum := d.f64()
	minV := d.f64()
	maxV := d.f64()
	theoryMu := d.f64()
	theoryVar := d.f64()
	n := int(d.u64())
	if d.err != nil {
		return nil, d.err
	}

	r, err := NewDrawRecorder(algo, sampler, seed, unit)
	if err != nil {
		return nil, err
	}
	if n != len(r.Hist.Collect) {
		return nil, errs.InvalidParamf("recorder: dump bucket count %d mismatch", n)
	}
	for i := range r.Hist.Collect {
		r.Hist.Collect[i] = int(d.u64())
	}
	if err := d.done(); err != nil {
		return nil, err
	}

	r.Basic.Draws = draws
	r.Basic.Sum = sum
	r.Basic.SqSum = sqSum
	r.Basic.Min = minV
	r.Basic.Max = maxV
	r.Basic.TheoryMu = theoryMu
	r.Basic.TheoryVar = theoryVar
	return r, nil
}

func appendDumpString(b []byte, s string) []byte {
	b = binary.BigEndian.AppendUint64(b, uint64(len(s)))
	return append(b, s...)
}

func appendDumpFloat(b []byte, v float64) []byte {
	return binary.BigEndian.AppendUint64(b, math.Float64bits(v))
}

// dumpDec 依序讀出 Dump 寫入的欄位；任何越界讀取記錄在 err，讀完檢查一次。
type dumpDec struct {
	b   []byte
	off int
	err error
}

func (d *dumpDec) u64() uint64 {
	if d.err != nil {
		return 0
	}
	if d.off+8 > len(d.b) {
		d.err = errs.NewInvalidParam("recorder: dump truncated")
		return 0
	}
	v := binary.BigEndian.Uint64(d.b[d.off:])
	d.off += 8
	return v
}

func (d *dumpDec) u32() uint32 {
	if d.err != nil {
		return 0
	}
	if d.off+4 > len(d.b) {
		d.err = errs.NewInvalidParam("recorder: dump truncated")
		return 0
	}
	v := binary.BigEndian.Uint32(d.b[d.off:])
	d.off += 4
	return v
}

func (d *dumpDec) f64() float64 {
	return math.Float64frombits(d.u64())
}

func (d *dumpDec) str() string {
	n := d.u64()
	if d.err != nil {
		return ""
	}
	if n > uint64(len(d.b)-d.off) {
		d.err = errs.NewInvalidParam("recorder: dump truncated")
		return ""
	}
	s := string(d.b[d.off : d.off+int(n)])
	d.off += int(n)
	return s
}

// done 確認解碼剛好耗盡整份 dump。
func (d *dumpDec) done() error {
	if d.err != nil {
		return d.err
	}
	if d.off != len(d.b) {
		return errs.NewInvalidParam("recorder: dump has trailing bytes")
	}
	return nil
}
