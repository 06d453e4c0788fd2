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

// 產生器狀態的序列化輔助：Snapshot/Restore 以「明確欄位、固定順序、big-endian」
// 編碼內部 state record，不依賴反射。

package bitgen

import "github.com/zintix-labs/randlab/errs"

// AppendUint64 以 big-endian 追加一個 u64 欄位。
func AppendUint64(b []byte, v uint64) []byte {
	return append(b,
		byte(v>>56),
		byte(v>>48),
		byte(v>>40),
		byte(v>>32),
		byte(v>>24),
		byte(v>>16),
		byte(v>>8),
		byte(v),
	)
}

// AppendUint32 以 big-endian 追加一個 u32 欄位。
func AppendUint32(b []byte, v uint32) []byte {
	return append(b,
		byte(v>>24),
		byte(v>>16),
		byte(v>>8),
		byte(v),
	)
}

// AppendBool 追加一個 bool 欄位（1 byte：0/1）。
func AppendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

// stateDec 依序讀出 Snapshot 寫入的欄位；任何越界讀取都會記錄在 err，
// 呼叫端在讀完後檢查一次即可。
type stateDec struct {
	b   []byte
	off int
	err error
}

func (d *stateDec) u64() uint64 {
	if d.err != nil {
		return 0
	}
	if d.off+8 > len(d.b) {
		d.err = errs.NewInternal("bitgen: snapshot truncated")
		return 0
	}
	b := d.b[d.off:]
	d.off += 8
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 | uint64(b[3])<<32 |
		uint64(b[4])<<24 | uint64(b[5])<<16 | uint64(b[6])<<8 | uint64(b[7])
}

func (d *stateDec) u32() uint32 {
	if d.err != nil {
		return 0
	}
	if d.off+4 > len(d.b) {
		d.err = errs.NewInternal("bitgen: snapshot truncated")
		return 0
	}
	b := d.b[d.off:]
	d.off += 4
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func (d *stateDec) bool() bool {
	if d.err != nil {
		return false
	}
	if d.off+1 > len(d.b) {
		d.err = errs.NewInternal("bitgen: snapshot truncated")
		return false
	}
	v := d.b[d.off]
	d.off++
	return v == 1
}

// done 確認解碼剛好耗盡整個 snapshot。
func (d *stateDec) done() error {
	if d.err != nil {
		return d.err
	}
	if d.off != len(d.b) {
		return errs.NewInternal("bitgen: snapshot has trailing bytes")
	}
	return nil
}
