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

// Package corefmt 提供快照與紀錄資料的傳輸編碼：
//
//   - Base64URL：產生器快照走 JSON/HTTP 時的文字安全形式（dto 使用）。
//   - Blob frame：uvarint 長度前綴的二進位外框，適合落地檔案或串流
//     （recorder 的 Dump/Load 使用）。
package corefmt

import (
	"bufio"
	"encoding/base64"
	"encoding/binary"
	"io"

	"github.com/zintix-labs/randlab/errs"
)

// EncodeBase64URL 將 bytes 編成 URL-safe 的 base64 字串（無 padding）。
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeBase64URL 為 EncodeBase64URL 的反向操作。
func DecodeBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(err, "decode base64url failed")
	}
	return b, nil
}

// WriteBlobFrame 將 payload 以長度前綴外框寫入 w：
//
//	frame := uvarint(len(payload)) || payload
//
// 長度前綴讓多個 frame 可以直接串接在同一個檔案/串流裡。
// 注意：此格式非文字安全；走 JSON/HTTP 請改用 Base64URL。
func WriteBlobFrame(w io.Writer, payload []byte) error {
	var hdr [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(hdr[:], uint64(len(payload)))
	if _, err := w.Write(hdr[:n]); err != nil {
		return errs.Wrap(err, "write blob frame header failed")
	}
	if _, err := w.Write(payload); err != nil {
		return errs.Wrap(err, "write blob frame payload failed")
	}
	return nil
}

// ReadBlobFrame 自 r 讀回一個 frame 的 payload。
//
// maxBytes 是讀取不可信輸入時的配置上限（0 表示不設限）；
// 超限、前綴毀損或 payload 截斷都回傳 InvalidParameter。
func ReadBlobFrame(r io.Reader, maxBytes uint64) ([]byte, error) {
	br := bufio.NewReader(r)
	ln, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, errs.Wrap(err, "read blob frame header failed")
	}
	if maxBytes > 0 && ln > maxBytes {
		return nil, errs.NewInvalidParam("read blob frame failed: payload exceeds maxBytes")
	}
	buf := make([]byte, ln)
	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, errs.Wrap(err, "read blob frame payload failed")
	}
	return buf, nil
}
