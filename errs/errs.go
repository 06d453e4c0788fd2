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

package errs

import (
	"errors"
	"fmt"
)

// Kind : 錯誤分類，讓呼叫端能以程式方式判斷錯誤種類。
//
// 所有 randlab 的可失敗操作都以 Kind 區分失敗原因：
//   - NullArgument     : 必要的參考（generator、collection、buffer）缺席。
//   - InvalidParameter : 分布參數或 generator 設定（lag、seed array）未通過合法性判定。
//   - InvalidRange     : 任何 bounded 取樣呼叫出現 min > max。
//   - InfiniteBound    : 上界（或 max-min 差）為無限大，縮放計算失去意義。
//   - UnsupportedMoment: 查詢了數學上未定義的動差（例如 Binomial 的中位數），
//     屬「可預期且可處理」的錯誤，呼叫端應視為正常流程而非 bug。
//   - Internal         : 其餘系統性錯誤（I/O、解碼失敗等）。
type Kind uint8

const (
	None Kind = iota
	NullArgument
	InvalidParameter
	InvalidRange
	InfiniteBound
	UnsupportedMoment
	Internal
)

var kindMap = map[Kind]string{
	None:              "",
	NullArgument:      "null-argument",
	InvalidParameter:  "invalid-parameter",
	InvalidRange:      "invalid-range",
	InfiniteBound:     "infinite-bound",
	UnsupportedMoment: "unsupported-moment",
	Internal:          "internal",
}

func KindStr(k Kind) string {
	if str, ok := kindMap[k]; ok {
		return str
	}
	return ""
}

// E 是統一的錯誤型別。
// Message 為經過樣板格式化後的主訊息；Extra 為呼叫端可追加的額外上下文；
// Cause 可串接下層錯誤（wrap）；Kind 表示錯誤分類（見上）。
type E struct {
	Message string
	Extra   string
	Cause   error
	Kind    Kind
}

// Error 實作 error 介面並回傳格式化後的錯誤訊息。
func (e *E) Error() string {
	base := fmt.Sprintf("kind=%s %s", KindStr(e.Kind), e.Message)
	if e.Extra != "" {
		base += " | extra: " + e.Extra
	}
	if e.Cause != nil {
		base += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return base
}

// Unwrap 讓 errors.Is / errors.As 能夠向下展開。
func (e *E) Unwrap() error { return e.Cause }

// New 依錯誤分類與訊息建立錯誤
func New(kind Kind, msg string) *E {
	return &E{Message: msg, Kind: kind}
}

func NewNullArg(msg string) *E {
	return &E{Message: msg, Kind: NullArgument}
}

func NewInvalidParam(msg string) *E {
	return &E{Message: msg, Kind: InvalidParameter}
}

func NewInvalidRange(msg string) *E {
	return &E{Message: msg, Kind: InvalidRange}
}

func NewInfiniteBound(msg string) *E {
	return &E{Message: msg, Kind: InfiniteBound}
}

func NewUnsupportedMoment(msg string) *E {
	return &E{Message: msg, Kind: UnsupportedMoment}
}

func NewInternal(msg string) *E {
	return &E{Message: msg, Kind: Internal}
}

func InvalidParamf(format string, a ...any) *E {
	return NewInvalidParam(fmt.Sprintf(format, a...))
}

func InvalidRangef(format string, a ...any) *E {
	return NewInvalidRange(fmt.Sprintf(format, a...))
}

func Internalf(format string, a ...any) *E {
	return NewInternal(fmt.Sprintf(format, a...))
}

// NewWithExtra 與 New 相同，但可附加額外上下文字串（不影響主訊息）。
func NewWithExtra(kind Kind, msg string, extra string) *E {
	e := New(kind, msg)
	e.Extra = extra
	return e
}

// Wrap 使用給定的訊息包裝底層錯誤，建立一個 *E。
//
// Kind 規則：
//   - 若 cause 已經是 *E，則沿用其 Kind（保持原本分類）。
//   - 若 cause 不是本包定義的 *E（多半是標準庫或三方依賴錯誤），則 Kind 一律視為 Internal。
//
// 建議使用方式：
//   - 若你已判斷該錯誤的具體分類，請直接以 New / NewWithExtra 建立 *E
//     並自行指定 Kind，而不要對其呼叫 Wrap。
func Wrap(cause error, msg string) *E {
	var e *E
	kind := Internal
	if errors.As(cause, &e) {
		kind = e.Kind
	}
	r := New(kind, msg)
	r.Cause = cause
	return r
}

// WrapWithExtra 使用給定的訊息與上下文包裝底層錯誤，建立一個 *E。
// Kind 規則同 Wrap。
func WrapWithExtra(cause error, msg string, extra string) *E {
	var e *E
	kind := Internal
	if errors.As(cause, &e) {
		kind = e.Kind
	}
	r := NewWithExtra(kind, msg, extra)
	r.Cause = cause
	return r
}

func AsErr(err error) (*E, bool) {
	var e *E
	if errors.As(err, &e) {
		return e, true
	}
	return e, false
}

// IsKind 回傳 err（或其 wrap 鏈）是否屬於指定分類。
func IsKind(err error, kind Kind) bool {
	var e *E
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
