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

package dto

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/zintix-labs/randlab/corefmt"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/spec"
)

// DrawRequest 為原始抽樣的請求。
type DrawRequest struct {
	Algo     spec.AlgoKey `json:"algo"`                // 演算法鍵
	Seed     uint32       `json:"seed,omitempty"`      // 可選：初始種子（允許為 0）
	HasSeed  bool         `json:"has_seed,omitempty"`  // 可選：是否有「提供種子」
	N        int          `json:"n"`                   // 樣本數
	Kind     string       `json:"kind"`                // int / float / bool
	Min      int          `json:"min,omitempty"`       // 可選：整數下界（含）
	Max      int          `json:"max,omitempty"`       // 可選：整數上界（不含）
	HasRange bool         `json:"has_range,omitempty"`
	// Contract（強硬約束，避免 seed=0 的雙重語意）：
	//   - 若 has_seed 為 false（或未提供），則 seed 必須省略；否則視為 request 格式錯誤。
	//   - 若 has_seed 為 true，則視為有種子；seed 若省略則視為 0。
	StartState *StartState `json:"start_state,omitempty"` // 可選：由業務端帶入的產生器狀態（nil=新序列；帶 start_b64u=回放/續抽）。
}

// SampleRequest 為分布取樣的請求。
type SampleRequest struct {
	Algo       spec.AlgoKey        `json:"algo"`
	Seed       uint32              `json:"seed,omitempty"`
	HasSeed    bool                `json:"has_seed,omitempty"`
	N          int                 `json:"n"`
	Sampler    spec.SamplerSetting `json:"sampler"`
	StartState *StartState         `json:"start_state,omitempty"`
}

// SimRequest 為模擬的請求。
type SimRequest struct {
	SuiteName   string   `json:"suite,omitempty"`
	SuiteId     spec.SID `json:"suite_id,omitempty"`
	SamplerMode int      `json:"sampler_mode"`
	Draws       int      `json:"draws"`
	Workers     int      `json:"workers,omitempty"`
	Runs        int      `json:"runs,omitempty"`
	Seed        uint32   `json:"seed,omitempty"`
	HasSeed     bool     `json:"has_seed,omitempty"`
}

// DecodeDrawRequest 會把 HTTP 請求解碼成 DrawRequest。
//
// 支援：
//   - GET：從 query string 讀取參數（algo/seed/has_seed/n/kind/min/max/has_range）。
//     注意：GET 建議僅用於「新序列」或簡單測試；巢狀狀態（start_state）建議使用 POST。
//   - POST：從 JSON body 反序列化（支援 start_state）。
//
// StartState（start_state）語意：
//   - start_state 缺省 / 為 null / 為空物件：視為「新序列」。
//   - start_state.start_b64u 有值：視為「回放（replay）/ 續抽（resume）」。
//   - 引擎的輸入只接受 start_b64u（Start）；after_b64u 只會出現在回應（DrawState），請求端不得自行填寫 after。
//
// 注意：
//   - 這裡只負責「解碼（decode）」與基本型別轉換，不做任何取樣合法性校驗；
//     合法性（例如該 Algo 是否存在、range 是否可用）應由上層（Router/Lab）決定。
//   - 為避免過大 body 影響服務，POST 會對 body 做大小限制（預設 1MiB）。
//   - POST 會開啟 DisallowUnknownFields()，對未知欄位採用嚴格拒絕，以避免靜默丟資料。
func DecodeDrawRequest(r *http.Request) (*DrawRequest, error) {
	if r == nil {
		return nil, errs.NewNullArg("nil request")
	}

	req := new(DrawRequest)

	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Algo = spec.AlgoKey(q.Get("algo"))
		req.Kind = q.Get("kind")

		if s := q.Get("seed"); s != "" {
			u, err := strconv.ParseUint(s, 10, 32)
			if err != nil {
				return nil, errs.InvalidParamf("invalid seed: %v", err)
			}
			req.Seed = uint32(u)
		}

		if s := q.Get("has_seed"); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, errs.NewInvalidParam("invalid has_seed value " + err.Error())
			}
			req.HasSeed = v
		}

		if s := q.Get("n"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.InvalidParamf("invalid n: %v", err)
			}
			req.N = v
		}

		if s := q.Get("min"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.InvalidParamf("invalid min: %v", err)
			}
			req.Min = v
		}

		if s := q.Get("max"); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil {
				return nil, errs.InvalidParamf("invalid max: %v", err)
			}
			req.Max = v
		}

		if s := q.Get("has_range"); s != "" {
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, errs.NewInvalidParam("invalid has_range value " + err.Error())
			}
			req.HasRange = v
		}

		return req, nil

	case http.MethodPost:
		if err := decodeStrictJSON(r, req); err != nil {
			return nil, err
		}
		return req, nil

	default:
		return nil, fmt.Errorf("method not allowed")
	}
}

// DecodeSampleRequest 會把 HTTP POST 請求解碼成 SampleRequest。
func DecodeSampleRequest(r *http.Request) (*SampleRequest, error) {
	if r == nil {
		return nil, errs.NewNullArg("nil request")
	}
	if r.Method != http.MethodPost {
		return nil, fmt.Errorf("method not allowed")
	}
	req := new(SampleRequest)
	if err := decodeStrictJSON(r, req); err != nil {
		return nil, err
	}
	return req, nil
}

// DecodeSimRequest 會把 HTTP POST 請求解碼成 SimRequest。
func DecodeSimRequest(r *http.Request) (*SimRequest, error) {
	if r == nil {
		return nil, errs.NewNullArg("nil request")
	}
	if r.Method != http.MethodPost {
		return nil, fmt.Errorf("method not allowed")
	}
	req := new(SimRequest)
	if err := decodeStrictJSON(r, req); err != nil {
		return nil, err
	}
	return req, nil
}

// 防止 body 過大（預設 1MiB）
func decodeStrictJSON(r *http.Request, out any) error {
	const maxBody = 1 << 20
	body := io.LimitReader(r.Body, maxBody)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// StartState 是由業務端帶入的「產生器可恢復狀態」（可選）。
//
// 設計目標：
//   - 讓引擎維持純計算器（stateless / deterministic），而「可回放/可續抽」所需的狀態由業務端保存與回送。
//   - 新序列：start_state 缺省即可；引擎會自行產生內部狀態並在回應中回傳 Start/After。
//   - 回放（Replay）：業務端帶入當初記錄的 start_b64u，即可在相同輸入條件下重現該批樣本。
//   - 續抽（Resume）：業務端把上一批回應的 after_b64u 當作下一批的 start_b64u，以延續隨機流水。
//
// 重要約束：
//   - Request 只允許提供 Start（start_b64u）；After（after_b64u）只會由引擎在 Response 回傳。
type StartState struct {
	// StartSnapB64U：產生器的「起始快照」Base64URL（URL-safe base64）字串。
	//   - 缺省：視為新序列（引擎自行起始）。
	//   - 有值：視為回放/續抽（引擎從該快照 restore）。
	StartSnapB64U string `json:"start_b64u,omitempty"`
}

func (ss *StartState) HasPayload() bool {
	if ss == nil {
		return false
	}
	return ss.StartSnapB64U != ""
}

// Snap 解回快照 bytes；無 payload 時回傳 nil。
func (ss *StartState) Snap() ([]byte, error) {
	if !ss.HasPayload() {
		return nil, nil
	}
	snap, err := corefmt.DecodeBase64URL(ss.StartSnapB64U)
	if err != nil {
		return nil, errs.NewInvalidParam("core snap decode failed " + err.Error())
	}
	return snap, nil
}

// Valid 檢查 seed 合約。
func (dr *DrawRequest) Valid() error {
	if !dr.HasSeed && dr.Seed != 0 {
		return errs.NewInvalidParam("has_seed is false but seed is not zero")
	}
	if dr.N < 1 {
		return errs.NewInvalidParam("n must > 0")
	}
	return nil
}

func (sr *SampleRequest) Valid() error {
	if !sr.HasSeed && sr.Seed != 0 {
		return errs.NewInvalidParam("has_seed is false but seed is not zero")
	}
	if sr.N < 1 {
		return errs.NewInvalidParam("n must > 0")
	}
	return nil
}

func (sr *SimRequest) Valid() error {
	if !sr.HasSeed && sr.Seed != 0 {
		return errs.NewInvalidParam("has_seed is false but seed is not zero")
	}
	if sr.Draws < 1 {
		return errs.NewInvalidParam("draws must > 0")
	}
	if sr.SuiteName == "" && sr.SuiteId == 0 {
		return errs.NewInvalidParam("suite or suite_id required")
	}
	return nil
}
