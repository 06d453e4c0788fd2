package v1

import (
	"crypto/rand"
	"encoding/json"
	"math"
	"math/big"
	"net/http"

	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/dto"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/bitgen"
	"github.com/zintix-labs/randlab/server/httperr"
	"github.com/zintix-labs/randlab/server/svrcfg"
	"github.com/zintix-labs/randlab/spec"
)

// ============================================================
// ** DrawHandler **
// ============================================================

// DrawHandler 服務原始抽樣（/draw）與分布取樣（/sample）。
//
// 兩者共用同一套流程：
//  1. decode request（GET query / POST JSON）
//  2. resolve seed（未提供則由 crypto/rand 生成）
//  3. 建 Core；若請求帶 start_state 則先 Restore（回放/續抽）
//  4. 取 start 快照 → 抽樣 → 取 after 快照
//  5. 回傳樣本 + DrawState（start/after 快照，Base64URL）
type DrawHandler struct {
	lab *randlab.Randlab
	cap int
}

func NewDrawHandler(sCfg *svrcfg.SvrCfg) (*DrawHandler, error) {
	if sCfg == nil || sCfg.Randlab == nil {
		return nil, errs.NewNullArg("randlab is required")
	}
	return &DrawHandler{lab: sCfg.Randlab, cap: sCfg.DrawCap}, nil
}

func (h *DrawHandler) Draw(w http.ResponseWriter, q *http.Request) {
	// 請求方法、結構體校驗
	if q.Method != http.MethodGet && q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := dto.DecodeDrawRequest(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Valid(); err != nil {
		httperr.Errs(w, err)
		return
	}
	if req.N > h.cap {
		httperr.Errs(w, errs.InvalidParamf("n must be <= %d", h.cap))
		return
	}
	if req.Kind != "int" && req.Kind != "float" && req.Kind != "bool" {
		httperr.Errs(w, errs.NewInvalidParam("kind must be int/float/bool"))
		return
	}
	if req.HasRange {
		if req.Kind != "int" {
			httperr.Errs(w, errs.NewInvalidParam("range only applies to kind=int"))
			return
		}
		if req.Min < math.MinInt32 || req.Max > math.MaxInt32 || req.Min > req.Max {
			httperr.Errs(w, errs.InvalidParamf("range [%d,%d) out of int32 bounds", req.Min, req.Max))
			return
		}
	}

	seed, err := resolveSeed(req.Seed, req.HasSeed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	core, start, err := h.buildCore(req.Algo, seed, req.StartState)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	result := &dto.DrawResult{
		Algo: req.Algo,
		Seed: core.Seed(),
		Kind: req.Kind,
	}
	switch req.Kind {
	case "int":
		vs := make([]int, req.N)
		if req.HasRange {
			for i := range vs {
				v, rerr := core.NextRange(int32(req.Min), int32(req.Max))
				if rerr != nil {
					httperr.Errs(w, rerr)
					return
				}
				vs[i] = int(v)
			}
		} else {
			for i := range vs {
				vs[i] = int(core.Next())
			}
		}
		result.Ints = vs
	case "float":
		vs := make([]float64, req.N)
		for i := range vs {
			vs[i] = core.Float64()
		}
		result.Floats = vs
	case "bool":
		vs := make([]bool, req.N)
		for i := range vs {
			vs[i] = core.NextBool()
		}
		result.Bools = vs
	}

	after, err := dto.SnapshotState(core)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	result.State = dto.NewDrawState(start, after)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		httperr.Errs(w, err)
		return
	}
}

// buildCore 建出一顆 Core 並回傳起始快照。
// 若 ss 帶有 payload，會先 Restore 再取快照（回放/續抽語意）。
func (h *DrawHandler) buildCore(algo spec.AlgoKey, seed uint32, ss *dto.StartState) (*bitgen.Core, []byte, error) {
	core, err := h.lab.NewCoreWithSeed(algo, seed)
	if err != nil {
		return nil, nil, err
	}
	if ss.HasPayload() {
		snap, serr := ss.Snap()
		if serr != nil {
			return nil, nil, serr
		}
		if rerr := core.Restore(snap); rerr != nil {
			return nil, nil, errs.Wrap(rerr, "restore core snapshot failed")
		}
	}
	start, err := dto.SnapshotState(core)
	if err != nil {
		return nil, nil, err
	}
	return core, start, nil
}

// resolveSeed 決定本次請求使用的種子。
//   - has=true ：直接使用呼叫端指定的 seed（含 0）。
//   - has=false：由 crypto/rand 生成，避免未指定時的序列重疊。
func resolveSeed(seed uint32, has bool) (uint32, error) {
	if has {
		return seed, nil
	}
	rnd, err := rand.Int(rand.Reader, big.NewInt(math.MaxUint32))
	if err != nil {
		return 0, errs.NewInternal("seed generate failed")
	}
	return uint32(rnd.Uint64()), nil
}
