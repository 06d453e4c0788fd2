package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/dto"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/server/httperr"
)

// Sample 執行分布取樣：以請求指定的演算法 + 取樣器設定抽 N 個樣本。
//
// 與 Draw 的差異：
//   - 樣本經過分布變換（NextDouble），一律以 float64 回傳。
//   - 回應附帶該分布的理論動差（未定義者為 null）。
//
// 回放/續抽語意與 Draw 相同：start_state 帶快照則 Restore，
// 回應一律附上 start/after 快照。
func (h *DrawHandler) Sample(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := dto.DecodeSampleRequest(q)
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

	d, err := randlab.BuildSampler(req.Sampler, core)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	values := make([]float64, req.N)
	for i := range values {
		values[i] = d.NextDouble()
	}

	after, err := dto.SnapshotState(core)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	result := &dto.SampleResult{
		Algo:    req.Algo,
		Seed:    core.Seed(),
		Sampler: req.Sampler.Kind,
		Values:  values,
		Moments: dto.NewMomentsDTO(d),
		State:   dto.NewDrawState(start, after),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		httperr.Errs(w, err)
		return
	}
}
