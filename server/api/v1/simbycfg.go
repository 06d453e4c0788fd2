package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/server/httperr"
)

// SimByCfg 傳入 JSON 套組設定 以及希望模擬的局數
//
// 與 /sim 的差異：設定不經過 Catalog，而是直接由 request body 提供。
// 適合在不重新部署的情況下驗證新的取樣器參數組合。
func (sh *SimHandler) SimByCfg(w http.ResponseWriter, r *http.Request) {
	type SimRequestByCfg struct {
		SamplerMode  int             `json:"sampler_mode"`
		Draws        int             `json:"draws"`
		SuiteSetting json.RawMessage `json:"cfg"`
		Seed         uint32          `json:"seed,omitempty"`
		HasSeed      bool            `json:"has_seed,omitempty"`
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// 1. decode request
	req := new(SimRequestByCfg)
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20) // 5MB
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httperr.Errs(w, errs.Wrap(err, "json decode failed"))
		return
	}

	// 2. valid draws / seed
	if req.Draws < 1 {
		httperr.Errs(w, errs.NewInvalidParam("draws must be at least 1"))
		return
	}
	if req.Draws > sh.simCap {
		httperr.Errs(w, errs.InvalidParamf("draws must be <= %d", sh.simCap))
		return
	}
	if req.SamplerMode < 0 {
		httperr.Errs(w, errs.NewInvalidParam("sampler_mode must be non-negative integer"))
		return
	}
	seed, err := resolveSeed(req.Seed, req.HasSeed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	// 3. NewSimulator
	sim, err := sh.Lab.NewSimulatorByJSON(req.SuiteSetting, seed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	result, _, err := sim.Sim(req.SamplerMode, req.Draws, false)
	if err != nil {
		httperr.Errs(w, err)
		return
	}

	// 4. 回傳 Json
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
