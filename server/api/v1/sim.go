package v1

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/catalog"
	"github.com/zintix-labs/randlab/dto"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/server/httperr"
	"github.com/zintix-labs/randlab/server/svrcfg"
	"github.com/zintix-labs/randlab/stats"
)

type SimHandler struct {
	Lab    *randlab.Randlab
	simCap int
}

func NewSimHandler(sCfg *svrcfg.SvrCfg) (*SimHandler, error) {
	if sCfg == nil || sCfg.Randlab == nil {
		return nil, errs.NewNullArg("randlab is required")
	}
	return &SimHandler{Lab: sCfg.Randlab, simCap: sCfg.SimCap}, nil
}

// Sim 依套組執行模擬並回傳統計報表。
//
// 分派規則：
//   - runs > 1    → SimRuns（多獨立 run + run 彙整報表）
//   - workers > 1 → SimMP（多 worker 合併統計）
//   - 其他        → Sim（單線）
func (sh *SimHandler) Sim(w http.ResponseWriter, q *http.Request) {
	if q.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	req, err := dto.DecodeSimRequest(q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Valid(); err != nil {
		httperr.Errs(w, err)
		return
	}

	// 業務檢驗
	ent, err := sh.resolveEntry(req)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	workers := max(1, req.Workers)
	runs := max(1, req.Runs)
	if req.Draws*workers*runs > sh.simCap {
		httperr.Errs(w, errs.InvalidParamf("total draws must be <= %d", sh.simCap))
		return
	}

	seed, err := resolveSeed(req.Seed, req.HasSeed)
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	sim, err := sh.Lab.NewSimulatorWithSeed(ent.SID, seed)
	if err != nil {
		httperr.Errs(w, errs.Wrap(err, fmt.Sprintf("build simulator err: %d", ent.SID)))
		return
	}

	var (
		report *stats.DrawReport
		est    *stats.EstimatorRuns
		usedMs int64
	)
	switch {
	case runs > 1:
		st, es, used, serr := sim.SimRuns(req.SamplerMode, req.Draws, runs, workers, false)
		if serr != nil {
			httperr.Errs(w, errs.Wrap(serr, "simulate err"))
			return
		}
		report, est, usedMs = st, es, used.Milliseconds()
	case workers > 1:
		st, used, serr := sim.SimMP(req.SamplerMode, req.Draws, workers, false)
		if serr != nil {
			httperr.Errs(w, errs.Wrap(serr, "simulate err"))
			return
		}
		report, usedMs = st, used.Milliseconds()
	default:
		st, used, serr := sim.Sim(req.SamplerMode, req.Draws, false)
		if serr != nil {
			httperr.Errs(w, errs.Wrap(serr, "simulate err"))
			return
		}
		report, usedMs = st, used.Milliseconds()
	}

	resp := &dto.SimResult{
		SuiteName: ent.Name,
		SuiteID:   ent.SID,
		UsedMs:    usedMs,
		Report:    report,
		Runs:      est,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// resolveEntry 解析使用者指定的套組：suite_id 優先，其次 suite 名稱。
func (sh *SimHandler) resolveEntry(req *dto.SimRequest) (catalog.Entry, error) {
	if req.SuiteId != 0 {
		ent, ok := sh.Lab.EntryById(req.SuiteId)
		if !ok {
			return catalog.Entry{}, errs.NewInvalidParam("suite_id not found")
		}
		return ent, nil
	}
	ent, ok := sh.Lab.EntryByName(req.SuiteName)
	if !ok {
		return catalog.Entry{}, errs.NewInvalidParam("suite not found")
	}
	return ent, nil
}
