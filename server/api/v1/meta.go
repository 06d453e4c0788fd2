package v1

import (
	"encoding/json"
	"net/http"

	"github.com/zintix-labs/randlab/server/httperr"
)

// Algos 回傳已註冊的演算法鍵（JSON array）。
func (sh *SimHandler) Algos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sh.Lab.Algos())
}

// Suites 回傳 Catalog summary（供前端/工具列出可模擬的套組）。
func (sh *SimHandler) Suites(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	sum, err := sh.Lab.Summary()
	if err != nil {
		httperr.Errs(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(sum)
}
