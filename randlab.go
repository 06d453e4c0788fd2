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

// Package randlab 提供 Randlab 引擎的「組裝入口（assembler）」與「運行入口（runtime entry）」。
//
// 你可以把 Randlab 視為一個「可被後端/模擬器使用的 runtime」，它負責把下列兩個必需的地基組裝在一起，並提供建立 Simulator 的入口：
//  1. Catalog：套組目錄（Single Source of Truth / SSOT），定義有哪些模擬套組、各自對應的設定檔名稱（ConfigName）。
//  2. FactoryRegistry：演算法註冊表，提供「如何依據設定（AlgoKey）建出位元產生器」的 factories。
//
// 設計重點：
//   - Randlab 本身不綁定任何「檔案路徑」概念：設定檔來源一律以 fs.FS 的形式注入。
//   - Simulator 是對外提供批次取樣的最小單位；取樣器開發者主要操作的是 sdk 內的型別。
//
// 典型使用情境：
//   - 後端服務（HTTP）：由 Randlab 建立 Core / Simulator，對外提供抽樣與模擬。
//   - 模擬器（sim）：由 Randlab 建立多個 worker Core 進行大量取樣。
package randlab

import (
	"crypto/rand"
	"fmt"
	"io/fs"
	"math"
	"math/big"
	"path/filepath"
	"strings"

	"github.com/zintix-labs/randlab/catalog"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/bitgen"
	"github.com/zintix-labs/randlab/spec"
)

// Configs 用來把一或多個設定檔來源（fs.FS）打包成 New() 需要的參數。
//
// 為什麼是 fs.FS：
//   - 你可以用 go:embed 把 configs 直接編進 binary（部署最穩定，不依賴工作目錄）。
//   - 也可以用 os.DirFS 在本機開發時讀取目錄。
//
// Randlab 不解析「路徑」：它只依賴 fs.FS + ConfigName（檔名）來取得設定內容。
func Configs(cfgs ...fs.FS) []fs.FS {
	return cfgs
}

// Factories 用來把一或多個演算法註冊表打包成 New() 需要的參數。
//
// New() 會把多個 registries 合併成單一 registry；若出現重複 AlgoKey，會以 error 直接失敗。
func Factories(regs ...*FactoryRegistry) []*FactoryRegistry {
	return regs
}

// Randlab 是「組裝器（assembler）」與「運行入口（runtime entry）」：
//
// 它把兩個必需的地基組合起來：
//  1. Catalog：套組目錄，定義有哪些模擬套組、各自對應的設定檔名稱。
//  2. FactoryRegistry：演算法註冊表。
//
// 使用流程通常分成兩階段：
//   - 註冊/組裝階段（registration/build）：建立 catalog、合併 registries、檢查重複與缺漏。
//   - 執行階段（runtime）：依據套組 ID 產生 Simulator，或直接建立具名演算法的 Core。
//
// 重要設計原則：
//   - Catalog 的 ID 唯一性只保證在「同一個 Randlab instance」內。
//   - runtime 一旦開始（例如已對外服務），不建議再變更 Catalog/Registry。
type Randlab struct {
	cat *catalog.Catalog
	reg *FactoryRegistry
	sum []catalog.Summary
}

// New 建立一個 Randlab instance。
//
// 這是「組裝階段（registration/build）」的入口：
//   - 會建立 Catalog（通常同時做檔名存在性/重複性檢查，避免 runtime 才爆）。
//   - 會合併多個 FactoryRegistry 成為單一 registry（重複 AlgoKey 直接視為錯誤）。
//
// 參數要求（是合約的一部分）：
//   - cfgs 至少一個：沒有設定檔來源，Catalog 無法解析 SuiteSetting。
//   - regs 至少一個：沒有演算法 factories，就算解析出設定也建不出 Core。
func New(cfgs []fs.FS, regs []*FactoryRegistry) (*Randlab, error) {
	if len(cfgs) == 0 {
		return nil, errs.NewInvalidParam("configs required")
	}
	if len(regs) == 0 {
		return nil, errs.NewInvalidParam("factory registry required")
	}
	cata, err := catalog.New(cfgs...)
	if err != nil {
		return nil, err
	}
	reg, err := MergeFactoryRegistry(regs...)
	if err != nil {
		return nil, err
	}
	lab := &Randlab{
		cat: cata,
		reg: reg,
	}
	return lab, nil
}

// NewAuto 建立一個直接進入執行階段的 Randlab instance。
func NewAuto(cfgs []fs.FS, regs []*FactoryRegistry) (*Randlab, error) {
	lab, err := New(cfgs, regs)
	if err != nil {
		return nil, err
	}
	if err := lab.RegisterAll(); err != nil {
		return nil, err
	}
	lab.Freeze()
	return lab, nil
}

func (l *Randlab) Register(ents ...catalog.Entry) error {
	return l.cat.Register(ents...)
}

// RegisterAll
//
// 會掃描 catalog 持有的設定檔來源（fs.FS），把所有可辨識的設定檔（.yaml/.yml/.json）嘗試解析成
// *spec.SuiteSetting，並用設定檔內宣告的 SuiteID/SuiteName 產生對應的 catalog.Entry 來批次註冊。
//
// 行為特性（重要）：
//  1. Fail-fast：任何一個檔案讀取/解析/基本檢查失敗，都會立刻回傳 error（不會忽略、也不會繼續掃完）。
//  2. 原子性：只有當「全部檔案」都成功解析並通過基本檢查時，才會呼叫 Register(...) 一次性寫入。
//  3. 穩定性：會依檔名排序後再處理，確保行為 determinism（方便重現與除錯）。
//
// 注意：
//   - RegisterAll 只負責「把設定檔宣告的套組資訊放進 Catalog」。
//
// 演算法（Factory / FactoryRegistry）是否支援該 AlgoKey，在此一併檢查。
func (l *Randlab) RegisterAll() error {
	cfgs := l.cat.Cfg()
	sources := cfgs.Sources()
	if len(sources) == 0 {
		return errs.NewInvalidParam("configs required")
	}

	entries := make([]catalog.Entry, 0, 64)
	seenID := map[spec.SID]string{}
	seenName := map[string]string{}

	for _, src := range sources {
		walkErr := fs.WalkDir(src, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.InvalidParamf("configs must be flat (no subdir): %q", path)
			}

			base := filepath.Base(path)
			if strings.Contains(path, "/") && path != base {
				return errs.InvalidParamf("configs must be flat (nested path): %q", path)
			}
			if strings.HasPrefix(base, ".") {
				return nil
			}

			ext := strings.ToLower(filepath.Ext(base))
			if ext != ".yaml" && ext != ".yml" && ext != ".json" {
				return nil
			}

			raw, rerr := fs.ReadFile(src, path)
			if rerr != nil {
				return errs.InvalidParamf("read config failed: %s", base)
			}

			var (
				ss   *spec.SuiteSetting
				serr error
			)
			switch ext {
			case ".yaml", ".yml":
				ss, serr = spec.GetSuiteSettingByYAML(raw)
			case ".json":
				ss, serr = spec.GetSuiteSettingByJSON(raw)
			default:
				return errs.InvalidParamf("unsupported config format: %q", base)
			}
			if serr != nil {
				return errs.Wrap(serr, fmt.Sprintf("parse suite setting failed: %s", base))
			}

			name := strings.TrimSpace(ss.SuiteName)
			if name == "" {
				return errs.InvalidParamf("suite name required: %s", base)
			}

			id := ss.SuiteID
			if prev, ok := seenID[id]; ok {
				return errs.InvalidParamf("duplicate suite id: %d (config=%s and %s)", id, prev, base)
			}
			if _, ok := l.cat.GetByID(id); ok {
				return errs.InvalidParamf("suite id already registered: %d (config=%s)", id, base)
			}
			seenID[id] = base

			nameKey := strings.ToLower(name)
			if prev, ok := seenName[nameKey]; ok {
				return errs.InvalidParamf("duplicate suite name: %s (config=%s and %s)", nameKey, prev, base)
			}
			if _, ok := l.cat.GetByName(name); ok {
				return errs.InvalidParamf("suite name already registered: %s (config=%s)", name, base)
			}
			seenName[nameKey] = base

			if !l.reg.IsExist(ss.AlgoKey) {
				return errs.InvalidParamf("algo not registered: algo_key=%s (config=%s)", ss.AlgoKey, base)
			}

			entries = append(entries, catalog.Entry{
				SID:        id,
				Name:       name,
				ConfigName: base,
			})
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
	}

	if len(entries) == 0 {
		return errs.NewInvalidParam("no config files found to register")
	}

	return l.cat.Register(entries...)
}

func (l *Randlab) Freeze() {
	l.cat.Freeze()
}

func (l *Randlab) EntryById(id spec.SID) (catalog.Entry, bool) {
	return l.cat.GetByID(id)
}

func (l *Randlab) EntryByName(name string) (catalog.Entry, bool) {
	return l.cat.GetByName(name)
}

func (l *Randlab) IDs() []spec.SID {
	return l.cat.IDs()
}

func (l *Randlab) All() []catalog.Entry {
	return l.cat.All()
}

// Algos 回傳已註冊的演算法鍵。
func (l *Randlab) Algos() []spec.AlgoKey {
	return l.reg.Keys()
}

func (l *Randlab) Summary() ([]catalog.Summary, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewInvalidParam("catalog is not frozen yet")
	}
	if l.sum != nil {
		return l.sum, nil
	}
	ids := l.cat.IDs()
	cs := make([]catalog.Summary, 0, len(ids))
	for _, id := range ids {
		ss, err := l.cat.SuiteSettingById(id)
		if err != nil {
			return nil, errs.Wrap(err, "parse suite setting failed")
		}
		s := catalog.Summary{
			SID:     id,
			Name:    ss.SuiteName,
			AlgoKey: ss.AlgoKey,
			Draws:   ss.Draws,
		}
		cs = append(cs, s)
	}
	l.sum = cs
	return l.sum, nil
}

// NewCore 以已註冊的演算法建立一顆 Core（seed 由 crypto/rand 產生）。
func (l *Randlab) NewCore(key spec.AlgoKey) (*bitgen.Core, error) {
	seed, err := rand.Int(rand.Reader, big.NewInt(math.MaxUint32))
	if err != nil {
		return nil, errs.Wrap(err, "default seed failed")
	}
	return l.reg.Build(key, uint32(seed.Uint64()))
}

// NewCoreWithSeed 與 NewCore 相同，但由呼叫端指定初始 seed。
//
// 使用情境：
//   - 可重現的測試：同一個演算法 + 同一個 seed，應產生一致的隨機序列。
//
// 注意：seed 只是「出生入口」。若要在任意時間點完整重現，請使用產生器的 Snapshot/Restore。
func (l *Randlab) NewCoreWithSeed(key spec.AlgoKey, seed uint32) (*bitgen.Core, error) {
	return l.reg.Build(key, seed)
}

// NewSimulator 依據 Catalog 內的套組 ID 建立一個 Simulator。
//
// 行為：
//  1. 由 Catalog 取得對應的 SuiteSetting（通常來自 fs.FS 內的 YAML/JSON）。
//  2. 以 FactoryRegistry 產生 Core（seed 用設定檔內宣告的值）。
func (l *Randlab) NewSimulator(id spec.SID) (*Simulator, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewInvalidParam("catalog is not frozen yet")
	}
	ss, err := l.cat.SuiteSettingById(id)
	if err != nil {
		return nil, err
	}
	return newSimulator(ss, l.reg)
}

// NewSimulatorWithSeed 與 NewSimulator 相同，但覆寫設定檔內的 seed。
func (l *Randlab) NewSimulatorWithSeed(id spec.SID, seed uint32) (*Simulator, error) {
	if !l.cat.IsFrozen() {
		return nil, errs.NewInvalidParam("catalog is not frozen yet")
	}
	ss, err := l.cat.SuiteSettingById(id)
	if err != nil {
		return nil, err
	}
	return newSimulatorWithSeed(ss, l.reg, seed)
}

func (l *Randlab) NewSimulatorByJSON(raw []byte, seed uint32) (*Simulator, error) {
	cfg, err := spec.GetSuiteSettingByJSON(raw)
	if err != nil {
		return nil, err
	}
	if !l.reg.IsExist(cfg.AlgoKey) {
		return nil, errs.InvalidParamf("algo not registered: %s", cfg.AlgoKey)
	}
	return newSimulatorWithSeed(cfg, l.reg, seed)
}

func (l *Randlab) NewSimulatorByYAML(raw []byte, seed uint32) (*Simulator, error) {
	cfg, err := spec.GetSuiteSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	if !l.reg.IsExist(cfg.AlgoKey) {
		return nil, errs.InvalidParamf("algo not registered: %s", cfg.AlgoKey)
	}
	return newSimulatorWithSeed(cfg, l.reg, seed)
}
