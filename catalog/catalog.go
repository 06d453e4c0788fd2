package catalog

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/spec"
)

var (
	ErrDupID   = errs.NewInvalidParam("duplicate suite id")
	ErrDupName = errs.NewInvalidParam("duplicate suite name")
)

type Entry struct {
	SID        spec.SID
	Name       string
	ConfigName string
}

type Summary struct {
	SID     spec.SID     `json:"sid"`
	Name    string       `json:"name"`
	AlgoKey spec.AlgoKey `json:"algo_key"`
	Draws   int          `json:"draws"`
}

type Catalog struct {
	byID   map[spec.SID]Entry
	byName map[string]Entry
	ids    []spec.SID          // 用來穩定排序
	unique map[string]struct{} // 一組套組，檔名需唯一
	config *multiFS
	frozen bool
}

func New(cfg ...fs.FS) (*Catalog, error) {
	multFS, err := newMultiFS(cfg...)
	if err != nil {
		return nil, errs.Wrap(err, "can not create catalog")
	}
	return &Catalog{
		byID:   map[spec.SID]Entry{},
		byName: map[string]Entry{},
		ids:    make([]spec.SID, 0, 100),
		unique: map[string]struct{}{},
		config: multFS,
		frozen: false,
	}, nil
}

func (c *Catalog) Register(metas ...Entry) error {
	if c.frozen {
		return errs.NewInvalidParam("can not register when catalog already frozen")
	}
	seenID := map[spec.SID]struct{}{}
	seenName := map[string]struct{}{}
	seenCfg := map[string]struct{}{}
	for _, meta := range metas {
		meta.Name = strings.TrimSpace(meta.Name)
		meta.Name = strings.ToLower(meta.Name)
		if meta.Name == "" {
			return errs.NewInvalidParam("suite name required")
		}
		if err := validFileName(meta.ConfigName); err != nil {
			return err
		}
		if _, ok := c.config.index[meta.ConfigName]; !ok {
			return errs.InvalidParamf("config file not found: %s", meta.ConfigName)
		}
		if _, ok := c.byID[meta.SID]; ok {
			return ErrDupID
		}
		if _, ok := c.byName[meta.Name]; ok {
			return ErrDupName
		}
		if _, ok := c.unique[meta.ConfigName]; ok {
			return errs.InvalidParamf("duplicate config name: %s", meta.ConfigName)
		}
		if _, ok := seenID[meta.SID]; ok {
			return ErrDupID
		}
		if _, ok := seenName[meta.Name]; ok {
			return ErrDupName
		}
		if _, ok := seenCfg[meta.ConfigName]; ok {
			return errs.InvalidParamf("duplicate config name: %s", meta.ConfigName)
		}
		seenID[meta.SID] = struct{}{}
		seenName[meta.Name] = struct{}{}
		seenCfg[meta.ConfigName] = struct{}{}
	}
	for _, meta := range metas {
		c.unique[meta.ConfigName] = struct{}{}
		c.byID[meta.SID] = meta
		c.byName[meta.Name] = meta
		c.ids = append(c.ids, meta.SID)
	}
	sort.Slice(c.ids, func(i, j int) bool { return c.ids[i] < c.ids[j] })
	return nil
}

func (c *Catalog) GetByID(id spec.SID) (Entry, bool) {
	m, ok := c.byID[id]
	return m, ok
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	m, ok := c.byName[name]
	return m, ok
}

func (c *Catalog) IDs() []spec.SID {
	if len(c.ids) == 0 {
		return nil
	}
	return append([]spec.SID(nil), c.ids...)
}

func (c *Catalog) All() []Entry {
	order := c.IDs()
	m := make([]Entry, 0, len(c.ids))
	for _, id := range order {
		if meta, ok := c.GetByID(id); ok {
			m = append(m, meta)
		}
	}
	return m
}

func (c *Catalog) Cfg() *multiFS {
	return c.config
}

func (c *Catalog) Freeze() {
	c.frozen = true
}

func (c *Catalog) IsFrozen() bool {
	return c.frozen
}

func validFileName(file string) error {
	if file == "" {
		return errs.NewInvalidParam("empty config filename")
	}
	// 1) 不能包含路徑或類似字元
	if strings.ContainsAny(file, `/\:`) {
		return errs.InvalidParamf("invalid config filename: %q (must be a basename; no / \\\\ :) ", file)
	}
	// 2) 必須以 .yaml/.yml/.json 結尾（大小寫不敏感）
	lower := strings.ToLower(file)
	if !(strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")) {
		return errs.InvalidParamf("invalid config filename: %q (must end with .yaml, .yml, or .json)", file)
	}
	// 3) 不能以 . 開頭（防止直接 .yaml / .yml）
	if strings.HasPrefix(file, ".") {
		return errs.InvalidParamf("invalid config filename: %q (cannot start with '.')", file)
	}
	return nil
}

func parseSuiteSettingByExt(filename string, raw []byte) (*spec.SuiteSetting, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return spec.GetSuiteSettingByYAML(raw)
	case ".json":
		return spec.GetSuiteSettingByJSON(raw)
	default:
		return nil, errs.InvalidParamf("unsupported config format: %q", filename)
	}
}

// SuiteSettingById
//
// 會讀取 fs.FS 中的 YAML/JSON 設定、初始化各子設定並執行基本檢查後回傳
func (c *Catalog) SuiteSettingById(id spec.SID) (*spec.SuiteSetting, error) {
	e, ok := c.GetByID(id)
	if !ok {
		return nil, errs.NewInvalidParam("id dose not exist in catalog")
	}
	return c.loadSuiteSetting(e)
}

// SuiteSettingByName
//
// 會讀取fs中的 YAML/JSON 設定、初始化各子設定並執行基本檢查後回傳
func (c *Catalog) SuiteSettingByName(name string) (*spec.SuiteSetting, error) {
	e, ok := c.GetByName(name)
	if !ok {
		return nil, errs.NewInvalidParam("name dose not exist in catalog")
	}
	return c.loadSuiteSetting(e)
}

func (c *Catalog) loadSuiteSetting(e Entry) (*spec.SuiteSetting, error) {
	src, ok := c.config.GetFS(e.ConfigName)
	if !ok {
		return nil, errs.NewInvalidParam("file name dose not exist in catalog")
	}
	raw, err := fs.ReadFile(src, e.ConfigName)
	if err != nil {
		return nil, errs.Wrap(err, "catalog parse file error")
	}
	return parseSuiteSettingByExt(e.ConfigName, raw)
}

type multiFS struct {
	src   []fs.FS
	index map[string]int // name -> src index
}

func newMultiFS(src ...fs.FS) (*multiFS, error) {
	if len(src) == 0 {
		return nil, errs.NewInvalidParam("no fs provided")
	}
	for i, s := range src {
		if s == nil {
			return nil, errs.InvalidParamf("fs[%d] is nil", i)
		}
	}

	m := &multiFS{
		src:   src,
		index: make(map[string]int, 256),
	}

	// eager validate: build index and detect duplicates
	for i := 0; i < len(src); i++ {
		err := fs.WalkDir(src[i], ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				// Suite configs are intentionally required to be a *flat* directory.
				// Only the root "." is allowed. Any subdirectory presence is a contract violation,
				// even if it contains no yaml/json files.
				if path == "." {
					return nil
				}
				return errs.InvalidParamf("config FS must be flat (no subdirectories): %q", path)
			}

			if strings.Contains(path, "/") {
				return errs.InvalidParamf("config FS must be flat (no subdirectories): %q", path)
			}

			// Only index yaml/json configs; ignore any other assets that may exist in the FS.
			lower := strings.ToLower(path)
			if !(strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")) {
				return nil
			}

			name := path // flat FS guarantees path is a basename

			if prev, ok := m.index[name]; ok {
				// duplicate across FS: fail fast
				return errs.InvalidParamf("duplicate config %q in fs[%d] and fs[%d]", name, prev, i)
			}
			m.index[name] = i
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *multiFS) GetFS(name string) (fs.FS, bool) {
	if id, ok := m.index[name]; ok {
		return m.src[id], ok
	}
	return nil, false
}

// Sources exposes config FS sources for read-only iteration.
func (m *multiFS) Sources() []fs.FS {
	if m == nil || len(m.src) == 0 {
		return nil
	}
	return append([]fs.FS(nil), m.src...)
}
