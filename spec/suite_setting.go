package spec

import (
	"fmt"

	"github.com/zintix-labs/randlab/errs"
)

// SuiteSetting 包含啟動一個模擬套組所需的所有高階設定。
type SuiteSetting struct {
	SuiteName       string           `yaml:"suite_name"       json:"suite_name"`
	SuiteID         SID              `yaml:"suite_id"         json:"suite_id"`
	AlgoKey         AlgoKey          `yaml:"algo_key"         json:"algo_key"`
	Seed            uint32           `yaml:"seed"             json:"seed"`
	Draws           int              `yaml:"draws"            json:"draws"`
	Workers         int              `yaml:"workers"          json:"workers"`
	SamplerSettings []SamplerSetting `yaml:"sampler_settings" json:"sampler_settings"`
	Fixed           map[string]any   `yaml:"fixed"            json:"fixed"`
}

// init
func (ss *SuiteSetting) init() error {
	for i := range ss.SamplerSettings {
		sampler := &ss.SamplerSettings[i]
		if err := sampler.init(); err != nil {
			return err
		}
	}
	return ss.valid()
}

// valid 執行最基本的設定檔檢查，如需更多驗證可在此擴充。
func (ss *SuiteSetting) valid() error {

	if ss.SuiteName == "" {
		return errs.NewInvalidParam("empty suite_name")
	}

	// valid AlgoKey
	known := false
	for _, k := range KnownAlgoKeys() {
		if ss.AlgoKey == k {
			known = true
			break
		}
	}
	if !known {
		return errs.InvalidParamf("suite_name: %s err:unknown algo_key %q", ss.SuiteName, ss.AlgoKey)
	}

	if ss.Draws <= 0 {
		return errs.InvalidParamf("suite_name: %s err:draws must be positive, got %d", ss.SuiteName, ss.Draws)
	}
	if ss.Workers < 0 {
		return errs.InvalidParamf("suite_name: %s err:negative workers %d", ss.SuiteName, ss.Workers)
	}

	// 檢查 SamplerSettings 不能為空
	if len(ss.SamplerSettings) == 0 {
		return errs.NewInvalidParam(fmt.Sprintf("suite_name: %s err:empty sampler_settings", ss.SuiteName))
	}

	return nil
}
