package spec

import (
	"encoding/json"

	"github.com/zintix-labs/randlab/errs"
	"gopkg.in/yaml.v3"
)

// GetSuiteSettingByYAML
// 會讀取 YAML 設定、初始化各子設定並執行基本檢查後回傳。
func GetSuiteSettingByYAML(data []byte) (*SuiteSetting, error) {
	ss := &SuiteSetting{}
	if err := yaml.Unmarshal(data, ss); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := ss.init(); err != nil {
		return nil, errs.Wrap(err, "suite setting initialized err")
	}

	return ss, nil
}

// GetSuiteSettingByJSON
// 會讀取 Json 設定、初始化各子設定並執行基本檢查後回傳
func GetSuiteSettingByJSON(data []byte) (*SuiteSetting, error) {
	ss := &SuiteSetting{}
	if err := json.Unmarshal(data, ss); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := ss.init(); err != nil {
		return nil, errs.Wrap(err, "suite setting initialized err")
	}

	return ss, nil
}
