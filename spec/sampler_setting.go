package spec

import (
	"github.com/zintix-labs/randlab/errs"
)

// SamplerSetting 描述套組內的一個取樣器及其參數。
//
// 欄位依 Kind 取用：alpha/beta/lambda/mu/sigma/weights，未用到的欄位忽略。
// 這裡只做格式層級的基本檢查；參數的完整驗證由分布建構子負責。
type SamplerSetting struct {
	Kind    SamplerKey `yaml:"kind"    json:"kind"`
	Alpha   float64    `yaml:"alpha"   json:"alpha"`
	Beta    float64    `yaml:"beta"    json:"beta"`
	Lambda  float64    `yaml:"lambda"  json:"lambda"`
	Mu      float64    `yaml:"mu"      json:"mu"`
	Sigma   float64    `yaml:"sigma"   json:"sigma"`
	Weights []float64  `yaml:"weights" json:"weights"`
}

// init
func (s *SamplerSetting) init() error {
	return s.valid()
}

func (s *SamplerSetting) valid() error {
	known := false
	for _, k := range KnownSamplerKeys() {
		if s.Kind == k {
			known = true
			break
		}
	}
	if !known {
		return errs.InvalidParamf("unknown sampler kind %q", s.Kind)
	}

	if s.Kind == SamplerCategorical && len(s.Weights) == 0 {
		return errs.NewInvalidParam("categorical sampler requires weights")
	}
	return nil
}
