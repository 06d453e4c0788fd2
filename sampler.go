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

package randlab

import (
	"math"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/bitgen"
	"github.com/zintix-labs/randlab/sdk/dist"
	"github.com/zintix-labs/randlab/spec"
)

// BuildSampler 依設定建出綁定在 core 上的取樣器。
//
// 參數的完整驗證由各分布建構子負責；這裡只做 Kind 的分派。
func BuildSampler(cfg spec.SamplerSetting, core *bitgen.Core) (dist.Distribution, error) {
	switch cfg.Kind {
	case spec.SamplerBernoulli:
		return dist.NewBernoulli(core, cfg.Alpha)
	case spec.SamplerBinomial:
		if cfg.Beta != math.Trunc(cfg.Beta) || cfg.Beta > math.MaxInt32 {
			return nil, errs.InvalidParamf("binomial beta %v must be a small integer", cfg.Beta)
		}
		return dist.NewBinomial(core, cfg.Alpha, int32(cfg.Beta))
	case spec.SamplerGeometric:
		return dist.NewGeometric(core, cfg.Alpha)
	case spec.SamplerPoisson:
		return dist.NewPoisson(core, cfg.Lambda)
	case spec.SamplerCategorical:
		return dist.NewCategorical(core, cfg.Weights)
	case spec.SamplerDiscreteUniform:
		if cfg.Alpha != math.Trunc(cfg.Alpha) || cfg.Beta != math.Trunc(cfg.Beta) {
			return nil, errs.InvalidParamf("discrete uniform bounds [%v,%v] must be integers", cfg.Alpha, cfg.Beta)
		}
		return dist.NewDiscreteUniform(core, int32(cfg.Alpha), int32(cfg.Beta))
	case spec.SamplerUniform:
		return dist.NewContinuousUniform(core, cfg.Alpha, cfg.Beta)
	case spec.SamplerExponential:
		return dist.NewExponential(core, cfg.Lambda)
	case spec.SamplerNormal:
		return dist.NewNormal(core, cfg.Mu, cfg.Sigma)
	default:
		return nil, errs.InvalidParamf("unknown sampler kind %q", cfg.Kind)
	}
}

// theoryMoments 取出理論平均/變異數；未定義的動差以 NaN 表示。
func theoryMoments(d dist.Distribution) (mean, variance float64) {
	mean, variance = math.NaN(), math.NaN()
	if m, err := d.Mean(); err == nil {
		mean = m
	}
	if v, err := d.Variance(); err == nil {
		variance = v
	}
	return
}
