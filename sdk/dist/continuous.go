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

package dist

import (
	"math"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/bitgen"
)

// ContinuousUniform 在實數半開區間 [alpha, beta) 上均勻取樣。
type ContinuousUniform struct {
	binding
	alpha float64
	beta  float64
}

// IsValidContinuousUniformRange 為區間的純合法性判定：
// 兩端有限且 alpha ≤ beta。
func IsValidContinuousUniformRange(alpha, beta float64) bool {
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) || math.IsNaN(beta) || math.IsInf(beta, 0) {
		return false
	}
	return alpha <= beta
}

// NewContinuousUniform 建立 ContinuousUniform 分布。
func NewContinuousUniform(gen *bitgen.Core, alpha, beta float64) (*ContinuousUniform, error) {
	b, err := newBinding(gen)
	if err != nil {
		return nil, err
	}
	d := &ContinuousUniform{binding: b}
	if err := d.SetRange(alpha, beta); err != nil {
		return nil, err
	}
	return d, nil
}

// Alpha 回傳區間下界（含）。
func (d *ContinuousUniform) Alpha() float64 { return d.alpha }

// Beta 回傳區間上界（不含）。
func (d *ContinuousUniform) Beta() float64 { return d.beta }

// SetRange 更新區間；驗證失敗時回傳 InvalidParameter 且不動既有參數。
func (d *ContinuousUniform) SetRange(alpha, beta float64) error {
	if !IsValidContinuousUniformRange(alpha, beta) {
		return errs.InvalidParamf("dist: continuous uniform range [%v,%v) must be finite with alpha <= beta", alpha, beta)
	}
	d.alpha = alpha
	d.beta = beta
	return nil
}

func (d *ContinuousUniform) NextDouble() float64 {
	v, _ := d.gen.Float64Range(d.alpha, d.beta)
	return v
}

func (d *ContinuousUniform) Mean() (float64, error) {
	return (d.alpha + d.beta) / 2, nil
}

func (d *ContinuousUniform) Median() (float64, error) {
	return (d.alpha + d.beta) / 2, nil
}

func (d *ContinuousUniform) Variance() (float64, error) {
	w := d.beta - d.alpha
	return w * w / 12, nil
}

// Mode 在均勻密度下所有值並列，視為未定義。
func (d *ContinuousUniform) Mode() ([]float64, error) {
	return nil, unsupportedMoment("continuous uniform", "mode")
}

var _ Distribution = (*ContinuousUniform)(nil)

// Exponential 指數分布，速率參數 lambda。取樣為反函數法：-ln(u)/lambda。
type Exponential struct {
	binding
	lambda float64
}

// IsValidExponentialLambda 為 lambda 的純合法性判定：lambda > 0 且有限。
func IsValidExponentialLambda(lambda float64) bool {
	return lambda > 0 && !math.IsInf(lambda, 0) && !math.IsNaN(lambda)
}

// NewExponential 建立 Exponential 分布。
func NewExponential(gen *bitgen.Core, lambda float64) (*Exponential, error) {
	b, err := newBinding(gen)
	if err != nil {
		return nil, err
	}
	d := &Exponential{binding: b}
	if err := d.SetLambda(lambda); err != nil {
		return nil, err
	}
	return d, nil
}

// Lambda 回傳速率參數。
func (d *Exponential) Lambda() float64 { return d.lambda }

// SetLambda 更新速率參數；驗證失敗時回傳 InvalidParameter 且不動既有參數。
func (d *Exponential) SetLambda(lambda float64) error {
	if !IsValidExponentialLambda(lambda) {
		return errs.InvalidParamf("dist: exponential lambda %v must be > 0 and finite", lambda)
	}
	d.lambda = lambda
	return nil
}

// NextDouble 取樣：u 取自 (0,1)，避免 ln(0) 爆成 +Inf。
func (d *Exponential) NextDouble() float64 {
	return -math.Log(d.nextNonzero()) / d.lambda
}

func (d *Exponential) Mean() (float64, error) { return 1 / d.lambda, nil }

func (d *Exponential) Median() (float64, error) {
	return math.Ln2 / d.lambda, nil
}

func (d *Exponential) Variance() (float64, error) {
	return 1 / (d.lambda * d.lambda), nil
}

func (d *Exponential) Mode() ([]float64, error) {
	return []float64{0}, nil
}

var _ Distribution = (*Exponential)(nil)

// Normal 常態分布，位置 mu、尺度 sigma。
//
// 取樣採 polar（Marsaglia）法：一次產生一對獨立標準常態，
// 第二個暫存在 spare，下一次取樣直接用掉。spare 屬取樣器狀態，
// 改參數（SetMu/SetSigma）不清除，因為標準常態對參數是位移縮放。
type Normal struct {
	binding
	mu    float64
	sigma float64

	spare    float64
	hasSpare bool
}

// IsValidNormalSigma 為 sigma 的純合法性判定：sigma > 0 且有限。
func IsValidNormalSigma(sigma float64) bool {
	return sigma > 0 && !math.IsInf(sigma, 0) && !math.IsNaN(sigma)
}

// IsValidNormalMu 為 mu 的純合法性判定：mu 有限。
func IsValidNormalMu(mu float64) bool {
	return !math.IsInf(mu, 0) && !math.IsNaN(mu)
}

// NewNormal 建立 Normal 分布。
func NewNormal(gen *bitgen.Core, mu, sigma float64) (*Normal, error) {
	b, err := newBinding(gen)
	if err != nil {
		return nil, err
	}
	d := &Normal{binding: b}
	if err := d.SetMu(mu); err != nil {
		return nil, err
	}
	if err := d.SetSigma(sigma); err != nil {
		return nil, err
	}
	return d, nil
}

// Mu 回傳位置參數。
func (d *Normal) Mu() float64 { return d.mu }

// Sigma 回傳尺度參數。
func (d *Normal) Sigma() float64 { return d.sigma }

// SetMu 更新位置參數；驗證失敗時回傳 InvalidParameter 且不動既有參數。
func (d *Normal) SetMu(mu float64) error {
	if !IsValidNormalMu(mu) {
		return errs.InvalidParamf("dist: normal mu %v must be finite", mu)
	}
	d.mu = mu
	return nil
}

// SetSigma 更新尺度參數；驗證失敗時回傳 InvalidParameter 且不動既有參數。
func (d *Normal) SetSigma(sigma float64) error {
	if !IsValidNormalSigma(sigma) {
		return errs.InvalidParamf("dist: normal sigma %v must be > 0 and finite", sigma)
	}
	d.sigma = sigma
	return nil
}

// NextDouble 取樣。
func (d *Normal) NextDouble() float64 {
	return d.mu + d.sigma*d.nextStandard()
}

// nextStandard 以 polar 法取一個標準常態樣本。
func (d *Normal) nextStandard() float64 {
	if d.hasSpare {
		d.hasSpare = false
		return d.spare
	}
	for {
		u := 2*d.gen.Float64() - 1
		v := 2*d.gen.Float64() - 1
		s := u*u + v*v
		if s >= 1 || s == 0 {
			continue
		}
		f := math.Sqrt(-2 * math.Log(s) / s)
		d.spare = v * f
		d.hasSpare = true
		return u * f
	}
}

func (d *Normal) Mean() (float64, error) { return d.mu, nil }

func (d *Normal) Median() (float64, error) { return d.mu, nil }

func (d *Normal) Variance() (float64, error) {
	return d.sigma * d.sigma, nil
}

func (d *Normal) Mode() ([]float64, error) {
	return []float64{d.mu}, nil
}

var _ Distribution = (*Normal)(nil)
