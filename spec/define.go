package spec

// SID 套件內用來識別一個模擬套組的編號。
type SID uint32

// AlgoKey 指名位元產生器演算法。
type AlgoKey string

const (
	AlgoXorShift128 AlgoKey = "xorshift128"
	AlgoMT19937     AlgoKey = "mt19937"
	AlgoALF         AlgoKey = "alf"
	AlgoNR3         AlgoKey = "nr3"
	AlgoSysRand     AlgoKey = "sysrand"
)

// SamplerKey 指名分布取樣器。
type SamplerKey string

const (
	SamplerBernoulli       SamplerKey = "bernoulli"
	SamplerBinomial        SamplerKey = "binomial"
	SamplerGeometric       SamplerKey = "geometric"
	SamplerPoisson         SamplerKey = "poisson"
	SamplerCategorical     SamplerKey = "categorical"
	SamplerDiscreteUniform SamplerKey = "discrete_uniform"
	SamplerUniform         SamplerKey = "uniform"
	SamplerExponential     SamplerKey = "exponential"
	SamplerNormal          SamplerKey = "normal"
)

// KnownAlgoKeys 回傳所有內建演算法鍵。
func KnownAlgoKeys() []AlgoKey {
	return []AlgoKey{AlgoXorShift128, AlgoMT19937, AlgoALF, AlgoNR3, AlgoSysRand}
}

// KnownSamplerKeys 回傳所有內建取樣器鍵。
func KnownSamplerKeys() []SamplerKey {
	return []SamplerKey{
		SamplerBernoulli, SamplerBinomial, SamplerGeometric, SamplerPoisson,
		SamplerCategorical, SamplerDiscreteUniform, SamplerUniform,
		SamplerExponential, SamplerNormal,
	}
}
