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
	"sort"

	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/sdk/bitgen"
	"github.com/zintix-labs/randlab/spec"
)

// FactoryRegistry 演算法註冊表：AlgoKey -> bitgen.Factory。
//
// 一個 FactoryRegistry 代表「一組演算法模組」提供的 factories 集合。
// 重複 AlgoKey 直接視為錯誤（避免行為不確定）。
type FactoryRegistry struct {
	byKey map[spec.AlgoKey]bitgen.Factory
}

func NewFactoryRegistry() *FactoryRegistry {
	return &FactoryRegistry{byKey: map[spec.AlgoKey]bitgen.Factory{}}
}

// BuiltinFactories 回傳內建五種演算法的註冊表。
func BuiltinFactories() *FactoryRegistry {
	r := NewFactoryRegistry()
	// 內建鍵不會重複，忽略 error
	_ = r.Register(spec.AlgoXorShift128, bitgen.FactoryFunc(func(seed uint32) bitgen.BitGenerator {
		return bitgen.NewXorShift128(seed)
	}))
	_ = r.Register(spec.AlgoMT19937, bitgen.FactoryFunc(func(seed uint32) bitgen.BitGenerator {
		return bitgen.NewMT19937(seed)
	}))
	_ = r.Register(spec.AlgoALF, bitgen.FactoryFunc(func(seed uint32) bitgen.BitGenerator {
		return bitgen.NewALF(seed)
	}))
	_ = r.Register(spec.AlgoNR3, bitgen.FactoryFunc(func(seed uint32) bitgen.BitGenerator {
		return bitgen.NewNR3(seed)
	}))
	_ = r.Register(spec.AlgoSysRand, bitgen.FactoryFunc(func(seed uint32) bitgen.BitGenerator {
		return bitgen.NewSysRand(seed)
	}))
	return r
}

func (r *FactoryRegistry) Register(key spec.AlgoKey, f bitgen.Factory) error {
	if key == "" {
		return errs.NewInvalidParam("empty algo key")
	}
	if f == nil {
		return errs.NewNullArg("nil factory")
	}
	if _, ok := r.byKey[key]; ok {
		return errs.InvalidParamf("duplicate algo key: %s", key)
	}
	r.byKey[key] = f
	return nil
}

func (r *FactoryRegistry) IsExist(key spec.AlgoKey) bool {
	_, ok := r.byKey[key]
	return ok
}

// Keys 回傳已註冊的演算法鍵（穩定排序）。
func (r *FactoryRegistry) Keys() []spec.AlgoKey {
	keys := make([]spec.AlgoKey, 0, len(r.byKey))
	for k := range r.byKey {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Build 依鍵建立位元產生器並包進 Core。
func (r *FactoryRegistry) Build(key spec.AlgoKey, seed uint32) (*bitgen.Core, error) {
	f, ok := r.byKey[key]
	if !ok {
		return nil, errs.InvalidParamf("algo not registered: %s", key)
	}
	return bitgen.New(f.New(seed))
}

// MergeFactoryRegistry 合併多個註冊表成單一註冊表；重複 AlgoKey 直接失敗。
func MergeFactoryRegistry(regs ...*FactoryRegistry) (*FactoryRegistry, error) {
	if len(regs) == 0 {
		return nil, errs.NewInvalidParam("factory registry required")
	}
	out := NewFactoryRegistry()
	for _, reg := range regs {
		if reg == nil {
			return nil, errs.NewNullArg("nil factory registry")
		}
		for k, f := range reg.byKey {
			if err := out.Register(k, f); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}
