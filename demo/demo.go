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

package demo

import (
	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/catalog"
	"github.com/zintix-labs/randlab/demo/demo_configs"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/server/logger"
	"github.com/zintix-labs/randlab/server/svrcfg"
)

func New() (*catalog.Catalog, error) {
	return catalog.New(demo_configs.FS)
}

func NewServerConfig() (*svrcfg.SvrCfg, error) {
	lab, err := randlab.NewAuto(
		randlab.Configs(demo_configs.FS),
		randlab.Factories(randlab.BuiltinFactories()),
	)
	if err != nil {
		return nil, errs.Wrap(err, "new randlab failed")
	}
	scfg := &svrcfg.SvrCfg{
		Log:     logger.NewDefaultAsyncLogger(logger.ModeDev),
		Randlab: lab,
	}
	return scfg, nil
}

func NewRandlab() (*randlab.Randlab, error) {
	return randlab.NewAuto(
		randlab.Configs(demo_configs.FS),
		randlab.Factories(randlab.BuiltinFactories()),
	)
}
