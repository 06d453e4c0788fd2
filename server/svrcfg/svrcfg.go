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

package svrcfg

import (
	"log/slog"

	"github.com/zintix-labs/randlab"
	"github.com/zintix-labs/randlab/errs"
	"github.com/zintix-labs/randlab/server/logger"
)

type SvrCfg struct {
	Log     *slog.Logger
	DrawCap int // 單次 draw/sample 的樣本上限
	SimCap  int // 單次 sim 的 draws 上限
	Randlab *randlab.Randlab
}

func (sc *SvrCfg) Vaild() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewInternal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	// draw/sim 上限：防止單一請求阻塞服務或撐爆 response
	if sc.DrawCap < 1 {
		sc.DrawCap = 100_000
	}
	if sc.SimCap < 1 {
		sc.SimCap = 10_000_000
	}
	if sc.Randlab == nil {
		return errs.NewInternal("randlab is required")
	}
	return nil
}
