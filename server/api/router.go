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

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	v1 "github.com/zintix-labs/randlab/server/api/v1"
	"github.com/zintix-labs/randlab/server/netsvr"
	"github.com/zintix-labs/randlab/server/netsvr/middleware"
	"github.com/zintix-labs/randlab/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	registerMiddleware(svr, sCfg.Log)  // 1. 註冊 middleware
	registerIndex(svr)                 // 2. 註冊主頁
	return registerV1API(svr, sCfg)    // 3. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetSvr, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover)
	svr.Use(middleware.Compression)
}

// 註冊主頁：回傳服務自述與可用 endpoints
func registerIndex(svr netsvr.NetSvr) {
	svr.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"service": "randlab",
			"endpoints": []string{
				"GET  /v1/algos",
				"GET  /v1/suites",
				"GET  /v1/draw",
				"POST /v1/draw",
				"POST /v1/sample",
				"POST /v1/sim",
				"POST /v1/simbycfg",
			},
		})
	})
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetSvr, sCfg *svrcfg.SvrCfg) error {
	d, err := v1.NewDrawHandler(sCfg)
	if err != nil {
		return err
	}
	s, err := v1.NewSimHandler(sCfg)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/algos", s.Algos)
		vOne.Get("/suites", s.Suites)
		vOne.Get("/draw", d.Draw)

		vOne.Post("/draw", d.Draw)
		vOne.Post("/sample", d.Sample)
		vOne.Post("/sim", s.Sim)
		vOne.Post("/simbycfg", s.SimByCfg)
	})
	return nil
}
