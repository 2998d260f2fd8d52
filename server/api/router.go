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
	"log/slog"

	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/server/api/index"
	v1 "github.com/zintix-labs/matchlab/server/api/v1"
	"github.com/zintix-labs/matchlab/server/netsvr"
	"github.com/zintix-labs/matchlab/server/netsvr/middleware"
	"github.com/zintix-labs/matchlab/server/svrcfg"
)

// RegisterRoutes 註冊
func RegisterRoutes(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg, store *matchlab.SessionStore) error {
	registerMiddleware(svr, sCfg.Log)      // 1. 註冊 middleware
	svr.Get("/", index.New(sCfg.Lab))      // 2. 註冊主頁
	return registerV1API(svr, sCfg, store) // 3. 註冊 v1 api
}

// 註冊 middleware
func registerMiddleware(svr netsvr.NetRouter, log *slog.Logger) {
	svr.Use(middleware.RequestID)
	svr.Use(middleware.AccessLog(log))
	svr.Use(middleware.Recover(log))
	svr.Use(middleware.Compression)
}

// 註冊 v1 api
func registerV1API(svr netsvr.NetRouter, sCfg *svrcfg.SvrCfg, store *matchlab.SessionStore) error {
	sh, err := v1.NewSessionHandler(sCfg.Lab, store, sCfg.Log)
	if err != nil {
		return err
	}
	sim, err := v1.NewSimHandler(sCfg.Lab)
	if err != nil {
		return err
	}
	svr.Group("/v1", func(vOne netsvr.NetRouter) {
		vOne.Get("/boards", sim.Boards)
		vOne.Get("/boards/{id}", sim.Board)

		vOne.Get("/sim", sim.Sim)
		vOne.Post("/sim", sim.Sim)

		vOne.Get("/sessions", sh.Create)
		vOne.Post("/sessions", sh.Create)
		vOne.Post("/sessions/config", sh.CreateByConfig)
		vOne.Get("/sessions/{id}", sh.Get)
		vOne.Delete("/sessions/{id}", sh.Delete)
		vOne.Post("/sessions/{id}/press", sh.Press)
		vOne.Post("/sessions/{id}/enter", sh.Enter)
		vOne.Post("/sessions/{id}/release", sh.Release)
		vOne.Post("/sessions/{id}/swap", sh.Swap)
		vOne.Get("/sessions/{id}/hints", sh.Hints)
		vOne.Get("/sessions/{id}/events", sh.Events)
		vOne.Get("/sessions/{id}/trace", sh.Trace)
		vOne.Get("/sessions/{id}/state", sh.State)
	})
	return nil
}
