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

package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/server/api"
	"github.com/zintix-labs/matchlab/server/app"
	"github.com/zintix-labs/matchlab/server/logger"
	"github.com/zintix-labs/matchlab/server/netsvr"
	"github.com/zintix-labs/matchlab/server/svrcfg"
)

// Run 是 server 套件的組裝器與啟動入口：
//  1. 驗證 SvrCfg 並補預設值。
//  2. 建立 HTTP server（netsvr）與 SessionStore。
//  3. 註冊路由與 middleware。
//  4. 以 app.Run() 管理 server 與 Session 回收的生命週期，回傳停止原因。
func Run(sCfg *svrcfg.SvrCfg) error {
	if err := sCfg.Valid(); err != nil {
		// 防止外層傳入的logger不可用
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return RunWithSvr(sCfg, netsvr.NewChiServer(sCfg.Addr))
}

// RunWithSvr 與 Run() 相同，但允許呼叫端注入自訂的 NetSvr。
func RunWithSvr(sCfg *svrcfg.SvrCfg, svr netsvr.NetSvr) error {
	if err := sCfg.Valid(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if svr == nil {
		err := errs.NewFatal("svr is required")
		sCfg.Log.Error(err.Error())
		return err
	}
	if s, ok := svr.(*netsvr.ChiAdapter); ok && !s.Ready() {
		err := errs.NewFatal("default server is not ready")
		sCfg.Log.Error(err.Error())
		return err
	}

	defer func() {
		if n := logger.Flush(sCfg.Log); n > 0 {
			fmt.Fprintf(os.Stderr, "[matchlab] %d log records dropped\n", n)
		}
	}()

	store := matchlab.NewSessionStore(sCfg.SessionTTL, sCfg.MaxSessions)
	if err := api.RegisterRoutes(svr, sCfg, store); err != nil {
		sCfg.Log.Error("register routes failed", slog.Any("err", err))
		return err
	}

	janitor := app.Funcs{
		Name:  "session-janitor",
		RunFn: func() error { store.Janitor(0); return nil },
		ShutdownFn: func(context.Context) error {
			store.Close()
			return nil
		},
	}
	a := app.NewWith(svr, janitor).WithLogger(sCfg.Log)
	if s, ok := svr.(*netsvr.ChiAdapter); ok {
		sCfg.Log.Info("[matchlab] listening on http://localhost" + s.Address())
	} else {
		sCfg.Log.Info("[matchlab] listening")
	}
	if err := a.Run(); err != nil {
		sCfg.Log.Error("app stopped:", slog.Any("err", err))
		return err
	}
	return nil
}
