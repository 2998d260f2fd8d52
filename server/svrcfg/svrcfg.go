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
	"strings"
	"time"

	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/server/logger"
)

const (
	DefaultAddr        = ":5808"
	DefaultMaxSessions = 10_000
)

type SvrCfg struct {
	Log         *slog.Logger
	Addr        string        // 監聽位址，空字串用 DefaultAddr
	SessionTTL  time.Duration // Session 閒置回收時間，0 用預設值
	MaxSessions int           // 同時存在的 Session 上限，0 用預設值
	Lab         *matchlab.Lab
}

// Valid 補預設值並檢查必要依賴
func (sc *SvrCfg) Valid() error {
	if sc.Log != nil {
		if ah, ok := sc.Log.Handler().(*logger.AsyncHandler); ok && !ah.Ready() {
			return errs.NewFatal("nil default log handler: async handler is nil")
		}
	} else {
		// 保持安靜、合法
		sc.Log, _ = logger.NewAsync(1024, logger.ModeDev)
	}

	if sc.Addr == "" {
		sc.Addr = DefaultAddr
	}
	if !strings.Contains(sc.Addr, ":") {
		return errs.NewFatal("invalid listen address: " + sc.Addr)
	}
	if sc.SessionTTL <= 0 {
		sc.SessionTTL = matchlab.DefaultSessionTTL
	}
	if sc.MaxSessions <= 0 {
		sc.MaxSessions = DefaultMaxSessions
	}
	if sc.Lab == nil {
		return errs.NewFatal("lab is required")
	}
	return nil
}
