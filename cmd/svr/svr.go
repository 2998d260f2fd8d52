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

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/demo"
	"github.com/zintix-labs/matchlab/server"
	"github.com/zintix-labs/matchlab/server/logger"
	"github.com/zintix-labs/matchlab/server/svrcfg"
)

// 以內建示範盤面啟動 HTTP 服務
func main() {
	cfg, err := loadConfigFromFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := server.Run(cfg); err != nil {
		os.Exit(1)
	}
}

type config struct {
	LogMode     string
	Addr        string
	SessionTTL  time.Duration
	MaxSessions int
	ConfigDir   string
}

func loadConfigFromFlags() (*svrcfg.SvrCfg, error) {
	cfg := new(config)
	flag.StringVar(&cfg.LogMode, "log-mode", "dev", "log mode: dev|prod|silence")
	flag.StringVar(&cfg.Addr, "addr", svrcfg.DefaultAddr, "listen address")
	flag.DurationVar(&cfg.SessionTTL, "session-ttl", matchlab.DefaultSessionTTL, "idle time before a session is evicted")
	flag.IntVar(&cfg.MaxSessions, "max-sessions", svrcfg.DefaultMaxSessions, "max live sessions")
	flag.StringVar(&cfg.ConfigDir, "config", "", "directory of board configs (yaml/json); empty for built-in demo boards")
	flag.Parse()

	mode, err := logger.ParseMode(cfg.LogMode)
	if err != nil {
		return nil, err
	}
	sCfg, err := demo.NewServerConfig(mode)
	if err != nil {
		return nil, err
	}
	if cfg.ConfigDir != "" {
		lab, err := matchlab.New(os.DirFS(cfg.ConfigDir), matchlab.WithLogger(sCfg.Log))
		if err != nil {
			return nil, err
		}
		sCfg.Lab = lab
	}
	sCfg.Addr = cfg.Addr
	sCfg.SessionTTL = cfg.SessionTTL
	sCfg.MaxSessions = cfg.MaxSessions
	return sCfg, nil
}
