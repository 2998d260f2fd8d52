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

// Package demo 內建的示範盤面，供 cmd/* 與測試直接使用
package demo

import (
	"log/slog"

	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/demo/demo_configs"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/server/logger"
	"github.com/zintix-labs/matchlab/server/svrcfg"
)

// NewLab 以內建盤面建立 Lab
func NewLab(opts ...matchlab.Option) (*matchlab.Lab, error) {
	return matchlab.New(demo_configs.FS, opts...)
}

// NewServerConfig 以內建盤面與非同步 logger 組出 server 設定
func NewServerConfig(mode logger.LogMode) (*svrcfg.SvrCfg, error) {
	log, _ := logger.NewAsync(4096, mode)
	lab, err := NewLab(matchlab.WithLogger(log))
	if err != nil {
		return nil, errs.Wrap(err, "new lab failed")
	}
	return &svrcfg.SvrCfg{Log: log, Lab: lab}, nil
}

// NewQuietLab 不輸出任何 log 的 Lab（測試、模擬器）
func NewQuietLab() (*matchlab.Lab, error) {
	return NewLab(matchlab.WithLogger(slog.New(slog.DiscardHandler)))
}
