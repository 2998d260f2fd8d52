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

// Package perf 模擬器的 pprof 包裝
package perf

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"github.com/zintix-labs/matchlab/errs"
)

// DefaultDir pprof 檔案寫入路徑
const DefaultDir = "build/profiling"

// Mode pprof 模式
type Mode string

const (
	ModeNone   Mode = ""
	ModeCPU    Mode = "cpu"
	ModeHeap   Mode = "heap"
	ModeAllocs Mode = "allocs"
)

// ParseMode 未知模式回傳 Warn
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNone, ModeCPU, ModeHeap, ModeAllocs:
		return m, nil
	}
	return ModeNone, errs.NewWarn("unknown pprof mode: " + s)
}

// Run 依 mode 包住 exe 執行；dir 為空時寫到 DefaultDir。
// exe 的錯誤優先回傳；profile 寫檔失敗為 Fatal。
//
// Usage like:
//
//	go run ./cmd/run -board 1 -p cpu
//	go tool pprof build/profiling/cpu.pprof
func Run(exe func() error, mode Mode, dir string) error {
	if mode == ModeNone {
		return exe()
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.Wrap(err, "create pprof dir failed")
	}
	switch mode {
	case ModeCPU:
		return cpu(exe, filepath.Join(dir, "cpu.pprof"))
	case ModeHeap:
		return after(exe, filepath.Join(dir, "heap.pprof"), func(f *os.File) error {
			// 盡量讓快照貼近最新狀態
			runtime.GC()
			return pprof.WriteHeapProfile(f)
		})
	case ModeAllocs:
		return after(exe, filepath.Join(dir, "allocs.pprof"), func(f *os.File) error {
			if prof := pprof.Lookup("allocs"); prof != nil {
				return prof.WriteTo(f, 0)
			}
			return nil
		})
	}
	return errs.NewWarn("unknown pprof mode: " + string(mode))
}

// cpu 可作性能分析，也可以拿來做構建時給 pgo 的 blueprint
func cpu(exe func() error, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "failed to create cpu.pprof")
	}
	defer f.Close()
	if err := pprof.StartCPUProfile(f); err != nil {
		return errs.Wrap(err, "failed to start pprof")
	}
	defer pprof.StopCPUProfile()
	return exe()
}

// after 先執行 exe，再寫出一次快照（heap 為 in-use，allocs 為累積配置）
func after(exe func() error, path string, write func(*os.File) error) error {
	if err := exe(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.Wrap(err, "failed to create "+filepath.Base(path))
	}
	defer f.Close()
	if err := write(f); err != nil {
		return errs.Wrap(err, "failed to write "+filepath.Base(path))
	}
	return nil
}
