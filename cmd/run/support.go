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
	"os"

	"github.com/zintix-labs/matchlab"
	"github.com/zintix-labs/matchlab/catalog"
	"github.com/zintix-labs/matchlab/demo"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/perf"
	"github.com/zintix-labs/matchlab/server/logger"
	"github.com/zintix-labs/matchlab/stats"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var cfg *config = new(config)

type config struct {
	board   int
	file    string
	games   int
	moves   int
	worker  int
	seed    int64
	format  string
	pprof   perf.Mode
	pprofS  string
	verbose bool
}

func bindVar() error {
	flag.IntVar(&cfg.board, "board", 1, "target board id")
	flag.StringVar(&cfg.file, "config", "", "board config file (yaml/json); overrides -board")
	flag.IntVar(&cfg.games, "games", 10000, "number of games")
	flag.IntVar(&cfg.moves, "moves", 30, "max swaps per game")
	flag.IntVar(&cfg.worker, "worker", 1, "number of workers")
	flag.Int64Var(&cfg.seed, "seed", -1, "int64 seed for random number generator")
	flag.StringVar(&cfg.format, "format", "table", "report format: table|text|json|yaml")
	flag.StringVar(&cfg.pprofS, "p", "", "pprof: '', cpu, heap, allocs")
	flag.BoolVar(&cfg.verbose, "v", false, "log cascade warnings")
	flag.Parse()

	m, err := perf.ParseMode(cfg.pprofS)
	if err != nil {
		return err
	}
	cfg.pprof = m

	// 未指定 seed -> 隨機 seed（會印出，可重現）
	if cfg.seed < 0 {
		seed, err := matchlab.RandomSeed()
		if err != nil {
			return err
		}
		cfg.seed = seed
	}
	return cfg.valid()
}

func (cfg *config) valid() error {
	switch {
	case cfg.worker < 1:
		return errs.NewWarn("value err : workers must > 0")
	case cfg.games < 1:
		return errs.NewWarn("value err : games must > 0")
	case cfg.moves < 1:
		return errs.NewWarn("value err : moves must > 0")
	}
	if _, ok := stats.RenderByName(cfg.format); !ok {
		return errs.NewWarn("value err : unknown format " + cfg.format)
	}
	return nil
}

// newLab 內建盤面，或以 -config 指定的單一設定檔
func newLab() (*matchlab.Lab, int, error) {
	opts := []matchlab.Option{}
	if cfg.verbose {
		opts = append(opts, matchlab.WithLogger(logger.NewDefaultLogger(logger.ModeDev)))
	}
	if cfg.file == "" {
		lab, err := demo.NewLab(opts...)
		return lab, cfg.board, err
	}
	raw, err := os.ReadFile(cfg.file)
	if err != nil {
		return nil, 0, errs.Wrap(err, "read config failed")
	}
	bs, err := catalog.ParseSetting(cfg.file, raw)
	if err != nil {
		return nil, 0, err
	}
	lab, err := matchlab.New(nil, append(opts, matchlab.WithBoards(bs))...)
	if err != nil {
		return nil, 0, err
	}
	return lab, bs.ID, nil
}

// 這裡解析並執行模擬器
func executeSimulator() error {
	lab, id, err := newLab()
	if err != nil {
		return err
	}
	s, err := lab.NewSimulator(id, cfg.seed)
	if err != nil {
		return err
	}

	// 至此確保可執行
	green := "\033[1;32m"
	reset := "\033[0m"
	p := message.NewPrinter(language.English)
	p.Fprintf(os.Stderr, "%s[WORKERS:%d] [BOARD:%s] [GAMES:%d] [MOVES:%d] [SEED:%d]%s\n",
		green, cfg.worker, s.BoardName, cfg.games, cfg.moves, cfg.seed, reset)

	st, used, err := s.SimMP(cfg.games, cfg.moves, cfg.worker, true)
	if err != nil {
		return err
	}
	if cfg.format == "table" {
		st.StdOut(used)
		return nil
	}
	rd, _ := stats.RenderByName(cfg.format)
	return st.WriteWith(os.Stdout, rd)
}
