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

package matchlab

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/recorder"
	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/spec"
	"github.com/zintix-labs/matchlab/stats"
)

// Simulator 以隨機可成立交換大量對局，統計連鎖深度與消除分佈。
//
// 每局的 seed 由 seedMaker 依序產生並在派工前決定，
// 因此同一個初始 seed 的結果與 worker 數量、排程順序無關。
type Simulator struct {
	BoardName string
	BoardID   int
	bs        *spec.BoardSetting
	lab       *Lab
	initSeed  int64
	seedmaker *seedMaker
}

func newSimulator(l *Lab, bs *spec.BoardSetting, seed int64) *Simulator {
	return &Simulator{
		BoardName: bs.Name,
		BoardID:   bs.ID,
		bs:        bs,
		lab:       l,
		initSeed:  seed,
		seedmaker: newSeedMaker(seed),
	}
}

// Seed 建立時的初始 seed
func (s *Simulator) Seed() int64 { return s.initSeed }

// Sim 單線模擬
func (s *Simulator) Sim(games int, moves int, showpb bool) (*stats.CascadeReport, time.Duration, error) {
	return s.SimMP(games, moves, 1, showpb)
}

// SimMP 以 workers 個 goroutine 跑 games 局，每局最多 moves 次交換，
// 盤面沒有可成立交換時該局提前結束並記為死盤。合併統計後回傳報表與用時。
func (s *Simulator) SimMP(games int, moves int, workers int, showpb bool) (*stats.CascadeReport, time.Duration, error) {
	if workers <= 0 {
		return nil, 0, errs.NewWarn("workers must > 0")
	}
	if games < 1 {
		return nil, 0, errs.NewWarn("games must > 0")
	}
	if moves < 1 {
		return nil, 0, errs.NewWarn("moves must > 0")
	}
	workers = min(workers, games)

	rs := make([]*recorder.CascadeRecorder, workers)
	for i := range rs {
		rs[i] = recorder.NewCascadeRecorder(s.BoardName, s.BoardID)
	}

	seeds := make([]int64, games)
	for i := range seeds {
		seeds[i] = s.seedmaker.next()
	}
	jobs := make(chan int64, workers)

	var (
		firstErr error
		errOnce  sync.Once
		failed   atomic.Bool
	)
	fail := func(err error) {
		errOnce.Do(func() {
			firstErr = err
			failed.Store(true)
		})
	}

	wg := new(sync.WaitGroup)
	wg.Add(workers)
	bar := pb.StartNew(games)
	if !showpb {
		bar.SetWriter(io.Discard)
	}
	for i := 0; i < workers; i++ {
		go func(r *recorder.CascadeRecorder) {
			defer wg.Done()
			for seed := range jobs {
				if failed.Load() {
					continue
				}
				if err := s.playGame(r, seed, moves); err != nil {
					fail(err)
				}
				bar.Increment()
			}
		}(rs[i])
	}
	for _, seed := range seeds {
		jobs <- seed
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	if firstErr != nil {
		return nil, used, firstErr
	}
	merged, err := recorder.MergeCascadeRecorder(rs)
	if err != nil {
		return nil, used, err
	}
	result := merged.Done()
	result.Done()
	return result, used, nil
}

// playGame 一局：建盤（初始補位的消除不計），接著重複隨機挑一個可成立的交換
func (s *Simulator) playGame(r *recorder.CascadeRecorder, seed int64, moves int) error {
	b, err := s.lab.newBoard(s.bs, seed, board.WithListener(r))
	if err != nil && (b == nil || !errors.Is(err, errs.ErrCascadeCap)) {
		return err
	}
	r.Reset()

	g := b.Grid()
	dead := false
	for range moves {
		hints := b.Hints()
		if len(hints) == 0 {
			dead = true
			break
		}
		mv := hints[b.Core().IntN(len(hints))]
		ok, err := b.TrySwap(g.At(mv.AX, mv.AY), g.At(mv.BX, mv.BY))
		capHit := errors.Is(err, errs.ErrCascadeCap)
		if err != nil && !capHit {
			return err
		}
		if !ok {
			return errs.NewFatal("hinted swap rejected")
		}
		r.RecordMove(b.Cycles()+1, capHit)
	}
	r.RecordGame(dead)
	return nil
}

const mask63 = uint64(1<<63) - 1

type seedMaker struct {
	state atomic.Uint64 // always in [0, 2^63)
}

func newSeedMaker(seed int64) *seedMaker {
	s := &seedMaker{}
	s.state.Store(uint64(seed) & mask63)
	return s
}

// next 以 CAS 推進全週期 LCG（mod 2^63），再用可逆的 mix63 打散，可被多 goroutine 同時呼叫
func (s *seedMaker) next() int64 {
	for {
		old := s.state.Load()
		next := (old*6364136223846793005 + 1442695040888963407) & mask63
		if s.state.CompareAndSwap(old, next) {
			return int64(mix63(next)) // 一定非負
		}
	}
}

// mix63：只用「可逆」的 bit 操作 + 乘奇數（mod 2^63）
func mix63(x uint64) uint64 {
	x &= mask63
	x ^= x >> 30
	x = (x * 0xBF58476D1CE4E5B9) & mask63
	x ^= x >> 27
	x = (x * 0x94D049BB133111EB) & mask63
	x ^= x >> 31
	return x & mask63
}
