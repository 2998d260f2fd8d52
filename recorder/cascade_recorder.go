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

package recorder

import (
	"slices"

	"github.com/kamstrup/intmap"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
	"github.com/zintix-labs/matchlab/stats"
)

// CascadeRecorder 連鎖紀錄員
//
// 掛在 Board 的事件上暫存消除與生成，每次交換結束後呼叫 RecordMove 才計入，
// 最後透過 Done 輸出統計報表。非執行緒安全，每個 worker 一份，最後 Merge。
type CascadeRecorder struct {
	BoardName string
	BoardID   int
	Basic     *BasicRecord
	depth     *intmap.Map[int, int] // 連鎖深度 -> 次數
	clear     []int                 // ClearBuckets 落點

	pend pending // 尚未結算的本次交換
}

type pending struct {
	cleared   int
	obstacles int
	specials  int
}

// BasicRecord 基本紀錄
type BasicRecord struct {
	Games            int
	Moves            int
	DeadBoards       int
	CapHits          int
	Cleared          int
	ObstaclesCleared int
	SpecialsSpawned  int
}

func NewCascadeRecorder(name string, id int) *CascadeRecorder {
	return &CascadeRecorder{
		BoardName: name,
		BoardID:   id,
		Basic:     new(BasicRecord),
		depth:     intmap.New[int, int](32),
		clear:     make([]int, stats.ClearBuckets.Len()),
	}
}

// OnEvent 實作 grid.Listener
func (r *CascadeRecorder) OnEvent(e grid.Event) {
	switch e.Kind {
	case grid.Cleared:
		if e.PieceKind == spec.Obstacle {
			r.pend.obstacles++
			return
		}
		r.pend.cleared++
	case grid.Spawned:
		if e.PieceKind.IsSpecial() {
			r.pend.specials++
		}
	}
}

// Reset 丟棄尚未結算的事件（例如初始補位產生的消除不計入）
func (r *CascadeRecorder) Reset() {
	r.pend = pending{}
}

// RecordMove 結算一次已成立的交換。depth 為交換後的消除輪數（交換本身算第一輪）。
func (r *CascadeRecorder) RecordMove(depth int, capHit bool) {
	b := r.Basic
	b.Moves++
	if capHit {
		b.CapHits++
	}
	b.Cleared += r.pend.cleared
	b.ObstaclesCleared += r.pend.obstacles
	b.SpecialsSpawned += r.pend.specials
	v, _ := r.depth.Get(depth)
	r.depth.Put(depth, v+1)
	r.clear[stats.ClearBuckets.Index(r.pend.cleared)]++
	r.pend = pending{}
}

// RecordGame 結算一局
func (r *CascadeRecorder) RecordGame(dead bool) {
	r.Basic.Games++
	if dead {
		r.Basic.DeadBoards++
	}
}

// MergeCascadeRecorder 合併多個 worker 的紀錄
func MergeCascadeRecorder(rs []*CascadeRecorder) (*CascadeRecorder, error) {
	if len(rs) == 0 {
		return nil, errs.NewFatal("merge cascade record err : empty list")
	}
	r0 := rs[0]
	m := NewCascadeRecorder(r0.BoardName, r0.BoardID)
	for _, v := range rs {
		if v.BoardName != r0.BoardName || v.BoardID != r0.BoardID {
			return nil, errs.NewFatal("merge cascade record err : different board")
		}
		m.Basic.Games += v.Basic.Games
		m.Basic.Moves += v.Basic.Moves
		m.Basic.DeadBoards += v.Basic.DeadBoards
		m.Basic.CapHits += v.Basic.CapHits
		m.Basic.Cleared += v.Basic.Cleared
		m.Basic.ObstaclesCleared += v.Basic.ObstaclesCleared
		m.Basic.SpecialsSpawned += v.Basic.SpecialsSpawned
		v.depth.ForEach(func(d, n int) bool {
			cur, _ := m.depth.Get(d)
			m.depth.Put(d, cur+n)
			return true
		})
		for i, n := range v.clear {
			m.clear[i] += n
		}
	}
	return m, nil
}

// Done 輸出報表（深度依小到大排序）
func (r *CascadeRecorder) Done() *stats.CascadeReport {
	depths := make([]int, 0, r.depth.Len())
	r.depth.ForEach(func(d, _ int) bool {
		depths = append(depths, d)
		return true
	})
	slices.Sort(depths)
	counts := make([]int, len(depths))
	for i, d := range depths {
		counts[i], _ = r.depth.Get(d)
	}

	b := r.Basic
	rep := &stats.CascadeReport{
		Summary: &stats.SummaryReport{
			BoardName:        r.BoardName,
			BoardID:          r.BoardID,
			Games:            b.Games,
			Moves:            b.Moves,
			DeadBoards:       b.DeadBoards,
			CapHits:          b.CapHits,
			Cleared:          b.Cleared,
			ObstaclesCleared: b.ObstaclesCleared,
			SpecialsSpawned:  b.SpecialsSpawned,
		},
		Dist: &stats.DistReport{
			Depths:       depths,
			DepthCollect: counts,
			ClearBucket:  stats.ClearBuckets.Labels(),
			ClearCollect: slices.Clone(r.clear),
		},
	}
	rep.Done()
	return rep
}
