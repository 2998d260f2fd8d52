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
	"testing"

	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

func TestCascadeRecorderCountsEvents(t *testing.T) {
	r := NewCascadeRecorder("classic", 1)
	for i := 0; i < 4; i++ {
		r.OnEvent(grid.Event{Kind: grid.Cleared, PieceKind: spec.Normal})
	}
	r.OnEvent(grid.Event{Kind: grid.Cleared, PieceKind: spec.Obstacle})
	r.OnEvent(grid.Event{Kind: grid.Spawned, PieceKind: spec.RowClear})
	r.OnEvent(grid.Event{Kind: grid.Spawned, PieceKind: spec.Normal})
	r.RecordMove(2, false)
	r.RecordGame(true)

	rep := r.Done()
	if rep.Summary.Cleared != 4 || rep.Summary.ObstaclesCleared != 1 || rep.Summary.SpecialsSpawned != 1 {
		t.Fatalf("unexpected summary %+v", rep.Summary)
	}
	if rep.Summary.DeadBoards != 1 || rep.Summary.Moves != 1 {
		t.Fatalf("unexpected games/moves %+v", rep.Summary)
	}
	if len(rep.Dist.Depths) != 1 || rep.Dist.Depths[0] != 2 {
		t.Fatalf("unexpected depths %v", rep.Dist.Depths)
	}
	// 4 個消除落在 [4,5)
	if rep.Dist.ClearCollect[2] != 1 {
		t.Fatalf("unexpected clear buckets %v", rep.Dist.ClearCollect)
	}
}

func TestResetDropsPendingCount(t *testing.T) {
	r := NewCascadeRecorder("classic", 1)
	r.OnEvent(grid.Event{Kind: grid.Cleared, PieceKind: spec.Normal})
	r.Reset()
	r.RecordMove(1, false)
	if got := r.Done().Dist.ClearCollect[0]; got != 1 {
		t.Fatalf("expected move bucketed at zero, got %d", got)
	}
}

func TestMergeCascadeRecorder(t *testing.T) {
	a := NewCascadeRecorder("classic", 1)
	b := NewCascadeRecorder("classic", 1)
	a.RecordMove(1, false)
	a.RecordMove(3, true)
	b.RecordMove(1, false)
	a.RecordGame(false)
	b.RecordGame(false)

	m, err := MergeCascadeRecorder([]*CascadeRecorder{a, b})
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	rep := m.Done()
	if rep.Summary.Moves != 3 || rep.Summary.Games != 2 || rep.Summary.CapHits != 1 {
		t.Fatalf("unexpected merged summary %+v", rep.Summary)
	}
	if len(rep.Dist.Depths) != 2 || rep.Dist.DepthCollect[0] != 2 || rep.Dist.DepthCollect[1] != 1 {
		t.Fatalf("unexpected depth dist %v %v", rep.Dist.Depths, rep.Dist.DepthCollect)
	}
	if rep.Depth.Max != 3 {
		t.Fatalf("max depth %d", rep.Depth.Max)
	}

	if _, err := MergeCascadeRecorder([]*CascadeRecorder{a, NewCascadeRecorder("other", 2)}); err == nil {
		t.Fatalf("expected board mismatch")
	}
	if _, err := MergeCascadeRecorder(nil); err == nil {
		t.Fatalf("expected empty error")
	}
}

func TestTraceKeepsOrderAndTruncates(t *testing.T) {
	tr := NewTrace(4)
	for i := 0; i < 6; i++ {
		tr.OnEvent(grid.Event{Kind: grid.Moved, PieceID: uint64(i)})
	}
	// 4 筆時截半：剩 2,3 再加入 4,5
	got := tr.Entries()
	if len(got) != 4 {
		t.Fatalf("want 4 entries, got %d", len(got))
	}
	for i, e := range got {
		if e.Seq != uint64(i+2) || e.Event.PieceID != uint64(i+2) {
			t.Fatalf("entry %d = %+v", i, e)
		}
	}
	if tr.Next() != 6 {
		t.Fatalf("next seq = %d", tr.Next())
	}
	if s := tr.Since(4); len(s) != 2 || s[0].Seq != 4 {
		t.Fatalf("since(4) = %+v", s)
	}
	if s := tr.Since(99); len(s) != 0 {
		t.Fatalf("since(99) = %+v", s)
	}
}
