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

package ops

import (
	"testing"

	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

func mustGrid(t *testing.T, lines ...string) *grid.Grid {
	t.Helper()
	g, err := grid.Parse(lines, spec.DefaultCapabilities(), 5, core.NewWithSeed(42))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return g
}

func TestStepStraightDropAndRefill(t *testing.T) {
	g := mustGrid(t,
		"a..",
		"...",
		"bcd",
	)
	id := g.At(0, 0).ID
	if !Step(g, true) {
		t.Fatalf("expected movement")
	}
	if got := g.At(0, 1); got.ID != id || got.Y != 1 {
		t.Fatalf("piece did not drop: %v", got)
	}
	for x := 0; x < 3; x++ {
		if g.At(x, 0).Kind != spec.Normal {
			t.Fatalf("top row not refilled at %d: %v", x, g.At(x, 0))
		}
	}
}

func TestStepDiagonalSlideAroundObstacle(t *testing.T) {
	for _, tc := range []struct {
		ltr   bool
		wantX int
	}{{true, 0}, {false, 2}} {
		g := mustGrid(t,
			".a.",
			".#.",
			"bcd",
		)
		id := g.At(1, 0).ID
		Step(g, tc.ltr)
		if got := g.At(tc.wantX, 1); got.ID != id {
			t.Fatalf("ltr=%v: expected slide to (%d,1), got %v", tc.ltr, tc.wantX, got)
		}
	}
}

func TestStepRefusesDiagonalUnderObstacleColumn(t *testing.T) {
	g := mustGrid(t,
		"#..",
		".a.",
		".#.",
	)
	id := g.At(1, 1).ID
	Step(g, true)
	if got := g.At(2, 2); got.ID != id {
		t.Fatalf("expected slide to the open side, got %v", got)
	}
	if g.At(0, 2).Kind != spec.Empty || g.At(0, 1).Kind != spec.Empty {
		t.Fatalf("shadowed column must stay empty")
	}
}

func TestSettleReachesFixedPoint(t *testing.T) {
	g := mustGrid(t,
		".#.",
		"...",
		"...",
	)
	passes, ltr := 0, true
	for Step(g, ltr) {
		passes++
		ltr = !ltr
	}
	if passes < 2 {
		t.Fatalf("expected several passes, got %d", passes)
	}
	if Step(g, true) || Step(g, false) {
		t.Fatalf("settled grid must not move")
	}
	if g.At(1, 1).Kind != spec.Empty || g.At(1, 2).Kind != spec.Empty {
		t.Fatalf("cells under the obstacle are unreachable")
	}
	if n := g.Count(spec.Normal); n != 6 {
		t.Fatalf("expected 6 normal pieces, got %d", n)
	}
}

func TestClearPieceObstacleRing(t *testing.T) {
	g := mustGrid(t,
		"#a#",
		".#.",
		"##.",
	)
	cleared := 0
	g.SetListener(grid.ListenerFunc(func(e grid.Event) {
		if e.Kind == grid.Cleared {
			cleared++
		}
	}))
	if !ClearPiece(g, 1, 0) {
		t.Fatalf("expected clear")
	}
	if cleared != 4 {
		t.Fatalf("expected 4 cleared events, got %d", cleared)
	}
	want := "...\n...\n##."
	if got := g.Snapshot().String(); got != want {
		t.Fatalf("unexpected grid:\n%s", got)
	}
}

func TestClearPieceKeepsPermanentObstacles(t *testing.T) {
	caps := spec.DefaultCapabilities()
	caps[spec.Obstacle].Clearable = false
	g, err := grid.Parse([]string{"#a#", "...", "..."}, caps, 3, core.NewWithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	ClearPiece(g, 1, 0)
	if g.At(0, 0).Kind != spec.Obstacle || g.At(2, 0).Kind != spec.Obstacle {
		t.Fatalf("permanent obstacles must survive")
	}
	if ClearPiece(g, 0, 0) {
		t.Fatalf("permanent obstacle cleared directly")
	}
}

func TestClearSpecials(t *testing.T) {
	g := mustGrid(t,
		"aAb",
		"c#d",
		"ebc",
	)
	ClearPiece(g, 1, 0)
	if got := g.Snapshot().String(); got != "...\nc.d\nebc" {
		t.Fatalf("row clear:\n%s", got)
	}

	g = mustGrid(t,
		"a0b",
		"cAd",
		"efc",
	)
	ClearPiece(g, 1, 0)
	if got := g.Snapshot().String(); got != "a.b\n...\ne.c" {
		t.Fatalf("chained column/row clear:\n%s", got)
	}
}

func TestClearPieceNoop(t *testing.T) {
	g := mustGrid(t, "a..", "...", "...")
	if ClearPiece(g, 1, 1) || ClearPiece(g, -1, 0) || ClearPiece(g, 3, 0) {
		t.Fatalf("empty or out-of-range cells must not clear")
	}
}
