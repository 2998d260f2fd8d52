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

package board

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/calc"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/sdk/ops"
	"github.com/zintix-labs/matchlab/spec"
)

func testSetting(rows, cols, shapes int) *spec.BoardSetting {
	bs := &spec.BoardSetting{Name: "test", Rows: rows, Columns: cols}
	for i := 0; i < shapes; i++ {
		bs.Shapes = append(bs.Shapes, spec.ShapeSetting{Name: fmt.Sprintf("s%d", i)})
	}
	return bs
}

func fixture(t *testing.T, bs *spec.BoardSetting, opts []Option, lines ...string) *Board {
	t.Helper()
	return seededFixture(t, 5, bs, opts, lines...)
}

func seededFixture(t *testing.T, seed int64, bs *spec.BoardSetting, opts []Option, lines ...string) *Board {
	t.Helper()
	require.NoError(t, bs.Init())
	c := core.NewWithSeed(seed)
	g, err := grid.Parse(lines, bs.Caps, len(bs.Shapes), c)
	require.NoError(t, err)
	b, err := FromGrid(bs, g, c, opts...)
	require.NoError(t, err)
	return b
}

type eventLog struct{ events []grid.Event }

func (l *eventLog) OnEvent(e grid.Event) { l.events = append(l.events, e) }

func (l *eventLog) count(k grid.EventKind) int {
	n := 0
	for _, e := range l.events {
		if e.Kind == k {
			n++
		}
	}
	return n
}

func TestNewProducesStableDenseBoard(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		b, err := New(testSetting(6, 7, 4), core.NewWithSeed(seed))
		require.NoError(t, err)
		assert.Equal(t, Idle, b.State())
		assert.Zero(t, b.Grid().Count(spec.Empty), "seed %d", seed)
		assert.False(t, calc.HasMatch(b.Grid()), "seed %d", seed)
		assert.False(t, ops.Step(b.Grid(), true))
	}
}

func TestNewIsDeterministic(t *testing.T) {
	b1, err := New(testSetting(5, 5, 4), core.NewWithSeed(77))
	require.NoError(t, err)
	b2, err := New(testSetting(5, 5, 4), core.NewWithSeed(77))
	require.NoError(t, err)
	assert.True(t, b1.Snapshot().Equal(b2.Snapshot()))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, err := New(testSetting(2, 5, 4), core.NewWithSeed(1))
	assert.True(t, errors.Is(err, errs.ErrInvalidConfig))
	_, err = New(testSetting(5, 5, 2), core.NewWithSeed(1))
	assert.True(t, errors.Is(err, errs.ErrInvalidConfig))
	_, err = New(nil, core.NewWithSeed(1))
	assert.Error(t, err)
}

func TestNewWithObstaclesSettles(t *testing.T) {
	bs := testSetting(5, 5, 4)
	bs.Layout = []string{".....", ".#...", ".....", "...#.", "....."}
	permanent := false
	bs.Pieces = []spec.PieceSetting{{Kind: "obstacle", Clearable: &permanent}}
	b, err := New(bs, core.NewWithSeed(3))
	require.NoError(t, err)
	assert.Equal(t, 2, b.Grid().Count(spec.Obstacle))
	assert.False(t, calc.HasMatch(b.Grid()))
	assert.False(t, ops.Step(b.Grid(), b.LeftToRight()))
}

func TestClearAllValidMatchesStraight(t *testing.T) {
	b := fixture(t, testSetting(3, 3, 5), nil,
		"aaa",
		"bcd",
		"cdb",
	)
	assert.True(t, b.ClearAllValidMatches(nil))
	assert.Equal(t, "...\nbcd\ncdb", b.Snapshot().String())
	assert.False(t, b.ClearAllValidMatches(nil))
}

func TestFourMatchAlongRowSpawnsRowClear(t *testing.T) {
	b := fixture(t, testSetting(3, 5, 5), []Option{WithPacedFill()},
		"abaaa",
		"cdecd",
		"ecdec",
	)
	ok, err := b.TrySwap(b.Grid().At(0, 0), b.Grid().At(1, 0))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Resolving, b.State())
	assert.Equal(t, "bA...\ncdecd\necdec", b.Snapshot().String())
	assert.Equal(t, 1, b.Grid().Count(spec.RowClear))

	require.NoError(t, b.Resolve())
	assert.Equal(t, Idle, b.State())
	assert.Zero(t, b.Grid().Count(spec.Empty))
}

func TestFourMatchFromColumnSwapSpawnsColumnClear(t *testing.T) {
	b := fixture(t, testSetting(3, 4, 5), []Option{WithPacedFill()},
		"cadc",
		"abaa",
		"dcec",
	)
	ok, err := b.TrySwap(b.Grid().At(1, 0), b.Grid().At(1, 1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "cbdc\n.0..\ndcec", b.Snapshot().String())
}

func TestSwappedSpecialDetonates(t *testing.T) {
	b := fixture(t, testSetting(3, 4, 5), []Option{WithPacedFill()},
		"b0bb",
		"cdec",
		"decd",
	)
	ok, err := b.TrySwap(b.Grid().At(0, 0), b.Grid().At(1, 0))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "....\n.dec\n.ecd", b.Snapshot().String())
}

func TestRejectedSwapLeavesNoTrace(t *testing.T) {
	log := &eventLog{}
	b := fixture(t, testSetting(3, 3, 5), []Option{WithListener(log)},
		"abc",
		"bca",
		"cab",
	)
	before := b.Snapshot()
	rng, err := b.Core().Snapshot()
	require.NoError(t, err)

	ok, err := b.TrySwap(b.Grid().At(0, 0), b.Grid().At(1, 0))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, before.Equal(b.Snapshot()))
	assert.Empty(t, log.events)
	after, _ := b.Core().Snapshot()
	assert.Equal(t, rng, after)
	assert.Equal(t, Idle, b.State())
}

func TestSwapPreconditions(t *testing.T) {
	b := fixture(t, testSetting(3, 3, 5), nil,
		"a#a",
		"bab",
		"cdc",
	)
	g := b.Grid()
	ok, err := b.TrySwap(g.At(1, 0), g.At(1, 1))
	assert.NoError(t, err)
	assert.False(t, ok)
	ok, _ = b.TrySwap(g.At(0, 0), g.At(2, 0))
	assert.False(t, ok)
	ok, _ = b.TrySwap(nil, g.At(0, 0))
	assert.False(t, ok)
}

func TestGestureFlow(t *testing.T) {
	b := fixture(t, testSetting(3, 3, 5), nil,
		"abc",
		"bca",
		"cab",
	)
	before := b.Snapshot()

	ok, err := b.OnRelease()
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, b.OnPress(0, 0))
	assert.Equal(t, Selecting, b.State())
	assert.True(t, b.OnEnter(2, 0))
	ok, _ = b.OnRelease()
	assert.False(t, ok)

	assert.False(t, b.OnEnter(1, 0), "enter without press")
	assert.True(t, b.OnPress(0, 0))
	assert.True(t, b.OnEnter(1, 0))
	ok, _ = b.OnRelease()
	assert.False(t, ok)

	p, e := b.Selection()
	assert.Nil(t, p)
	assert.Nil(t, e)
	assert.Equal(t, Idle, b.State())
	assert.True(t, before.Equal(b.Snapshot()))
	assert.False(t, b.OnPress(9, 9))
}

func TestGestureCommitsSwap(t *testing.T) {
	log := &eventLog{}
	b := fixture(t, testSetting(3, 3, 5), []Option{WithListener(log)},
		"aba",
		"cad",
		"dec",
	)
	b.OnPress(1, 1)
	b.OnEnter(1, 0)
	ok, err := b.OnRelease()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Idle, b.State())
	assert.GreaterOrEqual(t, log.count(grid.Cleared), 3)
	assert.Zero(t, b.Grid().Count(spec.Empty))
	assert.False(t, calc.HasMatch(b.Grid()))
}

func TestPacedTickMatchesResolve(t *testing.T) {
	direct, err := New(testSetting(6, 6, 4), core.NewWithSeed(21))
	require.NoError(t, err)

	paced, err := New(testSetting(6, 6, 4), core.NewWithSeed(21), WithPacedFill())
	require.NoError(t, err)
	assert.Equal(t, Resolving, paced.State())
	assert.False(t, paced.OnPress(0, 0))
	before := paced.Snapshot()
	ok, err := paced.TrySwap(paced.Grid().At(0, 0), paced.Grid().At(1, 0))
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, before.Equal(paced.Snapshot()))

	ticks := 0
	for {
		r, err := paced.Tick()
		require.NoError(t, err)
		ticks++
		if r.Settled {
			break
		}
		require.Less(t, ticks, 10000)
	}
	assert.Greater(t, ticks, 1)
	assert.True(t, direct.Snapshot().Equal(paced.Snapshot()))

	r, err := paced.Tick()
	assert.NoError(t, err)
	assert.True(t, r.Settled)
}

// 直欄 x0..2 的底列被消除後整體下移一格，與 x3 組成 ccc
var cascadeLines = []string{
	"abab",
	"baba",
	"accb",
	"dddc",
}

func TestCascadeCapFiresOnPendingClear(t *testing.T) {
	bs := testSetting(4, 4, 5)
	bs.CascadeCap = 1
	b := fixture(t, bs, nil, cascadeLines...)

	err := b.Resolve()
	assert.ErrorIs(t, err, errs.ErrCascadeCap)
	assert.Equal(t, errs.Warn, errs.Level(err))
	assert.Equal(t, Idle, b.State())
	assert.Equal(t, 1, b.Cycles())
	assert.Zero(t, b.Grid().Count(spec.Empty))
	assert.False(t, ops.Step(b.Grid(), b.LeftToRight()))
	assert.True(t, calc.HasMatch(b.Grid()))

	rows := strings.Split(b.Snapshot().String(), "\n")
	assert.Equal(t, []string{"abaa", "babb", "accc"}, rows[1:])
}

func TestCascadeCapBoundary(t *testing.T) {
	free := fixture(t, testSetting(4, 4, 5), nil, cascadeLines...)
	require.NoError(t, free.Resolve())
	n := free.Cycles()
	require.GreaterOrEqual(t, n, 2)

	exact := testSetting(4, 4, 5)
	exact.CascadeCap = n
	b := fixture(t, exact, nil, cascadeLines...)
	require.NoError(t, b.Resolve(), "a cascade of exactly cap clears settles normally")
	assert.True(t, free.Snapshot().Equal(b.Snapshot()))
	assert.False(t, calc.HasMatch(b.Grid()))

	short := testSetting(4, 4, 5)
	short.CascadeCap = n - 1
	b = fixture(t, short, nil, cascadeLines...)
	assert.ErrorIs(t, b.Resolve(), errs.ErrCascadeCap)
	assert.Equal(t, n-1, b.Cycles())
	assert.Zero(t, b.Grid().Count(spec.Empty))
}

func specials(g *grid.Grid) []*grid.Piece {
	var out []*grid.Piece
	g.Each(func(p *grid.Piece) {
		if p.Kind.IsSpecial() {
			out = append(out, p)
		}
	})
	return out
}

func TestFourMatchWithoutSwapPicksRandomCellAndKind(t *testing.T) {
	kinds := map[spec.PieceKind]int{}
	cols := map[int]int{}
	for seed := int64(1); seed <= 64; seed++ {
		b := seededFixture(t, seed, testSetting(3, 4, 5), nil,
			"aaaa",
			"bcdb",
			"cdbc",
		)
		require.True(t, b.ClearAllValidMatches(nil))

		sp := specials(b.Grid())
		require.Len(t, sp, 1, "seed %d", seed)
		assert.Equal(t, 0, sp[0].Y, "seed %d", seed)
		assert.Equal(t, grid.Shape(0), sp[0].Shape, "seed %d", seed)
		assert.Equal(t, 3, b.Grid().Count(spec.Empty), "seed %d", seed)
		kinds[sp[0].Kind]++
		cols[sp[0].X]++
	}
	assert.Len(t, kinds, 2)
	assert.Greater(t, len(cols), 1)
}

func TestFourMatchAwayFromSwapPicksRandomCell(t *testing.T) {
	cols := map[int]int{}
	for seed := int64(1); seed <= 64; seed++ {
		b := seededFixture(t, seed, testSetting(3, 4, 5), []Option{WithPacedFill()},
			"abaa",
			"cdec",
			"eeee",
		)
		ok, err := b.TrySwap(b.Grid().At(0, 0), b.Grid().At(1, 0))
		require.NoError(t, err)
		require.True(t, ok)

		sp := specials(b.Grid())
		require.Len(t, sp, 1, "seed %d", seed)
		assert.Equal(t, spec.RowClear, sp[0].Kind, "seed %d", seed)
		assert.Equal(t, 2, sp[0].Y, "seed %d", seed)
		assert.Equal(t, grid.Shape(4), sp[0].Shape, "seed %d", seed)
		assert.Equal(t, "b...", strings.Split(b.Snapshot().String(), "\n")[0])
		cols[sp[0].X]++
	}
	assert.Greater(t, len(cols), 1)
}

func TestHintsAndGeometry(t *testing.T) {
	bs := testSetting(3, 3, 5)
	bs.Geometry = spec.GeometrySetting{CellSize: 2}
	b := fixture(t, bs, nil,
		"aba",
		"cad",
		"dec",
	)
	assert.Contains(t, b.Hints(), calc.Move{AX: 1, AY: 0, BX: 1, BY: 1})
	assert.Equal(t, grid.Vec3{X: 4, Y: -2, Z: 1}, b.CellToWorld(2, 1, 1))
	assert.True(t, b.IsAdjacent(b.Grid().At(0, 0), b.Grid().At(0, 1)))
}
