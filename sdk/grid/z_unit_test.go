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

package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/spec"
)

func newTestGrid(t *testing.T, lines ...string) *Grid {
	t.Helper()
	g, err := Parse(lines, spec.DefaultCapabilities(), 4, core.NewWithSeed(1))
	require.NoError(t, err)
	return g
}

func TestAdjacencySymmetry(t *testing.T) {
	g := newTestGrid(t, "abc", "bca", "cab")
	for ay := 0; ay < 3; ay++ {
		for ax := 0; ax < 3; ax++ {
			for by := 0; by < 3; by++ {
				for bx := 0; bx < 3; bx++ {
					a, b := g.At(ax, ay), g.At(bx, by)
					assert.Equal(t, IsAdjacent(a, b), IsAdjacent(b, a))
				}
			}
		}
	}
	assert.True(t, IsAdjacent(g.At(0, 0), g.At(1, 0)))
	assert.True(t, IsAdjacent(g.At(1, 1), g.At(1, 2)))
	assert.False(t, IsAdjacent(g.At(0, 0), g.At(1, 1)))
	assert.False(t, IsAdjacent(g.At(0, 0), g.At(2, 0)))
	assert.False(t, IsAdjacent(g.At(0, 0), g.At(0, 0)))
	assert.False(t, IsAdjacent(nil, g.At(0, 0)))
}

func TestPositionInvariant(t *testing.T) {
	g := newTestGrid(t, "abc", "bca", "cab")
	a, b := g.At(0, 0), g.At(1, 0)
	g.Exchange(a, b)
	assert.Same(t, a, g.At(1, 0))
	assert.Same(t, b, g.At(0, 0))
	g.Each(func(p *Piece) {
		assert.Same(t, p, g.At(p.X, p.Y))
	})
}

func TestSpawnEmitsOnlyForNonEmpty(t *testing.T) {
	g := newTestGrid(t, "...", "...", "...")
	var got []Event
	g.SetListener(ListenerFunc(func(e Event) { got = append(got, e) }))

	g.Spawn(1, 1, spec.Empty)
	assert.Empty(t, got)

	p := g.Spawn(1, 1, spec.Normal)
	require.Len(t, got, 1)
	assert.Equal(t, Spawned, got[0].Kind)
	assert.Equal(t, p.ID, got[0].PieceID)
	assert.GreaterOrEqual(t, int(p.Shape), 0)
	assert.Less(t, int(p.Shape), 4)

	o := g.Spawn(0, 0, spec.Obstacle)
	assert.Equal(t, NoShape, o.Shape)
	assert.Nil(t, g.Spawn(5, 5, spec.Normal))
}

func TestSpawnAboveEntersTopRow(t *testing.T) {
	g := newTestGrid(t, "...", "...", "...")
	var got []Event
	g.SetListener(ListenerFunc(func(e Event) { got = append(got, e) }))

	p := g.SpawnAbove(2, spec.Normal)
	require.Len(t, got, 2)
	assert.Equal(t, Spawned, got[0].Kind)
	assert.Equal(t, -1, got[0].ToY)
	assert.Equal(t, Moved, got[1].Kind)
	assert.Equal(t, [4]int{2, -1, 2, 0}, [4]int{got[1].FromX, got[1].FromY, got[1].ToX, got[1].ToY})
	assert.Same(t, p, g.At(2, 0))
}

func TestSnapshotRoundTripText(t *testing.T) {
	lines := []string{"a#B", "0.c", "dab"}
	g := newTestGrid(t, lines...)
	assert.Equal(t, "a#B\n0.c\ndab", g.Snapshot().String())
	assert.True(t, g.Snapshot().Equal(g.Snapshot()))

	_, err := Parse([]string{"ab", "abc"}, spec.DefaultCapabilities(), 4, core.NewWithSeed(1))
	assert.Error(t, err)
	_, err = Parse([]string{"z"}, spec.DefaultCapabilities(), 4, core.NewWithSeed(1))
	assert.Error(t, err)
}

func TestCellToWorld(t *testing.T) {
	geo := GeometryFrom(spec.GeometrySetting{CellSize: 2, OriginX: 1, OriginY: 10})
	assert.Equal(t, Vec3{X: 5, Y: 4, Z: -1}, geo.CellToWorld(2, 3, -1))
	assert.Equal(t, 1.0, GeometryFrom(spec.GeometrySetting{}).CellSize)
}

func TestShapeRegistry(t *testing.T) {
	r := NewShapeRegistry([]spec.ShapeSetting{{Name: "ruby", Color: "red"}, {Name: "jade", Glyph: "J"}})
	assert.Equal(t, 2, r.Len())
	v, ok := r.Visual(0)
	require.True(t, ok)
	assert.Equal(t, "r", v.Glyph)
	_, ok = r.Visual(NoShape)
	assert.False(t, ok)
	s, ok := r.Lookup("jade")
	assert.True(t, ok)
	assert.Equal(t, Shape(1), s)
}

func TestSpawnHonorsShapeWeights(t *testing.T) {
	g := newTestGrid(t, "...", "...", "...")
	g.SetShapeWeights([]int{0, 0, 5, 0})
	for i := 0; i < 50; i++ {
		assert.Equal(t, Shape(2), g.Spawn(1, 1, spec.Normal).Shape)
	}

	// 長度不符回到均勻
	g.SetShapeWeights([]int{1, 1})
	seen := map[Shape]bool{}
	for i := 0; i < 200; i++ {
		seen[g.Spawn(0, 0, spec.Normal).Shape] = true
	}
	assert.Len(t, seen, 4)
}
