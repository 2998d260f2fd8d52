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
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

var orthogonal = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// ClearPiece 消除 (x,y) 的方塊，回傳是否真的消除。
//
//   - 先把格子換成 Empty，遞迴回到同一格時自然停止
//   - 相鄰四格中可消除的障礙一併清掉（只一圈，不遞移）
//   - RowClear / ColumnClear 被消除時清掉整列 / 整欄
func ClearPiece(g *grid.Grid, x, y int) bool {
	p := g.At(x, y)
	if !g.IsClearable(p) {
		return false
	}
	clearOne(g, p)
	ClearObstacles(g, x, y)

	switch p.Kind {
	case spec.RowClear:
		ClearRow(g, y)
	case spec.ColumnClear:
		ClearColumn(g, x)
	}
	return true
}

// ClearObstacles 清除 (x,y) 上下左右可消除的障礙
func ClearObstacles(g *grid.Grid, x, y int) int {
	n := 0
	for _, d := range orthogonal {
		q := g.At(x+d[0], y+d[1])
		if q != nil && q.Kind == spec.Obstacle && g.IsClearable(q) {
			clearOne(g, q)
			n++
		}
	}
	return n
}

// ClearRow 以 ClearPiece 清除第 y 列
func ClearRow(g *grid.Grid, y int) {
	for x := 0; x < g.Columns(); x++ {
		ClearPiece(g, x, y)
	}
}

// ClearColumn 以 ClearPiece 清除第 x 欄
func ClearColumn(g *grid.Grid, x int) {
	for y := 0; y < g.Rows(); y++ {
		ClearPiece(g, x, y)
	}
}

func clearOne(g *grid.Grid, p *grid.Piece) {
	x, y := p.X, p.Y
	g.Spawn(x, y, spec.Empty)
	g.Emit(grid.Event{Kind: grid.Cleared, PieceID: p.ID, PieceKind: p.Kind, Shape: p.Shape, FromX: x, FromY: y, ToX: x, ToY: y})
}
