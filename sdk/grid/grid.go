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
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/sdk/sampler"
	"github.com/zintix-labs/matchlab/spec"
)

// Grid rows x cols 的方塊陣列，row-major 攤平存放 (idx = y*cols + x)。
// 每個格子永遠恰有一個 Piece，空位放 Empty。
type Grid struct {
	rows, cols int
	cells      []*Piece
	caps       spec.Capabilities
	shapes     int
	weighted   *sampler.AliasTable
	core       *core.Core
	nextID     uint64
	listener   Listener
}

// New 建立全 Empty 的盤面（不發出事件）
func New(rows, cols int, caps spec.Capabilities, shapes int, c *core.Core) *Grid {
	g := &Grid{
		rows:   rows,
		cols:   cols,
		cells:  make([]*Piece, rows*cols),
		caps:   caps,
		shapes: shapes,
		core:   c,
	}
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			g.cells[g.Idx(x, y)] = g.newPiece(x, y, spec.Empty, NoShape)
		}
	}
	return g
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Columns() int { return g.cols }
func (g *Grid) Shapes() int { return g.shapes }

// Idx 座標轉索引，呼叫前需確認 InBounds
func (g *Grid) Idx(x, y int) int { return y*g.cols + x }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.cols && y >= 0 && y < g.rows
}

// At 取得格子上的方塊，越界回傳 nil
func (g *Grid) At(x, y int) *Piece {
	if !g.InBounds(x, y) {
		return nil
	}
	return g.cells[g.Idx(x, y)]
}

func (g *Grid) Cap(k spec.PieceKind) spec.Capability { return g.caps[k] }

func (g *Grid) IsMovable(p *Piece) bool { return p != nil && g.caps[p.Kind].Movable }
func (g *Grid) IsClearable(p *Piece) bool { return p != nil && g.caps[p.Kind].Clearable }
func (g *Grid) IsShaped(p *Piece) bool { return p != nil && g.caps[p.Kind].Shaped }
func (g *Grid) IsEmpty(x, y int) bool {
	p := g.At(x, y)
	return p != nil && p.Kind == spec.Empty
}

// SetListener 設定事件接收者，nil 表示不通知
func (g *Grid) SetListener(l Listener) { g.listener = l }

// Emit 發送事件
func (g *Grid) Emit(e Event) {
	if g.listener != nil {
		g.listener.OnEvent(e)
	}
}

// SetShapeWeights 指定形狀的生成權重；nil 或長度不符時回到均勻分布
func (g *Grid) SetShapeWeights(weights []int) {
	if len(weights) != g.shapes {
		g.weighted = nil
		return
	}
	g.weighted = sampler.BuildAliasTable(weights)
}

// randomShape 均勻時抽一次亂數，加權時抽兩次
func (g *Grid) randomShape() Shape {
	if g.weighted != nil {
		return Shape(g.weighted.Pick(g.core))
	}
	return Shape(g.core.IntN(g.shapes))
}

// Spawn 在 (x,y) 生成新方塊並取代原佔用者，帶形狀的種類隨機抽形狀
func (g *Grid) Spawn(x, y int, kind spec.PieceKind) *Piece {
	shape := NoShape
	if g.caps[kind].Shaped {
		shape = g.randomShape()
	}
	return g.SpawnShaped(x, y, kind, shape)
}

// SpawnShaped 以指定形狀生成（特殊方塊繼承被消除的形狀）
func (g *Grid) SpawnShaped(x, y int, kind spec.PieceKind, shape Shape) *Piece {
	if !g.InBounds(x, y) {
		return nil
	}
	if !g.caps[kind].Shaped {
		shape = NoShape
	}
	p := g.newPiece(x, y, kind, shape)
	g.cells[g.Idx(x, y)] = p
	if kind != spec.Empty {
		g.Emit(Event{Kind: Spawned, PieceID: p.ID, PieceKind: kind, Shape: shape, FromX: x, FromY: y, ToX: x, ToY: y})
	}
	return p
}

// SpawnAbove 在第 x 欄上方的虛擬列 (-1) 生成方塊並移入頂列，頂列是唯一的注入點
func (g *Grid) SpawnAbove(x int, kind spec.PieceKind) *Piece {
	if x < 0 || x >= g.cols {
		return nil
	}
	shape := NoShape
	if g.caps[kind].Shaped {
		shape = g.randomShape()
	}
	p := g.newPiece(x, -1, kind, shape)
	g.Emit(Event{Kind: Spawned, PieceID: p.ID, PieceKind: kind, Shape: shape, FromX: x, FromY: -1, ToX: x, ToY: -1})
	g.Relocate(p, x, 0)
	return p
}

// Relocate 把 p 移到 (x,y)，覆蓋原佔用者；原位置由呼叫端補 Empty。
func (g *Grid) Relocate(p *Piece, x, y int) {
	if p == nil || !g.InBounds(x, y) {
		return
	}
	fx, fy := p.X, p.Y
	g.cells[g.Idx(x, y)] = p
	p.X, p.Y = x, y
	g.Emit(Event{Kind: Moved, PieceID: p.ID, PieceKind: p.Kind, Shape: p.Shape, FromX: fx, FromY: fy, ToX: x, ToY: y})
}

// Exchange 靜默交換兩個方塊的位置（不發事件），用於試探性交換與回復
func (g *Grid) Exchange(a, b *Piece) {
	if a == nil || b == nil || a == b {
		return
	}
	ax, ay := a.X, a.Y
	g.cells[g.Idx(b.X, b.Y)] = a
	g.cells[g.Idx(ax, ay)] = b
	a.X, a.Y, b.X, b.Y = b.X, b.Y, ax, ay
}

// Each 依 row-major 順序走訪
func (g *Grid) Each(fn func(p *Piece)) {
	for _, p := range g.cells {
		fn(p)
	}
}

// Count 計算某種類的方塊數
func (g *Grid) Count(kind spec.PieceKind) int {
	n := 0
	for _, p := range g.cells {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func (g *Grid) newPiece(x, y int, kind spec.PieceKind, shape Shape) *Piece {
	g.nextID++
	return &Piece{ID: g.nextID, Kind: kind, Shape: shape, X: x, Y: y}
}
