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
	"fmt"
	"log/slog"

	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/calc"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/sdk/ops"
	"github.com/zintix-labs/matchlab/spec"
)

// Swap 已成立的交換，A / B 為交換後的兩個方塊
type Swap struct {
	A, B *grid.Piece
}

// Horizontal 同列交換
func (s *Swap) Horizontal() bool {
	return s.A.Y == s.B.Y
}

func (s *Swap) endpointIn(m *calc.MatchSet) *grid.Piece {
	var hit *grid.Piece
	for _, p := range [2]*grid.Piece{s.A, s.B} {
		if m.Contains(p) {
			hit = p
		}
	}
	return hit
}

// TickResult Tick 一次做了什麼
type TickResult struct {
	Moved   bool // 這一步有方塊移動
	Cleared bool // 這一步有消除
	Settled bool // 盤面已穩定，回到 Idle
}

// TrySwap 嘗試交換相鄰的兩個可移動方塊。
//
// Resolving 中、不相鄰或不可移動時什麼都不做；交換後雙方都不成立消除則完整還原，
// 不發任何事件也不消耗亂數。成立時發出兩個 Moved，消除所有成立組合，
// 參與交換的特殊方塊若仍在原地則一併引爆，接著進入 Resolving。
func (b *Board) TrySwap(p1, p2 *grid.Piece) (bool, error) {
	if b.state == Resolving {
		return false, nil
	}
	g := b.grid
	if !b.IsAdjacent(p1, p2) || !g.IsMovable(p1) || !g.IsMovable(p2) {
		return false, nil
	}
	if g.At(p1.X, p1.Y) != p1 || g.At(p2.X, p2.Y) != p2 {
		return false, nil
	}

	x1, y1, x2, y2 := p1.X, p1.Y, p2.X, p2.Y
	g.Exchange(p1, p2)
	if calc.FindMatch(g, p1, p1.X, p1.Y) == nil && calc.FindMatch(g, p2, p2.X, p2.Y) == nil {
		g.Exchange(p1, p2)
		return false, nil
	}

	g.Emit(grid.Event{Kind: grid.Moved, PieceID: p1.ID, PieceKind: p1.Kind, Shape: p1.Shape, FromX: x1, FromY: y1, ToX: p1.X, ToY: p1.Y})
	g.Emit(grid.Event{Kind: grid.Moved, PieceID: p2.ID, PieceKind: p2.Kind, Shape: p2.Shape, FromX: x2, FromY: y2, ToX: p2.X, ToY: p2.Y})

	b.state = Resolving
	b.cycles = 0
	b.pressed, b.entered = nil, nil

	b.ClearAllValidMatches(&Swap{A: p1, B: p2})
	for _, p := range [2]*grid.Piece{p1, p2} {
		if p.Kind.IsSpecial() && g.At(p.X, p.Y) == p {
			ops.ClearPiece(g, p.X, p.Y)
		}
	}

	if b.paced {
		return true, nil
	}
	return true, b.Resolve()
}

// ClearAllValidMatches 依 row-major 掃描所有可消除格子並消除成立的組合，
// 回傳是否有任何消除（需要補位）。
//
// 剛好 4 個的組合會在代表格生成特殊方塊：代表格優先取交換端點，否則均勻隨機；
// 種類由交換方向決定（同列 RowClear、同欄 ColumnClear），沒有交換時均勻二選一。
// 特殊方塊在整組消除後才生成，並繼承被消除的形狀。
func (b *Board) ClearAllValidMatches(swap *Swap) bool {
	g := b.grid
	needsRefill := false
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Columns(); x++ {
			p := g.At(x, y)
			if !g.IsClearable(p) {
				continue
			}
			m := calc.FindMatch(g, p, x, y)
			if m == nil {
				continue
			}

			special, rx, ry := b.pickSpecial(m, swap)
			for _, c := range m.Cells {
				if g.At(c.X, c.Y) != c {
					continue // 已被同組的特殊方塊波及
				}
				if ops.ClearPiece(g, c.X, c.Y) {
					needsRefill = true
				}
			}
			if special != spec.Empty {
				g.SpawnShaped(rx, ry, special, m.Shape)
			}
		}
	}
	return needsRefill
}

func (b *Board) pickSpecial(m *calc.MatchSet, swap *Swap) (spec.PieceKind, int, int) {
	if m.Len() != 4 {
		return spec.Empty, 0, 0
	}
	var rep *grid.Piece
	if swap != nil {
		rep = swap.endpointIn(m)
	}
	if rep == nil {
		rep = m.Cells[b.core.IntN(m.Len())]
	}

	kind := spec.ColumnClear
	switch {
	case swap != nil && swap.Horizontal():
		kind = spec.RowClear
	case swap == nil && b.core.Coin():
		kind = spec.RowClear
	}
	return kind, rep.X, rep.Y
}

// Tick 推進一個離散步驟：一次重力 pass；若沒有移動則做一次全盤消除；
// 兩者皆無則盤面穩定並回到 Idle。非 Resolving 時直接回報 Settled。
//
// 已消除 CascadeCap 輪且盤面上仍有待消除的組合時，不再消除，
// 以已補滿的盤面回到 Idle 並回傳 ErrCascadeCap。
func (b *Board) Tick() (TickResult, error) {
	if b.state != Resolving {
		return TickResult{Settled: true}, nil
	}
	if ops.Step(b.grid, b.leftToRight) {
		b.leftToRight = !b.leftToRight
		return TickResult{Moved: true}, nil
	}
	if limit := b.setting.CascadeCap; limit > 0 && b.cycles >= limit && calc.HasMatch(b.grid) {
		b.log.Warn("cascade cap exceeded, board left with pending matches",
			slog.String("board", b.setting.Name),
			slog.Int("cycles", b.cycles),
		)
		b.finish()
		return TickResult{Settled: true}, errs.ErrCascadeCap.WithExtra(fmt.Sprintf("board=%s cycles=%d", b.setting.Name, b.cycles))
	}
	if b.ClearAllValidMatches(nil) {
		b.cycles++
		return TickResult{Cleared: true}, nil
	}
	b.finish()
	return TickResult{Settled: true}, nil
}

// Resolve 同步跑完整個連鎖：重力到不動 -> 消除 -> 重複，直到沒有任何消除。
func (b *Board) Resolve() error {
	if b.state != Resolving {
		b.state = Resolving
		b.cycles = 0
	}
	for {
		r, err := b.Tick()
		if err != nil {
			return err
		}
		if r.Settled {
			return nil
		}
	}
}

// Cycles 目前（或上一次）連鎖的消除輪數
func (b *Board) Cycles() int { return b.cycles }

func (b *Board) finish() {
	b.state = Idle
	b.pressed, b.entered = nil, nil
}
