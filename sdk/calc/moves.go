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

package calc

import "github.com/zintix-labs/matchlab/sdk/grid"

// Move 一次可成立的相鄰交換
type Move struct {
	AX int `json:"ax"`
	AY int `json:"ay"`
	BX int `json:"bx"`
	BY int `json:"by"`
}

// SwapMatches 試探交換 a,b 後是否任一方成立消除；盤面會被完整還原
func SwapMatches(g *grid.Grid, a, b *grid.Piece) bool {
	if !grid.IsAdjacent(a, b) || !g.IsMovable(a) || !g.IsMovable(b) {
		return false
	}
	g.Exchange(a, b)
	ok := FindMatch(g, a, a.X, a.Y) != nil || FindMatch(g, b, b.X, b.Y) != nil
	g.Exchange(a, b)
	return ok
}

// FindMoves 列出所有可成立的相鄰交換（右、下兩個方向，row-major 順序）
func FindMoves(g *grid.Grid) []Move {
	var moves []Move
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Columns(); x++ {
			a := g.At(x, y)
			if !g.IsMovable(a) {
				continue
			}
			if b := g.At(x+1, y); b != nil && SwapMatches(g, a, b) {
				moves = append(moves, Move{AX: x, AY: y, BX: x + 1, BY: y})
			}
			if b := g.At(x, y+1); b != nil && SwapMatches(g, a, b) {
				moves = append(moves, Move{AX: x, AY: y, BX: x, BY: y + 1})
			}
		}
	}
	return moves
}

// HasMatch 盤面上是否存在任何可消除的組合
func HasMatch(g *grid.Grid) bool {
	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Columns(); x++ {
			p := g.At(x, y)
			if g.IsClearable(p) && FindMatch(g, p, x, y) != nil {
				return true
			}
		}
	}
	return false
}
