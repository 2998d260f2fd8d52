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

// Step 對盤面做一次離散的重力鬆弛，回傳是否有任何方塊移動。
//
//   - 由倒數第二列往上處理 (y = rows-2 .. 0)，同列依 leftToRight 決定掃描方向
//   - 可移動方塊：正下方為空 -> 直落；否則依掃描方向試左下/右下斜角
//   - 斜角需為空，且該欄從 (diagX, y) 往上先遇到可移動方塊（或到頂）才可滑入；
//     先遇到不可移動的非空方塊（障礙）則放棄
//   - 掃描完後補頂列
func Step(g *grid.Grid, leftToRight bool) bool {
	rows, cols := g.Rows(), g.Columns()
	diag := [2]int{-1, 1}
	if !leftToRight {
		diag = [2]int{1, -1}
	}

	moved := false
	for y := rows - 2; y >= 0; y-- {
		for i := 0; i < cols; i++ {
			x := i
			if !leftToRight {
				x = cols - 1 - i
			}
			p := g.At(x, y)
			if !g.IsMovable(p) {
				continue
			}
			// 直落
			if g.IsEmpty(x, y+1) {
				shift(g, p, x, y+1)
				moved = true
				continue
			}
			// 斜滑
			for _, d := range diag {
				dx := x + d
				if !g.IsEmpty(dx, y+1) || !openAbove(g, dx, y) {
					continue
				}
				shift(g, p, dx, y+1)
				moved = true
				break
			}
		}
	}

	if FillTop(g) {
		moved = true
	}
	return moved
}

// FillTop 頂列每個空格從上方(-1 列)生成 Normal 方塊並移入
func FillTop(g *grid.Grid) bool {
	moved := false
	for x := 0; x < g.Columns(); x++ {
		if g.IsEmpty(x, 0) {
			g.SpawnAbove(x, spec.Normal)
			moved = true
		}
	}
	return moved
}

// shift 移動並在原位補 Empty
func shift(g *grid.Grid, p *grid.Piece, x, y int) {
	fx, fy := p.X, p.Y
	g.Relocate(p, x, y)
	g.Spawn(fx, fy, spec.Empty)
}

// openAbove 從 (x,y) 往上掃到頂，先遇到可移動方塊回傳 true，先遇到不可移動的非空方塊回傳 false
func openAbove(g *grid.Grid, x, y int) bool {
	for ; y >= 0; y-- {
		q := g.At(x, y)
		if q == nil {
			return false
		}
		if g.IsMovable(q) {
			return true
		}
		if q.Kind != spec.Empty {
			return false
		}
	}
	return true
}
