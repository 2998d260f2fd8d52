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

// MinRun 成立消除的最短直線長度
const MinRun = 3

// minBranch 垂直分支(L/T 形)最短長度
const minBranch = 2

// MatchSet 一組同形狀的消除集合：一段 >=3 的直線，至多附加一條垂直分支。
// Cells[0] 永遠是查詢的方塊本身。
type MatchSet struct {
	Shape      grid.Shape
	Horizontal bool // 主線方向
	Cells      []*grid.Piece
}

func (m *MatchSet) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Cells)
}

func (m *MatchSet) Contains(p *grid.Piece) bool {
	if m == nil || p == nil {
		return false
	}
	for _, c := range m.Cells {
		if c == p {
			return true
		}
	}
	return false
}

// FindMatch 假設 p 位於 (x,y)，回傳其所在的最大消除集合；不足 3 回傳 nil。
//
// 先找橫向：往左、往右累積連續同形狀方塊；若長度 >=3，依主線順序逐格往上、往下
// 找垂直分支，第一條長度 >=2 的分支併入（只取一條，不找最大）。
// 橫向不成立時，以對稱方式做縱向。
// 所有掃描在取值前先檢查邊界。
func FindMatch(g *grid.Grid, p *grid.Piece, x, y int) *MatchSet {
	if p == nil || !g.IsShaped(p) || !g.InBounds(x, y) {
		return nil
	}
	if m := scanLine(g, p, x, y, true); m != nil {
		return m
	}
	return scanLine(g, p, x, y, false)
}

// scanLine horizontal=true 時主線沿 x 軸，分支沿 y 軸；反之亦然
func scanLine(g *grid.Grid, p *grid.Piece, x, y int, horizontal bool) *MatchSet {
	dx, dy := 1, 0
	if !horizontal {
		dx, dy = 0, 1
	}

	run := make([]*grid.Piece, 1, 8)
	run[0] = p
	run = collect(g, p, run, x, y, -dx, -dy)
	run = collect(g, p, run, x, y, dx, dy)
	if len(run) < MinRun {
		return nil
	}

	// 分支方向與主線垂直
	bx, by := dy, dx
	for i, q := range run {
		cx, cy := q.X, q.Y
		if i == 0 {
			cx, cy = x, y // p 是假設位置
		}
		branch := collect(g, p, nil, cx, cy, -bx, -by)
		branch = collect(g, p, branch, cx, cy, bx, by)
		if len(branch) >= minBranch {
			run = append(run, branch...)
			break
		}
	}
	return &MatchSet{Shape: p.Shape, Horizontal: horizontal, Cells: run}
}

// collect 從 (x,y) 往 (dx,dy) 方向累積與 p 同形狀的連續方塊（不含起點）
func collect(g *grid.Grid, p *grid.Piece, dst []*grid.Piece, x, y, dx, dy int) []*grid.Piece {
	for nx, ny := x+dx, y+dy; g.InBounds(nx, ny); nx, ny = nx+dx, ny+dy {
		q := g.At(nx, ny)
		if q == p || !g.IsShaped(q) || !p.SameShape(q) {
			break
		}
		dst = append(dst, q)
	}
	return dst
}
