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
	"slices"

	"github.com/zintix-labs/matchlab/spec"
)

// Cell 快照中的一格
type Cell struct {
	ID    uint64         `json:"id"`
	Kind  spec.PieceKind `json:"kind"`
	Shape Shape          `json:"shape"`
}

// Snapshot 唯讀盤面視圖
type Snapshot struct {
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Cells   []Cell `json:"cells"`
}

// Snapshot 複製目前盤面
func (g *Grid) Snapshot() Snapshot {
	s := Snapshot{Rows: g.rows, Columns: g.cols, Cells: make([]Cell, len(g.cells))}
	for i, p := range g.cells {
		s.Cells[i] = Cell{ID: p.ID, Kind: p.Kind, Shape: p.Shape}
	}
	return s
}

// At 越界回傳零值與 false
func (s Snapshot) At(x, y int) (Cell, bool) {
	if x < 0 || x >= s.Columns || y < 0 || y >= s.Rows {
		return Cell{}, false
	}
	return s.Cells[y*s.Columns+x], true
}

func (s Snapshot) Equal(o Snapshot) bool {
	return s.Rows == o.Rows && s.Columns == o.Columns && slices.Equal(s.Cells, o.Cells)
}
