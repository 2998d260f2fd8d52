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
	"strings"

	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/spec"
)

// 文字盤面格式（每格一字元）:
//
//	'.'       Empty
//	'#'       Obstacle
//	'a'..'z'  Normal，形狀 = 字母 - 'a'
//	'A'..'Z'  RowClear，形狀 = 字母 - 'A'
//	'0'..'9'  ColumnClear，形狀 = 數字
//
// 用於測試夾具與除錯輸出。

// Parse 由文字列建立盤面，不發出事件
func Parse(lines []string, caps spec.Capabilities, shapes int, c *core.Core) (*Grid, error) {
	if len(lines) == 0 {
		return nil, errs.NewFatal("grid.Parse: empty layout")
	}
	cols := len(lines[0])
	g := New(len(lines), cols, caps, shapes, c)
	for y, line := range lines {
		if len(line) != cols {
			return nil, errs.Fatalf("grid.Parse: row %d has %d columns, want %d", y, len(line), cols)
		}
		for x := 0; x < cols; x++ {
			kind, shape, ok := decodeCell(line[x])
			if !ok || (shape != NoShape && int(shape) >= shapes) {
				return nil, errs.Fatalf("grid.Parse: bad cell %q at (%d,%d)", line[x], x, y)
			}
			g.cells[g.Idx(x, y)] = g.newPiece(x, y, kind, shape)
		}
	}
	return g, nil
}

// String 以同一格式輸出，列之間以換行分隔
func (s Snapshot) String() string {
	var b strings.Builder
	for y := 0; y < s.Rows; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < s.Columns; x++ {
			c, _ := s.At(x, y)
			b.WriteByte(encodeCell(c.Kind, c.Shape))
		}
	}
	return b.String()
}

func decodeCell(ch byte) (spec.PieceKind, Shape, bool) {
	switch {
	case ch == '.':
		return spec.Empty, NoShape, true
	case ch == '#':
		return spec.Obstacle, NoShape, true
	case ch >= 'a' && ch <= 'z':
		return spec.Normal, Shape(ch - 'a'), true
	case ch >= 'A' && ch <= 'Z':
		return spec.RowClear, Shape(ch - 'A'), true
	case ch >= '0' && ch <= '9':
		return spec.ColumnClear, Shape(ch - '0'), true
	}
	return spec.Empty, NoShape, false
}

func encodeCell(k spec.PieceKind, s Shape) byte {
	switch k {
	case spec.Obstacle:
		return '#'
	case spec.Normal:
		return byte('a' + s)
	case spec.RowClear:
		return byte('A' + s)
	case spec.ColumnClear:
		return byte('0' + s)
	}
	return '.'
}
