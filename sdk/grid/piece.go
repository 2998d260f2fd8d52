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
	"fmt"

	"github.com/zintix-labs/matchlab/spec"
)

// Shape 形狀索引，對應 ShapeRegistry 的位置
type Shape int16

// NoShape 不帶形狀的方塊（Empty / Obstacle）
const NoShape Shape = -1

// Piece 一個格子的佔用者。
// ID 在生成時配發、不再改變；X, Y 永遠等於其在 Grid 中的位置。
type Piece struct {
	ID    uint64
	Kind  spec.PieceKind
	Shape Shape
	X, Y  int
}

func (p *Piece) String() string {
	if p == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s#%d(%d,%d)s=%d", p.Kind, p.ID, p.X, p.Y, p.Shape)
}

// SameShape 兩者皆帶形狀且形狀相同
func (p *Piece) SameShape(o *Piece) bool {
	return p != nil && o != nil && p.Shape != NoShape && p.Shape == o.Shape
}

// IsAdjacent 同欄且 |dy|==1，或同列且 |dx|==1
func IsAdjacent(a, b *Piece) bool {
	if a == nil || b == nil {
		return false
	}
	return Adjacent(a.X, a.Y, b.X, b.Y)
}

// Adjacent 座標版本的 IsAdjacent
func Adjacent(ax, ay, bx, by int) bool {
	dx, dy := ax-bx, ay-by
	switch {
	case dx == 0:
		return dy == 1 || dy == -1
	case dy == 0:
		return dx == 1 || dx == -1
	}
	return false
}
