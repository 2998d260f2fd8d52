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

// OnPress 按下某格，開始選取。Resolving 中忽略，回傳是否被接受。
func (b *Board) OnPress(x, y int) bool {
	if b.state == Resolving {
		return false
	}
	p := b.grid.At(x, y)
	if p == nil {
		return false
	}
	b.pressed, b.entered = p, nil
	b.state = Selecting
	return true
}

// OnEnter 拖曳進入某格
func (b *Board) OnEnter(x, y int) bool {
	if b.state != Selecting || b.pressed == nil {
		return false
	}
	p := b.grid.At(x, y)
	if p == nil {
		return false
	}
	b.entered = p
	return true
}

// OnRelease 放開：按下與進入的兩格相鄰時嘗試交換。
// 沒有選取、不相鄰都視為 no-op；選取狀態一律清除。
func (b *Board) OnRelease() (bool, error) {
	if b.state == Resolving {
		return false, nil
	}
	p1, p2 := b.pressed, b.entered
	b.pressed, b.entered = nil, nil
	b.state = Idle
	if p1 == nil || p2 == nil || !b.IsAdjacent(p1, p2) {
		return false, nil
	}
	return b.TrySwap(p1, p2)
}
