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

// Package dto 對外（HTTP / 匯出）的資料結構與請求解碼。
package dto

import (
	"strings"

	"github.com/zintix-labs/matchlab/recorder"
	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/calc"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

// CellView 單格，座標為格子座標，World 為外部空間座標
type CellView struct {
	X     int       `json:"x"`
	Y     int       `json:"y"`
	ID    uint64    `json:"id"`
	Kind  string    `json:"kind"`
	Shape int       `json:"shape"`           // 無形狀為 -1
	Name  string    `json:"name,omitempty"`  // 形狀名稱
	Glyph string    `json:"glyph,omitempty"` // 形狀字元
	Color string    `json:"color,omitempty"`
	World grid.Vec3 `json:"world"`
}

// BoardView 盤面快照。Cells 只列出非 Empty 的格子；Layout 為文字盤面（每列一行）。
type BoardView struct {
	SessionID   uint64     `json:"session_id,omitempty"`
	BoardID     int        `json:"board_id"`
	BoardName   string     `json:"board"`
	Seed        int64      `json:"seed"`
	Rows        int        `json:"rows"`
	Columns     int        `json:"columns"`
	State       string     `json:"state"`
	LeftToRight bool       `json:"left_to_right"`
	Cycles      int        `json:"cycles"`
	Seq         uint64     `json:"seq"` // 下一個事件序號
	Layout      []string   `json:"layout"`
	Cells       []CellView `json:"cells"`
}

// NewBoardView 從盤面建立快照；Session 相關欄位由呼叫端補上
func NewBoardView(b *board.Board) BoardView {
	bs := b.Setting()
	snap := b.Snapshot()
	reg := b.Shapes()
	v := BoardView{
		BoardID:     bs.ID,
		BoardName:   bs.Name,
		Rows:        snap.Rows,
		Columns:     snap.Columns,
		State:       b.State().String(),
		LeftToRight: b.LeftToRight(),
		Cycles:      b.Cycles(),
		Layout:      strings.Split(snap.String(), "\n"),
		Cells:       make([]CellView, 0, len(snap.Cells)),
	}
	for i, c := range snap.Cells {
		if c.Kind == spec.Empty {
			continue
		}
		x, y := i%snap.Columns, i/snap.Columns
		cv := CellView{
			X:     x,
			Y:     y,
			ID:    c.ID,
			Kind:  c.Kind.String(),
			Shape: int(c.Shape),
			World: b.CellToWorld(x, y, 0),
		}
		if vis, ok := reg.Visual(c.Shape); ok {
			cv.Name, cv.Glyph, cv.Color = vis.Name, vis.Glyph, vis.Color
		}
		v.Cells = append(v.Cells, cv)
	}
	return v
}

// EventView 事件。補頂生成時 Spawned 的 To[1] 為 -1。
type EventView struct {
	Seq       uint64 `json:"seq"`
	Kind      string `json:"kind"`
	PieceID   uint64 `json:"piece_id"`
	PieceKind string `json:"piece_kind"`
	Shape     int    `json:"shape"`
	From      [2]int `json:"from"`
	To        [2]int `json:"to"`
}

func NewEventViews(es []recorder.TraceEntry) []EventView {
	out := make([]EventView, len(es))
	for i, te := range es {
		e := te.Event
		ev := EventView{
			Seq:       te.Seq,
			Kind:      e.Kind.String(),
			PieceID:   e.PieceID,
			PieceKind: e.PieceKind.String(),
			Shape:     int(e.Shape),
			From:      [2]int{e.FromX, e.FromY},
			To:        [2]int{e.ToX, e.ToY},
		}
		out[i] = ev
	}
	return out
}

// MoveView 一個可成立的交換
type MoveView struct {
	AX int `json:"ax"`
	AY int `json:"ay"`
	BX int `json:"bx"`
	BY int `json:"by"`
}

func NewMoveViews(ms []calc.Move) []MoveView {
	out := make([]MoveView, len(ms))
	for i, m := range ms {
		out[i] = MoveView{AX: m.AX, AY: m.AY, BX: m.BX, BY: m.BY}
	}
	return out
}

// ActionResult 操作（按下、放開、交換）的回應：是否被接受、期間產生的事件與操作後的盤面
type ActionResult struct {
	Accepted bool        `json:"accepted"`
	Warning  string      `json:"warning,omitempty"` // 操作完成但有警告（例如連鎖達上限）
	Events   []EventView `json:"events"`
	Board    BoardView   `json:"board"`
}
