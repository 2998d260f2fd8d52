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

// Package board 是盤面模擬引擎的控制層：交換驗證、消除、連鎖補位的狀態機。
//
// Board 不做任何內部並行，也不持有鎖；同一時間只允許一個呼叫者操作。
// 外部步進驅動可以用 Tick 一次推進一個離散步驟（每步之間自行等待 FillPace），
// 或用 Resolve 同步跑到穩定，兩者得到的盤面完全相同。
package board

import (
	"log/slog"

	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/calc"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

// State 盤面狀態機
type State uint8

const (
	Idle State = iota
	Selecting
	Resolving
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Resolving:
		return "resolving"
	}
	return "unknown"
}

// Board 擁有 Grid 與所有模擬狀態
type Board struct {
	setting *spec.BoardSetting
	grid    *grid.Grid
	core    *core.Core
	geo     grid.Geometry
	shapes  *grid.ShapeRegistry

	leftToRight bool
	pressed     *grid.Piece
	entered     *grid.Piece
	state       State
	cycles      int // 本次連鎖已完成的消除輪數

	paced    bool
	log      *slog.Logger
	listener grid.Listener
}

// Option 建構選項
type Option func(*Board)

// WithLogger 連鎖上限等診斷訊息的輸出
func WithLogger(l *slog.Logger) Option {
	return func(b *Board) {
		if l != nil {
			b.log = l
		}
	}
}

// WithListener 接收 Spawned / Moved / Cleared 通知
func WithListener(l grid.Listener) Option {
	return func(b *Board) { b.listener = l }
}

// WithPacedFill 不在建構與交換時同步跑完連鎖，交由外部 Tick 推進
func WithPacedFill() Option {
	return func(b *Board) { b.paced = true }
}

// New 依設定建立盤面。設定不合法時立即失敗。
// 盤面先全部放 Empty、擺上障礙，再以補位流程填滿；
// 非 paced 模式下回傳時已經穩定（Idle）。
func New(bs *spec.BoardSetting, c *core.Core, opts ...Option) (*Board, error) {
	if bs == nil {
		return nil, errs.ErrInvalidConfig.WithExtra("nil board setting")
	}
	if err := bs.Init(); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errs.NewFatal("board.New: nil core")
	}
	b := &Board{
		setting:     bs,
		core:        c,
		geo:         grid.GeometryFrom(bs.Geometry),
		shapes:      grid.NewShapeRegistry(bs.Shapes),
		leftToRight: true,
		log:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.grid = grid.New(bs.Rows, bs.Columns, bs.Caps, len(bs.Shapes), c)
	b.grid.SetShapeWeights(bs.ShapeWeights())
	b.grid.SetListener(b.listener)
	for _, idx := range bs.Obstacles {
		b.grid.Spawn(idx%bs.Columns, idx/bs.Columns, spec.Obstacle)
	}

	b.state = Resolving
	if b.paced {
		return b, nil
	}
	if err := b.Resolve(); err != nil {
		return b, err
	}
	return b, nil
}

// FromGrid 以現成的 Grid 建立盤面（測試夾具、回放用），狀態為 Idle，不做補位
func FromGrid(bs *spec.BoardSetting, g *grid.Grid, c *core.Core, opts ...Option) (*Board, error) {
	if err := bs.Init(); err != nil {
		return nil, err
	}
	if g.Rows() != bs.Rows || g.Columns() != bs.Columns {
		return nil, errs.ErrInvalidConfig.WithExtra("grid size does not match setting")
	}
	b := &Board{
		setting:     bs,
		grid:        g,
		core:        c,
		geo:         grid.GeometryFrom(bs.Geometry),
		shapes:      grid.NewShapeRegistry(bs.Shapes),
		leftToRight: true,
		log:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	g.SetShapeWeights(bs.ShapeWeights())
	g.SetListener(b.listener)
	return b, nil
}

func (b *Board) Setting() *spec.BoardSetting { return b.setting }
func (b *Board) Grid() *grid.Grid { return b.grid }
func (b *Board) Core() *core.Core { return b.core }
func (b *Board) Shapes() *grid.ShapeRegistry { return b.shapes }
func (b *Board) Geometry() grid.Geometry { return b.geo }
func (b *Board) State() State { return b.state }
func (b *Board) Snapshot() grid.Snapshot { return b.grid.Snapshot() }
func (b *Board) LeftToRight() bool { return b.leftToRight }
func (b *Board) Selection() (p, e *grid.Piece) { return b.pressed, b.entered }

// SetListener 替換事件接收者
func (b *Board) SetListener(l grid.Listener) {
	b.listener = l
	b.grid.SetListener(l)
}

// IsAdjacent 交換手勢的相鄰判斷
func (b *Board) IsAdjacent(p1, p2 *grid.Piece) bool {
	return grid.IsAdjacent(p1, p2)
}

// CellToWorld 給呈現層定位用
func (b *Board) CellToWorld(x, y int, depth float64) grid.Vec3 {
	return b.geo.CellToWorld(x, y, depth)
}

// Hints 目前可成立的交換，僅在非 Resolving 時有意義
func (b *Board) Hints() []calc.Move {
	if b.state == Resolving {
		return nil
	}
	return calc.FindMoves(b.grid)
}
