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

package matchlab

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/zintix-labs/matchlab/corefmt"
	"github.com/zintix-labs/matchlab/dto"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/recorder"
	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/calc"
	"github.com/zintix-labs/matchlab/sdk/grid"
	"github.com/zintix-labs/matchlab/spec"
)

// SessionOption Session 建構選項
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	paced      bool
	traceLimit int
	listeners  []grid.Listener
}

// WithPaced 補位不同步完成，由呼叫端依 FillPace 呼叫 Tick（終端機遊戲使用）
func WithPaced() SessionOption {
	return func(c *sessionConfig) { c.paced = true }
}

// WithTraceLimit 事件紀錄的保留上限
func WithTraceLimit(n int) SessionOption {
	return func(c *sessionConfig) { c.traceLimit = n }
}

// WithSessionListener 額外的事件接收者（例如音效），在呼叫端 goroutine 同步執行
func WithSessionListener(l grid.Listener) SessionOption {
	return func(c *sessionConfig) {
		if l != nil {
			c.listeners = append(c.listeners, l)
		}
	}
}

// Session 一位玩家操作的一個盤面。
//
// 並發語意：所有方法都持有同一把鎖，Session 可被多個 goroutine 共用，
// 但對盤面而言仍是單一操作者依序執行。
type Session struct {
	mu      sync.Mutex
	id      uint64
	seed    int64
	setting *spec.BoardSetting
	board   *board.Board
	trace   *recorder.Trace
	created time.Time
}

// TraceDoc ExportTrace 匯出的內容
type TraceDoc struct {
	BoardID   int                   `json:"board_id"`
	BoardName string                `json:"board"`
	Seed      int64                 `json:"seed"`
	Rows      int                   `json:"rows"`
	Columns   int                   `json:"columns"`
	Events    []recorder.TraceEntry `json:"events"`
}

func newSession(l *Lab, bs *spec.BoardSetting, seed int64, opts ...SessionOption) (*Session, error) {
	cfg := sessionConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Session{
		seed:    seed,
		setting: bs,
		trace:   recorder.NewTrace(cfg.traceLimit),
		created: time.Now(),
	}
	fan := make(grid.Fanout, 0, len(cfg.listeners)+1)
	fan = append(fan, s.trace)
	fan = append(fan, cfg.listeners...)

	bopts := []board.Option{board.WithListener(fan)}
	if cfg.paced {
		bopts = append(bopts, board.WithPacedFill())
	}
	b, err := l.newBoard(bs, seed, bopts...)
	if err != nil {
		// 初始補位撞到連鎖上限時盤面仍一致，保留 Session
		if b == nil || !errors.Is(err, errs.ErrCascadeCap) {
			return nil, err
		}
	}
	s.board = b
	return s, nil
}

// ID 由 SessionStore 指派，未放入 store 時為 0
func (s *Session) ID() uint64 { return s.id }

func (s *Session) Seed() int64 { return s.seed }

func (s *Session) Setting() *spec.BoardSetting { return s.setting }

func (s *Session) Created() time.Time { return s.created }

// Press 按下 (x,y)。越界回傳 ErrOutOfBounds；Resolving 中回傳 false。
func (s *Session) Press(x, y int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.press(x, y)
}

// Enter 拖曳進入 (x,y)
func (s *Session) Enter(x, y int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enter(x, y)
}

// Release 放開，按下與進入的格子相鄰時嘗試交換
func (s *Session) Release() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.OnRelease()
}

// Swap 直接交換 (ax,ay) 與 (bx,by)；不相鄰或不成立時回傳 false，連鎖中回傳 ErrBusy
func (s *Session) Swap(ax, ay, bx, by int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swap(ax, ay, bx, by)
}

func (s *Session) press(x, y int) (bool, error) {
	if err := s.checkBounds(x, y); err != nil {
		return false, err
	}
	return s.board.OnPress(x, y), nil
}

func (s *Session) enter(x, y int) (bool, error) {
	if err := s.checkBounds(x, y); err != nil {
		return false, err
	}
	return s.board.OnEnter(x, y), nil
}

func (s *Session) swap(ax, ay, bx, by int) (bool, error) {
	if err := s.checkBounds(ax, ay); err != nil {
		return false, err
	}
	if err := s.checkBounds(bx, by); err != nil {
		return false, err
	}
	if s.board.State() == board.Resolving {
		return false, errs.ErrBusy
	}
	g := s.board.Grid()
	return s.board.TrySwap(g.At(ax, ay), g.At(bx, by))
}

// OpKind Apply 支援的操作
type OpKind uint8

const (
	OpPress OpKind = iota
	OpEnter
	OpRelease
	OpSwap
)

// Op 一次操作；Press/Enter 只用 AX/AY
type Op struct {
	Kind           OpKind
	AX, AY, BX, BY int
}

// Apply 在同一把鎖內執行操作，回傳是否被接受、期間產生的事件與操作後的盤面（HTTP 使用）
func (s *Session) Apply(op Op) (dto.ActionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	from := s.trace.Next()
	var (
		ok  bool
		err error
	)
	switch op.Kind {
	case OpPress:
		ok, err = s.press(op.AX, op.AY)
	case OpEnter:
		ok, err = s.enter(op.AX, op.AY)
	case OpRelease:
		ok, err = s.board.OnRelease()
	case OpSwap:
		ok, err = s.swap(op.AX, op.AY, op.BX, op.BY)
	default:
		return dto.ActionResult{}, errs.NewWarn(fmt.Sprintf("unknown op %d", op.Kind))
	}
	res := dto.ActionResult{
		Accepted: ok,
		Events:   dto.NewEventViews(s.trace.Since(from)),
		Board:    s.view(),
	}
	return res, err
}

// Tick 推進一步（WithPaced 時由呼叫端依節奏呼叫；非 paced 的盤面平時已穩定）
func (s *Session) Tick() (board.TickResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board.State() != board.Resolving {
		return board.TickResult{Settled: true}, nil
	}
	return s.board.Tick()
}

// Settle 同步跑完尚未完成的連鎖
func (s *Session) Settle() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.board.State() != board.Resolving {
		return nil
	}
	return s.board.Resolve()
}

func (s *Session) Hints() []calc.Move {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Hints()
}

func (s *Session) Snapshot() grid.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Snapshot()
}

func (s *Session) State() board.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.State()
}

// View 對外的盤面快照
func (s *Session) View() dto.BoardView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() dto.BoardView {
	v := dto.NewBoardView(s.board)
	v.SessionID = s.id
	v.Seed = s.seed
	v.Seq = s.trace.Next()
	return v
}

// Events 序號 >= since 的事件
func (s *Session) Events(since uint64) []recorder.TraceEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.trace.Since(since)
}

// ExportTrace 以 zstd frame 寫出 JSON 格式的事件紀錄，可用 ReadTrace 讀回
func (s *Session) ExportTrace(w io.Writer) error {
	s.mu.Lock()
	doc := TraceDoc{
		BoardID:   s.setting.ID,
		BoardName: s.setting.Name,
		Seed:      s.seed,
		Rows:      s.setting.Rows,
		Columns:   s.setting.Columns,
		Events:    s.trace.Entries(),
	}
	s.mu.Unlock()

	raw, err := json.Marshal(doc)
	if err != nil {
		return errs.Wrap(err, "marshal trace failed")
	}
	return corefmt.WriteFrame(w, raw)
}

// ReadTrace 讀回 ExportTrace 的內容；maxBytes 為 0 表示不限制
func ReadTrace(r io.Reader, maxBytes uint64) (*TraceDoc, error) {
	raw, err := corefmt.ReadFrame(r, maxBytes)
	if err != nil {
		return nil, err
	}
	doc := new(TraceDoc)
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, errs.Wrap(err, "unmarshal trace failed")
	}
	return doc, nil
}

// CoreState 目前 PRNG 狀態（base64url），搭配 RestoreCore 可在同一盤面上重現後續的亂數
func (s *Session) CoreState() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := s.board.Core().Snapshot()
	if err != nil {
		return "", errs.Wrap(err, "snapshot core failed")
	}
	return corefmt.EncodeState(b), nil
}

// RestoreCore 還原 CoreState 匯出的 PRNG 狀態
func (s *Session) RestoreCore(state string) error {
	b, err := corefmt.DecodeState(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.board.Core().Restore(b); err != nil {
		return errs.Wrap(err, "restore core failed")
	}
	return nil
}

func (s *Session) checkBounds(x, y int) error {
	if !s.board.Grid().InBounds(x, y) {
		return errs.ErrOutOfBounds.WithExtra(fmt.Sprintf("(%d,%d) not in %dx%d", x, y, s.setting.Columns, s.setting.Rows))
	}
	return nil
}
