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

package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/zintix-labs/matchlab/errs"
)

// enum LogMode
type LogMode uint8

const (
	ModeDev LogMode = iota
	ModeProd
	ModeSilence
)

func (m LogMode) String() string {
	switch m {
	case ModeDev:
		return "dev"
	case ModeProd:
		return "prod"
	case ModeSilence:
		return "silence"
	}
	return "unknown"
}

// ParseMode 由 CLI 旗標解析：dev / prod / silence（大小寫不敏感）
func ParseMode(s string) (LogMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev":
		return ModeDev, nil
	case "prod":
		return ModeProd, nil
	case "silence", "silent", "quiet":
		return ModeSilence, nil
	}
	return ModeDev, errs.NewWarn("unknown log mode: " + s)
}

// NewDefaultLogger 同步 logger，CLI 與測試使用
func NewDefaultLogger(mode LogMode) *slog.Logger {
	return slog.New(buildHandler(mode))
}

// NewAsync 以 mode 的預設 handler 包一層 AsyncHandler。
// 回傳的 *AsyncHandler 需在結束前 Close（或交給 Flush）才不會遺失尾端的 log。
func NewAsync(buf int, mode LogMode) (*slog.Logger, *AsyncHandler) {
	ah := NewAsyncHandler(buildHandler(mode), buf)
	return slog.New(ah), ah
}

// Flush 若 l 底下是 AsyncHandler 則關閉並寫完佇列，回傳累計丟棄筆數
func Flush(l *slog.Logger) uint64 {
	if l == nil {
		return 0
	}
	ah, ok := l.Handler().(*AsyncHandler)
	if !ok {
		return 0
	}
	ah.Close()
	return ah.Dropped()
}

// AsyncHandler 把寫出移到背景 goroutine 的 slog.Handler。
// Handle 只做 enqueue，佇列滿或已 Close 時直接丟棄並計數，請求路徑不會被 I/O 卡住。
// WithAttrs / WithGroup 衍生的 handler 共用同一個佇列。
type AsyncHandler struct {
	next slog.Handler
	q    *logQueue
}

type logQueue struct {
	ch      chan queued
	closed  chan struct{}
	once    sync.Once
	wg      sync.WaitGroup
	dropped atomic.Uint64
}

type queued struct {
	ctx context.Context
	rec slog.Record
	h   slog.Handler
}

// NewAsyncHandler buf <= 0 時用 1024
func NewAsyncHandler(next slog.Handler, buf int) *AsyncHandler {
	if next == nil {
		next = buildHandler(ModeDev)
	}
	if buf <= 0 {
		buf = 1024
	}
	q := &logQueue{
		ch:     make(chan queued, buf),
		closed: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.loop()
	return &AsyncHandler{next: next, q: q}
}

func (h *AsyncHandler) Ready() bool {
	return h != nil && h.q != nil
}

// Dropped 因佇列滿或已關閉而丟棄的筆數
func (h *AsyncHandler) Dropped() uint64 {
	if !h.Ready() {
		return 0
	}
	return h.q.dropped.Load()
}

// Close 停止收件並寫完佇列中的 log，可重複呼叫
func (h *AsyncHandler) Close() {
	if !h.Ready() {
		return
	}
	h.q.once.Do(func() { close(h.q.closed) })
	h.q.wg.Wait()
}

func (q *logQueue) loop() {
	defer q.wg.Done()
	for {
		select {
		case it := <-q.ch:
			it.write()
		case <-q.closed:
			q.drain()
			return
		}
	}
}

func (q *logQueue) drain() {
	for {
		select {
		case it := <-q.ch:
			it.write()
		default:
			return
		}
	}
}

// slog.Logger 會忽略 Handle 的 error，這裡也一樣
func (it queued) write() {
	if it.h != nil {
		_ = it.h.Handle(it.ctx, it.rec)
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.Ready() {
		return nil
	}
	select {
	case <-h.q.closed:
		h.q.dropped.Add(1)
		return nil
	default:
	}

	// Record 跨 goroutine 前要 Clone
	select {
	case h.q.ch <- queued{ctx: ctx, rec: r.Clone(), h: h.next}:
	default:
		h.q.dropped.Add(1)
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &AsyncHandler{next: h.next.WithAttrs(attrs), q: h.q}
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	return &AsyncHandler{next: h.next.WithGroup(name), q: h.q}
}

// buildHandler dev 為 stderr 文字 Debug；prod 為 stdout JSON Info；silence 全丟
func buildHandler(mode LogMode) slog.Handler {
	switch mode {
	case ModeProd:
		return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	case ModeSilence:
		return slog.DiscardHandler
	default:
		return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
}
