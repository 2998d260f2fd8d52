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

package recorder

import "github.com/zintix-labs/matchlab/sdk/grid"

// DefaultTraceLimit 單一 Trace 預設最多保留的事件數
const DefaultTraceLimit = 1 << 16

// TraceEntry 帶序號的盤面事件
type TraceEntry struct {
	Seq   uint64     `json:"seq"`
	Event grid.Event `json:"event"`
}

// Trace 依序保存盤面事件，供回放或匯出。
// 超過上限時丟棄最舊的一半，Seq 仍持續遞增，因此可由第一筆的 Seq 判斷是否曾截斷。
type Trace struct {
	limit   int
	next    uint64
	entries []TraceEntry
}

func NewTrace(limit int) *Trace {
	if limit <= 0 {
		limit = DefaultTraceLimit
	}
	return &Trace{limit: limit, entries: make([]TraceEntry, 0, min(limit, 1024))}
}

// OnEvent 實作 grid.Listener
func (t *Trace) OnEvent(e grid.Event) {
	if len(t.entries) >= t.limit {
		half := t.limit / 2
		n := copy(t.entries, t.entries[len(t.entries)-half:])
		t.entries = t.entries[:n]
	}
	t.entries = append(t.entries, TraceEntry{Seq: t.next, Event: e})
	t.next++
}

// Entries 回傳目前保留事件的複本
func (t *Trace) Entries() []TraceEntry {
	out := make([]TraceEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Since 回傳 Seq >= seq 的事件複本
func (t *Trace) Since(seq uint64) []TraceEntry {
	for i, e := range t.entries {
		if e.Seq >= seq {
			out := make([]TraceEntry, len(t.entries)-i)
			copy(out, t.entries[i:])
			return out
		}
	}
	return []TraceEntry{}
}

// Len 目前保留的事件數
func (t *Trace) Len() int { return len(t.entries) }

// Next 下一個事件將取得的 Seq
func (t *Trace) Next() uint64 { return t.next }
