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

import "github.com/zintix-labs/matchlab/spec"

// EventKind 盤面通知種類
type EventKind uint8

const (
	Spawned EventKind = iota + 1
	Moved
	Cleared
)

func (k EventKind) String() string {
	switch k {
	case Spawned:
		return "spawned"
	case Moved:
		return "moved"
	case Cleared:
		return "cleared"
	}
	return "unknown"
}

// Event 給呈現層的通知。
// Spawned: To 為生成位置（補頂時 ToY 為 -1）。
// Moved:   From -> To。
// Cleared: From 為被消除的位置。
type Event struct {
	Kind      EventKind      `json:"kind"`
	PieceID   uint64         `json:"piece_id"`
	PieceKind spec.PieceKind `json:"piece_kind"`
	Shape     Shape          `json:"shape"`
	FromX     int            `json:"from_x"`
	FromY     int            `json:"from_y"`
	ToX       int            `json:"to_x"`
	ToY       int            `json:"to_y"`
}

// Listener 同步接收盤面事件
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc 讓一般函式實作 Listener
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

// Fanout 依序轉發給多個 Listener
type Fanout []Listener

func (fo Fanout) OnEvent(e Event) {
	for _, l := range fo {
		if l != nil {
			l.OnEvent(e)
		}
	}
}
