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
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kamstrup/intmap"
	"github.com/zintix-labs/matchlab/errs"
)

// DefaultSessionTTL 閒置多久後 Session 會被回收
const DefaultSessionTTL = 30 * time.Minute

type storeItem struct {
	s    *Session
	seen time.Time
}

// SessionStore 以 uint64 id 保存 Session，閒置超過 ttl 的 Session 會被回收。
// 狀態只存在記憶體，重啟即消失。
type SessionStore struct {
	mu     sync.Mutex
	items  *intmap.Map[uint64, *storeItem]
	nextID atomic.Uint64
	ttl    time.Duration
	max    int
	now    func() time.Time

	// lifecycle
	done      chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
}

// NewSessionStore ttl <= 0 使用預設值；max <= 0 表示不限數量
func NewSessionStore(ttl time.Duration, max int) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		items: intmap.New[uint64, *storeItem](64),
		ttl:   ttl,
		max:   max,
		now:   time.Now,
		done:  make(chan struct{}),
	}
}

// Put 指派 id 並保存。數量達上限時先回收過期的，仍滿則拒絕。
func (st *SessionStore) Put(s *Session) (uint64, error) {
	if st.closed.Load() {
		return 0, errs.NewWarn("session store closed")
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.max > 0 && st.items.Len() >= st.max {
		st.sweepLocked()
		if st.items.Len() >= st.max {
			return 0, errs.NewWarn(fmt.Sprintf("session store full (%d)", st.max))
		}
	}
	id := st.nextID.Add(1)
	s.id = id
	st.items.Put(id, &storeItem{s: s, seen: st.now()})
	return id, nil
}

// Get 取得並刷新閒置時間；不存在或已過期回傳 ErrSessionNotFound
func (st *SessionStore) Get(id uint64) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	it, ok := st.items.Get(id)
	if !ok {
		return nil, errs.ErrSessionNotFound.WithExtra(fmt.Sprintf("id=%d", id))
	}
	now := st.now()
	if now.Sub(it.seen) > st.ttl {
		st.items.Del(id)
		return nil, errs.ErrSessionNotFound.WithExtra(fmt.Sprintf("id=%d expired", id))
	}
	it.seen = now
	return it.s, nil
}

// Delete 回傳是否真的刪除了
func (st *SessionStore) Delete(id uint64) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.items.Del(id)
}

func (st *SessionStore) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.items.Len()
}

// Sweep 回收所有過期的 Session，回傳回收數量
func (st *SessionStore) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.sweepLocked()
}

func (st *SessionStore) sweepLocked() int {
	now := st.now()
	var expired []uint64
	st.items.ForEach(func(id uint64, it *storeItem) bool {
		if now.Sub(it.seen) > st.ttl {
			expired = append(expired, id)
		}
		return true
	})
	for _, id := range expired {
		st.items.Del(id)
	}
	return len(expired)
}

// Janitor 每 interval 執行一次 Sweep，直到 Close
func (st *SessionStore) Janitor(interval time.Duration) {
	if interval <= 0 {
		interval = st.ttl / 2
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-st.done:
			return
		case <-t.C:
			st.Sweep()
		}
	}
}

// Close 停止 Janitor 並清空所有 Session，可重複呼叫
func (st *SessionStore) Close() {
	st.closeOnce.Do(func() {
		st.closed.Store(true)
		close(st.done)
		st.mu.Lock()
		st.items.Clear()
		st.mu.Unlock()
	})
}

// Closed 是否已關閉
func (st *SessionStore) Closed() bool {
	return st.closed.Load()
}
