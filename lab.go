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

// Package matchlab 是盤面模擬引擎的組裝入口。
//
// Lab 把三個地基組在一起：
//  1. Catalog：盤面設定目錄，設定來源一律以 fs.FS 注入（go:embed 或 os.DirFS）。
//  2. PRNGFactory：亂數工廠，同一 seed 必須得到同一盤面。
//  3. Logger：連鎖上限等診斷訊息的輸出。
//
// 對外提供兩種使用方式：
//   - Session：單一玩家操作一個盤面（HTTP 服務、終端機遊戲）。
//   - Simulator：大量隨機對局，統計連鎖深度與消除分佈。
package matchlab

import (
	"crypto/rand"
	"io/fs"
	"log/slog"
	"math"
	"math/big"

	"github.com/zintix-labs/matchlab/catalog"
	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/sdk/board"
	"github.com/zintix-labs/matchlab/sdk/core"
	"github.com/zintix-labs/matchlab/spec"
)

// Lab 持有目錄與亂數工廠，建立後唯讀，可被多個 goroutine 共用。
type Lab struct {
	cat *catalog.Catalog
	cf  core.PRNGFactory
	log *slog.Logger

	extra []*spec.BoardSetting // 僅在 New 期間使用
}

// Option Lab 建構選項
type Option func(*Lab)

// WithPRNGFactory 替換預設的 PCG64 工廠
func WithPRNGFactory(cf core.PRNGFactory) Option {
	return func(l *Lab) {
		if cf != nil {
			l.cf = cf
		}
	}
}

// WithLogger 設定 Lab 與其建立的盤面使用的 logger
func WithLogger(lg *slog.Logger) Option {
	return func(l *Lab) {
		if lg != nil {
			l.log = lg
		}
	}
}

// WithBoards 在設定檔之外直接註冊盤面設定
func WithBoards(bs ...*spec.BoardSetting) Option {
	return func(l *Lab) {
		l.extra = append(l.extra, bs...)
	}
}

// New 從 cfgFS 載入所有盤面設定並凍結目錄。
// 設定檔有任何錯誤（格式、重複 ID/名稱、不合法的盤面）都在這裡失敗。
func New(cfgFS fs.FS, opts ...Option) (*Lab, error) {
	l := &Lab{
		cf:  core.Default(),
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}

	var cat *catalog.Catalog
	if cfgFS != nil {
		c, err := catalog.Load(cfgFS)
		if err != nil {
			return nil, err
		}
		cat = c
	} else {
		cat = catalog.New()
	}
	if err := cat.Register(l.extra...); err != nil {
		return nil, err
	}
	l.extra = nil
	if cat.Len() == 0 {
		return nil, errs.ErrInvalidConfig.WithExtra("no board configured")
	}
	cat.Freeze()
	l.cat = cat
	l.log.Info("lab ready", "boards", cat.Len())
	return l, nil
}

// Boards 列出所有盤面（依 ID 排序）
func (l *Lab) Boards() []catalog.Summary {
	return l.cat.List()
}

// Setting 依 ID 取得盤面設定，找不到時回傳 ErrBoardNotFound
func (l *Lab) Setting(id int) (*spec.BoardSetting, error) {
	return l.cat.Setting(id)
}

// BoardID 依名稱（不分大小寫）查 ID
func (l *Lab) BoardID(name string) (int, error) {
	e, ok := l.cat.GetByName(name)
	if !ok {
		return 0, errs.ErrBoardNotFound.WithExtra(name)
	}
	return e.ID, nil
}

// Logger Lab 使用的 logger
func (l *Lab) Logger() *slog.Logger { return l.log }

// NewBoard 以指定 seed 建立一個盤面（不含 Session 的鎖與事件紀錄）。
// 呼叫端自行保證單一 goroutine 操作。
func (l *Lab) NewBoard(id int, seed int64, opts ...board.Option) (*board.Board, error) {
	bs, err := l.cat.Setting(id)
	if err != nil {
		return nil, err
	}
	return l.newBoard(bs, seed, opts...)
}

func (l *Lab) newBoard(bs *spec.BoardSetting, seed int64, opts ...board.Option) (*board.Board, error) {
	all := make([]board.Option, 0, len(opts)+1)
	all = append(all, board.WithLogger(l.log.With("board", bs.Name, "seed", seed)))
	all = append(all, opts...)
	return board.New(bs, core.New(l.cf.New(seed)), all...)
}

// NewSession 以指定 seed 建立 Session
func (l *Lab) NewSession(id int, seed int64, opts ...SessionOption) (*Session, error) {
	bs, err := l.cat.Setting(id)
	if err != nil {
		return nil, err
	}
	return newSession(l, bs, seed, opts...)
}

// NewSessionByYAML 以目錄外的設定內容建立 Session（開發中的盤面試玩）
func (l *Lab) NewSessionByYAML(raw []byte, seed int64, opts ...SessionOption) (*Session, error) {
	bs, err := spec.GetBoardSettingByYAML(raw)
	if err != nil {
		return nil, err
	}
	return newSession(l, bs, seed, opts...)
}

// NewSimulator 建立指定盤面的模擬器
func (l *Lab) NewSimulator(id int, seed int64) (*Simulator, error) {
	bs, err := l.cat.Setting(id)
	if err != nil {
		return nil, err
	}
	return newSimulator(l, bs, seed), nil
}

// RandomSeed 以 crypto/rand 產生非負 seed，供未指定 seed 的對外請求使用；
// seed 會被記錄在 Session 上，仍可重現。
func RandomSeed() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	if err != nil {
		return 0, errs.Wrap(err, "new crypto seed error in go std lib")
	}
	return n.Int64(), nil
}
