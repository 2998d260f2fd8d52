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

package catalog

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zintix-labs/matchlab/errs"
	"github.com/zintix-labs/matchlab/spec"
)

var (
	ErrDupID   = &errs.E{Code: "dup_board_id", Message: "duplicate board id", ErrLv: errs.Fatal}
	ErrDupName = &errs.E{Code: "dup_board_name", Message: "duplicate board name", ErrLv: errs.Fatal}
)

// Entry 一個已載入並初始化的盤面設定
type Entry struct {
	ID      int
	Name    string
	File    string
	Setting *spec.BoardSetting
}

// Summary 對外列表用
type Summary struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
	Shapes  int    `json:"shapes"`
	File    string `json:"file,omitempty"`
}

// Catalog 盤面設定索引。Freeze 之後唯讀，可安全地被多個 goroutine 讀取。
type Catalog struct {
	byID   map[int]Entry
	byName map[string]Entry
	ids    []int
	frozen bool
}

func New() *Catalog {
	return &Catalog{
		byID:   map[int]Entry{},
		byName: map[string]Entry{},
	}
}

// Load 讀取所有 FS 根目錄下的 yaml/json 設定並註冊。
// FS 必須是扁平目錄；跨 FS 同名檔案視為錯誤。
func Load(src ...fs.FS) (*Catalog, error) {
	if len(src) == 0 {
		return nil, errs.NewFatal("no fs provided")
	}
	c := New()
	seenFile := map[string]int{}
	for i, s := range src {
		if s == nil {
			return nil, errs.NewFatal(fmt.Sprintf("fs[%d] is nil", i))
		}
		err := fs.WalkDir(s, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path == "." {
					return nil
				}
				return errs.NewFatal(fmt.Sprintf("config FS must be flat (no subdirectories): %q", path))
			}
			if !isConfigFile(path) {
				return nil
			}
			if prev, ok := seenFile[path]; ok {
				return errs.NewFatal(fmt.Sprintf("duplicate config %q in fs[%d] and fs[%d]", path, prev, i))
			}
			seenFile[path] = i

			raw, err := fs.ReadFile(s, path)
			if err != nil {
				return errs.Wrap(err, "catalog read file error")
			}
			bs, err := ParseSetting(path, raw)
			if err != nil {
				return errs.WrapWithExtra(err, "catalog parse file error", path)
			}
			return c.register(Entry{ID: bs.ID, Name: bs.Name, File: path, Setting: bs})
		})
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register 註冊已初始化的設定（CLI 以 -config 指定單檔時使用）
func (c *Catalog) Register(bs ...*spec.BoardSetting) error {
	for _, s := range bs {
		if s == nil {
			return errs.ErrInvalidConfig.WithExtra("nil board setting")
		}
		if err := s.Init(); err != nil {
			return err
		}
		if err := c.register(Entry{ID: s.ID, Name: s.Name, Setting: s}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) register(e Entry) error {
	if c.frozen {
		return errs.NewWarn("can not register when catalog already frozen")
	}
	e.Name = normalize(e.Name)
	if e.Name == "" {
		return errs.NewFatal("board name required")
	}
	if _, ok := c.byID[e.ID]; ok {
		return ErrDupID.WithExtra(fmt.Sprintf("id=%d", e.ID))
	}
	if _, ok := c.byName[e.Name]; ok {
		return ErrDupName.WithExtra(e.Name)
	}
	c.byID[e.ID] = e
	c.byName[e.Name] = e
	c.ids = append(c.ids, e.ID)
	sort.Ints(c.ids)
	return nil
}

func (c *Catalog) GetByID(id int) (Entry, bool) {
	e, ok := c.byID[id]
	return e, ok
}

func (c *Catalog) GetByName(name string) (Entry, bool) {
	e, ok := c.byName[normalize(name)]
	return e, ok
}

// Setting 依 id 取得設定，不存在回傳 ErrBoardNotFound
func (c *Catalog) Setting(id int) (*spec.BoardSetting, error) {
	e, ok := c.GetByID(id)
	if !ok {
		return nil, errs.ErrBoardNotFound.WithExtra(fmt.Sprintf("id=%d", id))
	}
	return e.Setting, nil
}

func (c *Catalog) IDs() []int {
	return append([]int(nil), c.ids...)
}

// List 依 id 排序的摘要
func (c *Catalog) List() []Summary {
	out := make([]Summary, 0, len(c.ids))
	for _, id := range c.ids {
		e := c.byID[id]
		out = append(out, Summary{
			ID:      e.ID,
			Name:    e.Name,
			Rows:    e.Setting.Rows,
			Columns: e.Setting.Columns,
			Shapes:  len(e.Setting.Shapes),
			File:    e.File,
		})
	}
	return out
}

func (c *Catalog) Len() int { return len(c.ids) }

func (c *Catalog) Freeze() { c.frozen = true }

func (c *Catalog) IsFrozen() bool { return c.frozen }

// ParseSetting 依副檔名選擇 YAML / JSON 解析
func ParseSetting(filename string, raw []byte) (*spec.BoardSetting, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return spec.GetBoardSettingByYAML(raw)
	case ".json":
		return spec.GetBoardSettingByJSON(raw)
	default:
		return nil, errs.NewFatal(fmt.Sprintf("unsupported config format: %q", filename))
	}
}

func isConfigFile(name string) bool {
	if strings.HasPrefix(name, ".") || strings.Contains(name, "/") {
		return false
	}
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") || strings.HasSuffix(lower, ".json")
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
