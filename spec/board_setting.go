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

package spec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zintix-labs/matchlab/errs"
	"gopkg.in/yaml.v3"
)

const (
	MinSide           = 3
	MaxSide           = 64
	MinShapes         = 3
	DefaultCascadeCap = 256
	DefaultFillPaceMs = 100
)

// 佈局字元
const (
	LayoutOpen     = '.'
	LayoutObstacle = '#'
)

// BoardSetting 單一盤面的完整設定
type BoardSetting struct {
	Name       string          `yaml:"name"         json:"name"`
	ID         int             `yaml:"id"           json:"id"`
	Rows       int             `yaml:"rows"         json:"rows"`
	Columns    int             `yaml:"columns"      json:"columns"`
	FillPaceMs int             `yaml:"fill_pace_ms" json:"fill_pace_ms"`
	CascadeCap int             `yaml:"cascade_cap"  json:"cascade_cap"`
	Shapes     []ShapeSetting  `yaml:"shapes"       json:"shapes"`
	Pieces     []PieceSetting  `yaml:"pieces"       json:"pieces"`
	Layout     []string        `yaml:"layout"       json:"layout"`
	Geometry   GeometrySetting `yaml:"geometry"     json:"geometry"`

	Caps      Capabilities `yaml:"-" json:"-"`
	Obstacles []int        `yaml:"-" json:"-"` // row-major idx
	initFlag  bool
}

// Init 檢查設定並賦值，重複呼叫無副作用
func (bs *BoardSetting) Init() error {
	if bs.initFlag {
		return nil
	}
	if err := bs.valid(); err != nil {
		return err
	}
	if bs.CascadeCap == 0 {
		bs.CascadeCap = DefaultCascadeCap
	}
	if bs.FillPaceMs == 0 {
		bs.FillPaceMs = DefaultFillPaceMs
	}
	if bs.Geometry.CellSize == 0 {
		bs.Geometry.CellSize = 1
	}

	// 能力表
	bs.Caps = DefaultCapabilities()
	for _, p := range bs.Pieces {
		k, ok := ParsePieceKind(p.Kind)
		if !ok {
			return bs.fail(fmt.Sprintf("unknown piece kind %q", p.Kind))
		}
		if k == Empty || k == Normal {
			return bs.fail(fmt.Sprintf("piece kind %s is not configurable", k))
		}
		if p.Movable != nil {
			bs.Caps[k].Movable = *p.Movable
		}
		if p.Clearable != nil {
			bs.Caps[k].Clearable = *p.Clearable
		}
	}

	// 佈局
	bs.Obstacles = bs.Obstacles[:0]
	for y, line := range bs.Layout {
		for x, ch := range line {
			switch ch {
			case LayoutOpen:
			case LayoutObstacle:
				bs.Obstacles = append(bs.Obstacles, y*bs.Columns+x)
			default:
				return bs.fail(fmt.Sprintf("layout row %d has invalid char %q", y, ch))
			}
		}
	}

	bs.initFlag = true
	return nil
}

// ShapeWeights 各形狀的生成權重，未設定權重時回傳 nil（均勻）
func (bs *BoardSetting) ShapeWeights() []int {
	var w []int
	for i, s := range bs.Shapes {
		if s.Weight == 0 {
			continue
		}
		if w == nil {
			w = make([]int, len(bs.Shapes))
		}
		w[i] = s.Weight
	}
	return w
}

// FillPace 外部步進驅動每次 Tick 之間的間隔
func (bs *BoardSetting) FillPace() time.Duration {
	return time.Duration(bs.FillPaceMs) * time.Millisecond
}

func (bs *BoardSetting) valid() error {
	if bs.Rows < MinSide || bs.Columns < MinSide {
		return bs.fail(fmt.Sprintf("rows and columns must be >= %d, got rows=%d columns=%d", MinSide, bs.Rows, bs.Columns))
	}
	if bs.Rows > MaxSide || bs.Columns > MaxSide {
		return bs.fail(fmt.Sprintf("rows and columns must be <= %d, got rows=%d columns=%d", MaxSide, bs.Rows, bs.Columns))
	}
	if len(bs.Shapes) < MinShapes {
		return bs.fail(fmt.Sprintf("need at least %d shapes, got %d", MinShapes, len(bs.Shapes)))
	}
	seen := make(map[string]struct{}, len(bs.Shapes))
	for _, s := range bs.Shapes {
		if s.Name == "" {
			return bs.fail("shape with empty name")
		}
		if _, dup := seen[s.Name]; dup {
			return bs.fail(fmt.Sprintf("duplicate shape %q", s.Name))
		}
		seen[s.Name] = struct{}{}
		if s.Weight < 0 {
			return bs.fail(fmt.Sprintf("shape %q has negative weight", s.Name))
		}
	}
	if bs.FillPaceMs < 0 || bs.CascadeCap < 0 {
		return bs.fail("fill_pace_ms and cascade_cap must be non-negative")
	}
	if len(bs.Layout) > 0 {
		if len(bs.Layout) != bs.Rows {
			return bs.fail(fmt.Sprintf("layout has %d rows, want %d", len(bs.Layout), bs.Rows))
		}
		for y, line := range bs.Layout {
			if len(line) != bs.Columns {
				return bs.fail(fmt.Sprintf("layout row %d has %d columns, want %d", y, len(line), bs.Columns))
			}
		}
	}
	return nil
}

func (bs *BoardSetting) fail(msg string) error {
	return errs.ErrInvalidConfig.WithExtra(fmt.Sprintf("board=%s: %s", bs.Name, msg))
}

// GetBoardSettingByYAML 嚴格解析（拼錯欄位即報錯）並初始化
func GetBoardSettingByYAML(data []byte) (*BoardSetting, error) {
	bs := &BoardSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(bs); err != nil {
		return nil, errs.ErrInvalidConfig.WithExtra("failed to unmarshal yaml: " + err.Error())
	}
	if err := bs.Init(); err != nil {
		return nil, errs.Wrap(err, "board setting initialized err")
	}
	return bs, nil
}

// GetBoardSettingByJSON
func GetBoardSettingByJSON(data []byte) (*BoardSetting, error) {
	bs := &BoardSetting{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(bs); err != nil {
		return nil, errs.ErrInvalidConfig.WithExtra("can not unmarshal json byte: " + err.Error())
	}
	if err := bs.Init(); err != nil {
		return nil, errs.Wrap(err, "board setting initialized err")
	}
	return bs, nil
}
