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
	"errors"
	"testing"

	"github.com/zintix-labs/matchlab/errs"
)

const classicYAML = `
name: classic
id: 1
rows: 4
columns: 3
fill_pace_ms: 50
shapes:
  - {name: ruby, glyph: "R", color: red}
  - {name: jade, glyph: "J", color: green}
  - {name: opal, glyph: "O", color: blue}
pieces:
  - {kind: obstacle, movable: false, clearable: false}
layout:
  - "..."
  - ".#."
  - "..."
  - "#.."
`

func TestGetBoardSettingByYAML(t *testing.T) {
	bs, err := GetBoardSettingByYAML([]byte(classicYAML))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if bs.Rows != 4 || bs.Columns != 3 {
		t.Fatalf("bad dims %dx%d", bs.Rows, bs.Columns)
	}
	if bs.CascadeCap != DefaultCascadeCap {
		t.Fatalf("cascade cap default not applied: %d", bs.CascadeCap)
	}
	if bs.Caps[Obstacle].Clearable {
		t.Fatalf("obstacle clearable override ignored")
	}
	if !bs.Caps[RowClear].Movable || bs.Caps[Empty].Movable {
		t.Fatalf("default capability table broken: %+v", bs.Caps)
	}
	if len(bs.Obstacles) != 2 || bs.Obstacles[0] != 4 || bs.Obstacles[1] != 9 {
		t.Fatalf("unexpected obstacles %v", bs.Obstacles)
	}
	if bs.FillPace().Milliseconds() != 50 {
		t.Fatalf("fill pace %v", bs.FillPace())
	}
}

func TestBoardSettingRejectsSmallBoard(t *testing.T) {
	bs := &BoardSetting{Name: "tiny", Rows: 2, Columns: 5, Shapes: []ShapeSetting{{Name: "a"}, {Name: "b"}, {Name: "c"}}}
	err := bs.Init()
	if !errors.Is(err, errs.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
	if errs.Level(err) != errs.Fatal {
		t.Fatalf("expected fatal level")
	}
}

func TestBoardSettingRejectsHugeBoard(t *testing.T) {
	cases := []string{
		"rows: 4294967296\ncolumns: 4294967296\nshapes: [{name: a}, {name: b}, {name: c}]\n",
		"rows: 65\ncolumns: 8\nshapes: [{name: a}, {name: b}, {name: c}]\n",
		"rows: 8\ncolumns: 100000\nshapes: [{name: a}, {name: b}, {name: c}]\n",
	}
	for _, raw := range cases {
		bs, err := GetBoardSettingByYAML([]byte(raw))
		if !errors.Is(err, errs.ErrInvalidConfig) {
			t.Fatalf("expected invalid config for %q, got %v", raw, err)
		}
		if bs != nil {
			t.Fatalf("expected nil setting for %q", raw)
		}
	}

	edge := &BoardSetting{Name: "edge", Rows: MaxSide, Columns: MaxSide, Shapes: []ShapeSetting{{Name: "a"}, {Name: "b"}, {Name: "c"}}}
	if err := edge.Init(); err != nil {
		t.Fatalf("max side should be accepted: %v", err)
	}
}

func TestBoardSettingRejectsFewShapes(t *testing.T) {
	bs := &BoardSetting{Name: "dull", Rows: 3, Columns: 3, Shapes: []ShapeSetting{{Name: "a"}, {Name: "b"}}}
	if err := bs.Init(); err == nil {
		t.Fatalf("expected error for two shapes")
	}
}

func TestBoardSettingUnknownField(t *testing.T) {
	if _, err := GetBoardSettingByYAML([]byte("name: x\nrowz: 3\n")); err == nil {
		t.Fatalf("expected strict decode error")
	}
}

func TestParsePieceKind(t *testing.T) {
	k, ok := ParsePieceKind(" Row_Clear ")
	if !ok || k != RowClear {
		t.Fatalf("parse failed: %v %v", k, ok)
	}
	if _, ok := ParsePieceKind("bomb"); ok {
		t.Fatalf("unexpected kind")
	}
	if !ColumnClear.IsSpecial() || Normal.IsSpecial() {
		t.Fatalf("IsSpecial wrong")
	}
}

func TestShapeWeights(t *testing.T) {
	bs := &BoardSetting{Name: "w", Rows: 3, Columns: 3, Shapes: []ShapeSetting{{Name: "a"}, {Name: "b"}, {Name: "c"}}}
	if err := bs.Init(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if w := bs.ShapeWeights(); w != nil {
		t.Fatalf("unweighted shapes should yield nil, got %v", w)
	}
	bs.Shapes[1].Weight = 4
	if w := bs.ShapeWeights(); len(w) != 3 || w[0] != 0 || w[1] != 4 {
		t.Fatalf("unexpected weights %v", w)
	}

	neg := &BoardSetting{Name: "n", Rows: 3, Columns: 3, Shapes: []ShapeSetting{{Name: "a", Weight: -1}, {Name: "b"}, {Name: "c"}}}
	if err := neg.Init(); !errors.Is(err, errs.ErrInvalidConfig) {
		t.Fatalf("expected invalid config, got %v", err)
	}
}
