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

import "strings"

// PieceKind 盤面格子上的方塊種類
type PieceKind uint8

const (
	Empty       PieceKind = iota // 空格，不可移動、不可消除
	Normal                       // 一般方塊，帶形狀
	Obstacle                     // 障礙物，只能被相鄰消除清掉
	RowClear                     // 特殊方塊：被消除時清掉整列(row)
	ColumnClear                  // 特殊方塊：被消除時清掉整欄(column)

	KindCount
)

var kindNames = [KindCount]string{
	Empty:       "empty",
	Normal:      "normal",
	Obstacle:    "obstacle",
	RowClear:    "row_clear",
	ColumnClear: "column_clear",
}

var kindMap = map[string]PieceKind{
	"empty":        Empty,
	"normal":       Normal,
	"obstacle":     Obstacle,
	"row_clear":    RowClear,
	"column_clear": ColumnClear,
}

func (k PieceKind) String() string {
	if k < KindCount {
		return kindNames[k]
	}
	return "unknown"
}

// IsSpecial RowClear / ColumnClear
func (k PieceKind) IsSpecial() bool {
	return k == RowClear || k == ColumnClear
}

// ParsePieceKind 大小寫不敏感
func ParsePieceKind(s string) (PieceKind, bool) {
	k, ok := kindMap[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

// Capability 能力表的一列
type Capability struct {
	Movable   bool `yaml:"movable"   json:"movable"`
	Clearable bool `yaml:"clearable" json:"clearable"`
	Shaped    bool `yaml:"shaped"    json:"shaped"`
}

// Capabilities 以 PieceKind 為索引的能力表
type Capabilities [KindCount]Capability

// DefaultCapabilities 預設能力表
func DefaultCapabilities() Capabilities {
	return Capabilities{
		Empty:       {},
		Normal:      {Movable: true, Clearable: true, Shaped: true},
		Obstacle:    {Movable: false, Clearable: true},
		RowClear:    {Movable: true, Clearable: true, Shaped: true},
		ColumnClear: {Movable: true, Clearable: true, Shaped: true},
	}
}

// PieceSetting 覆寫某種方塊的能力（僅 obstacle / row_clear / column_clear 可覆寫）
type PieceSetting struct {
	Kind      string `yaml:"kind"      json:"kind"`
	Movable   *bool  `yaml:"movable"   json:"movable,omitempty"`
	Clearable *bool  `yaml:"clearable" json:"clearable,omitempty"`
}
