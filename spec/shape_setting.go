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

// ShapeSetting 一種形狀與其視覺綁定
type ShapeSetting struct {
	Name  string `yaml:"name"  json:"name"`
	Glyph string `yaml:"glyph" json:"glyph"`
	Color string `yaml:"color" json:"color"`
	// Weight 生成權重；全部為 0 時均勻抽取
	Weight int `yaml:"weight,omitempty" json:"weight,omitempty"`
}

// GeometrySetting 格子到外部空間的映射參數
type GeometrySetting struct {
	CellSize float64 `yaml:"cell_size" json:"cell_size"`
	OriginX  float64 `yaml:"origin_x"  json:"origin_x"`
	OriginY  float64 `yaml:"origin_y"  json:"origin_y"`
}
