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

// Vec3 外部空間座標
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Geometry 格子座標到外部空間的映射，僅供呈現層使用
type Geometry struct {
	CellSize float64
	OriginX  float64
	OriginY  float64
}

func GeometryFrom(gs spec.GeometrySetting) Geometry {
	size := gs.CellSize
	if size == 0 {
		size = 1
	}
	return Geometry{CellSize: size, OriginX: gs.OriginX, OriginY: gs.OriginY}
}

// CellToWorld y 向下增加，外部空間 y 向上增加
func (g Geometry) CellToWorld(x, y int, depth float64) Vec3 {
	return Vec3{
		X: g.OriginX + float64(x)*g.CellSize,
		Y: g.OriginY - float64(y)*g.CellSize,
		Z: depth,
	}
}
