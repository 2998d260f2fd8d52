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

// Visual 形狀的視覺綁定
type Visual struct {
	Name  string `json:"name"`
	Glyph string `json:"glyph"`
	Color string `json:"color"`
}

// ShapeRegistry Shape -> Visual
type ShapeRegistry struct {
	visuals []Visual
	byName  map[string]Shape
}

func NewShapeRegistry(settings []spec.ShapeSetting) *ShapeRegistry {
	r := &ShapeRegistry{
		visuals: make([]Visual, len(settings)),
		byName:  make(map[string]Shape, len(settings)),
	}
	for i, s := range settings {
		glyph := s.Glyph
		if glyph == "" && s.Name != "" {
			glyph = s.Name[:1]
		}
		r.visuals[i] = Visual{Name: s.Name, Glyph: glyph, Color: s.Color}
		r.byName[s.Name] = Shape(i)
	}
	return r
}

func (r *ShapeRegistry) Len() int { return len(r.visuals) }

// Visual NoShape 或越界回傳 false
func (r *ShapeRegistry) Visual(s Shape) (Visual, bool) {
	if s < 0 || int(s) >= len(r.visuals) {
		return Visual{}, false
	}
	return r.visuals[s], true
}

func (r *ShapeRegistry) Lookup(name string) (Shape, bool) {
	s, ok := r.byName[name]
	return s, ok
}
