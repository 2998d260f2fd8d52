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

package stats

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// Render 報表輸出格式
type Render interface {
	Write(w io.Writer, r *CascadeReport) error
}

// RenderByName json / yaml / text，未知名稱回傳 false
func RenderByName(name string) (Render, bool) {
	switch name {
	case "json":
		return &JsonRender{}, true
	case "yaml", "yml":
		return &YAMLRender{}, true
	case "text", "table":
		return &TextRender{}, true
	}
	return nil, false
}

// Json渲染
type JsonRender struct{}

func (jr *JsonRender) Write(w io.Writer, r *CascadeReport) error {
	return json.NewEncoder(w).Encode(r)
}

// YAML渲染
type YAMLRender struct{}

func (yr *YAMLRender) Write(w io.Writer, r *CascadeReport) error {
	return forceReadableList(w, r)
}

// 表格渲染
type TextRender struct{}

func (tr *TextRender) Write(w io.Writer, r *CascadeReport) error {
	_, err := io.WriteString(w, r.Table())
	return err
}

// forceReadableList 最內層的一維陣列輸出成 flow style: [a, b, c]，外層維持展開
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	flowInnerSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func flowInnerSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	nested := false
	for _, c := range n.Content {
		if c != nil && c.Kind == yaml.SequenceNode {
			nested = true
		}
		flowInnerSequences(c)
	}
	if n.Kind == yaml.SequenceNode && !nested {
		n.Style = yaml.FlowStyle
	}
}
