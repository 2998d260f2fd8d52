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

import "fmt"

// ClearBuckets 單次交換（含連鎖）消除數的區間
//
// 請勿修改預設值
//   - 區間: [0,3), [3,4), [4,5), [5,7), [7,10), [10,15), [15,25), [25,50), [50,+inf)
var ClearBuckets = NewBuckets([]int{0, 3, 4, 5, 7, 10, 15, 25, 50})

// Buckets 以查表把計數 O(1) 定位到區間
type Buckets struct {
	edges  []int
	labels []string
	lut    []int // lut[v] = 區間索引, v < 最後一個邊界
}

// NewBuckets edges 需遞增且第一個為 0
func NewBuckets(edges []int) *Buckets {
	b := &Buckets{edges: edges, labels: make([]string, len(edges))}
	for i, lo := range edges {
		if i+1 < len(edges) {
			b.labels[i] = fmt.Sprintf("[%d,%d)", lo, edges[i+1])
		} else {
			b.labels[i] = fmt.Sprintf("[%d,+inf)", lo)
		}
	}
	last := edges[len(edges)-1]
	b.lut = make([]int, last)
	idx := 0
	for v := 0; v < last; v++ {
		for idx+1 < len(edges) && v >= edges[idx+1] {
			idx++
		}
		b.lut[v] = idx
	}
	return b
}

func (b *Buckets) Len() int { return len(b.edges) }

func (b *Buckets) Labels() []string { return b.labels }

// Index 負數視為 0
func (b *Buckets) Index(v int) int {
	if v < 0 {
		v = 0
	}
	if v < len(b.lut) {
		return b.lut[v]
	}
	return len(b.edges) - 1
}
