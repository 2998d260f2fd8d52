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

// Package sampler 盤面生成用的加權抽樣。
//
// 形狀權重在設定載入後就不再變動，建表一次、每次生成 O(1) 抽樣，
// 全程整數運算，相同 seed 在任何平台抽出相同序列。
package sampler

import (
	"math"
	"math/bits"

	"github.com/zintix-labs/matchlab/sdk/core"
)

// AliasTable Vose alias method 的整數版本。
//
// Prob[i] 是 weight[i]*Size 經過兩桶調整後的值，Pick 先以 IntN(Size) 選槽，
// 再以 IntN(Total) < Prob[槽] 決定取自己或 Aliases[槽]，每次固定消耗兩個亂數。
type AliasTable struct {
	Prob    []int
	Aliases []int
	Size    int
	Total   int
}

// BuildAliasTable 權重不需正規化，可含 0。
// 負權重、全部為 0 或 total*n 溢位時 panic（設定驗證應先擋下）。
func BuildAliasTable(weights []int) *AliasTable {
	n := len(weights)
	if n == 0 {
		return &AliasTable{Prob: []int{}, Aliases: []int{}}
	}

	total := uint64(0)
	for _, w := range weights {
		if w < 0 {
			panic("AliasTable: negative weight encountered")
		}
		if total > uint64(math.MaxInt)-uint64(w) {
			panic("AliasTable: total weight overflow int range")
		}
		total += uint64(w)
	}
	if total == 0 {
		panic("AliasTable: all weights are zero")
	}
	if !isSafeMultiply(int(total), n) {
		panic("AliasTable: weights are too large, causing overflow")
	}

	tot := int(total)
	prob := make([]int, n)
	aliases := make([]int, n)
	small := make([]int, 0, n)
	large := make([]int, 0, n)
	for i, w := range weights {
		prob[i] = w * n
		if prob[i] < tot {
			small = append(small, i)
		} else {
			large = append(large, i)
		}
	}

	for len(small) > 0 && len(large) > 0 {
		s := small[len(small)-1]
		small = small[:len(small)-1]
		l := large[len(large)-1]
		large = large[:len(large)-1]

		// s 不足的部分由 l 補上，sum(prob) 維持 total*n
		aliases[s] = l
		prob[l] = prob[l] + prob[s] - tot
		if prob[l] < tot {
			small = append(small, l)
		} else {
			large = append(large, l)
		}
	}

	return &AliasTable{Prob: prob, Aliases: aliases, Size: n, Total: tot}
}

func isSafeMultiply(a, b int) bool {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return hi == 0 && lo <= math.MaxInt64
}

// Pick 空表回傳 -1
func (at *AliasTable) Pick(c *core.Core) int {
	if at.Size == 0 {
		return -1
	}
	idx := c.IntN(at.Size)
	if c.IntN(at.Total) < at.Prob[idx] {
		return idx
	}
	return at.Aliases[idx]
}
