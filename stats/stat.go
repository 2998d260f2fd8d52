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
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// CascadeReport 連鎖統計報告
type CascadeReport struct {
	Summary *SummaryReport `json:"Summary"`
	Depth   *DepthReport   `json:"Depth"`
	Dist    *DistReport    `json:"Dist"`
	isDone  bool
}

type SummaryReport struct {
	BoardName        string  `json:"BoardName"`
	BoardID          int     `json:"BoardID"`
	Games            int     `json:"Games"`
	Moves            int     `json:"Moves"`
	MovesPerGame     float64 `json:"MovesPerGame"`
	DeadBoards       int     `json:"DeadBoards"` // 沒有可行交換而提前結束的局數
	CapHits          int     `json:"CapHits"`
	Cleared          int     `json:"Cleared"`
	ClearedPerMove   float64 `json:"ClearedPerMove"`
	ObstaclesCleared int     `json:"ObstaclesCleared"`
	SpecialsSpawned  int     `json:"SpecialsSpawned"`
}

// DepthReport 連鎖深度（每次交換的消除輪數）
type DepthReport struct {
	Mean float64 `json:"Mean"`
	Std  float64 `json:"Std"`
	CI   CI      `json:"CI"`
	Max  int     `json:"Max"`
}

// DistReport 分布
type DistReport struct {
	Depths       []int     `json:"Depths"`
	DepthCollect []int     `json:"DepthCollect"`
	DepthDist    []float64 `json:"DepthDist"`
	ClearBucket  []string  `json:"ClearBucket"`
	ClearCollect []int     `json:"ClearCollect"`
	ClearDist    []float64 `json:"ClearDist"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 由累積計數一次性算出比例、平均、標準差與 95% 信賴區間
func (r *CascadeReport) Done() {
	if r.isDone {
		return
	}
	s := r.Summary
	if s.Games > 0 {
		s.MovesPerGame = float64(s.Moves) / float64(s.Games)
	}
	if s.Moves > 0 {
		s.ClearedPerMove = float64(s.Cleared) / float64(s.Moves)
	}

	d := r.Dist
	d.DepthDist = ratio(d.DepthCollect, s.Moves)
	d.ClearDist = ratio(d.ClearCollect, s.Moves)

	r.Depth = depthReport(d.Depths, d.DepthCollect)
	r.isDone = true
}

func (r *CascadeReport) WriteWith(w io.Writer, rep Render) error {
	r.Done()
	return rep.Write(w, r)
}

// StdOut 印出耗時與摘要表
func (r *CascadeReport) StdOut(ut time.Duration) {
	r.Done()
	formatDuration(ut, r.Summary.Moves)
	keys, msg := r.fmtBasic()
	fmt.Println(fmtTable(r.Summary.BoardName, keys, msg))
}

// Table 摘要表字串
func (r *CascadeReport) Table() string {
	r.Done()
	keys, msg := r.fmtBasic()
	return fmtTable(r.Summary.BoardName, keys, msg)
}

// ============================================================
// ** 內部方法 **
// ============================================================

func ratio(collect []int, total int) []float64 {
	out := make([]float64, len(collect))
	if total == 0 {
		return out
	}
	for i, c := range collect {
		out[i] = float64(c) / float64(total)
	}
	return out
}

// depthReport 以次數為權重計算樣本平均與標準差，CI 用 Student-t
func depthReport(depths, counts []int) *DepthReport {
	rep := &DepthReport{}
	n := 0
	x := make([]float64, len(depths))
	w := make([]float64, len(depths))
	for i, d := range depths {
		x[i] = float64(d)
		w[i] = float64(counts[i])
		n += counts[i]
		if counts[i] > 0 && d > rep.Max {
			rep.Max = d
		}
	}
	if n == 0 {
		return rep
	}
	if n == 1 {
		rep.Mean = stat.Mean(x, w)
		rep.CI = CI{Lo: rep.Mean, Hi: rep.Mean}
		return rep
	}
	rep.Mean, rep.Std = stat.MeanStdDev(x, w)
	t := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(n - 1)}.Quantile(0.975)
	se := rep.Std / math.Sqrt(float64(n))
	rep.CI = CI{Lo: max(rep.Mean-t*se, 0), Hi: rep.Mean + t*se}
	return rep
}

func formatDuration(d time.Duration, moves int) {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	mps := int(float64(moves) / sec)
	if sec < 60.0 {
		p.Printf("used: %.2f seconds\nmps : %d moves/sec\n", sec, mps)
		return
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		p.Printf("used: %dm %ds\nmps : %d moves/sec\n", m, s, mps)
		return
	}
	p.Printf("used: %dh:%dm:%ds\nmps : %d moves/sec\n", h, m, s, mps)
}

func (r *CascadeReport) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	s, d := r.Summary, r.Depth
	basic := map[string]string{
		"Board":             p.Sprintf("%s (#%d)", s.BoardName, s.BoardID),
		"Games":             p.Sprintf("%d", s.Games),
		"Moves":             p.Sprintf("%d", s.Moves),
		"Moves / Game":      p.Sprintf("%.2f", s.MovesPerGame),
		"Dead Boards":       p.Sprintf("%d", s.DeadBoards),
		"Cleared":           p.Sprintf("%d", s.Cleared),
		"Cleared / Move":    p.Sprintf("%.3f", s.ClearedPerMove),
		"Obstacles Cleared": p.Sprintf("%d", s.ObstaclesCleared),
		"Specials Spawned":  p.Sprintf("%d", s.SpecialsSpawned),
		"Cascade Depth":     p.Sprintf("%.3f", d.Mean),
		"Depth 95% CI":      p.Sprintf("[%.3f,%.3f]", d.CI.Lo, d.CI.Hi),
		"Depth STD":         p.Sprintf("%.3f", d.Std),
		"Max Depth":         p.Sprintf("%d", d.Max),
		"Cap Hits":          p.Sprintf("%d", s.CapHits),
	}
	keys := []string{"Board", "Games", "Moves", "Moves / Game", "Dead Boards", "Cleared", "Cleared / Move",
		"Obstacles Cleared", "Specials Spawned", "Cascade Depth", "Depth 95% CI", "Depth STD", "Max Depth", "Cap Hits"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		maxKeyLen = max(maxKeyLen, runewidth.StringWidth(k))
		maxValLen = max(maxValLen, runewidth.StringWidth(m))
	}
	maxKeyLen += 2
	maxValLen += 2

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var b strings.Builder
	b.WriteString(top)
	b.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	b.WriteString(divider)
	for _, k := range keys {
		b.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	b.WriteString(divider)
	return b.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
